// Package console is a line-oriented front end for the lookup form: a
// form.View that prints to a writer, and a Session that turns typed
// commands into form events.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sakif/course-eligibility/internal/form"
)

// View prints every change of the form as a line of text.
type View struct {
	mu          sync.Mutex
	out         io.Writer
	loading     bool
	suggestions []string
}

// NewView creates a View writing to out.
func NewView(out io.Writer) *View {
	return &View{out: out}
}

var _ form.View = (*View)(nil)

// Suggestion returns the n-th (1-based) suggestion on screen.
func (v *View) Suggestion(n int) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if n < 1 || n > len(v.suggestions) {
		return "", false
	}
	return v.suggestions[n-1], true
}

func (v *View) SetRegisterNumberState(state form.FieldState) {
	switch state {
	case form.FieldValid:
		v.printf("register number: ok\n")
	case form.FieldInvalid:
		v.printf("register number: invalid\n")
	}
}

func (v *View) SetCourseTitle(title string) {
	v.printf("course title: %s\n", title)
}

func (v *View) ShowMessage(text string, style form.Style) {
	switch style {
	case form.StyleSuccess:
		v.printf("[ok] %s\n", text)
	case form.StyleError:
		v.printf("[error] %s\n", text)
	case form.StyleWarning:
		v.printf("[warning] %s\n", text)
	default:
		v.printf("%s\n", text)
	}
}

// ClearMessage prints nothing: a terminal cannot take back a line.
func (v *View) ClearMessage() {}

// SetLoading prints only on the transition into loading.
func (v *View) SetLoading(loading bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if loading && !v.loading {
		fmt.Fprintln(v.out, "loading...")
	}
	v.loading = loading
}

func (v *View) ShowStudentInfo(d form.StudentDetails) {
	v.printf("Department: %s\nYear: %s\nRegulation: %s\n", d.Department, d.Year, d.Regulation)
}

func (v *View) ShowStudentInfoError(message string) {
	v.printf("[error] %s\n", message)
}

func (v *View) HideStudentInfo() {}

func (v *View) ShowRelevantCourses(titles []string) {
	var b strings.Builder
	b.WriteString("Relevant Courses:\n")
	for _, t := range titles {
		fmt.Fprintf(&b, "  - %s\n", t)
	}
	v.printf("%s", b.String())
}

func (v *View) HideRelevantCourses() {}

func (v *View) ShowSuggestions(titles []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.suggestions = append(v.suggestions[:0], titles...)

	fmt.Fprintln(v.out, "suggestions:")
	for i, t := range titles {
		fmt.Fprintf(v.out, "  %d) %s\n", i+1, t)
	}
}

func (v *View) ClearSuggestions() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.suggestions = v.suggestions[:0]
}

func (v *View) printf(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, format, args...)
}
