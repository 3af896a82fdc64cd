// Package form holds the behaviour of the course eligibility lookup form,
// independent of how the form is drawn.
//
// THE FORM:
//
//	register number  ──(1s quiet)──▶ /get_student_info       ──▶ student-info panel
//	course title     ──(keystroke)──▶ /get_course_suggestions ──▶ suggestion list
//	submit / pick    ───────────────▶ /check_eligibility      ──▶ message + relevant courses
//
// The Controller owns the form state and decides what the View shows.
// Each of the three request streams carries a generation number: a
// response that arrives after a newer request of the same stream started
// is dropped, so a slow answer never overwrites a newer one.
package form

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sakif/course-eligibility/internal/model"
	"github.com/sakif/course-eligibility/internal/regno"
)

// DefaultDebounce is the quiet period before a register number is looked up.
const DefaultDebounce = time.Second

// Messages shown by the form itself. Everything else comes from the server.
const (
	MsgInvalidRegisterNumber  = "Please enter a valid 12-digit Register Number."
	MsgRegisterNumberFirst    = "Please enter a valid 12-digit Register Number first."
	MsgCourseTitleRequired    = "Please enter a course title."
	MsgStudentInfoUnavailable = "Error fetching student info. Please try again later."
	MsgEligibilityUnavailable = "Error checking course eligibility. Please try again later."
	EligibilityStatusPrefix   = "Eligibility Status: "
)

const regulationPrefix = "Course Code "

// Backend is the eligibility API as the form sees it. *client.Client implements it.
type Backend interface {
	StudentInfo(ctx context.Context, registerNumber string) (*model.StudentInfoResponse, error)
	CheckEligibility(ctx context.Context, registerNumber, courseTitle string) (*model.EligibilityResponse, error)
	CourseSuggestions(ctx context.Context, registerNumber, partialTitle string) (*model.SuggestionsResponse, error)
}

// Controller drives one form.
//
// All methods are safe to call from any goroutine. The lock is never held
// across a Backend call; it is held while the View is updated, so the
// check "is this response still current?" and the update are atomic.
type Controller struct {
	backend  Backend
	view     View
	logger   *slog.Logger
	debounce *Debouncer

	mu             sync.Mutex
	registerNumber string
	courseTitle    string
	lastChecked    string
	infoGen        uint64
	checkGen       uint64
	suggestGen     uint64
	inFlight       int
}

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce sets the register-number quiet period.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		c.debounce = NewDebouncer(d)
	}
}

// NewController creates a Controller that renders into view.
func NewController(backend Backend, view View, logger *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		backend:  backend,
		view:     view,
		logger:   logger,
		debounce: NewDebouncer(DefaultDebounce),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close cancels a pending register-number lookup.
func (c *Controller) Close() {
	c.debounce.Stop()
}

// === REGISTER NUMBER ===

// RegisterNumberChanged records a keystroke in the register-number field.
// The lookup runs once the field has been quiet for the debounce period,
// with whatever value the field holds by then.
func (c *Controller) RegisterNumberChanged(ctx context.Context, value string) {
	c.mu.Lock()
	c.registerNumber = value
	c.mu.Unlock()

	c.debounce.Trigger(func() {
		c.lookupStudent(ctx)
	})
}

func (c *Controller) lookupStudent(ctx context.Context) {
	c.mu.Lock()
	c.infoGen++
	gen := c.infoGen
	registerNumber := c.registerNumber

	c.view.ClearMessage()
	c.view.HideStudentInfo()

	if !regno.Valid(registerNumber) {
		c.view.SetRegisterNumberState(FieldInvalid)
		c.view.ShowMessage(MsgInvalidRegisterNumber, StyleError)
		c.mu.Unlock()
		return
	}
	c.view.SetRegisterNumberState(FieldValid)
	c.beginRequestLocked()
	c.mu.Unlock()

	res, err := c.backend.StudentInfo(ctx, registerNumber)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.endRequestLocked()

	if gen != c.infoGen {
		return
	}
	if err != nil {
		c.logger.Warn("student info request failed",
			slog.String("register_number", registerNumber),
			slog.String("error", err.Error()),
		)
		c.view.ShowMessage(MsgStudentInfoUnavailable, StyleWarning)
		return
	}

	if res.Status != model.StatusSuccess {
		c.view.ShowStudentInfoError(res.Message)
		return
	}
	c.view.ShowStudentInfo(StudentDetails{
		Department: res.Department,
		Year:       res.StudentYear.String(),
		Regulation: strings.Replace(res.Regulation, regulationPrefix, "", 1),
	})
}

// === ELIGIBILITY ===

// Submit checks the current course title, as Enter or the action button would.
//
// Submitting the title that was last checked again does nothing beyond
// clearing the panels, so repeated presses cost no requests.
func (c *Controller) Submit(ctx context.Context) {
	c.mu.Lock()
	title := c.courseTitle
	registerNumber := c.registerNumber

	c.view.ClearMessage()
	c.view.HideRelevantCourses()
	c.clearSuggestionsLocked()

	if c.lastChecked != "" && title == c.lastChecked {
		c.mu.Unlock()
		return
	}
	if !regno.Valid(registerNumber) {
		c.view.ShowMessage(MsgRegisterNumberFirst, StyleError)
		c.mu.Unlock()
		return
	}
	if strings.TrimSpace(title) == "" {
		c.view.ShowMessage(MsgCourseTitleRequired, StyleError)
		c.mu.Unlock()
		return
	}

	c.checkGen++
	gen := c.checkGen
	c.beginRequestLocked()
	c.mu.Unlock()

	res, err := c.backend.CheckEligibility(ctx, registerNumber, title)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.endRequestLocked()

	if gen != c.checkGen {
		return
	}
	if err != nil {
		c.logger.Warn("eligibility request failed",
			slog.String("course_title", title),
			slog.String("error", err.Error()),
		)
		c.view.ShowMessage(MsgEligibilityUnavailable, StyleWarning)
		return
	}

	if len(res.RelevantCourses) > 0 {
		c.view.ShowRelevantCourses(res.RelevantCourses)
	}
	if res.Status == model.StatusSuccess {
		c.view.ShowMessage(EligibilityStatusPrefix+res.Message, StyleSuccess)
	} else {
		c.view.ShowMessage(res.Message, StyleError)
	}
	c.lastChecked = title
}

// === SUGGESTIONS ===

// CourseTitleChanged records a keystroke in the course-title field and
// refreshes the suggestion list.
//
// An empty field resets the form's result panels and forgets the last
// checked title, so the same course can be checked again.
func (c *Controller) CourseTitleChanged(ctx context.Context, value string) {
	c.mu.Lock()
	c.courseTitle = value
	registerNumber := c.registerNumber

	if strings.TrimSpace(value) == "" {
		c.clearSuggestionsLocked()
		c.view.HideRelevantCourses()
		c.view.ClearMessage()
		c.lastChecked = ""
		c.checkGen++ // a pending check must not repaint the cleared panels
		c.mu.Unlock()
		return
	}
	if !regno.Valid(registerNumber) {
		c.clearSuggestionsLocked()
		c.mu.Unlock()
		return
	}

	c.suggestGen++
	gen := c.suggestGen
	c.mu.Unlock()

	res, err := c.backend.CourseSuggestions(ctx, registerNumber, value)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.suggestGen {
		return
	}
	if err != nil {
		// No message for this one: the list simply stays as it was.
		c.logger.Warn("course suggestions request failed", slog.String("error", err.Error()))
		return
	}
	if res.Status != model.StatusSuccess {
		c.view.ClearSuggestions()
		return
	}

	titles := dedupe(res.Suggestions)
	if len(titles) == 0 {
		c.view.ClearSuggestions()
		return
	}
	c.view.ShowSuggestions(titles)
}

// SelectSuggestion puts a suggested title in the course-title field and
// checks it straight away.
func (c *Controller) SelectSuggestion(ctx context.Context, title string) {
	c.mu.Lock()
	c.courseTitle = title
	c.view.SetCourseTitle(title)
	c.clearSuggestionsLocked()
	c.mu.Unlock()

	c.Submit(ctx)
}

// clearSuggestionsLocked empties the list and drops in-flight suggestion
// responses, which would otherwise refill it.
func (c *Controller) clearSuggestionsLocked() {
	c.suggestGen++
	c.view.ClearSuggestions()
}

// The loading indicator is shared by the student-info and eligibility
// streams, so it stays on while either has a request out.
func (c *Controller) beginRequestLocked() {
	c.inFlight++
	if c.inFlight == 1 {
		c.view.SetLoading(true)
	}
}

func (c *Controller) endRequestLocked() {
	c.inFlight--
	if c.inFlight == 0 {
		c.view.SetLoading(false)
	}
}

// dedupe drops repeated titles, keeping the first occurrence's position.
func dedupe(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
