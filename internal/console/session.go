package console

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/sakif/course-eligibility/internal/form"
)

const helpText = `commands:
  reg <number>   type a register number (looked up after a short pause)
  title <text>   type a course title (shows suggestions)
  check          check the current course title
  pick <n>       choose suggestion n and check it
  help           show this list
  quit           leave
`

// Session reads commands line by line and feeds them to a form.Controller.
type Session struct {
	controller *form.Controller
	view       *View
	in         io.Reader
}

// NewSession creates a Session. view must be the View the controller renders into.
func NewSession(controller *form.Controller, view *View, in io.Reader) *Session {
	return &Session{controller: controller, view: view, in: in}
}

// Run processes commands until quit, end of input or ctx is done. A cancelled
// ctx ends Run even while it waits for a line; the reader goroutine then
// exits on its next line or at end of input.
func (s *Session) Run(ctx context.Context) error {
	s.view.printf("%s", helpText)

	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	// The scanner blocks until a whole line arrives, so it gets its own
	// goroutine and Run stays free to notice cancellation.
	go func() {
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case line := <-lines:
			if ctx.Err() != nil {
				return nil
			}
			if !s.handle(ctx, line) {
				return nil
			}
		}
	}
}

// handle runs one command line and reports whether the session continues.
func (s *Session) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "reg":
		s.controller.RegisterNumberChanged(ctx, arg)
	case "title":
		s.controller.CourseTitleChanged(ctx, arg)
	case "check":
		s.controller.Submit(ctx)
	case "pick":
		n, err := strconv.Atoi(arg)
		if err != nil {
			s.view.printf("usage: pick <n>\n")
			return true
		}
		title, ok := s.view.Suggestion(n)
		if !ok {
			s.view.printf("no suggestion %d\n", n)
			return true
		}
		s.controller.SelectSuggestion(ctx, title)
	case "help", "?":
		s.view.printf("%s", helpText)
	case "quit", "exit":
		return false
	default:
		s.view.printf("unknown command %q, type help\n", cmd)
	}
	return true
}
