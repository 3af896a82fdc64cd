package form

// Style is how a message is presented.
type Style int

const (
	StyleNone Style = iota
	StyleSuccess
	StyleError
	StyleWarning // transport failures
)

func (s Style) String() string {
	switch s {
	case StyleSuccess:
		return "success"
	case StyleError:
		return "error"
	case StyleWarning:
		return "warning"
	default:
		return "none"
	}
}

// FieldState marks the register-number field after validation.
type FieldState int

const (
	FieldUnchecked FieldState = iota
	FieldValid
	FieldInvalid
)

// StudentDetails is what the student-info panel shows on success.
type StudentDetails struct {
	Department string
	Year       string
	Regulation string // without the "Course Code " prefix
}

// View is the presentation surface the Controller drives.
//
// The Controller calls View methods while holding its own lock, so an
// implementation must not call back into the Controller from inside them.
type View interface {
	SetRegisterNumberState(state FieldState)
	SetCourseTitle(title string)

	ShowMessage(text string, style Style)
	ClearMessage()

	SetLoading(loading bool)

	ShowStudentInfo(details StudentDetails)
	// ShowStudentInfoError renders a server message inside the student-info panel.
	ShowStudentInfoError(message string)
	HideStudentInfo()

	ShowRelevantCourses(titles []string)
	HideRelevantCourses()

	ShowSuggestions(titles []string)
	ClearSuggestions()
}
