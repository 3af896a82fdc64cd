package model

// === WIRE FORMAT ===
// Request and response bodies of the eligibility API. The server and the
// client both use these types, so the two sides cannot drift apart.
//
// Every response carries "status": "success", "failure" (a business answer
// such as "not eligible" or "invalid register number") or "error" (the
// server could not answer).

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusError   = "error"
)

// StudentInfoRequest is the body of POST /get_student_info.
type StudentInfoRequest struct {
	RegisterNumber string `json:"register_number" validate:"required,regno"`
}

// EligibilityRequest is the body of POST /check_eligibility.
type EligibilityRequest struct {
	RegisterNumber string `json:"register_number" validate:"required,regno"`
	CourseTitle    string `json:"course_title" validate:"required,max=200"`
}

// SuggestionsRequest is the body of POST /get_course_suggestions.
type SuggestionsRequest struct {
	RegisterNumber     string `json:"register_number" validate:"required,regno"`
	PartialCourseTitle string `json:"partial_course_title" validate:"required,max=200"`
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	CourseTitle string `json:"course_title" validate:"required,max=200"`
}

// StudentInfoResponse answers /get_student_info. On failure only Status and
// Message are set.
type StudentInfoResponse struct {
	Status      string      `json:"status"`
	Message     string      `json:"message,omitempty"`
	Department  string      `json:"department,omitempty"`
	StudentYear StudentYear `json:"student_year"`
	Regulation  string      `json:"regulation,omitempty"`
}

// EligibilityResponse answers /check_eligibility and /search.
type EligibilityResponse struct {
	Status          string   `json:"status"`
	Message         string   `json:"message,omitempty"`
	RelevantCourses []string `json:"relevant_courses,omitempty"`
}

// SuggestionsResponse answers /get_course_suggestions.
type SuggestionsResponse struct {
	Status      string   `json:"status"`
	Message     string   `json:"message,omitempty"`
	Suggestions []string `json:"suggestions"`
}

// StatusResponse is the body of error responses and of GET /health.
type StatusResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	Catalog *CatalogLoad `json:"catalog,omitempty"`
}
