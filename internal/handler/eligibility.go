package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/course-eligibility/internal/model"
	"github.com/sakif/course-eligibility/internal/service"
)

// EligibilityService is what the handler needs from the service layer.
// Accepting an interface lets tests hand in a fake instead of a database.
type EligibilityService interface {
	StudentInfo(ctx context.Context, registerNumber string) (*model.StudentInfo, error)
	CheckEligibility(ctx context.Context, registerNumber, courseTitle string) (*model.Decision, error)
	Suggestions(ctx context.Context, registerNumber, partialTitle string) ([]string, error)
	Search(ctx context.Context, title string) ([]string, error)
	CatalogStatus(ctx context.Context) (*model.CatalogLoad, error)
}

// EligibilityHandler serves the lookup form's endpoints.
type EligibilityHandler struct {
	service EligibilityService
	logger  *slog.Logger
}

// NewEligibilityHandler creates a new EligibilityHandler.
func NewEligibilityHandler(svc EligibilityService, logger *slog.Logger) *EligibilityHandler {
	return &EligibilityHandler{service: svc, logger: logger}
}

// HandleStudentInfo describes the student behind a register number.
//
// HTTP: POST /get_student_info
// REQUEST BODY: {"register_number": "311523010001"}
//
// RESPONSE FORMAT:
//
//	{"status":"success","department":"...","student_year":3,"regulation":"Course Code R2024"}
func (h *EligibilityHandler) HandleStudentInfo(w http.ResponseWriter, r *http.Request) {
	var req model.StudentInfoRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	info, err := h.service.StudentInfo(r.Context(), req.RegisterNumber)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.StudentInfoResponse{
		Status:      model.StatusSuccess,
		Department:  info.Department,
		StudentYear: info.Year,
		Regulation:  info.Regulation,
	})
}

// HandleCheckEligibility decides whether a course may be taken online.
//
// HTTP: POST /check_eligibility
// REQUEST BODY: {"register_number": "...", "course_title": "Cloud Computing"}
//
// A "not eligible" decision is still a successful lookup, so it answers
// 200 with status "failure". 4xx is reserved for requests that could not
// be answered.
func (h *EligibilityHandler) HandleCheckEligibility(w http.ResponseWriter, r *http.Request) {
	var req model.EligibilityRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	decision, err := h.service.CheckEligibility(r.Context(), req.RegisterNumber, req.CourseTitle)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	status := model.StatusSuccess
	if !decision.Eligible {
		status = model.StatusFailure
	}
	writeJSON(w, http.StatusOK, model.EligibilityResponse{
		Status:          status,
		Message:         decision.Message,
		RelevantCourses: decision.RelevantCourses,
	})
}

// HandleCourseSuggestions lists online courses matching a partial title.
//
// HTTP: POST /get_course_suggestions
// REQUEST BODY: {"register_number": "...", "partial_course_title": "data"}
//
// No match is not an error: the list is simply empty.
func (h *EligibilityHandler) HandleCourseSuggestions(w http.ResponseWriter, r *http.Request) {
	var req model.SuggestionsRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	titles, err := h.service.Suggestions(r.Context(), req.RegisterNumber, req.PartialCourseTitle)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if titles == nil {
		titles = []string{} // encode as [] rather than null
	}

	writeJSON(w, http.StatusOK, model.SuggestionsResponse{
		Status:      model.StatusSuccess,
		Suggestions: titles,
	})
}

// HandleSearch lists online courses related to a title, for any student.
//
// HTTP: POST /search
// REQUEST BODY: {"course_title": "learning"}
func (h *EligibilityHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req model.SearchRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	titles, err := h.service.Search(r.Context(), req.CourseTitle)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.EligibilityResponse{
		Status:          model.StatusSuccess,
		Message:         service.MsgRelevantCoursesFound,
		RelevantCourses: titles,
	})
}

// HandleHealth reports whether a course catalog has been loaded.
//
// HTTP: GET /health
// 200 with the latest load, or 503 until the first load succeeds.
func (h *EligibilityHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	load, err := h.service.CatalogStatus(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, model.StatusResponse{Status: model.StatusSuccess, Catalog: load})
}
