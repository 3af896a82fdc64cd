// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, applies the eligibility rules
//	Repository (Data layer)  → reads the stored course catalog
//
// The service accepts plain strings and returns model values or apperror
// kinds. It never sees an *http.Request and never picks a status code; the
// handler translates apperror kinds into HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sakif/course-eligibility/internal/apperror"
	"github.com/sakif/course-eligibility/internal/model"
	"github.com/sakif/course-eligibility/internal/regno"
	"github.com/sakif/course-eligibility/internal/repository"
)

// Limits on what a single request may ask for or receive.
const (
	MaxTitleLength     = 200
	MaxSuggestions     = 20
	MaxRelevantCourses = 50
)

// User-facing messages. The form shows these verbatim.
const (
	MsgInvalidRegisterNumber = "Invalid Register Number"
	MsgInvalidDepartment     = "Invalid Department Code"
	MsgInvalidAdmissionYear  = "Invalid Admission Year"
	MsgNoCurriculum          = "Invalid Department or Register Number"
	MsgTitleRequired         = "Course title is required"
	MsgTitleTooLong          = "Course title is too long"

	MsgEligible             = "Course is eligible"
	MsgNotEligibleCore      = "ELIGIBILITY STATUS: Not Eligible (Professional Core - PC)"
	MsgRelevantCourses      = "Here are some relevant courses"
	MsgCourseNotFound       = "Course not found in online courses"
	MsgRelevantCoursesFound = "Relevant courses found"
	MsgNoRelevantCourses    = "No relevant courses found"
)

const (
	regulationColumnPrefix = "Course Code "
	catalogResourceName    = "course catalog"
)

// EligibilityService answers the three form lookups plus title search.
type EligibilityService struct {
	repo   repository.CatalogRepository
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an EligibilityService.
type Option func(*EligibilityService)

// WithClock replaces time.Now. Student years depend on the current year,
// so tests pin the clock.
func WithClock(now func() time.Time) Option {
	return func(s *EligibilityService) {
		s.now = now
	}
}

// NewEligibilityService creates a new EligibilityService.
func NewEligibilityService(repo repository.CatalogRepository, logger *slog.Logger, opts ...Option) *EligibilityService {
	s := &EligibilityService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Regulation maps a two-digit admission year to its curriculum regulation.
// Returns "" for years before 2019, which have no mapped regulation.
func Regulation(admissionYear int) string {
	switch {
	case admissionYear >= 19 && admissionYear <= 22:
		return "R2019"
	case admissionYear >= 23:
		return "R2024"
	default:
		return ""
	}
}

// StudentYearAt computes the study year of a student admitted in the
// two-digit admissionYear, as of now.
//
//	(now.Year() mod 100) - admission + 1   in 1..4 → that year
//	                                       > 4     → graduated
//	                                       < 1     → unknown
func StudentYearAt(admissionYear int, now time.Time) model.StudentYear {
	year := now.Year()%100 - admissionYear + 1
	switch {
	case year >= 1 && year <= 4:
		return model.StudentYear{Year: year}
	case year > 4:
		return model.StudentYear{Graduated: true}
	default:
		return model.StudentYear{}
	}
}

// StudentInfo derives department, study year and regulation from a register number.
func (s *EligibilityService) StudentInfo(ctx context.Context, registerNumber string) (*model.StudentInfo, error) {
	admission, err := admissionYear(registerNumber)
	if err != nil {
		return nil, err
	}

	dept, err := s.repo.GetDepartment(ctx, regno.DepartmentCode(registerNumber))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ValidationFailed("register_number", MsgInvalidDepartment)
		}
		s.logger.Error("failed to look up department",
			slog.String("department_code", regno.DepartmentCode(registerNumber)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("student info: %w", err)
	}

	regulation := Regulation(admission)
	if regulation == "" {
		return nil, apperror.ValidationFailed("register_number", MsgInvalidAdmissionYear)
	}

	return &model.StudentInfo{
		Department: dept.Name,
		Year:       StudentYearAt(admission, s.now()),
		Regulation: regulationColumnPrefix + regulation,
	}, nil
}

// CheckEligibility decides whether the student may take courseTitle online.
//
// RULES, in order:
//  1. Find the student's curriculum sheet (department + study year).
//  2. Exact title match among online courses:
//     the same course listed as Professional Core on the sheet → not eligible,
//     otherwise → eligible.
//  3. Substring matches among online courses → "relevant courses" list.
//  4. Nothing matches → not found.
//
// Titles compare trimmed and case-insensitively. A partial title is fine.
func (s *EligibilityService) CheckEligibility(ctx context.Context, registerNumber, courseTitle string) (*model.Decision, error) {
	admission, err := admissionYear(registerNumber)
	if err != nil {
		return nil, err
	}
	key, err := titleKey(courseTitle)
	if err != nil {
		return nil, err
	}

	// === 1. CURRICULUM ===
	// Graduated and unknown years pass 0, which only matches a
	// department-wide curriculum.
	year := StudentYearAt(admission, s.now())
	sheet, err := s.repo.SheetFor(ctx, regno.DepartmentCode(registerNumber), year.Year)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ValidationFailed("register_number", MsgNoCurriculum)
		}
		return nil, fmt.Errorf("checking eligibility: %w", err)
	}

	// === 2. EXACT MATCH ===
	exact, err := s.repo.OnlineCourseExists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("checking eligibility: %w", err)
	}
	if exact {
		course, err := s.repo.FindSheetCourse(ctx, sheet, key)
		switch {
		case err == nil && strings.EqualFold(course.Category, model.CategoryProfessionalCore):
			s.logger.Info("eligibility denied: professional core",
				slog.String("sheet", sheet),
				slog.String("course", course.Title),
			)
			return &model.Decision{Eligible: false, Message: MsgNotEligibleCore}, nil
		case err != nil && !errors.Is(err, apperror.ErrNotFound):
			return nil, fmt.Errorf("checking eligibility: %w", err)
		}
		return &model.Decision{Eligible: true, Message: MsgEligible}, nil
	}

	// === 3. PARTIAL MATCHES ===
	relevant, err := s.repo.SearchOnlineCourses(ctx, key, repository.SearchOptions{Limit: MaxRelevantCourses})
	if err != nil {
		return nil, fmt.Errorf("checking eligibility: %w", err)
	}
	if len(relevant) > 0 {
		return &model.Decision{Eligible: true, Message: MsgRelevantCourses, RelevantCourses: relevant}, nil
	}

	// === 4. NOTHING ===
	return nil, apperror.NotFound(MsgCourseNotFound)
}

// Suggestions returns online-course titles containing partialTitle, for
// autocomplete. The list is distinct and in catalog order.
func (s *EligibilityService) Suggestions(ctx context.Context, registerNumber, partialTitle string) ([]string, error) {
	if !regno.Valid(registerNumber) {
		return nil, apperror.ValidationFailed("register_number", MsgInvalidRegisterNumber)
	}
	key, err := titleKey(partialTitle)
	if err != nil {
		return nil, err
	}

	titles, err := s.repo.SearchOnlineCourses(ctx, key, repository.SearchOptions{Limit: MaxSuggestions})
	if err != nil {
		s.logger.Error("failed to search online courses", slog.String("error", err.Error()))
		return nil, fmt.Errorf("course suggestions: %w", err)
	}
	return titles, nil
}

// Search returns online courses related to title, regardless of student.
func (s *EligibilityService) Search(ctx context.Context, title string) ([]string, error) {
	key, err := titleKey(title)
	if err != nil {
		return nil, err
	}

	titles, err := s.repo.SearchOnlineCourses(ctx, key, repository.SearchOptions{Limit: MaxRelevantCourses})
	if err != nil {
		return nil, fmt.Errorf("searching courses: %w", err)
	}
	if len(titles) == 0 {
		return nil, apperror.NotFound(MsgNoRelevantCourses)
	}
	return titles, nil
}

// CatalogStatus returns the latest catalog load, or ErrUnavailable if the
// catalog was never loaded.
func (s *EligibilityService) CatalogStatus(ctx context.Context) (*model.CatalogLoad, error) {
	load, err := s.repo.LatestLoad(ctx)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unavailable(catalogResourceName)
		}
		return nil, fmt.Errorf("catalog status: %w", err)
	}
	return load, nil
}

// admissionYear validates the register number and returns its admission year.
func admissionYear(registerNumber string) (int, error) {
	if !regno.Valid(registerNumber) {
		return 0, apperror.ValidationFailed("register_number", MsgInvalidRegisterNumber)
	}
	// Valid guarantees two digits, so Atoi cannot fail.
	year, _ := strconv.Atoi(regno.AdmissionYear(registerNumber))
	return year, nil
}

func titleKey(title string) (string, error) {
	key := model.TitleKey(title)
	if key == "" {
		return "", apperror.ValidationFailed("course_title", MsgTitleRequired)
	}
	if len(key) > MaxTitleLength {
		return "", apperror.ValidationFailed("course_title", MsgTitleTooLong)
	}
	return key, nil
}
