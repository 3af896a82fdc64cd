package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/course-eligibility/internal/apperror"
	"github.com/sakif/course-eligibility/internal/model"
	"github.com/sakif/course-eligibility/internal/repository"
)

// newTestDB opens a fresh in-memory database for one test.
// t.Helper() makes failures point at the caller's line.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testCatalog() *model.Catalog {
	return &model.Catalog{
		Departments: []model.Department{
			{
				Code: "01",
				Name: "Computer Science and Engineering",
				Curricula: []model.Curriculum{
					{Sheet: "CSE - II Years", Years: []int{1, 2}},
					{Sheet: "CSE - Mapped, III & IV Years", Years: []int{3, 4}},
				},
			},
			{
				Code:      "23",
				Name:      "Artificial Intelligence and Data Science (AIDS)",
				Curricula: []model.Curriculum{{Sheet: "AIDS - Mapped"}},
			},
		},
		Sheets: []model.Sheet{
			{Name: "CSE - II Years", Courses: []model.Course{
				{Title: "Data Structures", Category: "PC"},
				{Title: "Cloud Computing", Category: "pe"},
			}},
			{Name: "CSE - Mapped, III & IV Years", Courses: []model.Course{
				{Title: "Machine Learning", Category: "PE"},
			}},
			{Name: "AIDS - Mapped", Courses: []model.Course{
				{Title: " Data Science ", Category: "PC"},
			}},
		},
		OnlineCourses: []string{
			"Data Structures",
			"Data Science for Engineers",
			"Cloud Computing",
			"Data Science for Engineers",
			"100% Practical Python",
		},
	}
}

func loadTestCatalog(t *testing.T, db *DB) *model.CatalogLoad {
	t.Helper()
	load, err := db.ReplaceCatalog(context.Background(), testCatalog(), "testdata")
	if err != nil {
		t.Fatalf("ReplaceCatalog() error = %v", err)
	}
	return load
}

// =========================================================================
// REPLACE / LOAD TESTS
// =========================================================================

func TestReplaceCatalog_Counts(t *testing.T) {
	db := newTestDB(t)
	load := loadTestCatalog(t, db)

	if load.ID == "" {
		t.Error("ReplaceCatalog() did not set load.ID")
	}
	if load.Departments != 2 {
		t.Errorf("Departments = %d, want 2", load.Departments)
	}
	if load.SheetCourses != 4 {
		t.Errorf("SheetCourses = %d, want 4", load.SheetCourses)
	}
	if load.OnlineCourses != 5 {
		t.Errorf("OnlineCourses = %d, want 5", load.OnlineCourses)
	}
}

func TestReplaceCatalog_ReplacesPreviousCatalog(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	loadTestCatalog(t, db)

	smaller := &model.Catalog{
		Departments: []model.Department{
			{Code: "22", Name: "Information Technology", Curricula: []model.Curriculum{{Sheet: "IT"}}},
		},
		Sheets:        []model.Sheet{{Name: "IT"}},
		OnlineCourses: []string{"Networks"},
	}
	second, err := db.ReplaceCatalog(ctx, smaller, "second")
	if err != nil {
		t.Fatalf("ReplaceCatalog() error = %v", err)
	}

	if _, err := db.GetDepartment(ctx, "01"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("old department still present: err = %v", err)
	}
	exists, err := db.OnlineCourseExists(ctx, "data structures")
	if err != nil {
		t.Fatalf("OnlineCourseExists() error = %v", err)
	}
	if exists {
		t.Error("old online course still present after replace")
	}

	latest, err := db.LatestLoad(ctx)
	if err != nil {
		t.Fatalf("LatestLoad() error = %v", err)
	}
	if latest.ID != second.ID {
		t.Errorf("LatestLoad().ID = %q, want %q", latest.ID, second.ID)
	}
	if latest.Source != "second" {
		t.Errorf("LatestLoad().Source = %q, want %q", latest.Source, "second")
	}
}

func TestReplaceCatalog_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	loadTestCatalog(t, db)

	// Duplicate department codes violate the primary key mid-transaction.
	broken := &model.Catalog{
		Departments: []model.Department{
			{Code: "99", Name: "One"},
			{Code: "99", Name: "Two"},
		},
	}
	if _, err := db.ReplaceCatalog(ctx, broken, "broken"); err == nil {
		t.Fatal("ReplaceCatalog() should fail on duplicate department codes")
	}

	// The first catalog must still be there.
	dept, err := db.GetDepartment(ctx, "01")
	if err != nil {
		t.Fatalf("GetDepartment() after failed replace error = %v", err)
	}
	if dept.Name != "Computer Science and Engineering" {
		t.Errorf("Name = %q", dept.Name)
	}
}

func TestLatestLoad_NeverLoaded(t *testing.T) {
	db := newTestDB(t)

	_, err := db.LatestLoad(context.Background())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("LatestLoad() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// DEPARTMENT / CURRICULUM TESTS
// =========================================================================

func TestGetDepartment_FoldsCurricula(t *testing.T) {
	db := newTestDB(t)
	loadTestCatalog(t, db)

	dept, err := db.GetDepartment(context.Background(), "01")
	if err != nil {
		t.Fatalf("GetDepartment() error = %v", err)
	}
	if len(dept.Curricula) != 2 {
		t.Fatalf("len(Curricula) = %d, want 2", len(dept.Curricula))
	}
	if got := dept.Curricula[0]; got.Sheet != "CSE - II Years" || len(got.Years) != 2 {
		t.Errorf("Curricula[0] = %+v", got)
	}
}

func TestSheetFor(t *testing.T) {
	db := newTestDB(t)
	loadTestCatalog(t, db)

	tests := []struct {
		name     string
		dept     string
		year     int
		want     string
		notFound bool
	}{
		{"first year banded", "01", 1, "CSE - II Years", false},
		{"fourth year banded", "01", 4, "CSE - Mapped, III & IV Years", false},
		{"graduated banded", "01", 0, "", true},
		{"single sheet any year", "23", 3, "AIDS - Mapped", false},
		{"single sheet graduated", "23", 0, "AIDS - Mapped", false},
		{"unknown department", "77", 1, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.SheetFor(context.Background(), tt.dept, tt.year)
			if tt.notFound {
				if !errors.Is(err, apperror.ErrNotFound) {
					t.Errorf("SheetFor() error = %v, want ErrNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SheetFor() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SheetFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

// =========================================================================
// COURSE LOOKUP TESTS
// =========================================================================

func TestFindSheetCourse_NormalisesTitleAndCategory(t *testing.T) {
	db := newTestDB(t)
	loadTestCatalog(t, db)
	ctx := context.Background()

	course, err := db.FindSheetCourse(ctx, "AIDS - Mapped", "data science")
	if err != nil {
		t.Fatalf("FindSheetCourse() error = %v", err)
	}
	if course.Title != "Data Science" {
		t.Errorf("Title = %q, want trimmed %q", course.Title, "Data Science")
	}

	course, err = db.FindSheetCourse(ctx, "CSE - II Years", "cloud computing")
	if err != nil {
		t.Fatalf("FindSheetCourse() error = %v", err)
	}
	if course.Category != "PE" {
		t.Errorf("Category = %q, want upper-cased %q", course.Category, "PE")
	}

	_, err = db.FindSheetCourse(ctx, "CSE - II Years", "machine learning")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("course on another sheet: error = %v, want ErrNotFound", err)
	}
}

func TestSearchOnlineCourses(t *testing.T) {
	db := newTestDB(t)
	loadTestCatalog(t, db)
	ctx := context.Background()

	got, err := db.SearchOnlineCourses(ctx, "DATA", repository.SearchOptions{})
	if err != nil {
		t.Fatalf("SearchOnlineCourses() error = %v", err)
	}
	want := []string{"Data Structures", "Data Science for Engineers"}
	if len(got) != len(want) {
		t.Fatalf("SearchOnlineCourses() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSearchOnlineCourses_LiteralMatch(t *testing.T) {
	db := newTestDB(t)
	loadTestCatalog(t, db)

	// "%" would match everything with LIKE; instr() treats it literally.
	got, err := db.SearchOnlineCourses(context.Background(), "0%", repository.SearchOptions{})
	if err != nil {
		t.Fatalf("SearchOnlineCourses() error = %v", err)
	}
	if len(got) != 1 || got[0] != "100% Practical Python" {
		t.Errorf("SearchOnlineCourses(%q) = %v", "0%", got)
	}
}

func TestSearchOnlineCourses_Limit(t *testing.T) {
	db := newTestDB(t)
	loadTestCatalog(t, db)

	got, err := db.SearchOnlineCourses(context.Background(), "", repository.SearchOptions{Limit: 2})
	if err != nil {
		t.Fatalf("SearchOnlineCourses() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}
