package repository

import (
	"context"

	"github.com/sakif/course-eligibility/internal/model"
)

// CatalogRepository stores the course catalog and answers the lookups the
// eligibility rules need. Title keys are lower-cased and trimmed by the caller.
type CatalogRepository interface {
	// ReplaceCatalog swaps the stored catalog for cat in one transaction.
	ReplaceCatalog(ctx context.Context, cat *model.Catalog, source string) (*model.CatalogLoad, error)
	LatestLoad(ctx context.Context) (*model.CatalogLoad, error)

	GetDepartment(ctx context.Context, code string) (*model.Department, error)
	// SheetFor returns the curriculum sheet for a department and study year.
	// year == 0 means graduated or unknown; only year-independent curricula match.
	SheetFor(ctx context.Context, departmentCode string, year int) (string, error)
	FindSheetCourse(ctx context.Context, sheet, titleKey string) (*model.Course, error)

	OnlineCourseExists(ctx context.Context, titleKey string) (bool, error)
	// SearchOnlineCourses returns distinct titles containing fragment
	// (case-insensitive, literal), in catalog order.
	SearchOnlineCourses(ctx context.Context, fragment string, opts SearchOptions) ([]string, error)
}

type SearchOptions struct {
	Limit int
}
