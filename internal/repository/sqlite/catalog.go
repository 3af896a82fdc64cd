package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/course-eligibility/internal/apperror"
	"github.com/sakif/course-eligibility/internal/model"
	"github.com/sakif/course-eligibility/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// If *DB stops satisfying repository.CatalogRepository, this line fails to compile.
var _ repository.CatalogRepository = (*DB)(nil)

const defaultSearchLimit = 50

// ReplaceCatalog deletes the stored catalog and inserts cat in its place.
//
// Everything happens inside one transaction, so a concurrent lookup sees
// either the whole old catalog or the whole new one. If any insert fails the
// transaction rolls back and the old catalog stays.
//
// The load is recorded in catalog_loads with an xid identifier (20 chars,
// URL-safe, sortable by creation time).
func (db *DB) ReplaceCatalog(ctx context.Context, cat *model.Catalog, source string) (*model.CatalogLoad, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: beginning catalog replace: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer tx.Rollback()

	// === CLEAR ===
	// curricula first: they reference departments.
	for _, table := range []string{"curricula", "departments", "sheet_courses", "online_courses"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return nil, fmt.Errorf("sqlite: clearing %s: %w", table, err)
		}
	}

	load := &model.CatalogLoad{
		ID:       xid.New().String(),
		Source:   source,
		LoadedAt: time.Now().UTC(),
	}

	// === DEPARTMENTS & CURRICULA ===
	for _, dept := range cat.Departments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO departments (code, name) VALUES (?, ?)`,
			dept.Code, dept.Name,
		); err != nil {
			return nil, fmt.Errorf("sqlite: inserting department %s: %w", dept.Code, err)
		}

		for _, cur := range dept.Curricula {
			years := cur.Years
			if len(years) == 0 {
				years = []int{0} // 0 = every year
			}
			for _, year := range years {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO curricula (department_code, year, sheet) VALUES (?, ?, ?)`,
					dept.Code, year, cur.Sheet,
				); err != nil {
					return nil, fmt.Errorf("sqlite: inserting curriculum %s/%d: %w", dept.Code, year, err)
				}
			}
		}
		load.Departments++
	}

	// === SHEET COURSES ===
	// PREPARED STATEMENTS:
	// These inserts run hundreds of times with different values. Preparing once
	// lets SQLite parse the SQL a single time.
	sheetStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sheet_courses (sheet, position, title, title_key, category) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: preparing sheet course insert: %w", err)
	}
	defer sheetStmt.Close()

	for _, sheet := range cat.Sheets {
		for i, course := range sheet.Courses {
			if _, err := sheetStmt.ExecContext(ctx,
				sheet.Name,
				i,
				strings.TrimSpace(course.Title),
				model.TitleKey(course.Title),
				strings.ToUpper(strings.TrimSpace(course.Category)),
			); err != nil {
				return nil, fmt.Errorf("sqlite: inserting course %q into %s: %w", course.Title, sheet.Name, err)
			}
			load.SheetCourses++
		}
	}

	// === ONLINE COURSES ===
	onlineStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO online_courses (position, title, title_key) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: preparing online course insert: %w", err)
	}
	defer onlineStmt.Close()

	for i, title := range cat.OnlineCourses {
		if _, err := onlineStmt.ExecContext(ctx, i, strings.TrimSpace(title), model.TitleKey(title)); err != nil {
			return nil, fmt.Errorf("sqlite: inserting online course %q: %w", title, err)
		}
		load.OnlineCourses++
	}

	// === RECORD THE LOAD ===
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO catalog_loads (id, source, departments, sheet_courses, online_courses, loaded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		load.ID, load.Source, load.Departments, load.SheetCourses, load.OnlineCourses, load.LoadedAt,
	); err != nil {
		return nil, fmt.Errorf("sqlite: recording catalog load: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing catalog replace: %w", err)
	}

	return load, nil
}

// LatestLoad returns the most recent catalog load.
// Returns apperror.ErrNotFound if the catalog was never loaded.
func (db *DB) LatestLoad(ctx context.Context) (*model.CatalogLoad, error) {
	var load model.CatalogLoad
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, source, departments, sheet_courses, online_courses, loaded_at
		 FROM catalog_loads
		 ORDER BY loaded_at DESC, id DESC
		 LIMIT 1`,
	).Scan(
		&load.ID,
		&load.Source,
		&load.Departments,
		&load.SheetCourses,
		&load.OnlineCourses,
		&load.LoadedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("no catalog has been loaded")
		}
		return nil, fmt.Errorf("sqlite: getting latest catalog load: %w", err)
	}
	return &load, nil
}

// GetDepartment returns a department and its curricula.
func (db *DB) GetDepartment(ctx context.Context, code string) (*model.Department, error) {
	dept := model.Department{Code: code}
	err := db.conn.QueryRowContext(ctx,
		`SELECT name FROM departments WHERE code = ?`,
		code,
	).Scan(&dept.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound(fmt.Sprintf("department %s not found", code))
		}
		return nil, fmt.Errorf("sqlite: getting department %s: %w", code, err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT year, sheet FROM curricula WHERE department_code = ? ORDER BY year`,
		code,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing curricula for %s: %w", code, err)
	}
	defer rows.Close()

	// Rows are stored one per year; fold them back into one Curriculum per sheet.
	bySheet := make(map[string]int)
	for rows.Next() {
		var (
			year  int
			sheet string
		)
		if err := rows.Scan(&year, &sheet); err != nil {
			return nil, fmt.Errorf("sqlite: scanning curriculum row: %w", err)
		}
		idx, ok := bySheet[sheet]
		if !ok {
			idx = len(dept.Curricula)
			bySheet[sheet] = idx
			dept.Curricula = append(dept.Curricula, model.Curriculum{Sheet: sheet})
		}
		if year > 0 {
			dept.Curricula[idx].Years = append(dept.Curricula[idx].Years, year)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating curricula: %w", err)
	}

	return &dept, nil
}

// SheetFor picks the curriculum sheet for a department and study year.
//
// A year-specific curriculum wins over a year-independent one (year 0).
// year == 0 (graduated or unknown) only matches year-independent curricula.
func (db *DB) SheetFor(ctx context.Context, departmentCode string, year int) (string, error) {
	var sheet string
	err := db.conn.QueryRowContext(ctx,
		`SELECT sheet FROM curricula
		 WHERE department_code = ? AND year IN (?, 0)
		 ORDER BY year DESC
		 LIMIT 1`,
		departmentCode, year,
	).Scan(&sheet)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", apperror.NotFound(fmt.Sprintf("no curriculum for department %s year %d", departmentCode, year))
		}
		return "", fmt.Errorf("sqlite: finding curriculum for %s: %w", departmentCode, err)
	}
	return sheet, nil
}

// FindSheetCourse returns the first course on sheet whose key equals titleKey.
func (db *DB) FindSheetCourse(ctx context.Context, sheet, titleKey string) (*model.Course, error) {
	var course model.Course
	err := db.conn.QueryRowContext(ctx,
		`SELECT title, category FROM sheet_courses
		 WHERE sheet = ? AND title_key = ?
		 ORDER BY position
		 LIMIT 1`,
		sheet, titleKey,
	).Scan(&course.Title, &course.Category)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound(fmt.Sprintf("course %q not on sheet %s", titleKey, sheet))
		}
		return nil, fmt.Errorf("sqlite: finding course on %s: %w", sheet, err)
	}
	return &course, nil
}

// OnlineCourseExists reports whether an online course has exactly this key.
func (db *DB) OnlineCourseExists(ctx context.Context, titleKey string) (bool, error) {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM online_courses WHERE title_key = ?)`,
		titleKey,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking online course: %w", err)
	}
	return exists, nil
}

// SearchOnlineCourses returns distinct online-course titles containing fragment.
//
// instr() matches the fragment literally: "%" and "_" have no special meaning,
// unlike LIKE. Both sides go through model.TitleKey, which makes the match
// case-insensitive for non-ASCII letters too.
//
// GROUP BY title collapses duplicate rows; ORDER BY MIN(position) keeps the
// first occurrence's place in the catalog.
func (db *DB) SearchOnlineCourses(ctx context.Context, fragment string, opts repository.SearchOptions) ([]string, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT title FROM online_courses
		 WHERE instr(title_key, ?) > 0
		 GROUP BY title
		 ORDER BY MIN(position)
		 LIMIT ?`,
		model.TitleKey(fragment), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: searching online courses: %w", err)
	}
	defer rows.Close()

	titles := make([]string, 0, limit)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("sqlite: scanning online course row: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating online courses: %w", err)
	}

	return titles, nil
}
