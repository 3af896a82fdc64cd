// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data: similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// CategoryProfessionalCore marks a curriculum course that a student must take
// in class. An online course with the same title cannot replace it.
const CategoryProfessionalCore = "PC"

// Catalog is the full course catalog as read from the catalog file.
//
// The `yaml:"..."` tags tell gopkg.in/yaml.v3 which keys to read, the same
// way `json:"..."` tags drive encoding/json.
type Catalog struct {
	Departments   []Department `yaml:"departments"`
	Sheets        []Sheet      `yaml:"sheets"`
	OnlineCourses []string     `yaml:"online_courses"`
}

// Department maps a two-digit register-number code to a department and the
// curriculum sheets its students follow.
type Department struct {
	Code      string       `yaml:"code"`
	Name      string       `yaml:"name"`
	Curricula []Curriculum `yaml:"curricula"`
}

// Curriculum selects a sheet for a set of study years.
// An empty Years list applies to every student of the department,
// including graduated students and students whose year is unknown.
type Curriculum struct {
	Sheet string `yaml:"sheet"`
	Years []int  `yaml:"years"`
}

// Sheet is a named curriculum: the courses a department offers in class.
type Sheet struct {
	Name    string   `yaml:"name"`
	Courses []Course `yaml:"courses"`
}

// Course is one row of a curriculum sheet.
type Course struct {
	Title    string `yaml:"title"    json:"title"`
	Category string `yaml:"category" json:"category"`
}

// CatalogLoad records one successful import of the catalog file.
type CatalogLoad struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	Departments   int       `json:"departments"`
	SheetCourses  int       `json:"sheetCourses"`
	OnlineCourses int       `json:"onlineCourses"`
	LoadedAt      time.Time `json:"loadedAt"`
}

// TitleKey normalises a course title for comparison.
//
// Pipeline: NFKC, Unicode case folding, full-width forms to ASCII, then
// runs of whitespace collapse to one space and the ends are trimmed.
// "  Ｄata   SCIENCE " and "data science" share a key.
func TitleKey(title string) string {
	if title == "" {
		return ""
	}
	// transform.Chain keeps state, so each call builds its own.
	folded, _, err := transform.String(transform.Chain(norm.NFKC, cases.Fold(), width.Fold), title)
	if err != nil {
		folded = strings.ToLower(title)
	}
	return strings.Join(strings.Fields(folded), " ")
}
