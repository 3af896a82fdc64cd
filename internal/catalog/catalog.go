// Package catalog reads the course catalog file and keeps the stored copy fresh.
//
// The catalog file is YAML:
//
//	departments:
//	  - code: "01"
//	    name: Computer Science and Engineering
//	    curricula:
//	      - sheet: CSE - II Years
//	        years: [1, 2]
//	      - sheet: CSE - Mapped, III & IV Years
//	        years: [3, 4]
//	sheets:
//	  - name: CSE - II Years
//	    courses:
//	      - {title: Data Structures, category: PC}
//	online_courses:
//	  - Data Science for Engineers
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sakif/course-eligibility/internal/model"
)

// Parse decodes and validates a catalog document.
//
// Unknown keys are rejected so that a typo like "online_course" fails loudly
// instead of silently producing an empty catalog.
func Parse(r io.Reader) (*model.Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cat model.Catalog
	if err := dec.Decode(&cat); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog: document is empty")
		}
		return nil, fmt.Errorf("catalog: decoding: %w", err)
	}

	if err := Validate(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// LoadFile opens path and parses it.
func LoadFile(path string) (*model.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: opening %s: %w", path, err)
	}
	defer f.Close()

	cat, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Validate checks the references inside a catalog:
//   - department codes are two digits and unique
//   - every curriculum names a sheet that exists
//   - study years are 1–4 and no year is claimed by two curricula
//   - sheet names are unique and courses have titles
func Validate(cat *model.Catalog) error {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	sheets := make(map[string]bool, len(cat.Sheets))
	for i, sheet := range cat.Sheets {
		if strings.TrimSpace(sheet.Name) == "" {
			addf("sheets[%d]: name is required", i)
			continue
		}
		if sheets[sheet.Name] {
			addf("sheet %q is defined twice", sheet.Name)
		}
		sheets[sheet.Name] = true
		for j, course := range sheet.Courses {
			if strings.TrimSpace(course.Title) == "" {
				addf("sheet %q courses[%d]: title is required", sheet.Name, j)
			}
		}
	}

	codes := make(map[string]bool, len(cat.Departments))
	for i, dept := range cat.Departments {
		if !isTwoDigits(dept.Code) {
			addf("departments[%d]: code %q must be two digits", i, dept.Code)
		}
		if codes[dept.Code] {
			addf("department %q is defined twice", dept.Code)
		}
		codes[dept.Code] = true

		if strings.TrimSpace(dept.Name) == "" {
			addf("department %q: name is required", dept.Code)
		}

		claimed := make(map[int]bool)
		for _, cur := range dept.Curricula {
			if !sheets[cur.Sheet] {
				addf("department %q: unknown sheet %q", dept.Code, cur.Sheet)
			}
			years := cur.Years
			if len(years) == 0 {
				years = []int{0} // applies to every year
			} else {
				for _, year := range years {
					if year < 1 || year > 4 {
						addf("department %q: year %d out of range 1-4", dept.Code, year)
					}
				}
			}
			for _, year := range years {
				if claimed[year] {
					addf("department %q: year %d has more than one curriculum", dept.Code, year)
				}
				claimed[year] = true
			}
		}
	}

	for i, title := range cat.OnlineCourses {
		if strings.TrimSpace(title) == "" {
			addf("online_courses[%d]: title is required", i)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("catalog: invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}

func isTwoDigits(s string) bool {
	return len(s) == 2 && s[0] >= '0' && s[0] <= '9' && s[1] >= '0' && s[1] <= '9'
}
