package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// graduatedLabel is how a student past their fourth year appears on the wire.
const graduatedLabel = "Graduated"

// StudentYear is a student's current year of study.
//
// On the wire it has three shapes, so it needs custom JSON methods:
//
//	3            → Year: 3
//	"Graduated"  → Graduated: true
//	null         → zero value (year unknown)
type StudentYear struct {
	Year      int
	Graduated bool
}

// Known reports whether the year could be determined.
func (y StudentYear) Known() bool {
	return y.Graduated || y.Year > 0
}

func (y StudentYear) String() string {
	switch {
	case y.Graduated:
		return graduatedLabel
	case y.Year > 0:
		return strconv.Itoa(y.Year)
	default:
		return "Unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (y StudentYear) MarshalJSON() ([]byte, error) {
	switch {
	case y.Graduated:
		return json.Marshal(graduatedLabel)
	case y.Year > 0:
		return json.Marshal(y.Year)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (y *StudentYear) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*y = StudentYear{}

	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == graduatedLabel {
			y.Graduated = true
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("model: invalid student year %q", s)
		}
		y.Year = n
		return nil
	}

	return json.Unmarshal(data, &y.Year)
}

// StudentInfo is what the service derives from a register number.
// Regulation holds the curriculum column name, e.g. "Course Code R2024".
type StudentInfo struct {
	Department string
	Year       StudentYear
	Regulation string
}

// Decision is the outcome of an eligibility check.
//
// Eligible=false is a normal answer, not an error: the student asked about a
// real course and the rules said no.
type Decision struct {
	Eligible        bool
	Message         string
	RelevantCourses []string
}
