// Package regno knows the layout of a student register number.
//
// A register number is exactly 12 decimal digits:
//
//	CCCC YY DD NNNN
//	│    │  │  └── roll number
//	│    │  └───── department code (characters 7–8)
//	│    └──────── two-digit admission year (characters 5–6)
//	└───────────── college code
//
// Both the form controller and the eligibility service use Valid, so the
// client and the server agree on what a well-formed number is.
package regno

// Length is the fixed number of digits in a register number.
const Length = 12

// Valid reports whether id is exactly 12 ASCII decimal digits.
// Surrounding whitespace, signs and non-ASCII digits make it invalid.
func Valid(id string) bool {
	if len(id) != Length {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}

// AdmissionYear returns the two-digit admission year, or "" if id is invalid.
func AdmissionYear(id string) string {
	if !Valid(id) {
		return ""
	}
	return id[4:6]
}

// DepartmentCode returns the two-digit department code, or "" if id is invalid.
func DepartmentCode(id string) string {
	if !Valid(id) {
		return ""
	}
	return id[6:8]
}
