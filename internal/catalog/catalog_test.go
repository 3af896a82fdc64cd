package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDoc = `
departments:
  - code: "01"
    name: Computer Science and Engineering
    curricula:
      - sheet: CSE - II Years
        years: [1, 2]
      - sheet: CSE - Mapped, III & IV Years
        years: [3, 4]
  - code: "23"
    name: Artificial Intelligence and Data Science (AIDS)
    curricula:
      - sheet: AIDS - Mapped
sheets:
  - name: CSE - II Years
    courses:
      - {title: Data Structures, category: PC}
  - name: CSE - Mapped, III & IV Years
    courses:
      - {title: Machine Learning, category: PE}
  - name: AIDS - Mapped
    courses: []
online_courses:
  - Data Science for Engineers
  - Cloud Computing
`

func TestParse_Valid(t *testing.T) {
	cat, err := Parse(strings.NewReader(validDoc))
	require.NoError(t, err)

	require.Len(t, cat.Departments, 2)
	assert.Equal(t, "01", cat.Departments[0].Code)
	assert.Equal(t, []int{1, 2}, cat.Departments[0].Curricula[0].Years)
	assert.Empty(t, cat.Departments[1].Curricula[0].Years)

	require.Len(t, cat.Sheets, 3)
	assert.Equal(t, "PC", cat.Sheets[0].Courses[0].Category)
	assert.Equal(t, []string{"Data Science for Engineers", "Cloud Computing"}, cat.OnlineCourses)
}

func TestParse_UnquotedCodeKeepsLeadingZero(t *testing.T) {
	doc := `
departments:
  - code: 01
    name: CSE
    curricula: [{sheet: S}]
sheets:
  - name: S
`
	cat, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "01", cat.Departments[0].Code)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "empty document",
			doc:     "",
			wantErr: "document is empty",
		},
		{
			name:    "unknown key",
			doc:     "online_course: [x]\n",
			wantErr: "decoding",
		},
		{
			name: "unknown sheet",
			doc: `
departments:
  - {code: "01", name: CSE, curricula: [{sheet: Missing}]}
`,
			wantErr: `unknown sheet "Missing"`,
		},
		{
			name: "duplicate department",
			doc: `
departments:
  - {code: "01", name: A}
  - {code: "01", name: B}
`,
			wantErr: `department "01" is defined twice`,
		},
		{
			name: "bad code",
			doc: `
departments:
  - {code: "1", name: A}
`,
			wantErr: "must be two digits",
		},
		{
			name: "year out of range",
			doc: `
departments:
  - {code: "01", name: A, curricula: [{sheet: S, years: [5]}]}
sheets:
  - name: S
`,
			wantErr: "year 5 out of range",
		},
		{
			name: "overlapping years",
			doc: `
departments:
  - code: "01"
    name: A
    curricula:
      - {sheet: S, years: [1, 2]}
      - {sheet: T, years: [2, 3]}
sheets:
  - name: S
  - name: T
`,
			wantErr: "year 2 has more than one curriculum",
		},
		{
			name: "blank course title",
			doc: `
sheets:
  - name: S
    courses: [{title: "  ", category: PC}]
`,
			wantErr: "title is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile_SampleCatalog(t *testing.T) {
	cat, err := LoadFile("../../data/catalog.yaml")
	require.NoError(t, err)

	assert.NotEmpty(t, cat.Departments)
	assert.NotEmpty(t, cat.OnlineCourses)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("testdata/does-not-exist.yaml")
	assert.Error(t, err)
}
