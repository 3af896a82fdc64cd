package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Data Science", "data science"},
		{"  Data   SCIENCE \t", "data science"},
		{"Ｄａｔａ Science", "data science"},
		{"STRASSE", "strasse"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TitleKey(tt.in), "TitleKey(%q)", tt.in)
	}
}
