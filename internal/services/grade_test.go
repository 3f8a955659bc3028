package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGrade(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"Pre-K", GradePreK, true},
		{"PK", GradePreK, true},
		{"K", GradeKindergarten, true},
		{" Kindergarten ", GradeKindergarten, true},
		{"0", 0, true},
		{"3", 3, true},
		{"3rd", 3, true},
		{"1st", 1, true},
		{"2nd", 2, true},
		{"12th", 12, true},
		{"Grade 7", 7, true},
		{"8th grade", 8, true},
		{"13", 0, false},
		{"-2", 0, false},
		{"", 0, false},
		{"senior", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseGrade(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
