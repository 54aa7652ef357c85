package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		phone string
		valid bool
	}{
		{"+33612345678", true},
		{"+33 6 12 34 56 78", true},
		{"(212) 555-0147", true},
		{"0612345678", false}, // leading zero
		{"not-a-number", false},
		{"12ab", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.valid, ValidatePhone(tc.phone), tc.phone)
	}
}
