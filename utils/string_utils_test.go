package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	cases := map[string]string{
		"alice":     "%alice%",
		"a_b":       `%a\_b%`,
		"100%":      `%100\%%`,
		`back\path`: `%back\\path%`,
		"":          "%%",
	}
	for term, want := range cases {
		assert.Equal(t, want, ContainsPattern(term), term)
	}
}
