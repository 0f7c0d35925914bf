package slugs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Oak Coffee Table", "oak-coffee-table"},
		{"extra whitespace", "  Velvet   Armchair ", "velvet-armchair"},
		{"punctuation stripped", "L-Shaped Sofa (Grey)", "l-shaped-sofa-grey"},
		{"ampersand", "Chairs & Stools", "chairs-stools"},
		{"unicode stripped", "Café Table", "caf-table"},
		{"already clean", "bookshelf", "bookshelf"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}

func TestWithSuffix(t *testing.T) {
	a := WithSuffix("Oak Coffee Table")
	b := WithSuffix("Oak Coffee Table")

	assert.True(t, strings.HasPrefix(a, "oak-coffee-table-"))
	assert.NotEqual(t, a, b)
}
