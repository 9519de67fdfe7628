package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Learning Go", "learning-go"},
		{"Hello, World!", "hello-world"},
		{"  spaced   out  ", "spaced-out"},
		{"Ünïcödé Tïtle", "unicode-title"},
		{"!!!", "entry"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.title), "title %q", tc.title)
	}
}

func TestSlugifyIsDeterministic(t *testing.T) {
	assert.Equal(t, Slugify("Some Title"), Slugify("Some Title"))
}

func TestSlugVariant(t *testing.T) {
	assert.Equal(t, "base", SlugVariant("base", 0))
	assert.Equal(t, "base", SlugVariant("base", 1))
	assert.Equal(t, "base-2", SlugVariant("base", 2))
	assert.Equal(t, "base-7", SlugVariant("base", 7))
}
