package utils

import (
	"fmt"

	"github.com/gosimple/slug"
)

// Slugify derives the URL-safe base slug for an entry title: lowercase,
// ASCII, hyphen-separated. Titles are unique, but distinct titles can
// normalize to the same slug; callers resolve collisions with SlugVariant.
func Slugify(title string) string {
	s := slug.Make(title)
	if s == "" {
		s = "entry"
	}
	return s
}

// SlugVariant returns the n-th fallback for a taken slug: "base" for n<=1,
// then "base-2", "base-3", ...
func SlugVariant(base string, n int) string {
	if n <= 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
