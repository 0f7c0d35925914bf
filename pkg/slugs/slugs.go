// Package slugs derives URL-safe slugs from product and category names.
package slugs

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonWordRe    = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRunRe  = regexp.MustCompile(`-{2,}`)
)

// Slugify lowercases the name, collapses whitespace into hyphens and strips
// anything outside [a-z0-9-].
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = whitespaceRe.ReplaceAllString(s, "-")
	s = nonWordRe.ReplaceAllString(s, "")
	s = hyphenRunRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// WithSuffix appends a timestamp plus random suffix, used by bulk import to
// avoid collisions when many rows share a name.
func WithSuffix(name string) string {
	base := Slugify(name)
	suffix := fmt.Sprintf("%d-%04d", time.Now().UnixMilli(), rand.Intn(10000))
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
