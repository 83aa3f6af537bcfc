// internal/domain/models/slug.go
package models

import (
	"regexp"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// MaxSlugLength bounds practice area slugs.
const MaxSlugLength = 64

// ValidSlug reports whether s is a lowercase, hyphen-separated URL slug.
func ValidSlug(s string) bool {
	return len(s) <= MaxSlugLength && slugPattern.MatchString(s)
}

// Slugify derives a slug from a display title ("Criminal Law" → "criminal-law").
// It is used only when a new practice area is created without a slug.
func Slugify(title string) string {
	folded := text.Fold(title)
	var b strings.Builder
	dash := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if len(s) > MaxSlugLength {
		s = strings.TrimRight(s[:MaxSlugLength], "-")
	}
	return s
}
