// internal/domain/models/page.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Page is a static legal page (privacy policy, terms, disclaimer).
type Page struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Slug    string             `bson:"slug" json:"slug"`
	Title   string             `bson:"title" json:"title"`
	Content string             `bson:"content" json:"content"` // sanitized HTML

	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
	UpdatedBy string     `bson:"updated_by,omitempty" json:"updatedBy,omitempty"`
}

// Page slugs
const (
	PageSlugPrivacy    = "privacy"
	PageSlugTerms      = "terms"
	PageSlugDisclaimer = "disclaimer"
)

// AllPageSlugs returns all valid page slugs.
func AllPageSlugs() []string {
	return []string{
		PageSlugPrivacy,
		PageSlugTerms,
		PageSlugDisclaimer,
	}
}

// IsValidPageSlug checks if a slug is valid.
func IsValidPageSlug(slug string) bool {
	for _, s := range AllPageSlugs() {
		if s == slug {
			return true
		}
	}
	return false
}
