// internal/app/system/contentsync/validate.go
package contentsync

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/advocatechambers/lawsite/internal/app/system/inputval"
	"github.com/advocatechambers/lawsite/internal/domain/models"
)

// ErrValidation matches every *ValidationError with errors.Is.
var ErrValidation = errors.New("invalid content")

// ValidationError reports the first field of a section value that failed
// validation. Field uses JSON names and list indexes, e.g. "items[2].id".
type ValidationError struct {
	Section models.Section
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Section, e.Field, e.Message)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

var currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Validate checks the invariants of a whole section value. Sections
// without list identities or bounded fields always pass.
func Validate(sec models.Section, value any) error {
	fail := func(field, msg string) error {
		return &ValidationError{Section: sec, Field: field, Message: msg}
	}

	switch v := value.(type) {
	case *models.PracticeAreasContent:
		seen := mapset.NewThreadUnsafeSet[string]()
		for i, it := range v.Items {
			field := fmt.Sprintf("items[%d]", i)
			if !models.ValidSlug(it.ID) {
				return fail(field+".id", "must be lowercase letters, digits and single hyphens")
			}
			if !seen.Add(it.ID) {
				return fail(field+".id", fmt.Sprintf("duplicate slug %q", it.ID))
			}
			if strings.TrimSpace(it.Title) == "" {
				return fail(field+".title", "is required")
			}
		}

	case *models.TestimonialsContent:
		seen := mapset.NewThreadUnsafeSet[int]()
		for i, it := range v.Items {
			field := fmt.Sprintf("items[%d]", i)
			if it.ID <= 0 {
				return fail(field+".id", "must be positive")
			}
			if !seen.Add(it.ID) {
				return fail(field+".id", fmt.Sprintf("duplicate id %d", it.ID))
			}
			if !models.ValidRating(it.Rating) {
				return fail(field+".rating", fmt.Sprintf("must be between %d and %d", models.MinRating, models.MaxRating))
			}
			if strings.TrimSpace(it.Name) == "" {
				return fail(field+".name", "is required")
			}
		}

	case *models.KnowledgeContent:
		seen := mapset.NewThreadUnsafeSet[int]()
		for i, a := range v.Articles {
			field := fmt.Sprintf("articles[%d]", i)
			if !seen.Add(a.ID) {
				return fail(field+".id", fmt.Sprintf("duplicate id %d", a.ID))
			}
			if strings.TrimSpace(a.Title) == "" {
				return fail(field+".title", "is required")
			}
		}

	case *models.SettingsContent:
		if v.InquiryFee < 0 {
			return fail("inquiryFee", "must not be negative")
		}
		if !currencyRe.MatchString(v.Currency) {
			return fail("currency", "must be a three-letter ISO code")
		}
		if v.AdminEmail == "" && v.AdminPassword != "" {
			return fail("adminEmail", "is required while a password is set")
		}
		if v.AdminEmail != "" && !inputval.IsValidEmail(v.AdminEmail) {
			return fail("adminEmail", "is not a valid email address")
		}
	}
	return nil
}
