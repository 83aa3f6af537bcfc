// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"
	"errors"
	"fmt"

	contentstore "github.com/advocatechambers/lawsite/internal/app/store/content"
	pagestore "github.com/advocatechambers/lawsite/internal/app/store/pages"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SeedAll seeds default content sections and legal pages if not already present.
func SeedAll(ctx context.Context, db *mongo.Database, content contentstore.DocStore, logger *zap.Logger) error {
	if err := SeedContent(ctx, content, logger); err != nil {
		return err
	}
	return seedPages(ctx, db, logger)
}

// EnsureSeeded writes the default value of one section if the section has
// no stored document. Safe to call concurrently from several processes:
// the store only creates the document once and every caller writes the
// same default.
func EnsureSeeded(ctx context.Context, store contentstore.DocStore, section models.Section, logger *zap.Logger) (bool, error) {
	def := models.DefaultSection(section)
	if def == nil {
		return false, fmt.Errorf("unknown content section %q", string(section))
	}
	created, err := store.Seed(ctx, section.Key(), def)
	if err != nil {
		return false, err
	}
	if created {
		logger.Info("seeded content section",
			zap.String("section", section.String()),
			zap.String("key", section.Key()))
	}
	return created, nil
}

// SeedContent ensures every section has a stored document.
func SeedContent(ctx context.Context, store contentstore.DocStore, logger *zap.Logger) error {
	var errs []error
	for _, s := range models.AllSections() {
		if _, err := EnsureSeeded(ctx, store, s, logger); err != nil {
			logger.Error("failed to seed content section",
				zap.String("section", s.String()),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", s, err))
		}
	}
	return errors.Join(errs...)
}

// seedPages creates default legal pages if they don't exist.
func seedPages(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := pagestore.New(db)

	for _, page := range DefaultPages() {
		created, err := store.Seed(ctx, page)
		if err != nil {
			logger.Error("failed to seed page",
				zap.String("slug", page.Slug),
				zap.Error(err))
			return err
		}
		if created {
			logger.Info("seeded default page", zap.String("slug", page.Slug))
		}
	}

	return nil
}

// DefaultPages returns the placeholder legal pages.
func DefaultPages() []models.Page {
	return []models.Page{
		{
			Slug:  models.PageSlugPrivacy,
			Title: "Privacy Policy",
			Content: `<h2>Privacy Policy</h2>
<p>Information you share through the consultation form is used only to assess and respond to your legal inquiry.</p>
<ul>
<li>What information is collected</li>
<li>How information is used and retained</li>
<li>Who it is shared with</li>
<li>How to request correction or deletion</li>
</ul>`,
		},
		{
			Slug:  models.PageSlugTerms,
			Title: "Terms of Service",
			Content: `<h2>Terms of Service</h2>
<p>Booking a consultation does not by itself create an advocate-client relationship.</p>
<p>An administrator should replace this text with the firm's terms.</p>`,
		},
		{
			Slug:  models.PageSlugDisclaimer,
			Title: "Disclaimer",
			Content: `<h2>Disclaimer</h2>
<p>The content of this website is for general information only and does not constitute legal advice or solicitation.</p>
<p>Readers should obtain professional advice before acting on any information published here.</p>`,
		},
	}
}
