// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"strconv"
	"time"

	"github.com/advocatechambers/lawsite/internal/app/system/mailer"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// OAuthStateCleanupJob creates a job that removes expired OAuth state tokens.
// The TTL index on expires_at does the same eventually; this keeps the
// collection tight between TTL monitor passes.
func OAuthStateCleanupJob(db *mongo.Database, logger *zap.Logger) Job {
	return Job{
		Name:     "oauth-state-cleanup",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			coll := db.Collection("oauth_states")
			result, err := coll.DeleteMany(ctx, bson.M{
				"expires_at": bson.M{"$lt": time.Now()},
			})
			if err != nil {
				return err
			}
			if result.DeletedCount > 0 {
				logger.Info("cleaned up expired oauth states",
					zap.Int64("deleted", result.DeletedCount))
			}
			return nil
		},
	}
}

// PendingLister lists inquiries still awaiting a response.
type PendingLister interface {
	PendingSince(ctx context.Context, t time.Time) ([]models.Inquiry, error)
}

// DigestRecipient returns where the digest goes and the firm name to show.
// An empty address skips the run.
type DigestRecipient func() (to, firmName string)

const (
	digestLookback = 30 * 24 * time.Hour
	digestMaxItems = 50
)

// InquiryDigestJob mails the admin a list of inquiries still pending.
// Nothing is sent when mail is not configured, no recipient is known, or
// nothing is pending. A non-positive interval disables the job.
func InquiryDigestJob(inq PendingLister, recipient DigestRecipient, m mailer.Sender, adminURL string, interval time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:     "inquiry-digest",
		Interval: interval,
		Delay:    interval,
		Run: func(ctx context.Context) error {
			if m == nil || !m.Enabled() {
				logger.Debug("inquiry digest skipped: mail not configured")
				return nil
			}
			to, firm := recipient()
			if to == "" {
				logger.Debug("inquiry digest skipped: no recipient")
				return nil
			}

			now := time.Now()
			pending, err := inq.PendingSince(ctx, now.Add(-digestLookback))
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				return nil
			}
			if len(pending) > digestMaxItems {
				pending = pending[:digestMaxItems]
			}

			items := make([]mailer.DigestItem, len(pending))
			for i, q := range pending {
				items[i] = mailer.DigestItem{
					Reference: q.Reference,
					FullName:  q.FullName,
					Category:  q.Category,
					Waiting:   waitingFor(now.Sub(q.CreatedAt)),
				}
			}

			subject, text, html := mailer.InquiryDigestEmail(mailer.InquiryDigestEmailData{
				FirmName: firm,
				Items:    items,
				AdminURL: adminURL,
			})
			if err := m.Send(mailer.Email{To: to, Subject: subject, TextBody: text, HTMLBody: html}); err != nil {
				return err
			}
			logger.Info("sent inquiry digest",
				zap.Int("pending", len(items)))
			return nil
		},
	}
}

// waitingFor renders an age as whole hours under two days, whole days after.
func waitingFor(d time.Duration) string {
	switch {
	case d < time.Hour:
		return "under an hour"
	case d < 48*time.Hour:
		h := int(d / time.Hour)
		if h == 1 {
			return "1 hour"
		}
		return strconv.Itoa(h) + " hours"
	default:
		return strconv.Itoa(int(d/(24*time.Hour))) + " days"
	}
}
