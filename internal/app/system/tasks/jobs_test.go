package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/advocatechambers/lawsite/internal/app/system/mailer"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLister struct {
	items []models.Inquiry
	err   error
	since time.Time
}

func (f *fakeLister) PendingSince(_ context.Context, t time.Time) ([]models.Inquiry, error) {
	f.since = t
	return f.items, f.err
}

type fakeSender struct {
	enabled bool
	sent    []mailer.Email
	err     error
}

func (f *fakeSender) Enabled() bool { return f.enabled }
func (f *fakeSender) Send(e mailer.Email) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, e)
	return nil
}

func recipient(to string) DigestRecipient {
	return func() (string, string) { return to, "Advocate Chambers" }
}

func TestInquiryDigestJob_Sends(t *testing.T) {
	lister := &fakeLister{items: []models.Inquiry{
		{Reference: "r1", FullName: "Asha", Category: "Family Law", CreatedAt: time.Now().Add(-72 * time.Hour)},
		{Reference: "r2", FullName: "Ravi", Category: "Other", CreatedAt: time.Now().Add(-3 * time.Hour)},
	}}
	sender := &fakeSender{enabled: true}

	job := InquiryDigestJob(lister, recipient("admin@example.com"), sender, "https://example.com/admin", time.Hour, zap.NewNop())
	assert.Equal(t, "inquiry-digest", job.Name)
	assert.Equal(t, time.Hour, job.Delay)

	require.NoError(t, job.Run(context.Background()))
	require.Len(t, sender.sent, 1)

	mail := sender.sent[0]
	assert.Equal(t, "admin@example.com", mail.To)
	assert.Equal(t, "2 pending inquiries awaiting a response", mail.Subject)
	assert.Contains(t, mail.TextBody, "Asha (Family Law), waiting 3 days")
	assert.Contains(t, mail.TextBody, "Ravi (Other), waiting 3 hours")
	assert.WithinDuration(t, time.Now().Add(-digestLookback), lister.since, time.Minute)
}

func TestInquiryDigestJob_Skips(t *testing.T) {
	pending := []models.Inquiry{{Reference: "r1", CreatedAt: time.Now()}}

	tests := []struct {
		name   string
		sender *fakeSender
		to     string
		items  []models.Inquiry
	}{
		{"mail disabled", &fakeSender{enabled: false}, "admin@example.com", pending},
		{"no recipient", &fakeSender{enabled: true}, "", pending},
		{"nothing pending", &fakeSender{enabled: true}, "admin@example.com", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := InquiryDigestJob(&fakeLister{items: tt.items}, recipient(tt.to), tt.sender, "", time.Hour, zap.NewNop())
			require.NoError(t, job.Run(context.Background()))
			assert.Empty(t, tt.sender.sent)
		})
	}
}

func TestInquiryDigestJob_Errors(t *testing.T) {
	boom := errors.New("boom")

	job := InquiryDigestJob(&fakeLister{err: boom}, recipient("a@example.com"), &fakeSender{enabled: true}, "", time.Hour, zap.NewNop())
	assert.ErrorIs(t, job.Run(context.Background()), boom)

	lister := &fakeLister{items: []models.Inquiry{{CreatedAt: time.Now()}}}
	job = InquiryDigestJob(lister, recipient("a@example.com"), &fakeSender{enabled: true, err: boom}, "", time.Hour, zap.NewNop())
	assert.ErrorIs(t, job.Run(context.Background()), boom)
}

func TestInquiryDigestJob_CapsItems(t *testing.T) {
	items := make([]models.Inquiry, digestMaxItems+10)
	for i := range items {
		items[i] = models.Inquiry{CreatedAt: time.Now()}
	}
	sender := &fakeSender{enabled: true}
	job := InquiryDigestJob(&fakeLister{items: items}, recipient("a@example.com"), sender, "", time.Hour, zap.NewNop())
	require.NoError(t, job.Run(context.Background()))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Subject, "50 pending")
}

func TestWaitingFor(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{10 * time.Minute, "under an hour"},
		{time.Hour, "1 hour"},
		{47 * time.Hour, "47 hours"},
		{49 * time.Hour, "2 days"},
		{10 * 24 * time.Hour, "10 days"},
	}
	for _, tt := range tests {
		if got := waitingFor(tt.d); got != tt.want {
			t.Errorf("waitingFor(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
