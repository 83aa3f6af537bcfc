// internal/app/system/mailer/mailer.go
package mailer

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned by Send when no SMTP host or sender is set.
var ErrNotConfigured = errors.New("mailer not configured")

// Sender is what handlers and jobs depend on, so tests can capture mail.
type Sender interface {
	Send(email Email) error
	Enabled() bool
}

// Mailer sends notification mail over SMTP with PLAIN auth when a user is
// configured.
type Mailer struct {
	cfg Config
	log *zap.Logger

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	now  func() time.Time
}

// Config is the SMTP relay and sender identity.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// New returns a mailer for cfg. It is usable but disabled when cfg has no
// host or sender.
func New(cfg Config, log *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log, send: smtp.SendMail, now: time.Now}
}

// Enabled reports whether an SMTP host and sender are configured.
// Notification mail is skipped silently when it is not.
func (m *Mailer) Enabled() bool {
	return m != nil && m.cfg.Host != "" && m.cfg.From != ""
}

// Email represents an email to be sent.
type Email struct {
	To       string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}

// Send delivers email. With an HTMLBody the message is multipart/alternative.
func (m *Mailer) Send(email Email) error {
	if !m.Enabled() {
		return ErrNotConfigured
	}

	msg := m.buildMessage(email, randomBoundary())
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	var auth smtp.Auth
	if m.cfg.User != "" && m.cfg.Pass != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}

	err := m.send(addr, auth, m.cfg.From, []string{email.To}, msg)
	if err != nil {
		m.log.Error("failed to send email",
			zap.String("to", email.To),
			zap.String("subject", email.Subject),
			zap.Error(err))
		return fmt.Errorf("send mail: %w", err)
	}

	m.log.Info("email sent",
		zap.String("to", email.To),
		zap.String("subject", email.Subject))

	return nil
}

func (m *Mailer) buildMessage(email Email, boundary string) []byte {
	from := (&mail.Address{Name: m.cfg.FromName, Address: m.cfg.From}).String()

	var buf bytes.Buffer
	header := func(k, v string) {
		buf.WriteString(k + ": " + v + "\r\n")
	}
	header("From", from)
	header("To", email.To)
	if email.ReplyTo != "" {
		header("Reply-To", email.ReplyTo)
	}
	header("Subject", mime.QEncoding.Encode("utf-8", email.Subject))
	header("Date", m.now().Format(time.RFC1123Z))
	header("Message-ID", "<"+uuid.NewString()+"@"+m.cfg.Host+">")
	header("MIME-Version", "1.0")

	if email.HTMLBody == "" {
		header("Content-Type", "text/plain; charset=UTF-8")
		buf.WriteString("\r\n")
		buf.WriteString(email.TextBody)
		return buf.Bytes()
	}

	mw := multipart.NewWriter(&buf)
	_ = mw.SetBoundary(boundary)
	header("Content-Type", `multipart/alternative; boundary="`+boundary+`"`)
	buf.WriteString("\r\n")
	for _, part := range []struct{ ctype, body string }{
		{"text/plain; charset=UTF-8", email.TextBody},
		{"text/html; charset=UTF-8", email.HTMLBody},
	} {
		w, _ := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {part.ctype}})
		_, _ = w.Write([]byte(part.body))
	}
	_ = mw.Close()
	return buf.Bytes()
}

// randomBoundary generates a random boundary string for multipart emails.
func randomBoundary() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand.Read failed: " + err.Error())
	}
	return "lawsite-" + hex.EncodeToString(b)
}
