// Package mail delivers account verification emails.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"strings"
	"time"

	gomail "gopkg.in/mail.v2"

	"github.com/simp-lee/shopgraph/internal/config"
)

// DefaultVerifyURL is used when mail.verify_url is not configured.
const DefaultVerifyURL = "http://localhost:8080/verify?token={token}"

const (
	verifySubject = "Verify your account"
	dialTimeout   = 10 * time.Second
)

var verifyHTML = template.Must(template.New("verify").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Hi {{.UserName}},</p>
<p>Thanks for signing up. Please confirm your email address by following the link below:</p>
<p><a href="{{.Link}}">Verify my account</a></p>
<p>The link expires in {{.Expires}}.</p>
</body>
</html>
`))

// Sender sends verification emails.
type Sender interface {
	// SendVerification mails token to the user. expires is how long the
	// token stays valid and is quoted in the message.
	SendVerification(ctx context.Context, to, userName, token string, expires time.Duration) error
}

// NewSender returns an SMTP sender when mail is enabled and a log-only
// sender otherwise.
func NewSender(cfg config.MailConfig, log *slog.Logger) Sender {
	if !cfg.Enabled {
		return NewLogSender(cfg.VerifyURL, log)
	}
	return NewSMTPSender(cfg, log)
}

// VerifyLink substitutes token into the {token} placeholder of tmpl.
func VerifyLink(tmpl, token string) string {
	if tmpl == "" {
		tmpl = DefaultVerifyURL
	}
	return strings.ReplaceAll(tmpl, "{token}", url.QueryEscape(token))
}

// ExpiryText renders d for a human reader, e.g. "1 hour" or "30 minutes".
// Durations that are not a whole number of minutes fall back to d.String().
func ExpiryText(d time.Duration) string {
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		return plural(int64(d/(24*time.Hour)), "day")
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int64(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int64(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// SMTPSender delivers mail through an SMTP relay.
type SMTPSender struct {
	from      string
	verifyURL string
	deliver   func(msgs ...*gomail.Message) error
	log       *slog.Logger
}

// SMTPOption configures an SMTPSender.
type SMTPOption func(*SMTPSender)

// WithDeliver replaces the SMTP transport, e.g. with gomail.Send over a
// gomail.SendFunc in tests.
func WithDeliver(fn func(msgs ...*gomail.Message) error) SMTPOption {
	return func(s *SMTPSender) { s.deliver = fn }
}

// NewSMTPSender creates an SMTPSender from cfg.
func NewSMTPSender(cfg config.MailConfig, log *slog.Logger, opts ...SMTPOption) *SMTPSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.Timeout = dialTimeout
	d.StartTLSPolicy = gomail.OpportunisticStartTLS

	s := &SMTPSender{
		from:      cfg.From,
		verifyURL: cfg.VerifyURL,
		deliver:   d.DialAndSend,
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendVerification sends exactly one verification message to the user.
func (s *SMTPSender) SendVerification(ctx context.Context, to, userName, token string, expires time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	link := VerifyLink(s.verifyURL, token)
	m, err := buildVerification(s.from, to, userName, link, expires)
	if err != nil {
		return err
	}
	if err := s.deliver(m); err != nil {
		return fmt.Errorf("failed to send verification mail to %s: %w", to, err)
	}

	s.log.InfoContext(ctx, "verification mail sent", "to", to)
	return nil
}

func buildVerification(from, to, userName, link string, expires time.Duration) (*gomail.Message, error) {
	in := ExpiryText(expires)
	var html bytes.Buffer
	if err := verifyHTML.Execute(&html, struct{ UserName, Link, Expires string }{userName, link, in}); err != nil {
		return nil, fmt.Errorf("failed to render verification mail: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetAddressHeader("To", to, userName)
	m.SetHeader("Subject", verifySubject)
	m.SetBody("text/plain", fmt.Sprintf("Hi %s,\n\nPlease verify your account: %s\n\nThe link expires in %s.\n", userName, link, in))
	m.AddAlternative("text/html", html.String())
	return m, nil
}

// LogSender writes the verification link to the log instead of mailing it.
type LogSender struct {
	verifyURL string
	log       *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(verifyURL string, log *slog.Logger) *LogSender {
	return &LogSender{verifyURL: verifyURL, log: log}
}

// SendVerification logs the verification link.
func (s *LogSender) SendVerification(ctx context.Context, to, userName, token string, expires time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "mail disabled, verification link", "to", to, "user_name", userName,
		"link", VerifyLink(s.verifyURL, token), "expires_in", expires.String())
	return nil
}
