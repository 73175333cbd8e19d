// Package smtp implements a Provider that submits messages to an SMTP
// relay using gomail.
package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/mailsystem/mailgate/internal/email"
)

// sslPort is the submission port that uses implicit TLS instead of STARTTLS.
const sslPort = 465

// Config holds the connection settings for the SMTP relay.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string

	// UseTLS requires a verified TLS upgrade on non-SSL ports. Port 465
	// always uses implicit TLS regardless of this flag.
	UseTLS bool
}

// Provider delivers messages over SMTP. Each Send opens its own
// connection; there is no pooling or reuse.
type Provider struct {
	dialer *gomail.Dialer
}

// New creates an SMTP Provider from the given configuration.
func New(cfg Config) *Provider {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.Port == sslPort
	if !cfg.UseTLS && !d.SSL {
		// gomail still upgrades when the server advertises STARTTLS; with
		// TLS not required, tolerate relays with unverifiable certificates.
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Provider{dialer: d}
}

// Send builds a MIME message from msg and submits it in a single
// dial-auth-send exchange. gomail has no context plumbing, so
// cancellation is only observed before dialing.
func (p *Provider) Send(ctx context.Context, msg *email.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := buildMessage(msg)
	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp delivery to %s:%d failed: %w", p.dialer.Host, p.dialer.Port, err)
	}
	return nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "smtp"
}

// buildMessage converts the internal message model into a gomail message:
// a text or HTML body part plus one attachment part per attachment.
func buildMessage(msg *email.Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)

	if msg.IsHTML {
		m.SetBody("text/html", msg.Body)
	} else {
		m.SetBody("text/plain", msg.Body)
	}

	for _, att := range msg.Attachments {
		content := att.Content
		m.Attach(att.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
			gomail.SetHeader(map[string][]string{
				"Content-Type": {att.ContentType},
			}),
		)
	}

	return m
}
