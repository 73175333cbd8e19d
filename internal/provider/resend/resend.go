// Package resend implements a Provider that sends emails via the Resend API.
package resend

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/mailsystem/mailgate/internal/email"
)

// sendAPI is the slice of the Resend client this provider uses.
// Used for testing with mock implementations.
type sendAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Provider sends emails via the Resend HTTP API.
type Provider struct {
	emails sendAPI
}

// New creates a new Provider with the given API key.
func New(apiKey string) *Provider {
	client := resend.NewClient(apiKey)
	return &Provider{emails: client.Emails}
}

// NewWithClient creates a Provider with a custom send client, used for testing.
func NewWithClient(emails sendAPI) *Provider {
	return &Provider{emails: emails}
}

// Send delivers an email message via the Resend API in a single request.
func (p *Provider) Send(ctx context.Context, msg *email.Message) error {
	req := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
	}
	if msg.IsHTML {
		req.Html = msg.Body
	} else {
		req.Text = msg.Body
	}

	for _, att := range msg.Attachments {
		req.Attachments = append(req.Attachments, &resend.Attachment{
			Filename:    att.Filename,
			ContentType: att.ContentType,
			Content:     att.Content,
		})
	}

	if _, err := p.emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend API request failed: %w", err)
	}
	return nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "resend"
}
