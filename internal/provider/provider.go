// Package provider defines the interface for email delivery backends.
package provider

import (
	"context"

	"github.com/mailsystem/mailgate/internal/email"
)

// Provider is the interface that email delivery backends must implement.
// Each provider hands a validated message to the target service (an SMTP
// relay, AWS SES, the Resend API, or stdout for development).
type Provider interface {
	// Send delivers an email message through this provider. It makes a
	// single attempt; retrying is the caller's responsibility.
	Send(ctx context.Context, msg *email.Message) error

	// Name returns the human-readable name of this provider.
	Name() string
}
