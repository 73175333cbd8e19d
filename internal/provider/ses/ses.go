// Package ses implements a Provider that sends emails via AWS SES v2.
package ses

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/mailsystem/mailgate/internal/email"
)

// Config holds the configuration for creating a Provider.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// Provider sends emails via the AWS SES v2 API. Each message is a single
// SendEmail call with no retry.
type Provider struct {
	client SendEmailAPI
}

// SendEmailAPI is the interface for the SES v2 SendEmail operation.
// Used for testing with mock implementations.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// New creates a new Provider with the given configuration. Static
// credentials are optional; the default AWS credential chain applies
// when they are absent.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	var opts []func(*awsconfig.LoadOptions) error

	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Provider{client: sesv2.NewFromConfig(awsCfg)}, nil
}

// NewWithClient creates a Provider with a custom client, used for testing.
func NewWithClient(client SendEmailAPI) *Provider {
	return &Provider{client: client}
}

// Send delivers an email message via AWS SES v2. Messages with attachments
// go out as raw MIME; everything else uses the SES simple email format.
func (p *Provider) Send(ctx context.Context, msg *email.Message) error {
	var input *sesv2.SendEmailInput

	if len(msg.Attachments) > 0 {
		raw, err := buildRawMessage(msg)
		if err != nil {
			return fmt.Errorf("failed to build raw message: %w", err)
		}
		input = &sesv2.SendEmailInput{
			FromEmailAddress: aws.String(msg.From),
			Destination:      &types.Destination{ToAddresses: msg.To},
			Content: &types.EmailContent{
				Raw: &types.RawMessage{
					Data: raw,
				},
			},
		}
	} else {
		input = buildSimpleInput(msg)
	}

	if _, err := p.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("SES API request failed: %w", err)
	}
	return nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "ses"
}

// buildSimpleInput creates a SES SendEmailInput for emails without attachments.
func buildSimpleInput(msg *email.Message) *sesv2.SendEmailInput {
	body := &types.Body{}

	if msg.IsHTML {
		body.Html = &types.Content{
			Data:    aws.String(msg.Body),
			Charset: aws.String("UTF-8"),
		}
	} else {
		body.Text = &types.Content{
			Data:    aws.String(msg.Body),
			Charset: aws.String("UTF-8"),
		}
	}

	return &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination:      &types.Destination{ToAddresses: msg.To},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: body,
			},
		},
	}
}

// buildRawMessage constructs a raw multipart MIME message for emails with
// attachments: one body part (text or HTML) plus one base64 part per
// attachment.
func buildRawMessage(msg *email.Message) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", msg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", msg.Subject))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")

	writer := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", writer.Boundary())

	bodyType := "text/plain"
	if msg.IsHTML {
		bodyType = "text/html"
	}
	bodyHeader := textproto.MIMEHeader{}
	bodyHeader.Set("Content-Type", bodyType+"; charset=UTF-8")
	bodyPart, err := writer.CreatePart(bodyHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create body part: %w", err)
	}
	if _, err := bodyPart.Write([]byte(msg.Body)); err != nil {
		return nil, fmt.Errorf("failed to write body: %w", err)
	}

	for _, att := range msg.Attachments {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", att.ContentType)
		header.Set("Content-Transfer-Encoding", "base64")
		header.Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%s", mime.QEncoding.Encode("UTF-8", att.Filename)))

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("failed to create attachment part: %w", err)
		}
		encoded := encodeBase64WithLineBreaks(att.Content)
		if _, err := part.Write([]byte(encoded)); err != nil {
			return nil, fmt.Errorf("failed to write attachment %q: %w", att.Filename, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize message: %w", err)
	}

	return buf.Bytes(), nil
}

// encodeBase64WithLineBreaks encodes bytes to base64 with 76-character line breaks per RFC 2045.
func encodeBase64WithLineBreaks(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	var lines []string
	for i := 0; i < len(encoded); i += 76 {
		end := i + 76
		if end > len(encoded) {
			end = len(encoded)
		}
		lines = append(lines, encoded[i:end])
	}
	return strings.Join(lines, "\r\n")
}
