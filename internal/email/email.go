// Package email defines the message model the service validates and hands
// to delivery providers.
package email

import (
	"encoding/base64"
	"fmt"
	"net/mail"
)

// DefaultContentType is used for attachments that do not declare a MIME type.
const DefaultContentType = "application/octet-stream"

// Request is the JSON payload accepted by the send endpoint. Shape and
// field constraints are enforced by the binding layer; address syntax and
// base64 content are checked in Build.
type Request struct {
	Subject     string              `json:"subject" binding:"required,min=1,max=500"`
	Body        string              `json:"body" binding:"required"`
	Recipients  []string            `json:"recipients" binding:"required,min=1"`
	IsHTML      bool                `json:"is_html"`
	Attachments []AttachmentRequest `json:"attachments" binding:"omitempty,dive"`
}

// AttachmentRequest is a single attachment as it appears on the wire,
// with its content base64-encoded.
type AttachmentRequest struct {
	Filename    string `json:"filename" binding:"required"`
	Content     string `json:"content" binding:"required"`
	ContentType string `json:"content_type"`
}

// Message is a validated email ready for delivery.
type Message struct {
	From        string
	To          []string
	Subject     string
	Body        string
	IsHTML      bool
	Attachments []Attachment
}

// Attachment is a decoded file attached to a Message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ValidationError reports a request field that failed validation.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Detail)
}

// Build validates the request and converts it into a deliverable Message
// with the given from-address. Recipient addresses must parse as RFC 5322
// addr-specs and attachment content must be valid standard base64.
// The first failing field is reported as a *ValidationError.
func (r *Request) Build(from string) (*Message, error) {
	msg := &Message{
		From:    from,
		Subject: r.Subject,
		Body:    r.Body,
		IsHTML:  r.IsHTML,
	}

	for i, addr := range r.Recipients {
		parsed, err := mail.ParseAddress(addr)
		if err != nil {
			return nil, &ValidationError{
				Field:  fmt.Sprintf("recipients[%d]", i),
				Detail: fmt.Sprintf("invalid email address %q", addr),
			}
		}
		msg.To = append(msg.To, parsed.Address)
	}

	for i, att := range r.Attachments {
		content, err := base64.StdEncoding.DecodeString(att.Content)
		if err != nil {
			return nil, &ValidationError{
				Field:  fmt.Sprintf("attachments[%d].content", i),
				Detail: fmt.Sprintf("content of %q is not valid base64", att.Filename),
			}
		}
		contentType := att.ContentType
		if contentType == "" {
			contentType = DefaultContentType
		}
		msg.Attachments = append(msg.Attachments, Attachment{
			Filename:    att.Filename,
			ContentType: contentType,
			Content:     content,
		})
	}

	return msg, nil
}
