package email

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

func TestBuild_PlainMessage(t *testing.T) {
	t.Parallel()

	req := &Request{
		Subject:    "Quarterly numbers",
		Body:       "See below.",
		Recipients: []string{"alice@example.com", "Bob <bob@example.com>"},
	}

	msg, err := req.Build("noreply@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.From != "noreply@example.com" {
		t.Errorf("From: got %q, want %q", msg.From, "noreply@example.com")
	}
	if len(msg.To) != 2 {
		t.Fatalf("To: got %d recipients, want 2", len(msg.To))
	}
	// Display names are stripped to the bare addr-spec
	if msg.To[1] != "bob@example.com" {
		t.Errorf("To[1]: got %q, want %q", msg.To[1], "bob@example.com")
	}
	if msg.IsHTML {
		t.Error("IsHTML: got true, want false by default")
	}
	if len(msg.Attachments) != 0 {
		t.Errorf("Attachments: got %d, want 0", len(msg.Attachments))
	}
}

func TestBuild_InvalidAddress(t *testing.T) {
	t.Parallel()

	req := &Request{
		Subject:    "Test",
		Body:       "Hello",
		Recipients: []string{"alice@example.com", "not-an-address"},
	}

	_, err := req.Build("noreply@example.com")
	if err == nil {
		t.Fatal("expected error for invalid address, got nil")
	}

	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("error type: got %T, want *ValidationError", err)
	}
	if verr.Field != "recipients[1]" {
		t.Errorf("Field: got %q, want %q", verr.Field, "recipients[1]")
	}
}

func TestBuild_AttachmentRoundTrip(t *testing.T) {
	t.Parallel()

	original := []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xff, 0xfe, 0x01}

	req := &Request{
		Subject:    "Report",
		Body:       "Attached.",
		Recipients: []string{"alice@example.com"},
		Attachments: []AttachmentRequest{
			{
				Filename:    "report.pdf",
				Content:     base64.StdEncoding.EncodeToString(original),
				ContentType: "application/pdf",
			},
		},
	}

	msg, err := req.Build("noreply@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(msg.Attachments) != 1 {
		t.Fatalf("Attachments: got %d, want 1", len(msg.Attachments))
	}
	att := msg.Attachments[0]
	if !bytes.Equal(att.Content, original) {
		t.Errorf("Content: decoded bytes differ from original: got %v, want %v", att.Content, original)
	}
	if att.ContentType != "application/pdf" {
		t.Errorf("ContentType: got %q, want %q", att.ContentType, "application/pdf")
	}
}

func TestBuild_AttachmentDefaultContentType(t *testing.T) {
	t.Parallel()

	req := &Request{
		Subject:    "Test",
		Body:       "Hello",
		Recipients: []string{"alice@example.com"},
		Attachments: []AttachmentRequest{
			{Filename: "blob.bin", Content: base64.StdEncoding.EncodeToString([]byte("data"))},
		},
	}

	msg, err := req.Build("noreply@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := msg.Attachments[0].ContentType; got != DefaultContentType {
		t.Errorf("ContentType: got %q, want %q", got, DefaultContentType)
	}
}

func TestBuild_InvalidBase64(t *testing.T) {
	t.Parallel()

	req := &Request{
		Subject:    "Test",
		Body:       "Hello",
		Recipients: []string{"alice@example.com"},
		Attachments: []AttachmentRequest{
			{Filename: "ok.txt", Content: base64.StdEncoding.EncodeToString([]byte("fine"))},
			{Filename: "broken.txt", Content: "!!not base64!!"},
		},
	}

	_, err := req.Build("noreply@example.com")
	if err == nil {
		t.Fatal("expected error for invalid base64, got nil")
	}

	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("error type: got %T, want *ValidationError", err)
	}
	if verr.Field != "attachments[1].content" {
		t.Errorf("Field: got %q, want %q", verr.Field, "attachments[1].content")
	}
	if !strings.Contains(verr.Detail, "broken.txt") {
		t.Errorf("Detail: %q does not name the offending file", verr.Detail)
	}
}
