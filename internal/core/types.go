package core

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Status is the normalized outcome of a send operation. Every provider maps
// its backend-specific acknowledgment onto this closed set: direct-send
// backends report StatusSent, publish-oriented backends report
// StatusPublished, and StatusFailed is reserved for backends that signal
// failure in the response without returning an error.
type Status string

const (
	// StatusSent indicates the backend accepted the message for delivery.
	StatusSent Status = "sent"

	// StatusPublished indicates the message was handed to a relay topic
	// for downstream delivery.
	StatusPublished Status = "published"

	// StatusFailed indicates the backend completed the request but
	// reported a non-success outcome.
	StatusFailed Status = "failed"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// SendResult is the normalized record returned by every send operation.
type SendResult struct {
	// MessageID is the canonical identifier extracted from the backend
	// acknowledgment (response header, body field, or publish result).
	MessageID string `json:"message_id"`

	// Status is the normalized outcome.
	Status Status `json:"status"`

	// Provider is the name of the provider that handled the message.
	Provider string `json:"provider,omitempty"`
}

// Attachment represents a file attachment to be included with the email.
type Attachment struct {
	// Filename is the name of the file as it will appear in the email.
	Filename string

	// ContentType is the MIME content type of the file.
	// If empty, it will be detected from the filename extension.
	ContentType string

	// Content contains the file content.
	Content []byte
}

// DetectContentType attempts to detect the content type from the filename.
func (a *Attachment) DetectContentType() string {
	if a.ContentType != "" {
		return a.ContentType
	}

	ext := strings.ToLower(filepath.Ext(a.Filename))
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".txt":
		return "text/plain"
	case ".html", ".htm":
		return "text/html"
	case ".csv":
		return "text/csv"
	case ".zip":
		return "application/zip"
	default:
		return "application/octet-stream"
	}
}

// Message represents an email message handed to a provider. Address strings
// are validated by the boundary layer; the core only requires them to be
// non-empty.
type Message struct {
	To          []string     `json:"to"`
	CC          []string     `json:"cc,omitempty"`
	BCC         []string     `json:"bcc,omitempty"`
	Subject     string       `json:"subject"`
	HTMLBody    string       `json:"html_body"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Validate checks that the message has the required fields.
func (m *Message) Validate() error {
	if len(m.To) == 0 {
		return NewValidationError("to", "at least one recipient required")
	}

	for i, to := range m.To {
		if strings.TrimSpace(to) == "" {
			return NewValidationError("to", "empty recipient address at index "+strconv.Itoa(i))
		}
	}

	if strings.TrimSpace(m.Subject) == "" {
		return NewValidationError("subject", "subject is required")
	}

	if strings.TrimSpace(m.HTMLBody) == "" {
		return NewValidationError("html_body", "HTML body is required")
	}

	return nil
}

// HasAttachments returns true if the message carries any attachments.
func (m *Message) HasAttachments() bool {
	return len(m.Attachments) > 0
}

// TemplateRequest represents a request to send an email rendered from a
// named template.
type TemplateRequest struct {
	// Template is the name of the template, without extension.
	Template string

	// Data is merged into the template during rendering.
	Data map[string]any

	// To contains the recipients for this email.
	To []string

	// CC contains carbon copy recipients (optional).
	CC []string

	// BCC contains blind carbon copy recipients (optional).
	BCC []string

	// Subject is the email subject. If empty, the provider substitutes
	// its default subject.
	Subject string
}
