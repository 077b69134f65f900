package maildispatch

import (
	"context"

	"github.com/Emmastro/mail-dispatch/internal/core"
)

// Public interfaces for the mail-dispatch library
type (
	// EmailSender is the uniform send interface exposed by the service
	// and by every provider variant. All methods are safe for
	// concurrent use.
	EmailSender interface {
		// SendEmail sends a single email through the configured
		// backend and returns the normalized result.
		SendEmail(ctx context.Context, msg *Message) (*SendResult, error)

		// SendTemplateEmail renders a named template, applies the
		// default subject when the request carries none, and sends
		// the resulting email.
		SendTemplateEmail(ctx context.Context, req *TemplateRequest) (*SendResult, error)
	}

	// Renderer resolves a template name to escaped HTML output.
	Renderer = core.Renderer
)

// Type aliases to re-export core types for the public API.
// This allows users to access types like maildispatch.Message instead of
// core.Message, maintaining a clean public interface while keeping
// implementation details internal.
type (
	Provider             = core.Provider
	Factory              = core.Factory
	Deps                 = core.Deps
	Config               = core.Config
	Message              = core.Message
	Attachment           = core.Attachment
	TemplateRequest      = core.TemplateRequest
	SendResult           = core.SendResult
	Status               = core.Status
	ConfigError          = core.ConfigError
	ValidationError      = core.ValidationError
	TemplateError        = core.TemplateError
	TransportError       = core.TransportError
	UnknownProviderError = core.UnknownProviderError
)

// Status constants
const (
	StatusSent      = core.StatusSent
	StatusPublished = core.StatusPublished
	StatusFailed    = core.StatusFailed
)
