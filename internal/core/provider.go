package core

import (
	"context"

	"github.com/rs/zerolog"
)

// Provider defines the interface for email service providers.
// Implementations handle backend-specific payload construction and
// normalize acknowledgments into SendResult. All methods are safe for
// concurrent use.
type Provider interface {
	// SendEmail sends a single email using the provider's transport.
	SendEmail(ctx context.Context, msg *Message) (*SendResult, error)

	// SendTemplateEmail renders the named template, substitutes the
	// provider's default subject when none is given, and sends the
	// resulting message.
	SendTemplateEmail(ctx context.Context, req *TemplateRequest) (*SendResult, error)

	// Name returns the provider's registered name.
	Name() string
}

// Renderer resolves a template name to escaped HTML output.
type Renderer interface {
	// Render renders the named template with the provided data.
	Render(name string, data map[string]any) (string, error)
}

// Deps carries the shared collaborators handed to every provider factory:
// the template renderer owned by the service and the diagnostic logger.
type Deps struct {
	Renderer Renderer
	Logger   zerolog.Logger
}

// Factory constructs a provider from the shared configuration map. The map
// is a superset passed to every factory; implementations read only their
// own namespaced keys. Missing required keys produce a ConfigError;
// transport-client construction failures must NOT be returned, they degrade
// the provider instead.
type Factory func(deps Deps, cfg Config) (Provider, error)
