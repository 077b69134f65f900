package maildispatch

import (
	"github.com/rs/zerolog"

	"github.com/Emmastro/mail-dispatch/internal/core"
)

// serviceOptions holds the optional collaborators for service construction.
type serviceOptions struct {
	logger   zerolog.Logger
	registry *Registry
	renderer core.Renderer
}

func defaultOptions() serviceOptions {
	return serviceOptions{
		logger:   zerolog.Nop(),
		registry: DefaultRegistry,
	}
}

// Option is a functional option for configuring the service.
type Option func(*serviceOptions)

// WithLogger sets the logger used for diagnostics. The default discards
// all output.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// WithRegistry selects the provider registry to resolve EMAIL_PROVIDER
// against, instead of the package default.
func WithRegistry(registry *Registry) Option {
	return func(o *serviceOptions) {
		o.registry = registry
	}
}

// WithRenderer injects a template renderer, bypassing the directory
// resolution performed by TemplateRendererFromConfig.
func WithRenderer(renderer core.Renderer) Option {
	return func(o *serviceOptions) {
		o.renderer = renderer
	}
}
