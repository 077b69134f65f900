package maildispatch

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Emmastro/mail-dispatch/internal/core"
)

// Service is the composition root: it binds a template renderer and exactly
// one provider from a configuration map at construction time, then forwards
// the two send operations to the active provider. All methods are safe for
// concurrent use.
type Service struct {
	provider core.Provider
	renderer core.Renderer
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// New creates an email service from the configuration map. The provider is
// selected by the EMAIL_PROVIDER key (case-insensitive) and constructed
// once; configuration and lookup errors surface here, never later.
func New(cfg Config, opts ...Option) (*Service, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	name := cfg.Get("EMAIL_PROVIDER")
	if name == "" {
		return nil, core.NewConfigError("EMAIL_PROVIDER", "provider name is required")
	}
	name = strings.ToLower(name)

	factory, ok := options.registry.Lookup(name)
	if !ok {
		return nil, &core.UnknownProviderError{Name: name}
	}

	renderer := options.renderer
	if renderer == nil {
		r, err := TemplateRendererFromConfig(cfg, options.logger)
		if err != nil {
			return nil, err
		}
		renderer = r
	}

	provider, err := factory(core.Deps{Renderer: renderer, Logger: options.logger}, cfg)
	if err != nil {
		return nil, err
	}

	options.logger.Info().
		Str("provider", name).
		Msg("email service initialized")

	return &Service{
		provider: provider,
		renderer: renderer,
		logger:   options.logger,
		tracer:   otel.Tracer("github.com/Emmastro/mail-dispatch"),
	}, nil
}

// SendEmail sends a single email using the configured provider.
func (s *Service) SendEmail(ctx context.Context, msg *Message) (*SendResult, error) {
	ctx, span := s.tracer.Start(ctx, "maildispatch.Service.SendEmail")
	defer span.End()

	span.SetAttributes(
		attribute.String("mail.provider", s.provider.Name()),
		attribute.String("mail.subject", msg.Subject),
		attribute.Int("mail.recipients", len(msg.To)),
	)

	result, err := s.provider.SendEmail(ctx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("mail.message_id", result.MessageID),
		attribute.String("mail.status", result.Status.String()),
	)
	span.SetStatus(codes.Ok, "email sent")

	return result, nil
}

// SendTemplateEmail sends a templated email using the configured provider.
func (s *Service) SendTemplateEmail(ctx context.Context, req *TemplateRequest) (*SendResult, error) {
	ctx, span := s.tracer.Start(ctx, "maildispatch.Service.SendTemplateEmail")
	defer span.End()

	span.SetAttributes(
		attribute.String("mail.provider", s.provider.Name()),
		attribute.String("mail.template", req.Template),
		attribute.Int("mail.recipients", len(req.To)),
	)

	result, err := s.provider.SendTemplateEmail(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "template send failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("mail.message_id", result.MessageID),
		attribute.String("mail.status", result.Status.String()),
	)
	span.SetStatus(codes.Ok, "email sent")

	return result, nil
}

// Provider returns the active provider instance, mainly for introspection
// and testing.
func (s *Service) Provider() Provider {
	return s.provider
}

// Renderer returns the template renderer shared with the provider.
func (s *Service) Renderer() Renderer {
	return s.renderer
}
