// Package sendgrid implements the email provider backed by the SendGrid
// v3 API.
package sendgrid

import (
	"context"
	"encoding/base64"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/Emmastro/mail-dispatch/internal/core"
	"github.com/Emmastro/mail-dispatch/internal/providers"
)

// Name is the registry name of this provider.
const Name = "sendgrid"

// api is the subset of the SendGrid client used by the provider.
// *sendgrid.Client satisfies it; tests substitute a fake.
type api interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Settings holds the SendGrid configuration for the provider.
type Settings struct {
	APIKey string
	Sender string
}

// ParseSettings extracts and validates the SendGrid keys from the shared
// configuration map.
func ParseSettings(cfg core.Config) (Settings, error) {
	s := Settings{
		APIKey: cfg.Get("EMAIL_SENDGRID_API_KEY"),
		Sender: cfg.Get("EMAIL_DEFAULT_FROM_EMAIL"),
	}

	if s.APIKey == "" {
		return Settings{}, core.NewConfigError("EMAIL_SENDGRID_API_KEY", "API key is required")
	}
	if s.Sender == "" {
		return Settings{}, core.NewConfigError("EMAIL_DEFAULT_FROM_EMAIL", "sender address is required")
	}

	return s, nil
}

// Provider implements core.Provider for SendGrid.
type Provider struct {
	providers.Base
	settings Settings
	client   api
}

// New creates a new SendGrid provider.
func New(deps core.Deps, cfg core.Config) (core.Provider, error) {
	settings, err := ParseSettings(cfg)
	if err != nil {
		return nil, err
	}

	return &Provider{
		Base:     providers.NewBase(deps),
		settings: settings,
		client:   sendgrid.NewSendClient(settings.APIKey),
	}, nil
}

// SendEmail sends a single email using SendGrid. A non-2xx response that
// arrives without a client error is normalized into a failed result rather
// than an error, matching the callers that inspect SendResult.Status.
func (p *Provider) SendEmail(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	if p.client == nil {
		return nil, core.NewUnavailableError(Name, nil)
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}

	message := p.buildMail(msg)

	response, err := p.client.SendWithContext(ctx, message)
	if err != nil {
		return nil, &core.TransportError{
			Provider: Name,
			Code:     "send_error",
			Message:  "failed to send email: " + err.Error(),
			Cause:    err,
		}
	}

	messageID := "unknown"
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}

	status := core.StatusSent
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		status = core.StatusFailed
		p.Logger.Warn().
			Str("provider", Name).
			Int("status_code", response.StatusCode).
			Str("body", response.Body).
			Msg("SendGrid rejected the message")
	} else {
		p.Logger.Info().
			Str("provider", Name).
			Strs("to", msg.To).
			Int("status_code", response.StatusCode).
			Msg("email sent")
	}

	return &core.SendResult{
		MessageID: messageID,
		Status:    status,
		Provider:  Name,
	}, nil
}

// SendTemplateEmail renders the template and sends the result.
func (p *Provider) SendTemplateEmail(ctx context.Context, req *core.TemplateRequest) (*core.SendResult, error) {
	msg, err := p.BuildFromTemplate(req, p.DefaultSubject)
	if err != nil {
		return nil, err
	}
	return p.SendEmail(ctx, msg)
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return Name
}

// buildMail converts a core.Message into the SendGrid payload.
func (p *Provider) buildMail(msg *core.Message) *mail.SGMailV3 {
	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail("", p.settings.Sender))
	message.Subject = msg.Subject
	message.AddContent(mail.NewContent("text/html", msg.HTMLBody))

	personalization := mail.NewPersonalization()
	for _, to := range msg.To {
		personalization.AddTos(mail.NewEmail("", to))
	}
	for _, cc := range msg.CC {
		personalization.AddCCs(mail.NewEmail("", cc))
	}
	for _, bcc := range msg.BCC {
		personalization.AddBCCs(mail.NewEmail("", bcc))
	}
	message.AddPersonalizations(personalization)

	for _, att := range msg.Attachments {
		attachment := mail.NewAttachment()
		attachment.SetContent(base64.StdEncoding.EncodeToString(att.Content))
		attachment.SetFilename(att.Filename)
		attachment.SetType(att.DetectContentType())
		attachment.SetDisposition("attachment")
		message.AddAttachment(attachment)
	}

	return message
}
