// Package azure implements the email provider backed by Azure
// Communication Services. There is no Go SDK for the ACS email API, so the
// provider speaks the REST API directly with HMAC-SHA256 request signing
// derived from the connection string.
package azure

import (
	"context"
	"encoding/json"

	"github.com/Emmastro/mail-dispatch/internal/core"
	"github.com/Emmastro/mail-dispatch/internal/providers"
)

// Name is the registry name of this provider.
const Name = "azure"

// Settings holds the Azure-namespaced configuration for the provider.
type Settings struct {
	ConnectionString string
	Sender           string
}

// ParseSettings extracts and validates the Azure keys from the shared
// configuration map.
func ParseSettings(cfg core.Config) (Settings, error) {
	s := Settings{
		ConnectionString: cfg.Get("AZURE_COMMUNICATION_CONNECTION_STRING"),
		Sender:           cfg.Get("AZURE_SENDER_EMAIL"),
	}

	if s.ConnectionString == "" {
		return Settings{}, core.NewConfigError("AZURE_COMMUNICATION_CONNECTION_STRING", "connection string is required")
	}
	if s.Sender == "" {
		return Settings{}, core.NewConfigError("AZURE_SENDER_EMAIL", "sender address is required")
	}

	return s, nil
}

// Provider implements core.Provider for Azure Communication Services.
type Provider struct {
	providers.Base
	settings Settings
	client   *client
	initErr  error
}

// New creates a new Azure provider. A malformed connection string degrades
// the provider rather than failing construction; the first send reports
// ErrProviderUnavailable.
func New(deps core.Deps, cfg core.Config) (core.Provider, error) {
	settings, err := ParseSettings(cfg)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		Base:     providers.NewBase(deps),
		settings: settings,
	}

	c, err := newClient(settings.ConnectionString)
	if err != nil {
		p.Logger.Error().Err(err).Str("provider", Name).Msg("failed to initialize Azure email client")
		p.initErr = err
		return p, nil
	}

	p.client = c
	return p, nil
}

// sendRequest is the ACS email REST payload.
type sendRequest struct {
	SenderAddress string         `json:"senderAddress"`
	Content       sendContent    `json:"content"`
	Recipients    sendRecipients `json:"recipients"`
	Attachments   []sendAttachment `json:"attachments,omitempty"`
}

type sendContent struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type sendRecipients struct {
	To  []emailAddress `json:"to"`
	CC  []emailAddress `json:"cc,omitempty"`
	BCC []emailAddress `json:"bcc,omitempty"`
}

type emailAddress struct {
	Address string `json:"address"`
}

type sendAttachment struct {
	Name            string `json:"name"`
	ContentType     string `json:"contentType"`
	ContentInBase64 string `json:"contentInBase64"`
}

// SendEmail sends a single email through the ACS email REST API.
func (p *Provider) SendEmail(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	if p.client == nil {
		return nil, core.NewUnavailableError(Name, p.initErr)
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}

	payload := sendRequest{
		SenderAddress: p.settings.Sender,
		Content: sendContent{
			Subject: msg.Subject,
			HTML:    msg.HTMLBody,
		},
		Recipients: sendRecipients{
			To: toAddresses(msg.To),
		},
	}
	if len(msg.CC) > 0 {
		payload.Recipients.CC = toAddresses(msg.CC)
	}
	if len(msg.BCC) > 0 {
		payload.Recipients.BCC = toAddresses(msg.BCC)
	}
	for _, att := range msg.Attachments {
		payload.Attachments = append(payload.Attachments, sendAttachment{
			Name:            att.Filename,
			ContentType:     att.DetectContentType(),
			ContentInBase64: encodeContent(att.Content),
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &core.TransportError{
			Provider: Name,
			Code:     "encode_error",
			Message:  "failed to encode request: " + err.Error(),
			Cause:    err,
		}
	}

	messageID, err := p.client.send(ctx, body)
	if err != nil {
		return nil, err
	}

	p.Logger.Info().
		Str("provider", Name).
		Strs("to", msg.To).
		Str("message_id", messageID).
		Msg("email sent")

	return &core.SendResult{
		MessageID: messageID,
		Status:    core.StatusSent,
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

func toAddresses(emails []string) []emailAddress {
	out := make([]emailAddress, len(emails))
	for i, e := range emails {
		out[i] = emailAddress{Address: e}
	}
	return out
}
