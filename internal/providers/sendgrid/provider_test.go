package sendgrid

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emmastro/mail-dispatch/internal/core"
	"github.com/Emmastro/mail-dispatch/internal/providers"
)

type fakeAPI struct {
	message  *mail.SGMailV3
	response *rest.Response
	err      error
	calls    int
}

func (f *fakeAPI) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.calls++
	f.message = email
	return f.response, f.err
}

type stubRenderer struct {
	out string
	err error
}

func (s stubRenderer) Render(name string, data map[string]any) (string, error) {
	return s.out, s.err
}

func newTestProvider(api api) *Provider {
	return &Provider{
		Base: providers.NewBase(core.Deps{
			Renderer: stubRenderer{out: "<p>rendered</p>"},
			Logger:   zerolog.Nop(),
		}),
		settings: Settings{APIKey: "SG.test", Sender: "noreply@example.com"},
		client:   api,
	}
}

func acceptedResponse(messageID string) *rest.Response {
	return &rest.Response{
		StatusCode: 202,
		Headers:    map[string][]string{"X-Message-Id": {messageID}},
	}
}

func TestParseSettingsRequiresAPIKey(t *testing.T) {
	_, err := ParseSettings(core.Config{"EMAIL_DEFAULT_FROM_EMAIL": "noreply@example.com"})

	var cfgErr *core.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "EMAIL_SENDGRID_API_KEY", cfgErr.Key)
}

func TestParseSettingsRequiresSender(t *testing.T) {
	_, err := ParseSettings(core.Config{"EMAIL_SENDGRID_API_KEY": "SG.test"})

	var cfgErr *core.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "EMAIL_DEFAULT_FROM_EMAIL", cfgErr.Key)
}

func TestSendEmail(t *testing.T) {
	fake := &fakeAPI{response: acceptedResponse("sg-msg-1")}
	p := newTestProvider(fake)

	result, err := p.SendEmail(context.Background(), &core.Message{
		To:       []string{"user@example.com", "second@example.com"},
		CC:       []string{"cc@example.com"},
		BCC:      []string{"bcc@example.com"},
		Subject:  "hello",
		HTMLBody: "<p>hello</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "sg-msg-1", result.MessageID)
	assert.Equal(t, core.StatusSent, result.Status)

	require.NotNil(t, fake.message)
	assert.Equal(t, "noreply@example.com", fake.message.From.Address)
	assert.Equal(t, "hello", fake.message.Subject)
	require.Len(t, fake.message.Personalizations, 1)
	assert.Len(t, fake.message.Personalizations[0].To, 2)
	assert.Len(t, fake.message.Personalizations[0].CC, 1)
	assert.Len(t, fake.message.Personalizations[0].BCC, 1)
}

func TestSendEmailWithAttachments(t *testing.T) {
	fake := &fakeAPI{response: acceptedResponse("sg-msg-2")}
	p := newTestProvider(fake)

	_, err := p.SendEmail(context.Background(), &core.Message{
		To:       []string{"user@example.com"},
		Subject:  "hello",
		HTMLBody: "<p>hello</p>",
		Attachments: []core.Attachment{
			{Filename: "report.pdf", Content: []byte("data")},
		},
	})
	require.NoError(t, err)

	require.Len(t, fake.message.Attachments, 1)
	assert.Equal(t, "report.pdf", fake.message.Attachments[0].Filename)
	assert.Equal(t, "application/pdf", fake.message.Attachments[0].Type)
	assert.NotEmpty(t, fake.message.Attachments[0].Content)
}

func TestSendEmailRejectedResponse(t *testing.T) {
	fake := &fakeAPI{response: &rest.Response{StatusCode: 400, Body: `{"errors":[]}`}}
	p := newTestProvider(fake)

	result, err := p.SendEmail(context.Background(), &core.Message{
		To:       []string{"user@example.com"},
		Subject:  "hello",
		HTMLBody: "<p>hello</p>",
	})
	require.NoError(t, err, "a rejected response without a client error is not an error")
	assert.Equal(t, core.StatusFailed, result.Status)
	assert.Equal(t, "unknown", result.MessageID)
}

func TestSendEmailTransportError(t *testing.T) {
	fake := &fakeAPI{err: errors.New("connection refused")}
	p := newTestProvider(fake)

	_, err := p.SendEmail(context.Background(), &core.Message{
		To:       []string{"user@example.com"},
		Subject:  "hello",
		HTMLBody: "<p>hello</p>",
	})

	var transportErr *core.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, Name, transportErr.Provider)
}

func TestSendTemplateEmailUsesDefaultSubject(t *testing.T) {
	fake := &fakeAPI{response: acceptedResponse("sg-msg-3")}
	p := newTestProvider(fake)

	_, err := p.SendTemplateEmail(context.Background(), &core.TemplateRequest{
		Template: "welcome",
		To:       []string{"user@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Default subject", fake.message.Subject)
}
