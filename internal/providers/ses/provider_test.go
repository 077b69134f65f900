package ses

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsses "github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emmastro/mail-dispatch/internal/core"
	"github.com/Emmastro/mail-dispatch/internal/providers"
)

type fakeAPI struct {
	input  *awsses.SendEmailInput
	output *awsses.SendEmailOutput
	err    error
	calls  int
}

func (f *fakeAPI) SendEmail(ctx context.Context, params *awsses.SendEmailInput, optFns ...func(*awsses.Options)) (*awsses.SendEmailOutput, error) {
	f.calls++
	f.input = params
	return f.output, f.err
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
		settings: Settings{Region: "us-east-1", Sender: "noreply@example.com"},
		client:   api,
	}
}

func TestParseSettings(t *testing.T) {
	s, err := ParseSettings(core.Config{
		"AWS_SENDER_EMAIL": "noreply@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", s.Region)
	assert.Equal(t, "noreply@example.com", s.Sender)
}

func TestParseSettingsRequiresSender(t *testing.T) {
	_, err := ParseSettings(core.Config{})

	var cfgErr *core.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "AWS_SENDER_EMAIL", cfgErr.Key)
}

func TestParseSettingsRequiresSecretWithAccessKey(t *testing.T) {
	_, err := ParseSettings(core.Config{
		"AWS_SENDER_EMAIL":  "noreply@example.com",
		"AWS_ACCESS_KEY_ID": "AKIA123",
	})

	var cfgErr *core.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "AWS_SECRET_ACCESS_KEY", cfgErr.Key)
}

func TestSendEmail(t *testing.T) {
	fake := &fakeAPI{
		output: &awsses.SendEmailOutput{MessageId: aws.String("ses-msg-1")},
	}
	p := newTestProvider(fake)

	result, err := p.SendEmail(context.Background(), &core.Message{
		To:       []string{"user@example.com"},
		CC:       []string{"cc@example.com"},
		BCC:      []string{"bcc@example.com"},
		Subject:  "hello",
		HTMLBody: "<p>hello</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "ses-msg-1", result.MessageID)
	assert.Equal(t, core.StatusSent, result.Status)
	assert.Equal(t, Name, result.Provider)

	require.NotNil(t, fake.input)
	assert.Equal(t, "noreply@example.com", aws.ToString(fake.input.Source))
	assert.Equal(t, []string{"user@example.com"}, fake.input.Destination.ToAddresses)
	assert.Equal(t, []string{"cc@example.com"}, fake.input.Destination.CcAddresses)
	assert.Equal(t, []string{"bcc@example.com"}, fake.input.Destination.BccAddresses)
	assert.Equal(t, "hello", aws.ToString(fake.input.Message.Subject.Data))
	assert.Equal(t, "<p>hello</p>", aws.ToString(fake.input.Message.Body.Html.Data))
}

func TestSendEmailDropsAttachments(t *testing.T) {
	fake := &fakeAPI{output: &awsses.SendEmailOutput{MessageId: aws.String("ses-msg-2")}}
	p := newTestProvider(fake)

	result, err := p.SendEmail(context.Background(), &core.Message{
		To:       []string{"user@example.com"},
		Subject:  "hello",
		HTMLBody: "<p>hello</p>",
		Attachments: []core.Attachment{
			{Filename: "report.pdf", Content: []byte("data")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, core.StatusSent, result.Status)
}

func TestSendEmailUnavailable(t *testing.T) {
	fake := &fakeAPI{}
	p := newTestProvider(fake)
	p.client = nil
	p.initErr = errors.New("no credentials")

	_, err := p.SendEmail(context.Background(), &core.Message{
		To:       []string{"user@example.com"},
		Subject:  "hello",
		HTMLBody: "<p>hello</p>",
	})
	require.ErrorIs(t, err, core.ErrProviderUnavailable)
	assert.Zero(t, fake.calls, "no transport call may be attempted")
}

func TestSendEmailTransportError(t *testing.T) {
	fake := &fakeAPI{err: errors.New("MessageRejected")}
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
	fake := &fakeAPI{output: &awsses.SendEmailOutput{MessageId: aws.String("ses-msg-3")}}
	p := newTestProvider(fake)

	_, err := p.SendTemplateEmail(context.Background(), &core.TemplateRequest{
		Template: "welcome",
		To:       []string{"user@example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Default subject", aws.ToString(fake.input.Message.Subject.Data))
	assert.Equal(t, "<p>rendered</p>", aws.ToString(fake.input.Message.Body.Html.Data))
}
