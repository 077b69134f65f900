package maildispatch

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emmastro/mail-dispatch/internal/core"
)

// fakeProvider records calls for service-forwarding tests.
type fakeProvider struct {
	name    string
	lastMsg *core.Message
	lastReq *core.TemplateRequest
	result  *core.SendResult
	sendErr error
}

func (f *fakeProvider) SendEmail(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	f.lastMsg = msg
	return f.result, f.sendErr
}

func (f *fakeProvider) SendTemplateEmail(ctx context.Context, req *core.TemplateRequest) (*core.SendResult, error) {
	f.lastReq = req
	return f.result, f.sendErr
}

func (f *fakeProvider) Name() string { return f.name }

func testAccessKey() string {
	return base64.StdEncoding.EncodeToString([]byte("test-access-key"))
}

func TestNewAllBuiltinProviders(t *testing.T) {
	tests := []struct {
		provider string
		cfg      Config
	}{
		{
			provider: ProviderSendGrid,
			cfg: Config{
				KeySendGridAPIKey: "SG.test-key",
				KeyDefaultFrom:    "noreply@example.com",
			},
		},
		{
			provider: ProviderAWSSES,
			cfg: Config{
				KeyAWSRegion:      "eu-west-1",
				KeyAWSSenderEmail: "noreply@example.com",
			},
		},
		{
			provider: ProviderAzure,
			cfg: Config{
				KeyAzureConnectionString: "endpoint=https://acs.example.com/;accesskey=" + testAccessKey(),
				KeyAzureSenderEmail:      "noreply@example.com",
			},
		},
		{
			provider: ProviderGCP,
			cfg: Config{
				KeyGCPProjectID: "test-project",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := Config{
				KeyProvider:    tt.provider,
				KeyTemplateDir: t.TempDir(),
			}
			for k, v := range tt.cfg {
				cfg[k] = v
			}

			svc, err := New(cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.provider, svc.Provider().Name())
		})
	}
}

func TestNewProviderNameIsCaseInsensitive(t *testing.T) {
	svc, err := New(Config{
		KeyProvider:       "AWS",
		KeyTemplateDir:    t.TempDir(),
		KeyAWSSenderEmail: "noreply@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, ProviderAWSSES, svc.Provider().Name())
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(Config{
		KeyProvider:    "not-a-real-provider",
		KeyTemplateDir: t.TempDir(),
	})

	var unknownErr *UnknownProviderError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "not-a-real-provider", unknownErr.Name)
}

func TestNewMissingProviderKey(t *testing.T) {
	_, err := New(Config{KeyTemplateDir: t.TempDir()})

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, KeyProvider, cfgErr.Key)
}

func TestNewProviderConfigErrorFailsFast(t *testing.T) {
	// SES requires a sender address; the service must not be built.
	_, err := New(Config{
		KeyProvider:    ProviderAWSSES,
		KeyTemplateDir: t.TempDir(),
	})

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, KeyAWSSenderEmail, cfgErr.Key)
}

func TestNewIgnoresUnrelatedKeys(t *testing.T) {
	svc, err := New(Config{
		KeyProvider:       ProviderAWSSES,
		KeyTemplateDir:    t.TempDir(),
		KeyAWSSenderEmail: "noreply@example.com",
		// Keys from other provider namespaces must be ignored.
		KeySendGridAPIKey: "SG.unused",
		KeyGCPProjectID:   "unused-project",
		"SOME_OTHER_KEY":  "unused",
	})
	require.NoError(t, err)
	assert.Equal(t, ProviderAWSSES, svc.Provider().Name())
}

func TestServiceForwardsToProvider(t *testing.T) {
	fake := &fakeProvider{
		name:   "fake",
		result: &core.SendResult{MessageID: "msg-1", Status: StatusSent, Provider: "fake"},
	}

	registry := NewRegistry()
	registry.Register("fake", func(deps core.Deps, cfg core.Config) (core.Provider, error) {
		return fake, nil
	})

	svc, err := New(
		Config{KeyProvider: "fake", KeyTemplateDir: t.TempDir()},
		WithRegistry(registry),
	)
	require.NoError(t, err)

	msg := &Message{To: []string{"user@example.com"}, Subject: "hi", HTMLBody: "<p>hi</p>"}
	result, err := svc.SendEmail(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, "msg-1", result.MessageID)
	assert.Equal(t, StatusSent, result.Status)
	assert.Same(t, msg, fake.lastMsg)

	req := &TemplateRequest{Template: "welcome", To: []string{"user@example.com"}}
	_, err = svc.SendTemplateEmail(context.Background(), req)
	require.NoError(t, err)
	assert.Same(t, req, fake.lastReq)
}

func TestSendResultJSONShape(t *testing.T) {
	result := &SendResult{MessageID: "abc-123", Status: StatusPublished, Provider: "gcp"}

	assert.Equal(t, "published", result.Status.String())
	assert.Equal(t, "abc-123", result.MessageID)
}
