package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnavailableErrorWrapsSentinel(t *testing.T) {
	cause := errors.New("no credentials")
	err := NewUnavailableError("aws", cause)

	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "aws")
	assert.Contains(t, err.Error(), "no credentials")
}

func TestUnavailableErrorWithoutCause(t *testing.T) {
	err := NewUnavailableError("azure", nil)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestTransportErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &TransportError{Provider: "sendgrid", Code: "send_error", Message: "boom", Cause: cause}

	assert.ErrorIs(t, err, cause)
}

func TestTransportErrorMatchesOnProviderAndCode(t *testing.T) {
	err := NewTransportError("sendgrid", "send_error", "boom")

	assert.ErrorIs(t, err, &TransportError{Provider: "sendgrid", Code: "send_error"})
	assert.NotErrorIs(t, err, &TransportError{Provider: "aws", Code: "send_error"})
}

func TestTransportErrorMessageIncludesStatusCode(t *testing.T) {
	err := &TransportError{Provider: "azure", Code: "api_error", Message: "denied", StatusCode: 401}
	assert.Contains(t, err.Error(), "status: 401")
}

func TestTemplateErrorUnwrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := NewTemplateError("welcome", "parse", "bad template", cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "welcome")
	assert.Contains(t, err.Error(), "parse")
}

func TestConfigErrorMatching(t *testing.T) {
	err := NewConfigError("EMAIL_PROVIDER", "provider is required")

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, &ConfigError{})
}
