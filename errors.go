package maildispatch

import (
	"github.com/Emmastro/mail-dispatch/internal/core"
)

// Sentinel errors re-exported from the core package.
var (
	// ErrTemplateNotFound indicates a requested template was not found
	// under the template root.
	ErrTemplateNotFound = core.ErrTemplateNotFound

	// ErrProviderUnavailable indicates the provider's transport client
	// never initialized; sends fail fast without attempting network I/O.
	ErrProviderUnavailable = core.ErrProviderUnavailable
)

// Error constructor functions
var (
	NewConfigError      = core.NewConfigError
	NewValidationError  = core.NewValidationError
	NewTemplateError    = core.NewTemplateError
	NewTransportError   = core.NewTransportError
	NewUnavailableError = core.NewUnavailableError
)
