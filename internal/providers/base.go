// Package providers holds the behavior shared by every email provider
// variant: the default-subject hook and the template-to-message build step.
// Each variant lives in its own sub-package and embeds Base.
package providers

import (
	"github.com/rs/zerolog"

	"github.com/Emmastro/mail-dispatch/internal/core"
)

// Base carries the collaborators and shared behavior common to all provider
// variants. Variants embed it and may shadow DefaultSubject to change the
// subject used for template sends without an explicit subject.
type Base struct {
	Renderer core.Renderer
	Logger   zerolog.Logger
}

// NewBase creates the shared provider base from the factory dependencies.
func NewBase(deps core.Deps) Base {
	return Base{
		Renderer: deps.Renderer,
		Logger:   deps.Logger,
	}
}

// DefaultSubject returns the subject used for template sends when the
// request does not carry one. Variants may override.
func (b *Base) DefaultSubject() string {
	return "Default subject"
}

// BuildFromTemplate renders the request's template and assembles a Message,
// substituting subjectFn() when the request has no explicit subject. The
// hook is passed in so an embedding variant's override is honored.
func (b *Base) BuildFromTemplate(req *core.TemplateRequest, subjectFn func() string) (*core.Message, error) {
	html, err := b.Renderer.Render(req.Template, req.Data)
	if err != nil {
		return nil, err
	}

	subject := req.Subject
	if subject == "" {
		subject = subjectFn()
	}

	return &core.Message{
		To:       req.To,
		CC:       req.CC,
		BCC:      req.BCC,
		Subject:  subject,
		HTMLBody: html,
	}, nil
}

// DropAttachments logs the documented attachment-drop diagnostic and
// returns a copy of the message without attachments. Used by backends that
// cannot carry inline attachments; the call must succeed regardless.
func (b *Base) DropAttachments(provider string, msg *core.Message) *core.Message {
	if !msg.HasAttachments() {
		return msg
	}

	b.Logger.Warn().
		Str("provider", provider).
		Int("attachments", len(msg.Attachments)).
		Msg("attachments not supported by this backend, dropping")

	stripped := *msg
	stripped.Attachments = nil
	return &stripped
}
