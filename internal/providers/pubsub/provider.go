// Package pubsub implements the relay email provider backed by Google
// Cloud Pub/Sub. Messages are published as JSON envelopes to a topic and
// delivered by a downstream subscriber, so successful sends report the
// "published" status rather than "sent".
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	gcppubsub "cloud.google.com/go/pubsub"
	"google.golang.org/api/option"

	"github.com/Emmastro/mail-dispatch/internal/core"
	"github.com/Emmastro/mail-dispatch/internal/providers"
)

// Name is the registry name of this provider.
const Name = "gcp"

// defaultTopic is used when GCP_PUBSUB_EMAIL_TOPIC is not configured.
const defaultTopic = "email-notifications"

// publisher is the transport seam: the real implementation wraps a
// *pubsub.Topic, tests substitute a fake.
type publisher interface {
	Publish(ctx context.Context, data []byte) (string, error)
}

// topicPublisher publishes to a Pub/Sub topic and waits for the server-
// assigned message id.
type topicPublisher struct {
	topic *gcppubsub.Topic
}

func (t *topicPublisher) Publish(ctx context.Context, data []byte) (string, error) {
	result := t.topic.Publish(ctx, &gcppubsub.Message{Data: data})
	return result.Get(ctx)
}

// Settings holds the GCP-namespaced configuration for the provider.
type Settings struct {
	ProjectID          string
	Topic              string
	ServiceAccountJSON string
	Sender             string
}

// ParseSettings extracts and validates the GCP keys from the shared
// configuration map.
func ParseSettings(cfg core.Config) (Settings, error) {
	s := Settings{
		ProjectID:          cfg.Get("GCP_PROJECT_ID"),
		Topic:              cfg.GetDefault("GCP_PUBSUB_EMAIL_TOPIC", defaultTopic),
		ServiceAccountJSON: cfg.Get("GCP_SERVICE_ACCOUNT_JSON"),
		Sender:             cfg.Get("EMAIL_DEFAULT_FROM_EMAIL"),
	}

	if s.ProjectID == "" {
		return Settings{}, core.NewConfigError("GCP_PROJECT_ID", "project id is required")
	}

	return s, nil
}

// Provider implements core.Provider for the Pub/Sub relay.
type Provider struct {
	providers.Base
	settings  Settings
	topicPath string
	publisher publisher
	initErr   error
}

// New creates a new Pub/Sub relay provider. Client construction failures
// (typically missing credentials) degrade the provider.
func New(deps core.Deps, cfg core.Config) (core.Provider, error) {
	settings, err := ParseSettings(cfg)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		Base:      providers.NewBase(deps),
		settings:  settings,
		topicPath: fmt.Sprintf("projects/%s/topics/%s", settings.ProjectID, settings.Topic),
	}

	var opts []option.ClientOption
	if settings.ServiceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsFile(settings.ServiceAccountJSON))
	}

	client, err := gcppubsub.NewClient(context.Background(), settings.ProjectID, opts...)
	if err != nil {
		p.Logger.Error().Err(err).Str("provider", Name).Msg("failed to initialize Pub/Sub client")
		p.initErr = err
		return p, nil
	}

	p.publisher = &topicPublisher{topic: client.Topic(settings.Topic)}
	return p, nil
}

// envelope is the JSON message published to the topic. The downstream
// subscriber performs the actual delivery.
type envelope struct {
	From        string   `json:"from"`
	To          []string `json:"to"`
	CC          []string `json:"cc,omitempty"`
	BCC         []string `json:"bcc,omitempty"`
	Subject     string   `json:"subject"`
	HTMLContent string   `json:"html_content"`
}

// SendEmail publishes the message envelope to the configured topic. The
// relay cannot carry inline attachments, so any supplied attachments are
// dropped with a diagnostic.
func (p *Provider) SendEmail(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	if p.publisher == nil {
		return nil, core.NewUnavailableError(Name, p.initErr)
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}

	msg = p.DropAttachments(Name, msg)

	data, err := json.Marshal(envelope{
		From:        p.settings.Sender,
		To:          msg.To,
		CC:          msg.CC,
		BCC:         msg.BCC,
		Subject:     msg.Subject,
		HTMLContent: msg.HTMLBody,
	})
	if err != nil {
		return nil, &core.TransportError{
			Provider: Name,
			Code:     "encode_error",
			Message:  "failed to encode envelope: " + err.Error(),
			Cause:    err,
		}
	}

	messageID, err := p.publisher.Publish(ctx, data)
	if err != nil {
		return nil, &core.TransportError{
			Provider: Name,
			Code:     "publish_error",
			Message:  "failed to publish email message: " + err.Error(),
			Cause:    err,
		}
	}

	p.Logger.Info().
		Str("provider", Name).
		Str("topic", p.topicPath).
		Str("message_id", messageID).
		Msg("email message published")

	return &core.SendResult{
		MessageID: messageID,
		Status:    core.StatusPublished,
		Provider:  Name,
	}, nil
}

// SendTemplateEmail renders the template and publishes the result.
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
