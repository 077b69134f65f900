// Package ses implements the email provider backed by AWS Simple Email
// Service.
package ses

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/Emmastro/mail-dispatch/internal/core"
	"github.com/Emmastro/mail-dispatch/internal/providers"
)

// Name is the registry name of this provider.
const Name = "aws"

// api is the subset of the SES client used by the provider. *ses.Client
// satisfies it; tests substitute a fake.
type api interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Settings holds the AWS-namespaced configuration for the provider.
type Settings struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Sender          string
}

// ParseSettings extracts and validates the AWS keys from the shared
// configuration map. Unrecognized keys are ignored.
func ParseSettings(cfg core.Config) (Settings, error) {
	s := Settings{
		Region:          cfg.GetDefault("AWS_REGION", "us-east-1"),
		AccessKeyID:     cfg.Get("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: cfg.Get("AWS_SECRET_ACCESS_KEY"),
		Sender:          cfg.Get("AWS_SENDER_EMAIL"),
	}

	if s.Sender == "" {
		return Settings{}, core.NewConfigError("AWS_SENDER_EMAIL", "sender address is required")
	}
	if s.AccessKeyID != "" && s.SecretAccessKey == "" {
		return Settings{}, core.NewConfigError("AWS_SECRET_ACCESS_KEY", "secret key is required when access key is provided")
	}

	return s, nil
}

// Provider implements core.Provider for AWS SES.
type Provider struct {
	providers.Base
	settings Settings
	client   api
	initErr  error
}

// New creates a new AWS SES provider. Client construction failures are
// recorded and surface as ErrProviderUnavailable on first use.
func New(deps core.Deps, cfg core.Config) (core.Provider, error) {
	settings, err := ParseSettings(cfg)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		Base:     providers.NewBase(deps),
		settings: settings,
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(settings.Region),
	}
	if settings.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(settings.AccessKeyID, settings.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		p.Logger.Error().Err(err).Str("provider", Name).Msg("failed to initialize SES client")
		p.initErr = err
		return p, nil
	}

	p.client = ses.NewFromConfig(awsCfg)
	return p, nil
}

// SendEmail sends a single email using AWS SES. The basic SendEmail API
// cannot carry attachments, so any supplied attachments are dropped with a
// diagnostic.
func (p *Provider) SendEmail(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	if p.client == nil {
		return nil, core.NewUnavailableError(Name, p.initErr)
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}

	msg = p.DropAttachments(Name, msg)

	input := &ses.SendEmailInput{
		Source: aws.String(p.settings.Sender),
		Destination: &types.Destination{
			ToAddresses: msg.To,
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(msg.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(msg.HTMLBody),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if len(msg.CC) > 0 {
		input.Destination.CcAddresses = msg.CC
	}
	if len(msg.BCC) > 0 {
		input.Destination.BccAddresses = msg.BCC
	}

	output, err := p.client.SendEmail(ctx, input)
	if err != nil {
		return nil, &core.TransportError{
			Provider: Name,
			Code:     "send_error",
			Message:  "failed to send email: " + err.Error(),
			Cause:    err,
		}
	}

	p.Logger.Info().
		Str("provider", Name).
		Strs("to", msg.To).
		Str("message_id", aws.ToString(output.MessageId)).
		Msg("email sent")

	return &core.SendResult{
		MessageID: aws.ToString(output.MessageId),
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
