// Package maildispatch provides a provider-agnostic layer for transactional
// email delivery: a uniform send interface dispatching to one of several
// pluggable backends, configured from a flat key-value map, plus a
// server-side HTML template renderer for composing message bodies.
//
// # Basic Usage
//
//	cfg := maildispatch.Config{
//		"EMAIL_PROVIDER":    "aws",
//		"AWS_REGION":        "us-east-1",
//		"AWS_SENDER_EMAIL":  "noreply@example.com",
//	}
//
//	svc, err := maildispatch.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := svc.SendEmail(context.Background(), &maildispatch.Message{
//		To:       []string{"user@example.com"},
//		Subject:  "Welcome",
//		HTMLBody: "<h1>Welcome!</h1>",
//	})
//
// Templated sends render a named HTML file from the template root with
// auto-escaped variable substitution:
//
//	result, err := svc.SendTemplateEmail(context.Background(), &maildispatch.TemplateRequest{
//		Template: "welcome",
//		Data:     map[string]any{"recipient_name": "John Doe"},
//		To:       []string{"user@example.com"},
//	})
//
// # Supported Providers
//
//   - SendGrid ("sendgrid")
//   - AWS SES ("aws")
//   - Azure Communication Services ("azure")
//   - Google Cloud Pub/Sub relay ("gcp")
//
// Additional providers can be registered at runtime with Register.
//
// # Features
//
//   - Provider-agnostic interface with normalized send results
//   - HTML template rendering with mandatory auto-escaping and strict
//     path containment
//   - Degraded-provider semantics: transport initialization failures
//     surface on first use, not at construction
//   - Distributed tracing with OpenTelemetry
//   - Context-aware operations, safe for concurrent use
package maildispatch
