package maildispatch

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Recognized configuration keys. The configuration map is a superset
// passed to every provider factory; each factory reads only its own
// namespaced keys and ignores the rest.
const (
	// KeyProvider selects the provider variant. Required.
	KeyProvider = "EMAIL_PROVIDER"

	// KeyTemplateDir overrides the template root directory.
	KeyTemplateDir = "EMAIL_TEMPLATE_DIR"

	// KeyDefaultFrom is the sender address used by providers without
	// their own sender key.
	KeyDefaultFrom = "EMAIL_DEFAULT_FROM_EMAIL"

	// KeySendGridAPIKey is the SendGrid API key.
	KeySendGridAPIKey = "EMAIL_SENDGRID_API_KEY"

	// AWS SES keys.
	KeyAWSRegion          = "AWS_REGION"
	KeyAWSAccessKeyID     = "AWS_ACCESS_KEY_ID"
	KeyAWSSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	KeyAWSSenderEmail     = "AWS_SENDER_EMAIL"

	// Azure Communication Services keys.
	KeyAzureConnectionString = "AZURE_COMMUNICATION_CONNECTION_STRING"
	KeyAzureSenderEmail      = "AZURE_SENDER_EMAIL"

	// GCP Pub/Sub relay keys.
	KeyGCPProjectID          = "GCP_PROJECT_ID"
	KeyGCPPubSubTopic        = "GCP_PUBSUB_EMAIL_TOPIC"
	KeyGCPServiceAccountJSON = "GCP_SERVICE_ACCOUNT_JSON"
)

// configPrefixes are the environment-variable namespaces collected into a
// configuration map.
var configPrefixes = []string{"EMAIL_", "AWS_", "AZURE_", "GCP_"}

// ConfigFromEnv builds a configuration map from the process environment,
// keeping only the recognized namespaces.
func ConfigFromEnv() Config {
	cfg := make(Config)
	for _, entry := range os.Environ() {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		for _, prefix := range configPrefixes {
			if strings.HasPrefix(key, prefix) {
				cfg[key] = value
				break
			}
		}
	}
	return cfg
}

// ConfigFromEnvFile loads the given dotenv file into the process
// environment and then collects the configuration map. An empty path reads
// the default ".env" if present; a missing file is not an error.
func ConfigFromEnvFile(path string) (Config, error) {
	if path == "" {
		_ = godotenv.Load()
		return ConfigFromEnv(), nil
	}

	if err := godotenv.Load(path); err != nil {
		return nil, err
	}
	return ConfigFromEnv(), nil
}
