package gmail

import "os"

// ReadonlyScope is the only Gmail scope this server ever requests.
const ReadonlyScope = "https://www.googleapis.com/auth/gmail.readonly"

// Config holds the Google OAuth application credentials used to redeem
// delegated refresh tokens.
type Config struct {
	ClientID     string
	ClientSecret string

	// Endpoint overrides the Gmail API base URL. Used by tests.
	Endpoint string
}

// ConfigFromEnv reads the Google OAuth credentials from the environment.
// Missing values are not an error here: the server can run without Gmail
// support and the tools report the misconfiguration per call.
func ConfigFromEnv() Config {
	return Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
	}
}

// IsConfigured reports whether both OAuth credentials are present.
func (c Config) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
