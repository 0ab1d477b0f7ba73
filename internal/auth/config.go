package auth

import (
	"fmt"
	"os"
	"strings"
)

// DefaultAlgorithm is the signing algorithm accepted when AUTH0_ALGORITHMS
// is not set. Auth0 signs access tokens with RS256 by default.
const DefaultAlgorithm = "RS256"

// Config holds the identity provider settings for token verification.
type Config struct {
	// Domain is the Auth0 tenant host (e.g. example.auth0.com).
	Domain string

	// Audience is the expected token audience. It is recorded on verified
	// identities but not enforced during decode; see Verifier.
	Audience string

	// ResourceServerURL is the public URL this server is deployed at,
	// advertised to MCP clients as the protected resource.
	ResourceServerURL string

	// Algorithms is the allow-list of token signing algorithms.
	Algorithms []string

	// JWKSURL overrides the derived JWKS endpoint. Used by tests; empty
	// means https://{Domain}/.well-known/jwks.json.
	JWKSURL string

	// UserinfoURL overrides the derived userinfo endpoint. Used by tests;
	// empty means https://{Domain}/userinfo.
	UserinfoURL string
}

// ConfigFromEnv builds a Config from environment variables. Missing required
// values are the only fatal startup condition in the server.
func ConfigFromEnv() (Config, error) {
	domain := os.Getenv("AUTH0_DOMAIN")
	if domain == "" {
		return Config{}, fmt.Errorf("AUTH0_DOMAIN environment variable is required")
	}

	audience := os.Getenv("AUTH0_AUDIENCE")
	if audience == "" {
		return Config{}, fmt.Errorf("AUTH0_AUDIENCE environment variable is required")
	}

	resourceServerURL := os.Getenv("RESOURCE_SERVER_URL")
	if resourceServerURL == "" {
		return Config{}, fmt.Errorf("RESOURCE_SERVER_URL environment variable is required")
	}

	return Config{
		Domain:            domain,
		Audience:          audience,
		ResourceServerURL: resourceServerURL,
		Algorithms:        ParseAlgorithms(os.Getenv("AUTH0_ALGORITHMS")),
	}, nil
}

// ParseAlgorithms parses a comma-separated algorithm list, trimming
// whitespace and dropping empty entries. An empty input yields the default
// allow-list.
func ParseAlgorithms(s string) []string {
	if s == "" {
		return []string{DefaultAlgorithm}
	}
	parts := strings.Split(s, ",")
	algs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			algs = append(algs, p)
		}
	}
	if len(algs) == 0 {
		return []string{DefaultAlgorithm}
	}
	return algs
}

// IssuerURL returns the expected issuer claim value. Auth0 issues tokens
// with a trailing slash, so the exact form matters.
func (c Config) IssuerURL() string {
	return "https://" + c.Domain + "/"
}

// JWKSEndpoint returns the JWKS URL, honoring the test override.
func (c Config) JWKSEndpoint() string {
	if c.JWKSURL != "" {
		return c.JWKSURL
	}
	return "https://" + c.Domain + "/.well-known/jwks.json"
}

// UserinfoEndpoint returns the userinfo URL, honoring the test override.
func (c Config) UserinfoEndpoint() string {
	if c.UserinfoURL != "" {
		return c.UserinfoURL
	}
	return "https://" + c.Domain + "/userinfo"
}
