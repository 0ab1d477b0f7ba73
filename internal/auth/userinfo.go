package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// userinfoTimeout bounds the round trip to the identity provider.
const userinfoTimeout = 10 * time.Second

// Common userinfo errors.
var (
	// ErrUnauthorized indicates the provider rejected the presented token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUpstreamUnavailable indicates the provider could not be reached
	// or answered with an unexpected status.
	ErrUpstreamUnavailable = errors.New("identity provider unavailable")
)

// UserProfile is the authenticated user's profile as returned by the
// provider's userinfo endpoint. Optional fields may be empty.
type UserProfile struct {
	Sub           string `json:"sub"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name,omitempty"`
	FamilyName    string `json:"family_name,omitempty"`
	Nickname      string `json:"nickname,omitempty"`
	Picture       string `json:"picture,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// UserinfoClient fetches user profiles from the identity provider.
// Profiles are always fetched live; there is no local caching.
type UserinfoClient struct {
	url    string
	client *http.Client
}

// NewUserinfoClient creates a client for the configured provider.
func NewUserinfoClient(cfg Config) *UserinfoClient {
	return &UserinfoClient{
		url: cfg.UserinfoEndpoint(),
		client: &http.Client{
			Timeout: userinfoTimeout,
		},
	}
}

// FetchProfile retrieves the profile for the caller identified by the given
// authorization header value. The header is forwarded as presented; the
// provider performs its own validation of the embedded token.
func (c *UserinfoClient) FetchProfile(ctx context.Context, authorization string) (*UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo request: %w", err)
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: userinfo returned status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: userinfo returned status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var profile UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: failed to decode userinfo response: %v", ErrUpstreamUnavailable, err)
	}

	return &profile, nil
}
