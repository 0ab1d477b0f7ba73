package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchProfile(t *testing.T) {
	var gotAuthorization string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthorization = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"sub": "auth0|123",
			"name": "Ada Lovelace",
			"email": "ada@example.com",
			"email_verified": true,
			"nickname": "ada"
		}`))
	}))
	defer srv.Close()

	client := NewUserinfoClient(Config{UserinfoURL: srv.URL})

	profile, err := client.FetchProfile(context.Background(), "Bearer abc123")
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc123", gotAuthorization)
	assert.Equal(t, "auth0|123", profile.Sub)
	assert.Equal(t, "Ada Lovelace", profile.Name)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.True(t, profile.EmailVerified)
	assert.Equal(t, "ada", profile.Nickname)
	assert.Empty(t, profile.Picture)
}

func TestFetchProfileUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewUserinfoClient(Config{UserinfoURL: srv.URL})

	_, err := client.FetchProfile(context.Background(), "Bearer expired")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestFetchProfileUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewUserinfoClient(Config{UserinfoURL: srv.URL})

	_, err := client.FetchProfile(context.Background(), "Bearer abc")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestFetchProfileUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	client := NewUserinfoClient(Config{UserinfoURL: srv.URL})

	_, err := client.FetchProfile(context.Background(), "Bearer abc")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestFetchProfileMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewUserinfoClient(Config{UserinfoURL: srv.URL})

	_, err := client.FetchProfile(context.Background(), "Bearer abc")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}
