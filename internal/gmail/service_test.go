package gmail

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/ytlabs/yt-mcp/internal/logging"
	"github.com/ytlabs/yt-mcp/internal/tokenstore"
)

func newTestService(t *testing.T, fake *fakeGmail) (*Service, tokenstore.Store) {
	t.Helper()

	store := tokenstore.NewMemoryStore()
	svc := NewService(Config{ClientID: "id", ClientSecret: "secret"}, store, logging.New(false))
	svc.newClient = func(_ context.Context, _ Config, refreshToken string) (*Client, error) {
		require.NotEmpty(t, refreshToken)
		return newFakeClient(t, fake), nil
	}

	return svc, store
}

func TestServiceLinkThenList(t *testing.T) {
	fake := &fakeGmail{
		messages: []*gmailapi.Message{
			testMessage("m1", "Hello", "alice@example.com", "Mon, 1 Sep 2025 10:00:00 +0000", "hi"),
		},
	}
	svc, store := newTestService(t, fake)

	require.NoError(t, svc.Link("auth0|alice", "  refresh-token-a  "))

	token, ok, err := store.Get("auth0|alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "refresh-token-a", token)

	result, err := svc.ListRecent(context.Background(), "auth0|alice", 5)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, result.Status)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, "Hello", result.Messages[0].Subject)
}

func TestServiceListNotLinked(t *testing.T) {
	svc, _ := newTestService(t, &fakeGmail{})

	result, err := svc.ListRecent(context.Background(), "auth0|nobody", 5)
	require.NoError(t, err)
	assert.Equal(t, StatusNotLinked, result.Status)
	assert.Empty(t, result.Messages)
}

func TestServiceListEmptyInbox(t *testing.T) {
	svc, store := newTestService(t, &fakeGmail{})
	require.NoError(t, store.Put("auth0|alice", "refresh-token-a"))

	result, err := svc.ListRecent(context.Background(), "auth0|alice", 5)
	require.NoError(t, err)
	assert.Equal(t, StatusEmpty, result.Status)
}

func TestServiceListRejectedToken(t *testing.T) {
	svc, store := newTestService(t, &fakeGmail{listStatus: http.StatusUnauthorized})
	require.NoError(t, store.Put("auth0|alice", "revoked-token"))

	result, err := svc.ListRecent(context.Background(), "auth0|alice", 5)
	require.NoError(t, err)
	assert.Equal(t, StatusNotLinked, result.Status)
}

func TestServiceLinkRejectsEmptyToken(t *testing.T) {
	svc, _ := newTestService(t, &fakeGmail{})

	assert.ErrorIs(t, svc.Link("auth0|alice", "   "), tokenstore.ErrEmptyToken)
}
