package gmail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// fakeGmail serves a minimal slice of the Gmail REST surface.
type fakeGmail struct {
	messages     []*gmailapi.Message
	listStatus   int
	getStatus    map[string]int
	lastMaxParam string
}

func (f *fakeGmail) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/gmail/v1/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		f.lastMaxParam = r.URL.Query().Get("maxResults")
		if f.listStatus != 0 {
			http.Error(w, `{"error":{"code":401,"message":"invalid credentials"}}`, f.listStatus)
			return
		}

		refs := make([]*gmailapi.Message, 0, len(f.messages))
		for _, m := range f.messages {
			refs = append(refs, &gmailapi.Message{Id: m.Id, ThreadId: m.ThreadId})
		}
		writeJSON(w, &gmailapi.ListMessagesResponse{Messages: refs})
	})

	mux.HandleFunc("/gmail/v1/users/me/messages/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/gmail/v1/users/me/messages/"):]
		if status, ok := f.getStatus[id]; ok {
			http.Error(w, `{"error":{"code":404,"message":"not found"}}`, status)
			return
		}
		for _, m := range f.messages {
			if m.Id == id {
				writeJSON(w, m)
				return
			}
		}
		http.Error(w, `{"error":{"code":404,"message":"not found"}}`, http.StatusNotFound)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newFakeClient(t *testing.T, fake *fakeGmail) *Client {
	t.Helper()

	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	client, err := newClient(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithoutAuthentication())
	require.NoError(t, err)

	return client
}

func testMessage(id, subject, from, date, snippet string) *gmailapi.Message {
	var headers []*gmailapi.MessagePartHeader
	if subject != "" {
		headers = append(headers, &gmailapi.MessagePartHeader{Name: "Subject", Value: subject})
	}
	if from != "" {
		headers = append(headers, &gmailapi.MessagePartHeader{Name: "From", Value: from})
	}
	if date != "" {
		headers = append(headers, &gmailapi.MessagePartHeader{Name: "Date", Value: date})
	}

	return &gmailapi.Message{
		Id:       id,
		ThreadId: "t-" + id,
		Snippet:  snippet,
		Payload:  &gmailapi.MessagePart{Headers: headers},
	}
}

func TestListRecent(t *testing.T) {
	fake := &fakeGmail{
		messages: []*gmailapi.Message{
			testMessage("m1", "Quarterly report", "alice@example.com", "Mon, 1 Sep 2025 10:00:00 +0000", "Here are the numbers"),
			testMessage("m2", "Lunch?", "bob@example.com", "Mon, 1 Sep 2025 09:00:00 +0000", "Pizza today"),
		},
	}
	client := newFakeClient(t, fake)

	messages, err := client.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, "5", fake.lastMaxParam)
	assert.Equal(t, MailSummary{
		ID:       "m1",
		ThreadID: "t-m1",
		Subject:  "Quarterly report",
		From:     "alice@example.com",
		Date:     "Mon, 1 Sep 2025 10:00:00 +0000",
		Snippet:  "Here are the numbers",
	}, messages[0])
	assert.Equal(t, "Lunch?", messages[1].Subject)
}

func TestListRecentMissingSubject(t *testing.T) {
	fake := &fakeGmail{
		messages: []*gmailapi.Message{
			testMessage("m1", "", "alice@example.com", "Mon, 1 Sep 2025 10:00:00 +0000", "no subject here"),
		},
	}
	client := newFakeClient(t, fake)

	messages, err := client.ListRecent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, NoSubject, messages[0].Subject)
}

func TestListRecentHeaderCaseInsensitive(t *testing.T) {
	msg := &gmailapi.Message{
		Id:       "m1",
		ThreadId: "t-m1",
		Payload: &gmailapi.MessagePart{
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "SUBJECT", Value: "shouting header"},
				{Name: "from", Value: "alice@example.com"},
			},
		},
	}
	client := newFakeClient(t, &fakeGmail{messages: []*gmailapi.Message{msg}})

	messages, err := client.ListRecent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "shouting header", messages[0].Subject)
	assert.Equal(t, "alice@example.com", messages[0].From)
}

func TestListRecentRejectedCredentials(t *testing.T) {
	client := newFakeClient(t, &fakeGmail{listStatus: http.StatusUnauthorized})

	_, err := client.ListRecent(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotLinked)
}

func TestListRecentSkipsUnreadableMessages(t *testing.T) {
	fake := &fakeGmail{
		messages: []*gmailapi.Message{
			testMessage("m1", "First", "alice@example.com", "", ""),
			testMessage("m2", "Second", "bob@example.com", "", ""),
		},
		getStatus: map[string]int{"m1": http.StatusNotFound},
	}
	client := newFakeClient(t, fake)

	messages, err := client.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Second", messages[0].Subject)
}

func TestNewClientValidation(t *testing.T) {
	ctx := context.Background()

	_, err := NewClient(ctx, Config{}, "token")
	assert.ErrorContains(t, err, "not configured")

	_, err = NewClient(ctx, Config{ClientID: "id", ClientSecret: "secret"}, "")
	assert.ErrorContains(t, err, "refresh token")
}
