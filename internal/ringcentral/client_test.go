package ringcentral

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"surplus-restock-notifier/internal/card"
	"surplus-restock-notifier/pkg/joberror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(ClientConfig{
		ServerURL:    srv.URL,
		ClientID:     "cid",
		ClientSecret: "secret",
		JWT:          "jwt-token",
		ChatID:       "139466260486",
		HTTPTimeout:  5 * time.Second,
	})
	require.NoError(t, err)
	return c
}

func TestLogin(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/restapi/oauth/token", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "cid", user)
		assert.Equal(t, "secret", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, jwtGrantType, r.PostForm.Get("grant_type"))
		assert.Equal(t, "jwt-token", r.PostForm.Get("assertion"))

		json.NewEncoder(w).Encode(Session{AccessToken: "tok-1", TokenType: "bearer", ExpiresIn: 3600})
	}))

	s, err := c.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", s.AccessToken)
}

func TestLogin_Unauthorized(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad grant", http.StatusBadRequest)
	}))

	_, err := c.Login(context.Background())
	assert.True(t, joberror.IsCode(err, "DELIVERY"))
}

func TestPostText_AppendsDivider(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/team-messaging/v1/chats/139466260486/posts", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		var payload map[string]string
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "hello\n---\n", payload["text"])
	}))

	err := c.PostText(context.Background(), &Session{AccessToken: "tok-1"}, "hello")
	require.NoError(t, err)
}

func TestPostCard(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/team-messaging/v1/chats/139466260486/adaptive-cards", r.URL.Path)

		var doc card.Document
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		assert.Equal(t, "AdaptiveCard", doc.Type)

		json.NewEncoder(w).Encode(map[string]string{"id": "card-42"})
	}))

	doc := card.Assemble(card.Overrides{}, nil, card.GridOptions{})
	id, err := c.PostCard(context.Background(), &Session{AccessToken: "tok-1"}, doc)
	require.NoError(t, err)
	assert.Equal(t, "card-42", id)
}

func TestUpdateCard(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/team-messaging/v1/adaptive-cards/card-42", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))

	doc := card.Assemble(card.Overrides{}, nil, card.GridOptions{})
	err := c.UpdateCard(context.Background(), &Session{AccessToken: "tok-1"}, "card-42", doc)
	require.NoError(t, err)
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(ClientConfig{ServerURL: "http://x", ClientID: "a", ClientSecret: "b"})
	assert.Error(t, err) // missing JWT

	_, err = NewClient(ClientConfig{JWT: "j"})
	assert.Error(t, err) // missing server/credentials
}
