package gameclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, h http.Handler, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, timeout, zaptest.NewLogger(t))
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := New("ftp://example.com", time.Second, zaptest.NewLogger(t))
	assert.Error(t, err)
	_, err = New("http://example.com", 0, zaptest.NewLogger(t))
	assert.Error(t, err)
	_, err = New("://bad", time.Second, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestListGames(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /games", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"shortName":"town","displayName":"The Market Town"}]`))
	})
	c := newTestClient(t, mux, time.Second)

	games, err := c.ListGames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []GameInfo{{ShortName: "town", DisplayName: "The Market Town"}}, games)
}

func TestFetchWorld(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /games/{name}/world", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[" + r.PathValue("name") + "]\nRoomID: r1\n"))
	})
	c := newTestClient(t, mux, time.Second)

	text, err := c.FetchWorld(context.Background(), "town")
	require.NoError(t, err)
	assert.Equal(t, "[town]\nRoomID: r1\n", text)
}

func TestSendAction(t *testing.T) {
	var got ActionRequest
	mux := http.NewServeMux()
	mux.HandleFunc("POST /send-action", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`"You go north.\n"`))
	})
	c := newTestClient(t, mux, time.Second)

	payload, err := c.SendAction(context.Background(), ActionRequest{GameName: "town", SessionID: "abc", Action: "north"})
	require.NoError(t, err)
	assert.Equal(t, `"You go north.\n"`, payload)
	assert.Equal(t, ActionRequest{GameName: "town", SessionID: "abc", Action: "north"}, got)
}

func TestStatusError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /games/{name}/world", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unknown game", http.StatusNotFound)
	})
	c := newTestClient(t, mux, time.Second)

	_, err := c.FetchWorld(context.Background(), "nope")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "unknown game", se.Body)
	assert.Equal(t, "unknown game", se.Message())
	assert.Contains(t, err.Error(), "fetch world")
	assert.False(t, IsTimeout(err))
}

func TestStatusError_Message(t *testing.T) {
	cases := []struct {
		name string
		err  StatusError
		want string
	}{
		{"json error field", StatusError{StatusCode: 404, Body: `{"error":"unknown game"}`}, "unknown game"},
		{"json without error", StatusError{StatusCode: 400, Body: `{"detail":"x"}`}, `{"detail":"x"}`},
		{"plain body", StatusError{StatusCode: 400, Body: "bad"}, "bad"},
		{"empty body", StatusError{StatusCode: 404}, "Not Found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.Message())
		})
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("GET /games", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	c := newTestClient(t, mux, 50*time.Millisecond)
	defer close(release)

	_, err := c.ListGames(context.Background())
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "got %v", err)
}

func TestBaseURLWithPath(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /adventure/games", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := New(srv.URL+"/adventure", time.Second, zaptest.NewLogger(t))
	require.NoError(t, err)
	games, err := c.ListGames(context.Background())
	require.NoError(t, err)
	assert.Empty(t, games)
}
