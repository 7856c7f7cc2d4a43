package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/adventure/internal/frontend/ansi"
	"github.com/cory-johannsen/adventure/internal/game/session"
	"github.com/cory-johannsen/adventure/internal/gameclient"
)

const townText = `Title: Market Town
Objective: Find the seal.
[Marketplace]
RoomID: Marketplace1
Exits: north:TownHall1
Items: sword
RoomID: Marketplace2
[TownHall]
RoomID: TownHall1
Item: sword
Person: clerk
`

type fakeGames struct {
	payload string
	err     error
	gate    chan struct{}

	mu       sync.Mutex
	requests []gameclient.ActionRequest
}

func (f *fakeGames) ListGames(context.Context) ([]gameclient.GameInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []gameclient.GameInfo{{ShortName: "town", DisplayName: "Market Town"}}, nil
}

func (f *fakeGames) FetchWorld(_ context.Context, name string) (string, error) {
	switch {
	case f.err != nil:
		return "", f.err
	case name == "town":
		return townText, nil
	case name == "broken":
		return "RoomID: orphan\n", nil
	}
	return "", &gameclient.StatusError{Op: "fetch world", StatusCode: http.StatusNotFound, Body: `{"error":"unknown game"}`}
}

func (f *fakeGames) SendAction(ctx context.Context, req gameclient.ActionRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.payload, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestHandler(t *testing.T, games *fakeGames) http.Handler {
	t.Helper()
	return NewServer(games, zaptest.NewLogger(t), nil).Handler()
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestStaticPage(t *testing.T) {
	h := newTestHandler(t, &fakeGames{})

	w := get(h, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<title>Adventure</title>")

	w = get(h, "/static/app.js")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "localStorage")

	assert.Equal(t, http.StatusOK, get(h, "/healthz").Code)
}

func TestListGames(t *testing.T) {
	h := newTestHandler(t, &fakeGames{})
	w := get(h, "/api/games")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"shortName":"town","displayName":"Market Town"}]`, w.Body.String())
}

func TestWorldSummary(t *testing.T) {
	h := newTestHandler(t, &fakeGames{})

	w := get(h, "/api/games/town/world")
	require.Equal(t, http.StatusOK, w.Code)
	var sum WorldSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	assert.Equal(t, WorldSummary{
		ShortName: "town",
		Title:     "Market Town",
		Objective: "Find the seal.",
		Start:     "Marketplace1",
		Sections: []SectionSummary{
			{Name: "Marketplace", Rooms: 2},
			{Name: "TownHall", Rooms: 1},
		},
		Items:   1,
		Persons: 1,
	}, sum)

	missing := get(h, "/api/games/nowhere/world")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.JSONEq(t, `{"error":"unknown game"}`, missing.Body.String())
	assert.Equal(t, http.StatusBadGateway, get(h, "/api/games/broken/world").Code)
}

func TestUpstreamFailures(t *testing.T) {
	h := newTestHandler(t, &fakeGames{err: context.DeadlineExceeded})
	assert.Equal(t, http.StatusGatewayTimeout, get(h, "/api/games").Code)

	h = newTestHandler(t, &fakeGames{err: &gameclient.StatusError{Op: "list games", StatusCode: http.StatusInternalServerError}})
	assert.Equal(t, http.StatusBadGateway, get(h, "/api/games").Code)
}

func TestSendActionDecodes(t *testing.T) {
	games := &fakeGames{payload: ansi.Quote("\x1b[97;1;4mMarket Square\x1b[0m\nYou see: a \"sword\"")}
	h := newTestHandler(t, games)
	id := session.NewID()

	body, _ := json.Marshal(gameclient.ActionRequest{GameName: "town", SessionID: id, Action: "look"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/send-action", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)

	var d ansi.Decoded
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Equal(t, `<u>Market Square</u></font></b><br>You see: a "sword"`, d.HTML)
	assert.Empty(t, d.Unknown)
	require.Len(t, games.requests, 1)
	assert.Equal(t, gameclient.ActionRequest{GameName: "town", SessionID: id, Action: "look"}, games.requests[0])
}

func TestSendActionRejectsBadRequests(t *testing.T) {
	h := newTestHandler(t, &fakeGames{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/send-action", strings.NewReader("nope")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, _ := json.Marshal(gameclient.ActionRequest{GameName: "town", SessionID: "abc"})
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/send-action", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func dialWS(t *testing.T, h http.Handler) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestWebSocketPlay(t *testing.T) {
	games := &fakeGames{payload: ansi.Quote("\x1b[32mYou go north.\x1b[0m")}
	conn := dialWS(t, newTestHandler(t, games))

	require.NoError(t, conn.WriteJSON(gameclient.ActionRequest{GameName: "town", SessionID: session.NewID(), Action: "north"}))

	f := readFrame(t, conn)
	require.NotNil(t, f.InputEnabled)
	assert.False(t, *f.InputEnabled)

	f = readFrame(t, conn)
	assert.Equal(t, `<font color="Green">You go north.</u></font></b>`, f.HTML)

	f = readFrame(t, conn)
	require.NotNil(t, f.InputEnabled)
	assert.True(t, *f.InputEnabled)
}

func TestWebSocketRejectsSecondRequestInFlight(t *testing.T) {
	games := &fakeGames{payload: ansi.Quote("done"), gate: make(chan struct{})}
	conn := dialWS(t, newTestHandler(t, games))
	id := session.NewID()

	require.NoError(t, conn.WriteJSON(gameclient.ActionRequest{GameName: "town", SessionID: id, Action: "look"}))
	f := readFrame(t, conn)
	require.NotNil(t, f.InputEnabled)
	require.False(t, *f.InputEnabled)

	require.NoError(t, conn.WriteJSON(gameclient.ActionRequest{GameName: "town", SessionID: id, Action: "north"}))
	f = readFrame(t, conn)
	assert.Equal(t, "a request is already in flight", f.Error)

	close(games.gate)
	f = readFrame(t, conn)
	assert.Equal(t, "done", f.HTML)
	f = readFrame(t, conn)
	require.NotNil(t, f.InputEnabled)
	assert.True(t, *f.InputEnabled)
}

func TestWebSocketNoticeOnFailure(t *testing.T) {
	games := &fakeGames{err: &gameclient.StatusError{Op: "send action", StatusCode: http.StatusNotFound}}
	conn := dialWS(t, newTestHandler(t, games))

	require.NoError(t, conn.WriteJSON(gameclient.ActionRequest{GameName: "gone", SessionID: session.NewID()}))
	readFrame(t, conn)
	f := readFrame(t, conn)
	assert.Equal(t, "The game server rejected the action (404).", f.Notice)
}

func TestWebSocketInvalidSession(t *testing.T) {
	conn := dialWS(t, newTestHandler(t, &fakeGames{}))
	require.NoError(t, conn.WriteJSON(gameclient.ActionRequest{GameName: "town", SessionID: "x"}))
	f := readFrame(t, conn)
	assert.Contains(t, f.Error, "sessionID")
}

func TestOriginChecker(t *testing.T) {
	req := func(host, origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "http://"+host+"/api/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	sameOrigin := originChecker(nil)
	assert.True(t, sameOrigin(req("play.example:8080", "")))
	assert.True(t, sameOrigin(req("play.example:8080", "http://play.example:8080")))
	assert.False(t, sameOrigin(req("play.example:8080", "http://evil.example")))

	listed := originChecker([]string{"http://localhost:3000"})
	assert.True(t, listed(req("play.example", "http://localhost:3000")))
	assert.False(t, listed(req("play.example", "http://play.example")))
}
