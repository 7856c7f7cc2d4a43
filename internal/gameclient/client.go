// Package gameclient is the HTTP client for the game server's action contract:
// listing games, fetching world text, and submitting actions.
package gameclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

// GameInfo describes one game offered by the server.
type GameInfo struct {
	ShortName   string `json:"shortName"`
	DisplayName string `json:"displayName"`
}

// ActionRequest is the body of POST /send-action.
type ActionRequest struct {
	GameName  string `json:"gameName"`
	SessionID string `json:"sessionID"`
	Action    string `json:"action"`
}

// StatusError reports a response with a status code of 400 or above.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("gameclient: %s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("gameclient: %s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Message returns the error text the game server sent: the "error" field of a
// JSON body, otherwise the body itself, otherwise the status text.
func (e *StatusError) Message() string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(e.Body), &body); err == nil && body.Error != "" {
		return body.Error
	}
	if e.Body != "" {
		return e.Body
	}
	return http.StatusText(e.StatusCode)
}

// IsTimeout reports whether err came from a request exceeding its deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}

// Client calls a game server. It is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a Client for the server at baseURL. Every call is bounded by
// timeout in addition to the caller's context.
//
// Precondition: baseURL must be an absolute http or https URL; timeout must be > 0.
// Postcondition: Returns a Client or an error describing the invalid argument.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("gameclient: parsing base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("gameclient: base url %q must be http or https", baseURL)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("gameclient: timeout must be > 0, got %s", timeout)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &Client{
		base:    u,
		http:    &http.Client{},
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Timeout returns the per-call deadline.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// ListGames fetches GET /games.
//
// Postcondition: Returns the server's games in server order, or an error.
func (c *Client) ListGames(ctx context.Context) ([]GameInfo, error) {
	body, err := c.do(ctx, "list games", http.MethodGet, "games", nil)
	if err != nil {
		return nil, err
	}
	var games []GameInfo
	if err := json.Unmarshal(body, &games); err != nil {
		return nil, fmt.Errorf("gameclient: list games: decoding response: %w", err)
	}
	return games, nil
}

// FetchWorld fetches GET /games/{shortName}/world and returns the world text.
func (c *Client) FetchWorld(ctx context.Context, shortName string) (string, error) {
	body, err := c.do(ctx, "fetch world", http.MethodGet, "games/"+shortName+"/world", nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// SendAction posts an action and returns the raw narrative payload, a JSON
// string literal of ANSI text.
func (c *Client) SendAction(ctx context.Context, req ActionRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("gameclient: send action: encoding request: %w", err)
	}
	body, err := c.do(ctx, "send action", http.MethodPost, "send-action", data)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.base.ResolveReference(&url.URL{Path: path})
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), rd)
	if err != nil {
		return nil, fmt.Errorf("gameclient: %s: building request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gameclient: %s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("gameclient: %s: reading response: %w", op, err)
	}
	c.logger.Debug("game server call",
		zap.String("op", op),
		zap.String("url", target.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return data, nil
}
