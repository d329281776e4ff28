package devcode

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	jsoniter "github.com/json-iterator/go"
	"github.com/mihaipriboi/HackitAll2025/gametime"
	"golang.org/x/time/rate"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrNoSession      = errors.New("no active session")
	ErrEmptySessionId = errors.New("server returned empty session id")
)

type responseStatusErr struct {
	StatusCode int
	Status     string
}

func (e responseStatusErr) Error() string {
	return e.Status
}

// ValidationError is a 400 response to a play-round request. The server
// rejects the submitted loads but keeps the round running, so callers may
// treat it as non-fatal.
type ValidationError struct {
	Tick gametime.Tick
	Body string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("round %s rejected: %s", e.Tick, e.Body)
}

type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseUrl    string
	apiKey     string
	sessionId  atomic.Pointer[string]
}

type ClientOption func(c *Client)

func WithHttpClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithRateLimiter(limiter *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = limiter
	}
}

func WithBaseUrl(baseUrl string) ClientOption {
	return func(c *Client) {
		c.baseUrl = baseUrl
	}
}

func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{apiKey: apiKey}

	for _, opt := range opts {
		opt(c)
	}

	c.httpClient = cmp.Or(c.httpClient, http.DefaultClient)
	c.baseUrl = cmp.Or(c.baseUrl, "http://localhost:8080")
	c.baseUrl = strings.TrimSuffix(c.baseUrl, "/")

	return c
}

func (c *Client) SessionId() string {
	if id := c.sessionId.Load(); id != nil {
		return *id
	}

	return ""
}

// StartSession starts a game session and captures the session id. If the
// server reports an already active session (409), that session is ended
// and the start retried once.
func (c *Client) StartSession(ctx context.Context) (string, error) {
	resp, err := c.doRequest(ctx, "/api/v1/session/start", nil)
	if err != nil {
		return "", err
	}

	if resp.StatusCode == http.StatusConflict {
		_ = drainAndClose(resp.Body)

		if err = c.EndSession(ctx); err != nil {
			return "", fmt.Errorf("failed to end stale session: %w", err)
		}

		if resp, err = c.doRequest(ctx, "/api/v1/session/start", nil); err != nil {
			return "", err
		}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusErr(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	sessionId := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if sessionId == "" {
		return "", ErrEmptySessionId
	}

	c.sessionId.Store(&sessionId)
	return sessionId, nil
}

// EndSession ends the current session. The server keys the session off the
// API key, so this also works for sessions this client did not start.
func (c *Client) EndSession(ctx context.Context) error {
	resp, err := c.doRequest(ctx, "/api/v1/session/end", nil)
	if err != nil {
		return err
	}

	c.sessionId.Store(nil)
	return drainAndClose(resp.Body)
}

// PlayRound submits the decisions for one game hour.
func (c *Client) PlayRound(ctx context.Context, tick gametime.Tick, loads []FlightLoad, orders PerClassAmount) (RoundResult, error) {
	if c.SessionId() == "" {
		return RoundResult{}, ErrNoSession
	}

	if loads == nil {
		loads = []FlightLoad{}
	}

	body, err := json.Marshal(RoundRequest{
		Day:                 tick.Day(),
		Hour:                tick.Hour(),
		FlightLoads:         loads,
		KitPurchasingOrders: orders,
	})
	if err != nil {
		return RoundResult{}, err
	}

	const maxRetries = 5
	errs := make([]error, 0, maxRetries)

	for len(errs) < maxRetries {
		resp, err := c.doRequest(ctx, "/api/v1/play/round", bytes.NewReader(body))
		if err != nil {
			return RoundResult{}, err
		}

		if resp.StatusCode == http.StatusBadRequest {
			raw, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()

			return RoundResult{}, &ValidationError{Tick: tick, Body: strings.TrimSpace(string(raw))}
		}

		if resp.StatusCode != http.StatusOK {
			err = statusErr(resp)
			_ = drainAndClose(resp.Body)

			if isRetryableStatus(resp.StatusCode) {
				errs = append(errs, err)
				continue
			}

			return RoundResult{}, err
		}

		var result RoundResult
		err = json.NewDecoder(resp.Body).Decode(&result)
		_ = resp.Body.Close()

		if err != nil {
			return RoundResult{}, fmt.Errorf("failed to parse round response: %w", err)
		}

		return result, nil
	}

	return RoundResult{}, errors.Join(errs...)
}

func (c *Client) doRequest(ctx context.Context, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if sessionId := c.SessionId(); sessionId != "" {
		req.Header.Set("SESSION-ID", sessionId)
	}

	if c.limiter != nil {
		if err = c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return c.httpClient.Do(req)
}

func statusErr(resp *http.Response) error {
	return responseStatusErr{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}
}

func isRetryableStatus(status int) bool {
	return status == http.StatusBadGateway || status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout
}

func drainAndClose(body io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, body)
	return body.Close()
}
