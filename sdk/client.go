package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/openalpha/lbp-dex/api"
	"github.com/openalpha/lbp-dex/history"
)

// Client is a typed HTTP client for the lbp API server
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL, e.g. http://localhost:8080
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// APIError carries the status and message of a failed request
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var apiErr errorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
		}
		return &APIError{Status: resp.StatusCode, Message: string(raw)}
	}

	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

// CreatePool creates a new pool
func (c *Client) CreatePool(ctx context.Context, req *api.CreatePoolRequest) (*api.PoolView, error) {
	var view api.PoolView
	if err := c.do(ctx, http.MethodPost, "/v1/pools", req, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ListPools returns every pool
func (c *Client) ListPools(ctx context.Context) ([]*api.PoolView, error) {
	var resp struct {
		Pools []*api.PoolView `json:"pools"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/pools", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Pools, nil
}

// GetPool returns one pool by ID
func (c *Client) GetPool(ctx context.Context, poolID string) (*api.PoolView, error) {
	var view api.PoolView
	if err := c.do(ctx, http.MethodGet, "/v1/pools/"+url.PathEscape(poolID), nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Preview returns a read-only quote for the given side
func (c *Client) Preview(ctx context.Context, poolID, side string, amount uint64) (*api.PreviewResponse, error) {
	path := fmt.Sprintf("/v1/pools/%s/preview?side=%s&amount=%d",
		url.PathEscape(poolID), url.QueryEscape(side), amount)
	var resp api.PreviewResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Swap executes a trade against a pool
func (c *Client) Swap(ctx context.Context, poolID string, req *api.SwapRequest) (*api.SwapResponse, error) {
	var resp api.SwapResponse
	if err := c.do(ctx, http.MethodPost, "/v1/pools/"+url.PathEscape(poolID)+"/swap", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Redeem releases the caller's vested shares
func (c *Client) Redeem(ctx context.Context, poolID, caller string) (*api.RedeemResponse, error) {
	var resp api.RedeemResponse
	req := &api.RedeemRequest{Caller: caller}
	if err := c.do(ctx, http.MethodPost, "/v1/pools/"+url.PathEscape(poolID)+"/redeem", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ClosePool marks an ended pool closed
func (c *Client) ClosePool(ctx context.Context, poolID, caller string) (*api.PoolView, error) {
	var view api.PoolView
	req := &api.ClosePoolRequest{Caller: caller}
	if err := c.do(ctx, http.MethodPost, "/v1/pools/"+url.PathEscape(poolID)+"/close", req, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// UserState returns one position in a pool
func (c *Client) UserState(ctx context.Context, poolID, user string) (*api.UserStateView, error) {
	path := "/v1/pools/" + url.PathEscape(poolID) + "/users/" + url.PathEscape(user)
	var state api.UserStateView
	if err := c.do(ctx, http.MethodGet, path, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// PriceHistory returns recorded price samples for a pool
func (c *Client) PriceHistory(ctx context.Context, poolID string, from, to int64, limit int) ([]*history.PricePoint, error) {
	path := "/v1/pools/" + url.PathEscape(poolID) + "/history?" + historyQuery(from, to, limit)
	var resp struct {
		History []*history.PricePoint `json:"history"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// Candles returns aggregated OHLCV candles for a pool
func (c *Client) Candles(ctx context.Context, poolID string, from, to int64, limit int) ([]*history.Candle, error) {
	path := "/v1/pools/" + url.PathEscape(poolID) + "/candles?" + historyQuery(from, to, limit)
	var resp struct {
		Candles []*history.Candle `json:"candles"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Candles, nil
}

func historyQuery(from, to int64, limit int) string {
	q := url.Values{}
	q.Set("from", strconv.FormatInt(from, 10))
	q.Set("to", strconv.FormatInt(to, 10))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q.Encode()
}

// InitConfig performs the one-time owner config setup
func (c *Client) InitConfig(ctx context.Context, req *api.ConfigRequest) error {
	return c.do(ctx, http.MethodPost, "/v1/config", req, nil)
}

// SetFees updates fee parameters
func (c *Client) SetFees(ctx context.Context, req *api.ConfigRequest) error {
	return c.do(ctx, http.MethodPost, "/v1/config/fees", req, nil)
}

// NominateOwner nominates a new config owner
func (c *Client) NominateOwner(ctx context.Context, caller, newOwner string) error {
	req := &api.OwnerRequest{Caller: caller, NewOwner: newOwner}
	return c.do(ctx, http.MethodPost, "/v1/config/owner/nominate", req, nil)
}

// AcceptOwner accepts a pending ownership nomination
func (c *Client) AcceptOwner(ctx context.Context, caller string) error {
	req := &api.OwnerRequest{Caller: caller}
	return c.do(ctx, http.MethodPost, "/v1/config/owner/accept", req, nil)
}

// Subscription is a live WebSocket feed of server events
type Subscription struct {
	conn   *websocket.Conn
	Events chan *api.WSMessage
	done   chan struct{}
}

// Subscribe opens a WebSocket connection and subscribes to the given
// channels. The caller owns the returned subscription and must Close it.
func (c *Client) Subscribe(ctx context.Context, wsURL string, channels ...string) (*Subscription, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial websocket: %w", err)
	}

	for _, channel := range channels {
		msg := map[string]string{"action": "subscribe", "channel": channel}
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("subscribe %s: %w", channel, err)
		}
	}

	sub := &Subscription{
		conn:   conn,
		Events: make(chan *api.WSMessage, 64),
		done:   make(chan struct{}),
	}
	go sub.readLoop()
	return sub, nil
}

func (s *Subscription) readLoop() {
	defer close(s.Events)
	for {
		select {
		case <-s.done:
			return
		default:
		}

		var msg api.WSMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			return
		}
		select {
		case s.Events <- &msg:
		default:
			// Slow consumer, drop the event
		}
	}
}

// Close terminates the subscription
func (s *Subscription) Close() error {
	close(s.done)
	return s.conn.Close()
}
