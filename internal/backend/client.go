package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"resty.dev/v3"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrUserExists    = errors.New("a user with this email already exists")
)

// Envelope is the backend's uniform response shape. HTTP 4xx/5xx responses
// still carry it, with Error set and the backend's message.
type Envelope struct {
	Error   bool            `json:"error"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Status  int             `json:"status"`
}

// Client talks to the commerce backend that owns orders, accounts and
// payment verification.
type Client struct {
	http *resty.Client
}

// NewClient builds the backend client with a bounded request timeout so a
// hung call cannot pin a session's pending flag forever.
func NewClient(baseURL string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{http: httpClient}
}

// do issues one request and normalizes the response into an Envelope. A
// transport failure or a response that is not an envelope comes back as an
// error envelope so callers only ever branch on Envelope.Error.
func (c *Client) do(ctx context.Context, method, path, token string, body any) (*Envelope, error) {
	req := c.http.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetBody(body)
	}

	res, err := req.Execute(method, path)
	if err != nil {
		log.Err(err).Str("method", method).Str("path", path).Msg("backend request failed")
		return nil, fmt.Errorf("backend request failed: %w", err)
	}

	var envelope Envelope
	if err = json.Unmarshal(res.Bytes(), &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode backend response: %w", err)
	}
	if envelope.Status == 0 {
		envelope.Status = res.StatusCode()
	}
	if res.StatusCode() == http.StatusNotFound {
		envelope.Error = true
		envelope.Status = http.StatusNotFound
	}

	return &envelope, nil
}

func (c *Client) get(ctx context.Context, path, token string) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, path, token, nil)
}

func (c *Client) post(ctx context.Context, path, token string, body any) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, path, token, body)
}

func (c *Client) put(ctx context.Context, path, token string, body any) (*Envelope, error) {
	return c.do(ctx, http.MethodPut, path, token, body)
}

// decodeData unmarshals the envelope payload into out after the error branch
// has been handled.
func decodeData(envelope *Envelope, out any) error {
	if len(envelope.Data) == 0 {
		return fmt.Errorf("backend response has no data")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode backend data: %w", err)
	}
	return nil
}
