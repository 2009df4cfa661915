package db2

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/observability"
)

// Client calls the DB2 REST services behind the gateway. It holds only
// read-only configuration and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
	logger     *zap.Logger
}

// NewClient builds a client from the gateway configuration.
func NewClient(cfg config.DB2Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		baseURL:    cfg.BaseURL(),
		username:   cfg.User,
		password:   cfg.Password,
		logger:     logger,
	}
}

// Call posts payload to the given operation and decodes the response envelope.
// A nil payload sends an empty body. Non-2xx answers yield *RemoteError,
// network or decoding failures yield *TransportError.
func (c *Client) Call(ctx context.Context, op Operation, payload any) (*Envelope, error) {
	var body io.Reader = http.NoBody
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", op, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+string(op), body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if requestID := observability.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(observability.RequestIDHeader, requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Operation: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Operation: op, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("db2 call",
		zap.String("operation", string(op)),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RemoteError{
			Operation:         op,
			StatusCode:        resp.StatusCode,
			StatusDescription: statusDescription(raw),
		}
	}

	var env Envelope
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, &TransportError{Operation: op, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return &env, nil
}

// statusDescription extracts StatusDescription from an error body, falling
// back to the raw text when the body is not a JSON envelope.
func statusDescription(raw []byte) string {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.StatusDescription != "" {
		return env.StatusDescription
	}
	return strings.TrimSpace(string(raw))
}
