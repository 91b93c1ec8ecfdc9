// internal/infrastructure/backend/client.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/sunflower003/cocktail-miami-storefront/internal/config"
)

// Envelope is the upstream API response convention. Every endpoint wraps
// its payload as { success, data?, message? }.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Client is the typed REST client for the upstream storefront API.
// All calls are JSON over HTTP(S), bearer-token authenticated.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new upstream API client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Upstream.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Upstream.RequestTimeout,
		},
		logger: log,
	}
}

// Get performs an authenticated GET and decodes the envelope data into out
func (c *Client) Get(ctx context.Context, path, token string, out interface{}) error {
	return c.call(ctx, http.MethodGet, path, token, nil, out)
}

// Post performs an authenticated POST and decodes the envelope data into out
func (c *Client) Post(ctx context.Context, path, token string, body, out interface{}) error {
	return c.call(ctx, http.MethodPost, path, token, body, out)
}

// Put performs an authenticated PUT and decodes the envelope data into out
func (c *Client) Put(ctx context.Context, path, token string, body, out interface{}) error {
	return c.call(ctx, http.MethodPut, path, token, body, out)
}

// Delete performs an authenticated DELETE and decodes the envelope data into out
func (c *Client) Delete(ctx context.Context, path, token string, out interface{}) error {
	return c.call(ctx, http.MethodDelete, path, token, nil, out)
}

// call makes the HTTP request and maps the response onto the error taxonomy
func (c *Client) call(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"error":  err.Error(),
		}).Warn("Upstream request failed")
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthenticated
	case http.StatusNotFound:
		return ErrNotFound
	}

	var envelope Envelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("Upstream returned a non-envelope response")
		return &TransportError{Err: fmt.Errorf("invalid response body: %w", err)}
	}

	if !envelope.Success || resp.StatusCode >= 400 {
		return &ServerRejectedError{
			StatusCode: resp.StatusCode,
			Message:    envelope.Message,
		}
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return &TransportError{Err: fmt.Errorf("failed to decode response data: %w", err)}
		}
	}

	return nil
}

// Health probes the upstream health endpoint
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 500 {
		return fmt.Errorf("upstream unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
