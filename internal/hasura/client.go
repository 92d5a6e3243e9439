package hasura

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	graphqlPath        = "/v1/graphql"
)

// Client sends queries and mutations to a Hasura GraphQL endpoint. It
// performs no retries and never interprets application errors; both failure
// paths are surfaced to the caller as typed errors.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

// NewClient creates a client for the Hasura instance at baseURL.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint: strings.TrimRight(baseURL, "/") + graphqlPath,
		http:     &http.Client{Timeout: defaultHTTPTimeout},
		logger:   logger,
	}
}

type callRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Call executes one GraphQL query or mutation. When jwt is non-empty it is
// forwarded verbatim as a bearer authorization header. Returns
// *TransportError when the HTTP exchange fails and *GraphQLError when the
// response carries an error list.
func (c *Client) Call(ctx context.Context, query, jwt string, variables map[string]any) (*Response, error) {
	payload, err := json.Marshal(callRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if jwt != "" {
		req.Header.Set("Authorization", "Bearer "+jwt)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("hasura request failed", "endpoint", c.endpoint, "error", err)
		return nil, &TransportError{Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		c.logger.Error("hasura http error",
			"endpoint", c.endpoint,
			"status", httpResp.StatusCode,
			"body", string(body))
		return nil, &TransportError{Status: httpResp.StatusCode}
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		c.logger.Error("hasura response decode failed", "endpoint", c.endpoint, "error", err)
		return nil, &TransportError{Err: err}
	}

	if len(resp.Errors) > 0 {
		c.logger.Error("graphql error", "endpoint", c.endpoint, "errors", resp.Errors)
		return nil, &GraphQLError{Errors: resp.Errors}
	}

	return &resp, nil
}
