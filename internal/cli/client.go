package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// addressHeader carries the caller's account address on every request
const addressHeader = "X-Account-Address"

// Client is an HTTP client for the API
type Client struct {
	baseURL    string
	address    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL, address string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		address: address,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError represents an error response from the API
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an API error
type ErrorResponse struct {
	Error APIError `json:"error"`
}

func (e *APIError) String() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Do performs an HTTP request. The token is the capability token to present
// as the bearer credential; pass the empty string for ungated endpoints.
func (c *Client) Do(method, path, token string, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if c.address != "" {
		req.Header.Set(addressHeader, c.address)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// Check for error responses
	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Code != "" {
			return fmt.Errorf("%s", errResp.Error.String())
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	// Parse successful response
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// Get performs an ungated GET request
func (c *Client) Get(path string, result any) error {
	return c.Do(http.MethodGet, path, "", nil, result)
}

// Post performs an ungated POST request
func (c *Client) Post(path string, body, result any) error {
	return c.Do(http.MethodPost, path, "", body, result)
}

// PostWithToken performs a POST request carrying a capability token
func (c *Client) PostWithToken(path, token string, body, result any) error {
	return c.Do(http.MethodPost, path, token, body, result)
}
