package api

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

	"github.com/vpetrenko/acctcli/internal/logging"
)

// RESTClient talks JSON over HTTP against a fixed base URL. It performs no
// retries; the only timeout is the per-request one configured at construction.
type RESTClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger
}

// NewRESTClient validates the base URL and builds a client with the given
// request timeout. tokens supplies bearer tokens for authenticated endpoints
// and may be nil for a client that only calls public ones.
func NewRESTClient(baseURL string, timeout time.Duration, tokens TokenSource, log logging.Logger) (*RESTClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, baseURL)
	}

	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}, nil
}

func (c *RESTClient) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, EndpointLogin, req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *RESTClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.do(ctx, http.MethodPost, EndpointRegister, req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *RESTClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, EndpointLogout, nil, nil, true)
}

func (c *RESTClient) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	var resp RefreshResponse
	if err := c.do(ctx, http.MethodPost, EndpointRefreshToken, req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *RESTClient) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, EndpointProfile, nil, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *RESTClient) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	var resp UpdateProfileResponse
	if err := c.do(ctx, http.MethodPut, EndpointUpdateProfile, req, &resp, true); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *RESTClient) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, EndpointDeleteAccount, nil, nil, true)
}

// Close releases idle connections held by the underlying transport.
func (c *RESTClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do performs one request and classifies the outcome:
// 2xx with a mismatched body -> ErrDecoding, 401 -> ErrUnauthorized, any other
// non-2xx -> *ServerError, transport failure -> ErrNoInternet.
func (c *RESTClient) do(ctx context.Context, method string, ep Endpoint, body, out any, authed bool) error {
	reqURL, err := url.JoinPath(c.baseURL, ep.Path())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed && c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to read access token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrNoInternet, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.log.Debug(ctx, "request failed", "method", method, "path", ep.Path(), "status", resp.StatusCode)
		return &ServerError{StatusCode: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecoding, err)
	}
	return nil
}
