package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpetrenko/acctcli/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) AccessToken(ctx context.Context) (string, error) {
	return s.token, s.err
}

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens TokenSource) (*RESTClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewRESTClient(srv.URL, 5*time.Second, tokens, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, srv
}

func TestNewRESTClient_InvalidBaseURL(t *testing.T) {
	_, err := NewRESTClient("not a url", time.Second, nil, testLogger())
	require.ErrorIs(t, err, ErrInvalidURL)

	_, err = NewRESTClient("", time.Second, nil, testLogger())
	require.ErrorIs(t, err, ErrInvalidURL)
}

func TestEndpoint_Path(t *testing.T) {
	tests := []struct {
		ep   Endpoint
		want string
	}{
		{EndpointLogin, "/auth/login"},
		{EndpointRegister, "/auth/register"},
		{EndpointLogout, "/auth/logout"},
		{EndpointRefreshToken, "/auth/refresh"},
		{EndpointProfile, "/user/profile"},
		{EndpointUpdateProfile, "/user/profile"},
		{EndpointDeleteAccount, "/user/account"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.ep.Path())
	}
}

func TestRESTClient_Login_Success(t *testing.T) {
	userID := uuid.New()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.com", req.Email)

		resp := LoginResponse{
			Token:        "access-1",
			RefreshToken: "refresh-1",
			User: User{
				ID:        userID,
				Email:     req.Email,
				Name:      "John Doe",
				CreatedAt: time.Now().UTC(),
				UpdatedAt: time.Now().UTC(),
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}, nil)

	resp, err := c.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, "access-1", resp.Token)
	assert.Equal(t, "refresh-1", resp.RefreshToken)
	assert.Equal(t, userID, resp.User.ID)
}

func TestRESTClient_Login_Unauthorized(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, nil)

	_, err := c.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "longenough"})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestRESTClient_ServerError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, nil)

	_, err := c.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "longenough"})
	require.ErrorIs(t, err, ErrServer)

	var serr *ServerError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusBadGateway, serr.StatusCode)
	assert.Contains(t, serr.Error(), "502")
}

func TestRESTClient_DecodingError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}, nil)

	_, err := c.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "longenough"})
	require.ErrorIs(t, err, ErrDecoding)
}

func TestRESTClient_NoInternet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	c, err := NewRESTClient(baseURL, time.Second, nil, testLogger())
	require.NoError(t, err)

	_, err = c.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "longenough"})
	require.ErrorIs(t, err, ErrNoInternet)
}

func TestRESTClient_Profile_SendsBearer(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/user/profile", r.URL.Path)
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(User{ID: uuid.New(), Email: "a@b.com", Name: "John"})
	}, staticTokens{token: "access-1"})

	user, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
}

func TestRESTClient_UpdateProfile(t *testing.T) {
	phone := "0123456789"
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/user/profile", r.URL.Path)

		var req UpdateProfileRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Jane", req.Name)
		require.NotNil(t, req.Phone)
		assert.Equal(t, phone, *req.Phone)
		assert.Nil(t, req.Bio)

		_ = json.NewEncoder(w).Encode(UpdateProfileResponse{User: User{Name: req.Name}})
	}, staticTokens{token: "access-1"})

	user, err := c.UpdateProfile(context.Background(), UpdateProfileRequest{Name: "Jane", Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Jane", user.Name)
}

func TestRESTClient_DeleteAccount(t *testing.T) {
	var gotMethod, gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}, staticTokens{token: "access-1"})

	require.NoError(t, c.DeleteAccount(context.Background()))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/user/account", gotPath)
}

func TestRESTClient_TokenSourceError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent when the token cannot be read")
	}, staticTokens{err: assert.AnError})

	_, err := c.Profile(context.Background())
	require.ErrorIs(t, err, assert.AnError)
}
