package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpetrenko/acctcli/internal/client/api"
	"github.com/vpetrenko/acctcli/internal/client/session"
)

// fakeController records calls; the CLI never needs return values beyond
// errors for these tests.
type fakeController struct {
	state session.State

	loginEmail    string
	loginPassword string
	loginErr      error
	loginCalls    int

	registerEmail    string
	registerPassword string
	registerName     string
	registerErr      error
	registerCalls    int

	logoutCalls int

	deleteCalls int
	deleteErr   error
}

func (f *fakeController) Restore(ctx context.Context) {}

func (f *fakeController) Login(ctx context.Context, email, password string) error {
	f.loginCalls++
	f.loginEmail, f.loginPassword = email, password
	return f.loginErr
}

func (f *fakeController) Register(ctx context.Context, email, password, name string) error {
	f.registerCalls++
	f.registerEmail, f.registerPassword, f.registerName = email, password, name
	return f.registerErr
}

func (f *fakeController) Logout(ctx context.Context) { f.logoutCalls++ }

func (f *fakeController) Profile(ctx context.Context) (*api.User, error) { return nil, nil }

func (f *fakeController) UpdateProfile(ctx context.Context, name string, phone, bio *string) (*api.User, error) {
	return nil, nil
}

func (f *fakeController) Refresh(ctx context.Context) error { return nil }

func (f *fakeController) DeleteAccount(ctx context.Context) error {
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakeController) Snapshot() session.State { return f.state }

func newTestApp(ctrl sessionController, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		session: ctrl,
		reader:  bufio.NewReader(strings.NewReader(input)),
		out:     &out,
	}, &out
}

// stubInputs replaces the interactive input helpers. texts are consumed in
// order by getSimpleText; passwords in order by getPassword.
func stubInputs(t *testing.T, texts []string, passwords [][]byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword

	ti, pi := 0, 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		s := texts[ti]
		ti++
		return s, nil
	}
	getPassword = func(_ string, _ io.Writer) ([]byte, error) {
		p := passwords[pi]
		pi++
		return append([]byte(nil), p...), nil
	}

	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func TestLogin_PassesCredentials(t *testing.T) {
	stubInputs(t, []string{"a@b.com"}, [][]byte{[]byte("longenough")})

	ctrl := &fakeController{}
	app, out := newTestApp(ctrl, "")

	require.NoError(t, app.Login(context.Background()))
	assert.Equal(t, 1, ctrl.loginCalls)
	assert.Equal(t, "a@b.com", ctrl.loginEmail)
	assert.Equal(t, "longenough", ctrl.loginPassword)
	assert.Contains(t, out.String(), "Logged in.")
}

func TestLogin_SurfacesError(t *testing.T) {
	stubInputs(t, []string{"a@b.com"}, [][]byte{[]byte("longenough")})

	ctrl := &fakeController{loginErr: api.ErrUnauthorized}
	app, out := newTestApp(ctrl, "")

	err := app.Login(context.Background())
	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Contains(t, out.String(), "Login failed:")
}

func TestRegister_Success(t *testing.T) {
	stubInputs(t,
		[]string{"new@b.com", "New User"},
		[][]byte{[]byte("longenough"), []byte("longenough")},
	)

	ctrl := &fakeController{}
	app, out := newTestApp(ctrl, "")

	require.NoError(t, app.Register(context.Background()))
	assert.Equal(t, 1, ctrl.registerCalls)
	assert.Equal(t, "new@b.com", ctrl.registerEmail)
	assert.Equal(t, "longenough", ctrl.registerPassword)
	assert.Equal(t, "New User", ctrl.registerName)
	assert.Contains(t, out.String(), "Success!")
}

func TestRegister_PasswordMismatch_NeverInvokesController(t *testing.T) {
	stubInputs(t,
		[]string{"new@b.com"},
		[][]byte{[]byte("longenough"), []byte("different1")},
	)

	ctrl := &fakeController{}
	app, out := newTestApp(ctrl, "")

	require.NoError(t, app.Register(context.Background()))
	assert.Equal(t, 0, ctrl.registerCalls, "mismatched confirmation must stop at the form")
	assert.Contains(t, out.String(), "Passwords do not match")
}

func TestLogout(t *testing.T) {
	ctrl := &fakeController{}
	app, out := newTestApp(ctrl, "")

	app.Logout(context.Background())
	assert.Equal(t, 1, ctrl.logoutCalls)
	assert.Contains(t, out.String(), "Logged out.")
}

func TestDeleteAccount_RequiresConfirmation(t *testing.T) {
	stubInputs(t, []string{"no"}, nil)

	ctrl := &fakeController{}
	app, out := newTestApp(ctrl, "")

	require.NoError(t, app.DeleteAccount(context.Background()))
	assert.Equal(t, 0, ctrl.deleteCalls)
	assert.Contains(t, out.String(), "Canceled.")
}

func TestDeleteAccount_Confirmed(t *testing.T) {
	stubInputs(t, []string{"yes"}, nil)

	ctrl := &fakeController{}
	app, out := newTestApp(ctrl, "")

	require.NoError(t, app.DeleteAccount(context.Background()))
	assert.Equal(t, 1, ctrl.deleteCalls)
	assert.Contains(t, out.String(), "Account deleted.")
}

func TestGetStatus(t *testing.T) {
	ctrl := &fakeController{}
	app, _ := newTestApp(ctrl, "")

	assert.Equal(t, "(guest)", app.getStatus())

	ctrl.state = session.State{Authenticated: true, Subject: "a@b.com"}
	assert.Equal(t, "(a@b.com auth)", app.getStatus())
}
