package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/vpetrenko/acctcli/internal/client/api"
	"github.com/vpetrenko/acctcli/internal/client/config"
	"github.com/vpetrenko/acctcli/internal/client/keystore"
	"github.com/vpetrenko/acctcli/internal/client/session"
	"github.com/vpetrenko/acctcli/internal/logging"
	"github.com/vpetrenko/acctcli/internal/validation"
)

// sessionController is the slice of session.Controller the CLI needs.
// Tests substitute a fake.
type sessionController interface {
	Restore(ctx context.Context)
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password, name string) error
	Logout(ctx context.Context)
	Profile(ctx context.Context) (*api.User, error)
	UpdateProfile(ctx context.Context, name string, phone, bio *string) (*api.User, error)
	Refresh(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	Snapshot() session.State
}

// App wires the REPL to the session controller.
type App struct {
	config  *config.Config
	session sessionController
	client  api.Client
	store   *keystore.SQLite
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp opens the credential vault, builds the API client and the session
// controller, and restores any previous session from stored credentials.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	store, err := keystore.Open(ctx, cfg.VaultPath, cfg.VaultPath+".key")
	if err != nil {
		log.Error(ctx, "failed to open credential vault", "path", cfg.VaultPath, "error", err)
		return nil, err
	}

	apiClient, err := api.NewRESTClient(cfg.BaseURL, cfg.RequestTimeout, keystore.TokenSource{Store: store}, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	valid, err := validation.New()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	ctrl := session.New(apiClient, store, valid, log)
	ctrl.Restore(ctx)

	return &App{
		config:  cfg,
		session: ctrl,
		client:  apiClient,
		store:   store,
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run drives the REPL until the user exits or the context is canceled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close releases the API client and the vault.
func (a *App) Close() {
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}
