// Package cli implements the interactive terminal front end of dirkeeper:
// a repl over the directory and auth services.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/dirkeeper/internal/client/api"
	"github.com/dmitrijs2005/dirkeeper/internal/client/config"
	"github.com/dmitrijs2005/dirkeeper/internal/client/overlay"
	"github.com/dmitrijs2005/dirkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dirkeeper/internal/client/services"
	"github.com/dmitrijs2005/dirkeeper/internal/client/storage"
	"github.com/dmitrijs2005/dirkeeper/internal/logging"
	"github.com/rs/zerolog"

	_ "modernc.org/sqlite"
)

// App wires the services together and runs the repl.
type App struct {
	config *config.Config
	users  services.UserService
	auth   services.AuthService
	closer io.Closer
	reader *bufio.Reader
	out    io.Writer
}

// NewApp builds the full application: local database, API client, overlay,
// services.
func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	repos, err := storage.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	level := zerolog.WarnLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	log := logging.NewZerologLogger(
		zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger(),
	)

	tokens := func(ctx context.Context) string {
		raw, err := repos.Metadata.Get(ctx, metadata.KeyToken)
		if err != nil {
			return ""
		}
		return string(raw)
	}

	apiClient, err := api.NewRestClient(cfg.BaseURL, tokens,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithDebugLogging(cfg.Debug),
	)
	if err != nil {
		_ = repos.DB.Close()
		return nil, err
	}

	ov := overlay.NewService(repos.DB, log)
	users := services.NewUserService(apiClient, ov, log)
	auth := services.NewAuthService(apiClient, users, ov, repos.Metadata, log)

	return &App{
		config: cfg,
		users:  users,
		auth:   auth,
		closer: repos.DB,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

// Run starts the repl and blocks until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.closer != nil {
			_ = a.closer.Close()
		}
	}()
	a.Root(ctx)
}
