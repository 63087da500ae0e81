package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/vpetrenko/acctcli/internal/client/cli"
	"github.com/vpetrenko/acctcli/internal/client/config"
	"github.com/vpetrenko/acctcli/internal/logging"
)

func main() {
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	ctx := context.Background()
	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
