package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	adapthttp "inkwell/internal/adapter/http"
	"inkwell/internal/adapter/postgres"
	"inkwell/internal/app"
	"inkwell/internal/config"
	"inkwell/internal/httpserver"
	"inkwell/internal/logutil"
	"inkwell/internal/token"
	"inkwell/internal/upload"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "inkwell",
		Usage: "Blog backend: authentication, posts and cover uploads",
		Commands: []*cli.Command{
			serveCmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(c.Context, cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	logger := log.Logger.With().Str("service", "inkwell").Logger()
	ctx = logutil.WithLogger(ctx, logger)

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	logger.Info().Msg("connected to database")

	uploads, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		return err
	}

	authSvc := app.NewAuthService(db, token.New(cfg.SessionSecret, cfg.TokenTTL))
	postSvc := app.NewPostService(postgres.NewPostRepo(db))

	discoverCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	sso, err := adapthttp.NewSSO(discoverCtx, cfg.OIDC)
	if err != nil {
		return err
	}
	if sso != nil {
		logger.Info().Str("issuer", cfg.OIDC.Issuer).Msg("sso login enabled")
	}

	h := adapthttp.New(authSvc, postSvc, uploads, cfg.CORSOrigin, sso).Handler()
	return httpserver.Serve(ctx, cfg.Addr, h)
}
