package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/oauth2"

	"github.com/pmclarity/clarity/internal/apiclient"
	"github.com/pmclarity/clarity/internal/auth"
	"github.com/pmclarity/clarity/internal/cli"
	"github.com/pmclarity/clarity/internal/config"
	"github.com/pmclarity/clarity/internal/identity"
	"github.com/pmclarity/clarity/internal/sessions"
	"github.com/pmclarity/clarity/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	sessionStore, err := sessions.Open(cfg.Session.Path)
	if err != nil {
		logger.Error("failed to open session store", "error", err)
		os.Exit(1)
	}
	defer sessionStore.Close()

	provider := identity.NewRESTProvider(identity.RESTOptions{
		Endpoint: cfg.Identity.Endpoint,
		APIKey:   cfg.Identity.APIKey,
		OAuth:    oauthConfig(cfg.Identity),
		Logger:   logger,
	})

	// Restore the persisted session, if any, so the token middleware can
	// refresh it instead of forcing a fresh sign-in.
	if session, err := sessionStore.Load(); err == nil {
		provider.Restore(*session)
	} else if !errors.Is(err, sessions.ErrNotFound) {
		logger.Warn("failed to load persisted session", "error", err)
	}

	authState := auth.NewState(provider, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := apiclient.New(apiclient.Options{
		BaseURL:         cfg.API.BaseURL,
		Timeout:         cfg.API.Timeout,
		GenerateTimeout: cfg.API.GenerateTimeout,
		Middleware: []apiclient.Middleware{
			apiclient.WithToken(apiclient.TokenSourceFunc(authState.Token)),
			apiclient.WithRequestID(),
			apiclient.WithUnauthorizedHook(func() {
				// A 401 means the session is no longer valid anywhere.
				if err := authState.SignOut(context.Background()); err != nil {
					logger.Warn("sign-out after 401 failed", "error", err)
				}
				if err := sessionStore.Delete(); err != nil {
					logger.Warn("failed to drop persisted session", "error", err)
				}
			}),
		},
		Logger: logger,
	})

	if err := authState.Initialize(ctx); err != nil {
		logger.Error("auth initialization interrupted", "error", err)
		os.Exit(1)
	}

	app := &cli.App{
		Config:   cfg,
		Provider: provider,
		Auth:     authState,
		Sessions: sessionStore,
		Store: store.New(store.Options{
			Client: client,
			Logger: logger,
		}),
	}

	runErr := cli.NewRootCmd(app).ExecuteContext(ctx)

	// Persist the session on the way out; token refreshes during the run
	// rotate the refresh token.
	if session := provider.Session(); session != nil {
		if err := sessionStore.Save(*session); err != nil {
			logger.Warn("failed to persist session", "error", err)
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}

func oauthConfig(cfg config.IdentityConfig) *oauth2.Config {
	if cfg.OAuthClientID == "" {
		return nil
	}
	return &oauth2.Config{
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		RedirectURL:  cfg.OAuthRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.OAuthAuthURL,
			TokenURL: cfg.OAuthTokenURL,
		},
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
