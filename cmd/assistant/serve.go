package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/furtherenglish/assistant/internal/config"
	"github.com/furtherenglish/assistant/internal/conversation"
	"github.com/furtherenglish/assistant/internal/handlers"
	"github.com/furtherenglish/assistant/internal/healthcheck"
	completionchecker "github.com/furtherenglish/assistant/internal/healthcheck/checkers/completion"
	sessionchecker "github.com/furtherenglish/assistant/internal/healthcheck/checkers/sessions"
	tableschecker "github.com/furtherenglish/assistant/internal/healthcheck/checkers/tables"
	"github.com/furtherenglish/assistant/internal/linkify"
	"github.com/furtherenglish/assistant/internal/locale"
	"github.com/furtherenglish/assistant/internal/logger"
	"github.com/furtherenglish/assistant/internal/server"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and WebSocket server",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	})
}

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideTables,
			provideAnnotator,
			provideLocaleMatcher,
			provideChatProvider,
			provideStore,
			provideHealthCheckers,
			provideServerHandler(providePingHandler),
			provideServerHandler(provideAssistantHandler),
			provideServer,
		),
		fx.Invoke(
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideConfig() (config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.Config{}, err
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return config.Config{}, errors.New("auth.jwt_secret is required to serve")
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideHealthCheckers(log *slog.Logger, cfg config.Config, tables linkify.Tables, store *conversation.Store) []healthcheck.Checker {
	source := cfg.Site.TablesPath
	if source == "" {
		source = "builtin"
	}
	return []healthcheck.Checker{
		completionchecker.NewChecker(log, chatConfig(cfg)),
		tableschecker.NewChecker(log, tables, source),
		sessionchecker.NewChecker(log, store),
	}
}

func providePingHandler(log *slog.Logger, checkers []healthcheck.Checker) *handlers.PingHandler {
	return handlers.NewPingHandler(log, checkers...)
}

func provideAssistantHandler(log *slog.Logger, cfg config.Config, store *conversation.Store, annotator *linkify.Annotator, matcher *locale.Matcher) *handlers.AssistantHandler {
	return handlers.NewAssistantHandler(log, store, annotator, matcher, handlers.AssistantConfig{
		JWTSecret:      cfg.Auth.JWTSecret,
		JWTExpiresIn:   cfg.Auth.ExpiresIn(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
}

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	Config         config.Config
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, server.Config{
		Addr:           params.Config.Server.Addr,
		JWTSecret:      params.Config.Auth.JWTSecret,
		AllowedOrigins: params.Config.Server.AllowedOrigins,
		RateLimit:      params.Config.Server.RateLimit,
		RateBurst:      params.Config.Server.RateBurst,
	}, params.ServerHandlers...)
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner, cfg config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting assistant",
				slog.String("addr", srv.Addr()),
				slog.String("provider", cfg.Completion.Provider),
				slog.String("default_locale", cfg.Site.DefaultLocale),
			)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
