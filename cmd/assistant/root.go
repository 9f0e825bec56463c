package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/furtherenglish/assistant/internal/chat"
	"github.com/furtherenglish/assistant/internal/config"
	"github.com/furtherenglish/assistant/internal/conversation"
	"github.com/furtherenglish/assistant/internal/linkify"
	"github.com/furtherenglish/assistant/internal/locale"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "assistant",
	Short:        "Further English chat assistant",
	Long:         "Chat widget backend: conversation sessions against a completion backend and link annotation of replies.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $CONFIG_PATH or config.toml)")
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideTables(log *slog.Logger, cfg config.Config) (linkify.Tables, error) {
	tables, err := linkify.LoadTables(cfg.Site.TablesPath)
	if err != nil {
		return linkify.Tables{}, fmt.Errorf("load link tables: %w", err)
	}
	aliases, labels, hosts := tables.Len()
	log.Debug("link tables loaded",
		slog.String("path", cfg.Site.TablesPath),
		slog.Int("aliases", aliases),
		slog.Int("labels", labels),
		slog.Int("internal_hosts", hosts),
	)
	return tables, nil
}

func provideAnnotator(cfg config.Config, tables linkify.Tables) (*linkify.Annotator, error) {
	classifier, err := linkify.NewClassifier(cfg.Site.Origin, tables)
	if err != nil {
		return nil, fmt.Errorf("site.origin: %w", err)
	}
	return linkify.NewAnnotator(classifier), nil
}

func provideLocaleMatcher(cfg config.Config) (*locale.Matcher, error) {
	matcher, err := locale.NewMatcher(cfg.Site.DefaultLocale, cfg.Site.Locales)
	if err != nil {
		return nil, fmt.Errorf("site locales: %w", err)
	}
	return matcher, nil
}

func chatConfig(cfg config.Config) chat.Config {
	return chat.Config{
		Provider:    cfg.Completion.Provider,
		BaseURL:     cfg.Completion.BaseURL,
		APIKey:      cfg.Completion.APIKey,
		Model:       cfg.Completion.Model,
		Timeout:     cfg.Completion.Timeout(),
		Temperature: cfg.Completion.Temperature,
	}
}

func provideChatProvider(cfg config.Config) (chat.Provider, error) {
	return chat.NewProvider(chatConfig(cfg))
}

func provideStore(log *slog.Logger, cfg config.Config, provider chat.Provider, matcher *locale.Matcher) *conversation.Store {
	return conversation.NewStore(log, provider, matcher, conversation.StoreConfig{
		MaxSessions: cfg.Assistant.MaxSessions,
		TTL:         cfg.Assistant.SessionTTLDuration(),
		Session: conversation.Options{
			HistoryLimit:    cfg.Assistant.HistoryLimit,
			HistoryMaxBytes: cfg.Assistant.HistoryMaxBytes,
			MaxMessageChars: cfg.Assistant.MaxMessageChars,
			SiteName:        siteName(cfg.Site.Origin),
		},
	})
}

// siteName is the bare host of the site origin, e.g. "furtherenglish.com".
func siteName(origin string) string {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil || u.Hostname() == "" {
		return "Further English"
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
