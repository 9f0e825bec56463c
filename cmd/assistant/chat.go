package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/furtherenglish/assistant/internal/linkify"
	"github.com/furtherenglish/assistant/internal/logger"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant from the terminal",
		Long:  "Start a session against the configured completion backend. Each stdin line is one message; /quit ends the session.",
		Args:  cobra.NoArgs,
		RunE:  runChat,
	}

	cmd.Flags().Bool("json", false, "Print each reply as JSON tokens")
	cmd.Flags().StringP("locale", "l", "", "Session locale (default: site default locale)")

	rootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	loc, _ := cmd.Flags().GetString("locale")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	tables, err := provideTables(log, cfg)
	if err != nil {
		return err
	}
	annotator, err := provideAnnotator(cfg, tables)
	if err != nil {
		return err
	}
	matcher, err := provideLocaleMatcher(cfg)
	if err != nil {
		return err
	}
	provider, err := provideChatProvider(cfg)
	if err != nil {
		return err
	}
	store := provideStore(log, cfg, provider, matcher)
	sess := store.Create(loc, os.Getenv("LANG"))

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	enc := json.NewEncoder(out)
	opts := linkify.RenderOptions{
		Locale:    sess.Locale(),
		Navigator: linkify.LocalePrefixNavigator{DefaultLocale: matcher.Default()},
	}
	fmt.Fprintf(errOut, "session %s (%s, %s)\n", sess.ID(), sess.Locale(), provider.Name())

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(errOut, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			break
		}
		msg, err := sess.Send(cmd.Context(), line)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			continue
		}
		tokens := annotator.Annotate(msg.Text)
		if asJSON {
			if err := enc.Encode(tokens); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintln(out, linkify.RenderText(tokens, opts))
	}
	return scanner.Err()
}
