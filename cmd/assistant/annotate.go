package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/furtherenglish/assistant/internal/linkify"
	"github.com/furtherenglish/assistant/internal/logger"
)

func init() {
	cmd := &cobra.Command{
		Use:   "annotate [text]",
		Short: "Annotate reply text",
		Long:  "Detect and classify links and emphasis in text (arguments or stdin) and print the token tree as JSON.",
		RunE:  runAnnotate,
	}

	cmd.Flags().Bool("html", false, "Print rendered HTML instead of JSON tokens")
	cmd.Flags().StringP("locale", "l", "", "Locale used to prefix internal links")

	rootCmd.AddCommand(cmd)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	asHTML, _ := cmd.Flags().GetBool("html")
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

	text := strings.Join(args, " ")
	if len(args) == 0 {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimRight(string(b), "\r\n")
	}

	tokens := annotator.Annotate(text)
	out := cmd.OutOrStdout()
	if asHTML {
		_, err := fmt.Fprintln(out, linkify.RenderHTML(tokens, linkify.RenderOptions{
			Locale:    matcher.Match(loc),
			Navigator: linkify.LocalePrefixNavigator{DefaultLocale: matcher.Default()},
		}))
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(tokens)
}
