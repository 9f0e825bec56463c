package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/furtherenglish/assistant/internal/linkify"
)

// The commands share rootCmd and its flags, so these tests run serially and
// set every flag they rely on.

func executeRoot(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestAnnotateCommand(t *testing.T) {
	cfg := writeTestConfig(t, "[completion]\nprovider = \"none\"\n")

	out, _, err := executeRoot(t, "", "annotate", "--config", cfg, "--html=false", "--locale=", "Visit", "/corporate")
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	var tokens []linkify.Token
	if err := json.Unmarshal([]byte(out), &tokens); err != nil {
		t.Fatalf("decode tokens: %v\n%s", err, out)
	}
	if len(tokens) != 2 || tokens[1].Link == nil || tokens[1].Link.CanonicalPath != "/corporate-services" {
		t.Fatalf("unexpected tokens %#v", tokens)
	}

	out, _, err = executeRoot(t, "see /faq\n", "annotate", "--config", cfg, "--html", "--locale", "en")
	if err != nil {
		t.Fatalf("annotate html: %v", err)
	}
	want := `see <a href="/en/faq" data-nav="internal">/faq</a>` + "\n"
	if out != want {
		t.Fatalf("unexpected html %q", out)
	}
}

func TestChatCommandAnswersWithFallback(t *testing.T) {
	cfg := writeTestConfig(t, "[log]\nlevel = \"error\"\n\n[completion]\nprovider = \"none\"\n")

	out, errOut, err := executeRoot(t, "hola\n\n/quit\nignored\n", "chat", "--config", cfg, "--json=false", "--locale", "es")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !strings.Contains(errOut, "(es, none)") {
		t.Fatalf("expected session banner, got %q", errOut)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "Perdón, no pude responder") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSiteName(t *testing.T) {
	cases := map[string]string{
		"https://www.furtherenglish.com": "furtherenglish.com",
		"https://example.edu/":           "example.edu",
		"":                               "Further English",
	}
	for origin, want := range cases {
		if got := siteName(origin); got != want {
			t.Fatalf("siteName(%q) = %q, want %q", origin, got, want)
		}
	}
}
