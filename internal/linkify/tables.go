package linkify

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// TablesFile is the on-disk shape of the routing tables.
type TablesFile struct {
	Aliases       map[string]string `yaml:"aliases"`
	HostLabels    map[string]string `yaml:"host_labels"`
	PathLabels    map[string]string `yaml:"path_labels"`
	InternalHosts []string          `yaml:"internal_hosts"`
}

// Tables is the read-only routing configuration shared by the classifier and
// the canonicaliser. Build it with NewTables, DefaultTables or LoadTables.
type Tables struct {
	aliases       map[string]string
	hostLabels    map[string]string
	pathLabels    map[string]string
	internalHosts map[string]struct{}
}

// DefaultTables returns the built-in route aliases and brand labels.
func DefaultTables() Tables {
	t, err := NewTables(TablesFile{
		Aliases: map[string]string{
			"/corporate":            "/corporate-services",
			"/corporativo":          "/corporate-services",
			"/empresas":             "/corporate-services",
			"/in-company":           "/corporate-services",
			"/contacto":             "/contact",
			"/cursos":               "/courses",
			"/clases":               "/courses",
			"/preguntas-frecuentes": "/faq",
			"/nosotros":             "/about",
			"/about-us":             "/about",
			"/precios":              "/pricing",
			"/prices":               "/pricing",
		},
		HostLabels: map[string]string{
			"wa.me":            "WhatsApp",
			"api.whatsapp.com": "WhatsApp",
			"instagram.com":    "Instagram",
			"facebook.com":     "Facebook",
			"linkedin.com":     "LinkedIn",
			"youtube.com":      "YouTube",
			"youtu.be":         "YouTube",
			"tiktok.com":       "TikTok",
			"twitter.com":      "X",
			"x.com":            "X",
			"calendly.com":     "Calendly",
		},
		InternalHosts: []string{
			"furtherenglish.com",
			"www.furtherenglish.com",
			"furtherenglish.com.ar",
			"www.furtherenglish.com.ar",
		},
	})
	if err != nil {
		panic(err)
	}
	return t
}

// LoadTables reads tables from a YAML file. An empty path yields DefaultTables.
func LoadTables(path string) (Tables, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultTables(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read tables: %w", err)
	}
	var file TablesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Tables{}, fmt.Errorf("decode tables: %w", err)
	}
	return NewTables(file)
}

// NewTables normalises and validates raw tables. Alias keys and targets are
// slash-normalised, and a target may not itself be an alias of a different
// path so that canonicalisation is idempotent.
func NewTables(file TablesFile) (Tables, error) {
	t := Tables{
		aliases:       make(map[string]string, len(file.Aliases)),
		hostLabels:    make(map[string]string, len(file.HostLabels)),
		pathLabels:    make(map[string]string, len(file.PathLabels)),
		internalHosts: make(map[string]struct{}, len(file.InternalHosts)),
	}
	for from, to := range file.Aliases {
		key := NormalizePath(strings.TrimSpace(from))
		target := NormalizePath(strings.TrimSpace(to))
		if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
			return Tables{}, fmt.Errorf("alias %q -> %q: empty path", from, to)
		}
		if prev, ok := t.aliases[key]; ok && prev != target {
			return Tables{}, fmt.Errorf("alias %q declared twice with different targets", key)
		}
		t.aliases[key] = target
	}
	for _, key := range sortedKeys(t.aliases) {
		target := t.aliases[key]
		if next, ok := t.aliases[target]; ok && next != target {
			return Tables{}, fmt.Errorf("alias %q -> %q chains to %q", key, target, next)
		}
	}
	for host, label := range file.HostLabels {
		h := normalizeHost(host)
		if h == "" || strings.TrimSpace(label) == "" {
			return Tables{}, fmt.Errorf("host label %q: host and label are required", host)
		}
		t.hostLabels[h] = strings.TrimSpace(label)
	}
	for p, label := range file.PathLabels {
		if strings.TrimSpace(label) == "" {
			return Tables{}, fmt.Errorf("path label %q: label is required", p)
		}
		t.pathLabels[NormalizePath(strings.TrimSpace(p))] = strings.TrimSpace(label)
	}
	for _, host := range file.InternalHosts {
		h := strings.ToLower(strings.TrimSpace(host))
		if h == "" {
			continue
		}
		t.internalHosts[h] = struct{}{}
	}
	return t, nil
}

// Alias returns the canonical target for an already normalised path.
func (t Tables) Alias(path string) (string, bool) {
	v, ok := t.aliases[path]
	return v, ok
}

// HostLabel returns the brand label for a host; a leading "www." is ignored.
func (t Tables) HostLabel(host string) (string, bool) {
	v, ok := t.hostLabels[normalizeHost(host)]
	return v, ok
}

// PathLabel returns the display label for a canonical internal path.
func (t Tables) PathLabel(path string) (string, bool) {
	v, ok := t.pathLabels[path]
	return v, ok
}

// IsInternalHost reports whether host belongs to the site under another name.
func (t Tables) IsInternalHost(host string) bool {
	_, ok := t.internalHosts[strings.ToLower(host)]
	return ok
}

// Len reports the number of aliases, host labels and internal hosts.
func (t Tables) Len() (aliases, labels, hosts int) {
	return len(t.aliases), len(t.hostLabels) + len(t.pathLabels), len(t.internalHosts)
}

func normalizeHost(host string) string {
	h := strings.ToLower(strings.TrimSpace(host))
	return strings.TrimPrefix(h, "www.")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
