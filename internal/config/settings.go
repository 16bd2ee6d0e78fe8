package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Backends.
const (
	BackendFile   = "file"
	BackendGoogle = "google"
)

// Selectors.
const (
	SelectorBuiltin = "builtin"
	SelectorFzf     = "fzf"
)

// Environment overrides.
const (
	EnvDefaultList = "TODO_DEFAULT_LIST"
	EnvBackend     = "TODO_BACKEND"
)

// Settings mirrors config.toml.
type Settings struct {
	DefaultList string         `toml:"default_list"`
	Backend     string         `toml:"backend"`
	Selector    string         `toml:"selector"`
	StoreFile   string         `toml:"store_file"`
	Output      OutputSettings `toml:"output"`
}

// OutputSettings holds one text style per kind of output line.
type OutputSettings struct {
	Text TextSettings `toml:"text"`
	Err  TextSettings `toml:"err"`
	List TextSettings `toml:"list"`
}

// TextSettings describes a text style. Color is a name ("red",
// "bright_blue"), an ANSI index ("208") or a hex value ("#ff8800").
type TextSettings struct {
	Color  string `toml:"color"`
	Bold   bool   `toml:"bold"`
	Italic bool   `toml:"italic"`
}

// DefaultSettings returns the settings used when config.toml is absent.
func DefaultSettings() Settings {
	return Settings{
		DefaultList: "default",
		Backend:     BackendFile,
		Selector:    SelectorBuiltin,
		StoreFile:   "tasks.json",
		Output: OutputSettings{
			Text: TextSettings{},
			Err:  TextSettings{Color: "red", Bold: true},
			List: TextSettings{Color: "cyan", Bold: true},
		},
	}
}

// LoadSettings decodes config.toml over the current settings, applies
// environment overrides and validates the result.
func (c *Config) LoadSettings() error {
	path := c.SettingsPath()
	stored := c.Settings
	if _, err := os.Stat(path); err == nil {
		md, err := toml.DecodeFile(path, &stored)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("loading %s: unknown key %s", path, undecoded[0])
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	c.stored = &stored
	c.Settings = stored
	loadFromEnv(&c.Settings)

	if err := c.Settings.Validate(); err != nil {
		return fmt.Errorf("invalid %s: %w", path, err)
	}
	return nil
}

func loadFromEnv(s *Settings) {
	if v := strings.TrimSpace(os.Getenv(EnvDefaultList)); v != "" {
		s.DefaultList = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackend)); v != "" {
		s.Backend = v
	}
}

// SetDefaultList changes the default list for this run and for SaveSettings.
func (c *Config) SetDefaultList(name string) {
	c.Settings.DefaultList = name
	if c.stored != nil {
		c.stored.DefaultList = name
	}
}

// SetBackend changes the backend for this run and for SaveSettings.
func (c *Config) SetBackend(backend string) {
	c.Settings.Backend = backend
	if c.stored != nil {
		c.stored.Backend = backend
	}
}

// SaveSettings writes config.toml, replacing it atomically. Environment
// overrides are never written.
func (c *Config) SaveSettings() error {
	settings := c.Settings
	if c.stored != nil {
		settings = *c.stored
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(settings); err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := c.EnsureDir(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.Dir, "."+SettingsFile+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(c.Dir, SettingsFile))
}

// Validate checks enumerated values and colors.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.DefaultList) == "" {
		return fmt.Errorf("default_list must not be empty")
	}
	switch s.Backend {
	case BackendFile, BackendGoogle:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", s.Backend, BackendFile, BackendGoogle)
	}
	switch s.Selector {
	case SelectorBuiltin, SelectorFzf:
	default:
		return fmt.Errorf("unknown selector %q (want %s or %s)", s.Selector, SelectorBuiltin, SelectorFzf)
	}
	if strings.TrimSpace(s.StoreFile) == "" {
		return fmt.Errorf("store_file must not be empty")
	}
	for name, ts := range map[string]TextSettings{"text": s.Output.Text, "err": s.Output.Err, "list": s.Output.List} {
		if _, err := ParseColor(ts.Color); err != nil {
			return fmt.Errorf("output.%s: %w", name, err)
		}
	}
	return nil
}

var colorNames = map[string]int{
	"black":          0,
	"red":            1,
	"green":          2,
	"yellow":         3,
	"blue":           4,
	"magenta":        5,
	"cyan":           6,
	"white":          7,
	"bright_black":   8,
	"bright_red":     9,
	"bright_green":   10,
	"bright_yellow":  11,
	"bright_blue":    12,
	"bright_magenta": 13,
	"bright_cyan":    14,
	"bright_white":   15,
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ParseColor normalizes a color setting to the form lipgloss expects: an
// ANSI index or "#rrggbb". The empty string means no color.
func ParseColor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if strings.HasPrefix(s, "#") {
		if !hexColor.MatchString(s) {
			return "", fmt.Errorf("invalid hex color %q", s)
		}
		return strings.ToLower(s), nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 255 {
			return "", fmt.Errorf("color index out of range: %d", n)
		}
		return s, nil
	}
	key := strings.ReplaceAll(strings.ToLower(s), " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	if n, ok := colorNames[key]; ok {
		return strconv.Itoa(n), nil
	}
	return "", fmt.Errorf("unknown color %q", s)
}
