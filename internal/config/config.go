package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"tasker/internal/storage"
)

const (
	AppName               = "tasker"
	DefaultConfigFileName = "config.toml"
	DefaultDataName       = "tasks.toml"
	DefaultLogName        = "tasker.log"

	// ConfigDirEnv overrides the per-user config directory.
	ConfigDirEnv = "TASKER_CONFIG_DIR"
)

// Keymap binds each command to one or more keys, comma separated.
type Keymap struct {
	Quit        string `toml:"quit"`
	Clear       string `toml:"clear"`
	Next        string `toml:"next"`
	Previous    string `toml:"previous"`
	First       string `toml:"first"`
	Last        string `toml:"last"`
	Toggle      string `toml:"toggle"`
	Delete      string `toml:"delete"`
	Add         string `toml:"add"`
	Edit        string `toml:"edit"`
	SwitchField string `toml:"switch_field"`
	Confirm     string `toml:"confirm"`
	Cancel      string `toml:"cancel"`
	Backspace   string `toml:"backspace"`
}

type Config struct {
	DataPath string `toml:"data_path"`
	Backend  string `toml:"backend"`
	LogPath  string `toml:"log_path"`
	LogLevel string `toml:"log_level"`
	Keys     Keymap `toml:"keys"`
}

// ResolveConfigPath returns the config file location for the current user.
func ResolveConfigPath() (string, error) {
	if v := strings.TrimSpace(os.Getenv(ConfigDirEnv)); v != "" {
		return filepath.Join(v, DefaultConfigFileName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName), nil
}

// LoadOrCreate reads the config at path, writing defaults first when the
// file does not exist. Relative paths resolve against the config directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return cfg, fmt.Errorf("create config dir: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, fmt.Errorf("write default config: %w", err)
		}
		return cfg.resolve(dir), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if strings.TrimSpace(cfg.DataPath) == "" {
		cfg.DataPath = DefaultDataName
	}
	if strings.TrimSpace(cfg.LogPath) == "" {
		cfg.LogPath = DefaultLogName
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", storage.BackendTOML:
		cfg.Backend = storage.BackendTOML
	case storage.BackendSQLite:
		cfg.Backend = storage.BackendSQLite
	default:
		return cfg, fmt.Errorf("unknown backend %q (want %q or %q)", cfg.Backend, storage.BackendTOML, storage.BackendSQLite)
	}
	cfg.Keys = cfg.Keys.withDefaults(defaultConfig().Keys)
	return cfg.resolve(dir), nil
}

func (c Config) resolve(dir string) Config {
	c.DataPath = resolvePath(dir, c.DataPath)
	c.LogPath = resolvePath(dir, c.LogPath)
	return c
}

func resolvePath(dir, p string) string {
	p = strings.TrimSpace(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// withDefaults fills bindings a user left blank.
func (k Keymap) withDefaults(d Keymap) Keymap {
	pick := func(v, def string) string {
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	}
	return Keymap{
		Quit:        pick(k.Quit, d.Quit),
		Clear:       pick(k.Clear, d.Clear),
		Next:        pick(k.Next, d.Next),
		Previous:    pick(k.Previous, d.Previous),
		First:       pick(k.First, d.First),
		Last:        pick(k.Last, d.Last),
		Toggle:      pick(k.Toggle, d.Toggle),
		Delete:      pick(k.Delete, d.Delete),
		Add:         pick(k.Add, d.Add),
		Edit:        pick(k.Edit, d.Edit),
		SwitchField: pick(k.SwitchField, d.SwitchField),
		Confirm:     pick(k.Confirm, d.Confirm),
		Cancel:      pick(k.Cancel, d.Cancel),
		Backspace:   pick(k.Backspace, d.Backspace),
	}
}

// Keys splits a binding into its individual key names. A lone " " is kept
// as the space key.
func Keys(binding string) []string {
	if binding == " " {
		return []string{" "}
	}
	var out []string
	for _, k := range strings.Split(binding, ",") {
		if k == " " {
			out = append(out, k)
			continue
		}
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Default returns the built-in configuration with paths relative to dir.
func Default(dir string) Config {
	return defaultConfig().resolve(dir)
}

func defaultConfig() Config {
	return Config{
		DataPath: DefaultDataName,
		Backend:  storage.BackendTOML,
		LogPath:  DefaultLogName,
		LogLevel: "info",
		Keys: Keymap{
			Quit:        "q,ctrl+c",
			Clear:       "esc",
			Next:        "j,down",
			Previous:    "k,up",
			First:       "g,home",
			Last:        "G,end",
			Toggle:      " ,x",
			Delete:      "d",
			Add:         "a",
			Edit:        "e",
			SwitchField: "tab",
			Confirm:     "enter",
			Cancel:      "esc",
			Backspace:   "backspace",
		},
	}
}
