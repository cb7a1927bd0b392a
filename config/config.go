// Package config loads the bindings file that maps key combos to actions.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"

	"keycombo/combo"
	"keycombo/keyboard"
	"keycombo/keycode"
)

const (
	configDirName  = "keycombo"
	configFileName = "bindings.yaml"
	envConfigPath  = "KEYCOMBO_CONFIG"
)

// Action kinds a binding can trigger.
const (
	ActionRun    = "run"
	ActionSend   = "send"
	ActionCopy   = "copy"
	ActionNotify = "notify"
	ActionLog    = "log"
)

// Binding ties one or more key specs to an action.
type Binding struct {
	Name    string   `yaml:"name"`
	Keys    []string `yaml:"keys"`
	Action  string   `yaml:"action"`
	Command string   `yaml:"command,omitempty"` // run
	Send    string   `yaml:"send,omitempty"`    // send, e.g. "ctrl+v"
	Text    string   `yaml:"text,omitempty"`    // copy
	Title   string   `yaml:"title,omitempty"`   // notify
	Message string   `yaml:"message,omitempty"` // notify
}

// Config is the parsed bindings file.
type Config struct {
	Repeat   string    `yaml:"repeat,omitempty"`
	Bindings []Binding `yaml:"bindings"`
}

// LoadEnv loads a .env file from the working directory if one exists.
func LoadEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// ResolvePath picks the bindings file: -config flag, then KEYCOMBO_CONFIG,
// then the OS config directory.
func ResolvePath(flagPath string) (string, error) {
	// Priority 1: -config flag
	if flagPath != "" {
		return filepath.Abs(flagPath)
	}

	// Priority 2: KEYCOMBO_CONFIG environment variable
	if envPath := os.Getenv(envConfigPath); envPath != "" {
		return filepath.Abs(envPath)
	}

	// Priority 3: default OS-specific location
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configDirName, configFileName), nil
}

// Load reads and validates the bindings file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a bindings document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing bindings: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every problem in the config at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := keyboard.ParseRepeatPolicy(c.Repeat); err != nil {
		errs = append(errs, err)
	}
	seen := make(map[string]bool)
	for i, b := range c.Bindings {
		label := b.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		} else if seen[b.Name] {
			errs = append(errs, fmt.Errorf("binding %s: duplicate name", label))
		}
		seen[b.Name] = true

		if err := b.validate(); err != nil {
			errs = append(errs, fmt.Errorf("binding %s: %w", label, err))
		}
	}
	return errors.Join(errs...)
}

func (b Binding) validate() error {
	if _, err := b.Combos(); err != nil {
		return err
	}
	switch b.Action {
	case ActionRun:
		if strings.TrimSpace(b.Command) == "" {
			return errors.New("run action needs a command")
		}
	case ActionSend:
		if strings.TrimSpace(b.Send) == "" {
			return errors.New("send action needs keys to send")
		}
	case ActionCopy:
		if b.Text == "" {
			return errors.New("copy action needs text")
		}
	case ActionNotify:
		if b.Message == "" {
			return errors.New("notify action needs a message")
		}
	case ActionLog, "":
	default:
		return fmt.Errorf("unknown action %q", b.Action)
	}
	return nil
}

// Combos parses every key spec of the binding.
func (b Binding) Combos() (combo.Combos, error) {
	if len(b.Keys) == 0 {
		return nil, fmt.Errorf("%w: no keys", combo.ErrInvalidCombo)
	}
	out := make(combo.Combos, 0, len(b.Keys))
	for _, spec := range b.Keys {
		c, err := keycode.Parse(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// AllCombos returns the combos of every binding, in file order.
func (c *Config) AllCombos() []combo.Combo {
	var out []combo.Combo
	for _, b := range c.Bindings {
		cs, err := b.Combos()
		if err != nil {
			continue
		}
		out = append(out, cs...)
	}
	return out
}

// RepeatPolicy returns the parsed repeat setting.
func (c *Config) RepeatPolicy() keyboard.RepeatPolicy {
	p, _ := keyboard.ParseRepeatPolicy(c.Repeat)
	return p
}

// Default returns the starter config written by -init.
func Default() *Config {
	return &Config{
		Repeat: "ignore",
		Bindings: []Binding{
			{Name: "hello", Keys: []string{"ctrl+shift+h"}, Action: ActionNotify, Title: "keycombo", Message: "hello from keycombo"},
			{Name: "date", Keys: []string{"ctrl+shift+d"}, Action: ActionCopy, Text: "see you tomorrow"},
			{Name: "marker", Keys: []string{"ctrl+shift+m", "ctrl+alt+m"}, Action: ActionLog},
		},
	}
}

// WriteDefault writes Default to path unless a file already exists there.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
