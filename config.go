package chip8

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config holds the frontend settings. None of them changes how programs run.
type Config struct {
	Keyboard KeyboardConfig `toml:"keyboard"`
	Terminal TerminalConfig `toml:"terminal"`
	Window   WindowConfig   `toml:"window"`
	Web      WebConfig      `toml:"web"`
}

type KeyboardConfig struct {
	// Layout lists the host key of each console key, from 0 to F
	Layout string `toml:"layout"`
}

type TerminalConfig struct {
	OnChar  string `toml:"on"`
	OffChar string `toml:"off"`
}

type WindowConfig struct {
	Scale           int    `toml:"scale"`
	PixelColor      string `toml:"pixel_color"`
	BackgroundColor string `toml:"background_color"`
}

type WebConfig struct {
	Port int `toml:"port"`
}

type ConfigCb func(config *Config)

func DefaultConfig() Config {
	return Config{
		Keyboard: KeyboardConfig{
			Layout: string(DefaultKeyboardLayout[:]),
		},
		Terminal: TerminalConfig{
			OnChar:  "##",
			OffChar: "  ",
		},
		Window: WindowConfig{
			Scale:           15,
			PixelColor:      "#FDF900",
			BackgroundColor: "#FFCB00",
		},
		Web: WebConfig{
			Port: 9999,
		},
	}
}

// LoadConfig reads the TOML file at path over the defaults.
// An empty path gives the defaults.
func LoadConfig(path string, configs ...ConfigCb) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, &config); err != nil {
			return config, errors.Wrapf(err, "reading config %q", path)
		}
	}

	for _, cb := range configs {
		cb(&config)
	}

	if err := config.Validate(); err != nil {
		return config, errors.Wrapf(err, "invalid config %q", path)
	}

	return config, nil
}

func (config Config) Validate() error {
	if _, err := config.KeyboardLayout(); err != nil {
		return err
	}
	if config.Window.Scale < 1 {
		return fmt.Errorf("window scale must be positive, got %d", config.Window.Scale)
	}
	if _, err := ParseColor(config.Window.PixelColor); err != nil {
		return err
	}
	if _, err := ParseColor(config.Window.BackgroundColor); err != nil {
		return err
	}
	if config.Web.Port <= 0 || config.Web.Port > 65535 {
		return fmt.Errorf("invalid port %d", config.Web.Port)
	}

	return nil
}

// KeyboardLayout parses the configured layout
func (config Config) KeyboardLayout() (KeyboardLayout, error) {
	layout := KeyboardLayout{}
	runes := []rune(strings.ToLower(config.Keyboard.Layout))
	if len(runes) != KeyCount {
		return layout, fmt.Errorf("keyboard layout must have %d keys, got %d", KeyCount, len(runes))
	}

	seen := map[rune]bool{}
	for k, r := range runes {
		if seen[r] {
			return layout, fmt.Errorf("key %q is mapped twice", r)
		}
		seen[r] = true
		layout[k] = r
	}

	return layout, nil
}

// ParseColor parses colors written as #RRGGBB
func ParseColor(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid color %q, expected #RRGGBB", s)
	}

	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	return color.RGBA{
		R: byte(v >> 16),
		G: byte(v >> 8),
		B: byte(v),
		A: 0xFF,
	}, nil
}
