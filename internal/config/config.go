// Package config loads board settings from defaults plus an optional
// camsync.cfg.json next to the binary or in a directory given on the
// command line.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Settings is the typed view of the loaded configuration.
type Settings struct {
	LogLevel  string
	CadenceMs int

	Display DisplaySettings
	Journal JournalSettings
}

// DisplaySettings fixes the board geometry and window behavior.
type DisplaySettings struct {
	Cell       int // pixels per marker module; a tile is 7*Cell square
	Margin     int // white quiet zone around tiles, pixels
	Scale      int // window pixels per framebuffer pixel
	Fullscreen bool
}

// JournalSettings controls the optional per-second emission log.
type JournalSettings struct {
	Enabled bool
	Path    string
}

// Load reads configuration from configDir and applies defaults. A missing
// config file is fine; any other read error is not.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("cadenceMs", 1000)

	viper.SetDefault("display.cell", 30)
	viper.SetDefault("display.margin", 20)
	viper.SetDefault("display.scale", 2)
	viper.SetDefault("display.fullscreen", false)

	viper.SetDefault("journal.enabled", false)
	viper.SetDefault("journal.path", "camsync.db")

	viper.SetConfigName("camsync.cfg.json")
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	return nil
}

// Get returns the loaded settings after validation.
func Get() (Settings, error) {
	s := Settings{
		LogLevel:  viper.GetString("logLevel"),
		CadenceMs: viper.GetInt("cadenceMs"),
		Display: DisplaySettings{
			Cell:       viper.GetInt("display.cell"),
			Margin:     viper.GetInt("display.margin"),
			Scale:      viper.GetInt("display.scale"),
			Fullscreen: viper.GetBool("display.fullscreen"),
		},
		Journal: JournalSettings{
			Enabled: viper.GetBool("journal.enabled"),
			Path:    viper.GetString("journal.path"),
		},
	}

	if s.CadenceMs <= 0 {
		return Settings{}, fmt.Errorf("cadenceMs must be positive, got %d", s.CadenceMs)
	}
	if s.Display.Cell <= 0 || s.Display.Margin < 0 || s.Display.Scale <= 0 {
		return Settings{}, fmt.Errorf("invalid display geometry: cell=%d margin=%d scale=%d",
			s.Display.Cell, s.Display.Margin, s.Display.Scale)
	}
	if s.Journal.Enabled && s.Journal.Path == "" {
		return Settings{}, errors.New("journal.path must be set when journal.enabled")
	}
	return s, nil
}
