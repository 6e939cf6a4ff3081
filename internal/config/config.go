package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Config holds all application configuration
type Config struct {
	// Title of the overlay window, also used to find its native handle
	Title string `json:"title"`

	// LogLevel is a zap level name ("debug", "info", ...)
	LogLevel string `json:"log_level"`

	// LayoutFile points at a YAML layout; empty uses the built-in layout
	LayoutFile string `json:"layout_file"`

	// Overlay settings
	Overlay OverlayConfig `json:"overlay"`
}

// Color is an RGB triple
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// OverlayConfig holds overlay window settings
type OverlayConfig struct {
	ColorKey     Color   `json:"color_key"` // Rendered fully transparent
	Opacity      float64 `json:"opacity"`
	ClickThrough bool    `json:"click_through"`
	AlwaysOnTop  bool    `json:"always_on_top"`
	FontFamily   string  `json:"font_family"`
	FontSize     int     `json:"font_size"`
	PanelColor   string  `json:"panel_color"`
	TextColor    string  `json:"text_color"`
}

// Service manages configuration persistence
type Service struct {
	config   *Config
	filePath string
}

// New creates a new config service
func New() (*Service, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".screen-overlay")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	return Open(filepath.Join(configDir, "config.json"))
}

// Open loads the config at path, creating it with defaults if it does not exist
func Open(configPath string) (*Service, error) {
	service := &Service{
		filePath: configPath,
		config:   getDefaultConfig(),
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := service.Load(); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		if err := service.Save(); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := service.config.Validate(); err != nil {
		return nil, err
	}

	return service, nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Title:    "Overlay",
		LogLevel: "info",
		Overlay: OverlayConfig{
			ColorKey:     Color{R: 130, G: 117, B: 100},
			Opacity:      0.5,
			ClickThrough: true,
			AlwaysOnTop:  true,
			FontFamily:   "Segoe UI",
			FontSize:     24,
			PanelColor:   "darkslateblue",
			TextColor:    "white",
		},
	}
}

// Validate rejects settings the overlay cannot apply
func (c *Config) Validate() error {
	if c.Title == "" {
		return fmt.Errorf("invalid config: title must not be empty")
	}
	if math.IsNaN(c.Overlay.Opacity) || c.Overlay.Opacity < 0 || c.Overlay.Opacity > 1 {
		return fmt.Errorf("invalid config: opacity %v outside [0, 1]", c.Overlay.Opacity)
	}
	if c.Overlay.FontSize <= 0 {
		return fmt.Errorf("invalid config: font size must be positive")
	}
	return nil
}

// Get returns the current configuration
func (s *Service) Get() *Config {
	return s.config
}

// Load loads configuration from file
func (s *Service) Load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, s.config)
}

// Save saves configuration to file
func (s *Service) Save() error {
	data, err := json.MarshalIndent(s.config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.filePath, data, 0644)
}

// Path returns the full path to the configuration file
func (s *Service) Path() string {
	return s.filePath
}

// UpdateOverlay validates and persists new overlay settings. Rejected
// settings leave the current configuration untouched.
func (s *Service) UpdateOverlay(overlay OverlayConfig) error {
	next := *s.config
	next.Overlay = overlay
	if err := next.Validate(); err != nil {
		return err
	}
	s.config.Overlay = overlay
	return s.Save()
}
