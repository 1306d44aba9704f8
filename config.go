package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"slideview/internal/slideshow"
)

// Window size constants
const (
	defaultWidth  = 1280
	defaultHeight = 800
	minWidth      = 400
	minHeight     = 300
)

// validateKeybindings validates the keybindings configuration
func validateKeybindings(keybindings map[string][]string) error {
	keyToAction := make(map[string]string)
	validKeys := getValidKeyNames()

	for action, keys := range keybindings {
		if _, known := lookupAction(action); !known {
			return fmt.Errorf("unknown action '%s'", action)
		}
		for _, keyStr := range keys {
			if err := validateKeyString(keyStr, validKeys); err != nil {
				return fmt.Errorf("invalid key '%s' for action '%s': %v", keyStr, action, err)
			}

			if existingAction, exists := keyToAction[keyStr]; exists {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", keyStr, existingAction, action)
			}
			keyToAction[keyStr] = action
		}
	}

	return nil
}

// validateKeyString validates a single key string format
func validateKeyString(keyStr string, validKeys map[string]bool) error {
	if keyStr == "" {
		return fmt.Errorf("empty key string")
	}
	parts := strings.Split(keyStr, "+")

	keyName := parts[len(parts)-1]
	if !validKeys[keyName] {
		return fmt.Errorf("unknown key: %s", keyName)
	}

	for i := 0; i < len(parts)-1; i++ {
		if !isModifier(parts[i]) {
			return fmt.Errorf("unknown modifier: %s", parts[i])
		}
	}

	return nil
}

// validateMousebindings checks mouse binding strings against the known
// buttons and wheel directions
func validateMousebindings(mousebindings map[string][]string) error {
	for action, inputs := range mousebindings {
		if _, known := lookupAction(action); !known {
			return fmt.Errorf("unknown action '%s'", action)
		}
		for _, in := range inputs {
			if _, ok := parseMouseString(in); !ok {
				return fmt.Errorf("invalid mouse binding '%s' for action '%s'", in, action)
			}
		}
	}
	return nil
}

func isModifier(s string) bool {
	switch strings.ToLower(s) {
	case "shift", "ctrl", "alt":
		return true
	}
	return false
}

// getValidKeyNames returns the set of key names accepted in keybindings
func getValidKeyNames() map[string]bool {
	names := make(map[string]bool)
	for name := range getKeyMapping() {
		names[name] = true
	}
	return names
}

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

type Config struct {
	WindowWidth     int                 `json:"window_width"`
	WindowHeight    int                 `json:"window_height"`
	Fullscreen      bool                `json:"fullscreen"`   // request fullscreen when a presentation opens
	DefaultZoom     float64             `json:"default_zoom"` // 0 picks 1.0 windowed, 1.5 fullscreen
	HelpFontSize    float64             `json:"help_font_size"`
	CacheSize       int                 `json:"cache_size"`
	PreloadEnabled  bool                `json:"preload_enabled"`
	PreloadCount    int                 `json:"preload_count"`
	Transition      string              `json:"transition"`
	IntervalSeconds int                 `json:"interval_seconds"`
	DownloadDir     string              `json:"download_dir"`
	Keybindings     map[string][]string `json:"keybindings"`
	Mousebindings   map[string][]string `json:"mousebindings"`
	MouseSettings   MouseSettings       `json:"mouse_settings"`
}

func getConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "slideview.json"
	}
	return filepath.Join(homeDir, ".slideview.json")
}

func defaultConfig() Config {
	return Config{
		WindowWidth:     defaultWidth,
		WindowHeight:    defaultHeight,
		Fullscreen:      true,
		HelpFontSize:    20.0,
		CacheSize:       16,
		PreloadEnabled:  true,
		PreloadCount:    4,
		Transition:      slideshow.RandomTransition,
		IntervalSeconds: slideshow.DefaultSlideInterval,
		Keybindings:     GetDefaultKeybindings(),
		Mousebindings:   GetDefaultMousebindings(),
		MouseSettings:   GetDefaultMouseSettings(),
	}
}

func loadConfig() ConfigLoadResult {
	return loadConfigFromPath(getConfigPath())
}

func loadConfigFromPath(configPath string) ConfigLoadResult {
	config := defaultConfig()

	result := ConfigLoadResult{
		Config:   config,
		Warnings: []string{},
		Status:   "OK",
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Config file not found is not an error - use defaults
		result.Status = "Default"
		return result
	}

	if err := json.Unmarshal(data, &config); err != nil {
		log.Printf("Warning: Invalid config file %s, using defaults: %v", configPath, err)
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		return result
	}

	warn := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		log.Printf("Warning: %s", msg)
		result.Status = "Warning"
		result.Warnings = append(result.Warnings, msg)
	}

	if config.WindowWidth < minWidth {
		config.WindowWidth = defaultWidth
	}
	if config.WindowHeight < minHeight {
		config.WindowHeight = defaultHeight
	}

	// 0 keeps the context default
	if config.DefaultZoom < 0 {
		config.DefaultZoom = 0
	} else if config.DefaultZoom > 0 {
		config.DefaultZoom = clampFloat(config.DefaultZoom, slideshow.MinZoom, slideshow.MaxZoom)
	}

	// Minimum 12px for readability
	if config.HelpFontSize <= 12.0 {
		config.HelpFontSize = 20.0
	}

	if config.CacheSize < 1 {
		config.CacheSize = 16
	} else if config.CacheSize > 64 {
		config.CacheSize = 64
	}

	if config.PreloadCount < 1 {
		config.PreloadCount = 4
	} else if config.PreloadCount > 16 {
		config.PreloadCount = 16
	}

	if !slideshow.IsValidTransition(config.Transition) {
		warn("Unknown transition %q, using %s", config.Transition, slideshow.RandomTransition)
		config.Transition = slideshow.RandomTransition
	}
	if !slideshow.IsValidInterval(config.IntervalSeconds) {
		warn("Invalid slide interval %d, using %d", config.IntervalSeconds, slideshow.DefaultSlideInterval)
		config.IntervalSeconds = slideshow.DefaultSlideInterval
	}

	if config.MouseSettings.WheelSensitivity <= 0 {
		config.MouseSettings.WheelSensitivity = 1.0
	}
	if config.MouseSettings.DoubleClickTime <= 0 {
		config.MouseSettings.DoubleClickTime = 300
	}
	if config.MouseSettings.DragSensitivity <= 0 {
		config.MouseSettings.DragSensitivity = 1.0
	}

	config.Keybindings = fillBindings(config.Keybindings, GetDefaultKeybindings())
	if err := validateKeybindings(config.Keybindings); err != nil {
		warn("Keybinding errors: %v", err)
		config.Keybindings = GetDefaultKeybindings()
	}

	config.Mousebindings = fillBindings(config.Mousebindings, GetDefaultMousebindings())
	if err := validateMousebindings(config.Mousebindings); err != nil {
		warn("Mousebinding errors: %v", err)
		config.Mousebindings = GetDefaultMousebindings()
	}

	result.Config = config
	return result
}

// fillBindings adds defaults for actions missing from bindings
func fillBindings(bindings, defaults map[string][]string) map[string][]string {
	if bindings == nil {
		return defaults
	}
	for action, inputs := range defaults {
		if _, exists := bindings[action]; !exists {
			bindings[action] = inputs
		}
	}
	return bindings
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func saveConfig(config Config) {
	saveConfigToPath(config, getConfigPath())
}

func saveConfigToPath(config Config, configPath string) {
	// Don't save if size is too small
	if config.WindowWidth < minWidth || config.WindowHeight < minHeight {
		log.Printf("Warning: Not saving config with invalid window size: %dx%d",
			config.WindowWidth, config.WindowHeight)
		return
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		log.Printf("Error: Failed to marshal config: %v", err)
		return
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		log.Printf("Error: Failed to save config to %s: %v", configPath, err)
	}
}
