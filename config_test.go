package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"slideview/internal/slideshow"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".slideview.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	result := loadConfigFromPath(filepath.Join(t.TempDir(), "nonexistent.json"))

	if result.Status != "Default" {
		t.Errorf("Expected status Default, got %s", result.Status)
	}
	if !reflect.DeepEqual(result.Config, defaultConfig()) {
		t.Errorf("Default config mismatch.\nExpected: %+v\nGot: %+v", defaultConfig(), result.Config)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name           string
		configJSON     string
		expectedWidth  int
		expectedHeight int
		expectedZoom   float64
		expectedCache  int
		expectedStatus string
	}{
		{
			name:           "Valid config",
			configJSON:     `{"window_width": 1000, "window_height": 800, "default_zoom": 1.2, "cache_size": 8}`,
			expectedWidth:  1000,
			expectedHeight: 800,
			expectedZoom:   1.2,
			expectedCache:  8,
			expectedStatus: "OK",
		},
		{
			name:           "Width too small",
			configJSON:     `{"window_width": 200, "window_height": 600}`,
			expectedWidth:  defaultWidth,
			expectedHeight: 600,
			expectedCache:  16,
			expectedStatus: "OK",
		},
		{
			name:           "Height too small",
			configJSON:     `{"window_width": 800, "window_height": 100}`,
			expectedWidth:  800,
			expectedHeight: defaultHeight,
			expectedCache:  16,
			expectedStatus: "OK",
		},
		{
			name:           "Zoom and cache clamped",
			configJSON:     `{"default_zoom": 9, "cache_size": 500}`,
			expectedWidth:  defaultWidth,
			expectedHeight: defaultHeight,
			expectedZoom:   slideshow.MaxZoom,
			expectedCache:  64,
			expectedStatus: "OK",
		},
		{
			name:           "Negative zoom keeps context default",
			configJSON:     `{"default_zoom": -1}`,
			expectedWidth:  defaultWidth,
			expectedHeight: defaultHeight,
			expectedZoom:   0,
			expectedCache:  16,
			expectedStatus: "OK",
		},
		{
			name:           "Invalid JSON",
			configJSON:     `{"window_width": `,
			expectedWidth:  defaultWidth,
			expectedHeight: defaultHeight,
			expectedCache:  16,
			expectedStatus: "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := loadConfigFromPath(writeConfig(t, tt.configJSON))
			config := result.Config

			if config.WindowWidth != tt.expectedWidth {
				t.Errorf("Expected width %d, got %d", tt.expectedWidth, config.WindowWidth)
			}
			if config.WindowHeight != tt.expectedHeight {
				t.Errorf("Expected height %d, got %d", tt.expectedHeight, config.WindowHeight)
			}
			if config.DefaultZoom != tt.expectedZoom {
				t.Errorf("Expected zoom %.2f, got %.2f", tt.expectedZoom, config.DefaultZoom)
			}
			if config.CacheSize != tt.expectedCache {
				t.Errorf("Expected cache size %d, got %d", tt.expectedCache, config.CacheSize)
			}
			if result.Status != tt.expectedStatus {
				t.Errorf("Expected status %s, got %s", tt.expectedStatus, result.Status)
			}
		})
	}
}

func TestConfigPlaybackDefaults(t *testing.T) {
	tests := []struct {
		name               string
		configJSON         string
		expectedTransition string
		expectedInterval   int
		expectWarning      bool
	}{
		{"Valid values", `{"transition": "fade", "interval_seconds": 15}`, "fade", 15, false},
		{"Random transition", `{"transition": "random", "interval_seconds": 60}`, "random", 60, false},
		{"Unknown transition", `{"transition": "wobble"}`, slideshow.RandomTransition, slideshow.DefaultSlideInterval, true},
		{"Interval outside the list", `{"interval_seconds": 7}`, slideshow.RandomTransition, slideshow.DefaultSlideInterval, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := loadConfigFromPath(writeConfig(t, tt.configJSON))

			if result.Config.Transition != tt.expectedTransition {
				t.Errorf("Expected transition %q, got %q", tt.expectedTransition, result.Config.Transition)
			}
			if result.Config.IntervalSeconds != tt.expectedInterval {
				t.Errorf("Expected interval %d, got %d", tt.expectedInterval, result.Config.IntervalSeconds)
			}
			if got := result.Status == "Warning"; got != tt.expectWarning {
				t.Errorf("Expected warning %t, got status %s (%v)", tt.expectWarning, result.Status, result.Warnings)
			}
		})
	}
}

func TestConfigKeybindingsMerge(t *testing.T) {
	result := loadConfigFromPath(writeConfig(t, `{"keybindings": {"next": ["KeyN"]}}`))

	if got := result.Config.Keybindings["next"]; !reflect.DeepEqual(got, []string{"KeyN"}) {
		t.Errorf("Expected custom next binding, got %v", got)
	}
	if got := result.Config.Keybindings["previous"]; !reflect.DeepEqual(got, GetDefaultKeybindings()["previous"]) {
		t.Errorf("Expected default previous binding to be filled in, got %v", got)
	}
}

func TestConfigKeybindingConflictFallsBack(t *testing.T) {
	result := loadConfigFromPath(writeConfig(t, `{"keybindings": {"next": ["KeyQ"]}}`))

	if result.Status != "Warning" {
		t.Fatalf("Expected Warning status, got %s", result.Status)
	}
	if !reflect.DeepEqual(result.Config.Keybindings, GetDefaultKeybindings()) {
		t.Errorf("Expected default keybindings after conflict")
	}
	if !strings.Contains(result.Warnings[0], "key conflict") {
		t.Errorf("Expected key conflict warning, got %q", result.Warnings[0])
	}
}

func TestValidateKeybindings(t *testing.T) {
	tests := []struct {
		name        string
		bindings    map[string][]string
		expectError bool
	}{
		{"Defaults", GetDefaultKeybindings(), false},
		{"Modifier combination", map[string][]string{"download": {"Ctrl+Shift+KeyS"}}, false},
		{"Unknown key", map[string][]string{"next": {"KeyNope"}}, true},
		{"Unknown modifier", map[string][]string{"next": {"Hyper+KeyN"}}, true},
		{"Unknown action", map[string][]string{"rotate_left": {"KeyL"}}, true},
		{"Empty key", map[string][]string{"next": {""}}, true},
		{"Conflict", map[string][]string{"next": {"KeyN"}, "previous": {"KeyN"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateKeybindings(tt.bindings)
			if (err != nil) != tt.expectError {
				t.Errorf("validateKeybindings() error = %v, expectError %t", err, tt.expectError)
			}
		})
	}
}

func TestValidateMousebindings(t *testing.T) {
	tests := []struct {
		name        string
		bindings    map[string][]string
		expectError bool
	}{
		{"Defaults", GetDefaultMousebindings(), false},
		{"Double click", map[string][]string{"fullscreen": {"DoubleLeftClick"}}, false},
		{"Side button", map[string][]string{"previous": {"Back"}}, false},
		{"Unknown wheel", map[string][]string{"next": {"WheelSideways"}}, true},
		{"Unknown button", map[string][]string{"next": {"FourthClick"}}, true},
		{"Unknown action", map[string][]string{"expand_directory": {"LeftClick"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateMousebindings(tt.bindings)
			if (err != nil) != tt.expectError {
				t.Errorf("validateMousebindings() error = %v, expectError %t", err, tt.expectError)
			}
		})
	}
}

func TestSaveConfig(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		cfg := defaultConfig()
		cfg.WindowWidth = 1024
		cfg.Transition = "spiral"
		saveConfigToPath(cfg, path)

		result := loadConfigFromPath(path)
		if result.Config.WindowWidth != 1024 || result.Config.Transition != "spiral" {
			t.Errorf("Saved config not restored: %+v", result.Config)
		}
	})

	t.Run("Refuses tiny window", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		cfg := defaultConfig()
		cfg.WindowWidth = 10
		saveConfigToPath(cfg, path)

		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("Expected no config file, stat error = %v", err)
		}
	})
}
