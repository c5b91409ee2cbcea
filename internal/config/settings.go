package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// CatalogSource represents a WMTS capabilities endpoint supplying layers
type CatalogSource struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

// UserSettings represents persistent user preferences
type UserSettings struct {
	// Catalog settings
	CatalogSources []CatalogSource   `json:"catalogSources"`
	Redirects      map[string]string `json:"redirects,omitempty"` // retired id -> replacement
	DefaultLayers  []string          `json:"defaultLayers"`

	// Cache settings
	CacheMaxSizeMB int `json:"cacheMaxSizeMB"`
	CacheTTLDays   int `json:"cacheTTLDays"`

	// Timeline settings
	SelectedDate string `json:"selectedDate,omitempty"` // last viewed date, ISO 8601

	// Last encoded layer state, restored on startup when no permalink
	// is supplied
	SavedLayerState string `json:"savedLayerState,omitempty"`

	// UI preferences
	Theme        string `json:"theme"` // "light", "dark", "system"
	ShowTimeline bool   `json:"showTimeline"`
}

// DefaultSettings returns default user settings
func DefaultSettings() *UserSettings {
	return &UserSettings{
		CatalogSources: []CatalogSource{
			{
				Name:    "NASA GIBS (EPSG:4326)",
				URL:     "https://gibs.earthdata.nasa.gov/wmts/epsg4326/best/1.0.0/WMTSCapabilities.xml",
				Enabled: true,
			},
		},
		Redirects:      map[string]string{},
		DefaultLayers:  []string{},
		CacheMaxSizeMB: 50,
		CacheTTLDays:   7,
		Theme:          "system",
		ShowTimeline:   true,
	}
}

// GetSettingsPath returns the OS-specific settings file path
func GetSettingsPath() string {
	homeDir, _ := os.UserHomeDir()

	baseDir := filepath.Join(homeDir, ".layer-timeline", "settings")

	// Ensure directory exists
	os.MkdirAll(baseDir, 0755)

	return filepath.Join(baseDir, "settings.json")
}

// LoadSettings loads user settings from disk
func LoadSettings() (*UserSettings, error) {
	settingsPath := GetSettingsPath()

	// If file doesn't exist, return defaults
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return DefaultSettings(), nil
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings UserSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	// Merge with defaults for any missing fields
	defaults := DefaultSettings()
	if len(settings.CatalogSources) == 0 {
		settings.CatalogSources = defaults.CatalogSources
	}
	if settings.Redirects == nil {
		settings.Redirects = map[string]string{}
	}
	if settings.CacheMaxSizeMB == 0 {
		settings.CacheMaxSizeMB = defaults.CacheMaxSizeMB
	}
	if settings.CacheTTLDays == 0 {
		settings.CacheTTLDays = defaults.CacheTTLDays
	}
	if settings.Theme == "" {
		settings.Theme = defaults.Theme
	}

	return &settings, nil
}

// SaveSettings saves user settings to disk
func SaveSettings(settings *UserSettings) error {
	settingsPath := GetSettingsPath()

	// Ensure directory exists
	dir := filepath.Dir(settingsPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	if err := os.WriteFile(settingsPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}
