package main

import (
	"fmt"
	"log"

	"layer-timeline/internal/config"
)

// ===================
// Settings Management
// ===================

// GetSettings returns current user settings
func (a *App) GetSettings() (*config.UserSettings, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Return a copy to prevent external modifications
	settingsCopy := *a.settings
	return &settingsCopy, nil
}

// SaveSettings saves user settings to disk and updates app state
func (a *App) SaveSettings(settings *config.UserSettings) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Validate settings
	if len(settings.CatalogSources) == 0 {
		return fmt.Errorf("at least one catalog source is required")
	}
	if settings.CacheMaxSizeMB <= 0 {
		return fmt.Errorf("cache size must be positive")
	}
	if settings.CacheTTLDays <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}

	// Save to disk
	if err := config.SaveSettings(settings); err != nil {
		return err
	}

	// Update app state
	a.settings = settings

	// Note: Cache settings require app restart to take effect
	log.Printf("Settings saved. Cache settings will apply on next restart.")

	return nil
}

// GetSettingsPath returns the OS-specific settings file path
func (a *App) GetSettingsPath() string {
	return config.GetSettingsPath()
}

// SaveLayerState persists the current encoded layer state so the next
// session restores it when no permalink is supplied
func (a *App) SaveLayerState(encoded, selectedDate string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.settings.SavedLayerState = encoded
	a.settings.SelectedDate = selectedDate

	if err := config.SaveSettings(a.settings); err != nil {
		return err
	}

	log.Printf("Saved layer state (%d bytes)", len(encoded))
	return nil
}

// ===================
// Catalog Sources
// ===================

// AddCatalogSource adds a new WMTS catalog source
func (a *App) AddCatalogSource(source config.CatalogSource) error {
	a.mu.Lock()

	if source.Name == "" || source.URL == "" {
		a.mu.Unlock()
		return fmt.Errorf("catalog source needs a name and a URL")
	}

	// Check for duplicate names
	for _, existing := range a.settings.CatalogSources {
		if existing.Name == source.Name {
			a.mu.Unlock()
			return fmt.Errorf("source with name '%s' already exists", source.Name)
		}
	}

	a.settings.CatalogSources = append(a.settings.CatalogSources, source)

	if err := config.SaveSettings(a.settings); err != nil {
		a.mu.Unlock()
		return err
	}
	a.mu.Unlock()

	log.Printf("Added catalog source: %s", source.Name)
	return a.ReloadCatalog()
}

// RemoveCatalogSource removes a catalog source by name
func (a *App) RemoveCatalogSource(name string) error {
	a.mu.Lock()

	found := false
	newSources := make([]config.CatalogSource, 0)
	for _, source := range a.settings.CatalogSources {
		if source.Name != name {
			newSources = append(newSources, source)
		} else {
			found = true
		}
	}

	if !found {
		a.mu.Unlock()
		return fmt.Errorf("source '%s' not found", name)
	}

	a.settings.CatalogSources = newSources

	if err := config.SaveSettings(a.settings); err != nil {
		a.mu.Unlock()
		return err
	}
	a.mu.Unlock()

	log.Printf("Removed catalog source: %s", name)
	return a.ReloadCatalog()
}
