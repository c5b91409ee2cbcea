package main

import (
	"context"
	"fmt"
	"log"
	goruntime "runtime"
	"sync"
	"time"

	"github.com/posthog/posthog-go"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"layer-timeline/internal/cache"
	"layer-timeline/internal/common"
	"layer-timeline/internal/config"
	"layer-timeline/internal/layers"
	"layer-timeline/internal/overlays"
	"layer-timeline/internal/wmts"
)

// Linker flags
var (
	PostHogKey  string
	PostHogHost string
	AppVersion  string = "0.0.0-dev"
)

// App struct
type App struct {
	ctx      context.Context
	settings *config.UserSettings
	docCache *cache.DocumentCache
	phClient posthog.Client
	devMode  bool // Enable verbose logging in dev mode only

	mu      sync.Mutex
	catalog *layers.Catalog

	// groups carries the sidebar's collapse state between recomputations
	groups []overlays.Group

	// appNow supplies the current instant; overridable so date resolution
	// stays reproducible in tests and demos
	appNow func() time.Time
}

// NewApp creates a new App application struct
func NewApp() *App {
	// Load user settings
	settings, err := config.LoadSettings()
	if err != nil {
		log.Printf("Failed to load settings, using defaults: %v", err)
		settings = config.DefaultSettings()
	}
	log.Printf("Settings loaded from: %s", config.GetSettingsPath())

	// Initialize catalog document cache with settings
	cacheDir := cache.GetCacheDir()
	docCache, err := cache.NewDocumentCache(cacheDir, settings.CacheMaxSizeMB, settings.CacheTTLDays)
	if err != nil {
		log.Printf("Failed to initialize catalog cache: %v", err)
		docCache = nil // Continue without cache
	} else {
		log.Printf("Catalog cache initialized at %s (max %d MB)", cacheDir, settings.CacheMaxSizeMB)
	}

	// Initialize PostHog
	var phClient posthog.Client
	if PostHogKey != "" {
		phConfig := posthog.Config{
			Endpoint: PostHogHost,
		}
		client, err := posthog.NewWithConfig(PostHogKey, phConfig)
		if err != nil {
			log.Printf("Failed to initialize PostHog: %v", err)
		} else {
			phClient = client
		}
	}

	return &App{
		settings: settings,
		docCache: docCache,
		phClient: phClient,
		catalog:  layers.NewCatalog(nil),
		appNow:   func() time.Time { return time.Now().UTC() },
	}
}

// startup is called when the app starts
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	// Load the layer catalog in background
	go func() {
		if err := a.ReloadCatalog(); err != nil {
			wailsRuntime.LogError(ctx, fmt.Sprintf("Failed to load layer catalog: %v", err))
		} else {
			wailsRuntime.LogInfo(ctx, fmt.Sprintf("Layer catalog loaded (%d layers)", a.currentCatalog().Len()))
			wailsRuntime.EventsEmit(ctx, "catalog-loaded", a.currentCatalog().Len())
		}
	}()

	// Track app start
	a.TrackEvent("app_started", map[string]interface{}{
		"version": a.GetAppVersion(),
		"os":      goruntime.GOOS,
		"arch":    goruntime.GOARCH,
	})
}

// Shutdown cleans up resources
func (a *App) Shutdown(ctx context.Context) {
	if a.phClient != nil {
		a.phClient.Close()
	}
}

// TrackEvent sends an event to PostHog
func (a *App) TrackEvent(event string, props map[string]interface{}) {
	if a.phClient != nil {
		a.phClient.Enqueue(posthog.Capture{
			DistinctId: "backend_user",
			Event:      event,
			Properties: props,
		})
	}
}

// GetAppVersion returns the current application version
func (a *App) GetAppVersion() string {
	return AppVersion
}

// emitLog sends a log message to the frontend (only in dev mode)
func (a *App) emitLog(message string) {
	if a.devMode {
		wailsRuntime.EventsEmit(a.ctx, "log", message)
	}
}

// logDiagnostics reports core diagnostics to the backend log and, in dev
// mode, to the frontend
func (a *App) logDiagnostics(diags []common.Diagnostic) {
	for _, d := range diags {
		log.Printf("%s", d)
		a.emitLog(d.String())
	}
}

// ReloadCatalog fetches every enabled catalog source, parses its
// capabilities document, and rebuilds the layer catalog. Fetch failures
// fall back to the cached copy of the document when one exists.
func (a *App) ReloadCatalog() error {
	now := a.appNow()

	var defs []*layers.LayerDefinition
	var firstErr error

	for _, source := range a.settings.CatalogSources {
		if !source.Enabled {
			continue
		}

		data, err := a.fetchCapabilities(source.URL)
		if err != nil {
			log.Printf("Catalog source %s unavailable: %v", source.Name, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		caps, err := wmts.ParseCapabilities(data)
		if err != nil {
			log.Printf("Catalog source %s unparsable: %v", source.Name, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		sourceDefs, diags, err := wmts.BuildDefinitions(caps, now)
		a.logDiagnostics(diags)
		if err != nil {
			log.Printf("Catalog source %s unusable: %v", source.Name, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		defs = append(defs, sourceDefs...)
	}

	if len(defs) == 0 {
		if firstErr != nil {
			return fmt.Errorf("no catalog sources available: %w", firstErr)
		}
		return fmt.Errorf("no catalog sources enabled")
	}

	catalog := layers.NewCatalog(defs)
	catalog.Redirects = a.settings.Redirects
	catalog.Defaults = a.settings.DefaultLayers

	a.mu.Lock()
	a.catalog = catalog
	a.mu.Unlock()

	a.TrackEvent("catalog_loaded", map[string]interface{}{
		"layers": catalog.Len(),
	})

	return nil
}

// fetchCapabilities returns a capabilities document, preferring the
// document cache and falling back to the network
func (a *App) fetchCapabilities(url string) ([]byte, error) {
	if a.docCache != nil {
		if data, found := a.docCache.Get(url); found {
			a.emitLog(fmt.Sprintf("Catalog cache hit for %s", url))
			return data, nil
		}
	}

	data, err := wmts.FetchRaw(url)
	if err != nil {
		return nil, err
	}

	if a.docCache != nil {
		if err := a.docCache.Set(url, data); err != nil {
			log.Printf("Failed to cache capabilities document: %v", err)
		}
	}
	return data, nil
}

// currentCatalog returns the active catalog snapshot
func (a *App) currentCatalog() *layers.Catalog {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.catalog
}

// GetLayerIDs returns all catalog layer ids in declaration order
func (a *App) GetLayerIDs() []string {
	return a.currentCatalog().IDs()
}

// GetLayer returns one layer definition by id
func (a *App) GetLayer(id string) (*layers.LayerDefinition, error) {
	def, ok := a.currentCatalog().Lookup(id)
	if !ok {
		return nil, fmt.Errorf("no layer found for id: %s", id)
	}
	return def, nil
}

// GetOverlayGroups recomputes the sidebar's overlay groups for the given
// active layer ids, carrying forward each group's collapsed flag
func (a *App) GetOverlayGroups(activeIDs []string) []overlays.Group {
	catalog := a.currentCatalog()

	defs := make([]*layers.LayerDefinition, 0, len(activeIDs))
	for _, id := range activeIDs {
		if def, ok := catalog.Lookup(id); ok {
			defs = append(defs, def)
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.groups = overlays.ComputeGroups(defs, a.groups)
	return a.groups
}

// SetGroupCollapsed records a group's collapse toggle from the sidebar
func (a *App) SetGroupCollapsed(groupName string, collapsed bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.groups {
		if a.groups[i].GroupName == groupName {
			a.groups[i].Collapsed = collapsed
			return
		}
	}
}
