package cache

import (
	"os"
	"path/filepath"
	goruntime "runtime"
)

// GetCacheDir returns the OS-specific cache directory
func GetCacheDir() string {
	homeDir, _ := os.UserHomeDir()

	switch goruntime.GOOS {
	case "darwin": // macOS
		return filepath.Join(homeDir, "Library", "Caches", "layer-timeline", "catalogs")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(homeDir, "AppData", "Roaming")
		}
		return filepath.Join(appData, "layer-timeline", "cache", "catalogs")
	default: // Linux and others
		cacheHome := os.Getenv("XDG_CACHE_HOME")
		if cacheHome == "" {
			cacheHome = filepath.Join(homeDir, ".cache")
		}
		return filepath.Join(cacheHome, "layer-timeline", "catalogs")
	}
}
