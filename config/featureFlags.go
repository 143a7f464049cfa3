package config

import (
	"os"
	"strings"
)

// BadgeDriftWarnings logs a warning whenever tab badges counted over the
// baseline alone differ from the badges counted over the merged collection.
//
// Set via env:
// - BADGE_DRIFT_WARNINGS=true
func BadgeDriftWarnings() bool {
	return envBoolDefault("BADGE_DRIFT_WARNINGS", false)
}

// UseLiveSourceFor reports whether a screen reads the live source at all.
// Screens left out render their baseline only.
//
// Set via env:
// - LIVE_SCREENS="vendor/orders,delivery/jobs"
//
// Unset means every screen is live. Keys are case-insensitive.
func UseLiveSourceFor(screenKey string) bool {
	screenKey = strings.ToLower(strings.TrimSpace(screenKey))
	raw := os.Getenv("LIVE_SCREENS")
	if strings.TrimSpace(raw) == "" {
		return true
	}
	for _, part := range strings.Split(raw, ",") {
		if strings.ToLower(strings.TrimSpace(part)) == screenKey {
			return true
		}
	}
	return false
}
