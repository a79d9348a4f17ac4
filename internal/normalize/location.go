package normalize

import (
	"fmt"
	"strings"
)

// Location is what a record carries about where it is.
type Location struct {
	Name string
	Lat  *float64
	Lng  *float64
}

var (
	latPaths = []string{"location.lat", "location.latitude", "lat", "latitude"}
	lngPaths = []string{"location.lng", "location.longitude", "lng", "longitude"}
)

// ExtractLocation reads a display name and optional coordinates from a raw item.
// The name comes from the first non-blank of location.name, a flat location string, location.city.
func ExtractLocation(raw map[string]any) Location {
	var loc Location
	switch l := raw["location"].(type) {
	case map[string]any:
		loc.Name = firstNonEmpty(l, "name")
		if loc.Name == "" {
			loc.Name = firstNonEmpty(l, "city")
		}
	case string:
		loc.Name = strings.TrimSpace(l)
	}
	loc.Lat = getFloatFlexible(raw, latPaths...)
	loc.Lng = getFloatFlexible(raw, lngPaths...)
	return loc
}

// genericLocation picks the single display string used by generic result cards.
func genericLocation(raw map[string]any, loc Location) string {
	if obj, ok := raw["location"].(map[string]any); ok {
		if s := firstNonEmpty(obj, "name"); s != "" {
			return s
		}
	}
	if loc.Lat != nil && loc.Lng != nil {
		return fmt.Sprintf("%.6f, %.6f", *loc.Lat, *loc.Lng)
	}
	switch l := raw["location"].(type) {
	case string:
		if s := strings.TrimSpace(l); s != "" {
			return s
		}
	case map[string]any:
		return firstNonEmpty(l, "address", "city")
	}
	return ""
}
