package normalize

import (
	"math"
	"strconv"
	"strings"
)

/********** alias registries **********/

var hotelAliases = map[string][]string{
	"id":          {"hotel_id"},
	"name":        {"name"},
	"image":       {"imagelinks.0", "image"},
	"link":        {"link", "url"},
	"description": {"description", "desc"},
	"rating":      {"rating", "stars"},
}

var flightAliases = map[string][]string{
	"id":      {"flight_id", "id"},
	"airline": {"airline", "carrier", "name"},
	"logo":    {"logo", "image"},
	"from":    {"from", "source", "origin", "departure.airport"},
	"to":      {"to", "destination", "arrival.airport"},
	"depart":  {"departureTime", "departure.time", "departure_time"},
	"arrive":  {"arrivalTime", "arrival.time", "arrival_time"},
	"dur":     {"duration", "totalDuration"},
	"class":   {"class", "cabinClass", "fareClass"},
	"link":    {"link", "url"},
	"fares":   {"fares", "fareOptions"},
	"label":   {"label", "name", "type"},
}

// legacyFares lists flat fare keys in lookup order.
var legacyFares = []struct{ key, label string }{
	{"saverFare", "Saver Fare"},
	{"flexiPlus", "Flexi Plus"},
	{"super6E", "Super 6E"},
	{"economy", "Economy"},
	{"business", "Business"},
}

var attractionAliases = map[string][]string{
	"id":          {"attraction_id"},
	"name":        {"name", "title"},
	"image":       {"imagelinks.0", "image"},
	"link":        {"link", "url"},
	"description": {"description", "desc"},
	"rating":      {"rating"},
}

var genericAliases = map[string][]string{
	"id":          {"attraction_id", "hotel_id"},
	"title":       {"name", "title"},
	"image":       {"imagelinks.0", "image"},
	"link":        {"link", "url"},
	"description": {"description", "desc"},
	"rating":      {"rating", "stars"},
	"cta":         {"ctaLabel", "cta"},
}

/********** tiny helpers **********/

// asObject treats anything that is not a JSON object as an empty one.
func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// lookupAny: nested lookup with dot paths on maps; numeric segments index arrays.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		switch obj := cur.(type) {
		case map[string]any:
			v, ok := obj[part]
			if !ok {
				return nil
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(obj) {
				return nil
			}
			cur = obj[i]
		default:
			return nil
		}
	}
	return cur
}

// lookupStr returns the string at path, numbers formatted, or "".
func lookupStr(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

// firstNonEmpty: first non-blank string among paths.
func firstNonEmpty(m map[string]any, paths ...string) string {
	for _, p := range paths {
		if s := lookupStr(m, p); strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	return firstNonEmpty(m, aliases[key]...)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// getFloatFlexible: number from several paths (float64/int/numeric string).
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
				return &f
			}
		}
	}
	return nil
}

// firstSliceStrings: accept []any with either strings or {url/src/name}.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				switch t := it.(type) {
				case string:
					if t != "" {
						out = append(out, t)
					}
				case map[string]any:
					for _, f := range []string{"url", "src", "name"} {
						if u, ok := t[f].(string); ok && u != "" {
							out = append(out, u)
							break
						}
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

func firstSlice(m map[string]any, paths ...string) []any {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok && len(raw) > 0 {
			return raw
		}
	}
	return nil
}
