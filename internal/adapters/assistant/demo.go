package assistant

import (
	"context"
	"encoding/json"
	"strings"
)

// DemoGuidance is the reply to prompts the demo responder does not recognise.
const DemoGuidance = "Frontend-only mode is ON. Type: “demo flights”, “demo hotels”, or “demo itinerary”.\n" +
	"Or paste your own JSON with flight_id / hotel_id / attraction_id objects."

// Demo answers from canned payloads without any network access.
// Prompts that are themselves JSON are echoed back so pasted data can be previewed.
type Demo struct{}

func NewDemo() *Demo { return &Demo{} }

func (Demo) Ask(ctx context.Context, _ string, prompt string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := strings.TrimSpace(prompt)
	if strings.HasPrefix(p, "{") || strings.HasPrefix(p, "[") {
		var v any
		if json.Unmarshal([]byte(p), &v) == nil {
			return map[string]any{"dbData": v}, nil
		}
	}

	low := strings.ToLower(p)
	switch {
	case strings.Contains(low, "flight"):
		return map[string]any{"dbData": demoFlights()}, nil
	case strings.Contains(low, "hotel"):
		return map[string]any{"dbData": demoHotels()}, nil
	case strings.Contains(low, "itinerary"), strings.Contains(low, "plan"):
		return map[string]any{"itineraryData": demoItinerary()}, nil
	}
	return map[string]any{"text": DemoGuidance}, nil
}

// Canned payloads are built fresh per call so callers may mutate them.
// Prices are USD and go through the regular conversion.

func demoFlights() []any {
	fares := func() []any {
		return []any{
			map[string]any{"label": "Saver Fare", "price": "$62"},
			map[string]any{"label": "Flexi Plus", "price": "$67"},
			map[string]any{"label": "Super 6E", "price": "$83"},
		}
	}
	flight := func(id, dep, arr, dur string) map[string]any {
		return map[string]any{
			"flight_id": id, "airline": "IndiGo",
			"from": "New Delhi (DEL)", "to": "Mumbai (BOM)",
			"departureTime": dep, "arrivalTime": arr, "duration": dur,
			"stops": 0.0, "class": "Economy", "price": "$62",
			"fares": fares(), "link": "#",
		}
	}
	return []any{
		flight("6E-2766", "04:00", "06:15", "2h 15m"),
		flight("6E-449", "05:00", "07:20", "2h 20m"),
	}
}

func demoHotels() []any {
	return []any{
		map[string]any{
			"hotel_id": "H-101", "name": "The Grand", "rating": 4.3, "price": "$64",
			"amenities": []any{"Breakfast", "Free Wi-Fi", "Pool", "Parking", "Air conditioning"},
			"location":  map[string]any{"name": "Connaught Place", "lat": 28.632, "lng": 77.219},
			"link":      "#",
		},
		map[string]any{
			"hotel_id": "H-102", "name": "City Inn", "rating": 4.0, "price": "$47",
			"amenities": []any{"Free Wi-Fi", "Restaurant", "Room service"},
			"location":  map[string]any{"name": "Aerocity"},
			"link":      "#",
		},
	}
}

func demoItinerary() map[string]any {
	act := func(tm, name string, extra map[string]any) map[string]any {
		a := map[string]any{"time": tm, "name": name}
		for k, v := range extra {
			a[k] = v
		}
		return a
	}
	return map[string]any{
		"overview": map[string]any{
			"title":       "Bhubaneswar",
			"destination": "Bhubaneswar",
			"dateRange":   "From 12-09-2025 to 14-09-2025",
			"stats":       map[string]any{"durationInDays": 3.0, "placesVisited": 8.0},
			"summary":     "A vibrant hub known for its rich cultural heritage and ancient temples.",
		},
		"dailyPlan": []any{
			map[string]any{"day": 1.0, "title": "Arrival and Temples", "activities": []any{
				act("09:00", "Lingaraj Temple", map[string]any{"rating": 4.7, "tags": []any{"Temple", "Heritage"}, "description": "Explore the 11th-century temple complex."}),
				act("12:30", "Lunch at Local Dhaba", map[string]any{"tags": []any{"Food"}}),
				act("16:00", "Mukteswara Temple", map[string]any{"rating": 4.6}),
			}},
			map[string]any{"day": 2.0, "title": "Caves and Museum", "activities": []any{
				act("10:00", "Udayagiri & Khandagiri Caves", map[string]any{"rating": 4.5, "tags": []any{"Archaeology"}}),
				act("14:00", "Odisha State Museum", map[string]any{"tags": []any{"Museum"}}),
			}},
			map[string]any{"day": 3.0, "title": "Market Walk & Departure", "activities": []any{
				act("10:00", "Ekamra Haat", map[string]any{"tags": []any{"Market", "Handicrafts"}}),
				act("17:00", "Departure", nil),
			}},
		},
	}
}
