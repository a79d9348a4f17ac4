package normalize_test

import (
	"math"
	"math/rand"
	"testing"

	"tapas_chat/internal/domain"
	"tapas_chat/internal/normalize"
)

var recordKeys = []string{
	"hotel_id", "flight_id", "attraction_id", "id", "name", "title", "type",
	"price", "rating", "stars", "image", "imagelinks", "amenities", "link", "url",
	"description", "desc", "location", "lat", "lng", "latitude", "longitude",
	"stops", "legs", "fares", "fareOptions", "saverFare", "economy", "business",
	"departure", "arrival", "duration", "class", "dailyPlan", "exploreMore", "overview",
}

// randomValue returns any JSON-decodable shape, nesting at most depth levels.
func randomValue(r *rand.Rand, depth int) any {
	n := r.Intn(9)
	if depth <= 0 && n >= 7 {
		n = r.Intn(7)
	}
	switch n {
	case 0:
		return nil
	case 1:
		return r.Intn(2) == 0
	case 2:
		return r.NormFloat64() * 1e4
	case 3:
		return []string{"", " ", "$120", "₹ 4,999", "4.5/5", "n/a", "-3", "1.2.3", "Goa", "12.9, 77.6"}[r.Intn(10)]
	case 4:
		return float64(r.Intn(5000))
	case 5:
		return []any{}
	case 6:
		return "x"
	case 7:
		arr := make([]any, r.Intn(4))
		for i := range arr {
			arr[i] = randomValue(r, depth-1)
		}
		return arr
	}
	return randomObject(r, depth-1)
}

func randomObject(r *rand.Rand, depth int) map[string]any {
	m := map[string]any{}
	for i := r.Intn(8); i > 0; i-- {
		m[recordKeys[r.Intn(len(recordKeys))]] = randomValue(r, depth)
	}
	return m
}

func finiteOrUnknown(a domain.Amount) bool {
	return !math.IsInf(a.Float(), 0)
}

func TestNormalizers_TotalOnRandomInput(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	n := normalize.New(83)
	for i := 0; i < 2000; i++ {
		var raw any = randomObject(r, 3)
		if i%10 == 0 {
			raw = randomValue(r, 2)
		}

		h := n.Hotel(raw)
		if h.ID == "" || h.Name == "" || h.Amenities == nil || !finiteOrUnknown(h.Price) {
			t.Fatalf("hotel from %#v: %+v", raw, h)
		}
		f := n.Flight(raw)
		if f.ID == "" || f.Stops < 0 || f.Class == "" || f.Fares == nil || !finiteOrUnknown(f.Price) {
			t.Fatalf("flight from %#v: %+v", raw, f)
		}
		a := n.Attraction(raw)
		if a.ID == "" || a.Name == "" {
			t.Fatalf("attraction from %#v: %+v", raw, a)
		}
		g := n.Generic(raw)
		if g.ID == "" || g.Title == "" || g.Type == "" || !finiteOrUnknown(g.Price) {
			t.Fatalf("generic from %#v: %+v", raw, g)
		}
		if g.Price.Known() != g.SourcePrice.Known() {
			t.Fatalf("generic price and source price disagree: %+v", g)
		}
		it := n.Itinerary(raw)
		if it.Overview.Title == "" || it.DailyPlan == nil || it.ExploreMore == nil {
			t.Fatalf("itinerary from %#v: %+v", raw, it)
		}
	}
}
