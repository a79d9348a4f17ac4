package domain_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"tapas_chat/internal/domain"
)

func TestAmount_JSONKeepsUnknownAsNull(t *testing.T) {
	h := domain.Hotel{ID: "h", Price: domain.Unknown(), Rating: 4.5}
	b, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back domain.Hotel
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Price.Known() || !math.IsNaN(back.Price.Float()) {
		t.Fatalf("unknown price must survive as NaN, got %v", back.Price)
	}
	if back.Rating.Float() != 4.5 {
		t.Fatalf("rating: %v", back.Rating)
	}
}

func TestRecords_JSONKeepsRequiredKeys(t *testing.T) {
	for name, rec := range map[string]struct {
		v    any
		keys []string
	}{
		"hotel":      {domain.Hotel{ID: "h"}, []string{"image", "link", "description", "amenities", "locationLat"}},
		"flight":     {domain.Flight{ID: "f"}, []string{"logo", "link", "fares", "stops"}},
		"attraction": {domain.Attraction{ID: "a"}, []string{"image", "link", "description", "locationName"}},
		"generic":    {domain.GenericResult{ID: "g"}, []string{"image", "link", "description", "location", "sourcePrice"}},
	} {
		b, err := json.Marshal(rec.v)
		if err != nil {
			t.Fatalf("%s: marshal: %v", name, err)
		}
		var obj map[string]any
		if err := json.Unmarshal(b, &obj); err != nil {
			t.Fatalf("%s: unmarshal: %v", name, err)
		}
		for _, k := range rec.keys {
			if _, ok := obj[k]; !ok {
				t.Fatalf("%s: key %q missing from %s", name, k, b)
			}
		}
	}
}

func TestAmount_Or(t *testing.T) {
	if got := domain.Unknown().Or(7); got != 7 {
		t.Fatalf("got %v", got)
	}
	if got := domain.Amount(0).Or(7); got != 0 {
		t.Fatalf("zero is a known amount, got %v", got)
	}
}

func TestMessage_Validate(t *testing.T) {
	if err := domain.NewHotels("m1", nil).Validate(); err != nil {
		t.Fatalf("empty hotel list is valid: %v", err)
	}
	if err := domain.NewText("m2", domain.SenderUser, "hi").Validate(); err != nil {
		t.Fatalf("text: %v", err)
	}
	bad := domain.NewText("m3", domain.SenderBot, "hi")
	bad.Flights = []domain.Flight{{ID: "f"}}
	if err := bad.Validate(); !errors.Is(err, domain.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
	it := domain.Message{ID: "m4", Kind: domain.KindItinerary}
	if err := it.Validate(); !errors.Is(err, domain.ErrInvalidKind) {
		t.Fatalf("itinerary without payload: %v", err)
	}
}

func TestMessage_Browsable(t *testing.T) {
	if !domain.NewFlights("f", nil).Browsable() {
		t.Fatalf("flights should be browsable")
	}
	if domain.NewText("t", domain.SenderBot, "x").Browsable() {
		t.Fatalf("text is not browsable")
	}
}
