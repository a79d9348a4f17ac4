package browse

import (
	"strings"

	"github.com/samber/lo"

	"tapas_chat/internal/domain"
)

// Item is the browsable projection of one result card.
type Item struct {
	ID        string        `json:"id"`
	Type      string        `json:"type"`
	Title     string        `json:"title"`
	Price     domain.Amount `json:"price"`
	Rating    domain.Amount `json:"rating"`
	Amenities []string      `json:"amenities,omitempty"`
}

// ItemsFromMessage projects a list-bearing message; ok is false for other kinds.
func ItemsFromMessage(m domain.Message) (items []Item, ok bool) {
	if !m.Browsable() || m.Validate() != nil {
		return nil, false
	}
	switch m.Kind {
	case domain.KindHotels:
		return lo.Map(m.Hotels, func(h domain.Hotel, _ int) Item {
			return Item{ID: h.ID, Type: "hotel", Title: h.Name, Price: h.Price, Rating: h.Rating, Amenities: h.Amenities}
		}), true
	case domain.KindFlights:
		return lo.Map(m.Flights, func(f domain.Flight, _ int) Item {
			return Item{ID: f.ID, Type: "flight", Title: f.Airline, Price: f.Price, Rating: domain.Unknown()}
		}), true
	case domain.KindAttractions:
		return lo.Map(m.Attractions, func(a domain.Attraction, _ int) Item {
			return Item{ID: a.ID, Type: orType(a.Type, "attraction"), Title: a.Name, Price: domain.Unknown(), Rating: a.Rating}
		}), true
	case domain.KindResults:
		return lo.Map(m.Results, func(r domain.GenericResult, _ int) Item {
			return Item{ID: r.ID, Type: orType(r.OriginalType, r.Type), Title: r.Title, Price: r.Price, Rating: r.Rating, Amenities: r.Amenities}
		}), true
	}
	return nil, false
}

func orType(t, def string) string {
	if t = strings.TrimSpace(t); t != "" {
		return strings.ToLower(t)
	}
	return def
}
