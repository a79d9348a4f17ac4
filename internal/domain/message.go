package domain

import (
	"fmt"
	"time"
)

type Sender string

const (
	SenderBot  Sender = "bot"
	SenderUser Sender = "user"
)

type Kind string

const (
	KindText        Kind = "text"
	KindHotels      Kind = "hotels"
	KindFlights     Kind = "flights"
	KindAttractions Kind = "attractions"
	KindItinerary   Kind = "itinerary"
	KindResults     Kind = "generic-results"
)

// Message is one conversation entry. Exactly the payload field matching Kind is set.
type Message struct {
	ID           string          `json:"id"`
	Sender       Sender          `json:"sender"`
	Kind         Kind            `json:"kind"`
	Text         string          `json:"text,omitempty"`
	QuickReplies []string        `json:"quickReplies,omitempty"`
	Hotels       []Hotel         `json:"hotels,omitempty"`
	Flights      []Flight        `json:"flights,omitempty"`
	Attractions  []Attraction    `json:"attractions,omitempty"`
	Itinerary    *Itinerary      `json:"itinerary,omitempty"`
	Results      []GenericResult `json:"results,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func NewText(id string, from Sender, text string, quickReplies ...string) Message {
	return Message{ID: id, Sender: from, Kind: KindText, Text: text, QuickReplies: quickReplies, CreatedAt: time.Now().UTC()}
}

func NewHotels(id string, hs []Hotel) Message {
	return Message{ID: id, Sender: SenderBot, Kind: KindHotels, Hotels: nonNil(hs), CreatedAt: time.Now().UTC()}
}

func NewFlights(id string, fs []Flight) Message {
	return Message{ID: id, Sender: SenderBot, Kind: KindFlights, Flights: nonNil(fs), CreatedAt: time.Now().UTC()}
}

func NewAttractions(id string, as []Attraction) Message {
	return Message{ID: id, Sender: SenderBot, Kind: KindAttractions, Attractions: nonNil(as), CreatedAt: time.Now().UTC()}
}

func NewItinerary(id string, it Itinerary) Message {
	return Message{ID: id, Sender: SenderBot, Kind: KindItinerary, Itinerary: &it, CreatedAt: time.Now().UTC()}
}

func NewResults(id string, rs []GenericResult) Message {
	return Message{ID: id, Sender: SenderBot, Kind: KindResults, Results: nonNil(rs), CreatedAt: time.Now().UTC()}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Validate reports whether the payload agrees with Kind. An empty list is a valid payload.
func (m Message) Validate() error {
	present := map[Kind]bool{
		KindHotels:      len(m.Hotels) > 0,
		KindFlights:     len(m.Flights) > 0,
		KindAttractions: len(m.Attractions) > 0,
		KindItinerary:   m.Itinerary != nil,
		KindResults:     len(m.Results) > 0,
	}
	if _, known := present[m.Kind]; !known && m.Kind != KindText {
		return fmt.Errorf("message %s: unknown kind %q: %w", m.ID, m.Kind, ErrInvalidKind)
	}
	for k, ok := range present {
		if ok && k != m.Kind {
			return fmt.Errorf("message %s (%s) carries %s: %w", m.ID, m.Kind, k, ErrInvalidKind)
		}
	}
	if m.Kind == KindItinerary && m.Itinerary == nil {
		return fmt.Errorf("message %s: missing itinerary: %w", m.ID, ErrInvalidKind)
	}
	return nil
}

// ValidateAll stops at the first message whose kind and payload disagree.
func ValidateAll(msgs []Message) error {
	for _, m := range msgs {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Browsable reports whether the message carries a list the result browser can page.
func (m Message) Browsable() bool {
	switch m.Kind {
	case KindHotels, KindFlights, KindAttractions, KindResults:
		return true
	}
	return false
}
