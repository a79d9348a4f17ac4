package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tapas_chat/internal/browse"
	"tapas_chat/internal/domain"
	"tapas_chat/internal/export"
	"tapas_chat/internal/markup"
)

const previewLen = 140

// MessageView is a stored message plus its rendered text.
type MessageView struct {
	domain.Message
	HTML    string `json:"html,omitempty"`
	Preview string `json:"preview,omitempty"`
}

// ViewEvent is one browser interaction. Nil fields are left alone; they apply in field order.
type ViewEvent struct {
	Width         *float64        `json:"width,omitempty"`
	Type          *string         `json:"type,omitempty"`
	MinRating     *float64        `json:"minRating,omitempty"`
	PriceRange    *browse.Bucket  `json:"priceRange,omitempty"`
	Sort          *browse.SortKey `json:"sort,omitempty"`
	ToggleAmenity *string         `json:"toggleAmenity,omitempty"`
	Lower         *float64        `json:"lower,omitempty"`
	Upper         *float64        `json:"upper,omitempty"`
	Page          *int            `json:"page,omitempty"`
}

type QueryService struct {
	store    domain.ConversationStore
	cache    domain.Cache
	cacheTTL time.Duration
	layout   browse.Layout

	mu sync.Mutex // serialises view load-apply-save
}

func NewQueryService(s domain.ConversationStore, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{store: s, cache: c, cacheTTL: ttl, layout: browse.DefaultLayout}
}

func ToView(m domain.Message) MessageView {
	v := MessageView{Message: m}
	if m.Text != "" {
		v.HTML = markup.Render(m.Text)
		v.Preview = markup.Preview(m.Text, previewLen)
	}
	return v
}

func ToViews(ms []domain.Message) []MessageView {
	out := make([]MessageView, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToView(m))
	}
	return out
}

func (s *QueryService) ListMessages(ctx context.Context, sessionID string) ([]MessageView, error) {
	ms, err := s.store.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return ToViews(ms), nil
}

func (s *QueryService) GetMessage(ctx context.Context, sessionID, messageID string) (MessageView, error) {
	m, err := s.store.Get(ctx, sessionID, messageID)
	if err != nil {
		return MessageView{}, err
	}
	return ToView(m), nil
}

// ItineraryICS exports an itinerary message as an iCalendar document.
func (s *QueryService) ItineraryICS(ctx context.Context, sessionID, messageID string) (string, error) {
	m, err := s.store.Get(ctx, sessionID, messageID)
	if err != nil {
		return "", err
	}
	if m.Kind != domain.KindItinerary || m.Itinerary == nil {
		return "", fmt.Errorf("message %s is %s: %w", messageID, m.Kind, domain.ErrNotFound)
	}
	return export.Calendar(messageID, *m.Itinerary, m.CreatedAt)
}

func viewKey(sessionID, messageID string) string {
	return fmt.Sprintf("view:%s:%s", sessionID, messageID)
}

// View returns the browser view of a list message with its saved state.
func (s *QueryService) View(ctx context.Context, sessionID, messageID string) (browse.View, error) {
	return s.ApplyViewEvent(ctx, sessionID, messageID, ViewEvent{})
}

func (s *QueryService) ApplyViewEvent(ctx context.Context, sessionID, messageID string, ev ViewEvent) (browse.View, error) {
	m, err := s.store.Get(ctx, sessionID, messageID)
	if err != nil {
		return browse.View{}, err
	}
	items, ok := browse.ItemsFromMessage(m)
	if !ok {
		return browse.View{}, fmt.Errorf("message %s: %w", messageID, domain.ErrNotBrowsable)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := viewKey(sessionID, messageID)
	var st browse.State
	var b *browse.Browser
	if found, _ := s.cache.Get(ctx, key, &st); found {
		b = browse.Restore(messageID, items, st, s.layout)
	} else {
		b = browse.New(messageID, items, s.layout)
	}

	apply(b, ev)
	// View clamps the page, so it must run before the state is saved.
	v := b.View()
	_ = s.cache.Set(ctx, key, b.State(), int(s.cacheTTL.Seconds()))
	return v, nil
}

func apply(b *browse.Browser, ev ViewEvent) {
	if ev.Width != nil {
		b.SetWidth(*ev.Width)
	}
	if ev.Type != nil {
		b.SetType(*ev.Type)
	}
	if ev.MinRating != nil {
		b.SetMinRating(*ev.MinRating)
	}
	if ev.PriceRange != nil {
		b.SetPriceRange(*ev.PriceRange)
	}
	if ev.Sort != nil {
		b.SetSort(*ev.Sort)
	}
	if ev.ToggleAmenity != nil {
		b.ToggleAmenity(*ev.ToggleAmenity)
	}
	if ev.Lower != nil {
		b.MoveLower(*ev.Lower)
	}
	if ev.Upper != nil {
		b.MoveUpper(*ev.Upper)
	}
	if ev.Page != nil {
		b.SetPage(*ev.Page)
	}
}
