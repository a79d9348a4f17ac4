// Package classify turns untyped assistant responses into typed conversation messages.
package classify

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"tapas_chat/internal/adapters/observability"
	"tapas_chat/internal/domain"
	"tapas_chat/internal/normalize"
)

const (
	placeholder = "[dbData]"
	maxDepth    = 4
)

// Payload keys accepted on response objects.
var (
	itineraryKeys = []string{"itenaryData", "itineraryData"}
	resultKeys    = []string{"dbData", "results"}
	replyKeys     = []string{"quickReplies", "quick_replies"}
)

type Classifier struct {
	norm  *normalize.Normalizer
	newID func() string
}

func New(n *normalize.Normalizer) *Classifier {
	return &Classifier{norm: n, newID: uuid.NewString}
}

// WithIDFunc returns a copy that stamps messages with ids from f.
func (c *Classifier) WithIDFunc(f func() string) *Classifier {
	cp := *c
	cp.newID = f
	return &cp
}

// Classify never fails: malformed input degrades to text or to nothing.
func (c *Classifier) Classify(payload any) []domain.Message {
	out := c.classify(payload, 0)
	for _, m := range out {
		observability.ObserveClassified(string(m.Kind))
	}
	return out
}

func (c *Classifier) classify(v any, depth int) []domain.Message {
	if depth > maxDepth {
		log.Warn().Int("depth", depth).Msg("classify: payload nested too deeply")
		return nil
	}
	switch t := v.(type) {
	case string:
		return c.classifyText(t, nil, depth)
	case []any:
		return c.classifyArray(t)
	case map[string]any:
		return c.classifyObject(t, depth)
	}
	return nil
}

func (c *Classifier) classifyText(s string, replies []string, depth int) []domain.Message {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, placeholder, ""))
	if cleaned == "" {
		return nil
	}
	if parsed, ok := tryParseJSON(cleaned); ok {
		if out := c.classify(parsed, depth+1); len(out) > 0 {
			return out
		}
	}
	return []domain.Message{domain.NewText(c.newID(), domain.SenderBot, cleaned, replies...)}
}

// tryParseJSON only attempts strings that look like an object or array.
func tryParseJSON(s string) (any, bool) {
	if !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "[") {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, true
}

func (c *Classifier) classifyArray(items []any) []domain.Message {
	if len(items) == 0 {
		return nil
	}
	if objs := lo.Filter(items, isObject); len(objs) > 0 {
		if len(objs) < len(items) {
			log.Debug().Int("dropped", len(items)-len(objs)).Msg("non-object elements in result list")
		}
		return []domain.Message{c.ClassifyList(objs)}
	}
	texts := lo.FilterMap(items, func(it any, _ int) (domain.Message, bool) {
		s, ok := it.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return domain.Message{}, false
		}
		return domain.NewText(c.newID(), domain.SenderBot, strings.TrimSpace(s)), true
	})
	if len(texts) == 0 {
		log.Debug().Int("items", len(items)).Msg("array carries neither objects nor strings")
	}
	return texts
}

// ClassifyList decides the kind of a whole array from any of its elements,
// in fixed priority flights, hotels, attractions, then generic results.
func (c *Classifier) ClassifyList(items []any) domain.Message {
	switch {
	case lo.SomeBy(items, isKind("flight_id", "flight")):
		return domain.NewFlights(c.newID(), c.norm.Flights(items))
	case lo.SomeBy(items, isKind("hotel_id", "hotel")):
		return domain.NewHotels(c.newID(), c.norm.Hotels(items))
	case lo.SomeBy(items, isKind("attraction_id", "attraction")):
		return domain.NewAttractions(c.newID(), c.norm.Attractions(items))
	}
	return domain.NewResults(c.newID(), c.norm.Generics(items))
}

func isObject(it any, _ int) bool {
	_, ok := it.(map[string]any)
	return ok
}

func isKind(idField, typeWord string) func(any) bool {
	return func(it any) bool {
		m, ok := it.(map[string]any)
		if !ok {
			return false
		}
		if truthy(m[idField]) {
			return true
		}
		typ, _ := m["type"].(string)
		return strings.Contains(strings.ToLower(typ), typeWord)
	}
}

func (c *Classifier) classifyObject(m map[string]any, depth int) []domain.Message {
	var out []domain.Message

	if txt, ok := m["text"]; ok {
		replies := quickReplies(m)
		switch t := txt.(type) {
		case string:
			out = append(out, c.classifyText(t, replies, depth)...)
		case nil:
		default:
			out = append(out, c.classify(t, depth+1)...)
		}
	}
	for _, k := range itineraryKeys {
		if it, ok := m[k].(map[string]any); ok && len(it) > 0 {
			out = append(out, domain.NewItinerary(c.newID(), c.norm.Itinerary(it)))
			break
		}
	}
	for _, k := range resultKeys {
		if list, ok := m[k].([]any); ok && len(list) > 0 {
			out = append(out, c.classifyArray(list)...)
			break
		}
	}
	if list, ok := m["attractionsData"].([]any); ok && len(list) > 0 {
		out = append(out, domain.NewAttractions(c.newID(), c.norm.Attractions(list)))
	}
	return out
}

func quickReplies(m map[string]any) []string {
	for _, k := range replyKeys {
		if raw, ok := m[k].([]any); ok {
			return lo.FilterMap(raw, func(it any, _ int) (string, bool) {
				s, ok := it.(string)
				return s, ok && strings.TrimSpace(s) != ""
			})
		}
	}
	return nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0
	case bool:
		return t
	}
	return true
}
