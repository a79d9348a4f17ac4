package normalize

import (
	"math"
	"strings"

	"tapas_chat/internal/domain"
)

func (n *Normalizer) Flight(raw any) domain.Flight {
	m := asObject(raw)
	inr, label := n.flightPrice(m["price"])

	return domain.Flight{
		ID:         n.id(firstNonEmptyAlias(m, flightAliases, "id")),
		Airline:    firstNonEmptyAlias(m, flightAliases, "airline"),
		Logo:       firstNonEmptyAlias(m, flightAliases, "logo"),
		From:       firstNonEmptyAlias(m, flightAliases, "from"),
		To:         firstNonEmptyAlias(m, flightAliases, "to"),
		DepartTime: firstNonEmptyAlias(m, flightAliases, "depart"),
		ArriveTime: firstNonEmptyAlias(m, flightAliases, "arrive"),
		Duration:   firstNonEmptyAlias(m, flightAliases, "dur"),
		Stops:      stops(m),
		Class:      orDefault(firstNonEmptyAlias(m, flightAliases, "class"), "Economy"),
		Price:      domain.Amount(inr),
		PriceLabel: label,
		Link:       firstNonEmptyAlias(m, flightAliases, "link"),
		Fares:      n.fares(m),
	}
}

func (n *Normalizer) Flights(items []any) []domain.Flight {
	out := make([]domain.Flight, 0, len(items))
	for _, it := range items {
		out = append(out, n.Flight(it))
	}
	return out
}

// flightPrice converts text prices only; a bare number is already in the target currency.
func (n *Normalizer) flightPrice(raw any) (float64, string) {
	if _, ok := raw.(string); ok {
		_, inr, label := n.price(raw)
		return inr, label
	}
	p := ParsePrice(raw)
	return p, n.labeler.Label(p, rawString(raw))
}

// stops prefers an explicit numeric count, then derives it from legs.
func stops(m map[string]any) int {
	switch v := m["stops"].(type) {
	case float64:
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return max(0, int(v))
		}
	case int:
		return max(0, v)
	}
	if legs, ok := m["legs"].([]any); ok {
		return max(0, len(legs)-1)
	}
	return 0
}

// fares reads an explicit fare list, else synthesizes one from legacy flat keys.
// Legacy values are already in the target currency.
func (n *Normalizer) fares(m map[string]any) []domain.Fare {
	if list := firstSlice(m, flightAliases["fares"]...); list != nil {
		out := make([]domain.Fare, 0, len(list))
		for _, it := range list {
			f := asObject(it)
			_, inr, label := n.price(f["price"])
			out = append(out, domain.Fare{
				Label:      strings.TrimSpace(firstNonEmptyAlias(f, flightAliases, "label")),
				Price:      domain.Amount(inr),
				PriceLabel: label,
			})
		}
		return out
	}

	out := []domain.Fare{}
	for _, lf := range legacyFares {
		v, ok := m[lf.key]
		if !ok {
			continue
		}
		p := ParsePrice(v)
		if math.IsNaN(p) {
			continue
		}
		out = append(out, domain.Fare{
			Label:      lf.label,
			Price:      domain.Amount(p),
			PriceLabel: n.labeler.Label(math.Round(p), rawString(v)),
		})
	}
	return out
}
