package normalize

import (
	"strings"

	"tapas_chat/internal/domain"
)

func (n *Normalizer) Generic(raw any) domain.GenericResult {
	m := asObject(raw)
	usd, inr, label := n.price(m["price"])
	loc := ExtractLocation(m)

	origID := firstNonEmptyAlias(m, genericAliases, "id")
	typ := strings.TrimSpace(lookupStr(m, "type"))
	return domain.GenericResult{
		ID:           n.id(origID),
		OriginalID:   origID,
		OriginalType: originalType(m, typ),
		Type:         orDefault(typ, "item"),
		Title:        orDefault(firstNonEmptyAlias(m, genericAliases, "title"), "Untitled"),
		Price:        domain.Amount(inr),
		SourcePrice:  domain.Amount(usd),
		PriceLabel:   label,
		Rating:       parseRating(m, genericAliases["rating"]...),
		Image:        firstNonEmptyAlias(m, genericAliases, "image"),
		Link:         firstNonEmptyAlias(m, genericAliases, "link"),
		Description:  firstNonEmptyAlias(m, genericAliases, "description"),
		Location:     genericLocation(m, loc),
		LocationLat:  loc.Lat,
		LocationLng:  loc.Lng,
		Amenities:    firstSliceStrings(m, "amenities"),
		CTALabel:     orDefault(firstNonEmptyAlias(m, genericAliases, "cta"), "View"),
	}
}

func (n *Normalizer) Generics(items []any) []domain.GenericResult {
	out := make([]domain.GenericResult, 0, len(items))
	for _, it := range items {
		out = append(out, n.Generic(it))
	}
	return out
}

func originalType(m map[string]any, typ string) string {
	switch {
	case typ != "":
		return typ
	case lookupStr(m, "hotel_id") != "":
		return "hotel"
	case lookupStr(m, "attraction_id") != "":
		return "attraction"
	}
	return "item"
}
