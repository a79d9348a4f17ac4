package normalize

import "tapas_chat/internal/domain"

func (n *Normalizer) Hotel(raw any) domain.Hotel {
	m := asObject(raw)
	_, inr, label := n.price(m["price"])
	loc := ExtractLocation(m)

	amenities := firstSliceStrings(m, "amenities")
	if amenities == nil {
		amenities = []string{}
	}
	return domain.Hotel{
		ID:           n.id(firstNonEmptyAlias(m, hotelAliases, "id")),
		Name:         orDefault(firstNonEmptyAlias(m, hotelAliases, "name"), "Untitled"),
		Rating:       parseRating(m, hotelAliases["rating"]...),
		Price:        domain.Amount(inr),
		PriceLabel:   label,
		Image:        firstNonEmptyAlias(m, hotelAliases, "image"),
		Amenities:    amenities,
		LocationName: loc.Name,
		LocationLat:  loc.Lat,
		LocationLng:  loc.Lng,
		Link:         firstNonEmptyAlias(m, hotelAliases, "link"),
		Description:  firstNonEmptyAlias(m, hotelAliases, "description"),
	}
}

func (n *Normalizer) Hotels(items []any) []domain.Hotel {
	out := make([]domain.Hotel, 0, len(items))
	for _, it := range items {
		out = append(out, n.Hotel(it))
	}
	return out
}
