package normalize

import "tapas_chat/internal/domain"

func (n *Normalizer) Attraction(raw any) domain.Attraction {
	m := asObject(raw)
	loc := ExtractLocation(m)
	return domain.Attraction{
		ID:           n.id(firstNonEmptyAlias(m, attractionAliases, "id")),
		Name:         orDefault(firstNonEmptyAlias(m, attractionAliases, "name"), "Untitled"),
		Type:         lookupStr(m, "type"),
		Rating:       parseRating(m, attractionAliases["rating"]...),
		Image:        firstNonEmptyAlias(m, attractionAliases, "image"),
		Description:  firstNonEmptyAlias(m, attractionAliases, "description"),
		LocationName: loc.Name,
		LocationLat:  loc.Lat,
		LocationLng:  loc.Lng,
		Link:         firstNonEmptyAlias(m, attractionAliases, "link"),
	}
}

func (n *Normalizer) Attractions(items []any) []domain.Attraction {
	out := make([]domain.Attraction, 0, len(items))
	for _, it := range items {
		out = append(out, n.Attraction(it))
	}
	return out
}
