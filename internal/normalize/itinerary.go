package normalize

import (
	"strings"

	"tapas_chat/internal/domain"
)

// Itinerary fills every field of a raw trip plan with a default, so renderers
// never need to guard against missing sections.
func (n *Normalizer) Itinerary(raw any) domain.Itinerary {
	m := asObject(raw)
	ov := asObject(m["overview"])

	days := firstSlice(m, "dailyPlan", "daily_plan", "days")
	plan := make([]domain.ItineraryDay, 0, len(days))
	places := 0
	for i, d := range days {
		day := itineraryDay(asObject(d), i+1)
		places += len(day.Activities)
		plan = append(plan, day)
	}

	explore := firstSlice(m, "exploreMore", "explore_more")
	more := make([]domain.ExploreItem, 0, len(explore))
	for _, e := range explore {
		switch t := e.(type) {
		case string:
			if strings.TrimSpace(t) != "" {
				more = append(more, domain.ExploreItem{Name: t})
			}
		default:
			em := asObject(t)
			more = append(more, domain.ExploreItem{
				Name:        orDefault(firstNonEmpty(em, "name", "title"), "Untitled"),
				Description: firstNonEmpty(em, "description", "desc"),
				Image:       firstNonEmpty(em, "image", "imageLinks.0", "imagelinks.0"),
				Link:        firstNonEmpty(em, "link", "url"),
			})
		}
	}

	stats := domain.ItineraryStats{DurationInDays: len(plan), PlacesVisited: places}
	if f := getFloatFlexible(ov, "stats.durationInDays", "durationInDays"); f != nil && *f >= 0 {
		stats.DurationInDays = int(*f)
	}
	if f := getFloatFlexible(ov, "stats.placesVisited", "placesVisited"); f != nil && *f >= 0 {
		stats.PlacesVisited = int(*f)
	}

	return domain.Itinerary{
		Overview: domain.ItineraryOverview{
			Title:     orDefault(firstNonEmpty(ov, "title"), "Your Custom Itinerary"),
			Dest:      firstNonEmpty(ov, "destination"),
			DateRange: firstNonEmpty(ov, "dateRange", "date_range"),
			Stats:     stats,
			Summary:   firstNonEmpty(ov, "summary"),
		},
		DailyPlan:   plan,
		ExploreMore: more,
	}
}

func itineraryDay(d map[string]any, pos int) domain.ItineraryDay {
	day := domain.ItineraryDay{
		Day:        pos,
		Title:      firstNonEmpty(d, "title"),
		Activities: []domain.Activity{},
	}
	if f := getFloatFlexible(d, "day"); f != nil && *f > 0 {
		day.Day = int(*f)
	}
	for _, a := range firstSlice(d, "activities") {
		am := asObject(a)
		day.Activities = append(day.Activities, domain.Activity{
			Time:        firstNonEmpty(am, "time"),
			Name:        orDefault(firstNonEmpty(am, "name", "title"), "Untitled"),
			Rating:      parseRating(am, "rating"),
			Tags:        firstSliceStrings(am, "tags"),
			Description: firstNonEmpty(am, "description", "desc"),
			ImageLinks:  firstSliceStrings(am, "imageLinks", "imagelinks"),
		})
	}
	return day
}
