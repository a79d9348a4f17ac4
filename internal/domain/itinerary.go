package domain

type Itinerary struct {
	Overview    ItineraryOverview `json:"overview"`
	DailyPlan   []ItineraryDay    `json:"dailyPlan"`
	ExploreMore []ExploreItem     `json:"exploreMore"`
}

type ItineraryOverview struct {
	Title     string         `json:"title"`
	Dest      string         `json:"destination"`
	DateRange string         `json:"dateRange"`
	Stats     ItineraryStats `json:"stats"`
	Summary   string         `json:"summary"`
}

type ItineraryStats struct {
	DurationInDays int `json:"durationInDays"`
	PlacesVisited  int `json:"placesVisited"`
}

type ItineraryDay struct {
	Day        int        `json:"day"`
	Title      string     `json:"title"`
	Activities []Activity `json:"activities"`
}

type Activity struct {
	Time        string   `json:"time"`
	Name        string   `json:"name"`
	Rating      Amount   `json:"rating"`
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description,omitempty"`
	ImageLinks  []string `json:"imageLinks,omitempty"`
}

type ExploreItem struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Link        string `json:"link,omitempty"`
}
