package domain

type Hotel struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Rating       Amount   `json:"rating"`
	Price        Amount   `json:"price"` // target currency
	PriceLabel   string   `json:"priceLabel"`
	Image        string   `json:"image"`
	Amenities    []string `json:"amenities"`
	LocationName string   `json:"locationName"`
	LocationLat  *float64 `json:"locationLat"`
	LocationLng  *float64 `json:"locationLng"`
	Link         string   `json:"link"`
	Description  string   `json:"description"`
}

type Fare struct {
	Label      string `json:"label"`
	Price      Amount `json:"price"`
	PriceLabel string `json:"priceLabel"`
}

type Flight struct {
	ID         string `json:"id"`
	Airline    string `json:"airline"`
	Logo       string `json:"logo"`
	From       string `json:"from"`
	To         string `json:"to"`
	DepartTime string `json:"departTime"`
	ArriveTime string `json:"arriveTime"`
	Duration   string `json:"duration"`
	Stops      int    `json:"stops"`
	Class      string `json:"class"`
	Price      Amount `json:"price"`
	PriceLabel string `json:"priceLabel"`
	Link       string `json:"link"`
	Fares      []Fare `json:"fares"`
}

type Attraction struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type,omitempty"`
	Rating       Amount   `json:"rating"`
	Image        string   `json:"image"`
	Description  string   `json:"description"`
	LocationName string   `json:"locationName"`
	LocationLat  *float64 `json:"locationLat"`
	LocationLng  *float64 `json:"locationLng"`
	Link         string   `json:"link"`
}

// GenericResult is the fallback card for list items of no recognised kind.
type GenericResult struct {
	ID           string   `json:"id"`
	OriginalID   string   `json:"originalId,omitempty"`
	OriginalType string   `json:"originalType"`
	Type         string   `json:"type"`
	Title        string   `json:"title"`
	Price        Amount   `json:"price"`       // target currency
	SourcePrice  Amount   `json:"sourcePrice"` // as received
	PriceLabel   string   `json:"priceLabel"`
	Rating       Amount   `json:"rating"`
	Image        string   `json:"image"`
	Link         string   `json:"link"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	LocationLat  *float64 `json:"locationLat"`
	LocationLng  *float64 `json:"locationLng"`
	Amenities    []string `json:"amenities,omitempty"`
	CTALabel     string   `json:"ctaLabel"`
}
