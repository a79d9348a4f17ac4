// Package browse filters, sorts and pages result lists for a grid whose
// column count follows the viewport width.
package browse

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/samber/lo"

	"tapas_chat/internal/domain"
)

type PriceMode string

const (
	PriceNone    PriceMode = "none"
	PriceBuckets PriceMode = "buckets"
	PriceSlider  PriceMode = "slider"
)

type Bucket string

const (
	BucketAll     Bucket = "all"
	BucketUnder2k Bucket = "lt2k"
	Bucket2to5    Bucket = "2to5"
	Bucket5to10   Bucket = "5to10"
	BucketOver10  Bucket = "gt10"
)

type SortKey string

const (
	SortRelevance  SortKey = "relevance"
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
	SortRatingDesc SortKey = "rating_desc"
)

// DefaultAmenities seeds the amenity picker before list amenities are merged in.
var DefaultAmenities = []string{
	"Breakfast", "Free Wi-Fi", "Couple friendly", "Free parking", "Outdoor pool",
	"Air conditioning", "Bar", "Restaurant", "Room service", "Airport shuttle",
	"Full-service laundry", "Accessible", "Business center", "Kid-friendly",
}

// types whose lists never offer a price control
var unpricedTypes = []string{"attraction", "attraction_product", "eatery"}

type Layout struct {
	Gap          float64
	MinCardWidth float64
	Rows         int
}

var DefaultLayout = Layout{Gap: 12, MinCardWidth: 180, Rows: 4}

// Columns is max(1, floor((width+gap)/(minCardWidth+gap))).
func (l Layout) Columns(width float64) int {
	if width <= 0 || l.MinCardWidth+l.Gap <= 0 {
		return 1
	}
	return max(1, int(math.Floor((width+l.Gap)/(l.MinCardWidth+l.Gap))))
}

type Filter struct {
	Type       string   `json:"type"`
	MinRating  float64  `json:"minRating"`
	PriceRange Bucket   `json:"priceRange"`
	Sort       SortKey  `json:"sort"`
	Amenities  []string `json:"amenities"`
}

// Range is the dual-bound price slider. Lower <= Upper always holds.
type Range struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// State is everything a host must keep between events for one list.
type State struct {
	ListID  string  `json:"listId"`
	ListLen int     `json:"listLen"`
	Filter  Filter  `json:"filter"`
	Page    int     `json:"page"`
	Width   float64 `json:"width"`
	Columns int     `json:"columns"`
	Slider  Range   `json:"slider"`
}

type Browser struct {
	items  []Item
	layout Layout
	mode   PriceMode
	st     State
}

func New(listID string, items []Item, layout Layout) *Browser {
	b := &Browser{layout: layout}
	b.st = State{
		Filter:  Filter{Type: "all", PriceRange: BucketAll, Sort: SortRelevance, Amenities: []string{}},
		Columns: 1,
	}
	b.SetItems(listID, items)
	return b
}

// Restore resumes from saved state. A different list resets page and slider.
func Restore(listID string, items []Item, st State, layout Layout) *Browser {
	b := &Browser{layout: layout, st: st, items: items, mode: priceMode(items)}
	if b.st.Columns < 1 {
		b.st.Columns = layout.Columns(b.st.Width)
	}
	if b.st.Filter.Amenities == nil {
		b.st.Filter.Amenities = []string{}
	}
	if st.ListID != listID || st.ListLen != len(items) {
		b.SetItems(listID, items)
	}
	return b
}

func (b *Browser) State() State { return b.st }

func (b *Browser) Mode() PriceMode { return b.mode }

// SetItems replaces the list; the page returns to 1 and the slider to the new bounds.
func (b *Browser) SetItems(listID string, items []Item) {
	b.items = items
	b.mode = priceMode(items)
	b.st.ListID = listID
	b.st.ListLen = len(items)
	b.st.Page = 1
	low, high := priceBounds(items)
	b.st.Slider = Range{Min: low, Max: high, Lower: low, Upper: high}
}

// SetWidth is the viewport hook. A change in column count resets the page.
func (b *Browser) SetWidth(width float64) {
	b.st.Width = width
	if cols := b.layout.Columns(width); cols != b.st.Columns {
		b.st.Columns = cols
		b.st.Page = 1
	}
}

func (b *Browser) SetType(t string) {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		t = "all"
	}
	b.st.Filter.Type = t
	b.st.Page = 1
}

func (b *Browser) SetMinRating(r float64) {
	if math.IsNaN(r) || r < 0 {
		r = 0
	}
	b.st.Filter.MinRating = r
	b.st.Page = 1
}

func (b *Browser) SetPriceRange(bk Bucket) {
	b.st.Filter.PriceRange = bk
	b.st.Page = 1
}

func (b *Browser) SetSort(k SortKey) {
	b.st.Filter.Sort = k
	b.st.Page = 1
}

// ToggleAmenity adds or removes one required amenity (case-insensitive).
func (b *Browser) ToggleAmenity(a string) {
	a = strings.TrimSpace(a)
	if a == "" {
		return
	}
	sel := b.st.Filter.Amenities
	if i := slices.IndexFunc(sel, func(s string) bool { return strings.EqualFold(s, a) }); i >= 0 {
		b.st.Filter.Amenities = slices.Delete(slices.Clone(sel), i, i+1)
	} else {
		b.st.Filter.Amenities = append(slices.Clone(sel), a)
	}
	b.st.Page = 1
}

// MoveLower moves the lower handle, never past the upper one.
func (b *Browser) MoveLower(v float64) {
	s := &b.st.Slider
	s.Lower = math.Min(clamp(v, s.Min, s.Max), s.Upper)
}

// MoveUpper moves the upper handle, never below the lower one.
func (b *Browser) MoveUpper(v float64) {
	s := &b.st.Slider
	s.Upper = math.Max(clamp(v, s.Min, s.Max), s.Lower)
}

func (b *Browser) SetPage(p int) {
	b.st.Page = max(1, p)
}

type View struct {
	Items          []Item    `json:"items"`
	Page           int       `json:"page"`
	TotalPages     int       `json:"totalPages"`
	PageSize       int       `json:"pageSize"`
	Columns        int       `json:"columns"`
	Total          int       `json:"total"`
	PriceMode      PriceMode `json:"priceMode"`
	Slider         *Range    `json:"slider,omitempty"`
	Filter         Filter    `json:"filter"`
	TypeOptions    []string  `json:"typeOptions"`
	AmenityOptions []string  `json:"amenityOptions"`
}

func (b *Browser) PageSize() int { return max(1, b.st.Columns*b.layout.Rows) }

// View applies filters and sort, clamps the page and returns the visible slice.
func (b *Browser) View() View {
	matched := b.sorted(b.filtered())
	size := b.PageSize()
	total := max(1, (len(matched)+size-1)/size)
	b.st.Page = min(max(b.st.Page, 1), total)

	start := (b.st.Page - 1) * size
	end := min(start+size, len(matched))

	v := View{
		Items:          matched[start:end],
		Page:           b.st.Page,
		TotalPages:     total,
		PageSize:       size,
		Columns:        b.st.Columns,
		Total:          len(matched),
		PriceMode:      b.mode,
		Filter:         b.st.Filter,
		TypeOptions:    b.typeOptions(),
		AmenityOptions: b.amenityOptions(),
	}
	if b.mode == PriceSlider {
		sl := b.st.Slider
		v.Slider = &sl
	}
	return v
}

func (b *Browser) filtered() []Item {
	f := b.st.Filter
	want := lo.Map(f.Amenities, func(a string, _ int) string { return strings.ToLower(a) })
	return lo.Filter(b.items, func(it Item, _ int) bool {
		if f.Type != "" && f.Type != "all" && !strings.Contains(strings.ToLower(it.Type), strings.ToLower(f.Type)) {
			return false
		}
		if it.Rating.Or(0) < f.MinRating {
			return false
		}
		if !b.priceOK(it) {
			return false
		}
		if len(want) > 0 {
			have := lo.Map(it.Amenities, func(a string, _ int) string { return strings.ToLower(a) })
			if !lo.Every(have, want) {
				return false
			}
		}
		return true
	})
}

func (b *Browser) priceOK(it Item) bool {
	switch b.mode {
	case PriceSlider:
		if !it.Price.Known() {
			return true
		}
		p := it.Price.Float()
		return p >= b.st.Slider.Lower && p <= b.st.Slider.Upper
	case PriceBuckets:
		return inBucket(it.Price, b.st.Filter.PriceRange)
	}
	return true
}

func inBucket(price domain.Amount, bk Bucket) bool {
	if bk == "" || bk == BucketAll {
		return true
	}
	if !price.Known() {
		return false
	}
	p := price.Float()
	switch bk {
	case BucketUnder2k:
		return p < 2000
	case Bucket2to5:
		return p >= 2000 && p <= 5000
	case Bucket5to10:
		return p > 5000 && p <= 10000
	case BucketOver10:
		return p > 10000
	}
	return true
}

// sorted is stable: equal keys keep their input order.
func (b *Browser) sorted(items []Item) []Item {
	out := slices.Clone(items)
	switch b.st.Filter.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(x, y Item) int {
			return cmp.Compare(x.Price.Or(math.Inf(1)), y.Price.Or(math.Inf(1)))
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(x, y Item) int { return cmp.Compare(y.Price.Or(0), x.Price.Or(0)) })
	case SortRatingDesc:
		slices.SortStableFunc(out, func(x, y Item) int { return cmp.Compare(y.Rating.Or(0), x.Rating.Or(0)) })
	}
	return out
}

func (b *Browser) typeOptions() []string {
	types := lo.FilterMap(b.items, func(it Item, _ int) (string, bool) {
		t := strings.ToLower(strings.TrimSpace(it.Type))
		return t, t != ""
	})
	return append([]string{"all"}, lo.Uniq(types)...)
}

func (b *Browser) amenityOptions() []string {
	all := slices.Clone(DefaultAmenities)
	for _, it := range b.items {
		all = append(all, it.Amenities...)
	}
	return lo.UniqBy(all, strings.ToLower)
}

func priceMode(items []Item) PriceMode {
	if lo.SomeBy(items, func(it Item) bool { return strings.Contains(strings.ToLower(it.Type), "hotel") }) {
		return PriceSlider
	}
	if lo.SomeBy(items, func(it Item) bool { return lo.Contains(unpricedTypes, strings.ToLower(it.Type)) }) {
		return PriceNone
	}
	if !lo.SomeBy(items, func(it Item) bool { return it.Price.Known() }) {
		return PriceNone
	}
	return PriceBuckets
}

func priceBounds(items []Item) (float64, float64) {
	prices := lo.FilterMap(items, func(it Item, _ int) (float64, bool) { return it.Price.Float(), it.Price.Known() })
	if len(prices) == 0 {
		return 0, 0
	}
	return lo.Min(prices), lo.Max(prices)
}

func clamp(v, low, high float64) float64 {
	if math.IsNaN(v) {
		return low
	}
	return math.Max(low, math.Min(v, high))
}
