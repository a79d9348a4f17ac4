// Package export turns itinerary messages into calendar documents.
package export

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"tapas_chat/internal/domain"
)

const (
	productID      = "-//tapas//Itinerary Export//EN"
	defaultStartHr = 9
	defaultSlot    = time.Hour
)

var (
	dateRe = regexp.MustCompile(`(\d{1,2})[-/.](\d{1,2})[-/.](\d{4})`)
	timeRe = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)
)

// Calendar builds a VCALENDAR with one VEVENT per activity. Day one is the first
// DD-MM-YYYY date in the overview's date range, or fallback's date when there is none.
// Times are written as UTC wall-clock values.
func Calendar(id string, it domain.Itinerary, fallback time.Time) (string, error) {
	start := startDate(it.Overview.DateRange, fallback)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	if it.Overview.Title != "" {
		cal.SetXWRCalName(it.Overview.Title)
	}

	stamp := fallback.UTC()
	for di, day := range it.DailyPlan {
		n := day.Day
		if n <= 0 {
			n = di + 1
		}
		date := start.AddDate(0, 0, n-1)
		starts := activityStarts(date, day.Activities)
		for ai, a := range day.Activities {
			end := starts[ai].Add(defaultSlot)
			if ai+1 < len(starts) && starts[ai+1].After(starts[ai]) {
				end = starts[ai+1]
			}
			ev := cal.AddEvent(fmt.Sprintf("%s-d%d-%d@tapas", id, n, ai+1))
			ev.SetDtStampTime(stamp)
			ev.SetStartAt(starts[ai])
			ev.SetEndAt(end)
			ev.SetSummary(orDefault(a.Name, day.Title))
			if desc := describe(day, a); desc != "" {
				ev.SetDescription(desc)
			}
			if it.Overview.Dest != "" {
				ev.SetLocation(it.Overview.Dest)
			}
		}
	}

	var b strings.Builder
	if err := cal.SerializeTo(&b); err != nil {
		return "", fmt.Errorf("serialize itinerary %s: %w", id, err)
	}
	return b.String(), nil
}

func startDate(dateRange string, fallback time.Time) time.Time {
	if m := dateRe.FindStringSubmatch(dateRange); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
		if t.Day() == d && int(t.Month()) == mo {
			return t
		}
	}
	f := fallback.UTC()
	return time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, time.UTC)
}

// activityStarts gives an untimed activity the slot after the previous one.
func activityStarts(date time.Time, acts []domain.Activity) []time.Time {
	out := make([]time.Time, len(acts))
	next := date.Add(defaultStartHr * time.Hour)
	for i, a := range acts {
		if h, m, ok := clock(a.Time); ok {
			next = date.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
		}
		out[i] = next
		next = next.Add(defaultSlot)
	}
	return out
}

func clock(s string) (int, int, bool) {
	m := timeRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	h, _ := strconv.Atoi(m[1])
	mins := 0
	if m[2] != "" {
		mins, _ = strconv.Atoi(m[2])
	}
	switch strings.ToLower(m[3]) {
	case "pm":
		if h < 12 {
			h += 12
		}
	case "am":
		if h == 12 {
			h = 0
		}
	}
	if h > 23 || mins > 59 {
		return 0, 0, false
	}
	return h, mins, true
}

func describe(day domain.ItineraryDay, a domain.Activity) string {
	parts := []string{}
	if day.Title != "" {
		parts = append(parts, fmt.Sprintf("Day %d: %s", day.Day, day.Title))
	}
	if a.Description != "" {
		parts = append(parts, a.Description)
	}
	if len(a.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(a.Tags, ", "))
	}
	if a.Rating.Known() {
		parts = append(parts, fmt.Sprintf("Rating: %.1f", a.Rating.Float()))
	}
	return strings.Join(parts, "\n")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
