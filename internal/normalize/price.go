package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tapas_chat/internal/domain"
)

// DefaultRate converts USD into INR when no override is configured.
const DefaultRate = 83.0

var (
	nonPriceChars = regexp.MustCompile(`[^0-9.]`)
	leadingNumber = regexp.MustCompile(`^\s*([-+]?(?:\d+\.?\d*|\.\d+))`)
)

// ParsePrice reduces raw to digits and dots and parses the result.
// The sign is discarded with every other non-digit character; NaN when no number survives.
func ParsePrice(raw any) float64 {
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return math.NaN()
		}
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	default:
		return math.NaN()
	}
	cleaned := nonPriceChars.ReplaceAllString(s, "")
	if cleaned == "" {
		return math.NaN()
	}
	f, ok := parseLeadingFloat(cleaned)
	if !ok {
		return math.NaN()
	}
	return f
}

// parseLeadingFloat parses the longest numeric prefix, so "1.2.3" reads as 1.2.
func parseLeadingFloat(s string) (float64, bool) {
	m := leadingNumber.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(m[1], "."), 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ConvertCurrency rounds amount*rate to the nearest whole unit.
func ConvertCurrency(amount, rate float64) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return math.NaN()
	}
	if math.IsNaN(rate) || rate <= 0 {
		rate = DefaultRate
	}
	return math.Round(amount * rate)
}

// Labeler formats target-currency labels with locale digit grouping.
type Labeler struct {
	symbol  string
	printer *message.Printer
}

func NewLabeler(symbol, locale string) *Labeler {
	if symbol == "" {
		symbol = "₹"
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse("en-IN")
	}
	return &Labeler{symbol: symbol, printer: message.NewPrinter(tag)}
}

// Label renders a known amount, or falls back to the raw source text.
func (l *Labeler) Label(amount float64, raw string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return raw
	}
	return l.symbol + " " + l.printer.Sprintf("%d", int64(math.Round(amount)))
}

// parseRating reads the leading number of a rating ("4.3", "4.3/5", 4).
func parseRating(m map[string]any, paths ...string) domain.Amount {
	for _, p := range paths {
		switch v := lookupAny(m, p).(type) {
		case float64:
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				return domain.Amount(v)
			}
		case int:
			return domain.Amount(v)
		case string:
			if f, ok := parseLeadingFloat(v); ok {
				return domain.Amount(f)
			}
		}
	}
	return domain.Unknown()
}

func rawString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	}
	return ""
}
