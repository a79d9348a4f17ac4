// Package normalize maps loosely-shaped assistant records into canonical domain records.
// Every mapper is total: missing or malformed fields become "", NaN, nil or an empty list.
package normalize

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

type Normalizer struct {
	rate    float64
	labeler *Labeler
	newID   func() string
}

type Option func(*Normalizer)

// WithIDFunc replaces the generator used for records that arrive without an id.
func WithIDFunc(f func() string) Option {
	return func(n *Normalizer) { n.newID = f }
}

func WithLabeler(l *Labeler) Option {
	return func(n *Normalizer) { n.labeler = l }
}

// New returns a Normalizer converting source prices at rate (USD->target).
func New(rate float64, opts ...Option) *Normalizer {
	if math.IsNaN(rate) || rate <= 0 {
		rate = DefaultRate
	}
	n := &Normalizer{rate: rate, labeler: NewLabeler("₹", "en-IN"), newID: uuid.NewString}
	for _, o := range opts {
		o(n)
	}
	return n
}

func (n *Normalizer) Rate() float64 { return n.rate }

// price runs a raw price through the currency path: parse, convert, label.
func (n *Normalizer) price(raw any) (src, target float64, label string) {
	src = ParsePrice(raw)
	target = ConvertCurrency(src, n.rate)
	return src, target, n.labeler.Label(target, rawString(raw))
}

func (n *Normalizer) id(v string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return n.newID()
}
