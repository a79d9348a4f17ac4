package domain

import (
	"bytes"
	"encoding/json"
	"math"
)

// Amount is a price or rating that may be unknown. Unknown is NaN, never 0.
type Amount float64

// Unknown returns the NaN amount.
func Unknown() Amount { return Amount(math.NaN()) }

func (a Amount) Known() bool {
	f := float64(a)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (a Amount) Float() float64 { return float64(a) }

// Or returns def when the amount is unknown.
func (a Amount) Or(def float64) float64 {
	if !a.Known() {
		return def
	}
	return float64(a)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Known() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(a))
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*a = Unknown()
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}
