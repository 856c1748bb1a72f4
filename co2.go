package main

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var errInvalidQuantity = errors.New("invalid quantity")

var leadingNumber = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)

// parseQuantity reads what the admin typed for a quantity based report.
// The first comma is taken as the decimal separator and anything after the
// leading number ("2.5 kg") is ignored.
func parseQuantity(input string) (float64, error) {
	normalized := strings.Replace(strings.TrimSpace(input), ",", ".", 1)
	m := leadingNumber.FindString(normalized)
	if m == "" {
		return 0, errInvalidQuantity
	}
	q, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(q) || math.IsInf(q, 0) || q <= 0 {
		return 0, errInvalidQuantity
	}
	return q, nil
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// co2Credit returns the co2_saved override for an approval. nil means the
// backend applies its own default. quantity is ignored unless the report is
// quantity based.
func co2Credit(perUnit *float64, quantityBased bool, quantity float64) *float64 {
	if perUnit == nil || math.IsNaN(*perUnit) || *perUnit <= 0 {
		return nil
	}
	v := *perUnit
	if quantityBased {
		v *= quantity
	}
	v = round4(v)
	return &v
}
