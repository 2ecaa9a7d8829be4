package aggregate

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// NotAvailable renders statistics whose denominator is zero
const NotAvailable = "n/a"

// fixed2 formats with two decimals, rounding half away from zero
func fixed2(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NotAvailable
	}
	return decimal.NewFromFloat(f).StringFixed(2)
}

func percent(f float64) string {
	s := fixed2(f)
	if s == NotAvailable {
		return s
	}
	return s + "%"
}

// plain formats a number without trailing zeros
func plain(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ratioPercent is (num-den)/den*100; false when den is zero
func ratioPercent(num, den float64) (float64, bool) {
	if den == 0 {
		return 0, false
	}
	return (num - den) / den * 100, true
}

// breakdown renders an ordered map as {k: v, ...}
func breakdown(m *orderedmap.OrderedMap[string, string]) string {
	var b strings.Builder
	b.WriteByte('{')
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		if b.Len() > 1 {
			b.WriteString(", ")
		}
		b.WriteString(pair.Key)
		b.WriteString(": ")
		b.WriteString(pair.Value)
	}
	b.WriteByte('}')
	return b.String()
}

// formatSums renders each sum with two decimals
func formatSums(sums *orderedmap.OrderedMap[string, float64]) *orderedmap.OrderedMap[string, string] {
	out := orderedmap.New[string, string](sums.Len())
	for pair := sums.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, fixed2(pair.Value))
	}
	return out
}
