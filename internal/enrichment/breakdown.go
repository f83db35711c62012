package enrichment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RevenueBreakdown maps revenue segments to their share of total revenue.
// Values are percentages given as JSON numbers or strings such as "45%".
type RevenueBreakdown map[string]interface{}

// ParseRevenueBreakdown accepts a JSON object, a JSON string holding an object, or null.
func ParseRevenueBreakdown(raw json.RawMessage) (RevenueBreakdown, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("revenue breakdown: %w", err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		raw = []byte(s)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var breakdown map[string]interface{}
	if err := dec.Decode(&breakdown); err != nil {
		return nil, fmt.Errorf("revenue breakdown: %w", err)
	}
	if len(breakdown) == 0 {
		return nil, nil
	}
	return breakdown, nil
}

// Validate checks that every segment is a percentage in [0, 100] and that
// the segments add up to at most 100.
func (b RevenueBreakdown) Validate() error {
	total := decimal.Zero
	for segment, value := range b {
		pct, err := percentage(value)
		if err != nil {
			return fmt.Errorf("segment %q: %w", segment, err)
		}
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return fmt.Errorf("segment %q: %s is out of range", segment, pct)
		}
		total = total.Add(pct)
	}
	if total.GreaterThan(hundred) {
		return fmt.Errorf("segments add up to %s%%", total)
	}
	return nil
}

// String returns the breakdown as a JSON object.
func (b RevenueBreakdown) String() string {
	if b == nil {
		return "{}"
	}
	out, err := json.Marshal(map[string]interface{}(b))
	if err != nil {
		return "{}"
	}
	return string(out)
}

func percentage(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "%"))
		return decimal.NewFromString(s)
	default:
		return decimal.Zero, errors.New("not a percentage")
	}
}
