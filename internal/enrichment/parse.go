package enrichment

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// fetchedWire is the decoding shape of FetchedCompanyData.
type fetchedWire struct {
	Name             *string         `json:"name"`
	Description      *string         `json:"description"`
	Logo             *string         `json:"logo"`
	Website          *string         `json:"website"`
	Headquarters     *string         `json:"headquarters"`
	BusinessModel    *string         `json:"businessModel"`
	PrimaryRevenue   *string         `json:"primaryRevenue"`
	RevenueBreakdown json.RawMessage `json:"revenueBreakdown"`
}

// ParseFetchedData decodes a single JSON object into FetchedCompanyData.
// Fields must have the right types; an unparseable revenue breakdown is kept
// aside for Normalize to report rather than failing the whole decode.
func ParseFetchedData(raw []byte) (*FetchedCompanyData, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, errors.New("expected a JSON object")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	var wire fetchedWire
	if err := dec.Decode(&wire); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON object")
	}

	data := &FetchedCompanyData{
		Name:           wire.Name,
		Description:    wire.Description,
		Logo:           wire.Logo,
		Website:        wire.Website,
		Headquarters:   wire.Headquarters,
		BusinessModel:  wire.BusinessModel,
		PrimaryRevenue: wire.PrimaryRevenue,
	}
	data.RevenueBreakdown, data.breakdownErr = ParseRevenueBreakdown(wire.RevenueBreakdown)

	return data, nil
}

// cleanJSON strips markdown fences and surrounding prose from a model reply.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

// UnmarshalJSON decodes with the same rules as ParseFetchedData.
func (d *FetchedCompanyData) UnmarshalJSON(b []byte) error {
	parsed, err := ParseFetchedData(b)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}
