package enrichment

import (
	"context"
)

// StaticEnricher returns fixed data. With nil Data it returns only the
// requested name, which lets the pipeline run without API keys.
type StaticEnricher struct {
	Data *FetchedCompanyData
	Err  error
}

// Enrich implements Enricher.
func (s StaticEnricher) Enrich(_ context.Context, companyName, _ string) (*FetchedCompanyData, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Data != nil {
		data := *s.Data
		return &data, nil
	}
	name := companyName
	return &FetchedCompanyData{Name: &name}, nil
}
