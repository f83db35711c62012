// Package enrichment fetches structured company data from external research sources.
package enrichment

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/festy23/company_insights/internal/company/model"
	"github.com/festy23/company_insights/internal/workflow"
)

// Enricher looks up company data. contextText, when non-empty, is the only
// research material the enricher may use.
type Enricher interface {
	Enrich(ctx context.Context, companyName, contextText string) (*FetchedCompanyData, error)
}

// EnricherFunc adapts a function to the Enricher interface.
type EnricherFunc func(ctx context.Context, companyName, contextText string) (*FetchedCompanyData, error)

// Enrich calls f.
func (f EnricherFunc) Enrich(ctx context.Context, companyName, contextText string) (*FetchedCompanyData, error) {
	return f(ctx, companyName, contextText)
}

// FetchedCompanyData is the result of an enrichment call. Every field is optional;
// nil means the source did not supply it.
type FetchedCompanyData struct {
	Name             *string          `json:"name,omitempty"`
	Description      *string          `json:"description,omitempty"`
	Logo             *string          `json:"logo,omitempty"`
	Website          *string          `json:"website,omitempty"`
	Headquarters     *string          `json:"headquarters,omitempty"`
	BusinessModel    *string          `json:"businessModel,omitempty"`
	PrimaryRevenue   *string          `json:"primaryRevenue,omitempty"`
	RevenueBreakdown RevenueBreakdown `json:"revenueBreakdown,omitempty"`

	breakdownErr error
}

// Normalize blanks out empty strings, drops an invalid revenue breakdown and
// guesses a logo from the website when none was supplied.
func (d *FetchedCompanyData) Normalize(logger *zap.SugaredLogger) {
	for _, field := range []**string{
		&d.Name, &d.Description, &d.Logo, &d.Website,
		&d.Headquarters, &d.BusinessModel, &d.PrimaryRevenue,
	} {
		if *field != nil {
			trimmed := strings.TrimSpace(**field)
			if trimmed == "" {
				*field = nil
			} else {
				*field = &trimmed
			}
		}
	}

	if d.breakdownErr != nil {
		logger.Warnw("dropping unparseable revenue breakdown", "error", d.breakdownErr)
		d.breakdownErr = nil
	}
	if d.RevenueBreakdown != nil {
		if err := d.RevenueBreakdown.Validate(); err != nil {
			logger.Warnw("dropping invalid revenue breakdown", "error", err)
			d.RevenueBreakdown = nil
		}
	}

	if d.Logo == nil && d.Website != nil {
		if logo, ok := GuessLogo(*d.Website); ok {
			d.Logo = &logo
		}
	}
}

// Patch converts the data into a partial company update. Name is never merged
// because the slug is derived from it.
func (d *FetchedCompanyData) Patch() model.Patch {
	patch := model.Patch{
		Description:    d.Description,
		Logo:           d.Logo,
		Website:        d.Website,
		Headquarters:   d.Headquarters,
		PrimaryRevenue: d.PrimaryRevenue,
		BusinessModel:  d.BusinessModel,
	}
	if d.RevenueBreakdown != nil {
		s := d.RevenueBreakdown.String()
		patch.RevenueBreakdown = &s
	}
	return patch
}

// NameOr returns the enriched name, or fallback when none was supplied.
func (d *FetchedCompanyData) NameOr(fallback string) string {
	if d.Name != nil && strings.TrimSpace(*d.Name) != "" {
		return strings.TrimSpace(*d.Name)
	}
	return fallback
}

// Failure wraps err as an enrichment failure.
func Failure(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, workflow.ErrEnrichment, err)
}
