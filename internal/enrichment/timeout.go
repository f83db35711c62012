package enrichment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/festy23/company_insights/internal/workflow"
)

type timeoutEnricher struct {
	next    Enricher
	timeout time.Duration
}

// WithTimeout bounds every Enrich call by d. The call returns when d elapses
// even if next ignores context cancellation.
func WithTimeout(next Enricher, d time.Duration) Enricher {
	return &timeoutEnricher{next: next, timeout: d}
}

type enrichResult struct {
	data *FetchedCompanyData
	err  error
}

func (e *timeoutEnricher) Enrich(ctx context.Context, companyName, contextText string) (*FetchedCompanyData, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan enrichResult, 1)
	go func() {
		data, err := e.next.Enrich(ctx, companyName, contextText)
		done <- enrichResult{data: data, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			if errors.Is(res.err, workflow.ErrEnrichment) {
				return nil, res.err
			}
			return nil, Failure("enrich", res.err)
		}
		if res.data == nil {
			return nil, Failure("enrich", errors.New("no data returned"))
		}
		return res.data, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, Failure("enrich", fmt.Errorf("timed out after %s", e.timeout))
		}
		return nil, Failure("enrich", ctx.Err())
	}
}
