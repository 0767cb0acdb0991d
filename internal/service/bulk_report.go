package service

import (
	"context"
	"sync"
)

// DocumentOutcome is the settlement of one remote document operation within
// a bulk fan-out.
type DocumentOutcome struct {
	Key   string `json:"key"`
	Error string `json:"error,omitempty"`
}

// BulkReport is the settlement report of a bulk fan-out: one outcome per
// document, in dispatch order, plus aggregate counts. Bulk operations have
// no transactional atomicity, so a partially failed run leaves some
// documents updated and others not; the report is how callers see exactly
// which.
type BulkReport struct {
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Outcomes  []DocumentOutcome `json:"outcomes"`
}

// Ok reports whether every document operation settled successfully.
func (r *BulkReport) Ok() bool {
	return r.Failed == 0
}

// FailedOutcomes returns only the outcomes that carry an error.
func (r *BulkReport) FailedOutcomes() []DocumentOutcome {
	failed := make([]DocumentOutcome, 0, r.Failed)
	for _, o := range r.Outcomes {
		if o.Error != "" {
			failed = append(failed, o)
		}
	}
	return failed
}

// runBulk issues op once per key concurrently and waits for all operations
// to settle. Every key is attempted regardless of other failures; there is
// no short-circuit, no retry and no cancellation once dispatched. Outcomes
// are reported in key order.
func runBulk(ctx context.Context, keys []string, op func(ctx context.Context, key string) error) *BulkReport {
	report := &BulkReport{
		Total:    len(keys),
		Outcomes: make([]DocumentOutcome, len(keys)),
	}

	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			outcome := DocumentOutcome{Key: key}
			if err := op(ctx, key); err != nil {
				outcome.Error = err.Error()
			}
			report.Outcomes[i] = outcome
		}(i, key)
	}
	wg.Wait()

	for _, o := range report.Outcomes {
		if o.Error == "" {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}
	return report
}
