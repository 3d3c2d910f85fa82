// Package batch partitions a reconciled price set into bounded chunks and
// applies them sequentially through an external write collaborator.
package batch

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"play-price/core/migrate"
	"play-price/core/types"
	"play-price/internal/errors"
	"play-price/internal/logging"
)

// Batch is one bounded, ordered chunk of regional price updates.
type Batch struct {
	// Index is the zero-based position in the partition.
	Index int

	// Prices preserves the reconciled set's order.
	Prices []types.ReconciledPrice
}

// Partition splits prices into batches of at most batchSize entries,
// preserving order. batchSize <= 0 yields a single batch with everything.
// The concatenation of all batches equals the input exactly once.
func Partition(prices []types.ReconciledPrice, batchSize int) []Batch {
	if len(prices) == 0 {
		return []Batch{}
	}
	if batchSize <= 0 {
		return []Batch{{Index: 0, Prices: prices}}
	}

	batches := make([]Batch, 0, (len(prices)+batchSize-1)/batchSize)
	for start := 0; start < len(prices); start += batchSize {
		end := start + batchSize
		if end > len(prices) {
			end = len(prices)
		}
		batches = append(batches, Batch{Index: len(batches), Prices: prices[start:end]})
	}
	return batches
}

// WriteFunc is the external write boundary. A call is atomic at the remote:
// it either fully succeeds or fully fails for that batch.
type WriteFunc func(ctx context.Context, b Batch, directive *migrate.Directive) error

// Outcome is the terminal state of one batch.
type Outcome int

const (
	OutcomeApplied Outcome = iota // Write succeeded
	OutcomeFailed                 // Write failed, later batches still ran
	OutcomeSkipped                // Not attempted after a fatal failure
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result is the per-batch outcome.
type Result struct {
	Index   int
	Regions int
	Outcome Outcome
	Err     error
}

// Report aggregates one apply run.
type Report struct {
	// RunID identifies this apply run in logs and results.
	RunID uuid.UUID

	Results []Result

	Applied int
	Failed  int
	Skipped int
}

// Succeeded reports whether every batch was applied.
func (r *Report) Succeeded() bool {
	return r.Failed == 0 && r.Skipped == 0
}

// FatalErr returns the error that aborted the run, if any batch failure was
// classified fatal.
func (r *Report) FatalErr() error {
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed && isFatal(res.Err) {
			return res.Err
		}
	}
	return nil
}

// Apply executes batches strictly sequentially, in partition order. A
// retryable failure records the batch and continues so one bad chunk cannot
// block unrelated regions; a fatal (authentication/permission-class) failure
// aborts all remaining batches.
func Apply(ctx context.Context, batches []Batch, write WriteFunc, directive *migrate.Directive) *Report {
	report := &Report{
		RunID:   uuid.New(),
		Results: make([]Result, 0, len(batches)),
	}
	log := logging.With(zap.String("run_id", report.RunID.String()))

	aborted := false
	for _, b := range batches {
		result := Result{Index: b.Index, Regions: len(b.Prices)}

		if aborted {
			result.Outcome = OutcomeSkipped
			report.Skipped++
			report.Results = append(report.Results, result)
			continue
		}

		if err := write(ctx, b, directive); err != nil {
			result.Outcome = OutcomeFailed
			result.Err = err
			report.Failed++
			if isFatal(err) {
				log.Error("batch apply failed fatally, aborting remaining batches",
					zap.Int("batch", b.Index), zap.Error(err))
				aborted = true
			} else {
				log.Warn("batch apply failed, continuing with next batch",
					zap.Int("batch", b.Index), zap.Error(err))
			}
		} else {
			result.Outcome = OutcomeApplied
			report.Applied++
			log.Info("batch applied",
				zap.Int("batch", b.Index), zap.Int("regions", len(b.Prices)))
		}
		report.Results = append(report.Results, result)
	}

	return report
}

// isFatal classifies a write failure. Authentication and permission failures
// will fail every remaining batch the same way, so retrying them is noise.
func isFatal(err error) bool {
	return errors.IsType(err, errors.TypeAuth) || errors.IsType(err, errors.TypeValidation)
}
