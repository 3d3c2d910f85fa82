// Package output renders human-readable run reports.
package output

import (
	"fmt"
	"io"

	"play-price/core/batch"
	"play-price/core/diff"
	"play-price/core/reconcile"
)

// RenderWarnings writes the reconciliation warning log.
func RenderWarnings(w io.Writer, warnings []reconcile.Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "Warnings (%d rows dropped):\n", len(warnings))
	for _, warning := range warnings {
		fmt.Fprintf(w, "  %s\n", warning)
	}
	fmt.Fprintln(w)
}

// RenderDiff writes the classified change report, grouped by change kind.
// Records arrive already sorted by region.
func RenderDiff(w io.Writer, result *diff.Result) {
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  new regions:          %d\n", result.NewCount)
	fmt.Fprintf(w, "  price increases:      %d\n", result.PriceUpCount)
	fmt.Fprintf(w, "  price decreases:      %d\n", result.PriceDownCount)
	fmt.Fprintf(w, "  currency changes:     %d\n", result.CurrencyCount)
	fmt.Fprintf(w, "  availability changes: %d\n", result.AvailabilityCount)
	fmt.Fprintf(w, "  unchanged:            %d\n", result.UnchangedCount)
	fmt.Fprintln(w)

	kinds := []diff.ChangeKind{
		diff.ChangeNew,
		diff.ChangePriceUp,
		diff.ChangePriceDown,
		diff.ChangeCurrency,
		diff.ChangeAvailability,
	}
	for _, kind := range kinds {
		renderKind(w, result, kind)
	}
}

func renderKind(w io.Writer, result *diff.Result, kind diff.ChangeKind) {
	var records []diff.ChangeRecord
	for _, record := range result.Records {
		if record.Kind == kind {
			records = append(records, record)
		}
	}
	if len(records) == 0 {
		return
	}

	fmt.Fprintf(w, "%s (%d):\n", kind, len(records))
	for _, record := range records {
		switch {
		case record.Old == nil:
			fmt.Fprintf(w, "  %-4s %s\n", record.Region, record.New)
		default:
			fmt.Fprintf(w, "  %-4s %s -> %s\n", record.Region, record.Old, record.New)
		}
	}
	fmt.Fprintln(w)
}

// RenderApply writes the per-batch outcomes and the aggregate summary.
func RenderApply(w io.Writer, report *batch.Report) {
	fmt.Fprintf(w, "Apply run %s\n", report.RunID)
	for _, result := range report.Results {
		switch result.Outcome {
		case batch.OutcomeApplied:
			fmt.Fprintf(w, "  batch %d: applied (%d regions)\n", result.Index+1, result.Regions)
		case batch.OutcomeFailed:
			fmt.Fprintf(w, "  batch %d: FAILED (%d regions): %v\n", result.Index+1, result.Regions, result.Err)
		case batch.OutcomeSkipped:
			fmt.Fprintf(w, "  batch %d: skipped (%d regions)\n", result.Index+1, result.Regions)
		}
	}
	fmt.Fprintf(w, "Applied %d, failed %d, skipped %d of %d batches\n",
		report.Applied, report.Failed, report.Skipped, len(report.Results))
}
