package cmd

import (
	"fmt"
	"io"
	"time"

	"table-migrator/internal/migrate"
	"table-migrator/internal/seed"
)

func printSummary(w io.Writer, s migrate.Summary, elapsed time.Duration) {
	fmt.Fprintln(w, "\n📊 Summary Report:")
	var total int64
	for i, o := range s.Outcomes {
		icon := "✓"
		status := "OK"
		if !o.Success {
			icon = "!"
			status = "FAILED"
		}
		action := "-"
		if o.Plan != nil {
			action = o.Plan.Action.String()
		}

		fmt.Fprintf(w, "[%s] [%02d/%02d] %-24s : %d rows (%s) - %s\n",
			icon, i+1, len(s.Outcomes), o.TableName, o.RowsCopied, action, status)
		if o.IndexesAttempted > 0 {
			fmt.Fprintf(w, "    └ Indexes: %d/%d created\n", o.IndexesSucceeded, o.IndexesAttempted)
		}
		if o.Err != nil {
			fmt.Fprintf(w, "    └ Error: %v\n", o.Err)
		}
		total += o.RowsCopied
	}
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Tables: %d succeeded, %d failed | Rows copied: %d | Elapsed: %s\n",
		s.SuccessCount, s.FailureCount, total, elapsed.Round(time.Millisecond))
}

func printPlans(w io.Writer, s migrate.Summary) {
	fmt.Fprintln(w, "🔍 Migration Plan:")
	for i, o := range s.Outcomes {
		if o.Plan == nil {
			fmt.Fprintf(w, "[%02d] %s: not planned (%v)\n", i+1, o.TableName, o.Err)
			continue
		}
		fmt.Fprintf(w, "[%02d] %s -> %s: %s\n", i+1, o.Plan.SourceTable, o.Plan.TargetTable, o.Plan.Action)
		for _, stmt := range o.Plan.Statements {
			fmt.Fprintf(w, "%s;\n", stmt)
		}
	}
}

func printSeedSummary(w io.Writer, results []seed.Result, elapsed time.Duration) {
	fmt.Fprintln(w, "\n📊 Summary Report:")
	var total int64
	for i, r := range results {
		icon := "✓"
		if !r.OK() {
			icon = "!"
		}
		fmt.Fprintf(w, "[%s] [%02d/%02d] %-24s : %d rows (Target: %d) - %s\n",
			icon, i+1, len(results), r.TableName, r.Actual, r.Target, r.Status)
		if r.Err != nil {
			fmt.Fprintf(w, "    └ Error: %v\n", r.Err)
		}
		total += r.Actual
	}
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Total Operations: %d | Elapsed: %s\n", total, elapsed.Round(time.Millisecond))
}
