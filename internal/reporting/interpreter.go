// Package reporting renders runs and their analysis for humans and CI.
package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/microsoft/modelbench/internal/models"
)

// InterpretScore returns a plain-language label for a numeric score (0–1).
func InterpretScore(score float64) string {
	pct := score * 100
	switch {
	case pct > 90:
		return "Excellent (>90%)"
	case pct >= 70:
		return "Good (70-90%)"
	case pct >= 50:
		return "Needs Work (50-70%)"
	default:
		return "Poor (<50%)"
	}
}

// InterpretSuccessRate returns a human-readable explanation of the share
// of cells that produced output (0–1).
func InterpretSuccessRate(rate float64) string {
	pct := rate * 100
	switch {
	case pct >= 100:
		return fmt.Sprintf("All calls succeeded (%.0f%%)", pct)
	case pct >= 80:
		return fmt.Sprintf("Most calls succeeded (%.0f%%)", pct)
	case pct >= 50:
		return fmt.Sprintf("About half the calls succeeded (%.0f%%)", pct)
	default:
		return fmt.Sprintf("Few calls succeeded (%.0f%%)", pct)
	}
}

// FormatRunSummary produces a plain-language summary of a finished run.
func FormatRunSummary(run *models.BenchmarkRun) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== Run %s (%s) ===\n\n", run.ID, run.State)
	if run.Error != "" {
		fmt.Fprintf(&b, "Error:    %s\n", run.Error)
	}

	s := run.Summary
	if s == nil {
		fmt.Fprintf(&b, "Progress: %d/%d cells\n", run.Status.Progress, run.Status.TotalTests)
		return b.String()
	}

	rate := 0.0
	if s.TotalTests > 0 {
		rate = float64(s.Succeeded) / float64(s.TotalTests)
	}
	fmt.Fprintf(&b, "Calls:    %s\n", InterpretSuccessRate(rate))
	fmt.Fprintf(&b, "Duration: %v\n", time.Duration(s.DurationMs)*time.Millisecond)
	fmt.Fprintf(&b, "Cells:    %d succeeded, %d failed out of %d total\n", s.Succeeded, s.Failed, s.TotalTests)
	fmt.Fprintf(&b, "Cost:     $%.4f\n", s.TotalCost)

	if len(s.Models) > 0 {
		b.WriteString("\nPer-Model:\n")
		for _, m := range s.Models {
			icon := "✓"
			if m.Failed > 0 {
				icon = "✗"
			}
			fmt.Fprintf(&b, "  %s %s: %d/%d succeeded, avg %.0fms, $%.4f\n",
				icon, m.ModelID, m.Succeeded, m.Tests, m.AvgLatencyMs, m.TotalCost)
		}
	}

	return b.String()
}
