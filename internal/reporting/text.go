package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/microsoft/modelbench/internal/models"
	"github.com/microsoft/modelbench/internal/ranking"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// row is one model's line in the comparison table, in ranking order.
type row struct {
	ranking models.ModelRanking
	metrics models.ModelMetrics
}

func rows(a *models.Analysis) []row {
	byID := make(map[string]models.ModelMetrics, len(a.Metrics))
	for _, m := range a.Metrics {
		byID[m.ModelID] = m
	}
	out := make([]row, 0, len(a.Rankings))
	for _, r := range a.Rankings {
		out = append(out, row{ranking: r, metrics: byID[r.ModelID]})
	}
	return out
}

var tableHeader = []string{"RANK", "MODEL", "OVERALL", "ACCURACY", "DOMAIN", "LATENCY", "TOKENS", "COST", "SPEED", "PRICE"}

func (r row) cells() []string {
	m := r.metrics
	return []string{
		fmt.Sprintf("%d", r.ranking.OverallRank),
		r.ranking.ModelID,
		fmt.Sprintf("%.2f", m.OverallScore),
		fmt.Sprintf("%.2f", m.AccuracyScore),
		fmt.Sprintf("%.2f", m.DomainExpertiseScore),
		printer.Sprintf("%.0fms", m.AvgLatencyMs),
		printer.Sprintf("%d", m.TotalTokens),
		fmt.Sprintf("$%.4f", m.TotalCost),
		fmt.Sprintf("%d/5", r.ranking.SpeedLevel),
		fmt.Sprintf("%d/5", r.ranking.CostLevel),
	}
}

// Text writes the comparison table, selections and domain insights.
func Text(w io.Writer, a *models.Analysis) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Benchmark %s (run %s)\n\n", a.BenchName, a.RunID)

	table := [][]string{tableHeader}
	for _, r := range rows(a) {
		table = append(table, r.cells())
	}
	widths := make([]int, len(tableHeader))
	for _, line := range table {
		for i, c := range line {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}
	for _, line := range table {
		for i, c := range line {
			if i == len(line)-1 {
				b.WriteString(c)
				break
			}
			b.WriteString(padRight(c, widths[i]+2))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Best overall:        %s\n", orNone(a.BestOverall))
	fmt.Fprintf(&b, "Fastest:             %s\n", orNone(a.Fastest))
	fmt.Fprintf(&b, "Most cost-efficient: %s\n", orNone(a.MostCostEfficient))
	fmt.Fprintf(&b, "\n%s\n", ranking.Explain(a.Metrics, a.Rankings))

	if len(a.Insights) > 0 {
		b.WriteString("\nDomain insights:\n")
		for _, in := range a.Insights {
			fmt.Fprintf(&b, "  %s\n", in.Summary)
		}
	}
	if len(a.Report.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, rec := range a.Report.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec.Text)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
