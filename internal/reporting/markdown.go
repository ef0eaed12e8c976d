package reporting

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microsoft/modelbench/internal/models"
	"github.com/microsoft/modelbench/internal/ranking"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders the analysis as a GitHub-flavoured markdown document.
func Markdown(a *models.Analysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", a.BenchName)
	fmt.Fprintf(&b, "Run `%s`\n\n", a.RunID)

	b.WriteString("## Rankings\n\n")
	b.WriteString("| " + strings.Join(tableHeader, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(tableHeader)) + "\n")
	for _, r := range rows(a) {
		cells := r.cells()
		for i, c := range cells {
			cells[i] = escapeCell(c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "- **Best overall:** %s\n", orNone(a.BestOverall))
	fmt.Fprintf(&b, "- **Fastest:** %s\n", orNone(a.Fastest))
	fmt.Fprintf(&b, "- **Most cost-efficient:** %s\n", orNone(a.MostCostEfficient))
	fmt.Fprintf(&b, "\n%s\n", ranking.Explain(a.Metrics, a.Rankings))

	if len(a.Report.Categories) > 0 {
		b.WriteString("\n## Categories\n\n")
		b.WriteString("| Category | Average | Best model | Best score |\n")
		b.WriteString("| --- | --- | --- | --- |\n")
		for _, c := range a.Report.Categories {
			fmt.Fprintf(&b, "| %s | %.2f | %s | %.2f |\n", c.Category, c.AverageScore, escapeCell(c.BestModel), c.BestScore)
		}
	}

	if len(a.Insights) > 0 {
		b.WriteString("\n## Domain insights\n\n")
		for _, in := range a.Insights {
			fmt.Fprintf(&b, "- %s\n", in.Summary)
		}
	}

	if len(a.Report.Recommendations) > 0 {
		b.WriteString("\n## Recommendations\n\n")
		for _, rec := range a.Report.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec.Text)
		}
	}

	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// HTML renders the markdown report as a standalone HTML page.
func HTML(a *models.Analysis) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(a)), &body); err != nil {
		return "", fmt.Errorf("rendering HTML report: %w", err)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(a.BenchName))
	b.WriteString("</head>\n<body>\n")
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}
