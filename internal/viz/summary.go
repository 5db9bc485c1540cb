package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pairdist/internal/analysis"
	"github.com/san-kum/pairdist/internal/pairwise"
)

// RunReport is what the CLI shows after a computation.
type RunReport struct {
	Box        pairwise.Box
	Workers    int
	Discipline pairwise.Discipline
	Elapsed    time.Duration
	Summary    analysis.Summary
	RunID      string
}

func metricLine(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, MetricLabel.Render(label), MetricValue.Render(value))
}

// RenderReport draws the report as a bordered panel.
func RenderReport(r RunReport) string {
	var b strings.Builder
	b.WriteString(Title.Render("pairwise distances"))
	b.WriteString("\n")
	b.WriteString(Separator(36))
	b.WriteString("\n")

	lines := []string{
		metricLine("particles", fmt.Sprintf("%d", r.Summary.Particles)),
		metricLine("pairs", fmt.Sprintf("%d", r.Summary.Pairs)),
		metricLine("box", fmt.Sprintf("%g × %g × %g", r.Box.L[0], r.Box.L[1], r.Box.L[2])),
		metricLine("workers", fmt.Sprintf("%d", r.Workers)),
		metricLine("discipline", r.Discipline.String()),
		metricLine("elapsed", fmt.Sprintf("%.6fs", r.Elapsed.Seconds())),
	}
	if r.Summary.Pairs > 0 {
		lines = append(lines,
			metricLine("min", fmt.Sprintf("%.6f", r.Summary.Min)),
			metricLine("max", fmt.Sprintf("%.6f (bound %.6f)", r.Summary.Max, r.Box.MaxDistance())),
			metricLine("mean", fmt.Sprintf("%.6f ± %.6f", r.Summary.Mean, r.Summary.StdDev)),
		)
	}
	if r.RunID != "" {
		lines = append(lines, metricLine("run id", r.RunID))
	}
	b.WriteString(strings.Join(lines, "\n"))

	return Panel.Render(b.String())
}
