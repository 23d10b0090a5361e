package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/seo-optimizer/contentscore/analyzer"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	groupStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	boxStyle    = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	statusGood    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	statusError   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func statusMarker(s analyzer.Status) string {
	switch s {
	case analyzer.StatusGood:
		return statusGood.Render("✓")
	case analyzer.StatusWarning:
		return statusWarning.Render("!")
	default:
		return statusError.Render("✗")
	}
}

func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return statusGood.Bold(true)
	case score >= 50:
		return statusWarning.Bold(true)
	default:
		return statusError.Bold(true)
	}
}

// renderReport writes a human readable report
func renderReport(w io.Writer, r *analyzer.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", headerStyle.Render("SEO score"), scoreStyle(r.Score).Render(fmt.Sprintf("%d/100", r.Score)))
	fmt.Fprintf(&b, "%s %.1f (%s, %s)\n", headerStyle.Render("Readability"),
		r.Readability.FleschScore, r.Readability.Level, r.Readability.GradeLabel)
	fmt.Fprintf(&b, "%s %d words, %d sentences, %d paragraphs\n\n", headerStyle.Render("Text"),
		r.Text.WordCount, r.Text.SentenceCount, r.Text.ParagraphCount)

	preview := fmt.Sprintf("%s\n%s\n%s\n%s",
		statusGood.Render(r.Preview.URL),
		headerStyle.Render(r.Preview.Title),
		r.Preview.Description,
		mutedStyle.Render(fmt.Sprintf("title %d chars, description %d chars", r.Preview.TitleLength, r.Preview.DescriptionLength)))
	if r.Preview.Overridden {
		preview += "\n" + mutedStyle.Render("(manual override)")
	}
	b.WriteString(boxStyle.Render(preview))
	b.WriteString("\n")

	for _, g := range r.Groups {
		good, warning, failed := g.Counts()
		fmt.Fprintf(&b, "\n%s %s\n", groupStyle.Render(g.Name),
			mutedStyle.Render(fmt.Sprintf("%d passed, %d warnings, %d failed", good, warning, failed)))
		for _, c := range g.Checks {
			fmt.Fprintf(&b, "  %s %s\n", statusMarker(c.Status), c.Message)
		}
	}

	if len(r.Breakdown) > 0 {
		fmt.Fprintf(&b, "\n%s\n", groupStyle.Render("Score breakdown"))
		for _, rs := range r.Breakdown {
			fmt.Fprintf(&b, "  %-16s %2d/%d\n", rs.Rule, rs.Points, rs.Max)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// writeJSON writes the report as indented JSON
func writeJSON(w io.Writer, r *analyzer.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
