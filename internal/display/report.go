// Package display formats analysis reports as plain text.
package display

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ramonehamilton/manabase/internal/analysis"
)

// maxHandRows caps how many opening-hand vectors a report prints; the tail
// of a big support carries negligible mass.
const maxHandRows = 25

// barWidth is the width of the probability bars in characters.
const barWidth = 30

// FormatReport renders a full analysis report.
func FormatReport(report *analysis.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Manabase Analysis\n")
	fmt.Fprintf(&b, "=================\n")
	fmt.Fprintf(&b, "Deck: %s\n", report.Deck)
	fmt.Fprintf(&b, "Size: %d cards (%d lands, %d spells)\n",
		report.Deck.Size(), report.Deck.LandCount(), report.Deck.SpellCount())
	fmt.Fprintf(&b, "Hand size: %d\n", report.HandSize)
	fmt.Fprintf(&b, "Distinct opening hands: %s\n", report.DistinctHands)

	if len(report.Hands) > 0 {
		b.WriteString("\n")
		b.WriteString(formatHands(report))
	}

	for _, td := range report.Turns {
		b.WriteString("\n")
		b.WriteString(formatTurn(report.Statistic, td))
	}

	return b.String()
}

func formatHands(report *analysis.Report) string {
	var b strings.Builder

	categories := report.Deck.Categories()
	header := make([]string, len(categories))
	for i, c := range categories {
		header[i] = c.String()
	}
	fmt.Fprintf(&b, "Opening hands by probability (%s)\n", strings.Join(header, " / "))

	rows := report.Hands
	truncated := false
	if len(rows) > maxHandRows {
		rows = rows[:maxHandRows]
		truncated = true
	}
	for _, vp := range rows {
		p := vp.Float64()
		fmt.Fprintf(&b, "  %-18s %7.3f%% %s\n", vp.Vector, p*100, bar(p))
	}
	if truncated {
		fmt.Fprintf(&b, "  ... %d more hands\n", len(report.Hands)-maxHandRows)
	}
	return b.String()
}

func formatTurn(statistic string, td analysis.TurnDistribution) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Turn %d: %s\n", td.Turn, statistic)

	values := make([]int, 0, len(td.Values))
	for v := range td.Values {
		values = append(values, v)
	}
	sort.Ints(values)

	floats := td.Values.Floats()
	for _, v := range values {
		p := floats[v]
		fmt.Fprintf(&b, "  %2d  %7.3f%% %s\n", v, p*100, bar(p))
	}
	return b.String()
}

func bar(p float64) string {
	n := int(p*barWidth + 0.5)
	if n > barWidth {
		n = barWidth
	}
	return strings.Repeat("█", n)
}
