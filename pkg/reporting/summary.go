// Package reporting renders batch results for the terminal.
package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/picogrid/outbreak-simulations/pkg/simulation"
	"github.com/picogrid/outbreak-simulations/pkg/ssa"
	"github.com/picogrid/outbreak-simulations/pkg/stats"
)

// Color definitions
var (
	colorHeader    = color.New(color.FgGreen, color.Bold)
	colorHumans    = color.New(color.FgBlue, color.Bold)
	colorZombies   = color.New(color.FgRed, color.Bold)
	colorUndecided = color.New(color.FgYellow)
	colorMuted     = color.New(color.FgHiBlack)
)

const barWidth = 30

// outcomeColor returns the color for an outcome
func outcomeColor(o ssa.Outcome) *color.Color {
	switch o {
	case ssa.HumansWin:
		return colorHumans
	case ssa.ZombiesWin:
		return colorZombies
	default:
		return colorUndecided
	}
}

// Totals sums the event counts of every run
func Totals(runs []stats.RunResult) stats.EventCounts {
	var total stats.EventCounts
	for _, r := range runs {
		total.Bites += r.Events.Bites
		total.Kills += r.Events.Kills
		total.Resisted += r.Events.Resisted
		total.ProtectedConversions += r.Events.ProtectedConversions
	}
	return total
}

// PrintSummary writes the outcome distribution of report to w
func PrintSummary(w io.Writer, report *simulation.Report, noColor bool) {
	paint := func(c *color.Color, s string) string {
		if noColor {
			return s
		}
		return c.Sprint(s)
	}

	tally := report.Summary.Tally
	id := report.ID.String()

	fmt.Fprintln(w)
	fmt.Fprintln(w, paint(colorHeader, "BATCH SUMMARY - "+id[:8]))
	fmt.Fprintln(w, paint(colorMuted, strings.Repeat("=", 50)))
	fmt.Fprintf(w, "Simulation: %s\n", report.Simulation)
	fmt.Fprintf(w, "Seed:       %d\n", report.Seed)
	fmt.Fprintf(w, "Runs:       %d in %s\n", tally.Total(), report.Finished.Sub(report.Started).Round(1e6))

	fmt.Fprintln(w, "\nOutcomes:")
	for _, o := range []ssa.Outcome{ssa.HumansWin, ssa.ZombiesWin, ssa.Undecided} {
		frac := tally.Fraction(o)
		filled := int(frac*barWidth + 0.5)
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		fmt.Fprintf(w, "   %s %s %5.1f%% (%d)\n",
			paint(outcomeColor(o), fmt.Sprintf("%-10s", o)), paint(outcomeColor(o), bar), frac*100, tally.Count(o))
	}

	events := Totals(report.Runs)
	fmt.Fprintln(w, "\nEvents:")
	fmt.Fprintf(w, "   %-22s: %d\n", "bites", events.Bites)
	fmt.Fprintf(w, "   %-22s: %d\n", "kills", events.Kills)
	if events.Resisted > 0 || events.ProtectedConversions > 0 {
		fmt.Fprintf(w, "   %-22s: %d\n", "resisted", events.Resisted)
		fmt.Fprintf(w, "   %-22s: %d\n", "protected conversions", events.ProtectedConversions)
	}
	fmt.Fprintf(w, "   %-22s: %.1f\n", "mean per run", report.Summary.MeanEvents)
	if report.Summary.MeanDecidedAt > 0 {
		fmt.Fprintf(w, "   %-22s: %.3f\n", "mean extinction time", report.Summary.MeanDecidedAt)
	}
	fmt.Fprintln(w, paint(colorMuted, strings.Repeat("=", 50)))
}

// PrintTally writes a stored tally, used when no full report is at hand
func PrintTally(w io.Writer, title string, tally stats.Tally, noColor bool) {
	paint := func(c *color.Color, s string) string {
		if noColor {
			return s
		}
		return c.Sprint(s)
	}

	fmt.Fprintln(w, paint(colorHeader, title))
	for _, o := range []ssa.Outcome{ssa.HumansWin, ssa.ZombiesWin, ssa.Undecided} {
		fmt.Fprintf(w, "   %s %6d  %5.1f%%\n", paint(outcomeColor(o), fmt.Sprintf("%-10s", o)), tally.Count(o), tally.Fraction(o)*100)
	}
	fmt.Fprintf(w, "   %-10s %6d\n", "total", tally.Total())
}
