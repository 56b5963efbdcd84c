package output

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/picogrid/outbreak-simulations/pkg/simulation"
	"github.com/picogrid/outbreak-simulations/pkg/ssa"
)

func init() {
	Register("md", writeMarkdown)
}

// writeMarkdown renders a batch report: parameters, outcome shares and per-run finals
func writeMarkdown(w io.Writer, report *simulation.Report) error {
	var sb strings.Builder
	tally := report.Summary.Tally

	sb.WriteString("# Batch Report\n\n")
	sb.WriteString(fmt.Sprintf("**Simulation:** %s\n", report.Simulation))
	sb.WriteString(fmt.Sprintf("**Batch ID:** %s\n", report.ID))
	sb.WriteString(fmt.Sprintf("**Seed:** %d\n", report.Seed))
	sb.WriteString(fmt.Sprintf("**Started:** %s\n", report.Started.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("**Duration:** %s\n\n", report.Finished.Sub(report.Started)))

	if len(report.Parameters) > 0 {
		sb.WriteString("## Parameters\n\n")
		keys := maps.Keys(report.Parameters)
		slices.Sort(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("- **%s:** %v\n", k, report.Parameters[k]))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Outcomes\n\n")
	sb.WriteString("| Outcome | Runs | Share |\n|---|---:|---:|\n")
	for _, o := range []ssa.Outcome{ssa.HumansWin, ssa.ZombiesWin, ssa.Undecided} {
		sb.WriteString(fmt.Sprintf("| %s | %d | %.1f%% |\n", o, tally.Count(o), tally.Fraction(o)*100))
	}
	sb.WriteString(fmt.Sprintf("\n**Mean events per run:** %.1f\n", report.Summary.MeanEvents))
	if report.Summary.MeanDecidedAt > 0 {
		sb.WriteString(fmt.Sprintf("**Mean extinction time:** %.3f\n", report.Summary.MeanDecidedAt))
	}

	if len(report.Runs) > 0 {
		sb.WriteString("\n## Runs\n\n")
		sb.WriteString("| Run | Outcome | Humans | Zombies | Vaccinated | Decided at | Events |\n")
		sb.WriteString("|---:|---|---:|---:|---:|---:|---:|\n")
		for _, r := range report.Runs {
			decided := "-"
			if r.Outcome != ssa.Undecided {
				decided = fmt.Sprintf("%.3f", r.DecidedAt)
			}
			sb.WriteString(fmt.Sprintf("| %d | %s | %d | %d | %d | %s | %d |\n",
				r.Index, r.Outcome, r.Final.H, r.Final.Z, r.Final.V, decided, r.Events.Total()))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
