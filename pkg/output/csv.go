package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/picogrid/outbreak-simulations/pkg/simulation"
)

func init() {
	Register("csv", writeCSV)
}

// writeCSV emits one row per trajectory sample across all runs
func writeCSV(w io.Writer, report *simulation.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"run", "time", "humans", "zombies", "vaccinated"}); err != nil {
		return err
	}

	for _, run := range report.Runs {
		idx := strconv.Itoa(run.Index)
		for _, s := range run.Trajectory {
			row := []string{
				idx,
				strconv.FormatFloat(s.Time, 'g', -1, 64),
				strconv.Itoa(s.State.H),
				strconv.Itoa(s.State.Z),
				strconv.Itoa(s.State.V),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
