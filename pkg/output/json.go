package output

import (
	"encoding/json"
	"io"

	"github.com/picogrid/outbreak-simulations/pkg/simulation"
)

func init() {
	Register("json", writeJSON)
}

func writeJSON(w io.Writer, report *simulation.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
