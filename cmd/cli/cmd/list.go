package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/picogrid/outbreak-simulations/pkg/output"
	"github.com/picogrid/outbreak-simulations/pkg/simulation"
	"github.com/picogrid/outbreak-simulations/pkg/utils"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available simulations",
	Long:  `List all available simulations with their descriptions and parameters`,
	RunE:  listSimulations,
}

func init() {
	listCmd.Flags().BoolP("verbose", "v", false, "show every parameter with its default")
}

func listSimulations(cmd *cobra.Command, args []string) error {
	simInfos, err := utils.DiscoverSimulations(simulation.DefaultRegistry)
	if err != nil {
		return fmt.Errorf("failed to discover simulations: %w", err)
	}

	if len(simInfos) == 0 {
		fmt.Println("No simulations found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tALIAS\tVERSION\tCATEGORY\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "----\t-----\t-------\t--------\t-----------")

	for _, info := range simInfos {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			info.Config.Name,
			info.Alias,
			info.Config.Version,
			info.Config.Category,
			info.Config.Description,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		for _, info := range simInfos {
			fmt.Printf("\n%s parameters:\n", info.Config.Name)
			pw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(pw, "  NAME\tTYPE\tDEFAULT\tDESCRIPTION")
			for _, p := range info.Config.Parameters {
				_, _ = fmt.Fprintf(pw, "  %s\t%s\t%v\t%s\n", p.Name, p.Type, p.Default, p.Description)
			}
			if err := pw.Flush(); err != nil {
				return err
			}
		}
	}

	fmt.Printf("\nOutput formats: %v\n", output.Formats())
	return nil
}
