package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/picogrid/outbreak-simulations/pkg/config"
	"github.com/picogrid/outbreak-simulations/pkg/logger"
	"github.com/picogrid/outbreak-simulations/pkg/reporting"
	"github.com/picogrid/outbreak-simulations/pkg/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats [batch-id]",
	Short: "Show recorded outcome tallies",
	Long: `Show the batches recorded with run --db and their outcome tallies.
With a batch ID only that batch is tallied.`,
	Args: cobra.MaximumNArgs(1),
	RunE: showStats,
}

func init() {
	statsCmd.Flags().String("db", "", "SQLite database (default is $HOME/.outbreak-sim/outcomes.db)")
}

func showStats(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = viper.GetString("db")
	}
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "outcomes.db")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("no outcome database at %s (record one with run --db)", path)
	}

	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	batchID := ""
	title := "All batches"
	if len(args) > 0 {
		batchID = args[0]
		title = "Batch " + batchID
	} else {
		batches, err := db.Batches(ctx)
		if err != nil {
			return err
		}
		if len(batches) == 0 {
			fmt.Println("No batches recorded")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "BATCH\tSIMULATION\tRUNS\tSEED\tSTARTED")
		_, _ = fmt.Fprintln(w, "-----\t----------\t----\t----\t-------")
		for _, b := range batches {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
				b.ID, b.Simulation, b.Runs, b.Seed, b.Started.Local().Format("2006-01-02 15:04:05"))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Println()
	}

	tally, err := db.Tally(ctx, batchID)
	if err != nil {
		return err
	}
	if tally.Total() == 0 {
		return fmt.Errorf("no outcomes recorded for batch %s", batchID)
	}

	reporting.PrintTally(os.Stdout, title, tally, logger.NoColor())
	return nil
}
