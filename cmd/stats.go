package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/roisim/datarecording"
	"github.com/sarchlab/roisim/simulation"
)

func newStatsCmd() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the statistics recorded by a previous run.",
		Long: "Read the exit events and the statistics that " +
			"`roisim run --stats-db` recorded into a SQLite file.",
		Args: cobra.NoArgs,
		RunE: printRecordedStats,
	}

	flags := statsCmd.Flags()
	flags.String("stats-db", "", "SQLite file written by roisim run.")
	flags.String("prefix", "", "Only print statistics under this path.")
	flags.Int("limit", 0, "Print at most this many statistics. 0 prints all.")

	_ = statsCmd.MarkFlagRequired("stats-db")

	return statsCmd
}

func printRecordedStats(cmd *cobra.Command, _ []string) error {
	target, _ := cmd.Flags().GetString("stats-db")
	prefix, _ := cmd.Flags().GetString("prefix")
	limit, _ := cmd.Flags().GetInt("limit")

	if !strings.HasSuffix(target, ".sqlite3") {
		target += ".sqlite3"
	}

	reader, err := datarecording.NewReader(target)
	if err != nil {
		return fmt.Errorf("opening stats db: %w", err)
	}
	defer reader.Close()

	reader.MapTable(simulation.ExitTable, simulation.ExitRecord{})
	reader.MapTable(simulation.StatsTable, simulation.StatRecord{})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()

	if err := printExitEvents(ctx, reader, out); err != nil {
		return err
	}

	params := datarecording.QueryParams{
		OrderBy: "Path",
		Limit:   limit,
	}

	if prefix != "" {
		params.Where = "Path LIKE ?"
		params.Args = []any{prefix + "%"}
	}

	rows, total, err := reader.Query(ctx, simulation.StatsTable, params)
	if err != nil {
		return fmt.Errorf("reading %s: %w", simulation.StatsTable, err)
	}

	for _, row := range rows {
		r := row.(*simulation.StatRecord)
		fmt.Fprintf(out, "%s: %g\n", r.Path, r.Value)
	}

	if len(rows) < total {
		fmt.Fprintf(out, "(%d of %d statistics)\n", len(rows), total)
	}

	return nil
}

func printExitEvents(
	ctx context.Context,
	reader datarecording.DataReader,
	out io.Writer,
) error {
	rows, _, err := reader.Query(ctx, simulation.ExitTable,
		datarecording.QueryParams{OrderBy: "Time, rowid"})
	if err != nil {
		return fmt.Errorf("reading %s: %w", simulation.ExitTable, err)
	}

	for _, row := range rows {
		r := row.(*simulation.ExitRecord)
		fmt.Fprintf(out, "exit %s at %d\n", r.Event, r.Time)
	}

	return nil
}
