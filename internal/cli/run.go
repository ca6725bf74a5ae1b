package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dicehub/dice-warehouse/internal/db"
	"github.com/dicehub/dice-warehouse/internal/logging"
	"github.com/dicehub/dice-warehouse/internal/sink"
	"github.com/dicehub/dice-warehouse/internal/source"
	"github.com/dicehub/dice-warehouse/internal/warehouse"
)

var (
	runDateStart string
	runDateEnd   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Rebuild the warehouse from the raw extracts",
	Long: `Read the raw extracts, conform the dimensions, derive the fact
tables and the 2024 revenue estimate, and write every output table.

Example:
  dice-warehouse run --raw-dir data/raw --warehouse-dir data/warehouse`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runDateStart, "date-start", "",
		"first day of the calendar dimension (YYYY-MM-DD)")
	runCmd.Flags().StringVar(&runDateEnd, "date-end", "",
		"last day of the calendar dimension (YYYY-MM-DD)")
}

func runRun(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if runDateStart != "" {
		cfg.DateDim.Start = runDateStart
	}
	if runDateEnd != "" {
		cfg.DateDim.End = runDateEnd
	}

	if err := cfg.ValidateRun(); err != nil {
		return err
	}
	dateStart, dateEnd, err := cfg.DateRange()
	if err != nil {
		return err
	}

	logging.Info().
		Str("raw_dir", cfg.RawDir).
		Str("warehouse_dir", cfg.WarehouseDir).
		Msg("Rebuilding warehouse")

	ctx := context.Background()
	writers := []sink.Writer{sink.NewCSVWriter(cfg.WarehouseDir)}

	if cfg.Connection != "" {
		pool, err := db.Connect(ctx, cfg.Connection)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
		writers = append(writers, sink.NewPGWriter(pool))
	}

	pipeline := warehouse.NewPipeline(
		source.NewCSVSource(cfg.RawDir), writers, dateStart, dateEnd)

	counts, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	cmd.Println("Row counts:")
	for _, name := range names {
		cmd.Printf("  %-30s %d\n", name, counts[name])
	}

	return nil
}
