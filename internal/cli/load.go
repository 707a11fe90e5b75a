package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"hiringMetrics/internal/db"
	"hiringMetrics/internal/loader"
	"hiringMetrics/internal/service"
)

var loadCmd = &cobra.Command{
	Use:   "load --table TABLE FILE [FILE...]",
	Short: "Load CSV files into a table without starting the server",
	Long: `Load runs the batch loader against the configured database.
Rows whose id already exists in the table, or earlier in the same file, are skipped.
Use "-" to read from stdin.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringP("table", "t", "", "Target table: departments, jobs or hired_employees")
	_ = loadCmd.MarkFlagRequired("table")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr())

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	table, err := cmd.Flags().GetString("table")
	if err != nil {
		return err
	}

	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer d.Close()

	svc := service.NewHiringService(d, service.Options{
		Loader: loader.Options{
			BatchSize:        cfg.Loader.BatchSize,
			StatementTimeout: cfg.Loader.StatementTimeout,
			Logger:           loaderLogger(cmd, logger),
		},
	}, logger)

	out := cmd.OutOrStdout()
	for _, name := range args {
		stats, err := loadOne(cmd, svc, table, name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Fprintf(out, "%s: read=%d inserted=%d skipped=%d batches=%d\n",
			name, stats.Read, stats.Inserted, stats.Skipped, stats.Batches)
	}
	return nil
}

func loadOne(cmd *cobra.Command, svc *service.HiringService, table, name string) (loader.Stats, error) {
	var r io.Reader = cmd.InOrStdin()
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return loader.Stats{}, err
		}
		defer f.Close()
		r = f
	}
	return svc.Load(cmd.Context(), table, name, r)
}
