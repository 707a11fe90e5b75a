package cli

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"hiringMetrics/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "hiring",
	Short: "CSV ingestion and hiring reports over SQLite",
	Long: `hiring loads departments, jobs and hired employees from CSV files into a
SQLite database and serves queries and two 2021 hiring reports over HTTP
(and optionally gRPC).

Without a subcommand it runs "serve".`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every loader batch")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

func newLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stdout
	}
	return log.New(w, "", log.LstdFlags)
}

// loaderLogger returns logger when --verbose is set, nil otherwise.
func loaderLogger(cmd *cobra.Command, logger *log.Logger) *log.Logger {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil || !verbose {
		return nil
	}
	return logger
}
