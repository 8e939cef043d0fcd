// Package cmd provides the command-line interface of roisim.
package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// Environment variables that provide flag defaults. They can also be set in
// a .env file in the working directory.
const (
	envLogLevel    = "ROISIM_LOG_LEVEL"
	envMonitorPort = "ROISIM_MONITOR_PORT"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "roisim",
		Short: "roisim measures the region of interest of a workload.",
		Long: `roisim assembles a single core machine with a two level cache ` +
			`hierarchy and DDR4 memory, runs a workload on it and reports ` +
			`the time, instructions and cycles spent between the ` +
			`WORK_BEGIN and WORK_END markers of the workload.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, _ := cmd.Flags().GetString("log")

			return setupLogging(level)
		},
	}

	rootCmd.PersistentFlags().String("log", envOr(envLogLevel, "warning"),
		"Log level (trace, debug, info, warning, error).")

	rootCmd.AddCommand(newRunCmd(), newDescribeCmd(), newStatsCmd())

	return rootCmd
}

func loadDotEnv() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("cannot load .env: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	return fallback
}

func setupLogging(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}

	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	return nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It exits the process when the command finishes so that the
// recorders registered with atexit can flush.
func Execute() {
	loadDotEnv()

	err := newRootCmd().Execute()
	if err != nil {
		log.Error(err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
