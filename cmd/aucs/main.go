// Command aucs runs the Aker Urban Convenience Score pipeline: a resumable,
// hash-checkpointed batch job over a metro's hex grid producing the seven
// subscores and the composite AUCS per cell.
//
// Root cobra.Command with a version flag, zerolog console writer set up in
// main, golang.org/x/term used to gate interactive behavior on a TTY.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/akerscore/aucs/internal/contracts"
	"github.com/akerscore/aucs/internal/logging"
)

const (
	appName = "aucs"
	version = "v0.1.0"
)

func main() {
	var logLevel string
	var humanLog bool

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Aker Urban Convenience Score pipeline",
		Version: version,
		Long: `aucs computes the Aker Urban Convenience Score: a composite measure of
walk/bike/transit/car-reachable everyday-life convenience for every cell of
a metro's hex grid.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Configure(logging.Level(logLevel), humanLog)
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVar(&humanLog, "human-log", isTTY(os.Stderr), "console-format logs instead of JSON")

	rootCmd.AddCommand(
		newRunCommand(),
		newValidateCommand(),
		newManifestCommand(),
		newServeCommand(),
		newExplainCommand(),
		newVersionCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(contracts.ExitCode(err))
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s\n", appName, version)
		},
	}
}
