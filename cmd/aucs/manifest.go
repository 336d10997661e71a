package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/akerscore/aucs/internal/manifest"
)

func newManifestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest <output-dir>",
		Short: "Print the run manifest for an output directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.NewIO(args[0] + "/manifest.json").Load()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(m)
		},
	}
	return cmd
}
