package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akerscore/aucs/internal/contracts"
	"github.com/akerscore/aucs/internal/params"
)

func newValidateCommand() *cobra.Command {
	var paramsPath, artifactPath, schemaName string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a parameter document, or an artifact against a contract schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if paramsPath != "" {
				return validateParams(paramsPath)
			}
			if artifactPath != "" {
				return validateArtifact(artifactPath, schemaName)
			}
			return fmt.Errorf("%w: one of --params or --artifact is required", contracts.ErrValidation)
		},
	}

	cmd.Flags().StringVar(&paramsPath, "params", "", "parameter document to validate")
	cmd.Flags().StringVar(&artifactPath, "artifact", "", "JSON array of rows to validate against a contract schema")
	cmd.Flags().StringVar(&schemaName, "schema", "", "contract schema name (e.g. places, skim, aucs)")

	return cmd
}

func validateParams(path string) error {
	snap, err := params.Load(path, params.Overrides{})
	if err != nil {
		return fmt.Errorf("%w: %v", contracts.ErrValidation, err)
	}
	if issues := params.Validate(snap); len(issues) > 0 {
		for _, issue := range issues {
			fmt.Fprintln(os.Stderr, issue)
		}
		return fmt.Errorf("%w: %d issue(s)", contracts.ErrValidation, len(issues))
	}
	fmt.Printf("parameters valid, hash %s\n", snap.ParamHash)
	return nil
}

func validateArtifact(path, schemaName string) error {
	if schemaName == "" {
		return fmt.Errorf("%w: --schema is required with --artifact", contracts.ErrValidation)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read artifact %s: %w", path, err)
	}
	var rows []contracts.Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("decode artifact %s: %w", path, err)
	}

	result, err := contracts.DefaultRegistry().ValidateRows(schemaName, rows)
	if err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		for _, e := range result.FirstN(20) {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return fmt.Errorf("%w: %d row(s) failed schema %q", contracts.ErrContractViolation, len(result.Errors), schemaName)
	}
	fmt.Printf("%d rows valid against schema %q\n", len(rows), schemaName)
	return nil
}
