package main

import (
	"fmt"

	"github.com/microsoft/modelbench/internal/validation"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <benchmark.yaml>...",
		Short: "Check benchmark files and their datasets against the schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			invalid := 0
			for _, path := range args {
				benchErrs, datasetErrs, err := validation.ValidateBenchmarkFile(path)
				if err != nil {
					return err
				}
				if len(benchErrs) == 0 && len(datasetErrs) == 0 {
					fmt.Fprintf(w, "✓ %s\n", path) //nolint:errcheck
					continue
				}
				invalid++
				fmt.Fprintf(w, "✗ %s\n", path) //nolint:errcheck
				for _, e := range benchErrs {
					fmt.Fprintf(w, "    %s\n", e) //nolint:errcheck
				}
				for _, e := range datasetErrs {
					fmt.Fprintf(w, "    dataset: %s\n", e) //nolint:errcheck
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d benchmark file(s) invalid", invalid, len(args))
			}
			return nil
		},
	}
}
