package main

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/microsoft/modelbench/internal/config"
	"github.com/microsoft/modelbench/internal/domain"
	"github.com/microsoft/modelbench/internal/models"
	"github.com/spf13/cobra"
)

func newCategoriesCommand() *cobra.Command {
	var benchmarkPath string
	cmd := &cobra.Command{
		Use:   "categories [prompt...]",
		Short: "List the category taxonomy or classify prompts",
		Long: `Without arguments, list the test case taxonomy.

With prompts, print the category each one resolves to. With --file, print
the resolved category of every test case in a benchmark file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			width := 0
			for _, c := range models.Categories() {
				width = max(width, runewidth.StringWidth(string(c)))
			}

			switch {
			case benchmarkPath != "":
				cfg, err := config.Load(benchmarkPath)
				if err != nil {
					return err
				}
				resolved := domain.ResolveCategories(cfg.TestCases)
				for _, tc := range cfg.TestCases {
					fmt.Fprintf(w, "%s  %s\n", runewidth.FillRight(string(resolved[tc.ID]), width), tc.DisplayName()) //nolint:errcheck
				}
			case len(args) > 0:
				for _, prompt := range args {
					label := "(unmatched)"
					if c, ok := domain.MatchCategory(prompt); ok {
						label = string(c)
					}
					fmt.Fprintf(w, "%s  %s\n", runewidth.FillRight(label, width), prompt) //nolint:errcheck
				}
			default:
				for _, c := range models.Categories() {
					fmt.Fprintln(w, c) //nolint:errcheck
				}
				fmt.Fprintln(w, strings.Repeat("-", width)) //nolint:errcheck
				fmt.Fprintf(w, "%d categories\n", len(models.Categories())) //nolint:errcheck
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&benchmarkPath, "file", "f", "", "Resolve categories of a benchmark file's test cases")
	return cmd
}
