package main

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/microsoft/modelbench/internal/config"
	"github.com/spf13/cobra"
)

func newRunsCommand() *cobra.Command {
	var sf storeFlags
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(config.NewRunSettings(sf.options()...))
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			runs, err := st.ListRuns(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(w, "No runs found.") //nolint:errcheck
				return nil
			}

			nameWidth := runewidth.StringWidth("BENCHMARK")
			for _, r := range runs {
				nameWidth = max(nameWidth, runewidth.StringWidth(r.Config.Name))
			}
			fmt.Fprintf(w, "%-36s  %-9s  %s  %-8s  %s\n", "ID", "STATE", runewidth.FillRight("BENCHMARK", nameWidth), "CELLS", "CREATED") //nolint:errcheck
			for _, r := range runs {
				fmt.Fprintf(w, "%-36s  %-9s  %s  %-8s  %s\n", //nolint:errcheck
					r.ID, r.State, runewidth.FillRight(r.Config.Name, nameWidth),
					fmt.Sprintf("%d/%d", r.Status.Progress, r.Status.TotalTests),
					r.CreatedAt.Local().Format(time.DateTime))
			}
			return nil
		},
	}
	sf.register(cmd)
	return cmd
}
