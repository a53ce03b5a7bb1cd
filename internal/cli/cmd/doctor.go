package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Check the server connection and the local history cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			client, err := a.client(a.logger)
			if err != nil {
				return exitError(err)
			}
			fmt.Fprintf(out, "Server:     %s\n", client.BaseURL())
			active, err := client.ActiveTasks(ctx)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("server unreachable: %w", err)}
			}
			fmt.Fprintf(out, "Active:     %d task(s), %d URL(s) processing\n", active.ActiveTasks, active.ProcessingURLs)

			if a.opts.NoCache {
				fmt.Fprintln(out, "Cache:      disabled")
			} else {
				store, closeStore, err := a.openStore(ctx, a.logger)
				if err != nil {
					return &ExitError{Code: ExitCLIError, Err: err}
				}
				defer closeStore()
				page, err := store.ListResults(ctx, 1, 1)
				if err != nil {
					return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("history cache unreadable: %w", err)}
				}
				fmt.Fprintf(out, "Cache:      %s (%d result(s))\n", a.opts.DBPath, page.Total)
			}
			fmt.Fprintf(out, "Output dir: %s\n", a.opts.OutDir)
			return nil
		},
	}
}
