package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"vidscribe/internal/render"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "status <task-id>",
		Short:         "Show the current state of a task",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			client, err := a.client(a.logger)
			if err != nil {
				return exitError(err)
			}
			p, err := a.printer(cmd)
			if err != nil {
				return exitError(err)
			}

			rec, err := client.TaskStatus(cmd.Context(), args[0])
			if err != nil {
				return exitError(fmt.Errorf("task %s: %w", args[0], err))
			}
			return p.PrintTask(args[0], *rec)
		},
	}
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "watch <task-id>",
		Short:         "Follow a task submitted earlier until it ends",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			client, err := a.client(a.logger)
			if err != nil {
				return exitError(err)
			}
			store, closeStore := a.openStoreOrMemory(cmd.Context(), a.logger)
			defer closeStore()

			svc, err := a.sessionFactory(client, store, a.logger)(render.NewTextReporter(cmd.OutOrStdout(), a.cat))
			if err != nil {
				return exitError(err)
			}
			return withSignals(cmd.Context(), func(ctx context.Context) error {
				_, err := svc.Follow(ctx, args[0])
				return err
			})
		},
	}
}

func newCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "cancel <task-id>",
		Short:         "Cancel a running task on the server",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			client, err := a.client(a.logger)
			if err != nil {
				return exitError(err)
			}
			p, err := a.printer(cmd)
			if err != nil {
				return exitError(err)
			}

			if err := client.CancelTask(cmd.Context(), args[0]); err != nil {
				return exitError(fmt.Errorf("task %s: %w", args[0], err))
			}
			return p.PrintMessage(fmt.Sprintf("Task %s cancelled", args[0]))
		},
	}
}
