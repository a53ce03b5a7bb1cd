package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidscribe/internal/history"
	"vidscribe/internal/i18n"
	"vidscribe/internal/util"
	"vidscribe/internal/util/media"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, show and delete completed tasks",
	}
	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryRmCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var (
		page  int
		limit int
		local bool
	)
	cmd := &cobra.Command{
		Use:           "list",
		Aliases:       []string{"ls"},
		Short:         "List completed tasks, newest first",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			hs, closeFn, err := a.history(cmd.Context())
			if err != nil {
				return exitError(err)
			}
			defer closeFn()
			p, err := a.printer(cmd)
			if err != nil {
				return exitError(err)
			}

			res, origin, err := hs.List(cmd.Context(), page, limit, local)
			if err != nil {
				return exitError(err)
			}
			switch origin {
			case history.OriginFallback:
				fmt.Fprintln(cmd.ErrOrStderr(), a.cat.T(i18n.KeyHistoryOffline))
			case history.OriginLocal:
				fmt.Fprintln(cmd.ErrOrStderr(), a.cat.T(i18n.KeyHistoryLocal))
			}
			return p.PrintHistory(*res)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&limit, "limit", 20, "Items per page (max 100)")
	cmd.Flags().BoolVar(&local, "local", false, "Only read the local cache")
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:           "show <task-id>",
		Short:         "Show a completed task",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			hs, closeFn, err := a.history(cmd.Context())
			if err != nil {
				return exitError(err)
			}
			defer closeFn()
			p, err := a.printer(cmd)
			if err != nil {
				return exitError(err)
			}

			d, err := hs.Get(cmd.Context(), args[0])
			if err != nil {
				return exitError(fmt.Errorf("task %s: %w", args[0], err))
			}
			if err := p.PrintDetail(*d); err != nil {
				return err
			}
			if !save {
				return nil
			}

			for _, f := range media.ResultFiles(*d) {
				path, err := util.WriteFileAtomic(a.opts.OutDir, f.Name, []byte(f.Content))
				if err != nil {
					return exitError(err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), a.cat.T(i18n.KeySavedFile, path))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Also write the result documents into the output directory")
	return cmd
}

func newHistoryRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "rm <task-id>",
		Aliases:       []string{"delete"},
		Short:         "Delete a completed task on the server and in the local cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			hs, closeFn, err := a.history(cmd.Context())
			if err != nil {
				return exitError(err)
			}
			defer closeFn()
			p, err := a.printer(cmd)
			if err != nil {
				return exitError(err)
			}

			if err := hs.Delete(cmd.Context(), args[0]); err != nil {
				return exitError(fmt.Errorf("task %s: %w", args[0], err))
			}
			return p.PrintMessage(fmt.Sprintf("Task %s deleted", args[0]))
		},
	}
}
