package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/oklog/run"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vidscribe/internal/log"
	"vidscribe/internal/render"
	"vidscribe/internal/ui"
	"vidscribe/internal/util"
)

type runMode struct {
	ForceTUI    bool
	Interactive bool
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "run <urls...>",
		Short:         "Submit videos or podcasts and follow them until done",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, args, runMode{})
		},
	}
	bindRunFlags(cmd.Flags())
	return cmd
}

func runExecute(cmd *cobra.Command, urls []string, mode runMode) error {
	a := appFrom(cmd)
	noUI, _ := cmd.Flags().GetBool("no-ui")
	useTUI := mode.ForceTUI || (!noUI && isTerminal())

	if a.opts.OutDir != "" {
		if err := util.EnsureDir(a.opts.OutDir); err != nil {
			return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("failed to create output dir: %w", err)}
		}
	}

	return withSignals(cmd.Context(), func(ctx context.Context) error {
		if useTUI {
			return runTUI(ctx, a, urls, mode.Interactive)
		}
		return runText(ctx, cmd, a, urls)
	})
}

// withSignals runs fn until it returns or SIGINT/SIGTERM arrives. It is the
// only place the CLI listens for signals.
func withSignals(parent context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var fnErr error
	var g run.Group
	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))
	g.Add(func() error {
		fnErr = fn(ctx)
		return fnErr
	}, func(error) {
		cancel()
	})

	err := g.Run()
	var sigErr run.SignalError
	if errors.As(err, &sigErr) {
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("interrupted by %s", sigErr.Signal)}
	}
	return exitError(fnErr)
}

// runText follows every URL in turn, printing one line per visible change.
func runText(ctx context.Context, cmd *cobra.Command, a *app, urls []string) error {
	client, err := a.client(a.logger)
	if err != nil {
		return err
	}
	store, closeStore := a.openStoreOrMemory(ctx, a.logger)
	defer closeStore()
	newSession := a.sessionFactory(client, store, a.logger)

	var failures []error
	for _, u := range urls {
		rep := render.NewTextReporter(cmd.OutOrStdout(), a.cat)
		svc, err := newSession(rep)
		if err != nil {
			return err
		}
		_, err = svc.Run(ctx, u)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			// Task and stream failures are already reported by the renderer.
			code := exitCodeFor(err)
			if len(urls) > 1 && (code == ExitValidation || code == ExitSubmission) {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", u, err)
			}
			failures = append(failures, err)
		}
	}
	return summarize(failures, len(urls))
}

func runTUI(ctx context.Context, a *app, urls []string, interactive bool) error {
	client, err := a.client(log.Noop)
	if err != nil {
		return err
	}
	store, closeStore := a.openStoreOrMemory(ctx, log.Noop)
	defer closeStore()

	outcomes, err := ui.Run(ctx, ui.Config{
		NewSession:  a.sessionFactory(client, store, log.Noop),
		Catalog:     a.cat,
		URLs:        urls,
		Interactive: interactive,
	})
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}

	var failures []error
	for _, o := range outcomes {
		if o.Err != nil && !errors.Is(o.Err, context.Canceled) {
			failures = append(failures, fmt.Errorf("%s: %w", o.URL, o.Err))
		}
	}
	return summarize(failures, len(outcomes))
}

// summarize keeps the exit code of the first failure.
func summarize(failures []error, total int) error {
	switch len(failures) {
	case 0:
		return nil
	case 1:
		if total == 1 {
			return &ExitError{Code: exitCodeFor(failures[0]), Err: failures[0]}
		}
	}
	return &ExitError{
		Code: exitCodeFor(failures[0]),
		Err:  fmt.Errorf("%d of %d task(s) failed: %w", len(failures), total, errors.Join(failures...)),
	}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
