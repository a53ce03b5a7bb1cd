package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"vidscribe/internal/api"
	"vidscribe/internal/model"
)

const (
	ExitOK         = 0
	ExitCLIError   = 1
	ExitValidation = 2
	ExitSubmission = 3
	ExitTask       = 4
	ExitStream     = 5
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// exitCodeFor maps a session error onto its exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, model.ErrValidation):
		return ExitValidation
	case errors.Is(err, model.ErrSubmission):
		return ExitSubmission
	case errors.Is(err, model.ErrTask):
		return ExitTask
	case errors.Is(err, model.ErrStream):
		return ExitStream
	}
	return ExitCLIError
}

func exitError(err error) error {
	if err == nil {
		return nil
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee
	}
	return &ExitError{Code: exitCodeFor(err), Err: err}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:   "vidscribe [urls...]",
		Short: "Transcribe and summarize videos and podcasts",
		Long: "vidscribe submits video and podcast links to a transcription server, follows " +
			"the processing live and saves the transcript, translation and summary as markdown.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(v, cmd)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			cmd.SetContext(withApp(cmd.Context(), a))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runExecute(cmd, args, runMode{})
		},
	}

	bindGlobalFlags(root.PersistentFlags())
	bindRunFlags(root.Flags())

	root.AddCommand(newRunCmd())
	root.AddCommand(newTuiCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newCancelCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newDownloadCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

func bindGlobalFlags(fs *pflag.FlagSet) {
	fs.String("server", api.DefaultBaseURL, "Transcription server URL")
	fs.String("lang", "zh", "Summary and translation language, also used for messages")
	fs.String("out-dir", "", "Directory for result markdown files (default: data dir)")
	fs.BoolP("verbose", "v", false, "Log informational messages")
	fs.Bool("debug", false, "Log debug messages, including every request")
	fs.String("log-format", "text", "Log format: text, json")
	fs.Duration("timeout", 0, "Timeout of non-streaming requests (default 30s)")
	fs.String("db-path", "", "Local history cache database (default: state dir)")
	fs.Bool("no-cache", false, "Keep the history cache in memory only")
	fs.StringP("output", "o", "table", "Output format: table, json, yaml")
}

func bindRunFlags(fs *pflag.FlagSet) {
	fs.Bool("no-ui", false, "Disable TUI; use plain textual output")
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	return root.ExecuteContext(ctx)
}
