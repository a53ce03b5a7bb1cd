package cmd

import (
	"bytes"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vidscribe/internal/api"
	"vidscribe/internal/i18n"
	"vidscribe/internal/util"
)

func newDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "download <filename>",
		Short:         "Download a result document from the server into the output directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			name := args[0]
			if err := api.ValidateResultFilename(name); err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			client, err := a.client(a.logger)
			if err != nil {
				return exitError(err)
			}
			var buf bytes.Buffer
			n, err := client.Download(cmd.Context(), name, &buf)
			if err != nil {
				return exitError(fmt.Errorf("download %s: %w", name, err))
			}
			path, err := util.WriteFileAtomic(a.opts.OutDir, name, buf.Bytes())
			if err != nil {
				return exitError(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", a.cat.T(i18n.KeySavedFile, path), humanize.IBytes(uint64(n)))
			return nil
		},
	}
}
