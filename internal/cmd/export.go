// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/azure/dotenv-azure/pkg/dotenvazure"
	"github.com/azure/dotenv-azure/pkg/output"
	"github.com/spf13/cobra"
)

func newExportCommand() *cobra.Command {
	flags := &loaderFlags{}

	cmd := &cobra.Command{
		Use:   "export [options]",
		Short: "Print the merged configuration without touching the environment.",
		Long: heredoc.Doc(`
		Print the merged configuration without touching the environment.

		The local dotenv file, the App Configuration store and the Key Vault secrets it
		references are merged under the usual precedence and written to stdout. Nothing
		is applied to the process environment, so the output is safe to pipe:

			eval "$(dotenv-azure export --output export)"
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := output.GetFormatter(cmd)
			if err != nil {
				return err
			}

			src, err := os.ReadFile(flags.envFile)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("reading local file %s: %w", flags.envFile, err)
			}

			merged, err := dotenvazure.Parse(cmd.Context(), src, flags.options()...)
			if err != nil {
				return err
			}

			return formatter.Format(merged, cmd.OutOrStdout(), nil)
		},
	}

	flags.Bind(cmd.Flags())

	return output.AddOutputParam(
		cmd,
		[]output.Format{output.EnvVarsFormat, output.JsonFormat, output.ExportFormat},
		output.EnvVarsFormat,
	)
}
