// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/azure/dotenv-azure/pkg/dotenvazure"
	"github.com/azure/dotenv-azure/pkg/output"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newCheckCommand() *cobra.Command {
	flags := &loaderFlags{}
	var allowEmptyValues bool

	cmd := &cobra.Command{
		Use:   "check [options]",
		Short: "Verify that every variable required by the example file would be set.",
		Long: heredoc.Doc(`
		Verify that every variable required by the example file would be set.

		Configuration is loaded exactly as run loads it, but into a scratch copy of the
		process environment, and then compared against the example file. The process
		environment is never modified. A non-zero exit lists the missing variables.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := dotenvazure.NewMapEnvironment()

			opts := flags.options(
				dotenvazure.WithEnvironment(env),
				dotenvazure.WithSafe(),
			)
			if allowEmptyValues {
				opts = append(opts, dotenvazure.WithAllowEmptyValues())
			}

			if _, err := dotenvazure.Config(cmd.Context(), opts...); err != nil {
				return err
			}

			// stay quiet in scripts and CI logs
			if isatty.IsTerminal(os.Stdout.Fd()) {
				fmt.Fprintln(
					cmd.OutOrStdout(),
					output.WithSuccessFormat("All variables required by %s are set.", flags.example),
				)
			}

			return nil
		},
	}

	flags.Bind(cmd.Flags())
	cmd.Flags().BoolVar(&allowEmptyValues, "allow-empty-values", false, "Accept variables that are set but empty")

	return cmd
}
