// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"

	"github.com/azure/dotenv-azure/internal"
	"github.com/azure/dotenv-azure/pkg/output"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dotenv-azure.",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := output.GetFormatter(cmd)
			if err != nil {
				return err
			}

			switch formatter.Kind() {
			case output.NoneFormat:
				fmt.Fprintf(cmd.OutOrStdout(), "dotenv-azure version %s\n", internal.Version)
			case output.JsonFormat:
				if err := formatter.Format(internal.GetVersionSpec(), cmd.OutOrStdout(), nil); err != nil {
					return err
				}
			}

			return nil
		},
	}

	return output.AddOutputParam(cmd, []output.Format{output.JsonFormat, output.NoneFormat}, output.NoneFormat)
}
