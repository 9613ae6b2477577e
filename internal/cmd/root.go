// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package cmd implements the dotenv-azure command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/azure/dotenv-azure/pkg/dotenvazure"
	"github.com/azure/dotenv-azure/pkg/keyvault"
	"github.com/azure/dotenv-azure/pkg/output"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dotenv-azure <command> [options]",
		Short: "Load .env files, Azure App Configuration and Key Vault secrets into the environment.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
				color.NoColor = true
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug and diagnostics logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable color output")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// loaderFlags are the flags shared by every command that performs a load.
type loaderFlags struct {
	envFile          string
	example          string
	rateLimit        int
	connectionString string
	tenantID         string
	clientID         string
	clientSecret     string
	expand           bool
}

func (f *loaderFlags) Bind(local *pflag.FlagSet) {
	local.StringVarP(
		&f.envFile,
		"file",
		"f",
		dotenvazure.DotEnvFileName,
		"Path of the local dotenv file",
	)
	local.StringVar(
		&f.example,
		"example",
		dotenvazure.ExampleFileName,
		"Path of the example file listing the required variables",
	)
	local.IntVar(
		&f.rateLimit,
		"rate-limit",
		keyvault.DefaultRateLimit,
		"Maximum Key Vault secret reads started per second",
	)
	local.StringVar(
		&f.connectionString,
		"connection-string",
		"",
		"App Configuration connection string (defaults to "+dotenvazure.ConnectionStringEnvVarName+")",
	)
	local.StringVar(&f.tenantID, "tenant-id", "", "Tenant of the service principal used for Key Vault access")
	local.StringVar(&f.clientID, "client-id", "", "Client ID of the service principal used for Key Vault access")
	local.StringVar(&f.clientSecret, "client-secret", "", "Client secret of the service principal used for Key Vault access")
	local.BoolVar(&f.expand, "expand", false, "Expand ${VAR} references in the merged result")
}

func (f *loaderFlags) options(extra ...dotenvazure.Option) []dotenvazure.Option {
	opts := []dotenvazure.Option{
		dotenvazure.WithPath(f.envFile),
		dotenvazure.WithExample(f.example),
		dotenvazure.WithRateLimit(f.rateLimit),
		dotenvazure.WithWarnHandler(printWarning),
	}

	if f.connectionString != "" {
		opts = append(opts, dotenvazure.WithConnectionString(f.connectionString))
	}

	if f.tenantID != "" || f.clientID != "" || f.clientSecret != "" {
		opts = append(opts, dotenvazure.WithClientCredentials(f.tenantID, f.clientID, f.clientSecret))
	}

	if f.expand {
		opts = append(opts, dotenvazure.WithExpand())
	}

	return append(opts, extra...)
}

// printWarning reports non-fatal load problems, such as an unreachable vault,
// on stderr so they survive --output redirection.
func printWarning(err error) {
	fmt.Fprintln(os.Stderr, output.WithWarningFormat("WARNING: %v", err))
}
