// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/azure/dotenv-azure/pkg/dotenvazure"
	"github.com/spf13/cobra"
)

// ExitError carries a child process's exit code back to main, which exits
// with the same code instead of reporting an error of its own.
type ExitError struct {
	Code int
	err  error
}

func (e *ExitError) Error() string {
	return e.err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.err
}

func newRunCommand() *cobra.Command {
	flags := &loaderFlags{}
	var safe bool
	var allowEmptyValues bool

	cmd := &cobra.Command{
		Use:   "run [options] -- <command> [args...]",
		Short: "Run a command with the loaded environment.",
		Long: heredoc.Doc(`
		Run a command with the loaded environment.

		The local dotenv file, the App Configuration store and the Key Vault secrets it
		references are merged into a copy of the current environment and the command is
		started with the result. Variables already exported in the shell keep their
		values, local file values beat remote ones, and the parent environment is never
		modified.

		The command's exit code becomes the exit code of dotenv-azure run.
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env := dotenvazure.NewMapEnvironment()

			opts := flags.options(dotenvazure.WithEnvironment(env))
			if safe {
				opts = append(opts, dotenvazure.WithSafe())
			}
			if allowEmptyValues {
				opts = append(opts, dotenvazure.WithAllowEmptyValues())
			}

			if _, err := dotenvazure.Config(cmd.Context(), opts...); err != nil {
				return err
			}

			return runChild(cmd.Context(), args, env.Environ())
		},
	}

	// everything after the first positional argument belongs to the child
	cmd.Flags().SetInterspersed(false)

	flags.Bind(cmd.Flags())
	cmd.Flags().BoolVar(&safe, "safe", false, "Fail instead of running when the example file's variables are not all set")
	cmd.Flags().BoolVar(&allowEmptyValues, "allow-empty-values", false, "With --safe, accept variables that are set but empty")

	return cmd
}

func runChild(ctx context.Context, args []string, env []string) error {
	name := args[0]
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("finding command %q: %w", name, err)
	}

	child := exec.CommandContext(ctx, name, args[1:]...)
	child.Env = env
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	err := child.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode(), err: err}
	}

	return err
}
