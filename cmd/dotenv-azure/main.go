// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	azcorelog "github.com/Azure/azure-sdk-for-go/sdk/azcore/log"
	"github.com/azure/dotenv-azure/internal/cmd"
	"github.com/azure/dotenv-azure/pkg/output"
	"github.com/mattn/go-colorable"
	"github.com/spf13/pflag"
)

func main() {
	ctx := context.Background()

	restoreColorMode := colorable.EnableColorsStdout(nil)
	defer restoreColorMode()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if isDebugEnabled() {
		azcorelog.SetListener(func(event azcorelog.Event, msg string) {
			log.Printf("%s: %s\n", event, msg)
		})
	} else {
		log.SetOutput(io.Discard)
	}

	cmdErr := cmd.NewRootCommand().ExecuteContext(ctx)
	if cmdErr != nil {
		restoreColorMode()

		var exitErr *cmd.ExitError
		if errors.As(cmdErr, &exitErr) {
			// the child process already reported its own failure
			os.Exit(exitErr.Code)
		}

		fmt.Fprintln(os.Stderr, output.WithErrorFormat("ERROR: %v", cmdErr))
		os.Exit(1)
	}
}

// isDebugEnabled checks to see if `--debug` was passed with a truthy
// value.
func isDebugEnabled() bool {
	debug := false
	help := false
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)

	// Since we are running this parse logic on the full command line, there may be additional flags
	// which we have not defined in our flag set (but would be defined by whatever command we end up
	// running). Setting UnknownFlags instructs `flags.Parse` to continue parsing the command line
	// even if a flag is not in the flag set (instead of just returning an error saying the flag was not
	// found).
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.BoolVar(&debug, "debug", false, "")

	// pflag treats "help" as special and if you don't define a help flag returns `ErrHelp` from
	// Parse when `--help` is on the command line. Add an explicit help parameter (which we ignore)
	// so pflag doesn't fail in this case. If `--help` is passed, the help for `dotenv-azure` will be
	// shown later when the root command executes.
	flags.BoolVarP(&help, "help", "h", false, "")

	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Printf("could not parse flags: %v", err)
	}

	return debug
}
