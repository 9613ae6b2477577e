// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package output formats loaded configuration for the terminal.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

type Format string

const (
	// EnvVarsFormat prints one KEY=value line per variable, dotenv style.
	EnvVarsFormat Format = "dotenv"
	// JsonFormat prints a single JSON object.
	JsonFormat Format = "json"
	// ExportFormat prints POSIX `export KEY='value'` statements.
	ExportFormat Format = "export"
	// NoneFormat prints nothing.
	NoneFormat Format = "none"
)

type Formatter interface {
	Kind() Format
	Format(obj interface{}, writer io.Writer, opts interface{}) error
}

func NewFormatter(format string) (Formatter, error) {
	switch format {
	case string(EnvVarsFormat):
		return &EnvVarsFormatter{}, nil
	case string(JsonFormat):
		return &JsonFormatter{}, nil
	case string(ExportFormat):
		return &ExportFormatter{}, nil
	case string(NoneFormat):
		return &NoneFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %v", format)
	}
}

const (
	outputFlagName               = "output"
	supportedFormatterAnnotation = "github.com/azure/dotenv-azure/pkg/output/supportedOutputFormatters"
)

// AddOutputParam adds the --output / -o flag to cmd, restricted to the given
// formats.
func AddOutputParam(cmd *cobra.Command, supportedFormats []Format, defaultFormat Format) *cobra.Command {
	formatNames := make([]string, len(supportedFormats))
	for i, f := range supportedFormats {
		formatNames[i] = string(f)
	}

	description := fmt.Sprintf("Output format (supported formats are %s)", strings.Join(formatNames, ", "))
	cmd.Flags().StringP(outputFlagName, "o", string(defaultFormat), description)

	// Only error that can occur is "flag not found", which is not possible given we just added the flag on the previous line
	_ = cmd.Flags().SetAnnotation(outputFlagName, supportedFormatterAnnotation, formatNames)

	return cmd
}

// GetFormatter builds the Formatter selected by cmd's --output flag, failing
// on a format the command did not declare through AddOutputParam.
func GetFormatter(cmd *cobra.Command) (Formatter, error) {
	outputVal, err := cmd.Flags().GetString(outputFlagName)
	if err != nil {
		return nil, err
	}

	desiredFormatter := strings.ToLower(strings.TrimSpace(outputVal))
	f := cmd.Flags().Lookup(outputFlagName)
	supportedFormatters, hasFormatters := f.Annotations[supportedFormatterAnnotation]
	if !hasFormatters {
		return NewFormatter(desiredFormatter)
	}

	supported := false
	for _, formatter := range supportedFormatters {
		if formatter == desiredFormatter {
			supported = true
			break
		}
	}
	if !supported {
		return nil, fmt.Errorf("unsupported format '%s'", desiredFormatter)
	}

	return NewFormatter(desiredFormatter)
}
