// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"fmt"
	"io"
	"strings"
)

type ExportFormatter struct {
}

func (f *ExportFormatter) Kind() Format {
	return ExportFormat
}

func (f *ExportFormatter) Format(obj interface{}, writer io.Writer, _ interface{}) error {
	values, ok := obj.(map[string]string)
	if !ok {
		return fmt.Errorf("ExportFormatter can only format objects of type map[string]string")
	}

	var content string
	for _, key := range sortedKeys(values) {
		content += fmt.Sprintf("export %s=%s\n", key, singleQuote(values[key]))
	}

	_, err := writer.Write([]byte(content))
	if err != nil {
		return fmt.Errorf("could not write content: %w", err)
	}

	return nil
}

// singleQuote wraps value for a POSIX shell. Secrets routinely carry spaces,
// dollar signs and quotes, so the output must survive an eval.
func singleQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}

var _ Formatter = (*ExportFormatter)(nil)
