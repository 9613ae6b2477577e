// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

type EnvVarsFormatter struct {
}

func (f *EnvVarsFormatter) Kind() Format {
	return EnvVarsFormat
}

func (f *EnvVarsFormatter) Format(obj interface{}, writer io.Writer, _ interface{}) error {
	values, ok := obj.(map[string]string)
	if !ok {
		return fmt.Errorf("EnvVarsFormatter can only format objects of type map[string]string")
	}

	var sb strings.Builder
	for _, key := range sortedKeys(values) {
		sb.WriteString(fmt.Sprintf("%s=%s\n", key, values[key]))
	}

	_, err := writer.Write([]byte(sb.String()))
	if err != nil {
		return fmt.Errorf("could not write content: %w", err)
	}

	return nil
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}

var _ Formatter = (*EnvVarsFormatter)(nil)
