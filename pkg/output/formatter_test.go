// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestNewFormatter(t *testing.T) {
	for _, format := range []Format{EnvVarsFormat, JsonFormat, ExportFormat, NoneFormat} {
		formatter, err := NewFormatter(string(format))
		require.NoError(t, err)
		require.Equal(t, format, formatter.Kind())
	}

	_, err := NewFormatter("yaml")
	require.Error(t, err)
}

func TestGetFormatter(t *testing.T) {
	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{Use: "export"}
		return AddOutputParam(cmd, []Format{EnvVarsFormat, JsonFormat}, EnvVarsFormat)
	}

	t.Run("Default", func(t *testing.T) {
		formatter, err := GetFormatter(newCmd())
		require.NoError(t, err)
		require.Equal(t, EnvVarsFormat, formatter.Kind())
	})

	t.Run("Selected", func(t *testing.T) {
		cmd := newCmd()
		require.NoError(t, cmd.Flags().Set("output", "json"))

		formatter, err := GetFormatter(cmd)
		require.NoError(t, err)
		require.Equal(t, JsonFormat, formatter.Kind())
	})

	t.Run("UndeclaredFormatRejected", func(t *testing.T) {
		cmd := newCmd()
		// export exists as a formatter but this command did not declare it
		require.NoError(t, cmd.Flags().Set("output", "export"))

		_, err := GetFormatter(cmd)
		require.Error(t, err)
		require.ErrorContains(t, err, "unsupported format")
	})
}

func TestJsonFormatter(t *testing.T) {
	formatter := &JsonFormatter{}

	buffer := &bytes.Buffer{}
	err := formatter.Format(map[string]string{"Alpha": "1"}, buffer, nil)
	require.NoError(t, err)

	require.JSONEq(t, `{"Alpha": "1"}`, buffer.String())
}

func TestNoneFormatter(t *testing.T) {
	formatter := &NoneFormatter{}

	buffer := &bytes.Buffer{}
	err := formatter.Format(map[string]string{"Alpha": "1"}, buffer, nil)
	require.NoError(t, err)
	require.Empty(t, buffer.String())
}
