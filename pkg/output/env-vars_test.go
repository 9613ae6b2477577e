// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvVarsFormatterStringMap(t *testing.T) {
	formatter := &EnvVarsFormatter{}

	m := make(map[string]string, 3)
	m["Charlie"] = "3"
	m["Alpha"] = "1"
	m["Bravo"] = "2"

	buffer := &bytes.Buffer{}
	err := formatter.Format(m, buffer, nil)
	require.NoError(t, err)

	expected := "Alpha=1\nBravo=2\nCharlie=3\n"
	require.Equal(t, expected, buffer.String())
}

func TestEnvVarsFormatterRejectsOtherTypes(t *testing.T) {
	formatter := &EnvVarsFormatter{}

	err := formatter.Format([]string{"Alpha=1"}, &bytes.Buffer{}, nil)
	require.Error(t, err)
}
