// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dotenvazure

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Merge_Precedence(t *testing.T) {
	secrets := map[string]string{
		"SHARED":      "from-secrets",
		"SECRET_ONLY": "s3cret",
	}
	remote := map[string]string{
		"SHARED":      "from-remote",
		"REMOTE_ONLY": "remote",
	}
	local := map[string]string{
		"SHARED":     "from-local",
		"LOCAL_ONLY": "local",
	}

	merged, err := Merge(secrets, remote, local)
	require.NoError(t, err)

	require.Equal(t, map[string]string{
		"SHARED":      "from-local",
		"SECRET_ONLY": "s3cret",
		"REMOTE_ONLY": "remote",
		"LOCAL_ONLY":  "local",
	}, merged)
}

func Test_Merge_LocalAlwaysWins(t *testing.T) {
	local := map[string]string{"KEY": "local"}

	merged, err := Merge(
		map[string]string{"KEY": "secret"},
		map[string]string{"KEY": "remote"},
		local,
	)
	require.NoError(t, err)
	require.Equal(t, "local", merged["KEY"])
}

func Test_Merge_DoesNotMutateInputs(t *testing.T) {
	secrets := map[string]string{"A": "1"}
	remote := map[string]string{"A": "2"}
	local := map[string]string{}

	_, err := Merge(secrets, remote, local)
	require.NoError(t, err)

	require.Equal(t, map[string]string{"A": "1"}, secrets)
	require.Equal(t, map[string]string{"A": "2"}, remote)
	require.Empty(t, local)
}

func Test_Merge_EmptyLayers(t *testing.T) {
	merged, err := Merge(nil, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, merged)
	require.Empty(t, merged)
}
