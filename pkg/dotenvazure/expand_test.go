// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dotenvazure

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ExpandVariables(t *testing.T) {
	t.Run("ResolvesFromVarsFirst", func(t *testing.T) {
		env := newTestEnvironment(map[string]string{"HOST": "ambient.contoso.io"})
		vars := map[string]string{
			"HOST": "local.contoso.io",
			"URL":  "https://${HOST}/api",
		}

		expanded, err := expandVariables(vars, env)
		require.NoError(t, err)
		require.Equal(t, "https://local.contoso.io/api", expanded["URL"])
	})

	t.Run("FallsBackToAmbient", func(t *testing.T) {
		env := newTestEnvironment(map[string]string{"REGION": "westus2"})
		vars := map[string]string{"ENDPOINT": "${REGION}.api.contoso.io"}

		expanded, err := expandVariables(vars, env)
		require.NoError(t, err)
		require.Equal(t, "westus2.api.contoso.io", expanded["ENDPOINT"])
	})

	t.Run("UnknownReferenceCollapses", func(t *testing.T) {
		expanded, err := expandVariables(
			map[string]string{"VALUE": "before-${NOWHERE}-after"},
			newTestEnvironment(nil),
		)
		require.NoError(t, err)
		require.Equal(t, "before--after", expanded["VALUE"])
	})

	t.Run("PlainValuesUntouched", func(t *testing.T) {
		vars := map[string]string{"PASSWORD": "sw0rdfish", "COUNT": "3"}

		expanded, err := expandVariables(vars, newTestEnvironment(nil))
		require.NoError(t, err)
		require.Equal(t, vars, expanded)
	})

	t.Run("MalformedTemplate", func(t *testing.T) {
		_, err := expandVariables(
			map[string]string{"BAD": "${UNCLOSED"},
			newTestEnvironment(nil),
		)
		require.Error(t, err)
		require.ErrorContains(t, err, "expanding BAD")
	})
}
