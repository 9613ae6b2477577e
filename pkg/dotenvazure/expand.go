// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dotenvazure

import (
	"fmt"

	"github.com/drone/envsubst"
)

// expandVariables substitutes ${VAR} style references inside every value of
// vars. References resolve against vars itself first, then the ambient
// environment, then collapse to the empty string. The input map is not
// modified.
func expandVariables(vars map[string]string, env Environment) (map[string]string, error) {
	mapping := func(name string) string {
		if value, ok := vars[name]; ok {
			return value
		}

		if value, ok := env.Lookup(name); ok {
			return value
		}

		return ""
	}

	expanded := make(map[string]string, len(vars))
	for key, value := range vars {
		result, err := envsubst.Eval(value, mapping)
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", key, err)
		}

		expanded[key] = result
	}

	return expanded, nil
}
