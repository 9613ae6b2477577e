// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dotenvazure

import (
	"fmt"

	"dario.cat/mergo"
)

// Merge combines the three variable sources under the loader's fixed
// precedence, lowest to highest: vault secrets, then plain remote values,
// then locally-parsed values. Anything defined locally always wins over
// anything remote. The inputs are never modified.
func Merge(secrets, remote, local map[string]string) (map[string]string, error) {
	return mergeLayers(secrets, remote, local)
}

// mergeLayers overlays maps in argument order: a later map's value wins every
// key collision.
func mergeLayers(layers ...map[string]string) (map[string]string, error) {
	merged := map[string]string{}

	for _, layer := range layers {
		if err := mergo.Merge(&merged, layer, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merging variables: %w", err)
		}
	}

	return merged, nil
}
