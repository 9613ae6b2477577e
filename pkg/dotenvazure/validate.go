// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dotenvazure

import (
	"fmt"
	"sort"

	"github.com/joho/godotenv"
)

// validateRequiredVariables checks the final environment against the example
// file: every key the example defines must hold a value in env. With
// allowEmptyValues set, a key that is present but empty counts as present.
//
// localErr is the local file read error from earlier in the load, attached to
// the returned MissingVariablesError for context.
func (l *Loader) validateRequiredVariables(localErr error) error {
	required, err := godotenv.Read(l.examplePath)
	if err != nil {
		return fmt.Errorf("reading example file %s: %w", l.examplePath, err)
	}

	var missing []string
	for key := range required {
		value, ok := l.env.Lookup(key)
		if !ok || (!l.allowEmptyValues && value == "") {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingVariablesError{Missing: missing, LocalErr: localErr}
	}

	return nil
}
