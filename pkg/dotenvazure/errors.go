// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dotenvazure

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingCredentials is returned when no App Configuration connection
// string was found in the options, the local file, or the ambient environment.
// It is raised before any network call is made.
var ErrMissingCredentials = errors.New(
	"missing app configuration connection string: pass WithConnectionString or set " +
		ConnectionStringEnvVarName)

// MissingVariablesError is returned by safe-mode loads when keys required by
// the example file have no usable value in the final environment.
type MissingVariablesError struct {
	// Missing lists the required keys that have no value, sorted by name.
	Missing []string
	// LocalErr carries the local file read error when there was one, since a
	// missing or broken local file is the most common cause of this failure.
	LocalErr error
}

func (e *MissingVariablesError) Error() string {
	msg := fmt.Sprintf(
		"missing required environment variables: %s",
		strings.Join(e.Missing, ", "),
	)

	if e.LocalErr != nil {
		msg = fmt.Sprintf("%s (local file error: %v)", msg, e.LocalErr)
	}

	return msg
}

func (e *MissingVariablesError) Unwrap() error {
	return e.LocalErr
}
