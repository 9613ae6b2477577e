// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dotenvazure

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// ConnectionStringEnvVarName is the name of the key holding the App
// Configuration connection string when it is supplied through the local file
// or the ambient environment instead of an option.
const ConnectionStringEnvVarName = "AZURE_APP_CONFIG_CONNECTION_STRING"

// DotEnvFileName is the default local file read by Config.
const DotEnvFileName = ".env"

// ExampleFileName is the default example file consulted in safe mode.
const ExampleFileName = ".env.example"

// Environment is the process-wide key/value sink loaded configuration is
// applied to. The loader writes through Set and reads only for credential
// lookup and safe-mode validation.
type Environment interface {
	Lookup(key string) (string, bool)
	Set(key string, value string) error
}

// OSEnvironment is the default Environment, backed by the real process
// environment.
type OSEnvironment struct{}

func (OSEnvironment) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (OSEnvironment) Set(key string, value string) error {
	return os.Setenv(key, value)
}

// MapEnvironment is an in-memory Environment. It lets a caller run a full
// load, including sink writes and safe-mode validation, without touching the
// real process environment.
type MapEnvironment map[string]string

// NewMapEnvironment creates a MapEnvironment seeded with the current process
// environment.
func NewMapEnvironment() MapEnvironment {
	env := MapEnvironment{}
	for _, entry := range os.Environ() {
		if key, value, ok := strings.Cut(entry, "="); ok {
			env[key] = value
		}
	}

	return env
}

func (e MapEnvironment) Lookup(key string) (string, bool) {
	value, ok := e[key]
	return value, ok
}

func (e MapEnvironment) Set(key string, value string) error {
	e[key] = value
	return nil
}

// Environ returns the environment as a sorted slice of KEY=value entries, the
// shape expected by os/exec.
func (e MapEnvironment) Environ() []string {
	entries := make([]string, 0, len(e))
	for key, value := range e {
		entries = append(entries, key+"="+value)
	}
	sort.Strings(entries)

	return entries
}

// setIfAbsent writes vars into env, skipping keys that already hold a value.
// Both the local file values and the remote-derived values are applied with
// this rule, in that order, so the sink always ends up honoring
// ambient > local > remote no matter what the three sources contain.
func setIfAbsent(env Environment, vars map[string]string) error {
	for key, value := range vars {
		if _, ok := env.Lookup(key); ok {
			continue
		}

		if err := env.Set(key, value); err != nil {
			return fmt.Errorf("setting %s: %w", key, err)
		}
	}

	return nil
}
