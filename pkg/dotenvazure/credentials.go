// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dotenvazure

// Credentials is the resolved remote-store credential for one load. It lives
// exactly as long as the load that produced it.
type Credentials struct {
	ConnectionString string
}

// resolveCredentials produces the App Configuration connection string for one
// load, or ErrMissingCredentials when no source supplies one.
//
// The option value wins outright when non-empty. Otherwise the local values
// are consulted with the ambient environment overlaid on top, so an exported
// variable beats the same variable in the local file even when the exported
// value is empty, in which case the lookup fails rather than silently falling
// back to the file.
func (l *Loader) resolveCredentials(localVars map[string]string) (Credentials, error) {
	if l.connectionString != "" {
		return Credentials{ConnectionString: l.connectionString}, nil
	}

	value, ok := localVars[ConnectionStringEnvVarName]
	if ambient, found := l.env.Lookup(ConnectionStringEnvVarName); found {
		value, ok = ambient, true
	}

	if !ok || value == "" {
		return Credentials{}, ErrMissingCredentials
	}

	return Credentials{ConnectionString: value}, nil
}
