package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// KeyVaultReferenceContentType marks an App Configuration setting whose value
// is a pointer to a Key Vault secret rather than a literal value.
//
// The comparison is byte-exact. A setting with a rearranged or truncated
// variant of this string is treated as a plain value and its raw JSON flows
// through untouched.
const KeyVaultReferenceContentType = "application/vnd.microsoft.appconfig.keyvaultref+json;charset=utf-8"

// InvalidReferenceError reports a setting whose content type promises a Key
// Vault reference but whose value cannot be decoded into one.
type InvalidReferenceError struct {
	// Key is the configuration key carrying the malformed reference.
	Key string
	Err error
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("invalid key vault reference for key %q: %v", e.Key, e.Err)
}

func (e *InvalidReferenceError) Unwrap() error {
	return e.Err
}

// KeyVaultReference locates one secret inside one vault.
type KeyVaultReference struct {
	// VaultURL is the vault origin, scheme and host only. All references with
	// the same origin share one secrets client.
	VaultURL string
	// SecretURL is the full identifier as stored in App Configuration.
	SecretURL string
	Name      string
	// Version is empty when the reference selects the latest version.
	Version string
}

// IsKeyVaultReference reports whether contentType marks a setting as a Key
// Vault reference.
func IsKeyVaultReference(contentType string) bool {
	return contentType == KeyVaultReferenceContentType
}

// ParseKeyVaultReference decodes the JSON value of a reference setting, of the
// form {"uri": "https://<vault>.vault.azure.net/secrets/<name>[/<version>]"}.
// Any decoding failure is reported as an *InvalidReferenceError naming key.
func ParseKeyVaultReference(key string, value string) (KeyVaultReference, error) {
	var payload struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal([]byte(value), &payload); err != nil {
		return KeyVaultReference{}, &InvalidReferenceError{Key: key, Err: err}
	}
	if payload.URI == "" {
		return KeyVaultReference{}, &InvalidReferenceError{Key: key, Err: errors.New("missing uri field")}
	}

	secretURL, err := url.Parse(payload.URI)
	if err != nil {
		return KeyVaultReference{}, &InvalidReferenceError{Key: key, Err: err}
	}
	if secretURL.Scheme == "" || secretURL.Host == "" {
		return KeyVaultReference{}, &InvalidReferenceError{
			Key: key,
			Err: fmt.Errorf("uri %q is missing a scheme or host", payload.URI),
		}
	}

	// Secret identifiers carry the name and optional version as the second
	// and third path segments: /secrets/<name>[/<version>].
	segments := strings.Split(secretURL.Path, "/")
	if len(segments) < 3 || segments[2] == "" {
		return KeyVaultReference{}, &InvalidReferenceError{
			Key: key,
			Err: fmt.Errorf("uri %q does not name a secret", payload.URI),
		}
	}

	ref := KeyVaultReference{
		VaultURL:  fmt.Sprintf("%s://%s", secretURL.Scheme, secretURL.Host),
		SecretURL: payload.URI,
		Name:      segments[2],
	}
	if len(segments) > 3 {
		ref.Version = segments[3]
	}

	return ref, nil
}
