package keyvault

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// ClientCredentials optionally pins vault access to one service principal.
// The zero value selects the default ambient credential chain (environment,
// workload identity, managed identity, CLI).
type ClientCredentials struct {
	TenantID     string
	ClientID     string
	ClientSecret string
}

func (c ClientCredentials) complete() bool {
	return c.TenantID != "" && c.ClientID != "" && c.ClientSecret != ""
}

// newTokenCredential builds the vault token credential. A fully specified
// service principal wins; anything less falls back to the default chain.
func newTokenCredential(creds ClientCredentials) (azcore.TokenCredential, error) {
	if creds.complete() {
		credential, err := azidentity.NewClientSecretCredential(
			creds.TenantID,
			creds.ClientID,
			creds.ClientSecret,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("creating client secret credential: %w", err)
		}

		return credential, nil
	}

	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("creating default azure credential: %w", err)
	}

	return credential, nil
}
