package keyvault

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/azure/dotenv-azure/pkg/appconfig"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type mockCredentials struct{}

func (c *mockCredentials) GetToken(
	ctx context.Context,
	options policy.TokenRequestOptions,
) (azcore.AccessToken, error) {
	return azcore.AccessToken{
		Token:     "ABC123",
		ExpiresOn: time.Now().Add(time.Hour * 1),
	}, nil
}

type secretRequest struct {
	name    string
	version string
}

// fakeVault is an in-memory SecretsClient for one vault origin.
type fakeVault struct {
	mu      sync.Mutex
	secrets map[string]string
	errs    map[string]error
	gets    []secretRequest
}

func (v *fakeVault) GetSecret(
	ctx context.Context,
	name string,
	version string,
	options *azsecrets.GetSecretOptions,
) (azsecrets.GetSecretResponse, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.gets = append(v.gets, secretRequest{name: name, version: version})

	if err, ok := v.errs[name]; ok {
		return azsecrets.GetSecretResponse{}, err
	}

	value, ok := v.secrets[name]
	if !ok {
		return azsecrets.GetSecretResponse{}, &azcore.ResponseError{StatusCode: http.StatusNotFound}
	}

	return azsecrets.GetSecretResponse{
		Secret: azsecrets.Secret{Value: to.Ptr(value)},
	}, nil
}

// fakeVaultRegistry hands out fakeVaults by origin and counts constructions.
type fakeVaultRegistry struct {
	mu     sync.Mutex
	vaults map[string]*fakeVault
	built  map[string]int
}

func newFakeVaultRegistry() *fakeVaultRegistry {
	return &fakeVaultRegistry{
		vaults: map[string]*fakeVault{},
		built:  map[string]int{},
	}
}

func (f *fakeVaultRegistry) add(vaultURL string, secrets map[string]string) *fakeVault {
	vault := &fakeVault{secrets: secrets, errs: map[string]error{}}
	f.vaults[vaultURL] = vault
	return vault
}

func (f *fakeVaultRegistry) factory(
	vaultURL string,
	credential azcore.TokenCredential,
	options *azsecrets.ClientOptions,
) (SecretsClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.built[vaultURL]++

	vault, ok := f.vaults[vaultURL]
	if !ok {
		return nil, fmt.Errorf("unknown vault %s", vaultURL)
	}

	return vault, nil
}

func testRef(vaultURL string, name string, version string) appconfig.KeyVaultReference {
	return appconfig.KeyVaultReference{
		VaultURL:  vaultURL,
		SecretURL: fmt.Sprintf("%s/secrets/%s", vaultURL, name),
		Name:      name,
		Version:   version,
	}
}

func newTestResolver(registry *fakeVaultRegistry, rateLimit int) SecretsResolver {
	return NewSecretsResolver(
		ClientCredentials{},
		nil,
		rateLimit,
		WithClientFactory(registry.factory),
		WithTokenCredential(&mockCredentials{}),
	)
}

func Test_ResolveSecrets_FetchesAllReferences(t *testing.T) {
	registry := newFakeVaultRegistry()
	registry.add("https://one.vault.azure.net", map[string]string{
		"db-password": "hunter2",
		"api-key":     "k-123",
	})
	registry.add("https://two.vault.azure.net", map[string]string{
		"cert": "pem",
	})

	resolver := newTestResolver(registry, 1000)

	secrets, err := resolver.ResolveSecrets(context.Background(), map[string]appconfig.KeyVaultReference{
		"DB_PASSWORD": testRef("https://one.vault.azure.net", "db-password", ""),
		"API_KEY":     testRef("https://one.vault.azure.net", "api-key", "v7"),
		"TLS_CERT":    testRef("https://two.vault.azure.net", "cert", ""),
	})

	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"DB_PASSWORD": "hunter2",
		"API_KEY":     "k-123",
		"TLS_CERT":    "pem",
	}, secrets)

	// one client per vault origin, reused across secrets
	require.Equal(t, map[string]int{
		"https://one.vault.azure.net": 1,
		"https://two.vault.azure.net": 1,
	}, registry.built)

	// the requested version travels with the read
	vault := registry.vaults["https://one.vault.azure.net"]
	for _, get := range vault.gets {
		if get.name == "api-key" {
			require.Equal(t, "v7", get.version)
		} else {
			require.Empty(t, get.version)
		}
	}
}

func Test_ResolveSecrets_SingleClientUnderConcurrentAccess(t *testing.T) {
	registry := newFakeVaultRegistry()

	secrets := map[string]string{}
	refs := map[string]appconfig.KeyVaultReference{}
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("secret-%d", i)
		secrets[name] = fmt.Sprintf("value-%d", i)
		refs[fmt.Sprintf("KEY_%d", i)] = testRef("https://one.vault.azure.net", name, "")
	}
	registry.add("https://one.vault.azure.net", secrets)

	resolver := newTestResolver(registry, 1000)

	resolved, err := resolver.ResolveSecrets(context.Background(), refs)
	require.NoError(t, err)
	require.Len(t, resolved, 20)
	require.Equal(t, 1, registry.built["https://one.vault.azure.net"])
}

func Test_ResolveSecrets_SpacesRequestStarts(t *testing.T) {
	registry := newFakeVaultRegistry()
	registry.add("https://one.vault.azure.net", map[string]string{
		"a": "1", "b": "2", "c": "3", "d": "4",
	})

	// 50 reads per second leaves 20ms between starts
	resolver := newTestResolver(registry, 50)

	start := time.Now()
	_, err := resolver.ResolveSecrets(context.Background(), map[string]appconfig.KeyVaultReference{
		"A": testRef("https://one.vault.azure.net", "a", ""),
		"B": testRef("https://one.vault.azure.net", "b", ""),
		"C": testRef("https://one.vault.azure.net", "c", ""),
		"D": testRef("https://one.vault.azure.net", "d", ""),
	})
	elapsed := time.Since(start)

	require.NoError(t, err)

	// four starts, three full intervals between them
	require.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
}

func Test_ResolveSecrets_AggregatesFailures(t *testing.T) {
	registry := newFakeVaultRegistry()
	vault := registry.add("https://one.vault.azure.net", map[string]string{
		"good": "value",
	})
	vault.errs["bad"] = &azcore.ResponseError{StatusCode: http.StatusForbidden}
	vault.errs["worse"] = &azcore.ResponseError{StatusCode: http.StatusServiceUnavailable}

	resolver := newTestResolver(registry, 1000)

	secrets, err := resolver.ResolveSecrets(context.Background(), map[string]appconfig.KeyVaultReference{
		"GOOD":  testRef("https://one.vault.azure.net", "good", ""),
		"BAD":   testRef("https://one.vault.azure.net", "bad", ""),
		"WORSE": testRef("https://one.vault.azure.net", "worse", ""),
	})

	require.Nil(t, secrets)
	require.Error(t, err)
	require.Len(t, multierr.Errors(err), 2)
	require.ErrorContains(t, err, "resolving secret for")
}

func Test_ResolveSecrets_EmptyReferences(t *testing.T) {
	registry := newFakeVaultRegistry()
	resolver := newTestResolver(registry, DefaultRateLimit)

	secrets, err := resolver.ResolveSecrets(context.Background(), nil)

	require.NoError(t, err)
	require.NotNil(t, secrets)
	require.Empty(t, secrets)
	require.Empty(t, registry.built)
}

func Test_ResolveSecrets_ContextCancelled(t *testing.T) {
	registry := newFakeVaultRegistry()
	registry.add("https://one.vault.azure.net", map[string]string{"a": "1"})

	resolver := newTestResolver(registry, DefaultRateLimit)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	secrets, err := resolver.ResolveSecrets(ctx, map[string]appconfig.KeyVaultReference{
		"A": testRef("https://one.vault.azure.net", "a", ""),
	})

	require.Nil(t, secrets)
	require.ErrorIs(t, err, context.Canceled)
}

func Test_RateInterval(t *testing.T) {
	require.Equal(t, 23*time.Millisecond, rateInterval(45))
	require.Equal(t, time.Millisecond, rateInterval(1000))
	require.Equal(t, time.Second, rateInterval(1))
}
