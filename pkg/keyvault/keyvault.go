// Package keyvault resolves the secret values behind Key Vault references,
// pacing request starts to stay under vault throttling limits.
package keyvault

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/azure/dotenv-azure/pkg/appconfig"
	"github.com/azure/dotenv-azure/pkg/convert"
	"github.com/azure/dotenv-azure/pkg/lazy"
	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"
)

// DefaultRateLimit is the default cap on secret reads started per second.
// Key Vault throttles GET traffic per vault; 45/s stays comfortably under the
// documented limits while still draining large stores quickly.
const DefaultRateLimit = 45

// SecretsClient is the subset of the Key Vault data-plane client the resolver
// needs. *azsecrets.Client satisfies it; tests substitute fakes.
type SecretsClient interface {
	GetSecret(
		ctx context.Context,
		name string,
		version string,
		options *azsecrets.GetSecretOptions,
	) (azsecrets.GetSecretResponse, error)
}

// SecretsClientFactory creates a data-plane client for one vault origin.
type SecretsClientFactory func(
	vaultURL string,
	credential azcore.TokenCredential,
	options *azsecrets.ClientOptions,
) (SecretsClient, error)

// SecretsResolver fetches the values behind a set of Key Vault references.
type SecretsResolver interface {
	ResolveSecrets(
		ctx context.Context,
		refs map[string]appconfig.KeyVaultReference,
	) (map[string]string, error)
}

type secretsResolver struct {
	coreClientOptions *azcore.ClientOptions
	rateLimit         int
	clk               clock.Clock
	clientFactory     SecretsClientFactory
	credential        *lazy.Lazy[azcore.TokenCredential]

	// clients caches one data-plane client per vault origin for the lifetime
	// of the resolver. It is a connection cache, never a value cache.
	mu      sync.Mutex
	clients map[string]SecretsClient
}

// ResolverOption is a functional option for configuring the resolver.
type ResolverOption func(*secretsResolver)

// WithClientFactory sets a custom secrets client factory (for testing).
func WithClientFactory(factory SecretsClientFactory) ResolverOption {
	return func(r *secretsResolver) {
		r.clientFactory = factory
	}
}

// WithClock sets the clock driving the rate gate (for testing).
func WithClock(clk clock.Clock) ResolverOption {
	return func(r *secretsResolver) {
		r.clk = clk
	}
}

// WithTokenCredential supplies the vault credential directly, bypassing the
// credential chain selection.
func WithTokenCredential(credential azcore.TokenCredential) ResolverOption {
	return func(r *secretsResolver) {
		r.credential.SetValue(credential)
	}
}

// NewSecretsResolver creates a SecretsResolver.
//
// creds selects the vault identity as described on ClientCredentials. The
// credential is built on first use and then shared by every vault client.
// rateLimit caps how many secret reads may start per second; values below 1
// select DefaultRateLimit.
func NewSecretsResolver(
	creds ClientCredentials,
	coreClientOptions *azcore.ClientOptions,
	rateLimit int,
	opts ...ResolverOption,
) SecretsResolver {
	if rateLimit < 1 {
		rateLimit = DefaultRateLimit
	}

	resolver := &secretsResolver{
		coreClientOptions: coreClientOptions,
		rateLimit:         rateLimit,
		clk:               clock.New(),
		clients:           map[string]SecretsClient{},
		credential: lazy.NewLazy(func() (azcore.TokenCredential, error) {
			return newTokenCredential(creds)
		}),
	}

	resolver.clientFactory = func(
		vaultURL string,
		credential azcore.TokenCredential,
		options *azsecrets.ClientOptions,
	) (SecretsClient, error) {
		return azsecrets.NewClient(vaultURL, credential, options)
	}

	for _, opt := range opts {
		opt(resolver)
	}

	return resolver
}

// ResolveSecrets reads every referenced secret and returns a map from
// configuration key to secret value.
//
// All reads run concurrently, but their starts are spaced by a per-call rate
// gate shared across every vault, so one invocation never exceeds the
// configured rate. Failures do not stop the remaining reads; the combined
// error of all failed reads is returned with a nil map.
func (r *secretsResolver) ResolveSecrets(
	ctx context.Context,
	refs map[string]appconfig.KeyVaultReference,
) (map[string]string, error) {
	secrets := make(map[string]string, len(refs))
	if len(refs) == 0 {
		return secrets, nil
	}

	credential, err := r.credential.GetValue()
	if err != nil {
		return nil, err
	}

	gate := newRateGate(r.clk, rateInterval(r.rateLimit))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		combined error
	)

	for key, ref := range refs {
		wg.Add(1)

		go func(key string, ref appconfig.KeyVaultReference) {
			defer wg.Done()

			value, err := r.resolveSecret(ctx, gate, credential, ref)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				combined = multierr.Append(combined, fmt.Errorf("resolving secret for %q: %w", key, err))
				return
			}
			secrets[key] = value
		}(key, ref)
	}

	wg.Wait()

	if combined != nil {
		return nil, combined
	}

	log.Printf("keyvault: resolved %d secrets", len(secrets))

	return secrets, nil
}

func (r *secretsResolver) resolveSecret(
	ctx context.Context,
	gate *rateGate,
	credential azcore.TokenCredential,
	ref appconfig.KeyVaultReference,
) (string, error) {
	client, err := r.clientFor(ref.VaultURL, credential)
	if err != nil {
		return "", err
	}

	if err := gate.wait(ctx); err != nil {
		return "", err
	}

	response, err := client.GetSecret(ctx, ref.Name, ref.Version, nil)
	if err != nil {
		return "", fmt.Errorf("getting secret %q from %s: %w", ref.Name, ref.VaultURL, err)
	}

	return convert.ToValueWithDefault(response.Value, ""), nil
}

// clientFor returns the cached client for a vault origin, creating it on
// first use. Concurrent first access creates exactly one client.
func (r *secretsResolver) clientFor(
	vaultURL string,
	credential azcore.TokenCredential,
) (SecretsClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if client, ok := r.clients[vaultURL]; ok {
		return client, nil
	}

	options := &azsecrets.ClientOptions{}
	if r.coreClientOptions != nil {
		options.ClientOptions = *r.coreClientOptions
	}

	client, err := r.clientFactory(vaultURL, credential, options)
	if err != nil {
		return nil, fmt.Errorf("creating secrets client for %s: %w", vaultURL, err)
	}

	r.clients[vaultURL] = client

	return client, nil
}

// rateInterval converts a per-second rate into the minimum spacing between
// request starts, rounding up so the configured rate is never exceeded.
func rateInterval(rateLimit int) time.Duration {
	ms := math.Ceil(1000 / float64(rateLimit))
	return time.Duration(ms) * time.Millisecond
}
