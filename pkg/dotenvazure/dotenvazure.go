// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package dotenvazure loads environment configuration from three layered
// sources: a local dotenv file, an Azure App Configuration store, and the Key
// Vault secrets the store references. The three views are merged under a
// fixed precedence, local values winning over everything remote, and applied
// to the process environment without overwriting variables that already have
// a value.
//
// A minimal load:
//
//	result, err := dotenvazure.Config(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Parsed["DATABASE_URL"])
package dotenvazure

import (
	"context"
	"fmt"
	"log"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/azure/dotenv-azure/internal"
	"github.com/azure/dotenv-azure/pkg/appconfig"
	"github.com/azure/dotenv-azure/pkg/azsdk"
	"github.com/azure/dotenv-azure/pkg/keyvault"
	"github.com/joho/godotenv"
)

// Result is the outcome of one Config call.
type Result struct {
	// Parsed is the merged view of all three sources: vault secrets, then
	// plain remote values, then local file values, later winning.
	Parsed map[string]string
	// Local holds the local file values, empty when the file was unreadable.
	Local map[string]string
	// Remote holds the remote-derived values: plain store values overlaid on
	// resolved secrets.
	Remote map[string]string
	// LocalErr is the local file read error, when there was one. It is not
	// fatal on its own; safe mode attaches it to MissingVariablesError.
	LocalErr error
}

// Loader loads layered configuration. A Loader is safe to reuse across calls;
// vault clients created during a load are kept for the Loader's lifetime.
type Loader struct {
	path             string
	examplePath      string
	safe             bool
	allowEmptyValues bool
	expand           bool
	rateLimit        int
	connectionString string
	credentials      keyvault.ClientCredentials

	env  Environment
	warn func(error)

	coreClientOptions *azcore.ClientOptions
	settingsFactory   appconfig.SettingsClientFactory
	resolver          keyvault.SecretsResolver
	resolverOpts      []keyvault.ResolverOption
}

// Option configures a Loader.
type Option func(*Loader)

// WithPath sets the local file path. Default ".env".
func WithPath(path string) Option {
	return func(l *Loader) {
		l.path = path
	}
}

// WithExample sets the example file consulted in safe mode.
// Default ".env.example".
func WithExample(path string) Option {
	return func(l *Loader) {
		l.examplePath = path
	}
}

// WithSafe enables validation of the final environment against the example
// file after loading completes.
func WithSafe() Option {
	return func(l *Loader) {
		l.safe = true
	}
}

// WithAllowEmptyValues makes safe-mode validation accept variables that are
// present but empty.
func WithAllowEmptyValues() Option {
	return func(l *Loader) {
		l.allowEmptyValues = true
	}
}

// WithExpand enables ${VAR} substitution over the merged result returned by
// Config and Parse. References resolve against the merged values first and
// the ambient environment second. The environment sink always receives values
// as loaded, never the expanded form.
func WithExpand() Option {
	return func(l *Loader) {
		l.expand = true
	}
}

// WithRateLimit caps how many secret reads may start per second during a
// load. Default 45.
func WithRateLimit(requestsPerSecond int) Option {
	return func(l *Loader) {
		l.rateLimit = requestsPerSecond
	}
}

// WithConnectionString supplies the App Configuration connection string
// directly, overriding the local file and the ambient environment.
func WithConnectionString(connectionString string) Option {
	return func(l *Loader) {
		l.connectionString = connectionString
	}
}

// WithClientCredentials pins vault access to one service principal. All three
// values must be set for the principal to be used; otherwise the default
// credential chain applies.
func WithClientCredentials(tenantID, clientID, clientSecret string) Option {
	return func(l *Loader) {
		l.credentials = keyvault.ClientCredentials{
			TenantID:     tenantID,
			ClientID:     clientID,
			ClientSecret: clientSecret,
		}
	}
}

// WithEnvironment replaces the process environment sink.
func WithEnvironment(env Environment) Option {
	return func(l *Loader) {
		l.env = env
	}
}

// WithWarnHandler replaces the handler invoked for non-fatal load problems,
// such as an unreachable vault. The default logs through the standard logger.
func WithWarnHandler(warn func(error)) Option {
	return func(l *Loader) {
		l.warn = warn
	}
}

// WithClientOptions replaces the azcore client options shared by every client
// the Loader constructs.
func WithClientOptions(options *azcore.ClientOptions) Option {
	return func(l *Loader) {
		l.coreClientOptions = options
	}
}

// WithSettingsClientFactory sets a custom App Configuration client factory
// (for testing).
func WithSettingsClientFactory(factory appconfig.SettingsClientFactory) Option {
	return func(l *Loader) {
		l.settingsFactory = factory
	}
}

// WithSecretsResolver replaces the Key Vault resolver entirely.
func WithSecretsResolver(resolver keyvault.SecretsResolver) Option {
	return func(l *Loader) {
		l.resolver = resolver
	}
}

// WithResolverOptions forwards options to the Key Vault resolver the Loader
// builds, such as keyvault.WithClientFactory or keyvault.WithClock.
func WithResolverOptions(opts ...keyvault.ResolverOption) Option {
	return func(l *Loader) {
		l.resolverOpts = append(l.resolverOpts, opts...)
	}
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		path:        DotEnvFileName,
		examplePath: ExampleFileName,
		rateLimit:   keyvault.DefaultRateLimit,
		env:         OSEnvironment{},
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.warn == nil {
		l.warn = func(err error) {
			log.Printf("WARNING: %v", err)
		}
	}

	if l.coreClientOptions == nil {
		l.coreClientOptions = azsdk.NewClientOptionsBuilder().
			SetUserAgent(internal.UserAgent()).
			WithCorrelationID().
			BuildCoreClientOptions()
	}

	if l.resolver == nil {
		l.resolver = keyvault.NewSecretsResolver(
			l.credentials,
			l.coreClientOptions,
			l.rateLimit,
			l.resolverOpts...,
		)
	}

	return l
}

// Config loads the local file, loads the remote store, applies both to the
// environment, and returns all three views.
//
// Local values are applied first, remote-derived values second, and neither
// pass overwrites a variable that already has a value, so the environment
// honors ambient over local over remote. An unreadable local file is not
// fatal: loading continues with empty local values and the error is carried
// on the Result.
func (l *Loader) Config(ctx context.Context) (*Result, error) {
	localVars, localErr := godotenv.Read(l.path)
	if localVars == nil {
		localVars = map[string]string{}
	}
	if localErr != nil {
		l.warn(fmt.Errorf("reading local file %s: %w", l.path, localErr))
	}

	if err := setIfAbsent(l.env, localVars); err != nil {
		return nil, err
	}

	azureVars, err := l.loadFromAzure(ctx, localVars)
	if err != nil {
		return nil, err
	}

	if err := setIfAbsent(l.env, azureVars); err != nil {
		return nil, err
	}

	parsed, err := mergeLayers(azureVars, localVars)
	if err != nil {
		return nil, err
	}

	if l.expand {
		if parsed, err = expandVariables(parsed, l.env); err != nil {
			return nil, err
		}
	}

	if l.safe {
		if err := l.validateRequiredVariables(localErr); err != nil {
			return nil, err
		}
	}

	return &Result{
		Parsed:   parsed,
		Local:    localVars,
		Remote:   azureVars,
		LocalErr: localErr,
	}, nil
}

// Parse merges the given dotenv-format source with the remote store and
// returns the result. It never touches the environment sink.
func (l *Loader) Parse(ctx context.Context, src []byte) (map[string]string, error) {
	localVars, err := godotenv.UnmarshalBytes(src)
	if err != nil {
		return nil, fmt.Errorf("parsing local source: %w", err)
	}

	azureVars, err := l.loadFromAzure(ctx, localVars)
	if err != nil {
		return nil, err
	}

	merged, err := mergeLayers(azureVars, localVars)
	if err != nil {
		return nil, err
	}

	if l.expand {
		return expandVariables(merged, l.env)
	}

	return merged, nil
}

// LoadFromAzure loads only the remote side: plain store values overlaid on
// resolved vault secrets, with no local values folded in and no sink writes.
// localVars participates solely in connection string resolution.
func (l *Loader) LoadFromAzure(ctx context.Context, localVars map[string]string) (map[string]string, error) {
	return l.loadFromAzure(ctx, localVars)
}

func (l *Loader) loadFromAzure(ctx context.Context, localVars map[string]string) (map[string]string, error) {
	credentials, err := l.resolveCredentials(localVars)
	if err != nil {
		return nil, err
	}

	configService := appconfig.NewConfigurationServiceWithFactory(
		credentials.ConnectionString,
		l.coreClientOptions,
		l.settingsFactory,
	)

	settings, err := configService.ListSettings(ctx)
	if err != nil {
		return nil, err
	}

	secrets, err := l.resolver.ResolveSecrets(ctx, settings.References)
	if err != nil {
		// vault trouble must not block local and plain remote values
		l.warn(fmt.Errorf("resolving key vault secrets: %w", err))
		secrets = map[string]string{}
	}

	return mergeLayers(secrets, settings.Values)
}

// Config is shorthand for New(opts...).Config(ctx).
func Config(ctx context.Context, opts ...Option) (*Result, error) {
	return New(opts...).Config(ctx)
}

// Parse is shorthand for New(opts...).Parse(ctx, src).
func Parse(ctx context.Context, src []byte, opts ...Option) (map[string]string, error) {
	return New(opts...).Parse(ctx, src)
}
