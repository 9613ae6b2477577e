// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package appconfig lists the key/value settings of an Azure App Configuration
// store and splits them into plain values and Key Vault references.
package appconfig

import (
	"context"
	"fmt"
	"log"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azappconfig"
	"github.com/azure/dotenv-azure/pkg/convert"
)

// SettingsClient is the subset of the App Configuration data-plane client the
// service needs. *azappconfig.Client satisfies it; tests substitute fakes
// built with runtime.NewPager.
type SettingsClient interface {
	NewListSettingsPager(
		selector azappconfig.SettingSelector,
		options *azappconfig.ListSettingsOptions,
	) *runtime.Pager[azappconfig.ListSettingsPageResponse]
}

// SettingsClientFactory creates the data-plane client for one store.
type SettingsClientFactory func(
	connectionString string,
	options *azappconfig.ClientOptions,
) (SettingsClient, error)

// Settings is one enumeration of a store, partitioned by setting kind. Every
// enumerated key lands in exactly one of the two maps.
type Settings struct {
	// Values holds settings whose value is used verbatim.
	Values map[string]string
	// References holds settings that point into Key Vault, keyed by the
	// configuration key whose final value the secret supplies.
	References map[string]KeyVaultReference
}

// ConfigurationService lists the settings of an App Configuration store.
type ConfigurationService interface {
	ListSettings(ctx context.Context) (*Settings, error)
}

type configurationService struct {
	connectionString  string
	coreClientOptions *azcore.ClientOptions
	clientFactory     SettingsClientFactory
}

// NewConfigurationService creates a ConfigurationService for the store named
// by the connection string.
func NewConfigurationService(
	connectionString string,
	coreClientOptions *azcore.ClientOptions,
) ConfigurationService {
	return NewConfigurationServiceWithFactory(connectionString, coreClientOptions, nil)
}

// NewConfigurationServiceWithFactory is NewConfigurationService with a custom
// data-plane client factory. A nil factory selects the real SDK client.
func NewConfigurationServiceWithFactory(
	connectionString string,
	coreClientOptions *azcore.ClientOptions,
	clientFactory SettingsClientFactory,
) ConfigurationService {
	if clientFactory == nil {
		clientFactory = func(
			connectionString string,
			options *azappconfig.ClientOptions,
		) (SettingsClient, error) {
			return azappconfig.NewClientFromConnectionString(connectionString, options)
		}
	}

	return &configurationService{
		connectionString:  connectionString,
		coreClientOptions: coreClientOptions,
		clientFactory:     clientFactory,
	}
}

// ListSettings walks every page of the store and classifies each setting by
// content type. A key seen more than once keeps its last classification only,
// so the two result maps stay disjoint. A malformed reference aborts the whole
// listing with an *InvalidReferenceError.
func (cs *configurationService) ListSettings(ctx context.Context) (*Settings, error) {
	client, err := cs.createSettingsClient()
	if err != nil {
		return nil, err
	}

	settings := &Settings{
		Values:     map[string]string{},
		References: map[string]KeyVaultReference{},
	}

	selector := azappconfig.SettingSelector{
		KeyFilter: to.Ptr("*"),
	}

	pager := client.NewListSettingsPager(selector, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing app configuration settings: %w", err)
		}

		for _, setting := range page.Settings {
			if setting.Key == nil {
				continue
			}

			key := *setting.Key
			value := convert.ToValueWithDefault(setting.Value, "")

			if setting.ContentType != nil && IsKeyVaultReference(*setting.ContentType) {
				ref, err := ParseKeyVaultReference(key, value)
				if err != nil {
					return nil, err
				}
				delete(settings.Values, key)
				settings.References[key] = ref
			} else {
				delete(settings.References, key)
				settings.Values[key] = value
			}
		}
	}

	log.Printf(
		"appconfig: listed %d plain settings and %d key vault references",
		len(settings.Values),
		len(settings.References),
	)

	return settings, nil
}

func (cs *configurationService) createSettingsClient() (SettingsClient, error) {
	options := &azappconfig.ClientOptions{}
	if cs.coreClientOptions != nil {
		options.ClientOptions = *cs.coreClientOptions
	}

	client, err := cs.clientFactory(cs.connectionString, options)
	if err != nil {
		return nil, fmt.Errorf("creating app configuration client: %w", err)
	}

	return client, nil
}
