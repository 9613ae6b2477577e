package internal

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

const userSpecifiedAgentEnvironmentVariableName = "DOTENV_AZURE_USER_AGENT"
const githubActionsEnvironmentVariableName = "GITHUB_ACTIONS"

const productIdentifierKey = "dotenvazure"
const githubActionsProductIdentifierKey = "GhActions"

type userAgent struct {
	// product identifier, formatted as `dotenvazure/<version> (Go <go>; <os>/<arch>)`
	productIdentifier string

	// (Optional) user specified identifier, set from the DOTENV_AZURE_USER_AGENT environment variable
	userSpecifiedIdentifier string

	// (Optional) identifier for GitHub Actions, if applicable
	githubActionsIdentifier string
}

func (ua *userAgent) String() string {
	var sb strings.Builder
	sb.WriteString(ua.productIdentifier)
	appendIdentifier(&sb, ua.userSpecifiedIdentifier)
	appendIdentifier(&sb, ua.githubActionsIdentifier)

	return sb.String()
}

func appendIdentifier(sb *strings.Builder, identifier string) {
	if identifier != "" {
		sb.WriteString(" " + identifier)
	}
}

// UserAgent builds the user agent string sent with every Azure request, in
// increasing order:
//   - The library version, formatted as `dotenvazure/<version> (Go <go>; <os>/<arch>)`
//   - The user specified identifier, set from the DOTENV_AZURE_USER_AGENT environment variable
//   - The identifier for GitHub Actions, if applicable
//
// Examples:
//   - `dotenvazure/1.0.0 (Go go1.24; linux/amd64)`
//   - `dotenvazure/1.0.0 (Go go1.24; linux/amd64) custom-foo/1.0.0 GhActions`
func UserAgent() string {
	ua := userAgent{
		productIdentifier:       getProductIdentifier(),
		userSpecifiedIdentifier: getUserSpecifiedIdentifier(),
		githubActionsIdentifier: getGithubActionsIdentifier(),
	}

	return ua.String()
}

func getProductIdentifier() string {
	return fmt.Sprintf("%s/%s %s", productIdentifierKey, GetVersionNumber(), getPlatformInfo())
}

func getPlatformInfo() string {
	return fmt.Sprintf("(Go %s; %s/%s)", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func getUserSpecifiedIdentifier() string {
	// like the Azure CLI (via its `AZURE_HTTP_USER_AGENT` env variable) we allow
	// a user to append information to the user agent via an environment variable.
	if devUserAgent := os.Getenv(userSpecifiedAgentEnvironmentVariableName); devUserAgent != "" {
		return devUserAgent
	}

	return ""
}

func getGithubActionsIdentifier() string {
	// `GITHUB_ACTIONS` is set to 'true' when running in GitHub Actions,
	// see https://docs.github.com/en/actions/learn-github-actions/environment-variables#default-environment-variables
	if isRunningInGithubActions := os.Getenv(githubActionsEnvironmentVariableName); isRunningInGithubActions == "true" {
		return githubActionsProductIdentifierKey
	}

	return ""
}
