package azsdk

import (
	"net/http"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/stretchr/testify/require"
)

func TestBuildCoreClientOptions(t *testing.T) {
	t.Run("WithDefaults", func(t *testing.T) {
		builder := NewClientOptionsBuilder()
		coreOptions := builder.BuildCoreClientOptions()

		require.Nil(t, coreOptions.Transport)
		require.Nil(t, coreOptions.PerCallPolicies)
	})

	t.Run("WithOverrides", func(t *testing.T) {
		testPolicy := &testPolicy{}
		transport := &captureTransport{}

		builder := NewClientOptionsBuilder().
			WithTransport(transport).
			WithPerCallPolicy(testPolicy).
			SetUserAgent("custom-user-agent")

		coreOptions := builder.BuildCoreClientOptions()

		require.Same(t, transport, coreOptions.Transport)
		require.Same(t, testPolicy, coreOptions.PerCallPolicies[0])
		require.Len(t, coreOptions.PerCallPolicies, 2)
	})

	t.Run("BlankUserAgentDropsPolicy", func(t *testing.T) {
		builder := NewClientOptionsBuilder().
			SetUserAgent("custom-user-agent").
			SetUserAgent("")

		coreOptions := builder.BuildCoreClientOptions()
		require.Nil(t, coreOptions.PerCallPolicies)
	})
}

type testPolicy struct {
}

func (p *testPolicy) Do(req *policy.Request) (*http.Response, error) {
	return req.Next()
}
