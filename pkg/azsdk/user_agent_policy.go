package azsdk

import (
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

const userAgentHeaderName = "User-Agent"

// UserAgentPolicy appends a component to the User-Agent request header,
// after whatever the azcore telemetry policy already contributed.
type UserAgentPolicy struct {
	userAgent string
}

// NewUserAgentPolicy creates a policy that appends the given component to the
// User-Agent header of each request. A blank component leaves requests untouched.
func NewUserAgentPolicy(userAgent string) *UserAgentPolicy {
	return &UserAgentPolicy{userAgent: userAgent}
}

func (p *UserAgentPolicy) Do(req *policy.Request) (*http.Response, error) {
	if strings.TrimSpace(p.userAgent) != "" {
		rawRequest := req.Raw()
		userAgent, ok := rawRequest.Header[userAgentHeaderName]
		if !ok {
			userAgent = []string{}
		}
		userAgent = append(userAgent, p.userAgent)
		rawRequest.Header.Set(userAgentHeaderName, strings.Join(userAgent, ","))
	}

	return req.Next()
}
