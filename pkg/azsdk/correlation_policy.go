package azsdk

import (
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/google/uuid"
)

// See https://github.com/Azure/azure-resource-manager-rpc/blob/master/v1.0/common-api-details.md#client-request-headers
const msCorrelationIdHeader = "x-ms-correlation-request-id"

// msCorrelationPolicy sets the Microsoft correlation ID header on HTTP requests.
// Every client sharing the policy instance reports the same ID, which ties the
// App Configuration listing and all Key Vault reads of one load together in
// server-side diagnostics.
type msCorrelationPolicy struct {
	correlationId string
}

func (p *msCorrelationPolicy) Do(req *policy.Request) (*http.Response, error) {
	rawRequest := req.Raw()
	rawRequest.Header.Set(msCorrelationIdHeader, p.correlationId)

	return req.Next()
}

// NewMsCorrelationPolicy creates a policy that sets a freshly generated
// Microsoft correlation ID header on HTTP requests.
func NewMsCorrelationPolicy() policy.Policy {
	return &msCorrelationPolicy{correlationId: uuid.NewString()}
}
