package client

import (
	"context"
	"net/http"
)

type credentialKey struct{}

// WithCredential returns a context whose outgoing API calls present
// credential as a bearer token. An empty credential sends the call
// unauthenticated.
func WithCredential(ctx context.Context, credential string) context.Context {
	return context.WithValue(ctx, credentialKey{}, credential)
}

// CredentialFrom returns the credential carried by ctx, if any.
func CredentialFrom(ctx context.Context) string {
	credential, _ := ctx.Value(credentialKey{}).(string)
	return credential
}

// bearerTransport attaches the context credential to every request.
type bearerTransport struct {
	next http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	credential := CredentialFrom(req.Context())
	if credential == "" {
		return t.next.RoundTrip(req)
	}
	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+credential)
	return t.next.RoundTrip(authed)
}
