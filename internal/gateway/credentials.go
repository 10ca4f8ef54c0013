package gateway

// ResolveCredential picks the credential for a remote call. The request body
// wins over the X-Api-Key header, which wins over the configured default.
// An empty result is allowed here; the remote transport rejects it.
func ResolveCredential(body, header, fallback string) string {
	switch {
	case body != "":
		return body
	case header != "":
		return header
	default:
		return fallback
	}
}
