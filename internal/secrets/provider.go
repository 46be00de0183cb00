package secrets

import "strings"

// Provider resolves secret references to their actual values.
type Provider interface {
	// Fetch resolves the part of a reference after its "prefix:".
	Fetch(reference string) (string, error)
}

// Resolve processes a map of setting names to secret references, resolving
// each through the provider registered for its prefix.
func Resolve(refs map[string]string, providers map[string]Provider) (map[string]string, error) {
	resolved := make(map[string]string, len(refs))
	for name, ref := range refs {
		val, err := ResolveValue(ref, providers)
		if err != nil {
			return nil, err
		}
		resolved[name] = val
	}
	return resolved, nil
}

// ResolveValue resolves a single setting. Values without a known reference
// prefix ("env:" or "vault:") are literals and are returned unchanged, so
// URLs and plain keys pass through.
func ResolveValue(value string, providers map[string]Provider) (string, error) {
	prefix, remainder := parseReference(value)
	if !isReferencePrefix(prefix) {
		return value, nil
	}
	provider, ok := providers[prefix]
	if !ok {
		return "", &UnknownProviderError{Prefix: prefix, Reference: value}
	}
	val, err := provider.Fetch(remainder)
	if err != nil {
		return "", &FetchError{Reference: value, Err: err}
	}
	return val, nil
}

func isReferencePrefix(prefix string) bool {
	return prefix == "env" || prefix == "vault"
}

// parseReference splits "vault:secret/helius#api_key" into ("vault", "secret/helius#api_key").
func parseReference(ref string) (prefix string, remainder string) {
	if i := strings.IndexByte(ref, ':'); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return "", ref
}

// UnknownProviderError is returned when a reference names a provider that
// is not configured.
type UnknownProviderError struct {
	Prefix    string
	Reference string
}

func (e *UnknownProviderError) Error() string {
	return "unknown secrets provider \"" + e.Prefix + "\" in reference \"" + e.Reference + "\""
}

// FetchError wraps an error from a secrets provider.
type FetchError struct {
	Reference string
	Err       error
}

func (e *FetchError) Error() string {
	return "fetching secret \"" + e.Reference + "\": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
