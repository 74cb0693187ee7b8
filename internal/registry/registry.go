// Package registry holds the local allow-list of DNAnexus usernames and their
// API tokens.
package registry

import (
	"fmt"
	"sort"

	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/dxerr"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/normalize"
)

// Registry maps bare usernames to API tokens. It is never mutated after
// construction.
type Registry struct {
	source string
	tokens map[string]string
}

// New copies tokens into a Registry. Keys may carry the user- prefix, but two
// keys naming the same user ("alice" and "user-alice") are an error.
func New(source string, tokens map[string]string) (*Registry, error) {
	keys := make([]string, 0, len(tokens))
	for name := range tokens {
		keys = append(keys, name)
	}
	sort.Strings(keys)

	r := &Registry{source: source, tokens: make(map[string]string, len(tokens))}
	seen := make(map[string]string, len(tokens))
	for _, key := range keys {
		name := normalize.Username(key)
		if name == "" {
			return nil, fmt.Errorf("registry %s: empty username key %q", source, key)
		}
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("registry %s: keys %q and %q both name %s", source, prev, key, name)
		}
		seen[name] = key
		r.tokens[name] = normalize.Trim(tokens[key])
	}
	return r, nil
}

// Source names where the registry was loaded from.
func (r *Registry) Source() string {
	if r == nil {
		return ""
	}
	return r.source
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.tokens)
}

// Usernames returns the registered usernames in sorted order.
func (r *Registry) Usernames() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.tokens))
	for name := range r.tokens {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Validate checks that name is registered with a non-empty token. When
// failOnError is false, both failure cases return false with a nil error.
func (r *Registry) Validate(name string, failOnError bool) (bool, error) {
	_, err := r.lookup(name)
	if err == nil {
		return true, nil
	}
	if !failOnError {
		return false, nil
	}
	return false, err
}

// Token returns the API token registered for name.
func (r *Registry) Token(name string) (string, error) {
	return r.lookup(name)
}

func (r *Registry) lookup(name string) (string, error) {
	username := normalize.Username(name)
	var (
		token string
		ok    bool
	)
	if r != nil {
		token, ok = r.tokens[username]
	}
	if !ok {
		return "", dxerr.New(dxerr.KindUnknownUsername, username, r.Source())
	}
	if token == "" {
		return "", dxerr.New(dxerr.KindMissingToken, username, r.Source())
	}
	return token, nil
}
