package core

import (
	"sort"

	"pkt.systems/agentpane/schema"
)

// Built-in placeholder tokens.
const (
	TokenBuffer    = "@buffer"
	TokenCursor    = "@cursor"
	TokenSelection = "@selection"
	TokenThis      = "@this"
)

// Registry maps placeholder token text to resolvers. Token keys are
// unique; registering a token again replaces the previous resolver.
type Registry struct {
	resolvers map[string]Resolver
}

// NewRegistry returns a registry populated with the built-in tokens.
func NewRegistry() *Registry {
	r := &Registry{resolvers: make(map[string]Resolver)}
	r.Register(TokenBuffer, ResolverFunc(ResolveBuffer))
	r.Register(TokenCursor, ResolverFunc(ResolveCursor))
	r.Register(TokenSelection, ResolverFunc(ResolveSelection))
	r.Register(TokenThis, ResolverFunc(ResolveThis))
	return r
}

// Register binds token to resolver, replacing any previous binding.
func (r *Registry) Register(token string, resolver Resolver) {
	if token == "" || resolver == nil {
		return
	}
	r.resolvers[token] = resolver
}

// RegisterStatic binds extra static-text tokens, last wins.
func (r *Registry) RegisterStatic(placeholders map[string]string) {
	for token, text := range placeholders {
		r.Register(token, StaticResolver(text))
	}
}

// Merge copies other's bindings over r's; other wins on collision.
func (r *Registry) Merge(other *Registry) {
	if other == nil {
		return
	}
	for token, resolver := range other.resolvers {
		r.Register(token, resolver)
	}
}

// Resolve looks up and invokes the resolver for token.
func (r *Registry) Resolve(token string, ctx schema.EditorContext) (string, bool) {
	resolver, ok := r.resolvers[token]
	if !ok {
		return "", false
	}
	return resolver.Resolve(ctx)
}

// Tokens returns all registered token texts in sorted order.
func (r *Registry) Tokens() []string {
	tokens := make([]string, 0, len(r.resolvers))
	for token := range r.resolvers {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

// tokensLongestFirst orders tokens by descending length so a token that
// contains another token's text as a substring is substituted first.
// Ties break lexicographically to keep rendering deterministic.
func (r *Registry) tokensLongestFirst() []string {
	tokens := r.Tokens()
	sort.SliceStable(tokens, func(i, j int) bool {
		return len(tokens[i]) > len(tokens[j])
	})
	return tokens
}
