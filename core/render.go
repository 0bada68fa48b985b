package core

import (
	"strings"

	"pkt.systems/agentpane/schema"
)

// Render substitutes every registered placeholder token in prompt with
// its resolved value. Tokens are matched as literal strings in a single
// left-to-right pass, longest token first at each position, so an
// overlapping shorter token cannot corrupt a longer one and substituted
// values are never rescanned. A token whose resolver yields no value is
// left untouched: the user sees the literal text and knows the context
// was unavailable.
func Render(prompt string, registry *Registry, ctx schema.EditorContext) string {
	if registry == nil || prompt == "" {
		return prompt
	}
	tokens := registry.tokensLongestFirst()

	var out strings.Builder
	out.Grow(len(prompt))
	for i := 0; i < len(prompt); {
		token, matched := matchTokenAt(prompt[i:], tokens)
		if !matched {
			out.WriteByte(prompt[i])
			i++
			continue
		}
		value, ok := registry.Resolve(token, ctx)
		if ok {
			out.WriteString(value)
		} else {
			out.WriteString(token)
		}
		i += len(token)
	}
	return out.String()
}

// matchTokenAt returns the first token that is a literal prefix of rest.
// tokens must be ordered longest first so the most specific token wins.
func matchTokenAt(rest string, tokens []string) (string, bool) {
	for _, token := range tokens {
		if strings.HasPrefix(rest, token) {
			return token, true
		}
	}
	return "", false
}
