package core

import "strings"

// Complete returns input-assist candidates for the given input line.
// The trailing whitespace-delimited fragment of the line is matched as
// a literal prefix against every registered token; each candidate is
// the full line with the fragment replaced by the matching token. A
// line ending in whitespace (or an empty line) has an empty fragment,
// so every token is offered appended to the line. The result is
// recomputed fresh on every call.
func Complete(line string, registry *Registry) []string {
	if registry == nil {
		return nil
	}
	base, fragment := splitTrailingFragment(line)
	var candidates []string
	for _, token := range registry.Tokens() {
		if fragment != "" && !strings.HasPrefix(token, fragment) {
			continue
		}
		candidates = append(candidates, base+token)
	}
	return candidates
}

// splitTrailingFragment splits line into everything up to and including
// the last whitespace, and the trailing fragment after it.
func splitTrailingFragment(line string) (base, fragment string) {
	idx := strings.LastIndexAny(line, " \t")
	if idx < 0 {
		return "", line
	}
	return line[:idx+1], line[idx+1:]
}
