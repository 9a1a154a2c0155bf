package manifest

import (
	"fmt"
	"strings"
)

// render is a minimal brace-style templater: {key} is replaced by env[key].
// It deliberately does not reach for text/template, since the grammar
// needed here is a single non-nested substitution, not control flow.
func render(template string, env map[string]string) (string, error) {
	var out strings.Builder
	i := 0
	for i < len(template) {
		open := strings.IndexByte(template[i:], '{')
		if open < 0 {
			out.WriteString(template[i:])
			break
		}
		out.WriteString(template[i : i+open])
		start := i + open + 1
		close := strings.IndexByte(template[start:], '}')
		if close < 0 {
			return "", fmt.Errorf("template %q has an unterminated {", template)
		}
		key := template[start : start+close]
		value, ok := env[key]
		if !ok {
			return "", fmt.Errorf("template %q references unknown key %q", template, key)
		}
		out.WriteString(value)
		i = start + close + 1
	}
	return out.String(), nil
}
