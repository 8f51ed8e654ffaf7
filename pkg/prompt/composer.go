package prompt

import (
	"fmt"
	"strings"
)

// Compose substitutes {{name}} placeholders in template with the values in
// vars. Every name in required must be present as a key in vars (an empty
// string value satisfies the check), and a template placeholder with no
// matching var is an error. The template is scanned once, left to right, so
// substituted values are emitted verbatim even when they themselves contain
// {{...}} text (user content flows into several vars). The composed prompt
// is returned trimmed.
func Compose(template string, vars map[string]string, required []string) (string, error) {
	for _, name := range required {
		if _, ok := vars[name]; !ok {
			return "", fmt.Errorf("missing prompt variable: %s", name)
		}
	}

	var out strings.Builder
	rest := template
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			out.WriteString(rest)
			break
		}
		end := strings.Index(rest[start:], "}}")
		if end == -1 {
			out.WriteString(rest)
			break
		}
		token := rest[start : start+end+2]
		value, ok := vars[token[2:len(token)-2]]
		if !ok {
			return "", fmt.Errorf("unresolved prompt placeholder: %s", token)
		}
		out.WriteString(rest[:start])
		out.WriteString(value)
		rest = rest[start+end+2:]
	}
	return strings.TrimSpace(out.String()), nil
}
