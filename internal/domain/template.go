package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// placeholderRe matches {{name}} tokens, with optional inner whitespace.
var placeholderRe = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)

// MessageTemplate is a campaign's message body plus its campaign-level
// variable defaults. Per-recipient data is merged in at render time and wins
// on conflict.
type MessageTemplate struct {
	Body      string         `json:"body"`
	Variables map[string]any `json:"variables"`
}

// Placeholders returns the distinct placeholder names in order of first
// appearance.
func (t MessageTemplate) Placeholders() []string {
	seen := map[string]bool{}
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(t.Body, -1) {
		name := m[1]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Validate rejects an empty body and any placeholder without a corresponding
// key in the template's variable map.
func (t MessageTemplate) Validate() error {
	if strings.TrimSpace(t.Body) == "" {
		return invalid("template.body", "must not be empty")
	}
	for _, name := range t.Placeholders() {
		if _, ok := t.Variables[name]; !ok {
			return invalid("template.variables", "no value for placeholder {{"+name+"}}")
		}
	}
	return nil
}

// Render substitutes recognized placeholders with values from the template's
// variables merged with the recipient's data (recipient wins on conflict).
// Scalars are stringified, composite values are JSON-serialized, and
// unrecognized placeholders are left verbatim.
func (t MessageTemplate) Render(recipient map[string]any) string {
	merged := make(map[string]any, len(t.Variables)+len(recipient))
	for k, v := range t.Variables {
		merged[k] = v
	}
	for k, v := range recipient {
		merged[k] = v
	}
	return placeholderRe.ReplaceAllStringFunc(t.Body, func(token string) string {
		name := placeholderRe.FindStringSubmatch(token)[1]
		val, ok := merged[name]
		if !ok {
			return token
		}
		return stringifyVar(val)
	})
}

func stringifyVar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case bool, int, int32, int64, float32, float64:
		return fmt.Sprintf("%v", x)
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprintf("%v", x)
		}
		return string(data)
	}
}
