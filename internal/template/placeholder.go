// Package template implements {{key}} placeholder extraction and substitution
// for email templates. The substitution semantics must match what the backend
// applies at send time, so the review preview and the delivered mail agree.
package template

import (
	"regexp"
	"strings"
)

var tokenRe = regexp.MustCompile(`\{\{\s*(.*?)\s*\}\}`)

// ExtractKeys returns the placeholder keys declared in text, deduplicated,
// in first-occurrence order. Keys are trimmed of surrounding whitespace.
func ExtractKeys(text string) []string {
	matches := tokenRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		key := strings.TrimSpace(m[1])
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// Substitute replaces every `{{ key }}` occurrence (whitespace-tolerant inside
// the braces) with values[key]. Keys mapped to an empty value keep their token
// verbatim so unresolved placeholders stay visible. Replacement text is
// inserted literally: a value containing `{{other}}` is never re-substituted.
func Substitute(text string, values map[string]string) string {
	if text == "" || len(values) == 0 {
		return text
	}

	return tokenRe.ReplaceAllStringFunc(text, func(token string) string {
		key := strings.TrimSpace(token[2 : len(token)-2])
		v, ok := values[key]
		if !ok {
			return token
		}
		if v == "" {
			// Known but unfilled keys render in canonical form.
			return "{{" + key + "}}"
		}
		return v
	})
}

// Fill substitutes values into a subject and body pair.
func Fill(subject, body string, values map[string]string) (string, string) {
	return Substitute(subject, values), Substitute(body, values)
}
