package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeJSON pulls the JSON payload out of a model reply and unmarshals it.
func decodeJSON(content string, result any) error {
	if err := json.Unmarshal([]byte(extractJSON(content)), result); err != nil {
		return fmt.Errorf("parsing JSON response: %w (content: %s)", err, content)
	}
	return nil
}

// extractJSON returns the JSON inside a reply that may wrap it in a fenced
// code block or surround it with prose. Unrecognized input is returned as is.
func extractJSON(s string) string {
	if body, ok := fencedBlock(s); ok {
		return body
	}

	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return s
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return s
}

// fencedBlock returns the body of the first ``` block, with or without a
// language tag.
func fencedBlock(s string) (string, bool) {
	open := strings.Index(s, "```")
	if open == -1 {
		return "", false
	}
	rest := s[open+3:]
	if nl := strings.IndexAny(rest, "\r\n"); nl != -1 && !strings.ContainsAny(rest[:nl], "{[") {
		rest = rest[nl:]
	}
	rest = strings.TrimLeft(rest, "\r\n")

	end := strings.Index(rest, "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimRight(rest[:end], "\r\n"), true
}
