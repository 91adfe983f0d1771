package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseError means the provider's reply held no usable JSON object. It is a
// hard failure for the call that produced it, never silently defaulted.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse provider response: %s", e.Reason)
}

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSONObject pulls the first well-formed JSON object out of raw
// provider text. Providers return raw JSON, JSON inside a fenced code block,
// or JSON followed by trailing prose; all three shapes are accepted.
func ExtractJSONObject(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", &ParseError{Reason: "empty response"}
	}

	if match := fencedBlockPattern.FindStringSubmatch(candidate); match != nil {
		candidate = strings.TrimSpace(match[1])
	}

	start := strings.IndexByte(candidate, '{')
	if start < 0 {
		return "", &ParseError{Reason: "no JSON object found"}
	}

	object, ok := scanBalancedObject(candidate[start:])
	if !ok {
		return "", &ParseError{Reason: "unbalanced JSON object"}
	}

	if !json.Valid([]byte(object)) {
		return "", &ParseError{Reason: "extracted text is not valid JSON"}
	}

	return object, nil
}

// scanBalancedObject returns the prefix of s covering the first balanced
// brace pair, ignoring braces inside string literals.
func scanBalancedObject(s string) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}

	return "", false
}
