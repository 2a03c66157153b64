package service

import (
	"fmt"
	"strings"
)

// ExtractJSON pulls the first balanced JSON object out of free-form model
// output. Models sometimes wrap their JSON in prose or markdown fences, so we
// scan for the first '{' and track brace depth to the matching close.
// Parameters:
//   - content: raw assistant reply text.
//
// Returns:
//   - string: the JSON object substring.
//   - error: non-nil if no object start is found or braces never balance.
func ExtractJSON(content string) (string, error) {
	jsonStart := strings.Index(content, "{")
	if jsonStart == -1 {
		return "", fmt.Errorf("no JSON found in response")
	}

	braceCount := 0
	jsonEnd := -1
findJSON:
	for i := jsonStart; i < len(content); i++ {
		switch content[i] {
		case '{':
			braceCount++
		case '}':
			braceCount--
			if braceCount == 0 {
				jsonEnd = i + 1
				break findJSON
			}
		}
	}

	if jsonEnd == -1 {
		return "", fmt.Errorf("incomplete JSON in response")
	}

	return content[jsonStart:jsonEnd], nil
}
