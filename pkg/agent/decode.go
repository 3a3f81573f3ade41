package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractJSON pulls the first top-level JSON object out of a model response.
// Providers in JSON mode still occasionally wrap the object in prose or
// markdown fences, so we slice between the outermost braces before decoding.
func extractJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object in model output")
	}
	return raw[start : end+1], nil
}

// decodeStrict unmarshals a model response into out. It never guesses: if the
// payload cannot be decoded the error is returned and the caller applies its
// own documented fallback.
func decodeStrict(raw string, out interface{}) error {
	payload, err := extractJSON(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("failed to decode model output: %w", err)
	}
	return nil
}
