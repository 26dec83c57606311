package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DecodeStringMap parses a model response into a flat string map. Model
// output is untrusted: code fences are stripped, numeric and boolean values
// are stringified, and nulls are dropped. Nested values are discarded.
func DecodeStringMap(raw json.RawMessage) (map[string]string, error) {
	cleaned := StripCodeFences(string(raw))

	var m map[string]any
	if err := json.Unmarshal([]byte(cleaned), &m); err != nil {
		return nil, fmt.Errorf("llm decode: %w", err)
	}

	out := make(map[string]string, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				out[k] = s
			}
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(t)
		case nil:
			// dropped
		}
	}
	return out, nil
}

// StripCodeFences removes a surrounding markdown code fence, with or without
// a language tag, from model output.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first != "" && !strings.HasPrefix(first, "{") && !strings.HasPrefix(first, "[") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
