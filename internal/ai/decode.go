package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripFences removes markdown code fences and any prose around the outermost JSON value.
func StripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" || cleaned[0] == '{' || cleaned[0] == '[' {
		return cleaned
	}
	start := strings.IndexAny(cleaned, "{[")
	end := strings.LastIndexAny(cleaned, "}]")
	if start < 0 || end < start {
		return cleaned
	}
	return cleaned[start : end+1]
}

// DecodeJSON unmarshals model output into v. Models often wrap the payload in an object
// (`{"images": [...]}`); when the top-level value is an object holding one of wrapperKeys,
// the wrapped value is decoded instead.
func DecodeJSON(raw string, v any, wrapperKeys ...string) error {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return ErrEmptyResponse
	}

	if len(wrapperKeys) > 0 && cleaned[0] == '{' {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal([]byte(cleaned), &wrapper); err == nil {
			for _, key := range wrapperKeys {
				inner, ok := wrapper[key]
				if !ok {
					continue
				}
				if err := json.Unmarshal(inner, v); err != nil {
					return fmt.Errorf("decode wrapped key %q: %w", key, err)
				}
				return nil
			}
		}
	}

	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("decode model output: %w", err)
	}
	return nil
}
