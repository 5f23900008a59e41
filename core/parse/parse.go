package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/leofalp/webscout/core/result"
)

// Args decodes tool arguments into T.
//
// Blank content decodes to the zero value, so tools whose inputs are all
// optional can be called with no arguments. Markdown code fences around the
// payload are removed. Malformed JSON (single quotes, trailing commas,
// unquoted keys, truncated objects) is repaired with jsonrepair and decoded
// again. As a last resort, schema-shaped envelopes such as
// {"query": {"type": "string", "value": "golang"}} are unwrapped.
//
// Every failure is a *result.Error of kind invalid_input.
func Args[T any](content string) (T, error) {
	var out T

	content = stripCodeFence(strings.TrimSpace(content))
	if content == "" {
		return out, nil
	}

	err := json.Unmarshal([]byte(content), &out)
	if err == nil {
		return out, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(content)
	if repairErr != nil {
		return out, result.Errorf(result.KindInvalidInput, "arguments are not valid JSON: %v", err)
	}

	out = *new(T)
	if err = json.Unmarshal([]byte(repaired), &out); err == nil {
		return out, nil
	}

	unwrapped, unwrapErr := unwrapSchemaValues(repaired)
	if unwrapErr == nil {
		out = *new(T)
		if err2 := json.Unmarshal([]byte(unwrapped), &out); err2 == nil {
			return out, nil
		}
	}

	return *new(T), result.Errorf(result.KindInvalidInput, "cannot decode arguments as %T: %v", out, err)
}

// stripCodeFence removes a surrounding ```json ... ``` block.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// unwrapSchemaValues replaces every {"type": ..., "value": v} pair with v.
func unwrapSchemaValues(jsonStr string) (string, error) {
	var data any
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return "", err
	}

	b, err := json.Marshal(recursiveUnwrap(data))
	if err != nil {
		return "", fmt.Errorf("re-encoding unwrapped arguments: %w", err)
	}
	return string(b), nil
}

func recursiveUnwrap(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if _, hasType := v["type"]; hasType {
			if value, hasValue := v["value"]; hasValue && len(v) == 2 {
				return recursiveUnwrap(value)
			}
		}
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = recursiveUnwrap(val)
		}
		return out

	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = recursiveUnwrap(val)
		}
		return out

	default:
		return data
	}
}
