// Package service contains the business logic layer.
//
// This file extracts a JSON object from unreliable model output. The model is
// asked for JSON only, but in practice it may wrap the object in code fences,
// prepend prose, or truncate it. All leniency lives here; the rest of the
// pipeline only ever sees typed, possibly-partial results.
package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/0xarg/openscope/internal/ai"
)

// ExtractJSON locates the JSON object inside raw model output.
//
// It strips leading/trailing code fences, then takes the substring from the
// first '{' to the last '}' inclusive. Returns ai.EAIMalformedResponse when
// no object can be located.
func ExtractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	// Strip code fences ("```json ... ```" or bare "```").
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON object in output", ai.EAIMalformedResponse)
	}

	return s[start : end+1], nil
}

// Normalize parses raw model output into v.
//
// Lenient on purpose: unknown keys are ignored and missing keys leave fields
// zero-valued — field-level mismatches are not errors, because the model's
// output is not contractually guaranteed. Only a structurally unparseable
// object fails, with ai.EAIMalformedResponse.
func Normalize(raw string, v interface{}) error {
	candidate, err := ExtractJSON(raw)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return fmt.Errorf("%w: %v", ai.EAIMalformedResponse, err)
	}
	return nil
}
