package revisor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedOutput is returned when the model's response is not valid
// JSON even after the repair attempt.
var ErrMalformedOutput = errors.New("malformed model output")

// ErrValidation is returned when the model's response misses required
// fields or has the wrong number of pros and cons.
var ErrValidation = errors.New("invalid model output")

var requiredFields = []string{"full_content", "pros", "cons", "simplified_summary", "reading_level"}

// parse decodes and validates the model's response.
func parse(resp string) (Simplified, error) {
	text := stripFences(resp)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		var syntaxErr *json.SyntaxError
		if !errors.As(err, &syntaxErr) {
			return Simplified{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
		}

		repaired, ok := repair(text)
		if !ok {
			return Simplified{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
		}

		if err = json.Unmarshal([]byte(repaired), &fields); err != nil {
			return Simplified{}, fmt.Errorf("%w: repair failed: %v", ErrMalformedOutput, err)
		}
		text = repaired
	}

	for _, f := range requiredFields {
		if _, ok := fields[f]; !ok {
			return Simplified{}, fmt.Errorf("%w: missing required field %q", ErrValidation, f)
		}
	}

	var res Simplified
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return Simplified{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if len(res.Pros) != 3 {
		return Simplified{}, fmt.Errorf("%w: want 3 pros, got %d", ErrValidation, len(res.Pros))
	}

	if len(res.Cons) != 3 {
		return Simplified{}, fmt.Errorf("%w: want 3 cons, got %d", ErrValidation, len(res.Cons))
	}

	return res, nil
}

// stripFences removes the markdown code block around the response.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// repair closes the value of "full_content" when the response is cut
// in the middle of it, along with the objects and arrays left open
// before it. Any other damage is not repaired.
func repair(s string) (string, bool) {
	idx := strings.Index(s, `"full_content"`)
	if idx < 0 {
		return "", false
	}

	// openers left unclosed before the field
	var stack []byte
	inString, escaped := false, false
	for i := 0; i < idx; i++ {
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
			stack = append(stack, c)
		case (c == '}' || c == ']') && len(stack) > 0:
			stack = stack[:len(stack)-1]
		}
	}
	if inString {
		return "", false
	}

	rest := s[idx+len(`"full_content"`):]
	colon := strings.TrimLeft(rest, " \t\r\n")
	if !strings.HasPrefix(colon, ":") {
		return "", false
	}
	value := strings.TrimLeft(colon[1:], " \t\r\n")
	if !strings.HasPrefix(value, `"`) {
		return "", false
	}

	escaped = false
	for i := 1; i < len(value); i++ {
		switch {
		case escaped:
			escaped = false
		case value[i] == '\\':
			escaped = true
		case value[i] == '"':
			// terminated, nothing to repair here
			return "", false
		}
	}

	b := &strings.Builder{}
	if escaped {
		// cut in the middle of an escape sequence
		s = s[:len(s)-1]
	}
	b.WriteString(s)
	b.WriteByte('"')
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String(), true
}
