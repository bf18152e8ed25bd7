package httpapi

import (
	"bytes"
	"encoding/json"
	"strings"
)

// coerceText turns the raw JSON value of the "text" field into the string
// that gets analyzed. Non-string values keep the spelling reviewers would see
// from a Python service: True/False/None for literals, numbers verbatim and
// containers as compact JSON.
func coerceText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case 't':
		return "True", nil
	case 'f':
		return "False", nil
	case 'n':
		return "None", nil
	case '[', '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return string(trimmed), nil
	}
}

// textField extracts and coerces "text" from a request body. ok is false when
// the body is not a JSON object carrying that key.
func textField(body []byte) (text string, ok bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", false
	}
	raw, found := fields["text"]
	if !found {
		return "", false
	}
	text, err := coerceText(raw)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(text), true
}
