package hop

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Response is the validated shape of a traceroute service payload. It is
// one of Hops, ServerError or Malformed.
type Response interface {
	isResponse()
}

// Hops is a well-formed hop array. An empty Hops is still a valid result.
type Hops struct {
	Hops []Hop
}

// ServerError is an object payload carrying an explicit error message.
type ServerError struct {
	Message string
}

// Malformed is any payload matching neither shape.
type Malformed struct {
	Reason string
}

func (Hops) isResponse()        {}
func (ServerError) isResponse() {}
func (Malformed) isResponse()   {}

// Classify validates a response body once, at the boundary.
func Classify(body []byte) Response {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Malformed{Reason: "empty body"}
	}

	if trimmed[0] == '[' {
		elems, ok := splitArray(trimmed)
		if !ok {
			return Malformed{Reason: "invalid json array"}
		}
		return Hops{Hops: decodeAll(elems)}
	}

	if !json.Valid(trimmed) {
		return Malformed{Reason: "invalid json"}
	}

	if msg, ok := ErrorMessage(trimmed); ok {
		return ServerError{Message: msg}
	}

	return Malformed{Reason: "neither a hop array nor an error object"}
}

// ErrorMessage extracts a usable "error" field from a JSON object body.
//
// Only values that would read as a message are accepted: empty strings,
// zero, false and null count as no error at all.
func ErrorMessage(body []byte) (string, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", false
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return "", false
	}

	raw, ok := envelope["error"]
	if !ok {
		return "", false
	}
	return truthyText(raw)
}

func truthyText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return "", false
		}
		return s, true
	case 'n', 'f':
		return "", false
	case 't':
		return "true", true
	case '[', '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return "", false
		}
		return buf.String(), true
	default:
		v, err := strconv.ParseFloat(string(raw), 64)
		if err != nil || v == 0 {
			return "", false
		}
		return string(raw), true
	}
}
