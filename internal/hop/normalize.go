package hop

import (
	"bytes"
	"encoding/json"
)

// Normalize turns an untrusted payload into an ordered hop sequence.
//
// A payload that is not a JSON array yields an empty, non-nil sequence.
// Elements keep their position: the result is never sorted, deduplicated
// or reversed, because position is path order.
func Normalize(raw json.RawMessage) []Hop {
	elems, ok := splitArray(raw)
	if !ok {
		return []Hop{}
	}
	return decodeAll(elems)
}

func splitArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, false
	}
	return elems, true
}

func decodeAll(elems []json.RawMessage) []Hop {
	hops := make([]Hop, 0, len(elems))
	for _, e := range elems {
		hops = append(hops, Decode(e))
	}
	return hops
}
