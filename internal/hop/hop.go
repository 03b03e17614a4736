package hop

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Hop is one node on a traced path, ordered from origin to target.
//
// Every field is optional. Upstream data is untrusted, so a nil field means
// "absent or unusable" and consumers decide how to render it.
type Hop struct {
	IP          *string
	Country     *string
	CountryCode *string
	ISP         *string
	Lat         *float64
	Lon         *float64
	Ping        *float64

	raw json.RawMessage
}

type wireHop struct {
	IP          *string  `json:"ip,omitempty"`
	Country     *string  `json:"country,omitempty"`
	CountryCode *string  `json:"countryCode,omitempty"`
	ISP         *string  `json:"isp,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
	Ping        *float64 `json:"ping,omitempty"`
}

// Decode reads a single element of an upstream hop array. It never fails:
// anything that is not a JSON object yields a Hop with every field absent.
func Decode(elem json.RawMessage) Hop {
	var h Hop
	if json.Valid(elem) {
		h.raw = append(json.RawMessage(nil), bytes.TrimSpace(elem)...)
	}

	trimmed := bytes.TrimSpace(elem)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return h
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return h
	}

	h.IP = optString(fields["ip"])
	h.Country = optString(fields["country"])
	h.CountryCode = optString(fields["countryCode"])
	h.ISP = optString(fields["isp"])
	h.Lat = optFloat(fields["lat"])
	h.Lon = optFloat(fields["lon"])
	h.Ping = optFloat(fields["ping"])

	return h
}

// Raw returns the upstream element this hop was decoded from, or nil for
// hops built in code.
func (h Hop) Raw() json.RawMessage {
	return h.raw
}

// MarshalJSON re-emits the upstream element untouched so a session's hop
// list is exactly what the traceroute service returned.
func (h Hop) MarshalJSON() ([]byte, error) {
	if len(h.raw) > 0 {
		return h.raw, nil
	}

	return json.Marshal(wireHop{
		IP:          h.IP,
		Country:     h.Country,
		CountryCode: h.CountryCode,
		ISP:         h.ISP,
		Lat:         h.Lat,
		Lon:         h.Lon,
		Ping:        h.Ping,
	})
}

// UnmarshalJSON allows a Hop to be read back from its own encoding.
func (h *Hop) UnmarshalJSON(b []byte) error {
	*h = Decode(b)
	return nil
}

// Text returns the value of an optional string field, or "" when absent.
func Text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optString(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		return &s
	case 'n', '[', '{':
		return nil
	default:
		// numbers and booleans render as their literal text
		s := string(raw)
		return &s
	}
}

func optFloat(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	var v float64
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		v = parsed
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil
		}
	default:
		return nil
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
