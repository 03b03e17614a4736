package session

import (
	"errors"
	"net/netip"
	"strings"
	"unicode/utf8"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

var (
	ErrEmptyTarget   = errors.New("target is required")
	ErrInvalidTarget = errors.New("target must be an IP address or a host name")
)

// ValidateTarget trims raw and checks that it names an IP address or a
// syntactically valid host name. Internationalized names are returned in
// their ASCII (punycode) form.
func ValidateTarget(raw string) (string, error) {
	target := strings.TrimSpace(raw)
	if target == "" {
		return "", ErrEmptyTarget
	}

	if _, err := netip.ParseAddr(target); err == nil {
		return target, nil
	}

	if !isASCII(target) {
		ascii, err := idna.Lookup.ToASCII(target)
		if err != nil {
			return "", ErrInvalidTarget
		}
		target = ascii
	}

	if !isHostname(target) {
		return "", ErrInvalidTarget
	}
	if _, ok := dns.IsDomainName(target); !ok {
		return "", ErrInvalidTarget
	}

	return target, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// isHostname allows letters, digits, '-', '_' and '.', with no empty
// labels and no label starting with '-' (which would read as an option).
func isHostname(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '.', r == '_':
		default:
			return false
		}
	}
	if strings.HasPrefix(s, ".") || strings.Contains(s, "..") {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		if strings.HasPrefix(label, "-") {
			return false
		}
	}
	return true
}
