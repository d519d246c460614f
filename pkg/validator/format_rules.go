package validator

import (
	"net/mail"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Email validates an address with the RFC 5322 parser plus the stricter
// shape expected for web sign-ups: a bare address with a dotted domain.
func Email(value any, _ Params) bool {
	s, ok := toString(value)
	if !ok || strings.TrimSpace(s) == "" {
		return false
	}

	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}

	local, domain, found := strings.Cut(addr.Address, "@")
	if !found || local == "" {
		return false
	}

	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

// URL requires an absolute URL with scheme and host. params["schemes"]
// optionally restricts the accepted schemes.
func URL(value any, params Params) bool {
	s, ok := toString(value)
	if !ok || strings.TrimSpace(s) == "" {
		return false
	}

	u, err := url.ParseRequestURI(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	if schemes := params.Strings("schemes"); len(schemes) > 0 {
		for _, scheme := range schemes {
			if strings.EqualFold(scheme, u.Scheme) {
				return true
			}
		}
		return false
	}
	return true
}

// UUID accepts any RFC 4122 textual form understood by uuid.Parse except the nil UUID.
func UUID(value any, _ Params) bool {
	s, ok := toString(value)
	if !ok {
		return false
	}
	id, err := uuid.Parse(s)
	return err == nil && id != uuid.Nil
}
