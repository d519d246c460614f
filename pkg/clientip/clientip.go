package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Headers consulted by FromRequest, most trusted first. TLS terminates
// upstream, so the edge proxy is expected to overwrite them.
var forwardHeaders = []string{
	"CF-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// FromRequest returns the normalized client address, or an empty string
// when neither the proxy headers nor RemoteAddr hold a valid IP.
func FromRequest(r *http.Request) string {
	for _, header := range forwardHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		// X-Forwarded-For lists the original client first.
		for candidate := range strings.SplitSeq(value, ",") {
			if ip := normalize(candidate); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return normalize(r.RemoteAddr)
	}
	return normalize(host)
}

func normalize(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
