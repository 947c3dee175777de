// Package origin decides whether a request's declared origin is allowed to
// submit to a form. Pure string and URL comparison; no network calls.
package origin

import (
	"net/url"
	"strings"
)

// IsAllowed reports whether the given Origin header value matches the
// configured allow-list. When the Origin header is absent the Referer header
// stands in for it; with neither present the check fails closed, as it does
// for an unparseable value. A domain matches its own www. variant in either
// direction, so example.com and www.example.com are interchangeable.
// Localhost and loopback origins are always allowed to support local
// development.
func IsAllowed(originHeader string, allowedDomains []string, referer string) bool {
	host := hostFromOrigin(originHeader)
	if host == "" {
		host = hostFromOrigin(referer)
	}
	if host == "" {
		return false
	}

	if isLoopback(host) {
		return true
	}

	for _, domain := range allowedDomains {
		if domainsMatch(host, domain) {
			return true
		}
	}
	return false
}

// hostFromOrigin extracts the lower-cased hostname from an Origin header
// value. Returns "" when the value is absent or unparseable.
func hostFromOrigin(originHeader string) string {
	originHeader = strings.TrimSpace(originHeader)
	if originHeader == "" || originHeader == "null" {
		return ""
	}
	u, err := url.Parse(originHeader)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// domainsMatch compares a request host against a configured domain, treating
// the apex and its www. variant as the same site.
func domainsMatch(host, configured string) bool {
	configured = strings.ToLower(strings.TrimSpace(configured))
	if configured == "" {
		return false
	}
	// Tolerate owners pasting a full URL into the domain box.
	if strings.Contains(configured, "://") {
		if parsed, err := url.Parse(configured); err == nil && parsed.Hostname() != "" {
			configured = parsed.Hostname()
		}
	}

	if host == configured {
		return true
	}
	return stripWWW(host) == stripWWW(configured)
}

func stripWWW(domain string) string {
	return strings.TrimPrefix(domain, "www.")
}

func isLoopback(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1" ||
		strings.HasSuffix(host, ".localhost")
}
