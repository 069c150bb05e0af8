package logging

import (
	"net/url"
	"strings"
)

// SanitizeURL strips userinfo, query and fragment from a fetch URL before it
// is logged. Input without a scheme and host is returned trimmed but
// otherwise untouched.
func SanitizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return s
	}
	if u.User == nil && u.RawQuery == "" && u.Fragment == "" && !u.ForceQuery {
		return s
	}
	u.User = nil
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	return u.String()
}
