// Package qrpayload pulls a booth or student token out of whatever a QR scanner hands back:
// a bare token, an absolute URL or a path.
package qrpayload

import (
	"net/url"
	"strings"
)

var (
	pathMarkers = []string{"v", "visit"}
	queryKeys   = []string{"boothToken", "token", "booth", "t"}
)

// ExtractToken returns the embedded token, or "" when the payload carries none.
func ExtractToken(raw string) string {
	s := strings.TrimRight(strings.TrimSpace(raw), "/")
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, "/?") {
		return s
	}

	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}

	path, query := s, ""
	if i := strings.IndexByte(s, '?'); i >= 0 {
		path, query = s[:i], s[i+1:]
	}

	if i := strings.Index(path, "://"); i >= 0 {
		rest := path[i+3:]
		if slash := strings.IndexByte(rest, '/'); slash >= 0 {
			path = rest[slash:]
		} else {
			path = ""
		}
	}

	if token := fromPath(path); token != "" {
		return token
	}

	return fromQuery(query)
}

func fromPath(path string) string {
	segments := strings.Split(strings.TrimRight(path, "/"), "/")
	for i := len(segments) - 2; i >= 0; i-- {
		if !isMarker(segments[i]) || segments[i+1] == "" {
			continue
		}
		return strings.TrimSpace(unescapePath(segments[i+1]))
	}
	return ""
}

func fromQuery(query string) string {
	if query == "" {
		return ""
	}

	params := map[string]string{}
	for _, pair := range strings.Split(query, "&") {
		k, v, _ := strings.Cut(pair, "=")
		k = unescapeQuery(k)
		if _, seen := params[k]; !seen {
			params[k] = v
		}
	}

	for _, key := range queryKeys {
		v := strings.TrimRight(strings.TrimSpace(unescapeQuery(params[key])), "/")
		if v != "" {
			return v
		}
	}
	return ""
}

func isMarker(seg string) bool {
	for _, m := range pathMarkers {
		if seg == m {
			return true
		}
	}
	return false
}

func unescapePath(s string) string {
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}
	return s
}

func unescapeQuery(s string) string {
	if decoded, err := url.QueryUnescape(s); err == nil {
		return decoded
	}
	return s
}
