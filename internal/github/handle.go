package github

import (
	"regexp"
	"strings"

	"github.com/spigell/gitrecruiter/internal/failure"
)

var loginPattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]{0,37}[A-Za-z0-9])?$`)

// ExtractHandle returns the handle part of a bare handle or a profile URL.
// For URL forms it is the last non-empty path segment once a trailing slash,
// query and fragment are dropped.
func ExtractHandle(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.Contains(s, "/") {
		return strings.TrimPrefix(s, "@")
	}

	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSuffix(s, "/")

	parts := strings.Split(s, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if p := strings.TrimSpace(parts[i]); p != "" {
			return p
		}
	}
	return ""
}

// ParseHandle extracts the handle from raw and checks it is a valid GitHub login.
func ParseHandle(raw string) (string, error) {
	handle := ExtractHandle(raw)
	if handle == "" {
		return "", failure.Newf(failure.KindInvalidHandle, "no handle in %q", raw)
	}
	if !loginPattern.MatchString(handle) {
		return "", failure.Newf(failure.KindInvalidHandle, "%q is not a valid GitHub login", handle)
	}
	return handle, nil
}
