package urlparser

import "strings"

// Wildcard in a pattern matches any single non-empty segment.
const Wildcard = "*"

// Segments splits a request path into its parts. Leading and trailing
// slashes are ignored, so "/carts/1/" gives ["carts", "1"].
func Segments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// Match reports whether parts fits pattern segment by segment.
func Match(parts []string, pattern ...string) bool {
	if len(parts) != len(pattern) {
		return false
	}
	for i, p := range pattern {
		if p == Wildcard {
			if parts[i] == "" {
				return false
			}
			continue
		}
		if parts[i] != p {
			return false
		}
	}
	return true
}
