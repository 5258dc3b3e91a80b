package config

import (
	"regexp"
	"strings"
)

// envRefPattern matches ${VAR} and ${VAR:-default}.
var envRefPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-?([^}]*))?\}`) //nolint:gochecknoglobals // compiled once

// LookupFunc reads one environment variable. It has the shape of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Interpolate replaces every ${VAR} and ${VAR:-default} reference in s.
// A set variable wins, even when empty; otherwise the default is used, and
// a reference without a default becomes the empty string.
func Interpolate(s string, lookup LookupFunc) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return envRefPattern.ReplaceAllStringFunc(s, func(ref string) string {
		m := envRefPattern.FindStringSubmatch(ref)
		key := strings.TrimSpace(m[1])
		if v, ok := lookup(key); ok {
			return v
		}
		return m[2]
	})
}

// interpolateTree walks a decoded JSON document and interpolates every string
// value in place. Keys are left untouched.
func interpolateTree(node any, lookup LookupFunc) any {
	switch v := node.(type) {
	case map[string]any:
		for k, child := range v {
			v[k] = interpolateTree(child, lookup)
		}
		return v
	case []any:
		for i, child := range v {
			v[i] = interpolateTree(child, lookup)
		}
		return v
	case string:
		return Interpolate(v, lookup)
	default:
		return v
	}
}
