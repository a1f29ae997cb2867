package spec

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	// colonParamRe matches Express-style :param path segments.
	colonParamRe = regexp.MustCompile(`:([A-Za-z0-9_]+)`)
	// doubleBraceRe matches Postman-style {{variable}} placeholders.
	doubleBraceRe = regexp.MustCompile(`\{\{([^{}]+)\}\}`)
)

// pathFromRaw extracts the request path from a raw URL string as found in
// Postman collections: full URLs, bare paths, and URLs rooted at a
// {{base_url}}-style variable are all handled.
func pathFromRaw(raw string) string {
	raw, _, _ = strings.Cut(raw, "?")
	if strings.Contains(raw, "://") {
		if parsed, err := url.Parse(raw); err == nil && parsed.Path != "" {
			return parsed.Path
		}
		return "/"
	}
	if strings.HasPrefix(raw, "/") {
		return raw
	}
	if strings.HasPrefix(raw, "{{") {
		if idx := strings.Index(raw, "}}"); idx != -1 {
			tail := raw[idx+2:]
			if tail == "" {
				return "/"
			}
			if !strings.HasPrefix(tail, "/") {
				tail = "/" + tail
			}
			return tail
		}
	}
	return "/" + strings.TrimLeft(raw, "/")
}

// normalizePath rewrites :param and {{param}} placeholder styles into the
// canonical {param} form used by the command tree.
func normalizePath(path string) string {
	path = doubleBraceRe.ReplaceAllString(path, "{$1}")
	path = colonParamRe.ReplaceAllString(path, "{$1}")
	return path
}

// defaultResourceFor derives a resource name from a path when the spec
// declares no tag or folder: the first non-empty path segment, slugified.
func defaultResourceFor(path string) string {
	for _, segment := range strings.Split(path, "/") {
		if segment == "" || strings.HasPrefix(segment, "{") {
			continue
		}
		if s := Slugify(segment); s != "" {
			return s
		}
	}
	return "root"
}
