package spec

import (
	"regexp"
	"strings"
)

var (
	camelBoundaryRe = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	invalidCharsRe  = regexp.MustCompile(`[^a-zA-Z0-9-]+`)
	dashRunRe       = regexp.MustCompile(`-+`)
)

// Slugify converts an arbitrary identifier into a CLI-safe token:
// lowercase, hyphen-separated, with camelCase boundaries split.
// "getInvoiceByID" becomes "get-invoice-by-id".
func Slugify(value string) string {
	value = strings.NewReplacer("/", "-", "_", "-", " ", "-").Replace(value)
	value = camelBoundaryRe.ReplaceAllString(value, "$1-$2")
	value = invalidCharsRe.ReplaceAllString(value, "-")
	value = dashRunRe.ReplaceAllString(value, "-")
	return strings.ToLower(strings.Trim(value, "-"))
}

// slugifyOp slugifies an operation name, falling back to "call" when the
// slug comes out empty.
func slugifyOp(value string) string {
	if s := Slugify(value); s != "" {
		return s
	}
	return "call"
}
