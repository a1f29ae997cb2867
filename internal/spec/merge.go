package spec

import (
	"strings"

	"apictl/internal/tree"
	"apictl/pkg/logging"
)

// mergeTrees folds partial trees in document order into one tree.
//
// Precedence is first-document-wins: within a resource, an operation is
// keyed by (method, path), and a later document redefining an existing key
// is discarded. Operation-name collisions between distinct keys are
// renamed deterministically by the builder.
func mergeTrees(trees []*tree.CommandTree) *tree.CommandTree {
	b := newTreeBuilder(mergedBaseURL(trees))
	b.resourceDescriptions = make(map[string]string)
	seenKeys := make(map[string]map[string]bool)

	for _, t := range trees {
		for _, res := range t.Resources {
			if res.Description != "" {
				if _, ok := b.resourceDescriptions[res.Name]; !ok {
					b.resourceDescriptions[res.Name] = res.Description
				}
			}

			keys, ok := seenKeys[res.Name]
			if !ok {
				keys = make(map[string]bool)
				seenKeys[res.Name] = keys
			}

			for _, op := range res.Ops {
				key := op.Method + " " + op.Path
				if keys[key] {
					logging.Debug("Compiler", "skipping duplicate %s in resource %s", key, res.Name)
					continue
				}
				keys[key] = true
				b.add(res.Name, op)
			}
		}
	}

	return b.build()
}

// mergedBaseURL picks the base URL for the merged tree: the first
// non-empty URL in document order. Disagreement between documents is
// logged, not fatal; the runtime base URL can always be overridden.
func mergedBaseURL(trees []*tree.CommandTree) string {
	var urls []string
	seen := make(map[string]bool)
	for _, t := range trees {
		if t.BaseURL != "" && !seen[t.BaseURL] {
			seen[t.BaseURL] = true
			urls = append(urls, t.BaseURL)
		}
	}
	if len(urls) == 0 {
		return ""
	}
	if len(urls) > 1 {
		logging.Warn("Compiler", "multiple base URLs declared (%s), using %s", strings.Join(urls, ", "), urls[0])
	}
	return urls[0]
}
