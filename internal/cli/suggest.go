package cli

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

const (
	// suggestThreshold is the minimum similarity score (0-1) for a name to
	// be offered as a did-you-mean suggestion.
	suggestThreshold = 0.5
	// suggestTopN caps the number of suggestions.
	suggestTopN = 3
)

type scoredName struct {
	name  string
	score float64
}

// Suggest returns known names similar to name, best match first. The
// result is deterministic: ties break alphabetically.
func Suggest(name string, known []string) []string {
	if name == "" || len(known) == 0 {
		return nil
	}

	target := strings.ToLower(name)
	var scored []scoredName
	for _, k := range known {
		candidate := strings.ToLower(k)
		maxLen := len(target)
		if len(candidate) > maxLen {
			maxLen = len(candidate)
		}
		if maxLen == 0 {
			continue
		}
		dist := levenshtein.ComputeDistance(target, candidate)
		score := 1.0 - float64(dist)/float64(maxLen)
		if score >= suggestThreshold {
			scored = append(scored, scoredName{name: k, score: score})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].name < scored[j].name
	})

	if len(scored) > suggestTopN {
		scored = scored[:suggestTopN]
	}
	names := make([]string, 0, len(scored))
	for _, s := range scored {
		names = append(names, s.name)
	}
	return names
}
