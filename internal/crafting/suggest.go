package crafting

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

const maxSuggestions = 3

// suggest ranks known ids by edit distance to a missed id.
func suggest(target string, candidates []string) []string {
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" || len(candidates) == 0 {
		return nil
	}
	type scored struct {
		val  string
		dist int
	}
	results := make([]scored, 0, len(candidates))
	for _, cand := range candidates {
		n := strings.ToLower(cand)
		if n == target {
			continue
		}
		if strings.HasPrefix(n, target) && len(target) >= 3 {
			results = append(results, scored{val: cand, dist: 0})
			continue
		}
		dist := levenshtein.ComputeDistance(target, n)
		if dist > levenshteinLimit(len(n)) {
			continue
		}
		results = append(results, scored{val: cand, dist: dist})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].dist == results[j].dist {
			return results[i].val < results[j].val
		}
		return results[i].dist < results[j].dist
	})
	out := make([]string, 0, maxSuggestions)
	for _, r := range results {
		out = append(out, r.val)
		if len(out) == maxSuggestions {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
