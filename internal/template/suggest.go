package template

import (
	"sort"
	"strings"
)

// maxSuggestDistance bounds how far a "did you mean" candidate may be from
// the unknown name.
const maxSuggestDistance = 2

// Suggest returns registered names within edit distance 2 of the unknown
// name, nearest first. Ties break alphabetically for stable output.
func (r *Registry) Suggest(name string) []string {
	needle := strings.ToLower(strings.TrimSpace(name))
	type candidate struct {
		name string
		dist int
	}
	var found []candidate
	for _, n := range r.Names() {
		d := editDistance(needle, n)
		if d <= maxSuggestDistance {
			found = append(found, candidate{name: n, dist: d})
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].dist != found[j].dist {
			return found[i].dist < found[j].dist
		}
		return found[i].name < found[j].name
	})
	out := make([]string, len(found))
	for i, c := range found {
		out[i] = c.name
	}
	return out
}

// editDistance is the Levenshtein distance over bytes with two rolling rows.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
