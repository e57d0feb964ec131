package rules

import (
	"slices"
	"strings"
)

// maxSuggestDistance bounds how far a typo may be from a known name.
const maxSuggestDistance = 2

// suggest returns the candidates closest to name by edit distance, if any is
// close enough to be a likely typo.
func suggest(name string, candidates []string) []string {
	name = strings.ToLower(name)
	best := maxSuggestDistance + 1

	var out []string

	for _, c := range candidates {
		d := distance(name, c)

		switch {
		case d < best:
			best = d
			out = append(out[:0], c)
		case d == best:
			out = append(out, c)
		}
	}

	slices.Sort(out)

	return out
}

// distance is the Levenshtein edit distance between a and b.
func distance(a, b string) int {
	if len(a) > len(b) {
		a, b = b, a
	}

	row := make([]int, len(a)+1)
	for i := range row {
		row[i] = i
	}

	for j := 1; j <= len(b); j++ {
		diag := row[0]
		row[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			next := min(row[i]+1, row[i-1]+1, diag+cost)
			diag, row[i] = row[i], next
		}
	}

	return row[len(a)]
}
