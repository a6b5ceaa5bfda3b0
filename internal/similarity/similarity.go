// Package similarity implements the edit-distance scorer used as the
// fourth-tier fallback when a query has no exact, prefix, or substring hit.
package similarity

// Distance returns the Levenshtein edit distance between a and b with unit
// cost for insertions, deletions, and substitutions.
func Distance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Score returns 1 - distance/max(len) in [0, 1]. Two empty strings score 1.
func Score(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	if la == 0 && lb == 0 {
		return 1
	}
	longest := la
	if lb > longest {
		longest = lb
	}
	return 1 - float64(Distance(a, b))/float64(longest)
}

const (
	gatePrefixLen = 6
	gateThreshold = 0.6
)

// PassesGate is the cheap prefix pre-check run before a full edit-distance
// computation. It compares only the first gatePrefixLen runes of each string
// and requires a 0.6 similarity. The gate is a pruning heuristic: it can skip
// a true fuzzy match whose prefix diverges from its body.
func PassesGate(a, b string) bool {
	return Score(prefix(a, gatePrefixLen), prefix(b, gatePrefixLen)) >= gateThreshold
}

func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
