package resolve

// similarity calculates a sequence-similarity ratio between two strings
// (0.0 to 1.0) as one minus the normalized Levenshtein distance. Inputs are
// expected to be lower-cased already.
func similarity(a, b string) float64 {
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshteinDistance(a, b))/float64(maxLen)
}

// levenshteinDistance calculates the Levenshtein distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
	}

	for i := 0; i <= len(a); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// bestMatch finds the candidate key with the highest similarity to name.
// Candidates must be sorted; ties keep the first (lexicographically
// smallest) key so resolution is reproducible across runs.
func bestMatch(name string, candidates []string) (string, float64) {
	var (
		bestKey   string
		bestScore float64
	)
	for _, key := range candidates {
		if score := similarity(name, key); score > bestScore {
			bestKey, bestScore = key, score
		}
	}
	return bestKey, bestScore
}
