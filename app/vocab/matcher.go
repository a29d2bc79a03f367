package vocab

import (
	"github.com/antzucaro/matchr"
)

// Match is a canonical entry together with its similarity to the candidate.
type Match struct {
	Name  string
	Score float64
}

// Similarity returns the Jaro-Winkler similarity of two names in [0,1],
// computed over their normalized forms. Deterministic for a given pair.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	return matchr.JaroWinkler(na, nb, false)
}

// BestMatch returns the single best canonical match for the candidate, if its
// similarity reaches the threshold. Entries are scanned in sorted order and
// only a strictly greater score replaces the current best, so ties resolve to
// the lexicographically earliest entry and repeated calls return the same
// result.
func (v *Vocabulary) BestMatch(candidate string, threshold float64) (Match, bool) {
	normalized := Normalize(candidate)
	if normalized == "" {
		return Match{}, false
	}

	if canonical, ok := v.index[normalized]; ok {
		return Match{Name: canonical, Score: 1}, true
	}

	var best Match
	for i, entry := range v.entries {
		score := matchr.JaroWinkler(normalized, v.normalized[i], false)
		if score > best.Score {
			best = Match{Name: entry, Score: score}
		}
	}

	if best.Score < threshold {
		return Match{}, false
	}
	return best, true
}
