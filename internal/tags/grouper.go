package tags

import (
	"sort"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"golang.org/x/text/cases"

	"github.com/plonetools/tagctl/pkg/errors"
)

// Similarity grouping surfaces near-duplicate tags ("swiming" next to
// "swimming") so they can be merged. Scores are integers in [0,100] from a
// token-set fuzzy ratio: commutative, 100 for identical strings, near 0 for
// disjoint ones. Inputs are case-folded before scoring, so case variants of
// the same word score 100 (the index itself still keeps them distinct).

// Candidate is one tag similar to a queried tag.
type Candidate struct {
	Tag       string `json:"tag"`
	Score     int    `json:"score"`
	Frequency int    `json:"frequency"`
}

// Pair is an unordered pair of mutually similar tags. A is the more
// frequent side, the natural merge target.
type Pair struct {
	A          string `json:"tag"`
	B          string `json:"similar_to"`
	Score      int    `json:"score"`
	FrequencyA int    `json:"frequency"`
	FrequencyB int    `json:"similar_frequency"`
}

var foldCaser = cases.Fold()

// Score computes the similarity of two tag strings.
func Score(a, b string) int {
	return fuzzy.TokenSetRatio(foldCaser.String(a), foldCaser.String(b))
}

// ValidateThreshold rejects thresholds outside the closed range [0,100].
func ValidateThreshold(threshold int) error {
	if threshold < 0 || threshold > 100 {
		return errors.NewValidationError("threshold", threshold, "must be between 0 and 100")
	}
	return nil
}

// SimilarTo returns every tag in the index scoring at least threshold
// against tag, excluding tag itself.  Ordered by score descending,
// frequency descending, then tag ascending.
func SimilarTo(tag string, index *Index, threshold int) ([]Candidate, error) {
	if tag == "" {
		return nil, errors.NewValidationError("tag", tag, "must not be empty")
	}
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0)
	for _, other := range index.Tags() {
		if other == tag {
			continue
		}
		score := Score(tag, other)
		if score >= threshold {
			candidates = append(candidates, Candidate{
				Tag:       other,
				Score:     score,
				Frequency: index.Frequency(other),
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].Frequency != candidates[j].Frequency {
			return candidates[i].Frequency > candidates[j].Frequency
		}
		return candidates[i].Tag < candidates[j].Tag
	})
	return candidates, nil
}

// AllSimilarPairs returns every unordered pair of distinct tags scoring at
// least threshold, each pair exactly once. Same ordering as SimilarTo, with
// the pair's less frequent tag as the final tie-break.
func AllSimilarPairs(index *Index, threshold int) ([]Pair, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}

	tags := index.Tags()
	pairs := make([]Pair, 0)
	for i := 0; i < len(tags); i++ {
		for j := i + 1; j < len(tags); j++ {
			score := Score(tags[i], tags[j])
			if score < threshold {
				continue
			}
			pairs = append(pairs, newPair(tags[i], tags[j], score, index))
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Score != pairs[j].Score {
			return pairs[i].Score > pairs[j].Score
		}
		if pairs[i].FrequencyA != pairs[j].FrequencyA {
			return pairs[i].FrequencyA > pairs[j].FrequencyA
		}
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs, nil
}

// newPair orients a pair so the more frequent tag (lexicographically first
// on a tie) lands on the A side.
func newPair(x, y string, score int, index *Index) Pair {
	fx, fy := index.Frequency(x), index.Frequency(y)
	if fx < fy || (fx == fy && y < x) {
		x, y = y, x
		fx, fy = fy, fx
	}
	return Pair{A: x, B: y, Score: score, FrequencyA: fx, FrequencyB: fy}
}
