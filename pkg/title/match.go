package title

import (
	"regexp"

	"github.com/hbollon/go-edlib"
)

var numberRegex = regexp.MustCompile(`\b(\d+)\b`)

// Confidence grades a fuzzy title match.
type Confidence int

const (
	ConfidenceNone   Confidence = iota // score < 0.70
	ConfidenceLow                      // score >= 0.70
	ConfidenceMedium                   // score >= 0.85
	ConfidenceHigh                     // score >= 0.95
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// Result is the best candidate for a query.
type Result struct {
	Index      int // position in the candidate slice, -1 when nothing matched
	Title      string
	Score      float64 // Jaro-Winkler similarity, 0.0-1.0
	Confidence Confidence
}

// Match returns the candidate most similar to query. Jaro-Winkler favours
// shared prefixes, which suits titles; sequel numbers that agree earn a
// bonus and numbers that disagree a penalty.
func Match(query string, candidates []string) Result {
	best := Result{Index: -1}
	if len(candidates) == 0 {
		return best
	}

	q := Clean(query)
	qNums := numberRegex.FindAllString(q, -1)

	for i, cand := range candidates {
		c := Clean(cand)
		score := float64(edlib.JaroWinklerSimilarity(q, c))
		score = adjustForNumbers(score, qNums, numberRegex.FindAllString(c, -1))
		if score > best.Score {
			best = Result{Index: i, Title: cand, Score: score}
		}
	}

	switch {
	case best.Score >= 0.95:
		best.Confidence = ConfidenceHigh
	case best.Score >= 0.85:
		best.Confidence = ConfidenceMedium
	case best.Score >= 0.70:
		best.Confidence = ConfidenceLow
	default:
		return Result{Index: -1, Score: best.Score}
	}
	return best
}

func adjustForNumbers(score float64, queryNums, candNums []string) float64 {
	if len(queryNums) == 0 {
		return score
	}
	if len(candNums) == 0 {
		return score * 0.85
	}
	have := make(map[string]bool, len(candNums))
	for _, n := range candNums {
		have[n] = true
	}
	for _, n := range queryNums {
		if have[n] {
			return min(score*1.05, 1.0)
		}
	}
	return score * 0.90
}
