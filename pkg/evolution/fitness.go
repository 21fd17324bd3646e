package evolution

import (
	"errors"
	"math"
)

// BaseScorer computes the base fitness score of a candidate text.
//
// The scorer is pluggable so deployments can swap the heuristic without
// touching the selection algorithm.
type BaseScorer func(text string) float64

// LengthScorer scores a candidate by its length in bytes, a cheap
// informativeness proxy. It is the default scorer and a placeholder policy
// rather than a considered quality metric.
func LengthScorer(text string) float64 {
	return float64(len(text))
}

// ErrNoCandidates is returned by SelectBest when the candidate slice is empty.
var ErrNoCandidates = errors.New("evolution: no candidates to select from")

// ErrAllCandidatesFailed is returned by SelectBest when every candidate in
// the batch is a failed slot, so there is no response to select.
var ErrAllCandidatesFailed = errors.New("evolution: all candidates failed")

// Evaluator scores candidates and selects the best one.
//
// Scores are computed as base * (1 + weight*feedback) when a feedback signal
// is present, and as plain base otherwise. Weight and feedback are both
// expected in [0,1]; no clamping is performed on out-of-range inputs, so
// callers must validate upstream.
type Evaluator struct {
	// weight scales the influence of the feedback signal.
	weight float64

	// base computes the base score of a candidate text.
	base BaseScorer
}

// NewEvaluator creates an Evaluator with the given feedback weight.
// A nil scorer falls back to LengthScorer.
func NewEvaluator(weight float64, scorer BaseScorer) *Evaluator {
	if scorer == nil {
		scorer = LengthScorer
	}
	return &Evaluator{
		weight: weight,
		base:   scorer,
	}
}

// Score computes the fitness score of a candidate text.
//
// A nil feedback means the signal is unavailable and the base score is used
// unadjusted. A feedback of 0 leaves the score unchanged regardless of the
// configured weight; for a positive weight, the score is monotonically
// increasing in feedback.
func (e *Evaluator) Score(text string, feedback *float64) float64 {
	score := e.base(text)
	if feedback != nil {
		score *= 1 + e.weight*(*feedback)
	}
	return score
}

// ScoreCandidate computes the fitness score of a candidate. Failed slots get
// the minimum possible score so they are never selected ahead of a
// successful candidate.
func (e *Evaluator) ScoreCandidate(c Candidate, feedback *float64) float64 {
	if c.Failed {
		return math.Inf(-1)
	}
	return e.Score(c.Text, feedback)
}

// SelectBest scores every candidate and returns the one with the maximum
// score. Ties break to the lowest index, so selection is deterministic for
// identical inputs. An empty slice returns ErrNoCandidates; a batch with no
// successful candidate returns ErrAllCandidatesFailed rather than a failed
// slot.
func (e *Evaluator) SelectBest(candidates []Candidate, feedback *float64) (Candidate, error) {
	if len(candidates) == 0 {
		return Candidate{}, ErrNoCandidates
	}

	best := candidates[0]
	bestScore := e.ScoreCandidate(best, feedback)

	for _, c := range candidates[1:] {
		if score := e.ScoreCandidate(c, feedback); score > bestScore {
			best = c
			bestScore = score
		}
	}

	if best.Failed {
		return Candidate{}, ErrAllCandidatesFailed
	}

	return best, nil
}
