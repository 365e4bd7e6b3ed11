package classify

import (
	"math"
	"sort"
	"strings"

	"fakenews_detector/internal/model"
)

type Label string

const (
	LabelFake      Label = "fake"
	LabelReal      Label = "real"
	LabelUncertain Label = "uncertain"
)

// MinTokens is the smallest token count the scorer considers statistically
// meaningful. Anything shorter resolves to UNCERTAIN without touching the model.
const MinTokens = 3

// Outcome is the scorer's result. Degraded marks outcomes that fell back to
// UNCERTAIN because of a failure rather than the short-input policy; Reason
// carries the explanation either way.
type Outcome struct {
	Label      Label
	Confidence float64
	Degraded   bool
	Reason     string
}

func uncertain(degraded bool, reason string) Outcome {
	return Outcome{Label: LabelUncertain, Confidence: 0.5, Degraded: degraded, Reason: reason}
}

// FeatureVector is a sparse document representation over the vocabulary,
// scoped to a single classification call.
type FeatureVector map[int]float64

// Vectorize maps a token stream onto the vocabulary. Unigrams, bigrams and
// trigrams are built from the sequence; only terms present in the vocabulary
// survive, each weighted by term frequency times its precomputed term weight.
// Unknown terms are dropped: the vocabulary is fixed at model-build time and
// serving-time vectorization never grows it.
func Vectorize(tokens []string, vocab *model.Vocabulary) FeatureVector {
	vec := make(FeatureVector)
	if vocab == nil {
		return vec
	}

	counts := make(map[string]int)
	for n := 1; n <= 3; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			term := strings.Join(tokens[i:i+n], " ")
			if _, ok := vocab.Lookup(term); ok {
				counts[term]++
			}
		}
	}

	for term, tf := range counts {
		f, _ := vocab.Lookup(term)
		vec[f.Index] = float64(tf) * f.Weight
	}
	return vec
}

// Score turns a feature vector into a label and confidence. tokenCount is the
// token count before vectorization: below MinTokens the input is not
// statistically meaningful and the scorer short-circuits to UNCERTAIN. A zero
// vector with enough tokens still gets scored; sigmoid(bias) decides the label.
// Exactly p = 0.5 resolves to FAKE.
func Score(vec FeatureVector, tokenCount int, m *model.Model) Outcome {
	if tokenCount < MinTokens {
		return uncertain(false, "token count below minimum")
	}
	if m == nil {
		return uncertain(true, "model not loaded")
	}

	z := m.Bias()
	for idx, v := range vec {
		w, ok := m.WeightAt(idx)
		if !ok {
			return uncertain(true, "feature index outside model dimensions")
		}
		z += w * v
	}

	p := sigmoid(z)
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return uncertain(true, "score is not finite")
	}

	if p >= 0.5 {
		return Outcome{Label: LabelFake, Confidence: p}
	}
	return Outcome{Label: LabelReal, Confidence: 1 - p}
}

// Contribution is one term's signed influence on the score.
type Contribution struct {
	Term  string
	Score float64
}

// Explain ranks feature contributions (vector value times model weight) by
// descending absolute value, ties broken by ascending feature index. Zero
// contributions are excluded. Read-only; never affects the scorer's result.
func Explain(vec FeatureVector, m *model.Model, topK int) []Contribution {
	if m == nil || topK <= 0 {
		return nil
	}

	type scored struct {
		index int
		score float64
	}
	ranked := make([]scored, 0, len(vec))
	for idx, v := range vec {
		w, ok := m.WeightAt(idx)
		if !ok {
			continue
		}
		s := v * w
		if s == 0 {
			continue
		}
		ranked = append(ranked, scored{index: idx, score: s})
	}

	sort.Slice(ranked, func(i, j int) bool {
		ai, aj := math.Abs(ranked[i].score), math.Abs(ranked[j].score)
		if ai == aj {
			return ranked[i].index < ranked[j].index
		}
		return ai > aj
	})

	if topK > len(ranked) {
		topK = len(ranked)
	}
	out := make([]Contribution, 0, topK)
	for _, r := range ranked[:topK] {
		out = append(out, Contribution{Term: m.Vocab().TermAt(r.index), Score: r.score})
	}
	return out
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
