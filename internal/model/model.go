package model

import (
	"fmt"
)

// DefaultMaxFeatures bounds vocabulary size at load time.
const DefaultMaxFeatures = 5000

// Feature is one vocabulary entry: its position in the weight vector and the
// precomputed document-frequency-style term weight.
type Feature struct {
	Index  int
	Weight float64
}

// Vocabulary is an immutable mapping from term (token or n-gram up to length
// three) to feature index and term weight. Built once at model-load time.
type Vocabulary struct {
	features map[string]Feature
	terms    []string
}

func (v *Vocabulary) Lookup(term string) (Feature, bool) {
	f, ok := v.features[term]
	return f, ok
}

func (v *Vocabulary) Size() int {
	return len(v.features)
}

// TermAt returns the term occupying a feature index.
func (v *Vocabulary) TermAt(index int) string {
	if index < 0 || index >= len(v.terms) {
		return ""
	}
	return v.terms[index]
}

// Model is the immutable (weights, bias) pair aligned to a Vocabulary. Shared
// by all scoring calls, never mutated at serving time.
type Model struct {
	vocab   *Vocabulary
	weights []float64
	bias    float64
}

// New builds a model and verifies that vocabulary and weights agree on
// dimensionality in both directions: every weight index is claimed by exactly
// one term and every term points at a valid weight. A mismatch is a load-time
// error, never a per-request one.
func New(features map[string]Feature, weights []float64, bias float64, maxFeatures int) (*Model, error) {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("vocabulary is empty")
	}
	if len(features) > maxFeatures {
		return nil, fmt.Errorf("vocabulary has %d features, maximum is %d", len(features), maxFeatures)
	}
	if len(features) != len(weights) {
		return nil, fmt.Errorf("dimension mismatch: %d vocabulary features vs %d weights", len(features), len(weights))
	}

	terms := make([]string, len(weights))
	claimed := make([]bool, len(weights))
	for term, f := range features {
		if f.Index < 0 || f.Index >= len(weights) {
			return nil, fmt.Errorf("feature %q has index %d outside weight vector of length %d", term, f.Index, len(weights))
		}
		if claimed[f.Index] {
			return nil, fmt.Errorf("feature index %d claimed by more than one term", f.Index)
		}
		claimed[f.Index] = true
		terms[f.Index] = term
	}

	copied := make(map[string]Feature, len(features))
	for term, f := range features {
		copied[term] = f
	}

	return &Model{
		vocab:   &Vocabulary{features: copied, terms: terms},
		weights: append([]float64(nil), weights...),
		bias:    bias,
	}, nil
}

func (m *Model) Vocab() *Vocabulary {
	return m.vocab
}

func (m *Model) WeightAt(index int) (float64, bool) {
	if index < 0 || index >= len(m.weights) {
		return 0, false
	}
	return m.weights[index], true
}

func (m *Model) Bias() float64 {
	return m.bias
}

func (m *Model) FeatureCount() int {
	return len(m.weights)
}
