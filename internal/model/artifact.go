package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// FormatVersion is the artifact format this build reads. The trainer stamps
// it so a stale artifact fails at startup instead of at first request.
const FormatVersion = 1

type artifactFeature struct {
	Index  int     `json:"index"`
	Weight float64 `json:"weight"`
}

type artifact struct {
	FormatVersion int                        `json:"format_version"`
	Name          string                     `json:"name"`
	Features      map[string]artifactFeature `json:"features"`
	Weights       []float64                  `json:"weights"`
	Bias          float64                    `json:"bias"`
}

// LoadFile reads a vocabulary+weights artifact produced by the external
// training step and returns the validated model.
func LoadFile(path string, maxFeatures int) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var art artifact
	if err := json.Unmarshal(raw, &art); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if art.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("unsupported artifact format version %d, want %d", art.FormatVersion, FormatVersion)
	}

	features := make(map[string]Feature, len(art.Features))
	for term, f := range art.Features {
		features[term] = Feature{Index: f.Index, Weight: f.Weight}
	}

	m, err := New(features, art.Weights, art.Bias, maxFeatures)
	if err != nil {
		return nil, fmt.Errorf("validate model artifact %s: %w", path, err)
	}
	return m, nil
}
