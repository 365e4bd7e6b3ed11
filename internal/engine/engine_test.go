package engine

import (
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"fakenews_detector/internal/model"
	"fakenews_detector/internal/textnorm"
	"fakenews_detector/internal/trends"
)

func testModel(t *testing.T) *model.Model {
	t.Helper()
	features := map[string]model.Feature{
		"breaking":    {Index: 0, Weight: 1.0},
		"conspiracy":  {Index: 1, Weight: 1.0},
		"shocking":    {Index: 2, Weight: 1.0},
		"researchers": {Index: 3, Weight: 1.0},
		"published":   {Index: 4, Weight: 1.0},
	}
	weights := []float64{3.0, 2.5, 2.0, -2.5, -2.0}
	m, err := model.New(features, weights, -0.5, 0)
	if err != nil {
		t.Fatalf("build test model: %v", err)
	}
	return m
}

func newTestEngine(t *testing.T, m *model.Model, store trends.Store) (*Engine, *trends.Recorder) {
	t.Helper()
	var rec *trends.Recorder
	if store != nil {
		rec = trends.NewRecorder(store, textnorm.English(), nil, 1024)
	}
	return New(m, rec, nil, DefaultConfig()), rec
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	eng, _ := newTestEngine(t, testModel(t), nil)

	cases := []AnalyzeRequest{
		{Text: ""},
		{Text: "ok"}, // 2 chars: below minimum, must never reach the scorer
		{Text: strings.Repeat("x", 50001)},
		{Text: "long enough text for analysis", ContentType: "video"},
	}
	for _, req := range cases {
		_, err := eng.Analyze(req)
		if err == nil {
			t.Fatalf("expected rejection for %+v", req)
		}
		var ie *InputError
		if !errors.As(err, &ie) {
			t.Fatalf("expected InputError, got %T: %v", err, err)
		}
	}
}

func TestAnalyzeFakeAndRealLabels(t *testing.T) {
	eng, _ := newTestEngine(t, testModel(t), nil)

	fake, err := eng.Analyze(AnalyzeRequest{
		Text: "Breaking shocking conspiracy uncovered behind closed doors tonight",
	})
	if err != nil {
		t.Fatalf("analyze fake: %v", err)
	}
	if fake.Label != "fake" {
		t.Fatalf("expected fake, got %s", fake.Label)
	}
	if fake.Confidence < 0.5 || fake.Confidence > 1.0 {
		t.Fatalf("confidence out of bounds: %v", fake.Confidence)
	}
	if fake.TextLength == 0 {
		t.Fatalf("expected text length in response")
	}

	real, err := eng.Analyze(AnalyzeRequest{
		Text: "Researchers published peer reviewed findings after careful analysis",
	})
	if err != nil {
		t.Fatalf("analyze real: %v", err)
	}
	if real.Label != "real" {
		t.Fatalf("expected real, got %s", real.Label)
	}
}

func TestAnalyzeConfidenceRoundedAtBoundary(t *testing.T) {
	eng, _ := newTestEngine(t, testModel(t), nil)

	resp, err := eng.Analyze(AnalyzeRequest{
		Text: "Breaking shocking conspiracy uncovered behind closed doors tonight",
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	scaled := resp.Confidence * 10000
	if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
		t.Fatalf("confidence %v not rounded to 4 decimals", resp.Confidence)
	}
}

func TestAnalyzeIncludesFeaturesOnDemand(t *testing.T) {
	eng, _ := newTestEngine(t, testModel(t), nil)

	plain, err := eng.Analyze(AnalyzeRequest{
		Text: "Breaking shocking conspiracy uncovered behind closed doors tonight",
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(plain.Features) != 0 {
		t.Fatalf("features must be opt-in, got %v", plain.Features)
	}

	withFeatures, err := eng.Analyze(AnalyzeRequest{
		Text:            "Breaking shocking conspiracy uncovered behind closed doors tonight",
		IncludeFeatures: true,
	})
	if err != nil {
		t.Fatalf("analyze with features: %v", err)
	}
	if len(withFeatures.Features) == 0 {
		t.Fatalf("expected contributing features")
	}
	if withFeatures.Features[0].Feature != "breaking" {
		t.Fatalf("expected strongest contributor first, got %+v", withFeatures.Features[0])
	}
	if withFeatures.Label != plain.Label || withFeatures.Confidence != plain.Confidence {
		t.Fatalf("explainer must not affect the scorer's result")
	}
}

func TestAnalyzeDegradesWithoutModel(t *testing.T) {
	eng, _ := newTestEngine(t, nil, nil)

	resp, err := eng.Analyze(AnalyzeRequest{
		Text: "This perfectly well formed text still gets an answer",
	})
	if err != nil {
		t.Fatalf("degraded engine must not fail well-formed input: %v", err)
	}
	if resp.Label != "uncertain" || resp.Confidence != 0.5 {
		t.Fatalf("expected (uncertain, 0.5) without model, got (%s, %v)", resp.Label, resp.Confidence)
	}
}

func TestAnalyzeBatchMatchesSingle(t *testing.T) {
	eng, _ := newTestEngine(t, testModel(t), nil)

	items := []string{
		"Breaking shocking conspiracy uncovered behind closed doors tonight",
		"Researchers published peer reviewed findings after careful analysis",
		"short", // below minimum: degrades alone
		"Breaking conspiracy tonight with shocking details emerging everywhere",
		"  Researchers published findings after review  ", // padded: trimmed like a single call
	}
	resp, err := eng.AnalyzeBatch(BatchRequest{Items: items})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if resp.BatchSize != len(items) {
		t.Fatalf("expected batch size %d, got %d", len(items), resp.BatchSize)
	}

	for i, entry := range resp.Results {
		if entry.Index != i {
			t.Fatalf("entry %d carries index %d", i, entry.Index)
		}
		if i == 2 {
			continue
		}
		single, err := eng.Analyze(AnalyzeRequest{Text: items[i]})
		if err != nil {
			t.Fatalf("single analyze %d: %v", i, err)
		}
		if entry.Label != single.Label || entry.Confidence != single.Confidence {
			t.Fatalf("batch[%d] = (%s, %v), single = (%s, %v)",
				i, entry.Label, entry.Confidence, single.Label, single.Confidence)
		}
		if entry.TextLength != single.TextLength {
			t.Fatalf("batch[%d] text length %d, single reports %d",
				i, entry.TextLength, single.TextLength)
		}
	}

	short := resp.Results[2]
	if short.Label != "uncertain" || short.Confidence != 0.5 {
		t.Fatalf("expected (uncertain, 0.5) for short item, got (%s, %v)", short.Label, short.Confidence)
	}
	if short.Error == "" {
		t.Fatalf("expected error explanation on short item")
	}
}

func TestAnalyzeCountsCharactersNotBytes(t *testing.T) {
	eng, _ := newTestEngine(t, testModel(t), nil)

	// Nine characters in eighteen bytes: still under the ten-character minimum.
	_, err := eng.Analyze(AnalyzeRequest{Text: strings.Repeat("é", 9)})
	var ie *InputError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InputError for nine-character text, got %v", err)
	}

	text := "Le café société publie une enquête détaillée"
	resp, err := eng.Analyze(AnalyzeRequest{Text: text})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if resp.TextLength != utf8.RuneCountInString(text) {
		t.Fatalf("text length %d, want %d characters", resp.TextLength, utf8.RuneCountInString(text))
	}
	if resp.TextLength == len(text) {
		t.Fatalf("text length %d matches the byte count", resp.TextLength)
	}
}

func TestAnalyzeBatchRejectsOversize(t *testing.T) {
	eng, _ := newTestEngine(t, testModel(t), nil)

	items := make([]string, 51)
	for i := range items {
		items[i] = "a reasonably long submission for the batch test"
	}
	_, err := eng.AnalyzeBatch(BatchRequest{Items: items})
	if err == nil {
		t.Fatalf("expected wholesale rejection of 51-item batch")
	}
	var ie *InputError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InputError, got %T", err)
	}

	if _, err := eng.AnalyzeBatch(BatchRequest{}); err == nil {
		t.Fatalf("expected rejection of empty batch")
	}
}

func TestAnalyzeFeedsTrendCounters(t *testing.T) {
	store := trends.NewMemoryStore()
	eng, rec := newTestEngine(t, testModel(t), store)

	if _, err := eng.Analyze(AnalyzeRequest{
		Text: "Breaking shocking conspiracy uncovered behind closed doors tonight",
	}); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("close recorder: %v", err)
	}

	top, err := eng.TopKeywords("fake", 10)
	if err != nil {
		t.Fatalf("top keywords: %v", err)
	}
	if len(top) == 0 {
		t.Fatalf("expected trend counters after a fake classification")
	}
	seen := map[string]bool{}
	for _, c := range top {
		seen[c.Keyword] = true
	}
	if !seen["conspiracy"] {
		t.Fatalf("expected conspiracy in trend counters: %v", top)
	}
}

func TestRound4(t *testing.T) {
	cases := map[float64]float64{
		0.12345:  0.1235,
		0.99995:  1.0,
		0.5:      0.5,
		0.123449: 0.1234,
	}
	for in, want := range cases {
		if got := Round4(in); got != want {
			t.Fatalf("Round4(%v) = %v, want %v", in, got, want)
		}
	}
}
