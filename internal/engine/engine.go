package engine

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"

	"fakenews_detector/internal/batch"
	"fakenews_detector/internal/classify"
	"fakenews_detector/internal/model"
	"fakenews_detector/internal/textnorm"
	"fakenews_detector/internal/trends"
)

// InputError marks a request the caller got wrong: size, length or shape
// violations. It is the only failure kind that crosses the engine boundary;
// everything else is absorbed into an UNCERTAIN outcome.
type InputError struct {
	msg string
}

func (e *InputError) Error() string {
	return e.msg
}

func inputErrorf(format string, args ...any) *InputError {
	return &InputError{msg: fmt.Sprintf(format, args...)}
}

type Logger interface {
	Log(level, stage, message, detail string)
}

type Config struct {
	MinTextLength int
	MaxTextLength int
	MaxBatchItems int
	BatchWorkers  int
	TopFeatures   int
}

func DefaultConfig() Config {
	return Config{
		MinTextLength: 10,
		MaxTextLength: 50000,
		MaxBatchItems: batch.DefaultMaxItems,
		BatchWorkers:  4,
		TopFeatures:   10,
	}
}

// Engine is the explicitly constructed context every classification call runs
// against: model, stop sets, trend recorder and logger are set once at
// construction and never mutated afterwards.
type Engine struct {
	model    *model.Model
	stopSets map[string]textnorm.StopSet
	recorder *trends.Recorder
	logger   Logger
	cfg      Config
}

// New wires an engine. model may be nil in a degraded deployment; every call
// then resolves to UNCERTAIN instead of failing. recorder and logger are
// optional.
func New(m *model.Model, recorder *trends.Recorder, logger Logger, cfg Config) *Engine {
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = 10
	}
	if cfg.MaxTextLength <= 0 {
		cfg.MaxTextLength = 50000
	}
	if cfg.MaxBatchItems <= 0 {
		cfg.MaxBatchItems = batch.DefaultMaxItems
	}
	if cfg.TopFeatures <= 0 {
		cfg.TopFeatures = 10
	}
	return &Engine{
		model:    m,
		stopSets: map[string]textnorm.StopSet{},
		recorder: recorder,
		logger:   logger,
		cfg:      cfg,
	}
}

// AddStopSet registers a language-specific stop-word set before serving
// starts. English is built in.
func (e *Engine) AddStopSet(lang string, set textnorm.StopSet) {
	e.stopSets[lang] = set
}

// Analyze classifies a single submission.
func (e *Engine) Analyze(req AnalyzeRequest) (*AnalyzeResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, inputErrorf("text is required")
	}
	// Length bounds count characters, not bytes, so multi-byte input is not
	// rejected early.
	length := utf8.RuneCountInString(text)
	if length < e.cfg.MinTextLength {
		return nil, inputErrorf("text is too short for analysis (minimum %d characters)", e.cfg.MinTextLength)
	}
	if length > e.cfg.MaxTextLength {
		return nil, inputErrorf("text is too long (maximum %d characters)", e.cfg.MaxTextLength)
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = ContentTypeText
	}
	switch contentType {
	case ContentTypeText, ContentTypeURL, ContentTypeImage:
	default:
		return nil, inputErrorf("unknown content type %q", contentType)
	}

	lang := e.detectLanguage(text)
	tokens, vec := e.vectorize(text, lang)
	out := classify.Score(vec, len(tokens), e.model)
	if out.Degraded {
		e.log("ERROR", "score", "classification degraded to uncertain", out.Reason)
	}

	resp := &AnalyzeResponse{
		Label:      string(out.Label),
		Confidence: Round4(out.Confidence),
		TextLength: length,
		Language:   lang,
	}

	if req.IncludeFeatures && !out.Degraded {
		for _, c := range classify.Explain(vec, e.model, e.cfg.TopFeatures) {
			resp.Features = append(resp.Features, FeatureScore{
				Feature: c.Term,
				Score:   Round4(c.Score),
			})
		}
	}

	if e.recorder != nil {
		e.recorder.Record(string(out.Label), text)
	}

	e.log("INFO", "analyze", "prediction made",
		fmt.Sprintf("label=%s confidence=%.4f length=%d lang=%s", out.Label, out.Confidence, length, lang))
	return resp, nil
}

// AnalyzeBatch classifies up to MaxBatchItems independent items, in parallel,
// preserving input order. One item's failure never touches its siblings.
func (e *Engine) AnalyzeBatch(req BatchRequest) (*BatchResponse, error) {
	// Items are trimmed up front so batch entries see exactly the text a
	// single-item call would, text_length included.
	items := make([]string, len(req.Items))
	for i, item := range req.Items {
		items[i] = strings.TrimSpace(item)
	}
	results, err := batch.Run(items, e.cfg.MaxBatchItems, e.cfg.BatchWorkers, e.classifyItem)
	if err != nil {
		return nil, inputErrorf("invalid batch: %v", err)
	}

	resp := &BatchResponse{
		Results:   make([]BatchEntry, 0, len(results)),
		BatchSize: len(req.Items),
	}
	for _, r := range results {
		entry := BatchEntry{
			Index:      r.Index,
			Label:      string(r.Outcome.Label),
			Confidence: Round4(r.Outcome.Confidence),
			TextLength: r.TextLength,
		}
		if r.Outcome.Label == classify.LabelUncertain && r.Outcome.Reason != "" {
			entry.Error = r.Outcome.Reason
		}
		resp.Results = append(resp.Results, entry)
	}
	return resp, nil
}

// TopKeywords exposes the trend read query.
func (e *Engine) TopKeywords(category string, limit int) ([]trends.Counter, error) {
	if e.recorder == nil {
		return nil, nil
	}
	return e.recorder.TopKeywords(category, limit)
}

// classifyItem is the per-item pipeline batch mode fans out. Length policy is
// applied per item here so a short entry degrades only itself.
func (e *Engine) classifyItem(text string) classify.Outcome {
	text = strings.TrimSpace(text)
	length := utf8.RuneCountInString(text)
	if length < e.cfg.MinTextLength {
		return classify.Outcome{
			Label:      classify.LabelUncertain,
			Confidence: 0.5,
			Reason:     "text too short",
		}
	}
	if length > e.cfg.MaxTextLength {
		return classify.Outcome{
			Label:      classify.LabelUncertain,
			Confidence: 0.5,
			Reason:     "text too long",
		}
	}

	lang := e.detectLanguage(text)
	tokens, vec := e.vectorize(text, lang)
	out := classify.Score(vec, len(tokens), e.model)
	if out.Degraded {
		e.log("ERROR", "score", "batch item degraded to uncertain", out.Reason)
	}
	if e.recorder != nil {
		e.recorder.Record(string(out.Label), text)
	}
	return out
}

func (e *Engine) vectorize(text, lang string) ([]string, classify.FeatureVector) {
	stops := textnorm.StopSetFor(lang, e.stopSets)
	tokens := textnorm.Tokenize(textnorm.Normalize(text), stops)
	var vocab *model.Vocabulary
	if e.model != nil {
		vocab = e.model.Vocab()
	}
	return tokens, classify.Vectorize(tokens, vocab)
}

func (e *Engine) detectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return "eng"
	}
	return whatlanggo.LangToString(info.Lang)
}

func (e *Engine) log(level, stage, message, detail string) {
	if e.logger != nil {
		e.logger.Log(level, stage, message, detail)
	}
}

// Round4 rounds to four decimal digits. Rounding happens only here, at the
// serialization boundary, never inside the pipeline, so repeated rounding
// cannot compound.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
