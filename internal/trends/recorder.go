package trends

import (
	"regexp"
	"sync"
	"time"

	"fakenews_detector/internal/textnorm"
)

// MaxKeywordsPerText caps how many candidate keywords one submission feeds
// into the counters.
const MaxKeywordsPerText = 10

var keywordPattern = regexp.MustCompile(`[a-z0-9]{4,}`)

// Keywords extracts up to limit candidate keywords from raw text: normalized
// tokens of at least four characters with stop-words excluded, in document
// order. Repeated words count once per occurrence, matching how the counters
// accumulate.
func Keywords(text string, stops textnorm.StopSet, limit int) []string {
	if limit <= 0 {
		limit = MaxKeywordsPerText
	}
	words := keywordPattern.FindAllString(textnorm.Normalize(text), -1)
	out := make([]string, 0, limit)
	for _, w := range words {
		if stops.Contains(w) {
			continue
		}
		out = append(out, w)
		if len(out) == limit {
			break
		}
	}
	return out
}

type Logger interface {
	Log(level, stage, message, detail string)
}

type update struct {
	category string
	text     string
	seen     time.Time
}

// Recorder serializes all counter updates through a single consumer goroutine
// fed by a buffered channel, so increments of the same key can never race even
// when the store's own Upsert is naive. Record is fire-and-forget: it never
// blocks the classification response, and a full queue drops the update with
// a log line instead of waiting.
type Recorder struct {
	store  Store
	stops  textnorm.StopSet
	logger Logger
	queue  chan update
	wg     sync.WaitGroup

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

func NewRecorder(store Store, stops textnorm.StopSet, logger Logger, queueSize int) *Recorder {
	if queueSize <= 0 {
		queueSize = 256
	}
	r := &Recorder{
		store:  store,
		stops:  stops,
		logger: logger,
		queue:  make(chan update, queueSize),
	}
	r.wg.Add(1)
	go r.consume()
	return r
}

// Record queues a trend update for a finalized classification. Only the fake
// and real categories carry trends; anything else is ignored. After Close the
// recorder stays callable and drops updates instead of accepting them.
func (r *Recorder) Record(category, text string) {
	if category != "fake" && category != "real" {
		return
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.log("WARN", "trends", "recorder closed, update dropped", "category="+category)
		return
	}
	select {
	case r.queue <- update{category: category, text: text, seen: time.Now().UTC()}:
	default:
		r.log("WARN", "trends", "trend queue full, update dropped", "category="+category)
	}
}

// TopKeywords reads counters ordered by frequency descending, ties broken by
// most recent last_seen.
func (r *Recorder) TopKeywords(category string, limit int) ([]Counter, error) {
	return r.store.TopKeywords(category, limit)
}

// Close drains pending updates and releases the store.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.queue)
		r.mu.Unlock()
	})
	r.wg.Wait()
	return r.store.Close()
}

func (r *Recorder) consume() {
	defer r.wg.Done()
	for u := range r.queue {
		for _, kw := range Keywords(u.text, r.stops, MaxKeywordsPerText) {
			if err := r.store.Upsert(kw, u.category, u.seen); err != nil {
				r.log("ERROR", "trends", "trend upsert failed", err.Error())
			}
		}
	}
}

func (r *Recorder) log(level, stage, message, detail string) {
	if r.logger != nil {
		r.logger.Log(level, stage, message, detail)
	}
}
