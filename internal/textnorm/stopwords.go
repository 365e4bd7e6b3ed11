package textnorm

// StopSet is a fixed set of words excluded from tokenization. Sets are built
// at load time and read-only afterwards.
type StopSet map[string]struct{}

func NewStopSet(words []string) StopSet {
	s := make(StopSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s StopSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

var englishStopwords = StopSet{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {}, "you": {}, "your": {},
	"all": {}, "any": {}, "can": {}, "had": {}, "has": {}, "have": {}, "her": {}, "him": {},
	"his": {}, "how": {}, "its": {}, "our": {}, "out": {}, "she": {}, "they": {}, "this": {},
	"that": {}, "was": {}, "were": {}, "will": {}, "with": {}, "would": {}, "been": {},
	"being": {}, "from": {}, "into": {}, "more": {}, "most": {}, "other": {}, "some": {},
	"such": {}, "than": {}, "then": {}, "them": {}, "there": {}, "these": {}, "those": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "while": {}, "who": {}, "whom": {},
	"why": {}, "said": {}, "also": {}, "about": {}, "after": {}, "before": {}, "over": {},
	"under": {}, "very": {}, "just": {}, "only": {}, "both": {}, "each": {}, "because": {},
	"between": {}, "during": {}, "through": {}, "against": {}, "again": {}, "once": {},
	"here": {}, "does": {}, "did": {}, "doing": {}, "should": {}, "could": {},
}

// English returns the built-in English stop-word set.
func English() StopSet {
	return englishStopwords
}

// StopSetFor selects a stop set by ISO 639-3 language code. Only English
// ships built in; unknown or unsupported codes fall back to it so tokenization
// stays deterministic regardless of the detector's answer.
func StopSetFor(lang string, extra map[string]StopSet) StopSet {
	if extra != nil {
		if s, ok := extra[lang]; ok {
			return s
		}
	}
	return englishStopwords
}
