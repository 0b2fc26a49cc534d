// Package blockword masks offensive words in Korean text.
//
// Text is tokenized, and every known token longer than one rune whose
// text or predicate stem is on the block list for the requested severity
// is replaced rune for rune with a mask character. Only content tokens
// (nouns, predicates, adverbs and raw script chunks) are considered, so
// particles and endings are never masked. Offsets are preserved: the
// masked text has the same rune length as the input.
package blockword

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/az-ai-labs/ko-lang-nlp/data"
	"github.com/az-ai-labs/ko-lang-nlp/dict"
	"github.com/az-ai-labs/ko-lang-nlp/pos"
	"github.com/az-ai-labs/ko-lang-nlp/token"
	"github.com/az-ai-labs/ko-lang-nlp/tokenizer"
)

// Logger receives masking events at debug level. Disabled by default.
var Logger = zerolog.Nop()

// DefaultMask replaces each rune of a blocked word.
const DefaultMask = '*'

var blockable = pos.NewSet(
	pos.Noun, pos.Adjective, pos.Verb, pos.Adverb,
	pos.Korean, pos.KoreanParticle, pos.Foreign, pos.Number, pos.Alpha,
)

// List is an immutable block list indexed by severity.
type List struct {
	// sets[s] holds every word blocked at severity s.
	sets [High + 1]map[string]struct{}
}

// NewList builds a list from word -> severity name pairs, as loaded by
// dict.Load. A word listed at Low is blocked at every severity.
func NewList(words map[string]string) (*List, error) {
	l := &List{}
	for i := range l.sets {
		l.sets[i] = make(map[string]struct{})
	}
	for w, name := range words {
		sev, err := ParseSeverity(name)
		if err != nil {
			return nil, err
		}
		l.add(sev, w)
	}
	return l, nil
}

func (l *List) add(sev Severity, word string) {
	for s := sev; s <= High; s++ {
		l.sets[s][word] = struct{}{}
	}
}

// With returns a copy of l with words added at sev.
func (l *List) With(sev Severity, words ...string) *List {
	cp := &List{}
	for i, set := range l.sets {
		cp.sets[i] = make(map[string]struct{}, len(set)+len(words))
		for w := range set {
			cp.sets[i][w] = struct{}{}
		}
	}
	for _, w := range words {
		cp.add(sev, w)
	}
	return cp
}

// Contains reports whether word is blocked at sev.
func (l *List) Contains(word string, sev Severity) bool {
	if l == nil || word == "" || sev < Low || sev > High {
		return false
	}
	_, ok := l.sets[sev][word]
	return ok
}

// Len returns the number of words blocked at sev.
func (l *List) Len(sev Severity) int {
	if l == nil || sev < Low || sev > High {
		return 0
	}
	return len(l.sets[sev])
}

// Result is the outcome of Mask.
type Result struct {
	Text       string   `json:"text"`
	Blockwords []string `json:"blockwords"`
}

// Masker finds and masks blocked words using one tokenizer.
type Masker struct {
	tok     *tokenizer.Tokenizer
	profile *tokenizer.Profile
	list    *List
}

// NewMasker returns a Masker that tokenizes under profile. A nil profile
// means tokenizer.DefaultProfile.
func NewMasker(tok *tokenizer.Tokenizer, profile *tokenizer.Profile, list *List) *Masker {
	return &Masker{tok: tok, profile: profile, list: list}
}

// With returns a Masker that also blocks words at sev.
func (m *Masker) With(sev Severity, words ...string) *Masker {
	if len(words) == 0 {
		return m
	}
	return &Masker{tok: m.tok, profile: m.profile, list: m.list.With(sev, words...)}
}

func (m *Masker) blocked(t token.Token, sev Severity) bool {
	return blockable.Has(t.Pos) && (m.list.Contains(t.Text, sev) || m.list.Contains(t.Stem, sev))
}

// Find returns the tokens of text longer than one rune that are blocked
// at sev, including unknown ones.
func (m *Masker) Find(text string, sev Severity) []token.Token {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []token.Token
	for _, t := range m.tok.Tokenize(text, m.profile) {
		if t.Length > 1 && m.blocked(t, sev) {
			out = append(out, t)
		}
	}
	return out
}

// Mask replaces every known blocked token of text with mask runes.
func (m *Masker) Mask(text string, sev Severity, mask rune) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Text: text}
	}
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}

	rs := []rune(text)
	var words []string
	for _, t := range m.tok.Tokenize(text, m.profile) {
		if t.Unknown || t.Length <= 1 || !m.blocked(t, sev) {
			continue
		}
		for i := t.Offset; i < t.End(); i++ {
			rs[i] = mask
		}
		words = append(words, t.Text)
	}
	if len(words) > 0 {
		Logger.Debug().Strs("words", words).Stringer("severity", sev).Msg("masked blockwords")
	}
	return Result{Text: string(rs), Blockwords: words}
}

var (
	defaultOnce   sync.Once
	defaultMasker *Masker
	defaultErr    error
)

// Default returns a Masker over the embedded lexicon.
func Default() (*Masker, error) {
	defaultOnce.Do(func() {
		tok, err := tokenizer.Default()
		if err != nil {
			defaultErr = err
			return
		}
		res, err := dict.Load(data.Lexicon, data.LexiconDir)
		if err != nil {
			defaultErr = err
			return
		}
		list, err := NewList(res.Blockwords)
		if err != nil {
			defaultErr = err
			return
		}
		defaultMasker = NewMasker(tok, nil, list)
	})
	return defaultMasker, defaultErr
}

// Mask masks text with the Default masker. It panics if the embedded
// lexicon cannot be loaded.
func Mask(text string, sev Severity, mask rune) Result {
	m, err := Default()
	if err != nil {
		panic(err)
	}
	return m.Mask(text, sev, mask)
}
