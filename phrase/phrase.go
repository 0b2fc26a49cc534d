// Package phrase extracts trending-topic phrase candidates from tokenized
// Korean text.
//
// Extraction runs in two steps. Tokens are first collapsed into phrases
// by a small POS grammar (초 + 거대 + 기업 -> 초거대기업). Runs of noun
// phrases, optionally joined by spaces, numbers, conjunction josa or
// modifying predicates, then become candidates that are trimmed, length
// checked and deduplicated by text.
//
//	tok, _ := tokenizer.Default()
//	for _, p := range phrase.New().Extract(tok.Tokenize("트위터 25.2% 상승.", nil)) {
//		fmt.Println(p) // 트위터(Noun: 0, 3), 트위터 25.2%(Noun: 0, 9), ...
//	}
package phrase

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/az-ai-labs/ko-lang-nlp/dict"
	"github.com/az-ai-labs/ko-lang-nlp/internal/hangul"
	"github.com/az-ai-labs/ko-lang-nlp/pos"
	"github.com/az-ai-labs/ko-lang-nlp/postrie"
	"github.com/az-ai-labs/ko-lang-nlp/substantive"
	"github.com/az-ai-labs/ko-lang-nlp/token"
)

// Limits on a candidate, counted over its non-space phrases.
const (
	MinChars   = 2
	MinPhrases = 3
	MaxChars   = 30

	MaxPhrases     = 8
	MaxNounPhrases = 3
)

// Grammar collapses token runs into phrases. Numbers and alphabetic runs
// mixed with numbers count as nouns.
var Grammar = []postrie.Definition{
	{Pattern: "D0m*N1s0", Tag: pos.Noun},
	{Pattern: "n*a+n*", Tag: pos.Noun},
	{Pattern: "n+", Tag: pos.Noun},
	{Pattern: "v*V1r*e0", Tag: pos.Verb},
	{Pattern: "v*J1r*e0", Tag: pos.Adjective},
}

// NounGrammar is Grammar without the predicate rules.
var NounGrammar = Grammar[:3]

var (
	headTags = pos.NewSet(pos.Adjective, pos.Noun, pos.ProperNoun, pos.Alpha, pos.Number)
	tailTags = pos.NewSet(pos.Noun, pos.ProperNoun, pos.Alpha, pos.Number)
	tagTags  = pos.NewSet(pos.Hashtag, pos.CashTag)

	conjunctionJosa = map[string]bool{"와": true, "과": true, "의": true}
)

// Phrase is a run of tokens with the tag of the word class it forms.
type Phrase struct {
	Tokens []token.Token `json:"tokens"`
	Pos    pos.Tag       `json:"pos"`
}

// Text returns the concatenated token texts, spaces included.
func (p Phrase) Text() string {
	var b strings.Builder
	for _, t := range p.Tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// Offset returns the rune offset of the first token.
func (p Phrase) Offset() int {
	if len(p.Tokens) == 0 {
		return 0
	}
	return p.Tokens[0].Offset
}

// Len returns the rune length of the phrase, spaces included.
func (p Phrase) Len() int {
	n := 0
	for _, t := range p.Tokens {
		n += t.Length
	}
	return n
}

// String renders the phrase as 트위터 25.2%(Noun: 0, 9).
func (p Phrase) String() string {
	return fmt.Sprintf("%s(%s: %d, %d)", p.Text(), p.Pos, p.Offset(), p.Len())
}

func (p Phrase) lastToken() token.Token {
	return p.Tokens[len(p.Tokens)-1]
}

// chunk is a candidate built from consecutive phrases.
type chunk []Phrase

func (c chunk) text() string {
	var b strings.Builder
	for _, p := range c {
		for _, t := range p.Tokens {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

func (c chunk) tokens() []token.Token {
	var out []token.Token
	for _, p := range c {
		out = append(out, p.Tokens...)
	}
	return out
}

// Extractor finds phrase candidates. An Extractor is immutable and safe
// for concurrent use.
type Extractor struct {
	trie       *postrie.Trie
	maxPhrases int

	// nounsOnly disables spaces and conjunction josa inside candidates and
	// accepts single dictionary nouns regardless of length.
	nounsOnly bool
	nouns     *dict.Dictionary

	spam     map[string]bool
	hashtags bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSpamFilter drops every candidate containing one of words.
func WithSpamFilter(words []string) Option {
	return func(e *Extractor) {
		e.spam = make(map[string]bool, len(words))
		for _, w := range words {
			e.spam[w] = true
		}
	}
}

// WithHashtags controls whether Hashtag and CashTag tokens are appended to
// the result. Enabled by default.
func WithHashtags(on bool) Option {
	return func(e *Extractor) { e.hashtags = on }
}

// New returns a phrase extractor for trending topics. Candidates may span
// spaces and join nouns with 와, 과 and 의.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		trie:       postrie.MustBuild(Grammar),
		maxPhrases: MaxPhrases,
		hashtags:   true,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// NewNoun returns an extractor for compact noun phrases of at most
// MaxNounPhrases parts with no inner spaces. A single token found among
// the nouns of d is always accepted; d may be nil. Spam filtering and
// hashtags are not applied.
func NewNoun(d *dict.Dictionary) *Extractor {
	return &Extractor{
		trie:       postrie.MustBuild(NounGrammar),
		maxPhrases: MaxNounPhrases,
		nounsOnly:  true,
		nouns:      d,
	}
}

// Extract returns the phrase candidates of tokens in discovery order:
// growing prefixes of each noun run first, then single nouns, then
// hashtags. Candidates with the same text are reported once.
func (e *Extractor) Extract(tokens []token.Token) []Phrase {
	candidates := e.candidates(e.Collapse(tokens))

	var proper []chunk
	for _, c := range candidates {
		if e.proper(c) {
			proper = append(proper, c)
		}
	}

	var out []Phrase
	for _, c := range distinct(proper) {
		out = append(out, Phrase{Tokens: trimChunk(c).tokens(), Pos: pos.Noun})
	}

	if e.hashtags {
		for _, t := range tokens {
			if tagTags.Has(t.Pos) {
				out = append(out, Phrase{Tokens: []token.Token{t}, Pos: t.Pos})
			}
		}
	}
	return out
}

// Collapse groups tokens into phrases following the extractor grammar.
// A token the grammar cannot place becomes a phrase of its own tag.
func (e *Extractor) Collapse(tokens []token.Token) []Phrase {
	root := e.trie.Root()

	var phrases []Phrase
	cur := root
	atRoot := true
	for _, t := range tokens {
		if n, ok := e.match(cur, t.Pos); ok {
			tag := e.ending(n)
			if len(phrases) == 0 || atRoot {
				phrases = append(phrases, Phrase{Tokens: []token.Token{t}, Pos: tag})
			} else {
				last := &phrases[len(phrases)-1]
				last.Tokens = append(last.Tokens, t)
				last.Pos = tag
			}
			cur, atRoot = e.trie.Successors(n), false
			continue
		}
		if n, ok := e.match(root, t.Pos); ok {
			phrases = append(phrases, Phrase{Tokens: []token.Token{t}, Pos: e.ending(n)})
			cur, atRoot = e.trie.Successors(n), false
			continue
		}
		phrases = append(phrases, Phrase{Tokens: []token.Token{t}, Pos: t.Pos})
		cur, atRoot = root, true
	}
	return phrases
}

func (e *Extractor) match(nodes []int, tag pos.Tag) (int, bool) {
	for _, i := range nodes {
		if e.trie.Node(i).Pos == tag {
			return i, true
		}
	}
	return 0, false
}

func (e *Extractor) ending(i int) pos.Tag {
	if n := e.trie.Node(i); n.HasEnding {
		return n.Ending
	}
	return pos.Noun
}

func (e *Extractor) isSpam(p Phrase) bool {
	if e.spam == nil {
		return false
	}
	for _, t := range p.Tokens {
		if e.spam[t.Text] {
			return true
		}
	}
	return false
}

func (e *Extractor) phraseToken(tag pos.Tag) bool {
	return pos.Nouns.Has(tag) || (tag == pos.Space && !e.nounsOnly)
}

func (e *Extractor) candidates(phrases []Phrase) []chunk {
	var out []chunk

	// Consecutive noun phrases merge into one.
	merged := make([]Phrase, 0, len(phrases))
	var run []token.Token
	for _, p := range phrases {
		if pos.Nouns.Has(p.Pos) {
			run = append(run, p.Tokens...)
			continue
		}
		if run != nil {
			merged = append(merged, Phrase{Tokens: run, Pos: pos.Noun})
			run = nil
		}
		merged = append(merged, p)
	}
	if run != nil {
		merged = append(merged, Phrase{Tokens: run, Pos: pos.Noun})
	}

	// Every noun closes a candidate: the run so far. Other phrases either
	// extend the run or end it.
	var buf chunk
	for _, p := range merged {
		switch {
		case e.phraseToken(p.Pos) && !e.isSpam(p):
			buf = append(buf, p)
			if pos.Nouns.Has(p.Pos) {
				out = append(out, trimChunk(buf))
			}
		case p.Pos != pos.Space && e.joins(buf, p):
			buf = append(buf, p)
		default:
			if len(buf) > 0 {
				out = append(out, trimChunk(buf))
			}
			buf = nil
		}
	}
	if len(buf) > 0 {
		out = append(out, trimChunk(buf))
	}

	for _, p := range phrases {
		if !pos.Nouns.Has(p.Pos) || e.isSpam(p) {
			continue
		}
		trimmed := trimSpaces(p)
		if trimmed.Len() >= MinChars || len(trimmed.Tokens) >= MinPhrases {
			out = append(out, chunk{trimmed})
		}
	}
	return distinct(out)
}

// joins reports whether a non-noun phrase may extend buf: numbers,
// alphabetic runs, modifying predicates (하는, 할인된) and, unless
// nounsOnly, a conjunction josa agreeing with the preceding syllable.
func (e *Extractor) joins(buf chunk, p Phrase) bool {
	trimmed := trimSpaces(p)
	if len(trimmed.Tokens) == 0 {
		return false
	}
	switch trimmed.Pos {
	case pos.Alpha, pos.Number:
		return true
	case pos.Verb, pos.Adjective:
		return modifying(trimmed.lastToken().Text)
	case pos.Josa:
		josa := trimmed.lastToken().Text
		return !e.nounsOnly && conjunctionJosa[josa] && attaches(buf, josa)
	}
	return false
}

// attaches reports whether josa agrees with the coda of the last syllable
// in buf (사랑과, 평화와). An empty buf accepts any josa.
func attaches(buf chunk, josa string) bool {
	for i := len(buf) - 1; i >= 0; i-- {
		for j := len(buf[i].Tokens) - 1; j >= 0; j-- {
			t := buf[i].Tokens[j]
			if t.Pos == pos.Space || t.Text == "" {
				continue
			}
			prev, _ := utf8.DecodeLastRuneInString(t.Text)
			head, _ := utf8.DecodeRuneInString(josa)
			return substantive.IsJosaAttachable(prev, head)
		}
	}
	return true
}

// modifying reports whether a predicate ends in an adnominal ㄹ or ㄴ
// coda. 만 is excluded so that 하지만 does not qualify.
func modifying(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	if r == '만' {
		return false
	}
	c, ok := hangul.Decompose(r)
	return ok && (c.Coda == 'ㄹ' || c.Coda == 'ㄴ')
}

func (e *Extractor) proper(c chunk) bool {
	var parts, chars int
	var long bool
	for _, p := range c {
		if p.Pos == pos.Space {
			continue
		}
		parts++
		n := p.Len()
		chars += n
		if n > 1 {
			long = true
		}
	}
	if parts > e.maxPhrases || chars > MaxChars {
		return false
	}

	if e.nounsOnly {
		if len(c) == 0 {
			return false
		}
		if len(c) == 1 && len(c[0].Tokens) == 1 && e.nouns != nil && e.nouns.Contains(pos.Noun, c[0].Tokens[0].Text) {
			return true
		}
		return minLength(parts, chars) && long
	}

	if !minLength(parts, chars) || !long {
		return false
	}
	last := c[len(c)-1]
	if len(last.Tokens) == 0 {
		return false
	}
	t := last.lastToken()
	return t.Pos != pos.Suffix || t.Text != "적"
}

func minLength(parts, chars int) bool {
	return parts >= MinPhrases || chars >= MinChars
}

// trimChunk drops leading phrases that cannot start a candidate, trailing
// phrases that cannot end one, and the outer spaces of what remains.
func trimChunk(c chunk) chunk {
	i := 0
	for i < len(c) && !headTags.Has(c[i].Pos) {
		i++
	}
	j := len(c)
	for j > i && !tailTags.Has(c[j-1].Pos) {
		j--
	}
	if i == j {
		return nil
	}

	out := slices.Clone(c[i:j])
	first := out[0].Tokens
	for len(first) > 0 && first[0].Pos == pos.Space {
		first = first[1:]
	}
	out[0].Tokens = first

	lastIdx := len(out) - 1
	last := out[lastIdx].Tokens
	for len(last) > 0 && last[len(last)-1].Pos == pos.Space {
		last = last[:len(last)-1]
	}
	out[lastIdx].Tokens = last
	return out
}

func trimSpaces(p Phrase) Phrase {
	ts := p.Tokens
	for len(ts) > 0 && ts[0].Pos == pos.Space {
		ts = ts[1:]
	}
	for len(ts) > 0 && ts[len(ts)-1].Pos == pos.Space {
		ts = ts[:len(ts)-1]
	}
	return Phrase{Tokens: ts, Pos: p.Pos}
}

// distinct keeps the first chunk of every text.
func distinct(chunks []chunk) []chunk {
	seen := make(map[string]bool, len(chunks))
	out := chunks[:0:0]
	for _, c := range chunks {
		key := c.text()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
