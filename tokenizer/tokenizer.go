// Package tokenizer segments Korean text into part-of-speech tagged tokens.
//
// Input is first split into chunks (see package chunker). Korean chunks are
// parsed with a beam-pruned dynamic program over a POS transition trie
// (see package postrie): every substring of up to eight runes is tried as
// the next token, and each position keeps the five best partial parses
// under the scoring Profile. Non-Korean chunks pass through unchanged.
//
// Tokens carry rune offsets into the input: for every token t,
// []rune(input)[t.Offset:t.Offset+t.Length] == t.Text.
//
// A Tokenizer is immutable after New and safe for concurrent use.
//
// Known limitations:
//
//   - The parser never looks past eight runes, so longer dictionary words
//     inside a chunk are split.
//   - Scores compare segmentations of one chunk only; there is no context
//     across spaces.
//   - Sentence splitting does not track quote or parenthesis nesting.
package tokenizer

import (
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/az-ai-labs/ko-lang-nlp/chunker"
	"github.com/az-ai-labs/ko-lang-nlp/data"
	"github.com/az-ai-labs/ko-lang-nlp/dict"
	"github.com/az-ai-labs/ko-lang-nlp/pos"
	"github.com/az-ai-labs/ko-lang-nlp/postrie"
	"github.com/az-ai-labs/ko-lang-nlp/stemmer"
	"github.com/az-ai-labs/ko-lang-nlp/substantive"
	"github.com/az-ai-labs/ko-lang-nlp/token"
)

// Logger receives tokenizer events. Disabled by default.
var Logger = zerolog.Nop()

// ErrInvalidTopN is returned by TokenizeTopN when topN is not positive.
var ErrInvalidTopN = errors.New("tokenizer: topN must be positive")

// Substantives classifies nouns missing from the dictionary. A noun for
// which any predicate holds is not marked unknown.
type Substantives interface {
	IsName(word string) bool
	IsKoreanNumber(word string) bool
	IsKoreanNameVariation(word string) bool
}

// Stemmer post-processes the best token sequence of a whole text.
type Stemmer interface {
	Stem(tokens []token.Token) []token.Token
}

// Lexicon is the read-only linguistic data a Tokenizer consults.
// Nil Substantives never classify a noun; a nil Stemmer leaves tokens as
// they are.
type Lexicon struct {
	Dictionary   *dict.Dictionary
	Frequency    dict.Frequency
	Substantives Substantives
	Stemmer      Stemmer
}

// NewLexicon wires loaded resources into a Lexicon.
func NewLexicon(res *dict.Resources) Lexicon {
	return Lexicon{
		Dictionary:   res.Dictionary,
		Frequency:    res.Frequency,
		Substantives: substantive.New(res.Names),
		Stemmer:      stemmer.New(res.Stems),
	}
}

type noSubstantives struct{}

func (noSubstantives) IsName(string) bool                { return false }
func (noSubstantives) IsKoreanNumber(string) bool        { return false }
func (noSubstantives) IsKoreanNameVariation(string) bool { return false }

type noStemmer struct{}

func (noStemmer) Stem(tokens []token.Token) []token.Token { return tokens }

type options struct {
	workers   int
	cacheSize int
	grammar   []postrie.Definition
}

// Option configures a Tokenizer.
type Option func(*options)

// WithWorkers sets how many Korean chunks of one text are parsed
// concurrently. Values below 2 parse sequentially.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithCacheSize keeps the ranked parses of up to n distinct chunks.
// Zero disables the cache.
func WithCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

// WithGrammar replaces postrie.DefaultGrammar.
func WithGrammar(defs []postrie.Definition) Option {
	return func(o *options) { o.grammar = defs }
}

type cacheKey struct {
	text    string
	profile string
}

// Tokenizer parses text against one Lexicon and grammar.
type Tokenizer struct {
	lex     Lexicon
	trie    *postrie.Trie
	workers int
	cache   *lru.Cache[cacheKey, [][]token.Token]

	// onBeam, when set, observes the beam size after each position.
	onBeam func(end, size int)
}

// New builds a Tokenizer. It fails only on a malformed grammar or a
// negative cache size.
func New(lex Lexicon, opts ...Option) (*Tokenizer, error) {
	o := options{workers: 1, grammar: postrie.DefaultGrammar}
	for _, opt := range opts {
		opt(&o)
	}

	trie, err := postrie.Build(o.grammar)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: building grammar: %w", err)
	}
	if lex.Dictionary == nil {
		lex.Dictionary = dict.New(nil)
	}
	if lex.Substantives == nil {
		lex.Substantives = noSubstantives{}
	}
	if lex.Stemmer == nil {
		lex.Stemmer = noStemmer{}
	}

	t := &Tokenizer{lex: lex, trie: trie, workers: o.workers}
	switch {
	case o.cacheSize < 0:
		return nil, fmt.Errorf("tokenizer: cache size %d is negative", o.cacheSize)
	case o.cacheSize > 0:
		t.cache, err = lru.New[cacheKey, [][]token.Token](o.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("tokenizer: creating cache: %w", err)
		}
	}
	Logger.Debug().Int("nodes", trie.Len()).Int("workers", o.workers).Int("cache", o.cacheSize).Msg("tokenizer ready")
	return t, nil
}

// Lexicon returns the linguistic data the tokenizer was built with.
func (t *Tokenizer) Lexicon() Lexicon {
	return t.lex
}

// Tokenize returns the best token sequence for text, with predicate
// endings folded by the Stemmer. A nil profile means DefaultProfile.
func (t *Tokenizer) Tokenize(text string, p *Profile) []token.Token {
	if p == nil {
		p = DefaultProfile()
	}
	perChunk := t.tokenizeChunks(text, 1, p)

	var out []token.Token
	for _, ranked := range perChunk {
		if len(ranked) > 0 {
			out = append(out, ranked[0]...)
		}
	}
	return t.lex.Stemmer.Stem(out)
}

// TokenizeTopN returns, for every chunk of text in order, up to topN
// distinct candidate token sequences, best first. Non-Korean chunks have a
// single candidate holding the chunk itself. Results are not stemmed.
func (t *Tokenizer) TokenizeTopN(text string, topN int, p *Profile) ([][][]token.Token, error) {
	if topN <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTopN, topN)
	}
	if p == nil {
		p = DefaultProfile()
	}
	return t.tokenizeChunks(text, topN, p), nil
}

func (t *Tokenizer) tokenizeChunks(text string, topN int, p *Profile) [][][]token.Token {
	chunks := chunker.Tokens(text)
	if len(chunks) == 0 {
		return nil
	}

	var fp string
	if t.cache != nil && !p.hasSpaceGuide() {
		fp = p.fingerprint()
	}

	out := make([][][]token.Token, len(chunks))
	parse := func(i int) {
		c := chunks[i]
		if c.Pos != pos.Korean {
			out[i] = [][]token.Token{{c}}
			return
		}
		ranked := t.rankChunk(c, p, fp)
		if len(ranked) > topN {
			ranked = ranked[:topN]
		}
		out[i] = ranked
	}

	if t.workers < 2 || countKorean(chunks) < 2 {
		for i := range chunks {
			parse(i)
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(t.workers)
	for i := range chunks {
		g.Go(func() error {
			parse(i)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// rankChunk consults the cache when fp is non-empty. Cached parses are
// stored relative to the chunk start.
func (t *Tokenizer) rankChunk(c token.Token, p *Profile, fp string) [][]token.Token {
	if fp == "" {
		return t.parseKorean(c, p)
	}
	key := cacheKey{text: c.Text, profile: fp}
	if cached, ok := t.cache.Get(key); ok {
		return shift(cached, c.Offset)
	}
	ranked := t.parseKorean(c, p)
	t.cache.Add(key, shift(ranked, -c.Offset))
	return ranked
}

func shift(ranked [][]token.Token, delta int) [][]token.Token {
	out := make([][]token.Token, len(ranked))
	for i, toks := range ranked {
		cp := make([]token.Token, len(toks))
		for j, tok := range toks {
			tok.Offset += delta
			cp[j] = tok
		}
		out[i] = cp
	}
	return out
}

func countKorean(chunks []token.Token) int {
	n := 0
	for _, c := range chunks {
		if c.Pos == pos.Korean {
			n++
		}
	}
	return n
}

// TokensToStrings returns the texts of tokens, skipping Space tokens.
func TokensToStrings(tokens []token.Token) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.Pos != pos.Space {
			out = append(out, t.Text)
		}
	}
	return out
}

var (
	defaultOnce sync.Once
	defaultTok  *Tokenizer
	defaultErr  error
)

// Default returns a Tokenizer over the embedded lexicon. It is built on
// first use and shared afterwards.
func Default() (*Tokenizer, error) {
	defaultOnce.Do(func() {
		res, err := dict.Load(data.Lexicon, data.LexiconDir)
		if err != nil {
			defaultErr = fmt.Errorf("tokenizer: loading embedded lexicon: %w", err)
			return
		}
		defaultTok, defaultErr = New(NewLexicon(res), WithCacheSize(defaultCacheSize))
	})
	return defaultTok, defaultErr
}

const defaultCacheSize = 4096

// Tokenize tokenizes text with the Default tokenizer and profile. It
// panics if the embedded lexicon cannot be loaded.
func Tokenize(text string) []token.Token {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t.Tokenize(text, nil)
}
