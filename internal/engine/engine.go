// Package engine assembles the tokenizer and the stages built on it from
// a config.Config. The CLI and the HTTP server share one Engine.
package engine

import (
	"fmt"
	"os"

	"github.com/az-ai-labs/ko-lang-nlp/blockword"
	"github.com/az-ai-labs/ko-lang-nlp/config"
	"github.com/az-ai-labs/ko-lang-nlp/data"
	"github.com/az-ai-labs/ko-lang-nlp/detokenizer"
	"github.com/az-ai-labs/ko-lang-nlp/dict"
	"github.com/az-ai-labs/ko-lang-nlp/normalize"
	"github.com/az-ai-labs/ko-lang-nlp/phrase"
	"github.com/az-ai-labs/ko-lang-nlp/postrie"
	"github.com/az-ai-labs/ko-lang-nlp/tokenizer"
)

// Engine holds every processing stage built over one lexicon.
type Engine struct {
	Tokenizer *tokenizer.Tokenizer
	// NounTokenizer parses with postrie.NounGrammar.
	NounTokenizer *tokenizer.Tokenizer
	Profile       *tokenizer.Profile
	Detokenizer   *detokenizer.Detokenizer
	Normalizer    *normalize.Normalizer
	Masker        *blockword.Masker

	phrases     map[PhraseOptions]*phrase.Extractor
	nounPhrases *phrase.Extractor
}

// PhraseOptions selects a phrase extractor.
type PhraseOptions struct {
	FilterSpam bool
	Hashtags   bool
}

// New loads the lexicon named by cfg.Lexicon and builds every stage.
// cfg must already be validated.
func New(cfg *config.Config) (*Engine, error) {
	res, err := LoadResources(cfg.Lexicon)
	if err != nil {
		return nil, err
	}

	profile, err := cfg.Profile.Build()
	if err != nil {
		return nil, fmt.Errorf("engine: profile: %w", err)
	}

	lex := tokenizer.NewLexicon(res)
	opts := []tokenizer.Option{
		tokenizer.WithWorkers(cfg.Tokenizer.Workers),
		tokenizer.WithCacheSize(cfg.Tokenizer.CacheSize),
	}
	tok, err := tokenizer.New(lex, opts...)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	nounTok, err := tokenizer.New(lex, append(opts, tokenizer.WithGrammar(postrie.NounGrammar))...)
	if err != nil {
		return nil, fmt.Errorf("engine: noun tokenizer: %w", err)
	}

	list, err := blockword.NewList(res.Blockwords)
	if err != nil {
		return nil, fmt.Errorf("engine: blockwords: %w", err)
	}

	phrases := make(map[PhraseOptions]*phrase.Extractor, 4)
	for _, spam := range []bool{false, true} {
		for _, tags := range []bool{false, true} {
			opts := []phrase.Option{phrase.WithHashtags(tags)}
			if spam {
				opts = append(opts, phrase.WithSpamFilter(res.Spam))
			}
			phrases[PhraseOptions{FilterSpam: spam, Hashtags: tags}] = phrase.New(opts...)
		}
	}

	return &Engine{
		Tokenizer:     tok,
		NounTokenizer: nounTok,
		Profile:       profile,
		Detokenizer:   detokenizer.New(tok, profile),
		Normalizer:    normalize.New(tok, profile, res.Typos),
		Masker:        blockword.NewMasker(tok, profile, list),
		phrases:       phrases,
		nounPhrases:   phrase.NewNoun(res.Dictionary),
	}, nil
}

// Phrases tokenizes text and extracts trending-topic phrases from it.
func (e *Engine) Phrases(text string, opts PhraseOptions) []phrase.Phrase {
	return e.phrases[opts].Extract(e.Tokenizer.Tokenize(text, e.Profile))
}

// NounPhrases tokenizes text and extracts compact noun phrases from it.
func (e *Engine) NounPhrases(text string) []phrase.Phrase {
	return e.nounPhrases.Extract(e.Tokenizer.Tokenize(text, e.Profile))
}

// LoadResources reads the embedded lexicon, or cfg.Dir when set, and
// merges the optional extra noun and blockword files into it.
func LoadResources(cfg config.LexiconConfig) (*dict.Resources, error) {
	var (
		res *dict.Resources
		err error
	)
	if cfg.Dir == "" {
		res, err = dict.Load(data.Lexicon, data.LexiconDir)
	} else {
		res, err = dict.Load(os.DirFS(cfg.Dir), ".")
	}
	if err != nil {
		return nil, fmt.Errorf("engine: lexicon: %w", err)
	}

	if cfg.ExtraNouns != "" {
		raw, err := os.ReadFile(cfg.ExtraNouns)
		if err != nil {
			return nil, fmt.Errorf("engine: extra nouns: %w", err)
		}
		res.Dictionary = res.Dictionary.WithNouns(dict.ParseWords(raw)...)
	}

	if cfg.Blockwords != "" {
		raw, err := os.ReadFile(cfg.Blockwords)
		if err != nil {
			return nil, fmt.Errorf("engine: blockwords: %w", err)
		}
		if res.Blockwords == nil {
			res.Blockwords = make(map[string]string)
		}
		for word, sev := range dict.ParsePairs(raw) {
			res.Blockwords[word] = sev
		}
	}
	return res, nil
}
