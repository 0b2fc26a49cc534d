// Package stemmer rewrites predicate tokens to their dictionary stems.
//
// Endings (Eomi, PreEomi) that follow a Verb or Adjective are folded into
// that predicate token, and every predicate token gets its lemma in
// Token.Stem, e.g. [해(Verb) 요(Eomi)] -> [해요(Verb, stem 하다)].
package stemmer

import (
	"github.com/az-ai-labs/ko-lang-nlp/dict"
	"github.com/az-ai-labs/ko-lang-nlp/pos"
	"github.com/az-ai-labs/ko-lang-nlp/token"
)

// Stemmer folds endings and attaches lemmas using a stem table.
type Stemmer struct {
	stems dict.Stems
}

// New returns a stemmer backed by stems.
func New(stems dict.Stems) *Stemmer {
	return &Stemmer{stems: stems}
}

// Stem returns tokens with endings folded into predicates. The input slice
// is not modified. Token lists without a predicate are returned as is.
func (s *Stemmer) Stem(tokens []token.Token) []token.Token {
	hasPredicate := false
	for _, t := range tokens {
		if pos.Predicates.Has(t.Pos) {
			hasPredicate = true
			break
		}
	}
	if !hasPredicate {
		return tokens
	}

	out := make([]token.Token, 0, len(tokens))
	for _, t := range tokens {
		switch {
		case len(out) > 0 && pos.Endings.Has(t.Pos) && pos.Predicates.Has(out[len(out)-1].Pos):
			prev := &out[len(out)-1]
			prev.Text += t.Text
			prev.Length += t.Length
		case pos.Predicates.Has(t.Pos):
			if lemma, ok := s.stems.Lookup(t.Pos, t.Text); ok {
				t.Stem = lemma
			}
			out = append(out, t)
		default:
			out = append(out, t)
		}
	}
	return out
}
