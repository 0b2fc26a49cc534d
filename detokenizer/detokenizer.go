// Package detokenizer joins a list of Korean words back into a spaced
// sentence, attaching particles and endings to the word they belong to.
//
// The words are concatenated and re-tokenized with a space guide built
// from the original word boundaries, then regrouped:
//
//	["사랑", "을", "해요"] -> "사랑을 해요"
package detokenizer

import (
	"strings"
	"unicode/utf8"

	"github.com/az-ai-labs/ko-lang-nlp/pos"
	"github.com/az-ai-labs/ko-lang-nlp/token"
	"github.com/az-ai-labs/ko-lang-nlp/tokenizer"
)

// Detokenizer regroups words using one Tokenizer and base profile.
type Detokenizer struct {
	tok     *tokenizer.Tokenizer
	profile *tokenizer.Profile
}

// New returns a Detokenizer. A nil profile means tokenizer.DefaultProfile.
func New(tok *tokenizer.Tokenizer, profile *tokenizer.Profile) *Detokenizer {
	if profile == nil {
		profile = tokenizer.DefaultProfile()
	}
	return &Detokenizer{tok: tok, profile: profile}
}

// Detokenize returns words joined with spaces only where a new word starts.
func (d *Detokenizer) Detokenize(words []string) string {
	if len(words) == 0 {
		return ""
	}
	p := d.profile.WithSpaceGuide(SpaceGuide(words))
	return join(d.tok.Tokenize(strings.Join(words, ""), p))
}

// SpaceGuide returns the cumulative rune end offset of every word in the
// unspaced concatenation of words.
func SpaceGuide(words []string) []int {
	guide := make([]int, len(words))
	end := 0
	for i, w := range words {
		end += utf8.RuneCountInString(w)
		guide[i] = end
	}
	return guide
}

func join(tokens []token.Token) string {
	var (
		out           []string
		prev          pos.Tag
		hasPrev       bool
		prefixPending bool
	)
	for _, t := range tokens {
		if t.Pos == pos.Space {
			continue
		}
		attach := len(out) > 0 &&
			(prefixPending || pos.BoundMorphemes.Has(t.Pos) || (hasPrev && prev == pos.Noun && t.Pos == pos.Verb))
		switch {
		case attach:
			out[len(out)-1] += t.Text
			prefixPending = false
		case pos.Prefixes.Has(t.Pos):
			out = append(out, t.Text)
			prefixPending = true
		default:
			out = append(out, t.Text)
		}
		prev, hasPrev = t.Pos, true
	}
	return strings.Join(out, " ")
}

// Detokenize regroups words with the default tokenizer. It panics if the
// embedded lexicon cannot be loaded.
func Detokenize(words []string) string {
	tok, err := tokenizer.Default()
	if err != nil {
		panic(err)
	}
	return New(tok, nil).Detokenize(words)
}
