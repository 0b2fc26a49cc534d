// Package token defines the Token value shared by the chunker, the parser,
// the stemmer and the detokenizer.
//
// Offsets and lengths are counted in runes, not bytes. For every token t
// produced from input s, string([]rune(s)[t.Offset:t.End()]) == t.Text.
package token

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/az-ai-labs/ko-lang-nlp/pos"
)

// Token is a typed span of the input text.
type Token struct {
	Text    string  `json:"text"`
	Pos     pos.Tag `json:"pos"`
	Offset  int     `json:"offset"` // rune offset into the original input
	Length  int     `json:"length"` // rune length
	Stem    string  `json:"stem,omitempty"`
	Unknown bool    `json:"unknown,omitempty"`
}

// New returns a token with Length derived from text.
func New(text string, tag pos.Tag, offset int) Token {
	return Token{Text: text, Pos: tag, Offset: offset, Length: utf8.RuneCountInString(text)}
}

// End returns the rune offset one past the last rune of the token.
func (t Token) End() int {
	return t.Offset + t.Length
}

// String returns a debug representation, e.g. Noun("사랑")[0:2] or
// Verb("해요")[2:4](하다). Unknown tokens carry a trailing '*'.
func (t Token) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%q)[%d:%d]", t.Pos, t.Text, t.Offset, t.End())
	if t.Unknown {
		b.WriteByte('*')
	}
	if t.Stem != "" {
		fmt.Fprintf(&b, "(%s)", t.Stem)
	}
	return b.String()
}

// Texts returns the text of every token.
func Texts(tokens []Token) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

// Equal reports whether two token lists are identical.
func Equal(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
