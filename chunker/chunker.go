// Package chunker splits raw text into typed, non-overlapping spans before
// morphological analysis.
//
// Text is first split into whitespace and non-whitespace runs. A whitespace
// run becomes one Space chunk. Each non-whitespace run is scanned by a
// fixed-priority list of category patterns:
//
//	URL, Email, ScreenName, Hashtag, CashTag, Number,
//	Korean, KoreanParticle, Alpha, Punctuation
//
// A match is accepted only if it does not overlap a match accepted earlier,
// so an earlier category always wins a contested span. Characters left
// uncovered become Foreign chunks.
//
// Offsets are rune offsets into the input. Concatenating the Text of every
// chunk reconstructs the input exactly (after invalid UTF-8 is replaced
// with U+FFFD).
//
// All functions are safe for concurrent use by multiple goroutines.
//
// Known limitations:
//
//   - URL detection recognises explicit http(s) URLs and bare hosts with a
//     common TLD only; there is no full TLD list.
//   - Alpha covers ASCII letters only. Accented Latin letters fall into
//     Foreign chunks.
package chunker

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/az-ai-labs/ko-lang-nlp/pos"
	"github.com/az-ai-labs/ko-lang-nlp/token"
)

// ChunkMatch is a typed span of the input. Start and End are rune offsets.
type ChunkMatch struct {
	Start int     `json:"start"` // inclusive
	End   int     `json:"end"`   // exclusive
	Text  string  `json:"text"`
	Pos   pos.Tag `json:"pos"`
}

// Len returns the rune length of the match.
func (m ChunkMatch) Len() int {
	return m.End - m.Start
}

// Token converts the match into a token.
func (m ChunkMatch) Token() token.Token {
	return token.Token{Text: m.Text, Pos: m.Pos, Offset: m.Start, Length: m.Len()}
}

// String returns a debug representation, e.g. Email("a@b.com")[0:7].
func (m ChunkMatch) String() string {
	return fmt.Sprintf("%s(%q)[%d:%d]", m.Pos, m.Text, m.Start, m.End)
}

// Chunk splits text into ordered, non-overlapping chunks covering it.
// Returns nil for empty input.
func Chunk(text string) []ChunkMatch {
	if text == "" {
		return nil
	}
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}

	rs := []rune(text)
	out := make([]ChunkMatch, 0, len(rs)/4+1)

	i := 0
	for i < len(rs) {
		j := i + 1
		space := unicode.IsSpace(rs[i])
		for j < len(rs) && unicode.IsSpace(rs[j]) == space {
			j++
		}
		if space {
			out = append(out, ChunkMatch{Start: i, End: j, Text: string(rs[i:j]), Pos: pos.Space})
		} else {
			out = appendRun(out, rs[i:j], i)
		}
		i = j
	}
	return out
}

// appendRun chunks one non-whitespace run starting at rune offset base.
func appendRun(out []ChunkMatch, run []rune, base int) []ChunkMatch {
	s := string(run)
	// byteToRune[b] is the rune index of byte offset b in s.
	byteToRune := make([]int, len(s)+1)
	ri := 0
	for b := range s {
		byteToRune[b] = ri
		ri++
	}
	byteToRune[len(s)] = ri

	covered := make([]bool, len(run))
	var accepted []ChunkMatch

	for _, c := range categories {
		for _, loc := range c.re.FindAllStringIndex(s, -1) {
			start, end := byteToRune[loc[0]], byteToRune[loc[1]]
			if start == end || overlaps(covered, start, end) {
				continue
			}
			if c.accept != nil && !c.accept(run, start, end) {
				continue
			}
			for k := start; k < end; k++ {
				covered[k] = true
			}
			accepted = append(accepted, ChunkMatch{Start: start, End: end, Text: s[loc[0]:loc[1]], Pos: c.tag})
		}
	}

	slices.SortFunc(accepted, func(a, b ChunkMatch) int {
		return cmp.Compare(a.Start, b.Start)
	})

	// Fill gaps with Foreign chunks and rebase to absolute offsets.
	prev := 0
	for _, m := range accepted {
		if m.Start > prev {
			out = append(out, foreign(run, prev, m.Start, base))
		}
		m.Start += base
		m.End += base
		out = append(out, m)
		prev = m.End - base
	}
	if prev < len(run) {
		out = append(out, foreign(run, prev, len(run), base))
	}
	return out
}

func overlaps(covered []bool, start, end int) bool {
	for k := start; k < end; k++ {
		if covered[k] {
			return true
		}
	}
	return false
}

func foreign(run []rune, start, end, base int) ChunkMatch {
	return ChunkMatch{Start: base + start, End: base + end, Text: string(run[start:end]), Pos: pos.Foreign}
}

// Tokens returns Chunk(text) as tokens.
func Tokens(text string) []token.Token {
	chunks := Chunk(text)
	if len(chunks) == 0 {
		return nil
	}
	out := make([]token.Token, len(chunks))
	for i, c := range chunks {
		out[i] = c.Token()
	}
	return out
}

// GetChunks returns the chunk texts, dropping Space chunks unless keepSpace.
func GetChunks(text string, keepSpace bool) []string {
	chunks := Chunk(text)
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if !keepSpace && c.Pos == pos.Space {
			continue
		}
		out = append(out, c.Text)
	}
	return out
}

// GetChunksByPos returns the chunks tagged tag.
func GetChunksByPos(text string, tag pos.Tag) []ChunkMatch {
	var out []ChunkMatch
	for _, c := range Chunk(text) {
		if c.Pos == tag {
			out = append(out, c)
		}
	}
	return out
}
