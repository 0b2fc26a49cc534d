// Package normalize cleans up colloquial Korean text before tokenization.
//
// Normalize applies, to every run of Hangul (syllables and compatibility
// jamo):
//
//   - ending repair when laughter or crying is glued to the last
//     syllable: 안됔ㅋㅋ -> 안돼ㅋㅋ
//   - repetition limits: ㅋㅋㅋㅋㅋ -> ㅋㅋㅋ, 훌쩍훌쩍훌쩍 -> 훌쩍훌쩍
//   - restoration of a dropped 이 before 가/데/지: 소린가 -> 소리인가
//   - typo dictionary corrections: 하겟다 -> 하겠다
//
// and finally collapses every whitespace run to a single space. Input is
// composed to NFC first, so decomposed jamo sequences are handled.
//
// A Normalizer is immutable and safe for concurrent use.
//
// Known limitations:
//
//   - Ending repair only looks at the syllable directly before the jamo.
//   - Typo corrections are plain substring replacements and may fire
//     inside longer words.
package normalize

import (
	"cmp"
	"maps"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/az-ai-labs/ko-lang-nlp/data"
	"github.com/az-ai-labs/ko-lang-nlp/dict"
	"github.com/az-ai-labs/ko-lang-nlp/internal/hangul"
	"github.com/az-ai-labs/ko-lang-nlp/pos"
	"github.com/az-ai-labs/ko-lang-nlp/tokenizer"
)

// Logger receives typo corrections at debug level. Disabled by default.
var Logger = zerolog.Nop()

// maxInputBytes is the maximum input size for Normalize.
// Inputs exceeding this are returned unchanged.
const maxInputBytes = 1 << 20 // 1 MiB

// codaNExceptions are syllables whose ㄴ coda is part of the word itself.
const codaNExceptions = "은는운인텐근른픈닌든던"

type typo struct {
	from, to string
}

// Normalizer holds the dictionary, typo table and tokenizer used by the
// normalization steps.
type Normalizer struct {
	tok     *tokenizer.Tokenizer
	profile *tokenizer.Profile
	dict    *dict.Dictionary
	typos   []typo // shorter keys first
}

// New returns a Normalizer. Coda restoration consults tok's dictionary and
// tokenizes candidates with it under profile (nil means
// tokenizer.DefaultProfile); typos maps misspellings to corrections.
func New(tok *tokenizer.Tokenizer, profile *tokenizer.Profile, typos map[string]string) *Normalizer {
	n := &Normalizer{tok: tok, profile: profile, dict: tok.Lexicon().Dictionary}
	for _, k := range slices.Sorted(maps.Keys(typos)) {
		if k != "" {
			n.typos = append(n.typos, typo{from: k, to: typos[k]})
		}
	}
	slices.SortStableFunc(n.typos, func(a, b typo) int {
		return cmp.Compare(utf8.RuneCountInString(a.from), utf8.RuneCountInString(b.from))
	})
	return n
}

func isKorean(r rune) bool {
	return hangul.IsSyllable(r) || hangul.IsJamo(r)
}

// Normalize returns the normalized text. Empty or oversized (>1 MiB)
// input is returned unchanged.
func (n *Normalizer) Normalize(s string) string {
	if s == "" || len(s) > maxInputBytes {
		return s
	}
	s = hangul.ComposeNFC(s)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, string(utf8.RuneError))
	}

	var b strings.Builder
	b.Grow(len(s))
	rs := []rune(s)
	for i := 0; i < len(rs); {
		if !isKorean(rs[i]) {
			b.WriteRune(rs[i])
			i++
			continue
		}
		j := i
		for j < len(rs) && isKorean(rs[j]) {
			j++
		}
		b.WriteString(n.normalizeChunk(rs[i:j]))
		i = j
	}
	return collapseSpaces(b.String())
}

func (n *Normalizer) normalizeChunk(chunk []rune) string {
	chunk = n.normalizeEndings(chunk)
	chunk = collapseRepeatedChars(chunk)
	chunk = collapseRepeatedUnits(chunk, 2)
	chunk = collapseRepeatedUnits(chunk, 3)
	return n.correctTypos(n.normalizeCodaN(chunk))
}

func isEmotion(r rune) bool {
	return r == 'ㅋ' || r == 'ㅎ' || isCrying(r)
}

func isCrying(r rune) bool {
	return r == 'ㅠ' || r == 'ㅜ'
}

// normalizeEndings repairs each syllable run followed by a ㅋ, ㅎ or ㅠ/ㅜ
// run.
func (n *Normalizer) normalizeEndings(rs []rune) []rune {
	out := make([]rune, 0, len(rs))
	for i := 0; i < len(rs); {
		if !hangul.IsSyllable(rs[i]) {
			out = append(out, rs[i])
			i++
			continue
		}
		j := i
		for j < len(rs) && hangul.IsSyllable(rs[j]) {
			j++
		}
		if j == len(rs) || !isEmotion(rs[j]) {
			out = append(out, rs[i:j]...)
			i = j
			continue
		}
		head := rs[j]
		k := j + 1
		for k < len(rs) && (rs[k] == head || (isCrying(head) && isCrying(rs[k]))) {
			k++
		}
		out = append(out, n.repairEnding(rs[i:j], head)...)
		out = append(out, rs[j:k]...)
		i = k
	}
	return out
}

func (n *Normalizer) repairEnding(s []rune, emotion rune) []rune {
	last1 := string(s[len(s)-1:])
	last2 := string(s[max(len(s)-2, 0):])
	if n.dict.Contains(pos.Noun, string(s)) || n.dict.Contains(pos.Eomi, last1) || n.dict.Contains(pos.Eomi, last2) {
		return s
	}

	init := s[:len(s)-1]
	last, _ := hangul.Decompose(s[len(s)-1])

	if last.Coda == 'ㅋ' || last.Coda == 'ㅎ' {
		if r, ok := hangul.Compose(last.Onset, last.Vowel, hangul.NoCoda); ok {
			return append(slices.Clone(init), r)
		}
		return s
	}

	// 하구ㅜ: a bare vowel echoed by the crying jamo becomes the coda of
	// the syllable before it.
	if len(init) == 0 || last.HasCoda() || last.Vowel != emotion || !hangul.CanBeCoda(last.Onset) {
		return s
	}
	prev, ok := hangul.Decompose(init[len(init)-1])
	if !ok || prev.HasCoda() {
		return s
	}
	if r, ok := hangul.Compose(prev.Onset, prev.Vowel, last.Onset); ok {
		return append(slices.Clone(init[:len(init)-1]), r)
	}
	return s
}

// collapseRepeatedChars limits a rune repeated four or more times, and any
// run of three or more ㅠ/ㅜ, to three runes.
func collapseRepeatedChars(rs []rune) []rune {
	out := make([]rune, 0, len(rs))
	for i := 0; i < len(rs); {
		j := i + 1
		for j < len(rs) && rs[j] == rs[i] {
			j++
		}
		if j-i >= 4 {
			out = append(out, rs[i:i+3]...)
			i = j
			continue
		}
		if isCrying(rs[i]) {
			k := i + 1
			for k < len(rs) && isCrying(rs[k]) {
				k++
			}
			if k-i >= 3 {
				out = append(out, rs[i:i+3]...)
				i = k
				continue
			}
		}
		out = append(out, rs[i])
		i++
	}
	return out
}

// collapseRepeatedUnits limits a unit of size runes repeated three or more
// times to two copies.
func collapseRepeatedUnits(rs []rune, size int) []rune {
	out := make([]rune, 0, len(rs))
	for i := 0; i < len(rs); {
		if i+size > len(rs) {
			out = append(out, rs[i:]...)
			break
		}
		unit := rs[i : i+size]
		reps := 1
		for i+(reps+1)*size <= len(rs) && slices.Equal(rs[i+reps*size:i+(reps+1)*size], unit) {
			reps++
		}
		if reps >= 3 {
			out = append(out, unit...)
			out = append(out, unit...)
			i += reps * size
			continue
		}
		out = append(out, rs[i])
		i++
	}
	return out
}

// normalizeCodaN restores the 이 swallowed into a ㄴ coda before a final
// 가, 데 or 지 when the remaining head is a known noun.
func (n *Normalizer) normalizeCodaN(rs []rune) []rune {
	if len(rs) < 2 {
		return rs
	}
	s := string(rs)
	last := rs[len(rs)-1]
	head := rs[len(rs)-2]

	if n.dict.Contains(pos.Noun, s) ||
		n.dict.Contains(pos.Conjunction, s) ||
		n.dict.Contains(pos.Adverb, s) ||
		n.dict.Contains(pos.Noun, string(rs[len(rs)-2:])) ||
		!hangul.IsSyllable(head) ||
		strings.ContainsRune(codaNExceptions, head) {
		return rs
	}
	if last != '가' && last != '데' && last != '지' {
		return rs
	}
	hc, _ := hangul.Decompose(head)
	if hc.Coda != 'ㄴ' {
		return rs
	}
	open, ok := hangul.Compose(hc.Onset, hc.Vowel, hangul.NoCoda)
	if !ok {
		return rs
	}
	stem := append(slices.Clone(rs[:len(rs)-2]), open)
	if !n.dict.Contains(pos.Noun, string(stem)) {
		return rs
	}
	if toks := n.tok.Tokenize(s, n.profile); len(toks) > 0 && pos.Predicates.Has(toks[0].Pos) {
		return rs
	}
	return append(stem, '인', last)
}

func (n *Normalizer) correctTypos(s []rune) string {
	out := string(s)
	for _, t := range n.typos {
		if strings.Contains(out, t.from) {
			Logger.Debug().Str("typo", t.from).Str("correction", t.to).Msg("typo corrected")
			out = strings.ReplaceAll(out, t.from, t.to)
		}
	}
	return out
}

// collapseSpaces replaces every whitespace run with one space.
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

var (
	defaultOnce sync.Once
	defaultNorm *Normalizer
	defaultErr  error
)

// Default returns a Normalizer over the embedded lexicon and the default
// tokenizer.
func Default() (*Normalizer, error) {
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
		defaultNorm = New(tok, nil, res.Typos)
	})
	return defaultNorm, defaultErr
}

// Normalize normalizes s with the Default normalizer. It panics if the
// embedded lexicon cannot be loaded.
func Normalize(s string) string {
	n, err := Default()
	if err != nil {
		panic(err)
	}
	return n.Normalize(s)
}
