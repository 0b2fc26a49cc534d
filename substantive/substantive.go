// Package substantive implements string-level predicates over Korean
// nouns: person-name detection, Korean numeral detection, recovery of names
// whose final ㅇ was dropped in casual spelling, and josa attachability.
//
// The predicates are pure functions of their input and the name
// dictionaries; they are safe for concurrent use.
package substantive

import (
	"slices"
	"strings"

	"github.com/az-ai-labs/ko-lang-nlp/dict"
	"github.com/az-ai-labs/ko-lang-nlp/internal/hangul"
)

const (
	numberChars     = "일이삼사오육칠팔구천백십해경조억만"
	numberLastChars = numberChars + "원배분초"

	minVariationRunes = 3
	maxVariationRunes = 5
)

var (
	josaHeadForCoda   = []rune{'은', '이', '을', '과', '아'}
	josaHeadForNoCoda = []rune{'는', '가', '를', '와', '야', '여', '라'}
)

// Predicates classifies out-of-dictionary nouns using the name dictionaries.
type Predicates struct {
	names *dict.Names
}

// New returns predicates backed by names. A nil names yields predicates
// that never recognise a name.
func New(names *dict.Names) *Predicates {
	return &Predicates{names: names}
}

// IsName reports whether s is a known full or given name, or a family name
// followed by a given name (1+2 or 2+2 syllables).
func (p *Predicates) IsName(s string) bool {
	if p.names.Full(s) || p.names.Given(s) {
		return true
	}
	rs := []rune(s)
	switch len(rs) {
	case 3:
		return p.names.Family(string(rs[:1])) && p.names.Given(string(rs[1:]))
	case 4:
		return p.names.Family(string(rs[:2])) && p.names.Given(string(rs[2:]))
	default:
		return false
	}
}

// IsKoreanNumber reports whether s is spelled with Korean numerals,
// optionally ending in a unit (원, 배, 분, 초), e.g. "삼십만원".
func (p *Predicates) IsKoreanNumber(s string) bool {
	return IsKoreanNumber(s)
}

// IsKoreanNumber is the package-level form of Predicates.IsKoreanNumber.
func IsKoreanNumber(s string) bool {
	if s == "" {
		return false
	}
	rs := []rune(s)
	for i, r := range rs {
		set := numberChars
		if i == len(rs)-1 {
			set = numberLastChars
		}
		if !strings.ContainsRune(set, r) {
			return false
		}
	}
	return true
}

// IsKoreanNameVariation reports whether s is a name, or a name spelled with
// its final ㅇ dropped and the following 이 run together:
// 우혀니 -> 우현이 / 우현.
func (p *Predicates) IsKoreanNameVariation(s string) bool {
	if p.IsName(s) {
		return true
	}

	rs := []rune(s)
	if len(rs) < minVariationRunes || len(rs) > maxVariationRunes {
		return false
	}

	chars := make([]hangul.Char, len(rs))
	for i, r := range rs {
		c, ok := hangul.Decompose(r)
		if !ok {
			return false
		}
		chars[i] = c
	}

	last := chars[len(chars)-1]
	if !hangul.CanBeCoda(last.Onset) {
		return false
	}
	if last.Onset == 'ㅇ' || last.Vowel != 'ㅣ' || last.HasCoda() {
		return false
	}
	if chars[len(chars)-2].HasCoda() {
		return false
	}

	recovered := make([]rune, len(rs))
	copy(recovered, rs)
	prev := chars[len(chars)-2]
	prev.Coda = last.Onset
	r, ok := hangul.ComposeChar(prev)
	if !ok {
		return false
	}
	recovered[len(rs)-2] = r
	recovered[len(rs)-1] = '이'

	return p.IsName(string(recovered)) || p.IsName(string(recovered[:len(recovered)-1]))
}

// IsJosaAttachable reports whether a josa starting with head may follow a
// syllable prev, judged by prev's coda.
func IsJosaAttachable(prev, head rune) bool {
	if hangul.HasCoda(prev) {
		return !slices.Contains(josaHeadForNoCoda, head)
	}
	return !slices.Contains(josaHeadForCoda, head)
}
