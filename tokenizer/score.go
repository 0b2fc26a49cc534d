package tokenizer

import (
	"strings"

	"github.com/az-ai-labs/ko-lang-nlp/dict"
	"github.com/az-ai-labs/ko-lang-nlp/internal/hangul"
	"github.com/az-ai-labs/ko-lang-nlp/pos"
	"github.com/az-ai-labs/ko-lang-nlp/token"
)

// ParsedChunk is one candidate segmentation of a Korean chunk.
// Score is computed once at construction.
type ParsedChunk struct {
	Tokens []token.Token
	Words  int
	Score  float64

	// tieBreak is the sum of tag ordinals; among equal scores the smaller
	// sum sorts first.
	tieBreak int
}

func newParsedChunk(tokens []token.Token, words int, p *Profile, freq dict.Frequency) *ParsedChunk {
	tb := 0
	for _, t := range tokens {
		tb += int(t.Pos)
	}
	return &ParsedChunk{
		Tokens:   tokens,
		Words:    words,
		Score:    score(tokens, words, p, freq),
		tieBreak: tb,
	}
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

var (
	nounHaHeads = pos.NewSet(pos.Noun, pos.ProperNoun, pos.VerbPrefix)

	// suffixes may start anywhere without a space guide penalty.
	suffixes = pos.NewSet(pos.Suffix, pos.Eomi, pos.Josa, pos.PreEomi)
)

func score(tokens []token.Token, words int, p *Profile, freq dict.Frequency) float64 {
	n := len(tokens)

	var (
		unknowns, coverage                int
		unknownPos, determiners, exclaims int
		offGuide                          int
		freqSum                           float64
	)
	allNouns := true
	for _, t := range tokens {
		if t.Unknown {
			unknowns++
			coverage += t.Length
		}
		switch t.Pos {
		case pos.Unknown:
			unknownPos++
		case pos.Determiner:
			determiners++
		case pos.Exclamation:
			exclaims++
		}
		if pos.Nouns.Has(t.Pos) {
			freqSum += 1 - freq.Get(t.Text)
		} else {
			freqSum++
			allNouns = false
		}
		if p.hasSpaceGuide() && !suffixes.Has(t.Pos) && !p.inSpaceGuide(t.Offset) {
			offGuide++
		}
	}

	freqScore := 0.0
	if n > 0 {
		freqScore = freqSum / float64(n)
	}

	preferred := n == 2 && p.isPreferred(tokens[0].Pos, tokens[1].Pos)
	initialBound := n > 0 && pos.BoundMorphemes.Has(tokens[0].Pos)
	nounHa := n >= 2 &&
		nounHaHeads.Has(tokens[0].Pos) &&
		tokens[1].Pos == pos.Verb &&
		(strings.HasPrefix(tokens[1].Text, "하") || strings.HasPrefix(tokens[1].Text, "해"))

	return float64(n)*p.TokenCount +
		float64(unknowns)*p.Unknown +
		float64(words)*p.WordCount +
		float64(coverage)*p.UnknownCoverage +
		freqScore*p.Freq +
		float64(unknownPos)*p.UnknownPosCount +
		b2f(n != 1)*p.ExactMatch +
		b2f(!allNouns)*p.AllNoun +
		b2f(!preferred)*p.PreferredPattern +
		float64(determiners)*p.DeterminerPosCount +
		float64(exclaims)*p.ExclamationPosCount +
		b2f(initialBound)*p.InitialPostPosition +
		b2f(!nounHa)*p.HaVerb +
		float64(offGuide)*p.SpaceGuidePenalty +
		float64(josaMismatches(tokens))*p.JosaUnmatchedPenalty
}

// josaMismatches counts adjacent Noun-Josa pairs whose josa form does not
// agree with the noun's final syllable: nouns ending in a coda take
// 은/을/이 and 으로, nouns without one take 는/를/가 and 로.
func josaMismatches(tokens []token.Token) int {
	count := 0
	for i := 1; i < len(tokens); i++ {
		noun, josa := tokens[i-1], tokens[i]
		if noun.Pos != pos.Noun || josa.Pos != pos.Josa || noun.Text == "" || josa.Text == "" {
			continue
		}
		if josaMismatched(noun.Text, josa.Text) {
			count++
		}
	}
	return count
}

func josaMismatched(noun, josa string) bool {
	rs := []rune(noun)
	c, ok := hangul.Decompose(rs[len(rs)-1])
	if !ok {
		return false
	}
	head := []rune(josa)[0]
	if c.HasCoda() {
		return (c.Coda != 'ㄹ' && head == '로') || josa == "는" || josa == "를" || josa == "다"
	}
	return head == '으' || josa == "은" || josa == "을" || josa == "이"
}
