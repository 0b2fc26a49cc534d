package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/az-ai-labs/ko-lang-nlp/dict"
	"github.com/az-ai-labs/ko-lang-nlp/pos"
	"github.com/az-ai-labs/ko-lang-nlp/token"
)

func unknownNoun(text string, offset int) token.Token {
	t := token.New(text, pos.Noun, offset)
	t.Unknown = true
	return t
}

func TestScore(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()
	guided := p.WithSpaceGuide([]int{2, 4})

	tests := []struct {
		name    string
		tokens  []token.Token
		words   int
		profile *Profile
		want    float64
	}{
		{
			name:    "noun verb eomi",
			tokens:  []token.Token{token.New("사랑", pos.Noun, 0), token.New("해", pos.Verb, 2), token.New("요", pos.Eomi, 3)},
			words:   2,
			profile: p,
			want:    2.54,
		},
		{
			name:    "noun verb eomi off the space guide",
			tokens:  []token.Token{token.New("사랑", pos.Noun, 0), token.New("해", pos.Verb, 2), token.New("요", pos.Eomi, 3)},
			words:   2,
			profile: guided,
			want:    5.54,
		},
		{
			name:    "whole chunk unknown",
			tokens:  []token.Token{unknownNoun("사랑해요", 0)},
			words:   1,
			profile: guided,
			want:    6.88,
		},
		{
			name:    "preferred noun josa",
			tokens:  []token.Token{token.New("사랑", pos.Noun, 0), token.New("을", pos.Josa, 2)},
			words:   1,
			profile: p,
			want:    1.76,
		},
		{
			name:    "mismatched josa",
			tokens:  []token.Token{token.New("사랑", pos.Noun, 0), token.New("를", pos.Josa, 2)},
			words:   1,
			profile: p,
			want:    4.76,
		},
		{
			name:    "leading josa",
			tokens:  []token.Token{token.New("가", pos.Josa, 0)},
			words:   1,
			profile: p,
			want:    1.88,
		},
		{
			name:    "empty",
			tokens:  nil,
			words:   1,
			profile: p,
			want:    0.3 + 0.5 + 0.6 + 0.3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := newParsedChunk(tt.tokens, tt.words, tt.profile, nil).Score
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestScoreFrequency(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()
	tokens := []token.Token{token.New("사랑", pos.Noun, 0)}
	rare := newParsedChunk(tokens, 1, p, nil)
	common := newParsedChunk(tokens, 1, p, dict.Frequency{"사랑": 0.5})
	assert.InDelta(t, 0.5*p.Freq, rare.Score-common.Score, 1e-9)
}

func TestTieBreak(t *testing.T) {
	t.Parallel()

	c := newParsedChunk([]token.Token{token.New("사랑", pos.Noun, 0), token.New("을", pos.Josa, 2)}, 1, DefaultProfile(), nil)
	assert.Equal(t, int(pos.Noun)+int(pos.Josa), c.tieBreak)
}

func TestJosaMismatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		noun, josa string
		want       bool
	}{
		{"사랑", "을", false},
		{"사랑", "를", true},
		{"사랑", "으로", false},
		{"사랑", "로", true},
		{"서울", "로", false},
		{"바보", "를", false},
		{"바보", "을", true},
		{"바보", "으로", true},
		{"바보", "가", false},
		{"abc", "을", false},
	}
	for _, tt := range tests {
		t.Run(tt.noun+tt.josa, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, josaMismatched(tt.noun, tt.josa))
		})
	}

	tokens := []token.Token{
		token.New("사랑", pos.Noun, 0), token.New("를", pos.Josa, 2),
		token.New("바보", pos.Noun, 3), token.New("을", pos.Josa, 5),
	}
	assert.Equal(t, 2, josaMismatches(tokens))
}

func TestProfileSpaceGuide(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()
	g := p.WithSpaceGuide([]int{4, 2, 2})

	assert.Empty(t, p.SpaceGuide())
	assert.False(t, p.hasSpaceGuide())
	assert.Equal(t, []int{2, 4}, g.SpaceGuide())
	assert.True(t, g.inSpaceGuide(4))
	assert.False(t, g.inSpaceGuide(0))
	assert.Equal(t, p.fingerprint(), g.fingerprint())

	q := DefaultProfile()
	q.HaVerb = 0.4
	assert.NotEqual(t, p.fingerprint(), q.fingerprint())
}
