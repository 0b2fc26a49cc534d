package blockword

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/az-ai-labs/ko-lang-nlp/dict"
	"github.com/az-ai-labs/ko-lang-nlp/pos"
	"github.com/az-ai-labs/ko-lang-nlp/stemmer"
	"github.com/az-ai-labs/ko-lang-nlp/tokenizer"
)

func newFixture(t *testing.T) *Masker {
	t.Helper()
	return newProfiledFixture(t, nil)
}

func newProfiledFixture(t *testing.T, p *tokenizer.Profile) *Masker {
	t.Helper()
	tok, err := tokenizer.New(tokenizer.Lexicon{
		Dictionary: dict.New(map[pos.Tag][]string{
			pos.Noun: {"바보", "멍청이", "쓰레기", "사람"},
			pos.Verb: {"패"},
			pos.Eomi: {"요"},
			pos.Josa: {"야", "는"},
		}),
		Stemmer: stemmer.New(dict.Stems{pos.Verb: {"패": "패다"}}),
	})
	require.NoError(t, err)
	list, err := NewList(map[string]string{"바보": "LOW", "멍청이": "middle", "쓰레기": "HIGH", "패다": "HIGH"})
	require.NoError(t, err)
	return NewMasker(tok, p, list)
}

func TestMaskSeverity(t *testing.T) {
	t.Parallel()

	m := newFixture(t)
	input := "바보 멍청이 쓰레기"
	tests := []struct {
		sev   Severity
		want  string
		words []string
	}{
		{Low, "** 멍청이 쓰레기", []string{"바보"}},
		{Middle, "** *** 쓰레기", []string{"바보", "멍청이"}},
		{High, "** *** ***", []string{"바보", "멍청이", "쓰레기"}},
	}
	for _, tt := range tests {
		t.Run(tt.sev.String(), func(t *testing.T) {
			t.Parallel()
			got := m.Mask(input, tt.sev, DefaultMask)
			assert.Equal(t, tt.want, got.Text)
			assert.Equal(t, tt.words, got.Blockwords)
		})
	}
}

func TestMaskByStem(t *testing.T) {
	t.Parallel()

	m := newFixture(t)
	assert.Equal(t, "##", m.Mask("패요", High, '#').Text)
	assert.Equal(t, "패요", m.Mask("패요", Middle, '#').Text)
}

func TestMaskKeepsParticlesAndLength(t *testing.T) {
	t.Parallel()

	m := newFixture(t)
	input := "바보야"
	got := m.Mask(input, Low, DefaultMask)
	assert.Equal(t, "**야", got.Text)
	assert.Equal(t, len([]rune(input)), len([]rune(got.Text)))
}

func TestMaskUsesProfile(t *testing.T) {
	t.Parallel()

	// Rewarding unknown coverage reads 바보야 as one unknown noun, which is
	// never masked.
	p := tokenizer.DefaultProfile()
	p.UnknownCoverage = -10

	assert.Equal(t, "**야", newFixture(t).Mask("바보야", Low, DefaultMask).Text)
	assert.Equal(t, "바보야", newProfiledFixture(t, p).Mask("바보야", Low, DefaultMask).Text)
}

func TestMaskerWith(t *testing.T) {
	t.Parallel()

	m := newFixture(t)
	extended := m.With(Middle, "사람")
	assert.Equal(t, "** ***", extended.Mask("사람 멍청이", Middle, DefaultMask).Text)
	assert.Equal(t, "사람 멍청이", extended.Mask("사람 멍청이", Low, DefaultMask).Text)
	assert.Equal(t, "사람 ***", m.Mask("사람 멍청이", Middle, DefaultMask).Text, "original masker unchanged")
	assert.Same(t, m, m.With(High))
}

func TestMaskBlank(t *testing.T) {
	t.Parallel()

	m := newFixture(t)
	assert.Equal(t, Result{Text: "  "}, m.Mask("  ", High, DefaultMask))
	assert.Empty(t, m.Find("", High))
}

func TestFind(t *testing.T) {
	t.Parallel()

	m := newFixture(t)
	found := m.Find("사람 쓰레기", High)
	require.Len(t, found, 1)
	assert.Equal(t, "쓰레기", found[0].Text)
	assert.Equal(t, 3, found[0].Offset)
}

func TestList(t *testing.T) {
	t.Parallel()

	l, err := NewList(map[string]string{"a": "LOW"})
	require.NoError(t, err)
	l2 := l.With(High, "b")

	assert.True(t, l.Contains("a", Low))
	assert.True(t, l.Contains("a", High))
	assert.False(t, l.Contains("b", High))
	assert.True(t, l2.Contains("b", High))
	assert.False(t, l2.Contains("b", Middle))
	assert.Equal(t, 1, l.Len(High))
	assert.Equal(t, 2, l2.Len(High))

	var nilList *List
	assert.False(t, nilList.Contains("a", Low))

	_, err = NewList(map[string]string{"a": "SEVERE"})
	assert.Error(t, err)
}

func TestSeverityText(t *testing.T) {
	t.Parallel()

	var s Severity
	require.NoError(t, s.UnmarshalText([]byte("high")))
	assert.Equal(t, High, s)
	b, err := Middle.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "MIDDLE", string(b))
	assert.Equal(t, "Severity(7)", Severity(7).String())
	assert.Error(t, s.UnmarshalText([]byte("x")))
}

func TestMaskDefault(t *testing.T) {
	t.Parallel()

	got := Mask("바보", Low, DefaultMask)
	assert.Equal(t, "**", got.Text)
}
