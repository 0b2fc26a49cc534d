package normalize

import (
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/az-ai-labs/ko-lang-nlp/dict"
	"github.com/az-ai-labs/ko-lang-nlp/pos"
	"github.com/az-ai-labs/ko-lang-nlp/tokenizer"
)

func newFixture(t testing.TB) *Normalizer {
	t.Helper()
	tok, err := tokenizer.New(tokenizer.Lexicon{
		Dictionary: dict.New(map[pos.Tag][]string{
			pos.Noun:   {"소리", "사랑", "바보"},
			pos.Verb:   {"하"},
			pos.Eomi:   {"요", "다"},
			pos.Adverb: {"정말"},
		}),
	})
	require.NoError(t, err)
	return New(tok, nil, map[string]string{"하겟다": "하겠다", "할께": "할게", "됬": "됐"})
}

func TestCodaNUsesProfile(t *testing.T) {
	t.Parallel()

	tok, err := tokenizer.New(tokenizer.Lexicon{
		Dictionary: dict.New(map[pos.Tag][]string{
			pos.Noun: {"소리"},
			pos.Verb: {"소린"},
			pos.Eomi: {"가"},
		}),
	})
	require.NoError(t, err)

	// 소린+가 parses as a predicate, so the coda is kept.
	assert.Equal(t, "소린가", New(tok, nil, nil).Normalize("소린가"))

	// Rewarding unknown coverage reads 소린가 as one unknown noun instead.
	p := tokenizer.DefaultProfile()
	p.UnknownCoverage = -10
	assert.Equal(t, "소리인가", New(tok, p, nil).Normalize("소린가"))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	n := newFixture(t)
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"non-korean untouched", "hello, world!", "hello, world!"},

		// -- ending repair --
		{"laughter coda", "안됔ㅋㅋ", "안돼ㅋㅋ"},
		{"breath coda", "그랬닿ㅎㅎ", "그랬다ㅎㅎ"},
		{"noun kept", "사랑ㅋㅋ", "사랑ㅋㅋ"},
		{"eomi kept", "좋아요ㅋㅋ", "좋아요ㅋㅋ"},

		// -- repetition --
		{"long laughter", "ㅋㅋㅋㅋㅋㅋㅋ", "ㅋㅋㅋ"},
		{"three kept", "ㅋㅋㅋ", "ㅋㅋㅋ"},
		{"mixed crying", "ㅠㅜㅠㅜ", "ㅠㅜㅠ"},
		{"two-rune unit", "훌쩍훌쩍훌쩍훌쩍", "훌쩍훌쩍"},
		{"three-rune unit", "사브작사브작사브작", "사브작사브작"},
		{"two repeats kept", "훌쩍훌쩍", "훌쩍훌쩍"},

		// -- coda ㄴ --
		{"coda n before 가", "소린가", "소리인가"},
		{"coda n before 데", "소린데", "소리인데"},
		{"unknown head kept", "고린가", "고린가"},
		{"head not a noun", "그런데", "그런데"},
		{"restored form stable", "소리인가", "소리인가"},

		// -- typos --
		{"typo", "하겟다", "하겠다"},
		{"typo inside run", "내가할께", "내가할게"},
		{"single rune typo", "됬어", "됐어"},

		// -- whitespace --
		{"whitespace collapsed", "사랑  해\t\n요", "사랑 해 요"},
		{"edges kept single", "  사랑 ", " 사랑 "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestNormalizeDecomposedInput(t *testing.T) {
	t.Parallel()

	n := newFixture(t)
	// 소린가 written with conjoining jamo.
	input := "\u1109\u1169\u1105\u1175\u11ab\u1100\u1161"
	assert.Equal(t, "소리인가", n.Normalize(input))
}

func TestNormalizeOversized(t *testing.T) {
	t.Parallel()

	n := newFixture(t)
	big := strings.Repeat("ㅋ", maxInputBytes)
	assert.Equal(t, big, n.Normalize(big))
}

func TestCollapseRepeatedUnits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		size  int
		want  string
	}{
		{"abababab", 2, "abab"},
		{"xabababy", 2, "xababy"},
		{"abcabcabcabc", 3, "abcabc"},
		{"abcab", 3, "abcab"},
		{"", 2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, string(collapseRepeatedUnits([]rune(tt.input), tt.size)))
		})
	}
}

func TestNormalizeConcurrent(t *testing.T) {
	t.Parallel()

	n := newFixture(t)
	input := "안됔ㅋㅋㅋㅋ 소린가 하겟다"
	want := n.Normalize(input)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := n.Normalize(input); got != want {
				t.Errorf("concurrent Normalize: got %q, want %q", got, want)
			}
		}()
	}
	wg.Wait()
}

func TestNormalizeDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "하겠다", Normalize("하겟다"))
	assert.Equal(t, "ㅋㅋㅋ", Normalize("ㅋㅋㅋㅋㅋ"))
}

func FuzzNormalize(f *testing.F) {
	f.Add("안됔ㅋㅋㅋㅋ")
	f.Add("소린가")
	f.Add("")
	f.Add("   ")
	f.Add("\xff\xfe")
	f.Add("훌쩍훌쩍훌쩍 hello")

	n := newFixture(f)
	f.Fuzz(func(t *testing.T, s string) {
		got := n.Normalize(s)
		if !utf8.ValidString(got) {
			t.Errorf("invalid UTF-8 output for %q: %q", s, got)
		}
		if strings.Contains(got, "  ") {
			t.Errorf("whitespace run left in %q", got)
		}
	})
}
