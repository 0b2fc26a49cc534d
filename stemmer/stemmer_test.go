package stemmer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/az-ai-labs/ko-lang-nlp/dict"
	"github.com/az-ai-labs/ko-lang-nlp/pos"
	"github.com/az-ai-labs/ko-lang-nlp/token"
)

func tok(text string, tag pos.Tag, offset int) token.Token {
	return token.New(text, tag, offset)
}

func TestStem(t *testing.T) {
	t.Parallel()

	s := New(dict.Stems{
		pos.Verb:      {"해": "하다", "했": "하다"},
		pos.Adjective: {"좋": "좋다"},
	})

	tests := []struct {
		name  string
		input []token.Token
		want  []token.Token
	}{
		{
			name:  "no predicate",
			input: []token.Token{tok("사랑", pos.Noun, 0), tok("을", pos.Josa, 2)},
			want:  []token.Token{tok("사랑", pos.Noun, 0), tok("을", pos.Josa, 2)},
		},
		{
			name:  "eomi folded into verb",
			input: []token.Token{tok("사랑", pos.Noun, 0), tok("해", pos.Verb, 2), tok("요", pos.Eomi, 3)},
			want: []token.Token{
				tok("사랑", pos.Noun, 0),
				{Text: "해요", Pos: pos.Verb, Offset: 2, Length: 2, Stem: "하다"},
			},
		},
		{
			name: "pre-eomi and eomi",
			input: []token.Token{
				tok("좋", pos.Adjective, 0), tok("았", pos.PreEomi, 1), tok("다", pos.Eomi, 2),
			},
			want: []token.Token{{Text: "좋았다", Pos: pos.Adjective, Offset: 0, Length: 3, Stem: "좋다"}},
		},
		{
			name:  "ending after noun stays",
			input: []token.Token{tok("했", pos.Verb, 0), tok("사랑", pos.Noun, 1), tok("요", pos.Eomi, 3)},
			want: []token.Token{
				{Text: "했", Pos: pos.Verb, Offset: 0, Length: 1, Stem: "하다"},
				tok("사랑", pos.Noun, 1),
				tok("요", pos.Eomi, 3),
			},
		},
		{
			name:  "unknown conjugation keeps empty stem",
			input: []token.Token{tok("먹", pos.Verb, 0), tok("어", pos.Eomi, 1)},
			want:  []token.Token{{Text: "먹어", Pos: pos.Verb, Offset: 0, Length: 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := s.Stem(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Stem mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStemDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	s := New(dict.Stems{pos.Verb: {"해": "하다"}})
	input := []token.Token{tok("해", pos.Verb, 0), tok("요", pos.Eomi, 1)}
	_ = s.Stem(input)
	if input[0].Text != "해" || input[0].Stem != "" {
		t.Errorf("input mutated: %v", input)
	}
}
