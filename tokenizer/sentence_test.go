package tokenizer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestSentences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Sentence
	}{
		{
			name:  "three terminals",
			input: "가자! 가자? 좋아...",
			want: []Sentence{
				{Text: "가자!", Start: 0, End: 3},
				{Text: "가자?", Start: 4, End: 7},
				{Text: "좋아...", Start: 8, End: 13},
			},
		},
		{
			name:  "decimal point stays inside",
			input: "원주율은 3.14다. 맞아",
			want: []Sentence{
				{Text: "원주율은 3.14다.", Start: 0, End: 11},
				{Text: "맞아", Start: 12, End: 14},
			},
		},
		{
			name:  "closing quote",
			input: "\"좋아!\" 그가 말했다.",
			want: []Sentence{
				{Text: "\"좋아!\"", Start: 0, End: 5},
				{Text: "그가 말했다.", Start: 6, End: 13},
			},
		},
		{
			name:  "leading punctuation skipped",
			input: "...안녕",
			want:  []Sentence{{Text: "안녕", Start: 3, End: 5}},
		},
		{
			name:  "embedded ellipsis",
			input: "ㅋㅋ...ㅋㅋ",
			want:  []Sentence{{Text: "ㅋㅋ...ㅋㅋ", Start: 0, End: 7}},
		},
		{
			name:  "newlines without terminal",
			input: "안녕\n\n잘가",
			want:  []Sentence{{Text: "안녕\n\n잘가", Start: 0, End: 6}},
		},
		{
			name:  "unicode ellipsis",
			input: "글쎄… 몰라",
			want: []Sentence{
				{Text: "글쎄…", Start: 0, End: 3},
				{Text: "몰라", Start: 4, End: 6},
			},
		},
		{name: "empty", input: "", want: nil},
		{name: "whitespace only", input: " \n\t", want: nil},
		{name: "punctuation only", input: "?!.", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Sentences(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Sentences(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
			rs := []rune(tt.input)
			for _, s := range got {
				assert.Equal(t, s.Text, string(rs[s.Start:s.End]))
			}
		})
	}
}

func TestSentenceIteratorSingleUse(t *testing.T) {
	t.Parallel()

	it := SplitSentences("하나. 둘.")
	var got []string
	for s := range it.All() {
		got = append(got, s.Text)
	}
	assert.Equal(t, []string{"하나.", "둘."}, got)
	assert.False(t, it.Next())

	it = SplitSentences("하나. 둘.")
	assert.True(t, it.Next())
	assert.Equal(t, "하나.", it.Sentence().Text)
	for range it.All() {
		break
	}
	assert.False(t, it.Next(), "iteration resumes after an early break")
}

func FuzzSentences(f *testing.F) {
	f.Add("가자! 가자? 좋아...")
	f.Add("\"좋아!\" 그가 말했다.")
	f.Add("")

	f.Fuzz(func(t *testing.T, s string) {
		rs := []rune(s)
		prevEnd := 0
		for _, sent := range Sentences(s) {
			if sent.Start < prevEnd || sent.End <= sent.Start || sent.End > len(rs) {
				t.Fatalf("bad span %+v after %d in %q", sent, prevEnd, s)
			}
			if string(rs[sent.Start:sent.End]) != sent.Text {
				t.Fatalf("span text mismatch %+v in %q", sent, s)
			}
			prevEnd = sent.End
		}
	})
}
