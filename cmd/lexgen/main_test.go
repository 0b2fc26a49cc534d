package main

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/az-ai-labs/ko-lang-nlp/pos"
)

func TestReadLines(t *testing.T) {
	t.Parallel()

	// The first 사랑 is written with conjoining jamo.
	input := "# nouns\n소리\n\u1109\u1161\u1105\u1161\u11bc\n사랑\n  바보  \n\n하\t하다\n하\t하기\n"
	got, err := readLines(strings.NewReader(input))
	require.NoError(t, err)

	want := []entry{{Key: "바보"}, {Key: "사랑"}, {Key: "소리"}, {Key: "하", Value: "하다"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("readLines mismatch (-want +got):\n%s", diff)
	}
}

func TestReadKaikki(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		`{"word":"먹다","pos":"verb"}`,
		`{"word":"사랑","pos":"noun"}`,
		`{"word":"가다","pos":"verb"}`,
		`{"word":"먹다","pos":"verb"}`,
		`{"word":"run","pos":"verb"}`,
		`{"word":"다","pos":"verb"}`,
		`not json`,
	}, "\n")

	tests := []struct {
		tag  pos.Tag
		want []entry
	}{
		{pos.Verb, []entry{{Key: "가", Value: "가다"}, {Key: "먹", Value: "먹다"}}},
		{pos.Noun, []entry{{Key: "사랑"}}},
		{pos.Adverb, []entry{}},
	}
	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			t.Parallel()
			got, err := readKaikki(strings.NewReader(input), tt.tag)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("readKaikki(%s) mismatch (-want +got):\n%s", tt.tag, diff)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, write(&buf, []entry{{Key: "사랑"}, {Key: "하", Value: "하다"}}))
	require.Equal(t, "사랑\n하\t하다\n", buf.String())
}

func TestConjugate(t *testing.T) {
	t.Parallel()

	got := conjugate([]entry{{Key: "가", Value: "가다"}, {Key: "예쁘다"}}, false)
	require.True(t, slices.IsSortedFunc(got, func(a, b entry) int { return strings.Compare(a.Key, b.Key) }))
	require.Contains(t, got, entry{Key: "갔", Value: "가다"})
	require.Contains(t, got, entry{Key: "예뻐", Value: "예쁘다"})
	require.Contains(t, got, entry{Key: "예쁘", Value: "예쁘다"})
	require.NotContains(t, got, entry{Key: "예쁘다", Value: "예쁘다다"})
}
