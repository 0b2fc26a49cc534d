package tokenizer

import (
	"encoding/json"
	"flag"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/az-ai-labs/ko-lang-nlp/token"
)

var updateGolden = flag.Bool("update", false, "regenerate golden test files")

// goldenCase is one Default tokenizer case. Sentences are compared as
// strings only.
type goldenCase struct {
	Name      string        `json:"name"`
	Input     string        `json:"input"`
	Tokens    []token.Token `json:"tokens"`
	Sentences []string      `json:"sentences"`
}

const goldenPath = "../data/golden/tokenizer.json"

func sentenceTexts(ss []Sentence) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.Text
	}
	return out
}

func TestGolden(t *testing.T) {
	if *updateGolden {
		updateGoldenFile(t)
		return
	}

	data, err := os.ReadFile(goldenPath)
	if err != nil {
		if os.IsNotExist(err) {
			t.Skip("tokenizer.json not found, run with -update to generate")
		}
		t.Fatalf("reading golden file: %v", err)
	}

	var cases []goldenCase
	if err := json.Unmarshal(data, &cases); err != nil {
		t.Fatalf("parsing golden file: %v", err)
	}

	tk := defaultForTest(t)
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()

			got := tk.Tokenize(tc.Input, nil)
			verifyOffsets(t, tc.Input, got)
			if diff := cmp.Diff(tc.Tokens, got); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tc.Input, diff)
			}
			if diff := cmp.Diff(tc.Sentences, sentenceTexts(Sentences(tc.Input))); diff != "" {
				t.Errorf("Sentences(%q) mismatch (-want +got):\n%s", tc.Input, diff)
			}
		})
	}
}

func updateGoldenFile(t *testing.T) {
	t.Helper()

	data, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("reading golden file for update: %v", err)
	}

	var cases []goldenCase
	if err := json.Unmarshal(data, &cases); err != nil {
		t.Fatalf("parsing golden file for update: %v", err)
	}

	tk := defaultForTest(t)
	for i := range cases {
		cases[i].Tokens = tk.Tokenize(cases[i].Input, nil)
		cases[i].Sentences = sentenceTexts(Sentences(cases[i].Input))
	}

	out, err := json.MarshalIndent(cases, "", "  ")
	if err != nil {
		t.Fatalf("marshaling golden file: %v", err)
	}
	if err := os.WriteFile(goldenPath, append(out, '\n'), 0o600); err != nil {
		t.Fatalf("writing golden file: %v", err)
	}
	t.Logf("updated %d golden cases", len(cases))
}
