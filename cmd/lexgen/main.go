// Command lexgen builds one lexicon word list for data/lexicon from raw
// input: either a plain list ("word" or "word<TAB>value" per line) or a
// kaikki.org Korean dictionary dump (JSONL format).
//
// Entries are NFC-composed, deduplicated and sorted so that regenerated
// files diff cleanly:
//
//	go run ./cmd/lexgen -input raw_nouns.txt -output data/lexicon/noun.txt
//	go run ./cmd/lexgen -format kaikki -tag Verb \
//	    -input kaikki.org-dictionary-Korean.jsonl -output data/lexicon/verb.txt
//
// For Verb and Adjective the kaikki lemma (먹다) is written as
// "stem<TAB>lemma" (먹<TAB>먹다), the format dict.Load expects for
// predicate files. With -conjugate every stem is expanded into its
// conjugated surfaces instead (먹<TAB>먹다, 먹어<TAB>먹다, 먹었<TAB>먹다, ...),
// so the parser recognises inflected predicates without a stemmer pass:
//
//	go run ./cmd/lexgen -tag Adjective -conjugate \
//	    -input raw_adjectives.txt -output data/lexicon/adjective.txt
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/az-ai-labs/ko-lang-nlp/dict"
	"github.com/az-ai-labs/ko-lang-nlp/internal/hangul"
	"github.com/az-ai-labs/ko-lang-nlp/pos"
)

const (
	scannerBufSize = 1 << 20 // 1 MB
	predicateEnd   = "다"
)

// kaikkiEntry holds only the fields needed from each JSONL line.
type kaikkiEntry struct {
	Word string `json:"word"`
	POS  string `json:"pos"`
}

// entry is one output line. Value is empty for plain word lists.
type entry struct {
	Key, Value string
}

func (e entry) String() string {
	if e.Value == "" {
		return e.Key
	}
	return e.Key + "\t" + e.Value
}

func main() {
	inputPath := flag.String("input", "", "raw word list or kaikki.org JSONL dump")
	outputPath := flag.String("output", "", "output word list (default stdout)")
	format := flag.String("format", "lines", "input format: lines or kaikki")
	tagName := flag.String("tag", "Noun", "POS tag to extract in kaikki format")
	expand := flag.Bool("conjugate", false, "expand Verb or Adjective stems into conjugated forms")
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: lexgen -input <file> [-output <file>] [-format lines|kaikki] [-tag <pos>] [-conjugate]\n")
		os.Exit(1)
	}

	f, err := os.Open(*inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lexgen: open input: %v\n", err)
		os.Exit(1)
	}

	var entries []entry
	tag, err := pos.Parse(*tagName)
	if err == nil {
		switch *format {
		case "lines":
			entries, err = readLines(f)
		case "kaikki":
			entries, err = readKaikki(f, tag)
		default:
			err = fmt.Errorf("unknown format %q", *format)
		}
	}
	if err == nil && *expand {
		if !pos.Predicates.Has(tag) {
			err = fmt.Errorf("-conjugate needs a predicate tag, got %s", tag)
		} else {
			entries = conjugate(entries, tag == pos.Adjective)
		}
	}

	// Close input file explicitly after scanning (no defer, avoids exitAfterDefer).
	if closeErr := f.Close(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "lexgen: close input: %v\n", closeErr)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "lexgen: %v\n", err)
		os.Exit(1)
	}

	out := os.Stdout
	if *outputPath != "" {
		if out, err = os.Create(*outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "lexgen: create output: %v\n", err)
			os.Exit(1)
		}
	}
	if err := write(out, entries); err != nil {
		fmt.Fprintf(os.Stderr, "lexgen: %v\n", err)
		os.Exit(1)
	}
	if out != os.Stdout {
		if err := out.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "lexgen: close output: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Fprintf(os.Stderr, "Total entries: %d\n", len(entries))
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, scannerBufSize), scannerBufSize)
	return scanner
}

// readLines parses a plain word list. Blank lines and lines starting with
// '#' are skipped; the first occurrence of a key wins.
func readLines(r io.Reader) ([]entry, error) {
	seen := make(map[string]entry)
	scanner := newScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(norm.NFC.String(scanner.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, _ := strings.Cut(line, "\t")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if _, dup := seen[key]; !dup {
			seen[key] = entry{Key: key, Value: value}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan error: %w", err)
	}
	return sorted(seen), nil
}

// readKaikki extracts the entries of one tag from a kaikki.org dump.
func readKaikki(r io.Reader, tag pos.Tag) ([]entry, error) {
	seen := make(map[string]entry)
	scanner := newScanner(r)
	for scanner.Scan() {
		var ke kaikkiEntry
		if err := json.Unmarshal(scanner.Bytes(), &ke); err != nil {
			// Skip malformed lines silently; they are rare in kaikki dumps.
			continue
		}
		if t, ok := mapPOS(ke.POS); !ok || t != tag {
			continue
		}

		word := norm.NFC.String(strings.TrimSpace(ke.Word))
		if !isAcceptable(word) {
			continue
		}

		e := entry{Key: word}
		if pos.Predicates.Has(tag) {
			stem, ok := strings.CutSuffix(word, predicateEnd)
			if !ok || stem == "" {
				continue
			}
			e = entry{Key: stem, Value: word}
		}
		if _, dup := seen[e.Key]; !dup {
			seen[e.Key] = e
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan error: %w", err)
	}
	return sorted(seen), nil
}

// conjugate expands predicate entries into "surface<TAB>lemma" lines.
// Keys are stems when a lemma is present and lemmas (or bare stems)
// otherwise.
func conjugate(entries []entry, adjective bool) []entry {
	stems := make([]string, 0, len(entries))
	for _, e := range entries {
		stem := e.Key
		if e.Value == "" {
			if s, ok := strings.CutSuffix(stem, predicateEnd); ok && s != "" {
				stem = s
			}
		}
		stems = append(stems, stem)
	}
	seen := make(map[string]entry)
	for surface, lemma := range dict.ConjugateAll(stems, adjective) {
		seen[surface] = entry{Key: surface, Value: lemma}
	}
	return sorted(seen)
}

func sorted(seen map[string]entry) []entry {
	out := make([]entry, 0, len(seen))
	for _, e := range seen {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b entry) int { return strings.Compare(a.Key, b.Key) })
	return out
}

func write(w io.Writer, entries []entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintln(bw, e); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush error: %w", err)
	}
	return nil
}

// mapPOS maps a kaikki POS name to a tag.
// Returns false if the POS should be skipped entirely.
func mapPOS(name string) (pos.Tag, bool) {
	switch name {
	case "noun", "num", "pron":
		return pos.Noun, true
	case "name":
		return pos.ProperNoun, true
	case "verb":
		return pos.Verb, true
	case "adj":
		return pos.Adjective, true
	case "adv":
		return pos.Adverb, true
	case "det":
		return pos.Determiner, true
	case "intj":
		return pos.Exclamation, true
	case "particle", "postp":
		return pos.Josa, true
	case "conj":
		return pos.Conjunction, true
	case "suffix":
		return pos.Suffix, true
	default:
		return 0, false
	}
}

// isAcceptable reports whether word consists of Hangul syllables only.
func isAcceptable(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !hangul.IsSyllable(r) {
			return false
		}
	}
	return true
}
