//go:build ignore

// buildfreq generates data/lexicon/freq.txt, the noun frequency table used
// by the candidate scorer. Run from the project root with one or more
// plain-text corpus files:
//
//	go run scripts/buildfreq.go corpus/news.txt corpus/wiki.txt
//
// Output format: "word<TAB>frequency" per line, sorted descending by
// frequency. Frequencies are counts scaled into (0, 1] by the most frequent
// noun and written with four decimals, since dict.ParseFrequency reads only
// the first six characters. Nouns seen fewer than minCount times are dropped.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/az-ai-labs/ko-lang-nlp/pos"
	"github.com/az-ai-labs/ko-lang-nlp/tokenizer"
)

const (
	outputPath     = "data/lexicon/freq.txt"
	minCount       = 5
	scannerBufSize = 4 * 1024 * 1024 // 4 MB, handles very long lines
)

type freqEntry struct {
	word  string
	count int
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("[buildfreq] ")

	if len(os.Args) < 2 {
		log.Fatalf("usage: go run scripts/buildfreq.go <corpus.txt>...")
	}

	tok, err := tokenizer.Default()
	if err != nil {
		log.Fatalf("cannot build tokenizer: %v", err)
	}

	counts := make(map[string]int)
	for _, path := range os.Args[1:] {
		n, err := processCorpus(tok, path, counts)
		if err != nil {
			log.Printf("warning: skipping corpus %q: %v", path, err)
			continue
		}
		log.Printf("processed %d lines from %s", n, path)
	}

	var entries []freqEntry
	top := 0
	for word, c := range counts {
		if c < minCount {
			continue
		}
		entries = append(entries, freqEntry{word, c})
		top = max(top, c)
	}

	// Sort descending by count, then by word for stability.
	slices.SortFunc(entries, func(a, b freqEntry) int {
		if a.count != b.count {
			return b.count - a.count
		}
		return strings.Compare(a.word, b.word)
	})

	if err := writeOutput(outputPath, entries, top); err != nil {
		log.Fatalf("cannot write output: %v", err)
	}
	log.Printf("wrote %d entries to %s", len(entries), outputPath)
}

// processCorpus tokenizes path line by line and counts known nouns.
// Returns the number of lines processed.
func processCorpus(tok *tokenizer.Tokenizer, path string, counts map[string]int) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, scannerBufSize), scannerBufSize)

	lines := 0
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		for _, t := range tok.Tokenize(line, nil) {
			if t.Unknown || !pos.Nouns.Has(t.Pos) {
				continue
			}
			counts[t.Text]++
		}
		lines++
		if lines%100_000 == 0 {
			fmt.Fprintf(os.Stderr, "[buildfreq] %s: %d lines processed\n", path, lines)
		}
	}
	return lines, sc.Err()
}

// writeOutput writes sorted frequency entries to path.
func writeOutput(path string, entries []freqEntry, top int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriterSize(f, 4*1024*1024)
	for _, e := range entries {
		fmt.Fprintf(bw, "%s\t%.4f\n", e.word, float64(e.count)/float64(top))
	}
	return bw.Flush()
}
