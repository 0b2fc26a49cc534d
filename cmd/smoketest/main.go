package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/az-ai-labs/ko-lang-nlp/chunker"
	"github.com/az-ai-labs/ko-lang-nlp/pos"
	"github.com/az-ai-labs/ko-lang-nlp/token"
	"github.com/az-ai-labs/ko-lang-nlp/tokenizer"
)

const (
	chunkSize      = 1 << 20 // 1 MB per read chunk
	maxWorkers     = 4
	expectedArgs   = 2
	bytesToMBShift = 20
)

type fileRatio struct {
	path       string
	sentences  int
	paragraphs int
	ratio      float64
}

// Stats aggregates the per-file results.
type Stats struct {
	mu              sync.Mutex
	filesScanned    int
	totalBytes      int64
	chunkOK         int
	chunkFail       int
	tokenOK         int
	tokenFail       int
	unknownTokens   int
	sentenceOutlier int
	posCounts       map[pos.Tag]int
	fileRatios      []fileRatio
}

type fileState struct {
	path          string
	posCounts     map[pos.Tag]int
	unknownTokens int
	totalBytes    int64
	chunkFailed   bool
	tokenFailed   bool
	sentences     int
	paragraphs    int
}

func main() {
	if len(os.Args) != expectedArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s <directory>\n", os.Args[0])
		os.Exit(1)
	}

	tok, err := tokenizer.Default()
	if err != nil {
		fmt.Fprintf(os.Stderr, "smoketest: %v\n", err)
		os.Exit(1)
	}

	dirPath := os.Args[1]
	stats := &Stats{posCounts: make(map[pos.Tag]int)}

	var filePaths []string
	err = filepath.WalkDir(dirPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".txt") {
			return nil
		}
		filePaths = append(filePaths, path)
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error walking directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Found %d files to process\n", len(filePaths))
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(maxWorkers)
	for _, path := range filePaths {
		g.Go(func() error {
			state, err := processFile(tok, path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
				return nil
			}
			stats.merge(state)
			return nil
		})
	}
	_ = g.Wait()

	flagSentenceOutliers(stats)

	fmt.Fprintf(os.Stderr, "\nCompleted in %s\n\n", time.Since(start).Round(time.Millisecond))
	printStats(stats)
	if stats.chunkFail > 0 || stats.tokenFail > 0 {
		os.Exit(1)
	}
}

func processFile(tok *tokenizer.Tokenizer, path string) (*fileState, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(os.Stderr, "START %s (%d MB)\n", path, info.Size()>>bytesToMBShift)
	fileStart := time.Now()

	state := &fileState{path: path, posCounts: make(map[pos.Tag]int)}

	buf := make([]byte, chunkSize)
	var leftover []byte
	for {
		n, err := f.Read(buf)
		if n > 0 {
			leftover = append(leftover, buf[:n]...)
			chunk := leftover

			if err == nil {
				idx := bytes.LastIndexByte(chunk, '\n')
				if idx <= 0 {
					leftover = chunk
					continue
				}
				leftover = slices.Clone(chunk[idx+1:])
				chunk = chunk[:idx+1]
			} else {
				leftover = nil
			}
			state.processChunk(tok, chunk)
		}
		if err != nil {
			break
		}
	}
	if len(leftover) > 0 {
		state.processChunk(tok, leftover)
	}
	state.paragraphs++

	fmt.Fprintf(os.Stderr, "DONE  %s in %s (%d MB processed)\n",
		filepath.Base(path), time.Since(fileStart).Round(time.Millisecond), state.totalBytes>>bytesToMBShift)
	return state, nil
}

func (fs *fileState) processChunk(tok *tokenizer.Tokenizer, raw []byte) {
	fs.totalBytes += int64(len(raw))
	text := strings.ToValidUTF8(string(raw), string(utf8.RuneError))

	if !fs.chunkFailed {
		if off, ok := checkChunks(text, chunker.Chunk(text)); !ok {
			fs.chunkFailed = true
			fmt.Fprintf(os.Stderr, "CHUNK_FAIL: %s: chunks stop covering the input at rune %d\n", fs.path, off)
		}
	}

	tokens := tok.Tokenize(text, nil)
	for _, t := range tokens {
		fs.posCounts[t.Pos]++
		if t.Unknown {
			fs.unknownTokens++
		}
	}
	if !fs.tokenFailed {
		if off, ok := checkTokens(text, tokens); !ok {
			fs.tokenFailed = true
			fmt.Fprintf(os.Stderr, "TOKEN_FAIL: %s: token offsets break at rune %d\n", fs.path, off)
		}
	}

	fs.sentences += len(tokenizer.Sentences(text))
	fs.paragraphs += strings.Count(text, "\n\n")
}

// checkChunks verifies that chunks are contiguous, ordered and cover text.
// It returns the first rune offset where that fails.
func checkChunks(text string, chunks []chunker.ChunkMatch) (int, bool) {
	rs := []rune(text)
	next := 0
	for _, c := range chunks {
		if c.Start != next || c.End <= c.Start || c.End > len(rs) || string(rs[c.Start:c.End]) != c.Text {
			return next, false
		}
		next = c.End
	}
	return next, next == len(rs)
}

// checkTokens verifies that every token's text sits at its offset and
// that tokens are ordered without overlap.
func checkTokens(text string, tokens []token.Token) (int, bool) {
	rs := []rune(text)
	prevEnd := 0
	for _, t := range tokens {
		if t.Offset < prevEnd || t.Length <= 0 || t.End() > len(rs) || string(rs[t.Offset:t.End()]) != t.Text {
			return prevEnd, false
		}
		prevEnd = t.End()
	}
	return prevEnd, true
}

func (s *Stats) merge(fs *fileState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filesScanned++
	s.totalBytes += fs.totalBytes
	s.unknownTokens += fs.unknownTokens

	if fs.chunkFailed {
		s.chunkFail++
	} else {
		s.chunkOK++
	}
	if fs.tokenFailed {
		s.tokenFail++
	} else {
		s.tokenOK++
	}

	for tag, count := range fs.posCounts {
		s.posCounts[tag] += count
	}

	s.fileRatios = append(s.fileRatios, fileRatio{
		path:       fs.path,
		sentences:  fs.sentences,
		paragraphs: fs.paragraphs,
		ratio:      float64(fs.sentences) / float64(fs.paragraphs),
	})
}

// flagSentenceOutliers computes the median sentence/paragraph ratio across all
// files and flags any file whose ratio exceeds 3x the median.
func flagSentenceOutliers(stats *Stats) {
	if len(stats.fileRatios) == 0 {
		return
	}

	ratios := make([]float64, len(stats.fileRatios))
	for i, fr := range stats.fileRatios {
		ratios[i] = fr.ratio
	}
	med := computeMedian(ratios)

	for _, fr := range stats.fileRatios {
		if med > 0 && fr.ratio > 3*med {
			stats.sentenceOutlier++
			fmt.Fprintf(os.Stderr, "SENTENCE_OUTLIER: %s: %d sentences / %d paragraphs (ratio %.2f, median %.2f)\n",
				fr.path, fr.sentences, fr.paragraphs, fr.ratio, med)
		}
	}
}

func computeMedian(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2 //nolint:mnd // arithmetic mean of two middle values
	}
	return sorted[mid]
}

func printStats(stats *Stats) {
	fmt.Printf("Files scanned:           %d\n", stats.filesScanned)
	fmt.Printf("Total bytes:             %d\n", stats.totalBytes)
	fmt.Printf("Chunk coverage OK:       %d\n", stats.chunkOK)
	fmt.Printf("Chunk coverage FAIL:     %d\n", stats.chunkFail)
	fmt.Printf("Token offsets OK:        %d\n", stats.tokenOK)
	fmt.Printf("Token offsets FAIL:      %d\n", stats.tokenFail)
	fmt.Printf("Unknown tokens:          %d\n", stats.unknownTokens)
	fmt.Printf("Sentence outliers:       %d\n", stats.sentenceOutlier)
	fmt.Println()

	total := 0
	tags := make([]pos.Tag, 0, len(stats.posCounts))
	for tag, count := range stats.posCounts {
		total += count
		tags = append(tags, tag)
	}
	slices.Sort(tags)

	fmt.Println("POS distribution:")
	for _, tag := range tags {
		count := stats.posCounts[tag]
		fmt.Printf("  %-15s %d  (%.1f%%)\n", tag.String()+":", count, float64(count)/float64(total)*100)
	}
}
