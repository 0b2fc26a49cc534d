package tokenizer

import (
	"iter"
	"unicode"
)

// Sentence is a span of the input with rune offsets [Start, End).
type Sentence struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

func (s Sentence) String() string {
	return s.Text
}

func isTerminal(r rune) bool {
	switch r {
	case '.', '!', '?', '…':
		return true
	}
	return false
}

func isClosingQuote(r rune) bool {
	switch r {
	case '\'', '"', '”', '’':
		return true
	}
	return false
}

// SentenceIterator yields sentences of one text in order. It is single
// use and not safe for concurrent use.
type SentenceIterator struct {
	rs  []rune
	pos int
	cur Sentence
}

// SplitSentences returns an iterator over the sentences of text.
//
// A sentence starts at a rune that is neither whitespace nor terminal
// punctuation (. ! ? …) and runs until terminal punctuation, optionally
// followed by a closing quote, that is itself followed by whitespace or
// the end of input. Terminal punctuation elsewhere stays inside the
// sentence, so "3.14" and "ㅋㅋ..." do not split. Whitespace between
// sentences is not part of any sentence.
func SplitSentences(text string) *SentenceIterator {
	return &SentenceIterator{rs: []rune(text)}
}

// Next advances to the next sentence and reports whether there is one.
func (it *SentenceIterator) Next() bool {
	rs, n := it.rs, len(it.rs)

	i := it.pos
	for i < n && (isTerminal(rs[i]) || unicode.IsSpace(rs[i])) {
		i++
	}
	if i >= n {
		it.pos = n
		return false
	}

	start, end := i, n
	for j := i + 1; j < n; j++ {
		if !isTerminal(rs[j]) {
			continue
		}
		k := j + 1
		if k < n && isClosingQuote(rs[k]) {
			k++
		}
		if k < n && unicode.IsSpace(rs[k]) {
			end = k
			break
		}
	}

	it.cur = Sentence{Text: string(rs[start:end]), Start: start, End: end}
	it.pos = end
	return true
}

// Sentence returns the sentence found by the last successful Next.
func (it *SentenceIterator) Sentence() Sentence {
	return it.cur
}

// All returns the remaining sentences as a sequence. Like the iterator
// itself, the sequence can be ranged over once.
func (it *SentenceIterator) All() iter.Seq[Sentence] {
	return func(yield func(Sentence) bool) {
		for it.Next() {
			if !yield(it.cur) {
				return
			}
		}
	}
}

// Sentences returns all sentences of text.
func Sentences(text string) []Sentence {
	var out []Sentence
	for s := range SplitSentences(text).All() {
		out = append(out, s)
	}
	return out
}
