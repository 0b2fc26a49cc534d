// Package dict holds the read-only lexical resources consumed by the
// tokenizer: the POS dictionary, the noun frequency table, predicate stems,
// the name dictionaries and the typo table.
//
// Every type is immutable after construction and safe for concurrent use.
// Methods that "add" words return a new value and leave the receiver as is.
package dict

import (
	"slices"

	"github.com/az-ai-labs/ko-lang-nlp/pos"
)

type wordSet map[string]struct{}

func newWordSet(words []string) wordSet {
	s := make(wordSet, len(words))
	for _, w := range words {
		if w != "" {
			s[w] = struct{}{}
		}
	}
	return s
}

func (s wordSet) has(w string) bool {
	_, ok := s[w]
	return ok
}

// Dictionary maps POS tags to sets of known surface forms.
type Dictionary struct {
	sets map[pos.Tag]wordSet
}

// New builds a dictionary from per-tag word lists. Empty words are ignored.
func New(entries map[pos.Tag][]string) *Dictionary {
	d := &Dictionary{sets: make(map[pos.Tag]wordSet, len(entries))}
	for tag, words := range entries {
		d.sets[tag] = newWordSet(words)
	}
	return d
}

// Contains reports whether word is a known surface form for tag.
func (d *Dictionary) Contains(tag pos.Tag, word string) bool {
	if d == nil {
		return false
	}
	s, ok := d.sets[tag]
	return ok && s.has(word)
}

// Lookup returns the first tag, in ordinal order, whose word set contains
// word verbatim.
func (d *Dictionary) Lookup(word string) (pos.Tag, bool) {
	for _, tag := range d.Tags() {
		if d.sets[tag].has(word) {
			return tag, true
		}
	}
	return 0, false
}

// Tags returns the tags that have a word set, in ordinal order.
func (d *Dictionary) Tags() []pos.Tag {
	if d == nil {
		return nil
	}
	tags := make([]pos.Tag, 0, len(d.sets))
	for tag := range d.sets {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// Len returns the number of words known for tag.
func (d *Dictionary) Len(tag pos.Tag) int {
	if d == nil {
		return 0
	}
	return len(d.sets[tag])
}

// WithWords returns a copy of d with words added under tag.
// Only the set for tag is copied; other sets are shared.
func (d *Dictionary) WithWords(tag pos.Tag, words ...string) *Dictionary {
	if d == nil {
		d = &Dictionary{}
	}
	out := &Dictionary{sets: make(map[pos.Tag]wordSet, len(d.sets)+1)}
	for t, s := range d.sets {
		out.sets[t] = s
	}
	merged := make(wordSet, len(d.sets[tag])+len(words))
	for w := range d.sets[tag] {
		merged[w] = struct{}{}
	}
	for _, w := range words {
		if w != "" {
			merged[w] = struct{}{}
		}
	}
	out.sets[tag] = merged
	return out
}

// WithNouns is WithWords(pos.Noun, words...).
func (d *Dictionary) WithNouns(words ...string) *Dictionary {
	return d.WithWords(pos.Noun, words...)
}

// Frequency maps nouns to a relative frequency in [0, 1].
type Frequency map[string]float64

// Get returns the frequency of word, or 0 if unknown.
func (f Frequency) Get(word string) float64 {
	return f[word]
}

// Stems maps a predicate tag and a conjugated surface form to its lemma,
// e.g. Stems[pos.Verb]["했"] == "하다".
type Stems map[pos.Tag]map[string]string

// Lookup returns the lemma of a conjugated predicate form.
func (s Stems) Lookup(tag pos.Tag, surface string) (string, bool) {
	m, ok := s[tag]
	if !ok {
		return "", false
	}
	lemma, ok := m[surface]
	return lemma, ok
}

// Names holds the person-name dictionaries.
type Names struct {
	full   wordSet
	given  wordSet
	family wordSet
}

// NewNames builds name dictionaries from word lists.
func NewNames(full, given, family []string) *Names {
	return &Names{full: newWordSet(full), given: newWordSet(given), family: newWordSet(family)}
}

// Full reports whether s is a known full name.
func (n *Names) Full(s string) bool { return n != nil && n.full.has(s) }

// Given reports whether s is a known given name.
func (n *Names) Given(s string) bool { return n != nil && n.given.has(s) }

// Family reports whether s is a known family name.
func (n *Names) Family(s string) bool { return n != nil && n.family.has(s) }
