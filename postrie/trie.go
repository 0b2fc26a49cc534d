// Package postrie compiles POS sequence definitions into a trie of legal
// part-of-speech transitions inside one word class.
//
// A sequence definition is a string of (code, cardinality) pairs, e.g.
// "D0m*N1s0j0": an optional Determiner, any number of Modifiers, one Noun,
// an optional Suffix and an optional Josa. Codes are the single letters of
// pos.FromCode. Cardinalities are:
//
//	1  required once
//	0  optional once
//	+  required, repeatable
//	*  optional, repeatable
//
// Nodes live in a flat arena and refer to each other by index. A repeatable
// node lists its own index among its successors, so the trie never holds a
// pointer cycle. A Trie is immutable after Build and safe for concurrent use.
package postrie

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/az-ai-labs/ko-lang-nlp/pos"
)

// Logger receives trie construction events. Disabled by default.
var Logger = zerolog.Nop()

// ErrMalformedGrammar is returned by Build for an unknown POS code, an
// unknown cardinality symbol or a truncated pair.
var ErrMalformedGrammar = errors.New("postrie: malformed grammar")

// selfRef marks a "stay on this node" transition in Node.next before
// resolution.
const selfRef = -1

// Cardinality is the repetition rule of a trie node.
type Cardinality byte

const (
	RequiredOnce   Cardinality = '1'
	OptionalOnce   Cardinality = '0'
	RequiredRepeat Cardinality = '+'
	OptionalRepeat Cardinality = '*'
)

// Repeatable reports whether the node may be visited again.
func (c Cardinality) Repeatable() bool {
	return c == RequiredRepeat || c == OptionalRepeat
}

// Optional reports whether the node may be skipped.
func (c Cardinality) Optional() bool {
	return c == OptionalOnce || c == OptionalRepeat
}

func (c Cardinality) valid() bool {
	switch c {
	case RequiredOnce, OptionalOnce, RequiredRepeat, OptionalRepeat:
		return true
	}
	return false
}

// Definition binds a sequence pattern to the POS tag of the word class it
// describes.
type Definition struct {
	Pattern string
	Tag     pos.Tag
}

// DefaultGrammar is the word-class grammar used by the tokenizer.
//
//	Substantive  D0m*N1s0j0  초거대기업의
//	Predicate    v*V1r*e0    쳐먹었었다, 추첨하다
//	             v*J1r*e0    초기뻤었고
//	Adverb       A1
//	Conjunction  C1
//	Exclamation  E+          ㅋㅋㅋ, 어머나
//	Josa         j1
var DefaultGrammar = []Definition{
	{"D0m*N1s0j0", pos.Noun},
	{"v*V1r*e0", pos.Verb},
	{"v*J1r*e0", pos.Adjective},
	{"A1", pos.Adverb},
	{"C1", pos.Conjunction},
	{"E+", pos.Exclamation},
	{"j1", pos.Josa},
}

// NounGrammar restricts parsing to substantives and conjunctions. A
// tokenizer built on it reads every predicate or particle as part of a
// noun.
var NounGrammar = []Definition{
	{"D0m*N1s0", pos.Noun},
	{"C1", pos.Conjunction},
}

// Node is one state of the trie.
type Node struct {
	Pos         pos.Tag
	Cardinality Cardinality

	// Ending is the word-class tag completed by stopping on this node.
	// Valid only when HasEnding is true.
	Ending    pos.Tag
	HasEnding bool

	next []int // arena indices; selfRef for a repeat transition
	succ []int // next with selfRef resolved to the node's own index
}

// Trie is a compiled set of sequence definitions.
type Trie struct {
	nodes []Node
	root  []int
}

// Root returns the entry nodes of every definition, in definition order.
// The returned slice must not be modified.
func (t *Trie) Root() []int {
	return t.root
}

// Node returns the node at index i.
func (t *Trie) Node(i int) *Node {
	return &t.nodes[i]
}

// Len returns the number of nodes in the arena.
func (t *Trie) Len() int {
	return len(t.nodes)
}

// Successors returns the nodes reachable after consuming node i. For a
// repeatable node its own index comes first. The returned slice must not
// be modified.
func (t *Trie) Successors(i int) []int {
	return t.nodes[i].succ
}

type memoKey struct {
	rest   string
	ending pos.Tag
}

type builder struct {
	nodes []Node
	memo  map[memoKey][]int
}

// Build compiles defs into a trie. Definitions are processed in order, so
// the root lists entry nodes deterministically.
func Build(defs []Definition) (*Trie, error) {
	b := &builder{memo: make(map[memoKey][]int)}
	var root []int
	for _, d := range defs {
		if d.Pattern == "" {
			return nil, fmt.Errorf("%w: empty pattern for %s", ErrMalformedGrammar, d.Tag)
		}
		entry, err := b.build(d.Pattern, d.Pattern, d.Tag)
		if err != nil {
			return nil, err
		}
		root = append(root, entry...)
	}

	for i := range b.nodes {
		n := &b.nodes[i]
		n.succ = make([]int, len(n.next))
		for j, k := range n.next {
			if k == selfRef {
				k = i
			}
			n.succ[j] = k
		}
	}

	Logger.Debug().Int("definitions", len(defs)).Int("nodes", len(b.nodes)).Msg("pos trie built")
	return &Trie{nodes: b.nodes, root: root}, nil
}

// MustBuild is like Build but panics on error. Intended for package-level
// grammars known to be valid.
func MustBuild(defs []Definition) *Trie {
	t, err := Build(defs)
	if err != nil {
		panic(err)
	}
	return t
}

// build returns the entry nodes for the pattern suffix s.
func (b *builder) build(pattern, s string, ending pos.Tag) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	key := memoKey{s, ending}
	if entry, ok := b.memo[key]; ok {
		return entry, nil
	}
	if len(s) < 2 {
		return nil, fmt.Errorf("%w: %q: dangling code %q", ErrMalformedGrammar, pattern, s)
	}

	tag, ok := pos.FromCode(s[0])
	if !ok {
		return nil, fmt.Errorf("%w: %q: unknown pos code %q", ErrMalformedGrammar, pattern, s[0])
	}
	card := Cardinality(s[1])
	if !card.valid() {
		return nil, fmt.Errorf("%w: %q: unknown cardinality %q", ErrMalformedGrammar, pattern, s[1])
	}
	rest := s[2:]

	tail, err := b.build(pattern, rest, ending)
	if err != nil {
		return nil, err
	}

	n := Node{Pos: tag, Cardinality: card}
	// Stopping here completes the word class when nothing required follows.
	if !strings.ContainsAny(rest, "+1") {
		n.Ending = ending
		n.HasEnding = true
	}
	if card.Repeatable() {
		n.next = append([]int{selfRef}, tail...)
	} else {
		n.next = tail
	}

	b.nodes = append(b.nodes, n)
	entry := []int{len(b.nodes) - 1}
	if card.Optional() {
		entry = append(entry, tail...)
	}
	b.memo[key] = entry
	return entry, nil
}
