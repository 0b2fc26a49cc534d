package tokenizer

import (
	"cmp"
	"slices"
	"unicode/utf8"

	"github.com/az-ai-labs/ko-lang-nlp/pos"
	"github.com/az-ai-labs/ko-lang-nlp/token"
)

const (
	// beamWidth is the number of candidates kept per chunk position.
	beamWidth = 5

	// maxTraceBack is the longest token, in runes, the parser considers.
	maxTraceBack = 8

	// ringSize covers every position the parser can still read from.
	ringSize = maxTraceBack + 1
)

// candidate is a partial parse ending at some chunk position.
type candidate struct {
	parse *ParsedChunk

	// frontier lists the trie nodes allowed for the next token without
	// starting a new word.
	frontier []int

	// hasEnding is set when the last consumed node may close a word, in
	// which case the next token may also start a new word from the root.
	hasEnding bool
}

func compareCandidates(a, b candidate) int {
	if c := cmp.Compare(a.parse.Score, b.parse.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.parse.tieBreak, b.parse.tieBreak)
}

// parseKorean returns the ranked segmentations of one Korean chunk: the
// direct dictionary match first when there is one, then the beam
// survivors by ascending score. The list is deduplicated and collapsed but
// not truncated.
func (t *Tokenizer) parseKorean(chunk token.Token, p *Profile) [][]token.Token {
	rs := []rune(chunk.Text)
	n := len(rs)

	// solutions[i % ringSize] holds the beam for position i. The slot for
	// end is overwritten when end is processed; by then position
	// end-ringSize is outside the trace-back window.
	var solutions [ringSize][]candidate
	solutions[0] = []candidate{{
		parse:    newParsedChunk(nil, 1, p, t.lex.Frequency),
		frontier: t.trie.Root(),
	}}

	for end := 1; end <= n; end++ {
		var next []candidate
		for start := end - 1; start >= max(end-maxTraceBack, 0); start-- {
			word := string(rs[start:end])
			for _, c := range solutions[start%ringSize] {
				next = t.extend(next, c, word, chunk.Offset+start, p)
			}
		}
		slices.SortStableFunc(next, compareCandidates)
		if len(next) > beamWidth {
			next = next[:beamWidth]
		}
		if t.onBeam != nil {
			t.onBeam(end, len(next))
		}
		solutions[end%ringSize] = next
	}

	final := solutions[n%ringSize]
	ranked := make([][]token.Token, 0, len(final)+1)
	if tag, ok := t.lex.Dictionary.Lookup(chunk.Text); ok {
		direct := chunk
		direct.Pos = tag
		direct.Unknown = false
		ranked = append(ranked, []token.Token{direct})
	}
	if len(final) == 0 {
		Logger.Debug().Str("chunk", chunk.Text).Msg("no parse reached chunk end, falling back to unknown noun")
		fallback := chunk
		fallback.Pos = pos.Noun
		fallback.Unknown = true
		ranked = append(ranked, []token.Token{fallback})
	}
	for _, c := range final {
		ranked = append(ranked, c.parse.Tokens)
	}

	out := make([][]token.Token, 0, len(ranked))
	for _, toks := range ranked {
		toks = collapseNouns(toks)
		if !slices.ContainsFunc(out, func(o []token.Token) bool { return token.Equal(o, toks) }) {
			out = append(out, toks)
		}
	}
	return out
}

// extend appends to out every candidate obtained by consuming word after c.
func (t *Tokenizer) extend(out []candidate, c candidate, word string, offset int, p *Profile) []candidate {
	out = t.extendFrom(out, c, c.frontier, 0, word, offset, p)
	if c.hasEnding {
		out = t.extendFrom(out, c, t.trie.Root(), 1, word, offset, p)
	}
	return out
}

func (t *Tokenizer) extendFrom(out []candidate, c candidate, nodes []int, words int, word string, offset int, p *Profile) []candidate {
	for _, i := range nodes {
		node := t.trie.Node(i)
		known := t.lex.Dictionary.Contains(node.Pos, word)
		if node.Pos != pos.Noun && !known {
			continue
		}

		tok := token.Token{
			Text:   word,
			Pos:    node.Pos,
			Offset: offset,
			Length: utf8.RuneCountInString(word),
		}
		if node.Pos == pos.Noun && !known {
			s := t.lex.Substantives
			tok.Unknown = !(s.IsName(word) || s.IsKoreanNumber(word) || s.IsKoreanNameVariation(word))
		}

		tokens := append(slices.Clip(c.parse.Tokens), tok)
		out = append(out, candidate{
			parse:     newParsedChunk(tokens, c.parse.Words+words, p, t.lex.Frequency),
			frontier:  t.trie.Successors(i),
			hasEnding: node.HasEnding,
		})
	}
	return out
}

// collapseNouns merges runs of single-rune unknown nouns into one unknown
// noun: [가* 회*] -> [가회*].
func collapseNouns(tokens []token.Token) []token.Token {
	single := func(t token.Token) bool {
		return t.Pos == pos.Noun && t.Unknown && t.Length == 1
	}
	if !slices.ContainsFunc(tokens, single) {
		return tokens
	}

	out := make([]token.Token, 0, len(tokens))
	collapsing := false
	for _, tok := range tokens {
		switch {
		case single(tok) && collapsing:
			last := &out[len(out)-1]
			last.Text += tok.Text
			last.Length++
		case single(tok):
			out = append(out, tok)
			collapsing = true
		default:
			out = append(out, tok)
			collapsing = false
		}
	}
	return out
}
