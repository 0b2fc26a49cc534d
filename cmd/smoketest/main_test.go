package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/az-ai-labs/ko-lang-nlp/chunker"
	"github.com/az-ai-labs/ko-lang-nlp/pos"
	"github.com/az-ai-labs/ko-lang-nlp/token"
	"github.com/az-ai-labs/ko-lang-nlp/tokenizer"
)

func TestCheckChunks(t *testing.T) {
	t.Parallel()

	text := "사랑 hello 123"
	_, ok := checkChunks(text, chunker.Chunk(text))
	assert.True(t, ok)

	gap := []chunker.ChunkMatch{{Start: 0, End: 2, Text: "사랑", Pos: pos.Korean}}
	off, ok := checkChunks(text, gap)
	assert.False(t, ok)
	assert.Equal(t, 2, off)
}

func TestCheckTokens(t *testing.T) {
	t.Parallel()

	text := "사랑을 해"
	good := []token.Token{
		token.New("사랑", pos.Noun, 0),
		token.New("을", pos.Josa, 2),
		token.New(" ", pos.Space, 3),
		token.New("해", pos.Verb, 4),
	}
	_, ok := checkTokens(text, good)
	assert.True(t, ok)

	bad := []token.Token{token.New("사랑", pos.Noun, 0), token.New("해", pos.Verb, 2)}
	off, ok := checkTokens(text, bad)
	assert.False(t, ok)
	assert.Equal(t, 2, off)
}

func TestComputeMedian(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0, computeMedian(nil), 0)
	assert.InDelta(t, 2, computeMedian([]float64{3, 1, 2}), 0)
	assert.InDelta(t, 2.5, computeMedian([]float64{4, 1, 3, 2}), 0)
}

func TestProcessFile(t *testing.T) {
	t.Parallel()

	tok, err := tokenizer.Default()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte("사랑을 해요. 좋아!\n\nhello@example.com 123\n"), 0o644))

	state, err := processFile(tok, path)
	require.NoError(t, err)
	assert.False(t, state.chunkFailed)
	assert.False(t, state.tokenFailed)
	assert.Equal(t, 2, state.paragraphs)
	assert.Positive(t, state.sentences)
	assert.Equal(t, 1, state.posCounts[pos.Email])
}
