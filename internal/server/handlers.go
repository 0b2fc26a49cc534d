package server

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/az-ai-labs/ko-lang-nlp/blockword"
	"github.com/az-ai-labs/ko-lang-nlp/chunker"
	"github.com/az-ai-labs/ko-lang-nlp/internal/engine"
	"github.com/az-ai-labs/ko-lang-nlp/phrase"
	"github.com/az-ai-labs/ko-lang-nlp/token"
	"github.com/az-ai-labs/ko-lang-nlp/tokenizer"
)

type textRequest struct {
	Text string `json:"text"`
}

type tokenizeRequest struct {
	Text      string `json:"text"`
	NounsOnly bool   `json:"nouns_only"`
}

type topNRequest struct {
	Text string `json:"text"`
	TopN int    `json:"top_n"`
}

type detokenizeRequest struct {
	Words []string `json:"words"`
}

type maskRequest struct {
	Text     string   `json:"text"`
	Severity string   `json:"severity"`
	Mask     string   `json:"mask"`
	Block    []string `json:"block"`
}

type phrasesRequest struct {
	Text       string `json:"text"`
	FilterSpam bool   `json:"filter_spam"`
	Hashtags   *bool  `json:"hashtags"`
	NounsOnly  bool   `json:"nouns_only"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id"`
}

type tokensResponse struct {
	Tokens []token.Token `json:"tokens"`
}

type topNResponse struct {
	Chunks [][][]token.Token `json:"chunks"`
}

type chunksResponse struct {
	Chunks []chunker.ChunkMatch `json:"chunks"`
}

type textResponse struct {
	Text string `json:"text"`
}

type phraseJSON struct {
	Text   string        `json:"text"`
	Pos    string        `json:"pos"`
	Offset int           `json:"offset"`
	Length int           `json:"length"`
	Tokens []token.Token `json:"tokens"`
}

type phrasesResponse struct {
	Phrases []phraseJSON `json:"phrases"`
}

type sentencesResponse struct {
	Sentences []tokenizer.Sentence `json:"sentences"`
}

func (s *Server) fail(c *gin.Context, status int, format string, args ...any) {
	c.AbortWithStatusJSON(status, errorResponse{
		Error:     fmt.Sprintf(format, args...),
		RequestID: c.GetString(RequestIDHeader),
	})
}

// bind decodes the JSON body into req and checks the input size reported
// by size against the configured limit. It writes the error response
// itself.
func (s *Server) bind(c *gin.Context, req any, size func() int) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(c, http.StatusRequestEntityTooLarge, "request body exceeds %d bytes", tooLarge.Limit)
			return false
		}
		s.fail(c, http.StatusBadRequest, "invalid request: %v", err)
		return false
	}
	if n := size(); n > s.cfg.Tokenizer.MaxInputBytes {
		s.fail(c, http.StatusRequestEntityTooLarge, "input is %d bytes, limit is %d", n, s.cfg.Tokenizer.MaxInputBytes)
		return false
	}
	return true
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) tokenize(c *gin.Context) {
	var req tokenizeRequest
	if !s.bind(c, &req, func() int { return len(req.Text) }) {
		return
	}
	tok := s.eng.Tokenizer
	if req.NounsOnly {
		tok = s.eng.NounTokenizer
	}
	tokens := tok.Tokenize(req.Text, s.eng.Profile)
	s.metrics.ObserveTokens(utf8.RuneCountInString(req.Text), tokens)
	c.JSON(http.StatusOK, tokensResponse{Tokens: tokens})
}

func (s *Server) tokenizeTopN(c *gin.Context) {
	var req topNRequest
	if !s.bind(c, &req, func() int { return len(req.Text) }) {
		return
	}
	if req.TopN > s.cfg.Tokenizer.MaxTopN {
		s.fail(c, http.StatusBadRequest, "top_n %d exceeds limit %d", req.TopN, s.cfg.Tokenizer.MaxTopN)
		return
	}
	chunks, err := s.eng.Tokenizer.TokenizeTopN(req.Text, req.TopN, s.eng.Profile)
	if err != nil {
		s.fail(c, http.StatusBadRequest, "%v", err)
		return
	}
	c.JSON(http.StatusOK, topNResponse{Chunks: chunks})
}

func (s *Server) chunks(c *gin.Context) {
	var req textRequest
	if !s.bind(c, &req, func() int { return len(req.Text) }) {
		return
	}
	c.JSON(http.StatusOK, chunksResponse{Chunks: chunker.Chunk(req.Text)})
}

func (s *Server) detokenize(c *gin.Context) {
	var req detokenizeRequest
	size := func() int {
		n := 0
		for _, w := range req.Words {
			n += len(w)
		}
		return n
	}
	if !s.bind(c, &req, size) {
		return
	}
	c.JSON(http.StatusOK, textResponse{Text: s.eng.Detokenizer.Detokenize(req.Words)})
}

func (s *Server) sentences(c *gin.Context) {
	var req textRequest
	if !s.bind(c, &req, func() int { return len(req.Text) }) {
		return
	}
	c.JSON(http.StatusOK, sentencesResponse{Sentences: tokenizer.Sentences(req.Text)})
}

func (s *Server) normalize(c *gin.Context) {
	var req textRequest
	if !s.bind(c, &req, func() int { return len(req.Text) }) {
		return
	}
	c.JSON(http.StatusOK, textResponse{Text: s.eng.Normalizer.Normalize(req.Text)})
}

func (s *Server) mask(c *gin.Context) {
	var req maskRequest
	if !s.bind(c, &req, func() int { return len(req.Text) }) {
		return
	}

	sev := blockword.DefaultSeverity
	if req.Severity != "" {
		var err error
		if sev, err = blockword.ParseSeverity(req.Severity); err != nil {
			s.fail(c, http.StatusBadRequest, "%v", err)
			return
		}
	}

	mask := blockword.DefaultMask
	if req.Mask != "" {
		r, size := utf8.DecodeRuneInString(req.Mask)
		if r == utf8.RuneError || size != len(req.Mask) {
			s.fail(c, http.StatusBadRequest, "mask must be a single character (got %q)", req.Mask)
			return
		}
		mask = r
	}

	c.JSON(http.StatusOK, s.eng.Masker.With(sev, req.Block...).Mask(req.Text, sev, mask))
}

func (s *Server) phrases(c *gin.Context) {
	var req phrasesRequest
	if !s.bind(c, &req, func() int { return len(req.Text) }) {
		return
	}

	var ps []phrase.Phrase
	if req.NounsOnly {
		ps = s.eng.NounPhrases(req.Text)
	} else {
		ps = s.eng.Phrases(req.Text, engine.PhraseOptions{
			FilterSpam: req.FilterSpam,
			Hashtags:   req.Hashtags == nil || *req.Hashtags,
		})
	}

	resp := phrasesResponse{Phrases: make([]phraseJSON, 0, len(ps))}
	for _, p := range ps {
		resp.Phrases = append(resp.Phrases, phraseJSON{
			Text:   p.Text(),
			Pos:    p.Pos.String(),
			Offset: p.Offset(),
			Length: p.Len(),
			Tokens: p.Tokens,
		})
	}
	c.JSON(http.StatusOK, resp)
}
