package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/tidwall/pretty"
	"golang.org/x/term"

	"github.com/az-ai-labs/ko-lang-nlp/blockword"
	"github.com/az-ai-labs/ko-lang-nlp/chunker"
	"github.com/az-ai-labs/ko-lang-nlp/phrase"
	"github.com/az-ai-labs/ko-lang-nlp/pos"
	"github.com/az-ai-labs/ko-lang-nlp/token"
	"github.com/az-ai-labs/ko-lang-nlp/tokenizer"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printer writes command results as text or JSON.
type printer struct {
	w       io.Writer
	jsonOut bool
	color   bool
}

func newPrinter(w io.Writer, jsonOut, colored bool) *printer {
	return &printer{w: w, jsonOut: jsonOut, color: colored}
}

func (p *printer) json(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	b = pretty.Pretty(b)
	if p.color {
		b = pretty.Color(b, nil)
	}
	_, err = p.w.Write(b)
	return err
}

func tagColor(t pos.Tag) color.Color {
	switch {
	case pos.Nouns.Has(t):
		return color.FgGreen
	case pos.Predicates.Has(t):
		return color.FgYellow
	case pos.BoundMorphemes.Has(t):
		return color.FgCyan
	case t == pos.Space:
		return color.FgDefault
	default:
		return color.FgMagenta
	}
}

// tag renders t, in colour when enabled. Unknown tokens are red.
func (p *printer) tag(t pos.Tag, unknown bool) string {
	s := t.String()
	if unknown {
		s += "*"
	}
	if !p.color {
		return s
	}
	if unknown {
		return color.FgRed.Render(s)
	}
	return tagColor(t).Render(s)
}

func (p *printer) formatTokens(tokens []token.Token) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.Pos == pos.Space {
			continue
		}
		s := t.Text + "/" + p.tag(t.Pos, t.Unknown)
		if t.Stem != "" {
			s += "(" + t.Stem + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func (p *printer) tokens(tokens []token.Token) error {
	if p.jsonOut {
		return p.json(tokens)
	}
	_, err := fmt.Fprintln(p.w, p.formatTokens(tokens))
	return err
}

func (p *printer) topN(chunks [][][]token.Token) error {
	if p.jsonOut {
		return p.json(chunks)
	}
	for _, candidates := range chunks {
		if len(candidates) == 1 && len(candidates[0]) == 1 && candidates[0][0].Pos == pos.Space {
			continue
		}
		for rank, c := range candidates {
			if _, err := fmt.Fprintf(p.w, "%d. %s\n", rank+1, p.formatTokens(c)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(p.w); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) chunks(chunks []chunker.ChunkMatch) error {
	if p.jsonOut {
		return p.json(chunks)
	}
	for _, c := range chunks {
		if _, err := fmt.Fprintf(p.w, "%d:%d\t%s\t%q\n", c.Start, c.End, p.tag(c.Pos, false), c.Text); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) sentences(ss []tokenizer.Sentence) error {
	if p.jsonOut {
		return p.json(ss)
	}
	for _, s := range ss {
		if _, err := fmt.Fprintln(p.w, s.Text); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) text(s string) error {
	if p.jsonOut {
		return p.json(map[string]string{"text": s})
	}
	_, err := fmt.Fprintln(p.w, s)
	return err
}

func (p *printer) masked(r blockword.Result) error {
	if p.jsonOut {
		return p.json(r)
	}
	_, err := fmt.Fprintln(p.w, r.Text)
	return err
}

func (p *printer) phrases(ps []phrase.Phrase) error {
	if p.jsonOut {
		return p.json(ps)
	}
	for _, ph := range ps {
		if _, err := fmt.Fprintf(p.w, "%d:%d\t%s\t%s\n", ph.Offset(), ph.Offset()+ph.Len(), p.tag(ph.Pos, false), ph.Text()); err != nil {
			return err
		}
	}
	return nil
}
