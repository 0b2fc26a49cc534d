package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/az-ai-labs/ko-lang-nlp/blockword"
	"github.com/az-ai-labs/ko-lang-nlp/chunker"
	"github.com/az-ai-labs/ko-lang-nlp/config"
	"github.com/az-ai-labs/ko-lang-nlp/dict"
	"github.com/az-ai-labs/ko-lang-nlp/internal/engine"
	"github.com/az-ai-labs/ko-lang-nlp/internal/server"
	"github.com/az-ai-labs/ko-lang-nlp/normalize"
	"github.com/az-ai-labs/ko-lang-nlp/postrie"
	"github.com/az-ai-labs/ko-lang-nlp/tokenizer"
)

// app is the state shared by every subcommand.
type app struct {
	configPath string
	jsonOut    bool
	noColor    bool

	cfg *config.Config
	eng *engine.Engine
	log zerolog.Logger
	out *printer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "kotok",
		Short:         "Korean tokenizer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print JSON")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable coloured output")

	root.AddCommand(
		a.tokenizeCmd(),
		a.topNCmd(),
		a.chunkCmd(),
		a.detokenizeCmd(),
		a.sentencesCmd(),
		a.normalizeCmd(),
		a.maskCmd(),
		a.phrasesCmd(),
		a.profileCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = cfg.Log.NewLogger(cmd.ErrOrStderr())

	dict.Logger = a.log.With().Str("component", "dict").Logger()
	postrie.Logger = a.log.With().Str("component", "postrie").Logger()
	tokenizer.Logger = a.log.With().Str("component", "tokenizer").Logger()
	normalize.Logger = a.log.With().Str("component", "normalize").Logger()
	blockword.Logger = a.log.With().Str("component", "blockword").Logger()

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}
	a.eng = eng
	a.out = newPrinter(cmd.OutOrStdout(), a.jsonOut, !a.noColor && isTerminal(cmd.OutOrStdout()))
	return nil
}

// input returns the text to process: the joined args, or stdin.
func (a *app) input(cmd *cobra.Command, args []string) (string, error) {
	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ")
	} else {
		raw, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), int64(a.cfg.Tokenizer.MaxInputBytes)+1))
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		text = strings.TrimRight(string(raw), "\r\n")
	}
	if len(text) > a.cfg.Tokenizer.MaxInputBytes {
		return "", fmt.Errorf("input exceeds %d bytes", a.cfg.Tokenizer.MaxInputBytes)
	}
	return text, nil
}

func (a *app) tokenizeCmd() *cobra.Command {
	var nouns bool
	cmd := &cobra.Command{
		Use:   "tokenize [text]",
		Short: "Tokenize text into POS-tagged tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.input(cmd, args)
			if err != nil {
				return err
			}
			tok := a.eng.Tokenizer
			if nouns {
				tok = a.eng.NounTokenizer
			}
			return a.out.tokens(tok.Tokenize(text, a.eng.Profile))
		},
	}
	cmd.Flags().BoolVar(&nouns, "nouns", false, "parse with the noun-only grammar")
	return cmd
}

func (a *app) topNCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "topn [text]",
		Short: "Print the best N parses of every chunk",
		RunE: func(cmd *cobra.Command, args []string) error {
			if n > a.cfg.Tokenizer.MaxTopN {
				return fmt.Errorf("-n %d exceeds limit %d", n, a.cfg.Tokenizer.MaxTopN)
			}
			text, err := a.input(cmd, args)
			if err != nil {
				return err
			}
			chunks, err := a.eng.Tokenizer.TokenizeTopN(text, n, a.eng.Profile)
			if err != nil {
				return err
			}
			return a.out.topN(chunks)
		},
	}
	cmd.Flags().IntVarP(&n, "n", "n", 3, "candidates per chunk")
	return cmd
}

func (a *app) chunkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chunk [text]",
		Short: "Split text into typed chunks",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.input(cmd, args)
			if err != nil {
				return err
			}
			return a.out.chunks(chunker.Chunk(text))
		},
	}
}

func (a *app) detokenizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detokenize word...",
		Short: "Join words into a naturally spaced sentence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.out.text(a.eng.Detokenizer.Detokenize(args))
		},
	}
}

func (a *app) sentencesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sentences [text]",
		Short: "Split text into sentences",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.input(cmd, args)
			if err != nil {
				return err
			}
			return a.out.sentences(tokenizer.Sentences(text))
		},
	}
}

func (a *app) normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [text]",
		Short: "Normalize colloquial text",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.input(cmd, args)
			if err != nil {
				return err
			}
			return a.out.text(a.eng.Normalizer.Normalize(text))
		},
	}
}

func (a *app) maskCmd() *cobra.Command {
	sev := blockword.DefaultSeverity
	var (
		mask  string
		block []string
		list  bool
	)
	cmd := &cobra.Command{
		Use:   "mask [text]",
		Short: "Mask blocked words",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, size := utf8.DecodeRuneInString(mask)
			if r == utf8.RuneError || size != len(mask) {
				return fmt.Errorf("--mask must be a single character (got %q)", mask)
			}
			text, err := a.input(cmd, args)
			if err != nil {
				return err
			}
			m := a.eng.Masker.With(sev, block...)
			if list {
				return a.out.tokens(m.Find(text, sev))
			}
			return a.out.masked(m.Mask(text, sev, r))
		},
	}
	cmd.Flags().Var(&severityFlag{&sev}, "severity", "LOW, MIDDLE or HIGH")
	cmd.Flags().StringVar(&mask, "mask", string(blockword.DefaultMask), "mask character")
	cmd.Flags().StringSliceVar(&block, "block", nil, "extra words to block at --severity")
	cmd.Flags().BoolVar(&list, "list", false, "print the blocked tokens instead of masking")
	return cmd
}

func (a *app) phrasesCmd() *cobra.Command {
	var (
		opts       engine.PhraseOptions
		noHashtags bool
		nounsOnly  bool
	)
	cmd := &cobra.Command{
		Use:   "phrases [text]",
		Short: "Extract phrase candidates",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.input(cmd, args)
			if err != nil {
				return err
			}
			if nounsOnly {
				return a.out.phrases(a.eng.NounPhrases(text))
			}
			opts.Hashtags = !noHashtags
			return a.out.phrases(a.eng.Phrases(text, opts))
		},
	}
	cmd.Flags().BoolVar(&opts.FilterSpam, "filter-spam", false, "drop phrases containing spam nouns")
	cmd.Flags().BoolVar(&noHashtags, "no-hashtags", false, "leave out hashtags and cashtags")
	cmd.Flags().BoolVar(&nounsOnly, "nouns", false, "extract compact noun phrases only")
	return cmd
}

func (a *app) profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Print the effective scoring profile as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(a.eng.Profile); err != nil {
				return fmt.Errorf("encoding profile: %w", err)
			}
			return enc.Close()
		},
	}
}

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gin.SetMode(gin.ReleaseMode)

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(a.eng, a.cfg, a.log, reg).Run(ctx)
		},
	}
}

// severityFlag adapts blockword.Severity to pflag.Value.
type severityFlag struct {
	sev *blockword.Severity
}

func (f *severityFlag) String() string {
	if f.sev == nil {
		return blockword.DefaultSeverity.String()
	}
	return f.sev.String()
}

func (f *severityFlag) Set(s string) error {
	sev, err := blockword.ParseSeverity(s)
	if err != nil {
		return err
	}
	*f.sev = sev
	return nil
}

func (f *severityFlag) Type() string { return "severity" }
