package dict

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/az-ai-labs/ko-lang-nlp/pos"
)

// Logger receives dictionary load events. Disabled by default.
var Logger = zerolog.Nop()

// maxFreqDigits is the number of leading characters of a frequency field
// that are parsed; the word lists carry long decimal tails.
const maxFreqDigits = 6

// Files maps word-list file names to the tag they populate.
// Predicate files (verb.txt, adjective.txt) hold "surface<TAB>lemma" lines.
var Files = map[string]pos.Tag{
	"noun.txt":        pos.Noun,
	"proper_noun.txt": pos.ProperNoun,
	"verb.txt":        pos.Verb,
	"adjective.txt":   pos.Adjective,
	"adverb.txt":      pos.Adverb,
	"determiner.txt":  pos.Determiner,
	"exclamation.txt": pos.Exclamation,
	"josa.txt":        pos.Josa,
	"eomi.txt":        pos.Eomi,
	"pre_eomi.txt":    pos.PreEomi,
	"conjunction.txt": pos.Conjunction,
	"modifier.txt":    pos.Modifier,
	"verb_prefix.txt": pos.VerbPrefix,
	"suffix.txt":      pos.Suffix,
}

// Resources bundles everything loaded from a lexicon directory.
type Resources struct {
	Dictionary *Dictionary
	Frequency  Frequency
	Stems      Stems
	Names      *Names
	Typos      map[string]string
	Blockwords map[string]string // word -> severity name
	Spam       []string          // nouns dropped by spam-filtered phrase extraction
}

// Load reads a lexicon from fsys rooted at dir. Missing optional files
// (frequency, names, typos, blockwords, spam) yield empty resources; a missing
// word list is skipped.
func Load(fsys fs.FS, dir string) (*Resources, error) {
	entries := make(map[pos.Tag][]string, len(Files))
	stems := make(Stems)

	for name, tag := range Files {
		raw, err := readOptional(fsys, path.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if raw == nil {
			continue
		}
		if pos.Predicates.Has(tag) {
			pairs := ParsePairs(raw)
			words := make([]string, 0, len(pairs))
			for surface, lemma := range pairs {
				words = append(words, surface)
				if stems[tag] == nil {
					stems[tag] = make(map[string]string, len(pairs))
				}
				stems[tag][surface] = lemma
			}
			entries[tag] = append(entries[tag], words...)
			continue
		}
		entries[tag] = append(entries[tag], ParseWords(raw)...)
	}

	freqRaw, err := readOptional(fsys, path.Join(dir, "freq.txt"))
	if err != nil {
		return nil, err
	}
	freq, err := ParseFrequency(freqRaw)
	if err != nil {
		return nil, err
	}

	var names [3][]string
	for i, name := range []string{"full_name.txt", "given_name.txt", "family_name.txt"} {
		raw, err := readOptional(fsys, path.Join(dir, "names", name))
		if err != nil {
			return nil, err
		}
		names[i] = ParseWords(raw)
	}

	typoRaw, err := readOptional(fsys, path.Join(dir, "typos.txt"))
	if err != nil {
		return nil, err
	}
	blockRaw, err := readOptional(fsys, path.Join(dir, "blockwords.txt"))
	if err != nil {
		return nil, err
	}

	spamRaw, err := readOptional(fsys, path.Join(dir, "spam.txt"))
	if err != nil {
		return nil, err
	}

	r := &Resources{
		Dictionary: New(entries),
		Frequency:  freq,
		Stems:      stems,
		Names:      NewNames(names[0], names[1], names[2]),
		Typos:      ParsePairs(typoRaw),
		Blockwords: ParsePairs(blockRaw),
		Spam:       ParseWords(spamRaw),
	}
	Logger.Debug().
		Str("dir", dir).
		Int("nouns", r.Dictionary.Len(pos.Noun)).
		Int("verbs", r.Dictionary.Len(pos.Verb)).
		Int("freq", len(freq)).
		Msg("lexicon loaded")
	return r, nil
}

func readOptional(fsys fs.FS, name string) ([]byte, error) {
	raw, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return raw, nil
}

// lines splits raw into trimmed, non-empty lines, skipping '#' comments.
func lines(raw []byte) [][]byte {
	var out [][]byte
	for _, line := range bytes.Split(raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		out = append(out, line)
	}
	return out
}

// ParseWords parses one word per line.
func ParseWords(raw []byte) []string {
	ls := lines(raw)
	words := make([]string, 0, len(ls))
	for _, line := range ls {
		words = append(words, string(line))
	}
	return words
}

// ParsePairs parses "key<TAB>value" lines. Lines without a tab are skipped.
func ParsePairs(raw []byte) map[string]string {
	ls := lines(raw)
	m := make(map[string]string, len(ls))
	for _, line := range ls {
		k, v, ok := strings.Cut(string(line), "\t")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			m[k] = v
		}
	}
	return m
}

// ParseFrequency parses "word<TAB>frequency" lines. Only the first
// maxFreqDigits characters of the frequency are significant.
func ParseFrequency(raw []byte) (Frequency, error) {
	pairs := ParsePairs(raw)
	f := make(Frequency, len(pairs))
	for word, v := range pairs {
		if len(v) > maxFreqDigits {
			v = v[:maxFreqDigits]
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("frequency for %q: %w", word, err)
		}
		if x < 0 || x > 1 {
			return nil, fmt.Errorf("frequency for %q out of range: %v", word, x)
		}
		f[word] = x
	}
	return f, nil
}
