// Package pos defines the part-of-speech tags used by the Korean tokenizer.
//
// Tags come in two groups. Fine-grained tags (Noun, Verb, Josa, ...) are
// produced by the parser for Hangul chunks. Coarse tags (Korean, Number,
// URL, Space, ...) are produced by the chunker for everything else and
// pass through the parser unchanged.
//
// The grammar codes returned by Code and accepted by FromCode are the
// single-letter codes used in POS trie sequence definitions, e.g. "D0m*N1s0j0".
package pos

import (
	"encoding/json"
	"fmt"
)

// Tag is a part-of-speech tag.
//
// The ordinal value of a Tag is significant: the parser breaks score ties
// by the sum of tag ordinals, so the declaration order must stay fixed.
type Tag int

const (
	Noun        Tag = iota // 명사
	Verb                   // 동사
	Adjective              // 형용사
	Adverb                 // 부사
	Determiner             // 관형사
	Exclamation            // 감탄사
	Josa                   // 조사
	Eomi                   // 어말어미
	PreEomi                // 선어말어미
	Conjunction            // 접속사
	Modifier               // 수식어 prefix ('초'대박)
	VerbPrefix             // 동사 접두어 ('쳐'먹어)
	Suffix                 // 접미사
	Unknown

	// Chunk-level tags.
	Korean
	Foreign
	Number
	KoreanParticle
	Alpha
	Punctuation
	Hashtag
	ScreenName
	Email
	URL
	CashTag

	Space
	Others

	ProperNoun
)

var tagNames = [...]string{
	Noun:           "Noun",
	Verb:           "Verb",
	Adjective:      "Adjective",
	Adverb:         "Adverb",
	Determiner:     "Determiner",
	Exclamation:    "Exclamation",
	Josa:           "Josa",
	Eomi:           "Eomi",
	PreEomi:        "PreEomi",
	Conjunction:    "Conjunction",
	Modifier:       "Modifier",
	VerbPrefix:     "VerbPrefix",
	Suffix:         "Suffix",
	Unknown:        "Unknown",
	Korean:         "Korean",
	Foreign:        "Foreign",
	Number:         "Number",
	KoreanParticle: "KoreanParticle",
	Alpha:          "Alpha",
	Punctuation:    "Punctuation",
	Hashtag:        "Hashtag",
	ScreenName:     "ScreenName",
	Email:          "Email",
	URL:            "URL",
	CashTag:        "CashTag",
	Space:          "Space",
	Others:         "Others",
	ProperNoun:     "ProperNoun",
}

var tagFromName = func() map[string]Tag {
	m := make(map[string]Tag, len(tagNames))
	for i, name := range tagNames {
		m[name] = Tag(i)
	}
	return m
}()

// shortCodes maps grammar codes to tags.
var shortCodes = map[byte]Tag{
	'N': Noun,
	'V': Verb,
	'J': Adjective,
	'A': Adverb,
	'D': Determiner,
	'E': Exclamation,
	'C': Conjunction,
	'j': Josa,
	'e': Eomi,
	'r': PreEomi,
	'm': Modifier,
	'v': VerbPrefix,
	's': Suffix,
	'a': Alpha,
	'n': Number,
	'o': Others,
}

// All returns every tag in ordinal order.
func All() []Tag {
	tags := make([]Tag, len(tagNames))
	for i := range tagNames {
		tags[i] = Tag(i)
	}
	return tags
}

// Valid reports whether t is a declared tag.
func (t Tag) Valid() bool {
	return t >= 0 && int(t) < len(tagNames)
}

// String returns the name of the tag.
func (t Tag) String() string {
	if t.Valid() {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// Parse returns the tag with the given name.
func Parse(name string) (Tag, error) {
	t, ok := tagFromName[name]
	if !ok {
		return 0, fmt.Errorf("unknown pos tag: %q", name)
	}
	return t, nil
}

// FromCode returns the tag for a single-letter grammar code.
func FromCode(code byte) (Tag, bool) {
	t, ok := shortCodes[code]
	return t, ok
}

// MarshalJSON encodes the tag as a JSON string (e.g. "Noun").
func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a JSON string (e.g. "Noun") into a Tag.
func (t *Tag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return t.UnmarshalText([]byte(s))
}

// MarshalText implements encoding.TextMarshaler so tags can be used as
// map keys and in YAML documents.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tag) UnmarshalText(text []byte) error {
	tag, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = tag
	return nil
}
