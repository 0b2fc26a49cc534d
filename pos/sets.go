package pos

// Set is a small immutable set of tags backed by a bitmask.
type Set uint64

// NewSet returns a set containing tags.
func NewSet(tags ...Tag) Set {
	var s Set
	for _, t := range tags {
		s |= 1 << uint(t)
	}
	return s
}

// Has reports whether t is in the set.
func (s Set) Has(t Tag) bool {
	return t.Valid() && s&(1<<uint(t)) != 0
}

var (
	// Predicates are the inflecting word classes.
	Predicates = NewSet(Verb, Adjective)

	// Endings are the verbal endings folded into a predicate by the stemmer.
	Endings = NewSet(Eomi, PreEomi)

	// Nouns are the substantive tags.
	Nouns = NewSet(Noun, ProperNoun)

	// BoundMorphemes cannot start a word. Tokens with these tags are also
	// exempt from the space-guide penalty and attach to the previous word
	// when detokenizing.
	BoundMorphemes = NewSet(Suffix, Eomi, Josa, PreEomi, Punctuation)

	// Prefixes attach to the following token when detokenizing.
	Prefixes = NewSet(Modifier, VerbPrefix)
)
