// Package hangul provides Hangul syllable decomposition and composition.
//
// Jamo are represented by their Hangul Compatibility Jamo code points
// (U+3131..U+3163), so the same rune is used for an onset and a coda
// consonant. A missing coda is represented by NoCoda.
package hangul

const (
	syllableBase = 0xAC00 // 가
	syllableLast = 0xD7A3 // 힣

	vowelCount = 21
	codaCount  = 28
)

// NoCoda marks a syllable without a trailing consonant.
const NoCoda rune = 0

var onsets = [...]rune{
	'ㄱ', 'ㄲ', 'ㄴ', 'ㄷ', 'ㄸ', 'ㄹ', 'ㅁ', 'ㅂ', 'ㅃ', 'ㅅ',
	'ㅆ', 'ㅇ', 'ㅈ', 'ㅉ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

var vowels = [...]rune{
	'ㅏ', 'ㅐ', 'ㅑ', 'ㅒ', 'ㅓ', 'ㅔ', 'ㅕ', 'ㅖ', 'ㅗ', 'ㅘ',
	'ㅙ', 'ㅚ', 'ㅛ', 'ㅜ', 'ㅝ', 'ㅞ', 'ㅟ', 'ㅠ', 'ㅡ', 'ㅢ',
	'ㅣ',
}

var codas = [...]rune{
	NoCoda, 'ㄱ', 'ㄲ', 'ㄳ', 'ㄴ', 'ㄵ', 'ㄶ', 'ㄷ', 'ㄹ', 'ㄺ',
	'ㄻ', 'ㄼ', 'ㄽ', 'ㄾ', 'ㄿ', 'ㅀ', 'ㅁ', 'ㅂ', 'ㅄ', 'ㅅ',
	'ㅆ', 'ㅇ', 'ㅈ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

var (
	onsetIndex = indexOf(onsets[:])
	vowelIndex = indexOf(vowels[:])
	codaIndex  = indexOf(codas[:])
)

func indexOf(rs []rune) map[rune]int {
	m := make(map[rune]int, len(rs))
	for i, r := range rs {
		m[r] = i
	}
	return m
}

// Char is a decomposed Hangul syllable.
type Char struct {
	Onset rune
	Vowel rune
	Coda  rune // NoCoda if absent
}

// HasCoda reports whether the decomposed syllable has a trailing consonant.
func (c Char) HasCoda() bool {
	return c.Coda != NoCoda
}

// IsSyllable reports whether r is a precomposed Hangul syllable (가..힣).
func IsSyllable(r rune) bool {
	return r >= syllableBase && r <= syllableLast
}

// IsJamo reports whether r is a Hangul Compatibility Jamo (ㄱ..ㅣ).
func IsJamo(r rune) bool {
	return r >= 'ㄱ' && r <= 'ㅣ'
}

// Decompose splits a syllable into onset, vowel and coda.
// Returns false if r is not a precomposed Hangul syllable.
func Decompose(r rune) (Char, bool) {
	if !IsSyllable(r) {
		return Char{}, false
	}
	n := int(r - syllableBase)
	return Char{
		Onset: onsets[n/(vowelCount*codaCount)],
		Vowel: vowels[(n%(vowelCount*codaCount))/codaCount],
		Coda:  codas[n%codaCount],
	}, true
}

// Compose builds a syllable from jamo. Returns false if any jamo is not
// valid in its position.
func Compose(onset, vowel, coda rune) (rune, bool) {
	o, ok := onsetIndex[onset]
	if !ok {
		return 0, false
	}
	v, ok := vowelIndex[vowel]
	if !ok {
		return 0, false
	}
	c, ok := codaIndex[coda]
	if !ok {
		return 0, false
	}
	return rune(syllableBase + (o*vowelCount+v)*codaCount + c), true
}

// ComposeChar is Compose for a decomposed Char.
func ComposeChar(c Char) (rune, bool) {
	return Compose(c.Onset, c.Vowel, c.Coda)
}

// HasCoda reports whether r is a Hangul syllable with a trailing consonant.
// Non-syllables report false.
func HasCoda(r rune) bool {
	c, ok := Decompose(r)
	return ok && c.HasCoda()
}

// CanBeCoda reports whether the onset consonant can also close a syllable.
// ㄸ, ㅃ and ㅉ cannot.
func CanBeCoda(onset rune) bool {
	if _, ok := onsetIndex[onset]; !ok {
		return false
	}
	_, ok := codaIndex[onset]
	return ok && onset != NoCoda
}
