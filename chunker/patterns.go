package chunker

import (
	"regexp"
	"unicode"

	"github.com/az-ai-labs/ko-lang-nlp/pos"
)

// Compiled regexes for each chunk category.
// Order matters: categories earlier in categories claim a span before later
// ones are scanned, so URL beats Alpha on "example.com".
var (
	// URL: explicit scheme, or a bare host ending in a common TLD.
	// ASCII only, so trailing Hangul particles are left out ("x.org에서").
	reURL = regexp.MustCompile(`(?i)(?:https?://(?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)*[a-z0-9](?:[a-z0-9-]*[a-z0-9])?` +
		`|(?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)+(?:com|net|org|edu|gov|mil|int|info|biz|name|io|co|kr|jp|cn|me|tv|ai|app|dev|xyz|us|uk|de|fr))` +
		`(?::[0-9]{1,5})?` +
		`(?:/(?:[a-z0-9\-._~:/?#\[\]@!$&'()*+,;=%]*[a-z0-9\-_~/=#&%+])?)?`)

	// Email: ASCII local part and domain.
	reEmail = regexp.MustCompile(`[A-Za-z0-9.\-_]+@[A-Za-z0-9.]+`)

	// ScreenName: @handle with an optional /list suffix.
	reScreenName = regexp.MustCompile(`[@＠][A-Za-z0-9_]{1,20}(?:/[A-Za-z][A-Za-z0-9_\-]{0,24})?`)

	// Hashtag: at least one letter; digits and underscores allowed.
	reHashtag = regexp.MustCompile(`[#＃][\p{L}\p{M}\p{Nd}_]*[\p{L}\p{M}][\p{L}\p{M}\p{Nd}_]*`)

	// CashTag: $ followed by a ticker symbol.
	reCashTag = regexp.MustCompile(`(?i)\$[a-z]{1,6}(?:[._][a-z]{1,2})?`)

	// Number: digits with thousands separators, an optional range/ratio/decimal
	// part, Korean magnitude words and a unit ("3,000만원", "12:30", "$200").
	reNumber = regexp.MustCompile(`\$?[0-9]+(?:,[0-9]{3})*(?:[/~:.\-][0-9]+)?(?:천|만|억|조)*` +
		`(?:%|원|달러|위안|옌|엔|유로|등|년|월|일|회|시간|시|분|초)?`)

	// Korean: precomposed Hangul syllables.
	reKorean = regexp.MustCompile(`[가-힣]+`)

	// KoreanParticle: stray compatibility jamo (ㅋㅋ, ㅠㅠ).
	reKoreanParticle = regexp.MustCompile(`[ㄱ-ㅣ]+`)

	// Alpha: ASCII letters.
	reAlpha = regexp.MustCompile(`[A-Za-z]+`)

	// Punctuation: ASCII punctuation plus a few typographic marks.
	rePunctuation = regexp.MustCompile(`[[:punct:]·…’]+`)
)

// category is one entry of the fixed-priority scan list.
type category struct {
	tag pos.Tag
	re  *regexp.Regexp
	// accept vets a match at run[start:end] (rune offsets) against its
	// neighbours. Nil accepts every match.
	accept func(run []rune, start, end int) bool
}

// categories is scanned in order; see Chunk.
var categories = []category{
	{pos.URL, reURL, acceptURL},
	{pos.Email, reEmail, nil},
	{pos.ScreenName, reScreenName, acceptScreenName},
	{pos.Hashtag, reHashtag, acceptHashtag},
	{pos.CashTag, reCashTag, acceptCashTag},
	{pos.Number, reNumber, nil},
	{pos.Korean, reKorean, nil},
	{pos.KoreanParticle, reKoreanParticle, nil},
	{pos.Alpha, reAlpha, nil},
	{pos.Punctuation, rePunctuation, nil},
}

func isASCIIAlnum(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func prevRune(run []rune, start int) (rune, bool) {
	if start == 0 {
		return 0, false
	}
	return run[start-1], true
}

func nextRune(run []rune, end int) (rune, bool) {
	if end >= len(run) {
		return 0, false
	}
	return run[end], true
}

// acceptURL rejects hosts glued to a preceding handle or word, which keeps
// the domain of "hello@example.com" for the Email category.
func acceptURL(run []rune, start, end int) bool {
	if r, ok := prevRune(run, start); ok {
		if isASCIIAlnum(r) || r == '@' || r == '＠' || r == '$' || r == '#' || r == '＃' {
			return false
		}
	}
	if r, ok := nextRune(run, end); ok && isASCIIAlnum(r) {
		return false
	}
	return true
}

func acceptScreenName(run []rune, start, end int) bool {
	if r, ok := prevRune(run, start); ok {
		if isASCIIAlnum(r) || r == '_' || r == '!' || r == '#' || r == '$' ||
			r == '%' || r == '&' || r == '*' || r == '@' || r == '＠' {
			return false
		}
	}
	if r, ok := nextRune(run, end); ok && (r == '@' || r == '＠') {
		return false
	}
	return true
}

func acceptHashtag(run []rune, start, _ int) bool {
	if r, ok := prevRune(run, start); ok {
		if r == '&' || r == '_' || unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// acceptCashTag requires the tag to open the run and to end at the run end
// or at punctuation.
func acceptCashTag(run []rune, start, end int) bool {
	if start != 0 {
		return false
	}
	if r, ok := nextRune(run, end); ok {
		return r < unicode.MaxASCII && (unicode.IsPunct(r) || unicode.IsSymbol(r))
	}
	return true
}
