package dict

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/az-ai-labs/ko-lang-nlp/internal/hangul"
)

// Endings and pre-endings glued to the last stem syllable. Each rune is
// one appended syllable.
const (
	preCommon  = "게겠고구기긴길네다더던도든면자잖재져죠지진질"
	preHae     = "야서써도준"
	preEo      = "어었"
	preA       = "아았"
	preWo      = "워웠"
	preYeo     = "여였"
	preNo      = "노느니냐"
	preReo     = "러려며"
	preEu      = "으"
	preEun     = "은"
	preNeun    = "는"
	preUn      = "운"
	preRespect = "세시실신셔습셨십"

	preVowel = preCommon + preNo + preReo + preRespect
)

var (
	codasCommon      = []rune{'ㅂ', 'ㅆ', 'ㄹ', 'ㄴ', 'ㅁ'}
	codasContraction = []rune{'ㅆ', 'ㄹ', 'ㅁ'}
	codasNoPast      = []rune{'ㅂ', 'ㄹ', 'ㄴ', 'ㅁ'}

	// Surfaces more likely to be adjective forms; dropped from verbs.
	verbExclusions = []string{"아니", "입", "입니", "나는"}
)

// syl composes one syllable. Inputs come from a decomposed syllable or
// fixed jamo, so composition cannot fail for valid stems.
func syl(onset, vowel, coda rune) string {
	r, ok := hangul.Compose(onset, vowel, coda)
	if !ok {
		return ""
	}
	return string(r)
}

func glue(head string, tails string) []string {
	out := make([]string, 0, utf8.RuneCountInString(tails))
	for _, r := range tails {
		out = append(out, head+string(r))
	}
	return out
}

func withCodas(onset, vowel rune, codas []rune) []string {
	out := make([]string, 0, len(codas))
	for _, c := range codas {
		out = append(out, syl(onset, vowel, c))
	}
	return out
}

// Conjugate expands a predicate stem (the lemma without 다, e.g. 만들 for
// 만들다) into the surface forms the parser should recognise as the
// predicate token: contracted and irregular stems plus stems fused with
// a following pre-ending syllable. The result is sorted and free of
// duplicates. Non-Hangul stems yield nil.
func Conjugate(stem string, adjective bool) []string {
	last, size := utf8.DecodeLastRuneInString(stem)
	c, ok := hangul.Decompose(last)
	if !ok {
		return nil
	}
	init := stem[:len(stem)-size]
	l := string(last)
	o, v, coda := c.Onset, c.Vowel, c.Coda
	none := coda == hangul.NoCoda

	var tails []string
	switch {
	case o == 'ㅎ' && v == 'ㅏ' && none: // 하다
		tails = conjugateHa(l, adjective)
	case v == 'ㅗ' && none: // 쏘다
		tails = slices.Concat(
			glue(l, preVowel+preNo+preA+preNeun),
			withCodas(o, 'ㅗ', codasNoPast),
			[]string{syl(o, 'ㅘ', hangul.NoCoda), syl(o, 'ㅘ', 'ㅆ'), l},
		)
	case v == 'ㅜ' && none: // 맞추다, 겨누다, 재우다
		tails = slices.Concat(
			glue(l, preVowel+preEo+preNo+preNeun),
			withCodas(o, 'ㅜ', codasNoPast),
			[]string{syl(o, 'ㅝ', hangul.NoCoda), syl(o, 'ㅝ', 'ㅆ'), l},
		)
	case v == 'ㅡ' && none: // 치르다, 뜨다, 모으다
		tails = slices.Concat(
			glue(l, preNo+preNeun),
			withCodas(o, 'ㅡ', codasNoPast),
			euForms(o, l),
		)
	case o == 'ㄱ' && v == 'ㅟ' && none: // 사귀다
		tails = slices.Concat(
			glue(l, preNo+preNeun),
			withCodas('ㄱ', 'ㅟ', codasNoPast),
			[]string{syl('ㄱ', 'ㅕ', hangul.NoCoda), syl('ㄱ', 'ㅕ', 'ㅆ'), l},
		)
	case v == 'ㅟ' && none: // 쥐다
		tails = slices.Concat(
			withCodas(o, 'ㅟ', codasNoPast),
			glue(l, preNo+preNeun),
			[]string{l},
		)
	case v == 'ㅣ' && none: // 마시다, 치다, 이다
		tails = slices.Concat(
			withCodas(o, 'ㅣ', codasNoPast),
			glue(l, preEo+preNo+preNeun),
			[]string{syl(o, 'ㅣ', 'ㅂ') + "니", syl(o, 'ㅕ', hangul.NoCoda), syl(o, 'ㅕ', 'ㅆ'), l},
		)
	case (v == 'ㅞ' || v == 'ㅚ' || v == 'ㅙ') && none: // 꿰다, 꾀다
		tails = slices.Concat(
			glue(l, preNo+preNeun),
			withCodas(o, v, codasCommon),
			[]string{l},
		)
	case none: // 서다, 켜다, 세다, 캐다, 차다
		tails = slices.Concat(
			withCodas(o, v, codasCommon),
			glue(l, preVowel+preHae+preNo+preNeun),
			[]string{l},
		)
	case coda == 'ㄹ' && ((o == 'ㅁ' && v == 'ㅓ') || v == 'ㅡ' || v == 'ㅏ' || v == 'ㅜ'): // 만들다, 알다, 풀다
		open := syl(o, v, hangul.NoCoda)
		tails = slices.Concat(
			glue(l, preEo+preReo),
			glue(open, preNo+preNeun+preRespect),
			[]string{syl(o, v, 'ㄻ'), syl(o, v, 'ㄴ'), l},
		)
	case v == 'ㅏ' && coda == 'ㅅ': // 낫다, 빼앗다
		tails = slices.Concat(
			glue(l, preNo+preNeun),
			glue(syl(o, 'ㅏ', hangul.NoCoda), preEu+preEun),
			[]string{l},
		)
	case o == 'ㅁ' && v == 'ㅜ' && coda == 'ㄷ': // 묻다
		tails = slices.Concat(
			glue(l, preNo+preNeun),
			[]string{syl('ㅁ', 'ㅜ', 'ㄹ'), l},
		)
	case v == 'ㅜ' && coda == 'ㄷ': // 붇다
		tails = slices.Concat(
			glue(l, preNo+preNeun),
			glue(syl(o, 'ㅜ', hangul.NoCoda), preEo+preWo+preEu+preEun),
			[]string{syl(o, 'ㅜ', 'ㄹ'), l},
		)
	case v == 'ㅜ' && coda == 'ㅂ': // 눕다
		tails = slices.Concat(
			glue(l, preNo+preNeun),
			glue(syl(o, 'ㅜ', hangul.NoCoda), preWo+preEu+preEun),
			[]string{l},
		)
	case v == 'ㅓ' && coda == 'ㅂ' && adjective: // 간지럽다, 갑작스럽다
		open := syl(o, 'ㅓ', hangul.NoCoda)
		tails = slices.Concat(
			glue(open, preWo+preUn),
			[]string{open, syl(o, 'ㅓ', 'ㄴ'), l},
		)
	case coda == 'ㅂ' && adjective: // 아름답다
		open := syl(o, v, hangul.NoCoda)
		tails = slices.Concat(glue(open, preWo+preUn), []string{open, l})
	case v == 'ㅗ' && coda == 'ㅎ': // 놓다
		tails = slices.Concat(
			glue(l, preNo+preNeun),
			withCodas(o, 'ㅗ', codasCommon),
			[]string{syl(o, 'ㅘ', hangul.NoCoda), syl(o, 'ㅗ', hangul.NoCoda), l},
		)
	case coda == 'ㅎ' && adjective: // 파랗다, 퍼렇다, 어떻다
		tails = slices.Concat(
			withCodas(o, v, codasCommon),
			withCodas(o, 'ㅐ', codasContraction),
			[]string{syl(o, 'ㅐ', hangul.NoCoda), syl(o, v, hangul.NoCoda), l},
		)
	case init == "" || (adjective && coda == 'ㅆ'): // 있다, 컸다
		tails = slices.Concat(
			glue(l, preCommon+preEo+preA+preNo+preEu+preEun+preNeun),
			[]string{l},
		)
	default: // 부여잡다, 얻어먹다
		tails = []string{l}
	}

	forms := make([]string, 0, len(tails))
	for _, t := range tails {
		if t != "" {
			forms = append(forms, init+t)
		}
	}
	forms = append(forms, reuIrregular(init, last, o)...)

	if !adjective {
		forms = slices.DeleteFunc(forms, func(s string) bool {
			return slices.Contains(verbExclusions, s)
		})
	}
	slices.Sort(forms)
	return slices.Compact(forms)
}

func conjugateHa(l string, adjective bool) []string {
	endings := []string{"합", "해"}
	if adjective {
		endings = append(endings, "히", "하")
	}
	var fused []string
	for _, c := range codasCommon {
		if c == 'ㅆ' {
			fused = append(fused, syl('ㅎ', 'ㅐ', c))
		} else {
			fused = append(fused, syl('ㅎ', 'ㅏ', c))
		}
	}
	return slices.Concat(
		glue(l, preCommon+preNo+preNeun+preRespect),
		fused,
		glue("하", preVowel+preYeo+preNeun),
		glue("해", preHae),
		endings,
	)
}

// euForms are the ㅡ-dropping contractions of a stem ending in onset+ㅡ.
func euForms(o rune, l string) []string {
	return []string{
		syl(o, 'ㅝ', hangul.NoCoda), syl(o, 'ㅓ', hangul.NoCoda), syl(o, 'ㅏ', hangul.NoCoda),
		syl(o, 'ㅝ', 'ㅆ'), syl(o, 'ㅓ', 'ㅆ'), syl(o, 'ㅏ', 'ㅆ'),
		l,
	}
}

// reuIrregular expands the 르 irregular (고르다 -> 골라, 골랐). The
// syllable before 르 gains a ㄹ coda.
func reuIrregular(init string, last, o rune) []string {
	if last != '르' || init == "" {
		return nil
	}
	prev, size := utf8.DecodeLastRuneInString(init)
	pc, ok := hangul.Decompose(prev)
	if !ok || pc.HasCoda() {
		return nil
	}
	head := init[:len(init)-size] + syl(pc.Onset, pc.Vowel, 'ㄹ')
	tails := slices.Concat(
		glue(string(last), preNo+preNeun),
		withCodas(o, 'ㅡ', codasNoPast),
		euForms(o, string(last)),
	)
	out := make([]string, 0, len(tails))
	for _, t := range tails {
		out = append(out, head+t)
	}
	return out
}

// ConjugateAll expands every stem and maps each surface to its lemma
// (stem + 다). When two stems share a surface the earlier stem wins.
func ConjugateAll(stems []string, adjective bool) map[string]string {
	out := make(map[string]string)
	for _, stem := range stems {
		stem = strings.TrimSpace(stem)
		lemma := stem + "다"
		for _, s := range Conjugate(stem, adjective) {
			if _, dup := out[s]; !dup {
				out[s] = lemma
			}
		}
	}
	return out
}
