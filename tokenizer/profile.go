package tokenizer

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/az-ai-labs/ko-lang-nlp/pos"
)

// Profile holds the weights of the candidate scoring function. Lower scores
// win. A Profile is read-only once passed to the tokenizer; use
// WithSpaceGuide to derive a guided copy.
type Profile struct {
	TokenCount           float64     `yaml:"token_count" json:"token_count"`
	Unknown              float64     `yaml:"unknown" json:"unknown"`
	WordCount            float64     `yaml:"word_count" json:"word_count"`
	Freq                 float64     `yaml:"freq" json:"freq"`
	UnknownCoverage      float64     `yaml:"unknown_coverage" json:"unknown_coverage"`
	ExactMatch           float64     `yaml:"exact_match" json:"exact_match"`
	AllNoun              float64     `yaml:"all_noun" json:"all_noun"`
	UnknownPosCount      float64     `yaml:"unknown_pos_count" json:"unknown_pos_count"`
	DeterminerPosCount   float64     `yaml:"determiner_pos_count" json:"determiner_pos_count"`
	ExclamationPosCount  float64     `yaml:"exclamation_pos_count" json:"exclamation_pos_count"`
	InitialPostPosition  float64     `yaml:"initial_post_position" json:"initial_post_position"`
	HaVerb               float64     `yaml:"ha_verb" json:"ha_verb"`
	PreferredPattern     float64     `yaml:"preferred_pattern" json:"preferred_pattern"`
	PreferredPatterns    [][]pos.Tag `yaml:"preferred_patterns" json:"preferred_patterns"`
	SpaceGuidePenalty    float64     `yaml:"space_guide_penalty" json:"space_guide_penalty"`
	JosaUnmatchedPenalty float64     `yaml:"josa_unmatched_penalty" json:"josa_unmatched_penalty"`

	spaceGuide map[int]struct{}
}

// DefaultProfile returns the stock weights.
func DefaultProfile() *Profile {
	return &Profile{
		TokenCount:           0.18,
		Unknown:              0.3,
		WordCount:            0.3,
		Freq:                 0.2,
		UnknownCoverage:      0.5,
		ExactMatch:           0.5,
		AllNoun:              0.1,
		UnknownPosCount:      10.0,
		DeterminerPosCount:   -0.01,
		ExclamationPosCount:  0.01,
		InitialPostPosition:  0.2,
		HaVerb:               0.3,
		PreferredPattern:     0.6,
		PreferredPatterns:    [][]pos.Tag{{pos.Noun, pos.Josa}, {pos.ProperNoun, pos.Josa}},
		SpaceGuidePenalty:    3.0,
		JosaUnmatchedPenalty: 3.0,
	}
}

// WithSpaceGuide returns a copy of p whose space guide is offsets: rune
// positions in the input where a word is expected to begin. Tokens that
// are not bound morphemes and start elsewhere are penalised.
func (p *Profile) WithSpaceGuide(offsets []int) *Profile {
	cp := *p
	cp.PreferredPatterns = slices.Clone(p.PreferredPatterns)
	cp.spaceGuide = make(map[int]struct{}, len(offsets))
	for _, o := range offsets {
		cp.spaceGuide[o] = struct{}{}
	}
	return &cp
}

// SpaceGuide returns the sorted space guide offsets.
func (p *Profile) SpaceGuide() []int {
	return slices.Sorted(maps.Keys(p.spaceGuide))
}

func (p *Profile) hasSpaceGuide() bool {
	return len(p.spaceGuide) > 0
}

func (p *Profile) inSpaceGuide(offset int) bool {
	_, ok := p.spaceGuide[offset]
	return ok
}

func (p *Profile) isPreferred(a, b pos.Tag) bool {
	for _, pat := range p.PreferredPatterns {
		if len(pat) == 2 && pat[0] == a && pat[1] == b {
			return true
		}
	}
	return false
}

// fingerprint identifies the weights for cache keys. The space guide is
// not part of it; guided profiles bypass the cache.
func (p *Profile) fingerprint() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%g|%g|%g|%g|%g|%g|%g|%g|%g|%g|%g|%g|%g|%g|%g",
		p.TokenCount, p.Unknown, p.WordCount, p.Freq, p.UnknownCoverage,
		p.ExactMatch, p.AllNoun, p.UnknownPosCount, p.DeterminerPosCount,
		p.ExclamationPosCount, p.InitialPostPosition, p.HaVerb,
		p.PreferredPattern, p.SpaceGuidePenalty, p.JosaUnmatchedPenalty)
	for _, pat := range p.PreferredPatterns {
		sb.WriteByte('|')
		for _, t := range pat {
			fmt.Fprintf(&sb, "%d,", int(t))
		}
	}
	return sb.String()
}
