package matcher

import (
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	// MaxEditDistance is the largest Levenshtein distance still accepted as correct.
	MaxEditDistance = 1

	// MaxLengthGap is the largest rune-length difference for which the edit
	// distance is computed at all.
	MaxLengthGap = 2

	// variantSeparators split an expected definition into accepted variants.
	variantSeparators = ",;/"

	// infinitiveParticle is stripped from the front of variants and answers.
	infinitiveParticle = "to "
)

// Matcher is the answer checker used by review sessions.
type Matcher struct{}

// New returns a Matcher.
func New() Matcher {
	return Matcher{}
}

// Matches implements the review session's answer check.
func (Matcher) Matches(answer, expected string) bool {
	return Matches(answer, expected)
}

// Matches reports whether answer is accepted for expected. Both sides are
// trimmed and case folded; expected is split into variants on ',', ';' and
// '/'; a leading "to " is ignored; one insertion, deletion or substitution is
// tolerated.
func Matches(answer, expected string) bool {
	a := normalize(answer)
	e := normalize(expected)
	if a == e {
		return true
	}

	bare := stripParticle(a)
	for _, variant := range splitVariants(e) {
		v := stripParticle(variant)
		if a == variant || a == v || bare == v {
			return true
		}
		if closeEnough(a, v) || closeEnough(bare, v) {
			return true
		}
	}
	return false
}

// Variants returns the accepted variants of expected in their original
// spelling, trimmed, with empty entries dropped.
func Variants(expected string) []string {
	fields := strings.FieldsFunc(expected, isSeparator)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func normalize(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

func splitVariants(normalized string) []string {
	return Variants(normalized)
}

func isSeparator(r rune) bool {
	return strings.ContainsRune(variantSeparators, r)
}

func stripParticle(s string) string {
	if rest, ok := strings.CutPrefix(s, infinitiveParticle); ok {
		if rest = strings.TrimSpace(rest); rest != "" {
			return rest
		}
	}
	return s
}

func closeEnough(answer, variant string) bool {
	if answer == "" || variant == "" {
		return false
	}
	gap := utf8.RuneCountInString(answer) - utf8.RuneCountInString(variant)
	if gap < 0 {
		gap = -gap
	}
	if gap > MaxLengthGap {
		return false
	}
	return levenshtein.Distance(answer, variant, nil) <= MaxEditDistance
}
