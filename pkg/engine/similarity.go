package engine

import (
	"math"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// Similarity returns the lexical similarity of a and b on a 0-100 scale.
// Comparison is case-insensitive and character based (Ratcliff/Obershelp
// matching blocks). a is the query, b the candidate; callers must not rely
// on symmetry. Two empty strings score 100, one empty string scores 0.
//
// The popular-element heuristic is off: with it, long strings built from
// frequent characters would not score 100 against themselves.
func Similarity(a, b string) float64 {
	qa := splitChars(lower.String(a))
	qb := splitChars(lower.String(b))
	return difflib.NewMatcherWithJunk(qa, qb, false, nil).Ratio() * 100
}

func splitChars(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "")
}

// round2 rounds to two decimals, ties to even.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
