// Package similarity scores lexical closeness of two text spans on a 0-100
// scale using the token-set ratio.
package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// TokenSetRatio compares the unique tokens of a and b. Shared tokens are
// sorted and joined, each side's leftover tokens are appended, and the best
// pairwise Ratio of the three reconstructions is returned.
func TokenSetRatio(a, b string) int {
	if a == b && strings.TrimSpace(a) != "" {
		return 100
	}
	p1, p2 := Process(a), Process(b)
	if p1 == "" || p2 == "" {
		return 0
	}
	t1, t2 := tokenSet(p1), tokenSet(p2)

	sect := make([]string, 0, len(t1))
	only1 := make([]string, 0, len(t1))
	for tok := range t1 {
		if _, ok := t2[tok]; ok {
			sect = append(sect, tok)
		} else {
			only1 = append(only1, tok)
		}
	}
	only2 := make([]string, 0, len(t2))
	for tok := range t2 {
		if _, ok := t1[tok]; !ok {
			only2 = append(only2, tok)
		}
	}
	sort.Strings(sect)
	sort.Strings(only1)
	sort.Strings(only2)

	sorted := strings.Join(sect, " ")
	combined1 := strings.TrimSpace(sorted + " " + strings.Join(only1, " "))
	combined2 := strings.TrimSpace(sorted + " " + strings.Join(only2, " "))

	return max(
		Ratio(sorted, combined1),
		Ratio(sorted, combined2),
		Ratio(combined1, combined2),
	)
}

// Ratio is the normalized indel similarity 2*LCS/(len(a)+len(b)) scaled to
// 0-100 and rounded half to even.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	lcs := lcsLength(a, b)
	// Divide before scaling: fuzzywuzzy does, and 46/80*100 lands just
	// under 57.5.
	ratio := float64(2*lcs) / float64(len(a)+len(b))
	return int(math.RoundToEven(100 * ratio))
}

// Process drops non-ASCII characters, turns everything outside [A-Za-z0-9_]
// into spaces, lower-cases and trims.
func Process(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= utf8.RuneSelf {
			continue
		}
		c := byte(r)
		switch {
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_':
			b.WriteByte(c)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.TrimSpace(b.String())
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		out[f] = struct{}{}
	}
	return out
}

// lcsLength works on bytes; callers pass ASCII-only strings.
func lcsLength(a, b string) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
