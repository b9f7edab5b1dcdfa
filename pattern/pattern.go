// Package pattern is the pure combinatorial pattern library: it maps a
// per-instance count vector to an ordering of instance indices, used
// downstream as the Euler-multigraph edge-insertion order (spec §4.1).
//
// Every function here is a pure function of its inputs; the exact
// order of emission is part of the contract (spec §8: "tests must pin
// it"), grounded token-for-token on original_source/Pattern.py.
package pattern

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Token is one position in a 2D pattern: either a real instance index
// or the dummy padding class ('d' in the literal syntax).
type Token struct {
	Dummy bool
	Index int
}

// Inst builds a real-instance Token.
func Inst(i int) Token { return Token{Index: i} }

// DummyToken is the sentinel dummy-class Token.
var DummyToken = Token{Dummy: true}

// String renders a Token the way the literal syntax spells it.
func (t Token) String() string {
	if t.Dummy {
		return "d"
	}
	return strconv.Itoa(t.Index)
}

// Clustered1D emits c[0] copies of class 0, then c[1] copies of class
// 1, and so on in input order (spec §4.1 "1D clustered").
func Clustered1D(c []int) []int {
	var out []int
	for i, n := range c {
		for k := 0; k < n; k++ {
			out = append(out, i)
		}
	}
	return out
}

// SimpleInterdigitated1D round-robins through classes in input order,
// emitting one token per class per round while that class still has
// remaining count (spec §4.1 "1D simple interdigitated").
func SimpleInterdigitated1D(c []int) []int {
	remaining := append([]int(nil), c...)
	maxCount := maxOf(c)

	var out []int
	for r := 0; r < maxCount; r++ {
		for i := range remaining {
			if remaining[i] > 0 {
				out = append(out, i)
				remaining[i]--
			}
		}
	}
	return out
}

// SortedInterdigitated1D is SimpleInterdigitated1D but visiting classes
// in descending-count order each round, stable on ties by original
// input order (spec §4.1 "1D sorted interdigitated").
func SortedInterdigitated1D(c []int) []int {
	order := descendingOrder(c)
	remaining := append([]int(nil), c...)
	maxCount := maxOf(c)

	var out []int
	for r := 0; r < maxCount; r++ {
		for _, i := range order {
			if remaining[i] > 0 {
				out = append(out, i)
				remaining[i]--
			}
		}
	}
	return out
}

// BalancedInterdigitated1D sorts classes descending by count, computes
// a per-class occurrence factor as round(prevCount/thisCount) (1 for
// the last/smallest class), and emits that many copies of each class
// per outer round until every class is exhausted (spec §4.1 "1D
// balanced interdigitated").
func BalancedInterdigitated1D(c []int) []int {
	order := descendingOrder(c)

	occur := make([]int, len(order))
	prev := 0
	for idx, i := range order {
		if idx != 0 {
			occur[idx-1] = roundDiv(prev, c[i])
		}
		prev = c[i]
	}
	if len(occur) > 0 {
		occur[len(occur)-1] = 1
	}

	remaining := append([]int(nil), c...)
	maxCount := maxOf(c)

	var out []int
	for r := 0; r < maxCount; r++ {
		for idx, i := range order {
			for k := 0; k < occur[idx]; k++ {
				if remaining[i] > 0 {
					out = append(out, i)
					remaining[i]--
				}
			}
		}
	}
	return out
}

// CommonCentroid1D splits each class's even count alternately into
// left/right buffers, then distributes a one-per-odd-class "odd pool"
// the same way, and returns left ++ reverse(right) (spec §4.1 "1D
// common-centroid", default policy: one token per odd class, per
// spec §9's "Symmetric pattern ambiguity" note).
func CommonCentroid1D(c []int) []int {
	even := append([]int(nil), c...)
	oddPool := make([]int, len(c))
	for i, n := range c {
		if n%2 != 0 {
			oddPool[i] = 1
			even[i] = n - 1
		}
	}

	var left, right []int
	toLeft := true
	for i, n := range even {
		for k := 0; k < n; k++ {
			if toLeft {
				left = append(left, i)
			} else {
				right = append(right, i)
			}
			toLeft = !toLeft
		}
	}
	// The odd pool restarts the left/right alternation from "left",
	// independent of where the even pass left off (matches the
	// original's two separate post="left" resets).
	toLeft = true
	for i, n := range oddPool {
		for k := 0; k < n; k++ {
			if toLeft {
				left = append(left, i)
			} else {
				right = append(right, i)
			}
			toLeft = !toLeft
		}
	}

	out := make([]int, 0, len(left)+len(right))
	out = append(out, left...)
	for i := len(right) - 1; i >= 0; i-- {
		out = append(out, right[i])
	}
	return out
}

// Clustered2D pads the clustered 1D order with dummy tokens so the
// total length is a multiple of row, then reshapes it row-major into
// row x col: each row takes the next col consecutive tokens off the
// flat sequence (spec §4.1 "2D clustered").
func Clustered2D(c []int, row int) ([][]Token, error) {
	if row < 1 {
		return nil, fmt.Errorf("pattern: Clustered2D: row must be >= 1, got %d", row)
	}

	total := sum(c)
	dummy := 0
	if total%row != 0 {
		dummy = row - (total % row)
	}

	flat := make([]Token, 0, total+dummy)
	for i, n := range c {
		for k := 0; k < n; k++ {
			flat = append(flat, Inst(i))
		}
	}
	for k := 0; k < dummy; k++ {
		flat = append(flat, DummyToken)
	}

	col := len(flat) / row
	out := make([][]Token, row)
	for r := range out {
		out[r] = make([]Token, col)
	}
	// Row-major reshape: flat[idx] lands at (idx / col, idx % col).
	for idx, tok := range flat {
		out[idx/col][idx%col] = tok
	}
	return out, nil
}

// literalPattern matches a custom 2D pattern string like "[01,d1]".
var literalPattern = regexp.MustCompile(`^\[.+\]$`)

// LooksLikeCustom2D reports whether s has the "[rows,...]" literal
// shape used to select the custom-2D pattern (spec §4.3).
func LooksLikeCustom2D(s string) bool {
	return literalPattern.MatchString(s)
}

// Custom2D parses a literal "[r0,r1,...]" where each ri is a digit
// string with 'd' marking a dummy; every character becomes one token
// (spec §4.1 "Custom 2D").
func Custom2D(literal string) ([][]Token, error) {
	trimmed := strings.Trim(literal, "][")
	if trimmed == "" {
		return nil, fmt.Errorf("pattern: Custom2D: empty literal %q", literal)
	}

	rows := strings.Split(trimmed, ",")
	out := make([][]Token, 0, len(rows))
	for _, row := range rows {
		tokens := make([]Token, 0, len(row))
		for _, ch := range row {
			if ch == 'd' {
				tokens = append(tokens, DummyToken)
				continue
			}
			if ch < '0' || ch > '9' {
				return nil, fmt.Errorf("pattern: Custom2D: invalid token %q in row %q", ch, row)
			}
			tokens = append(tokens, Inst(int(ch-'0')))
		}
		out = append(out, tokens)
	}
	return out, nil
}

// Flatten concatenates a 2D pattern's rows in order, dropping no
// tokens — used to turn a custom-2D literal into the single flat
// edge-insertion order a "mf" (single-row) topology needs, since the
// pattern library's 2D shape is otherwise only meaningful per-row for
// "mp" topologies (see topology package and DESIGN.md).
func Flatten(p [][]Token) []Token {
	var out []Token
	for _, row := range p {
		out = append(out, row...)
	}
	return out
}

func maxOf(c []int) int {
	m := 0
	for _, n := range c {
		if n > m {
			m = n
		}
	}
	return m
}

func sum(c []int) int {
	s := 0
	for _, n := range c {
		s += n
	}
	return s
}

// roundDiv implements Python 3's round() of a/b: ratios of integer
// counts can land exactly on .5 (e.g. 3/2), and those round half to
// even, as Python 3 does.
func roundDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	q := float64(a) / float64(b)
	f := int(q)
	diff := q - float64(f)
	switch {
	case diff < 0.5:
		return f
	case diff > 0.5:
		return f + 1
	default:
		// exactly .5: round to even, matching Python 3 round().
		if f%2 == 0 {
			return f
		}
		return f + 1
	}
}

// descendingOrder returns class indices sorted by descending count,
// stable on ties (original input order preserved among equal counts).
func descendingOrder(c []int) []int {
	idx := make([]int, len(c))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return c[idx[a]] > c[idx[b]]
	})
	return idx
}
