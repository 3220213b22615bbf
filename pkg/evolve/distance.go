package evolve

import (
	"context"
	"strconv"
	"unicode/utf8"

	"github.com/XiaoConstantine/textevolve/pkg/cache"
)

// Metric names a distance variant used for fitness evaluation.
type Metric string

const (
	// MetricLevenshtein is the default flat-cost distance.
	MetricLevenshtein Metric = "levenshtein"

	// MetricWeighted charges a mismatch the absolute difference of the two
	// symbols' code points instead of a flat 1.
	MetricWeighted Metric = "weighted"
)

// Distancer computes a similarity cost between two symbol sequences,
// memoizing results for repeated subsequence comparisons.
//
// The recursion is deliberately NOT the textbook dynamic-programming edit
// distance: on a symbol mismatch both prefixes advance together, so the
// case where a substitution beats a forced delete+insert is never
// considered. Callers must not assume metric properties such as the
// triangle inequality. Convergence behavior of the evolution loop depends
// on these exact semantics.
type Distancer struct {
	metric Metric
	memo   cache.Cache
}

// NewDistancer creates a distancer over the given memo backend.
func NewDistancer(metric Metric, memo cache.Cache) *Distancer {
	if metric == "" {
		metric = MetricLevenshtein
	}
	return &Distancer{metric: metric, memo: memo}
}

// Distance returns the cost of transforming a into b. It is a pure,
// symmetric, total function of the pair: Distance(a, b) == Distance(b, a)
// and Distance(x, x) == 0.
func (d *Distancer) Distance(ctx context.Context, a, b string) int {
	key := d.memoKey(a, b)
	if raw, found, err := d.memo.Get(ctx, key); err == nil && found {
		if value, convErr := strconv.Atoi(string(raw)); convErr == nil {
			return value
		}
	}

	var result int
	switch {
	case a == b:
		result = 0
	case len(a) == 0 || len(b) == 0:
		result = utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	default:
		headA, sizeA := utf8.DecodeRuneInString(a)
		headB, sizeB := utf8.DecodeRuneInString(b)

		result = d.Distance(ctx, a[sizeA:], b[sizeB:])
		if headA != headB {
			result += d.mismatchCost(headA, headB)
		}
	}

	// A backend write failure only costs recomputation later.
	_ = d.memo.Set(ctx, key, []byte(strconv.Itoa(result)))

	return result
}

// memoKey namespaces the pair key by metric: flat and weighted distances
// for the same pair are different values and must never share an entry,
// especially in a backend that outlives one run.
func (d *Distancer) memoKey(a, b string) string {
	return string(d.metric) + "\x00" + cache.PairKey(a, b)
}

func (d *Distancer) mismatchCost(a, b rune) int {
	if d.metric == MetricWeighted {
		cost := int(a) - int(b)
		if cost < 0 {
			cost = -cost
		}
		return cost
	}
	return 1
}
