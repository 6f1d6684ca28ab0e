package message

import (
	"log/slog"
	"math"
	"slices"
	"strings"
)

// rankCatchAll ranks a catch-all key below every candidate key.
const rankCatchAll = math.MaxInt

// selectPattern chooses the pattern of the best matching variant.
//
// Each selector is asked which of the keys used at its position match,
// most preferred first. Variants whose keys all match (or are catch-all)
// survive and are ordered by their per-position preference, the first
// selector dominating. Without survivors the all-catch-all variant is used.
func (c *call) selectPattern(m *SelectMessage) Pattern {
	limit := len(c.scope.slots)

	// ranks[i] maps a key at position i to its preference.
	ranks := make([]map[string]int, len(m.Selectors))

	for i, sel := range m.Selectors {
		v := c.eval(sel, limit)
		ranks[i] = map[string]int{}

		if v.Kind == KindFallback {
			continue
		}

		if !v.Selectable() {
			c.record(ErrBadSelector.At(v.Source).
				With(slog.String("kind", string(v.Kind))))

			continue
		}

		var keys []string
		if !c.guard(v.Source, func() { keys = v.SelectKeys(keysAt(m.Variants, i)) }) {
			continue
		}

		for rank, key := range keys {
			if _, dup := ranks[i][key]; !dup {
				ranks[i][key] = rank
			}
		}
	}

	type candidate struct {
		variant *Variant
		rank    []int
	}

	var matched []candidate

	for vi := range m.Variants {
		v := &m.Variants[vi]
		if len(v.Keys) != len(ranks) {
			continue
		}

		rank, ok := rankVariant(v.Keys, ranks)
		if ok {
			matched = append(matched, candidate{variant: v, rank: rank})
		}
	}

	slices.SortStableFunc(matched, func(a, b candidate) int {
		return slices.Compare(a.rank, b.rank)
	})

	if len(matched) > 0 {
		best := matched[0].variant

		c.log.TraceContext(c.ctx, "selected variant",
			slog.String("keys", keyString(best.Keys)),
			slog.Int("candidates", len(matched)),
		)

		return best.Value
	}

	c.record(ErrNoMatch.With(slog.Int("variants", len(m.Variants))))

	if v := catchAllVariant(m.Variants); v != nil {
		return v.Value
	}

	return nil
}

// rankVariant returns the preference vector of keys, or false when a key
// does not match its selector.
func rankVariant(keys []Key, ranks []map[string]int) ([]int, bool) {
	rank := make([]int, len(keys))

	for i, k := range keys {
		if k.CatchAll {
			rank[i] = rankCatchAll

			continue
		}

		r, ok := ranks[i][k.Value]
		if !ok {
			return nil, false
		}

		rank[i] = r
	}

	return rank, true
}

// keysAt returns the distinct literal keys used at position i, in variant
// order.
func keysAt(variants []Variant, i int) []string {
	seen := map[string]bool{}

	var keys []string

	for _, v := range variants {
		if i >= len(v.Keys) || v.Keys[i].CatchAll || seen[v.Keys[i].Value] {
			continue
		}

		seen[v.Keys[i].Value] = true
		keys = append(keys, v.Keys[i].Value)
	}

	return keys
}

func catchAllVariant(variants []Variant) *Variant {
	for i := range variants {
		if isCatchAll(variants[i].Keys) {
			return &variants[i]
		}
	}

	return nil
}

func isCatchAll(keys []Key) bool {
	return !slices.ContainsFunc(keys, func(k Key) bool { return !k.CatchAll })
}

func keyString(keys []Key) string {
	s := make([]string, len(keys))
	for i, k := range keys {
		s[i] = k.String()
	}

	return strings.Join(s, " ")
}
