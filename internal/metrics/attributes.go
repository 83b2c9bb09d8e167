package metrics

import (
	"sort"
	"strings"
)

// PreferredAttributes lead the attribute order; the rest follow lexically.
var PreferredAttributes = []string{"gender", "race"}

// OrderAttributes returns the distinct, lowercased attribute names in
// display order. Empty names are dropped.
func OrderAttributes(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var rest []string
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		if !isPreferred(n) {
			rest = append(rest, n)
		}
	}
	sort.Strings(rest)

	out := make([]string, 0, len(seen))
	for _, p := range PreferredAttributes {
		if _, ok := seen[p]; ok {
			out = append(out, p)
		}
	}
	return append(out, rest...)
}

func isPreferred(name string) bool {
	for _, p := range PreferredAttributes {
		if p == name {
			return true
		}
	}
	return false
}
