package choices

import (
	"slices"
	"strings"

	"github.com/goliatone/go-storeadmin/pkg/client"
)

// Filter keeps the choices whose label contains query, ignoring case, and
// returns at most limit of them. Labels starting with the query come first,
// then the rest alphabetically. An empty query keeps the source order. The
// result is never nil.
func Filter(all []client.Choice, query string, limit int) []client.Choice {
	if limit <= 0 {
		return []client.Choice{}
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return append([]client.Choice{}, all[:min(limit, len(all))]...)
	}

	type ranked struct {
		choice client.Choice
		prefix bool
	}
	matches := make([]ranked, 0, len(all))
	for _, choice := range all {
		label := strings.ToLower(choice.Label)
		if strings.Contains(label, needle) {
			matches = append(matches, ranked{choice: choice, prefix: strings.HasPrefix(label, needle)})
		}
	}
	slices.SortStableFunc(matches, func(a, b ranked) int {
		if a.prefix != b.prefix {
			if a.prefix {
				return -1
			}
			return 1
		}
		return strings.Compare(a.choice.Label, b.choice.Label)
	})

	out := make([]client.Choice, 0, min(limit, len(matches)))
	for _, match := range matches[:min(limit, len(matches))] {
		out = append(out, match.choice)
	}
	return out
}
