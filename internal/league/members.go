package league

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// similarityThreshold is the minimum 1 - distance/length for a typo match
const similarityThreshold = 0.6

// FindMember looks a member up by team name, display name or user id.
// Exact case-insensitive matches win, then names containing the query's
// letters in order, then the closest name by edit distance.
func FindMember(members []Member, query string) (Member, bool) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Member{}, false
	}

	for _, m := range members {
		if strings.EqualFold(m.TeamName, q) || strings.EqualFold(m.DisplayName, q) || m.UserID == q {
			return m, true
		}
	}

	lower := strings.ToLower(q)

	type candidate struct {
		member   Member
		distance int
	}
	var contains []candidate
	for _, m := range members {
		best := -1
		for _, name := range []string{m.TeamName, m.DisplayName} {
			if name == "" || !fuzzy.MatchNormalizedFold(q, name) {
				continue
			}
			d := fuzzy.LevenshteinDistance(lower, strings.ToLower(name))
			if best == -1 || d < best {
				best = d
			}
		}
		if best >= 0 {
			contains = append(contains, candidate{member: m, distance: best})
		}
	}
	if len(contains) > 0 {
		sort.SliceStable(contains, func(i, j int) bool {
			return contains[i].distance < contains[j].distance
		})
		return contains[0].member, true
	}

	var bestMatch *Member
	bestSimilarity := similarityThreshold
	for i, m := range members {
		for _, name := range []string{m.TeamName, m.DisplayName} {
			if name == "" {
				continue
			}
			distance := fuzzy.LevenshteinDistance(lower, strings.ToLower(name))
			maxLen := float64(max(len(q), len(name)))
			similarity := 1 - float64(distance)/maxLen
			if similarity > bestSimilarity {
				bestSimilarity = similarity
				bestMatch = &members[i]
			}
		}
	}
	if bestMatch == nil {
		return Member{}, false
	}
	return *bestMatch, true
}
