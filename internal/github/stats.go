package github

import "sort"

// LanguageShare is the number of repositories written primarily in Language.
type LanguageShare struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// LanguageBreakdown counts repositories per primary language and returns the
// top limit entries. Ties keep first-seen order.
func LanguageBreakdown(repos []Repository, limit int) []LanguageShare {
	index := make(map[string]int)
	shares := make([]LanguageShare, 0)

	for _, r := range repos {
		if r.Language == "" {
			continue
		}
		if i, ok := index[r.Language]; ok {
			shares[i].Count++
			continue
		}
		index[r.Language] = len(shares)
		shares = append(shares, LanguageShare{Language: r.Language, Count: 1})
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Count > shares[j].Count
	})

	if limit >= 0 && len(shares) > limit {
		shares = shares[:limit]
	}
	return shares
}

// TopStarred returns up to limit repositories ordered by stars, most first.
// The input slice is not modified.
func TopStarred(repos []Repository, limit int) []Repository {
	sorted := make([]Repository, len(repos))
	copy(sorted, repos)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Stars > sorted[j].Stars
	})

	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
