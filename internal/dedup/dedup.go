package dedup

import (
	"sort"
	"strings"
	"unicode"

	"NewsCollector/internal/domain"
)

// Result is the outcome of filtering one batch.
type Result struct {
	Kept   []domain.NewsItem
	Merged int
	Known  int
}

// NormalizeTitle case-folds, strips punctuation and symbols, and collapses whitespace.
func NormalizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	space := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			continue
		case unicode.IsSpace(r):
			space = b.Len() > 0
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Filter merges in-batch duplicates and drops items already known to the store.
//
// Two items are duplicates when they share an id or a normalized title. The
// lower tier wins; equal tiers keep the first occurrence in batch order. Kept
// items preserve batch order.
func Filter(batch []domain.NewsItem, known domain.IdentitySet) Result {
	order := make([]int, len(batch))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return batch[order[a]].SourceTier < batch[order[b]].SourceTier
	})

	claimedIDs := make(map[string]struct{}, len(batch))
	claimedTitles := make(map[string]struct{}, len(batch))
	keep := make([]bool, len(batch))
	var res Result

	for _, i := range order {
		item := batch[i]
		title := NormalizeTitle(item.Title)

		_, idTaken := claimedIDs[item.ID]
		_, titleTaken := claimedTitles[title]
		duplicate := idTaken || (title != "" && titleTaken)

		// Losers still claim their keys so transitive duplicates collapse onto the winner.
		claimedIDs[item.ID] = struct{}{}
		if title != "" {
			claimedTitles[title] = struct{}{}
		}
		if duplicate {
			res.Merged++
			continue
		}
		keep[i] = true
	}

	for i, item := range batch {
		if !keep[i] {
			continue
		}
		if known.Contains(item) {
			res.Known++
			continue
		}
		res.Kept = append(res.Kept, item)
	}
	return res
}
