package wishlist

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/osse101/storefront/internal/domain"
)

// Query narrows and orders a wishlist listing
type Query struct {
	Filter string `json:"q" validate:"max=200"`
	Sort   string `json:"sort" validate:"omitempty,oneof=newest oldest price_asc price_desc"`
}

// Apply returns the entries matching q in q's order. entries is not modified.
func (q Query) Apply(entries []domain.WishlistEntry) []domain.WishlistEntry {
	out := make([]domain.WishlistEntry, 0, len(entries))
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(q.Filter))
	for _, e := range entries {
		if needle == "" ||
			strings.Contains(fold.String(e.Title), needle) ||
			strings.Contains(fold.String(e.Seller), needle) {
			out = append(out, e)
		}
	}

	switch q.Sort {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].AddedAt.Before(out[j].AddedAt) })
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	}
	return out
}
