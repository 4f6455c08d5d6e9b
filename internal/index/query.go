package index

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/TwigBush/indexgate/internal/types"
)

const (
	DefaultLimit = 20
	MaxLimit     = 1000
)

func contains[T comparable](list []T, v T) bool {
	return slices.Contains(list, v)
}

func matches(d *types.VerificationDashboardIndex, q types.VerificationIndexSearchRequest) bool {
	if len(q.BrandIDs) > 0 && (d.BrandID == nil || !contains(q.BrandIDs, *d.BrandID)) {
		return false
	}
	if len(q.Competitors) > 0 && !slices.ContainsFunc(d.Competitors, func(c string) bool { return contains(q.Competitors, c) }) {
		return false
	}
	if len(q.ProductType) > 0 && !contains(q.ProductType, d.ProductType) {
		return false
	}
	if len(q.SellerAvailabilities) > 0 && !sellerMatch(d, q.SellerAvailabilities) {
		return false
	}
	if len(q.PageviewBand) > 0 && (d.PageviewBand == nil || !contains(q.PageviewBand, *d.PageviewBand)) {
		return false
	}
	if len(q.Categories) > 0 && !categoryMatch(d, q.Categories) {
		return false
	}
	if q.IsFinishedVerifying != nil && finished(d) != *q.IsFinishedVerifying {
		return false
	}
	if q.IsPurchasable != nil && d.IsPurchasable != *q.IsPurchasable {
		return false
	}
	if q.ProductNameKeyword != nil && *q.ProductNameKeyword != "" &&
		!strings.Contains(strings.ToLower(d.ProductName), strings.ToLower(*q.ProductNameKeyword)) {
		return false
	}
	return true
}

func sellerMatch(d *types.VerificationDashboardIndex, want []string) bool {
	for _, w := range want {
		switch strings.ToUpper(w) {
		case "1P":
			if d.Is1PAvailable {
				return true
			}
		case "3P":
			if d.Is3PAvailable {
				return true
			}
		}
	}
	return false
}

func categoryMatch(d *types.VerificationDashboardIndex, want []int64) bool {
	if d.CategoryID != nil && contains(want, *d.CategoryID) {
		return true
	}
	return slices.ContainsFunc(d.CategoryIDs, func(c int64) bool { return contains(want, c) })
}

func finished(d *types.VerificationDashboardIndex) bool {
	return d.IsFinishedVerifying != nil && *d.IsFinishedVerifying
}

func pageviews(d *types.VerificationDashboardIndex) int64 {
	if d.PageviewL30D == nil {
		return 0
	}
	return *d.PageviewL30D
}

func compareBy(field string, a, b *types.VerificationDashboardIndex) int {
	switch field {
	case "price":
		return cmp.Compare(a.Price, b.Price)
	case "page_view":
		return cmp.Compare(pageviews(a), pageviews(b))
	case "created_at":
		return cmp.Compare(a.CreatedAt, b.CreatedAt)
	case "product_name":
		return cmp.Compare(a.ProductName, b.ProductName)
	}
	return 0
}

// query filters, sorts and pages docs. Ties fall back to id order so pages
// are stable.
func query(all []*types.VerificationDashboardIndex, q types.VerificationIndexSearchRequest) []types.VerificationDashboardIndex {
	hits := filter(all, q)
	slices.SortFunc(hits, func(a, b *types.VerificationDashboardIndex) int {
		for _, s := range q.Sort {
			c := compareBy(s.Field, a, b)
			if s.Order == types.SortDesc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID, b.ID)
	})

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)
	off := max(q.Offset, 0)
	if off >= len(hits) {
		return []types.VerificationDashboardIndex{}
	}
	end := min(off+limit, len(hits))

	out := make([]types.VerificationDashboardIndex, 0, end-off)
	for _, d := range hits[off:end] {
		out = append(out, clone(d))
	}
	return out
}

func filter(all []*types.VerificationDashboardIndex, q types.VerificationIndexSearchRequest) []*types.VerificationDashboardIndex {
	var hits []*types.VerificationDashboardIndex
	for _, d := range all {
		if matches(d, q) {
			hits = append(hits, d)
		}
	}
	return hits
}

// belongsTo reports whether d is one of the documents of the master
// product: its super id, or its own id when it has none.
func belongsTo(d *types.VerificationDashboardIndex, masterProductID int64) bool {
	if d.SuperID != nil {
		return *d.SuperID == masterProductID
	}
	return d.ID == strconv.FormatInt(masterProductID, 10)
}

func clone(d *types.VerificationDashboardIndex) types.VerificationDashboardIndex {
	c := *d
	c.ProductSKUs = slices.Clone(d.ProductSKUs)
	c.CategoryIDs = slices.Clone(d.CategoryIDs)
	c.Competitors = slices.Clone(d.Competitors)
	return c
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
