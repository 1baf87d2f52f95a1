package discovery

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/mmynk/seedfund/internal/models"
)

// Apply returns the campaigns matching f, ordered by f.SortBy. The input
// slice is not modified.
func Apply(campaigns []*models.Campaign, f FilterState) []*models.Campaign {
	m := newMatcher(f)
	out := make([]*models.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if m.match(c) {
			out = append(out, c)
		}
	}
	Sort(out, f.SortBy)
	return out
}

// Match reports whether c satisfies every criterion in f.
func Match(c *models.Campaign, f FilterState) bool {
	return newMatcher(f).match(c)
}

// Sort orders campaigns in place by key. Ties keep their input order.
//
// "raised" orders by creation time and "backers" orders ascending; both
// match the behavior the browse page has always shown.
func Sort(campaigns []*models.Campaign, key SortKey) {
	slices.SortStableFunc(campaigns, comparator(key))
}

func comparator(key SortKey) func(a, b *models.Campaign) int {
	switch key {
	case SortGoal:
		return func(a, b *models.Campaign) int { return cmp.Compare(b.FundingGoal, a.FundingGoal) }
	case SortBackers:
		return func(a, b *models.Campaign) int { return cmp.Compare(a.Backers, b.Backers) }
	default:
		// newest, raised and unknown keys
		return func(a, b *models.Campaign) int { return cmp.Compare(b.CreatedAt, a.CreatedAt) }
	}
}

type matcher struct {
	search     string
	fold       cases.Caser
	categories []models.Category
	stages     []models.Stage
	min, max   int64
}

func newMatcher(f FilterState) *matcher {
	fold := cases.Fold()
	lo, hi := normalizeRange(f.Funding)
	return &matcher{
		search:     fold.String(f.Search),
		fold:       fold,
		categories: f.Categories,
		stages:     f.Stages,
		min:        lo,
		max:        hi,
	}
}

func (m *matcher) match(c *models.Campaign) bool {
	if m.search != "" && !strings.Contains(m.fold.String(c.Title), m.search) {
		return false
	}
	if len(m.categories) > 0 && !slices.Contains(m.categories, c.Category) {
		return false
	}
	if len(m.stages) > 0 && !slices.Contains(m.stages, c.Stage) {
		return false
	}
	return c.AmountRaised >= m.min && c.AmountRaised <= m.max
}

// normalizeRange swaps an inverted range and clamps negative bounds to zero.
func normalizeRange(r FundingRange) (int64, int64) {
	lo, hi := r.Min, r.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	return max(lo, 0), max(hi, 0)
}
