// Package discovery filters, sorts and paginates campaigns for browsing.
//
// Everything here is a pure function of its inputs. FilterState is an
// immutable value: each action returns a new state and never mutates the
// receiver, so callers can recompute results on every keystroke.
package discovery

import (
	"encoding/json"
	"math"
	"slices"

	"github.com/mmynk/seedfund/internal/models"
)

// SortKey selects the campaign ordering.
type SortKey string

const (
	SortNewest  SortKey = "newest"
	SortRaised  SortKey = "raised"
	SortGoal    SortKey = "goal"
	SortBackers SortKey = "backers"
)

// SortKeys lists the accepted sort keys.
var SortKeys = []SortKey{SortNewest, SortRaised, SortGoal, SortBackers}

// Valid reports whether k is an accepted sort key.
func (k SortKey) Valid() bool {
	return slices.Contains(SortKeys, k)
}

// FundingRange bounds the amount raised, inclusive on both ends.
type FundingRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// FullFundingRange matches every campaign.
var FullFundingRange = FundingRange{Min: 0, Max: math.MaxInt64}

// FilterState is the complete set of browse criteria.
type FilterState struct {
	Search     string            `json:"search,omitempty"`
	Categories []models.Category `json:"categories,omitempty"`
	Stages     []models.Stage    `json:"stages,omitempty"`
	Funding    FundingRange      `json:"funding,omitzero"`
	SortBy     SortKey           `json:"sortBy,omitempty"`
}

// UnmarshalJSON decodes onto DefaultFilters, so omitted fields keep their
// defaults. A zero funding range means unbounded.
func (f *FilterState) UnmarshalJSON(data []byte) error {
	type wire FilterState
	w := wire(DefaultFilters())
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Funding == (FundingRange{}) {
		w.Funding = FullFundingRange
	}
	if w.SortBy == "" {
		w.SortBy = SortNewest
	}
	*f = FilterState(w)
	return nil
}

// DefaultFilters returns the cleared state.
func DefaultFilters() FilterState {
	return FilterState{
		Funding: FullFundingRange,
		SortBy:  SortNewest,
	}
}

// NewFilterState returns the default state with an optional preselected
// category, as supplied by a deep link. ClearFilters does not restore it.
func NewFilterState(initial models.Category) FilterState {
	f := DefaultFilters()
	if initial != "" {
		f.Categories = []models.Category{initial}
	}
	return f
}

// SetSearch replaces the title search text.
func (f FilterState) SetSearch(text string) FilterState {
	f = f.clone()
	f.Search = text
	return f
}

// ToggleCategory deselects cat if it is selected and otherwise makes it the
// only selected category. Categories are single-select, unlike stages.
func (f FilterState) ToggleCategory(cat models.Category) FilterState {
	f = f.clone()
	if slices.Contains(f.Categories, cat) {
		f.Categories = slices.DeleteFunc(f.Categories, func(c models.Category) bool { return c == cat })
		return f
	}
	f.Categories = []models.Category{cat}
	return f
}

// ToggleStage adds stage to the selection, or removes it if present.
func (f FilterState) ToggleStage(stage models.Stage) FilterState {
	f = f.clone()
	if slices.Contains(f.Stages, stage) {
		f.Stages = slices.DeleteFunc(f.Stages, func(s models.Stage) bool { return s == stage })
		return f
	}
	f.Stages = append(f.Stages, stage)
	return f
}

// SetFundingRange replaces the raised-amount bounds. The bounds are stored
// as given; Match normalizes an inverted range.
func (f FilterState) SetFundingRange(min, max int64) FilterState {
	f = f.clone()
	f.Funding = FundingRange{Min: min, Max: max}
	return f
}

// SetSortBy replaces the sort key.
func (f FilterState) SetSortBy(key SortKey) FilterState {
	f = f.clone()
	f.SortBy = key
	return f
}

// ClearFilters resets every criterion to its default.
func (f FilterState) ClearFilters() FilterState {
	return DefaultFilters()
}

// Active reports whether any criterion differs from the defaults.
func (f FilterState) Active() bool {
	return f.Search != "" || len(f.Categories) > 0 || len(f.Stages) > 0 ||
		f.Funding != FullFundingRange || f.SortBy != SortNewest
}

func (f FilterState) clone() FilterState {
	f.Categories = slices.Clone(f.Categories)
	f.Stages = slices.Clone(f.Stages)
	return f
}
