package discovery

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/mmynk/seedfund/internal/models"
)

func campaign(id string, mutate func(*models.Campaign)) *models.Campaign {
	c := &models.Campaign{
		ID:          id,
		Title:       "Campaign " + id,
		Category:    models.CategoryTechnology,
		Stage:       models.StageIdea,
		FundingGoal: 1000,
	}
	if mutate != nil {
		mutate(c)
	}
	return c
}

func ids(campaigns []*models.Campaign) []string {
	out := make([]string, len(campaigns))
	for i, c := range campaigns {
		out[i] = c.ID
	}
	return out
}

func TestMatch(t *testing.T) {
	c := campaign("a", func(c *models.Campaign) {
		c.Title = "Solar Co"
		c.Category = models.CategoryEnergy
		c.Stage = models.StagePrototype
		c.AmountRaised = 250
	})

	tests := []struct {
		name   string
		filter FilterState
		want   bool
	}{
		{"defaults match", DefaultFilters(), true},
		{"case-insensitive search", DefaultFilters().SetSearch("sOLAR"), true},
		{"search misses", DefaultFilters().SetSearch("wind"), false},
		{"search ignores description", DefaultFilters().SetSearch("Rooftop"), false},
		{"category match", DefaultFilters().ToggleCategory(models.CategoryEnergy), true},
		{"category miss", DefaultFilters().ToggleCategory(models.CategoryFinance), false},
		{"stage match among several", DefaultFilters().ToggleStage(models.StageIdea).ToggleStage(models.StagePrototype), true},
		{"stage miss", DefaultFilters().ToggleStage(models.StageGrowth), false},
		{"range inclusive min", DefaultFilters().SetFundingRange(250, 300), true},
		{"range inclusive max", DefaultFilters().SetFundingRange(0, 250), true},
		{"below range", DefaultFilters().SetFundingRange(251, 300), false},
		{"inverted range is swapped", DefaultFilters().SetFundingRange(300, 200), true},
		{"inverted range still excludes", DefaultFilters().SetFundingRange(200, 100), false},
		{"negative min clamps to zero", DefaultFilters().SetFundingRange(-50, 250), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(c, tt.filter); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortByGoalDescending(t *testing.T) {
	campaigns := []*models.Campaign{
		campaign("a", func(c *models.Campaign) { c.FundingGoal = 500 }),
		campaign("b", func(c *models.Campaign) { c.FundingGoal = 1000 }),
		campaign("c", func(c *models.Campaign) { c.FundingGoal = 250 }),
	}

	got := Apply(campaigns, DefaultFilters().SetSortBy(SortGoal))

	want := []int64{1000, 500, 250}
	for i, c := range got {
		if c.FundingGoal != want[i] {
			t.Errorf("position %d goal = %d, want %d", i, c.FundingGoal, want[i])
		}
	}
}

func TestSortOrders(t *testing.T) {
	campaigns := []*models.Campaign{
		campaign("old-rich", func(c *models.Campaign) { c.CreatedAt = 100; c.AmountRaised = 900; c.Backers = 5 }),
		campaign("new-poor", func(c *models.Campaign) { c.CreatedAt = 300; c.AmountRaised = 10; c.Backers = 50 }),
		campaign("mid", func(c *models.Campaign) { c.CreatedAt = 200; c.AmountRaised = 500; c.Backers = 1 }),
	}

	tests := []struct {
		key  SortKey
		want string
	}{
		{SortNewest, "[new-poor mid old-rich]"},
		// raised orders by creation time, not amount raised
		{SortRaised, "[new-poor mid old-rich]"},
		// backers orders ascending
		{SortBackers, "[mid old-rich new-poor]"},
		{SortKey("bogus"), "[new-poor mid old-rich]"},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got := fmt.Sprint(ids(Apply(campaigns, DefaultFilters().SetSortBy(tt.key))))
			if got != tt.want {
				t.Errorf("sort %q = %s, want %s", tt.key, got, tt.want)
			}
		})
	}
}

func TestSortIsStable(t *testing.T) {
	campaigns := []*models.Campaign{
		campaign("1", func(c *models.Campaign) { c.CreatedAt = 5 }),
		campaign("2", func(c *models.Campaign) { c.CreatedAt = 5 }),
		campaign("3", func(c *models.Campaign) { c.CreatedAt = 5 }),
	}
	if got := fmt.Sprint(ids(Apply(campaigns, DefaultFilters()))); got != "[1 2 3]" {
		t.Errorf("ties reordered: %s", got)
	}
}

func TestApplyIsSubsetAndPure(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	var campaigns []*models.Campaign
	for i := range 60 {
		campaigns = append(campaigns, campaign(fmt.Sprint(i), func(c *models.Campaign) {
			c.Category = models.Categories[r.IntN(len(models.Categories))]
			c.Stage = models.Stages[r.IntN(len(models.Stages))]
			c.AmountRaised = r.Int64N(1000)
			c.Backers = r.IntN(100)
			c.CreatedAt = r.Int64N(1000)
		}))
	}
	before := fmt.Sprint(ids(campaigns))

	filters := []FilterState{
		DefaultFilters(),
		DefaultFilters().ToggleCategory(models.CategoryEnergy),
		DefaultFilters().ToggleStage(models.StageGrowth).ToggleStage(models.StageIdea).SetSortBy(SortBackers),
		DefaultFilters().SetFundingRange(800, 200).SetSortBy(SortGoal),
		DefaultFilters().SetSearch("1"),
	}

	known := make(map[*models.Campaign]bool, len(campaigns))
	for _, c := range campaigns {
		known[c] = true
	}

	for _, f := range filters {
		for _, c := range Apply(campaigns, f) {
			if !known[c] {
				t.Fatalf("Apply returned campaign %s not in input", c.ID)
			}
			if !Match(c, f) {
				t.Errorf("Apply returned non-matching campaign %s for %+v", c.ID, f)
			}
		}
	}

	if after := fmt.Sprint(ids(campaigns)); after != before {
		t.Error("Apply reordered its input")
	}
}
