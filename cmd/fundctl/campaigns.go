package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/seedfund/internal/discovery"
	"github.com/mmynk/seedfund/internal/models"
)

func newCampaignsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "campaigns",
		Aliases: []string{"c"},
		Short:   "Browse published campaigns",
	}
	cmd.AddCommand(newListCmd(a), newGetCmd(a))
	return cmd
}

// listOptions mirror the browse page controls one flag per filter action.
type listOptions struct {
	search    string
	category  string
	stages    []string
	minRaised int64
	maxRaised int64
	sortBy    string
	page      int
	drafts    bool
}

func newListCmd(a *app) *cobra.Command {
	var opts *listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List campaigns matching filters",
		Example: `  fundctl campaigns list --category technology --stage idea --stage growth
  fundctl campaigns list --search solar --sort goal --page 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := opts.filters()
			if err != nil {
				return err
			}
			resp, err := a.client.ListCampaigns(cmd.Context(), filters, opts.page, opts.drafts)
			if err != nil {
				return fmt.Errorf("failed to list campaigns: %w", err)
			}
			printCampaignTable(cmd.OutOrStdout(), resp.Campaigns)
			fmt.Fprintf(cmd.OutOrStdout(), "\nPage %d of %d (%d campaigns)\n", resp.Page, resp.TotalPages, resp.TotalCount)
			return nil
		},
	}

	opts = addListFlags(cmd)
	return cmd
}

func addListFlags(cmd *cobra.Command) *listOptions {
	opts := &listOptions{}
	f := cmd.Flags()
	f.StringVarP(&opts.search, "search", "s", "", "case-insensitive match on title")
	f.StringVar(&opts.category, "category", "", "one of: "+joinValues(models.Categories))
	f.StringSliceVar(&opts.stages, "stage", nil, "repeatable; one of: "+joinValues(models.Stages))
	f.Int64Var(&opts.minRaised, "min-raised", 0, "smallest amount raised")
	f.Int64Var(&opts.maxRaised, "max-raised", math.MaxInt64, "largest amount raised")
	f.StringVar(&opts.sortBy, "sort", string(discovery.SortNewest), "one of: "+joinValues(discovery.SortKeys))
	f.IntVarP(&opts.page, "page", "p", 1, "1-based page number")
	f.BoolVar(&opts.drafts, "drafts", false, "include your unsubmitted campaigns")
	return opts
}

// filters replays the flags as filter actions on the default state.
func (o listOptions) filters() (discovery.FilterState, error) {
	f := discovery.DefaultFilters()
	if o.search != "" {
		f = f.SetSearch(o.search)
	}
	if o.category != "" {
		cat := models.Category(o.category)
		if !cat.Valid() {
			return f, fmt.Errorf("unknown category %q", o.category)
		}
		f = f.ToggleCategory(cat)
	}
	for _, s := range o.stages {
		stage := models.Stage(s)
		if !stage.Valid() {
			return f, fmt.Errorf("unknown stage %q", s)
		}
		f = f.ToggleStage(stage)
	}
	if o.minRaised != 0 || o.maxRaised != math.MaxInt64 {
		f = f.SetFundingRange(o.minRaised, o.maxRaised)
	}
	key := discovery.SortKey(o.sortBy)
	if !key.Valid() {
		return f, fmt.Errorf("unknown sort key %q", o.sortBy)
	}
	return f.SetSortBy(key), nil
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client.GetCampaign(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get campaign %s: %w", args[0], err)
			}
			printCampaign(cmd.OutOrStdout(), c)
			return nil
		},
	}
}

func printCampaignTable(w io.Writer, campaigns []*models.Campaign) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tSTAGE\tRAISED\tGOAL\tBACKERS")
	for _, c := range campaigns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			c.ID, c.Title, c.Category, c.Stage, c.AmountRaised, c.FundingGoal, c.Backers)
	}
	tw.Flush()
}

func printCampaign(w io.Writer, c *models.Campaign) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", c.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", c.Title)
	fmt.Fprintf(tw, "Status:\t%s\n", c.Status)
	fmt.Fprintf(tw, "Category:\t%s\n", c.Category)
	fmt.Fprintf(tw, "Business:\t%s (%s)\n", c.BusinessType, c.Stage)
	fmt.Fprintf(tw, "Funding:\t%d of %d from %d backers\n", c.AmountRaised, c.FundingGoal, c.Backers)
	fmt.Fprintf(tw, "Returns:\t%s %.1f%%\n", c.Returns.Model, c.Returns.Percentage)
	fmt.Fprintf(tw, "Created:\t%s\n", time.Unix(c.CreatedAt, 0).Format(time.DateOnly))
	tw.Flush()

	if c.Description != "" {
		fmt.Fprintf(w, "\n%s\n", c.Description)
	}
	if len(c.Milestones) > 0 {
		fmt.Fprintln(w, "\nMilestones:")
		for i, m := range c.Milestones {
			fmt.Fprintf(w, "  %d. %s (%d, %s)\n", i+1, m.Title, m.Amount, m.Timeline)
		}
	}
}

func joinValues[T ~string](values []T) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}
