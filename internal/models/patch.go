package models

import (
	"errors"
	"fmt"
)

// CampaignPatch is a partial campaign payload. Nil fields are left untouched
// by an update and omitted on the wire.
type CampaignPatch struct {
	Title        *string          `json:"title,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Category     *Category        `json:"category,omitempty"`
	FundingGoal  *int64           `json:"fundingGoal,omitempty"`
	BusinessType *BusinessType    `json:"businessType,omitempty"`
	Business     *BusinessDetails `json:"business,omitempty"`
	Milestones   *[]Milestone     `json:"milestones,omitempty"`
	Returns      *Returns         `json:"returns,omitempty"`
	Media        *Media           `json:"media,omitempty"`
	Visibility   *Visibility      `json:"visibility,omitempty"`
	Status       *CampaignStatus  `json:"status,omitempty"`
}

// Ptr returns a pointer to v. It keeps patch literals short.
func Ptr[T any](v T) *T {
	return &v
}

// Empty reports whether the patch carries no fields.
func (p CampaignPatch) Empty() bool {
	return p == CampaignPatch{}
}

// Apply merges the set fields of p into c.
func (p CampaignPatch) Apply(c *Campaign) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.FundingGoal != nil {
		c.FundingGoal = *p.FundingGoal
	}
	if p.BusinessType != nil {
		c.BusinessType = *p.BusinessType
	}
	if p.Business != nil {
		c.Business = *p.Business
		if p.Business.Stage != "" {
			c.Stage = p.Business.Stage
		}
	}
	if p.Milestones != nil {
		c.Milestones = append([]Milestone(nil), (*p.Milestones)...)
	}
	if p.Returns != nil {
		c.Returns = *p.Returns
	}
	if p.Media != nil {
		c.Media = *p.Media
	}
	if p.Visibility != nil {
		c.Visibility = *p.Visibility
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
}

// CampaignFromPatch builds a new campaign from the set fields of p.
func CampaignFromPatch(p CampaignPatch) *Campaign {
	c := &Campaign{}
	p.Apply(c)
	return c
}

// Check rejects values no campaign may hold. Empty values pass so partially
// filled drafts can be saved.
func (p CampaignPatch) Check() error {
	if p.Category != nil && *p.Category != "" && !p.Category.Valid() {
		return fmt.Errorf("unknown category %q", *p.Category)
	}
	if p.FundingGoal != nil && *p.FundingGoal < 0 {
		return errors.New("funding goal must not be negative")
	}
	if p.BusinessType != nil && *p.BusinessType != "" && !p.BusinessType.Valid() {
		return fmt.Errorf("unknown business type %q", *p.BusinessType)
	}
	if p.Business != nil {
		if p.Business.Stage != "" && !p.Business.Stage.Valid() {
			return fmt.Errorf("unknown stage %q", p.Business.Stage)
		}
		if err := p.Business.Check(); err != nil {
			return fmt.Errorf("invalid business details: %w", err)
		}
	}
	return nil
}
