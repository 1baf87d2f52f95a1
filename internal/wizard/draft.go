package wizard

import (
	"slices"

	"github.com/mmynk/seedfund/internal/models"
)

// Basics is the common record every business type shares.
type Basics struct {
	Title       string          `json:"title" yaml:"title" validate:"required"`
	Description string          `json:"description" yaml:"description" validate:"required"`
	Category    models.Category `json:"category" yaml:"category" validate:"required,oneof=technology healthcare education agriculture finance retail manufacturing energy other"`
	FundingGoal int64           `json:"fundingGoal" yaml:"fundingGoal" validate:"gt=0"`
}

// Draft accumulates a campaign across wizard steps. It is only changed
// through Actions.
type Draft struct {
	Basics       Basics
	BusinessType models.BusinessType
	Business     models.BusinessDetails
	Milestones   []models.Milestone
	Returns      models.Returns
	Media        models.Media
	Visibility   models.Visibility
}

// NewDraft returns the empty draft a wizard starts from.
func NewDraft() Draft {
	return Draft{
		Returns:    models.Returns{Model: models.ReturnProfitSharing},
		Visibility: models.Visibility{Public: true, AllowMessages: true},
	}
}

// Patch returns the entire draft as a creation payload.
func (d Draft) Patch() models.CampaignPatch {
	d = d.clone()
	p := basicsPatch(d)
	p.Business = &d.Business
	p.Milestones = &d.Milestones
	p.Returns = &d.Returns
	p.Media = &d.Media
	p.Visibility = &d.Visibility
	return p
}

// clone copies the draft so that callers and in-flight payloads never share
// slices or variant pointers with the live draft.
func (d Draft) clone() Draft {
	d.Milestones = slices.Clone(d.Milestones)
	d.Returns.Projections = slices.Clone(d.Returns.Projections)
	d.Media.GalleryURLs = slices.Clone(d.Media.GalleryURLs)
	d.Media.DocumentURLs = slices.Clone(d.Media.DocumentURLs)
	if d.Business.Idea != nil {
		v := *d.Business.Idea
		d.Business.Idea = &v
	}
	if d.Business.Started != nil {
		v := *d.Business.Started
		d.Business.Started = &v
	}
	if d.Business.Unstarted != nil {
		v := *d.Business.Unstarted
		d.Business.Unstarted = &v
	}
	return d
}

func basicsPatch(d Draft) models.CampaignPatch {
	return models.CampaignPatch{
		Title:        models.Ptr(d.Basics.Title),
		Description:  models.Ptr(d.Basics.Description),
		Category:     models.Ptr(d.Basics.Category),
		FundingGoal:  models.Ptr(d.Basics.FundingGoal),
		BusinessType: models.Ptr(d.BusinessType),
	}
}
