package wizard

import "github.com/mmynk/seedfund/internal/models"

// Persist describes what a forward transition from a step sends to the gateway.
type Persist int

const (
	// PersistNone advances without a gateway call.
	PersistNone Persist = iota
	// PersistCreateOrUpdate creates the campaign when none exists yet and
	// updates it otherwise.
	PersistCreateOrUpdate
	// PersistUpdate updates the existing campaign.
	PersistUpdate
)

// Step is one page of the wizard.
type Step struct {
	Key   string
	Title string
	// Fields names the draft fields the step renders and edits.
	Fields  []string
	Persist Persist

	payload  func(Draft) models.CampaignPatch
	required func(Draft) any
}

const (
	StepBusinessType = iota
	StepBasics
	StepBusinessDetails
	StepMilestones
	StepReturns
	StepMedia
	StepVisibility
	StepReview
)

var steps = []Step{
	{
		Key:     "business-type",
		Title:   "What are you funding?",
		Fields:  []string{"businessType"},
		Persist: PersistNone,
		required: func(d Draft) any {
			return struct {
				BusinessType models.BusinessType `validate:"required,oneof=idea started unstarted"`
			}{d.BusinessType}
		},
	},
	{
		Key:     "basics",
		Title:   "Basic details",
		Fields:  []string{"title", "description", "category", "fundingGoal"},
		Persist: PersistCreateOrUpdate,
		payload: basicsPatch,
		required: func(d Draft) any {
			return d.Basics
		},
	},
	{
		Key:     "business-details",
		Title:   "About the business",
		Fields:  []string{"business"},
		Persist: PersistUpdate,
		payload: func(d Draft) models.CampaignPatch {
			return models.CampaignPatch{Business: &d.Business}
		},
		required: func(d Draft) any {
			return d.Business.Variant()
		},
	},
	{
		Key:     "milestones",
		Title:   "Milestones",
		Fields:  []string{"milestones"},
		Persist: PersistUpdate,
		payload: func(d Draft) models.CampaignPatch {
			return models.CampaignPatch{Milestones: &d.Milestones}
		},
		required: func(d Draft) any {
			return struct {
				Milestones []models.Milestone `validate:"required,min=1,dive"`
			}{d.Milestones}
		},
	},
	{
		Key:     "returns",
		Title:   "Investor returns",
		Fields:  []string{"returns"},
		Persist: PersistUpdate,
		payload: func(d Draft) models.CampaignPatch {
			return models.CampaignPatch{Returns: &d.Returns}
		},
		required: func(d Draft) any {
			return d.Returns
		},
	},
	{
		Key:     "media",
		Title:   "Media",
		Fields:  []string{"media"},
		Persist: PersistUpdate,
		payload: func(d Draft) models.CampaignPatch {
			return models.CampaignPatch{Media: &d.Media}
		},
		required: func(d Draft) any {
			return d.Media
		},
	},
	{
		Key:     "visibility",
		Title:   "Visibility",
		Fields:  []string{"visibility"},
		Persist: PersistUpdate,
		payload: func(d Draft) models.CampaignPatch {
			return models.CampaignPatch{Visibility: &d.Visibility}
		},
	},
	{
		Key:     "review",
		Title:   "Review and submit",
		Persist: PersistNone,
	},
}

// Steps returns the ordered step registry.
func Steps() []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// LastStep is the index of the review step.
func LastStep() int {
	return len(steps) - 1
}
