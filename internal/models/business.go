package models

import "fmt"

// BusinessType selects which BusinessDetails variant a campaign carries.
type BusinessType string

const (
	BusinessIdea      BusinessType = "idea"
	BusinessStarted   BusinessType = "started"
	BusinessUnstarted BusinessType = "unstarted"
)

// Valid reports whether t is a known business type.
func (t BusinessType) Valid() bool {
	switch t {
	case BusinessIdea, BusinessStarted, BusinessUnstarted:
		return true
	}
	return false
}

// BusinessDetails is a tagged union: exactly one of Idea, Started or
// Unstarted is set, and it is the one named by Type.
type BusinessDetails struct {
	Type BusinessType `json:"type"`

	// Stage is shared by every variant.
	Stage Stage `json:"stage,omitempty"`

	Idea      *IdeaDetails      `json:"idea,omitempty"`
	Started   *StartedDetails   `json:"started,omitempty"`
	Unstarted *UnstartedDetails `json:"unstarted,omitempty"`
}

// IdeaDetails describes a business that exists only as an idea.
type IdeaDetails struct {
	Problem      string `json:"problem" yaml:"problem" validate:"required"`
	Solution     string `json:"solution" yaml:"solution" validate:"required"`
	TargetMarket string `json:"targetMarket" yaml:"targetMarket" validate:"required"`
	Validation   string `json:"validation,omitempty" yaml:"validation"`
}

// StartedDetails describes an operating business.
type StartedDetails struct {
	YearFounded    int    `json:"yearFounded" yaml:"yearFounded" validate:"gte=1900"`
	MonthlyRevenue int64  `json:"monthlyRevenue" yaml:"monthlyRevenue" validate:"gte=0"`
	TeamSize       int    `json:"teamSize" yaml:"teamSize" validate:"gte=1"`
	Customers      string `json:"customers,omitempty" yaml:"customers"`
}

// UnstartedDetails describes a planned business that has not launched.
type UnstartedDetails struct {
	BusinessPlan   string `json:"businessPlan" yaml:"businessPlan" validate:"required"`
	Location       string `json:"location" yaml:"location" validate:"required"`
	StartupCosts   int64  `json:"startupCosts" yaml:"startupCosts" validate:"gt=0"`
	LaunchTimeline string `json:"launchTimeline" yaml:"launchTimeline" validate:"required"`
}

// NewBusinessDetails returns empty details for t with the stage such a
// business usually reports.
func NewBusinessDetails(t BusinessType) BusinessDetails {
	d := BusinessDetails{Type: t}
	switch t {
	case BusinessIdea:
		d.Stage = StageIdea
		d.Idea = &IdeaDetails{}
	case BusinessStarted:
		d.Stage = StageEarlyRevenue
		d.Started = &StartedDetails{}
	case BusinessUnstarted:
		d.Stage = StagePrototype
		d.Unstarted = &UnstartedDetails{}
	}
	return d
}

// Variant returns the populated variant, or nil when none is set.
func (d BusinessDetails) Variant() any {
	switch d.Type {
	case BusinessIdea:
		if d.Idea != nil {
			return d.Idea
		}
	case BusinessStarted:
		if d.Started != nil {
			return d.Started
		}
	case BusinessUnstarted:
		if d.Unstarted != nil {
			return d.Unstarted
		}
	}
	return nil
}

// Check verifies the union invariant.
func (d BusinessDetails) Check() error {
	if d.Type == "" && d.Idea == nil && d.Started == nil && d.Unstarted == nil {
		return nil
	}
	if !d.Type.Valid() {
		return fmt.Errorf("unknown business type %q", d.Type)
	}
	set := 0
	for _, v := range []bool{d.Idea != nil, d.Started != nil, d.Unstarted != nil} {
		if v {
			set++
		}
	}
	if set != 1 || d.Variant() == nil {
		return fmt.Errorf("business details must carry exactly the %q variant", d.Type)
	}
	return nil
}
