package wizard

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/mmynk/seedfund/internal/models"
)

// Action is a typed edit to the draft. Each wizard step has its own actions.
type Action interface {
	apply(d *Draft) error
}

// SelectBusinessType chooses the business shape. Switching to a different
// type discards the previous type's details.
type SelectBusinessType struct {
	Type models.BusinessType
}

func (a SelectBusinessType) apply(d *Draft) error {
	if !a.Type.Valid() {
		return fmt.Errorf("unknown business type %q", a.Type)
	}
	if d.BusinessType == a.Type && d.Business.Type == a.Type {
		return nil
	}
	d.BusinessType = a.Type
	d.Business = models.NewBusinessDetails(a.Type)
	return nil
}

// EditBasics replaces the common fields.
type EditBasics struct {
	Basics Basics
}

func (a EditBasics) apply(d *Draft) error {
	d.Basics = a.Basics
	return nil
}

// EditIdea replaces the details of an idea-stage business.
type EditIdea struct {
	Details models.IdeaDetails
}

func (a EditIdea) apply(d *Draft) error {
	if err := requireType(d, models.BusinessIdea); err != nil {
		return err
	}
	v := a.Details
	d.Business.Idea = &v
	return nil
}

// EditStarted replaces the details of an operating business.
type EditStarted struct {
	Details models.StartedDetails
}

func (a EditStarted) apply(d *Draft) error {
	if err := requireType(d, models.BusinessStarted); err != nil {
		return err
	}
	v := a.Details
	d.Business.Started = &v
	return nil
}

// EditUnstarted replaces the details of a planned business.
type EditUnstarted struct {
	Details models.UnstartedDetails
}

func (a EditUnstarted) apply(d *Draft) error {
	if err := requireType(d, models.BusinessUnstarted); err != nil {
		return err
	}
	v := a.Details
	d.Business.Unstarted = &v
	return nil
}

// SetStage sets the funding stage reported by the business.
type SetStage struct {
	Stage models.Stage
}

func (a SetStage) apply(d *Draft) error {
	if !a.Stage.Valid() {
		return fmt.Errorf("unknown stage %q", a.Stage)
	}
	if d.Business.Type == "" {
		return fmt.Errorf("select a business type before setting the stage")
	}
	d.Business.Stage = a.Stage
	return nil
}

// AddMilestone appends a milestone, assigning an ID when it has none.
type AddMilestone struct {
	Milestone models.Milestone
}

func (a AddMilestone) apply(d *Draft) error {
	m := a.Milestone
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if slices.ContainsFunc(d.Milestones, func(x models.Milestone) bool { return x.ID == m.ID }) {
		return fmt.Errorf("duplicate milestone %s", m.ID)
	}
	d.Milestones = append(d.Milestones, m)
	return nil
}

// UpdateMilestone replaces the milestone with the same ID.
type UpdateMilestone struct {
	Milestone models.Milestone
}

func (a UpdateMilestone) apply(d *Draft) error {
	i := slices.IndexFunc(d.Milestones, func(x models.Milestone) bool { return x.ID == a.Milestone.ID })
	if i < 0 {
		return fmt.Errorf("unknown milestone %s", a.Milestone.ID)
	}
	d.Milestones[i] = a.Milestone
	return nil
}

// RemoveMilestone deletes a milestone by ID.
type RemoveMilestone struct {
	ID string
}

func (a RemoveMilestone) apply(d *Draft) error {
	n := len(d.Milestones)
	d.Milestones = slices.DeleteFunc(d.Milestones, func(x models.Milestone) bool { return x.ID == a.ID })
	if len(d.Milestones) == n {
		return fmt.Errorf("unknown milestone %s", a.ID)
	}
	return nil
}

// EditReturns replaces the investor returns offer.
type EditReturns struct {
	Returns models.Returns
}

func (a EditReturns) apply(d *Draft) error {
	d.Returns = a.Returns
	d.Returns.Projections = slices.Clone(a.Returns.Projections)
	return nil
}

// AddProjection appends a yearly projection.
type AddProjection struct {
	Projection models.Projection
}

func (a AddProjection) apply(d *Draft) error {
	d.Returns.Projections = append(d.Returns.Projections, a.Projection)
	return nil
}

// EditMedia replaces the media references.
type EditMedia struct {
	Media models.Media
}

func (a EditMedia) apply(d *Draft) error {
	d.Media = models.Media{
		CoverImageURL: a.Media.CoverImageURL,
		GalleryURLs:   slices.Clone(a.Media.GalleryURLs),
		PitchVideoURL: a.Media.PitchVideoURL,
		DocumentURLs:  slices.Clone(a.Media.DocumentURLs),
	}
	return nil
}

// EditVisibility replaces the visibility settings.
type EditVisibility struct {
	Visibility models.Visibility
}

func (a EditVisibility) apply(d *Draft) error {
	d.Visibility = a.Visibility
	return nil
}

func requireType(d *Draft, want models.BusinessType) error {
	if d.Business.Type != want {
		return fmt.Errorf("draft business type is %q, not %q", d.Business.Type, want)
	}
	return nil
}
