package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/seedfund/internal/models"
	"github.com/mmynk/seedfund/internal/wizard"
)

// draftFile is the YAML form of a finished wizard session.
type draftFile struct {
	BusinessType models.BusinessType `yaml:"businessType"`
	Basics       wizard.Basics       `yaml:",inline"`
	Stage        models.Stage        `yaml:"stage"`

	Idea      *models.IdeaDetails      `yaml:"idea"`
	Started   *models.StartedDetails   `yaml:"started"`
	Unstarted *models.UnstartedDetails `yaml:"unstarted"`

	Milestones []models.Milestone `yaml:"milestones"`
	Returns    *models.Returns    `yaml:"returns"`
	Media      *models.Media      `yaml:"media"`
	Visibility *models.Visibility `yaml:"visibility"`
}

func loadDraftFile(path string) (*draftFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft file: %w", err)
	}
	return parseDraftFile(data)
}

func parseDraftFile(data []byte) (*draftFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f draftFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("draft file is empty")
		}
		return nil, fmt.Errorf("failed to parse draft file: %w", err)
	}
	if f.BusinessType == "" {
		return nil, errors.New("draft file: businessType is required")
	}
	return &f, nil
}

// actions replays the file as the edits a user would make, step by step.
func (f *draftFile) actions() []wizard.Action {
	actions := []wizard.Action{
		wizard.SelectBusinessType{Type: f.BusinessType},
		wizard.EditBasics{Basics: f.Basics},
	}
	if f.Idea != nil {
		actions = append(actions, wizard.EditIdea{Details: *f.Idea})
	}
	if f.Started != nil {
		actions = append(actions, wizard.EditStarted{Details: *f.Started})
	}
	if f.Unstarted != nil {
		actions = append(actions, wizard.EditUnstarted{Details: *f.Unstarted})
	}
	if f.Stage != "" {
		actions = append(actions, wizard.SetStage{Stage: f.Stage})
	}
	for _, m := range f.Milestones {
		actions = append(actions, wizard.AddMilestone{Milestone: m})
	}
	if f.Returns != nil {
		actions = append(actions, wizard.EditReturns{Returns: *f.Returns})
	}
	if f.Media != nil {
		actions = append(actions, wizard.EditMedia{Media: *f.Media})
	}
	if f.Visibility != nil {
		actions = append(actions, wizard.EditVisibility{Visibility: *f.Visibility})
	}
	return actions
}
