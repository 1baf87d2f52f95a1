// Package wizard drives the multi-step campaign creation flow.
//
// The Orchestrator owns the current step, the Draft, the remote campaign ID
// and the busy flag. A forward transition builds the step's partial payload,
// sends it through the Gateway and advances only when the save succeeds.
// Outcomes are reported as Events on a channel instead of global toast state.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmynk/seedfund/internal/models"
)

// Gateway persists campaigns on behalf of the wizard.
type Gateway interface {
	// Create stores a new campaign and returns the canonical record.
	Create(ctx context.Context, payload models.CampaignPatch) (*models.Campaign, error)

	// Update merges payload into the campaign with the given ID.
	Update(ctx context.Context, campaignID string, payload models.CampaignPatch) (*models.Campaign, error)
}

// EventKind classifies an Event.
type EventKind int

const (
	// EventSaved is a non-blocking success notice after a step was saved.
	EventSaved EventKind = iota
	// EventFailed is a blocking error notice; the step did not change.
	EventFailed
	// EventSubmitted marks the terminal success state.
	EventSubmitted
	// EventAdvanced is a non-blocking notice for a forward move that saved
	// nothing: a step without a payload, or an update skipped for lack of
	// a campaign id.
	EventAdvanced
)

func (k EventKind) String() string {
	switch k {
	case EventSaved:
		return "saved"
	case EventFailed:
		return "failed"
	case EventSubmitted:
		return "submitted"
	case EventAdvanced:
		return "advanced"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a notification emitted by the Orchestrator.
type Event struct {
	Kind       EventKind
	Step       int
	StepKey    string
	CampaignID string
	Message    string
	Err        error
}

// Orchestrator is the wizard state machine. It is safe for concurrent use;
// the busy flag rejects overlapping transitions.
type Orchestrator struct {
	mu sync.Mutex

	gateway Gateway
	logger  *slog.Logger
	gate    *gate
	strict  bool

	step       int
	draft      Draft
	campaignID string
	busy       bool
	lastErr    error
	submitted  *models.Campaign

	events chan Event
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithValidation turns the per-step required-fields gate on or off.
// The gate is off by default.
func WithValidation(enabled bool) Option {
	return func(o *Orchestrator) {
		if enabled {
			o.gate = newGate()
		} else {
			o.gate = nil
		}
	}
}

// WithStrictPersistence makes an update step fail with ErrNotPersisted when
// no campaign has been created. By default such a step advances without
// saving.
func WithStrictPersistence(strict bool) Option {
	return func(o *Orchestrator) { o.strict = strict }
}

// WithEventBuffer sets the event channel capacity. Events that do not fit
// are dropped and logged.
func WithEventBuffer(n int) Option {
	return func(o *Orchestrator) { o.events = make(chan Event, max(n, 0)) }
}

// WithDraft starts the wizard from an existing draft.
func WithDraft(d Draft) Option {
	return func(o *Orchestrator) { o.draft = d.clone() }
}

// WithCampaignID resumes a wizard whose campaign already exists.
func WithCampaignID(id string) Option {
	return func(o *Orchestrator) { o.campaignID = id }
}

// WithStartStep resumes the wizard at step i, clamped to the registry.
func WithStartStep(i int) Option {
	return func(o *Orchestrator) { o.step = min(max(i, 0), LastStep()) }
}

// New creates an Orchestrator at the first step with an empty draft.
func New(gateway Gateway, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gateway: gateway,
		logger:  slog.Default(),
		draft:   NewDraft(),
		events:  make(chan Event, 16),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Events returns the notification channel.
func (o *Orchestrator) Events() <-chan Event {
	return o.events
}

// Step returns the current step index.
func (o *Orchestrator) Step() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.step
}

// Current returns the current step definition.
func (o *Orchestrator) Current() Step {
	o.mu.Lock()
	defer o.mu.Unlock()
	return steps[o.step]
}

// Draft returns a copy of the draft for rendering.
func (o *Orchestrator) Draft() Draft {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.draft.clone()
}

// CampaignID returns the remote ID, or "" while the draft is unsaved.
func (o *Orchestrator) CampaignID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.campaignID
}

// Busy reports whether a save is in flight.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// LastError returns the error from the most recent failed transition, or
// nil after a successful one.
func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Submitted returns the record created by Submit.
func (o *Orchestrator) Submitted() (*models.Campaign, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.submitted, o.submitted != nil
}

// Dispatch applies an edit to the draft.
func (o *Orchestrator) Dispatch(action Action) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.submitted != nil {
		return ErrSubmitted
	}
	return action.apply(&o.draft)
}

// Forward saves the current step and advances. It returns ErrBusy while
// another save is in flight, a *ValidationError when the gate is enabled and
// the step is incomplete, and a *PersistenceError when the gateway fails.
// On any error the step index is unchanged.
func (o *Orchestrator) Forward(ctx context.Context) error {
	o.mu.Lock()
	if err := o.checkIdle(); err != nil {
		o.mu.Unlock()
		return err
	}

	index := o.step
	step := steps[index]
	if o.gate != nil {
		if err := o.gate.check(step, o.draft); err != nil {
			o.failLocked(index, err)
			o.mu.Unlock()
			return err
		}
	}

	if step.Persist == PersistNone {
		o.advanceLocked()
		o.emitAdvancedLocked(index, "Step complete")
		o.mu.Unlock()
		return nil
	}

	id := o.campaignID
	if step.Persist == PersistUpdate && id == "" {
		if o.strict {
			err := &PersistenceError{Op: OpUpdate, Step: step.Key, Err: ErrNotPersisted}
			o.failLocked(index, err)
			o.mu.Unlock()
			return err
		}
		o.logger.Warn("Skipping step save without campaign id", "step", step.Key)
		o.advanceLocked()
		o.emitAdvancedLocked(index, "Progress not saved: campaign not created yet")
		o.mu.Unlock()
		return nil
	}

	payload := step.payload(o.draft.clone())
	o.busy = true
	o.mu.Unlock()

	op := OpUpdate
	var record *models.Campaign
	var err error
	if id == "" {
		op = OpCreate
		record, err = o.gateway.Create(ctx, payload)
		if err == nil && (record == nil || record.ID == "") {
			err = errors.New("gateway returned no campaign id")
		}
	} else {
		record, err = o.gateway.Update(ctx, id, payload)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.busy = false

	if err != nil {
		perr := &PersistenceError{Op: op, Step: step.Key, Err: err}
		o.logger.Error("Wizard step save failed", "step", step.Key, "op", op, "campaign_id", id, "error", err)
		o.failLocked(index, perr)
		return perr
	}

	if op == OpCreate {
		o.campaignID = record.ID
	}
	o.logger.Info("Wizard step saved", "step", step.Key, "op", op, "campaign_id", o.campaignID)
	o.advanceLocked()
	o.emit(Event{
		Kind:       EventSaved,
		Step:       index,
		StepKey:    step.Key,
		CampaignID: o.campaignID,
		Message:    "Progress saved",
	})
	return nil
}

// Backward returns to the previous step without saving or validating.
// It returns ErrBusy while a forward save is in flight.
func (o *Orchestrator) Backward() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.checkIdle(); err != nil {
		return err
	}
	if o.step > 0 {
		o.step--
	}
	return nil
}

// Submit creates the campaign from the entire draft. It is only allowed from
// the review step, and always issues a create even when every step was
// already saved incrementally.
func (o *Orchestrator) Submit(ctx context.Context) (*models.Campaign, error) {
	o.mu.Lock()
	if err := o.checkIdle(); err != nil {
		o.mu.Unlock()
		return nil, err
	}
	if o.step != LastStep() {
		o.mu.Unlock()
		return nil, ErrNotOnReview
	}
	if o.gate != nil {
		for _, step := range steps {
			if err := o.gate.check(step, o.draft); err != nil {
				o.failLocked(o.step, err)
				o.mu.Unlock()
				return nil, err
			}
		}
	}

	payload := o.draft.Patch()
	payload.Status = models.Ptr(models.StatusSubmitted)
	draftID := o.campaignID
	o.busy = true
	o.mu.Unlock()

	record, err := o.gateway.Create(ctx, payload)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.busy = false

	if err != nil {
		perr := &PersistenceError{Op: OpSubmit, Step: steps[o.step].Key, Err: err}
		o.logger.Error("Campaign submit failed", "draft_id", draftID, "error", err)
		o.failLocked(o.step, perr)
		return nil, perr
	}

	o.submitted = record
	o.lastErr = nil
	o.logger.Info("Campaign submitted", "draft_id", draftID, "campaign_id", record.ID)
	o.emit(Event{
		Kind:       EventSubmitted,
		Step:       o.step,
		StepKey:    steps[o.step].Key,
		CampaignID: record.ID,
		Message:    "Campaign submitted",
	})
	return record, nil
}

func (o *Orchestrator) checkIdle() error {
	if o.submitted != nil {
		return ErrSubmitted
	}
	if o.busy {
		return ErrBusy
	}
	return nil
}

func (o *Orchestrator) advanceLocked() {
	o.lastErr = nil
	if o.step < LastStep() {
		o.step++
	}
}

func (o *Orchestrator) failLocked(index int, err error) {
	o.lastErr = err
	o.emit(Event{
		Kind:       EventFailed,
		Step:       index,
		StepKey:    steps[index].Key,
		CampaignID: o.campaignID,
		Message:    err.Error(),
		Err:        err,
	})
}

func (o *Orchestrator) emitAdvancedLocked(index int, message string) {
	o.emit(Event{
		Kind:       EventAdvanced,
		Step:       index,
		StepKey:    steps[index].Key,
		CampaignID: o.campaignID,
		Message:    message,
	})
}

// emit never blocks; the caller holds o.mu.
func (o *Orchestrator) emit(e Event) {
	select {
	case o.events <- e:
	default:
		o.logger.Warn("Dropping wizard event", "kind", e.Kind.String(), "step", e.StepKey)
	}
}
