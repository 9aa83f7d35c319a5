package campaign

import (
	"context"
	"errors"
	"fmt"

	"codemailx/internal/logging"
)

// State is the explicit wizard state. Step states are linear; Saving,
// SendPrompt and Sending are the save/send flow; Done and Canceled are
// terminal.
type State int

const (
	StateStep0 State = iota // Details
	StateStep1              // Template
	StateStep2              // Placeholders
	StateStep3              // Review
	StateSaving
	StateSendPrompt
	StateSending
	StateDone
	StateCanceled
)

// String returns a short state label for logs.
func (s State) String() string {
	switch s {
	case StateStep0, StateStep1, StateStep2, StateStep3:
		return fmt.Sprintf("step%d", int(s))
	case StateSaving:
		return "saving"
	case StateSendPrompt:
		return "send-prompt"
	case StateSending:
		return "sending"
	case StateDone:
		return "done"
	case StateCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Service is the slice of the backend gateway the wizard needs.
type Service interface {
	CreateCampaign(ctx context.Context, p Payload) (Campaign, error)
	UpdateCampaign(ctx context.Context, id string, p Payload) (Campaign, error)
	SendCampaign(ctx context.Context, id string) error
}

// Sentinel errors for rejected transitions. A rejected Next is deliberately
// NOT an error: it is a guarded no-op.
var (
	ErrNotAtReview   = errors.New("finish is only available from the review step")
	ErrBusy          = errors.New("an operation is already in flight")
	ErrNotInPrompt   = errors.New("no saved campaign awaiting send confirmation")
	ErrWizardClosed  = errors.New("wizard already closed")
	ErrNothingSaved  = errors.New("campaign was not saved")
	ErrCancelBlocked = errors.New("cannot cancel while sending")
)

// SaveRequest describes the pending persistence call after BeginFinish.
type SaveRequest struct {
	Editing    bool
	CampaignID string // set when Editing
	Payload    Payload
}

// Wizard drives a draft through the four build steps, the save, and the
// optional immediate send. One wizard instance exists per build/edit session;
// it owns its draft and quota snapshot exclusively.
type Wizard struct {
	draft *Draft

	state     State
	completed [StepCount]bool

	editing    bool
	editID     string
	savedID    string
	sentStatus bool

	// limit is nil until the quota fetch lands; an unknown quota never
	// blocks client-side.
	limit *EmailLimit
}

// NewWizard opens a wizard over an empty draft.
func NewWizard() *Wizard {
	return &Wizard{draft: NewDraft(), state: StateStep0}
}

// NewEditWizard opens a wizard hydrated from an existing campaign. All steps
// are marked complete immediately, matching edit mode.
func NewEditWizard(c Campaign) *Wizard {
	w := &Wizard{
		draft:   Hydrate(c),
		state:   StateStep0,
		editing: true,
		editID:  c.ID,
	}
	for i := range w.completed {
		w.completed[i] = true
	}
	return w
}

// Draft exposes the wizard's draft for step-scoped mutation.
func (w *Wizard) Draft() *Draft { return w.draft }

// State returns the current wizard state.
func (w *Wizard) State() State { return w.state }

// Editing reports whether the wizard edits an existing campaign.
func (w *Wizard) Editing() bool { return w.editing }

// SavedID returns the id of the persisted campaign, empty before save.
func (w *Wizard) SavedID() string { return w.savedID }

// Sent reports whether the campaign was dispatched during this session.
func (w *Wizard) Sent() bool { return w.sentStatus }

// StepCompleted reports whether step i has been completed (step-indicator
// display only; re-entering a step never clears it).
func (w *Wizard) StepCompleted(i int) bool {
	return i >= 0 && i < StepCount && w.completed[i]
}

// Step returns the current step index, or -1 outside the step states.
func (w *Wizard) Step() int {
	if w.state >= StateStep0 && w.state <= StateStep3 {
		return int(w.state)
	}
	return -1
}

// SetLimit installs the fetched quota. A failed fetch simply never calls this.
func (w *Wizard) SetLimit(limit *EmailLimit) { w.limit = limit }

// Limit returns the quota snapshot, nil while unknown.
func (w *Wizard) Limit() *EmailLimit { return w.limit }

// CanProceed reports whether the current step validates; it feeds the
// enabled state of the Next/Finish control.
func (w *Wizard) CanProceed() bool {
	step := w.Step()
	if step < 0 {
		return false
	}
	return w.draft.IsStepValid(step)
}

// Next advances to the following step when the current one validates.
// Invalid steps make Next a silent no-op: the control is guarded, not
// throwing. Returns whether the transition happened.
func (w *Wizard) Next() bool {
	step := w.Step()
	if step < 0 || step >= StepReview {
		return false
	}
	if !w.draft.IsStepValid(step) {
		return false
	}
	w.completed[step] = true
	w.state = State(step + 1)
	logging.WizardDebug("next: step %d -> %d", step, step+1)
	return true
}

// Prev steps back unconditionally. Completion markers for later steps stay.
func (w *Wizard) Prev() bool {
	step := w.Step()
	if step <= StepDetails {
		return false
	}
	w.state = State(step - 1)
	return true
}

// Cancel aborts the wizard and discards the draft. Allowed from every state
// except an active send.
func (w *Wizard) Cancel() error {
	switch w.state {
	case StateSending:
		return ErrCancelBlocked
	case StateDone, StateCanceled:
		return ErrWizardClosed
	}
	w.state = StateCanceled
	logging.Wizard("canceled")
	return nil
}

// BeginFinish validates the review step and the quota gate, then enters
// Saving and returns the persistence request. No network call happens here:
// a quota rejection is returned before the gateway is ever touched.
func (w *Wizard) BeginFinish() (SaveRequest, error) {
	if w.state == StateSaving {
		return SaveRequest{}, ErrBusy
	}
	if w.state != StateStep3 {
		return SaveRequest{}, ErrNotAtReview
	}
	if !w.draft.IsStepValid(StepReview) {
		return SaveRequest{}, ErrNotAtReview
	}
	if ExceedsLimit(len(w.draft.HRListIDs), w.limit) {
		return SaveRequest{}, &QuotaError{Remaining: w.limit.RemainingLimit}
	}

	w.state = StateSaving
	logging.Wizard("saving: editing=%v recipients=%d", w.editing, len(w.draft.HRListIDs))
	return SaveRequest{
		Editing:    w.editing,
		CampaignID: w.editID,
		Payload:    w.draft.Payload(),
	}, nil
}

// CompleteFinish applies the persistence result. Success moves to SendPrompt;
// failure returns to the review step with the draft intact.
func (w *Wizard) CompleteFinish(savedID string, err error) {
	if w.state != StateSaving {
		return
	}
	if err != nil {
		w.state = StateStep3
		logging.WizardError("save failed: %v", err)
		return
	}
	if savedID == "" && w.editing {
		// Update responses may omit the id; the campaign keeps its own.
		savedID = w.editID
	}
	w.savedID = savedID
	w.state = StateSendPrompt
	logging.Wizard("saved: id=%s", savedID)
}

// CanSendNow reports whether the Send Now control is enabled: a saved
// campaign, no send in flight, and the quota not currently exceeded.
func (w *Wizard) CanSendNow() bool {
	return w.state == StateSendPrompt &&
		w.savedID != "" &&
		!ExceedsLimit(len(w.draft.HRListIDs), w.limit)
}

// BeginSend re-evaluates the quota gate and enters Sending, returning the
// campaign id to dispatch.
func (w *Wizard) BeginSend() (string, error) {
	if w.state == StateSending {
		return "", ErrBusy
	}
	if w.state != StateSendPrompt {
		return "", ErrNotInPrompt
	}
	if w.savedID == "" {
		return "", ErrNothingSaved
	}
	if ExceedsLimit(len(w.draft.HRListIDs), w.limit) {
		return "", &QuotaError{Remaining: w.limit.RemainingLimit}
	}
	w.state = StateSending
	return w.savedID, nil
}

// CompleteSend applies the dispatch result. Success closes the wizard with
// the campaign marked Sent; failure returns to the prompt for retry.
func (w *Wizard) CompleteSend(err error) {
	if w.state != StateSending {
		return
	}
	if err != nil {
		w.state = StateSendPrompt
		logging.WizardError("send failed: %v", err)
		return
	}
	w.sentStatus = true
	w.state = StateDone
	logging.Wizard("sent: id=%s", w.savedID)
}

// Defer closes the wizard without sending; the saved campaign stays Pending.
func (w *Wizard) Defer() error {
	if w.state != StateSendPrompt {
		return ErrNotInPrompt
	}
	w.state = StateDone
	logging.Wizard("deferred: id=%s", w.savedID)
	return nil
}

// Finish runs the full save flow against svc synchronously. Interactive
// callers drive BeginFinish/CompleteFinish themselves to keep network calls
// off the UI loop; Finish exists for non-interactive use and tests.
func (w *Wizard) Finish(ctx context.Context, svc Service) error {
	req, err := w.BeginFinish()
	if err != nil {
		return err
	}

	var saved Campaign
	if req.Editing {
		saved, err = svc.UpdateCampaign(ctx, req.CampaignID, req.Payload)
	} else {
		saved, err = svc.CreateCampaign(ctx, req.Payload)
	}
	w.CompleteFinish(saved.ID, err)
	if err != nil {
		return fmt.Errorf("saving campaign: %w", err)
	}
	return nil
}

// SendNow runs the full dispatch flow against svc synchronously.
func (w *Wizard) SendNow(ctx context.Context, svc Service) error {
	id, err := w.BeginSend()
	if err != nil {
		return err
	}
	err = svc.SendCampaign(ctx, id)
	w.CompleteSend(err)
	if err != nil {
		return fmt.Errorf("sending campaign: %w", err)
	}
	return nil
}
