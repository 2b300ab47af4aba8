package order

import (
	"context"

	"github.com/zagu-ph/ordering-portal/internal/kintone"
)

// Workflow actions on the orders app. Names must match the actions
// configured on the platform's state machine.
const (
	ActionSubmit          = "Submit Order"
	ActionSendForApproval = "Send for Approval"
	ApprovalAssignee      = "Administrator"
)

// Submission outcomes.
const (
	OutcomeDraft           = "draft"
	OutcomePendingApproval = "pending_approval"
	OutcomeStatusPending   = "created_but_status_pending"
)

// Store is the slice of the record store the workflow needs.
type Store interface {
	CreateOrder(ctx context.Context, rec kintone.Record) (*kintone.CreateResult, error)
	AdvanceStatus(ctx context.Context, id, action, assignee string) error
}

// SubmitResult is the tri-state outcome of a submission: draft,
// pending_approval, or created_but_status_pending when the record
// exists but a workflow transition failed.
// swagger:model SubmitResult
type SubmitResult struct {
	ID          string `json:"id"`
	Revision    string `json:"revision"`
	Status      string `json:"status"`
	StatusError string `json:"statusError,omitempty"`
}

// Workflow persists an order and advances it through the approval
// pipeline. It is stateless; one call handles one order end to end.
type Workflow struct {
	store Store
}

func NewWorkflow(store Store) *Workflow {
	return &Workflow{store: store}
}

// Submit creates the order record and, unless it is a draft, runs the
// two approval transitions in sequence.
//
// A create failure aborts the whole operation and is returned as-is;
// no record exists and the caller may retry the full submission. A
// transition failure is not rolled back and not retried: the record
// already exists, so the result degrades to created_but_status_pending
// carrying the failing step's message. Note there is no idempotency
// key; retrying after a timeout on create can produce duplicates.
func (w *Workflow) Submit(ctx context.Context, o *Order) (*SubmitResult, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	created, err := w.store.CreateOrder(ctx, ToRecord(o))
	if err != nil {
		return nil, err
	}

	res := &SubmitResult{ID: created.ID, Revision: created.Revision}
	if o.IsDraft {
		res.Status = OutcomeDraft
		return res, nil
	}

	if err := w.store.AdvanceStatus(ctx, created.ID, ActionSubmit, ""); err != nil {
		res.Status = OutcomeStatusPending
		res.StatusError = err.Error()
		return res, nil
	}
	if err := w.store.AdvanceStatus(ctx, created.ID, ActionSendForApproval, ApprovalAssignee); err != nil {
		res.Status = OutcomeStatusPending
		res.StatusError = err.Error()
		return res, nil
	}

	res.Status = OutcomePendingApproval
	return res, nil
}

// KintoneStore adapts the platform client to the Store port.
type KintoneStore struct {
	Client *kintone.Client
}

func (s *KintoneStore) CreateOrder(ctx context.Context, rec kintone.Record) (*kintone.CreateResult, error) {
	return s.Client.CreateRecord(ctx, kintone.AppOrders, rec)
}

func (s *KintoneStore) AdvanceStatus(ctx context.Context, id, action, assignee string) error {
	_, err := s.Client.UpdateStatus(ctx, kintone.AppOrders, id, action, assignee)
	return err
}
