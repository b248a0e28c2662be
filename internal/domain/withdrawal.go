package domain

import "time"

type WithdrawalStatus string

const (
	WithdrawalPending    WithdrawalStatus = "pending"
	WithdrawalApproved   WithdrawalStatus = "approved"
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalCompleted  WithdrawalStatus = "completed"
	WithdrawalRejected   WithdrawalStatus = "rejected"
	WithdrawalFailed     WithdrawalStatus = "failed"
)

// Reserves reports whether a request in this status still counts against the
// producer's available balance. Completed requests count as paid out;
// rejected and failed requests release the amount.
func (s WithdrawalStatus) Reserves() bool {
	switch s {
	case WithdrawalPending, WithdrawalApproved, WithdrawalProcessing, WithdrawalCompleted:
		return true
	default:
		return false
	}
}

// CanTransitionTo encodes the admin-side lifecycle: pending is triaged to
// approved or rejected, approved moves to processing when the payout is
// dispatched, and the external payout result lands as completed or failed.
func (s WithdrawalStatus) CanTransitionTo(next WithdrawalStatus) bool {
	switch s {
	case WithdrawalPending:
		return next == WithdrawalApproved || next == WithdrawalRejected
	case WithdrawalApproved:
		return next == WithdrawalProcessing
	case WithdrawalProcessing:
		return next == WithdrawalCompleted || next == WithdrawalFailed
	default:
		return false
	}
}

type WithdrawalRequest struct {
	ID               string
	ProducerID       string
	Amount           Money
	Status           WithdrawalStatus
	ProducerDocument string
	CreatedAt        time.Time
	ApprovedAt       *time.Time
}
