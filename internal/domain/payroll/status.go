package payroll

import "fmt"

// PayrollStatus enum
type PayrollStatus string

const (
	StatusDraft          PayrollStatus = "DRAFT"
	StatusPending        PayrollStatus = "PENDING"
	StatusApproved       PayrollStatus = "APPROVED"
	StatusRejected       PayrollStatus = "REJECTED"
	StatusPendingPayment PayrollStatus = "PENDING_PAYMENT"
	StatusPaid           PayrollStatus = "PAID"
	StatusFailed         PayrollStatus = "FAILED"
	StatusCancelled      PayrollStatus = "CANCELLED"
	StatusArchived       PayrollStatus = "ARCHIVED"
)

// AllStatuses in lifecycle order.
var AllStatuses = []PayrollStatus{
	StatusDraft,
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusPendingPayment,
	StatusPaid,
	StatusFailed,
	StatusCancelled,
	StatusArchived,
}

func (s PayrollStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

var transitions = map[PayrollStatus][]PayrollStatus{
	StatusDraft:          {StatusPending, StatusCancelled, StatusArchived},
	StatusPending:        {StatusApproved, StatusRejected, StatusCancelled, StatusArchived},
	StatusApproved:       {StatusPendingPayment},
	StatusPendingPayment: {StatusPaid, StatusFailed},
	StatusFailed:         {StatusPendingPayment},
}

func CanTransition(from, to PayrollStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ValidateTransition(from, to PayrollStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, from, to)
	}
	return nil
}

// IsEditable reports whether amounts may still be recomputed.
func (s PayrollStatus) IsEditable() bool {
	return s == StatusDraft
}

type Action string

const (
	ActionSubmit          Action = "submit"
	ActionApprove         Action = "approve"
	ActionReject          Action = "reject"
	ActionInitiatePayment Action = "initiate_payment"
	ActionMarkPaid        Action = "mark_paid"
	ActionMarkFailed      Action = "mark_failed"
	ActionRetryPayment    Action = "retry_payment"
	ActionCancel          Action = "cancel"
	ActionArchive         Action = "archive"
)

var actionTargets = map[Action]PayrollStatus{
	ActionSubmit:          StatusPending,
	ActionApprove:         StatusApproved,
	ActionReject:          StatusRejected,
	ActionInitiatePayment: StatusPendingPayment,
	ActionMarkPaid:        StatusPaid,
	ActionMarkFailed:      StatusFailed,
	ActionRetryPayment:    StatusPendingPayment,
	ActionCancel:          StatusCancelled,
	ActionArchive:         StatusArchived,
}

// actionSources narrows actions that share a target to the one status each
// may start from.
var actionSources = map[Action]PayrollStatus{
	ActionInitiatePayment: StatusApproved,
	ActionRetryPayment:    StatusFailed,
}

// Target returns the status an action moves a record to.
func (a Action) Target() (PayrollStatus, bool) {
	s, ok := actionTargets[a]
	return s, ok
}

// Apply returns the status a record in from moves to under a, or
// ErrInvalidStatusTransition when the action does not apply there.
func (a Action) Apply(from PayrollStatus) (PayrollStatus, error) {
	target, ok := a.Target()
	if !ok {
		return "", ErrInvalidAction
	}
	if source, narrowed := actionSources[a]; narrowed && from != source {
		return "", fmt.Errorf("%w: %s not allowed from %s", ErrInvalidStatusTransition, a, from)
	}
	if err := ValidateTransition(from, target); err != nil {
		return "", err
	}
	return target, nil
}

// IsPayment reports whether the action moves money and so belongs to
// payment processing.
func (a Action) IsPayment() bool {
	switch a {
	case ActionInitiatePayment, ActionMarkPaid, ActionMarkFailed, ActionRetryPayment:
		return true
	}
	return false
}

// Level is the approval-history level recorded for an action.
func (a Action) Level() int {
	switch a {
	case ActionSubmit:
		return 1
	case ActionApprove, ActionReject:
		return 2
	case ActionInitiatePayment, ActionMarkFailed, ActionRetryPayment:
		return 3
	case ActionMarkPaid:
		return 4
	}
	return 0
}
