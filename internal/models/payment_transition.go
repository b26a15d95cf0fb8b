package models

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a transition cannot be applied.
var ErrInvalidTransition = errors.New("invalid payment transition")

// Transition is a settlement status change. The set is closed: SetPaid,
// SetPartial, ClearPayment and SetStatusExplicit are the only implementations.
// Status never changes because of which other fields an update carries.
type Transition interface {
	apply(p *Payment) error
	Name() string
}

// SetPaid records the payment date and marks the payment paid.
type SetPaid struct {
	Date Date
}

// Name implements Transition.
func (SetPaid) Name() string { return "set_paid" }

func (t SetPaid) apply(p *Payment) error {
	if t.Date.IsZero() {
		return fmt.Errorf("%w: set_paid requires a payment date", ErrInvalidTransition)
	}
	p.PaymentDate = t.Date.Ptr()
	p.Status = PaymentPaid
	return nil
}

// SetPartial marks the payment partially settled. The payment date is
// recorded when given and left as is otherwise.
type SetPartial struct {
	Date *Date
}

// Name implements Transition.
func (SetPartial) Name() string { return "set_partial" }

func (t SetPartial) apply(p *Payment) error {
	if t.Date != nil && !t.Date.IsZero() {
		p.PaymentDate = t.Date.Ptr()
	}
	p.Status = PaymentPartial
	return nil
}

// ClearPayment removes the payment date and reverts the payment to unpaid.
type ClearPayment struct{}

// Name implements Transition.
func (ClearPayment) Name() string { return "clear_payment" }

func (ClearPayment) apply(p *Payment) error {
	p.PaymentDate = nil
	p.Status = PaymentUnpaid
	return nil
}

// SetStatusExplicit overrides the status without touching the payment date.
type SetStatusExplicit struct {
	Status PaymentStatus
}

// Name implements Transition.
func (SetStatusExplicit) Name() string { return "set_status" }

func (t SetStatusExplicit) apply(p *Payment) error {
	if !t.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, t.Status)
	}
	p.Status = t.Status
	return nil
}

// PaymentUpdate lists the client-mutable fields of a Payment plus an optional transition.
type PaymentUpdate struct {
	Method         *string
	Notes          *string
	Transition     Transition
	RequestReceipt bool
}

// Apply copies the set fields onto p and runs the transition, if any.
// settled is true when the call moved the payment into paid from another status.
func (upd PaymentUpdate) Apply(p *Payment) (settled bool, err error) {
	before := p.Status

	if upd.Transition != nil {
		if err := upd.Transition.apply(p); err != nil {
			return false, err
		}
	}
	if upd.Method != nil {
		p.Method = upd.Method
	}
	if upd.Notes != nil {
		p.Notes = upd.Notes
	}

	return before != PaymentPaid && p.Status == PaymentPaid, nil
}
