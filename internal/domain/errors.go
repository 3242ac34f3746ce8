package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a missing record and one owned by another
	// merchant; callers cannot tell the two apart.
	ErrNotFound = errors.New("record not found")

	// ErrIntentMismatch guards confirmation against a provider intent id
	// that does not belong to the payment being confirmed.
	ErrIntentMismatch = errors.New("payment intent id mismatch")

	// ErrProviderInvariant means the provider reported state that breaks a
	// local invariant (e.g. refunds exceeding the payment amount).
	ErrProviderInvariant = errors.New("provider response violates payment invariant")

	// ErrRefundExceedsBalance rejects a partial refund larger than the
	// remaining refundable balance before any provider call is made.
	ErrRefundExceedsBalance = errors.New("refund amount exceeds refundable balance")
)

// NonConfirmableStateError is returned when a payment's current status does
// not admit confirmation. It carries a remediation hint for the caller.
type NonConfirmableStateError struct {
	Status string
}

func (e *NonConfirmableStateError) Error() string {
	return fmt.Sprintf("cannot confirm payment with status: %s", e.Status)
}

func (e *NonConfirmableStateError) Hint() string {
	if e.Status == PaymentStatusCanceled {
		return "This payment has been canceled. Create a new payment to try again."
	}
	return "This payment is currently being processed. Please wait for the current process to complete."
}

// InvalidRefundStateError is returned when refunding a payment that has not
// succeeded.
type InvalidRefundStateError struct {
	Status string
}

func (e *InvalidRefundStateError) Error() string {
	return fmt.Sprintf("can only refund succeeded payments, current status: %s", e.Status)
}

// UnknownTestCardError rejects card numbers outside the allowed test set.
type UnknownTestCardError struct {
	Number string
}

func (e *UnknownTestCardError) Error() string {
	return "invalid test card number"
}
