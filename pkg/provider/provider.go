package provider

import (
	"context"
	"errors"
	"fmt"
)

// Intent is the provider's view of a single payment attempt. Its status is
// authoritative; the local record mirrors it.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
}

type Refund struct {
	ID     string
	Amount int64
	Status string
}

type CreateIntentParams struct {
	Amount   int64
	Currency string
	Metadata map[string]string
}

// Gateway is the contract with the external card processor. Implementations
// must classify failures as UnavailableError (transient, safe to retry) or
// RejectedError (permanent, do not retry unmodified).
type Gateway interface {
	CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*Intent, error)
	ConfirmIntent(ctx context.Context, intentID, paymentMethodID string) (*Intent, error)
	// CreateRefund refunds the given amount; amount 0 means a full refund.
	CreateRefund(ctx context.Context, intentID string, amount int64) (*Refund, error)
}

// UnavailableError wraps transient upstream failures: timeouts, transport
// errors, 5xx responses. Local state is never mutated on these.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("provider unavailable during %s: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// RejectedError is a permanent upstream refusal, e.g. a declined card or an
// invalid payment method.
type RejectedError struct {
	Op      string
	Code    string
	Message string
}

func (e *RejectedError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider rejected %s (%s): %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("provider rejected %s: %s", e.Op, e.Message)
}

func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}

func IsRejected(err error) bool {
	var re *RejectedError
	return errors.As(err, &re)
}
