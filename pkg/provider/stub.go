package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Stub is an in-process gateway for development and tests. It succeeds for
// any pm_ payment method except pm_card_chargeDeclined and keeps its intents
// in memory.
type Stub struct {
	mu      sync.Mutex
	intents map[string]*Intent

	confirmCalls int
	refundCalls  int

	// FailNextConfirm makes the next ConfirmIntent return an
	// UnavailableError without touching intent state.
	FailNextConfirm bool
}

func NewStub() *Stub {
	return &Stub{intents: make(map[string]*Intent)}
}

func (s *Stub) CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	in := &Intent{
		ID:           id,
		ClientSecret: id + "_secret_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		Status:       "requires_payment_method",
		Amount:       params.Amount,
		Currency:     strings.ToUpper(params.Currency),
	}
	s.intents[id] = in
	cp := *in
	return &cp, nil
}

func (s *Stub) RetrieveIntent(ctx context.Context, intentID string) (*Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.intents[intentID]
	if !ok {
		return nil, &RejectedError{Op: "retrieve intent", Code: "resource_missing", Message: "no such payment_intent: " + intentID}
	}
	cp := *in
	return &cp, nil
}

func (s *Stub) ConfirmIntent(ctx context.Context, intentID, paymentMethodID string) (*Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmCalls++
	if s.FailNextConfirm {
		s.FailNextConfirm = false
		return nil, &UnavailableError{Op: "confirm intent", Err: errors.New("stub forced failure")}
	}
	in, ok := s.intents[intentID]
	if !ok {
		return nil, &RejectedError{Op: "confirm intent", Code: "resource_missing", Message: "no such payment_intent: " + intentID}
	}
	if paymentMethodID == "pm_card_chargeDeclined" {
		return nil, &RejectedError{Op: "confirm intent", Code: "card_declined", Message: "Your card was declined."}
	}
	if !strings.HasPrefix(paymentMethodID, "pm_") {
		return nil, &RejectedError{Op: "confirm intent", Code: "invalid_payment_method", Message: fmt.Sprintf("invalid payment method: %s", paymentMethodID)}
	}
	in.Status = "succeeded"
	cp := *in
	return &cp, nil
}

func (s *Stub) CreateRefund(ctx context.Context, intentID string, amount int64) (*Refund, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refundCalls++
	in, ok := s.intents[intentID]
	if !ok {
		return nil, &RejectedError{Op: "create refund", Code: "resource_missing", Message: "no such payment_intent: " + intentID}
	}
	if in.Status != "succeeded" {
		return nil, &RejectedError{Op: "create refund", Code: "charge_not_refundable", Message: "payment intent has not succeeded"}
	}
	if amount == 0 {
		amount = in.Amount
	}
	return &Refund{
		ID:     "re_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Amount: amount,
		Status: "succeeded",
	}, nil
}

// ConfirmCalls reports how many times ConfirmIntent was invoked; tests use
// it to assert idempotency.
func (s *Stub) ConfirmCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmCalls
}

func (s *Stub) RefundCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refundCalls
}

// SetIntentStatus overrides a stored intent's status, letting tests model
// provider-side transitions the local engine has not seen yet.
func (s *Stub) SetIntentStatus(intentID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if in, ok := s.intents[intentID]; ok {
		in.Status = status
	}
}
