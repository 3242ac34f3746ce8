package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/muhammadfahaddev/PayBridge/internal/domain"
	"github.com/muhammadfahaddev/PayBridge/internal/models"
	"github.com/muhammadfahaddev/PayBridge/internal/repository"
	"github.com/muhammadfahaddev/PayBridge/pkg/provider"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentService is the payment lifecycle engine. It mirrors provider-
// reported status onto local records and keeps confirmation and refunds
// idempotent under retries and concurrent submissions.
type PaymentService struct {
	payments *repository.PaymentRepository
	refunds  *repository.RefundRepository
	cards    *repository.CardRepository
	gateway  provider.Gateway
	locks    *paymentLocks
}

func NewPaymentService(
	payments *repository.PaymentRepository,
	refunds *repository.RefundRepository,
	cards *repository.CardRepository,
	gateway provider.Gateway,
) *PaymentService {
	return &PaymentService{
		payments: payments,
		refunds:  refunds,
		cards:    cards,
		gateway:  gateway,
		locks:    newPaymentLocks(),
	}
}

type CreatePaymentInput struct {
	Amount   int64
	Currency string
	OrderID  string
	Metadata map[string]string
}

type PaymentView struct {
	PaymentID        string `json:"payment_id"`
	MerchantID       string `json:"merchant_id,omitempty"`
	ProviderIntentID string `json:"provider_intent_id"`
	ClientSecret     string `json:"client_secret,omitempty"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	OrderID          string `json:"order_id,omitempty"`
	Status           string `json:"status"`
	CardID           string `json:"card_id,omitempty"`
	CardBrand        string `json:"card_brand,omitempty"`
	CardLast4        string `json:"card_last4,omitempty"`
}

type RefundView struct {
	RefundID         string `json:"refund_id"`
	ProviderRefundID string `json:"provider_refund_id"`
	Amount           int64  `json:"amount"`
	Status           string `json:"status"`
	Reason           string `json:"reason"`
}

// Create opens a provider intent and persists the mirroring payment row.
// Every call produces a new payment and a new intent; there is deliberately
// no dedup by order reference, callers wanting one payment per order must
// dedup on their side.
func (s *PaymentService) Create(ctx context.Context, merchantID string, in CreatePaymentInput) (*PaymentView, error) {
	meta := map[string]string{
		"merchant_id": merchantID,
		"order_id":    in.OrderID,
	}
	for k, v := range in.Metadata {
		meta[k] = v
	}
	intent, err := s.gateway.CreateIntent(ctx, provider.CreateIntentParams{
		Amount:   in.Amount,
		Currency: in.Currency,
		Metadata: meta,
	})
	if err != nil {
		return nil, err
	}

	stored := datatypes.JSONMap{}
	for k, v := range in.Metadata {
		stored[k] = v
	}
	p := &models.Payment{
		MerchantID:       merchantID,
		OrderID:          in.OrderID,
		ProviderIntentID: intent.ID,
		ClientSecret:     intent.ClientSecret,
		Amount:           in.Amount,
		Currency:         strings.ToUpper(in.Currency),
		Status:           intent.Status,
		Metadata:         stored,
	}
	if err := s.payments.Create(p); err != nil {
		return nil, err
	}
	return &PaymentView{
		PaymentID:        p.ID,
		ProviderIntentID: intent.ID,
		ClientSecret:     intent.ClientSecret,
		Amount:           p.Amount,
		Currency:         p.Currency,
		Status:           p.Status,
	}, nil
}

// ConfirmByIntentID pulls the authoritative status for a payment's intent
// and mirrors it locally. The supplied intent id must match the stored one;
// terminal rows are never overwritten, so a repeat call is a no-op.
func (s *PaymentService) ConfirmByIntentID(ctx context.Context, paymentID, intentID string) (*PaymentView, error) {
	p, err := s.payments.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if p.ProviderIntentID != intentID {
		return nil, domain.ErrIntentMismatch
	}
	intent, err := s.gateway.RetrieveIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}
	status := p.Status
	if !domain.IsTerminalPaymentStatus(p.Status) {
		changed, err := s.payments.UpdateStatusIf(p.ID, domain.NonTerminalPaymentStatuses(), intent.Status)
		if err != nil {
			return nil, err
		}
		if changed {
			status = intent.Status
		}
	}
	return &PaymentView{
		PaymentID:        p.ID,
		ProviderIntentID: p.ProviderIntentID,
		Amount:           p.Amount,
		Currency:         p.Currency,
		Status:           status,
	}, nil
}

// ConfirmWithCard confirms a payment with raw test card details. It is the
// idempotency-critical path: an already-succeeded payment returns its
// existing record without touching the provider, and the per-payment lock
// keeps two racing confirms down to one provider call.
func (s *PaymentService) ConfirmWithCard(ctx context.Context, paymentID, merchantID, cardNumber string, expMonth, expYear int) (*PaymentView, error) {
	card, ok := domain.LookupTestCard(cardNumber)
	if !ok {
		return nil, &domain.UnknownTestCardError{Number: cardNumber}
	}
	unlock := s.locks.Lock(paymentID)
	defer unlock()

	p, err := s.payments.GetByIDForMerchant(paymentID, merchantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if p.Status == domain.PaymentStatusSucceeded {
		view := s.paymentView(p)
		view.MerchantID = merchantID
		view.CardBrand = card.Brand
		view.CardLast4 = card.Last4()
		if saved, err := s.cards.GetByMerchantAndMethod(merchantID, card.MethodID); err == nil {
			view.CardID = saved.ID
		}
		return view, nil
	}
	if p.Status == domain.PaymentStatusCanceled || p.Status == domain.PaymentStatusProcessing {
		return nil, &domain.NonConfirmableStateError{Status: p.Status}
	}

	// The provider call must run to completion even if the caller hangs up:
	// the charge instruction is already on its way.
	intent, err := s.gateway.ConfirmIntent(context.WithoutCancel(ctx), p.ProviderIntentID, card.MethodID)
	if err != nil {
		return nil, err
	}
	if _, err := s.payments.UpdateStatusIf(p.ID, domain.NonTerminalPaymentStatuses(), intent.Status); err != nil {
		return nil, err
	}
	p.Status = intent.Status

	saved := s.upsertCard(merchantID, card, expMonth, expYear)

	view := s.paymentView(p)
	view.MerchantID = merchantID
	view.CardBrand = card.Brand
	view.CardLast4 = card.Last4()
	if saved != nil {
		view.CardID = saved.ID
	}
	return view, nil
}

// ConfirmWithMethod confirms with a previously issued payment method
// reference. Same guards as ConfirmWithCard.
func (s *PaymentService) ConfirmWithMethod(ctx context.Context, paymentID, merchantID, paymentMethodID string) (*PaymentView, error) {
	unlock := s.locks.Lock(paymentID)
	defer unlock()

	p, err := s.payments.GetByIDForMerchant(paymentID, merchantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if p.Status == domain.PaymentStatusSucceeded {
		return s.paymentView(p), nil
	}
	if p.Status == domain.PaymentStatusCanceled || p.Status == domain.PaymentStatusProcessing {
		return nil, &domain.NonConfirmableStateError{Status: p.Status}
	}

	intent, err := s.gateway.ConfirmIntent(context.WithoutCancel(ctx), p.ProviderIntentID, paymentMethodID)
	if err != nil {
		return nil, err
	}
	if _, err := s.payments.UpdateStatusIf(p.ID, domain.NonTerminalPaymentStatuses(), intent.Status); err != nil {
		return nil, err
	}
	p.Status = intent.Status

	view := s.paymentView(p)
	// Known canned methods can refill the card cache even on the method path.
	if card, ok := domain.LookupTestCardByMethod(paymentMethodID); ok {
		if saved := s.upsertCard(merchantID, card, 0, 0); saved != nil {
			view.CardID = saved.ID
			view.CardBrand = card.Brand
			view.CardLast4 = card.Last4()
		}
	}
	return view, nil
}

// RegisterTestCard validates a test card and caches it as a saved payment
// method without confirming anything.
func (s *PaymentService) RegisterTestCard(merchantID, cardNumber string, expMonth, expYear int) (*models.SavedCard, error) {
	card, ok := domain.LookupTestCard(cardNumber)
	if !ok {
		return nil, &domain.UnknownTestCardError{Number: cardNumber}
	}
	if saved := s.upsertCard(merchantID, card, expMonth, expYear); saved != nil {
		return saved, nil
	}
	return nil, errors.New("failed to save card")
}

// CreateRefund issues a refund against a succeeded payment. amount 0 means a
// full refund; a repeated full-refund request returns the existing refund
// instead of instructing the provider twice.
func (s *PaymentService) CreateRefund(ctx context.Context, paymentID, merchantID string, amount int64, reason string) (*RefundView, error) {
	if reason == "" {
		reason = domain.DefaultRefundReason
	}
	unlock := s.locks.Lock(paymentID)
	defer unlock()

	p, err := s.payments.GetByIDForMerchant(paymentID, merchantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if p.Status != domain.PaymentStatusSucceeded {
		return nil, &domain.InvalidRefundStateError{Status: p.Status}
	}

	refunded, err := s.refunds.SumSucceeded(p.ID)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		existing, err := s.refunds.GetFullSucceeded(p.ID, p.Amount)
		if err == nil {
			return refundView(existing), nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	} else if amount > p.Amount-refunded {
		return nil, domain.ErrRefundExceedsBalance
	}

	ref, err := s.gateway.CreateRefund(context.WithoutCancel(ctx), p.ProviderIntentID, amount)
	if err != nil {
		return nil, err
	}

	// A provider that reports more refunded money than the payment holds is
	// broken state, surfaced rather than persisted.
	if ref.Status == domain.RefundStatusSucceeded && refunded+ref.Amount > p.Amount {
		log.Printf("[payments] provider over-refund on payment %s: %d + %d > %d",
			p.ID, refunded, ref.Amount, p.Amount)
		return nil, domain.ErrProviderInvariant
	}

	rf := &models.Refund{
		PaymentID:        p.ID,
		ProviderRefundID: ref.ID,
		Amount:           ref.Amount,
		Status:           ref.Status,
		Reason:           reason,
	}
	if err := s.refunds.Create(rf); err != nil {
		return nil, err
	}
	return refundView(rf), nil
}

// GetPayment returns a payment with its refunds, scoped to the merchant.
func (s *PaymentService) GetPayment(paymentID, merchantID string) (*models.Payment, error) {
	p, err := s.payments.GetWithRefunds(paymentID, merchantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *PaymentService) ListPayments(merchantID string, f repository.PaymentFilter) ([]models.Payment, int64, error) {
	return s.payments.List(merchantID, f)
}

// ListRefunds returns a payment's refunds oldest-first, scoped to the
// merchant.
func (s *PaymentService) ListRefunds(paymentID, merchantID string) ([]models.Refund, error) {
	if _, err := s.payments.GetByIDForMerchant(paymentID, merchantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s.refunds.ListByPayment(paymentID)
}

func (s *PaymentService) ListCards(merchantID string) ([]models.SavedCard, error) {
	return s.cards.ListByMerchant(merchantID)
}

// upsertCard caches the card lazily: lookup before insert so a method
// already on file never grows a duplicate row.
func (s *PaymentService) upsertCard(merchantID string, card domain.TestCard, expMonth, expYear int) *models.SavedCard {
	saved, err := s.cards.GetByMerchantAndMethod(merchantID, card.MethodID)
	if err == nil {
		return saved
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	saved = &models.SavedCard{
		MerchantID:      merchantID,
		PaymentMethodID: card.MethodID,
		CardBrand:       card.Brand,
		CardLast4:       card.Last4(),
		ExpMonth:        expMonth,
		ExpYear:         expYear,
		IsTestCard:      true,
		IsActive:        true,
	}
	if err := s.cards.Create(saved); err != nil {
		log.Printf("[payments] failed to cache card for merchant %s: %v", merchantID, err)
		return nil
	}
	return saved
}

func (s *PaymentService) paymentView(p *models.Payment) *PaymentView {
	return &PaymentView{
		PaymentID:        p.ID,
		ProviderIntentID: p.ProviderIntentID,
		Amount:           p.Amount,
		Currency:         p.Currency,
		OrderID:          p.OrderID,
		Status:           p.Status,
	}
}

func refundView(rf *models.Refund) *RefundView {
	return &RefundView{
		RefundID:         rf.ID,
		ProviderRefundID: rf.ProviderRefundID,
		Amount:           rf.Amount,
		Status:           rf.Status,
		Reason:           rf.Reason,
	}
}
