package service

import (
	"context"
	"sync"
	"testing"

	"github.com/muhammadfahaddev/PayBridge/internal/database"
	"github.com/muhammadfahaddev/PayBridge/internal/domain"
	"github.com/muhammadfahaddev/PayBridge/internal/models"
	"github.com/muhammadfahaddev/PayBridge/internal/repository"
	"github.com/muhammadfahaddev/PayBridge/pkg/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newTestService(t *testing.T) (*PaymentService, *provider.Stub, *models.Merchant, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	m := &models.Merchant{
		Name:         "Test Merchant",
		Email:        "merchant@example.com",
		PasswordHash: "x",
		APIKeyID:     "abcd1234",
		APIKeyHash:   "x",
		IsActive:     true,
	}
	require.NoError(t, db.Create(m).Error)

	stub := provider.NewStub()
	svc := NewPaymentService(
		repository.NewPaymentRepository(db),
		repository.NewRefundRepository(db),
		repository.NewCardRepository(db),
		stub,
	)
	return svc, stub, m, db
}

func createTestPayment(t *testing.T, svc *PaymentService, merchantID string) *PaymentView {
	t.Helper()
	view, err := svc.Create(context.Background(), merchantID, CreatePaymentInput{
		Amount:   20000,
		Currency: "PKR",
		OrderID:  "ORD-1",
	})
	require.NoError(t, err)
	return view
}

func TestCreatePayment(t *testing.T) {
	svc, _, m, _ := newTestService(t)

	view := createTestPayment(t, svc, m.ID)
	assert.Equal(t, domain.PaymentStatusRequiresPaymentMethod, view.Status)
	assert.Equal(t, int64(20000), view.Amount)
	assert.Equal(t, "PKR", view.Currency)
	assert.NotEmpty(t, view.PaymentID)
	assert.NotEmpty(t, view.ProviderIntentID)
	assert.NotEmpty(t, view.ClientSecret)
}

func TestCreatePaymentNoOrderDedup(t *testing.T) {
	svc, _, m, _ := newTestService(t)

	// Two creates for the same order reference yield two distinct payments.
	first := createTestPayment(t, svc, m.ID)
	second := createTestPayment(t, svc, m.ID)
	assert.NotEqual(t, first.PaymentID, second.PaymentID)
	assert.NotEqual(t, first.ProviderIntentID, second.ProviderIntentID)
}

func TestConfirmWithCardSucceeds(t *testing.T) {
	svc, stub, m, _ := newTestService(t)
	p := createTestPayment(t, svc, m.ID)

	view, err := svc.ConfirmWithCard(context.Background(), p.PaymentID, m.ID, "4242424242424242", 12, 2030)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSucceeded, view.Status)
	assert.Equal(t, "visa", view.CardBrand)
	assert.Equal(t, "4242", view.CardLast4)
	assert.NotEmpty(t, view.CardID)
	assert.Equal(t, 1, stub.ConfirmCalls())
}

func TestConfirmWithCardIdempotent(t *testing.T) {
	svc, stub, m, _ := newTestService(t)
	p := createTestPayment(t, svc, m.ID)

	first, err := svc.ConfirmWithCard(context.Background(), p.PaymentID, m.ID, "4242424242424242", 12, 2030)
	require.NoError(t, err)
	second, err := svc.ConfirmWithCard(context.Background(), p.PaymentID, m.ID, "4242424242424242", 12, 2030)
	require.NoError(t, err)

	// The retry returns the stored record without touching the provider.
	assert.Equal(t, first.PaymentID, second.PaymentID)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.CardID, second.CardID)
	assert.Equal(t, 1, stub.ConfirmCalls())
}

func TestConfirmWithCardUnknownCard(t *testing.T) {
	svc, stub, m, _ := newTestService(t)
	p := createTestPayment(t, svc, m.ID)

	_, err := svc.ConfirmWithCard(context.Background(), p.PaymentID, m.ID, "1111222233334444", 12, 2030)
	var unknown *domain.UnknownTestCardError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, 0, stub.ConfirmCalls())
}

func TestConfirmCanceledPaymentRejected(t *testing.T) {
	svc, stub, m, db := newTestService(t)
	p := createTestPayment(t, svc, m.ID)

	require.NoError(t, db.Model(&models.Payment{}).
		Where("id = ?", p.PaymentID).
		Update("status", domain.PaymentStatusCanceled).Error)

	_, err := svc.ConfirmWithCard(context.Background(), p.PaymentID, m.ID, "4242424242424242", 12, 2030)
	var stateErr *domain.NonConfirmableStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, domain.PaymentStatusCanceled, stateErr.Status)
	assert.Contains(t, stateErr.Hint(), "Create a new payment")
	assert.Equal(t, 0, stub.ConfirmCalls())
}

func TestConfirmProcessingPaymentRejected(t *testing.T) {
	svc, stub, m, db := newTestService(t)
	p := createTestPayment(t, svc, m.ID)

	require.NoError(t, db.Model(&models.Payment{}).
		Where("id = ?", p.PaymentID).
		Update("status", domain.PaymentStatusProcessing).Error)

	_, err := svc.ConfirmWithMethod(context.Background(), p.PaymentID, m.ID, "pm_card_visa")
	var stateErr *domain.NonConfirmableStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Contains(t, stateErr.Hint(), "wait")
	assert.Equal(t, 0, stub.ConfirmCalls())
}

func TestConfirmOwnershipScoped(t *testing.T) {
	svc, stub, m, db := newTestService(t)
	p := createTestPayment(t, svc, m.ID)

	other := &models.Merchant{
		Name: "Other", Email: "other@example.com", PasswordHash: "x",
		APIKeyID: "efgh5678", APIKeyHash: "x", IsActive: true,
	}
	require.NoError(t, db.Create(other).Error)

	_, err := svc.ConfirmWithCard(context.Background(), p.PaymentID, other.ID, "4242424242424242", 12, 2030)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, stub.ConfirmCalls())
}

func TestConfirmDeclinedCard(t *testing.T) {
	svc, _, m, db := newTestService(t)
	p := createTestPayment(t, svc, m.ID)

	_, err := svc.ConfirmWithMethod(context.Background(), p.PaymentID, m.ID, domain.MethodIDDeclined)
	assert.True(t, provider.IsRejected(err))

	// A rejection leaves local state untouched so the caller can retry with
	// a different instrument.
	var stored models.Payment
	require.NoError(t, db.Where("id = ?", p.PaymentID).First(&stored).Error)
	assert.Equal(t, domain.PaymentStatusRequiresPaymentMethod, stored.Status)
}

func TestConfirmProviderUnavailableLeavesStateUnchanged(t *testing.T) {
	svc, stub, m, db := newTestService(t)
	p := createTestPayment(t, svc, m.ID)

	stub.FailNextConfirm = true
	_, err := svc.ConfirmWithCard(context.Background(), p.PaymentID, m.ID, "4242424242424242", 12, 2030)
	assert.True(t, provider.IsUnavailable(err))

	var stored models.Payment
	require.NoError(t, db.Where("id = ?", p.PaymentID).First(&stored).Error)
	assert.Equal(t, domain.PaymentStatusRequiresPaymentMethod, stored.Status)

	// The same call retried afterwards completes normally.
	view, err := svc.ConfirmWithCard(context.Background(), p.PaymentID, m.ID, "4242424242424242", 12, 2030)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSucceeded, view.Status)
}

func TestConcurrentConfirmSingleProviderCall(t *testing.T) {
	svc, stub, m, _ := newTestService(t)
	p := createTestPayment(t, svc, m.ID)

	var wg sync.WaitGroup
	results := make([]*PaymentView, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.ConfirmWithCard(context.Background(), p.PaymentID, m.ID, "4242424242424242", 12, 2030)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 1, stub.ConfirmCalls(), "loser must observe the winner's result, not re-charge")
	assert.Equal(t, domain.PaymentStatusSucceeded, results[0].Status)
	assert.Equal(t, domain.PaymentStatusSucceeded, results[1].Status)
}

func TestConfirmByIntentIDMismatch(t *testing.T) {
	svc, _, m, _ := newTestService(t)
	p := createTestPayment(t, svc, m.ID)
	other := createTestPayment(t, svc, m.ID)

	_, err := svc.ConfirmByIntentID(context.Background(), p.PaymentID, other.ProviderIntentID)
	assert.ErrorIs(t, err, domain.ErrIntentMismatch)
}

func TestConfirmByIntentIDTerminalIsAbsorbing(t *testing.T) {
	svc, stub, m, _ := newTestService(t)
	p := createTestPayment(t, svc, m.ID)

	_, err := svc.ConfirmWithMethod(context.Background(), p.PaymentID, m.ID, "pm_card_visa")
	require.NoError(t, err)

	// Even if the provider reports a regression, the succeeded row stays.
	stub.SetIntentStatus(p.ProviderIntentID, domain.PaymentStatusProcessing)
	view, err := svc.ConfirmByIntentID(context.Background(), p.PaymentID, p.ProviderIntentID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSucceeded, view.Status)
}

func TestCreateRefundFull(t *testing.T) {
	svc, _, m, _ := newTestService(t)
	p := createTestPayment(t, svc, m.ID)
	_, err := svc.ConfirmWithMethod(context.Background(), p.PaymentID, m.ID, "pm_card_visa")
	require.NoError(t, err)

	ref, err := svc.CreateRefund(context.Background(), p.PaymentID, m.ID, 0, "")
	require.NoError(t, err)
	assert.Equal(t, int64(20000), ref.Amount)
	assert.Equal(t, domain.RefundStatusSucceeded, ref.Status)
	assert.Equal(t, domain.DefaultRefundReason, ref.Reason)
}

func TestCreateRefundFullIdempotent(t *testing.T) {
	svc, stub, m, _ := newTestService(t)
	p := createTestPayment(t, svc, m.ID)
	_, err := svc.ConfirmWithMethod(context.Background(), p.PaymentID, m.ID, "pm_card_visa")
	require.NoError(t, err)

	first, err := svc.CreateRefund(context.Background(), p.PaymentID, m.ID, 0, "")
	require.NoError(t, err)
	second, err := svc.CreateRefund(context.Background(), p.PaymentID, m.ID, 0, "")
	require.NoError(t, err)

	assert.Equal(t, first.RefundID, second.RefundID)
	assert.Equal(t, first.ProviderRefundID, second.ProviderRefundID)
	assert.Equal(t, 1, stub.RefundCalls())
}

func TestCreateRefundRequiresSucceeded(t *testing.T) {
	svc, stub, m, _ := newTestService(t)
	p := createTestPayment(t, svc, m.ID)

	_, err := svc.CreateRefund(context.Background(), p.PaymentID, m.ID, 0, "")
	var stateErr *domain.InvalidRefundStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, domain.PaymentStatusRequiresPaymentMethod, stateErr.Status)
	assert.Equal(t, 0, stub.RefundCalls())
}

func TestCreateRefundOwnershipScoped(t *testing.T) {
	svc, stub, m, db := newTestService(t)
	p := createTestPayment(t, svc, m.ID)
	_, err := svc.ConfirmWithMethod(context.Background(), p.PaymentID, m.ID, "pm_card_visa")
	require.NoError(t, err)

	other := &models.Merchant{
		Name: "Other", Email: "other@example.com", PasswordHash: "x",
		APIKeyID: "efgh5678", APIKeyHash: "x", IsActive: true,
	}
	require.NoError(t, db.Create(other).Error)

	_, err = svc.CreateRefund(context.Background(), p.PaymentID, other.ID, 0, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, stub.RefundCalls())
}

func TestPartialRefundsRespectBalance(t *testing.T) {
	svc, _, m, _ := newTestService(t)
	p := createTestPayment(t, svc, m.ID)
	_, err := svc.ConfirmWithMethod(context.Background(), p.PaymentID, m.ID, "pm_card_visa")
	require.NoError(t, err)

	_, err = svc.CreateRefund(context.Background(), p.PaymentID, m.ID, 15000, "duplicate")
	require.NoError(t, err)

	// Remaining balance is 5000; asking for more fails before any
	// provider call.
	_, err = svc.CreateRefund(context.Background(), p.PaymentID, m.ID, 10000, "")
	assert.ErrorIs(t, err, domain.ErrRefundExceedsBalance)

	ref, err := svc.CreateRefund(context.Background(), p.PaymentID, m.ID, 5000, "")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), ref.Amount)
}

func TestProviderOverRefundSurfaced(t *testing.T) {
	svc, _, m, db := newTestService(t)
	p := createTestPayment(t, svc, m.ID)
	_, err := svc.ConfirmWithMethod(context.Background(), p.PaymentID, m.ID, "pm_card_visa")
	require.NoError(t, err)

	_, err = svc.CreateRefund(context.Background(), p.PaymentID, m.ID, 15000, "")
	require.NoError(t, err)

	// A full-refund request now makes the stub report the whole amount
	// again; accepting it would push succeeded refunds past the payment.
	_, err = svc.CreateRefund(context.Background(), p.PaymentID, m.ID, 0, "")
	assert.ErrorIs(t, err, domain.ErrProviderInvariant)

	// The offending refund was not persisted.
	var count int64
	require.NoError(t, db.Model(&models.Refund{}).
		Where("payment_id = ?", p.PaymentID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestListRefundsByPayment(t *testing.T) {
	svc, _, m, db := newTestService(t)
	p := createTestPayment(t, svc, m.ID)
	_, err := svc.ConfirmWithMethod(context.Background(), p.PaymentID, m.ID, "pm_card_visa")
	require.NoError(t, err)

	first, err := svc.CreateRefund(context.Background(), p.PaymentID, m.ID, 5000, "")
	require.NoError(t, err)
	second, err := svc.CreateRefund(context.Background(), p.PaymentID, m.ID, 15000, "")
	require.NoError(t, err)

	refunds, err := svc.ListRefunds(p.PaymentID, m.ID)
	require.NoError(t, err)
	require.Len(t, refunds, 2)
	assert.Equal(t, first.RefundID, refunds[0].ID)
	assert.Equal(t, second.RefundID, refunds[1].ID)

	other := &models.Merchant{
		Name: "Other", Email: "other@example.com", PasswordHash: "x",
		APIKeyID: "efgh5678", APIKeyHash: "x", IsActive: true,
	}
	require.NoError(t, db.Create(other).Error)
	_, err = svc.ListRefunds(p.PaymentID, other.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSavedCardNotDuplicated(t *testing.T) {
	svc, _, m, db := newTestService(t)

	p1 := createTestPayment(t, svc, m.ID)
	p2 := createTestPayment(t, svc, m.ID)
	_, err := svc.ConfirmWithCard(context.Background(), p1.PaymentID, m.ID, "4242424242424242", 12, 2030)
	require.NoError(t, err)
	_, err = svc.ConfirmWithCard(context.Background(), p2.PaymentID, m.ID, "4242424242424242", 12, 2030)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.SavedCard{}).
		Where("merchant_id = ?", m.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPKRScenario(t *testing.T) {
	svc, _, m, _ := newTestService(t)

	created, err := svc.Create(context.Background(), m.ID, CreatePaymentInput{
		Amount:   20000,
		Currency: "PKR",
		OrderID:  "ORD-1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusRequiresPaymentMethod, created.Status)

	confirmed, err := svc.ConfirmWithCard(context.Background(), created.PaymentID, m.ID, "4242424242424242", 12, 2030)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSucceeded, confirmed.Status)

	refund, err := svc.CreateRefund(context.Background(), created.PaymentID, m.ID, 0, "")
	require.NoError(t, err)
	assert.Equal(t, int64(20000), refund.Amount)
	assert.Equal(t, domain.RefundStatusSucceeded, refund.Status)

	again, err := svc.CreateRefund(context.Background(), created.PaymentID, m.ID, 0, "")
	require.NoError(t, err)
	assert.Equal(t, refund.RefundID, again.RefundID)
}
