package domain

// Payment intent statuses mirrored from the provider. Transitions are
// monotonic: succeeded and canceled are absorbing.
const (
	PaymentStatusRequiresPaymentMethod = "requires_payment_method"
	PaymentStatusRequiresConfirmation  = "requires_confirmation"
	PaymentStatusRequiresAction        = "requires_action"
	PaymentStatusProcessing            = "processing"
	PaymentStatusRequiresCapture       = "requires_capture"
	PaymentStatusCanceled              = "canceled"
	PaymentStatusSucceeded             = "succeeded"
)

const (
	RefundStatusPending   = "pending"
	RefundStatusSucceeded = "succeeded"
	RefundStatusFailed    = "failed"
	RefundStatusCanceled  = "canceled"
)

const DefaultRefundReason = "requested_by_customer"

// SupportedCurrencies is the storage-level enum; the validation gate is
// stricter (PKR only) for processing.
var SupportedCurrencies = []string{"PKR", "USD", "EUR", "GBP"}

func IsTerminalPaymentStatus(s string) bool {
	return s == PaymentStatusSucceeded || s == PaymentStatusCanceled
}

// NonTerminalPaymentStatuses is used as the guard set for conditional status
// writes: a row already in a terminal state must never be overwritten.
func NonTerminalPaymentStatuses() []string {
	return []string{
		PaymentStatusRequiresPaymentMethod,
		PaymentStatusRequiresConfirmation,
		PaymentStatusRequiresAction,
		PaymentStatusProcessing,
		PaymentStatusRequiresCapture,
	}
}

// TestCard maps a raw test card number onto the provider's canned payment
// method reference.
type TestCard struct {
	Number   string `json:"number"`
	MethodID string `json:"-"`
	Brand    string `json:"brand"`
}

var testCards = map[string]TestCard{
	"4242424242424242": {Number: "4242424242424242", MethodID: "pm_card_visa", Brand: "visa"},
	"5555555555554444": {Number: "5555555555554444", MethodID: "pm_card_mastercard", Brand: "mastercard"},
	"378282246310005":  {Number: "378282246310005", MethodID: "pm_card_amex", Brand: "amex"},
}

// MethodIDDeclined always fails at the provider; only reachable through the
// test routes.
const MethodIDDeclined = "pm_card_chargeDeclined"

func LookupTestCard(number string) (TestCard, bool) {
	tc, ok := testCards[number]
	return tc, ok
}

// LookupTestCardByMethod resolves a canned method reference back to its card,
// used to backfill brand/last4 when confirming by method id.
func LookupTestCardByMethod(methodID string) (TestCard, bool) {
	for _, tc := range testCards {
		if tc.MethodID == methodID {
			return tc, true
		}
	}
	return TestCard{}, false
}

func AllowedTestCards() []TestCard {
	return []TestCard{
		testCards["4242424242424242"],
		testCards["5555555555554444"],
		testCards["378282246310005"],
	}
}

func (t TestCard) Last4() string {
	if len(t.Number) < 4 {
		return t.Number
	}
	return t.Number[len(t.Number)-4:]
}
