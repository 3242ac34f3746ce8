package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StripeClient talks to a Stripe-style payment intents API: form-encoded
// request bodies, bearer secret key, JSON responses.
type StripeClient struct {
	BaseURL   string
	SecretKey string
	ReturnURL string
	client    *http.Client
}

func NewStripeClient(baseURL, secretKey, returnURL string, timeout time.Duration) *StripeClient {
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &StripeClient{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		ReturnURL: returnURL,
		client:    &http.Client{Timeout: timeout},
	}
}

type intentResp struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type refundResp struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *StripeClient) CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.Amount, 10))
	form.Set("currency", strings.ToLower(params.Currency))
	form.Set("payment_method_types[]", "card")
	for k, v := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}
	var out intentResp
	if err := c.do(ctx, "create intent", http.MethodPost, "/v1/payment_intents", form, &out); err != nil {
		return nil, err
	}
	return intentFromResp(out), nil
}

func (c *StripeClient) RetrieveIntent(ctx context.Context, intentID string) (*Intent, error) {
	var out intentResp
	if err := c.do(ctx, "retrieve intent", http.MethodGet, "/v1/payment_intents/"+intentID, nil, &out); err != nil {
		return nil, err
	}
	return intentFromResp(out), nil
}

func (c *StripeClient) ConfirmIntent(ctx context.Context, intentID, paymentMethodID string) (*Intent, error) {
	form := url.Values{}
	form.Set("payment_method", paymentMethodID)
	if c.ReturnURL != "" {
		form.Set("return_url", c.ReturnURL)
	}
	var out intentResp
	if err := c.do(ctx, "confirm intent", http.MethodPost, "/v1/payment_intents/"+intentID+"/confirm", form, &out); err != nil {
		return nil, err
	}
	return intentFromResp(out), nil
}

func (c *StripeClient) CreateRefund(ctx context.Context, intentID string, amount int64) (*Refund, error) {
	form := url.Values{}
	form.Set("payment_intent", intentID)
	if amount > 0 {
		form.Set("amount", strconv.FormatInt(amount, 10))
	}
	var out refundResp
	if err := c.do(ctx, "create refund", http.MethodPost, "/v1/refunds", form, &out); err != nil {
		return nil, err
	}
	return &Refund{ID: out.ID, Amount: out.Amount, Status: out.Status}, nil
}

func (c *StripeClient) do(ctx context.Context, op, method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return &UnavailableError{Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		// Timeouts and transport failures leave no trustworthy provider
		// state locally, so they classify as transient.
		return &UnavailableError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &UnavailableError{Op: op, Err: err}
	}
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		log.Printf("[provider] %s: transient upstream failure status=%d", op, resp.StatusCode)
		return &UnavailableError{Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if resp.StatusCode >= 400 {
		var apiErr apiError
		_ = json.Unmarshal(respBody, &apiErr)
		msg := apiErr.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return &RejectedError{Op: op, Code: apiErr.Error.Code, Message: msg}
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &UnavailableError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func intentFromResp(r intentResp) *Intent {
	return &Intent{
		ID:           r.ID,
		ClientSecret: r.ClientSecret,
		Status:       r.Status,
		Amount:       r.Amount,
		Currency:     strings.ToUpper(r.Currency),
	}
}
