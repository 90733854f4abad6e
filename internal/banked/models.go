package banked

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// PaymentSession represents a Banked payment session: a single-use request for a
// bank-to-bank transfer with a hosted payment URL.
//
// Callers populate SuccessURL, ErrorURL, LineItems, Payee and Reference (plus
// optionally Payer and EmailReceipt) before CreatePaymentSession; the remaining
// fields are assigned by the API and appear on create and fetch responses.
type PaymentSession struct {
	ID         string     `json:"id,omitempty"`
	SuccessURL string     `json:"success_url"`
	ErrorURL   string     `json:"error_url"`
	LineItems  []LineItem `json:"line_items"`
	Payee      Payee      `json:"payee"`
	// Reference appears on the payer's bank statement. The API caps it at 18
	// characters; the limit is enforced remotely, not here.
	Reference string `json:"reference"`
	Payer     *Payer `json:"payer,omitempty"`
	// State is the current payment session state as reported by the API.
	State string `json:"state,omitempty"`
	// PaymentURL is the hosted page the customer is directed to for payment.
	PaymentURL  string           `json:"url,omitempty"`
	TotalAmount *decimal.Decimal `json:"amount,omitempty"`
	CreatedAt   *APITime         `json:"created_at,omitempty"`
	// EndToEndID identifies the entire transaction journey.
	EndToEndID   string `json:"end_to_end_id,omitempty"`
	LiveMode     bool   `json:"live"`
	EmailReceipt bool   `json:"email_receipt"`
}

// Payee is the recipient of funds.
type Payee struct {
	Name string `json:"name"`
	// AccountNumber has no spaces, e.g. 12345678.
	AccountNumber string `json:"account_number"`
	// SortCode has no hyphens, e.g. 123456.
	SortCode string `json:"sort_code"`
}

// Payer identifies the person making the payment. Optional when using the hosted
// checkout, in which case leave the session's Payer nil.
type Payer struct {
	Name         string `json:"name,omitempty"`
	EmailAddress string `json:"email,omitempty"`
}

// LineItem is one itemized charge contributing to a payment session.
type LineItem struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Amount is in minor currency units (1/100), e.g. 12345 is £123.45.
	Amount int `json:"amount"`
	// Currency is an ISO 4217 code.
	Currency string `json:"currency"`
	Quantity int    `json:"quantity"`
}

// Provider is a bank or financial institution supported by Banked.
type Provider struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Status is "AVAILABLE" when the provider can route payments.
	Status        string `json:"status"`
	SupportsBatch bool   `json:"supports_batch"`
}

// BankAccount is a bank account wired up to the Banked API. Read-only; the
// embedded Provider is a snapshot taken by the API at fetch time.
type BankAccount struct {
	ID             string `json:"id"`
	AccountName    string `json:"name"`
	AccountNumber  string `json:"account_number"`
	AccountType    string `json:"account_type"`
	AccountSubType string `json:"account_sub_type"`
	SortCode       string `json:"sort_code"`
	// AccountCurrency is the account's default currency.
	AccountCurrency string `json:"currency"`
	// ConsentExpiresAt indicates when access consent must be re-granted.
	ConsentExpiresAt *APITime `json:"consent_expires_at,omitempty"`
	Provider         Provider `json:"provider"`
}

// ErrorDetail is one element of the API's error payload. Source has no fixed
// shape, so it is kept raw for callers to inspect structurally.
type ErrorDetail struct {
	Code    string          `json:"code"`
	Source  json.RawMessage `json:"source,omitempty"`
	Message string          `json:"title"`
}

// errorEnvelope is the wire wrapper around error details on 400/422 responses.
type errorEnvelope struct {
	Errors []ErrorDetail `json:"errors"`
}
