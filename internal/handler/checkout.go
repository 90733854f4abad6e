package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Lovetts-Solicitors/banked-go/internal/banked"
)

// PaymentClient defines the subset of the Banked client used by the processor.
type PaymentClient interface {
	CreatePaymentSession(ctx context.Context, session *banked.PaymentSession) (*banked.PaymentSession, error)
}

// CheckoutEvent represents the payload sent to the Lambda function.
type CheckoutEvent struct {
	SuccessURL   string            `json:"success_url"`
	ErrorURL     string            `json:"error_url"`
	Reference    string            `json:"reference"`
	Payee        banked.Payee      `json:"payee"`
	LineItems    []banked.LineItem `json:"line_items"`
	Payer        *banked.Payer     `json:"payer,omitempty"`
	EmailReceipt bool              `json:"email_receipt,omitempty"`
}

// CheckoutResponse is emitted after processing completes. Rejected marks
// payloads the API refused to turn into a session; the payer completes payment
// out-of-band via PaymentURL, so the response never reports a final outcome.
type CheckoutResponse struct {
	SessionID  string        `json:"session_id,omitempty"`
	PaymentURL string        `json:"payment_url,omitempty"`
	State      string        `json:"state,omitempty"`
	Amount     string        `json:"amount,omitempty"`
	Rejected   bool          `json:"rejected,omitempty"`
	Message    string        `json:"message,omitempty"`
	Request    CheckoutEvent `json:"request"`
}

// CallbackSender delivers checkout outcomes to downstream systems.
type CallbackSender interface {
	Send(ctx context.Context, payload CheckoutResponse) error
}

// Processor turns checkout events into hosted payment sessions.
type Processor struct {
	client        PaymentClient
	createTimeout time.Duration
	logger        *log.Logger
	callback      CallbackSender
}

// Option customizes the processor.
type Option func(*Processor)

// WithCreateTimeout bounds the session-creation call.
func WithCreateTimeout(d time.Duration) Option {
	return func(p *Processor) {
		if d > 0 {
			p.createTimeout = d
		}
	}
}

// WithLogger lets callers supply a custom logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithCallbackSender wires a callback destination invoked after processing concludes.
func WithCallbackSender(sender CallbackSender) Option {
	return func(p *Processor) {
		p.callback = sender
	}
}

// NewProcessor builds a Processor with sane defaults.
func NewProcessor(client PaymentClient, opts ...Option) *Processor {
	p := &Processor{
		client:        client,
		createTimeout: 30 * time.Second,
		logger:        log.New(os.Stdout, "banked-checkout ", log.LstdFlags),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Handle implements the AWS Lambda handler entry point. A payload the API
// rejects as invalid produces a rejected response rather than a handler error,
// so callers see the per-field detail instead of a retryable failure.
func (p *Processor) Handle(ctx context.Context, event CheckoutEvent) (CheckoutResponse, error) {
	if err := validateEvent(event); err != nil {
		return CheckoutResponse{}, err
	}

	p.logger.Printf("creating payment session reference=%s items=%d", event.Reference, len(event.LineItems))

	ctx, cancel := context.WithTimeout(ctx, p.createTimeout)
	defer cancel()

	session, err := p.client.CreatePaymentSession(ctx, &banked.PaymentSession{
		SuccessURL:   event.SuccessURL,
		ErrorURL:     event.ErrorURL,
		LineItems:    event.LineItems,
		Payee:        event.Payee,
		Reference:    event.Reference,
		Payer:        event.Payer,
		EmailReceipt: event.EmailReceipt,
	})
	if err != nil {
		var validationErr *banked.ValidationError
		if errors.As(err, &validationErr) {
			p.logger.Printf("payment session rejected reference=%s: %s", event.Reference, validationErr.Error())
			resp := CheckoutResponse{
				Rejected: true,
				Message:  validationErr.Error(),
				Request:  event,
			}
			p.emitCallback(ctx, resp)
			return resp, nil
		}
		return CheckoutResponse{}, fmt.Errorf("create payment session: %w", err)
	}

	p.logger.Printf("payment session created id=%s state=%s", session.ID, session.State)

	resp := CheckoutResponse{
		SessionID:  session.ID,
		PaymentURL: session.PaymentURL,
		State:      session.State,
		Request:    event,
	}
	if session.TotalAmount != nil {
		resp.Amount = session.TotalAmount.String()
	}

	p.emitCallback(ctx, resp)
	return resp, nil
}

func validateEvent(event CheckoutEvent) error {
	if strings.TrimSpace(event.SuccessURL) == "" {
		return errors.New("success_url is required")
	}
	if strings.TrimSpace(event.ErrorURL) == "" {
		return errors.New("error_url is required")
	}
	if len(event.LineItems) == 0 {
		return errors.New("at least one line item is required")
	}
	if strings.TrimSpace(event.Payee.Name) == "" || event.Payee.AccountNumber == "" || event.Payee.SortCode == "" {
		return errors.New("payee name, account number and sort code are required")
	}
	if strings.TrimSpace(event.Reference) == "" {
		return errors.New("reference is required")
	}
	return nil
}

func (p *Processor) emitCallback(ctx context.Context, resp CheckoutResponse) {
	if p.callback == nil {
		return
	}
	if err := p.callback.Send(ctx, resp); err != nil {
		p.logger.Printf("callback delivery failed: %v", err)
	}
}
