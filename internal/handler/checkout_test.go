package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Lovetts-Solicitors/banked-go/internal/banked"
)

type fakeClient struct {
	createFn func(ctx context.Context, session *banked.PaymentSession) (*banked.PaymentSession, error)
}

func (f *fakeClient) CreatePaymentSession(ctx context.Context, session *banked.PaymentSession) (*banked.PaymentSession, error) {
	return f.createFn(ctx, session)
}

type fakeCallback struct {
	calls []CheckoutResponse
	err   error
}

func (f *fakeCallback) Send(ctx context.Context, payload CheckoutResponse) error {
	f.calls = append(f.calls, payload)
	return f.err
}

func testEvent() CheckoutEvent {
	return CheckoutEvent{
		SuccessURL: "https://example.com/success",
		ErrorURL:   "https://example.com/error",
		Reference:  "INV-42",
		Payee:      banked.Payee{Name: "Joe Bloggs", AccountNumber: "12345678", SortCode: "123456"},
		LineItems: []banked.LineItem{
			{Name: "Invoice 42", Amount: 12345, Currency: "GBP", Quantity: 1},
		},
	}
}

func TestProcessorHandleSuccess(t *testing.T) {
	amount := decimal.NewFromInt(12345)
	client := &fakeClient{
		createFn: func(ctx context.Context, session *banked.PaymentSession) (*banked.PaymentSession, error) {
			require.Equal(t, "INV-42", session.Reference)
			require.Nil(t, session.Payer)
			return &banked.PaymentSession{
				ID:          "ps_123",
				State:       "awaiting_payment",
				PaymentURL:  "https://checkout.banked.com/ps_123",
				TotalAmount: &amount,
			}, nil
		},
	}

	cb := &fakeCallback{}
	processor := NewProcessor(client, WithCallbackSender(cb))

	event := testEvent()
	resp, err := processor.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "ps_123", resp.SessionID)
	require.Equal(t, "https://checkout.banked.com/ps_123", resp.PaymentURL)
	require.Equal(t, "awaiting_payment", resp.State)
	require.Equal(t, "12345", resp.Amount)
	require.False(t, resp.Rejected)
	require.Equal(t, event.Reference, resp.Request.Reference)
	require.Len(t, cb.calls, 1)
	require.Equal(t, resp, cb.calls[0])
}

func TestProcessorHandleRejectedSession(t *testing.T) {
	client := &fakeClient{
		createFn: func(ctx context.Context, session *banked.PaymentSession) (*banked.PaymentSession, error) {
			return nil, &banked.ValidationError{
				StatusCode: http.StatusUnprocessableEntity,
				Errors: []banked.ErrorDetail{
					{Code: "invalid", Message: "Reference too long"},
				},
			}
		},
	}

	cb := &fakeCallback{}
	processor := NewProcessor(client, WithCallbackSender(cb))

	resp, err := processor.Handle(context.Background(), testEvent())
	require.NoError(t, err)
	require.True(t, resp.Rejected)
	require.Equal(t, "invalid:Reference too long,", resp.Message)
	require.Empty(t, resp.SessionID)
	require.Len(t, cb.calls, 1)
}

func TestProcessorHandleClientFailure(t *testing.T) {
	client := &fakeClient{
		createFn: func(ctx context.Context, session *banked.PaymentSession) (*banked.PaymentSession, error) {
			return nil, &banked.AuthError{StatusCode: http.StatusUnauthorized}
		},
	}

	cb := &fakeCallback{}
	processor := NewProcessor(client, WithCallbackSender(cb))

	_, err := processor.Handle(context.Background(), testEvent())
	var authErr *banked.AuthError
	require.ErrorAs(t, err, &authErr)
	require.Empty(t, cb.calls)
}

func TestProcessorHandleCallbackFailureIsNonFatal(t *testing.T) {
	client := &fakeClient{
		createFn: func(ctx context.Context, session *banked.PaymentSession) (*banked.PaymentSession, error) {
			return &banked.PaymentSession{ID: "ps_123"}, nil
		},
	}

	cb := &fakeCallback{err: errors.New("endpoint down")}
	processor := NewProcessor(client, WithCallbackSender(cb))

	resp, err := processor.Handle(context.Background(), testEvent())
	require.NoError(t, err)
	require.Equal(t, "ps_123", resp.SessionID)
	require.Len(t, cb.calls, 1)
}

func TestProcessorHandleValidatesInput(t *testing.T) {
	client := &fakeClient{}
	processor := NewProcessor(client)

	_, err := processor.Handle(context.Background(), CheckoutEvent{})
	require.EqualError(t, err, "success_url is required")

	event := testEvent()
	event.LineItems = nil
	_, err = processor.Handle(context.Background(), event)
	require.EqualError(t, err, "at least one line item is required")

	event = testEvent()
	event.Payee.SortCode = ""
	_, err = processor.Handle(context.Background(), event)
	require.EqualError(t, err, "payee name, account number and sort code are required")

	event = testEvent()
	event.Reference = ""
	_, err = processor.Handle(context.Background(), event)
	require.EqualError(t, err, "reference is required")
}
