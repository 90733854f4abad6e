package banked

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.banked.com/v2"

// Resource paths under the versioned base URL.
const (
	paymentSessionsPath = "/payment_sessions/"
	providersPath       = "/providers/"
	bankAccountsPath    = "/bank_accounts/"
)

// Client is a typed client for the Banked bank-transfer API. Every request is
// authenticated with HTTP Basic auth built from the public/secret key pair.
//
// A Client is safe for concurrent use across operations. SetCredentials may be
// called between calls but not concurrently with an in-flight request.
type Client struct {
	httpClient *http.Client
	baseURL    string
	publicKey  string
	privateKey string
}

// NewClient constructs a client with the given key pair from the Banked
// console. Pass nil to use a default HTTP client with a 30 second timeout.
func NewClient(publicKey, privateKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		publicKey:  publicKey,
		privateKey: privateKey,
	}
}

// NewClientFromEnv constructs a client using BANKED_* environment variables.
// BANKED_PUBLIC_KEY and BANKED_SECRET_KEY are required; BANKED_BASE_URL
// overrides the production endpoint.
func NewClientFromEnv(httpClient *http.Client) (*Client, error) {
	publicKey := strings.TrimSpace(os.Getenv("BANKED_PUBLIC_KEY"))
	privateKey := strings.TrimSpace(os.Getenv("BANKED_SECRET_KEY"))
	if publicKey == "" || privateKey == "" {
		return nil, errors.New("BANKED_PUBLIC_KEY and BANKED_SECRET_KEY must be set")
	}

	client := NewClient(publicKey, privateKey, httpClient)

	if baseURL := strings.TrimSpace(os.Getenv("BANKED_BASE_URL")); baseURL != "" {
		client.baseURL = strings.TrimSuffix(baseURL, "/")
	}

	return client, nil
}

// SetBaseURL points the client at a different API host, e.g. a test server.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
}

// SetCredentials replaces the key pair used for subsequent requests. Keys are
// not validated locally; bad keys surface as an *AuthError from the API.
func (c *Client) SetCredentials(publicKey, privateKey string) {
	c.publicKey = publicKey
	c.privateKey = privateKey
}

// CreatePaymentSession creates a new payment session. The session argument
// carries the caller-populated fields; the returned session additionally holds
// the API-assigned ID, state, hosted payment URL and creation time. Every call
// creates a new remote session.
func (c *Client) CreatePaymentSession(ctx context.Context, session *PaymentSession) (*PaymentSession, error) {
	status, body, err := c.doRequest(ctx, http.MethodPost, paymentSessionsPath, session)
	if err != nil {
		return nil, err
	}

	switch {
	case status >= 200 && status < 300:
		var created PaymentSession
		if err := json.Unmarshal(body, &created); err != nil {
			return nil, fmt.Errorf("decode payment session response: %w", err)
		}
		return &created, nil
	case status == http.StatusUnauthorized:
		return nil, &AuthError{StatusCode: status, Body: string(body)}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return nil, validationError(status, body)
	default:
		return nil, &APIError{StatusCode: status, Body: string(body)}
	}
}

// GetPaymentSession fetches the payment session with the given ID. Returns
// (nil, nil) when the ID is empty or the API reports the session missing.
func (c *Client) GetPaymentSession(ctx context.Context, id string) (*PaymentSession, error) {
	if id == "" {
		return nil, nil
	}

	status, body, err := c.doRequest(ctx, http.MethodGet, paymentSessionsPath+id, nil)
	if err != nil {
		return nil, err
	}

	switch {
	case status >= 200 && status < 300:
		var session PaymentSession
		if err := json.Unmarshal(body, &session); err != nil {
			return nil, fmt.Errorf("decode payment session response: %w", err)
		}
		return &session, nil
	case status == http.StatusNotFound:
		return nil, nil
	case status == http.StatusUnauthorized:
		return nil, &AuthError{StatusCode: status, Body: string(body)}
	default:
		return nil, &APIError{StatusCode: status, Body: string(body)}
	}
}

// DeletePaymentSession deletes the payment session with the given ID. Returns
// true on success and false when the ID is empty (no request is made) or the
// API reports the session missing.
func (c *Client) DeletePaymentSession(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}

	status, body, err := c.doRequest(ctx, http.MethodDelete, paymentSessionsPath+id, nil)
	if err != nil {
		return false, err
	}

	switch {
	case status >= 200 && status < 300:
		return true, nil
	case status == http.StatusNotFound:
		return false, nil
	case status == http.StatusUnauthorized:
		return false, &AuthError{StatusCode: status, Body: string(body)}
	default:
		return false, &APIError{StatusCode: status, Body: string(body)}
	}
}

// GetProviders lists the banks and financial institutions currently supported
// by Banked, in the order the API returns them.
func (c *Client) GetProviders(ctx context.Context) ([]Provider, error) {
	status, body, err := c.doRequest(ctx, http.MethodGet, providersPath, nil)
	if err != nil {
		return nil, err
	}

	switch {
	case status >= 200 && status < 300:
		var providers []Provider
		if err := json.Unmarshal(body, &providers); err != nil {
			return nil, fmt.Errorf("decode providers response: %w", err)
		}
		return providers, nil
	case status == http.StatusUnauthorized:
		return nil, &AuthError{StatusCode: status, Body: string(body)}
	default:
		return nil, &APIError{StatusCode: status, Body: string(body)}
	}
}

// GetBankAccounts lists the bank accounts wired up to this Banked account, in
// the order the API returns them.
func (c *Client) GetBankAccounts(ctx context.Context) ([]BankAccount, error) {
	status, body, err := c.doRequest(ctx, http.MethodGet, bankAccountsPath, nil)
	if err != nil {
		return nil, err
	}

	switch {
	case status >= 200 && status < 300:
		var accounts []BankAccount
		if err := json.Unmarshal(body, &accounts); err != nil {
			return nil, fmt.Errorf("decode bank accounts response: %w", err)
		}
		return accounts, nil
	case status == http.StatusUnauthorized:
		return nil, &AuthError{StatusCode: status, Body: string(body)}
	default:
		return nil, &APIError{StatusCode: status, Body: string(body)}
	}
}

// basicAuth renders the Authorization header value for the current key pair.
func (c *Client) basicAuth() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.publicKey+":"+c.privateKey))
}

// doRequest performs one authenticated exchange and returns the status code
// and raw body. Optional fields set to nil in the payload are omitted from the
// encoded JSON, which the API relies on. A non-nil error means no HTTP status
// was obtained (transport or encoding failure).
func (c *Client) doRequest(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			return 0, nil, fmt.Errorf("encode request payload: %w", err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, err
	}

	req.Header.Set("Authorization", c.basicAuth())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response body: %w", err)
	}

	return resp.StatusCode, data, nil
}

// validationError decodes the 400/422 error envelope. A body that is not a
// recognizable error envelope falls back to a generic *APIError so the raw
// detail is not lost.
func validationError(status int, body []byte) error {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Errors) == 0 {
		return &APIError{StatusCode: status, Body: string(body)}
	}
	return &ValidationError{StatusCode: status, Errors: envelope.Errors}
}
