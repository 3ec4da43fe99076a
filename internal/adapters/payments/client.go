// Package payments is a client for a Stripe-style payments REST API: connected-account
// transfers, account capability lookups and platform balance.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"giftregistry/internal/domain"
)

// Config configures the payments client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type httpProcessor struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewHTTPProcessor returns a PaymentProcessor that calls the payments API.
// If client is nil a client with cfg.Timeout is used.
func NewHTTPProcessor(cfg Config, client *http.Client) domain.PaymentProcessor {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &httpProcessor{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

type transferResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type accountResponse struct {
	ID             string `json:"id"`
	PayoutsEnabled bool   `json:"payouts_enabled"`
}

type balanceResponse struct {
	Available []struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	} `json:"available"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *httpProcessor) CreateTransfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.Amount.Amount, 10))
	form.Set("currency", strings.ToLower(req.Amount.Currency))
	form.Set("destination", req.Destination)
	for k, v := range req.Metadata {
		form.Set("metadata["+k+"]", v)
	}

	httpReq, err := p.newRequest(ctx, http.MethodPost, "/v1/transfers", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)

	var data transferResponse
	if err := p.do(httpReq, &data); err != nil {
		return nil, fmt.Errorf("create transfer: %w", err)
	}
	return &domain.TransferResult{
		ID:     data.ID,
		Amount: domain.NewMoney(data.Amount, data.Currency),
	}, nil
}

func (p *httpProcessor) GetAccountStatus(ctx context.Context, accountID string) (*domain.AccountStatus, error) {
	httpReq, err := p.newRequest(ctx, http.MethodGet, "/v1/accounts/"+url.PathEscape(accountID), nil)
	if err != nil {
		return nil, err
	}
	var data accountResponse
	if err := p.do(httpReq, &data); err != nil {
		return nil, fmt.Errorf("get account %s: %w", accountID, err)
	}
	return &domain.AccountStatus{ID: data.ID, PayoutsEnabled: data.PayoutsEnabled}, nil
}

func (p *httpProcessor) GetAvailableBalance(ctx context.Context, currency string) (domain.Money, error) {
	httpReq, err := p.newRequest(ctx, http.MethodGet, "/v1/balance", nil)
	if err != nil {
		return domain.Money{}, err
	}
	var data balanceResponse
	if err := p.do(httpReq, &data); err != nil {
		return domain.Money{}, fmt.Errorf("get balance: %w", err)
	}
	currency = domain.NormalizeCurrency(currency)
	for _, b := range data.Available {
		if domain.NormalizeCurrency(b.Currency) == currency {
			return domain.NewMoney(b.Amount, currency), nil
		}
	}
	// No funds in that currency.
	return domain.NewMoney(0, currency), nil
}

func (p *httpProcessor) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends req and decodes a 2xx body into out. Transport failures and non-2xx
// answers wrap domain.ErrExternalService; a 404 wraps domain.ErrNotFound.
func (p *httpProcessor) do(req *http.Request, out any) error {
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := http.StatusText(resp.StatusCode)
		var apiErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: payments api: %s", domain.ErrNotFound, msg)
		}
		return fmt.Errorf("%w: payments api returned status %d: %s", domain.ErrExternalService, resp.StatusCode, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode payments response: %v", domain.ErrExternalService, err)
	}
	return nil
}
