package gateway

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	circuit "github.com/rubyist/circuitbreaker"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	"github.com/ChickenSoup269/Zero-Movie-sub001/config"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/errors"
)

const (
	StatusCompleted = "completed"
	StatusDeclined  = "declined"
)

type InitiateResult struct {
	ProviderRef string `json:"provider_ref"`
	ApprovalURL string `json:"approval_url"`
}

type CaptureResult struct {
	Status      string `json:"status"`
	ProviderRef string `json:"provider_ref"`
}

// Gateway wraps the payment provider's authorize/capture pattern. Capture is
// idempotent: the same idempotency key always returns the same terminal
// result, both through the provider's request-id header and a local cache of
// the last known outcome.
type Gateway interface {
	Initiate(ctx context.Context, bookingID string, amount float64, currency string) (InitiateResult, error)
	Capture(ctx context.Context, providerToken, idempotencyKey string) (CaptureResult, error)
}

type gateway struct {
	cfg         *config.PaymentGatewayConfig
	httpClient  *circuit.HTTPClient
	redisClient *redis.Client
	log         *otelzap.Logger
}

func New(cfg *config.PaymentGatewayConfig, httpClient *circuit.HTTPClient, redisClient *redis.Client, log *otelzap.Logger) Gateway {
	return &gateway{
		cfg:         cfg,
		httpClient:  httpClient,
		redisClient: redisClient,
		log:         log,
	}
}

type orderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
	ReturnURL     string         `json:"return_url"`
}

type purchaseUnit struct {
	ReferenceID string      `json:"reference_id"`
	Amount      orderAmount `json:"amount"`
}

type orderAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type orderResponse struct {
	ID     string      `json:"id"`
	Status string      `json:"status"`
	Links  []orderLink `json:"links"`
}

type orderLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

func (g *gateway) newRequest(ctx context.Context, method, url string, body interface{}) (*http.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.InternalServerError("error marshal provider request")
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.InternalServerError("error build provider request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.cfg.ClientID, g.cfg.SecretKey)

	return req, nil
}

// Initiate creates an authorization at the provider and returns the approval
// URL the user is redirected to.
func (g *gateway) Initiate(ctx context.Context, bookingID string, amount float64, currency string) (InitiateResult, error) {
	url := fmt.Sprintf("%s/v2/checkout/orders", g.cfg.BaseURL)
	req, err := g.newRequest(ctx, http.MethodPost, url, orderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{
			{
				ReferenceID: bookingID,
				Amount: orderAmount{
					CurrencyCode: currency,
					Value:        fmt.Sprintf("%.2f", amount),
				},
			},
		},
		ReturnURL: g.cfg.ReturnURL,
	})
	if err != nil {
		return InitiateResult{}, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return InitiateResult{}, errors.ServiceUnavailable("error call payment provider")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return InitiateResult{}, errors.ServiceUnavailable("payment provider unavailable")
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		g.log.Ctx(ctx).Error(fmt.Sprintf("provider rejected initiation for booking %s: status %d", bookingID, resp.StatusCode))
		return InitiateResult{}, errors.InternalServerError("payment provider rejected initiation")
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return InitiateResult{}, errors.InternalServerError("error parse provider response")
	}

	var approvalURL string
	for _, link := range order.Links {
		if link.Rel == "approve" {
			approvalURL = link.Href
		}
	}
	if order.ID == "" || approvalURL == "" {
		return InitiateResult{}, errors.InternalServerError("provider response missing approval link")
	}

	return InitiateResult{ProviderRef: order.ID, ApprovalURL: approvalURL}, nil
}

func captureCacheKey(idempotencyKey string) string {
	return fmt.Sprintf("capture:%s", idempotencyKey)
}

// Capture finalizes the payment. A repeated capture under the same
// idempotency key short-circuits to the cached terminal result, so a caller
// that timed out and does not know the first outcome can safely call again.
func (g *gateway) Capture(ctx context.Context, providerToken, idempotencyKey string) (CaptureResult, error) {
	cached, err := g.redisClient.Get(ctx, captureCacheKey(idempotencyKey)).Result()
	if err == nil {
		var result CaptureResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return result, nil
		}
	} else if err != redis.Nil {
		return CaptureResult{}, errors.ServiceUnavailable("error read capture cache")
	}

	url := fmt.Sprintf("%s/v2/checkout/orders/%s/capture", g.cfg.BaseURL, providerToken)
	req, err := g.newRequest(ctx, http.MethodPost, url, struct{}{})
	if err != nil {
		return CaptureResult{}, err
	}
	req.Header.Set("PayPal-Request-Id", idempotencyKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return CaptureResult{}, errors.ServiceUnavailable("error call payment provider")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return CaptureResult{}, errors.ServiceUnavailable("payment provider unavailable")
	}

	var result CaptureResult
	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var order orderResponse
		if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
			return CaptureResult{}, errors.InternalServerError("error parse provider response")
		}
		if order.Status != "COMPLETED" {
			result = CaptureResult{Status: StatusDeclined, ProviderRef: order.ID}
		} else {
			result = CaptureResult{Status: StatusCompleted, ProviderRef: order.ID}
		}
	case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusUnprocessableEntity:
		result = CaptureResult{Status: StatusDeclined, ProviderRef: providerToken}
	default:
		return CaptureResult{}, errors.InternalServerError(fmt.Sprintf("unexpected provider capture status %d", resp.StatusCode))
	}

	g.cacheResult(ctx, idempotencyKey, result)

	return result, nil
}

func (g *gateway) cacheResult(ctx context.Context, idempotencyKey string, result CaptureResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := g.redisClient.Set(ctx, captureCacheKey(idempotencyKey), payload, 24*time.Hour).Err(); err != nil {
		g.log.Ctx(ctx).Error(fmt.Sprintf("error cache capture result: %v", err))
	}
}
