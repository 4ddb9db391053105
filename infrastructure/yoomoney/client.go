package yoomoney

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"casinobot/config"
	"casinobot/models"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const (
	endpointOperationHistory = "/api/operation-history"
	endpointToken            = "/oauth/token"
	endpointAuthorize        = "/oauth/authorize"
	endpointQuickpay         = "/quickpay/confirm.xml"

	retryBaseDelay = 200 * time.Millisecond
	historyRecords = 30
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestObserver is told about every provider round trip
type RequestObserver func(ctx context.Context, endpoint string, elapsed time.Duration, err error)

// Client talks to the YooMoney wallet API
type Client struct {
	baseURL     string
	wallet      string
	accessToken string
	clientID    string
	redirectURI string
	returnURL   string
	retries     uint64
	httpClient  HTTPClient
	limiter     *RateLimiter
	breaker     *gobreaker.CircuitBreaker
	observer    RequestObserver
}

type operation struct {
	OperationID string          `json:"operation_id"`
	Status      string          `json:"status"`
	Label       string          `json:"label"`
	Amount      decimal.Decimal `json:"amount"`
	DateTime    time.Time       `json:"datetime"`
}

type operationHistoryResponse struct {
	Error      string      `json:"error"`
	Operations []operation `json:"operations"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Error       string `json:"error"`
}

// NewClient creates a YooMoney client from the payment settings
func NewClient(cfg *config.Config, httpClient HTTPClient) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.PaymentTimeout}
	}
	retries := 0
	if cfg.PaymentRetries > 0 {
		retries = cfg.PaymentRetries
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.YooMoneyBaseURL, "/"),
		wallet:      cfg.YooMoneyWallet,
		accessToken: cfg.YooMoneyAccessToken,
		clientID:    cfg.YooMoneyClientID,
		redirectURI: cfg.YooMoneyRedirectURI,
		returnURL:   cfg.PaymentReturnURL,
		retries:     uint64(retries),
		httpClient:  httpClient,
		limiter:     NewRateLimiter(cfg.PaymentRatePerSecond),
		breaker:     InitCircuitBreaker("yoomoney"),
	}
}

// InitCircuitBreaker opens after five consecutive provider failures
func InitCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(log.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker changed state")
		},
	})
}

// SetObserver registers a hook called after each provider request
func (c *Client) SetObserver(observer RequestObserver) {
	c.observer = observer
}

// PaymentURL builds the card checkout link; the reference travels as the payment label
func (c *Client) PaymentURL(reference string, amount int64) string {
	params := url.Values{}
	params.Set("receiver", c.wallet)
	params.Set("quickpay-form", "shop")
	params.Set("targets", fmt.Sprintf("Casino balance top-up (%s)", reference))
	params.Set("paymentType", "AC")
	params.Set("sum", strconv.FormatInt(amount, 10))
	params.Set("label", reference)
	if c.returnURL != "" {
		params.Set("successURL", c.returnURL)
	}
	return c.baseURL + endpointQuickpay + "?" + params.Encode()
}

// AuthorizeURL is the page where the wallet owner grants history access
func (c *Client) AuthorizeURL() string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("response_type", "code")
	params.Set("redirect_uri", c.redirectURI)
	params.Set("scope", "operation-history operation-details")
	return c.baseURL + endpointAuthorize + "?" + params.Encode()
}

// OperationHistory returns the incoming operations labelled with label
func (c *Client) OperationHistory(ctx context.Context, label string) ([]models.ProviderOperation, error) {
	if c.accessToken == "" {
		return nil, ErrMissingToken
	}

	form := url.Values{}
	form.Set("label", label)
	form.Set("type", "deposition")
	form.Set("records", strconv.Itoa(historyRecords))

	var result operationHistoryResponse
	if err := c.call(ctx, endpointOperationHistory, form, true, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch operation history for %s: %w", label, err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("failed to fetch operation history for %s: %w", label, &APIError{Code: result.Error})
	}

	operations := make([]models.ProviderOperation, 0, len(result.Operations))
	for _, op := range result.Operations {
		operations = append(operations, models.ProviderOperation{
			OperationID: op.OperationID,
			Status:      op.Status,
			Label:       op.Label,
			Amount:      op.Amount,
			DateTime:    op.DateTime,
		})
	}
	return operations, nil
}

// ExchangeToken trades an authorization code for a long-lived access token
func (c *Client) ExchangeToken(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", c.clientID)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", c.redirectURI)

	// Authorization codes are single-use, so the exchange is attempted once
	var result tokenResponse
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.post(ctx, endpointToken, form, false, &result)
	})
	if err != nil {
		return "", fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("failed to exchange authorization code: %w", &APIError{Code: result.Error})
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("failed to exchange authorization code: empty access token")
	}
	return result.AccessToken, nil
}

// call posts form to endpoint through the limiter, breaker and retry policy
func (c *Client) call(ctx context.Context, endpoint string, form url.Values, authorized bool, out any) error {
	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(retryBaseDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := c.breaker.Execute(func() (interface{}, error) {
			return nil, c.post(ctx, endpoint, form, authorized, out)
		})
		if err == nil {
			return nil
		}

		log.WithFields(log.Fields{
			"endpoint": endpoint,
			"error":    err,
		}).Warn("YooMoney request failed")

		if isRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *Client) post(ctx context.Context, endpoint string, form url.Values, authorized bool, out any) (err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer(ctx, endpoint, time.Since(start), err)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if authorized {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := HandleErrorResponse(resp)
		if rateErr, ok := err.(*RateLimitError); ok {
			c.limiter.BlockFor(rateErr.RetryAfter)
		}
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
