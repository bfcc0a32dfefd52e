package lib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"stayhub/src/types"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ErrGateway marks a session-open or validation call that failed or came
// back malformed. Settlement treats it as a failed attempt, never as a
// silent no-op.
var ErrGateway = errors.New("payment gateway error")

// GatewayClient talks to the hosted-checkout payment provider. The
// provider exposes two endpoints: one that opens a hosted payment session
// and one that validates a completed transaction by its val_id.
type GatewayClient struct {
	BaseURL   string
	StoreID   string
	StorePass string

	httpClient *http.Client
}

var gatewayClient *GatewayClient

func GetGatewayClient() *GatewayClient {
	if gatewayClient != nil {
		return gatewayClient
	}
	gatewayClient = &GatewayClient{
		BaseURL:    os.Getenv("GATEWAY_BASE_URL"),
		StoreID:    os.Getenv("GATEWAY_STORE_ID"),
		StorePass:  os.Getenv("GATEWAY_STORE_PASSWORD"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	return gatewayClient
}

// NewGatewayClient replaces the provider client with a custom instance.
func NewGatewayClient(c *GatewayClient) {
	gatewayClient = c
}

type CreateSessionInput struct {
	TranID        string
	Amount        float64
	Currency      string
	ProductName   string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	SuccessURL    string
	FailURL       string
	CancelURL     string
	IPNURL        string
}

type ValidationResult struct {
	Status          types.GatewayStatus
	TranID          string
	Amount          float64
	TransactionDate *time.Time
	CardIssuer      string
	Raw             types.JSONB
}

// CreateSession opens a hosted payment page for the transaction and
// returns the redirect URL the customer is sent to.
func (c *GatewayClient) CreateSession(ctx context.Context, in *CreateSessionInput) (string, error) {
	form := url.Values{}
	form.Set("store_id", c.StoreID)
	form.Set("store_passwd", c.StorePass)
	form.Set("tran_id", in.TranID)
	form.Set("total_amount", fmt.Sprintf("%.2f", in.Amount))
	form.Set("currency", in.Currency)
	form.Set("product_name", in.ProductName)
	form.Set("cus_name", in.CustomerName)
	form.Set("cus_email", in.CustomerEmail)
	form.Set("cus_phone", in.CustomerPhone)
	form.Set("success_url", in.SuccessURL)
	form.Set("fail_url", in.FailURL)
	form.Set("cancel_url", in.CancelURL)
	form.Set("ipn_url", in.IPNURL)

	endpoint := fmt.Sprintf("%s/gwprocess/api.php", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrGateway, err.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Gateway] Error opening session for %s: %s\n", in.TranID, err.Error())
		return "", fmt.Errorf("%w: %s", ErrGateway, err.Error())
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrGateway, err.Error())
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: malformed session response", ErrGateway)
	}
	status := gjson.GetBytes(body, "status").String()
	if status != "SUCCESS" {
		reason := gjson.GetBytes(body, "failedreason").String()
		log.Printf("[Gateway] Session rejected for %s: %s\n", in.TranID, reason)
		return "", fmt.Errorf("%w: %s", ErrGateway, reason)
	}
	redirectURL := gjson.GetBytes(body, "GatewayPageURL").String()
	if redirectURL == "" {
		return "", fmt.Errorf("%w: session response missing redirect URL", ErrGateway)
	}
	return redirectURL, nil
}

// ValidateTransaction wraps the provider's one-shot verification call.
// Transport and decode failures surface as ErrGateway; a reachable
// provider that does not recognize the transaction yields INVALID.
func (c *GatewayClient) ValidateTransaction(ctx context.Context, valID string) (*ValidationResult, error) {
	endpoint := fmt.Sprintf("%s/validator/api/validationserverAPI.php?val_id=%s&store_id=%s&store_passwd=%s&format=json",
		c.BaseURL, url.QueryEscape(valID), url.QueryEscape(c.StoreID), url.QueryEscape(c.StorePass))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrGateway, err.Error())
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Gateway] Error validating %s: %s\n", valID, err.Error())
		return nil, fmt.Errorf("%w: %s", ErrGateway, err.Error())
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrGateway, err.Error())
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: malformed validation response", ErrGateway)
	}

	var raw types.JSONB
	if err := raw.Scan(body); err != nil {
		raw = types.JSONB{}
	}
	result := ValidationResult{
		Status:     types.GATEWAY_INVALID,
		TranID:     gjson.GetBytes(body, "tran_id").String(),
		Amount:     gjson.GetBytes(body, "amount").Float(),
		CardIssuer: gjson.GetBytes(body, "card_issuer").String(),
		Raw:        raw,
	}
	switch gjson.GetBytes(body, "status").String() {
	case "VALID", "VALIDATED":
		result.Status = types.GATEWAY_VALID
	}
	if tranDate := gjson.GetBytes(body, "tran_date").String(); tranDate != "" {
		if t, err := time.Parse("2006-01-02 15:04:05", tranDate); err == nil {
			result.TransactionDate = &t
		}
	}
	return &result, nil
}
