package utils

import (
	"fmt"
	"regexp"
	"stayhub/src/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConvertCurrency(t *testing.T) {
	usd := &models.Currency{Code: "USD", ExchangeRate: 1, DecimalPlaces: 2}
	eur := &models.Currency{Code: "EUR", ExchangeRate: 0.9, DecimalPlaces: 2}
	jpy := &models.Currency{Code: "JPY", ExchangeRate: 147.5, DecimalPlaces: 0}

	assert.Equal(t, 90.0, ConvertCurrency(100, usd, eur))
	assert.Equal(t, 100.0, ConvertCurrency(90, eur, usd))
	assert.Equal(t, 14750.0, ConvertCurrency(100, usd, jpy))

	assert.Equal(t, 55.5, ConvertCurrency(55.5, usd, usd))
}

func TestConvertCurrencyUnavailableRates(t *testing.T) {
	usd := &models.Currency{Code: "USD", ExchangeRate: 1, DecimalPlaces: 2}
	stale := &models.Currency{Code: "XYZ", ExchangeRate: 0}

	assert.Equal(t, 120.0, ConvertCurrency(120, nil, usd))
	assert.Equal(t, 120.0, ConvertCurrency(120, usd, nil))
	assert.Equal(t, 120.0, ConvertCurrency(120, stale, usd))
	assert.Equal(t, 120.0, ConvertCurrency(120, usd, stale))
}

func TestConvertCurrencyRounding(t *testing.T) {
	usd := &models.Currency{Code: "USD", ExchangeRate: 1, DecimalPlaces: 2}
	gbp := &models.Currency{Code: "GBP", ExchangeRate: 0.787, DecimalPlaces: 2}

	// 100 * 0.787 = 78.7, 33.33 * 0.787 = 26.230...
	assert.Equal(t, 78.7, ConvertCurrency(100, usd, gbp))
	assert.Equal(t, 26.23, ConvertCurrency(33.33, usd, gbp))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 1.23, RoundTo(1.2345, 2))
	assert.Equal(t, 1.24, RoundTo(1.235, 2))
	assert.Equal(t, 2.0, RoundTo(1.5, 0))
}

func TestGenerateConfirmationCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{10}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := GenerateConfirmationCode()
		assert.Regexp(t, pattern, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1, "codes should not repeat")
}

func TestNewTransactionID(t *testing.T) {
	before := time.Now().UnixMilli()
	tranID := NewTransactionID(42)
	after := time.Now().UnixMilli()

	pattern := regexp.MustCompile(`^Tran-42-(\d+)$`)
	matches := pattern.FindStringSubmatch(tranID)
	assert.Len(t, matches, 2)

	var millis int64
	fmt.Sscanf(matches[1], "%d", &millis)
	assert.GreaterOrEqual(t, millis, before)
	assert.LessOrEqual(t, millis, after)
}

func TestParseTransactionID(t *testing.T) {
	tranID := NewTransactionID(77)
	id, err := ParseTransactionID(tranID)
	assert.Nil(t, err)
	assert.Equal(t, uint(77), id)
}

func TestParseTransactionIDMalformed(t *testing.T) {
	cases := []string{
		"",
		"Tran",
		"Tran-",
		"Tran-1",
		"Tran-1-2-3",
		"Nope-1-1693000000000",
		"Tran-abc-1693000000000",
		"Tran-0-1693000000000",
		"Tran-1-notmillis",
	}
	for _, c := range cases {
		id, err := ParseTransactionID(c)
		assert.NotNilf(t, err, "expected error for %q", c)
		assert.Equal(t, uint(0), id)
	}
}

func TestWithSuffix(t *testing.T) {
	t.Setenv("RESOURCE_SUFFIX", "")
	assert.Equal(t, "PaymentNotifications", WithSuffix("PaymentNotifications"))

	t.Setenv("RESOURCE_SUFFIX", "staging")
	assert.Equal(t, "PaymentNotifications-staging", WithSuffix("PaymentNotifications"))
}
