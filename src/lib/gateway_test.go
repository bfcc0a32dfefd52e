package lib

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stayhub/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func testGatewayClient(baseURL string) *GatewayClient {
	return &GatewayClient{
		BaseURL:    baseURL,
		StoreID:    "teststore",
		StorePass:  "testpass",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestCreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gwprocess/api.php", r.URL.Path)
		assert.Nil(t, r.ParseForm())
		assert.Equal(t, "teststore", r.PostFormValue("store_id"))
		assert.Equal(t, "Tran-17-1693000000000", r.PostFormValue("tran_id"))
		assert.Equal(t, "150.00", r.PostFormValue("total_amount"))
		w.Write([]byte(`{"status":"SUCCESS","GatewayPageURL":"https://pay.example.com/session/abc"}`))
	}))
	defer srv.Close()

	c := testGatewayClient(srv.URL)
	redirectURL, err := c.CreateSession(context.Background(), &CreateSessionInput{
		TranID:   "Tran-17-1693000000000",
		Amount:   150,
		Currency: "USD",
	})
	assert.Nil(t, err)
	assert.Equal(t, "https://pay.example.com/session/abc", redirectURL)
}

func TestCreateSessionRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"FAILED","failedreason":"store credential error"}`))
	}))
	defer srv.Close()

	c := testGatewayClient(srv.URL)
	redirectURL, err := c.CreateSession(context.Background(), &CreateSessionInput{TranID: "Tran-1-1"})
	assert.ErrorIs(t, err, ErrGateway)
	assert.Contains(t, err.Error(), "store credential error")
	assert.Equal(t, "", redirectURL)
}

func TestCreateSessionMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	c := testGatewayClient(srv.URL)
	_, err := c.CreateSession(context.Background(), &CreateSessionInput{TranID: "Tran-1-1"})
	assert.ErrorIs(t, err, ErrGateway)
}

func TestCreateSessionUnreachable(t *testing.T) {
	c := testGatewayClient("http://127.0.0.1:1")
	_, err := c.CreateSession(context.Background(), &CreateSessionInput{TranID: "Tran-1-1"})
	assert.ErrorIs(t, err, ErrGateway)
}

func TestValidateTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/validator/api/validationserverAPI.php", r.URL.Path)
		assert.Equal(t, "val-abc", r.URL.Query().Get("val_id"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Write([]byte(`{
			"status":"VALID",
			"tran_id":"Tran-17-1693000000000",
			"amount":"150.00",
			"tran_date":"2026-08-29 10:15:00",
			"card_issuer":"TEST BANK"
		}`))
	}))
	defer srv.Close()

	c := testGatewayClient(srv.URL)
	result, err := c.ValidateTransaction(context.Background(), "val-abc")
	assert.Nil(t, err)
	assert.Equal(t, types.GATEWAY_VALID, result.Status)
	assert.Equal(t, "Tran-17-1693000000000", result.TranID)
	assert.Equal(t, 150.0, result.Amount)
	assert.Equal(t, "TEST BANK", result.CardIssuer)
	assert.NotNil(t, result.TransactionDate)
	assert.Equal(t, 2026, result.TransactionDate.Year())
	assert.NotEmpty(t, result.Raw)
}

func TestValidateTransactionValidatedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"VALIDATED","tran_id":"Tran-9-1"}`))
	}))
	defer srv.Close()

	c := testGatewayClient(srv.URL)
	result, err := c.ValidateTransaction(context.Background(), "val-replay")
	assert.Nil(t, err)
	assert.Equal(t, types.GATEWAY_VALID, result.Status)
}

func TestValidateTransactionInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"INVALID_TRANSACTION","tran_id":""}`))
	}))
	defer srv.Close()

	c := testGatewayClient(srv.URL)
	result, err := c.ValidateTransaction(context.Background(), "val-bogus")
	assert.Nil(t, err)
	assert.Equal(t, types.GATEWAY_INVALID, result.Status)
}

func TestValidateTransactionMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	c := testGatewayClient(srv.URL)
	result, err := c.ValidateTransaction(context.Background(), "val-abc")
	assert.ErrorIs(t, err, ErrGateway)
	assert.Nil(t, result)
}

func TestValidationResponseParsing(t *testing.T) {
	body := `{"status":"VALID","amount":"99.95","currency_type":"USD"}`
	assert.True(t, gjson.Valid(body))
	assert.Equal(t, 99.95, gjson.Get(body, "amount").Float())
}
