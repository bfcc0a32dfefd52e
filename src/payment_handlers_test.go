package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"

	"stayhub/src/lib"
	"stayhub/src/middlewares"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

const appHost = "https://app.example.com"

func (s *TestSuite) paymentRouter() http.Handler {
	router := setupRouter()
	paymentRoutes(router)
	return router
}

func callbackForm(values map[string]string) *strings.Reader {
	form := url.Values{}
	for k, v := range values {
		form.Set(k, v)
	}
	return strings.NewReader(form.Encode())
}

func (s *TestSuite) TestPaymentInitRequestValidation() {
	router := s.paymentRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/payment/init", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)
}

func (s *TestSuite) TestPaymentInitBookingNotFound() {
	router := s.paymentRouter()

	s.Mock.ExpectBegin()
	s.Mock.ExpectQuery(`SELECT .* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	s.Mock.ExpectRollback()

	body := `{
		"booking_id": 999,
		"total_price": 300,
		"currency": "USD",
		"customer_name": "Guest One",
		"customer_email": "guest@example.com"
	}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/payment/init", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 404, w.Code)
	assert.Nil(s.T(), s.Mock.ExpectationsWereMet())
}

func (s *TestSuite) TestPaymentSuccessMalformedTransaction() {
	os.Setenv("APP_HOST", appHost)
	router := s.paymentRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/payment/success", callbackForm(map[string]string{
		"val_id":  "val-abc",
		"tran_id": "not-a-transaction",
	}))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 303, w.Code)
	assert.Equal(s.T(), appHost+"/payment/error", w.Header().Get("Location"))
}

func (s *TestSuite) TestPaymentSuccessInvalidTransaction() {
	os.Setenv("APP_HOST", appHost)
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"INVALID_TRANSACTION"}`))
	}))
	defer gateway.Close()
	lib.NewGatewayClient(nil)
	os.Setenv("GATEWAY_BASE_URL", gateway.URL)
	defer lib.NewGatewayClient(nil)

	router := s.paymentRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/payment/success", callbackForm(map[string]string{
		"val_id":  "val-bogus",
		"tran_id": "Tran-17-1693000000000",
	}))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 303, w.Code)
	assert.Equal(s.T(), appHost+"/payment/failed?tran_id=Tran-17-1693000000000", w.Header().Get("Location"))
}

func (s *TestSuite) TestPaymentSuccessForeignTransaction() {
	os.Setenv("APP_HOST", appHost)
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"VALID","tran_id":"Tran-999-1693000000001","amount":"150.00"}`))
	}))
	defer gateway.Close()
	lib.NewGatewayClient(nil)
	os.Setenv("GATEWAY_BASE_URL", gateway.URL)
	defer lib.NewGatewayClient(nil)

	router := s.paymentRouter()

	// The val_id validates, but for a different transaction; the callback
	// must not settle the booking it names.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/payment/success", callbackForm(map[string]string{
		"val_id":  "val-of-another-txn",
		"tran_id": "Tran-17-1693000000000",
	}))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 303, w.Code)
	assert.Equal(s.T(), appHost+"/payment/failed?tran_id=Tran-17-1693000000000", w.Header().Get("Location"))
}

func (s *TestSuite) TestPaymentSuccessMissingFields() {
	os.Setenv("APP_HOST", appHost)
	router := s.paymentRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/payment/success", callbackForm(map[string]string{
		"tran_id": "Tran-17-1693000000000",
	}))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	// val_id is required; a request without it cannot be validated.
	assert.Equal(s.T(), 303, w.Code)
	assert.Equal(s.T(), appHost+"/payment/error", w.Header().Get("Location"))
}

func (s *TestSuite) TestPaymentFailMalformedTransaction() {
	os.Setenv("APP_HOST", appHost)
	router := s.paymentRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/payment/fail", callbackForm(map[string]string{
		"tran_id": "garbage",
	}))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 303, w.Code)
	assert.Equal(s.T(), appHost+"/payment/error", w.Header().Get("Location"))
}

func (s *TestSuite) TestPaymentCancelMalformedTransaction() {
	os.Setenv("APP_HOST", appHost)
	router := s.paymentRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/payment/cancel", callbackForm(map[string]string{
		"tran_id": "Tran--",
	}))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 303, w.Code)
	assert.Equal(s.T(), appHost+"/payment/error", w.Header().Get("Location"))
}

func (s *TestSuite) TestPaymentIPNRequestValidation() {
	router := s.paymentRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/payment/ipn", callbackForm(map[string]string{
		"val_id": "val-abc",
	}))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)
}

func (s *TestSuite) TestAuthorizedRoutesRequireToken() {
	router := setupRouter()
	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	bookingHandlers(authorized)
	conversationHandlers(authorized)
	payoutHandlers(authorized)

	for _, path := range []string{
		"/api/v1/bookings",
		"/api/v1/conversations",
		"/api/v1/payouts",
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", path, nil)
		router.ServeHTTP(w, req)
		assert.Equalf(s.T(), 401, w.Code, "expected 401 for %s", path)
	}
}

func (s *TestSuite) TestAuthorizationHeaderWithoutToken() {
	router := setupRouter()
	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	bookingHandlers(authorized)

	for _, header := range []string{"Bearer", "Bearer "} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/bookings", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)
		assert.Equalf(s.T(), 401, w.Code, "expected 401 for header %q", header)
	}
}
