package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisrafilss/local-guide-server/config"
	"github.com/sisrafilss/local-guide-server/gateway"
)

func initiateRequestFixture() gateway.InitiateRequest {
	return gateway.InitiateRequest{
		TransactionID: "TXN-001",
		Amount:        decimal.RequireFromString("150.00"),
		CustomerName:  "Rahim Uddin",
		CustomerEmail: "rahim@example.com",
		CustomerPhone: "01711111111",
		CustomerAddr:  "Dhaka",
	}
}

func sslConfigFor(paymentAPI, validationAPI string) config.SSLConfig {
	return config.SSLConfig{
		StoreID:           "teststore",
		StorePassword:     "testpass",
		PaymentAPI:        paymentAPI,
		ValidationAPI:     validationAPI,
		SuccessBackendURL: "https://api.example.com/api/v1/payment/success",
		FailBackendURL:    "https://api.example.com/api/v1/payment/fail",
		CancelBackendURL:  "https://api.example.com/api/v1/payment/cancel",
	}
}

func TestInitiate_SendsMerchantFormAndReturnsPageURL(t *testing.T) {
	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"SUCCESS","GatewayPageURL":"https://sandbox.sslcommerz.com/EasyCheckOut/abc123"}`))
	}))
	defer srv.Close()

	client := gateway.NewClient(sslConfigFor(srv.URL, ""))

	resp, err := client.Initiate(context.Background(), initiateRequestFixture())

	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.sslcommerz.com/EasyCheckOut/abc123", resp.GatewayPageURL)

	assert.Equal(t, "teststore", gotForm.Get("store_id"))
	assert.Equal(t, "testpass", gotForm.Get("store_passwd"))
	assert.Equal(t, "TXN-001", gotForm.Get("tran_id"))
	assert.Equal(t, "150.00", gotForm.Get("total_amount"))
	assert.Equal(t, "BDT", gotForm.Get("currency"))
	assert.Equal(t, "rahim@example.com", gotForm.Get("cus_email"))

	// Every callback URL must carry the transaction id so the redirect
	// handlers can correlate without trusting gateway-added params.
	for _, key := range []string{"success_url", "fail_url", "cancel_url"} {
		cb, err := url.Parse(gotForm.Get(key))
		require.NoError(t, err, key)
		assert.Equal(t, "TXN-001", cb.Query().Get("transactionId"), key)
	}
}

func TestInitiate_FailedStatusReturnsReason(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"FAILED","failedreason":"Store Credential Error"}`))
	}))
	defer srv.Close()

	client := gateway.NewClient(sslConfigFor(srv.URL, ""))

	resp, err := client.Initiate(context.Background(), initiateRequestFixture())

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Store Credential Error")
}

func TestInitiate_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := gateway.NewClient(sslConfigFor(srv.URL, ""))

	resp, err := client.Initiate(context.Background(), initiateRequestFixture())

	assert.Nil(t, resp)
	assert.Error(t, err)
}

func TestValidate_SendsCredentialsAndReturnsRawBody(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"VALID","tran_id":"TXN-001","amount":"150.00"}`))
	}))
	defer srv.Close()

	client := gateway.NewClient(sslConfigFor("", srv.URL))

	body, err := client.Validate(context.Background(), "val-abc")

	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"VALID","tran_id":"TXN-001","amount":"150.00"}`, string(body))

	assert.Equal(t, "val-abc", gotQuery.Get("val_id"))
	assert.Equal(t, "teststore", gotQuery.Get("store_id"))
	assert.Equal(t, "testpass", gotQuery.Get("store_passwd"))
	assert.Equal(t, "json", gotQuery.Get("format"))
}

func TestValidate_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := gateway.NewClient(sslConfigFor("", srv.URL))

	body, err := client.Validate(context.Background(), "val-abc")

	assert.Nil(t, body)
	assert.Error(t, err)
}
