package authorizenet

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/invoiceware/driver-authorizenet/internal/domain/ports"
	pkgerrors "github.com/invoiceware/driver-authorizenet/pkg/errors"
)

const approvedBody = `{
	"transactionResponse": {
		"responseCode": "1",
		"authCode": "ABC123",
		"avsResultCode": "Y",
		"transId": "60123456789",
		"accountNumber": "XXXX1111",
		"accountType": "Visa"
	},
	"refId": "ref-1",
	"messages": {
		"resultCode": "Ok",
		"message": [{"code": "I00001", "text": "Successful."}]
	}
}`

func testCredentials() ports.Credentials {
	return ports.Credentials{LoginID: "login-1", TransactionKey: "txn-key"}
}

func cardRequest() *ports.TransactionRequest {
	return &ports.TransactionRequest{
		Type:         ports.TransactionTypeAuthCapture,
		Amount:       decimal.RequireFromString("100.00"),
		CurrencyCode: "USD",
		ReferenceID:  "pay-abc123",
		Payment: ports.Payment{
			Card: &ports.CreditCard{Number: "4111111111111111", ExpirationDate: "2030-12", CardCode: "123"},
		},
		Order:         ports.Order{InvoiceNumber: "INV-1001", Description: "Subscription renewal"},
		CustomerEmail: "billing@example.com",
		BillTo:        &ports.BillTo{FirstName: "Chandler", LastName: "Bing"},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (ports.TransactionGateway, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(&ClientConfig{
		TestURL: server.URL,
		LiveURL: "http://live.invalid",
		Timeout: 5 * time.Second,
	}, zap.NewNop()), server
}

func TestClient_Execute_Approved(t *testing.T) {
	var captured map[string]interface{}
	gateway, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))

		w.Write([]byte(approvedBody))
	})

	resp, err := gateway.Execute(context.Background(), testCredentials(), ports.ModeTest, cardRequest())
	require.NoError(t, err)

	assert.Equal(t, ports.ResultCodeOK, resp.ResultCode)
	assert.Equal(t, "ref-1", resp.RefID)
	require.NotNil(t, resp.Transaction)
	assert.Equal(t, "60123456789", resp.Transaction.TransID)
	assert.Equal(t, "1", resp.Transaction.ResponseCode)
	assert.Empty(t, resp.Transaction.Errors)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "I00001", resp.Messages[0].Code)

	// Wire shape
	envelope := captured["createTransactionRequest"].(map[string]interface{})
	auth := envelope["merchantAuthentication"].(map[string]interface{})
	assert.Equal(t, "login-1", auth["name"])
	assert.Equal(t, "txn-key", auth["transactionKey"])
	assert.Equal(t, "pay-abc123", envelope["refId"])

	txn := envelope["transactionRequest"].(map[string]interface{})
	assert.Equal(t, "authCaptureTransaction", txn["transactionType"])
	assert.Equal(t, "100.00", txn["amount"])
	assert.Equal(t, "USD", txn["currencyCode"])

	card := txn["payment"].(map[string]interface{})["creditCard"].(map[string]interface{})
	assert.Equal(t, "4111111111111111", card["cardNumber"])
	assert.Equal(t, "2030-12", card["expirationDate"])
	assert.Equal(t, "123", card["cardCode"])

	order := txn["order"].(map[string]interface{})
	assert.Equal(t, "INV-1001", order["invoiceNumber"])

	billTo := txn["billTo"].(map[string]interface{})
	assert.Equal(t, "Chandler", billTo["firstName"])
	assert.Equal(t, "Bing", billTo["lastName"])

	assert.Equal(t, "billing@example.com", txn["customer"].(map[string]interface{})["email"])
}

func TestClient_Execute_ProfileRidesOutsidePayment(t *testing.T) {
	var captured map[string]interface{}
	gateway, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Write([]byte(approvedBody))
	})

	req := cardRequest()
	req.Payment = ports.Payment{
		Profile: &ports.CustomerProfile{CustomerProfileID: "cp-1", PaymentProfileID: "pp-1"},
	}

	_, err := gateway.Execute(context.Background(), testCredentials(), ports.ModeTest, req)
	require.NoError(t, err)

	txn := captured["createTransactionRequest"].(map[string]interface{})["transactionRequest"].(map[string]interface{})
	_, hasPayment := txn["payment"]
	assert.False(t, hasPayment, "stored profiles must not appear in the payment member")

	profile := txn["profile"].(map[string]interface{})
	assert.Equal(t, "cp-1", profile["customerProfileId"])
	assert.Equal(t, "pp-1", profile["paymentProfile"].(map[string]interface{})["paymentProfileId"])
}

func TestClient_Execute_GeneratedRefID(t *testing.T) {
	var captured map[string]interface{}
	gateway, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Write([]byte(approvedBody))
	})

	req := cardRequest()
	req.ReferenceID = ""

	_, err := gateway.Execute(context.Background(), testCredentials(), ports.ModeTest, req)
	require.NoError(t, err)

	refID := captured["createTransactionRequest"].(map[string]interface{})["refId"].(string)
	assert.Len(t, refID, 20, "generated ref id respects the gateway's 20-char limit")
}

func TestClient_Execute_ClampsLongRefID(t *testing.T) {
	var captured map[string]interface{}
	gateway, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Write([]byte(approvedBody))
	})

	req := cardRequest()
	req.ReferenceID = "payment-reference-well-past-the-limit"

	_, err := gateway.Execute(context.Background(), testCredentials(), ports.ModeTest, req)
	require.NoError(t, err)

	refID := captured["createTransactionRequest"].(map[string]interface{})["refId"].(string)
	assert.Equal(t, "payment-reference-we", refID)
}

func TestClient_Execute_StripsBOM(t *testing.T) {
	gateway, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("\xef\xbb\xbf" + approvedBody))
	})

	resp, err := gateway.Execute(context.Background(), testCredentials(), ports.ModeTest, cardRequest())
	require.NoError(t, err)
	assert.Equal(t, ports.ResultCodeOK, resp.ResultCode)
}

func TestClient_Execute_TransactionErrors(t *testing.T) {
	declinedBody := `{
		"transactionResponse": {
			"responseCode": "2",
			"transId": "0",
			"errors": [{"errorCode": "2", "errorText": "This transaction has been declined."}]
		},
		"messages": {
			"resultCode": "Ok",
			"message": [{"code": "I00001", "text": "Successful."}]
		}
	}`

	gateway, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(declinedBody))
	})

	resp, err := gateway.Execute(context.Background(), testCredentials(), ports.ModeTest, cardRequest())
	require.NoError(t, err)

	require.NotNil(t, resp.Transaction)
	require.Len(t, resp.Transaction.Errors, 1)
	assert.Equal(t, "2", resp.Transaction.Errors[0].Code)
	assert.Equal(t, "This transaction has been declined.", resp.Transaction.Errors[0].Text)
}

func TestClient_Execute_HTTPError(t *testing.T) {
	gateway, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	resp, err := gateway.Execute(context.Background(), testCredentials(), ports.ModeTest, cardRequest())
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestClient_Execute_MalformedBody(t *testing.T) {
	gateway, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	resp, err := gateway.Execute(context.Background(), testCredentials(), ports.ModeTest, cardRequest())
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestClient_Execute_Validation(t *testing.T) {
	gateway, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the gateway")
	})

	tests := []struct {
		name    string
		creds   ports.Credentials
		mutate  func(req *ports.TransactionRequest)
		wantMsg string
	}{
		{
			name:    "missing login id",
			creds:   ports.Credentials{TransactionKey: "txn-key"},
			mutate:  func(req *ports.TransactionRequest) {},
			wantMsg: "login ID is required",
		},
		{
			name:    "missing transaction key",
			creds:   ports.Credentials{LoginID: "login-1"},
			mutate:  func(req *ports.TransactionRequest) {},
			wantMsg: "transaction key is required",
		},
		{
			name:    "non-positive amount",
			creds:   testCredentials(),
			mutate:  func(req *ports.TransactionRequest) { req.Amount = decimal.Zero },
			wantMsg: "amount must be positive",
		},
		{
			name:  "refund without ref transaction id",
			creds: testCredentials(),
			mutate: func(req *ports.TransactionRequest) {
				req.Type = ports.TransactionTypeRefund
				req.RefTransactionID = ""
			},
			wantMsg: "ref transaction ID is required",
		},
		{
			name:    "no payment payload",
			creds:   testCredentials(),
			mutate:  func(req *ports.TransactionRequest) { req.Payment = ports.Payment{} },
			wantMsg: "a payment payload is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := cardRequest()
			tt.mutate(req)

			resp, err := gateway.Execute(context.Background(), tt.creds, ports.ModeTest, req)
			assert.Nil(t, resp)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)

			var validationErr *pkgerrors.ValidationError
			assert.True(t, errors.As(err, &validationErr))
		})
	}
}

func TestClient_Execute_ModeSelectsEndpoint(t *testing.T) {
	var hits int
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(approvedBody))
	}))
	defer testServer.Close()

	liveServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("live endpoint must not be hit in test mode")
	}))
	defer liveServer.Close()

	gateway := NewClient(&ClientConfig{
		TestURL: testServer.URL,
		LiveURL: liveServer.URL,
		Timeout: 5 * time.Second,
	}, zap.NewNop())

	_, err := gateway.Execute(context.Background(), testCredentials(), ports.ModeTest, cardRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}
