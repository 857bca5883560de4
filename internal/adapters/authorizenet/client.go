package authorizenet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/invoiceware/driver-authorizenet/internal/domain/ports"
	pkgerrors "github.com/invoiceware/driver-authorizenet/pkg/errors"
	"github.com/invoiceware/driver-authorizenet/pkg/observability"
)

// refIDLimit is the gateway's maximum refId length; longer values are
// rejected by the API
const refIDLimit = 20

// ClientConfig contains configuration for the Authorize.Net API client
type ClientConfig struct {
	// Endpoint per mode
	// Sandbox: https://apitest.authorize.net/xml/v1/request.api
	// Production: https://api.authorize.net/xml/v1/request.api
	TestURL string
	LiveURL string

	// HTTP client timeout
	Timeout time.Duration
}

// DefaultClientConfig returns the standard Authorize.Net endpoints
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		TestURL: "https://apitest.authorize.net/xml/v1/request.api",
		LiveURL: "https://api.authorize.net/xml/v1/request.api",
		Timeout: 30 * time.Second,
	}
}

// client implements the TransactionGateway port over the Authorize.Net
// JSON API (createTransactionRequest)
type client struct {
	config     *ClientConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Authorize.Net API client
func NewClient(config *ClientConfig, logger *zap.Logger) ports.TransactionGateway {
	return &client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}
}

// Execute sends one transaction to the gateway and returns the structured
// response. No retries: a charge is not safely repeatable from here.
func (c *client) Execute(ctx context.Context, creds ports.Credentials, mode ports.Mode, req *ports.TransactionRequest) (*ports.GatewayResponse, error) {
	operation := operationLabel(req.Type)

	if err := c.validateRequest(creds, req); err != nil {
		c.logger.Error("Invalid transaction request", zap.Error(err))
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	refID := req.ReferenceID
	if refID == "" {
		refID = strings.ReplaceAll(uuid.NewString(), "-", "")[:refIDLimit]
	} else if len(refID) > refIDLimit {
		refID = refID[:refIDLimit]
	}

	c.logger.Info("Executing Authorize.Net transaction",
		zap.String("operation", operation),
		zap.String("mode", string(mode)),
		zap.String("ref_id", refID),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("currency", req.CurrencyCode),
	)

	body, err := json.Marshal(buildWireRequest(creds, refID, req))
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := c.config.LiveURL
	if mode == ports.ModeTest {
		endpoint = c.config.TestURL
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observability.RecordGatewayError(operation)
		c.logger.Error("Failed to send transaction request",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(startTime)),
		)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		observability.RecordGatewayError(operation)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	observability.ObserveGatewayDuration(operation, time.Since(startTime))

	c.logger.Info("Received gateway response",
		zap.Int("status_code", httpResp.StatusCode),
		zap.Duration("elapsed", time.Since(startTime)),
		zap.Int("body_length", len(respBody)),
	)

	if httpResp.StatusCode != http.StatusOK {
		observability.RecordGatewayError(operation)
		return nil, fmt.Errorf("gateway returned HTTP %d", httpResp.StatusCode)
	}

	parsed, err := parseWireResponse(respBody)
	if err != nil {
		observability.RecordGatewayError(operation)
		c.logger.Error("Failed to parse gateway response", zap.Error(err))
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	c.logger.Info("Parsed gateway response",
		zap.String("result_code", parsed.ResultCode),
		zap.String("ref_id", parsed.RefID),
		zap.Bool("has_transaction", parsed.Transaction != nil),
	)

	return parsed, nil
}

func (c *client) validateRequest(creds ports.Credentials, req *ports.TransactionRequest) error {
	if creds.LoginID == "" {
		return pkgerrors.NewValidationError("loginId", "login ID is required")
	}
	if creds.TransactionKey == "" {
		return pkgerrors.NewValidationError("transactionKey", "transaction key is required")
	}
	if !req.Amount.IsPositive() {
		return pkgerrors.NewValidationError("amount", "amount must be positive")
	}
	if req.Type == ports.TransactionTypeRefund && req.RefTransactionID == "" {
		return pkgerrors.NewValidationError("refTransId", "ref transaction ID is required for refunds")
	}
	p := req.Payment
	if p.OpaqueData == nil && p.Profile == nil && p.Card == nil {
		return pkgerrors.NewValidationError("payment", "a payment payload is required")
	}
	return nil
}

func operationLabel(t ports.TransactionType) string {
	if t == ports.TransactionTypeRefund {
		return "refund"
	}
	return "charge"
}

// Wire format for the Authorize.Net JSON API. The API is strict about
// member order inside transactionRequest; the struct field order below
// matches what the gateway accepts.

type wireRequest struct {
	CreateTransactionRequest wireRequestBody `json:"createTransactionRequest"`
}

type wireRequestBody struct {
	MerchantAuthentication wireAuthentication `json:"merchantAuthentication"`
	RefID                  string             `json:"refId,omitempty"`
	TransactionRequest     wireTransaction    `json:"transactionRequest"`
}

type wireAuthentication struct {
	Name           string `json:"name"`
	TransactionKey string `json:"transactionKey"`
}

type wireTransaction struct {
	TransactionType string        `json:"transactionType"`
	Amount          string        `json:"amount"`
	CurrencyCode    string        `json:"currencyCode,omitempty"`
	Payment         *wirePayment  `json:"payment,omitempty"`
	Profile         *wireProfile  `json:"profile,omitempty"`
	Order           *wireOrder    `json:"order,omitempty"`
	RefTransID      string        `json:"refTransId,omitempty"`
	Customer        *wireCustomer `json:"customer,omitempty"`
	BillTo          *wireBillTo   `json:"billTo,omitempty"`
}

type wirePayment struct {
	CreditCard *wireCreditCard `json:"creditCard,omitempty"`
	OpaqueData *wireOpaqueData `json:"opaqueData,omitempty"`
}

type wireCreditCard struct {
	CardNumber     string `json:"cardNumber"`
	ExpirationDate string `json:"expirationDate"`
	CardCode       string `json:"cardCode,omitempty"`
}

type wireOpaqueData struct {
	DataDescriptor string `json:"dataDescriptor"`
	DataValue      string `json:"dataValue"`
}

type wireProfile struct {
	CustomerProfileID string             `json:"customerProfileId"`
	PaymentProfile    wirePaymentProfile `json:"paymentProfile"`
}

type wirePaymentProfile struct {
	PaymentProfileID string `json:"paymentProfileId"`
}

type wireOrder struct {
	InvoiceNumber string `json:"invoiceNumber,omitempty"`
	Description   string `json:"description,omitempty"`
}

type wireCustomer struct {
	Email string `json:"email,omitempty"`
}

type wireBillTo struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type wireResponse struct {
	TransactionResponse *wireTransactionResponse `json:"transactionResponse"`
	RefID               string                   `json:"refId"`
	Messages            wireMessages             `json:"messages"`
}

type wireMessages struct {
	ResultCode string        `json:"resultCode"`
	Message    []wireMessage `json:"message"`
}

type wireMessage struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

type wireTransactionResponse struct {
	ResponseCode  string                 `json:"responseCode"`
	AuthCode      string                 `json:"authCode"`
	AVSResultCode string                 `json:"avsResultCode"`
	TransID       string                 `json:"transId"`
	AccountNumber string                 `json:"accountNumber"`
	AccountType   string                 `json:"accountType"`
	Errors        []wireTransactionError `json:"errors"`
}

type wireTransactionError struct {
	ErrorCode string `json:"errorCode"`
	ErrorText string `json:"errorText"`
}

func buildWireRequest(creds ports.Credentials, refID string, req *ports.TransactionRequest) *wireRequest {
	txn := wireTransaction{
		TransactionType: string(req.Type),
		Amount:          req.Amount.StringFixed(2),
		CurrencyCode:    req.CurrencyCode,
		RefTransID:      req.RefTransactionID,
	}

	switch p := req.Payment; {
	case p.OpaqueData != nil:
		txn.Payment = &wirePayment{
			OpaqueData: &wireOpaqueData{
				DataDescriptor: p.OpaqueData.DataDescriptor,
				DataValue:      p.OpaqueData.DataValue,
			},
		}
	case p.Profile != nil:
		// Stored profiles ride in the profile member, not payment
		txn.Profile = &wireProfile{
			CustomerProfileID: p.Profile.CustomerProfileID,
			PaymentProfile:    wirePaymentProfile{PaymentProfileID: p.Profile.PaymentProfileID},
		}
	case p.Card != nil:
		txn.Payment = &wirePayment{
			CreditCard: &wireCreditCard{
				CardNumber:     p.Card.Number,
				ExpirationDate: p.Card.ExpirationDate,
				CardCode:       p.Card.CardCode,
			},
		}
	}

	if req.Order.InvoiceNumber != "" || req.Order.Description != "" {
		txn.Order = &wireOrder{
			InvoiceNumber: req.Order.InvoiceNumber,
			Description:   req.Order.Description,
		}
	}

	if req.CustomerEmail != "" {
		txn.Customer = &wireCustomer{Email: req.CustomerEmail}
	}

	if req.BillTo != nil {
		txn.BillTo = &wireBillTo{
			FirstName: req.BillTo.FirstName,
			LastName:  req.BillTo.LastName,
		}
	}

	return &wireRequest{
		CreateTransactionRequest: wireRequestBody{
			MerchantAuthentication: wireAuthentication{
				Name:           creds.LoginID,
				TransactionKey: creds.TransactionKey,
			},
			RefID:              refID,
			TransactionRequest: txn,
		},
	}
}

func parseWireResponse(body []byte) (*ports.GatewayResponse, error) {
	// The gateway prefixes responses with a UTF-8 BOM
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))

	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	resp := &ports.GatewayResponse{
		ResultCode: wire.Messages.ResultCode,
		RefID:      wire.RefID,
	}

	for _, m := range wire.Messages.Message {
		resp.Messages = append(resp.Messages, ports.Message{Code: m.Code, Text: m.Text})
	}

	if t := wire.TransactionResponse; t != nil {
		txn := &ports.TransactionResult{
			TransID:       t.TransID,
			ResponseCode:  t.ResponseCode,
			AuthCode:      t.AuthCode,
			AVSResult:     t.AVSResultCode,
			AccountNumber: t.AccountNumber,
			AccountType:   t.AccountType,
		}
		for _, e := range t.Errors {
			txn.Errors = append(txn.Errors, ports.TransactionError{Code: e.ErrorCode, Text: e.ErrorText})
		}
		resp.Transaction = txn
	}

	return resp, nil
}
