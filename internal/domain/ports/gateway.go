package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// Mode selects the gateway environment
type Mode string

const (
	ModeTest Mode = "test"
	ModeLive Mode = "live"
)

// Credentials is the per-mode credential set for the Authorize.Net API
type Credentials struct {
	LoginID         string // API login ID
	TransactionKey  string // server-side transaction key
	PublicClientKey string // exposed to the browser for Accept.js tokenization
	SignatureKey    string // used for webhook/checkout hashes
}

// TransactionType is the gateway transaction type
type TransactionType string

const (
	TransactionTypeAuthCapture TransactionType = "authCaptureTransaction"
	TransactionTypeRefund      TransactionType = "refundTransaction"
)

// OpaqueData carries an Accept.js token
type OpaqueData struct {
	DataDescriptor string
	DataValue      string
}

// CustomerProfile references a gateway-side stored payment method
type CustomerProfile struct {
	CustomerProfileID string
	PaymentProfileID  string
}

// CreditCard carries direct card details, or a last-four stub with a masked
// expiry for ref-based refunds
type CreditCard struct {
	Number         string
	ExpirationDate string
	CardCode       string
}

// Payment holds exactly one payment payload variant
type Payment struct {
	OpaqueData *OpaqueData
	Profile    *CustomerProfile
	Card       *CreditCard
}

// Order carries the invoice reference and charge description
type Order struct {
	InvoiceNumber string
	Description   string
}

// BillTo holds the billing-address name fields derived from the free-text
// billing name
type BillTo struct {
	FirstName string
	LastName  string
}

// TransactionRequest is the gateway-agnostic charge/refund payload produced
// by the request builder. Amount is in major currency units.
type TransactionRequest struct {
	Type             TransactionType
	Amount           decimal.Decimal
	CurrencyCode     string
	ReferenceID      string // request correlation id, echoed back by the gateway
	RefTransactionID string // original transaction id, refunds only
	Payment          Payment
	Order            Order
	BillTo           *BillTo
	CustomerEmail    string
}

// ResultCodeOK is the result code of a successful gateway response envelope
const ResultCodeOK = "Ok"

// Message is a top-level gateway response message
type Message struct {
	Code string
	Text string
}

// TransactionError is a transaction-level error reported by the gateway
type TransactionError struct {
	Code string
	Text string
}

// TransactionResult is the transaction section of a gateway response
type TransactionResult struct {
	TransID       string
	ResponseCode  string
	AuthCode      string
	AVSResult     string
	AccountNumber string
	AccountType   string
	Errors        []TransactionError
}

// GatewayResponse is the structured gateway response handed to the
// classifier. Transaction is nil when the gateway returned no transaction
// section.
type GatewayResponse struct {
	ResultCode  string
	RefID       string
	Messages    []Message
	Transaction *TransactionResult
}

// TransactionGateway executes a single synchronous transaction against the
// remote gateway. Retry policy, if any, belongs to the caller.
type TransactionGateway interface {
	Execute(ctx context.Context, creds Credentials, mode Mode, req *TransactionRequest) (*GatewayResponse, error)
}
