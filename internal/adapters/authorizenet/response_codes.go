package authorizenet

import (
	"github.com/invoiceware/driver-authorizenet/internal/domain"
	pkgerrors "github.com/invoiceware/driver-authorizenet/pkg/errors"
)

// Transaction response codes returned in the transactionResponse section.
// https://developer.authorize.net/api/reference/responseCodes.html
const (
	TransactionCodeApproved                  = "1"
	TransactionCodeDeclined                  = "2"
	TransactionCodeDeclinedVoice             = "3"
	TransactionCodeDeclinedCardPickup        = "4"
	TransactionCodeDeclinedInvalidAmount     = "5"
	TransactionCodeDeclinedInvalidCardNumber = "6"
	TransactionCodeDeclinedInvalidExpiry     = "7"
	TransactionCodeDeclinedCardExpired       = "8"
)

// ResponseCodeInfo contains detailed information about a transaction
// response code. InternalMessage is developer-facing; UserMessage is what
// the customer is shown.
type ResponseCodeInfo struct {
	Code               string
	Description        string
	IsDeclined         bool
	RequiresUserAction bool
	Category           pkgerrors.ErrorCategory
	InternalMessage    string
	UserMessage        string
}

var transactionResponseCodes = map[string]ResponseCodeInfo{
	TransactionCodeDeclined: {
		Code:               TransactionCodeDeclined,
		Description:        "The transaction was declined",
		IsDeclined:         true,
		RequiresUserAction: true,
		Category:           pkgerrors.CategoryDeclined,
		InternalMessage:    "The card was declined.",
		UserMessage:        "The card was declined.",
	},
	TransactionCodeDeclinedVoice: {
		Code:               TransactionCodeDeclinedVoice,
		Description:        "Referral to the voice authorisation centre",
		IsDeclined:         true,
		RequiresUserAction: true,
		Category:           pkgerrors.CategoryDeclined,
		InternalMessage:    "The card was declined due to a referral to the voice authorisation centre.",
		UserMessage:        "The card was declined.",
	},
	TransactionCodeDeclinedCardPickup: {
		Code:               TransactionCodeDeclinedCardPickup,
		Description:        "The card requires pick up",
		IsDeclined:         true,
		RequiresUserAction: true,
		Category:           pkgerrors.CategoryDeclined,
		InternalMessage:    "The card was declined due to the card requiring pick up.",
		UserMessage:        "The card was declined.",
	},
	TransactionCodeDeclinedInvalidAmount: {
		Code:            TransactionCodeDeclinedInvalidAmount,
		Description:     "An invalid amount was specified",
		IsDeclined:      true,
		Category:        pkgerrors.CategoryInvalidRequest,
		InternalMessage: "The transaction was declined due to an invalid amount being specified.",
		UserMessage:     "The gateway rejected the request, you may wish to try again.",
	},
	TransactionCodeDeclinedInvalidCardNumber: {
		Code:               TransactionCodeDeclinedInvalidCardNumber,
		Description:        "The card number is invalid",
		IsDeclined:         true,
		RequiresUserAction: true,
		Category:           pkgerrors.CategoryInvalidCard,
		InternalMessage:    "The card was declined due to an invalid card number.",
		UserMessage:        "The card was declined.",
	},
	TransactionCodeDeclinedInvalidExpiry: {
		Code:               TransactionCodeDeclinedInvalidExpiry,
		Description:        "The expiry date is invalid",
		IsDeclined:         true,
		RequiresUserAction: true,
		Category:           pkgerrors.CategoryInvalidCard,
		InternalMessage:    "The card was declined due to an invalid expiry date.",
		UserMessage:        "The card was declined due to an invalid expiry date.",
	},
	TransactionCodeDeclinedCardExpired: {
		Code:               TransactionCodeDeclinedCardExpired,
		Description:        "The card has expired",
		IsDeclined:         true,
		RequiresUserAction: true,
		Category:           pkgerrors.CategoryExpiredCard,
		InternalMessage:    "The card is expired.",
		UserMessage:        "The card is expired.",
	},
}

// GetTransactionResponseCode retrieves response code information for a
// transaction-level error code, defaulting to a generic rejection for codes
// the table does not know
func GetTransactionResponseCode(code string) ResponseCodeInfo {
	if info, exists := transactionResponseCodes[code]; exists {
		return info
	}
	return ResponseCodeInfo{
		Code:            code,
		Description:     "Unknown response code",
		IsDeclined:      true,
		Category:        pkgerrors.CategoryDeclined,
		InternalMessage: "The gateway rejected the request",
		UserMessage:     domain.UserMessageGatewayRejected,
	}
}

// ToPaymentError converts a response code to a PaymentError
func (r ResponseCodeInfo) ToPaymentError(gatewayMessage string) *pkgerrors.PaymentError {
	return &pkgerrors.PaymentError{
		Code:           r.Code,
		Message:        r.UserMessage,
		GatewayMessage: gatewayMessage,
		IsRetriable:    false,
		Category:       r.Category,
		Details:        map[string]interface{}{"description": r.Description},
	}
}
