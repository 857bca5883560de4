package authorizenet

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/invoiceware/driver-authorizenet/internal/domain"
	"github.com/invoiceware/driver-authorizenet/internal/domain/ports"
	"github.com/invoiceware/driver-authorizenet/internal/util"
)

const (
	// maskedExpiry is submitted in place of the true expiry on ref-based
	// refunds; the gateway matches on transaction id plus last four and
	// does not require the full expiry
	maskedExpiry = "XXXX"

	// statementDescriptorLimit is the gateway's maximum descriptor length
	// in characters
	statementDescriptorLimit = 22

	// invoiceRefPlaceholder is substituted with the order reference in the
	// statement descriptor template
	invoiceRefPlaceholder = "{{INVOICE_REF}}"
)

var minorUnitsPerMajor = decimal.NewFromInt(100)

// buildChargeRequest produces the gateway payload for an authorize-and-
// capture transaction. Pure transform: no network call and no mutation of
// the instruction.
func buildChargeRequest(instr *domain.ChargeInstruction, method *domain.PaymentMethod, descriptor string) *ports.TransactionRequest {
	req := &ports.TransactionRequest{
		Type:         ports.TransactionTypeAuthCapture,
		Amount:       majorUnits(instr.Amount),
		CurrencyCode: strings.ToUpper(instr.Currency),
		ReferenceID:  instr.PaymentReference,
		Payment:      paymentPayload(method),
		Order: ports.Order{
			InvoiceNumber: instr.OrderReference,
			Description:   chargeDescription(instr, descriptor),
		},
		CustomerEmail: receiptEmail(instr),
	}

	if name := strings.TrimSpace(instr.BillingName); name != "" {
		parts := util.SplitName(name)
		req.BillTo = &ports.BillTo{
			FirstName: parts.FirstName,
			LastName:  parts.LastName,
		}
	}

	return req
}

// buildRefundRequest produces the gateway payload for a ref-based refund.
// The card stub carries the last four digits with a masked expiry sentinel.
func buildRefundRequest(refund *domain.RefundInstruction) *ports.TransactionRequest {
	return &ports.TransactionRequest{
		Type:             ports.TransactionTypeRefund,
		Amount:           majorUnits(refund.Amount),
		CurrencyCode:     strings.ToUpper(refund.Currency),
		RefTransactionID: refund.OriginalTransactionID,
		Payment: ports.Payment{
			Card: &ports.CreditCard{
				Number:         refund.CardLastFour,
				ExpirationDate: maskedExpiry,
			},
		},
		Order: ports.Order{
			InvoiceNumber: refund.OrderReference,
			Description:   refund.Reason,
		},
	}
}

func paymentPayload(method *domain.PaymentMethod) ports.Payment {
	switch method.Kind {
	case domain.PaymentMethodKindToken:
		return ports.Payment{
			OpaqueData: &ports.OpaqueData{
				DataDescriptor: method.Token.DataDescriptor,
				DataValue:      method.Token.DataValue,
			},
		}
	case domain.PaymentMethodKindStoredProfile:
		return ports.Payment{
			Profile: &ports.CustomerProfile{
				CustomerProfileID: method.Profile.CustomerProfileID,
				PaymentProfileID:  method.Profile.PaymentProfileID,
			},
		}
	default:
		return ports.Payment{
			Card: &ports.CreditCard{
				Number:         method.Card.Number,
				ExpirationDate: formatExpiration(method.Card.ExpiryMonth, method.Card.ExpiryYear),
				CardCode:       method.Card.CVC,
			},
		}
	}
}

// majorUnits converts a minor-unit integer amount to the gateway's
// major-unit decimal form (e.g. 10000 -> 100.00)
func majorUnits(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Div(minorUnitsPerMajor)
}

// formatExpiration renders month/year as the gateway's YYYY-MM form,
// widening two-digit years
func formatExpiration(month, year string) string {
	month = strings.TrimSpace(month)
	year = strings.TrimSpace(year)
	if len(year) == 2 {
		year = "20" + year
	}
	if len(month) == 1 {
		month = "0" + month
	}
	return year + "-" + month
}

// chargeDescription applies the statement descriptor template, substituting
// the invoice reference and truncating to the gateway limit. Falls back to
// the instruction's own description when no template is configured.
func chargeDescription(instr *domain.ChargeInstruction, descriptor string) string {
	if descriptor == "" {
		return instr.Description
	}
	text := strings.ReplaceAll(descriptor, invoiceRefPlaceholder, instr.OrderReference)
	// Truncate on runes so a multi-byte character at the boundary is not
	// split into invalid UTF-8
	if runes := []rune(text); len(runes) > statementDescriptorLimit {
		text = string(runes[:statementDescriptorLimit])
	}
	return text
}

// receiptEmail prefers the billing email over the account email
func receiptEmail(instr *domain.ChargeInstruction) string {
	if instr.BillingEmail != "" {
		return instr.BillingEmail
	}
	return instr.CustomerEmail
}
