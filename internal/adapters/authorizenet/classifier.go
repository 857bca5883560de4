package authorizenet

import (
	"fmt"

	"github.com/invoiceware/driver-authorizenet/internal/domain"
	"github.com/invoiceware/driver-authorizenet/internal/domain/ports"
	pkgerrors "github.com/invoiceware/driver-authorizenet/pkg/errors"
)

// classifyResponse maps a structured gateway response to a terminal outcome.
//
// Decision table:
//   - resultCode Ok, transaction present, no errors  -> Complete
//   - resultCode Ok, transaction absent              -> gateway error
//   - resultCode Ok, transaction errors              -> Failed via the
//     response-code table, first error wins
//   - resultCode not Ok                              -> Failed, first
//     top-level message, generic user message
//
// A nil response or a missing transaction section is a GatewayError; the
// driver boundary converts it to a Failed outcome.
func classifyResponse(resp *ports.GatewayResponse, amount int64, fees domain.FeeSchedule) (*domain.ChargeOutcome, error) {
	if resp == nil {
		return nil, domain.ErrNullResponse
	}

	if resp.ResultCode == ports.ResultCodeOK {
		txn := resp.Transaction
		if txn == nil {
			return nil, domain.ErrNullTransactionResponse
		}

		if len(txn.Errors) == 0 {
			return domain.CompleteOutcome(txn.TransID, fees.Calculate(amount)), nil
		}

		// The gateway may list several errors; the first one decides
		first := txn.Errors[0]
		info := GetTransactionResponseCode(first.Code)
		outcome := domain.FailedOutcome(info.InternalMessage, first.Code, info.UserMessage)
		outcome.PaymentError = info.ToPaymentError(first.Text)
		return outcome, nil
	}

	return rejectedOutcome(resp), nil
}

// rejectedOutcome handles result-code failures: gateway-level validation
// errors distinct from a card decline. The internal message carries the
// first top-level message, concatenated with the first transaction-level
// error detail when one is present.
func rejectedOutcome(resp *ports.GatewayResponse) *domain.ChargeOutcome {
	internal := "The gateway rejected the request"
	code := ""
	if len(resp.Messages) > 0 {
		internal = resp.Messages[0].Text
		code = resp.Messages[0].Code
	}

	if resp.Transaction != nil && len(resp.Transaction.Errors) > 0 {
		detail := resp.Transaction.Errors[0]
		internal = fmt.Sprintf("%s ( %s: %s)", internal, detail.Code, detail.Text)
	}

	// A result-code rejection is a request problem rather than a card
	// decline, so it is the one failure worth retrying after correction
	paymentErr := pkgerrors.NewPaymentError(code, domain.UserMessageGatewayRejected, pkgerrors.CategoryInvalidRequest, true)
	paymentErr.GatewayMessage = internal

	outcome := domain.FailedOutcome(internal, code, domain.UserMessageGatewayRejected)
	outcome.PaymentError = paymentErr
	return outcome
}
