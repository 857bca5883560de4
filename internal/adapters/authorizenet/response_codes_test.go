package authorizenet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/invoiceware/driver-authorizenet/pkg/errors"
)

func TestGetTransactionResponseCode(t *testing.T) {
	tests := []struct {
		name         string
		code         string
		wantCategory pkgerrors.ErrorCategory
		wantUserMsg  string
	}{
		{name: "declined", code: TransactionCodeDeclined, wantCategory: pkgerrors.CategoryDeclined, wantUserMsg: "The card was declined."},
		{name: "voice referral", code: TransactionCodeDeclinedVoice, wantCategory: pkgerrors.CategoryDeclined, wantUserMsg: "The card was declined."},
		{name: "card pick up", code: TransactionCodeDeclinedCardPickup, wantCategory: pkgerrors.CategoryDeclined, wantUserMsg: "The card was declined."},
		{name: "invalid amount", code: TransactionCodeDeclinedInvalidAmount, wantCategory: pkgerrors.CategoryInvalidRequest, wantUserMsg: "The gateway rejected the request, you may wish to try again."},
		{name: "invalid card number", code: TransactionCodeDeclinedInvalidCardNumber, wantCategory: pkgerrors.CategoryInvalidCard, wantUserMsg: "The card was declined."},
		{name: "invalid expiry", code: TransactionCodeDeclinedInvalidExpiry, wantCategory: pkgerrors.CategoryInvalidCard, wantUserMsg: "The card was declined due to an invalid expiry date."},
		{name: "expired card", code: TransactionCodeDeclinedCardExpired, wantCategory: pkgerrors.CategoryExpiredCard, wantUserMsg: "The card is expired."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetTransactionResponseCode(tt.code)
			assert.Equal(t, tt.code, info.Code)
			assert.True(t, info.IsDeclined)
			assert.Equal(t, tt.wantCategory, info.Category)
			assert.Equal(t, tt.wantUserMsg, info.UserMessage)
			assert.NotEmpty(t, info.InternalMessage)
			assert.NotEmpty(t, info.Description)
		})
	}
}

func TestGetTransactionResponseCode_Unknown(t *testing.T) {
	for _, code := range []string{"0", "9", "252", "garbage", ""} {
		info := GetTransactionResponseCode(code)
		assert.Equal(t, code, info.Code)
		assert.True(t, info.IsDeclined)
		assert.Equal(t, "The gateway rejected the request", info.InternalMessage)
		assert.Equal(t, "The gateway rejected the request, you may wish to try again.", info.UserMessage)
	}
}

func TestResponseCodeInfo_ToPaymentError(t *testing.T) {
	info := GetTransactionResponseCode(TransactionCodeDeclined)
	paymentErr := info.ToPaymentError("This transaction has been declined.")

	assert.Equal(t, TransactionCodeDeclined, paymentErr.Code)
	assert.Equal(t, info.UserMessage, paymentErr.Message)
	assert.Equal(t, "This transaction has been declined.", paymentErr.GatewayMessage)
	assert.False(t, paymentErr.IsRetriable)
	assert.Equal(t, pkgerrors.CategoryDeclined, paymentErr.Category)
}
