package domain

import (
	"strings"

	pkgerrors "github.com/invoiceware/driver-authorizenet/pkg/errors"
)

// PaymentMethodKind identifies which payment-method variant was resolved
type PaymentMethodKind string

const (
	PaymentMethodKindToken         PaymentMethodKind = "token"
	PaymentMethodKindStoredProfile PaymentMethodKind = "stored_profile"
	PaymentMethodKindRawCard       PaymentMethodKind = "raw_card"
)

// OpaqueToken is a one-time-use, gateway-issued reference to card data
// collected client-side by the hosted tokenization script
type OpaqueToken struct {
	DataDescriptor string
	DataValue      string
}

// StoredProfile references a payment method previously created on the
// gateway side, keyed by the customer profile that owns it
type StoredProfile struct {
	PaymentProfileID  string
	CustomerProfileID string
}

// RawCard carries card details for the legacy direct-card flow
type RawCard struct {
	Number      string
	ExpiryMonth string
	ExpiryYear  string
	CVC         string
}

// Sanitized returns a copy with the card number reduced to digits only
func (c RawCard) Sanitized() RawCard {
	var b strings.Builder
	for _, r := range c.Number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	c.Number = b.String()
	return c
}

// LastFour returns the last four digits of the sanitized card number
func (c RawCard) LastFour() string {
	n := c.Sanitized().Number
	if len(n) < 4 {
		return n
	}
	return n[len(n)-4:]
}

// ChargeInstruction is a normalized payment instruction from the invoicing
// framework. The caller may supply several payment identifiers at once;
// ResolvePaymentMethod picks exactly one in a fixed priority order.
type ChargeInstruction struct {
	Amount   int64  // minor currency units, must be positive
	Currency string // ISO 4217, uppercase

	// Payment identifiers, in descending priority:
	Source      *StoredProfile // an explicit stored payment source object
	Token       *OpaqueToken   // token from the client-side tokenization widget
	ProfilePair *StoredProfile // profile ids supplied directly in custom data
	Card        *RawCard       // legacy direct-card flow

	OrderReference   string // invoice reference, passed through to the gateway
	PaymentReference string // caller's payment identifier, used as the request ref
	Description      string
	BillingName      string // free text, decomposed into billing-address fields
	BillingEmail     string
	CustomerEmail    string
}

// PaymentMethod is the resolved, validated payment-method variant.
// Exactly one of Token/Profile/Card is set, matching Kind.
type PaymentMethod struct {
	Kind    PaymentMethodKind
	Token   *OpaqueToken
	Profile *StoredProfile
	Card    *RawCard
}

// ResolvePaymentMethod selects the payment-method variant to charge, in the
// fixed priority order: stored source, then opaque token, then an explicit
// profile-id pair, then raw card details. A selected variant with empty
// sub-fields is a configuration error, not a fallthrough to the next one.
func (i *ChargeInstruction) ResolvePaymentMethod() (*PaymentMethod, error) {
	switch {
	case i.Source != nil:
		if err := validateProfile(i.Source); err != nil {
			return nil, err
		}
		return &PaymentMethod{Kind: PaymentMethodKindStoredProfile, Profile: i.Source}, nil

	case i.Token != nil:
		if strings.TrimSpace(i.Token.DataDescriptor) == "" {
			return nil, NewDomainError(ErrorCodeConfigMissingField, "token data descriptor is required")
		}
		if strings.TrimSpace(i.Token.DataValue) == "" {
			return nil, NewDomainError(ErrorCodeConfigMissingField, "token data value is required")
		}
		return &PaymentMethod{Kind: PaymentMethodKindToken, Token: i.Token}, nil

	case i.ProfilePair != nil:
		if err := validateProfile(i.ProfilePair); err != nil {
			return nil, err
		}
		return &PaymentMethod{Kind: PaymentMethodKindStoredProfile, Profile: i.ProfilePair}, nil

	case i.Card != nil:
		card := i.Card.Sanitized()
		switch {
		case card.Number == "":
			return nil, NewDomainError(ErrorCodeConfigMissingField, "card number is required")
		case card.ExpiryMonth == "":
			return nil, NewDomainError(ErrorCodeConfigMissingField, "card expiry month is required")
		case card.ExpiryYear == "":
			return nil, NewDomainError(ErrorCodeConfigMissingField, "card expiry year is required")
		case card.CVC == "":
			return nil, NewDomainError(ErrorCodeConfigMissingField, "card CVC is required")
		}
		return &PaymentMethod{Kind: PaymentMethodKindRawCard, Card: &card}, nil
	}

	return nil, ErrMissingPaymentMethod
}

func validateProfile(p *StoredProfile) error {
	if strings.TrimSpace(p.PaymentProfileID) == "" {
		return NewDomainError(ErrorCodeConfigMissingField, "a payment profile ID must be supplied")
	}
	if strings.TrimSpace(p.CustomerProfileID) == "" {
		return NewDomainError(ErrorCodeConfigMissingField,
			"the supplied payment profile ID cannot be used without an accompanying customer profile ID")
	}
	return nil
}

// RefundInstruction describes a ref-based refund of a settled transaction.
// The gateway matches the refund to the original transaction by id plus the
// last four digits of the card; the full expiry is not required, so the
// builder substitutes a masked sentinel.
type RefundInstruction struct {
	OriginalTransactionID string
	Amount                int64
	Currency              string
	CardLastFour          string
	Reason                string
	OrderReference        string
}

// OutcomeStatus is the terminal state of a charge or refund
type OutcomeStatus string

const (
	OutcomeComplete OutcomeStatus = "complete"
	OutcomeFailed   OutcomeStatus = "failed"
)

// ChargeOutcome is the terminal result handed back to the invoicing
// framework. There is no pending state: the gateway call is synchronous.
type ChargeOutcome struct {
	Status OutcomeStatus

	// Complete
	TransactionID string
	Fee           int64

	// Failed
	InternalMessage string
	GatewayCode     string
	UserMessage     string

	// PaymentError carries the structured gateway error for failures the
	// gateway itself reported; nil when the failure happened before a
	// gateway response was obtained.
	PaymentError *pkgerrors.PaymentError
}

// Complete reports whether the transaction settled
func (o *ChargeOutcome) Complete() bool {
	return o.Status == OutcomeComplete
}

// CompleteOutcome builds a successful terminal outcome
func CompleteOutcome(transactionID string, fee int64) *ChargeOutcome {
	return &ChargeOutcome{
		Status:        OutcomeComplete,
		TransactionID: transactionID,
		Fee:           fee,
	}
}

// FailedOutcome builds a failed terminal outcome
func FailedOutcome(internalMessage, gatewayCode, userMessage string) *ChargeOutcome {
	return &ChargeOutcome{
		Status:          OutcomeFailed,
		InternalMessage: internalMessage,
		GatewayCode:     gatewayCode,
		UserMessage:     userMessage,
	}
}
