package authorizenet

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"github.com/invoiceware/driver-authorizenet/internal/domain"
	"github.com/invoiceware/driver-authorizenet/internal/domain/ports"
	"github.com/invoiceware/driver-authorizenet/pkg/observability"
)

// Driver adapts the invoicing framework's payment-driver contract to the
// Authorize.Net transaction API. Charge and Refund always return a terminal
// Complete/Failed outcome; no transport or gateway error escapes to the
// caller.
type Driver struct {
	gateway   ports.TransactionGateway
	settings  ports.SettingsProvider
	mode      ports.Mode
	statement string // statement descriptor template, may be empty
	logger    *zap.Logger
}

// Option configures a Driver
type Option func(*Driver)

// WithStatementDescriptor sets the statement descriptor template. The
// {{INVOICE_REF}} placeholder is substituted with the order reference.
func WithStatementDescriptor(template string) Option {
	return func(d *Driver) {
		d.statement = template
	}
}

// NewDriver creates a new Authorize.Net payment driver
func NewDriver(gateway ports.TransactionGateway, settings ports.SettingsProvider, mode ports.Mode, logger *zap.Logger, opts ...Option) *Driver {
	d := &Driver{
		gateway:  gateway,
		settings: settings,
		mode:     mode,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Charge executes an authorize-and-capture transaction for the instruction
func (d *Driver) Charge(ctx context.Context, instr *domain.ChargeInstruction) *domain.ChargeOutcome {
	outcome, err := d.charge(ctx, instr)
	if err != nil {
		outcome = failedFromError(err)
		d.logger.Error("Charge failed before classification",
			zap.String("order_ref", instr.OrderReference),
			zap.Error(err),
		)
	}

	observability.RecordOutcome("charge", string(outcome.Status))

	if outcome.Complete() {
		d.logger.Info("Charge complete",
			zap.String("order_ref", instr.OrderReference),
			zap.String("transaction_id", outcome.TransactionID),
			zap.Int64("fee", outcome.Fee),
		)
	} else {
		fields := []zap.Field{
			zap.String("order_ref", instr.OrderReference),
			zap.String("gateway_code", outcome.GatewayCode),
			zap.String("internal_message", outcome.InternalMessage),
		}
		if outcome.PaymentError != nil {
			fields = append(fields,
				zap.String("category", string(outcome.PaymentError.Category)),
				zap.Bool("retriable", outcome.PaymentError.IsRetriable),
			)
		}
		d.logger.Info("Charge failed", fields...)
	}

	return outcome
}

func (d *Driver) charge(ctx context.Context, instr *domain.ChargeInstruction) (*domain.ChargeOutcome, error) {
	if instr.Amount <= 0 {
		return nil, domain.NewDomainError(domain.ErrorCodeConfigMissingField, "amount must be positive")
	}

	method, err := instr.ResolvePaymentMethod()
	if err != nil {
		return nil, err
	}

	d.logger.Info("Building charge request",
		zap.String("order_ref", instr.OrderReference),
		zap.String("payment_method", string(method.Kind)),
		zap.Int64("amount", instr.Amount),
		zap.String("currency", instr.Currency),
	)

	req := buildChargeRequest(instr, method, d.statement)

	resp, err := d.execute(ctx, req)
	if err != nil {
		return nil, err
	}

	fees, err := d.settings.Fees(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeConfigInvalidCredentials, "failed to load fee settings", err)
	}

	return classifyResponse(resp, instr.Amount, fees)
}

// Refund issues a ref-based refund of a settled transaction
func (d *Driver) Refund(ctx context.Context, refund *domain.RefundInstruction) *domain.ChargeOutcome {
	outcome, err := d.refund(ctx, refund)
	if err != nil {
		outcome = failedFromError(err)
		d.logger.Error("Refund failed before classification",
			zap.String("original_transaction_id", refund.OriginalTransactionID),
			zap.Error(err),
		)
	}

	observability.RecordOutcome("refund", string(outcome.Status))

	if outcome.Complete() {
		d.logger.Info("Refund complete",
			zap.String("original_transaction_id", refund.OriginalTransactionID),
			zap.String("transaction_id", outcome.TransactionID),
		)
	} else {
		fields := []zap.Field{
			zap.String("original_transaction_id", refund.OriginalTransactionID),
			zap.String("gateway_code", outcome.GatewayCode),
		}
		if outcome.PaymentError != nil {
			fields = append(fields,
				zap.String("category", string(outcome.PaymentError.Category)),
				zap.Bool("retriable", outcome.PaymentError.IsRetriable),
			)
		}
		d.logger.Info("Refund failed", fields...)
	}

	return outcome
}

func (d *Driver) refund(ctx context.Context, refund *domain.RefundInstruction) (*domain.ChargeOutcome, error) {
	if refund.OriginalTransactionID == "" {
		return nil, domain.NewDomainError(domain.ErrorCodeConfigMissingField, "an original transaction ID must be supplied")
	}
	if refund.Amount <= 0 {
		return nil, domain.NewDomainError(domain.ErrorCodeConfigMissingField, "amount must be positive")
	}

	req := buildRefundRequest(refund)

	resp, err := d.execute(ctx, req)
	if err != nil {
		return nil, err
	}

	// Refunds carry no fee of their own
	return classifyResponse(resp, refund.Amount, domain.FeeSchedule{})
}

func (d *Driver) execute(ctx context.Context, req *ports.TransactionRequest) (*ports.GatewayResponse, error) {
	creds, err := d.settings.Credentials(ctx, d.mode)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeConfigInvalidCredentials,
			fmt.Sprintf("no credentials for mode %q", d.mode), err)
	}

	resp, err := d.gateway.Execute(ctx, creds, d.mode, req)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeGatewayError, "gateway request failed", err)
	}
	return resp, nil
}

// CheckoutParams is what the checkout page exposes to the hosted
// tokenization script: the token is obtained browser-side, so the server
// never sees raw card data.
type CheckoutParams struct {
	ClientKey string
	LoginID   string
	Hash      string
}

// Checkout returns the public parameters for the client-side tokenization
// widget. The hash identifies the integration and is HMAC-SHA512 of the
// login ID under the signature key.
func (d *Driver) Checkout(ctx context.Context) (*CheckoutParams, error) {
	creds, err := d.settings.Credentials(ctx, d.mode)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeConfigInvalidCredentials,
			fmt.Sprintf("no credentials for mode %q", d.mode), err)
	}

	mac := hmac.New(sha512.New, []byte(creds.SignatureKey))
	mac.Write([]byte(creds.LoginID))

	return &CheckoutParams{
		ClientKey: creds.PublicClientKey,
		LoginID:   creds.LoginID,
		Hash:      hex.EncodeToString(mac.Sum(nil)),
	}, nil
}

// failedFromError converts a pre-classification error into a terminal
// Failed outcome. Configuration errors surface the generic rejection
// message; everything else reads as a gateway execution error.
func failedFromError(err error) *domain.ChargeOutcome {
	user := domain.UserMessageGatewayError
	if domain.IsConfigurationError(err) {
		user = domain.UserMessageGatewayRejected
	}
	return domain.FailedOutcome(err.Error(), string(domain.GetErrorCode(err)), user)
}
