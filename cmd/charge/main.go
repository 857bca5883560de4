package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/invoiceware/driver-authorizenet/internal/adapters/authorizenet"
	"github.com/invoiceware/driver-authorizenet/internal/adapters/secrets"
	"github.com/invoiceware/driver-authorizenet/internal/config"
	"github.com/invoiceware/driver-authorizenet/internal/domain"
	"github.com/invoiceware/driver-authorizenet/internal/domain/ports"
)

// charge executes a single charge or refund against the configured gateway
// mode and prints the terminal outcome. Intended for sandbox verification of
// an integration's credentials and fee settings.
func main() {
	var (
		op              = flag.String("op", "charge", "operation: charge or refund")
		amount          = flag.Int64("amount", 0, "amount in minor currency units")
		currency        = flag.String("currency", "USD", "ISO 4217 currency code")
		orderRef        = flag.String("order-ref", "", "invoice/order reference")
		tokenDescriptor = flag.String("token-descriptor", "", "opaque token data descriptor")
		tokenValue      = flag.String("token-value", "", "opaque token data value")
		paymentProfile  = flag.String("payment-profile", "", "gateway payment profile id")
		customerProfile = flag.String("customer-profile", "", "gateway customer profile id")
		billingName     = flag.String("billing-name", "", "free-text billing name")
		originalTxn     = flag.String("txn", "", "original transaction id (refund)")
		lastFour        = flag.String("last-four", "", "last four card digits (refund)")
	)
	flag.Parse()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		zap.NewExample().Fatal("Failed to load configuration", zap.Error(err))
	}

	logger := initLogger(cfg.Logger)
	defer logger.Sync()

	settings, err := buildSettingsProvider(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize settings provider", zap.Error(err))
	}

	clientCfg := authorizenet.DefaultClientConfig()
	clientCfg.TestURL = cfg.Gateway.TestURL
	clientCfg.LiveURL = cfg.Gateway.LiveURL
	clientCfg.Timeout = time.Duration(cfg.Gateway.Timeout) * time.Second

	driver := authorizenet.NewDriver(
		authorizenet.NewClient(clientCfg, logger),
		settings,
		ports.Mode(cfg.Driver.Mode),
		logger,
		authorizenet.WithStatementDescriptor(cfg.Driver.StatementDescriptor),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Gateway.Timeout+5)*time.Second)
	defer cancel()

	var outcome *domain.ChargeOutcome
	switch *op {
	case "charge":
		instr := &domain.ChargeInstruction{
			Amount:         *amount,
			Currency:       *currency,
			OrderReference: *orderRef,
			BillingName:    *billingName,
		}
		if *tokenValue != "" {
			instr.Token = &domain.OpaqueToken{
				DataDescriptor: *tokenDescriptor,
				DataValue:      *tokenValue,
			}
		}
		if *paymentProfile != "" || *customerProfile != "" {
			instr.ProfilePair = &domain.StoredProfile{
				PaymentProfileID:  *paymentProfile,
				CustomerProfileID: *customerProfile,
			}
		}
		outcome = driver.Charge(ctx, instr)

	case "refund":
		outcome = driver.Refund(ctx, &domain.RefundInstruction{
			OriginalTransactionID: *originalTxn,
			Amount:                *amount,
			Currency:              *currency,
			CardLastFour:          *lastFour,
			OrderReference:        *orderRef,
		})

	default:
		logger.Fatal("Unknown operation", zap.String("op", *op))
	}

	if outcome.Complete() {
		logger.Info("Transaction complete",
			zap.String("transaction_id", outcome.TransactionID),
			zap.Int64("fee", outcome.Fee),
		)
		return
	}

	logger.Warn("Transaction failed",
		zap.String("gateway_code", outcome.GatewayCode),
		zap.String("internal_message", outcome.InternalMessage),
		zap.String("user_message", outcome.UserMessage),
	)
	os.Exit(1)
}

func buildSettingsProvider(cfg *config.Config, logger *zap.Logger) (ports.SettingsProvider, error) {
	switch cfg.Settings.Backend {
	case "vault":
		vaultCfg := secrets.DefaultVaultSettingsConfig(cfg.Settings.VaultAddress, cfg.Settings.VaultPath)
		vaultCfg.Token = cfg.Settings.VaultToken
		return secrets.NewVaultSettingsProvider(vaultCfg, logger)
	case "aws":
		awsCfg := secrets.DefaultAWSSettingsConfig(cfg.Settings.AWSRegion, cfg.Settings.AWSSecretID)
		return secrets.NewAWSSettingsProvider(context.Background(), awsCfg, logger)
	default:
		return secrets.NewEnvSettingsProvider(cfg, logger)
	}
}

func initLogger(cfg config.LoggerConfig) *zap.Logger {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		logger = zap.NewExample()
	}
	return logger
}
