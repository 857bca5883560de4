package secrets

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/invoiceware/driver-authorizenet/internal/config"
	"github.com/invoiceware/driver-authorizenet/internal/domain"
	"github.com/invoiceware/driver-authorizenet/internal/domain/ports"
)

// envSettingsProvider implements SettingsProvider from environment-supplied
// configuration. For development; use the Vault or AWS provider in
// production so transaction keys stay out of the process environment.
type envSettingsProvider struct {
	test   ports.Credentials
	live   ports.Credentials
	fees   domain.FeeSchedule
	logger *zap.Logger
}

// NewEnvSettingsProvider creates a settings provider backed by the loaded
// environment configuration
func NewEnvSettingsProvider(cfg *config.Config, logger *zap.Logger) (ports.SettingsProvider, error) {
	percentage, err := decimal.NewFromString(cfg.Fees.Percentage)
	if err != nil {
		return nil, fmt.Errorf("invalid fee percentage %q: %w", cfg.Fees.Percentage, err)
	}

	return &envSettingsProvider{
		test:   credentialsFromConfig(cfg.Test),
		live:   credentialsFromConfig(cfg.Live),
		fees:   domain.FeeSchedule{Fixed: cfg.Fees.Fixed, Percentage: percentage},
		logger: logger,
	}, nil
}

func credentialsFromConfig(c config.CredentialsConfig) ports.Credentials {
	return ports.Credentials{
		LoginID:         c.LoginID,
		TransactionKey:  c.TransactionKey,
		PublicClientKey: c.PublicClientKey,
		SignatureKey:    c.SignatureKey,
	}
}

// Credentials returns the credential set for the given mode
func (p *envSettingsProvider) Credentials(ctx context.Context, mode ports.Mode) (ports.Credentials, error) {
	creds := p.test
	if mode == ports.ModeLive {
		creds = p.live
	}
	if creds.LoginID == "" || creds.TransactionKey == "" {
		return ports.Credentials{}, fmt.Errorf("no credentials configured for mode %q", mode)
	}
	return creds, nil
}

// Fees returns the configured fee schedule
func (p *envSettingsProvider) Fees(ctx context.Context) (domain.FeeSchedule, error) {
	return p.fees, nil
}
