package secrets

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/invoiceware/driver-authorizenet/internal/config"
	"github.com/invoiceware/driver-authorizenet/internal/domain/ports"
)

func envConfig() *config.Config {
	return &config.Config{
		Test: config.CredentialsConfig{
			LoginID:         "test-login",
			TransactionKey:  "test-key",
			PublicClientKey: "test-client-key",
			SignatureKey:    "test-signature",
		},
		Live: config.CredentialsConfig{
			LoginID:        "live-login",
			TransactionKey: "live-key",
		},
		Fees: config.FeesConfig{Fixed: 30, Percentage: "2.9"},
	}
}

func TestEnvSettingsProvider_Credentials(t *testing.T) {
	provider, err := NewEnvSettingsProvider(envConfig(), zap.NewNop())
	require.NoError(t, err)

	test, err := provider.Credentials(context.Background(), ports.ModeTest)
	require.NoError(t, err)
	assert.Equal(t, "test-login", test.LoginID)
	assert.Equal(t, "test-signature", test.SignatureKey)

	live, err := provider.Credentials(context.Background(), ports.ModeLive)
	require.NoError(t, err)
	assert.Equal(t, "live-login", live.LoginID)
}

func TestEnvSettingsProvider_MissingCredentials(t *testing.T) {
	cfg := envConfig()
	cfg.Live = config.CredentialsConfig{}

	provider, err := NewEnvSettingsProvider(cfg, zap.NewNop())
	require.NoError(t, err)

	_, err = provider.Credentials(context.Background(), ports.ModeLive)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no credentials configured for mode "live"`)
}

func TestEnvSettingsProvider_Fees(t *testing.T) {
	provider, err := NewEnvSettingsProvider(envConfig(), zap.NewNop())
	require.NoError(t, err)

	fees, err := provider.Fees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(30), fees.Fixed)
	assert.True(t, fees.Percentage.Equal(decimal.RequireFromString("2.9")))
	assert.Equal(t, int64(320), fees.Calculate(10000))
}

func TestEnvSettingsProvider_InvalidPercentage(t *testing.T) {
	cfg := envConfig()
	cfg.Fees.Percentage = "two point nine"

	_, err := NewEnvSettingsProvider(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid fee percentage")
}
