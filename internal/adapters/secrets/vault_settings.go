package secrets

import (
	"context"
	"fmt"
	"time"

	vault "github.com/hashicorp/vault/api"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/invoiceware/driver-authorizenet/internal/domain"
	"github.com/invoiceware/driver-authorizenet/internal/domain/ports"
)

// VaultSettingsConfig contains configuration for the Vault settings provider
type VaultSettingsConfig struct {
	// Vault server address (e.g., "https://vault.example.com:8200")
	Address string

	// Token for token authentication
	Token string

	// KV secrets engine mount path (default: "secret")
	MountPath string

	// Base path under the mount; credentials live at "<base>/<mode>" and
	// fees at "<base>/fees"
	BasePath string

	// Cache TTL
	CacheTTL time.Duration

	// Enable caching
	EnableCache bool

	// TLS configuration
	TLSSkipVerify bool
}

// DefaultVaultSettingsConfig returns default configuration for the Vault provider
func DefaultVaultSettingsConfig(address, basePath string) *VaultSettingsConfig {
	return &VaultSettingsConfig{
		Address:     address,
		MountPath:   "secret",
		BasePath:    basePath,
		CacheTTL:    5 * time.Minute,
		EnableCache: true,
	}
}

// vaultSettingsProvider implements SettingsProvider against HashiCorp Vault
// KV v2. Credential documents carry login_id, transaction_key,
// public_client_key and signature_key; the fees document carries fixed and
// percentage.
type vaultSettingsProvider struct {
	client *vault.Client
	config *VaultSettingsConfig
	logger *zap.Logger
	cache  *settingsCache
}

// NewVaultSettingsProvider creates a Vault-backed settings provider
func NewVaultSettingsProvider(cfg *VaultSettingsConfig, logger *zap.Logger) (ports.SettingsProvider, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	if cfg.TLSSkipVerify {
		tlsConfig := &vault.TLSConfig{
			Insecure: true,
		}
		if err := vaultConfig.ConfigureTLS(tlsConfig); err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}

	if cfg.Token != "" {
		client.SetToken(cfg.Token)
	}

	logger.Info("Vault settings provider initialized",
		zap.String("address", cfg.Address),
		zap.String("mount_path", cfg.MountPath),
		zap.String("base_path", cfg.BasePath),
	)

	return &vaultSettingsProvider{
		client: client,
		config: cfg,
		logger: logger,
		cache:  newSettingsCache(cfg.EnableCache, cfg.CacheTTL),
	}, nil
}

// Credentials returns the credential set for the given mode
func (p *vaultSettingsProvider) Credentials(ctx context.Context, mode ports.Mode) (ports.Credentials, error) {
	data, err := p.read(ctx, fmt.Sprintf("%s/%s", p.config.BasePath, mode))
	if err != nil {
		return ports.Credentials{}, err
	}

	creds := ports.Credentials{
		LoginID:         data["login_id"],
		TransactionKey:  data["transaction_key"],
		PublicClientKey: data["public_client_key"],
		SignatureKey:    data["signature_key"],
	}
	if creds.LoginID == "" || creds.TransactionKey == "" {
		return ports.Credentials{}, fmt.Errorf("incomplete credentials for mode %q", mode)
	}
	return creds, nil
}

// Fees returns the fee schedule document
func (p *vaultSettingsProvider) Fees(ctx context.Context) (domain.FeeSchedule, error) {
	data, err := p.read(ctx, p.config.BasePath+"/fees")
	if err != nil {
		return domain.FeeSchedule{}, err
	}
	return parseFees(data)
}

func (p *vaultSettingsProvider) read(ctx context.Context, path string) (map[string]string, error) {
	if cached, ok := p.cache.get(path); ok {
		return cached, nil
	}

	p.logger.Debug("Reading settings from Vault", zap.String("path", path))

	secret, err := p.client.KVv2(p.config.MountPath).Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from Vault: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("no settings found at %s", path)
	}

	data := make(map[string]string, len(secret.Data))
	for k, v := range secret.Data {
		if s, ok := v.(string); ok {
			data[k] = s
		} else {
			data[k] = fmt.Sprintf("%v", v)
		}
	}

	p.cache.put(path, data)
	return data, nil
}

// parseFees builds a fee schedule from a string-valued settings document
func parseFees(data map[string]string) (domain.FeeSchedule, error) {
	fees := domain.FeeSchedule{Percentage: decimal.Zero}

	if raw, ok := data["fixed"]; ok && raw != "" {
		fixed, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.FeeSchedule{}, fmt.Errorf("invalid fixed fee %q: %w", raw, err)
		}
		fees.Fixed = fixed.IntPart()
	}

	if raw, ok := data["percentage"]; ok && raw != "" {
		percentage, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.FeeSchedule{}, fmt.Errorf("invalid fee percentage %q: %w", raw, err)
		}
		fees.Percentage = percentage
	}

	return fees, nil
}
