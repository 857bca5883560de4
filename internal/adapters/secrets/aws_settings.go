package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"

	"github.com/invoiceware/driver-authorizenet/internal/domain"
	"github.com/invoiceware/driver-authorizenet/internal/domain/ports"
)

// AWSSettingsConfig contains configuration for the AWS Secrets Manager
// settings provider
type AWSSettingsConfig struct {
	// AWS Region (e.g., "us-east-1")
	Region string

	// Optional: AWS profile name (for local development)
	Profile string

	// Optional: Custom endpoint (for LocalStack testing)
	Endpoint string

	// SecretID of the settings document
	SecretID string

	// Cache TTL for the document (default: 5 minutes)
	CacheTTL time.Duration

	// Enable caching
	EnableCache bool
}

// DefaultAWSSettingsConfig returns default configuration
func DefaultAWSSettingsConfig(region, secretID string) *AWSSettingsConfig {
	return &AWSSettingsConfig{
		Region:      region,
		SecretID:    secretID,
		CacheTTL:    5 * time.Minute,
		EnableCache: true,
	}
}

// settingsDocument is the JSON shape of the stored settings secret
type settingsDocument struct {
	Test map[string]string `json:"test"`
	Live map[string]string `json:"live"`
	Fees map[string]string `json:"fees"`
}

// awsSettingsProvider implements SettingsProvider against a single JSON
// secret in AWS Secrets Manager holding both credential sets and the fees
type awsSettingsProvider struct {
	client *secretsmanager.Client
	config *AWSSettingsConfig
	logger *zap.Logger
	cache  *settingsCache
}

// NewAWSSettingsProvider creates an AWS Secrets Manager-backed settings provider
func NewAWSSettingsProvider(ctx context.Context, cfg *AWSSettingsConfig, logger *zap.Logger) (ports.SettingsProvider, error) {
	var awsCfg aws.Config
	var err error

	if cfg.Profile != "" {
		// Use specific profile (local development)
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithSharedConfigProfile(cfg.Profile),
		)
	} else {
		// Use default credentials chain (IAM role in production)
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	clientOptions := []func(*secretsmanager.Options){}
	if cfg.Endpoint != "" {
		// Custom endpoint (for LocalStack)
		clientOptions = append(clientOptions, func(o *secretsmanager.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	client := secretsmanager.NewFromConfig(awsCfg, clientOptions...)

	logger.Info("AWS settings provider initialized",
		zap.String("region", cfg.Region),
		zap.String("secret_id", cfg.SecretID),
		zap.Bool("cache_enabled", cfg.EnableCache),
	)

	return &awsSettingsProvider{
		client: client,
		config: cfg,
		logger: logger,
		cache:  newSettingsCache(cfg.EnableCache, cfg.CacheTTL),
	}, nil
}

// Credentials returns the credential set for the given mode
func (p *awsSettingsProvider) Credentials(ctx context.Context, mode ports.Mode) (ports.Credentials, error) {
	section := "test"
	if mode == ports.ModeLive {
		section = "live"
	}

	data, err := p.section(ctx, section)
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

// Fees returns the fee schedule section
func (p *awsSettingsProvider) Fees(ctx context.Context) (domain.FeeSchedule, error) {
	data, err := p.section(ctx, "fees")
	if err != nil {
		return domain.FeeSchedule{}, err
	}
	return parseFees(data)
}

func (p *awsSettingsProvider) section(ctx context.Context, name string) (map[string]string, error) {
	cacheKey := p.config.SecretID + "#" + name
	if cached, ok := p.cache.get(cacheKey); ok {
		return cached, nil
	}

	p.logger.Debug("Fetching settings document",
		zap.String("secret_id", p.config.SecretID),
	)

	out, err := p.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(p.config.SecretID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch settings secret: %w", err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("settings secret %s has no string value", p.config.SecretID)
	}

	var doc settingsDocument
	if err := json.Unmarshal([]byte(*out.SecretString), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode settings document: %w", err)
	}

	sections := map[string]map[string]string{
		"test": doc.Test,
		"live": doc.Live,
		"fees": doc.Fees,
	}
	for key, section := range sections {
		if section != nil {
			p.cache.put(p.config.SecretID+"#"+key, section)
		}
	}

	section, ok := sections[name]
	if !ok || section == nil {
		return nil, fmt.Errorf("settings document has no %q section", name)
	}
	return section, nil
}
