package config

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`
	// Mount is the KV v2 engine mount, "secret" when empty
	Mount string `mapstructure:"mount"`

	// Secret paths, relative to Mount
	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets defines where to find secrets in Vault
type VaultSecrets struct {
	// APIKeys expects a "keys" field holding comma-separated values, e.g. "key1,key2"
	APIKeys   string `mapstructure:"apiKeys"`
	GeminiKey string `mapstructure:"geminiKey"` // "api_key" field
	Redis     string `mapstructure:"redis"`     // "password" field
	MinIO     string `mapstructure:"minio"`     // "access_key" and "secret_key" fields
}

// VaultClient wraps the Vault API client
type VaultClient struct {
	client *api.Client
	config VaultConfig
	logger *errors.Logger
}

// NewVaultClient creates a new Vault client from configuration
func NewVaultClient(config VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !config.Enabled {
		if logger != nil {
			logger.Debug("Vault integration disabled")
		}
		return nil, nil
	}

	if logger != nil {
		logger.Debug("Initializing Vault client",
			"address", config.Address,
			"namespace", config.Namespace,
			"token_file", config.TokenFile,
			"has_token", config.Token != "")
	}

	client, err := createVaultAPIClient(config, logger)
	if err != nil {
		return nil, err
	}

	token, err := resolveVaultToken(config, logger)
	if err != nil {
		return nil, err
	}

	client.SetToken(token)
	if logger != nil {
		logger.Debug("Vault token configured", "token_prefix", token[:min(len(token), 8)]+"...")
	}

	if err := testVaultConnection(client, config.Address, logger); err != nil {
		return nil, err
	}

	return &VaultClient{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// createVaultAPIClient creates and configures the Vault API client
func createVaultAPIClient(config VaultConfig, logger *errors.Logger) (*api.Client, error) {
	vaultConfig := api.DefaultConfig()
	if config.Address != "" {
		vaultConfig.Address = config.Address
	}

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		if logger != nil {
			logger.LogError(err, "Failed to create Vault client")
		}
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	// Set namespace if provided
	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
		if logger != nil {
			logger.Debug("Set Vault namespace", "namespace", config.Namespace)
		}
	}

	return client, nil
}

// resolveVaultToken resolves the Vault token from config or file
func resolveVaultToken(config VaultConfig, logger *errors.Logger) (string, error) {
	token := config.Token

	if token == "" && config.TokenFile != "" {
		if logger != nil {
			logger.Debug("Reading Vault token from file", "file", config.TokenFile)
		}
		tokenBytes, err := os.ReadFile(config.TokenFile)
		if err != nil {
			if logger != nil {
				logger.LogError(err, "Failed to read Vault token file", "file", config.TokenFile)
			}
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(tokenBytes))
	}

	if token == "" {
		if logger != nil {
			logger.LogError(fmt.Errorf("vault token is required"), "Vault token is required when Vault is enabled")
		}
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}

	return token, nil
}

// testVaultConnection tests the connection to Vault
func testVaultConnection(client *api.Client, address string, logger *errors.Logger) error {
	if logger != nil {
		logger.Debug("Testing Vault connection", "address", address)
	}

	health, err := client.Sys().Health()
	if err != nil {
		if logger != nil {
			logger.LogError(err, "Failed to connect to Vault", "address", address)
		}
		return fmt.Errorf("failed to connect to vault: %w", err)
	}

	if logger != nil {
		logger.Info("Successfully connected to Vault",
			"address", address,
			"version", health.Version,
			"sealed", health.Sealed,
			"cluster_name", health.ClusterName)
	}

	return nil
}

// secretTimeout bounds each secret read at startup
const secretTimeout = 10 * time.Second

// readSecret reads the latest version of a KV v2 secret below the configured mount
func (vc *VaultClient) readSecret(path string) (map[string]any, error) {
	if vc == nil {
		return nil, fmt.Errorf("vault client not initialized")
	}
	ctx, cancel := context.WithTimeout(context.Background(), secretTimeout)
	defer cancel()

	secret, err := vc.client.KVv2(vc.mount()).Get(ctx, path)
	if err != nil {
		if stderrors.Is(err, api.ErrSecretNotFound) {
			return nil, fmt.Errorf("secret not found at %s/%s", vc.mount(), path)
		}
		return nil, fmt.Errorf("failed to read secret %s/%s: %w", vc.mount(), path, err)
	}
	if vc.logger != nil && secret.VersionMetadata != nil {
		vc.logger.Debug("Read secret from Vault", "path", path, "version", secret.VersionMetadata.Version)
	}
	return secret.Data, nil
}

func (vc *VaultClient) mount() string {
	if vc.config.Mount == "" {
		return "secret"
	}
	return vc.config.Mount
}

// stringField returns data[key] as a string
func stringField(data map[string]any, path, key string) (string, error) {
	value, ok := data[key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in secret %s", key, path)
	}
	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("value for key '%s' is not a string in secret %s", key, path)
	}
	return str, nil
}

// maskSecret keeps the first and last four characters of long values
func maskSecret(value string) string {
	switch {
	case len(value) > 8:
		return value[:4] + "****" + value[len(value)-4:]
	case value != "":
		return "****"
	}
	return ""
}

// GetStringSecret retrieves a string value from a Vault secret
func (vc *VaultClient) GetStringSecret(path, key string) (string, error) {
	data, err := vc.readSecret(path)
	if err != nil {
		return "", err
	}
	value, err := stringField(data, path, key)
	if err != nil {
		return "", err
	}
	if vc.logger != nil {
		vc.logger.Debug("String secret retrieved from Vault", "path", path, "key", key, "masked_value", maskSecret(value))
	}
	return value, nil
}

// GetStringSliceSecret retrieves a comma-separated string as a slice from Vault
func (vc *VaultClient) GetStringSliceSecret(path, key string) ([]string, error) {
	value, err := vc.GetStringSecret(path, key)
	if err != nil {
		return nil, err
	}
	return splitAndTrim(value), nil
}

// ApplyVaultSecrets loads secrets from Vault and applies them to the config
func ApplyVaultSecrets(config *Config, logger *errors.Logger) error {
	if !config.Vault.Enabled {
		if logger != nil {
			logger.Debug("Vault integration disabled, skipping secret loading")
		}
		return nil
	}

	if logger != nil {
		logger.Info("Loading secrets from Vault",
			"api_keys_path", config.Vault.Secrets.APIKeys,
			"gemini_key_path", config.Vault.Secrets.GeminiKey,
			"redis_path", config.Vault.Secrets.Redis,
			"minio_path", config.Vault.Secrets.MinIO)
	}

	client, err := NewVaultClient(config.Vault, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}
	if client == nil {
		return nil
	}

	return loadAllSecretsFromVault(client, config, logger)
}

// secretSource abstracts the reads needed to apply secrets so they can be tested without a server
type secretSource interface {
	GetStringSecret(path, key string) (string, error)
	GetStringSliceSecret(path, key string) ([]string, error)
}

func loadAllSecretsFromVault(client secretSource, config *Config, logger *errors.Logger) error {
	secrets := config.Vault.Secrets

	if secrets.APIKeys != "" {
		apiKeys, err := client.GetStringSliceSecret(secrets.APIKeys, "keys")
		if err != nil {
			return fmt.Errorf("failed to load API keys from vault: %w", err)
		}
		if len(apiKeys) > 0 {
			config.Server.APIKeys = apiKeys
			logInfo(logger, "API keys loaded from Vault", "count", len(apiKeys))
		} else if logger != nil {
			logger.Warn("No API keys found in Vault", "path", secrets.APIKeys)
		}
	}

	if secrets.GeminiKey != "" {
		geminiKey, err := client.GetStringSecret(secrets.GeminiKey, "api_key")
		if err != nil {
			return fmt.Errorf("failed to load Gemini API key from vault: %w", err)
		}
		applyGeminiKeyToConfig(config, geminiKey)
		logInfo(logger, "Gemini API key loaded from Vault")
	}

	if secrets.Redis != "" {
		password, err := client.GetStringSecret(secrets.Redis, "password")
		if err != nil {
			return fmt.Errorf("failed to load redis password from vault: %w", err)
		}
		config.Store.Redis.Password = password
		logInfo(logger, "Redis password loaded from Vault")
	}

	if secrets.MinIO != "" {
		accessKey, err := client.GetStringSecret(secrets.MinIO, "access_key")
		if err != nil {
			return fmt.Errorf("failed to load minio access key from vault: %w", err)
		}
		secretKey, err := client.GetStringSecret(secrets.MinIO, "secret_key")
		if err != nil {
			return fmt.Errorf("failed to load minio secret key from vault: %w", err)
		}
		config.Blob.MinIO.AccessKey = accessKey
		config.Blob.MinIO.SecretKey = secretKey
		logInfo(logger, "MinIO credentials loaded from Vault")
	}

	return nil
}

// applyGeminiKeyToConfig sets the global key and fills operation keys that are still empty
func applyGeminiKeyToConfig(config *Config, geminiKey string) {
	if geminiKey == "" {
		return
	}
	config.AI.APIKey = geminiKey
	if config.AI.Rewrite.APIKey == "" {
		config.AI.Rewrite.APIKey = geminiKey
	}
}

func logInfo(logger *errors.Logger, msg string, args ...any) {
	if logger != nil {
		logger.Info(msg, args...)
	}
}
