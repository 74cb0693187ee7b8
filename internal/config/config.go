package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/normalize"
)

const (
	defaultAPIServer   = "https://api.dnanexus.com"
	defaultHTTPTimeout = 120 * time.Second
	defaultVaultMount  = "secret"

	RegistrySourceFile  = "file"
	RegistrySourceVault = "vault"
)

type Config struct {
	APIServer       string
	HTTPTimeout     time.Duration
	LoginConfPath   string
	LoginHelper     string
	SecurityContext string
	RegistrySource  string
	Vault           VaultConfig
	MetricsTextfile string
}

// VaultConfig locates the registry secret when RegistrySource is vault.
type VaultConfig struct {
	Address   string
	Token     string
	Namespace string
	Mount     string
	Path      string
}

type LoadOptions struct {
	// RequireRegistry fails the load when the selected registry source is not
	// fully configured.
	RequireRegistry bool
}

func Load() (Config, error) {
	return LoadWithOptions(LoadOptions{RequireRegistry: true})
}

func LoadWithOptions(opts LoadOptions) (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, err
		}
	}

	cfg := Config{
		APIServer:       strings.TrimRight(getenvDefault("DX_API_SERVER", defaultAPIServer), "/"),
		HTTPTimeout:     defaultHTTPTimeout,
		LoginConfPath:   strings.TrimSpace(os.Getenv("DX_LOGIN_CONF")),
		LoginHelper:     strings.TrimSpace(os.Getenv("DX_LOGIN_HELPER")),
		SecurityContext: strings.TrimSpace(os.Getenv("DX_SECURITY_CONTEXT")),
		RegistrySource:  normalize.Lower(getenvDefault("REGISTRY_SOURCE", RegistrySourceFile)),
		Vault: VaultConfig{
			Address:   strings.TrimSpace(os.Getenv("VAULT_ADDR")),
			Token:     strings.TrimSpace(os.Getenv("VAULT_TOKEN")),
			Namespace: strings.TrimSpace(os.Getenv("VAULT_NAMESPACE")),
			Mount:     getenvDefault("REGISTRY_VAULT_MOUNT", defaultVaultMount),
			Path:      strings.TrimSpace(os.Getenv("REGISTRY_VAULT_PATH")),
		},
		MetricsTextfile: strings.TrimSpace(os.Getenv("METRICS_TEXTFILE")),
	}

	if v := os.Getenv("DX_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.HTTPTimeout = d
		}
	}

	switch cfg.RegistrySource {
	case RegistrySourceFile:
		if opts.RequireRegistry && cfg.LoginConfPath == "" {
			return cfg, errors.New("DX_LOGIN_CONF is required")
		}
	case RegistrySourceVault:
		if opts.RequireRegistry {
			if cfg.Vault.Address == "" {
				return cfg, errors.New("VAULT_ADDR is required when REGISTRY_SOURCE=vault")
			}
			if cfg.Vault.Path == "" {
				return cfg, errors.New("REGISTRY_VAULT_PATH is required when REGISTRY_SOURCE=vault")
			}
		}
	default:
		return cfg, fmt.Errorf("REGISTRY_SOURCE must be one of: %s, %s", RegistrySourceFile, RegistrySourceVault)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
