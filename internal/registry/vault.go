package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	vaultapi "github.com/hashicorp/vault/api"
)

const defaultVaultMount = "secret"

// VaultOptions locates a KV v2 secret whose keys are usernames and whose values
// are API tokens.
type VaultOptions struct {
	Address   string
	Token     string
	Namespace string
	Mount     string
	Path      string
	// HTTPClient overrides the client used to reach Vault.
	HTTPClient *http.Client
}

// LoadVault reads the registry from Vault.
func LoadVault(ctx context.Context, opts VaultOptions) (*Registry, error) {
	address := strings.TrimSpace(opts.Address)
	if address == "" {
		return nil, errors.New("vault address is required")
	}
	token := strings.TrimSpace(opts.Token)
	if token == "" {
		return nil, errors.New("vault token is required")
	}
	secretPath := strings.Trim(strings.TrimSpace(opts.Path), "/")
	if secretPath == "" {
		return nil, errors.New("vault registry path is required")
	}
	mount := strings.Trim(strings.TrimSpace(opts.Mount), "/")
	if mount == "" {
		mount = defaultVaultMount
	}

	cfg := vaultapi.DefaultConfig()
	cfg.Address = address
	if opts.HTTPClient != nil {
		cfg.HttpClient = opts.HTTPClient
	} else {
		cfg.HttpClient = &http.Client{Timeout: 30 * time.Second}
	}
	client, err := vaultapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault client setup: %w", err)
	}
	client.SetToken(token)
	if ns := strings.TrimSpace(opts.Namespace); ns != "" {
		client.SetNamespace(ns)
	}

	secret, err := client.KVv2(mount).Get(ctx, secretPath)
	if err != nil {
		return nil, fmt.Errorf("vault read %s/%s: %w", mount, secretPath, err)
	}

	tokens, err := tokensFromValues(secret.Data)
	if err != nil {
		return nil, fmt.Errorf("vault secret %s/%s: %w", mount, secretPath, err)
	}
	return New("vault:"+mount+"/"+secretPath, tokens)
}
