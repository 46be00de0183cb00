package secrets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	vaultapi "github.com/hashicorp/vault/api"
	approle "github.com/hashicorp/vault/api/auth/approle"

	"github.com/dcSpark/mcp-server-helius/internal/config"
)

const vaultRequestTimeout = 10 * time.Second

// VaultProvider fetches secrets from HashiCorp Vault.
type VaultProvider struct {
	client *vaultapi.Client
}

// NewVaultProvider creates a Vault provider and authenticates using the given config.
func NewVaultProvider(ctx context.Context, cfg config.VaultConfig) (*VaultProvider, error) {
	vaultCfg := vaultapi.DefaultConfig()
	vaultCfg.Address = cfg.Address
	vaultCfg.Timeout = vaultRequestTimeout

	client, err := vaultapi.NewClient(vaultCfg)
	if err != nil {
		return nil, fmt.Errorf("creating vault client: %w", err)
	}

	if err := authenticate(ctx, client, cfg.Auth); err != nil {
		return nil, fmt.Errorf("vault authentication: %w", err)
	}

	return &VaultProvider{client: client}, nil
}

func authenticate(ctx context.Context, client *vaultapi.Client, auth config.AuthConfig) error {
	switch auth.Method {
	case "", "token":
		// The client picks up VAULT_TOKEN on its own.
		if client.Token() == "" {
			return fmt.Errorf("VAULT_TOKEN environment variable not set")
		}
		return nil

	case "approle":
		roleID, err := os.ReadFile(auth.RoleIDPath)
		if err != nil {
			return fmt.Errorf("reading role_id: %w", err)
		}
		secretID, err := os.ReadFile(auth.SecretIDPath)
		if err != nil {
			return fmt.Errorf("reading secret_id: %w", err)
		}

		appRoleAuth, err := approle.NewAppRoleAuth(
			strings.TrimSpace(string(roleID)),
			&approle.SecretID{FromString: strings.TrimSpace(string(secretID))},
		)
		if err != nil {
			return fmt.Errorf("creating approle auth: %w", err)
		}

		if _, err := client.Auth().Login(ctx, appRoleAuth); err != nil {
			return fmt.Errorf("approle login: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unsupported auth method: %q", auth.Method)
	}
}

// Fetch resolves a reference like "secret/data/helius#api_key".
// The part before # is the Vault path, the part after is the field key.
func (p *VaultProvider) Fetch(reference string) (string, error) {
	parts := strings.SplitN(reference, "#", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("invalid vault reference %q: expected path#field", reference)
	}
	path, field := parts[0], parts[1]

	ctx, cancel := context.WithTimeout(context.Background(), vaultRequestTimeout)
	defer cancel()
	secret, err := p.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return "", fmt.Errorf("reading vault path %q: %w", path, err)
	}
	if secret == nil {
		return "", fmt.Errorf("no secret found at vault path %q", path)
	}

	// KV v2 wraps data in a "data" key
	data := secret.Data
	if inner, ok := data["data"].(map[string]interface{}); ok {
		data = inner
	}

	val, ok := data[field]
	if !ok {
		return "", fmt.Errorf("field %q not found at vault path %q", field, path)
	}
	return fmt.Sprintf("%v", val), nil
}

// StartRenewal keeps the Vault token alive until ctx is done.
func (p *VaultProvider) StartRenewal(ctx context.Context, logger *slog.Logger) {
	go func() {
		watcher, err := p.client.NewLifetimeWatcher(&vaultapi.LifetimeWatcherInput{
			Secret: &vaultapi.Secret{
				Auth: &vaultapi.SecretAuth{
					ClientToken:   p.client.Token(),
					Renewable:     true,
					LeaseDuration: 3600,
				},
			},
		})
		if err != nil {
			logger.Warn("vault token renewal not started", "err", err)
			return
		}

		go watcher.Start()
		defer watcher.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err := <-watcher.DoneCh():
				if err != nil {
					logger.Warn("vault token renewal stopped", "err", err)
				}
				return
			case <-watcher.RenewCh():
				logger.Debug("vault token renewed")
			}
		}
	}()
}

// Providers returns the provider set for cfg. The vault provider is only
// present when cfg carries a vault section.
func Providers(ctx context.Context, cfg *config.Config) (map[string]Provider, *VaultProvider, error) {
	providers := map[string]Provider{"env": NewEnvProvider()}
	if cfg == nil || cfg.Vault == nil {
		return providers, nil, nil
	}
	vault, err := NewVaultProvider(ctx, *cfg.Vault)
	if err != nil {
		return nil, nil, err
	}
	providers["vault"] = vault
	return providers, vault, nil
}

// ResolveConfig replaces secret references in the secret-valued settings of
// cfg with their resolved values.
func ResolveConfig(cfg *config.Config, providers map[string]Provider) error {
	for _, field := range []*string{
		&cfg.Helius.APIKey,
		&cfg.Helius.RPCURL,
		&cfg.HTTP.AuthJWTSecret,
		&cfg.Audit.DatabaseURL,
	} {
		val, err := ResolveValue(*field, providers)
		if err != nil {
			return err
		}
		*field = val
	}
	return nil
}
