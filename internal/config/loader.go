package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dcSpark/mcp-server-helius/internal/core"
)

const (
	DefaultTCPListen  = "127.0.0.1:8090"
	DefaultHTTPListen = "127.0.0.1:8080"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads and parses a YAML config file. It does not validate; callers
// usually go through FromEnvironment.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// FromEnvironment builds the effective configuration: the optional file at
// path, then environment overrides, then profile defaults for anything still
// unset. The result is validated.
func FromEnvironment(path string, lookup LookupFunc) (*Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if path == "" {
		path, _ = lookup("HELIUS_MCP_CONFIG")
	}

	cfg := &Config{}
	if strings.TrimSpace(path) != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := ApplyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := ApplyProfile(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables on cfg. Set variables always win
// over file values.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = splitCSV(v)
		}
	}

	str("HELIUS_MCP_PROFILE", &cfg.Profile)
	if v, ok := lookup("TEST_MODE"); ok && strings.EqualFold(strings.TrimSpace(v), "true") {
		cfg.Helius.Mode = ModeMock
	}
	str("HELIUS_API_KEY", &cfg.Helius.APIKey)
	str("HELIUS_NETWORK", &cfg.Helius.Network)
	str("HELIUS_RPC_URL", &cfg.Helius.RPCURL)
	str("JITO_API_URL", &cfg.Helius.JitoURL)
	if v, ok := lookup("HELIUS_RPC_TIMEOUT_SECONDS"); ok && strings.TrimSpace(v) != "" {
		secs, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || secs <= 0 {
			return fmt.Errorf("invalid HELIUS_RPC_TIMEOUT_SECONDS %q", v)
		}
		cfg.Helius.TimeoutSeconds = secs
	}

	list("HELIUS_MCP_TRANSPORTS", &cfg.Server.Transports)
	str("HELIUS_MCP_TCP_LISTEN", &cfg.Server.TCPListen)
	str("HELIUS_MCP_HTTP_LISTEN", &cfg.Server.HTTPListen)

	list("TOOL_ALLOWLIST", &cfg.Tools.Allow)
	list("TOOL_DENYLIST", &cfg.Tools.Deny)

	str("AUDIT_DATABASE_URL", &cfg.Audit.DatabaseURL)

	str("HTTP_AUTH_JWT_SECRET", &cfg.HTTP.AuthJWTSecret)
	if v, ok := lookup("HTTP_RATE_LIMIT_RPS"); ok && strings.TrimSpace(v) != "" {
		rps, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || rps < 0 {
			return fmt.Errorf("invalid HTTP_RATE_LIMIT_RPS %q", v)
		}
		cfg.HTTP.RateLimitRPS = rps
	}
	if v, ok := lookup("HTTP_RATE_LIMIT_BURST"); ok && strings.TrimSpace(v) != "" {
		burst, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || burst < 0 {
			return fmt.Errorf("invalid HTTP_RATE_LIMIT_BURST %q", v)
		}
		cfg.HTTP.RateLimitBurst = burst
	}

	str("LOG_LEVEL", &cfg.Log.Level)

	if addr, ok := lookup("VAULT_ADDR"); ok && strings.TrimSpace(addr) != "" {
		if cfg.Vault == nil {
			cfg.Vault = &VaultConfig{}
		}
		cfg.Vault.Address = strings.TrimSpace(addr)
	}
	if cfg.Vault != nil {
		str("VAULT_AUTH_METHOD", &cfg.Vault.Auth.Method)
		str("VAULT_ROLE_ID_PATH", &cfg.Vault.Auth.RoleIDPath)
		str("VAULT_SECRET_ID_PATH", &cfg.Vault.Auth.SecretIDPath)
	}
	return nil
}

// ApplyProfile fills unset values from the profile's defaults and the
// built-in defaults.
func ApplyProfile(cfg *Config) error {
	profile, err := core.LoadProfile(cfg.Profile)
	if err != nil {
		return err
	}
	cfg.Profile = profile.Name

	if cfg.Helius.Mode == "" {
		cfg.Helius.Mode = ModeLive
	}
	if cfg.Helius.Network == "" {
		cfg.Helius.Network = "mainnet"
	}
	if cfg.Helius.TimeoutSeconds == 0 {
		cfg.Helius.TimeoutSeconds = profile.RPCTimeoutSeconds
	}
	if len(cfg.Server.Transports) == 0 {
		cfg.Server.Transports = []string{TransportStdio}
	}
	if cfg.Server.TCPListen == "" {
		cfg.Server.TCPListen = DefaultTCPListen
	}
	if cfg.Server.HTTPListen == "" {
		cfg.Server.HTTPListen = DefaultHTTPListen
	}
	if len(cfg.Tools.Deny) == 0 {
		cfg.Tools.Deny = splitCSV(profile.ToolDenylist)
	}
	if cfg.HTTP.RateLimitRPS == 0 {
		cfg.HTTP.RateLimitRPS = profile.HTTPRateLimitRPS
	}
	if cfg.HTTP.RateLimitBurst == 0 {
		cfg.HTTP.RateLimitBurst = profile.HTTPRateLimitBurst
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Vault != nil && cfg.Vault.Auth.Method == "" {
		cfg.Vault.Auth.Method = "token"
	}
	return nil
}

// Validate checks that a Config has all required fields and valid values.
func Validate(cfg *Config) error {
	switch cfg.Helius.Mode {
	case ModeLive:
		if cfg.Helius.APIKey == "" && cfg.Helius.RPCURL == "" {
			return fmt.Errorf("live mode requires helius.api_key (HELIUS_API_KEY) or helius.rpc_url (HELIUS_RPC_URL)")
		}
	case ModeMock:
	default:
		return fmt.Errorf("helius.mode must be %q or %q, got %q", ModeLive, ModeMock, cfg.Helius.Mode)
	}
	if cfg.Helius.Network != "mainnet" && cfg.Helius.Network != "devnet" {
		return fmt.Errorf("helius.network must be \"mainnet\" or \"devnet\", got %q", cfg.Helius.Network)
	}
	if cfg.Helius.TimeoutSeconds < 0 {
		return fmt.Errorf("helius.timeout_seconds must not be negative")
	}

	if len(cfg.Server.Transports) == 0 {
		return fmt.Errorf("at least one transport must be enabled")
	}
	seen := make(map[string]bool, len(cfg.Server.Transports))
	for _, t := range cfg.Server.Transports {
		switch t {
		case TransportStdio, TransportTCP, TransportHTTP:
		default:
			return fmt.Errorf("unknown transport %q (valid: stdio, tcp, http)", t)
		}
		if seen[t] {
			return fmt.Errorf("transport %q listed twice", t)
		}
		seen[t] = true
	}

	if err := core.NewPolicyFromLists(cfg.Tools.Allow, cfg.Tools.Deny).Validate(); err != nil {
		return err
	}

	if cfg.HTTP.RateLimitRPS < 0 || cfg.HTTP.RateLimitBurst < 0 {
		return fmt.Errorf("http rate limit must not be negative")
	}
	if cfg.HTTP.RateLimitRPS > 0 && cfg.HTTP.RateLimitBurst == 0 {
		return fmt.Errorf("http.rate_limit_burst is required when http.rate_limit_rps is set")
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", cfg.Log.Level)
	}

	if cfg.Vault != nil {
		if cfg.Vault.Address == "" {
			return fmt.Errorf("vault: missing required field: address")
		}
		switch cfg.Vault.Auth.Method {
		case "", "token":
		case "approle":
			if cfg.Vault.Auth.RoleIDPath == "" || cfg.Vault.Auth.SecretIDPath == "" {
				return fmt.Errorf("vault: approle auth requires role_id_path and secret_id_path")
			}
		default:
			return fmt.Errorf("vault: unsupported auth method %q", cfg.Vault.Auth.Method)
		}
	}
	return nil
}

// HasTransport reports whether name is enabled.
func (c *Config) HasTransport(name string) bool {
	for _, t := range c.Server.Transports {
		if t == name {
			return true
		}
	}
	return false
}

func splitCSV(s string) []string {
	out := make([]string, 0)
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}
	if u.User != nil {
		u.User = url.User(u.User.Username())
	}
	q := u.Query()
	if q.Has("api-key") {
		q.Set("api-key", "redacted")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
