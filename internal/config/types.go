package config

// Config is the helius-mcp.yaml structure after environment overrides.
type Config struct {
	Profile string       `yaml:"profile,omitempty"`
	Helius  HeliusConfig `yaml:"helius"`
	Server  ServerConfig `yaml:"server,omitempty"`
	Tools   ToolsConfig  `yaml:"tools,omitempty"`
	Audit   AuditConfig  `yaml:"audit,omitempty"`
	HTTP    HTTPConfig   `yaml:"http,omitempty"`
	Log     LogConfig    `yaml:"log,omitempty"`
	Vault   *VaultConfig `yaml:"vault,omitempty"`
}

// HeliusConfig selects and configures the remote client.
type HeliusConfig struct {
	// Mode is "live" or "mock".
	Mode    string `yaml:"mode,omitempty"`
	APIKey  string `yaml:"api_key,omitempty"`
	Network string `yaml:"network,omitempty"`
	// RPCURL overrides the endpoint derived from Network and APIKey.
	RPCURL         string `yaml:"rpc_url,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
	JitoURL        string `yaml:"jito_url,omitempty"`
}

type ServerConfig struct {
	Transports []string `yaml:"transports,omitempty"`
	TCPListen  string   `yaml:"tcp_listen,omitempty"`
	HTTPListen string   `yaml:"http_listen,omitempty"`
}

// ToolsConfig holds doublestar globs matched against tool names.
type ToolsConfig struct {
	Allow []string `yaml:"allow,omitempty"`
	Deny  []string `yaml:"deny,omitempty"`
}

type AuditConfig struct {
	DatabaseURL string `yaml:"database_url,omitempty"`
}

type HTTPConfig struct {
	AuthJWTSecret  string  `yaml:"auth_jwt_secret,omitempty"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps,omitempty"`
	RateLimitBurst int     `yaml:"rate_limit_burst,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level,omitempty"`
}

// VaultConfig holds Vault connection and auth settings.
type VaultConfig struct {
	Address string     `yaml:"address"`
	Auth    AuthConfig `yaml:"auth"`
}

type AuthConfig struct {
	Method       string `yaml:"method"`
	RoleIDPath   string `yaml:"role_id_path,omitempty"`
	SecretIDPath string `yaml:"secret_id_path,omitempty"`
}

const (
	ModeLive = "live"
	ModeMock = "mock"

	TransportStdio = "stdio"
	TransportTCP   = "tcp"
	TransportHTTP  = "http"
)

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	out := c
	if out.Helius.APIKey != "" {
		out.Helius.APIKey = "[redacted]"
	}
	if out.HTTP.AuthJWTSecret != "" {
		out.HTTP.AuthJWTSecret = "[redacted]"
	}
	if out.Helius.RPCURL != "" {
		out.Helius.RPCURL = redactURL(out.Helius.RPCURL)
	}
	if out.Audit.DatabaseURL != "" {
		out.Audit.DatabaseURL = redactURL(out.Audit.DatabaseURL)
	}
	return out
}
