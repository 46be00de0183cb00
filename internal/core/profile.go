package core

import (
	"fmt"
	"strings"
)

// ProfileDefaults holds environment-specific default configuration values.
// Profiles provide defaults only; explicit config and env vars always override.
type ProfileDefaults struct {
	Name               string
	ToolDenylist       string
	RPCTimeoutSeconds  int
	HTTPRateLimitRPS   float64
	HTTPRateLimitBurst int
}

var profiles = map[string]*ProfileDefaults{
	"dev": {
		Name:               "dev",
		ToolDenylist:       "",
		RPCTimeoutSeconds:  30,
		HTTPRateLimitRPS:   0,
		HTTPRateLimitBurst: 0,
	},
	"staging": {
		Name:               "staging",
		ToolDenylist:       "helius_request_airdrop",
		RPCTimeoutSeconds:  30,
		HTTPRateLimitRPS:   20,
		HTTPRateLimitBurst: 40,
	},
	"prod": {
		Name:               "prod",
		ToolDenylist:       "helius_request_airdrop,helius_send_*,helius_execute_jupiter_swap",
		RPCTimeoutSeconds:  20,
		HTTPRateLimitRPS:   10,
		HTTPRateLimitBurst: 20,
	},
}

// LoadProfile returns profile defaults for the given name.
// Empty name defaults to "dev". Unknown names return an error.
func LoadProfile(name string) (*ProfileDefaults, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		name = "dev"
	}
	p, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q (valid: dev, staging, prod)", name)
	}
	copy := *p
	return &copy, nil
}
