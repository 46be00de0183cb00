package secrets

import (
	"fmt"
	"os"
)

// EnvProvider resolves "env:" references by reading environment variables.
type EnvProvider struct {
	lookup func(string) (string, bool)
}

func NewEnvProvider() *EnvProvider {
	return &EnvProvider{lookup: os.LookupEnv}
}

// Fetch reads the named environment variable.
func (p *EnvProvider) Fetch(name string) (string, error) {
	val, ok := p.lookup(name)
	if !ok {
		return "", fmt.Errorf("environment variable %q not set", name)
	}
	return val, nil
}
