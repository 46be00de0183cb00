package core

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// PublicKeyLength is the decoded size of a Solana address.
const PublicKeyLength = 32

var ErrInvalidPublicKey = errors.New("invalid public key")

// ParsePublicKey decodes a base58 address and checks its length. Failures
// wrap ErrInvalidPublicKey.
func ParsePublicKey(raw string) (solana.PublicKey, error) {
	if raw == "" {
		return solana.PublicKey{}, fmt.Errorf("%w: empty", ErrInvalidPublicKey)
	}
	decoded, err := base58.Decode(raw)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w %q: %v", ErrInvalidPublicKey, raw, err)
	}
	if len(decoded) != PublicKeyLength {
		return solana.PublicKey{}, fmt.Errorf("%w %q: decoded to %d bytes, want %d", ErrInvalidPublicKey, raw, len(decoded), PublicKeyLength)
	}
	return solana.PublicKeyFromBytes(decoded), nil
}

// InvalidPublicKeyMessage is the text returned to callers for a rejected
// address. An empty address is shown quoted.
func InvalidPublicKeyMessage(raw string) string {
	if raw == "" {
		return `Invalid public key: ""`
	}
	return "Invalid public key: " + raw
}

// ValidatePublicKey returns either the validated key or a failure result
// ready to be returned to the caller as is.
func ValidatePublicKey(raw string) (solana.PublicKey, *ToolResult) {
	key, err := ParsePublicKey(raw)
	if err != nil {
		return solana.PublicKey{}, NewKindFailure(ErrorKindValidation, InvalidPublicKeyMessage(raw))
	}
	return key, nil
}

// ValidatePublicKeys validates every element in order; the first invalid
// element wins.
func ValidatePublicKeys(raws []string) ([]solana.PublicKey, *ToolResult) {
	out := make([]solana.PublicKey, 0, len(raws))
	for _, raw := range raws {
		key, failure := ValidatePublicKey(raw)
		if failure != nil {
			return nil, failure
		}
		out = append(out, key)
	}
	return out, nil
}
