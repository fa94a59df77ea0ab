// Package options carries per-call settings through a context, keeping
// the decoder API free of configuration parameters.
package options

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

type keyContextKey struct{}
type nameContextKey struct{}

// WithSecurityKey stores the AES key inside the context.
func WithSecurityKey(ctx context.Context, key []byte) context.Context {
	if len(key) == 0 {
		return ctx
	}
	buf := make([]byte, len(key))
	copy(buf, key)
	return context.WithValue(ctx, keyContextKey{}, buf)
}

// SecurityKey retrieves the AES key from context if present.
func SecurityKey(ctx context.Context) []byte {
	if key, ok := ctx.Value(keyContextKey{}).([]byte); ok {
		return key
	}
	return nil
}

// WithMeterName stores a human readable meter name inside the context.
func WithMeterName(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, nameContextKey{}, name)
}

// MeterName retrieves the meter name from context if present.
func MeterName(ctx context.Context) string {
	if name, ok := ctx.Value(nameContextKey{}).(string); ok {
		return name
	}
	return ""
}

// ParseKeyHex validates and decodes a 32-hex-digit AES key string.
func ParseKeyHex(input string) ([]byte, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	clean := StripWhitespace(input)
	if len(clean) != 32 {
		return nil, fmt.Errorf("AES key must be 32 hex digits (16 bytes), got %d", len(clean))
	}
	dst := make([]byte, 16)
	if _, err := hex.Decode(dst, []byte(clean)); err != nil {
		return nil, fmt.Errorf("invalid AES key hex: %w", err)
	}
	return dst, nil
}

// StripWhitespace removes every whitespace rune, used on hex input that
// may arrive space separated from capture tools.
func StripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
