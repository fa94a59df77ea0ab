package options

import (
	"bytes"
	"context"
	"testing"
)

func TestParseKeyHex(t *testing.T) {
	key, err := ParseKeyHex("00112233445566778899AABBCCDDEEFF")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(key) != 16 || key[0] != 0x00 || key[15] != 0xFF {
		t.Fatalf("key: %X", key)
	}
}

func TestParseKeyHexTolerantOfSpacing(t *testing.T) {
	key, err := ParseKeyHex(" 0011 2233 4455 6677 8899 AABB CCDD EEFF ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(key) != 16 {
		t.Fatalf("key length: %d", len(key))
	}
}

func TestParseKeyHexEmpty(t *testing.T) {
	key, err := ParseKeyHex("   ")
	if err != nil || key != nil {
		t.Fatalf("empty input must yield no key, got %X err %v", key, err)
	}
}

func TestParseKeyHexWrongLength(t *testing.T) {
	if _, err := ParseKeyHex("0011"); err == nil {
		t.Fatalf("expected length error")
	}
}

func TestParseKeyHexBadDigits(t *testing.T) {
	if _, err := ParseKeyHex("ZZ112233445566778899AABBCCDDEEFF"); err == nil {
		t.Fatalf("expected hex error")
	}
}

func TestSecurityKeyContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	if SecurityKey(ctx) != nil {
		t.Fatalf("empty context must carry no key")
	}
	key := []byte{1, 2, 3, 4}
	ctx = WithSecurityKey(ctx, key)
	got := SecurityKey(ctx)
	if !bytes.Equal(got, key) {
		t.Fatalf("key: %X", got)
	}
	// the stored key is a copy
	key[0] = 9
	if got[0] == 9 {
		t.Fatalf("context key aliases caller slice")
	}
}

func TestMeterNameContextRoundTrip(t *testing.T) {
	ctx := WithMeterName(context.Background(), "Heat")
	if got := MeterName(ctx); got != "Heat" {
		t.Fatalf("name: %q", got)
	}
	if got := MeterName(context.Background()); got != "" {
		t.Fatalf("empty context must carry no name, got %q", got)
	}
}
