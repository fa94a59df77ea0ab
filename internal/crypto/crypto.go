// Package crypto handles security mode 5 (AES-128-CBC with the short
// header IV) for telegrams whose transport layer declares encryption.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"

	"github.com/larsxschneider/wmbusmeters/internal/frame"
)

var (
	ErrKeyRequired = errors.New("encrypted telegram: AES key required (use --key)")
	ErrInvalidKey  = errors.New("encrypted telegram: AES key rejected (bad plaintext)")
)

const securityModeAesCbcIV = 5

// Decrypt replaces the telegram payload with its plaintext when the
// content is encrypted. A payload already starting with 2F2F filler is
// passed through untouched.
func Decrypt(t *frame.Telegram, key []byte) error {
	if !needsDecryption(t) {
		return nil
	}
	if len(key) == 0 {
		return ErrKeyRequired
	}

	prefix := encryptedPrefixLen(t)
	if prefix == 0 {
		return ErrInvalidKey
	}
	if prefix > len(t.Payload) {
		return fmt.Errorf("encrypted section exceeds payload length (%d > %d)", prefix, len(t.Payload))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("invalid AES key: %w", err)
	}
	plaintext := make([]byte, prefix)
	copy(plaintext, t.Payload[:prefix])
	cipher.NewCBCDecrypter(block, shortIV(t)).CryptBlocks(plaintext, plaintext)
	if !looksLikePlaintext(plaintext) {
		return ErrInvalidKey
	}
	plaintext = append(plaintext, t.Payload[prefix:]...)
	if len(plaintext) >= 2 && plaintext[0] == 0x2F && plaintext[1] == 0x2F {
		plaintext = plaintext[2:]
	}
	t.Payload = plaintext
	return nil
}

// shortIV builds the mode 5 initialization vector from the link layer
// address and the repeated access number.
func shortIV(t *frame.Telegram) []byte {
	iv := make([]byte, aes.BlockSize)
	iv[0] = byte(t.Manufacturer)
	iv[1] = byte(t.Manufacturer >> 8)
	copy(iv[2:6], t.MeterID[:])
	iv[6] = t.Version
	iv[7] = t.DeviceType
	for i := 8; i < aes.BlockSize; i++ {
		iv[i] = t.AccessNumber
	}
	return iv
}

// looksLikePlaintext checks that a decrypted block opens with either
// the 2F2F filler or a DIF whose data coding nibble is defined.
func looksLikePlaintext(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	if b[0] == 0x2F {
		return true
	}
	return b[0]&0x0F <= 0x0D
}

func needsDecryption(t *frame.Telegram) bool {
	if len(t.Payload) == 0 {
		return false
	}
	if len(t.Payload) >= 2 && t.Payload[0] == 0x2F && t.Payload[1] == 0x2F {
		return false
	}
	if t.TPL.Present {
		return t.TPL.SecurityMode == securityModeAesCbcIV
	}
	return !looksLikePlaintext(t.Payload)
}

// encryptedPrefixLen returns how many leading payload bytes are
// ciphertext, rounded down to whole AES blocks.
func encryptedPrefixLen(t *frame.Telegram) int {
	n := len(t.Payload)
	if n == 0 {
		return 0
	}
	if t.TPL.Present && t.TPL.EncryptedBlocks > 0 {
		if declared := t.TPL.EncryptedBlocks * aes.BlockSize; declared < n {
			n = declared
		}
	}
	return n - n%aes.BlockSize
}
