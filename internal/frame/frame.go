// Package frame strips the Wireless M-Bus link and transport headers off
// a raw telegram, leaving the application payload for the record indexer.
package frame

import (
	"encoding/binary"
	"fmt"
)

// Telegram is a raw frame with its addressing and transport header
// decoded. Payload points at the (possibly still encrypted) application
// bytes.
type Telegram struct {
	Raw          []byte
	Length       byte
	Control      byte
	Manufacturer uint16
	MeterID      [4]byte
	Version      byte
	DeviceType   byte
	CI           byte
	AccessNumber byte
	Status       byte
	TPL          TPL
	Payload      []byte
}

// TPL is the short transport layer header following CI 0x7A.
type TPL struct {
	Present         bool
	AccessNumber    byte
	Status          byte
	Config          uint16
	SecurityMode    byte
	EncryptedBlocks int
}

const minFrameLen = 13

// Parse decodes the standard short header of a T1 frame.
func Parse(raw []byte) (Telegram, error) {
	if len(raw) < minFrameLen {
		return Telegram{}, fmt.Errorf("telegram too short: %d bytes", len(raw))
	}
	if int(raw[0])+1 != len(raw) {
		return Telegram{}, fmt.Errorf("declared length %d does not match %d actual bytes", raw[0], len(raw)-1)
	}
	t := Telegram{
		Raw:          raw,
		Length:       raw[0],
		Control:      raw[1],
		Manufacturer: binary.LittleEndian.Uint16(raw[2:4]),
		Version:      raw[8],
		DeviceType:   raw[9],
		CI:           raw[10],
	}
	copy(t.MeterID[:], raw[4:8])

	cursor := 11
	if t.CI == 0x7A && shortTPLPresent(raw, cursor) {
		tpl, consumed, err := parseShortTPL(raw, cursor)
		if err != nil {
			return Telegram{}, err
		}
		t.TPL = tpl
		t.AccessNumber = tpl.AccessNumber
		t.Status = tpl.Status
		cursor += consumed
	}
	t.Payload = raw[cursor:]
	return t, nil
}

// MeterIDString renders the device id in the EN 13757 display format,
// most significant byte first.
func (t Telegram) MeterIDString() string {
	return fmt.Sprintf("%02X%02X%02X%02X", t.MeterID[3], t.MeterID[2], t.MeterID[1], t.MeterID[0])
}

func parseShortTPL(raw []byte, offset int) (TPL, int, error) {
	if len(raw) < offset+4 {
		return TPL{}, 0, fmt.Errorf("short TPL header truncated")
	}
	cfg := binary.LittleEndian.Uint16(raw[offset+2 : offset+4])
	tpl := TPL{
		Present:      true,
		AccessNumber: raw[offset],
		Status:       raw[offset+1],
		Config:       cfg,
		SecurityMode: byte((cfg >> 8) & 0x1F),
	}
	if tpl.SecurityMode == 5 {
		tpl.EncryptedBlocks = int((cfg >> 4) & 0x0F)
	}
	return tpl, 4, nil
}

// shortTPLPresent distinguishes a real TPL header from a payload that
// starts directly with 2F2F filler.
func shortTPLPresent(raw []byte, offset int) bool {
	if len(raw) < offset+4 {
		return false
	}
	return raw[offset] != 0x2F || raw[offset+1] != 0x2F
}
