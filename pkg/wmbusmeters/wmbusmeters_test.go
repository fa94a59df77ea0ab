package wmbusmeters

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/larsxschneider/wmbusmeters/internal/testutil"
)

func TestDecodeHex(t *testing.T) {
	raw := " |2744_0106 44556677| "
	data, err := decodeHex(raw)
	require.NoError(t, err)
	require.Len(t, data, 8)
}

func TestDecodeHexOddLength(t *testing.T) {
	_, err := decodeHex("ABC")
	require.Error(t, err)
}

func TestAnalyzeUltrimis(t *testing.T) {
	result, err := Analyze(context.Background(), testutil.LoadHex(t, "ultrimis/water.hex"))
	require.NoError(t, err)
	require.Equal(t, "ultrimis", result.Driver)
	require.NotNil(t, result.Telegram)
	require.Equal(t, "77665544", result.Telegram.MeterIDString())
	// no explicit name falls back to the driver name
	require.Equal(t, "ultrimis", result.Fields["name"])
}

func TestAnalyzeUnknownDetection(t *testing.T) {
	raw := testutil.LoadHex(t, "ultrimis/water.hex")
	// flip the version byte so no registered detection matches
	raw = raw[:16] + "02" + raw[18:]
	result, err := Analyze(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, "unknown", result.Driver)
	require.Nil(t, result.Fields)
}

func TestAnalyzeEncryptedWithoutKey(t *testing.T) {
	// mode 5 config word and a ciphertext payload; without a key the
	// result degrades to the addressing fields plus a notice
	raw := "2E4401064455667701167A2E005005" + strings.Repeat("AA", 32)
	result, err := Analyze(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, "ultrimis", result.Driver)
	require.Equal(t, "77665544", result.Fields["id"])
	require.Contains(t, result.Fields["encryption"], "AES key required")
}

func TestAnalyzeBadKeyHex(t *testing.T) {
	_, err := AnalyzeWithOptions(context.Background(), testutil.LoadHex(t, "ultrimis/water.hex"), Options{KeyHex: "ZZ"})
	require.Error(t, err)
}

func TestFieldSet(t *testing.T) {
	r := Result{Fields: map[string]any{"total_m3": 3.122, "status": "OK"}}
	fs := r.FieldSet()

	v, err := fs.Float("total_m3")
	require.NoError(t, err)
	require.InDelta(t, 3.122, v, 1e-9)

	s, err := fs.String("status")
	require.NoError(t, err)
	require.Equal(t, "OK", s)

	_, err = fs.Float("missing")
	require.Error(t, err)
	_, err = fs.Float("status")
	require.Error(t, err)
}
