package wmbusmeters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/larsxschneider/wmbusmeters/internal/testutil"
)

func TestC5isfGolden(t *testing.T) {
	fixtures := []string{
		"t1b",
		"t1a1",
		"t1a2",
	}
	for _, name := range fixtures {
		name := name
		t.Run(name, func(t *testing.T) {
			hexStr := testutil.LoadHex(t, "c5isf/"+name+".hex")
			result, err := AnalyzeWithOptions(context.Background(), hexStr, Options{MeterName: "Heat"})
			require.NoError(t, err)
			require.Equal(t, "c5isf", result.Driver)

			var expected map[string]any
			testutil.LoadJSON(t, "c5isf/"+name+".json", &expected)
			require.Equal(t, "", diffMaps(expected, result.Fields))
		})
	}
}

// A device alternating telegram variants accumulates a complete view:
// the instantaneous T1B readings survive a following history telegram.
func TestC5isfVariantAccumulation(t *testing.T) {
	ctx := context.Background()
	d := NewDecoder(Options{MeterName: "Heat"})

	_, err := d.Analyze(ctx, testutil.LoadHex(t, "c5isf/t1b.hex"))
	require.NoError(t, err)
	result, err := d.Analyze(ctx, testutil.LoadHex(t, "c5isf/t1a2.hex"))
	require.NoError(t, err)

	fs := result.FieldSet()
	power, err := fs.Float("power_kw")
	require.NoError(t, err)
	require.InDelta(t, 2.5, power, 1e-9)
	vol, err := fs.Float("prev_2_month_m3")
	require.NoError(t, err)
	require.InDelta(t, 21474836.48, vol, 1e-6)
}

func TestC5isfFlatLine(t *testing.T) {
	ctx := context.Background()
	d := NewDecoder(Options{MeterName: "Heat"})
	result, err := d.Analyze(ctx, testutil.LoadHex(t, "c5isf/t1b.hex"))
	require.NoError(t, err)
	require.Equal(t, "Heat;55445555;26.000000;2.242000;OK;1111-11-11 11:11.11", result.Flat)
}
