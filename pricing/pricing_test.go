package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/conserv-tt/conserv-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,090.00", 1090.00, true},
		{"$350", 350, true},
		{"TTD 95", 95, true},
		{"390*1.308", 510.12, true},
		{"  42.5 ", 42.5, true},
		{"", 0, false},
		{"n/a", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePrice(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 0.01)
			}
		})
	}
}

func TestParseLength(t *testing.T) {
	v, u, ok := ParseLength("REBAR 1/2 20FT")
	require.True(t, ok)
	assert.Equal(t, 20.0, v)
	assert.Equal(t, "ft", u)

	v, u, ok = ParseLength("PURLIN 6 M")
	require.True(t, ok)
	assert.Equal(t, 6.0, v)
	assert.Equal(t, "m", u)

	v, u, ok = ParseLength("Z PURLIN 2x4x20 1.2")
	require.True(t, ok)
	assert.Equal(t, 20.0, v)
	assert.Equal(t, "ft", u)

	_, _, ok = ParseLength("CEMENT BAG")
	assert.False(t, ok)
}

func TestSteelSizeAndGrade(t *testing.T) {
	assert.Equal(t, "1/2", SteelSize("REBAR 1/2 CORR 19FT"))
	assert.Equal(t, "3/8", SteelSize("10MM DEFORMED BAR"))
	assert.Equal(t, "", SteelSize("Z PURLIN"))

	assert.Equal(t, "corrugated", SteelGrade("DEFORMED BAR"))
	assert.Equal(t, "mild", SteelGrade("MILD STEEL ROD"))
	assert.Equal(t, "corrugated", SteelGrade("REBAR 1/2"))
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAggregates(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "agg.csv", "key,price\nsand_m3,250\ngravel_m3,\"1,090.00\"\n,30\n")

	prices, err := LoadAggregates(path)
	require.NoError(t, err)
	assert.Equal(t, 250.0, prices["sand_m3"])
	assert.Equal(t, 1090.0, prices["gravel_m3"])
	assert.Len(t, prices, 2)
}

func TestLoadAggregates_MissingFileIsEmpty(t *testing.T) {
	prices, err := LoadAggregates(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)
	assert.Empty(t, prices)
}

func TestLoadSteel(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "steel.csv",
		"Item Name,Selling\n"+
			"REBAR 1/2 CORRUGATED 19FT,55\n"+
			"REBAR 1/2 CORRUGATED 19FT,52\n"+
			"MILD STEEL ROD 3/8 20FT,30\n"+
			"Z PURLIN 2x4x20,120\n")

	prices, err := LoadSteel(path)
	require.NoError(t, err)

	// Duplicate listing keeps the cheaper per-meter price.
	assert.InDelta(t, 52/(19*0.3048), prices["rebar_corr_1_2_m"], 0.001)
	assert.InDelta(t, 30/(20*0.3048), prices["rebar_mild_3_8_m"], 0.001)
	assert.InDelta(t, 120/(20*0.3048), prices["purlin_z_m"], 0.001)
}

func TestLoadSteel_DefaultsToNineteenFootStick(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "steel.csv", "name,price\nREBAR 5/8 CORR,100\n")

	prices, err := LoadSteel(path)
	require.NoError(t, err)
	assert.InDelta(t, 100/(19*0.3048), prices["rebar_corr_5_8_m"], 0.001)
}

func TestLoadBuilding(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "building.csv",
		"Item Name,Selling\n"+
			"CEMENT PREMIUM 42.5KG,62\n"+
			"CEMENT ECO 42.5KG,55\n"+
			"CONCRETE BLOCK 6X8X16,8.5\n"+
			"CLAY BLOCK 4X8X16,6\n"+
			"MESH A142 SHEET,310\n"+
			"TIE WIRE ROLL,45\n"+
			"EMULSION PAINT 1 GAL,180\n")

	prices, err := LoadBuilding(path, "")
	require.NoError(t, err)
	assert.Equal(t, 62.0, prices["cement_bag_premium"])
	assert.Equal(t, 55.0, prices["cement_bag_eco"])
	assert.Equal(t, 8.5, prices["block_6in"])
	assert.Equal(t, 6.0, prices["block_clay_4in"])
	assert.Equal(t, 310.0, prices["mesh_A142_sheet"])
	assert.Equal(t, 45.0, prices["tie_wire_kg"])
	assert.Equal(t, 180.0, prices["paint_gal"])
}

func TestLoadBuilding_CementGradePreference(t *testing.T) {
	dir := t.TempDir()
	csv := "Item Name,Selling\nCEMENT ECO 42.5KG,55\nCEMENT PREMIUM 42.5KG,62\n"

	prices, err := LoadBuilding(writeCSV(t, dir, "a.csv", csv), "premium")
	require.NoError(t, err)
	assert.Equal(t, 62.0, prices["cement_bag"])

	prices, err = LoadBuilding(writeCSV(t, dir, "b.csv", csv), "eco")
	require.NoError(t, err)
	assert.Equal(t, 55.0, prices["cement_bag"])
}

func TestMerge_KeepsLowest(t *testing.T) {
	merged := Merge(
		PriceTable{"sand_m3": 250, "cement_bag": 60},
		PriceTable{"sand_m3": 240, "gravel_m3": 300},
	)
	assert.Equal(t, 240.0, merged["sand_m3"])
	assert.Equal(t, 60.0, merged["cement_bag"])
	assert.Equal(t, 300.0, merged["gravel_m3"])
}

func TestPrettyName(t *testing.T) {
	assert.Equal(t, "sand (m³)", PrettyName("sand_m3"))
	assert.Equal(t, "cement (bag)", PrettyName("cement_bag"))
	assert.Equal(t, "rebar corr 1 2 (m)", PrettyName("rebar_corr_1_2_m"))
	assert.Equal(t, "mesh A142 (sheet)", PrettyName("mesh_A142_sheet"))
}

func TestPriceBOM(t *testing.T) {
	prices := PriceTable{"sand_m3": 250, "cement_bag_eco": 55}
	lines := []types.BOMLine{
		{Key: "sand_m3", Qty: 2, Unit: "m3"},
		{Key: "cement_bag", Qty: 10, Unit: "bag"},  // resolves via eco fallback
		{Key: "tie_wire_kg", Qty: 3, Unit: "kg"},   // allowed but unpriced
		{Key: "unicorn_dust", Qty: 1, Unit: "bag"}, // not an allowed key
	}

	est := PriceBOM(lines, prices)

	require.Len(t, est.Lines, 3)
	assert.Equal(t, "sand (m³)", est.Lines[0].Name)
	assert.Equal(t, 500.0, est.Lines[0].Total)
	assert.Equal(t, 550.0, est.Lines[1].Total)
	assert.Contains(t, est.Lines[2].Name, "UNPRICED")
	assert.Zero(t, est.Lines[2].UnitPrice)
	assert.Equal(t, 1050.0, est.Total)
}
