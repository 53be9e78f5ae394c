package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoolVocabulary(t *testing.T) {
	for _, s := range []string{"true", "T", "yes", "Y", "1"} {
		b, ok := ParseBool(s)
		assert.True(t, ok && b, s)
	}
	for _, s := range []string{"false", "no", "N", "0"} {
		b, ok := ParseBool(s)
		assert.True(t, ok && !b, s)
	}
	_, ok := ParseBool("maybe")
	assert.False(t, ok)

	assert.Equal(t, "yes", TranslateBool(STAR, "true"))
	assert.Equal(t, "false", TranslateBool(NEF, "no"))
	assert.Equal(t, ".", TranslateBool(STAR, "."))
	assert.Equal(t, "maybe", TranslateBool(NEF, "maybe"))
}

func TestRange(t *testing.T) {
	r := Incl(-180, 360)
	assert.True(t, r.Contains(-180))
	assert.True(t, r.Contains(360))
	assert.False(t, r.Contains(361))
	assert.Equal(t, 540.0, r.Width())

	ex := MinExcl(0)
	assert.False(t, ex.Contains(0))
	assert.True(t, ex.Contains(0.1))
	assert.Zero(t, ex.Width())
}

func TestElementOf(t *testing.T) {
	tests := []struct{ atom, comp, want string }{
		{"HD11", "LEU", "H"},
		{"CA", "ALA", "C"},
		{"CA", "CA", "CA"},
		{"ZN", "ZN", "ZN"},
		{"QD", "PHE", "H"},
		{"MG", "LEU", "H"},
		{"%", "ALA", ""},
		{"", "ALA", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ElementOf(tt.atom, tt.comp), tt.atom+" "+tt.comp)
	}
}

func TestElementFromAxis(t *testing.T) {
	el, iso, ok := ElementFromAxis("15N")
	require.True(t, ok)
	assert.Equal(t, "N", el)
	assert.Equal(t, 15, iso)

	el, iso, ok = ElementFromAxis("H")
	require.True(t, ok)
	assert.Equal(t, "H", el)
	assert.Equal(t, 1, iso)

	_, _, ok = ElementFromAxis("13")
	assert.False(t, ok)
}

func TestLetterToDigit(t *testing.T) {
	d, ok := LetterToDigit("A")
	assert.True(t, ok)
	assert.Equal(t, "1", d)
	d, _ = LetterToDigit("c")
	assert.Equal(t, "3", d)
	_, ok = LetterToDigit("AB")
	assert.False(t, ok)
}

func TestCell(t *testing.T) {
	f := Cell{Kind: Real, F: 0.9, Raw: "0.90"}
	assert.Equal(t, "0.90", f.Text(STAR))
	assert.Equal(t, "0.9", FloatCell(0.9).Text(STAR))
	assert.Equal(t, "yes", BoolCell(true).Text(STAR))
	assert.Equal(t, "true", BoolCell(true).Text(NEF))
	assert.Equal(t, ".", NullCell.Text(NEF))
	assert.True(t, IntCell(2).Equal(FloatCell(2)))
	assert.Equal(t, IntCell(1).Key(), Cell{Kind: Integer, I: 1, Raw: "01"}.Key())
}

func TestLoopLookup(t *testing.T) {
	cs, ok := Loop(NEF, "_nef_chemical_shift")
	require.True(t, ok)
	assert.Equal(t, []string{"chain_code", "sequence_code", "residue_name", "atom_name"}, cs.Keys.Names())
	assert.NotNil(t, cs.Data.Find("isotope_number"))

	peak, ok := Loop(STAR, "_Peak_row_format")
	require.True(t, ok)
	assert.True(t, peak.Data.Find("Position_1").Mandatory)
	assert.False(t, peak.Data.Find("Position_2").Mandatory)
	assert.NotNil(t, peak.Data.Find("Atom_ID_16"))

	two := PeakLoop(NEF, 2)
	assert.True(t, two.Data.Find("position_2").Mandatory)
	assert.Nil(t, two.Data.Find("position_3"))

	_, ok = Loop(NEF, "_nef_nothing")
	assert.False(t, ok)

	fs, ok := Frame(STAR, "general_distance_constraints")
	require.True(t, ok)
	assert.Equal(t, "_Gen_dist_constraint_list", fs.Prefix)
	assert.Equal(t, "unknown", fs.Tags.Find("Potential_type").EnumAlt["undefined"])
}
