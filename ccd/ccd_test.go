package ccd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func std(t *testing.T) *Dictionary {
	t.Helper()
	d, err := Standard()
	require.NoError(t, err)
	return d
}

func TestStandard(t *testing.T) {
	d := std(t)
	assert.GreaterOrEqual(t, d.Len(), 30)
	leu, ok := d.Get("leu")
	require.True(t, ok)
	assert.Equal(t, "L", leu.OneLetter)
	assert.True(t, leu.IsPeptide())
	assert.False(t, leu.IsNucleotide())
	want := []string{"N", "CA", "C", "O", "OXT", "CB", "CG", "CD1", "CD2",
		"H", "H2", "HA", "HXT", "HB2", "HB3", "HG", "HD11", "HD12", "HD13", "HD21", "HD22", "HD23"}
	assert.ElementsMatch(t, want, leu.AtomIDs())
	oxt, _ := leu.Atom("OXT")
	assert.True(t, oxt.Leaving)
	assert.Equal(t, "O", oxt.Element)

	_, ok = d.Get("XYZ")
	assert.False(t, ok)
}

func TestBonds(t *testing.T) {
	d := std(t)
	leu, _ := d.Get("LEU")
	assert.Equal(t, []string{"CB", "CD1", "CD2", "HG"}, leu.BondedAtoms("CG"))
	assert.Equal(t, "CD1", leu.Heavy("HD12"))
	assert.Equal(t, "CG", leu.Heavy("CG"))
	assert.Equal(t, []string{"HD11", "HD12", "HD13"}, leu.ProtonsInSameGroup("HD12"))
	assert.Nil(t, leu.ProtonsInSameGroup("CD1"))
	assert.Equal(t, []string{"CD1", "CD2"}, leu.MethylCarbons())
	assert.True(t, leu.IsMethylProton("HD21"))
	assert.False(t, leu.IsMethylProton("HB2"))
	assert.Len(t, leu.Methyls(), 2)
}

func TestAmino(t *testing.T) {
	d := std(t)
	asn, _ := d.Get("ASN")
	assert.Equal(t, []string{"HD21"}, asn.RepAminoProtons())
	assert.Equal(t, []string{"HD22"}, asn.NonRepAminoProtons())
	trp, _ := d.Get("TRP")
	assert.Equal(t, []string{"HE1"}, trp.ImideProtons())
	g, _ := d.Get("G")
	assert.Equal(t, []string{"H1"}, g.ImideProtons())
	assert.True(t, g.IsNucleotide())
}

func TestGreek(t *testing.T) {
	d := std(t)
	met, _ := d.Get("MET")
	assert.Equal(t, []string{"HE1", "HE2", "HE3"}, met.AtomsByGreekLetter("H", 'E'))
	assert.Equal(t, []string{"HA"}, met.AtomsByGreekLetter("H", 'A'))
	gly, _ := d.Get("GLY")
	assert.Equal(t, []string{"HA2", "HA3"}, gly.AtomsByGreekLetter("H", 'A'))
	tyr, _ := d.Get("TYR")
	assert.Equal(t, []string{"HH"}, tyr.AtomsByGreekLetter("H", 'H'))
	// the amide proton is not on the side chain
	assert.NotContains(t, met.AtomsByGreekLetter("H", 'B'), "H")
}

func TestElementOverride(t *testing.T) {
	d := std(t)
	mse, _ := d.Get("MSE")
	assert.Equal(t, "SE", mse.Element("SE"))
	zn, _ := d.Get("ZN")
	assert.Equal(t, []string{"ZN"}, zn.AtomIDs())
	assert.Equal(t, "ZN", zn.Element("ZN"))
}

const extra = `
[component.NH2]
name = "AMINO GROUP"
type = "non-polymer"
paths = ["N"]

[component.NH2.hydrogens]
N = ["HN1", "HN2"]

[component.HYP]
name = "4-HYDROXYPROLINE"
type = "L-peptide linking"
extends = "peptide"
paths = ["CA-CB-CG-CD-N", "CG-OD1"]

[component.HYP.hydrogens]
N = ["H"]
CB = ["HB2", "HB3"]
CG = ["HG"]
CD = ["HD22", "HD23"]
OD1 = ["HD1"]
`

func TestLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "extra.toml")
	require.NoError(t, os.WriteFile(p, []byte(extra), 0o644))
	d, err := Load(p)
	require.NoError(t, err)
	hyp, ok := d.Get("HYP")
	require.True(t, ok)
	assert.True(t, hyp.Has("OD1"))
	assert.True(t, hyp.Has("OXT"))
	nh2, ok := d.Get("NH2")
	require.True(t, ok)
	assert.Equal(t, []string{"HN1", "HN2"}, nh2.ProtonsInSameGroup("HN2"))

	_, ok = std(t).Get("HYP")
	assert.False(t, ok, "standard dictionary must not change")

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[component.X]\nextends = \"nothing\"\n"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}
