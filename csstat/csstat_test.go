package csstat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew-torda/nefstar/ccd"
)

func newStat(t *testing.T) *Stat {
	t.Helper()
	d, err := ccd.Standard()
	require.NoError(t, err)
	return New(d)
}

var ambigTests = []struct {
	comp, atom string
	want       int
}{
	{"LEU", "HD11", AmbigGeminal},
	{"LEU", "CD2", AmbigGeminal},
	{"LEU", "HB3", AmbigGeminal},
	{"LEU", "HG", AmbigUnique},
	{"ALA", "HB1", AmbigUnique},
	{"ILE", "HG21", AmbigUnique},
	{"ILE", "CG1", AmbigUnique},
	{"ILE", "HG12", AmbigGeminal},
	{"VAL", "HG13", AmbigGeminal},
	{"PHE", "HD1", AmbigAromatic},
	{"PHE", "CE2", AmbigAromatic},
	{"PHE", "HZ", AmbigUnique},
	{"TYR", "HE1", AmbigAromatic},
	{"TRP", "HD1", AmbigUnique},
	{"ARG", "HH12", AmbigGeminal},
	{"ARG", "NH1", AmbigGeminal},
	{"ASN", "HD22", AmbigGeminal},
	{"GLY", "HA2", AmbigGeminal},
	{"LEU", "NOPE", 0},
	{"XXX", "CA", 0},
}

func TestMaxAmbigCode(t *testing.T) {
	s := newStat(t)
	for _, tt := range ambigTests {
		assert.Equal(t, tt.want, s.MaxAmbigCode(tt.comp, tt.atom), tt.comp+" "+tt.atom)
	}
}

func TestGeminal(t *testing.T) {
	s := newStat(t)
	assert.Equal(t, "HB3", s.GeminalAtom("LEU", "HB2"))
	assert.Equal(t, "HD22", s.GeminalAtom("LEU", "HD12"))
	assert.Equal(t, "CG1", s.GeminalAtom("VAL", "CG2"))
	assert.Equal(t, "HE2", s.GeminalAtom("TYR", "HE1"))
	assert.Empty(t, s.GeminalAtom("ALA", "HB1"))
}

func TestMethylAromatic(t *testing.T) {
	s := newStat(t)
	assert.Equal(t, []string{"CB", "HB1", "HB2", "HB3"}, s.MethylAtoms("ALA"))
	assert.Equal(t, []string{"HD11", "HD21"}, s.RepMethylProtons("LEU"))
	assert.Contains(t, s.AromaticAtoms("PHE"), "HZ")
	assert.NotContains(t, s.AromaticAtoms("PHE"), "HB2")
	assert.Nil(t, s.MethylAtoms("XXX"))
}

func TestCompType(t *testing.T) {
	s := newStat(t)
	assert.True(t, s.PeptideLike("GLY"))
	assert.False(t, s.PeptideLike("DA"))
	assert.True(t, s.TypeOfCompID("DA").Nucleotide)
	assert.True(t, s.HasCompID("ZN"))
	assert.False(t, s.HasCompID("XXX"))
	assert.Contains(t, s.AllAtoms("GLY"), "HA3")
}
