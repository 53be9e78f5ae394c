package tagmap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories(t *testing.T) {
	fm := FrameByNEF("nef_chemical_shift_list")
	require.NotNil(t, fm)
	assert.Equal(t, "assigned_chemical_shifts", fm.STAR)
	assert.Same(t, fm, FrameBySTAR("Assigned_Chemical_Shifts"))
	assert.Nil(t, FrameByNEF("nef_nothing"))

	assert.Same(t, ChemShift, LoopByNEF("nef_chemical_shift"))
	assert.Same(t, Distance, LoopBySTAR("_Gen_dist_constraint"))
	assert.Nil(t, LoopBySTAR("_Peak"))
	assert.Len(t, Frames(), 7)
}

func TestTagLookups(t *testing.T) {
	auth, data, ok := StarTag("_nef_chemical_shift.atom_name")
	require.True(t, ok)
	assert.Equal(t, "_Atom_chem_shift.Auth_atom_ID", auth)
	assert.Equal(t, "_Atom_chem_shift.Atom_ID", data)

	auth, data, ok = StarTag("_nef_distance_restraint_list.potential_type")
	require.True(t, ok)
	assert.Empty(t, auth)
	assert.Equal(t, "_Gen_dist_constraint_list.Potential_type", data)

	_, _, ok = StarTag("_nef_chemical_shift.nonsense")
	assert.False(t, ok)

	nef, ok := NefTag("_Atom_chem_shift.Auth_seq_ID")
	require.True(t, ok)
	assert.Equal(t, "_nef_chemical_shift.sequence_code", nef)
	nef, ok = NefTag("_Entry.Generated_date")
	require.True(t, ok)
	assert.Equal(t, "_nef_nmr_meta_data.creation_date", nef)
	_, ok = NefTag("_Atom_chem_shift.Ambiguity_code")
	assert.False(t, ok)
}

func TestStarTagOrder(t *testing.T) {
	got := ChemShift.StarTags([]string{"value", "atom_name", "chain_code", "sequence_code", "residue_name"})
	want := []string{
		"Entity_assembly_ID", "Comp_index_ID", "Comp_ID", "Atom_ID", "Val",
		"Auth_asym_ID", "Auth_seq_ID", "Auth_comp_ID", "Auth_atom_ID",
		"ID", "Ambiguity_code", "Details", "Assigned_chem_shift_list_ID", "Entry_ID",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("chemical shift tags (-want +got):\n%s", diff)
	}

	// author tags of a 16 dimensional peak still follow every data tag
	var nefPeak []string
	for _, tg := range Peak.Tags {
		nefPeak = append(nefPeak, tg.NEF)
	}
	star := Peak.StarTags(nefPeak)
	last := 0
	for i, s := range star {
		if s == "Atom_ID_16" {
			last = i
		}
	}
	for i, s := range star {
		if s == "Auth_asym_ID_1" {
			assert.Greater(t, i, last)
		}
	}
}

func TestNefTagOrder(t *testing.T) {
	got := Sequence.NefTags([]string{"Comp_ID", "Auth_seq_ID", "Entity_assembly_ID", "Comp_index_ID",
		"NEF_index", "Assembly_ID", "Entry_ID"})
	assert.Equal(t, []string{"index", "chain_code", "sequence_code", "residue_name"}, got)
}

func TestValues(t *testing.T) {
	pt, ok := DistanceList.ByNEF("potential_type")
	require.True(t, ok)
	assert.Equal(t, "unknown", pt.ToStar("undefined"))
	assert.Equal(t, "undefined", pt.ToNef("unknown"))
	assert.Equal(t, "parabolic", pt.ToStar("parabolic"))

	fold, ok := SpectrumDim.ByData("Under_sampling_type")
	require.True(t, ok)
	assert.Equal(t, "mirror", fold.ToNef("folded"))
}
