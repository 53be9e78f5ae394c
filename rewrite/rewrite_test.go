package rewrite

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew-torda/nefstar/atomname"
	"github.com/andrew-torda/nefstar/ccd"
	"github.com/andrew-torda/nefstar/chain"
	"github.com/andrew-torda/nefstar/csstat"
	"github.com/andrew-torda/nefstar/star"
	"github.com/andrew-torda/nefstar/tagmap"
	"github.com/andrew-torda/nefstar/validate"
)

func loop(t *testing.T, category, tags string, rows ...string) *star.Loop {
	t.Helper()
	lp := star.NewLoop(category)
	require.NoError(t, lp.AddTag(strings.Fields(tags)...))
	for _, r := range rows {
		require.NoError(t, lp.AddData(strings.Fields(r)))
	}
	return lp
}

func engine(t *testing.T) *atomname.Engine {
	t.Helper()
	d, err := ccd.Standard()
	require.NoError(t, err)
	return atomname.New(csstat.New(d))
}

func nefSeq(t *testing.T) *star.Loop {
	return loop(t, "_nef_sequence", "index chain_code sequence_code residue_name linking residue_variant cis_peptide",
		"1 A 1 MET start . false",
		"2 A 2 ALA middle . false",
		"3 A 3 GLY middle . false",
		"4 A 4 SER middle . false",
		"5 A 5 LEU middle . false",
		"6 A 6 VAL middle . false",
		"7 A 7 ALA middle . false",
		"8 A 8 GLY middle . false",
		"9 A 9 CYS middle . false",
		"10 A 10 VAL end . false",
		"11 B 1 SER start . false",
		"12 B 2 CYS end -HG true",
	)
}

func nefContext(t *testing.T, opts Options) *Context {
	t.Helper()
	inv, err := chain.FromLoop(nefSeq(t), "chain_code", "sequence_code", "residue_name")
	require.NoError(t, err)
	return NewContext(engine(t), chain.NefToStar(inv, chain.Options{}), opts)
}

// starContext goes through the sequence rewriter to get the STAR
// assembly and a context for translating back.
func starContext(t *testing.T) (c *Context, seq, deleted *star.Loop) {
	t.Helper()
	seq, deleted, err := SequenceToStar(nefContext(t, Options{}), nefSeq(t), 1)
	require.NoError(t, err)
	inv, err := chain.FromLoop(seq, "Entity_assembly_ID", "Comp_index_ID", "Comp_ID")
	require.NoError(t, err)
	return NewContext(engine(t), chain.StarToNef(inv, chain.Options{}), Options{}), seq, deleted
}

func rep(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestSequenceToStar(t *testing.T) {
	c := nefContext(t, Options{EntryID: "demo"})
	seq, del, err := SequenceToStar(c, nefSeq(t), 1)
	require.NoError(t, err)
	assert.Equal(t, "_Chem_comp_assembly", seq.Category)
	assert.Equal(t, append(rep("1", 10), "2", "2"), seq.Col("Entity_assembly_ID"))
	assert.Equal(t, append(rep("A", 10), "B", "B"), seq.Col("Auth_asym_ID"))
	assert.Equal(t, "CYS", seq.Value(11, "Comp_ID"))
	assert.Equal(t, "yes", seq.Value(11, "Cis_residue"))
	assert.Equal(t, "no", seq.Value(0, "Cis_residue"))
	assert.Equal(t, "-HG", seq.Value(11, "Auth_variant_ID"))
	assert.Equal(t, rep("1", 12), seq.Col("Assembly_ID"))
	assert.Equal(t, rep("demo", 12), seq.Col("Entry_ID"))

	require.NotNil(t, del)
	assert.Equal(t, tagmap.DeletedAtom, del.Category)
	require.Equal(t, 1, del.Len())
	assert.Equal(t, "2", del.Value(0, "Entity_assembly_ID"))
	assert.Equal(t, "2", del.Value(0, "Comp_index_ID"))
	assert.Equal(t, "HG", del.Value(0, "Atom_ID"))
}

func TestSequenceOffset(t *testing.T) {
	lp := loop(t, "_nef_sequence", "chain_code sequence_code residue_name",
		"A -2 GLY", "A -1 SER", "A 0 ALA")
	inv, err := chain.FromLoop(lp, "chain_code", "sequence_code", "residue_name")
	require.NoError(t, err)
	c := NewContext(engine(t), chain.NefToStar(inv, chain.Options{}), Options{})
	seq, del, err := SequenceToStar(c, lp, 1)
	require.NoError(t, err)
	assert.Nil(t, del)
	assert.Equal(t, []string{"1", "2", "3"}, seq.Col("Comp_index_ID"))
	assert.Equal(t, []string{"-2", "-1", "0"}, seq.Col("Auth_seq_ID"))
}

func TestSequenceToNef(t *testing.T) {
	c, seq, del := starContext(t)
	for n := range seq.Data {
		seq.Set(n, "Auth_variant_ID", ".")
	}
	got, err := SequenceToNef(c, seq, del)
	require.NoError(t, err)
	assert.Equal(t, "_nef_sequence", got.Category)
	assert.Equal(t, []string{"index", "chain_code", "sequence_code", "residue_name",
		"linking", "residue_variant", "cis_peptide"}, got.Tags)
	assert.Equal(t, "B", got.Value(11, "chain_code"))
	assert.Equal(t, "2", got.Value(11, "sequence_code"))
	assert.Equal(t, "-HG", got.Value(11, "residue_variant"))
	assert.Equal(t, ".", got.Value(10, "residue_variant"))
	assert.Equal(t, "true", got.Value(11, "cis_peptide"))
	assert.Equal(t, "12", got.Value(11, "index"))
}

// Scenario: a disulfide between two chains.
func TestBondToStar(t *testing.T) {
	c := nefContext(t, Options{})
	in := loop(t, "_nef_covalent_links",
		"chain_code_1 sequence_code_1 residue_name_1 atom_name_1 chain_code_2 sequence_code_2 residue_name_2 atom_name_2",
		"A 9 CYS SG B 2 CYS SG",
		"A 9 CYS SG B 2 CYS SG")
	got, err := BondToStar(c, in, 1)
	require.NoError(t, err)
	assert.Equal(t, "_Bond", got.Category)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, "disulfide", got.Value(0, "Type"))
	assert.Equal(t, "sing", got.Value(0, "Value_order"))
	assert.Equal(t, "1", got.Value(0, "ID"))
	assert.Equal(t, "1", got.Value(0, "Entity_assembly_ID_1"))
	assert.Equal(t, "2", got.Value(0, "Entity_assembly_ID_2"))
	assert.Equal(t, "9", got.Value(0, "Comp_index_ID_1"))
	assert.Equal(t, "B", got.Value(0, "Auth_asym_ID_2"))
}

func TestBondType(t *testing.T) {
	var tests = []struct {
		a, b bondEnd
		want string
	}{
		{bondEnd{"1", 3, "CYS", "SG"}, bondEnd{"2", 2, "CYS", "SG"}, "disulfide"},
		{bondEnd{"1", 3, "SEC", "SE"}, bondEnd{"1", 7, "SEC", "SE"}, "diselenide"},
		{bondEnd{"1", 3, "CYS", "SG"}, bondEnd{"2", 1, "ZN", "ZN"}, "metal coordination"},
		{bondEnd{"1", 1, "GLY", "C"}, bondEnd{"1", 2, "ALA", "N"}, "peptide"},
		{bondEnd{"1", 2, "ALA", "N"}, bondEnd{"1", 1, "GLY", "C"}, "peptide"},
		{bondEnd{"1", 1, "GLY", "C"}, bondEnd{"1", 3, "ALA", "N"}, "covalent"},
		{bondEnd{"1", 1, "GLY", "C"}, bondEnd{"2", 2, "ALA", "N"}, "covalent"},
		{bondEnd{"1", 1, "CYS", "CA"}, bondEnd{"1", 1, "CYS", "CB"}, "covalent"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bondType(tt.a, tt.b), "%v %v", tt.a, tt.b)
	}
}

func TestBondToNef(t *testing.T) {
	c, _, _ := starContext(t)
	in := loop(t, "_Bond",
		"ID Type Entity_assembly_ID_1 Comp_index_ID_1 Comp_ID_1 Atom_ID_1 Entity_assembly_ID_2 Comp_index_ID_2 Comp_ID_2 Atom_ID_2",
		"1 disulfide 1 9 CYS SG 2 2 CYS SG")
	got, err := BondToNef(c, in)
	require.NoError(t, err)
	assert.Equal(t, "_nef_covalent_links", got.Category)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, []string{"A", "9", "CYS", "SG", "B", "2", "CYS", "SG"}, got.Data[0])
}

var shiftTags = "chain_code sequence_code residue_name atom_name value value_uncertainty"

// Scenario: a methyl group written as one NEF name.
func TestShiftToStarMethyl(t *testing.T) {
	c := nefContext(t, Options{})
	got, err := ShiftToStar(c, loop(t, "_nef_chemical_shift", shiftTags, "A 5 LEU HD1% 0.90 0.02"), 1)
	require.NoError(t, err)
	assert.Equal(t, "_Atom_chem_shift", got.Category)
	assert.Equal(t, []string{"HD11", "HD12", "HD13"}, got.Col("Atom_ID"))
	assert.Equal(t, rep("1", 3), got.Col("Ambiguity_code"))
	assert.Equal(t, rep("0.90", 3), got.Col("Val"))
	assert.Equal(t, rep("0.02", 3), got.Col("Val_err"))
	assert.Equal(t, rep("HD1%", 3), got.Col("Auth_atom_ID"))
	assert.Equal(t, rep("H", 3), got.Col("Atom_type"))
	assert.Equal(t, rep("1", 3), got.Col("Atom_isotope_number"))
	assert.Equal(t, []string{"1", "2", "3"}, got.Col("ID"))
	assert.Equal(t, rep("1", 3), got.Col("Assigned_chem_shift_list_ID"))
}

// Scenario: two methyls not assigned stereospecifically.
func TestShiftToStarStereoMethyls(t *testing.T) {
	c := nefContext(t, Options{})
	in := loop(t, "_nef_chemical_shift", shiftTags,
		"A 5 LEU HDx% 0.85 .",
		"A 5 LEU HDy% 0.92 .")
	got, err := ShiftToStar(c, in, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"HD11", "HD12", "HD13", "HD21", "HD22", "HD23"}, got.Col("Atom_ID"))
	assert.Equal(t, rep("2", 6), got.Col("Ambiguity_code"))
	assert.Equal(t, append(rep("0.85", 3), rep("0.92", 3)...), got.Col("Val"))
	assert.Equal(t, rep("2", 6), got.Col("Assigned_chem_shift_list_ID"))
}

// An atom named twice keeps the first shift, so atoms stay unique.
func TestShiftToStarUnique(t *testing.T) {
	c := nefContext(t, Options{})
	in := loop(t, "_nef_chemical_shift", shiftTags,
		"A 5 LEU HB% 1.70 .",
		"A 5 LEU HB2 1.75 .")
	got, err := ShiftToStar(c, in, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"HB2", "HB3"}, got.Col("Atom_ID"))
	assert.Len(t, validate.GetConflictID(got, []string{"Entity_assembly_ID", "Comp_index_ID", "Atom_ID"}), 0)
	require.Len(t, c.Report.Of(validate.Uniqueness), 1)
	assert.False(t, c.Report.Fatal())
}

// Rows with no residue are never taken as the same atom.
func TestShiftToStarNoResidue(t *testing.T) {
	var tests = []struct {
		name string
		rows []string
		want []string
		dups int
	}{
		{"no chain", []string{". 5 ALA HA 4.0 .", ". 5 ALA HA 4.3 ."}, []string{"4.0", "4.3"}, 0},
		{"no sequence", []string{"A . ALA HA 4.0 .", "A . ALA HA 4.3 ."}, []string{"4.0", "4.3"}, 0},
		{"neither", []string{". . ALA HA 4.0 .", ". . ALA HA 4.3 ."}, []string{"4.0", "4.3"}, 0},
		{"resolved", []string{"A 2 ALA HA 4.0 .", "A 2 ALA HA 4.3 ."}, []string{"4.0"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := nefContext(t, Options{})
			got, err := ShiftToStar(c, loop(t, "_nef_chemical_shift", shiftTags, tt.rows...), 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Col("Val"))
			assert.Len(t, c.Report.Of(validate.Uniqueness), tt.dups)
		})
	}
}

func TestShiftToStarUnmatched(t *testing.T) {
	in := loop(t, "_nef_chemical_shift", shiftTags, "A 5 LEU HZ9 1.0 .")

	_, err := ShiftToStar(nefContext(t, Options{}), in, 1)
	var re *RowError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, validate.Nomenclature, re.Kind)
	assert.Equal(t, 1, re.Row)

	c := nefContext(t, Options{LeaveUnmatched: true})
	got, err := ShiftToStar(c, in, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"HZ9"}, got.Col("Atom_ID"))
	assert.NotEqual(t, ".", got.Value(0, "Details"))
	assert.Equal(t, ".", got.Value(0, "Ambiguity_code"))
	assert.Len(t, c.Report.Of(validate.Nomenclature), 1)
	assert.False(t, c.Report.Fatal())

	_, err = ShiftToStar(c, loop(t, "_nef_chemical_shift", shiftTags, "C 1 ALA HA 4.0 ."), 1)
	require.True(t, errors.As(err, &re))
	assert.Equal(t, validate.Schema, re.Kind)
}

func TestShiftOriginalPDB(t *testing.T) {
	c := nefContext(t, Options{InsertOriginalPDB: true})
	got, err := ShiftToStar(c, loop(t, "_nef_chemical_shift", shiftTags, "B 2 CYS HB% 2.9 ."), 1)
	require.NoError(t, err)
	for _, tag := range tagmap.OriginalPDBTags {
		assert.True(t, got.HasTag(tag), tag)
	}
	assert.Equal(t, rep("B", 2), got.Col("Original_PDB_strand_ID"))
	assert.Equal(t, rep("HB%", 2), got.Col("Original_PDB_atom_name"))
	assert.Equal(t, rep("2", 2), got.Col("Entity_assembly_ID"))
}

func TestShiftToNef(t *testing.T) {
	c, _, _ := starContext(t)
	in := loop(t, "_Atom_chem_shift",
		"ID Entity_assembly_ID Comp_index_ID Comp_ID Atom_ID Val Ambiguity_code Assigned_chem_shift_list_ID",
		"1 1 5 LEU HB2 1.9 2 1",
		"2 1 5 LEU HB3 1.6 2 1",
		"3 1 5 LEU HD11 0.85 2 1",
		"4 1 5 LEU HD12 0.85 2 1",
		"5 1 5 LEU HD13 0.85 2 1",
		"6 1 5 LEU HD21 0.92 2 1",
		"7 1 5 LEU HD22 0.92 2 1",
		"8 1 5 LEU HD23 0.92 2 1",
		"9 1 5 LEU HA 4.3 1 1",
		"10 2 1 SER HA 4.5 1 1",
	)
	got, err := ShiftToNef(c, in)
	require.NoError(t, err)
	assert.Equal(t, "_nef_chemical_shift", got.Category)
	if diff := cmp.Diff([]string{"HBy", "HBx", "HDx%", "HDy%", "HA", "HA"}, got.Col("atom_name")); diff != "" {
		t.Errorf("atom names (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"1.9", "1.6", "0.85", "0.92", "4.3", "4.5"}, got.Col("value"))
	assert.Equal(t, []string{"A", "A", "A", "A", "A", "B"}, got.Col("chain_code"))
	assert.Equal(t, 10, c.AtomMapLen())
	assert.Equal(t, "HDx%", c.NefAtom("1", 5, "LEU", "HD12"))
	assert.Equal(t, "HBx", c.NefAtom("1", 5, "LEU", "HB3"))
	assert.Equal(t, "HD1%", c.NefAtom("1", 6, "LEU", "HD12"))
}

var distTags = "index restraint_id restraint_combination_id chain_code_1 sequence_code_1 residue_name_1 atom_name_1 " +
	"chain_code_2 sequence_code_2 residue_name_2 atom_name_2 weight target_value upper_limit"

// Scenario: a methyl to amide restraint becomes three rows joined by OR.
func TestRestraintToStar(t *testing.T) {
	c := nefContext(t, Options{})
	in := loop(t, "_nef_distance_restraint", distTags,
		"1 1 . A 7 ALA HB% A 8 GLY HN 1.0 3.0 5.0",
		"2 2 . A 5 LEU HA A 6 VAL H 1.0 2.5 4.0")
	got, err := RestraintToStar(c, tagmap.Distance, in, 3)
	require.NoError(t, err)
	assert.Equal(t, "_Gen_dist_constraint", got.Category)
	assert.False(t, got.HasTag("Combination_ID"))
	assert.Equal(t, []string{"1", "2", "3", "4"}, got.Col("Index_ID"))
	assert.Equal(t, []string{"1", "1", "1", "2"}, got.Col("ID"))
	assert.Equal(t, []string{"OR", "OR", "OR", "."}, got.Col("Member_logic_code"))
	assert.Equal(t, []string{"HB1", "HB2", "HB3", "HA"}, got.Col("Atom_ID_1"))
	assert.Equal(t, rep("H", 4), got.Col("Atom_ID_2"))
	assert.Equal(t, []string{"HN", "HN", "HN", "H"}, got.Col("Auth_atom_ID_2"))
	assert.Equal(t, rep("3", 4), got.Col("Gen_dist_constraint_list_ID"))
	assert.Equal(t, "5.0", got.Value(0, "Distance_upper_bound_val"))
}

func TestRestraintCombination(t *testing.T) {
	c := nefContext(t, Options{})
	in := loop(t, "_nef_distance_restraint", distTags,
		"1 1 1 A 2 ALA HA A 3 GLY H 1.0 3.0 5.0",
		"2 1 2 A 2 ALA HA A 4 SER H 1.0 3.0 5.0")
	got, err := RestraintToStar(c, tagmap.Distance, in, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, got.Col("Combination_ID"))
}

// Pairs of an atom with itself are left out.
func TestRestraintSelfPair(t *testing.T) {
	c := nefContext(t, Options{})
	in := loop(t, "_nef_distance_restraint", distTags, "1 1 . A 7 ALA HB% A 7 ALA HB% 1.0 1.8 2.0")
	got, err := RestraintToStar(c, tagmap.Distance, in, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Len())
	for n := range got.Data {
		assert.NotEqual(t, got.Value(n, "Atom_ID_1"), got.Value(n, "Atom_ID_2"))
	}
}

func TestRestraintToNef(t *testing.T) {
	star2, err := RestraintToStar(nefContext(t, Options{}), tagmap.Distance,
		loop(t, "_nef_distance_restraint", distTags,
			"1 1 . A 7 ALA HB% A 8 GLY HN 1.0 3.0 5.0",
			"2 2 . A 5 LEU HA A 6 VAL H 1.0 2.5 4.0"), 1)
	require.NoError(t, err)

	c, _, _ := starContext(t)
	got, err := RestraintToNef(c, tagmap.Distance, star2)
	require.NoError(t, err)
	assert.Equal(t, "_nef_distance_restraint", got.Category)
	assert.False(t, got.HasTag("restraint_combination_id"))
	assert.Equal(t, []string{"1", "2"}, got.Col("index"))
	assert.Equal(t, []string{"1", "2"}, got.Col("restraint_id"))
	assert.Equal(t, []string{"HB%", "HA"}, got.Col("atom_name_1"))
	assert.Equal(t, []string{"H", "H"}, got.Col("atom_name_2"))
	assert.Equal(t, []string{"7", "5"}, got.Col("sequence_code_1"))
	assert.Equal(t, []string{"5.0", "4.0"}, got.Col("upper_limit"))
}

// Names from the shift list carry over to the restraints.
func TestRestraintUsesShiftNames(t *testing.T) {
	c, _, _ := starContext(t)
	_, err := ShiftToNef(c, loop(t, "_Atom_chem_shift",
		"Entity_assembly_ID Comp_index_ID Comp_ID Atom_ID Val Ambiguity_code",
		"1 5 LEU HB2 1.9 2",
		"1 5 LEU HB3 1.6 2"))
	require.NoError(t, err)
	got, err := RestraintToNef(c, tagmap.Distance, loop(t, "_Gen_dist_constraint",
		"Index_ID ID Entity_assembly_ID_1 Comp_index_ID_1 Comp_ID_1 Atom_ID_1 Entity_assembly_ID_2 Comp_index_ID_2 Comp_ID_2 Atom_ID_2",
		"1 1 1 5 LEU HB3 1 6 VAL H"))
	require.NoError(t, err)
	assert.Equal(t, "HBx", got.Value(0, "atom_name_1"))
}

var peakTags = "index peak_id position_1 chain_code_1 sequence_code_1 residue_name_1 atom_name_1 " +
	"position_2 chain_code_2 sequence_code_2 residue_name_2 atom_name_2 height"

func TestPeakToStar(t *testing.T) {
	c := nefContext(t, Options{})
	in := loop(t, "_nef_peak", peakTags,
		"1 1 8.2 A 10 VAL H 120.1 A 10 VAL N 1000",
		"2 2 0.9 A 5 LEU HD1% 21.3 . . . . 500")
	got, err := PeakToStar(c, in, 4)
	require.NoError(t, err)
	assert.Equal(t, "_Peak_row_format", got.Category)
	assert.Equal(t, []string{"1", "2", "3", "4"}, got.Col("Index_ID"))
	assert.Equal(t, []string{"1", "2", "2", "2"}, got.Col("ID"))
	assert.Equal(t, []string{"H", "HD11", "HD12", "HD13"}, got.Col("Atom_ID_1"))
	assert.Equal(t, []string{"N", ".", ".", "."}, got.Col("Atom_ID_2"))
	assert.Equal(t, []string{"120.1", "21.3", "21.3", "21.3"}, got.Col("Position_2"))
	assert.Equal(t, []string{"1000", "500", "500", "500"}, got.Col("Height"))
	assert.Equal(t, rep("4", 4), got.Col("Spectral_peak_list_ID"))

	back, err := PeakToNef(nefBack(t), got)
	require.NoError(t, err)
	require.Equal(t, 2, back.Len())
	assert.Equal(t, []string{"H", "HD1%"}, back.Col("atom_name_1"))
	assert.Equal(t, []string{"N", "."}, back.Col("atom_name_2"))
	assert.Equal(t, []string{"1", "2"}, back.Col("index"))
}

func nefBack(t *testing.T) *Context {
	c, _, _ := starContext(t)
	return c
}

// Scenario: a STAR peak list in the peak tables becomes one flat row.
func TestCanonicalPeakToNef(t *testing.T) {
	sf := star.NewSaveframe("hsqc", "_Spectral_peak_list")
	require.NoError(t, sf.AddLoop(loop(t, "_Peak", "ID", "1")))
	require.NoError(t, sf.AddLoop(loop(t, "_Peak_general_char", "Peak_ID Intensity_val Measurement_method",
		"1 2.5e5 height")))
	require.NoError(t, sf.AddLoop(loop(t, "_Peak_char", "Peak_ID Spectral_dim_ID Chem_shift_val",
		"1 1 8.2", "1 2 120.1")))
	require.NoError(t, sf.AddLoop(loop(t, "_Assigned_peak_chem_shift",
		"Peak_ID Spectral_dim_ID Entity_assembly_ID Comp_index_ID Comp_ID Atom_ID",
		"1 1 1 10 VAL H", "1 2 1 10 VAL N")))
	assert.True(t, HasCanonicalPeaks(sf))

	got, err := CanonicalPeakToNef(nefBack(t), sf, 2)
	require.NoError(t, err)
	assert.Equal(t, "_nef_peak", got.Category)
	require.Equal(t, 1, got.Len())
	want := map[string]string{
		"index": "1", "peak_id": "1", "height": "2.5e5",
		"position_1": "8.2", "position_2": "120.1",
		"chain_code_1": "A", "chain_code_2": "A",
		"sequence_code_1": "10", "sequence_code_2": "10",
		"residue_name_1": "VAL", "residue_name_2": "VAL",
		"atom_name_1": "H", "atom_name_2": "N",
	}
	for tag, v := range want {
		assert.Equal(t, v, got.Value(0, tag), tag)
	}
	assert.False(t, got.HasTag("position_3"))
}

func TestCanonicalPeakSets(t *testing.T) {
	sf := star.NewSaveframe("noesy", "_Spectral_peak_list")
	require.NoError(t, sf.AddLoop(loop(t, "_Peak_char", "Peak_ID Spectral_dim_ID Chem_shift_val",
		"7 1 4.3", "7 2 0.9")))
	require.NoError(t, sf.AddLoop(loop(t, "_Assigned_peak_chem_shift",
		"Peak_ID Spectral_dim_ID Set_ID Entity_assembly_ID Comp_index_ID Comp_ID Atom_ID",
		"7 1 1 1 5 LEU HA", "7 2 1 1 5 LEU HD11",
		"7 1 2 1 2 ALA HA", "7 2 2 1 2 ALA HB1")))
	got, err := CanonicalPeakToNef(nefBack(t), sf, 0)
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, []string{"7", "7"}, got.Col("peak_id"))
	assert.Equal(t, []string{"HA", "HA"}, got.Col("atom_name_1"))
	assert.Equal(t, []string{"HD1%", "HB%"}, got.Col("atom_name_2"))
	assert.Equal(t, []string{"5", "2"}, got.Col("sequence_code_1"))
}

func TestCanonicalPeakDimensions(t *testing.T) {
	sf := star.NewSaveframe("hsqc", "_Spectral_peak_list")
	require.NoError(t, sf.AddLoop(loop(t, "_Peak_char", "Peak_ID Spectral_dim_ID Chem_shift_val",
		"1 1 8.2", "1 2 120.1")))
	for _, ndim := range []int{-1, 17, 20} {
		got, err := CanonicalPeakToNef(nefBack(t), sf, ndim)
		assert.Nil(t, got, "%d", ndim)
		var re *RowError
		require.True(t, errors.As(err, &re), "%d", ndim)
		assert.Equal(t, validate.Schema, re.Kind)
	}
	got, err := CanonicalPeakToNef(nefBack(t), sf, 16)
	require.NoError(t, err)
	assert.True(t, got.HasTag("position_16"))
}

func TestSpectralDim(t *testing.T) {
	c := nefContext(t, Options{})
	in := loop(t, "_nef_spectrum_dimension",
		"dimension_id axis_unit axis_code spectrometer_frequency spectral_width folding is_acquisition",
		"1 ppm 1H 600.13 12.0 circular true",
		"2 ppm 15N 60.8 30.0 none false")
	got, err := LoopToStar(c, in, 2)
	require.NoError(t, err)
	assert.Equal(t, "_Spectral_dim", got.Category)
	assert.Equal(t, []string{"H", "N"}, got.Col("Atom_type"))
	assert.Equal(t, []string{"1", "15"}, got.Col("Atom_isotope_number"))
	assert.Equal(t, []string{"aliased", "not observed"}, got.Col("Under_sampling_type"))
	assert.Equal(t, []string{"yes", "no"}, got.Col("Acquisition"))
	assert.Equal(t, []string{"2", "2"}, got.Col("Spectral_peak_list_ID"))

	back, err := LoopToNef(nefBack(t), got)
	require.NoError(t, err)
	assert.Equal(t, in.Tags, back.Tags)
	assert.Equal(t, in.Data, back.Data)
}

func TestCopy(t *testing.T) {
	c := nefContext(t, Options{EntryID: "demo"})
	in := loop(t, "_nef_related_entries", "database_name database_accession_code", "BMRB 12345")
	got, err := LoopToStar(c, in, 1)
	require.NoError(t, err)
	assert.Equal(t, "_Related_entries", got.Category)
	assert.Equal(t, []string{"Database_name", "Database_accession_code", "Entry_ID"}, got.Tags)
	assert.Equal(t, []string{"BMRB", "12345", "demo"}, got.Data[0])

	got, err = LoopToStar(c, star.NewLoop("_nef_private_stuff"), 1)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
