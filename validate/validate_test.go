package validate

import (
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew-torda/nefstar/schema"
	"github.com/andrew-torda/nefstar/star"
)

func mkLoop(t *testing.T, cat string, tags []string, rows ...string) *star.Loop {
	t.Helper()
	lp := star.NewLoop(cat)
	require.NoError(t, lp.AddTag(tags...))
	for _, r := range rows {
		require.NoError(t, lp.AddData(strings.Fields(r)))
	}
	return lp
}

func mustLoop(t *testing.T, d schema.Dialect, cat string) schema.LoopSchema {
	ls, ok := schema.Loop(d, cat)
	require.True(t, ok, cat)
	return ls
}

var shiftTags = []string{"chain_code", "sequence_code", "residue_name", "atom_name", "value"}

func shifts(t *testing.T) *star.Loop {
	return mkLoop(t, "_nef_chemical_shift", shiftTags,
		"A 1 ala H 8.1",
		"A 1 ALA N 120",
		"A 1 ALA H 8.2",
		"A 2 GLY CA x",
		"A 3 HOH . 4.7")
}

// errorsAt lists row:tag for every fatal issue.
func errorsAt(r *Report) []string {
	var out []string
	for _, is := range r.Issues {
		if is.Fatal() {
			out = append(out, is.Kind.String()+":"+strconv.Itoa(is.Row)+":"+is.Tag)
		}
	}
	return out
}

func TestCheckDataShifts(t *testing.T) {
	lp := shifts(t)
	rows, rep := CheckData(lp, mustLoop(t, schema.NEF, "_nef_chemical_shift"), Policy{})
	require.Len(t, rows, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{rows[0].Index, rows[1].Index, rows[2].Index})

	c := rows[0].Cells
	assert.Equal(t, "ALA", c.Str("residue_name"))
	assert.Equal(t, "H", c.Str("element"))
	assert.Equal(t, 1, c.Get("isotope_number").I)
	assert.Equal(t, 15, rows[1].Cells.Get("isotope_number").I)

	u := rep.Of(Uniqueness)
	require.Len(t, u, 1)
	assert.Equal(t, []int{1, 3}, u[0].Rows)
	assert.Equal(t, []string{"uniqueness:3:chain_code,sequence_code,residue_name,atom_name"}, errorsAt(rep))

	var removed int
	for _, is := range rep.Of(Schema) {
		if is.Warning && strings.Contains(is.Msg, "row removed") {
			removed++
		}
	}
	assert.Equal(t, 1, removed)
	assert.Len(t, lp.Data, 5, "no repair, loop untouched")
	assert.Equal(t, "ala", lp.Value(0, "residue_name"))
}

func TestCheckDataRepair(t *testing.T) {
	lp := shifts(t)
	rows, _ := CheckData(lp, mustLoop(t, schema.NEF, "_nef_chemical_shift"), Policy{Repair: true})
	require.Len(t, lp.Data, 3)
	require.Len(t, rows, 3)
	assert.Equal(t, 2, rows[2].Index)
	assert.Equal(t, "ALA", lp.Value(0, "residue_name"))
	assert.True(t, lp.HasTag("element"))
	assert.Equal(t, []string{"H", "N", "H"}, lp.Col("element"))
	assert.Equal(t, []string{"1", "15", "1"}, lp.Col("isotope_number"))
	assert.Equal(t, "120", lp.Value(1, "value"))
}

func TestMissingMandatoryTag(t *testing.T) {
	lp := mkLoop(t, "_nef_chemical_shift", shiftTags[:4], "A 1 ALA H", "A 1 ALA N")
	_, rep := CheckData(lp, mustLoop(t, schema.NEF, "_nef_chemical_shift"), Policy{})
	var n int
	for _, is := range rep.Issues {
		if is.Tag == "value" {
			n++
			assert.Equal(t, 0, is.Row)
		}
	}
	assert.Equal(t, 1, n)
	assert.True(t, rep.Fatal())
}

var distTags = []string{"index", "restraint_id",
	"chain_code_1", "sequence_code_1", "residue_name_1", "atom_name_1",
	"chain_code_2", "sequence_code_2", "residue_name_2", "atom_name_2",
	"lower_limit", "upper_limit"}

func TestRangeAndGroups(t *testing.T) {
	lp := mkLoop(t, "_nef_distance_restraint", distTags,
		"1 1 A 1 ALA HA A 2 GLY H 3.0 2.0",
		"2 2 A 1 ALA HA A 2 GLY H 1.8 5.0",
		"3 3 A 1 ALA HA A 2 GLY H 1.8 -1")
	rows, rep := CheckData(lp, mustLoop(t, schema.NEF, "_nef_distance_restraint"), Policy{})
	assert.Len(t, rows, 3)
	assert.Equal(t, []string{"schema:1:lower_limit", "schema:1:upper_limit", "schema:3:upper_limit"}, errorsAt(rep))
	assert.Equal(t, "1.0", rows[1].Cells.Get("weight").Raw)
}

func TestCircularShift(t *testing.T) {
	tags := []string{"index", "restraint_id"}
	atoms := ""
	for i, a := range []string{"N", "CA", "C", "O"} {
		for _, s := range []string{"chain_code", "sequence_code", "residue_name", "atom_name"} {
			tags = append(tags, schema.Suffix(s, i+1))
		}
		atoms += " A 1 ALA " + a
	}
	tags = append(tags, "target_value")
	lp := mkLoop(t, "_nef_dihedral_restraint", tags, "1 1"+atoms+" 400", "2 2"+atoms+" -60")
	rows, rep := CheckData(lp, mustLoop(t, schema.NEF, "_nef_dihedral_restraint"), Policy{})
	assert.False(t, rep.Fatal(), rep.Error())
	assert.Equal(t, 40.0, rows[0].Cells.Get("target_value").F)
	assert.Equal(t, -60.0, rows[1].Cells.Get("target_value").F)
}

func TestPositiveIntAsStr(t *testing.T) {
	lp := mkLoop(t, "_Chem_comp_assembly", []string{"Entity_assembly_ID", "Comp_index_ID", "Comp_ID"},
		"B 1 ALA", "0 2 GLY", ". 3 SER")
	rows, rep := CheckData(lp, mustLoop(t, schema.STAR, "_Chem_comp_assembly"), Policy{Dialect: schema.STAR})
	assert.Equal(t, "2", rows[0].Cells.Str("Entity_assembly_ID"))
	assert.Equal(t, []string{"schema:2:Entity_assembly_ID", "schema:3:Entity_assembly_ID"}, errorsAt(rep))
}

var starShiftTags = []string{"ID", "Entity_assembly_ID", "Comp_index_ID", "Comp_ID", "Atom_ID", "Val",
	"Assigned_chem_shift_list_ID"}

func TestIndexAndPointer(t *testing.T) {
	rows := []string{"1 1 1 ALA H 8.1 1", "3 1 1 ALA N 120.3 2"}
	ls := mustLoop(t, schema.STAR, "_Atom_chem_shift")

	lp := mkLoop(t, "_Atom_chem_shift", starShiftTags, rows...)
	_, rep := CheckData(lp, ls, Policy{Dialect: schema.STAR})
	assert.Equal(t, []string{"schema:0:ID", "schema:2:Assigned_chem_shift_list_ID"}, errorsAt(rep))

	lp = mkLoop(t, "_Atom_chem_shift", starShiftTags, rows...)
	_, rep = CheckData(lp, ls, Policy{Dialect: schema.STAR, Parent: 5, Repair: true})
	assert.False(t, rep.Fatal(), rep.Error())
	assert.Equal(t, []string{"1", "2"}, lp.Col("ID"))
	assert.Equal(t, []string{"5", "5"}, lp.Col("Assigned_chem_shift_list_ID"))
	assert.Equal(t, []string{"H", "N"}, lp.Col("Atom_type"))
}

func TestTagPolicy(t *testing.T) {
	lp := mkLoop(t, "_nef_chemical_shift", append(shiftTags, "colour"), "A 1 ALA H 8.1 red")
	ls := mustLoop(t, schema.NEF, "_nef_chemical_shift")
	_, rep := CheckData(lp, ls, Policy{Allowed: []string{}})
	require.Len(t, rep.Issues, 1)
	assert.True(t, rep.Issues[0].Warning)
	_, rep = CheckData(lp, ls, Policy{Disallowed: []string{"colour"}})
	assert.True(t, rep.Fatal())
}

func TestUniquenessLimit(t *testing.T) {
	lp := mkLoop(t, "_nef_chemical_shift", shiftTags, "A 1 ALA H 8.1", "A 1 ALA H 8.2")
	ls := mustLoop(t, schema.NEF, "_nef_chemical_shift")
	_, rep := CheckData(lp, ls, Policy{Limit: 1})
	assert.Empty(t, rep.Of(Uniqueness))
	_, rep = CheckData(lp, ls, Policy{})
	assert.Len(t, rep.Of(Uniqueness), 1)
}

func TestGetConflictIDSet(t *testing.T) {
	lp := mkLoop(t, "_x", []string{"a", "b", "c"},
		"1 x p", "2 y q", "01 x r", "1 x s", "2 y t", "3 z u")
	sets := GetConflictIDSet(lp, []string{"a", "b"})
	if diff := cmp.Diff([][]int{{2, 3}, {4}}, sets); diff != "" {
		t.Error(diff)
	}
	assert.Equal(t, []int{2, 3, 4}, GetConflictID(lp, []string{"a", "b"}))
	assert.Empty(t, GetConflictID(lp, []string{"c"}))
}

func TestGetConflictAtomID(t *testing.T) {
	lp := mkLoop(t, "_nef_distance_restraint", distTags,
		"1 1 A 1 ALA HA A 1 ALA HA . .",
		"2 2 A 1 ALA HA A 01 ALA HB . .",
		"3 3 A 1 ALA HA A 01 ALA HA . .")
	assert.Equal(t, []int{0, 2}, GetConflictAtomID(lp, schema.NEF))
	assert.Nil(t, GetConflictAtomID(mkLoop(t, "_x", []string{"a"}), schema.NEF))
}

func TestGetBadPatternID(t *testing.T) {
	lp := mkLoop(t, "_nef_chemical_shift", shiftTags,
		"A 1 ALA H;rm 8.1", "A 1 ALA N abc", "A 1 ALA CA 52.1", "A 1 ALA H5' 4.1")
	assert.Equal(t, []int{0, 1}, GetBadPatternID(lp, mustLoop(t, schema.NEF, "_nef_chemical_shift")))
}

func TestCheckSfTag(t *testing.T) {
	fs, ok := schema.Frame(schema.STAR, "general_distance_constraints")
	require.True(t, ok)
	sf := star.NewSaveframe("my_restraints", "_Gen_dist_constraint_list")
	sf.SetTag("Sf_category", "general_distance_constraints")
	sf.SetTag("Potential_type", "undefined")
	sf.SetTag("Constraint_type", "hbond")
	row, rep := CheckSfTag(sf, fs, Policy{Dialect: schema.STAR, Repair: true})
	assert.False(t, rep.Fatal(), rep.Error())
	assert.Len(t, rep.Issues, 2)
	assert.Equal(t, "my_restraints", row.Str("Sf_framecode"))
	v, _ := sf.GetTag("Potential_type")
	assert.Equal(t, "unknown", v)
	v, _ = sf.GetTag("Constraint_type")
	assert.Equal(t, "hydrogen bond", v)
	v, _ = sf.GetTag("ID")
	assert.Equal(t, "1", v)

	fs, _ = schema.Frame(schema.NEF, "nef_nmr_meta_data")
	meta := star.NewSaveframe("nef_nmr_meta_data", "_nef_nmr_meta_data")
	meta.SetTag("sf_category", "nef_nmr_meta_data")
	meta.SetTag("format_name", "bogus")
	_, rep = CheckSfTag(meta, fs, Policy{})
	assert.Equal(t, []string{"schema:0:format_name", "schema:0:program_name"}, errorsAt(rep))
}

const entryText = `data_check
save_nef_nmr_meta_data
   _nef_nmr_meta_data.sf_category   nef_nmr_meta_data
   _nef_nmr_meta_data.sf_framecode  nef_nmr_meta_data
   _nef_nmr_meta_data.format_name   nmr_exchange_format
   _nef_nmr_meta_data.format_version 1.1
   _nef_nmr_meta_data.program_name  test
save_
save_nef_molecular_system
   _nef_molecular_system.sf_category   nef_molecular_system
   _nef_molecular_system.sf_framecode  nef_molecular_system
   loop_
      _nef_sequence.index
      _nef_sequence.chain_code
      _nef_sequence.sequence_code
      _nef_sequence.residue_name
      1 A 1 ALA
      2 A 2 GLY
   stop_
save_
`

func TestEntry(t *testing.T) {
	doc, err := star.Parse(entryText)
	require.NoError(t, err)
	rep := Entry(doc.Entry, schema.NEF, Policy{})
	assert.False(t, rep.Fatal(), rep.Error())

	doc.Entry.Frames = doc.Entry.Frames[:1]
	rep = Entry(doc.Entry, schema.NEF, Policy{})
	require.True(t, rep.Fatal())
	assert.Len(t, rep.Of(Structural), 1)
	rep = Entry(doc.Entry, schema.NEF, Policy{AllowEmpty: true})
	assert.False(t, rep.Fatal())
}

func TestRepairFrames(t *testing.T) {
	doc, err := star.Parse(entryText)
	require.NoError(t, err)
	doc.Entry.Frames = doc.Entry.Frames[1:]
	assert.True(t, Entry(doc.Entry, schema.NEF, Policy{}).Fatal())
	rep := Repair(doc.Entry, schema.NEF, Policy{}, false)
	assert.False(t, rep.Fatal(), rep.Error())
	assert.True(t, Repair(doc.Entry, schema.NEF, Policy{}, true).Fatal())
}

func TestReport(t *testing.T) {
	var nilRep *Report
	assert.NoError(t, nilRep.Err())
	assert.Zero(t, nilRep.Len())

	r := &Report{}
	r.Warnf(Schema, "_nef_sequence", "linking", 2, "odd value")
	r.Add(Issue{Kind: Rescue, Msg: "renumbered"})
	assert.NoError(t, r.Err())
	assert.Equal(t, []string{"schema warning: _nef_sequence row 2 linking: odd value", "rescue note: renumbered"}, r.Info())

	r.Addf(Structural, "nef_molecular_system", "", 0, "no %s loop", "_nef_sequence")
	err := r.Err()
	require.Error(t, err)
	assert.Equal(t, "structural error: nef_molecular_system: no _nef_sequence loop", err.Error())
}
