package tagmap

import "strconv"

// atom gives the four tags that place an atom, numbered n if n > 0,
// starting at ordinal ord.
func atom(n, ord int) []Tag {
	sfx := ""
	if n > 0 {
		sfx = "_" + strconv.Itoa(n)
	}
	return []Tag{
		{NEF: "chain_code" + sfx, Auth: "Auth_asym_ID" + sfx, Data: "Entity_assembly_ID" + sfx, Ordinal: ord},
		{NEF: "sequence_code" + sfx, Auth: "Auth_seq_ID" + sfx, Data: "Comp_index_ID" + sfx, Ordinal: ord + 1},
		{NEF: "residue_name" + sfx, Auth: "Auth_comp_ID" + sfx, Data: "Comp_ID" + sfx, Ordinal: ord + 2},
		{NEF: "atom_name" + sfx, Auth: "Auth_atom_ID" + sfx, Data: "Atom_ID" + sfx, Ordinal: ord + 3},
	}
}

func atoms(n, ord int) []Tag {
	var tags []Tag
	for i := 1; i <= n; i++ {
		tags = append(tags, atom(i, ord+4*(i-1))...)
	}
	return tags
}

func cat(parts ...[]Tag) []Tag {
	var all []Tag
	for _, p := range parts {
		all = append(all, p...)
	}
	return all
}

// plain builds tags with no author form, numbered from ord.
func plain(ord int, pairs ...string) []Tag {
	tags := make([]Tag, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		tags = append(tags, Tag{NEF: pairs[i], Data: pairs[i+1], Ordinal: ord + i/2})
	}
	return tags
}

func frameHead() []Tag {
	return plain(0, "sf_category", "Sf_category", "sf_framecode", "Sf_framecode")
}

var potentialValues = map[string]string{"undefined": "unknown"}

var originValues = map[string]string{"hbond": "hydrogen bond", "disulfide_bond": "disulfide bond"}

func restraintListTags() []Tag {
	return cat(frameHead(), []Tag{
		{NEF: "potential_type", Data: "Potential_type", Ordinal: 2, Values: potentialValues},
		{NEF: "restraint_origin", Data: "Constraint_type", Ordinal: 3, Values: originValues},
	})
}

func restraintHead() []Tag {
	return plain(0, "index", "Index_ID", "restraint_id", "ID", "restraint_combination_id", "Combination_ID")
}

// CanonicalPeakLoops are the STAR peak tables. They have no NEF loop of
// their own; the peak rewriter joins them into _nef_peak.
var CanonicalPeakLoops = []string{"_Peak", "_Peak_char", "_Peak_general_char", "_Assigned_peak_chem_shift"}

// The loop maps, exported for the rewriters.
var (
	Sequence, Bond, ChemShift                 *LoopMap
	Distance, Dihedral, RDC                   *LoopMap
	Peak, SpectrumDim, SpectrumTransfer       *LoopMap
	RelatedEntries, ProgramScript, RunHistory *LoopMap
)

// The saveframe maps.
var MetaData, Molecular, ShiftList, DistanceList, DihedralList, RDCList, Spectrum *FrameMap

// DeletedAtom is the STAR loop that lists atoms removed by a residue
// variant. It lives in the assembly saveframe.
const DeletedAtom = "_Entity_deleted_atom"

// OriginalPDBTags are the _Atom_chem_shift columns that keep the atom
// as the depositor wrote it.
var OriginalPDBTags = []string{
	"Original_PDB_strand_ID", "Original_PDB_residue_no",
	"Original_PDB_residue_name", "Original_PDB_atom_name",
}

func peakTags() []Tag {
	tags := plain(0, "index", "Index_ID", "peak_id", "ID",
		"volume", "Volume", "volume_uncertainty", "Volume_uncertainty",
		"height", "Height", "height_uncertainty", "Height_uncertainty")
	for i := 1; i <= 16; i++ {
		ord := 10 * (i + 1)
		n := strconv.Itoa(i)
		tags = append(tags,
			Tag{NEF: "position_" + n, Data: "Position_" + n, Ordinal: ord},
			Tag{NEF: "position_uncertainty_" + n, Data: "Position_uncertainty_" + n, Ordinal: ord + 1})
		tags = append(tags, atom(i, ord+2)...)
	}
	return tags
}

func init() {
	Sequence = &LoopMap{
		NEF:  "_nef_sequence",
		STAR: "_Chem_comp_assembly",
		Tags: cat(
			plain(0, "index", "NEF_index"),
			atom(0, 1)[:3],
			plain(4, "linking", "Sequence_linking", "residue_variant", "Auth_variant_ID", "cis_peptide", "Cis_residue"),
		),
		Tail: []string{"Assembly_ID"},
	}
	Bond = &LoopMap{
		NEF:  "_nef_covalent_links",
		STAR: "_Bond",
		Tags: atoms(2, 1),
		Tail: []string{"ID", "Type", "Value_order", "Assembly_ID"},
	}
	ChemShift = &LoopMap{
		NEF:  "_nef_chemical_shift",
		STAR: "_Atom_chem_shift",
		Tags: cat(atom(0, 1), plain(5, "value", "Val", "value_uncertainty", "Val_err",
			"element", "Atom_type", "isotope_number", "Atom_isotope_number")),
		Tail: []string{"ID", "Ambiguity_code", "Details", "Assigned_chem_shift_list_ID"},
	}
	Distance = &LoopMap{
		NEF:  "_nef_distance_restraint",
		STAR: "_Gen_dist_constraint",
		Tags: cat(restraintHead(), atoms(2, 3), plain(11, "weight", "Weight",
			"target_value", "Target_val", "target_value_uncertainty", "Target_val_uncertainty",
			"lower_linear_limit", "Lower_linear_limit", "lower_limit", "Distance_lower_bound_val",
			"upper_limit", "Distance_upper_bound_val", "upper_linear_limit", "Upper_linear_limit")),
		Tail: []string{"Member_logic_code", "Details", "Gen_dist_constraint_list_ID"},
	}
	Dihedral = &LoopMap{
		NEF:  "_nef_dihedral_restraint",
		STAR: "_Torsion_angle_constraint",
		Tags: cat(restraintHead(), atoms(4, 3), plain(19, "weight", "Weight",
			"target_value", "Angle_target_val", "target_value_uncertainty", "Angle_target_val_err",
			"lower_linear_limit", "Angle_lower_linear_limit", "lower_limit", "Angle_lower_bound_val",
			"upper_limit", "Angle_upper_bound_val", "upper_linear_limit", "Angle_upper_linear_limit",
			"name", "Torsion_angle_name")),
		Tail: []string{"Details", "Torsion_angle_constraint_list_ID"},
	}
	RDC = &LoopMap{
		NEF:  "_nef_rdc_restraint",
		STAR: "_RDC_constraint",
		Tags: cat(restraintHead(), atoms(2, 3), plain(11, "weight", "Weight",
			"target_value", "RDC_val", "target_value_uncertainty", "RDC_val_err",
			"lower_linear_limit", "RDC_lower_linear_limit", "lower_limit", "RDC_lower_bound",
			"upper_limit", "RDC_upper_bound", "upper_linear_limit", "RDC_upper_linear_limit",
			"scale", "RDC_val_scale_factor", "distance_dependent", "RDC_distance_dependent")),
		Tail: []string{"Details", "RDC_constraint_list_ID"},
	}
	Peak = &LoopMap{
		NEF:  "_nef_peak",
		STAR: "_Peak_row_format",
		Tags: peakTags(),
		Tail: []string{"Details", "Spectral_peak_list_ID"},
	}
	SpectrumDim = &LoopMap{
		NEF:  "_nef_spectrum_dimension",
		STAR: "_Spectral_dim",
		Tags: []Tag{
			{NEF: "dimension_id", Data: "ID", Ordinal: 0},
			{NEF: "axis_unit", Data: "Sweep_width_units", Ordinal: 1},
			{NEF: "axis_code", Data: "Axis_code", Ordinal: 2},
			{NEF: "spectrometer_frequency", Data: "Spectrometer_frequency", Ordinal: 3},
			{NEF: "spectral_width", Data: "Sweep_width", Ordinal: 4},
			{NEF: "value_first_point", Data: "Value_first_point", Ordinal: 5},
			{NEF: "folding", Data: "Under_sampling_type", Ordinal: 6,
				Values: map[string]string{"circular": "aliased", "mirror": "folded", "none": "not observed"}},
			{NEF: "absolute_peak_positions", Data: "Absolute_peak_positions", Ordinal: 7},
			{NEF: "is_acquisition", Data: "Acquisition", Ordinal: 8},
		},
		Tail: []string{"Atom_type", "Atom_isotope_number", "Spectral_peak_list_ID"},
	}
	SpectrumTransfer = &LoopMap{
		NEF:  "_nef_spectrum_dimension_transfer",
		STAR: "_Spectral_dim_transfer",
		Tags: plain(0, "dimension_1", "Spectral_dim_ID_1", "dimension_2", "Spectral_dim_ID_2",
			"transfer_type", "Type", "is_indirect", "Indirect"),
		Tail: []string{"Spectral_peak_list_ID"},
	}
	RelatedEntries = &LoopMap{
		NEF:  "_nef_related_entries",
		STAR: "_Related_entries",
		Tags: plain(0, "database_name", "Database_name", "database_accession_code", "Database_accession_code"),
	}
	ProgramScript = &LoopMap{
		NEF:  "_nef_program_script",
		STAR: "_Software_applied_methods",
		Tags: plain(0, "program_name", "Software_name", "script_name", "Script_name", "script", "Script"),
	}
	RunHistory = &LoopMap{
		NEF:  "_nef_run_history",
		STAR: "_Software_applied_history",
		Tags: plain(0, "run_number", "Run_number", "program_name", "Software_name",
			"program_version", "Software_version", "script_name", "Script_name", "script", "Script",
			"input_file_name", "Input_file_name", "output_file_name", "Output_file_name"),
	}

	MetaData = &FrameMap{
		NEF: "nef_nmr_meta_data", STAR: "entry_information",
		NEFPrefix: "_nef_nmr_meta_data", STARPrefix: "_Entry",
		Tags: cat(frameHead(), plain(2,
			"format_name", "Source_data_format", "format_version", "Source_data_format_version",
			"program_name", "Generated_software_name", "program_version", "Generated_software_version",
			"creation_date", "Generated_date", "uuid", "UUID",
			"coordinate_file_name", "Related_coordinate_file_name")),
		Loops: []*LoopMap{RelatedEntries, ProgramScript, RunHistory},
	}
	Molecular = &FrameMap{
		NEF: "nef_molecular_system", STAR: "assembly",
		NEFPrefix: "_nef_molecular_system", STARPrefix: "_Assembly",
		Tags:  frameHead(),
		Loops: []*LoopMap{Sequence, Bond},
	}
	ShiftList = &FrameMap{
		NEF: "nef_chemical_shift_list", STAR: "assigned_chemical_shifts",
		NEFPrefix: "_nef_chemical_shift_list", STARPrefix: "_Assigned_chem_shift_list",
		Tags:  frameHead(),
		Loops: []*LoopMap{ChemShift},
	}
	DistanceList = &FrameMap{
		NEF: "nef_distance_restraint_list", STAR: "general_distance_constraints",
		NEFPrefix: "_nef_distance_restraint_list", STARPrefix: "_Gen_dist_constraint_list",
		Tags:  restraintListTags(),
		Loops: []*LoopMap{Distance},
	}
	DihedralList = &FrameMap{
		NEF: "nef_dihedral_restraint_list", STAR: "torsion_angle_constraints",
		NEFPrefix: "_nef_dihedral_restraint_list", STARPrefix: "_Torsion_angle_constraint_list",
		Tags:  restraintListTags(),
		Loops: []*LoopMap{Dihedral},
	}
	RDCList = &FrameMap{
		NEF: "nef_rdc_restraint_list", STAR: "RDC_constraints",
		NEFPrefix: "_nef_rdc_restraint_list", STARPrefix: "_RDC_constraint_list",
		Tags: cat(restraintListTags(), plain(4,
			"tensor_magnitude", "Tensor_magnitude", "tensor_rhombicity", "Tensor_rhombicity",
			"tensor_chain_code", "Tensor_auth_asym_ID", "tensor_sequence_code", "Tensor_auth_seq_ID",
			"tensor_residue_name", "Tensor_auth_comp_ID")),
		Loops: []*LoopMap{RDC},
	}
	Spectrum = &FrameMap{
		NEF: "nef_nmr_spectrum", STAR: "spectral_peak_list",
		NEFPrefix: "_nef_nmr_spectrum", STARPrefix: "_Spectral_peak_list",
		Tags: cat(frameHead(), plain(2,
			"num_dimensions", "Number_of_spectral_dimensions",
			"chemical_shift_list", "Assigned_chem_shift_list_label",
			"experiment_classification", "Experiment_class",
			"experiment_type", "Experiment_type")),
		Loops: []*LoopMap{SpectrumDim, SpectrumTransfer, Peak},
	}

	for _, fm := range []*FrameMap{MetaData, Molecular, ShiftList, DistanceList, DihedralList, RDCList, Spectrum} {
		add(fm)
	}
}
