package schema

var starPotentialTypes = func() []string {
	p := make([]string, len(potentialTypes))
	copy(p, potentialTypes)
	p[len(p)-1] = "unknown"
	return p
}()

var starDistanceOrigins = []string{
	"NOE", "NOE build-up", "NOE not seen", "ROE", "ROE build-up", "hydrogen bond",
	"disulfide bond", "paramagnetic relaxation", "symmetry", "general distance",
	"mutation", "chemical shift perturbation", "undefined",
}

var bondTypes = []string{
	"amide", "covalent", "directional", "disulfide", "diselenide", "ether",
	"hydrogen", "metal coordination", "peptide", "thioether", "oxime",
	"thioester", "phosphoester", "phosphodiester",
}

var bondOrders = []string{"sing", "doub", "trip", "quad", "arom", "poly", "delo", "pi"}

// AmbiguityCodes are the values _Atom_chem_shift.Ambiguity_code may take.
var AmbiguityCodes = []string{"1", "2", "3", "4", "5", "6", "9"}

func init() {
	distLimits := limits("Target_val", "Lower_linear_limit", "Distance_lower_bound_val",
		"Distance_upper_bound_val", "Upper_linear_limit", PositiveFloat, MinIncl(0), false)
	dihLimits := limits("Angle_target_val", "Angle_lower_linear_limit", "Angle_lower_bound_val",
		"Angle_upper_bound_val", "Angle_upper_linear_limit", RangeFloat, Incl(-180, 360), true)
	rdcLimits := limits("RDC_val", "RDC_lower_linear_limit", "RDC_lower_bound",
		"RDC_upper_bound", "RDC_upper_linear_limit", Float, nil, false)

	restraintHead := func(parent string) Items {
		return Items{
			{Name: "Index_ID", Kind: IndexInt, Mandatory: true, AutoIncrement: true},
			{Name: "ID", Kind: PositiveInt, Mandatory: true},
			{Name: "Combination_ID", Kind: PositiveInt},
			{Name: "Weight", Kind: PositiveFloat, Range: MinIncl(0)},
			{Name: parent, Kind: PointerIndex, Mandatory: true, Default: "1"},
		}
	}

	register(starLoops,
		LoopSchema{
			Category: "_Chem_comp_assembly",
			Keys: Items{
				{Name: "Entity_assembly_ID", Kind: PositiveIntAsStr, Mandatory: true, DefaultFrom: SelfDefault},
				{Name: "Comp_index_ID", Kind: Int, Mandatory: true},
				{Name: "Comp_ID", Kind: Str, Mandatory: true, Uppercase: true},
			},
			Data: Items{
				{Name: "NEF_index", Kind: IndexInt, AutoIncrement: true},
				{Name: "Sequence_linking", Kind: Enum, Enum: linking},
				{Name: "Auth_variant_ID", Kind: Str},
				{Name: "Cis_residue", Kind: Bool},
				{Name: "Assembly_ID", Kind: PointerIndex, Default: "1"},
			},
		},
		LoopSchema{
			Category: "_Bond",
			Keys:     restraintKeys(STAR, 2),
			Data: Items{
				{Name: "ID", Kind: IndexInt, Mandatory: true, AutoIncrement: true},
				{Name: "Type", Kind: Enum, Enum: bondTypes, Default: "covalent"},
				{Name: "Value_order", Kind: Enum, Enum: bondOrders, Default: "sing"},
			},
		},
		LoopSchema{
			Category: "_Atom_chem_shift",
			Keys:     atomKeys(STAR, 0, true),
			Data: Items{
				{Name: "ID", Kind: IndexInt, Mandatory: true, AutoIncrement: true},
				{Name: "Val", Kind: Float, Mandatory: true, RemoveBadPattern: true},
				{Name: "Val_err", Kind: PositiveFloat, Range: MinIncl(0)},
				{Name: "Atom_type", Kind: Enum, Enum: Elements, DefaultFrom: "Atom_ID"},
				{Name: "Atom_isotope_number", Kind: EnumInt, Enum: IsotopeNumbers, DefaultFrom: "Atom_type"},
				{Name: "Ambiguity_code", Kind: EnumInt, Enum: AmbiguityCodes},
				{Name: "Assigned_chem_shift_list_ID", Kind: PointerIndex, Mandatory: true, Default: "1"},
			},
		},
		LoopSchema{
			Category: "_Gen_dist_constraint",
			Keys:     restraintKeys(STAR, 2),
			Data: append(append(restraintHead("Gen_dist_constraint_list_ID"), distLimits...),
				Item{Name: "Member_logic_code", Kind: Enum, Enum: []string{"OR", "AND"}}),
		},
		LoopSchema{
			Category: "_Torsion_angle_constraint",
			Keys:     restraintKeys(STAR, 4),
			Data: append(append(restraintHead("Torsion_angle_constraint_list_ID"), dihLimits...),
				Item{Name: "Torsion_angle_name", Kind: Str}),
		},
		LoopSchema{
			Category: "_RDC_constraint",
			Keys:     restraintKeys(STAR, 2),
			Data: append(append(restraintHead("RDC_constraint_list_ID"), rdcLimits...),
				Item{Name: "RDC_val_scale_factor", Kind: Float, EnforceNonZero: true},
				Item{Name: "RDC_distance_dependent", Kind: Bool}),
		},
		LoopSchema{
			Category: "_Spectral_dim",
			Keys:     Items{{Name: "ID", Kind: IndexInt, Mandatory: true}},
			Data: Items{
				{Name: "Sweep_width_units", Kind: Enum, Enum: []string{"ppm", "Hz"}, Default: "ppm"},
				{Name: "Axis_code", Kind: Str, Mandatory: true},
				{Name: "Spectrometer_frequency", Kind: PositiveFloat, Range: MinExcl(0)},
				{Name: "Sweep_width", Kind: PositiveFloat, Range: MinExcl(0)},
				{Name: "Value_first_point", Kind: Float},
				{Name: "Under_sampling_type", Kind: Enum, Enum: []string{"aliased", "folded", "not observed"}},
				{Name: "Absolute_peak_positions", Kind: Bool},
				{Name: "Acquisition", Kind: Bool},
				{Name: "Atom_type", Kind: Enum, Enum: Elements},
				{Name: "Atom_isotope_number", Kind: EnumInt, Enum: IsotopeNumbers, DefaultFrom: "Atom_type"},
			},
		},
		LoopSchema{
			Category: "_Spectral_dim_transfer",
			Keys: Items{
				{Name: "Spectral_dim_ID_1", Kind: PositiveInt, Mandatory: true,
					Group: &Group{NotEqualTo: []string{"Spectral_dim_ID_2"}}},
				{Name: "Spectral_dim_ID_2", Kind: PositiveInt, Mandatory: true},
			},
			Data: Items{
				{Name: "Type", Kind: Enum, Enum: transferTypes, Mandatory: true},
				{Name: "Indirect", Kind: Bool},
			},
		},
		LoopSchema{
			Category: "_Related_entries",
			Keys: Items{
				{Name: "Database_name", Kind: Str, Mandatory: true},
				{Name: "Database_accession_code", Kind: Str, Mandatory: true},
			},
		},
		LoopSchema{
			Category: "_Software_applied_methods",
			Keys: Items{
				{Name: "Software_name", Kind: Str, Mandatory: true},
				{Name: "Script_name", Kind: Str},
			},
			Data: Items{{Name: "Script", Kind: Str}},
		},
		LoopSchema{
			Category: "_Software_applied_history",
			Keys:     Items{{Name: "Run_number", Kind: PositiveInt, Mandatory: true}},
			Data: Items{
				{Name: "Software_name", Kind: Str, Mandatory: true},
				{Name: "Software_version", Kind: Str},
				{Name: "Script_name", Kind: Str},
				{Name: "Script", Kind: Str},
				{Name: "Input_file_name", Kind: Str},
				{Name: "Output_file_name", Kind: Str},
			},
		},
		LoopSchema{
			Category: "_Entity_deleted_atom",
			Keys: Items{
				{Name: "Entity_assembly_ID", Kind: PositiveIntAsStr, Mandatory: true, DefaultFrom: SelfDefault},
				{Name: "Comp_index_ID", Kind: Int, Mandatory: true},
				{Name: "Comp_ID", Kind: Str, Mandatory: true, Uppercase: true},
				{Name: "Atom_ID", Kind: Str, Mandatory: true},
			},
			Data: Items{{Name: "ID", Kind: IndexInt, AutoIncrement: true}},
		},
	)

	frameHead := func(cat string) Items {
		return Items{
			{Name: "Sf_category", Kind: Str, Mandatory: true, Default: cat},
			{Name: "Sf_framecode", Kind: Str, Mandatory: true},
			{Name: "ID", Kind: PositiveInt, Default: "1"},
		}
	}
	restraintList := func(cat string, origins []string) Items {
		return append(frameHead(cat),
			Item{Name: "Potential_type", Kind: Enum, Enum: starPotentialTypes,
				EnumAlt: map[string]string{"undefined": "unknown"}, Default: "unknown"},
			Item{Name: "Constraint_type", Kind: Enum, Enum: origins,
				EnumAlt: map[string]string{"hbond": "hydrogen bond", "disulfide_bond": "disulfide bond"}})
	}

	registerFrames(starFrames,
		FrameSchema{
			Category: "entry_information",
			Prefix:   "_Entry",
			Tags: Items{
				{Name: "Sf_category", Kind: Str, Mandatory: true, Default: "entry_information"},
				{Name: "Sf_framecode", Kind: Str, Mandatory: true},
				{Name: "NMR_STAR_version", Kind: Str, Default: NmrStarVersion},
				{Name: "Source_data_format", Kind: Str},
				{Name: "Source_data_format_version", Kind: Str},
				{Name: "Generated_software_name", Kind: Str},
				{Name: "Generated_software_version", Kind: Str},
				{Name: "Generated_date", Kind: Str},
				{Name: "UUID", Kind: Str},
				{Name: "Related_coordinate_file_name", Kind: Str},
			},
		},
		FrameSchema{
			Category:       "assembly",
			Prefix:         "_Assembly",
			Tags:           frameHead("assembly"),
			MandatoryLoops: []string{"_Chem_comp_assembly"},
		},
		FrameSchema{
			Category:       "assigned_chemical_shifts",
			Prefix:         "_Assigned_chem_shift_list",
			Tags:           frameHead("assigned_chemical_shifts"),
			MandatoryLoops: []string{"_Atom_chem_shift"},
		},
		FrameSchema{
			Category:       "general_distance_constraints",
			Prefix:         "_Gen_dist_constraint_list",
			Tags:           restraintList("general_distance_constraints", starDistanceOrigins),
			MandatoryLoops: []string{"_Gen_dist_constraint"},
		},
		FrameSchema{
			Category:       "torsion_angle_constraints",
			Prefix:         "_Torsion_angle_constraint_list",
			Tags:           restraintList("torsion_angle_constraints", dihedralOrigins),
			MandatoryLoops: []string{"_Torsion_angle_constraint"},
		},
		FrameSchema{
			Category: "RDC_constraints",
			Prefix:   "_RDC_constraint_list",
			Tags: append(restraintList("RDC_constraints", rdcOrigins),
				Item{Name: "Tensor_magnitude", Kind: Float},
				Item{Name: "Tensor_rhombicity", Kind: PositiveFloat, Range: Incl(0, 2.0/3.0)},
				Item{Name: "Tensor_auth_asym_ID", Kind: Str},
				Item{Name: "Tensor_auth_seq_ID", Kind: Int},
				Item{Name: "Tensor_auth_comp_ID", Kind: Str, Uppercase: true}),
			MandatoryLoops: []string{"_RDC_constraint"},
		},
		FrameSchema{
			Category: "spectral_peak_list",
			Prefix:   "_Spectral_peak_list",
			Tags: append(frameHead("spectral_peak_list"),
				Item{Name: "Number_of_spectral_dimensions", Kind: EnumInt, Mandatory: true, Enum: dimensions(), EnforceEnum: true},
				Item{Name: "Assigned_chem_shift_list_label", Kind: Str},
				Item{Name: "Experiment_class", Kind: Str},
				Item{Name: "Experiment_type", Kind: Str}),
			MandatoryLoops: []string{"_Spectral_dim"},
		},
	)
}
