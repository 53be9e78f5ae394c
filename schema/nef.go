package schema

import "strconv"

var linking = []string{"start", "middle", "end", "single", "break", "cyclic", "dummy"}

var potentialTypes = []string{
	"log-harmonic", "parabolic", "square-well-parabolic",
	"square-well-parabolic-linear", "upper-bound-parabolic",
	"lower-bound-parabolic", "upper-bound-parabolic-linear",
	"lower-bound-parabolic-linear", "undefined",
}

var distanceOrigins = []string{
	"NOE", "NOE build-up", "NOE not seen", "ROE", "ROE build-up", "hbond",
	"disulfide_bond", "paramagnetic relaxation", "symmetry", "general distance",
	"mutation", "chemical shift perturbation", "undefined",
}

var dihedralOrigins = []string{"J-couplings", "backbone chemical shifts", "undefined"}

var rdcOrigins = []string{"measured", "undefined"}

var transferTypes = []string{
	"onebond", "Jcoupling", "Jmultibond", "relayed", "relayed-alternate", "through-space",
}

// limits is the list of restraint bounds with the order rules that tie
// them to each other.
func limits(target, lowLin, low, up, upLin string, kind Kind, rng *Range, circular bool) Items {
	mk := func(name string, g *Group) Item {
		return Item{Name: name, Kind: kind, Range: rng, Group: g, CircularShift: circular}
	}
	if circular {
		// angles wrap, so the order rules cannot be applied
		return Items{mk(target, nil), mk(lowLin, nil),
			mk(low, &Group{CoexistWith: []string{up}}),
			mk(up, &Group{CoexistWith: []string{low}}), mk(upLin, nil)}
	}
	return Items{
		mk(target, &Group{LargerThan: []string{low, lowLin}, SmallerThan: []string{up, upLin}}),
		mk(lowLin, &Group{SmallerThan: []string{low, up, upLin}}),
		mk(low, &Group{SmallerThan: []string{up, upLin}}),
		mk(up, &Group{LargerThan: []string{low, lowLin}}),
		mk(upLin, &Group{LargerThan: []string{up, low, lowLin}}),
	}
}

func restraintKeys(d Dialect, nAtoms int) Items {
	var keys Items
	for i := 1; i <= nAtoms; i++ {
		keys = append(keys, atomKeys(d, i, true)...)
	}
	return keys
}

func init() {
	distLimits := limits("target_value", "lower_linear_limit", "lower_limit",
		"upper_limit", "upper_linear_limit", PositiveFloat, MinIncl(0), false)
	dihLimits := limits("target_value", "lower_linear_limit", "lower_limit",
		"upper_limit", "upper_linear_limit", RangeFloat, Incl(-180, 360), true)
	rdcLimits := limits("target_value", "lower_linear_limit", "lower_limit",
		"upper_limit", "upper_linear_limit", Float, nil, false)

	restraintHead := func() Items {
		return Items{
			{Name: "index", Kind: IndexInt, Mandatory: true, AutoIncrement: true},
			{Name: "restraint_id", Kind: PositiveInt, Mandatory: true},
			{Name: "restraint_combination_id", Kind: PositiveInt},
			{Name: "weight", Kind: PositiveFloat, Range: MinIncl(0), Default: "1.0"},
		}
	}

	register(nefLoops,
		LoopSchema{
			Category: "_nef_sequence",
			Keys: Items{
				{Name: "chain_code", Kind: Str, Mandatory: true},
				{Name: "sequence_code", Kind: Int, Mandatory: true},
				{Name: "residue_name", Kind: Str, Mandatory: true, Uppercase: true},
			},
			Data: Items{
				{Name: "index", Kind: IndexInt, Mandatory: true, AutoIncrement: true},
				{Name: "linking", Kind: Enum, Enum: linking},
				{Name: "residue_variant", Kind: Str},
				{Name: "cis_peptide", Kind: Bool},
			},
		},
		LoopSchema{
			Category: "_nef_covalent_links",
			Keys:     restraintKeys(NEF, 2),
		},
		LoopSchema{
			Category: "_nef_chemical_shift",
			Keys:     atomKeys(NEF, 0, true),
			Data: Items{
				{Name: "value", Kind: Float, Mandatory: true, RemoveBadPattern: true},
				{Name: "value_uncertainty", Kind: PositiveFloat, Range: MinIncl(0)},
				{Name: "element", Kind: Enum, Enum: Elements, DefaultFrom: "atom_name"},
				{Name: "isotope_number", Kind: EnumInt, Enum: IsotopeNumbers, DefaultFrom: "element"},
			},
		},
		LoopSchema{
			Category: "_nef_distance_restraint",
			Keys:     restraintKeys(NEF, 2),
			Data:     append(restraintHead(), distLimits...),
		},
		LoopSchema{
			Category: "_nef_dihedral_restraint",
			Keys:     restraintKeys(NEF, 4),
			Data: append(append(restraintHead(), dihLimits...),
				Item{Name: "name", Kind: Str}),
		},
		LoopSchema{
			Category: "_nef_rdc_restraint",
			Keys:     restraintKeys(NEF, 2),
			Data: append(append(restraintHead(), rdcLimits...),
				Item{Name: "scale", Kind: Float, EnforceNonZero: true},
				Item{Name: "distance_dependent", Kind: Bool}),
		},
		LoopSchema{
			Category: "_nef_spectrum_dimension",
			Keys:     Items{{Name: "dimension_id", Kind: IndexInt, Mandatory: true}},
			Data: Items{
				{Name: "axis_unit", Kind: Enum, Enum: []string{"ppm", "Hz"}, Default: "ppm"},
				{Name: "axis_code", Kind: Str, Mandatory: true},
				{Name: "spectrometer_frequency", Kind: PositiveFloat, Range: MinExcl(0)},
				{Name: "spectral_width", Kind: PositiveFloat, Range: MinExcl(0)},
				{Name: "value_first_point", Kind: Float},
				{Name: "folding", Kind: Enum, Enum: []string{"circular", "mirror", "none"}},
				{Name: "absolute_peak_positions", Kind: Bool},
				{Name: "is_acquisition", Kind: Bool},
			},
		},
		LoopSchema{
			Category: "_nef_spectrum_dimension_transfer",
			Keys: Items{
				{Name: "dimension_1", Kind: PositiveInt, Mandatory: true,
					Group: &Group{NotEqualTo: []string{"dimension_2"}}},
				{Name: "dimension_2", Kind: PositiveInt, Mandatory: true},
			},
			Data: Items{
				{Name: "transfer_type", Kind: Enum, Enum: transferTypes, Mandatory: true},
				{Name: "is_indirect", Kind: Bool},
			},
		},
		LoopSchema{
			Category: "_nef_related_entries",
			Keys: Items{
				{Name: "database_name", Kind: Str, Mandatory: true},
				{Name: "database_accession_code", Kind: Str, Mandatory: true},
			},
		},
		LoopSchema{
			Category: "_nef_program_script",
			Keys: Items{
				{Name: "program_name", Kind: Str, Mandatory: true},
				{Name: "script_name", Kind: Str},
			},
			Data: Items{{Name: "script", Kind: Str}},
		},
		LoopSchema{
			Category: "_nef_run_history",
			Keys:     Items{{Name: "run_number", Kind: PositiveInt, Mandatory: true}},
			Data: Items{
				{Name: "program_name", Kind: Str, Mandatory: true},
				{Name: "program_version", Kind: Str},
				{Name: "script_name", Kind: Str},
				{Name: "script", Kind: Str},
				{Name: "input_file_name", Kind: Str},
				{Name: "output_file_name", Kind: Str},
			},
		},
	)

	frameHead := func(cat string) Items {
		return Items{
			{Name: "sf_category", Kind: Str, Mandatory: true, Default: cat},
			{Name: "sf_framecode", Kind: Str, Mandatory: true},
		}
	}
	restraintList := func(cat string, origins []string) Items {
		return append(frameHead(cat),
			Item{Name: "potential_type", Kind: Enum, Enum: potentialTypes, Mandatory: true,
				EnumAlt: map[string]string{"unknown": "undefined"}, Default: "undefined"},
			Item{Name: "restraint_origin", Kind: Enum, Enum: origins,
				EnumAlt: map[string]string{"hydrogen bond": "hbond", "disulfide bond": "disulfide_bond"}})
	}

	registerFrames(nefFrames,
		FrameSchema{
			Category: "nef_nmr_meta_data",
			Prefix:   "_nef_nmr_meta_data",
			Tags: append(frameHead("nef_nmr_meta_data"),
				Item{Name: "format_name", Kind: Enum, Enum: []string{NefFormatName},
					Mandatory: true, Default: NefFormatName, EnforceEnum: true},
				Item{Name: "format_version", Kind: Str, Mandatory: true, Default: NefVersion},
				Item{Name: "program_name", Kind: Str, Mandatory: true},
				Item{Name: "program_version", Kind: Str},
				Item{Name: "creation_date", Kind: Str},
				Item{Name: "uuid", Kind: Str},
				Item{Name: "coordinate_file_name", Kind: Str}),
		},
		FrameSchema{
			Category:       "nef_molecular_system",
			Prefix:         "_nef_molecular_system",
			Tags:           frameHead("nef_molecular_system"),
			MandatoryLoops: []string{"_nef_sequence"},
		},
		FrameSchema{
			Category:       "nef_chemical_shift_list",
			Prefix:         "_nef_chemical_shift_list",
			Tags:           frameHead("nef_chemical_shift_list"),
			MandatoryLoops: []string{"_nef_chemical_shift"},
		},
		FrameSchema{
			Category:       "nef_distance_restraint_list",
			Prefix:         "_nef_distance_restraint_list",
			Tags:           restraintList("nef_distance_restraint_list", distanceOrigins),
			MandatoryLoops: []string{"_nef_distance_restraint"},
		},
		FrameSchema{
			Category:       "nef_dihedral_restraint_list",
			Prefix:         "_nef_dihedral_restraint_list",
			Tags:           restraintList("nef_dihedral_restraint_list", dihedralOrigins),
			MandatoryLoops: []string{"_nef_dihedral_restraint"},
		},
		FrameSchema{
			Category: "nef_rdc_restraint_list",
			Prefix:   "_nef_rdc_restraint_list",
			Tags: append(restraintList("nef_rdc_restraint_list", rdcOrigins),
				Item{Name: "tensor_magnitude", Kind: Float},
				Item{Name: "tensor_rhombicity", Kind: PositiveFloat, Range: Incl(0, 2.0/3.0)},
				Item{Name: "tensor_chain_code", Kind: Str},
				Item{Name: "tensor_sequence_code", Kind: Int},
				Item{Name: "tensor_residue_name", Kind: Str, Uppercase: true}),
			MandatoryLoops: []string{"_nef_rdc_restraint"},
		},
		FrameSchema{
			Category: "nef_nmr_spectrum",
			Prefix:   "_nef_nmr_spectrum",
			Tags: append(frameHead("nef_nmr_spectrum"),
				Item{Name: "num_dimensions", Kind: EnumInt, Mandatory: true, Enum: dimensions(), EnforceEnum: true},
				Item{Name: "chemical_shift_list", Kind: Str},
				Item{Name: "experiment_classification", Kind: Str},
				Item{Name: "experiment_type", Kind: Str}),
			MandatoryLoops: []string{"_nef_spectrum_dimension"},
		},
	)
}

func dimensions() []string {
	d := make([]string, MaxPeakDim)
	for i := range d {
		d[i] = strconv.Itoa(i + 1)
	}
	return d
}
