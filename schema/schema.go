package schema

import "strconv"

// Pinned dictionary versions.
const (
	NefFormatName   = "nmr_exchange_format"
	NefVersion      = "1.1"
	NmrStarVersion  = "3.2.6.0"
	MaxPeakDim      = 16
	UniqueRowsLimit = 20000 // loops longer than this skip uniqueness checks
)

// LoopSchema is the key and data items of one loop category. Key items
// together identify a row.
type LoopSchema struct {
	Category string
	Keys     Items
	Data     Items
}

// All returns keys followed by data items.
func (ls LoopSchema) All() Items {
	all := make(Items, 0, len(ls.Keys)+len(ls.Data))
	all = append(all, ls.Keys...)
	return append(all, ls.Data...)
}

// FrameSchema describes the tags of one saveframe category.
type FrameSchema struct {
	Category       string
	Prefix         string
	Tags           Items
	MandatoryLoops []string
}

var (
	nefLoops   = map[string]LoopSchema{}
	starLoops  = map[string]LoopSchema{}
	nefFrames  = map[string]FrameSchema{}
	starFrames = map[string]FrameSchema{}
)

func register(m map[string]LoopSchema, ls ...LoopSchema) {
	for _, l := range ls {
		m[l.Category] = l
	}
}

func registerFrames(m map[string]FrameSchema, fs ...FrameSchema) {
	for _, f := range fs {
		m[f.Category] = f
	}
}

// Loop returns the schema of a loop category in dialect d. Peak loops
// are built for the largest dimension with only the first position
// mandatory; use PeakLoop when the number of dimensions is known.
func Loop(d Dialect, category string) (LoopSchema, bool) {
	m := nefLoops
	if d == STAR {
		m = starLoops
	}
	ls, ok := m[category]
	if !ok {
		switch {
		case d == NEF && category == "_nef_peak",
			d == STAR && category == "_Peak_row_format":
			ls = PeakLoop(d, MaxPeakDim)
			for i := range ls.Data {
				if n := ls.Data[i].Name; n != "position_1" && n != "Position_1" {
					ls.Data[i].Mandatory = false
				}
			}
			return ls, true
		}
	}
	return ls, ok
}

// Frame returns the schema of a saveframe category.
func Frame(d Dialect, category string) (FrameSchema, bool) {
	m := nefFrames
	if d == STAR {
		m = starFrames
	}
	fs, ok := m[category]
	return fs, ok
}

// MandatoryFrames lists the saveframe categories an entry must have.
func MandatoryFrames(d Dialect) []string {
	if d == NEF {
		return []string{"nef_nmr_meta_data", "nef_molecular_system"}
	}
	return []string{"assembly"}
}

// Suffix appends _n to a tag name.
func Suffix(name string, n int) string { return name + "_" + strconv.Itoa(n) }

// atomKeys are the four items that locate an atom, numbered if n > 0.
func atomKeys(d Dialect, n int, mandatory bool) Items {
	names := [4]string{"chain_code", "sequence_code", "residue_name", "atom_name"}
	if d == STAR {
		names = [4]string{"Entity_assembly_ID", "Comp_index_ID", "Comp_ID", "Atom_ID"}
	}
	if n > 0 {
		for i := range names {
			names[i] = Suffix(names[i], n)
		}
	}
	chain := Item{Name: names[0], Kind: Str, Mandatory: mandatory}
	if d == STAR {
		chain.Kind = PositiveIntAsStr
		chain.DefaultFrom = SelfDefault
	}
	return Items{
		chain,
		{Name: names[1], Kind: Int, Mandatory: mandatory},
		{Name: names[2], Kind: Str, Mandatory: mandatory, Uppercase: true},
		{Name: names[3], Kind: Str, Mandatory: mandatory, ClearBadPattern: true},
	}
}

// PeakLoop builds the schema of a flat peak loop with n dimensions.
func PeakLoop(d Dialect, n int) LoopSchema {
	if n < 1 {
		n = 1
	}
	if n > MaxPeakDim {
		n = MaxPeakDim
	}
	if d == NEF {
		ls := LoopSchema{
			Category: "_nef_peak",
			Keys: Items{
				{Name: "index", Kind: IndexInt, Mandatory: true, AutoIncrement: true},
				{Name: "peak_id", Kind: PositiveInt, Mandatory: true},
			},
			Data: Items{
				{Name: "volume", Kind: Float},
				{Name: "volume_uncertainty", Kind: PositiveFloat, Range: MinIncl(0)},
				{Name: "height", Kind: Float},
				{Name: "height_uncertainty", Kind: PositiveFloat, Range: MinIncl(0)},
			},
		}
		for i := 1; i <= n; i++ {
			ls.Data = append(ls.Data,
				Item{Name: Suffix("position", i), Kind: Float, Mandatory: true},
				Item{Name: Suffix("position_uncertainty", i), Kind: PositiveFloat, Range: MinIncl(0)})
			ls.Data = append(ls.Data, atomKeys(NEF, i, false)...)
		}
		return ls
	}
	ls := LoopSchema{
		Category: "_Peak_row_format",
		Keys: Items{
			{Name: "Index_ID", Kind: IndexInt, Mandatory: true, AutoIncrement: true},
			{Name: "ID", Kind: PositiveInt, Mandatory: true},
		},
		Data: Items{
			{Name: "Volume", Kind: Float},
			{Name: "Volume_uncertainty", Kind: PositiveFloat, Range: MinIncl(0)},
			{Name: "Height", Kind: Float},
			{Name: "Height_uncertainty", Kind: PositiveFloat, Range: MinIncl(0)},
		},
	}
	for i := 1; i <= n; i++ {
		ls.Data = append(ls.Data,
			Item{Name: Suffix("Position", i), Kind: Float, Mandatory: true},
			Item{Name: Suffix("Position_uncertainty", i), Kind: PositiveFloat, Range: MinIncl(0)})
		ls.Data = append(ls.Data, atomKeys(STAR, i, false)...)
	}
	return ls
}
