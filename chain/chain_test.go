package chain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew-torda/nefstar/coord"
	"github.com/andrew-torda/nefstar/star"
)

func seqLoop(t *testing.T, rows ...[]string) *star.Loop {
	t.Helper()
	lp := star.NewLoop("_nef_sequence")
	require.NoError(t, lp.AddTag("chain_code", "sequence_code", "residue_name"))
	for _, r := range rows {
		require.NoError(t, lp.AddData(r))
	}
	return lp
}

func twoChains(t *testing.T) *Inventory {
	lp := seqLoop(t,
		[]string{"A", "1", "ALA"}, []string{"A", "2", "GLY"}, []string{"A", "3", "CYS"},
		[]string{"B", "1", "SER"}, []string{"B", "2", "CYS"})
	inv, err := FromLoop(lp, "chain_code", "sequence_code", "residue_name")
	require.NoError(t, err)
	return inv
}

func TestInventory(t *testing.T) {
	inv := twoChains(t)
	assert.Equal(t, 2, inv.Len())
	assert.Equal(t, []string{"A", "B"}, inv.IDs())
	assert.Equal(t, []string{"ALA", "GLY", "CYS"}, inv.Chain("A").Comps())
	c, ok := inv.Comp("B", 2)
	assert.True(t, ok)
	assert.Equal(t, "CYS", c)

	assert.NoError(t, inv.Add("A", 3, "CYS"))
	assert.NoError(t, inv.Add("A", 3, ""))
	err := inv.Add("A", 3, "SER")
	var ce *ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 3, ce.Seq)

	_, err = FromLoop(seqLoop(t, []string{"A", "x", "ALA"}), "chain_code", "sequence_code", "residue_name")
	assert.Error(t, err)
	_, err = FromLoop(seqLoop(t), "chain_code", "nope", "")
	assert.Error(t, err)
}

func TestIDOrder(t *testing.T) {
	inv := NewInventory()
	for _, id := range []string{"10", "B", "2", "A", "AA", "1"} {
		require.NoError(t, inv.Add(id, 1, "ALA"))
	}
	assert.Equal(t, []string{"1", "2", "10", "A", "B", "AA"}, inv.IDs())
}

func TestLetter(t *testing.T) {
	assert.Equal(t, "A", Letter(0))
	assert.Equal(t, "Z", Letter(25))
	assert.Equal(t, "AA", Letter(26))
	assert.Equal(t, "AB", Letter(27))
}

func TestNefToStar(t *testing.T) {
	inv := twoChains(t)
	require.NoError(t, inv.Add("C", 5, "LYS"))
	require.NoError(t, inv.Add("C", 6, "ARG"))
	b := NefToStar(inv, Options{})
	c, s, ok := b.Map("A", 1)
	assert.True(t, ok)
	assert.Equal(t, "1", c)
	assert.Equal(t, 1, s)
	c, s, _ = b.Map("C", 6)
	assert.Equal(t, "3", c)
	assert.Equal(t, 2, s)
	_, _, ok = b.Map("Q", 1)
	assert.False(t, ok)
	in, ok := b.Input("2")
	assert.True(t, ok)
	assert.Equal(t, "B", in)
	assert.Equal(t, []string{"A", "B", "C"}, b.Chains())

	b = NefToStar(inv, Options{BMRBOnly: true})
	assert.Equal(t, 6, b.Seq("C", 6))
	ac, as := b.Auth("C", 6)
	assert.Equal(t, "C", ac)
	assert.Equal(t, 6, as)

	neg := NewInventory()
	require.NoError(t, neg.Add("A", -2, "ALA"))
	b = NefToStar(neg, Options{BMRBOnly: true})
	assert.Equal(t, 1, b.Seq("A", -2))
}

func TestIdentical(t *testing.T) {
	inv := NewInventory()
	for _, id := range []string{"A", "B", "C"} {
		require.NoError(t, inv.Add(id, 1, "ALA"))
	}
	require.NoError(t, inv.Add("A", 2, "GLY"))
	require.NoError(t, inv.Add("B", 2, "GLY"))
	require.NoError(t, inv.Add("C", 2, "SER"))
	b := NefToStar(inv, Options{})
	assert.Equal(t, []string{"B"}, inv.Chain("A").Identical)
	assert.Equal(t, []string{"1"}, b.Identical("B"))
	assert.Empty(t, b.Identical("C"))
}

func TestStarToNef(t *testing.T) {
	inv := NewInventory()
	for _, id := range []string{"10", "2", "1"} {
		require.NoError(t, inv.Add(id, 1, "ALA"))
	}
	b := StarToNef(inv, Options{})
	for id, want := range map[string]string{"1": "A", "2": "B", "10": "C"} {
		got, ok := b.Chain(id)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 7, b.Seq("1", 7))
}

func residues(first int, comps ...string) []coord.Residue {
	var out []coord.Residue
	for i, c := range comps {
		out = append(out, coord.Residue{Seq: i + 1, AuthSeq: first + i, Comp: c})
	}
	return out
}

func model() *coord.Model {
	return &coord.Model{Chains: []*coord.Chain{
		{Asym: "A", Auth: "X", Polymer: true, Residues: residues(10, "ALA", "GLY", "CYS")},
		{Asym: "B", Auth: "Y", Polymer: true, Residues: residues(5, "SER", "CYS")},
		{Asym: "C", Auth: "X", Residues: residues(101, "ZN")},
	}}
}

func TestCoordsNefToStar(t *testing.T) {
	inv := NewInventory()
	for i, c := range []string{"SER", "CYS"} {
		require.NoError(t, inv.Add("Y", i+1, c))
	}
	for i, c := range []string{"ALA", "GLY", "CYS"} {
		require.NoError(t, inv.Add("X", i+1, c))
	}
	b := NefToStar(inv, Options{Coords: model()})
	c, _ := b.Chain("X")
	assert.Equal(t, "1", c)
	c, _ = b.Chain("Y")
	assert.Equal(t, "2", c)
	ac, as := b.Auth("X", 2)
	assert.Equal(t, "X", ac)
	assert.Equal(t, 11, as)
}

func TestCoordsStarToNef(t *testing.T) {
	inv := NewInventory()
	for i, c := range []string{"ALA", "GLY", "CYS"} {
		require.NoError(t, inv.Add("1", i+1, c))
	}
	for i, c := range []string{"SER", "CYS"} {
		require.NoError(t, inv.Add("2", i+1, c))
	}
	b := StarToNef(inv, Options{Coords: model()})
	c, s, _ := b.Map("1", 2)
	assert.Equal(t, "X", c)
	assert.Equal(t, 11, s)
	c, s, _ = b.Map("2", 1)
	assert.Equal(t, "Y", c)
	assert.Equal(t, 5, s)
}

func starLoop(t *testing.T, rows ...[]string) *star.Loop {
	t.Helper()
	lp := star.NewLoop("_Atom_chem_shift")
	require.NoError(t, lp.AddTag("Entity_assembly_ID", "Comp_index_ID", "Comp_ID", "Auth_asym_ID", "Auth_seq_ID"))
	for _, r := range rows {
		require.NoError(t, lp.AddData(r))
	}
	return lp
}

func TestResetAuthSeq(t *testing.T) {
	lp := starLoop(t,
		[]string{"1", "5", "ALA", "X", "10"},
		[]string{"1", "6", "GLY", "X", "11"},
		[]string{"2", "1", "SER", "Y", "1"})
	msgs := ResetAuthSeq(lp, StarColumns(""), model())
	assert.Len(t, msgs, 2)
	assert.Equal(t, []string{"1", "2", "1"}, lp.Col("Comp_index_ID"))

	lp = starLoop(t,
		[]string{"1", "5", "ALA", "X", "10"},
		[]string{"1", "6", "SER", "X", "11"})
	assert.Empty(t, ResetAuthSeq(lp, StarColumns(""), model()))
	assert.Equal(t, []string{"5", "6"}, lp.Col("Comp_index_ID"))
	assert.Nil(t, ResetAuthSeq(lp, StarColumns(""), nil))
}

func TestAdoptAuthChain(t *testing.T) {
	ref := NewInventory()
	for i, c := range []string{"ALA", "GLY", "CYS", "SER"} {
		require.NoError(t, ref.Add("1", i+1, c))
	}
	lp := starLoop(t,
		[]string{".", ".", "GLY", "X", "21"},
		[]string{".", ".", "CYS", "X", "22"},
		[]string{"1", "4", "SER", "X", "23"})
	msgs, err := AdoptAuthChain(lp, StarColumns(""), ref)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
	assert.Equal(t, []string{"1", "1", "1"}, lp.Col("Entity_assembly_ID"))
	assert.Equal(t, []string{"2", "3", "4"}, lp.Col("Comp_index_ID"))
	assert.Equal(t, "Entity_assembly_ID_1", StarColumns("1").Chain)
}
