package topology_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siligen/layoutgen/circuit"
	"github.com/siligen/layoutgen/core"
	"github.com/siligen/layoutgen/topology"
)

func TestClassify_MultiFinger(t *testing.T) {
	class, err := topology.Classify([]int{1, 3, 1}, []int{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, topology.ClassMultiFinger, class)
	assert.Equal(t, "Multi-Finger Topology", class.String())
}

func TestClassify_Multiplier(t *testing.T) {
	class, err := topology.Classify([]int{1, 1}, []int{4, 4})
	require.NoError(t, err)
	assert.Equal(t, topology.ClassMultiplier, class)
	assert.Equal(t, "Multiplier Topology", class.String())
}

func TestClassify_Hybrid(t *testing.T) {
	class, err := topology.Classify([]int{2, 2}, []int{2, 2})
	require.NoError(t, err)
	assert.Equal(t, topology.ClassHybrid, class)
	assert.Equal(t, "Both Multi-Finger and Multiplier Topology", class.String())
}

func TestClassify_MixedMultiplierRequiresUniformSingleFinger(t *testing.T) {
	class, err := topology.Classify([]int{1, 1}, []int{2, 4})
	require.NoError(t, err)
	assert.Equal(t, topology.ClassMultiplier, class)
}

func TestClassify_ErrorOnSubOneFinger(t *testing.T) {
	_, err := topology.Classify([]int{0}, []int{2})
	assert.ErrorIs(t, err, topology.ErrInvalidClass)
}

func TestClassify_ErrorOnSubOneMultiplier(t *testing.T) {
	_, err := topology.Classify([]int{1}, []int{0})
	assert.ErrorIs(t, err, topology.ErrInvalidClass)
}

func TestClassify_ErrorOnMixedMultiplierWithFingerOverOne(t *testing.T) {
	_, err := topology.Classify([]int{2, 1}, []int{2, 4})
	assert.ErrorIs(t, err, topology.ErrInvalidClass)
}

func newInst(t *testing.T, id, source, drain, gate, bulk string, finger, mult int, length, width string) circuit.Instance {
	t.Helper()
	inst, err := circuit.NewInstance(id, map[circuit.TerminalRole]string{
		circuit.Source: source,
		circuit.Drain:  drain,
		circuit.Gate:   gate,
		circuit.Bulk:   bulk,
	}, finger, mult, length, width)
	require.NoError(t, err)
	return inst
}

func TestBuild_MultiFinger_SingleInstance(t *testing.T) {
	g := &circuit.Group{
		ID:         "g1",
		Kind:       circuit.NMOS,
		Instances:  []circuit.Instance{newInst(t, "m1", "d", "s", "g", "b", 1, 1, "1u", "2u")},
		Constraint: circuit.DefaultConstraint(),
	}

	class, err := topology.Build(g, 1e-9)
	require.NoError(t, err)
	assert.Equal(t, topology.ClassMultiFinger, class)
	require.Len(t, g.Topology, 1)
	assert.Equal(t, []string{"d", "g", "s"}, netsOf(g.Topology[0]))
}

func TestBuild_MultiFinger_ThreeFingersShareDiffusion(t *testing.T) {
	g := &circuit.Group{
		ID:   "g1",
		Kind: circuit.NMOS,
		Instances: []circuit.Instance{
			newInst(t, "m1", "s1", "d1", "g1", "b", 3, 1, "1u", "6u"),
		},
		Constraint: circuit.DefaultConstraint(),
	}
	_, err := topology.Build(g, 1e-9)
	require.NoError(t, err)
	require.Len(t, g.Topology, 1)
	// A single 3-finger instance forms a 3-edge path over 2 diffusion
	// nets and one repeated gate net, giving a 7-terminal trail.
	assert.Len(t, g.Topology[0], 7)
}

func TestBuild_Multiplier_SingleMPRowGivesOneRow(t *testing.T) {
	g := &circuit.Group{
		ID:   "g1",
		Kind: circuit.PMOS,
		Instances: []circuit.Instance{
			newInst(t, "m1", "a", "b", "gA", "bulk", 1, 4, "1u", "2u"),
		},
		Constraint: circuit.DefaultConstraint(),
	}
	class, err := topology.Build(g, 1e-9)
	require.NoError(t, err)
	assert.Equal(t, topology.ClassMultiplier, class)
	require.Len(t, g.Topology, 1)
}

func TestBuild_Hybrid_RowsMatchMPRow(t *testing.T) {
	g := &circuit.Group{
		ID:   "g1",
		Kind: circuit.NMOS,
		Instances: []circuit.Instance{
			newInst(t, "m1", "a", "b", "gA", "bulk", 2, 2, "1u", "4u"),
		},
		Constraint: circuit.Constraint{MFSym: circuit.SymNone, MPSym: circuit.SymNone, MPRow: 2},
	}
	class, err := topology.Build(g, 1e-9)
	require.NoError(t, err)
	assert.Equal(t, topology.ClassHybrid, class)
	assert.Len(t, g.Topology, 2)
}

func TestAddDummyNode_FingerMode(t *testing.T) {
	g := &circuit.Group{Kind: circuit.NMOS, Instances: []circuit.Instance{
		newInst(t, "m1", "d", "s", "g", "b", 1, 1, "1u", "2u"),
	}, Constraint: circuit.DefaultConstraint()}
	_, err := topology.Build(g, 1e-9)
	require.NoError(t, err)

	padded, err := topology.AddDummyNode(g, g.Topology[0], true)
	require.NoError(t, err)
	assert.Len(t, padded, len(g.Topology[0])+4)
	assert.Equal(t, "GND", padded[0].Net)
	assert.Equal(t, "GND", padded[len(padded)-1].Net)
}

func TestAddDummyNode_PMOSUsesVDD(t *testing.T) {
	g := &circuit.Group{Kind: circuit.PMOS, Instances: []circuit.Instance{
		newInst(t, "m1", "d", "s", "g", "b", 1, 1, "1u", "2u"),
	}, Constraint: circuit.DefaultConstraint()}
	_, err := topology.Build(g, 1e-9)
	require.NoError(t, err)

	padded, err := topology.AddDummyNode(g, g.Topology[0], true)
	require.NoError(t, err)
	assert.Equal(t, "VDD", padded[0].Net)
}

func netsOf(row []*core.Terminal) []string {
	nets := make([]string, len(row))
	for i, t := range row {
		nets[i] = t.Net
	}
	return nets
}
