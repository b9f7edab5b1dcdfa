package circuit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siligen/layoutgen/circuit"
)

func TestNewInstance_ParsesEngineeringUnits(t *testing.T) {
	inst, err := circuit.NewInstance("M1", map[circuit.TerminalRole]string{
		circuit.Source: "S",
		circuit.Drain:  "D",
		circuit.Gate:   "G",
		circuit.Bulk:   "GND",
	}, 1, 1, "100n", "500n")
	require.NoError(t, err)
	assert.InDelta(t, 100e-9, inst.Length, 1e-18)
	assert.InDelta(t, 500e-9, inst.Width, 1e-18)
	assert.Equal(t, "S", inst.Net(circuit.Source))
}

func TestNewInstance_InvalidLength(t *testing.T) {
	_, err := circuit.NewInstance("M1", nil, 1, 1, "not-a-number", "500n")
	assert.Error(t, err)
}

func TestConstraint_HasTap(t *testing.T) {
	c := circuit.Constraint{Tap: []circuit.TapSide{circuit.TapTop, circuit.TapBottom}}
	assert.True(t, c.HasTap(circuit.TapTop))
	assert.True(t, c.HasTap(circuit.TapBottom))
	assert.False(t, c.HasTap(circuit.TapLeft))
}

func TestDefaultConstraint(t *testing.T) {
	c := circuit.DefaultConstraint()
	assert.Equal(t, circuit.SymNone, c.MFSym)
	assert.Equal(t, circuit.SymNone, c.MPSym)
	assert.Equal(t, 1, c.MPRow)
	assert.Empty(t, c.Tap)
}

func TestCircuit_AddGroupPreservesOrder(t *testing.T) {
	c := circuit.NewCircuit("inv_chain")
	c.AddGroup(&circuit.Group{ID: "g0"})
	c.AddGroup(&circuit.Group{ID: "g1"})
	c.AddGroup(&circuit.Group{ID: "g2"})

	require.Len(t, c.Groups, 3)
	assert.Equal(t, "g0", c.Groups[0].ID)
	assert.Equal(t, "g1", c.Groups[1].ID)
	assert.Equal(t, "g2", c.Groups[2].ID)
}

func TestMapRegistry_Lookup(t *testing.T) {
	child := circuit.NewCircuit("child")
	reg := circuit.MapRegistry{"child": child}

	got, ok := reg.Lookup("child")
	assert.True(t, ok)
	assert.Same(t, child, got)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}
