// Package circuit defines the input data model the layout core
// consumes: a Circuit's ordered group table, each Group's instances
// and placement constraints, and the layout results attached back to
// a Group once topology and geometry generation complete.
//
// Populating a Circuit from a netlist file is an external collaborator
// (spec §1); this package only defines the shape that collaborator
// must produce and the shape the core fills in.
package circuit

import (
	"fmt"

	"github.com/siligen/layoutgen/core"
	"github.com/siligen/layoutgen/units"
)

// Kind is a group's device kind.
type Kind string

const (
	NMOS   Kind = "nmos"
	PMOS   Kind = "pmos"
	Subckt Kind = "subckt"
)

// TerminalRole names the four MOSFET terminal roles carried per
// Instance.
type TerminalRole string

const (
	Source TerminalRole = "source"
	Drain  TerminalRole = "drain"
	Gate   TerminalRole = "gate"
	Bulk   TerminalRole = "bulk"
)

// Instance is one transistor-level (or subckt-level) device in a
// Group: its per-terminal net map, sizing, and multiplicity.
type Instance struct {
	ID         string
	Terminals  map[TerminalRole]string
	Finger     int
	Multiplier int
	Length     float64
	Width      float64
}

// Net returns the net bound to role, or "" if unset.
func (i Instance) Net(role TerminalRole) string {
	return i.Terminals[role]
}

// NewInstance builds an Instance parsing length/width from bare or
// engineering-suffixed strings (e.g. "1u", "200n").
func NewInstance(id string, terminals map[TerminalRole]string, finger, multiplier int, length, width string) (Instance, error) {
	l, err := units.Parse(length)
	if err != nil {
		return Instance{}, fmt.Errorf("circuit: instance %q: length: %w", id, err)
	}
	w, err := units.Parse(width)
	if err != nil {
		return Instance{}, fmt.Errorf("circuit: instance %q: width: %w", id, err)
	}
	return Instance{
		ID:         id,
		Terminals:  terminals,
		Finger:     finger,
		Multiplier: multiplier,
		Length:     l,
		Width:      w,
	}, nil
}

// SymmetryPolicy names a recognized value for the mf_sym/mp_sym
// constraint keys (spec §3).
type SymmetryPolicy string

const (
	SymNone    SymmetryPolicy = "None"
	SymID      SymmetryPolicy = "ID"
	SymCC      SymmetryPolicy = "CC"
	SymCustom2D SymmetryPolicy = "custom2d" // literal "[rows,...]" form; MFSymLiteral/MPSymLiteral carry the text
)

// TapSide is one side a body-tap ring may be requested on.
type TapSide string

const (
	TapTop    TapSide = "t"
	TapBottom TapSide = "b"
	TapRight  TapSide = "r"
	TapLeft   TapSide = "l"
)

// Constraint carries the recognized per-group placement keys of
// spec §3: mf_sym, mp_sym, mp_row, tap.
type Constraint struct {
	// MFSym selects the multi-finger ordering pattern.
	MFSym SymmetryPolicy
	// MFSymLiteral holds the raw "[rows,...]" text when MFSym == SymCustom2D.
	MFSymLiteral string

	// MPSym selects the multiplier ordering pattern.
	MPSym SymmetryPolicy
	// MPSymLiteral holds the raw "[rows,...]" text when MPSym == SymCustom2D.
	MPSymLiteral string
	// MPRow is the number of multiplier rows (>= 1).
	MPRow int

	// Tap lists the requested body-tap ring sides; empty means no ring.
	Tap []TapSide
}

// DefaultConstraint returns the zero-value constraint (no symmetry
// pattern selected, single multiplier row, no tap ring) that a group
// gets when its constraint record omits every key.
func DefaultConstraint() Constraint {
	return Constraint{MFSym: SymNone, MPSym: SymNone, MPRow: 1}
}

// HasTap reports whether side is among the requested tap sides.
func (c Constraint) HasTap(side TapSide) bool {
	for _, s := range c.Tap {
		if s == side {
			return true
		}
	}
	return false
}

// Group is a set of transistors (or a single subckt reference) placed
// together as one generated layout cell.
type Group struct {
	ID         string
	Kind       Kind
	Instances  []Instance
	Constraint Constraint

	// SubcktName names the referenced child circuit when Kind == Subckt.
	SubcktName string

	// Topology is produced by the topology builder: one row per entry,
	// each row a left-to-right ordered sequence of Terminal records.
	Topology [][]*core.Terminal

	// Shape is produced by the geometry emitter: layer name -> rectangles.
	Shape map[string][]core.Rectangle

	// Pin is produced by the geometry emitter or the subckt placer.
	Pin []core.Pin

	// Boundary is produced last: the group's single bounding rectangle.
	Boundary core.Rectangle

	// Ref is produced by the subckt placer: a reference to the child
	// layout, placed at the origin.
	Ref *Reference
}

// Reference is an instantiation of a pre-laid-out sub-circuit at a
// given origin, analogous to a GDS SREF.
type Reference struct {
	SubcktName string
	Origin     core.Point
}

// Circuit is one named sub-circuit's group table plus, once laid out,
// its own width/height/ports so it can in turn be referenced by a
// parent group of kind "subckt".
type Circuit struct {
	Name string

	// Groups is the ordered group table; iteration order is
	// insertion-preserving (spec §5) — callers append, never reorder.
	Groups []*Group

	// Width/Height are populated once this circuit's own layout (not
	// modeled by this package) has been placed, so a parent "subckt"
	// group can reference it.
	Width, Height float64

	// Ports maps a port name to its exported shapes, keyed by layer.
	Ports map[string]Port
}

// Port is a named connection point a circuit exposes for a parent
// "subckt" group to re-export as a Pin.
type Port struct {
	Name  string
	Shape map[string][]core.Rectangle
}

// NewCircuit constructs an empty, named Circuit ready to accept groups
// via AddGroup.
func NewCircuit(name string) *Circuit {
	return &Circuit{Name: name, Ports: make(map[string]Port)}
}

// AddGroup appends g to the circuit's group table, preserving
// insertion order (spec §5).
func (c *Circuit) AddGroup(g *Group) {
	c.Groups = append(c.Groups, g)
}

// Registry resolves a sub-circuit name to its already-laid-out
// Circuit, for the placer stub (spec §4.5). A Circuit whose own groups
// have not yet been generated and normalized should not be registered.
type Registry interface {
	// Lookup returns the named circuit's layout, or ok=false if absent.
	Lookup(name string) (*Circuit, bool)
}

// MapRegistry is the simplest Registry: a plain name -> Circuit map.
type MapRegistry map[string]*Circuit

// Lookup implements Registry.
func (m MapRegistry) Lookup(name string) (*Circuit, bool) {
	c, ok := m[name]
	return c, ok
}
