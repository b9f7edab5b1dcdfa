// Package topology classifies a MOSFET group from its per-instance
// finger/multiplier counts and builds its row topology: one or more
// ordered diff/gate/diff trails over the group's instances.
//
// Grounded on original_source/Topo.py's MOSFET class, restructured so
// the pure classification (Classify) and trail construction (Build)
// carry no I/O — the textual "Multi-Finger Topology" / "Multiplier
// Topology" / "Both..." surface belongs to the orchestration layer,
// which already knows the Class it asked for (see package
// orchestrate).
package topology

import (
	"errors"
	"fmt"

	"github.com/siligen/layoutgen/circuit"
	"github.com/siligen/layoutgen/core"
	"github.com/siligen/layoutgen/euler"
	"github.com/siligen/layoutgen/pattern"
)

// ErrInvalidClass is returned when a group's finger/multiplier vectors
// do not fit any of the three legal topology shapes (spec §4.3
// condition 3 "error").
var ErrInvalidClass = errors.New("topology: invalid group classification")

// Class is the topology shape a group resolves to.
type Class int

const (
	// ClassMultiFinger is condition 0: every multiplier is 1, one row.
	ClassMultiFinger Class = iota
	// ClassMultiplier is condition 1: multipliers not all 1 (uniform,
	// or mixed with every multiplier >= 1), every finger is 1, one row
	// per multiplier-row.
	ClassMultiplier
	// ClassHybrid is condition 2: every multiplier equal and > 1, at
	// least one finger > 1.
	ClassHybrid
)

// String renders the stable status line spec.md §6 names for each
// class.
func (c Class) String() string {
	switch c {
	case ClassMultiFinger:
		return "Multi-Finger Topology"
	case ClassMultiplier:
		return "Multiplier Topology"
	case ClassHybrid:
		return "Both Multi-Finger and Multiplier Topology"
	default:
		return "Invalid Topology"
	}
}

// Classify implements spec §4.3's condition table over a group's
// finger and multiplier vectors.
func Classify(allFinger, allMultiplier []int) (Class, error) {
	for _, f := range allFinger {
		if f < 1 {
			return 0, fmt.Errorf("%w: finger=%d < 1", ErrInvalidClass, f)
		}
	}
	mSet := distinct(allMultiplier)

	if len(mSet) == 1 {
		m := allMultiplier[0]
		switch {
		case m == 1:
			return ClassMultiFinger, nil
		case m > 1:
			fSet := distinct(allFinger)
			if len(fSet) == 1 {
				switch f := allFinger[0]; {
				case f == 1:
					return ClassMultiplier, nil
				case f > 1:
					return ClassHybrid, nil
				default:
					return 0, fmt.Errorf("%w: finger=%d < 1", ErrInvalidClass, f)
				}
			}
			for f := range fSet {
				if f > 1 {
					return ClassHybrid, nil
				}
				if f < 1 {
					return 0, fmt.Errorf("%w: finger=%d < 1", ErrInvalidClass, f)
				}
			}
			return 0, fmt.Errorf("%w: mixed finger counts without any > 1", ErrInvalidClass)
		default:
			return 0, fmt.Errorf("%w: multiplier=%d < 1", ErrInvalidClass, m)
		}
	}

	for m := range mSet {
		if m < 1 {
			return 0, fmt.Errorf("%w: multiplier=%d < 1", ErrInvalidClass, m)
		}
	}
	fSet := distinct(allFinger)
	if len(fSet) == 1 && allFinger[0] == 1 {
		return ClassMultiplier, nil
	}
	return 0, fmt.Errorf("%w: mixed multiplier counts require uniform finger=1", ErrInvalidClass)
}

func distinct(xs []int) map[int]struct{} {
	set := make(map[int]struct{}, len(xs))
	for _, x := range xs {
		set[x] = struct{}{}
	}
	return set
}

// Build classifies g and populates g.Topology with one or more
// diff/gate/diff trails, returning the resolved Class so the caller
// can log it (spec §4.3, §6).
func Build(g *circuit.Group, dbUnit float64) (Class, error) {
	allFinger := make([]int, len(g.Instances))
	allMultiplier := make([]int, len(g.Instances))
	for i, inst := range g.Instances {
		allFinger[i] = inst.Finger
		allMultiplier[i] = inst.Multiplier
	}

	class, err := Classify(allFinger, allMultiplier)
	if err != nil {
		return 0, err
	}

	switch class {
	case ClassMultiFinger:
		trail, err := mfTrail(g, dbUnit, allFinger)
		if err != nil {
			return 0, err
		}
		g.Topology = [][]*core.Terminal{trail}

	case ClassMultiplier:
		rows, err := mpTrails(g, dbUnit, allMultiplier)
		if err != nil {
			return 0, err
		}
		g.Topology = rows

	case ClassHybrid:
		rows, err := hybridTrails(g, dbUnit, allFinger, allMultiplier)
		if err != nil {
			return 0, err
		}
		g.Topology = rows
	}

	return class, nil
}

// mfOrder resolves the instance-index ordering for the "mf" position per
// spec §4.3 "Pattern selection" and the flatten decision for a
// custom-2D mf_sym literal: a multi-finger row is one flat sequence,
// so every row of the parsed literal concatenates into one order.
func mfOrder(g *circuit.Group, allFinger []int) ([]int, error) {
	sym := g.Constraint.MFSym
	lit := g.Constraint.MFSymLiteral

	switch {
	case pattern.LooksLikeCustom2D(lit):
		parsed, err := pattern.Custom2D(lit)
		if err != nil {
			return nil, err
		}
		return tokensToIndices(pattern.Flatten(parsed))
	case sym == circuit.SymID:
		return pattern.SimpleInterdigitated1D(allFinger), nil
	case sym == circuit.SymCC:
		return pattern.CommonCentroid1D(allFinger), nil
	default:
		return pattern.Clustered1D(allFinger), nil
	}
}

// mpOrder resolves the "mp" position ordering (spec §4.3), returning
// one index-order per output row; a literal custom-2D keeps each
// parsed row as its own multiplier-row, unlike mfOrder's flatten.
func mpOrder(g *circuit.Group, allMultiplier []int) ([][]int, error) {
	c := g.Constraint
	switch {
	case pattern.LooksLikeCustom2D(c.MPSymLiteral):
		parsed, err := pattern.Custom2D(c.MPSymLiteral)
		if err != nil {
			return nil, err
		}
		rows := make([][]int, len(parsed))
		for i, row := range parsed {
			idx, err := tokensToIndices(row)
			if err != nil {
				return nil, err
			}
			rows[i] = idx
		}
		return rows, nil
	case c.MPSym == circuit.SymID:
		return [][]int{pattern.SimpleInterdigitated1D(allMultiplier)}, nil
	case c.MPSym == circuit.SymCC:
		return [][]int{pattern.CommonCentroid1D(allMultiplier)}, nil
	case c.MPSym == circuit.SymNone && c.MPRow > 1:
		rows2D, err := pattern.Clustered2D(allMultiplier, c.MPRow)
		if err != nil {
			return nil, err
		}
		rows := make([][]int, len(rows2D))
		for i, row := range rows2D {
			idx, err := tokensToIndices(row)
			if err != nil {
				return nil, err
			}
			rows[i] = idx
		}
		return rows, nil
	default:
		return [][]int{pattern.Clustered1D(allMultiplier)}, nil
	}
}

// tokensToIndices drops dummy tokens: the topology builder has no
// instance to hang a dummy position off, so a dummy position
// contributes no edge (see DESIGN.md "dummy tokens in topology
// ordering" — the original crashes here, self.group.inst['d']).
func tokensToIndices(tokens []pattern.Token) ([]int, error) {
	out := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Dummy {
			continue
		}
		out = append(out, tok.Index)
	}
	return out, nil
}

// buildEdges inserts one diff-gate-diff edge per ordered instance
// index into g, scaling length/width into database units (spec §4.3
// "Edge construction").
func buildEdges(mg *euler.Multigraph, group *circuit.Group, dbUnit float64, order []int) error {
	for _, i := range order {
		if i < 0 || i >= len(group.Instances) {
			return fmt.Errorf("topology: pattern index %d out of range for %d instances", i, len(group.Instances))
		}
		inst := group.Instances[i]
		lengthDB := inst.Length / dbUnit
		widthDB := (inst.Width / dbUnit) / float64(inst.Finger)

		source := core.NewDiff(inst.Net(circuit.Source), lengthDB, widthDB)
		gate := core.NewGate(inst.Net(circuit.Gate), lengthDB, widthDB)
		drain := core.NewDiff(inst.Net(circuit.Drain), lengthDB, widthDB)

		mg.AddEdge(source, drain, []*core.Terminal{gate})
	}
	return nil
}

func mfTrail(g *circuit.Group, dbUnit float64, allFinger []int) ([]*core.Terminal, error) {
	order, err := mfOrder(g, allFinger)
	if err != nil {
		return nil, err
	}

	mg := euler.NewMultigraph()
	if err := buildEdges(mg, g, dbUnit, order); err != nil {
		return nil, err
	}
	return mg.Trail(true)
}

func mpTrails(g *circuit.Group, dbUnit float64, allMultiplier []int) ([][]*core.Terminal, error) {
	rows, err := mpOrder(g, allMultiplier)
	if err != nil {
		return nil, err
	}

	out := make([][]*core.Terminal, 0, len(rows))
	for _, order := range rows {
		mg := euler.NewMultigraph()
		if err := buildEdges(mg, g, dbUnit, order); err != nil {
			return nil, err
		}
		trail, err := mg.Trail(false)
		if err != nil {
			return nil, err
		}
		out = append(out, trail)
	}
	return out, nil
}

// hybridTrails first computes the multi-finger trail, then for each
// multiplier-row opens a fresh multigraph and adds m/mp_row parallel
// edges between the finger trail's endpoints, with the finger trail's
// interior carried along unchanged (spec §4.3 condition 2).
func hybridTrails(g *circuit.Group, dbUnit float64, allFinger, allMultiplier []int) ([][]*core.Terminal, error) {
	fingerTrail, err := mfTrail(g, dbUnit, allFinger)
	if err != nil {
		return nil, err
	}
	if len(fingerTrail) < 2 {
		return nil, fmt.Errorf("%w: finger trail too short to build a hybrid row", ErrInvalidClass)
	}

	first := fingerTrail[0]
	middle := fingerTrail[1 : len(fingerTrail)-1]
	last := fingerTrail[len(fingerTrail)-1]

	mpRow := g.Constraint.MPRow
	if mpRow < 1 {
		mpRow = 1
	}
	parallel := allMultiplier[0] / mpRow

	rows := make([][]*core.Terminal, 0, mpRow)
	for r := 0; r < mpRow; r++ {
		mg := euler.NewMultigraph()
		for k := 0; k < parallel; k++ {
			mg.AddEdge(first, last, middle)
		}
		trail, err := mg.Trail(false)
		if err != nil {
			return nil, err
		}
		rows = append(rows, trail)
	}
	return rows, nil
}

// AddDummyNode pads a single row with left/right diff+gate terminals
// bound to the group's supply net (VDD for pmos, GND otherwise), per
// spec §4.3 "Dummy decoration". It is not called by Build itself —
// only the orchestration layer decides whether dummy boundary nodes
// are wanted for a given group.
func AddDummyNode(g *circuit.Group, row []*core.Terminal, finger bool) ([]*core.Terminal, error) {
	if len(row) < 2 {
		return nil, fmt.Errorf("topology: row too short to add dummy nodes")
	}

	supply := "GND"
	if g.Kind == circuit.PMOS {
		supply = "VDD"
	}

	left := row[1]
	leftDiff := core.NewDiff(supply, left.Length, left.Width)
	leftGate := core.NewGate("", left.Length, left.Width)

	right := row[len(row)-2]
	rightDiff := core.NewDiff(supply, right.Length, right.Width)
	rightGate := core.NewGate("", right.Length, right.Width)

	out := make([]*core.Terminal, 0, len(row)+4)
	if finger {
		out = append(out, leftDiff, leftGate)
		out = append(out, row...)
		out = append(out, rightGate, rightDiff)
	} else {
		out = append(out, leftDiff, leftGate, leftDiff)
		out = append(out, row...)
		out = append(out, rightDiff, rightGate, rightDiff)
	}
	return out, nil
}
