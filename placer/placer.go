// Package placer lays out a "subckt" group: a single reference to an
// already-generated child circuit, placed at the origin, with the
// child's exported ports re-exposed as pins on the parent group.
//
// Grounded on original_source/Layout.py's SUBCKT class.
package placer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/siligen/layoutgen/circuit"
	"github.com/siligen/layoutgen/core"
)

// ErrSubcircuitNotFound is returned when a group's SubcktName does not
// resolve through the supplied Registry (spec §4.5 "Unresolved
// subckt reference").
var ErrSubcircuitNotFound = errors.New("placer: subcircuit not found")

// Place resolves g.SubcktName through reg, sets g.Boundary to the
// child circuit's own width/height at the origin, records a
// Reference at the origin, and re-exports one Pin per Box-shaped
// port-shape on every layer the child exposes, with each pin's net
// re-mapped through the parent instance's terminal map (spec §4.5):
// a port named "A" is exported under whatever net the parent instance
// binds to the terminal role "A". A port with several same-layer
// shapes yields several pins, not one representative pin per port
// (spec §4.6).
func Place(g *circuit.Group, reg circuit.Registry) error {
	if g.Kind != circuit.Subckt {
		return fmt.Errorf("placer: group %q is not a subckt group", g.ID)
	}
	if len(g.Instances) == 0 {
		return fmt.Errorf("placer: subckt group %q has no instance", g.ID)
	}

	child, ok := reg.Lookup(g.SubcktName)
	if !ok {
		return fmt.Errorf("%w: %q", ErrSubcircuitNotFound, g.SubcktName)
	}

	g.Boundary = core.NewRectangle("boundary", 0, 0, child.Width, child.Height)
	g.Ref = &circuit.Reference{SubcktName: g.SubcktName, Origin: core.Point{X: 0, Y: 0}}

	inst := g.Instances[0]
	portNames := make([]string, 0, len(child.Ports))
	for name := range child.Ports {
		portNames = append(portNames, name)
	}
	sort.Strings(portNames)

	var pins []core.Pin
	for _, name := range portNames {
		port := child.Ports[name]
		net := inst.Net(circuit.TerminalRole(port.Name))
		if net == "" {
			net = port.Name
		}

		layers := make([]string, 0, len(port.Shape))
		for layer := range port.Shape {
			layers = append(layers, layer)
		}
		sort.Strings(layers)

		for _, layer := range layers {
			for _, shape := range port.Shape[layer] {
				pins = append(pins, core.Pin{Net: net, Layer: layer, Rect: shape})
			}
		}
	}
	g.Pin = pins

	return nil
}
