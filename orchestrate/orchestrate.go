// Package orchestrate drives the end-to-end pipeline over a Circuit's
// group table: topology classification, geometry emission and
// sub-circuit placement, in group order, aborting on the first error.
//
// Grounded on original_source/DevGen.py's topology_generation and
// layout_generation loops, merged into a single pass since this
// module's Group already carries both a Topology and a Shape field —
// there is no reason to walk the group table twice. The per-group
// status lines DevGen.py prints (device kind, instance ids, resolved
// topology class, a blank separator) are reproduced here since they
// are the one piece of this pipeline an operator watching stdout
// actually depends on (spec §6 "Stable output").
package orchestrate

import (
	"errors"
	"fmt"

	"github.com/siligen/layoutgen/circuit"
	"github.com/siligen/layoutgen/geometry"
	"github.com/siligen/layoutgen/placer"
	"github.com/siligen/layoutgen/tech"
	"github.com/siligen/layoutgen/topology"
)

// ErrUnsupportedGroupKind is returned for a group whose Kind is none
// of nmos, pmos or subckt.
var ErrUnsupportedGroupKind = errors.New("orchestrate: unsupported group kind")

// Logger is the narrow logging surface Generate writes its per-group
// status lines to. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...interface{})
}

// Options configures a Generate run.
type Options struct {
	// DBUnit scales instance length/width into database units before
	// topology construction (spec §4.3 "Edge construction").
	DBUnit float64
	// Registry resolves subckt groups' child circuits. Required only
	// if circ contains any subckt group.
	Registry circuit.Registry
}

// Generate walks circ.Groups in order, classifying and laying out each
// nmos/pmos group and placing each subckt group, stopping at the first
// error (spec §7 "abort on first error"). Every already-processed
// group's results remain attached to its Group on early return.
func Generate(circ *circuit.Circuit, deck *tech.Deck, logger Logger, opts Options) error {
	for _, g := range circ.Groups {
		ids := instanceIDs(g)

		switch g.Kind {
		case circuit.NMOS, circuit.PMOS:
			logger.Printf("%s %v", kindLabel(g.Kind), ids)

			class, err := topology.Build(g, opts.DBUnit)
			if err != nil {
				return fmt.Errorf("orchestrate: group %q: %w", g.ID, err)
			}
			logger.Printf("%s", class.String())

			if err := geometry.Emit(g, deck); err != nil {
				return fmt.Errorf("orchestrate: group %q: %w", g.ID, err)
			}
			logger.Printf("")

		case circuit.Subckt:
			logger.Printf("Subckt %v", ids)

			if err := placer.Place(g, opts.Registry); err != nil {
				return fmt.Errorf("orchestrate: group %q: %w", g.ID, err)
			}
			logger.Printf("")

		default:
			return fmt.Errorf("%w: %q (group %q)", ErrUnsupportedGroupKind, g.Kind, g.ID)
		}
	}
	return nil
}

func kindLabel(k circuit.Kind) string {
	switch k {
	case circuit.NMOS:
		return "NMOS"
	case circuit.PMOS:
		return "PMOS"
	default:
		return string(k)
	}
}

func instanceIDs(g *circuit.Group) []string {
	ids := make([]string, len(g.Instances))
	for i, inst := range g.Instances {
		ids[i] = inst.ID
	}
	return ids
}
