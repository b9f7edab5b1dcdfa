// Package layoutgen is a MOSFET device-layout generator: from a parsed
// transistor-level netlist enriched with per-group placement constraints
// and a technology rule deck, it produces a legal two-dimensional layout
// for each MOSFET group.
//
// What is layoutgen?
//
//	A deterministic, single-threaded, zero-runtime-dependency library
//	that turns a Circuit's groups into:
//
//	  - Topology — transistors ordered along one or more rows so that
//	    diffusion is maximally shared between neighbors (Euler/Fleury
//	    over a multigraph of diffusion nets, fed by pattern generators)
//	  - Geometry — layer rectangles, pins and a bounding box satisfying
//	    the technology's spacing/enclosure/extension/width/area rules
//
// Design
//
//   - Constructive-by-construction — no DRC pass, no cross-group
//     optimization, no re-ordering feedback once geometry is known
//   - Deterministic — every pattern and every Fleury trail is a pure
//     function of its inputs; emission order is part of the contract
//   - Single-threaded — no suspension points, no shared mutable state
//     across groups (see package orchestrate)
//
// Organized under these subpackages:
//
//	units/       — engineering-notation number parsing, grid snapping
//	core/        — Terminal, Rectangle, Pin — the shared value types
//	circuit/     — Circuit, Group, Instance, Constraint (the input model)
//	tech/        — Deck — the read-only technology rule tables
//	pattern/     — pure instance-ordering generators (clustered,
//	               interdigitated, common-centroid, 2D, custom)
//	euler/       — the diffusion-net multigraph and Fleury's algorithm
//	topology/    — classifies a group and builds its row topology
//	geometry/    — walks rows and emits rectangles, pins, boundary
//	placer/      — sub-circuit reference + port re-export
//	orchestrate/ — walks a Circuit's group table end to end
//
// See SPEC_FULL.md and DESIGN.md in the module root for the full
// requirements this package implements and the grounding ledger.
package layoutgen
