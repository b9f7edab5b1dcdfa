// Package geometry walks a MOSFET group's topology rows and emits mask
// layer rectangles, pins and a bounding box satisfying the technology
// deck's spacing/enclosure/extension/width/area rules.
//
// Grounded on original_source/Layout.py's MOSFET class. The two area
// "heal" steps (implant, nwell) apply the centered/isotropic scaling
// Layout.py's own insert_nwell_shape already uses — insert_implant_shape
// instead grows asymmetrically because it reassigns im_x0 and then
// computes im_x1 from the already-mutated width; this port uses one
// corrected helper (healArea) for both layers.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/siligen/layoutgen/circuit"
	"github.com/siligen/layoutgen/core"
	"github.com/siligen/layoutgen/tech"
	"github.com/siligen/layoutgen/units"
)

// ErrInvalidNodeSequence is returned when a topology row contains a
// (prev.Kind, curr.Kind) pair the emitter does not recognize (spec
// §4.4 "Any other kind pair is an error").
var ErrInvalidNodeSequence = errors.New("geometry: invalid node sequence")

// ErrUnsupportedKind is returned when Emit is asked to lay out a group
// kind it does not handle (subckt groups go through package placer).
var ErrUnsupportedKind = errors.New("geometry: unsupported group kind")

type layerSet struct {
	df, im, ga, tdf, tim string
	po, co, m1, nw       string
}

func layersFor(kind circuit.Kind) (layerSet, error) {
	switch kind {
	case circuit.NMOS:
		return layerSet{df: "ndiffusion", im: "nimplant", ga: "ngate", tdf: "pdiffusion", tim: "pimplant",
			po: "poly", co: "contact", m1: "metal1", nw: "nwell"}, nil
	case circuit.PMOS:
		return layerSet{df: "pdiffusion", im: "pimplant", ga: "pgate", tdf: "ndiffusion", tim: "nimplant",
			po: "poly", co: "contact", m1: "metal1", nw: "nwell"}, nil
	default:
		return layerSet{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
}

// ruleSet is every design-rule value Layout.py reads once up front.
type ruleSet struct {
	coSz                     float64
	gaSpcGa, poSpcCo, coSpcCo float64
	dfEncCo, dfSpcPo, dfSpcDf float64
	poExtDf, dfExtPo, dfWid   float64
	imEncDf, imEncGa, imSpcIm float64
	imWid, imArea             float64
	nwEncPdf, nwArea          float64
	m1Wid, m1SpcM1            float64
	m1EncCo, m1EncCoe         float64
	timEncTdf, tdfEncTco      float64
	timSpcDf, imSpcTdf        float64
	timWid, tdfWid            float64
	timArea, tdfArea          float64
}

func buildRules(deck *tech.Deck, l layerSet) (ruleSet, error) {
	var r ruleSet
	var err error
	get := func(f func() (float64, error)) float64 {
		if err != nil {
			return 0
		}
		var v float64
		v, err = f()
		return v
	}

	r.coSz = get(func() (float64, error) { return deck.Size("contact") })
	r.gaSpcGa = get(func() (float64, error) { return deck.Spacing(tech.Pair(l.ga, l.ga)) })
	r.poSpcCo = get(func() (float64, error) { return deck.Spacing(tech.Pair("poly", "contact")) })
	r.coSpcCo = get(func() (float64, error) { return deck.Spacing(tech.Pair("contact", "contact")) })

	r.dfEncCo = get(func() (float64, error) { return deck.Enclosure(tech.Pair(l.df, "contact")) })
	r.dfSpcPo = get(func() (float64, error) { return deck.Spacing(tech.Pair(l.df, "poly")) })
	r.dfSpcDf = get(func() (float64, error) { return deck.Spacing(tech.Pair(l.df, l.df)) })
	r.poExtDf = get(func() (float64, error) { return deck.Extension(tech.Pair("poly", l.df)) })
	r.dfExtPo = get(func() (float64, error) { return deck.Extension(tech.Pair(l.df, "poly")) })
	r.dfWid = get(func() (float64, error) { return deck.Width(l.df) })

	r.imEncDf = get(func() (float64, error) { return deck.Enclosure(tech.Pair(l.im, l.df)) })
	r.imEncGa = get(func() (float64, error) { return deck.Enclosure(tech.Pair(l.im, l.ga)) })
	r.imSpcIm = get(func() (float64, error) { return deck.Spacing(tech.Pair(l.im, l.im)) })
	r.imWid = get(func() (float64, error) { return deck.Width(l.im) })
	r.imArea = get(func() (float64, error) { return deck.Area(l.im) })

	r.nwEncPdf = get(func() (float64, error) { return deck.Enclosure(tech.Pair("nwell", "pdiffusion")) })
	r.nwArea = get(func() (float64, error) { return deck.Area("nwell") })

	r.m1Wid = get(func() (float64, error) { return deck.Width("metal1") })
	r.m1SpcM1 = get(func() (float64, error) { return deck.Spacing(tech.Pair("metal1", "metal1")) })
	r.m1EncCo = get(func() (float64, error) { return deck.Enclosure(tech.Pair("metal1", "contact")) })
	r.m1EncCoe = get(func() (float64, error) { return deck.Enclosure(tech.PairEnd("metal1", "contact")) })

	r.timEncTdf = get(func() (float64, error) { return deck.Enclosure(tech.PairTap(l.tim, l.tdf)) })
	r.tdfEncTco = get(func() (float64, error) { return deck.Enclosure(tech.PairTap(l.tdf, "contact")) })
	r.timSpcDf = get(func() (float64, error) { return deck.Spacing(tech.PairTap(l.tim, l.df)) })
	r.imSpcTdf = get(func() (float64, error) { return deck.Spacing(tech.PairTap(l.im, l.tdf)) })
	r.timWid = get(func() (float64, error) { return deck.Width(l.tim) })
	r.tdfWid = get(func() (float64, error) { return deck.Width(l.tdf) })
	r.timArea = get(func() (float64, error) { return deck.Area(l.tim) })
	r.tdfArea = get(func() (float64, error) { return deck.Area(l.tdf) })

	return r, err
}

type emitter struct {
	group  *circuit.Group
	deck   *tech.Deck
	layers layerSet
	rules  ruleSet
	shapes map[string][]core.Rectangle
	pins   []core.Pin
}

// Emit lays out g in place: populates g.Shape, g.Pin and g.Boundary
// from g.Topology (spec §4.4). g.Kind must be nmos or pmos.
func Emit(g *circuit.Group, deck *tech.Deck) error {
	layers, err := layersFor(g.Kind)
	if err != nil {
		return err
	}
	rules, err := buildRules(deck, layers)
	if err != nil {
		return err
	}

	e := &emitter{
		group:  g,
		deck:   deck,
		layers: layers,
		rules:  rules,
		shapes: make(map[string][]core.Rectangle),
	}

	if err := e.walkRows(); err != nil {
		return err
	}
	e.insertImplant()

	bodyNet := ""
	if len(g.Instances) > 0 {
		bodyNet = g.Instances[0].Net(circuit.Bulk)
	}
	if err := e.createBody(bodyNet); err != nil {
		return err
	}

	if g.Kind == circuit.PMOS {
		e.insertNwell()
	}

	e.createBoundary()

	g.Shape = e.shapes
	g.Pin = e.pins
	return nil
}

func (e *emitter) walkRows() error {
	for _, row := range e.group.Topology {
		for i, curr := range row {
			var prev, next *core.Terminal
			if i > 0 {
				prev = row[i-1]
			}
			if i < len(row)-1 {
				next = row[i+1]
			}

			switch {
			case curr.Kind == core.Diff && prev == nil:
				e.firstDiff(curr, next)
			case curr.Kind == core.Gate && prev != nil && prev.Kind == core.Diff:
				e.diffGate(curr)
			case curr.Kind == core.Diff && prev != nil && prev.Kind == core.Gate:
				e.gateDiff(prev, curr, next)
			case curr.Kind == core.Diff && prev != nil && prev.Kind == core.Diff:
				e.breakDiff(curr, next)
			case curr.Kind == core.Gate && prev != nil && prev.Kind == core.Gate:
				e.gateGate(curr)
			default:
				return fmt.Errorf("%w: position %d", ErrInvalidNodeSequence, i)
			}
		}
	}
	return nil
}

func (e *emitter) lastRect(layer string) core.Rectangle {
	rs := e.shapes[layer]
	return rs[len(rs)-1]
}

// verticalContactArray builds the contact column plus enclosing metal1
// for a just-placed diffusion rectangle (spec §4.4 cases 1, 3, 4: the
// shared "fill with a vertical contact array" step).
func (e *emitter) verticalContactArray(df core.Rectangle) ([]core.Rectangle, core.Rectangle) {
	r := e.rules
	h := df.Height()
	numCo := int((h-2*r.dfEncCo-r.coSz)/(r.coSz+r.coSpcCo)) + 1
	dfEncCo := (h - float64(numCo)*r.coSz - float64(numCo-1)*r.coSpcCo) / 2

	coX0 := df.P0.X + r.dfEncCo
	coX1 := coX0 + r.coSz

	contacts := make([]core.Rectangle, numCo)
	for i := 0; i < numCo; i++ {
		coY0 := df.P0.Y + dfEncCo + float64(i)*(r.coSz+r.coSpcCo)
		contacts[i] = core.NewRectangle(e.layers.co, coX0, coY0, coX1, coY0+r.coSz)
	}

	m1 := core.NewRectangle(e.layers.m1,
		coX0-r.m1EncCo, contacts[0].P0.Y-r.m1EncCoe,
		coX1+r.m1EncCo, contacts[len(contacts)-1].P1.Y+r.m1EncCoe)
	return contacts, m1
}

// firstDiff implements spec §4.4 case 1.
func (e *emitter) firstDiff(curr, next *core.Terminal) {
	r := e.rules
	nextWidth := 0.0
	if next != nil {
		nextWidth = next.Width
	}

	dfX1 := 2*r.dfEncCo + r.coSz
	dfY1 := math.Max(2*r.dfEncCo+r.coSz, nextWidth)
	df := core.NewRectangle(e.layers.df, 0, 0, dfX1, dfY1)

	contacts, m1 := e.verticalContactArray(df)

	e.shapes[e.layers.df] = append(e.shapes[e.layers.df], df)
	e.shapes[e.layers.co] = append(e.shapes[e.layers.co], contacts...)
	e.shapes[e.layers.m1] = append(e.shapes[e.layers.m1], m1)
	e.pins = append(e.pins, core.Pin{Net: curr.Net, Layer: e.layers.m1, Rect: m1})
}

// diffGate implements spec §4.4 case 2.
func (e *emitter) diffGate(curr *core.Terminal) {
	r := e.rules
	coX1 := e.lastRect(e.layers.co).P1.X

	dfX0 := coX1 + r.poSpcCo - r.dfExtPo
	dfX1 := dfX0 + curr.Length + 2*r.dfExtPo
	df := core.NewRectangle(e.layers.df, dfX0, 0, dfX1, curr.Width)

	poX0 := dfX0 + r.dfExtPo
	poX1 := poX0 + curr.Length
	po := core.NewRectangle(e.layers.po, poX0, -r.poExtDf, poX1, curr.Width+r.poExtDf)

	e.shapes[e.layers.df] = append(e.shapes[e.layers.df], df)
	e.shapes[e.layers.po] = append(e.shapes[e.layers.po], po)
	e.pins = append(e.pins, core.Pin{Net: curr.Net, Layer: e.layers.po, Rect: po})
}

// gateDiff implements spec §4.4 case 3.
func (e *emitter) gateDiff(prev, curr, next *core.Terminal) {
	r := e.rules
	poX1 := e.lastRect(e.layers.po).P1.X

	dfX0 := poX1 + r.poSpcCo - r.dfEncCo
	dfX1 := dfX0 + 2*r.dfEncCo + r.coSz

	var dfY1 float64
	if next != nil && next.Kind == core.Gate {
		dfY1 = math.Max(2*r.dfEncCo+r.coSz, math.Max(prev.Width, next.Width))
	} else {
		dfY1 = math.Max(2*r.dfEncCo+r.coSz, prev.Width)
	}
	df := core.NewRectangle(e.layers.df, dfX0, 0, dfX1, dfY1)

	contacts, m1 := e.verticalContactArray(df)

	e.shapes[e.layers.df] = append(e.shapes[e.layers.df], df)
	e.shapes[e.layers.co] = append(e.shapes[e.layers.co], contacts...)
	e.shapes[e.layers.m1] = append(e.shapes[e.layers.m1], m1)
	e.pins = append(e.pins, core.Pin{Net: curr.Net, Layer: e.layers.m1, Rect: m1})
}

// breakDiff implements spec §4.4 case 4.
func (e *emitter) breakDiff(curr, next *core.Terminal) {
	r := e.rules
	nextWidth := 0.0
	if next != nil {
		nextWidth = next.Width
	}
	prevX1 := e.lastRect(e.layers.df).P1.X

	dfX0 := prevX1 + r.dfSpcDf
	dfX1 := dfX0 + 2*r.dfEncCo + r.coSz
	dfY1 := math.Max(2*r.dfEncCo+r.coSz, nextWidth)
	df := core.NewRectangle(e.layers.df, dfX0, 0, dfX1, dfY1)

	contacts, m1 := e.verticalContactArray(df)

	e.shapes[e.layers.df] = append(e.shapes[e.layers.df], df)
	e.shapes[e.layers.co] = append(e.shapes[e.layers.co], contacts...)
	e.shapes[e.layers.m1] = append(e.shapes[e.layers.m1], m1)
	e.pins = append(e.pins, core.Pin{Net: curr.Net, Layer: e.layers.m1, Rect: m1})
}

// gateGate implements spec §4.4 case 5.
func (e *emitter) gateGate(curr *core.Terminal) {
	r := e.rules
	poX1 := e.lastRect(e.layers.po).P1.X

	dfX0 := poX1 + r.gaSpcGa - r.dfExtPo
	dfX1 := dfX0 + curr.Length + 2*r.dfExtPo
	df := core.NewRectangle(e.layers.df, dfX0, 0, dfX1, curr.Width)

	poX0 := dfX0 + r.dfExtPo
	poX1b := poX0 + curr.Length
	po := core.NewRectangle(e.layers.po, poX0, -r.poExtDf, poX1b, curr.Width+r.poExtDf)

	e.shapes[e.layers.df] = append(e.shapes[e.layers.df], df)
	e.shapes[e.layers.po] = append(e.shapes[e.layers.po], po)
	e.pins = append(e.pins, core.Pin{Net: curr.Net, Layer: e.layers.po, Rect: po})
}

// healArea scales r outward around its center until its area reaches
// minArea, then snaps every coordinate outward to grid (lower edges
// down, upper edges up), so snapping never takes the area back below
// minArea. Both insertImplant and insertNwell use this (see package
// doc for the implant-only bug this corrects relative to the original).
func healArea(r core.Rectangle, minArea, grid float64) core.Rectangle {
	area := r.Area()
	if minArea <= 0 || area >= minArea || area <= 0 {
		return r
	}
	scale := math.Sqrt(minArea / area)
	w := r.Width() * scale
	h := r.Height() * scale
	c := r.Center()
	down := func(v float64) float64 {
		s := units.SnapToGrid(v, grid)
		if s > v {
			s -= grid
		}
		return s
	}
	up := func(v float64) float64 {
		s := units.SnapToGrid(v, grid)
		if s < v {
			s += grid
		}
		return s
	}
	return core.NewRectangle(r.Layer,
		down(c.X-w/2), down(c.Y-h/2),
		up(c.X+w/2), up(c.Y+h/2))
}

func (e *emitter) insertImplant() {
	r := e.rules
	for _, df := range e.shapes[e.layers.df] {
		e.shapes[e.layers.im] = append(e.shapes[e.layers.im], core.NewRectangle(e.layers.im,
			df.P0.X-r.imEncDf, df.P0.Y-math.Max(r.imEncDf, r.imEncGa),
			df.P1.X+r.imEncDf, df.P1.Y+math.Max(r.imEncDf, r.imEncGa)))
	}
	box, ok := core.BoundingBox(e.layers.im, e.shapes[e.layers.im])
	if !ok {
		return
	}
	e.shapes[e.layers.im] = []core.Rectangle{healArea(box, r.imArea, e.deck.Grid)}
}

func (e *emitter) insertNwell() {
	r := e.rules
	all := append(append([]core.Rectangle{}, e.shapes[e.layers.df]...), e.shapes[e.layers.tdf]...)
	for _, df := range all {
		e.shapes[e.layers.nw] = append(e.shapes[e.layers.nw], core.NewRectangle(e.layers.nw,
			df.P0.X-r.nwEncPdf, df.P0.Y-r.nwEncPdf, df.P1.X+r.nwEncPdf, df.P1.Y+r.nwEncPdf))
	}
	box, ok := core.BoundingBox(e.layers.nw, e.shapes[e.layers.nw])
	if !ok {
		return
	}
	e.shapes[e.layers.nw] = []core.Rectangle{healArea(box, r.nwArea, e.deck.Grid)}
}

// tapSide is one side of the body-tap ring under construction: its
// implant/diffusion/contact/metal1 shapes and supply pin, kept as a
// mutable value so a later-built perpendicular side can widen or
// narrow an earlier one's extent (spec §4.4 "Tap-ring corner merge").
type tapSide struct {
	tim, tdf, m1 core.Rectangle
	contacts     []core.Rectangle
	pin          core.Pin
}

// createBody builds the requested body-tap ring sides (spec §4.4
// "Body tap ring") in top, bottom, right, left order — matching
// Layout.py's create_body, including its corner-merge behavior where
// a right/left side widens whatever top/bottom sides were already
// built, and its min-area-rule skip for top/bottom when a
// perpendicular side also exists (the perpendicular side supplies the
// missing area instead).
func (e *emitter) createBody(bodyNet string) error {
	if len(e.group.Constraint.Tap) == 0 {
		return nil
	}
	dfAll := e.shapes[e.layers.df]
	imAll := e.shapes[e.layers.im]
	if len(dfAll) == 0 || len(imAll) == 0 {
		return fmt.Errorf("geometry: tap ring requested on a group with no diffusion")
	}
	dfFirst, dfLast := dfAll[0], dfAll[len(dfAll)-1]
	im0 := imAll[0]

	r := e.rules
	dist := math.Max(r.timSpcDf, math.Max(r.imSpcTdf-r.timEncTdf, e.deck.TapSpaceFloor()))

	has := e.group.Constraint.HasTap
	hasRight, hasLeft := has(circuit.TapRight), has(circuit.TapLeft)

	var top, btm, rgt, lft *tapSide
	if has(circuit.TapTop) {
		top = e.buildTapTop(dfFirst, dfLast, im0, dist, bodyNet, hasRight, hasLeft)
	}
	if has(circuit.TapBottom) {
		btm = e.buildTapBottom(dfFirst, dfLast, im0, dist, bodyNet, hasRight, hasLeft)
	}
	if hasRight {
		rgt = e.buildTapRight(dfFirst, dfLast, im0, dist, bodyNet, top, btm)
	}
	if hasLeft {
		lft = e.buildTapLeft(dfFirst, dfLast, im0, dist, bodyNet, top, btm)
	}

	for _, s := range []*tapSide{top, btm, rgt, lft} {
		if s == nil {
			continue
		}
		e.shapes[e.layers.tim] = append(e.shapes[e.layers.tim], s.tim)
		e.shapes[e.layers.tdf] = append(e.shapes[e.layers.tdf], s.tdf)
		e.shapes[e.layers.co] = append(e.shapes[e.layers.co], s.contacts...)
		e.shapes[e.layers.m1] = append(e.shapes[e.layers.m1], s.m1)
		e.pins = append(e.pins, s.pin)
	}
	return nil
}

// horizontalTapContactsAndMetal builds the contact row and enclosing
// metal1 for a top/bottom tap diffusion rectangle (contacts run along
// x, unlike the vertical arrays the transistor rows use).
func (e *emitter) horizontalTapContactsAndMetal(tdf core.Rectangle) ([]core.Rectangle, core.Rectangle) {
	r := e.rules
	w := tdf.Width()
	numCo := int((w-2*r.tdfEncTco-r.coSz)/(r.coSz+r.coSpcCo)) + 1
	encX := (w - float64(numCo)*r.coSz - float64(numCo-1)*r.coSpcCo) / 2
	encY := (tdf.Height() - r.coSz) / 2

	coY0 := tdf.P0.Y + encY
	coY1 := coY0 + r.coSz

	contacts := make([]core.Rectangle, numCo)
	for i := 0; i < numCo; i++ {
		coX0 := tdf.P0.X + encX + float64(i)*(r.coSz+r.coSpcCo)
		contacts[i] = core.NewRectangle(e.layers.co, coX0, coY0, coX0+r.coSz, coY1)
	}

	m1 := core.NewRectangle(e.layers.m1,
		contacts[0].P0.X-r.m1EncCoe, coY0-r.m1EncCo,
		contacts[len(contacts)-1].P1.X+r.m1EncCoe, coY1+r.m1EncCo)
	return contacts, m1
}

func (e *emitter) buildTapTop(dfFirst, dfLast, im0 core.Rectangle, dist float64, bodyNet string, hasRight, hasLeft bool) *tapSide {
	r := e.rules
	grid := e.deck.Grid

	timX0 := dfFirst.P0.X - r.timEncTdf
	timX1 := dfLast.P1.X + r.timEncTdf
	timY0 := im0.P1.Y + dist
	timY1 := timY0 + 2*r.timEncTdf + 2*r.tdfEncTco + r.coSz

	if timY1-timY0 < r.imWid {
		timY1 = units.SnapToGrid(timY0+r.imWid, grid)
	}
	if !hasRight && !hasLeft && (timY1-timY0)*(timX1-timX0) < r.timArea {
		timY1 = units.SnapToGrid(timY0+r.timArea/(timX1-timX0), grid)
	}

	tim := core.NewRectangle(e.layers.tim, timX0, timY0, timX1, timY1)
	tdf := core.NewRectangle(e.layers.tdf, dfFirst.P0.X, timY0+r.timEncTdf, dfLast.P1.X, timY1-r.timEncTdf)
	contacts, m1 := e.horizontalTapContactsAndMetal(tdf)

	return &tapSide{tim: tim, tdf: tdf, contacts: contacts, m1: m1,
		pin: core.Pin{Net: bodyNet, Layer: e.layers.m1, Rect: m1}}
}

func (e *emitter) buildTapBottom(dfFirst, dfLast, im0 core.Rectangle, dist float64, bodyNet string, hasRight, hasLeft bool) *tapSide {
	r := e.rules
	grid := e.deck.Grid

	timX0 := dfFirst.P0.X - r.timEncTdf
	timX1 := dfLast.P1.X + r.timEncTdf
	timY1 := im0.P0.Y - dist
	timY0 := timY1 - 2*r.timEncTdf - 2*r.tdfEncTco - r.coSz

	if timY1-timY0 < r.imWid {
		timY0 = units.SnapToGrid(timY1-r.imWid, grid)
	}
	if !hasRight && !hasLeft && (timY1-timY0)*(timX1-timX0) < r.timArea {
		timY0 = units.SnapToGrid(timY1-r.timArea/(timX1-timX0), grid)
	}

	tim := core.NewRectangle(e.layers.tim, timX0, timY0, timX1, timY1)
	tdf := core.NewRectangle(e.layers.tdf, dfFirst.P0.X, timY0+r.timEncTdf, dfLast.P1.X, timY1-r.timEncTdf)
	contacts, m1 := e.horizontalTapContactsAndMetal(tdf)

	return &tapSide{tim: tim, tdf: tdf, contacts: contacts, m1: m1,
		pin: core.Pin{Net: bodyNet, Layer: e.layers.m1, Rect: m1}}
}

func (e *emitter) buildTapRight(dfFirst, dfLast, im0 core.Rectangle, dist float64, bodyNet string, top, btm *tapSide) *tapSide {
	r := e.rules
	grid := e.deck.Grid

	timY0 := dfFirst.P0.Y - r.timEncTdf
	timY1 := dfLast.P1.Y + r.timEncTdf
	timX0 := im0.P1.X + dist
	timX1 := timX0 + 2*r.timEncTdf + 2*r.tdfEncTco + r.coSz

	if timX1-timX0 < r.imWid {
		timX1 = units.SnapToGrid(timX0+r.imWid, grid)
	}

	sides := []*tapSide{top, btm}
	if top != nil || btm != nil {
		for _, s := range sides {
			if s == nil {
				continue
			}
			s.tim.P1.X = timX1
			if s.tim.P1.Y < timY0 {
				timY0 = s.tim.P1.Y
			}
			if s.tim.P0.Y > timY1 {
				timY1 = s.tim.P0.Y
			}
		}
	} else if (timY1-timY0)*(timX1-timX0) < r.timArea {
		timX1 = units.SnapToGrid(timX0+r.timArea/(timY1-timY0), grid)
	}

	tim := core.NewRectangle(e.layers.tim, timX0, timY0, timX1, timY1)

	tdfX0, tdfX1 := timX0+r.timEncTdf, timX1-r.timEncTdf
	tdfY0, tdfY1 := dfFirst.P0.Y, dfLast.P1.Y
	for _, s := range sides {
		if s == nil {
			continue
		}
		s.tdf.P1.X = tdfX1
		if s.tdf.P1.Y < tdfY0 {
			tdfY0 = s.tdf.P1.Y
		}
		if s.tdf.P0.Y > tdfY1 {
			tdfY1 = s.tdf.P0.Y
		}
	}
	tdf := core.NewRectangle(e.layers.tdf, tdfX0, tdfY0, tdfX1, tdfY1)

	h := tdf.Height()
	numCo := int((h-2*r.tdfEncTco-r.coSz)/(r.coSz+r.coSpcCo)) + 1
	encY := (h - float64(numCo)*r.coSz - float64(numCo-1)*r.coSpcCo) / 2
	encX := (tdf.Width() - r.coSz) / 2
	tcoX0, tcoX1 := tdfX0+encX, tdfX1-encX

	contacts := make([]core.Rectangle, numCo)
	for i := 0; i < numCo; i++ {
		coY0 := tdfY0 + encY + float64(i)*(r.coSz+r.coSpcCo)
		contacts[i] = core.NewRectangle(e.layers.co, tcoX0, coY0, tcoX1, coY0+r.coSz)
	}

	m1X0, m1X1 := tcoX0-r.m1EncCo, tcoX1+r.m1EncCo
	m1Y0 := contacts[0].P0.Y - r.m1EncCoe
	m1Y1 := contacts[len(contacts)-1].P1.Y + r.m1EncCoe
	for _, s := range sides {
		if s == nil {
			continue
		}
		s.m1.P1.X = m1X1
		if s.m1.P1.Y < m1Y0 {
			m1Y0 = s.m1.P1.Y
		}
		if s.m1.P0.Y > m1Y1 {
			m1Y1 = s.m1.P0.Y
		}
		s.pin.Rect.P1.X = m1X1
	}
	m1 := core.NewRectangle(e.layers.m1, m1X0, m1Y0, m1X1, m1Y1)

	return &tapSide{tim: tim, tdf: tdf, contacts: contacts, m1: m1,
		pin: core.Pin{Net: bodyNet, Layer: e.layers.m1, Rect: m1}}
}

func (e *emitter) buildTapLeft(dfFirst, dfLast, im0 core.Rectangle, dist float64, bodyNet string, top, btm *tapSide) *tapSide {
	r := e.rules
	grid := e.deck.Grid

	timY0 := dfFirst.P0.Y - r.timEncTdf
	timY1 := dfLast.P1.Y + r.timEncTdf
	timX1 := im0.P0.X - dist
	timX0 := timX1 - 2*r.timEncTdf - 2*r.tdfEncTco - r.coSz

	if timX1-timX0 < r.imWid {
		timX0 = units.SnapToGrid(timX1-r.imWid, grid)
	}

	sides := []*tapSide{top, btm}
	if top != nil || btm != nil {
		for _, s := range sides {
			if s == nil {
				continue
			}
			s.tim.P0.X = timX0
			if s.tim.P1.Y < timY0 {
				timY0 = s.tim.P1.Y
			}
			if s.tim.P0.Y > timY1 {
				timY1 = s.tim.P0.Y
			}
		}
	} else if (timY1-timY0)*(timX1-timX0) < r.timArea {
		timX0 = units.SnapToGrid(timX1-r.timArea/(timY1-timY0), grid)
	}

	tim := core.NewRectangle(e.layers.tim, timX0, timY0, timX1, timY1)

	tdfX0, tdfX1 := timX0+r.timEncTdf, timX1-r.timEncTdf
	tdfY0, tdfY1 := dfFirst.P0.Y, dfLast.P1.Y
	for _, s := range sides {
		if s == nil {
			continue
		}
		s.tdf.P0.X = tdfX0
		if s.tdf.P1.Y < tdfY0 {
			tdfY0 = s.tdf.P1.Y
		}
		if s.tdf.P0.Y > tdfY1 {
			tdfY1 = s.tdf.P0.Y
		}
	}
	tdf := core.NewRectangle(e.layers.tdf, tdfX0, tdfY0, tdfX1, tdfY1)

	h := tdf.Height()
	numCo := int((h-2*r.tdfEncTco-r.coSz)/(r.coSz+r.coSpcCo)) + 1
	encY := (h - float64(numCo)*r.coSz - float64(numCo-1)*r.coSpcCo) / 2
	encX := (tdf.Width() - r.coSz) / 2
	tcoX0, tcoX1 := tdfX0+encX, tdfX1-encX

	contacts := make([]core.Rectangle, numCo)
	for i := 0; i < numCo; i++ {
		coY0 := tdfY0 + encY + float64(i)*(r.coSz+r.coSpcCo)
		contacts[i] = core.NewRectangle(e.layers.co, tcoX0, coY0, tcoX1, coY0+r.coSz)
	}

	m1X0, m1X1 := tcoX0-r.m1EncCo, tcoX1+r.m1EncCo
	m1Y0 := contacts[0].P0.Y - r.m1EncCoe
	m1Y1 := contacts[len(contacts)-1].P1.Y + r.m1EncCoe
	for _, s := range sides {
		if s == nil {
			continue
		}
		s.m1.P0.X = m1X0
		if s.m1.P1.Y < m1Y0 {
			m1Y0 = s.m1.P1.Y
		}
		if s.m1.P0.Y > m1Y1 {
			m1Y1 = s.m1.P0.Y
		}
		s.pin.Rect.P0.X = m1X0
	}
	m1 := core.NewRectangle(e.layers.m1, m1X0, m1Y0, m1X1, m1Y1)

	return &tapSide{tim: tim, tdf: tdf, contacts: contacts, m1: m1,
		pin: core.Pin{Net: bodyNet, Layer: e.layers.m1, Rect: m1}}
}

func (e *emitter) createBoundary() {
	all := append(append([]core.Rectangle{}, e.shapes[e.layers.im]...), e.shapes[e.layers.tim]...)
	box, ok := core.BoundingBox("boundary", all)
	if !ok {
		return
	}

	const sizeIncr = 0.5
	box = core.NewRectangle("boundary", box.P0.X-sizeIncr, box.P0.Y-sizeIncr, box.P1.X+sizeIncr, box.P1.Y+sizeIncr)

	dx, dy := -box.P0.X, -box.P0.Y
	for layer, rs := range e.shapes {
		for i, r := range rs {
			e.shapes[layer][i] = r.Translate(dx, dy)
		}
	}
	for i, p := range e.pins {
		e.pins[i] = p.Translate(dx, dy)
	}

	e.group.Boundary = box.Translate(dx, dy)
}
