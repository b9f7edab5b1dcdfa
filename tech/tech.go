// Package tech holds the read-only technology rule deck the geometry
// emitter consumes: grid/db units and the spacing, enclosure,
// extension, width and area rule tables of spec §3.
//
// A Deck is built once by an external technology-deck reader (out of
// scope here, spec §1) and may be shared read-only across many group
// generations (spec §5).
package tech

import (
	"errors"
	"fmt"
)

// ErrMissingRule is returned when the geometry emitter references a
// rule tuple the deck does not carry (spec §7 "Missing rule key").
// Optional "tap" spacing qualifiers default to 0 instead of erroring;
// see Deck.Spacing.
var ErrMissingRule = errors.New("tech: missing rule key")

// Qualifier distinguishes alternate rule variants keyed on the same
// layer pair (spec §3: "some keys carry a third qualifier").
type Qualifier string

const (
	// NoQualifier is the default, unqualified rule variant.
	NoQualifier Qualifier = ""
	// Tap qualifies a rule that applies only to tap-ring geometry.
	Tap Qualifier = "tap"
	// End qualifies a rule that applies only at a layer's end-cap.
	End Qualifier = "end"
)

// PairKey identifies a two-layer rule (spacing, enclosure, extension),
// optionally qualified.
type PairKey struct {
	A, B      string
	Qualifier Qualifier
}

// Pair builds an unqualified PairKey.
func Pair(a, b string) PairKey { return PairKey{A: a, B: b} }

// PairTap builds a "tap"-qualified PairKey.
func PairTap(a, b string) PairKey { return PairKey{A: a, B: b, Qualifier: Tap} }

// PairEnd builds an "end"-qualified PairKey.
func PairEnd(a, b string) PairKey { return PairKey{A: a, B: b, Qualifier: End} }

// Deck is the technology rule deck: read-only once built.
type Deck struct {
	// Grid is the snap resolution (unit["grid"]).
	Grid float64
	// DBUnit scales length/width into database units (unit["db"]).
	DBUnit float64
	// TapSpace is the floor for tap-ring separation (spec §9 "Default
	// tap spacing"); defaults to 0.2 when left zero, matching the
	// original hard-coded constant, but is a deck field rather than a
	// literal so a technology can override it.
	TapSpace float64

	MinSize    map[string]float64
	MinWidth   map[string]float64
	MinArea    map[string]float64
	MinSpacing map[PairKey]float64
	MinEnc     map[PairKey]float64
	MinExt     map[PairKey]float64
}

// NewDeck returns an empty Deck with all tables initialized and
// TapSpace defaulted to 0.2.
func NewDeck() *Deck {
	return &Deck{
		TapSpace:   0.2,
		MinSize:    make(map[string]float64),
		MinWidth:   make(map[string]float64),
		MinArea:    make(map[string]float64),
		MinSpacing: make(map[PairKey]float64),
		MinEnc:     make(map[PairKey]float64),
		MinExt:     make(map[PairKey]float64),
	}
}

// tapSpaceOrDefault returns d.TapSpace, falling back to 0.2 if the
// deck was built without NewDeck and left it at the zero value.
func (d *Deck) tapSpaceOrDefault() float64 {
	if d.TapSpace == 0 {
		return 0.2
	}
	return d.TapSpace
}

// Size looks up a minimum-size rule (e.g. contact size).
func (d *Deck) Size(layer string) (float64, error) {
	v, ok := d.MinSize[layer]
	if !ok {
		return 0, fmt.Errorf("tech: min_size_rule[%q]: %w", layer, ErrMissingRule)
	}
	return v, nil
}

// Width looks up a minimum-width rule.
func (d *Deck) Width(layer string) (float64, error) {
	v, ok := d.MinWidth[layer]
	if !ok {
		return 0, fmt.Errorf("tech: min_width_rule[%q]: %w", layer, ErrMissingRule)
	}
	return v, nil
}

// Area looks up a minimum-area rule.
func (d *Deck) Area(layer string) (float64, error) {
	v, ok := d.MinArea[layer]
	if !ok {
		return 0, fmt.Errorf("tech: min_area_rule[%q]: %w", layer, ErrMissingRule)
	}
	return v, nil
}

// Spacing looks up a minimum-spacing rule. A "tap"- or "end"-qualified
// key that is absent from the deck defaults to 0 (spec §3: "spacing keys
// carrying a qualifier 'tap' or 'end' are optional"); any other
// missing key is a fatal ErrMissingRule.
func (d *Deck) Spacing(key PairKey) (float64, error) {
	v, ok := d.MinSpacing[key]
	if ok {
		return v, nil
	}
	if key.Qualifier == Tap || key.Qualifier == End {
		return 0, nil
	}
	return 0, fmt.Errorf("tech: min_spacing_rule[%v]: %w", key, ErrMissingRule)
}

// Enclosure looks up a minimum-enclosure rule, with the same "tap"/
// "end" optionality as Spacing.
func (d *Deck) Enclosure(key PairKey) (float64, error) {
	v, ok := d.MinEnc[key]
	if ok {
		return v, nil
	}
	if key.Qualifier == Tap || key.Qualifier == End {
		return 0, nil
	}
	return 0, fmt.Errorf("tech: min_enclosure_rule[%v]: %w", key, ErrMissingRule)
}

// Extension looks up a minimum-extension rule, with the same "tap"/
// "end" optionality as Spacing.
func (d *Deck) Extension(key PairKey) (float64, error) {
	v, ok := d.MinExt[key]
	if ok {
		return v, nil
	}
	if key.Qualifier == Tap || key.Qualifier == End {
		return 0, nil
	}
	return 0, fmt.Errorf("tech: min_extension_rule[%v]: %w", key, ErrMissingRule)
}

// TapSpaceFloor returns the deck's tap-separation floor (spec §9),
// defaulting to 0.2 when unset.
func (d *Deck) TapSpaceFloor() float64 {
	return d.tapSpaceOrDefault()
}
