package tech_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siligen/layoutgen/tech"
)

func buildDeck() *tech.Deck {
	d := tech.NewDeck()
	d.MinSize["contact"] = 0.09
	d.MinWidth["ndiffusion"] = 0.15
	d.MinArea["nimplant"] = 1.0
	d.MinSpacing[tech.Pair("contact", "contact")] = 0.08
	d.MinEnc[tech.Pair("ndiffusion", "contact")] = 0.06
	d.MinExt[tech.Pair("poly", "ndiffusion")] = 0.1
	return d
}

func TestDeck_LookupsSucceed(t *testing.T) {
	d := buildDeck()

	v, err := d.Size("contact")
	require.NoError(t, err)
	assert.Equal(t, 0.09, v)

	v, err = d.Width("ndiffusion")
	require.NoError(t, err)
	assert.Equal(t, 0.15, v)

	v, err = d.Area("nimplant")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	v, err = d.Spacing(tech.Pair("contact", "contact"))
	require.NoError(t, err)
	assert.Equal(t, 0.08, v)
}

func TestDeck_MissingRuleErrors(t *testing.T) {
	d := buildDeck()

	_, err := d.Size("poly")
	assert.True(t, errors.Is(err, tech.ErrMissingRule))

	_, err = d.Spacing(tech.Pair("poly", "poly"))
	assert.True(t, errors.Is(err, tech.ErrMissingRule))
}

func TestDeck_TapQualifiedSpacingDefaultsToZero(t *testing.T) {
	d := buildDeck()

	v, err := d.Spacing(tech.PairTap("pimplant", "ndiffusion"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	v, err = d.Enclosure(tech.PairEnd("metal1", "contact"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestDeck_TapSpaceDefault(t *testing.T) {
	d := &tech.Deck{} // zero value, not via NewDeck
	assert.Equal(t, 0.2, d.TapSpaceFloor())

	d.TapSpace = 0.3
	assert.Equal(t, 0.3, d.TapSpaceFloor())
}
