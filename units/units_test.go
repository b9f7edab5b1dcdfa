package units_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siligen/layoutgen/units"
)

func TestParse_EngineeringSuffixes(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"100", 100},
		{"1u", 1e-6},
		{"200n", 200e-9},
		{"1.5meg", 1.5e6},
		{"2.2k", 2200},
		{"4K", 4000},
		{"3G", 3e9},
		{"1T", 1e12},
		{"10p", 10e-12},
		{"5f", 5e-15},
		{"-1.25m", -1.25e-3},
		{" 7u ", 7e-6},
	}

	for _, tc := range cases {
		got, err := units.Parse(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.InDelta(t, tc.want, got, 1e-20, "input %q", tc.in)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "u1", "1uu", "abc", "1x"} {
		_, err := units.Parse(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() {
		units.MustParse("not-a-number")
	})
}

func TestSnapToGrid(t *testing.T) {
	assert.Equal(t, 0.005, units.SnapToGrid(0.00499, 0.005))
	assert.Equal(t, 0.0, units.SnapToGrid(0.001, 0.005))
	assert.Equal(t, 1.23, units.SnapToGrid(1.23, 0))
	assert.Equal(t, -0.01, units.SnapToGrid(-0.012, 0.005))
}

func TestIsOnGrid(t *testing.T) {
	assert.True(t, units.IsOnGrid(0.01, 0.005))
	assert.False(t, units.IsOnGrid(0.011, 0.005))
	assert.True(t, units.IsOnGrid(123.456, 0))
}
