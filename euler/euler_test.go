package euler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siligen/layoutgen/core"
	"github.com/siligen/layoutgen/euler"
)

func diff(net string) *core.Terminal { return core.NewDiff(net, 0, 0) }
func gate(net string) *core.Terminal { return core.NewGate(net, 0, 0) }

// chain builds a simple path graph over the given diffusion nets with
// one gate interior terminal between each consecutive pair, matching
// the shape a Clustered1D-ordered row produces.
func chain(nets ...string) *euler.Multigraph {
	g := euler.NewMultigraph()
	for i := 0; i+1 < len(nets); i++ {
		g.AddEdge(diff(nets[i]), diff(nets[i+1]), []*core.Terminal{gate("g")})
	}
	return g
}

func TestMultigraph_AddEdgeMirrorsBothSides(t *testing.T) {
	g := euler.NewMultigraph()
	a, b := diff("a"), diff("b")
	gt := gate("g")
	g.AddEdge(a, b, []*core.Terminal{gt})

	require.Equal(t, 1, g.Degree("a"))
	require.Equal(t, 1, g.Degree("b"))

	heA := g.HalfEdges("a")[0]
	assert.Same(t, a, heA.Near)
	assert.Same(t, b, heA.Far)
	assert.Equal(t, []*core.Terminal{gt}, heA.Interior)

	heB := g.HalfEdges("b")[0]
	assert.Same(t, b, heB.Near)
	assert.Same(t, a, heB.Far)
	assert.Equal(t, []*core.Terminal{gt}, heB.Interior)
}

func TestMultigraph_RemoveThenReinsertRestoresAdjacency(t *testing.T) {
	g := euler.NewMultigraph()
	a, b, c := diff("a"), diff("b"), diff("c")
	gt1, gt2 := gate("g1"), gate("g2")
	g.AddEdge(a, b, []*core.Terminal{gt1})
	g.AddEdge(b, c, []*core.Terminal{gt2})

	before := append([]*euler.HalfEdge(nil), g.HalfEdges("b")...)

	idx, err := g.RemoveEdge("a", "b", []*core.Terminal{gt1})
	require.NoError(t, err)
	assert.Equal(t, 0, g.Degree("a"))
	assert.Equal(t, 1, g.Degree("b"))

	g.AddEdgeAt(a, b, []*core.Terminal{gt1}, idx)
	assert.Equal(t, 1, g.Degree("a"))
	require.Len(t, g.HalfEdges("b"), 2)
	assert.Equal(t, before[0], g.HalfEdges("b")[idx])
}

func TestMultigraph_RemoveEdge_NotFound(t *testing.T) {
	g := euler.NewMultigraph()
	a, b := diff("a"), diff("b")
	g.AddEdge(a, b, nil)

	_, err := g.RemoveEdge("a", "c", nil)
	assert.ErrorIs(t, err, euler.ErrEdgeNotFound)
}

func TestMultigraph_InitialVertex_PrefersOddDegree(t *testing.T) {
	// Path a-b-c-d: a and d have odd degree (1), b and c even (2).
	g := chain("a", "b", "c", "d")
	start, err := g.InitialVertex()
	require.NoError(t, err)
	assert.Equal(t, "a", start.Net)
}

func TestMultigraph_InitialVertex_FallsBackToFirstWithEdges(t *testing.T) {
	// A 4-cycle has every vertex at even degree (2); Euler circuit, so
	// the fallback picks the first net by insertion order.
	g := euler.NewMultigraph()
	a, b, c, d := diff("a"), diff("b"), diff("c"), diff("d")
	g.AddEdge(a, b, nil)
	g.AddEdge(b, c, nil)
	g.AddEdge(c, d, nil)
	g.AddEdge(d, a, nil)

	start, err := g.InitialVertex()
	require.NoError(t, err)
	assert.Equal(t, "a", start.Net)
}

func TestMultigraph_InitialVertex_EmptyGraph(t *testing.T) {
	g := euler.NewMultigraph()
	_, err := g.InitialVertex()
	assert.ErrorIs(t, err, euler.ErrEmptyGraph)
}

func TestMultigraph_Trail_PathGraph_FingerMode(t *testing.T) {
	g := chain("a", "b", "c", "d")
	trail, err := g.Trail(true)
	require.NoError(t, err)

	var nets []string
	for _, term := range trail {
		nets = append(nets, term.Net)
	}
	// finger mode: start net, then (gate, far) pairs all the way through.
	assert.Equal(t, []string{"a", "g", "b", "g", "c", "g", "d"}, nets)
}

func TestMultigraph_Trail_PathGraph_NonFingerMode(t *testing.T) {
	g := chain("a", "b", "c", "d")
	trail, err := g.Trail(false)
	require.NoError(t, err)

	var nets []string
	for _, term := range trail {
		nets = append(nets, term.Net)
	}
	// non-finger mode: each step contributes (near, interior..., far).
	assert.Equal(t, []string{"a", "g", "b", "b", "g", "c", "c", "g", "d"}, nets)
}

func TestMultigraph_Trail_TraversesEveryEdgeExactlyOnce(t *testing.T) {
	// A 4-cycle plus a chord b-d: degrees a=2,
	// b=3, c=2, d=3, two odd vertices (b,d), so a single Euler path
	// exists starting at one of them.
	g := euler.NewMultigraph()
	a, b, c, d := diff("a"), diff("b"), diff("c"), diff("d")
	g.AddEdge(a, b, []*core.Terminal{gate("g1")})
	g.AddEdge(b, c, []*core.Terminal{gate("g2")})
	g.AddEdge(c, d, []*core.Terminal{gate("g3")})
	g.AddEdge(d, a, []*core.Terminal{gate("g4")})
	g.AddEdge(b, d, []*core.Terminal{gate("g5")})

	trail, err := g.Trail(false)
	require.NoError(t, err)

	gatesSeen := map[string]bool{}
	for _, term := range trail {
		if term.Kind == core.Gate {
			gatesSeen[term.Net] = true
		}
	}
	assert.Len(t, gatesSeen, 5, "every gate must appear exactly once: %v", trail)
	assert.Equal(t, 0, g.Degree("a")+g.Degree("b")+g.Degree("c")+g.Degree("d"), "graph fully consumed")
}

func TestMultigraph_Trail_DisconnectedComponentsRestart(t *testing.T) {
	g := euler.NewMultigraph()
	g.AddEdge(diff("a"), diff("b"), []*core.Terminal{gate("g1")})
	g.AddEdge(diff("x"), diff("y"), []*core.Terminal{gate("g2")})

	trail, err := g.Trail(true)
	require.NoError(t, err)

	var nets []string
	for _, term := range trail {
		nets = append(nets, term.Net)
	}
	assert.Equal(t, []string{"a", "g1", "b", "x", "g2", "y"}, nets)
}

func TestMultigraph_Nets_PreservesInsertionOrder(t *testing.T) {
	g := euler.NewMultigraph()
	g.AddEdge(diff("z"), diff("a"), nil)
	g.AddEdge(diff("a"), diff("m"), nil)
	assert.Equal(t, []string{"z", "a", "m"}, g.Nets())
}
