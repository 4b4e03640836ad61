package mdo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doubler() *FuncComp {
	return NewFuncComp(
		map[string]float64{"in": 0},
		[]string{"out"},
		func(p Params) (Outputs, error) {
			return Outputs{"out": 2 * p["in"]}, nil
		},
	)
}

func TestGroupDuplicateChild(t *testing.T) {
	g := NewGroup()
	require.NoError(t, g.Add("a", doubler()))

	err := g.Add("a", doubler())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestConnectDuplicateDestination(t *testing.T) {
	g := NewGroup()
	require.NoError(t, g.Add("a", doubler()))
	require.NoError(t, g.Add("b", doubler()))
	require.NoError(t, g.Add("c", doubler()))

	require.NoError(t, g.Connect("a.out", "c.in"))
	err := g.Connect("b.out", "c.in")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyConnected)
}

func TestConnectSourceMustBeOutput(t *testing.T) {
	g := NewGroup()
	require.NoError(t, g.Add("a", doubler()))
	require.NoError(t, g.Add("b", doubler()))
	require.NoError(t, g.Connect("a.in", "b.in"))

	p := NewProblem(g)
	require.Error(t, p.Setup())
}

func TestConnectDestinationMustBeParameter(t *testing.T) {
	g := NewGroup()
	require.NoError(t, g.Add("a", doubler()))
	require.NoError(t, g.Add("b", doubler()))
	require.NoError(t, g.Connect("a.out", "b.out"))

	p := NewProblem(g)
	require.Error(t, p.Setup())
}

func TestCycleRejectedAtSetup(t *testing.T) {
	g := NewGroup()
	require.NoError(t, g.Add("a", doubler()))
	require.NoError(t, g.Add("b", doubler()))
	require.NoError(t, g.Connect("a.out", "b.in"))
	require.NoError(t, g.Connect("b.out", "a.in"))

	p := NewProblem(g)
	err := p.Setup()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCyclicDependency)
}

func TestPromotionMergesParameters(t *testing.T) {
	g := NewGroup()
	require.NoError(t, g.Add("twice", NewFuncComp(
		map[string]float64{"k": 0},
		[]string{"o"},
		func(p Params) (Outputs, error) { return Outputs{"o": 2 * p["k"]}, nil },
	)))
	require.NoError(t, g.Add("succ", NewFuncComp(
		map[string]float64{"k": 0},
		[]string{"o"},
		func(p Params) (Outputs, error) { return Outputs{"o": p["k"] + 1}, nil },
	)))
	require.NoError(t, g.Promote("twice", "k"))
	require.NoError(t, g.Promote("succ", "k"))

	p := NewProblem(g)
	require.NoError(t, p.Setup())
	require.NoError(t, p.Set("k", 5))

	snap, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10.0, snap["twice.o"])
	assert.Equal(t, 6.0, snap["succ.o"])
	assert.Equal(t, 5.0, snap["k"])
}

func TestPromoteAsAliasesNestedName(t *testing.T) {
	inner := NewGroup()
	require.NoError(t, inner.Add("comp", doubler()))

	root := NewGroup()
	require.NoError(t, root.AddGroup("sub", inner))
	require.NoError(t, root.PromoteAs("sub", "comp.in", "x"))

	p := NewProblem(root)
	require.NoError(t, p.Setup())
	require.NoError(t, p.Set("x", 3))

	snap, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6.0, snap["sub.comp.out"])
}

func TestTwoOutputsPromotedToOneNameRejected(t *testing.T) {
	g := NewGroup()
	require.NoError(t, g.Add("a", doubler()))
	require.NoError(t, g.Add("b", doubler()))
	require.NoError(t, g.PromoteAs("a", "out", "shared"))
	require.NoError(t, g.PromoteAs("b", "out", "shared"))

	p := NewProblem(g)
	err := p.Setup()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyConnected)
}

func TestPromotedOutputFeedsPromotedParameter(t *testing.T) {
	g := NewGroup()
	require.NoError(t, g.Add("src", NewFuncComp(
		map[string]float64{"x": 4},
		[]string{"v"},
		func(p Params) (Outputs, error) { return Outputs{"v": p["x"] + 1}, nil },
	)))
	require.NoError(t, g.Add("sink", NewFuncComp(
		map[string]float64{"v": 0},
		[]string{"o"},
		func(p Params) (Outputs, error) { return Outputs{"o": 10 * p["v"]}, nil },
	)))
	require.NoError(t, g.Promote("src", "v"))
	require.NoError(t, g.Promote("sink", "v"))

	p := NewProblem(g)
	require.NoError(t, p.Setup())

	snap, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50.0, snap["sink.o"])

	order := p.EvalOrder()
	require.Equal(t, []string{"src", "sink"}, order)
}
