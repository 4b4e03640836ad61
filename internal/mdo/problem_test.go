package mdo

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainProblem(t *testing.T) *Problem {
	t.Helper()
	g := NewGroup()
	// added sink-first so topological order must come from the graph
	require.NoError(t, g.Add("sink", NewFuncComp(
		map[string]float64{"y": 0},
		[]string{"z"},
		func(p Params) (Outputs, error) { return Outputs{"z": 2 * p["y"]}, nil },
	)))
	require.NoError(t, g.Add("src", NewFuncComp(
		map[string]float64{"x": 1},
		[]string{"y"},
		func(p Params) (Outputs, error) { return Outputs{"y": p["x"] + 1}, nil },
	)))
	require.NoError(t, g.Connect("src.y", "sink.y"))

	p := NewProblem(g)
	require.NoError(t, p.Setup())
	return p
}

func TestProblemRunChain(t *testing.T) {
	p := chainProblem(t)

	snap, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2.0, snap["src.y"])
	assert.Equal(t, 4.0, snap["sink.z"])

	assert.Equal(t, []string{"src", "sink"}, p.EvalOrder())
}

func TestProblemRunIsDeterministic(t *testing.T) {
	p := chainProblem(t)

	a, err := p.Run(context.Background())
	require.NoError(t, err)
	b, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestProblemNotSetup(t *testing.T) {
	p := NewProblem(NewGroup())

	_, err := p.Run(context.Background())
	assert.ErrorIs(t, err, ErrNotSetup)

	_, err = p.Get("x")
	assert.ErrorIs(t, err, ErrNotSetup)
}

func TestProblemUnknownName(t *testing.T) {
	p := chainProblem(t)

	_, err := p.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownQuantity)

	err = p.Set("nope", 1)
	assert.ErrorIs(t, err, ErrUnknownQuantity)
}

func TestOverrideSurvivesRuns(t *testing.T) {
	p := chainProblem(t)
	require.NoError(t, p.Set("src.x", 10))

	snap, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 11.0, snap["src.y"])

	// second run re-applies the override, not the default
	snap, err = p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 11.0, snap["src.y"])
}

func TestOverrideOnConnectedDestinationIgnored(t *testing.T) {
	p := chainProblem(t)
	require.NoError(t, p.Set("sink.y", 99))

	snap, err := p.Run(context.Background())
	require.NoError(t, err)
	// the incoming connection wins over the override
	assert.Equal(t, 4.0, snap["sink.z"])
}

func TestNonFiniteOutputAborts(t *testing.T) {
	g := NewGroup()
	require.NoError(t, g.Add("bad", NewFuncComp(
		map[string]float64{"x": 0},
		[]string{"y"},
		func(p Params) (Outputs, error) { return Outputs{"y": math.NaN()}, nil },
	)))
	p := NewProblem(g)
	require.NoError(t, p.Setup())

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNumericDomain)

	var se *SolveError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "bad", se.Component)
	assert.Equal(t, "y", se.Quantity)
}

func TestFailingSolveDoesNotPoisonDownstream(t *testing.T) {
	g := NewGroup()
	require.NoError(t, g.Add("a", NewFuncComp(
		map[string]float64{"x": 0},
		[]string{"y"},
		func(p Params) (Outputs, error) { return nil, errors.New("boom") },
	)))
	require.NoError(t, g.Add("b", NewFuncComp(
		map[string]float64{"y": 7},
		[]string{"z"},
		func(p Params) (Outputs, error) { return Outputs{"z": p["y"]}, nil },
	)))
	require.NoError(t, g.Connect("a.y", "b.y"))
	p := NewProblem(g)
	require.NoError(t, p.Setup())

	_, err := p.Run(context.Background())
	require.Error(t, err)

	var se *SolveError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "a", se.Component)
}

func TestRunHonorsContext(t *testing.T) {
	p := chainProblem(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDescribe(t *testing.T) {
	g := NewGroup()
	require.NoError(t, g.Add("c", &describeComp{}))
	p := NewProblem(g)
	require.NoError(t, p.Setup())

	units, desc, err := p.Describe("c.speed")
	require.NoError(t, err)
	assert.Equal(t, "m/s", units)
	assert.Equal(t, "pod speed", desc)
}

type describeComp struct{}

func (d *describeComp) Setup(r *Registry) error {
	return r.Parameter("speed", 0, "m/s", "pod speed")
}

func (d *describeComp) Solve(p Params) (Outputs, error) {
	return Outputs{}, nil
}
