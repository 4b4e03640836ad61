package pod

import (
	"github.com/san-kum/podopt/internal/mdo"
)

// NewLevGroup wires the levitation subsystem: breakpoint sizing feeds the
// track properties into the drag-at-speed component, and the shared pod
// geometry (l_pod, w_mag, mag_thk, gamma) is promoted so sizing and mass see
// one value.
func NewLevGroup() (*mdo.Group, error) {
	g := mdo.NewGroup()
	if err := g.Add("Drag", &BreakPointDrag{}); err != nil {
		return nil, err
	}
	if err := g.Add("Mass", &MagMass{}); err != nil {
		return nil, err
	}
	if err := g.Add("MDrag", &MagDrag{}); err != nil {
		return nil, err
	}

	if err := g.Promote("Drag", "m_pod", "w_track", "l_pod", "w_mag", "fyu", "mag_thk", "gamma"); err != nil {
		return nil, err
	}
	if err := g.Promote("Mass", "l_pod", "w_mag", "m_mag", "cost", "mag_thk", "gamma"); err != nil {
		return nil, err
	}
	if err := g.Promote("MDrag", "mag_drag", "fyu"); err != nil {
		return nil, err
	}

	for _, c := range [][2]string{
		{"Drag.track_res", "MDrag.track_res"},
		{"Drag.track_ind", "MDrag.track_ind"},
		{"Drag.lam", "MDrag.lam"},
	} {
		if err := g.Connect(c[0], c[1]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// NewPodMassGroup chains the compressor mass estimate into the pod mass
// rollup. The inlet area is promoted so the correlation and the blockage
// factor see one value.
func NewPodMassGroup() (*mdo.Group, error) {
	g := mdo.NewGroup()
	if err := g.Add("CompressorMass", &CompressorMass{}); err != nil {
		return nil, err
	}
	if err := g.Add("PodMass", &PodMass{}); err != nil {
		return nil, err
	}
	if err := g.Connect("CompressorMass.comp_mass", "PodMass.comp_mass"); err != nil {
		return nil, err
	}
	if err := g.Promote("CompressorMass", "comp_inletArea"); err != nil {
		return nil, err
	}
	if err := g.Promote("PodMass", "comp_inletArea"); err != nil {
		return nil, err
	}
	return g, nil
}

// LevOptAlpha weights drag against magnet mass in the levitation objective.
const LevOptAlpha = 0.5

// NewLevOptProblem reproduces the breakpoint levitation sizing study: pick
// magnet thickness and area factor minimizing a drag/mass blend, subject to
// the array lifting the pod weight. The constraint and objective expressions
// are small function components; free inputs shared between components
// (m_pod, g, mag_thk, gamma, fyu) are merged by promotion rather than routed
// through a source component.
func NewLevOptProblem() (*mdo.Problem, error) {
	lev, err := NewLevGroup()
	if err != nil {
		return nil, err
	}

	root := mdo.NewGroup()
	if err := root.AddGroup("lev", lev); err != nil {
		return nil, err
	}

	con1 := mdo.NewFuncComp(
		map[string]float64{"fyu": 0, "m_pod": 3000.0, "g": 9.81},
		[]string{"c1"},
		func(p mdo.Params) (mdo.Outputs, error) {
			return mdo.Outputs{"c1": (p["fyu"] - p["m_pod"]*p["g"]) / 1e5}, nil
		},
	)
	if err := root.Add("con1", con1); err != nil {
		return nil, err
	}

	obj := mdo.NewFuncComp(
		map[string]float64{"fxu": 0, "m_mag": 0},
		[]string{"obj"},
		func(p mdo.Params) (mdo.Outputs, error) {
			return mdo.Outputs{"obj": (LevOptAlpha*p["fxu"])/1000.0 + (1.0-LevOptAlpha)*p["m_mag"]}, nil
		},
	)
	if err := root.Add("obj_cmp", obj); err != nil {
		return nil, err
	}

	if err := root.Promote("lev", "m_pod", "fyu", "mag_thk", "gamma"); err != nil {
		return nil, err
	}
	if err := root.PromoteAs("lev", "Drag.g", "g"); err != nil {
		return nil, err
	}
	if err := root.Promote("con1", "m_pod", "fyu", "g"); err != nil {
		return nil, err
	}
	if err := root.Connect("lev.Drag.fxu", "obj_cmp.fxu"); err != nil {
		return nil, err
	}
	if err := root.Connect("lev.m_mag", "obj_cmp.m_mag"); err != nil {
		return nil, err
	}

	p := mdo.NewProblem(root)
	if err := p.Setup(); err != nil {
		return nil, err
	}

	// starting point from the original sizing study
	if err := p.Set("mag_thk", 0.05); err != nil {
		return nil, err
	}
	if err := p.Set("gamma", 0.5); err != nil {
		return nil, err
	}

	if err := p.AddDesignVar(mdo.DesignVar{Name: "mag_thk", Lower: 0.01, Upper: 0.15, Scaler: 100}); err != nil {
		return nil, err
	}
	if err := p.AddDesignVar(mdo.DesignVar{Name: "gamma", Lower: 0.1, Upper: 1.0}); err != nil {
		return nil, err
	}
	if err := p.AddConstraint(mdo.Constraint{Name: "con1.c1", Sense: mdo.GreaterEqual, Bound: 0}); err != nil {
		return nil, err
	}
	if err := p.AddObjective("obj_cmp.obj"); err != nil {
		return nil, err
	}
	return p, nil
}
