package pod

import (
	"math"

	"github.com/san-kum/podopt/internal/mdo"
)

// Thrust models a single-sided linear induction motor with the simplified
// circuit model. The reactance regression follows the NASA Armstrong
// coreless LIM thrust-vs-slip data.
type Thrust struct{}

func (t *Thrust) Setup(r *mdo.Registry) error {
	return r.DeclareAll(
		mdo.Quantity{Name: "R1", Role: mdo.RoleParameter, Default: 7.6e-7, Units: "ohm", Desc: "per phase stator resistance"},
		mdo.Quantity{Name: "R2", Role: mdo.RoleParameter, Default: 0.082, Units: "ohm", Desc: "resistance of rotor"},
		mdo.Quantity{Name: "P1", Role: mdo.RoleParameter, Default: 180000.0, Units: "W", Desc: "input power"},
		mdo.Quantity{Name: "X_m", Role: mdo.RoleParameter, Default: 0.9e-6, Units: "ohm", Desc: "per phase magnetic reactance"},
		mdo.Quantity{Name: "m", Role: mdo.RoleParameter, Default: 3.0, Units: "", Desc: "input phase count"},
		mdo.Quantity{Name: "V1", Role: mdo.RoleParameter, Default: 450.0, Units: "V", Desc: "input voltage"},
		mdo.Quantity{Name: "L_s", Role: mdo.RoleParameter, Default: 0.6, Units: "m", Desc: "length of stator"},
		mdo.Quantity{Name: "V_s", Role: mdo.RoleParameter, Default: 16.31, Units: "m/s", Desc: "synchronous velocity"},
		mdo.Quantity{Name: "V_r", Role: mdo.RoleParameter, Default: 15.5, Units: "m/s", Desc: "rotor velocity"},
		mdo.Quantity{Name: "f", Role: mdo.RoleParameter, Default: 60.0, Units: "Hz", Desc: "input frequency"},
		mdo.Quantity{Name: "L", Role: mdo.RoleParameter, Default: 0.0017, Units: "H", Desc: "inductance of inductor"},
		mdo.Quantity{Name: "c_time", Role: mdo.RoleParameter, Default: 2.0, Units: "s", Desc: "contact time"},
		mdo.Quantity{Name: "mass", Role: mdo.RoleParameter, Default: 15000.0, Units: "kg", Desc: "mass of pod"},
		mdo.Quantity{Name: "phi", Role: mdo.RoleOutput, Default: 0.0, Units: "rad", Desc: "phase angle"},
		mdo.Quantity{Name: "slip_ratio", Role: mdo.RoleOutput, Default: 0.0, Units: "", Desc: "slip ratio"},
		mdo.Quantity{Name: "reactance_of_inductor", Role: mdo.RoleOutput, Default: 0.0, Units: "ohm", Desc: "reactance of inductor"},
		mdo.Quantity{Name: "omega", Role: mdo.RoleOutput, Default: 0.0, Units: "rad/s", Desc: "electrical frequency"},
		mdo.Quantity{Name: "thrust", Role: mdo.RoleOutput, Default: 0.0, Units: "N", Desc: "thrust"},
		mdo.Quantity{Name: "a", Role: mdo.RoleOutput, Default: 0.0, Units: "m/s**2", Desc: "acceleration"},
	)
}

func (t *Thrust) Solve(p mdo.Params) (mdo.Outputs, error) {
	if p["R1"] == 0 {
		return nil, domainErr("R1", "zero stator resistance")
	}
	phi := phaseAngle(p["f"], p["L"], p["R1"])

	slip, err := slipRatio(p["V_s"], p["V_r"])
	if err != nil {
		return nil, err
	}

	accel, err := acceleration(p["P1"], p["c_time"], p["mass"])
	if err != nil {
		return nil, err
	}

	xm := p["X_m"]
	cosPhi := math.Cos(phi)
	denom := p["m"] * p["V1"] * p["V1"] * cosPhi * cosPhi * (p["R2"]*p["R2"] + slip*slip*xm*xm)
	if denom == 0 {
		return nil, domainErr("thrust", "zero circuit denominator")
	}
	thrust := p["P1"] * p["P1"] * p["R2"] * xm * xm * slip * (1.0 - slip) / denom

	return mdo.Outputs{
		"phi":                   phi,
		"slip_ratio":            slip,
		"reactance_of_inductor": inductorReactance(p["f"], p["L"]),
		"omega":                 2.0 * math.Pi * p["f"] * p["L"],
		"thrust":                thrust,
		"a":                     accel,
	}, nil
}

// phaseAngle is arctan(2*pi*f*L / R1).
func phaseAngle(f, l, r1 float64) float64 {
	return math.Atan(2.0 * math.Pi * f * l / r1)
}

// slipRatio is (V_s - V_r) / V_s; undefined at zero synchronous velocity.
func slipRatio(vs, vr float64) (float64, error) {
	if vs == 0 {
		return 0, domainErr("slip_ratio", "zero synchronous velocity")
	}
	return (vs - vr) / vs, nil
}

// inductorReactance is 2*pi*f*L.
func inductorReactance(f, l float64) float64 {
	return 2.0 * math.Pi * f * l
}

// acceleration is sqrt(P1 / (2*mass*c_time)).
func acceleration(p1, cTime, mass float64) (float64, error) {
	denom := 2.0 * mass * cTime
	if denom <= 0 {
		return 0, domainErr("a", "non-positive mass or contact time")
	}
	arg := p1 / denom
	if arg < 0 {
		return 0, domainErr("a", "negative power input")
	}
	return math.Sqrt(arg), nil
}
