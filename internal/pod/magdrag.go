package pod

import (
	"math"

	"github.com/san-kum/podopt/internal/mdo"
)

// MagDrag computes magnetic drag at a chosen velocity from the track
// properties the breakpoint sizing produced. Default track and magnet
// parameters match BreakPointDrag.
type MagDrag struct{}

func (m *MagDrag) Setup(r *mdo.Registry) error {
	return r.DeclareAll(
		mdo.Quantity{Name: "vel", Role: mdo.RoleParameter, Default: 350.0, Units: "m/s", Desc: "Desired Velocity"},
		mdo.Quantity{Name: "track_res", Role: mdo.RoleParameter, Default: 3.14e-4, Units: "ohm", Desc: "Track Resistance"},
		mdo.Quantity{Name: "track_ind", Role: mdo.RoleParameter, Default: 3.59023e-6, Units: "ohm*s", Desc: "Track Inductance"},
		mdo.Quantity{Name: "fyu", Role: mdo.RoleParameter, Default: 29430.0, Units: "N", Desc: "Levitation Force"},
		mdo.Quantity{Name: "lam", Role: mdo.RoleParameter, Default: 0.125658, Units: "m", Desc: "Halbach wavelength"},
		mdo.Quantity{Name: "omega", Role: mdo.RoleOutput, Default: 0.0, Units: "rad/s", Desc: "Frequency"},
		mdo.Quantity{Name: "mag_drag_lev", Role: mdo.RoleOutput, Default: 0.0, Units: "N", Desc: "Magnetic Drag from Levitation"},
		mdo.Quantity{Name: "mag_drag_prop", Role: mdo.RoleOutput, Default: 0.0, Units: "N", Desc: "Magnetic Drag from Propulsion"},
		mdo.Quantity{Name: "mag_drag", Role: mdo.RoleOutput, Default: 0.0, Units: "N", Desc: "Total Magnetic Drag"},
	)
}

func (m *MagDrag) Solve(p mdo.Params) (mdo.Outputs, error) {
	lam := p["lam"]
	if lam == 0 {
		return nil, domainErr("lam", "zero Halbach wavelength")
	}
	omega := 2.0 * math.Pi * p["vel"] / lam
	if omega*p["track_ind"] == 0 {
		return nil, domainErr("omega", "zero induced frequency")
	}
	dragLev := p["track_res"] * p["fyu"] / (omega * p["track_ind"])
	dragProp := 0.0 // propulsion contribution TBD
	return mdo.Outputs{
		"omega":         omega,
		"mag_drag_lev":  dragLev,
		"mag_drag_prop": dragProp,
		"mag_drag":      dragLev + dragProp,
	}, nil
}
