package pod

import (
	"math"

	"github.com/san-kum/podopt/internal/mdo"
)

// PodMass sums the subsystem masses into the total pod mass and computes the
// blockage factor, the ratio of compressor inlet area to pod frontal area.
type PodMass struct{}

func (m *PodMass) Setup(r *mdo.Registry) error {
	return r.DeclareAll(
		mdo.Quantity{Name: "mag_mass", Role: mdo.RoleParameter, Default: 1.0, Units: "kg", Desc: "Mass of permanent magnets"},
		mdo.Quantity{Name: "podgeo_d", Role: mdo.RoleParameter, Default: 2.0, Units: "m", Desc: "Pod Geometry Diameter"},
		mdo.Quantity{Name: "al_rho", Role: mdo.RoleParameter, Default: 2800.0, Units: "kg/m**3", Desc: "Density of Aluminium"},
		mdo.Quantity{Name: "motor_mass", Role: mdo.RoleParameter, Default: 1.0, Units: "kg", Desc: "Mass of motor"},
		mdo.Quantity{Name: "battery_mass", Role: mdo.RoleParameter, Default: 1.0, Units: "kg", Desc: "Mass of battery"},
		mdo.Quantity{Name: "comp_mass", Role: mdo.RoleParameter, Default: 1.0, Units: "kg", Desc: "Compressor Mass"},
		mdo.Quantity{Name: "pod_len", Role: mdo.RoleParameter, Default: 1.0, Units: "m", Desc: "Length of pod"},
		mdo.Quantity{Name: "comp_inletArea", Role: mdo.RoleParameter, Default: 1.0, Units: "m**2", Desc: "Area of compressor"},
		mdo.Quantity{Name: "pod_mass", Role: mdo.RoleOutput, Default: 1.0, Units: "kg", Desc: "Pod Mass"},
		mdo.Quantity{Name: "BF", Role: mdo.RoleOutput, Default: 1.0, Units: "unitless", Desc: "blockage factor of pod"},
	)
}

func (m *PodMass) Solve(p mdo.Params) (mdo.Outputs, error) {
	radius := p["podgeo_d"] / 2.0
	if radius == 0 {
		return nil, domainErr("podgeo_d", "zero pod diameter")
	}
	bf := p["comp_inletArea"] / (radius * radius)
	mass := p["mag_mass"] + math.Pi*radius*radius*p["pod_len"]*p["al_rho"] +
		p["motor_mass"] + p["battery_mass"] + p["comp_mass"]
	return mdo.Outputs{"pod_mass": mass, "BF": bf}, nil
}
