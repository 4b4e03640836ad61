package pod

import (
	"github.com/san-kum/podopt/internal/mdo"
)

// CompressorMass estimates compressor mass from inlet area, mass flow, and
// enthalpy rise using the Michael Tong correlation (NASA Glenn), with
// enthalpy data taken from the NPSS compressor cycle model.
type CompressorMass struct{}

func (c *CompressorMass) Setup(r *mdo.Registry) error {
	return r.DeclareAll(
		mdo.Quantity{Name: "comp_eff", Role: mdo.RoleParameter, Default: 91.0, Units: "unitless", Desc: "Compressor Efficiency"},
		mdo.Quantity{Name: "mass_flow", Role: mdo.RoleParameter, Default: 317.52, Units: "kg/s", Desc: "Mass Flow Rate"},
		mdo.Quantity{Name: "h_in", Role: mdo.RoleParameter, Default: 0.0, Units: "kJ/kg", Desc: "Heat-in"},
		mdo.Quantity{Name: "h_out", Role: mdo.RoleParameter, Default: 486.13, Units: "kJ/kg", Desc: "Heat-out"},
		mdo.Quantity{Name: "comp_inletArea", Role: mdo.RoleParameter, Default: 1.287, Units: "m**2", Desc: "Compressor Inlet Area"},
		mdo.Quantity{Name: "comp_mass", Role: mdo.RoleOutput, Default: 0.1, Units: "kg", Desc: "Compressor Mass"},
	)
}

func (c *CompressorMass) Solve(p mdo.Params) (mdo.Outputs, error) {
	eff := p["comp_eff"]
	if eff == 0 {
		return nil, domainErr("comp_eff", "zero efficiency")
	}
	mass := 299.2167*p["comp_inletArea"] +
		0.007418*((p["mass_flow"]*(p["h_out"]-p["h_in"]))/(eff/100.0)) + 37.15
	return mdo.Outputs{"comp_mass": mass}, nil
}
