package pod

import (
	"github.com/san-kum/podopt/internal/mdo"
)

// TubePower totals the electrical power the tube infrastructure draws for
// vacuum pumping and propulsion.
type TubePower struct{}

func (t *TubePower) Setup(r *mdo.Registry) error {
	return r.DeclareAll(
		mdo.Quantity{Name: "vac_power", Role: mdo.RoleParameter, Default: 0.0, Units: "W", Desc: "Power for vacuum"},
		mdo.Quantity{Name: "prop_power", Role: mdo.RoleParameter, Default: 0.0, Units: "W", Desc: "Power for propulsion systems (LIM/LSM)"},
		mdo.Quantity{Name: "tot_power", Role: mdo.RoleOutput, Default: 0.0, Units: "W", Desc: "Total power output"},
	)
}

func (t *TubePower) Solve(p mdo.Params) (mdo.Outputs, error) {
	return mdo.Outputs{"tot_power": p["vac_power"] + p["prop_power"]}, nil
}
