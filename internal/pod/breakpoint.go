package pod

import (
	"math"

	"github.com/san-kum/podopt/internal/mdo"
)

// BreakPointDrag sizes the Halbach array against a laminated track and
// evaluates levitation and drag forces at the breakpoint velocity. Default
// parameters are taken from Inductrack I.
//
// At vel_b == 0 there is no induced current, so the frequency, the forces,
// and the lift/drag ratio are all defined as exactly zero instead of being
// computed from the general formulas.
type BreakPointDrag struct{}

func (b *BreakPointDrag) Setup(r *mdo.Registry) error {
	return r.DeclareAll(
		// pod
		mdo.Quantity{Name: "m_pod", Role: mdo.RoleParameter, Default: 3000.0, Units: "kg", Desc: "Pod Mass"},
		mdo.Quantity{Name: "b_res", Role: mdo.RoleParameter, Default: 1.48, Units: "T", Desc: "Residual Magnetic Flux"},
		mdo.Quantity{Name: "num_mag_hal", Role: mdo.RoleParameter, Default: 4.0, Units: "", Desc: "Number of Magnets per Halbach Array"},
		mdo.Quantity{Name: "mag_thk", Role: mdo.RoleParameter, Default: 0.15, Units: "m", Desc: "Thickness of magnet"},
		mdo.Quantity{Name: "l_pod", Role: mdo.RoleParameter, Default: 22.0, Units: "m", Desc: "Length of Pod"},
		mdo.Quantity{Name: "gamma", Role: mdo.RoleParameter, Default: 1.0, Units: "", Desc: "Percent Factor"},
		mdo.Quantity{Name: "w_mag", Role: mdo.RoleParameter, Default: 3.0, Units: "m", Desc: "Width of magnet array"},
		mdo.Quantity{Name: "spacing", Role: mdo.RoleParameter, Default: 0.0, Units: "m", Desc: "Halbach Spacing Factor"},
		// laminated track
		mdo.Quantity{Name: "w_track", Role: mdo.RoleParameter, Default: 3.0, Units: "m", Desc: "Width of Track"},
		mdo.Quantity{Name: "w_strip", Role: mdo.RoleParameter, Default: 0.005, Units: "m", Desc: "Width of Conductive Strip"},
		mdo.Quantity{Name: "num_sheets", Role: mdo.RoleParameter, Default: 1.0, Units: "", Desc: "Number of Laminated Sheets"},
		mdo.Quantity{Name: "delta_c", Role: mdo.RoleParameter, Default: 0.0005334, Units: "m", Desc: "Single Layer Thickness"},
		mdo.Quantity{Name: "strip_c", Role: mdo.RoleParameter, Default: 0.0105, Units: "m", Desc: "Center Strip Spacing"},
		mdo.Quantity{Name: "rc", Role: mdo.RoleParameter, Default: 1.713e-8, Units: "ohm-m", Desc: "Electric Resistivity"},
		mdo.Quantity{Name: "MU0", Role: mdo.RoleParameter, Default: 4.0 * math.Pi * 1e-7, Units: "ohm*s/m", Desc: "Permeability of Free Space"},
		// pod/track relation
		mdo.Quantity{Name: "vel_b", Role: mdo.RoleParameter, Default: 23.0, Units: "m/s", Desc: "Desired Breakpoint Velocity"},
		mdo.Quantity{Name: "h_lev", Role: mdo.RoleParameter, Default: 0.01, Units: "m", Desc: "Levitation Height"},
		mdo.Quantity{Name: "g", Role: mdo.RoleParameter, Default: 9.81, Units: "m/s**2", Desc: "Gravity"},
		// outputs
		mdo.Quantity{Name: "lam", Role: mdo.RoleOutput, Default: 0.0, Units: "m", Desc: "Halbach wavelength"},
		mdo.Quantity{Name: "track_ind", Role: mdo.RoleOutput, Default: 0.0, Units: "ohm*s", Desc: "Inductance"},
		mdo.Quantity{Name: "b0", Role: mdo.RoleOutput, Default: 0.0, Units: "T", Desc: "Halbach peak strength"},
		mdo.Quantity{Name: "mag_area", Role: mdo.RoleOutput, Default: 0.0, Units: "m**2", Desc: "Total Area of Magnets"},
		mdo.Quantity{Name: "omegab", Role: mdo.RoleOutput, Default: 0.0, Units: "rad/s", Desc: "Breakpoint Frequency"},
		mdo.Quantity{Name: "fyu", Role: mdo.RoleOutput, Default: 0.0, Units: "N", Desc: "Levitation Force"},
		mdo.Quantity{Name: "fxu", Role: mdo.RoleOutput, Default: 0.0, Units: "N", Desc: "Break Point Drag Force"},
		mdo.Quantity{Name: "ld_ratio", Role: mdo.RoleOutput, Default: 0.0, Units: "", Desc: "Lift to Drag Ratio"},
		mdo.Quantity{Name: "track_res", Role: mdo.RoleOutput, Default: 0.0, Units: "ohm", Desc: "Resistance"},
	)
}

func (b *BreakPointDrag) Solve(p mdo.Params) (mdo.Outputs, error) {
	velB := p["vel_b"]
	bRes := p["b_res"]
	numMag := p["num_mag_hal"]
	hLev := p["h_lev"]
	magThk := p["mag_thk"]
	gamma := p["gamma"]
	lPod := p["l_pod"]
	wMag := p["w_mag"]
	spacing := p["spacing"]

	wTrack := p["w_track"]
	wStrip := p["w_strip"]
	numSheets := p["num_sheets"]
	deltaC := p["delta_c"]
	stripC := p["strip_c"]
	rc := p["rc"]
	mu0 := p["MU0"]

	if deltaC == 0 || wStrip == 0 || numSheets == 0 {
		return nil, domainErr("track_res", "zero strip geometry")
	}
	trackRes := rc * wTrack / (deltaC * wStrip * numSheets)

	lam := numMag*magThk + spacing
	if lam == 0 || numMag == 0 || stripC == 0 {
		return nil, domainErr("lam", "degenerate Halbach geometry")
	}
	b0 := bRes * (1.0 - math.Exp(-2.0*math.Pi*magThk/lam)) *
		(math.Sin(math.Pi/numMag) / (math.Pi / numMag))
	trackInd := mu0 * wTrack / (4.0 * math.Pi * stripC / lam)
	magArea := wMag * lPod * gamma

	var omegab, fyu, fxu, ldRatio float64
	if velB != 0 {
		if trackInd == 0 {
			return nil, domainErr("track_ind", "zero track inductance")
		}
		omegab = 2.0 * math.Pi * velB / lam
		ratio := trackRes / (omegab * trackInd)
		common := (b0 * b0 * wMag / (4.0 * math.Pi * trackInd * stripC / lam)) *
			math.Exp(-4.0*math.Pi*hLev/lam) * magArea
		fyu = common * (1.0 / (1.0 + ratio*ratio))
		fxu = common * (ratio / (1.0 + ratio*ratio))
		if fxu == 0 {
			return nil, domainErr("ld_ratio", "zero drag force")
		}
		ldRatio = fyu / fxu
	}

	return mdo.Outputs{
		"lam":       lam,
		"b0":        b0,
		"track_ind": trackInd,
		"mag_area":  magArea,
		"omegab":    omegab,
		"fyu":       fyu,
		"fxu":       fxu,
		"ld_ratio":  ldRatio,
		"track_res": trackRes,
	}, nil
}

// MagMass computes the magnet mass and cost needed for levitation at the
// breakpoint velocity. Defaults from Inductrack I.
type MagMass struct{}

func (m *MagMass) Setup(r *mdo.Registry) error {
	return r.DeclareAll(
		mdo.Quantity{Name: "mag_thk", Role: mdo.RoleParameter, Default: 0.15, Units: "m", Desc: "Thickness of Magnet"},
		mdo.Quantity{Name: "rho_mag", Role: mdo.RoleParameter, Default: 7500.0, Units: "kg/m**3", Desc: "Density of Magnet"},
		mdo.Quantity{Name: "l_pod", Role: mdo.RoleParameter, Default: 22.0, Units: "m", Desc: "Length of Pod"},
		mdo.Quantity{Name: "gamma", Role: mdo.RoleParameter, Default: 1.0, Units: "", Desc: "Percent Factor"},
		mdo.Quantity{Name: "cost_per_kg", Role: mdo.RoleParameter, Default: 44.0, Units: "USD/kg", Desc: "Cost of Magnet per Kilogram"},
		mdo.Quantity{Name: "w_mag", Role: mdo.RoleParameter, Default: 3.0, Units: "m", Desc: "Width of Magnet Array"},
		mdo.Quantity{Name: "mag_area", Role: mdo.RoleOutput, Default: 0.0, Units: "m**2", Desc: "Total Area of Magnets"},
		mdo.Quantity{Name: "m_mag", Role: mdo.RoleOutput, Default: 0.0, Units: "kg", Desc: "Mass of Magnets"},
		mdo.Quantity{Name: "cost", Role: mdo.RoleOutput, Default: 0.0, Units: "USD", Desc: "Cost of Magnets"},
	)
}

func (m *MagMass) Solve(p mdo.Params) (mdo.Outputs, error) {
	magArea := p["w_mag"] * p["l_pod"] * p["gamma"]
	mMag := p["rho_mag"] * magArea * p["mag_thk"]
	cost := mMag * p["cost_per_kg"]
	return mdo.Outputs{
		"mag_area": magArea,
		"m_mag":    mMag,
		"cost":     cost,
	}, nil
}
