package pod

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/podopt/internal/mdo"
)

func relClose(got, want, rtol float64) bool {
	return math.Abs(got-want) <= rtol*math.Abs(want)
}

func solve(t *testing.T, c mdo.Component, set map[string]float64) mdo.Outputs {
	t.Helper()
	r := mdo.NewRegistry()
	if err := c.Setup(r); err != nil {
		t.Fatalf("setup: %v", err)
	}
	params := make(mdo.Params)
	for _, name := range r.Parameters() {
		q, _ := r.Lookup(name)
		params[name] = q.Default
	}
	for name, v := range set {
		params[name] = v
	}
	out, err := c.Solve(params)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	return out
}

func TestCompressorMassTongCorrelation(t *testing.T) {
	out := solve(t, &CompressorMass{}, nil)
	if !relClose(out["comp_mass"], 1680.5, 0.001) {
		t.Errorf("comp_mass = %f, want 1680.5", out["comp_mass"])
	}
}

func TestCompressorMassZeroEfficiency(t *testing.T) {
	c := &CompressorMass{}
	_, err := c.Solve(mdo.Params{"comp_eff": 0, "mass_flow": 1, "h_in": 0, "h_out": 1, "comp_inletArea": 1})
	if !errors.Is(err, mdo.ErrNumericDomain) {
		t.Fatalf("err = %v, want ErrNumericDomain", err)
	}
}

func TestMagMassInductrack(t *testing.T) {
	out := solve(t, &MagMass{}, nil)
	// w_mag * l_pod * gamma = 3 * 22 * 1
	if out["mag_area"] != 66.0 {
		t.Errorf("mag_area = %f, want 66", out["mag_area"])
	}
	if out["m_mag"] != 74250.0 {
		t.Errorf("m_mag = %f, want 74250", out["m_mag"])
	}
	if out["cost"] != 74250.0*44.0 {
		t.Errorf("cost = %f, want %f", out["cost"], 74250.0*44.0)
	}
}

func TestBreakPointDragZeroVelocity(t *testing.T) {
	out := solve(t, &BreakPointDrag{}, map[string]float64{"vel_b": 0})
	for _, name := range []string{"omegab", "fyu", "fxu", "ld_ratio"} {
		if out[name] != 0.0 {
			t.Errorf("%s = %v at vel_b=0, want exactly 0", name, out[name])
		}
	}
	// the static track properties are still computed
	if out["track_res"] == 0 || out["track_ind"] == 0 || out["b0"] == 0 {
		t.Errorf("track properties should be nonzero at vel_b=0: %v", out)
	}
}

func TestMagDragBradleyRegression(t *testing.T) {
	out := solve(t, &MagDrag{}, map[string]float64{
		"vel":       23,
		"track_res": 0.019269,
		"track_ind": 3.59023e-6,
		"fyu":       29430.0,
		"lam":       0.125658,
	})
	if !relClose(out["mag_drag"], 137342.0, 0.001) {
		t.Errorf("mag_drag = %f, want 137342", out["mag_drag"])
	}
}

func TestMagDragZeroWavelength(t *testing.T) {
	m := &MagDrag{}
	_, err := m.Solve(mdo.Params{"vel": 1, "track_res": 1, "track_ind": 1, "fyu": 1, "lam": 0})
	if !errors.Is(err, mdo.ErrNumericDomain) {
		t.Fatalf("err = %v, want ErrNumericDomain", err)
	}
}

func TestPodMassRollup(t *testing.T) {
	out := solve(t, &PodMass{}, map[string]float64{
		"mag_mass":       1.0,
		"podgeo_d":       1.0,
		"al_rho":         2800.0,
		"motor_mass":     1.0,
		"battery_mass":   1.0,
		"comp_mass":      1.0,
		"pod_len":        1.0,
		"comp_inletArea": 1.0,
	})
	want := 4.0 + math.Pi*0.25*2800.0
	if !relClose(out["pod_mass"], want, 1e-9) {
		t.Errorf("pod_mass = %f, want %f", out["pod_mass"], want)
	}
	if out["BF"] != 4.0 {
		t.Errorf("BF = %f, want 4", out["BF"])
	}
}

func TestThrustCircuitModel(t *testing.T) {
	out := solve(t, &Thrust{}, nil)

	wantSlip := (16.31 - 15.5) / 16.31
	if !relClose(out["slip_ratio"], wantSlip, 1e-9) {
		t.Errorf("slip_ratio = %f, want %f", out["slip_ratio"], wantSlip)
	}
	wantReact := 2.0 * math.Pi * 60.0 * 0.0017
	if !relClose(out["reactance_of_inductor"], wantReact, 1e-9) {
		t.Errorf("reactance = %f, want %f", out["reactance_of_inductor"], wantReact)
	}
	wantA := math.Sqrt(180000.0 / (2.0 * 15000.0 * 2.0))
	if !relClose(out["a"], wantA, 1e-9) {
		t.Errorf("a = %f, want %f", out["a"], wantA)
	}
	if out["phi"] <= 0 || out["phi"] > math.Pi/2 {
		t.Errorf("phi = %f, want in (0, pi/2]", out["phi"])
	}
	if out["thrust"] <= 0 {
		t.Errorf("thrust = %f, want > 0", out["thrust"])
	}
}

func TestThrustZeroSynchronousVelocity(t *testing.T) {
	th := &Thrust{}
	_, err := th.Solve(mdo.Params{
		"R1": 1, "R2": 1, "P1": 1, "X_m": 1, "m": 3, "V1": 1,
		"V_s": 0, "V_r": 1, "f": 60, "L": 0.001, "c_time": 1, "mass": 1,
	})
	if !errors.Is(err, mdo.ErrNumericDomain) {
		t.Fatalf("err = %v, want ErrNumericDomain", err)
	}
}

func TestTubePower(t *testing.T) {
	out := solve(t, &TubePower{}, map[string]float64{"vac_power": 120.0, "prop_power": 80.0})
	if out["tot_power"] != 200.0 {
		t.Errorf("tot_power = %f, want 200", out["tot_power"])
	}
}
