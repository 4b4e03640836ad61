package store

import (
	"testing"
)

func TestStoreSaveLoad(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	meta := RunMetadata{
		Model:       "lev-opt",
		Optimizer:   "compass",
		Objective:   "obj_cmp.obj",
		Best:        1234.5,
		Iterations:  42,
		Evaluations: 131,
		Converged:   true,
		DesignVars:  map[string]float64{"mag_thk": 0.031, "gamma": 0.62},
	}
	history := []float64{9000, 4000, 2000, 1234.5}

	runID, err := s.Save(meta, history)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	loaded, err := s.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Model != "lev-opt" || loaded.Optimizer != "compass" {
		t.Errorf("metadata mismatch: %+v", loaded)
	}
	if loaded.Best != 1234.5 || loaded.Iterations != 42 || !loaded.Converged {
		t.Errorf("result fields mismatch: %+v", loaded)
	}
	if loaded.DesignVars["mag_thk"] != 0.031 {
		t.Errorf("design vars mismatch: %+v", loaded.DesignVars)
	}

	hist, err := s.History(runID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 4 || hist[0] != 9000 || hist[3] != 1234.5 {
		t.Errorf("history mismatch: %v", hist)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != runID {
		t.Errorf("list mismatch: %+v", runs)
	}
}

func TestStoreListEmpty(t *testing.T) {
	s := New(t.TempDir() + "/nonexistent")
	runs, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
