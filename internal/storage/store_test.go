package storage

import (
	"math"
	"testing"

	"github.com/kmadler/mdthr/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Times:      []float64{0, 0.005, 0.01},
		Pot:        []float64{-6.0, -5.9, -5.8},
		Kin:        []float64{2.0, 1.9, 1.8},
		Temp:       []float64{1.44, 1.40, 1.36},
		Press:      []float64{3.1, 3.0, 2.9},
		StepsTaken: 2,
		Metrics: map[string]float64{
			"pot_energy":   -5.8,
			"energy_drift": 0.001,
		},
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(27, 4, true, 0.005, 2, 42, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Atoms != 27 || meta.Threads != 4 || !meta.Newton {
		t.Errorf("metadata wrong: %+v", meta)
	}
	if meta.Metrics["energy_drift"] != 0.001 {
		t.Errorf("metrics not preserved: %v", meta.Metrics)
	}
}

func TestList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected empty store, got %d runs", len(runs))
	}

	if _, err := st.Save(27, 1, true, 0.005, 2, 42, sampleResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestListMissingDir(t *testing.T) {
	st := New(t.TempDir() + "/nope")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("missing base dir should not error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoadThermo(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	want := sampleResult()
	runID, err := st.Save(27, 1, true, 0.005, 2, 42, want)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	th, err := st.LoadThermo(runID)
	if err != nil {
		t.Fatalf("load thermo failed: %v", err)
	}

	if len(th.Times) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(th.Times))
	}
	for i := range want.Times {
		if math.Abs(th.Pot[i]-want.Pot[i]) > 1e-6 {
			t.Errorf("row %d pot: expected %f, got %f", i, want.Pot[i], th.Pot[i])
		}
		if math.Abs(th.Press[i]-want.Press[i]) > 1e-6 {
			t.Errorf("row %d press: expected %f, got %f", i, want.Press[i], th.Press[i])
		}
	}
}

func TestLoadUnknownRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("run_0"); err == nil {
		t.Errorf("expected an error for an unknown run")
	}
	if _, err := st.LoadThermo("run_0"); err == nil {
		t.Errorf("expected an error for an unknown run")
	}
}
