package tally

import (
	"math"
	"testing"
)

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-12 }

func TestTallyPairNewtonOn(t *testing.T) {
	a := New(1)
	a.Setup(allFlags, 4, 2, 6, true)

	// j is a ghost; with newton on it still gets the full treatment
	a.TallyPair(0, 1, 5, 4, true, allFlags, 2.0, 0.5, 3.0, 1.0, 0, 0)

	s := &a.slots[0]
	if !almost(s.engVdwl, 2.0) || !almost(s.engCoul, 0.5) {
		t.Errorf("global energy: vdwl=%f coul=%f", s.engVdwl, s.engCoul)
	}

	eatom := s.eatom.Data()
	if !almost(eatom[1], 1.25) || !almost(eatom[5], 1.25) {
		t.Errorf("per-atom halves: eatom[1]=%f eatom[5]=%f", eatom[1], eatom[5])
	}
}

func TestTallyPairNewtonOffGhost(t *testing.T) {
	a := New(1)
	a.Setup(allFlags, 2, 2, 4, false)

	// i local, j ghost: only i's half counts
	a.TallyPair(0, 0, 2, 2, false, allFlags, 2.0, 0, 1.0, 1.0, 0, 0)

	s := &a.slots[0]
	if !almost(s.engVdwl, 1.0) {
		t.Errorf("expected half energy 1.0, got %f", s.engVdwl)
	}

	eatom := s.eatom.Data()
	if !almost(eatom[0], 1.0) {
		t.Errorf("expected eatom[0]=1.0, got %f", eatom[0])
	}
	if eatom[2] != 0 {
		t.Errorf("ghost endpoint accumulated: eatom[2]=%f", eatom[2])
	}
}

func TestTallyPairNewtonOffBothLocal(t *testing.T) {
	a := New(1)
	a.Setup(allFlags, 4, 0, 4, false)

	a.TallyPair(0, 0, 1, 4, false, allFlags, 2.0, 0, 1.0, 1.0, 0, 0)

	// both halves land, so the total is the full value
	if !almost(a.slots[0].engVdwl, 2.0) {
		t.Errorf("expected full energy 2.0, got %f", a.slots[0].engVdwl)
	}
}

func TestTallyPairVirialComponents(t *testing.T) {
	a := New(1)
	a.Setup(allFlags, 4, 0, 4, true)

	fpair := 2.0
	dx, dy, dz := 1.0, 2.0, 3.0
	a.TallyPair(0, 0, 1, 4, true, allFlags, 0, 0, fpair, dx, dy, dz)

	want := [6]float64{
		dx * dx * fpair,
		dy * dy * fpair,
		dz * dz * fpair,
		dx * dy * fpair,
		dx * dz * fpair,
		dy * dz * fpair,
	}
	for k := 0; k < 6; k++ {
		if !almost(a.slots[0].virial[k], want[k]) {
			t.Errorf("virial[%d]: expected %f, got %f", k, want[k], a.slots[0].virial[k])
		}
		half := 0.5 * want[k]
		if !almost(a.slots[0].vatom.Data()[0][k], half) ||
			!almost(a.slots[0].vatom.Data()[1][k], half) {
			t.Errorf("vatom[%d] halves wrong", k)
		}
	}
}

func TestTallyPairFlagsIndependent(t *testing.T) {
	// per-atom virial only: nothing else may move
	a := New(1)
	f := Flags{PerAtomVirial: true}
	a.Setup(Flags{GlobalEnergy: true, GlobalVirial: true, PerAtomEnergy: true, PerAtomVirial: true}, 4, 0, 4, true)

	a.TallyPair(0, 0, 1, 4, true, f, 2.0, 1.0, 3.0, 1.0, 0, 0)

	s := &a.slots[0]
	if s.engVdwl != 0 || s.engCoul != 0 {
		t.Errorf("global energy accumulated without the flag")
	}
	if s.virial[0] != 0 {
		t.Errorf("global virial accumulated without the flag")
	}
	if s.eatom.Data()[0] != 0 {
		t.Errorf("per-atom energy accumulated without the flag")
	}
	if s.vatom.Data()[0][0] == 0 {
		t.Errorf("per-atom virial not accumulated")
	}
}

func TestTallyPairWritesOnlyOwnSlot(t *testing.T) {
	a := New(3)
	a.Setup(allFlags, 4, 0, 4, true)

	a.TallyPair(1, 0, 1, 4, true, allFlags, 2.0, 0, 1.0, 1.0, 0, 0)

	for tid := 0; tid < 3; tid++ {
		got := a.slots[tid].engVdwl
		if tid == 1 && !almost(got, 2.0) {
			t.Errorf("slot 1 missing its tally: %f", got)
		}
		if tid != 1 && got != 0 {
			t.Errorf("slot %d touched by another thread's tally: %f", tid, got)
		}
	}
}

func TestTallyBond(t *testing.T) {
	a := New(1)
	a.Setup(allFlags, 4, 0, 4, true)

	a.TallyBond(0, 0, 1, 4, true, allFlags, 3.0, 2.0, 1.0, 0, 0)

	s := &a.slots[0]
	if !almost(s.engBond, 3.0) {
		t.Errorf("expected bond energy 3.0, got %f", s.engBond)
	}
	if s.engVdwl != 0 || s.engCoul != 0 {
		t.Errorf("bond tally leaked into pair energies")
	}
	eatom := s.eatom.Data()
	if !almost(eatom[0], 1.5) || !almost(eatom[1], 1.5) {
		t.Errorf("bond per-atom halves: %f %f", eatom[0], eatom[1])
	}
	if !almost(s.virial[0], 2.0) {
		t.Errorf("bond virial xx: expected 2.0, got %f", s.virial[0])
	}
}

func TestTallyBondNewtonOffGhostEndpoint(t *testing.T) {
	a := New(1)
	a.Setup(allFlags, 2, 1, 3, false)

	a.TallyBond(0, 0, 2, 2, false, allFlags, 4.0, 1.0, 1.0, 0, 0)

	if !almost(a.slots[0].engBond, 2.0) {
		t.Errorf("expected half bond energy 2.0, got %f", a.slots[0].engBond)
	}
}
