package space

import (
	"testing"

	vector "diesel.com/sphtask/vector"
)

// countTasksByType walks the live task arena, same package so no exported
// accessor is needed (S1/S3 in SPEC_FULL.md §8). Force twins are skipped, so
// self/pair/sub counts are those of the density phase.
func (s *Space) countTasksByType() map[TaskType]int {
	counts := map[TaskType]int{}
	for i := 0; i < s.tasks.len(); i++ {
		t := s.tasks.get(TaskHandle(i))
		if t.Subtype == SubtypeForce {
			continue
		}
		counts[t.Type]++
	}
	return counts
}

// S1: single cell, four particles all h=0.1, dim=[1,1,1], cellMax=0.5,
// non-periodic -- expect cdim=[2,2,2] with exactly one self task and zero
// pair tasks, since four particles packed at the origin land in one
// top-level slot.
func TestScenarioSingleCellFourParticles(t *testing.T) {
	parts := []Particle{
		{X: vector.Vec64{0.01, 0.01, 0.01}, H: 0.1, Mass: 1},
		{X: vector.Vec64{0.02, 0.01, 0.01}, H: 0.1, Mass: 1},
		{X: vector.Vec64{0.01, 0.02, 0.01}, H: 0.1, Mass: 1},
		{X: vector.Vec64{0.01, 0.01, 0.02}, H: 0.1, Mass: 1},
	}
	sp, err := Init(vector.Vec64{1, 1, 1}, parts, false, 0.5, smallTunables(), Callbacks{}, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	if sp.Cdim != [3]int{2, 2, 2} {
		t.Errorf("expected cdim=[2,2,2], got %v", sp.Cdim)
	}

	counts := sp.countTasksByType()
	if counts[TaskSelf] != 1 {
		t.Errorf("expected exactly one self task, got %d", counts[TaskSelf])
	}
	if counts[TaskPair] != 0 {
		t.Errorf("expected zero pair tasks, got %d", counts[TaskPair])
	}
}

// S3: 800 particles with h=0.05 packed into one top-level cell of side 0.5,
// split_size=400 and split_ratio=0.5 -- the cell must split into 8 children.
func TestScenarioSplitTrigger(t *testing.T) {
	cfg := Tunables{
		SplitSize:      400,
		SplitRatio:     0.5,
		SubSize:        2,
		Stretch:        1.0,
		CellAllocChunk: 256,
		Workers:        4,
	}

	parts := make([]Particle, 800)
	for i := range parts {
		frac := float64(i) / float64(len(parts))
		parts[i] = Particle{
			X:    vector.Vec64{frac * 0.49, frac * 0.49, frac * 0.49},
			H:    0.05,
			Mass: 1,
		}
	}

	sp, err := Init(vector.Vec64{0.5, 0.5, 0.5}, parts, false, 0.5, cfg, Callbacks{}, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	var top *Cell
	for _, h := range sp.topCells {
		if h != NoCell {
			top = sp.cells.get(h)
			break
		}
	}
	if top == nil {
		t.Fatal("expected a non-empty top cell")
	}
	if !top.Split {
		t.Fatal("expected the over-populated top cell to split")
	}
	for oct, p := range top.Progeny {
		if p == NoCell {
			t.Errorf("expected progeny slot %d to be populated", oct)
		}
	}
}

// S6: perturbing particle positions by a tiny fraction of the cell side and
// rebuilding with force=false must not report a shape change, unless a cell
// crosses the split threshold -- it doesn't here.
func TestScenarioRebuildStableUnderSmallPerturbation(t *testing.T) {
	parts := latticeParticles(5, 0.3)
	sp, err := Init(vector.Vec64{3, 3, 3}, parts, false, 0.3, smallTunables(), Callbacks{}, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	cellSide := sp.H[0]
	jitter := cellSide * 0.005 // well under 0.01*cellSide

	for i := range sp.parts {
		sp.parts[i].X[0] += jitter
	}

	changed, err := sp.Rebuild(false, 0)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if changed {
		t.Errorf("expected no shape change under a sub-threshold perturbation")
	}
}

// Periodic wrap: two particles sitting on opposite faces of a periodic
// domain must land in neighbouring top cells joined by a pair task, not be
// treated as unrelated ends of the grid.
func TestScenarioPeriodicWrapProducesPairTask(t *testing.T) {
	cfg := smallTunables()
	cfg.SplitSize = 1000 // keep both top cells unsplit

	parts := []Particle{
		{X: vector.Vec64{0.05, 0.5, 0.5}, H: 0.2, Mass: 1},
		{X: vector.Vec64{0.95, 0.5, 0.5}, H: 0.2, Mass: 1},
	}

	sp, err := Init(vector.Vec64{1, 1, 1}, parts, true, 0.2, cfg, Callbacks{}, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	counts := sp.countTasksByType()
	if counts[TaskPair] == 0 {
		t.Fatal("expected a wrap pair task joining the two seam cells")
	}
}
