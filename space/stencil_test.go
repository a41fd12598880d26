package space

import "testing"

func TestSortlistIDSelfSymmetric(t *testing.T) {
	for raw := 0; raw < 27; raw++ {
		if sortlistID[raw] != sortlistID[26-raw] {
			t.Errorf("sortlistID[%d]=%d != sortlistID[%d]=%d, expected self-symmetry",
				raw, sortlistID[raw], 26-raw, sortlistID[26-raw])
		}
	}
}

func TestSortDirSelfIsZero(t *testing.T) {
	if got := sortDir(0, 0, 0); got != 0 {
		t.Errorf("sortDir(0,0,0) = %d, want 0", got)
	}
}

func TestSortDirOppositeOffsetsShareDirection(t *testing.T) {
	// (1,0,0) and (-1,0,0) describe the same pair axis from either side.
	a := sortDir(1, 0, 0)
	b := sortDir(-1, 0, 0)
	if a != b {
		t.Errorf("expected opposite offsets to fold to the same direction, got %d and %d", a, b)
	}
}

func TestPairSplitTableCoversAllDirections(t *testing.T) {
	if len(pairSplitTable) != 13 {
		t.Fatalf("expected 13 stencil directions, got %d", len(pairSplitTable))
	}
	for sid, entries := range pairSplitTable {
		if len(entries) == 0 {
			t.Errorf("direction %d has no grandchild pairs", sid)
		}
		for _, e := range entries {
			if e.CiProgeny < 0 || e.CiProgeny > 7 || e.CjProgeny < 0 || e.CjProgeny > 7 {
				t.Errorf("direction %d: progeny index out of range: %+v", sid, e)
			}
			if e.CiDir < 0 || e.CiDir > 12 || e.CjDir < 0 || e.CjDir > 12 {
				t.Errorf("direction %d: stencil direction out of range: %+v", sid, e)
			}
		}
	}
}

func TestChildPairDirsShape(t *testing.T) {
	if len(childPairDirs) != 7 {
		t.Fatalf("expected 7 rows (progeny 0..6 paired against 1..7), got %d", len(childPairDirs))
	}
	for i, row := range childPairDirs {
		if len(row) != 8 {
			t.Errorf("row %d: expected 8 columns, got %d", i, len(row))
		}
	}
}

func TestDirectionVectorsAreNonZero(t *testing.T) {
	for d, v := range directionVector {
		mag := v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
		if mag == 0 {
			t.Errorf("direction %d has a zero vector", d)
		}
	}
}
