package space

import (
	"math/rand"
	"sort"
	"testing"
)

func TestSortPartsByBinSmall(t *testing.T) {
	ind := []int{5, 3, 4, 1, 2, 0}
	parts := make([]Particle, len(ind))
	for i := range parts {
		parts[i].H = float32(ind[i]) // tag each particle with its starting bin
	}

	sortPartsByBin(parts, ind, 0, len(ind))

	if !sort.IntsAreSorted(ind) {
		t.Fatalf("expected sorted bin indices, got %v", ind)
	}
	for i, p := range parts {
		if int(p.H) != ind[i] {
			t.Errorf("index %d: particle tag %v doesn't match its bin %d after sort", i, p.H, ind[i])
		}
	}
}

func TestSortPartsByBinLargeConcurrentPath(t *testing.T) {
	n := 4 * partsSortThreshold
	ind := make([]int, n)
	parts := make([]Particle, n)
	rng := rand.New(rand.NewSource(1))
	for i := range ind {
		ind[i] = rng.Intn(1000)
		parts[i].H = float32(ind[i])
	}

	sortPartsByBin(parts, ind, 0, n)

	if !sort.IntsAreSorted(ind) {
		t.Fatal("expected sorted bin indices after concurrent sort")
	}
	for i, p := range parts {
		if int(p.H) != ind[i] {
			t.Fatalf("index %d: particle/bin desync after concurrent sort", i)
		}
	}
}
