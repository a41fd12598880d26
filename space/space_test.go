package space

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vector "diesel.com/sphtask/vector"
)

func smallTunables() Tunables {
	return Tunables{
		SplitSize:      4,
		SplitRatio:     0.5,
		SubSize:        2,
		Stretch:        1.5,
		CellAllocChunk: 32,
		Workers:        4,
	}
}

func latticeParticles(cu int, step float64) []Particle {
	parts := make([]Particle, 0, cu*cu*cu)
	for i := 0; i < cu; i++ {
		for j := 0; j < cu; j++ {
			for k := 0; k < cu; k++ {
				parts = append(parts, Particle{
					X:    vector.Vec64{float64(i) * step, float64(j) * step, float64(k) * step},
					H:    float32(step),
					Mass: 1,
				})
			}
		}
	}
	return parts
}

func TestInitRejectsEmptyParticleSet(t *testing.T) {
	_, err := Init(vector.Vec64{1, 1, 1}, nil, false, 0.1, smallTunables(), Callbacks{}, nil)
	require.Error(t, err)
}

func TestInitBuildsNonEmptyGraph(t *testing.T) {
	parts := latticeParticles(6, 0.2)
	sp, err := Init(vector.Vec64{2, 2, 2}, parts, false, 0.2, smallTunables(), Callbacks{}, nil)
	require.NoError(t, err)

	assert.Greater(t, sp.NrCells(), 1)
	assert.Greater(t, sp.NrTasks(), 0)
	assert.Len(t, sp.Particles(), len(parts))
}

func TestRunInvokesDensityForceAndGhost(t *testing.T) {
	parts := latticeParticles(6, 0.2)

	var densityCalls, forceCalls, ghostCalls int64
	cb := Callbacks{
		Density: func(ci, cj *CellView) {
			atomic.AddInt64(&densityCalls, 1)
			for i := range ci.Parts {
				ci.Parts[i].Density += 1
			}
			if cj != nil {
				for i := range cj.Parts {
					cj.Parts[i].Density += 1
				}
			}
		},
		Force: func(ci, cj *CellView) {
			atomic.AddInt64(&forceCalls, 1)
		},
		Ghost: func(c *CellView) {
			atomic.AddInt64(&ghostCalls, 1)
		},
	}

	sp, err := Init(vector.Vec64{2, 2, 2}, parts, false, 0.2, smallTunables(), cb, nil)
	require.NoError(t, err)

	require.NoError(t, sp.Run(context.Background()))

	assert.Greater(t, int(atomic.LoadInt64(&densityCalls)), 0)
	assert.Greater(t, int(atomic.LoadInt64(&ghostCalls)), 0)

	for i, p := range sp.Particles() {
		assert.Greaterf(t, p.Density, float32(0), "particle %d never received a density contribution", i)
	}
}

func TestRebuildIsIdempotentWithoutShapeChange(t *testing.T) {
	parts := latticeParticles(4, 0.2)
	sp, err := Init(vector.Vec64{2, 2, 2}, parts, false, 0.2, smallTunables(), Callbacks{}, nil)
	require.NoError(t, err)

	changed, err := sp.Rebuild(false, 0)
	require.NoError(t, err)
	assert.False(t, changed, "expected no shape change on an immediate re-rebuild")
}
