// Package app drives the SPH engine through fixed timesteps: rebuild the
// cell tree on its own interval, execute the task graph, integrate every
// particle, and resolve boundary collisions -- the same loop shape
// DSLFluidRenderer.Run advanced an OpenGL window with, stripped of GLFW
// and the vertex-buffer sync since nothing here renders.
package app

import (
	"context"
	"log/slog"
	"time"

	"diesel.com/sphtask/boundary"
	"diesel.com/sphtask/physics"
	"diesel.com/sphtask/space"
	vector "diesel.com/sphtask/vector"
)

// Config seeds a Driver: the domain, the fluid's material constants, the
// fixed timestep, and an optional wall collider. Reduced from the
// original DslFlConfig to what a headless driver needs.
type Config struct {
	Dim      vector.Vec64
	Periodic bool
	HMax     float64
	Material physics.Material
	TimeStep float32
	Collider *boundary.Collider // nil disables wall reflection

	RebuildInterval time.Duration // how often to re-check the cell tree's shape
}

// timer tracks wall-clock sync points the way AnimationTimer did for the
// GL loop, minus the fields that only meant anything to the renderer.
type timer struct {
	start       time.Time
	lastRebuild time.Time
}

// Driver owns a Space, its physics Collaborator, and the fixed-timestep
// loop that advances them.
type Driver struct {
	Space    *space.Space
	Collab   *physics.Collaborator
	Collider *boundary.Collider

	dt              float32
	rebuildInterval time.Duration
	anim            timer
	log             *slog.Logger

	Tick int // completed step count
}

// NewDriver builds the Space over parts and wires the Collaborator's
// callbacks into it, performing the first forced rebuild via space.Init.
func NewDriver(parts []space.Particle, cfg Config, tun space.Tunables, log *slog.Logger) (*Driver, error) {
	collab := physics.NewCollaborator(cfg.Material)
	sp, err := space.Init(cfg.Dim, parts, cfg.Periodic, cfg.HMax, tun, collab.Callbacks(), log)
	if err != nil {
		return nil, err
	}

	interval := cfg.RebuildInterval
	if interval <= 0 {
		interval = time.Duration(float64(cfg.TimeStep) * float64(time.Second))
	}

	now := time.Now()
	return &Driver{
		Space:           sp,
		Collab:          collab,
		Collider:        cfg.Collider,
		dt:              cfg.TimeStep,
		rebuildInterval: interval,
		anim:            timer{start: now, lastRebuild: now},
		log:             log,
	}, nil
}

// Step advances the simulation by one fixed timestep (§6, §8 S1-S8):
// rebuild the tree if its shape moved and the rebuild interval elapsed,
// run the density/force task graph, integrate every particle, and
// resolve boundary collisions.
func (d *Driver) Step(ctx context.Context) error {
	if time.Since(d.anim.lastRebuild) >= d.rebuildInterval {
		if _, err := d.Space.Rebuild(false, 0); err != nil {
			return err
		}
		d.anim.lastRebuild = time.Now()
	}

	if err := d.Space.Run(ctx); err != nil {
		return err
	}

	parts := d.Space.Particles()
	for i := range parts {
		p := &parts[i]
		physics.Integrate(p, d.dt)
		if d.Collider != nil {
			d.Collider.Reflect(p)
		}
	}

	d.Tick++
	return nil
}

// Run drives steps fixed timesteps, returning on the first error or ctx
// cancellation (scene.go's "for !ShouldClose()" loop, minus the window).
func (d *Driver) Run(ctx context.Context, steps int) error {
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := d.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}
