// Package space implements the adaptive cell tree, task generator, and
// worker-pool scheduler at the core of the SPH engine. Everything a
// physics collaborator needs is reached through Callbacks and CellView;
// nothing in this package understands density, pressure, or force.
package space

import (
	"context"
	"log/slog"
	"sync"

	vector "diesel.com/sphtask/vector"
)

// CellView is the read/write handle a Callbacks implementation receives.
// It exposes exactly the contiguous particle slices a kernel sweep needs
// and nothing about scheduler internals (§6.2).
type CellView struct {
	Parts  []Particle
	CParts []CPart
}

// Callbacks are the external collaborators invoked as tasks execute
// (§6.2). Ghost may be nil.
type Callbacks struct {
	Density func(ci, cj *CellView)
	Force   func(ci, cj *CellView)
	Ghost   func(c *CellView)
}

// Space is the root container (§3.4): domain, grid, particle arrays, cell
// and task arenas, tunables, and the registered physics collaborators.
type Space struct {
	Dim      vector.Vec64
	Periodic bool
	Cdim     [3]int
	H        vector.Vec64
	Ih       vector.Vec64
	HMin     float32
	HMax     float32
	MaxDepth int

	parts  []Particle
	cparts []CPart

	cells    *cellArena
	tasks    *taskArena
	topCells []CellHandle // one handle per top-level grid slot

	sortTasks    []TaskHandle // every sort task created this build, for the cleanup sweep
	densityTasks []TaskHandle // every leaf self/pair/sub density task, for ghost/twin wiring

	cb  Callbacks
	cfg Tunables
	log *slog.Logger

	mu sync.Mutex // protects addTask/cell allocation only, per §9.
}

// Init constructs a Space over parts (§6): validates N>0, computes hMin/hMax,
// and performs the first forced Rebuild.
func Init(dim vector.Vec64, parts []Particle, periodic bool, hMax float64, cfg Tunables, cb Callbacks, logger *slog.Logger) (*Space, error) {
	if len(parts) == 0 {
		return nil, ConfigError.New("space: N=0 is rejected")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Space{
		Dim:      dim,
		Periodic: periodic,
		parts:    parts,
		cparts:   make([]CPart, len(parts)),
		cells:    newCellArena(cfg.CellAllocChunk),
		tasks:    newTaskArena(cfg.CellAllocChunk),
		cb:       cb,
		cfg:      cfg,
		log:      logger,
	}

	if _, err := s.Rebuild(true, hMax); err != nil {
		return nil, err
	}
	return s, nil
}

// Rebuild re-derives the cell tree and, if it changed shape, the task
// graph (§4.1, §6). cellMax is a lower bound on the top-level cell edge:
// the edge is the larger of cellMax and h_max*stretch.
func (s *Space) Rebuild(force bool, cellMax float64) (changes bool, err error) {
	changes, err = s.rebuild(force, cellMax)
	if err != nil {
		return false, err
	}
	if changes {
		if err := s.buildGraph(); err != nil {
			return false, err
		}
	}
	s.log.Debug("space rebuild", "changes", changes, "cells", s.cells.len(), "tasks", s.tasks.len())
	return changes, nil
}

// Run drains the current task graph on Tunables.Workers worker goroutines
// (§4.4, §6). It returns when the graph is fully executed, ctx is
// cancelled between task pops, or an invariant/resource error occurs.
func (s *Space) Run(ctx context.Context) (err error) {
	return s.run(ctx)
}

// NrCells reports the number of cell slots in the arena, including
// recycled cells waiting on the free-list, for tests and diagnostics.
func (s *Space) NrCells() int { return s.cells.len() }

// NrTasks reports the number of tasks in the arena, including tasks
// superseded or pruned to TaskNone, for tests and diagnostics.
func (s *Space) NrTasks() int { return s.tasks.len() }

// Particles exposes the backing particle slice. Callers must not retain
// slices across a Rebuild.
func (s *Space) Particles() []Particle { return s.parts }

func (s *Space) cellView(off, ln int) *CellView {
	return &CellView{Parts: s.parts[off : off+ln], CParts: s.cparts[off : off+ln]}
}
