package space

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
)

// run drains the current task graph on cfg.Workers persistent worker
// goroutines (§4.4), following the startWorkers/worker channel shape of
// pthm-soup/game/parallel.go: a buffered channel of ready task handles
// feeds the workers, a sync.WaitGroup tracks them, and an atomic
// remaining-task counter gates termination instead of a fixed chunk
// count.
func (s *Space) run(ctx context.Context) error {
	total := s.tasks.len()
	if total == 0 {
		return nil
	}

	ready := make(chan TaskHandle, total+1)
	var remaining int64
	for h := 0; h < total; h++ {
		task := s.tasks.get(TaskHandle(h))
		if task.Type == TaskNone {
			continue
		}
		remaining++
		if atomic.LoadInt32(&task.Wait) == 0 {
			ready <- TaskHandle(h)
		}
	}
	if remaining == 0 {
		return nil
	}

	done := make(chan struct{})
	var doneOnce sync.Once
	finish := func() { doneOnce.Do(func() { close(done) }) }

	var errOnce sync.Once
	var firstErr error
	setErr := func(err error) {
		errOnce.Do(func() { firstErr = err })
		finish()
	}

	var wg sync.WaitGroup
	for w := 0; w < s.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				case <-ctx.Done():
					setErr(ctx.Err())
					return
				case h := <-ready:
					completed, err := s.runTask(h, ready)
					if err != nil {
						setErr(err)
						return
					}
					if completed && atomic.AddInt64(&remaining, -1) == 0 {
						finish()
					}
				}
			}
		}()
	}
	wg.Wait()
	return firstErr
}

// runTask try-locks the task's acting cells in ascending handle order,
// executes its body, releases the locks, and pushes any successor whose
// wait count reaches zero back onto ready. On lock contention it
// releases whatever it acquired and requeues itself without executing
// (§4.4 "Cell locking").
func (s *Space) runTask(h TaskHandle, ready chan<- TaskHandle) (bool, error) {
	task := s.tasks.get(h)

	cellsToLock := dedupCells(task.UnlockCells)
	acquired := make([]CellHandle, 0, len(cellsToLock))
	for _, ch := range cellsToLock {
		if !s.cells.get(ch).lock.tryLock() {
			for _, done := range acquired {
				s.cells.get(done).lock.unlock()
			}
			ready <- h
			return false, nil
		}
		acquired = append(acquired, ch)
	}

	if err := s.execTask(task); err != nil {
		for _, ch := range acquired {
			s.cells.get(ch).lock.unlock()
		}
		return false, err
	}

	for _, ch := range acquired {
		s.cells.get(ch).lock.unlock()
	}

	for _, succ := range task.UnlockTasks {
		st := s.tasks.get(succ)
		if st.Type == TaskNone {
			continue
		}
		if atomic.AddInt32(&st.Wait, -1) == 0 {
			ready <- succ
		}
	}
	return true, nil
}

func dedupCells(cells []CellHandle) []CellHandle {
	if len(cells) < 2 {
		return cells
	}
	out := append([]CellHandle(nil), cells...)
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	dedup := out[:1]
	for _, c := range out[1:] {
		if c != dedup[len(dedup)-1] {
			dedup = append(dedup, c)
		}
	}
	return dedup
}

// execTask invokes the registered Callback for a density/force task, the
// optional Ghost callback for a pure sync node, or performs the
// directional sort a TaskSort represents.
func (s *Space) execTask(task *Task) error {
	switch task.Type {
	case TaskGhost:
		if s.cb.Ghost != nil {
			ci := s.cells.get(task.Ci)
			s.cb.Ghost(s.cellView(ci.PartsOff, ci.PartsLen))
		}
	case TaskSort:
		s.sortCell(task)
	case TaskSelf, TaskPair, TaskSub:
		ci := s.cells.get(task.Ci)
		civ := s.cellView(ci.PartsOff, ci.PartsLen)
		var cjv *CellView
		if task.Cj != NoCell {
			cj := s.cells.get(task.Cj)
			cjv = s.cellView(cj.PartsOff, cj.PartsLen)
		}
		if task.Subtype == SubtypeForce {
			if s.cb.Force != nil {
				s.cb.Force(civ, cjv)
			}
		} else if s.cb.Density != nil {
			s.cb.Density(civ, cjv)
		}
	default:
		return InvariantError.New("runTask: unexpected live task type %s", task.Type)
	}
	return nil
}

// sortCell produces, for every direction flagged in task.Flags, a
// projected-distance-ordered permutation of the cell's local particles
// (§4.2, resolving Open Question 1 via (distance, index) total order).
func (s *Space) sortCell(task *Task) {
	c := s.cells.get(task.Ci)
	for d := 0; d < 13; d++ {
		if task.Flags&(1<<uint(d)) == 0 {
			continue
		}
		c.SortIdx[d] = s.sortDirection(c, d)
	}
}

func (s *Space) sortDirection(c *Cell, d int) []int32 {
	n := c.PartsLen
	idx := make([]int32, n)
	dist := make([]float64, n)
	vec := directionVector[d]
	center := [3]float64{
		c.Loc[0] + c.H[0]/2,
		c.Loc[1] + c.H[1]/2,
		c.Loc[2] + c.H[2]/2,
	}
	for i := 0; i < n; i++ {
		p := &s.parts[c.PartsOff+i]
		dist[i] = (p.X[0]-center[0])*vec[0] + (p.X[1]-center[1])*vec[1] + (p.X[2]-center[2])*vec[2]
		idx[i] = int32(i)
	}
	sort.Slice(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if dist[ia] != dist[ib] {
			return dist[ia] < dist[ib]
		}
		return ia < ib
	})
	return idx
}
