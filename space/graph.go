package space

// buildGraph regenerates the task graph for the current cell tree
// (§4.2-4.3): per-cell directional sorts, the top-level self/pair base
// graph, recursive refinement of every self/pair task, the sort cleanup
// sweep, ghost/super wiring, and force twins. Called by Rebuild only
// when the tree actually changed shape.
func (s *Space) buildGraph() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tasks.reset(); err != nil {
		return err
	}
	s.sortTasks = s.sortTasks[:0]
	s.densityTasks = s.densityTasks[:0]

	for _, h := range s.topCells {
		if err := s.buildSorts(h); err != nil {
			return err
		}
	}

	worklist, err := s.buildBaseGraph()
	if err != nil {
		return err
	}
	for idx := 0; idx < len(worklist); idx++ {
		extra, err := s.splitTask(worklist[idx])
		if err != nil {
			return err
		}
		worklist = append(worklist, extra...)
	}

	s.pruneEmptySorts()

	for _, h := range s.topCells {
		if err := s.buildGhosts(h); err != nil {
			return err
		}
	}

	return s.wireForceTwins()
}

// buildBaseGraph creates one self task per non-empty top-level cell and
// one pair task per non-empty ordered neighbour with bin(B) > bin(A)
// (§4.3.2), returning every created task as the seed worklist for
// recursive refinement.
func (s *Space) buildBaseGraph() ([]TaskHandle, error) {
	var worklist []TaskHandle

	var offsets [26][3]int
	n := 0
	for ii := -1; ii <= 1; ii++ {
		for jj := -1; jj <= 1; jj++ {
			for kk := -1; kk <= 1; kk++ {
				if ii == 0 && jj == 0 && kk == 0 {
					continue
				}
				offsets[n] = [3]int{ii, jj, kk}
				n++
			}
		}
	}

	for idx := 0; idx < len(s.topCells); idx++ {
		hA := s.topCells[idx]
		cA := s.cells.get(hA)
		if cA.PartsLen == 0 {
			continue
		}

		selfTask, err := s.addTask(TaskSelf, SubtypeDensity, 0, hA, NoCell)
		if err != nil {
			return nil, err
		}
		s.addUnlockCell(selfTask, hA)
		worklist = append(worklist, selfTask)

		i, j, k := unbin(idx, s.Cdim)
		for _, off := range offsets {
			ni, nj, nk := i+off[0], j+off[1], k+off[2]
			if s.Periodic {
				ni = wrapIdx(ni, s.Cdim[0])
				nj = wrapIdx(nj, s.Cdim[1])
				nk = wrapIdx(nk, s.Cdim[2])
			} else if ni < 0 || ni >= s.Cdim[0] || nj < 0 || nj >= s.Cdim[1] || nk < 0 || nk >= s.Cdim[2] {
				continue
			}

			nidx := cellGetID(s.Cdim, ni, nj, nk)
			if nidx <= idx {
				continue
			}
			hB := s.topCells[nidx]
			cB := s.cells.get(hB)
			if cB.PartsLen == 0 {
				continue
			}

			d := sortDir(off[0], off[1], off[2])
			pairTask, err := s.addTask(TaskPair, SubtypeDensity, 0, hA, hB)
			if err != nil {
				return nil, err
			}
			s.addUnlockCell(pairTask, hA)
			s.addUnlockCell(pairTask, hB)
			s.addUnlock(cA.Sorts[d], pairTask)
			s.addUnlock(cB.Sorts[d], pairTask)
			worklist = append(worklist, pairTask)
		}
	}
	return worklist, nil
}

func wrapIdx(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// buildSorts assigns directional sort tasks to h and, post-order, every
// descendant, then wires each non-empty child's sort task of a given
// direction as a predecessor of the parent's sort task for that same
// direction (§4.2 "Composition").
func (s *Space) buildSorts(h CellHandle) error {
	c := s.cells.get(h)
	if c.PartsLen == 0 {
		return nil
	}
	if c.Split {
		for _, p := range c.Progeny {
			if p != NoCell {
				if err := s.buildSorts(p); err != nil {
					return err
				}
			}
		}
	}
	if err := s.assignSortTasks(h); err != nil {
		return err
	}
	if !c.Split {
		return nil
	}
	for d := 0; d < 13; d++ {
		parentTask := c.Sorts[d]
		if parentTask == NoTask {
			continue
		}
		for _, p := range c.Progeny {
			if p == NoCell {
				continue
			}
			cc := s.cells.get(p)
			if cc.PartsLen == 0 {
				continue
			}
			if childTask := cc.Sorts[d]; childTask != NoTask {
				s.addUnlock(childTask, parentTask)
			}
		}
	}
	return nil
}

// assignSortTasks implements the granularity table of §4.2: one, two,
// or seven sort tasks depending on cell population, with aliased
// direction slots sharing a single task handle.
func (s *Space) assignSortTasks(h CellHandle) error {
	c := s.cells.get(h)
	count := c.PartsLen

	switch {
	case count < 1000:
		t, err := s.addTask(TaskSort, SubtypeNone, 0x1FFF, h, NoCell)
		if err != nil {
			return err
		}
		for d := 0; d < 13; d++ {
			c.Sorts[d] = t
		}
		s.sortTasks = append(s.sortTasks, t)

	case count < 5000:
		t1, err := s.addTask(TaskSort, SubtypeNone, 0x7F, h, NoCell)
		if err != nil {
			return err
		}
		t2, err := s.addTask(TaskSort, SubtypeNone, 0x1F80, h, NoCell)
		if err != nil {
			return err
		}
		for d := 0; d <= 6; d++ {
			c.Sorts[d] = t1
		}
		for d := 7; d <= 12; d++ {
			c.Sorts[d] = t2
		}
		s.sortTasks = append(s.sortTasks, t1, t2)

	default:
		groups := [7][2]int{{0, 1}, {2, 3}, {4, 5}, {6, 7}, {8, 9}, {10, 11}, {12, -1}}
		for _, g := range groups {
			flags := uint32(1) << uint(g[0])
			if g[1] >= 0 {
				flags |= uint32(1) << uint(g[1])
			}
			t, err := s.addTask(TaskSort, SubtypeNone, flags, h, NoCell)
			if err != nil {
				return err
			}
			c.Sorts[g[0]] = t
			if g[1] >= 0 {
				c.Sorts[g[1]] = t
			}
			s.sortTasks = append(s.sortTasks, t)
		}
	}
	return nil
}

// pruneEmptySorts deactivates any sort task that ended up with no
// successor at all (§4.2, "removed during a final sweep"). A sort task
// whose only successors are a parent cell's sort task or tasks superseded
// during refinement (TaskNone) is not deactivated.
func (s *Space) pruneEmptySorts() {
	for _, t := range s.sortTasks {
		task := s.tasks.get(t)
		if len(task.UnlockTasks) == 0 {
			task.Type = TaskNone
		}
	}
}

// attachDensity records t as a finalized leaf density task (one that
// will not be refined further) against every cell it touches, for the
// nr_tasks/super computation and the force-twin pass.
func (s *Space) attachDensity(t TaskHandle, cellsTouched ...CellHandle) {
	for _, ch := range cellsTouched {
		if ch == NoCell {
			continue
		}
		c := s.cells.get(ch)
		c.Density = append(c.Density, t)
		c.NrTasks++
	}
	s.densityTasks = append(s.densityTasks, t)
}
