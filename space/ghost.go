package space

// buildGhosts computes super(h) and, where needed, creates a ghost task
// for h, wiring a non-super cell's ghost as a successor of its parent's
// ghost (§4.3.4, grounded on space_map_mkghosts). Must run after every
// cell's NrTasks is final, and before wireForceTwins.
func (s *Space) buildGhosts(h CellHandle) error {
	c := s.cells.get(h)
	c.Super = s.computeSuper(h)

	if c.Super != h || c.NrTasks > 0 {
		t, err := s.addTask(TaskGhost, SubtypeNone, 0, h, NoCell)
		if err != nil {
			return err
		}
		c.Ghost = t
	}

	if c.Parent != NoCell && c.Super != h {
		parent := s.cells.get(c.Parent)
		if parent.Ghost != NoTask && c.Ghost != NoTask {
			s.addUnlock(parent.Ghost, c.Ghost)
		}
	}

	if c.Split {
		for _, p := range c.Progeny {
			if p != NoCell {
				if err := s.buildGhosts(p); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// computeSuper walks h's parent chain and returns the highest ancestor
// (including h itself) with NrTasks > 0, or h if none qualifies.
func (s *Space) computeSuper(h CellHandle) CellHandle {
	cur := h
	result := NoCell
	for cur != NoCell {
		cc := s.cells.get(cur)
		if cc.NrTasks > 0 {
			result = cur
		}
		cur = cc.Parent
	}
	if result == NoCell {
		return h
	}
	return result
}

// wireForceTwins creates, for every finalized density task, a force
// twin of the same shape (§4.3.5): the density task unlocks its acting
// cells' supers' ghosts, and each acting cell's own ghost unlocks the
// twin -- the non-super ghost chain already implements the super-cell
// barrier transitively, so the twin need not reach past its own ghost.
func (s *Space) wireForceTwins() error {
	for _, t := range s.densityTasks {
		task := s.tasks.get(t)
		if task.Type == TaskNone {
			continue
		}

		ci := s.cells.get(task.Ci)
		s.addUnlock(t, s.cells.get(ci.Super).Ghost)

		var cj *Cell
		if task.Cj != NoCell {
			cj = s.cells.get(task.Cj)
			s.addUnlock(t, s.cells.get(cj.Super).Ghost)
		}

		twinCj := NoCell
		if cj != nil {
			twinCj = task.Cj
		}
		twin, err := s.addTask(task.Type, SubtypeForce, task.Flags, task.Ci, twinCj)
		if err != nil {
			return err
		}
		s.addUnlockCell(twin, task.Ci)
		s.addUnlock(ci.Ghost, twin)
		if cj != nil {
			s.addUnlockCell(twin, task.Cj)
			s.addUnlock(cj.Ghost, twin)
		}
	}
	return nil
}
