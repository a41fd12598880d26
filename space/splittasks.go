package space

// splitTask dispatches recursive refinement for a single worklist entry
// (§4.3.3). Sort, sub, and ghost tasks are never refined further.
func (s *Space) splitTask(t TaskHandle) ([]TaskHandle, error) {
	switch s.tasks.get(t).Type {
	case TaskSelf:
		return s.splitSelfTask(t)
	case TaskPair:
		return s.splitPairTask(t)
	default:
		return nil, nil
	}
}

// splitSelfTask converts a self task over a split cell either to a sub
// (small cells) or to one self per child plus one pair per unordered
// child pair (§4.3.3, the "pts" table via childPairDirs). Leaves the
// task as-is, attached as a finalized leaf, if the cell never split.
func (s *Space) splitSelfTask(t TaskHandle) ([]TaskHandle, error) {
	task := s.tasks.get(t)
	ci := s.cells.get(task.Ci)

	if !ci.Split {
		s.attachDensity(t, task.Ci)
		return nil, nil
	}

	if ci.Count < s.cfg.SubSize {
		task.Type = TaskSub
		for d := 0; d < 13; d++ {
			s.addUnlock(ci.Sorts[d], t)
		}
		s.attachDensity(t, task.Ci)
		return nil, nil
	}

	var nonEmpty []int
	for k, p := range ci.Progeny {
		if p != NoCell && s.cells.get(p).PartsLen > 0 {
			nonEmpty = append(nonEmpty, k)
		}
	}

	var newTasks []TaskHandle
	for _, k := range nonEmpty {
		h, err := s.addTask(TaskSelf, task.Subtype, 0, ci.Progeny[k], NoCell)
		if err != nil {
			return nil, err
		}
		s.addUnlockCell(h, ci.Progeny[k])
		newTasks = append(newTasks, h)
	}
	for a := 0; a < len(nonEmpty); a++ {
		for b := a + 1; b < len(nonEmpty); b++ {
			j, k := nonEmpty[a], nonEmpty[b]
			d := childPairDirs[j][k]
			h, err := s.addTask(TaskPair, task.Subtype, 0, ci.Progeny[j], ci.Progeny[k])
			if err != nil {
				return nil, err
			}
			s.addUnlockCell(h, ci.Progeny[j])
			s.addUnlockCell(h, ci.Progeny[k])
			cj := s.cells.get(ci.Progeny[j])
			ck := s.cells.get(ci.Progeny[k])
			s.addUnlock(cj.Sorts[d], h)
			s.addUnlock(ck.Sorts[d], h)
			newTasks = append(newTasks, h)
		}
	}

	task.Type = TaskNone // superseded by the children just created
	return newTasks, nil
}

// splitPairTask derives the canonical stencil direction for the pair,
// then either leaves it as a non-refined leaf, sub-converts it (small,
// refinable, face direction), or replaces it with the exact grandchild
// pair set of §4.3.3.1's pairSplitTable.
func (s *Space) splitPairTask(t TaskHandle) ([]TaskHandle, error) {
	task := s.tasks.get(t)
	ci := s.cells.get(task.Ci)
	cj := s.cells.get(task.Cj)

	raw := s.pairRawDir(ci, cj)
	if raw < 13 {
		task.Ci, task.Cj = task.Cj, task.Ci
		ci, cj = cj, ci
		raw = 26 - raw
	}
	sidp := sortlistID[raw]

	refinable := ci.Split && cj.Split &&
		float64(ci.HMax)*s.cfg.Stretch < minH(ci.H)/2 &&
		float64(cj.HMax)*s.cfg.Stretch < minH(cj.H)/2

	if !refinable {
		s.attachDensity(t, task.Ci, task.Cj)
		return nil, nil
	}

	bothSmall := ci.Count < s.cfg.SubSize && cj.Count < s.cfg.SubSize
	if bothSmall && faceDirections[sidp] {
		task.Type = TaskSub
		task.Flags = uint32(sidp)
		s.addAllGrandchildSorts(ci, t)
		s.addAllGrandchildSorts(cj, t)
		s.attachDensity(t, task.Ci, task.Cj)
		return nil, nil
	}

	var newTasks []TaskHandle
	for _, e := range pairSplitTable[sidp] {
		ciChild := ci.Progeny[e.CiProgeny]
		cjChild := cj.Progeny[e.CjProgeny]
		if ciChild == NoCell || cjChild == NoCell {
			continue
		}
		ciC := s.cells.get(ciChild)
		cjC := s.cells.get(cjChild)
		if ciC.PartsLen == 0 || cjC.PartsLen == 0 {
			continue
		}
		h, err := s.addTask(TaskPair, task.Subtype, 0, ciChild, cjChild)
		if err != nil {
			return nil, err
		}
		s.addUnlockCell(h, ciChild)
		s.addUnlockCell(h, cjChild)
		s.addUnlock(ciC.Sorts[e.CiDir], h)
		s.addUnlock(cjC.Sorts[e.CjDir], h)
		ciC.NrPairs++
		cjC.NrPairs++
		newTasks = append(newTasks, h)
	}

	task.Type = TaskNone
	return newTasks, nil
}

func (s *Space) addAllGrandchildSorts(c *Cell, t TaskHandle) {
	for _, gp := range c.Progeny {
		if gp == NoCell {
			continue
		}
		gc := s.cells.get(gp)
		for d := 0; d < 13; d++ {
			s.addUnlock(gc.Sorts[d], t)
		}
	}
}

// pairRawDir derives the raw 0..26 stencil index for the displacement
// from ci's center to cj's center, wrapping per-axis under periodic
// boundaries (§4.3.3's ternary-digit construction, pre-sortlistID fold).
func (s *Space) pairRawDir(ci, cj *Cell) int {
	dig := func(d float64) int {
		switch {
		case d < 0:
			return 0
		case d > 0:
			return 2
		default:
			return 1
		}
	}

	var delta [3]float64
	for k := 0; k < 3; k++ {
		d := (cj.Loc[k] + cj.H[k]/2) - (ci.Loc[k] + ci.H[k]/2)
		if s.Periodic {
			if d < -s.Dim[k]/2 {
				d += s.Dim[k]
			} else if d > s.Dim[k]/2 {
				d -= s.Dim[k]
			}
		}
		delta[k] = d
	}
	return dig(delta[2]) + 3*(dig(delta[1])+3*dig(delta[0]))
}
