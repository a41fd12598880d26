package space

// Task is a unit of work in the dependency graph (§3.3). Ci/Cj are cell
// handles, never pointers -- the graph is built while cells and tasks are
// both still growing, so nothing here may assume a stable memory address
// outside of the arena's own chunking guarantee.
type Task struct {
	Type    TaskType
	Subtype TaskSubtype
	Flags   uint32

	Ci, Cj CellHandle

	Wait int32 // atomic once Run begins; plain during single-threaded build.

	UnlockTasks []TaskHandle
	UnlockCells []CellHandle
}

// addTask appends a new task to the arena and returns its handle. Callers
// hold s.mu (the "global space lock", §9) for the duration of graph build.
func (s *Space) addTask(typ TaskType, sub TaskSubtype, flags uint32, ci, cj CellHandle) (TaskHandle, error) {
	h, err := s.tasks.alloc()
	if err != nil {
		return NoTask, err
	}
	t := s.tasks.get(h)
	t.Type = typ
	t.Subtype = sub
	t.Flags = flags
	t.Ci = ci
	t.Cj = cj
	return h, nil
}

// addUnlock makes succ wait on pred, deduplicating against the most
// recently added successor only -- matching the original's adjacency
// check for aliased sort slots (§9 "sort task dedup") rather than a full
// membership scan.
func (s *Space) addUnlock(pred, succ TaskHandle) {
	if pred == NoTask || succ == NoTask {
		return
	}
	pt := s.tasks.get(pred)
	if n := len(pt.UnlockTasks); n > 0 && pt.UnlockTasks[n-1] == succ {
		return
	}
	pt.UnlockTasks = append(pt.UnlockTasks, succ)
	s.tasks.get(succ).Wait++
}

// rmUnlock removes a previously added dependency and decrements succ's
// wait count (space_splittasks' task_rmunlock). The graph build in this
// package does not call it.
func (s *Space) rmUnlock(pred, succ TaskHandle) {
	if pred == NoTask || succ == NoTask {
		return
	}
	pt := s.tasks.get(pred)
	for i, h := range pt.UnlockTasks {
		if h == succ {
			pt.UnlockTasks = append(pt.UnlockTasks[:i], pt.UnlockTasks[i+1:]...)
			s.tasks.get(succ).Wait--
			return
		}
	}
}

func (s *Space) addUnlockCell(t TaskHandle, c CellHandle) {
	task := s.tasks.get(t)
	task.UnlockCells = append(task.UnlockCells, c)
}
