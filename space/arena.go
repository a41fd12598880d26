package space

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// taskArena is the append-only store backing the task graph (§9
// "graph-growth-during-iteration"). It grows in fixed-size chunks backed
// by an anonymous mmap, following the page-truncate-then-Mmap idiom of
// zeebo-cascade's newLevel -- here with no backing file, since the arena
// is pure scratch state reset between graph regenerations. Chunking (as
// opposed to a single growing slice) means a chunk, once mapped, never
// moves: task values keep a stable address for the lifetime of the arena,
// not just a stable handle.
type taskArena struct {
	chunks   [][]Task
	perChunk int
	nrTasks  int
}

func newTaskArena(tasksPerChunk int) *taskArena {
	if tasksPerChunk < 1 {
		tasksPerChunk = 1
	}
	return &taskArena{perChunk: tasksPerChunk}
}

func (a *taskArena) growChunk() error {
	size := a.perChunk * int(unsafe.Sizeof(Task{}))
	buf, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return ResourceError.Wrap(err)
	}
	tasks := unsafe.Slice((*Task)(unsafe.Pointer(&buf[0])), a.perChunk)
	a.chunks = append(a.chunks, tasks)
	return nil
}

func (a *taskArena) alloc() (TaskHandle, error) {
	idx := a.nrTasks
	chunkIdx := idx / a.perChunk
	if chunkIdx >= len(a.chunks) {
		if err := a.growChunk(); err != nil {
			return NoTask, err
		}
	}
	local := idx % a.perChunk
	a.chunks[chunkIdx][local] = Task{Ci: NoCell, Cj: NoCell}
	a.nrTasks++
	return TaskHandle(idx), nil
}

func (a *taskArena) get(h TaskHandle) *Task {
	idx := int(h)
	return &a.chunks[idx/a.perChunk][idx%a.perChunk]
}

func (a *taskArena) len() int {
	return a.nrTasks
}

// reset unmaps every chunk and drops the arena back to empty, ready for the
// next graph build. Called between Rebuilds, never mid-graph.
func (a *taskArena) reset() error {
	for _, tasks := range a.chunks {
		size := len(tasks) * int(unsafe.Sizeof(Task{}))
		buf := unsafe.Slice((*byte)(unsafe.Pointer(&tasks[0])), size)
		if err := unix.Munmap(buf); err != nil {
			return ResourceError.Wrap(err)
		}
	}
	a.chunks = a.chunks[:0]
	a.nrTasks = 0
	return nil
}
