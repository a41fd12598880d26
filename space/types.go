package space

// CellHandle and TaskHandle are stable indices into the space's arenas.
// They survive arena growth, unlike pointers, which is what lets the task
// generator grow the task list while iterating over it (see graph.go).
type CellHandle int32
type TaskHandle int32

const (
	NoCell CellHandle = -1
	NoTask TaskHandle = -1
)

type TaskType uint8

const (
	TaskNone TaskType = iota
	TaskSort
	TaskSelf
	TaskPair
	TaskSub
	TaskGhost
	taskTypeCount
)

func (t TaskType) String() string {
	switch t {
	case TaskSort:
		return "sort"
	case TaskSelf:
		return "self"
	case TaskPair:
		return "pair"
	case TaskSub:
		return "sub"
	case TaskGhost:
		return "ghost"
	default:
		return "none"
	}
}

type TaskSubtype uint8

const (
	SubtypeNone TaskSubtype = iota
	SubtypeDensity
	SubtypeForce
)

func (s TaskSubtype) String() string {
	switch s {
	case SubtypeDensity:
		return "density"
	case SubtypeForce:
		return "force"
	default:
		return "none"
	}
}
