package space

import "sync/atomic"

// spinLock is a try-lock only: the scheduler never blocks on a cell lock,
// it requeues the task instead (§4.4). No example in the pack ships a
// spinlock primitive, so this is a single stdlib int32 compare-and-swap
// rather than an imported dependency -- there is nothing domain-specific here for
// a third-party library to add over sync/atomic.
type spinLock struct {
	state int32
}

const (
	unlocked int32 = 0
	locked   int32 = 1
)

// tryLock attempts to acquire the lock without blocking, returning whether
// it succeeded.
func (s *spinLock) tryLock() bool {
	return atomic.CompareAndSwapInt32(&s.state, unlocked, locked)
}

func (s *spinLock) unlock() {
	atomic.StoreInt32(&s.state, unlocked)
}
