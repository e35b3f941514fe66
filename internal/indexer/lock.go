package indexer

import "sync/atomic"

// IndexLock keeps documentation passes from overlapping. Acquisition never
// blocks: a caller that loses the race reports ErrPassInProgress instead of
// waiting behind a long render.
type IndexLock struct {
	state atomic.Int32 // 0 = idle, 1 = pass running
}

// TryAcquire marks a pass as running and reports whether it succeeded
func (l *IndexLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release ends the running pass.
// Must only be called by the caller whose TryAcquire returned true.
func (l *IndexLock) Release() {
	l.state.Store(0)
}

// Held reports whether a pass is running
func (l *IndexLock) Held() bool {
	return l.state.Load() == 1
}
