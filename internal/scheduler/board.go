package scheduler

import "sync"

// Board keeps the most recent State for readers on other goroutines,
// such as the status server.
type Board struct {
	mu sync.RWMutex
	st State
}

func (b *Board) Record(st State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.st = st
}

func (b *Board) Snapshot() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := b.st
	out.LastPass = append([]DateReport(nil), b.st.LastPass...)
	return out
}
