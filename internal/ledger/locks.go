package ledger

import "sync"

// lineLocks hands out one mutex per line ID. Every BF read-modify-write and
// every check-then-insert of a visible ID runs under its line's lock, so two
// commands against the same line can never interleave their read and write
// halves. Commands on different lines proceed in parallel.
type lineLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLineLocks() *lineLocks {
	return &lineLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *lineLocks) get(lineID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[lineID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[lineID] = m
	}
	return m
}

// withLine runs fn while holding the line's mutex.
func (l *lineLocks) withLine(lineID string, fn func() error) error {
	m := l.get(lineID)
	m.Lock()
	defer m.Unlock()
	return fn()
}
