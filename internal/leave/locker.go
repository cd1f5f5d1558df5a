package leave

import "sync"

// employeeLocker serializes lifecycle mutations per employee. The balance
// check and the reservation write must be indivisible for one employee;
// operations on different employees proceed in parallel.
type employeeLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newEmployeeLocker() *employeeLocker {
	return &employeeLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *employeeLocker) Lock(employeeID string) {
	l.mu.Lock()
	m, ok := l.locks[employeeID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[employeeID] = m
	}
	l.mu.Unlock()

	m.Lock()
}

func (l *employeeLocker) Unlock(employeeID string) {
	l.mu.Lock()
	m := l.locks[employeeID]
	l.mu.Unlock()

	if m != nil {
		m.Unlock()
	}
}
