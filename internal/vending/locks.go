package vending

import "sync"

// One mutex per machine. A purchase reads and then mutates slot and
// balance state, and a restock commit replaces the very layout purchases
// read from, so both paths serialize on the same lock.
var (
	machineLocks = make(map[int]*sync.Mutex)
	locksMu      sync.Mutex
)

func lockFor(machineID int) *sync.Mutex {
	locksMu.Lock()
	defer locksMu.Unlock()

	l, ok := machineLocks[machineID]
	if !ok {
		l = &sync.Mutex{}
		machineLocks[machineID] = l
	}
	return l
}
