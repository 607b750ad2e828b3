package arena

import "sync"

// upgradeLock is a three-state lock: many readers may hold Shared
// concurrently, at most one holder may hold Upgradeable concurrently with
// readers (but not with another Upgradeable holder), and Exclusive excludes
// everyone. This is the shape the arena itself needs: reads and node-local
// writes only ever need Shared, growing the backing slice needs Exclusive,
// and the common "insert a node" path needs to check IsFull under Shared
// and only escalate to Exclusive on the rare occasion the slice is full —
// Upgradeable lets that escalation happen without another upgradeable
// holder slipping in between: upgrade gives up the caller's shared hold
// and waits for the exclusive one while still owning the upgradeable slot.
//
// The teacher's own latch manager (latchmgr.go) builds a phase-fair
// reader/writer lock directly on sync/atomic rather than reach for a
// library; this type follows the same instinct for a lock shape the
// standard library doesn't provide out of the box, but needs three states
// rather than two, so it is built from sync.RWMutex (shared vs exclusive)
// plus a serializing sync.Mutex that arbitrates the single upgradeable
// slot instead of a bespoke ticket scheme.
type upgradeLock struct {
	rw     sync.RWMutex
	upgrad sync.Mutex
}

func (l *upgradeLock) lockShared()    { l.rw.RLock() }
func (l *upgradeLock) unlockShared()  { l.rw.RUnlock() }
func (l *upgradeLock) lockExclusive() { l.rw.Lock() }
func (l *upgradeLock) unlockExclusive() {
	l.rw.Unlock()
}

// lockUpgradeable acquires the single upgradeable slot plus a shared read
// lock, so the holder can read concurrently with other shared readers
// until it chooses to upgrade.
func (l *upgradeLock) lockUpgradeable() {
	l.upgrad.Lock()
	l.rw.RLock()
}

func (l *upgradeLock) unlockUpgradeable() {
	l.rw.RUnlock()
	l.upgrad.Unlock()
}

// upgrade converts the caller's upgradeable hold into an exclusive hold.
// The caller must already hold the upgradeable slot (via lockUpgradeable);
// upgrade releases the shared read side of that hold and blocks until all
// other readers have drained, then takes the exclusive lock. The
// upgradeable slot itself (l.upgrad) stays held throughout so no other
// caller can interleave an upgrade attempt.
func (l *upgradeLock) upgrade() {
	l.rw.RUnlock()
	l.rw.Lock()
}

// downgrade reverses upgrade: releases the exclusive hold and reacquires
// the shared side of the upgradeable hold.
func (l *upgradeLock) downgrade() {
	l.rw.Unlock()
	l.rw.RLock()
}
