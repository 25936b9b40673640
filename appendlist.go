package jfa

import "sync/atomic"

// ScanState is the lifecycle of an extraction pass writing an AppendList.
type ScanState uint32

const (
	Idle ScanState = iota
	Scanning
	Complete
)

func (s ScanState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Complete:
		return "complete"
	}
	return "unknown"
}

// AppendList is a fixed capacity output list written by many concurrent
// producers. Each Append claims a unique slot with a single atomic
// increment of a shared counter; the pre-increment value is the slot.
// Entries have no meaningful order.
//
// Appends beyond capacity are dropped. The counter still records them so
// Attempted reports how many entries the pass tried to emit.
type AppendList[T any] struct {
	items   []T
	counter atomic.Int64
	state   atomic.Uint32
}

// NewAppendList reserves capacity entries.
func NewAppendList[T any](capacity int) *AppendList[T] {
	if capacity < 0 {
		panic("NewAppendList: negative capacity")
	}
	return &AppendList[T]{items: make([]T, capacity)}
}

// Begin resets the counter and moves the list to Scanning.
func (l *AppendList[T]) Begin() {
	l.counter.Store(0)
	l.state.Store(uint32(Scanning))
}

// Append writes v to a freshly claimed slot. It returns false if the list
// is full, in which case v is dropped. Safe for concurrent use.
func (l *AppendList[T]) Append(v T) bool {
	slot := l.counter.Add(1) - 1
	if slot >= int64(len(l.items)) {
		return false
	}
	l.items[slot] = v
	return true
}

// Finish moves the list to Complete. Counts read after Finish are final.
func (l *AppendList[T]) Finish() { l.state.Store(uint32(Complete)) }

// State returns the list's scan state.
func (l *AppendList[T]) State() ScanState { return ScanState(l.state.Load()) }

// Cap returns the reserved capacity.
func (l *AppendList[T]) Cap() int { return len(l.items) }

// Attempted returns the number of Append calls since Begin.
func (l *AppendList[T]) Attempted() int { return int(l.counter.Load()) }

// Count returns the number of valid entries.
func (l *AppendList[T]) Count() int { return min(l.Attempted(), len(l.items)) }

// Dropped returns the number of entries lost to overflow.
func (l *AppendList[T]) Dropped() int { return l.Attempted() - l.Count() }

// Overflowed reports whether any Append was dropped.
func (l *AppendList[T]) Overflowed() bool { return l.Dropped() > 0 }

// Items returns the valid entries. The slice aliases the list's storage
// and is overwritten by the next pass.
func (l *AppendList[T]) Items() []T { return l.items[:l.Count()] }
