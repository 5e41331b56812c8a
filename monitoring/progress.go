package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar tracks how many of the cycles of a run are simulated.
type ProgressBar struct {
	lock sync.Mutex

	id        string
	name      string
	startTime time.Time
	total     uint64
	simulated uint64
}

type progressSnapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Simulated uint64    `json:"simulated"`

	// Remaining is the estimated wall-clock time to the end of the run, in
	// seconds. It is 0 until a cycle is simulated.
	Remaining float64 `json:"remaining"`
}

// Advance marks more cycles as simulated.
func (b *ProgressBar) Advance(cycles uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.simulated = min(b.simulated+cycles, b.total)
}

// Simulated returns the number of cycles simulated so far.
func (b *ProgressBar) Simulated() uint64 {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.simulated
}

func (b *ProgressBar) snapshot(now time.Time) progressSnapshot {
	b.lock.Lock()
	defer b.lock.Unlock()

	s := progressSnapshot{
		ID:        b.id,
		Name:      b.name,
		StartTime: b.startTime,
		Total:     b.total,
		Simulated: b.simulated,
	}

	if b.simulated > 0 {
		perCycle := now.Sub(b.startTime).Seconds() / float64(b.simulated)
		s.Remaining = perCycle * float64(b.total-b.simulated)
	}

	return s
}
