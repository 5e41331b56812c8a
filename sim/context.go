// Package sim provides the per-run simulation context shared by all the
// components of the memory system.
package sim

import (
	"sync"
	"sync/atomic"

	"github.com/sarchlab/memcontention/sim/id"
)

// A Ticker is an object that updates states with ticks.
type Ticker interface {
	Tick() (madeProgress bool)
}

// Context is the clock and the contention log of one simulated run. The run
// driver owns it and every component holds a reference to it.
type Context struct {
	cycle atomic.Uint64
	ids   id.IDGenerator

	lock    sync.RWMutex
	l2Log   []L2Access
	ddrLog  []DDRAccess
	events  []ContentionEvent
	l2Mark  int
	ddrMark int
}

// NewContext creates a context at cycle 0 with a sequential ID generator.
func NewContext() *Context {
	return NewContextWithIDGenerator(id.NewIDGenerator())
}

// NewContextWithIDGenerator creates a context that draws request IDs from g.
func NewContextWithIDGenerator(g id.IDGenerator) *Context {
	return &Context{ids: g}
}

// Now returns the current cycle.
func (c *Context) Now() uint64 {
	return c.cycle.Load()
}

// Advance moves the clock to the next cycle. Accesses logged afterwards belong
// to the new cycle.
func (c *Context) Advance() {
	c.lock.Lock()
	c.l2Mark = len(c.l2Log)
	c.ddrMark = len(c.ddrLog)
	c.lock.Unlock()

	c.cycle.Add(1)
}

// NewID returns a fresh request ID.
func (c *Context) NewID() string {
	return c.ids.Generate()
}

// Reset clears the clock and all the logs.
func (c *Context) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.cycle.Store(0)
	c.l2Log = nil
	c.ddrLog = nil
	c.events = nil
	c.l2Mark = 0
	c.ddrMark = 0
}

// LogL2Access records an access to the shared cache at the current cycle.
func (c *Context) LogL2Access(a L2Access) {
	a.Cycle = c.Now()

	c.lock.Lock()
	c.l2Log = append(c.l2Log, a)
	c.lock.Unlock()
}

// LogDDRAccess records a DDR controller decision at the current cycle.
func (c *Context) LogDDRAccess(a DDRAccess) {
	a.Cycle = c.Now()

	c.lock.Lock()
	c.ddrLog = append(c.ddrLog, a)
	c.lock.Unlock()
}

// CycleL2Accesses returns the shared-cache accesses of the current cycle.
func (c *Context) CycleL2Accesses() []L2Access {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return append([]L2Access(nil), c.l2Log[c.l2Mark:]...)
}

// CycleDDRAccesses returns the DDR accesses of the current cycle.
func (c *Context) CycleDDRAccesses() []DDRAccess {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return append([]DDRAccess(nil), c.ddrLog[c.ddrMark:]...)
}

// L2Accesses returns all the shared-cache accesses of the run.
func (c *Context) L2Accesses() []L2Access {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return append([]L2Access(nil), c.l2Log...)
}

// DDRAccesses returns all the DDR accesses of the run.
func (c *Context) DDRAccesses() []DDRAccess {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return append([]DDRAccess(nil), c.ddrLog...)
}

// AddEvents appends contention events to the run's event log.
func (c *Context) AddEvents(events ...ContentionEvent) {
	c.lock.Lock()
	c.events = append(c.events, events...)
	c.lock.Unlock()
}

// Events returns the contention events of the run.
func (c *Context) Events() []ContentionEvent {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return append([]ContentionEvent(nil), c.events...)
}
