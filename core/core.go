// Package core models a processor core that replays a program of memory
// accesses and stalls on memory hazards.
package core

import (
	"log"

	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/sim"
	"github.com/sarchlab/memcontention/sim/hooking"
	"github.com/sarchlab/memcontention/sim/naming"
	"github.com/sarchlab/memcontention/tracing"
)

// Memory is the cache hierarchy that the core issues accesses to. Read and
// Write return true if the access completes before they return.
type Memory interface {
	Read(req *mem.Request) (done bool)
	Write(req *mem.Request) (done bool)
}

// An AccessRecord tells when an instruction was scheduled, issued, and
// completed.
type AccessRecord struct {
	ReqID     string         `json:"req_id"`
	Op        mem.AccessKind `json:"op"`
	Address   uint64         `json:"address"`
	Scheduled uint64         `json:"scheduled"`
	Issued    uint64         `json:"issued"`
	Completed uint64         `json:"completed"`
	Done      bool           `json:"done"`
}

// Stats summarizes what the core did in a run.
type Stats struct {
	CoreID      int    `json:"core_id"`
	Issued      uint64 `json:"issued"`
	Completed   uint64 `json:"completed"`
	StallCycles uint64 `json:"stall_cycles"`

	// Skipped counts the instructions whose cycle passed while the core was
	// stalled.
	Skipped uint64 `json:"skipped"`

	// CompletionTime is the last cycle at which the core issued or completed
	// an access.
	CompletionTime uint64 `json:"completion_time"`
}

// Core issues at most one instruction per cycle.
//
// Every issued access stays in flight until the memory reports it complete. A
// new access to an address that an in-flight access uses is held back, and
// retried on every following cycle until no in-flight access uses the
// address. The kinds of the two accesses do not matter: a read after a read
// stalls as well, so no two accesses to one address overlap.
type Core struct {
	naming.NamedBase
	hooking.HookableBase

	id      int
	ctx     *sim.Context
	memory  Memory
	program *Program

	inflight  []*mem.Request
	stalled   *Instruction
	stalledAt uint64

	records map[string]*AccessRecord
	order   []string
	stats   Stats
}

// ID returns the core ID.
func (c *Core) ID() int {
	return c.id
}

// Tick retries the stalled instruction if there is one. Otherwise, it issues
// the instruction scheduled at the current cycle.
func (c *Core) Tick() (madeProgress bool) {
	if c.stalled != nil {
		return c.retryStalled()
	}

	inst, found := c.program.At(c.ctx.Now())
	if !found {
		return false
	}

	if c.hasHazard(inst.Address) {
		c.stall(inst)
		return false
	}

	c.issue(inst)

	return true
}

func (c *Core) retryStalled() bool {
	if _, found := c.program.At(c.ctx.Now()); found &&
		c.ctx.Now() != c.stalledAt {
		c.stats.Skipped++
	}

	if c.hasHazard(c.stalled.Address) {
		c.stats.StallCycles++
		return false
	}

	inst := *c.stalled
	c.stalled = nil
	c.issue(inst)

	return true
}

func (c *Core) stall(inst Instruction) {
	c.stalled = &inst
	c.stalledAt = c.ctx.Now()
	c.stats.StallCycles++
}

func (c *Core) hasHazard(addr uint64) bool {
	for _, req := range c.inflight {
		if req.Address == addr {
			return true
		}
	}

	return false
}

func (c *Core) issue(inst Instruction) {
	now := c.ctx.Now()

	req := mem.RequestBuilder{}.
		WithID(c.ctx.NewID()).
		WithCoreID(c.id).
		WithKind(inst.Op).
		WithAddress(inst.Address).
		WithIssueTime(now).
		Build()

	c.inflight = append(c.inflight, req)
	c.records[req.ID] = &AccessRecord{
		ReqID:     req.ID,
		Op:        inst.Op,
		Address:   inst.Address,
		Scheduled: inst.Cycle,
		Issued:    now,
	}
	c.order = append(c.order, req.ID)
	c.stats.Issued++
	c.updateCompletionTime(now)

	tracing.TraceReqInitiate(req, c, "")

	var done bool
	if inst.Op == mem.Write {
		done = c.memory.Write(req)
	} else {
		done = c.memory.Read(req)
	}

	if done {
		c.Complete(req.ID)
	}
}

// Complete retires an in-flight access. Completing an access that is not in
// flight is a fatal error.
func (c *Core) Complete(reqID string) {
	now := c.ctx.Now()

	for i, req := range c.inflight {
		if req.ID != reqID {
			continue
		}

		c.inflight = append(c.inflight[:i], c.inflight[i+1:]...)

		rec := c.records[reqID]
		rec.Completed = now
		rec.Done = true

		c.stats.Completed++
		c.updateCompletionTime(now)

		tracing.TraceReqFinalize(req, c)

		return
	}

	log.Panic(sim.NewError(sim.ErrQueueInvariantViolation, c.Name(),
		"access %s is not in flight", reqID).AtCycle(now))
}

// ObserveCompletionTime extends the completion time of the core to the cycle
// at which memory finishes one of its requests.
func (c *Core) ObserveCompletionTime(cycle uint64) {
	c.updateCompletionTime(cycle)
}

func (c *Core) updateCompletionTime(cycle uint64) {
	if cycle > c.stats.CompletionTime {
		c.stats.CompletionTime = cycle
	}
}

// NumInflight returns the number of accesses not yet completed.
func (c *Core) NumInflight() int {
	return len(c.inflight)
}

// IsStalled returns true if an instruction waits for a hazard to clear.
func (c *Core) IsStalled() bool {
	return c.stalled != nil
}

// Accesses returns the record of every issued access, in issue order.
func (c *Core) Accesses() []AccessRecord {
	out := make([]AccessRecord, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.records[id])
	}

	return out
}

// Stats returns the statistics of the core.
func (c *Core) Stats() Stats {
	s := c.stats
	s.CoreID = c.id

	return s
}
