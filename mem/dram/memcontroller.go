// Package dram models a DDR memory controller and the DRAM device behind it.
//
// The controller keeps its own view of the open row of each bank, which it
// updates as soon as it schedules a request. It schedules at most one request
// per cycle, and hands it to the device with the cycle at which it completes.
package dram

import (
	"log"

	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/mem/dram/internal/addressmapping"
	"github.com/sarchlab/memcontention/mem/dram/internal/cmdq"
	"github.com/sarchlab/memcontention/mem/dram/internal/signal"
	"github.com/sarchlab/memcontention/sim"
	"github.com/sarchlab/memcontention/sim/hooking"
	"github.com/sarchlab/memcontention/sim/naming"
	"github.com/sarchlab/memcontention/tracing"
)

// A Decision describes the request that the controller scheduled in a cycle.
type Decision struct {
	Req            *mem.Request
	CompletionTime uint64
	Bank           int
	Row            uint64
	Status         sim.DDRStatus
	CoreID         int
	Delay          uint64
	Kind           mem.AccessKind

	// Candidates are all the requests that could have been scheduled, the
	// scheduled one first.
	Candidates []*mem.Request
}

// TickResult is what the controller did in one cycle.
type TickResult struct {
	// Completed are the requests finished in this cycle, in the order they
	// were scheduled.
	Completed []*mem.Request

	// Decision is nil if nothing could be scheduled.
	Decision *Decision
}

type bankRecord struct {
	lastCommandTime       int64
	openRow               uint64
	rowOpen               bool
	prechargeCompleteTime uint64
	lastKind              mem.AccessKind
	accessed              bool
	lastAddr              uint64
	lastCompletion        uint64
}

// Controller is a DDR memory controller.
type Controller struct {
	naming.NamedBase
	hooking.HookableBase

	ctx    *sim.Context
	device *Device
	mapper addressmapping.InterleavingMapper
	timing Timing

	queue     *cmdq.CommandQueue
	scheduled []*signal.Transaction
	banks     []bankRecord

	idleCloseCycles uint64
	sequence        []SequenceEntry
}

// Device returns the DRAM device that the controller drives.
func (c *Controller) Device() *Device {
	return c.device
}

// Request queues a request.
func (c *Controller) Request(req *mem.Request) {
	c.queue.Push(req, c.mapper.Map(req.Address))
	c.record(StageQueued, req)

	tracing.TraceReqReceive(req, c)
}

// Tick completes the scheduled requests whose time has come, closes idle rows
// under the close-page policy, and then schedules at most one new request.
func (c *Controller) Tick() TickResult {
	result := TickResult{
		Completed: c.completeScheduled(),
	}

	c.closeIdleRows()
	result.Decision = c.schedule()

	return result
}

// NumQueued returns the number of requests waiting to be scheduled.
func (c *Controller) NumQueued() int {
	return c.queue.Len()
}

// NumScheduled returns the number of requests scheduled and not completed.
func (c *Controller) NumScheduled() int {
	return len(c.scheduled)
}

// NumPending returns the number of requests that the controller has not
// completed.
func (c *Controller) NumPending() int {
	return c.queue.Len() + len(c.scheduled)
}

// OpenRow returns the row that the controller considers open in the bank.
func (c *Controller) OpenRow(bank int) (uint64, bool) {
	return c.banks[bank].openRow, c.banks[bank].rowOpen
}

// Mapper returns the address mapping of the controller.
func (c *Controller) Mapper() addressmapping.InterleavingMapper {
	return c.mapper
}

func (c *Controller) completeScheduled() []*mem.Request {
	now := c.ctx.Now()

	var completed []*mem.Request

	remaining := c.scheduled[:0]
	for _, t := range c.scheduled {
		if t.Req.CompletionTime > now {
			remaining = append(remaining, t)
			continue
		}

		if t.IsRead() {
			c.device.Fetch(t.Req.Address)
		}

		c.banks[t.Location.Bank].lastCompletion = t.Req.CompletionTime
		c.record(StageComplete, t.Req)
		tracing.TraceReqComplete(t.Req, c)

		completed = append(completed, t.Req)
	}

	c.scheduled = remaining

	return completed
}

func (c *Controller) closeIdleRows() {
	if c.idleCloseCycles == 0 {
		return
	}

	now := c.ctx.Now()

	for bank := range c.banks {
		rec := &c.banks[bank]
		if !rec.rowOpen || !c.bankIsIdle(bank) {
			continue
		}

		if int64(now) < rec.lastCommandTime+int64(c.idleCloseCycles) {
			continue
		}

		if now < rec.lastCompletion+c.timing.recovery(rec.lastKind) {
			continue
		}

		rec.rowOpen = false
		rec.prechargeCompleteTime = now + c.timing.TRP
		rec.lastCommandTime = int64(now)
		c.device.Precharge(bank, rec.prechargeCompleteTime)
	}
}

func (c *Controller) bankIsIdle(bank int) bool {
	if c.queue.HasPendingFor(bank) || c.device.numInflight(bank) > 0 {
		return false
	}

	for _, t := range c.scheduled {
		if t.Location.Bank == bank {
			return false
		}
	}

	return true
}

func (c *Controller) schedule() *Decision {
	if c.queue.Len() == 0 {
		return nil
	}

	now := c.ctx.Now()

	candidates := c.queue.Candidates(func(t *signal.Transaction) bool {
		rec := &c.banks[t.Location.Bank]

		if rec.prechargeCompleteTime > now {
			return false
		}

		return int64(now) >= rec.lastCommandTime+int64(c.timing.TCCD)
	})

	for _, t := range candidates {
		c.record(StageReady, t.Req)
	}

	if len(candidates) == 0 {
		return nil
	}

	cmdq.Prioritize(candidates, c.isRowHit)

	return c.issue(candidates[0], candidates)
}

func (c *Controller) isRowHit(loc addressmapping.Location) bool {
	rec := &c.banks[loc.Bank]
	return rec.rowOpen && rec.openRow == loc.Row
}

func (c *Controller) issue(
	best *signal.Transaction,
	candidates []*signal.Transaction,
) *Decision {
	now := c.ctx.Now()
	loc := best.Location
	rec := &c.banks[loc.Bank]

	status := sim.RowHit
	delay := c.timing.RowHitLatency

	if !c.isRowHit(loc) {
		status = sim.RowMiss
		delay = c.timing.RowMissLatency()
		rec.prechargeCompleteTime = now + c.timing.TRP
		rec.openRow = loc.Row
		rec.rowOpen = true
	}

	if rec.accessed {
		delay += c.timing.TurnaroundPenalty(rec.lastKind, best.Req.Kind)
	}

	rec.lastCommandTime = int64(now)
	rec.lastKind = best.Req.Kind
	rec.accessed = true
	rec.lastAddr = best.Req.Address

	if err := c.queue.Remove(best); err != nil {
		log.Panic(sim.NewError(sim.ErrQueueInvariantViolation, c.Name(),
			"%s", err).AtCycle(now))
	}

	best.Req.CompletionTime = now + delay
	best.Req.Scheduled = true
	c.scheduled = append(c.scheduled, best)
	c.device.Request(best.Req)

	c.logDecision(best, status, candidates)

	return c.makeDecision(best, status, delay, candidates)
}

func (c *Controller) logDecision(
	best *signal.Transaction,
	status sim.DDRStatus,
	candidates []*signal.Transaction,
) {
	tracing.AddTaskStep(tracing.ReqInTaskID(best.Req, c), c, stepName(status))

	for _, t := range candidates {
		s := sim.Waiting
		if t == best {
			s = status
		}

		c.ctx.LogDDRAccess(sim.DDRAccess{
			CoreID:  t.Req.CoreID,
			Address: t.Req.Address,
			Op:      t.Req.Kind,
			Bank:    t.Location.Bank,
			Row:     t.Location.Row,
			Status:  s,
		})
	}
}

func stepName(status sim.DDRStatus) string {
	if status == sim.RowHit {
		return "row_hit"
	}

	return "row_miss"
}

func (c *Controller) makeDecision(
	best *signal.Transaction,
	status sim.DDRStatus,
	delay uint64,
	candidates []*signal.Transaction,
) *Decision {
	reqs := make([]*mem.Request, 0, len(candidates))
	for _, t := range candidates {
		reqs = append(reqs, t.Req)
	}

	return &Decision{
		Req:            best.Req,
		CompletionTime: best.Req.CompletionTime,
		Bank:           best.Location.Bank,
		Row:            best.Location.Row,
		Status:         status,
		CoreID:         best.Req.CoreID,
		Delay:          delay,
		Kind:           best.Req.Kind,
		Candidates:     reqs,
	}
}
