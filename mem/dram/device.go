package dram

import (
	"container/heap"
	"log"

	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/mem/dram/internal/addressmapping"
	"github.com/sarchlab/memcontention/mem/dram/internal/org"
	"github.com/sarchlab/memcontention/sim"
	"github.com/sarchlab/memcontention/sim/hooking"
	"github.com/sarchlab/memcontention/sim/naming"
)

// Device is the DRAM device. It keeps one state machine per bank and the
// set of addresses that have been written.
type Device struct {
	naming.NamedBase
	hooking.HookableBase

	ctx         *sim.Context
	mapper      addressmapping.Mapper
	banks       []*org.Bank
	storage     map[uint64]struct{}
	completions completionHeap
	seq         uint64
}

// Request starts serving a request that the controller has scheduled. The
// completion time of the request must be set.
func (d *Device) Request(req *mem.Request) {
	now := d.ctx.Now()
	loc := d.mapper.Map(req.Address)
	bank := d.banks[loc.Bank]

	bank.Tick(now)

	err := bank.StartAccess(req.IsWrite(), loc.Row, req.CompletionTime)
	if err != nil {
		log.Panic(sim.NewError(sim.ErrQueueInvariantViolation, d.Name(),
			"bank %d cannot serve %s: %s", loc.Bank, req, err).AtCycle(now))
	}

	heap.Push(&d.completions, completion{
		at:  req.CompletionTime,
		seq: d.seq,
		req: req,
	})
	d.seq++
}

// Tick retires the accesses whose completion time has come, then lets the
// precharging banks whose timer has elapsed go idle.
func (d *Device) Tick() (madeProgress bool) {
	now := d.ctx.Now()

	for d.completions.Len() > 0 && d.completions[0].at <= now {
		c := heap.Pop(&d.completions).(completion)
		madeProgress = true

		if c.req.IsWrite() {
			d.storage[c.req.Address] = struct{}{}
		}

		loc := d.mapper.Map(c.req.Address)
		if err := d.banks[loc.Bank].CompleteAccess(); err != nil {
			log.Panic(sim.NewError(sim.ErrQueueInvariantViolation, d.Name(),
				"bank %d: %s", loc.Bank, err).AtCycle(now))
		}
	}

	for _, b := range d.banks {
		madeProgress = b.Tick(now) || madeProgress
	}

	return madeProgress
}

// Fetch reads an address. It returns true if the address has been written
// before.
func (d *Device) Fetch(addr uint64) bool {
	_, found := d.storage[addr]
	return found
}

// Precharge closes the row buffer of a bank. The bank is idle again at the
// given cycle.
func (d *Device) Precharge(bank int, until uint64) {
	if err := d.banks[bank].StartPrecharge(until); err != nil {
		log.Panic(sim.NewError(sim.ErrQueueInvariantViolation, d.Name(),
			"bank %d: %s", bank, err).AtCycle(d.ctx.Now()))
	}
}

// NumBanks returns the number of banks.
func (d *Device) NumBanks() int {
	return len(d.banks)
}

// BankState returns the state of a bank.
func (d *Device) BankState(bank int) org.BankState {
	return d.banks[bank].State()
}

// OpenRow returns the row open in a bank, if any.
func (d *Device) OpenRow(bank int) (uint64, bool) {
	return d.banks[bank].OpenRow()
}

// NumPending returns the number of accesses in flight.
func (d *Device) NumPending() int {
	return d.completions.Len()
}

func (d *Device) numInflight(bank int) int {
	return d.banks[bank].NumInflight()
}

type completion struct {
	at  uint64
	seq uint64
	req *mem.Request
}

type completionHeap []completion

func (h completionHeap) Len() int {
	return len(h)
}

func (h completionHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}

	return h[i].seq < h[j].seq
}

func (h completionHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *completionHeap) Push(x any) {
	*h = append(*h, x.(completion))
}

func (h *completionHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[0 : n-1]

	return c
}
