// Package interconnect models the link between the shared cache and the DDR
// controller. Every request waits a base delay plus a bounded random jitter,
// and at most a fixed number of requests leave the link per cycle.
package interconnect

import (
	"container/heap"
	"math/rand"

	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/sim"
	"github.com/sarchlab/memcontention/sim/hooking"
	"github.com/sarchlab/memcontention/sim/naming"
	"github.com/sarchlab/memcontention/tracing"
)

// Interconnect is a bandwidth-limited, latency-bounded request queue.
type Interconnect struct {
	naming.NamedBase
	hooking.HookableBase

	ctx    *sim.Context
	dst    mem.RequestSink
	rand   *rand.Rand
	queue  readyHeap
	seq    uint64
	delay  uint64
	jitter uint64

	bandwidth int
}

// Request queues a request. The request becomes ready after the base delay
// plus a random jitter in [0, jitter].
func (ic *Interconnect) Request(req *mem.Request) {
	ready := ic.ctx.Now() + ic.delay
	if ic.jitter > 0 {
		ready += uint64(ic.rand.Int63n(int64(ic.jitter) + 1))
	}

	heap.Push(&ic.queue, entry{ready: ready, seq: ic.seq, req: req})
	ic.seq++

	tracing.TraceReqReceive(req, ic)
}

// Tick forwards up to bandwidth ready requests to the destination, earliest
// ready time first. The others stay queued.
func (ic *Interconnect) Tick() (madeProgress bool) {
	now := ic.ctx.Now()

	for i := 0; i < ic.bandwidth; i++ {
		if ic.queue.Len() == 0 || ic.queue[0].ready > now {
			break
		}

		e := heap.Pop(&ic.queue).(entry)
		tracing.TraceReqComplete(e.req, ic)
		ic.dst.Request(e.req)

		madeProgress = true
	}

	return madeProgress
}

// NumPending returns the number of requests in transit.
func (ic *Interconnect) NumPending() int {
	return ic.queue.Len()
}

// nextReadyTime returns the earliest ready time among the queued requests.
// The second return value is false if the queue is empty.
func (ic *Interconnect) nextReadyTime() (uint64, bool) {
	if ic.queue.Len() == 0 {
		return 0, false
	}

	return ic.queue[0].ready, true
}

type entry struct {
	ready uint64
	seq   uint64
	req   *mem.Request
}

type readyHeap []entry

func (h readyHeap) Len() int {
	return len(h)
}

// Less orders by ready time. Requests that become ready in the same cycle
// leave in arrival order.
func (h readyHeap) Less(i, j int) bool {
	if h[i].ready != h[j].ready {
		return h[i].ready < h[j].ready
	}

	return h[i].seq < h[j].seq
}

func (h readyHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *readyHeap) Push(x any) {
	*h = append(*h, x.(entry))
}

func (h *readyHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[0 : n-1]

	return e
}
