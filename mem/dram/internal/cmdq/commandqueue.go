// Package cmdq provides the queue of requests waiting for the DRAM controller
// to schedule them.
package cmdq

import (
	"fmt"
	"sort"

	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/mem/dram/internal/addressmapping"
	"github.com/sarchlab/memcontention/mem/dram/internal/signal"
)

// A CommandQueue holds the transactions that are not scheduled yet, in
// arrival order.
type CommandQueue struct {
	transactions []*signal.Transaction
	nextSeq      uint64
}

// NewCommandQueue creates an empty queue.
func NewCommandQueue() *CommandQueue {
	return &CommandQueue{}
}

// Push wraps the request in a transaction and appends it to the queue.
func (q *CommandQueue) Push(
	req *mem.Request,
	loc addressmapping.Location,
) *signal.Transaction {
	t := &signal.Transaction{
		Req:      req,
		Location: loc,
		Seq:      q.nextSeq,
	}
	q.nextSeq++
	q.transactions = append(q.transactions, t)

	return t
}

// Len returns the number of queued transactions.
func (q *CommandQueue) Len() int {
	return len(q.transactions)
}

// Transactions returns the queued transactions in arrival order.
func (q *CommandQueue) Transactions() []*signal.Transaction {
	return append([]*signal.Transaction(nil), q.transactions...)
}

// Candidates returns the transactions that pass the filter, in arrival order.
func (q *CommandQueue) Candidates(
	ready func(t *signal.Transaction) bool,
) []*signal.Transaction {
	var candidates []*signal.Transaction

	for _, t := range q.transactions {
		if ready(t) {
			candidates = append(candidates, t)
		}
	}

	return candidates
}

// HasPendingFor returns true if a queued transaction targets the bank.
func (q *CommandQueue) HasPendingFor(bank int) bool {
	for _, t := range q.transactions {
		if t.Location.Bank == bank {
			return true
		}
	}

	return false
}

// Remove takes the transaction out of the queue.
func (q *CommandQueue) Remove(t *signal.Transaction) error {
	for i, queued := range q.transactions {
		if queued == t {
			q.transactions = append(q.transactions[:i], q.transactions[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("transaction of request %s is not queued", t.Req.ID)
}

// Reset drops all the queued transactions.
func (q *CommandQueue) Reset() {
	q.transactions = nil
	q.nextSeq = 0
}

// Prioritize sorts the candidates in scheduling order: row hits before row
// misses, then reads before writes, then older requests first. Candidates
// that tie on all three keys keep their arrival order.
func Prioritize(
	candidates []*signal.Transaction,
	isRowHit func(loc addressmapping.Location) bool,
) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]

		hitA, hitB := isRowHit(a.Location), isRowHit(b.Location)
		if hitA != hitB {
			return hitA
		}

		if a.IsRead() != b.IsRead() {
			return a.IsRead()
		}

		if a.ArrivalTime() != b.ArrivalTime() {
			return a.ArrivalTime() < b.ArrivalTime()
		}

		return a.Seq < b.Seq
	})
}
