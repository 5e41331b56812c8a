// Package signal defines the state that the DRAM controller keeps for each
// request.
package signal

import (
	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/mem/dram/internal/addressmapping"
)

// Transaction is the state associated with the processing of a read or write
// request.
type Transaction struct {
	Req      *mem.Request
	Location addressmapping.Location

	// Seq is the order in which the controller received the request.
	Seq uint64
}

// IsRead returns true if the transaction is a read transaction.
func (t *Transaction) IsRead() bool {
	return t.Req.IsRead()
}

// IsWrite returns true if the transaction is a write transaction.
func (t *Transaction) IsWrite() bool {
	return t.Req.IsWrite()
}

// ArrivalTime returns the cycle at which the request was created.
func (t *Transaction) ArrivalTime() uint64 {
	return t.Req.IssueTime
}
