// Package org models the organization of the DRAM device.
package org

import "fmt"

// BankState is the state of a bank.
type BankState int

// The states of a bank.
const (
	Idle BankState = iota
	ActivateRow
	Reading
	Writing
	Precharging
)

func (s BankState) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case ActivateRow:
		return "ACTIVATE_BANK_ROW"
	case Reading:
		return "READING"
	case Writing:
		return "WRITING"
	case Precharging:
		return "PRECHARGING"
	default:
		return fmt.Sprintf("BankState(%d)", int(s))
	}
}

// A Bank is a DRAM bank with a row buffer.
//
// A bank leaves Idle when a column command arrives, and returns to
// ActivateRow, with the row left open, when its last access completes. Only a
// precharge brings it back to Idle.
type Bank struct {
	state     BankState
	openRow   uint64
	rowOpen   bool
	busyUntil uint64
	inflight  int
}

// NewBank creates an idle bank with no open row.
func NewBank() *Bank {
	return &Bank{}
}

// State returns the current state.
func (b *Bank) State() BankState {
	return b.state
}

// OpenRow returns the row in the row buffer. The second return value is false
// if no row is open.
func (b *Bank) OpenRow() (uint64, bool) {
	return b.openRow, b.rowOpen
}

// BusyUntil returns the cycle at which the current command finishes.
func (b *Bank) BusyUntil() uint64 {
	return b.busyUntil
}

// NumInflight returns the number of accesses the bank is serving.
func (b *Bank) NumInflight() int {
	return b.inflight
}

// StartAccess starts a read or a write to the row that completes at the given
// cycle. It returns an error if the bank is precharging.
func (b *Bank) StartAccess(write bool, row uint64, completeAt uint64) error {
	if b.state == Precharging {
		return fmt.Errorf("bank is precharging until cycle %d", b.busyUntil)
	}

	b.state = Reading
	if write {
		b.state = Writing
	}

	b.openRow = row
	b.rowOpen = true
	b.inflight++

	if completeAt > b.busyUntil {
		b.busyUntil = completeAt
	}

	return nil
}

// CompleteAccess retires one access. When none is left, the bank waits in
// ActivateRow for the next command.
func (b *Bank) CompleteAccess() error {
	if b.inflight == 0 {
		return fmt.Errorf("no access in flight in state %s", b.state)
	}

	b.inflight--
	if b.inflight == 0 {
		b.state = ActivateRow
	}

	return nil
}

// StartPrecharge closes the row buffer. The bank becomes idle at the given
// cycle.
func (b *Bank) StartPrecharge(until uint64) error {
	if b.inflight > 0 {
		return fmt.Errorf("cannot precharge with %d accesses in flight",
			b.inflight)
	}

	b.state = Precharging
	b.busyUntil = until

	return nil
}

// Tick moves a precharging bank to Idle once its timer has elapsed.
func (b *Bank) Tick(now uint64) (madeProgress bool) {
	if b.state != Precharging || b.busyUntil > now {
		return false
	}

	b.state = Idle
	b.rowOpen = false

	return true
}
