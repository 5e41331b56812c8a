// Package analysis detects cycles in which both cores use a shared resource.
package analysis

import (
	"sort"

	"github.com/sarchlab/memcontention/sim"
)

// AnalyzeCycle classifies the accesses logged in one cycle.
//
// The shared cache is contended when more than one core accessed it. The DDR
// controller is contended when more than one core had a request at it and the
// requests either outnumber the banks they target or disagree on the row of
// a bank. At most one event of each kind is returned, the cache event first.
func AnalyzeCycle(
	cycle uint64,
	l2 []sim.L2Access,
	ddr []sim.DDRAccess,
) []sim.ContentionEvent {
	var events []sim.ContentionEvent

	if e, ok := l2Contention(cycle, l2); ok {
		events = append(events, e)
	}

	if e, ok := ddrContention(cycle, ddr); ok {
		events = append(events, e)
	}

	return events
}

func l2Contention(cycle uint64, accesses []sim.L2Access) (sim.ContentionEvent, bool) {
	if len(accesses) < 2 {
		return sim.ContentionEvent{}, false
	}

	cores := make(map[int]bool)
	details := &sim.L2ContentionDetails{}

	for _, a := range accesses {
		cores[a.CoreID] = true
		details.SetIndices = append(details.SetIndices, a.SetIndex)
		details.Operations = append(details.Operations, a.Op)
		details.Addresses = append(details.Addresses, a.Address)
		details.Ways = append(details.Ways, a.Way)
	}

	if len(cores) < 2 {
		return sim.ContentionEvent{}, false
	}

	return sim.ContentionEvent{
		Cycle:      cycle,
		Kind:       sim.L2CacheContention,
		Initiators: sortedKeys(cores),
		L2:         details,
	}, true
}

func ddrContention(cycle uint64, accesses []sim.DDRAccess) (sim.ContentionEvent, bool) {
	if len(accesses) < 2 {
		return sim.ContentionEvent{}, false
	}

	cores := make(map[int]bool)
	rowOfBank := make(map[int]uint64)
	initiators := make([]int, 0, len(accesses))
	details := &sim.DDRContentionDetails{}

	for _, a := range accesses {
		cores[a.CoreID] = true
		initiators = append(initiators, a.CoreID)

		if row, found := rowOfBank[a.Bank]; found && row != a.Row {
			details.RowConflicts = true
		}
		rowOfBank[a.Bank] = a.Row

		details.Banks = append(details.Banks, a.Bank)
		details.Rows = append(details.Rows, a.Row)
		details.Operations = append(details.Operations, a.Op)
		details.Statuses = append(details.Statuses, a.Status)
	}

	details.BankConflicts = len(accesses) > len(rowOfBank)

	if len(cores) < 2 || !(details.BankConflicts || details.RowConflicts) {
		return sim.ContentionEvent{}, false
	}

	return sim.ContentionEvent{
		Cycle:      cycle,
		Kind:       sim.DDRMemoryContention,
		Initiators: initiators,
		DDR:        details,
	}, true
}

func sortedKeys(m map[int]bool) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Ints(keys)

	return keys
}
