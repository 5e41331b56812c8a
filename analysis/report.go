package analysis

import (
	"sort"

	"github.com/sarchlab/memcontention/sim"
)

// A Report summarizes the contention of a run.
type Report struct {
	L2ContentionCycles  []uint64 `json:"l2_contention_cycles"`
	DDRContentionCycles []uint64 `json:"ddr_contention_cycles"`
	TotalEvents         int      `json:"total_contention_events"`
}

// Summarize builds the report of a list of events.
func Summarize(events []sim.ContentionEvent) Report {
	r := Report{
		L2ContentionCycles:  []uint64{},
		DDRContentionCycles: []uint64{},
		TotalEvents:         len(events),
	}

	l2 := make(map[uint64]bool)
	ddr := make(map[uint64]bool)

	for _, e := range events {
		switch e.Kind {
		case sim.L2CacheContention:
			l2[e.Cycle] = true
		case sim.DDRMemoryContention:
			ddr[e.Cycle] = true
		}
	}

	r.L2ContentionCycles = appendSorted(r.L2ContentionCycles, l2)
	r.DDRContentionCycles = appendSorted(r.DDRContentionCycles, ddr)

	return r
}

// Analyze reruns the detection over whole-run logs, grouping the accesses by
// cycle. Cache events of every cycle come before the DDR events.
func Analyze(l2 []sim.L2Access, ddr []sim.DDRAccess) []sim.ContentionEvent {
	l2ByCycle := make(map[uint64][]sim.L2Access)
	for _, a := range l2 {
		l2ByCycle[a.Cycle] = append(l2ByCycle[a.Cycle], a)
	}

	ddrByCycle := make(map[uint64][]sim.DDRAccess)
	for _, a := range ddr {
		ddrByCycle[a.Cycle] = append(ddrByCycle[a.Cycle], a)
	}

	var events []sim.ContentionEvent

	for _, cycle := range sortedCycles(l2ByCycle) {
		if e, ok := l2Contention(cycle, l2ByCycle[cycle]); ok {
			events = append(events, e)
		}
	}

	for _, cycle := range sortedCycles(ddrByCycle) {
		if e, ok := ddrContention(cycle, ddrByCycle[cycle]); ok {
			events = append(events, e)
		}
	}

	return events
}

// AnalyzeContext reruns the detection over the whole-run logs of a context and
// summarizes what it finds. After a run, the result equals the summary of the
// events that the Analyzer recorded cycle by cycle.
func AnalyzeContext(ctx *sim.Context) Report {
	return Summarize(Analyze(ctx.L2Accesses(), ctx.DDRAccesses()))
}

func sortedCycles[T any](m map[uint64]T) []uint64 {
	cycles := make([]uint64, 0, len(m))
	for c := range m {
		cycles = append(cycles, c)
	}

	sort.Slice(cycles, func(i, j int) bool { return cycles[i] < cycles[j] })

	return cycles
}

func appendSorted(dst []uint64, set map[uint64]bool) []uint64 {
	return append(dst, sortedCycles(set)...)
}
