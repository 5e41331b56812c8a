package platform

import (
	"github.com/sarchlab/memcontention/analysis"
	"github.com/sarchlab/memcontention/core"
	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/mem/cache"
	"github.com/sarchlab/memcontention/mem/dram"
	"github.com/sarchlab/memcontention/sim"
)

// A DecisionRecord is a request that the DDR controller scheduled.
type DecisionRecord struct {
	Cycle          uint64         `json:"cycle"`
	CoreID         int            `json:"core"`
	Address        uint64         `json:"address"`
	Kind           mem.AccessKind `json:"op"`
	Bank           int            `json:"bank"`
	Row            uint64         `json:"row"`
	Status         sim.DDRStatus  `json:"status"`
	Delay          uint64         `json:"delay"`
	CompletionTime uint64         `json:"completion_time"`
	NumCandidates  int            `json:"num_candidates"`
}

// DDRStats count the row hits and misses of the scheduled requests.
type DDRStats struct {
	BankHits   []uint64 `json:"bank_hits"`
	BankMisses []uint64 `json:"bank_misses"`

	// HitTable and MissTable are indexed by [row][bank].
	HitTable  [][]uint64 `json:"hit_table"`
	MissTable [][]uint64 `json:"miss_table"`

	// MissRatioTable is MissTable / (HitTable + MissTable), with 0 where no
	// request was scheduled.
	MissRatioTable  [][]float64 `json:"miss_ratio_table"`
	BankMissRatios  []float64   `json:"bank_miss_ratios"`
	GlobalMissRatio float64     `json:"global_miss_ratio"`
}

// RunStatistics is the outcome of one run.
type RunStatistics struct {
	Cycles uint64 `json:"cycles"`

	// CoreTimes is, per core, the last cycle at which the core issued an
	// access, completed one, or had one of its requests finish at the DDR.
	CoreTimes  []uint64               `json:"core_times"`
	Cores      []core.Stats           `json:"cores"`
	Accesses   [][]core.AccessRecord  `json:"accesses"`
	Caches     []cache.HierarchyStats `json:"caches"`
	L2MissRate float64                `json:"l2_miss_rate"`
	DDR        DDRStats               `json:"ddr"`
	Decisions  []DecisionRecord       `json:"decisions"`
	Events     []sim.ContentionEvent  `json:"events"`
	Contention analysis.Report        `json:"contention"`
	Sequence   []dram.SequenceEntry   `json:"sequence"`
}

// TimeCore returns the completion time of a core.
func (s *RunStatistics) TimeCore(coreID int) uint64 {
	return s.CoreTimes[coreID]
}

type ddrCollector struct {
	numBanks  int
	hits      []uint64
	misses    []uint64
	hitTable  [][]uint64
	missTable [][]uint64
	decisions []DecisionRecord
}

func newDDRCollector(numBanks, numRows int) *ddrCollector {
	c := &ddrCollector{
		numBanks: numBanks,
		hits:     make([]uint64, numBanks),
		misses:   make([]uint64, numBanks),
	}

	c.growTo(numRows)

	return c
}

func (c *ddrCollector) growTo(numRows int) {
	for len(c.hitTable) < numRows {
		c.hitTable = append(c.hitTable, make([]uint64, c.numBanks))
		c.missTable = append(c.missTable, make([]uint64, c.numBanks))
	}
}

func (c *ddrCollector) add(now uint64, d *dram.Decision) {
	c.growTo(int(d.Row) + 1)

	if d.Status == sim.RowMiss {
		c.misses[d.Bank]++
		c.missTable[d.Row][d.Bank]++
	} else {
		c.hits[d.Bank]++
		c.hitTable[d.Row][d.Bank]++
	}

	c.decisions = append(c.decisions, DecisionRecord{
		Cycle:          now,
		CoreID:         d.CoreID,
		Address:        d.Req.Address,
		Kind:           d.Kind,
		Bank:           d.Bank,
		Row:            d.Row,
		Status:         d.Status,
		Delay:          d.Delay,
		CompletionTime: d.CompletionTime,
		NumCandidates:  len(d.Candidates),
	})
}

func (c *ddrCollector) stats() DDRStats {
	s := DDRStats{
		BankHits:       append([]uint64(nil), c.hits...),
		BankMisses:     append([]uint64(nil), c.misses...),
		HitTable:       make([][]uint64, len(c.hitTable)),
		MissTable:      make([][]uint64, len(c.missTable)),
		MissRatioTable: make([][]float64, len(c.hitTable)),
		BankMissRatios: make([]float64, c.numBanks),
	}

	var totalHits, totalMisses uint64

	for bank := 0; bank < c.numBanks; bank++ {
		s.BankMissRatios[bank] = ratio(c.misses[bank], c.hits[bank]+c.misses[bank])
		totalHits += c.hits[bank]
		totalMisses += c.misses[bank]
	}

	s.GlobalMissRatio = ratio(totalMisses, totalHits+totalMisses)

	for row := range c.hitTable {
		s.HitTable[row] = append([]uint64(nil), c.hitTable[row]...)
		s.MissTable[row] = append([]uint64(nil), c.missTable[row]...)
		s.MissRatioTable[row] = make([]float64, c.numBanks)

		for bank := 0; bank < c.numBanks; bank++ {
			hits := c.hitTable[row][bank]
			misses := c.missTable[row][bank]
			s.MissRatioTable[row][bank] = ratio(misses, hits+misses)
		}
	}

	return s
}

func ratio(n, d uint64) float64 {
	if d == 0 {
		return 0
	}

	return float64(n) / float64(d)
}

func (p *Platform) collect(cycles uint64) *RunStatistics {
	s := &RunStatistics{
		Cycles:    cycles,
		DDR:       p.ddr.stats(),
		Decisions: append([]DecisionRecord(nil), p.ddr.decisions...),
		Events:    p.ctx.Events(),
		Sequence:  p.Controller.Sequence(),
	}

	for i, c := range p.Cores {
		stats := c.Stats()
		s.Cores = append(s.Cores, stats)
		s.CoreTimes = append(s.CoreTimes, stats.CompletionTime)
		s.Accesses = append(s.Accesses, c.Accesses())
		s.Caches = append(s.Caches, p.Hierarchies[i].Stats())
	}

	s.L2MissRate = p.L2.Stats().MissRate
	s.Contention = analysis.Summarize(s.Events)

	return s
}
