package cache

// Stats summarizes the accesses that a cache level has served.
type Stats struct {
	Level    string  `json:"level"`
	Hits     uint64  `json:"hits"`
	Misses   uint64  `json:"misses"`
	MissRate float64 `json:"miss_rate"`

	// HitTable and MissTable count the accesses per [set][way]. A miss is
	// counted at the way that the set would evict at the time of the access.
	HitTable  [][]uint64 `json:"hit_table"`
	MissTable [][]uint64 `json:"miss_table"`

	// MissRatioTable is MissTable / (HitTable + MissTable), with 0 where no
	// access happened.
	MissRatioTable [][]float64 `json:"miss_ratio_table"`
}

// Stats returns a snapshot of the statistics of the level.
func (l *Level) Stats() Stats {
	s := Stats{
		Level:          l.Name(),
		Hits:           l.hits,
		Misses:         l.misses,
		MissRate:       ratio(l.misses, l.hits+l.misses),
		HitTable:       copyTable(l.hitTable),
		MissTable:      copyTable(l.missTable),
		MissRatioTable: make([][]float64, len(l.hitTable)),
	}

	for set := range l.hitTable {
		s.MissRatioTable[set] = make([]float64, len(l.hitTable[set]))
		for way := range l.hitTable[set] {
			hits := l.hitTable[set][way]
			misses := l.missTable[set][way]
			s.MissRatioTable[set][way] = ratio(misses, hits+misses)
		}
	}

	return s
}

// Accesses returns the number of accesses counted.
func (s Stats) Accesses() uint64 {
	return s.Hits + s.Misses
}

func (l *Level) countHit(setID, wayID int) {
	l.hits++
	l.hitTable[setID][wayID]++
}

func (l *Level) countMiss(setID, wayID int) {
	l.misses++
	l.missTable[setID][wayID]++
}

func ratio(n, d uint64) float64 {
	if d == 0 {
		return 0
	}

	return float64(n) / float64(d)
}

func copyTable(t [][]uint64) [][]uint64 {
	c := make([][]uint64, len(t))
	for i := range t {
		c[i] = append([]uint64(nil), t[i]...)
	}

	return c
}
