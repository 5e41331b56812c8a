// Package addressmapping converts addresses to DRAM locations.
package addressmapping

// Location is the place in the DRAM that an address maps to.
type Location struct {
	Bank int
	Row  uint64
}

// A Mapper converts an address to a location.
type Mapper interface {
	Map(addr uint64) Location
}

// InterleavingMapper spreads consecutive addresses over the banks, and groups
// a fixed number of consecutive addresses in each row.
type InterleavingMapper struct {
	NumBanks   int
	AddrPerRow uint64
}

// Map returns bank = addr mod NumBanks and row = addr / AddrPerRow.
func (m InterleavingMapper) Map(addr uint64) Location {
	return Location{
		Bank: int(addr % uint64(m.NumBanks)),
		Row:  addr / m.AddrPerRow,
	}
}

// NumRows returns the number of rows needed to hold the addresses up to and
// including maxAddr.
func (m InterleavingMapper) NumRows(maxAddr uint64) int {
	return int(maxAddr/m.AddrPerRow) + 1
}
