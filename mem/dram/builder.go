package dram

import (
	"log"

	"github.com/sarchlab/memcontention/mem/dram/internal/addressmapping"
	"github.com/sarchlab/memcontention/mem/dram/internal/cmdq"
	"github.com/sarchlab/memcontention/mem/dram/internal/org"
	"github.com/sarchlab/memcontention/sim"
	"github.com/sarchlab/memcontention/sim/naming"
)

// Builder can build new memory controllers.
type Builder struct {
	ctx             *sim.Context
	numBank         int
	addrPerRow      uint64
	timing          Timing
	idleCloseCycles uint64
}

// MakeBuilder creates a builder with 4 banks, 16 addresses per row, and the
// default timing.
func MakeBuilder() Builder {
	return Builder{
		numBank:    4,
		addrPerRow: 16,
		timing:     DefaultTiming(),
	}
}

// WithContext sets the simulation context.
func (b Builder) WithContext(ctx *sim.Context) Builder {
	b.ctx = ctx
	return b
}

// WithNumBank sets the number of banks.
func (b Builder) WithNumBank(n int) Builder {
	b.numBank = n
	return b
}

// WithAddrPerRow sets the number of consecutive addresses in a row.
func (b Builder) WithAddrPerRow(n uint64) Builder {
	b.addrPerRow = n
	return b
}

// WithTiming replaces all the timing parameters.
func (b Builder) WithTiming(t Timing) Builder {
	b.timing = t
	return b
}

// WithTRCD sets the activate to column command delay.
func (b Builder) WithTRCD(cycle uint64) Builder {
	b.timing.TRCD = cycle
	return b
}

// WithTRP sets the precharge time.
func (b Builder) WithTRP(cycle uint64) Builder {
	b.timing.TRP = cycle
	return b
}

// WithTCAS sets the column access latency.
func (b Builder) WithTCAS(cycle uint64) Builder {
	b.timing.TCAS = cycle
	return b
}

// WithTWR sets the write recovery time.
func (b Builder) WithTWR(cycle uint64) Builder {
	b.timing.TWR = cycle
	return b
}

// WithTRTP sets the read to precharge time.
func (b Builder) WithTRTP(cycle uint64) Builder {
	b.timing.TRTP = cycle
	return b
}

// WithTCCD sets the minimum spacing between two commands to the same bank.
func (b Builder) WithTCCD(cycle uint64) Builder {
	b.timing.TCCD = cycle
	return b
}

// WithRowHitLatency sets the latency of an access to the open row.
func (b Builder) WithRowHitLatency(cycle uint64) Builder {
	b.timing.RowHitLatency = cycle
	return b
}

// WithIdleCloseCycles enables the close-page policy: a row that has not been
// used for the given number of cycles is precharged. Zero keeps rows open
// until a row miss.
func (b Builder) WithIdleCloseCycles(cycle uint64) Builder {
	b.idleCloseCycles = cycle
	return b
}

// Validate checks the configuration.
func (b Builder) Validate(name string) error {
	switch {
	case b.ctx == nil:
		return sim.NewError(sim.ErrConfiguration, name,
			"simulation context is not set")
	case b.numBank <= 0:
		return sim.NewError(sim.ErrConfiguration, name,
			"number of banks must be positive, got %d", b.numBank)
	case b.addrPerRow == 0:
		return sim.NewError(sim.ErrConfiguration, name,
			"addresses per row must be positive")
	}

	return nil
}

// Build builds a memory controller together with its device. The device is
// named after the controller.
func (b Builder) Build(name string) *Controller {
	naming.NameMustBeValid(name)

	if err := b.Validate(name); err != nil {
		log.Panic(err)
	}

	mapper := addressmapping.InterleavingMapper{
		NumBanks:   b.numBank,
		AddrPerRow: b.addrPerRow,
	}

	c := &Controller{
		NamedBase:       naming.MakeNamedBase(name),
		ctx:             b.ctx,
		device:          b.buildDevice(name+".Device", mapper),
		mapper:          mapper,
		timing:          b.timing,
		queue:           cmdq.NewCommandQueue(),
		banks:           make([]bankRecord, b.numBank),
		idleCloseCycles: b.idleCloseCycles,
	}

	for i := range c.banks {
		c.banks[i].lastCommandTime = -int64(b.timing.TRC)
	}

	return c
}

func (b Builder) buildDevice(
	name string,
	mapper addressmapping.Mapper,
) *Device {
	d := &Device{
		NamedBase: naming.MakeNamedBase(name),
		ctx:       b.ctx,
		mapper:    mapper,
		storage:   make(map[uint64]struct{}),
	}

	for i := 0; i < b.numBank; i++ {
		d.banks = append(d.banks, org.NewBank())
	}

	return d
}
