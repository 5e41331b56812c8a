package interconnect

import (
	"log"
	"math/rand"

	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/sim"
	"github.com/sarchlab/memcontention/sim/naming"
)

// Builder can build interconnects.
type Builder struct {
	ctx       *sim.Context
	dst       mem.RequestSink
	seed      int64
	delay     uint64
	jitter    uint64
	bandwidth int
}

// MakeBuilder creates a builder with a base delay of 5 cycles, a jitter of up
// to 2 cycles, and a bandwidth of 4 requests per cycle.
func MakeBuilder() Builder {
	return Builder{
		delay:     5,
		jitter:    2,
		bandwidth: 4,
	}
}

// WithContext sets the simulation context.
func (b Builder) WithContext(ctx *sim.Context) Builder {
	b.ctx = ctx
	return b
}

// WithDestination sets where ready requests are forwarded to.
func (b Builder) WithDestination(dst mem.RequestSink) Builder {
	b.dst = dst
	return b
}

// WithSeed sets the seed of the jitter generator.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	return b
}

// WithDelay sets the base delay in cycles.
func (b Builder) WithDelay(cycles uint64) Builder {
	b.delay = cycles
	return b
}

// WithJitter sets the maximum random extra delay. Zero disables the jitter.
func (b Builder) WithJitter(cycles uint64) Builder {
	b.jitter = cycles
	return b
}

// WithBandwidth sets the maximum number of requests forwarded per cycle.
func (b Builder) WithBandwidth(n int) Builder {
	b.bandwidth = n
	return b
}

// Validate checks the configuration.
func (b Builder) Validate(name string) error {
	switch {
	case b.ctx == nil:
		return sim.NewError(sim.ErrConfiguration, name,
			"simulation context is not set")
	case b.dst == nil:
		return sim.NewError(sim.ErrConfiguration, name,
			"destination is not set")
	case b.bandwidth <= 0:
		return sim.NewError(sim.ErrConfiguration, name,
			"bandwidth must be positive, got %d", b.bandwidth)
	}

	return nil
}

// Build creates an interconnect. It panics if the configuration is invalid.
func (b Builder) Build(name string) *Interconnect {
	naming.NameMustBeValid(name)

	if err := b.Validate(name); err != nil {
		log.Panic(err)
	}

	return &Interconnect{
		NamedBase: naming.MakeNamedBase(name),
		ctx:       b.ctx,
		dst:       b.dst,
		rand:      rand.New(rand.NewSource(b.seed)),
		delay:     b.delay,
		jitter:    b.jitter,
		bandwidth: b.bandwidth,
	}
}
