package cache

import (
	"log"

	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/mem/cache/internal/mshr"
	"github.com/sarchlab/memcontention/mem/cache/internal/tagging"
	"github.com/sarchlab/memcontention/sim"
	"github.com/sarchlab/memcontention/sim/naming"
)

// Write strategies.
const (
	WriteBack    = "writeBack"
	WriteThrough = "writeThrough"
)

// Builder can build cache levels.
type Builder struct {
	ctx *sim.Context

	blockSize        int
	wayAssociativity int
	cacheByteSize    int
	writeStrategy    string
	writeAllocate    bool
	logAccesses      bool

	lower LowerLevel
	sink  mem.RequestSink
}

// MakeBuilder creates a builder with the geometry of the private L1 cache.
func MakeBuilder() Builder {
	return Builder{
		blockSize:        4,
		wayAssociativity: 2,
		cacheByteSize:    32,
		writeStrategy:    WriteBack,
		writeAllocate:    true,
	}
}

// WithContext sets the simulation context that the level reads the cycle
// from, draws request IDs from, and logs accesses to.
func (b Builder) WithContext(ctx *sim.Context) Builder {
	b.ctx = ctx
	return b
}

// WithBlockSize sets the cache line size in bytes.
func (b Builder) WithBlockSize(blockSize int) Builder {
	b.blockSize = blockSize
	return b
}

// WithWayAssociativity sets the way associativity of the builder.
func (b Builder) WithWayAssociativity(wayAssociativity int) Builder {
	b.wayAssociativity = wayAssociativity
	return b
}

// WithTotalByteSize sets the capacity of the cache.
func (b Builder) WithTotalByteSize(size int) Builder {
	b.cacheByteSize = size
	return b
}

// WithWriteStrategy sets the write strategy, either WriteBack or
// WriteThrough.
func (b Builder) WithWriteStrategy(writeStrategy string) Builder {
	b.writeStrategy = writeStrategy
	return b
}

// WithWriteAllocate sets whether a write miss installs the line.
func (b Builder) WithWriteAllocate(writeAllocate bool) Builder {
	b.writeAllocate = writeAllocate
	return b
}

// WithAccessLogging makes the level log every access to the context, which
// is what the shared level does for contention analysis.
func (b Builder) WithAccessLogging() Builder {
	b.logAccesses = true
	return b
}

// WithLowerLevel sets the next cache level.
func (b Builder) WithLowerLevel(lower LowerLevel) Builder {
	b.lower = lower
	b.sink = nil

	return b
}

// WithSink makes the level the last one. Its misses leave the hierarchy
// through the sink.
func (b Builder) WithSink(sink mem.RequestSink) Builder {
	b.sink = sink
	b.lower = nil

	return b
}

// Validate checks the configuration. The returned error wraps
// sim.ErrConfiguration.
func (b Builder) Validate(name string) error {
	fail := func(format string, args ...any) error {
		return sim.NewError(sim.ErrConfiguration, name, format, args...)
	}

	switch {
	case b.ctx == nil:
		return fail("simulation context is not set")
	case b.cacheByteSize <= 0:
		return fail("cache size must be positive, got %d", b.cacheByteSize)
	case b.blockSize <= 0:
		return fail("line size must be positive, got %d", b.blockSize)
	case b.wayAssociativity <= 0:
		return fail("associativity must be positive, got %d",
			b.wayAssociativity)
	case b.wayAssociativity&(b.wayAssociativity-1) != 0:
		return fail("associativity must be a power of two, got %d",
			b.wayAssociativity)
	case b.cacheByteSize%(b.blockSize*b.wayAssociativity) != 0:
		return fail("cache must have a integer number of sets")
	case b.writeStrategy != WriteBack && b.writeStrategy != WriteThrough:
		return fail("unknown write strategy %q", b.writeStrategy)
	case b.lower == nil && b.sink == nil:
		return fail("no lower level or sink")
	}

	return nil
}

// Build builds a cache level. It panics if the configuration is invalid.
func (b Builder) Build(name string) *Level {
	naming.NameMustBeValid(name)

	if err := b.Validate(name); err != nil {
		log.Panic(err)
	}

	numSets := b.cacheByteSize / (b.blockSize * b.wayAssociativity)

	l := &Level{
		NamedBase:     naming.MakeNamedBase(name),
		ctx:           b.ctx,
		tags:          tagging.NewTagArray(numSets, b.wayAssociativity, b.blockSize),
		mshr:          mshr.NewMSHR(),
		lower:         b.lower,
		sink:          b.sink,
		writeBack:     b.writeStrategy == WriteBack,
		writeAllocate: b.writeAllocate,
		logAccesses:   b.logAccesses,
		hitTable:      makeTable(numSets, b.wayAssociativity),
		missTable:     makeTable(numSets, b.wayAssociativity),
	}

	return l
}
