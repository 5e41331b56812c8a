package platform

import (
	"fmt"
	"log"

	"github.com/sarchlab/memcontention/analysis"
	"github.com/sarchlab/memcontention/config"
	"github.com/sarchlab/memcontention/core"
	"github.com/sarchlab/memcontention/mem/cache"
	"github.com/sarchlab/memcontention/mem/dram"
	"github.com/sarchlab/memcontention/monitoring"
	"github.com/sarchlab/memcontention/noc/interconnect"
	"github.com/sarchlab/memcontention/sim"
	"github.com/sarchlab/memcontention/sim/id"
	"github.com/sarchlab/memcontention/sim/naming"
	"github.com/sarchlab/memcontention/tracing"
	"github.com/sirupsen/logrus"
)

// Builder can build simulators.
type Builder struct {
	cfg      config.Config
	programs [NumCores]*core.Program
	tracers  []tracing.Tracer
	monitor  *monitoring.Monitor
	logger   logrus.FieldLogger
	ids      id.IDGenerator
}

// MakeBuilder creates a builder of the default platform with idle cores.
func MakeBuilder() Builder {
	return Builder{
		cfg:    config.Default(),
		logger: logrus.StandardLogger(),
	}
}

// WithConfig sets the platform configuration.
func (b Builder) WithConfig(cfg config.Config) Builder {
	b.cfg = cfg
	return b
}

// WithProgram sets the program of a core.
func (b Builder) WithProgram(coreID int, p *core.Program) Builder {
	b.programs[coreID] = p
	return b
}

// WithTracer attaches a tracer to every component of every run.
func (b Builder) WithTracer(t tracing.Tracer) Builder {
	b.tracers = append(append([]tracing.Tracer(nil), b.tracers...), t)
	return b
}

// WithMonitor lets a monitoring server watch and pause the runs.
func (b Builder) WithMonitor(m *monitoring.Monitor) Builder {
	b.monitor = m
	return b
}

// WithLogger sets the logger that reports the end of each run.
func (b Builder) WithLogger(l logrus.FieldLogger) Builder {
	b.logger = l
	return b
}

// WithIDGenerator sets how request IDs are drawn. By default, IDs are
// sequential, which keeps runs reproducible.
func (b Builder) WithIDGenerator(g id.IDGenerator) Builder {
	b.ids = g
	return b
}

// Validate checks the configuration and the programs.
func (b Builder) Validate() error {
	if err := b.cfg.Validate(); err != nil {
		return err
	}

	for i, p := range b.programs {
		if err := p.Validate(b.cfg.MaxAddress); err != nil {
			return sim.NewError(sim.ErrInvalidAddress, coreName(i), "%s", err)
		}
	}

	return nil
}

// Build creates a simulator. It panics if the configuration is invalid.
func (b Builder) Build(name string) *Simulator {
	if err := b.Validate(); err != nil {
		log.Panic(err)
	}

	ids := b.ids
	if ids == nil {
		ids = id.NewIDGenerator()
	}

	return &Simulator{
		NamedBase: naming.MakeNamedBase(name),
		cfg:       b.cfg,
		programs:  b.programs,
		ctx:       sim.NewContextWithIDGenerator(ids),
		tracers:   b.tracers,
		monitor:   b.monitor,
		logger:    b.logger,
	}
}

func writeStrategy(cc config.CacheConfig) string {
	if cc.WriteBack {
		return cache.WriteBack
	}

	return cache.WriteThrough
}

func cacheBuilder(ctx *sim.Context, cc config.CacheConfig) cache.Builder {
	return cache.MakeBuilder().
		WithContext(ctx).
		WithTotalByteSize(cc.Size).
		WithBlockSize(cc.LineSize).
		WithWayAssociativity(cc.Associativity).
		WithWriteStrategy(writeStrategy(cc)).
		WithWriteAllocate(cc.WriteAllocate)
}

func dramBuilder(ctx *sim.Context, dc config.DRAMConfig) dram.Builder {
	return dram.MakeBuilder().
		WithContext(ctx).
		WithNumBank(dc.NumBanks).
		WithAddrPerRow(dc.AddrPerRow).
		WithTiming(dram.Timing{
			TRCD:          dc.TRCD,
			TRP:           dc.TRP,
			TCAS:          dc.TCAS,
			TRC:           dc.TRC,
			TWR:           dc.TWR,
			TRTP:          dc.TRTP,
			TCCD:          dc.TCCD,
			RowHitLatency: dc.RowHitLatency,
		}).
		WithIdleCloseCycles(dc.IdleCloseCycles)
}

// build wires a platform. The components are built from the memory side up,
// because every level needs the one below it.
func build(
	ctx *sim.Context,
	cfg config.Config,
	programs [NumCores]*core.Program,
) *Platform {
	if err := cfg.Validate(); err != nil {
		log.Panic(err)
	}

	p := &Platform{ctx: ctx}

	p.Controller = dramBuilder(ctx, cfg.DRAM).Build("DRAM")

	p.Interconnect = interconnect.MakeBuilder().
		WithContext(ctx).
		WithDestination(p.Controller).
		WithSeed(cfg.Seed).
		WithDelay(cfg.Interconnect.Delay).
		WithJitter(cfg.Interconnect.Jitter).
		WithBandwidth(cfg.Interconnect.Bandwidth).
		Build("Interconnect")

	p.L2 = cacheBuilder(ctx, cfg.L2).
		WithAccessLogging().
		WithSink(p.Interconnect).
		Build("L2")

	l1Builder := cacheBuilder(ctx, cfg.L1).WithLowerLevel(p.L2)

	for i := 0; i < NumCores; i++ {
		l1 := l1Builder.Build(coreName(i) + ".L1")
		h := cache.NewHierarchy(i, l1, p.L2)

		p.Hierarchies = append(p.Hierarchies, h)
		p.Cores = append(p.Cores, core.MakeBuilder().
			WithContext(ctx).
			WithID(i).
			WithMemory(h).
			WithProgram(programs[i]).
			Build(coreName(i)))
	}

	p.Analyzer = analysis.NewAnalyzer("Analyzer", ctx)
	p.ddr = newDDRCollector(cfg.DRAM.NumBanks, cfg.NumRows())

	return p
}

func coreName(id int) string {
	return fmt.Sprintf("Core[%d]", id)
}
