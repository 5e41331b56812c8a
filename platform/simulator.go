package platform

import (
	"github.com/sarchlab/memcontention/config"
	"github.com/sarchlab/memcontention/core"
	"github.com/sarchlab/memcontention/monitoring"
	"github.com/sarchlab/memcontention/sim"
	"github.com/sarchlab/memcontention/sim/naming"
	"github.com/sarchlab/memcontention/tracing"
	"github.com/sirupsen/logrus"
)

// A Simulator runs programs on a platform. Every call to Simulate builds the
// platform anew and starts at cycle 0.
//
// A Simulator is not safe for concurrent use. Concurrent runs need one
// Simulator each.
type Simulator struct {
	naming.NamedBase

	cfg      config.Config
	programs [NumCores]*core.Program
	ctx      *sim.Context
	tracers  []tracing.Tracer
	monitor  *monitoring.Monitor
	logger   logrus.FieldLogger

	platform *Platform
}

// Context returns the context that the runs of the simulator use. Tracers
// can read the current cycle from it.
func (s *Simulator) Context() *sim.Context {
	return s.ctx
}

// Config returns the platform configuration.
func (s *Simulator) Config() config.Config {
	return s.cfg
}

// Platform returns the platform of the latest run, or nil before the first
// run.
func (s *Simulator) Platform() *Platform {
	return s.platform
}

// AddTracer attaches a tracer to every component of the next runs. Tracers
// that need the current cycle can read it from Context.
func (s *Simulator) AddTracer(t tracing.Tracer) {
	s.tracers = append(s.tracers, t)
}

// SetProgram replaces the program of a core for the next runs. A nil program
// leaves the core idle.
func (s *Simulator) SetProgram(coreID int, p *core.Program) {
	s.programs[coreID] = p
}

// Simulate runs the programs for the given number of cycles and returns the
// statistics of the run. It fails without running if a program uses an
// address above the maximum address of the configuration.
func (s *Simulator) Simulate(numCycles uint64) (*RunStatistics, error) {
	for i, p := range s.programs {
		if err := p.Validate(s.cfg.MaxAddress); err != nil {
			return nil, sim.NewError(sim.ErrInvalidAddress, coreName(i),
				"%s", err)
		}
	}

	s.ctx.Reset()
	s.platform = build(s.ctx, s.cfg, s.programs)
	s.attachObservers()

	var bar *monitoring.ProgressBar
	if s.monitor != nil {
		bar = s.monitor.CreateProgressBar(s.Name(), numCycles)
		defer s.monitor.CompleteProgressBar(bar)
	}

	for cycle := uint64(0); cycle < numCycles; cycle++ {
		if s.monitor != nil {
			s.monitor.WaitIfPaused()
		}

		s.platform.Tick()

		if bar != nil {
			bar.Advance(1)
		}
	}

	stats := s.platform.collect(numCycles)

	s.logger.WithFields(logrus.Fields{
		"run":         s.Name(),
		"cycles":      numCycles,
		"time_core0":  stats.TimeCore(0),
		"time_core1":  stats.TimeCore(1),
		"ddr_miss":    stats.DDR.GlobalMissRatio,
		"l2_miss":     stats.L2MissRate,
		"contentions": stats.Contention.TotalEvents,
	}).Info("run finished")

	return stats, nil
}

func (s *Simulator) attachObservers() {
	comps := s.platform.Components()

	for _, t := range s.tracers {
		for _, c := range comps {
			tracing.CollectTrace(c, t)
		}
	}

	if s.monitor == nil {
		return
	}

	s.monitor.RegisterRun(s.ctx)
	for _, c := range comps {
		s.monitor.RegisterComponent(c)
	}

	s.platform.Analyzer.AcceptHook(s.monitor)
}
