// Package experiment compares isolated and co-running executions of two
// programs.
package experiment

import (
	"context"

	"github.com/sarchlab/memcontention/config"
	"github.com/sarchlab/memcontention/core"
	"github.com/sarchlab/memcontention/datarecording"
	"github.com/sarchlab/memcontention/platform"
	"github.com/sarchlab/memcontention/sim/id"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Names of the three runs of a comparison.
const (
	RunCore0  = "core0"
	RunCore1  = "core1"
	RunMutual = "mutual"
)

// A Comparison holds the three runs of an experiment: each core alone, and
// both cores together.
type Comparison struct {
	Core0  *platform.RunStatistics `json:"core0"`
	Core1  *platform.RunStatistics `json:"core1"`
	Mutual *platform.RunStatistics `json:"mutual"`

	// MissRatioDiffCore0 is the [row][bank] DDR miss ratio of the mutual run
	// minus the one of the run of core 0 alone.
	MissRatioDiffCore0 [][]float64 `json:"miss_ratio_diff_core0"`
	MissRatioDiffCore1 [][]float64 `json:"miss_ratio_diff_core1"`
}

// Run returns the statistics of a run by name, or nil if there is no such
// run.
func (c *Comparison) Run(name string) *platform.RunStatistics {
	switch name {
	case RunCore0:
		return c.Core0
	case RunCore1:
		return c.Core1
	case RunMutual:
		return c.Mutual
	}

	return nil
}

// MissRatioDiff returns the miss ratio difference against the isolated run of
// a core.
func (c *Comparison) MissRatioDiff(coreID int) [][]float64 {
	if coreID == 0 {
		return c.MissRatioDiffCore0
	}

	return c.MissRatioDiffCore1
}

// Record writes the three runs into the recorder.
func (c *Comparison) Record(rec datarecording.DataRecorder) {
	platform.Record(rec, RunCore0, c.Core0)
	platform.Record(rec, RunCore1, c.Core1)
	platform.Record(rec, RunMutual, c.Mutual)
}

// An Experiment runs the same pair of programs in the three configurations.
type Experiment struct {
	cfg       config.Config
	programs  [platform.NumCores]*core.Program
	numCycles uint64
	uniqueIDs bool
	logger    logrus.FieldLogger
}

// Builder can build experiments.
type Builder struct {
	cfg       config.Config
	programs  [platform.NumCores]*core.Program
	numCycles uint64
	uniqueIDs bool
	logger    logrus.FieldLogger
}

// MakeBuilder creates a builder of an experiment on the default platform.
func MakeBuilder() Builder {
	cfg := config.Default()

	return Builder{
		cfg:       cfg,
		numCycles: cfg.Cycles,
		logger:    logrus.StandardLogger(),
	}
}

// WithConfig sets the platform configuration. It also sets the number of
// cycles of each run to the one of the configuration.
func (b Builder) WithConfig(cfg config.Config) Builder {
	b.cfg = cfg
	b.numCycles = cfg.Cycles

	return b
}

// WithPrograms sets the programs of the two cores.
func (b Builder) WithPrograms(core0, core1 *core.Program) Builder {
	b.programs = [platform.NumCores]*core.Program{core0, core1}
	return b
}

// WithNumCycles sets how many cycles each run lasts.
func (b Builder) WithNumCycles(n uint64) Builder {
	b.numCycles = n
	return b
}

// WithUniqueIDs makes the request IDs unique across the three runs, so that
// the traces of the runs can share one database.
func (b Builder) WithUniqueIDs() Builder {
	b.uniqueIDs = true
	return b
}

// WithLogger sets the logger of the runs.
func (b Builder) WithLogger(l logrus.FieldLogger) Builder {
	b.logger = l
	return b
}

// Build creates the experiment.
func (b Builder) Build() *Experiment {
	return &Experiment{
		cfg:       b.cfg,
		programs:  b.programs,
		numCycles: b.numCycles,
		uniqueIDs: b.uniqueIDs,
		logger:    b.logger,
	}
}

// Run runs the three simulations concurrently. A run that has not started
// when the context is cancelled does not start.
func (e *Experiment) Run(ctx context.Context) (*Comparison, error) {
	builders := map[string]platform.Builder{
		RunCore0: e.simulatorBuilder(RunCore0).WithProgram(0, e.programs[0]),
		RunCore1: e.simulatorBuilder(RunCore1).WithProgram(1, e.programs[1]),
		RunMutual: e.simulatorBuilder(RunMutual).
			WithProgram(0, e.programs[0]).
			WithProgram(1, e.programs[1]),
	}

	for _, b := range builders {
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}

	c := &Comparison{}
	results := map[string]**platform.RunStatistics{
		RunCore0:  &c.Core0,
		RunCore1:  &c.Core1,
		RunMutual: &c.Mutual,
	}

	g, gctx := errgroup.WithContext(ctx)
	for name, b := range builders {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			stats, err := b.Build(name).Simulate(e.numCycles)
			if err != nil {
				return err
			}

			*results[name] = stats

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.MissRatioDiffCore0 = diffTables(
		c.Mutual.DDR.MissRatioTable, c.Core0.DDR.MissRatioTable)
	c.MissRatioDiffCore1 = diffTables(
		c.Mutual.DDR.MissRatioTable, c.Core1.DDR.MissRatioTable)

	return c, nil
}

func (e *Experiment) simulatorBuilder(run string) platform.Builder {
	b := platform.MakeBuilder().
		WithConfig(e.cfg).
		WithLogger(e.logger.WithField("experiment_run", run))

	if e.uniqueIDs {
		b = b.WithIDGenerator(id.NewParallelIDGenerator())
	}

	return b
}

// Compare runs core0 alone, core1 alone, and both together for numCycles
// cycles each.
func Compare(
	ctx context.Context,
	cfg config.Config,
	core0, core1 *core.Program,
	numCycles uint64,
) (*Comparison, error) {
	return MakeBuilder().
		WithConfig(cfg).
		WithPrograms(core0, core1).
		WithNumCycles(numCycles).
		Build().
		Run(ctx)
}

// diffTables subtracts b from a element-wise. Missing elements count as 0.
func diffTables(a, b [][]float64) [][]float64 {
	rows := max(len(a), len(b))
	out := make([][]float64, rows)

	for r := range out {
		var ra, rb []float64
		if r < len(a) {
			ra = a[r]
		}

		if r < len(b) {
			rb = b[r]
		}

		out[r] = make([]float64, max(len(ra), len(rb)))
		for c := range out[r] {
			out[r][c] = at(ra, c) - at(rb, c)
		}
	}

	return out
}

func at(row []float64, i int) float64 {
	if i < len(row) {
		return row[i]
	}

	return 0
}
