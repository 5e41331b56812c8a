package cmd

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/memcontention/analysis"
	"github.com/sarchlab/memcontention/platform"
	"github.com/sarchlab/memcontention/sim"
	"github.com/sarchlab/memcontention/tracing"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	runFlags     programFlags
	runAlone     int
	runMonitor   bool
	runTrace     bool
	runLogTasks  bool
	runSummarize bool
	runLatency   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the two programs together.",
	Long: "`run --core0 a.yaml --core1 b.yaml` runs both programs on the " +
		"platform and prints the statistics of the run as JSON. With " +
		"`--alone N`, only core N runs its program.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		core0, core1, err := runFlags.programs()
		if err != nil {
			return err
		}

		name := "mutual"
		switch runAlone {
		case -1:
		case 0:
			core1 = nil
			name = "core0"
		case 1:
			core0 = nil
			name = "core1"
		default:
			return fmt.Errorf("there is no core %d", runAlone)
		}

		if runMonitor {
			cfg.Monitor.Enabled = true
		}

		b := platform.MakeBuilder().
			WithConfig(cfg).
			WithProgram(0, core0).
			WithProgram(1, core1)
		if err := b.Validate(); err != nil {
			return err
		}

		if m := startMonitor(); m != nil {
			b = b.WithMonitor(m)
		}

		s := b.Build(name)

		if runLogTasks {
			s.AddTracer(tracing.NewLogTracer(
				s.Context(), logrus.StandardLogger(), tracing.AllTasks))
		}

		var latency *tracing.AverageTimeTracer
		if runLatency {
			latency = tracing.NewAverageTimeTracer(
				s.Context(), tracing.KindFilter("req_in"))
			s.AddTracer(latency)
		}

		rec := openRecorder(runFlags.dbPath())

		var dbTracer *tracing.DBTracer
		if rec != nil && (runTrace || cfg.Recording.Trace) {
			dbTracer = tracing.NewDBTracer(s.Context(), rec)
			s.AddTracer(dbTracer)
		}

		stats, err := s.Simulate(runFlags.numCycles())
		if err != nil {
			return err
		}

		if latency != nil {
			logLatency(latency)
		}

		if rec != nil {
			if dbTracer != nil {
				dbTracer.Terminate()
			}

			platform.Record(rec, name, stats)

			if err := rec.Close(); err != nil {
				return err
			}
		}

		if runSummarize {
			if err := checkContention(s.Context(), stats.Contention); err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), stats.Contention)
		}

		return printJSON(cmd.OutOrStdout(), stats)
	},
}

// checkContention compares the summary of the per-cycle events with a rerun of
// the detection over the whole-run logs.
func checkContention(ctx *sim.Context, perCycle analysis.Report) error {
	wholeRun := analysis.AnalyzeContext(ctx)
	if !reflect.DeepEqual(perCycle, wholeRun) {
		return sim.NewError(sim.ErrQueueInvariantViolation, "Analyzer",
			"per-cycle contention %+v differs from the whole-run logs %+v",
			perCycle, wholeRun).AtCycle(ctx.Now())
	}

	return nil
}

func logLatency(t *tracing.AverageTimeTracer) {
	for _, location := range t.Locations() {
		mean, count := t.AverageTimeAt(location)
		logrus.WithFields(logrus.Fields{
			"component": location,
			"requests":  count,
			"cycles":    mean,
		}).Info("average request latency")
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	runFlags.register(runCmd)
	runCmd.Flags().IntVar(&runAlone, "alone", -1,
		"run only the program of this core")
	runCmd.Flags().BoolVar(&runMonitor, "monitor", false,
		"serve the monitoring web page during the run")
	runCmd.Flags().BoolVar(&runTrace, "trace", false,
		"record the tasks of every component into the database")
	runCmd.Flags().BoolVar(&runLogTasks, "log-tasks", false,
		"log the tasks of every component at debug level")
	runCmd.Flags().BoolVar(&runLatency, "latency", false,
		"log the average request latency of every component")
	runCmd.Flags().BoolVar(&runSummarize, "summary", false,
		"print only the contention summary")
}
