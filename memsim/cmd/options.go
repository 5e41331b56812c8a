package cmd

import (
	"encoding/json"
	"io"

	"github.com/sarchlab/memcontention/core"
	"github.com/sarchlab/memcontention/datarecording"
	"github.com/sarchlab/memcontention/monitoring"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type programFlags struct {
	core0, core1 string
	cycles       uint64
	db           string
}

func (f *programFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.core0, "core0", "",
		"YAML program of core 0; empty leaves the core idle")
	cmd.Flags().StringVar(&f.core1, "core1", "",
		"YAML program of core 1; empty leaves the core idle")
	cmd.Flags().Uint64Var(&f.cycles, "cycles", 0,
		"number of cycles to simulate; 0 uses the configuration")
	cmd.Flags().StringVar(&f.db, "db", "",
		"SQLite file to record into, without extension")
}

func (f *programFlags) numCycles() uint64 {
	if f.cycles > 0 {
		return f.cycles
	}

	return cfg.Cycles
}

func (f *programFlags) dbPath() string {
	if f.db != "" {
		return f.db
	}

	return cfg.Recording.DB
}

func (f *programFlags) programs() (core0, core1 *core.Program, err error) {
	core0, err = loadProgram(f.core0)
	if err != nil {
		return nil, nil, err
	}

	core1, err = loadProgram(f.core1)
	if err != nil {
		return nil, nil, err
	}

	return core0, core1, nil
}

func loadProgram(path string) (*core.Program, error) {
	if path == "" {
		return nil, nil
	}

	return core.LoadProgramFile(path)
}

func openRecorder(path string) datarecording.DataRecorder {
	if path == "" {
		return nil
	}

	return datarecording.New(path)
}

func startMonitor() *monitoring.Monitor {
	if !cfg.Monitor.Enabled {
		return nil
	}

	m := monitoring.NewMonitor().WithPortNumber(cfg.Monitor.Port)
	url := m.StartServer()
	logrus.WithField("url", url).Info("monitoring server started")

	if cfg.Monitor.OpenBrowser {
		if err := m.OpenBrowser(); err != nil {
			logrus.WithError(err).Warn("cannot open the browser")
		}
	}

	return m
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
