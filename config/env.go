package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sarchlab/memcontention/sim"
)

// Environment variables that override the file values.
const (
	EnvSeed        = "MEMSIM_SEED"
	EnvCycles      = "MEMSIM_CYCLES"
	EnvDB          = "MEMSIM_DB"
	EnvMonitorPort = "MEMSIM_MONITOR_PORT"
)

// LoadDotEnv loads the variables of the given .env files into the process
// environment. Variables already set are kept. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return err
		}
	}

	return nil
}

// ApplyEnv overrides the config with the MEMSIM_* variables that are set.
func (c Config) ApplyEnv() (Config, error) {
	return c.applyEnv(os.LookupEnv)
}

// ApplyEnvMap overrides the config with the variables of a .env file
// without touching the process environment.
func (c Config) ApplyEnvMap(path string) (Config, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return Config{}, err
	}

	return c.applyEnv(func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	})
}

func (c Config) applyEnv(lookup func(string) (string, bool)) (Config, error) {
	if v, ok := lookup(EnvSeed); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, envError(EnvSeed, v)
		}
		c.Seed = seed
	}

	if v, ok := lookup(EnvCycles); ok {
		cycles, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, envError(EnvCycles, v)
		}
		c.Cycles = cycles
	}

	if v, ok := lookup(EnvDB); ok {
		c.Recording.DB = v
	}

	if v, ok := lookup(EnvMonitorPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, envError(EnvMonitorPort, v)
		}
		c.Monitor.Port = port
		c.Monitor.Enabled = true
	}

	return c, nil
}

func envError(name, value string) error {
	return sim.NewError(sim.ErrConfiguration, "config",
		"%s=%q is not a number", name, value)
}
