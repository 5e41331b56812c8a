// Package config holds the parameters of a simulated platform and of the
// runs made on it.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/memcontention/sim"
	"gopkg.in/yaml.v3"
)

// CacheConfig is the geometry and write policy of one cache level.
type CacheConfig struct {
	Size          int  `yaml:"size" json:"size"`
	LineSize      int  `yaml:"line_size" json:"line_size"`
	Associativity int  `yaml:"associativity" json:"associativity"`
	WriteBack     bool `yaml:"write_back" json:"write_back"`
	WriteAllocate bool `yaml:"write_allocate" json:"write_allocate"`
}

// InterconnectConfig configures the link between the shared cache and the
// DDR controller.
type InterconnectConfig struct {
	Delay     uint64 `yaml:"delay" json:"delay"`
	Jitter    uint64 `yaml:"jitter" json:"jitter"`
	Bandwidth int    `yaml:"bandwidth" json:"bandwidth"`
}

// DRAMConfig configures the DDR controller and the device. Timings are in
// cycles.
type DRAMConfig struct {
	NumBanks      int    `yaml:"num_banks" json:"num_banks"`
	AddrPerRow    uint64 `yaml:"addr_per_row" json:"addr_per_row"`
	RowHitLatency uint64 `yaml:"row_hit_latency" json:"row_hit_latency"`
	TRCD          uint64 `yaml:"trcd" json:"trcd"`
	TRP           uint64 `yaml:"trp" json:"trp"`
	TCAS          uint64 `yaml:"tcas" json:"tcas"`
	TRC           uint64 `yaml:"trc" json:"trc"`
	TWR           uint64 `yaml:"twr" json:"twr"`
	TRTP          uint64 `yaml:"trtp" json:"trtp"`
	TCCD          uint64 `yaml:"tccd" json:"tccd"`

	// IdleCloseCycles closes a row that has been idle for this many cycles.
	// Zero keeps rows open until a row miss.
	IdleCloseCycles uint64 `yaml:"idle_close_cycles" json:"idle_close_cycles"`
}

// RecordingConfig selects what a run writes to disk.
type RecordingConfig struct {
	// DB is the path of the SQLite file, without extension. Empty disables
	// recording.
	DB    string `yaml:"db" json:"db"`
	Trace bool   `yaml:"trace" json:"trace"`
}

// MonitorConfig configures the monitoring web server.
type MonitorConfig struct {
	Enabled     bool `yaml:"enabled" json:"enabled"`
	Port        int  `yaml:"port" json:"port"`
	OpenBrowser bool `yaml:"open_browser" json:"open_browser"`
}

// Config describes a two-core platform and how long to run it.
type Config struct {
	L1           CacheConfig        `yaml:"l1" json:"l1"`
	L2           CacheConfig        `yaml:"l2" json:"l2"`
	Interconnect InterconnectConfig `yaml:"interconnect" json:"interconnect"`
	DRAM         DRAMConfig         `yaml:"dram" json:"dram"`

	// MaxAddress is the largest address that a program may use. It also sizes
	// the per-(row, bank) tables.
	MaxAddress uint64 `yaml:"max_address" json:"max_address"`
	Seed       int64  `yaml:"seed" json:"seed"`
	Cycles     uint64 `yaml:"cycles" json:"cycles"`

	Recording RecordingConfig `yaml:"recording" json:"recording"`
	Monitor   MonitorConfig   `yaml:"monitor" json:"monitor"`
}

// Default returns the reference platform: a 32 B 2-way L1 per core, a shared
// 512 B 16-way L2, and a 4-bank DDR device.
func Default() Config {
	return Config{
		L1: CacheConfig{
			Size:          32,
			LineSize:      4,
			Associativity: 2,
			WriteBack:     true,
			WriteAllocate: true,
		},
		L2: CacheConfig{
			Size:          512,
			LineSize:      4,
			Associativity: 16,
			WriteBack:     true,
			WriteAllocate: true,
		},
		Interconnect: InterconnectConfig{
			Delay:     5,
			Jitter:    2,
			Bandwidth: 4,
		},
		DRAM: DRAMConfig{
			NumBanks:   4,
			AddrPerRow: 16,
			TRCD:       15,
			TRP:        15,
			TCAS:       15,
			TRC:        30,
			TWR:        15,
			TRTP:       8,
			TCCD:       4,
		},
		MaxAddress: 31,
		Cycles:     300,
	}
}

// NumRows returns the number of DDR rows that addresses up to MaxAddress
// span.
func (c Config) NumRows() int {
	if c.DRAM.AddrPerRow == 0 {
		return 0
	}

	return int(c.MaxAddress/c.DRAM.AddrPerRow) + 1
}

// Validate checks the geometry. All the problems found are joined in the
// returned error.
func (c Config) Validate() error {
	var errs []error

	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	checkCache := func(name string, cc CacheConfig) {
		check(cc.Size > 0, "%s size must be positive", name)
		check(cc.LineSize > 0, "%s line size must be positive", name)
		check(cc.Associativity > 0 &&
			cc.Associativity&(cc.Associativity-1) == 0,
			"%s associativity must be a positive power of two", name)

		if cc.LineSize > 0 && cc.Associativity > 0 {
			check(cc.Size%(cc.LineSize*cc.Associativity) == 0,
				"%s size must be a whole number of sets", name)
		}
	}

	checkCache("L1", c.L1)
	checkCache("L2", c.L2)
	check(c.Interconnect.Bandwidth > 0,
		"interconnect bandwidth must be positive")
	check(c.DRAM.NumBanks > 0, "number of banks must be positive")
	check(c.DRAM.AddrPerRow > 0, "addresses per row must be positive")
	check(c.Monitor.Port >= 0 && c.Monitor.Port < 65536,
		"monitor port %d is out of range", c.Monitor.Port)

	if len(errs) == 0 {
		return nil
	}

	return sim.NewError(sim.ErrConfiguration, "config", "%s", errors.Join(errs...))
}

// Decode reads a YAML document over the defaults. Fields missing from the
// document keep their default value.
func Decode(r io.Reader) (Config, error) {
	c := Default()

	err := yaml.NewDecoder(r).Decode(&c)
	if err != nil && err != io.EOF {
		return Config{}, sim.NewError(sim.ErrConfiguration, "config",
			"cannot decode: %s", err)
	}

	return c, nil
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	return Decode(f)
}

// Encode writes the config as YAML.
func (c Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(c); err != nil {
		return err
	}

	return enc.Close()
}
