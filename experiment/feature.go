package experiment

import (
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/memcontention/platform"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFeature is returned when a feature cannot be extracted from a
// comparison.
var ErrUnknownFeature = errors.New("unknown feature")

// FeatureKind is what a feature measures.
type FeatureKind int

// The kinds of features that can be extracted from a comparison.
const (
	// TimeVector is the completion times of core 0 alone, core 1 alone, and
	// both cores of the mutual run, in this order.
	TimeVector FeatureKind = iota

	// CompletionTime is the completion time of Core in Run.
	CompletionTime

	// MissRatio is the DDR miss ratio of (Row, Bank) in Run.
	MissRatio

	// MissRatioTable is the DDR miss ratio table of Run, flattened row by
	// row.
	MissRatioTable

	// MissRatioDiff is the miss ratio table of the mutual run minus the one
	// of Core alone, flattened row by row.
	MissRatioDiff

	// SharedCacheMissRatio is the L2 miss rate of Run.
	SharedCacheMissRatio

	// GlobalMissRatio is the DDR miss ratio of Run over all the banks.
	GlobalMissRatio

	// BankMissRatios is the DDR miss ratio of every bank in Run.
	BankMissRatios

	// ContentionEvents is the number of contention events of Run.
	ContentionEvents
)

var featureKindNames = map[FeatureKind]string{
	TimeVector:           "time_vector",
	CompletionTime:       "time",
	MissRatio:            "miss_ratio",
	MissRatioTable:       "miss_ratio_table",
	MissRatioDiff:        "miss_ratio_diff",
	SharedCacheMissRatio: "shared_cache_miss_ratio",
	GlobalMissRatio:      "global_miss_ratio",
	BankMissRatios:       "bank_miss_ratios",
	ContentionEvents:     "contention_events",
}

func (k FeatureKind) String() string {
	if name, ok := featureKindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("FeatureKind(%d)", int(k))
}

// MarshalText writes the name of the kind.
func (k FeatureKind) MarshalText() ([]byte, error) {
	if _, ok := featureKindNames[k]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFeature, k)
	}

	return []byte(k.String()), nil
}

// UnmarshalText reads the name of a kind.
func (k *FeatureKind) UnmarshalText(text []byte) error {
	kind, err := ParseFeatureKind(string(text))
	if err != nil {
		return err
	}

	*k = kind

	return nil
}

// ParseFeatureKind returns the kind with the given name.
func ParseFeatureKind(name string) (FeatureKind, error) {
	for k, n := range featureKindNames {
		if n == name {
			return k, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownFeature, name)
}

// A Feature describes a measurement of a comparison. The fields other than
// Kind are used only by the kinds that need them.
type Feature struct {
	Kind FeatureKind `json:"type" yaml:"type"`
	Run  string      `json:"run,omitempty" yaml:"run,omitempty"`
	Core int         `json:"core,omitempty" yaml:"core,omitempty"`
	Row  uint64      `json:"row,omitempty" yaml:"row,omitempty"`
	Bank int         `json:"bank,omitempty" yaml:"bank,omitempty"`
}

// Extract measures a feature of the comparison.
func (c *Comparison) Extract(f Feature) ([]float64, error) {
	switch f.Kind {
	case TimeVector:
		return []float64{
			float64(c.Core0.TimeCore(0)),
			float64(c.Core1.TimeCore(1)),
			float64(c.Mutual.TimeCore(0)),
			float64(c.Mutual.TimeCore(1)),
		}, nil
	case MissRatioDiff:
		if err := coreMustExist(f); err != nil {
			return nil, err
		}

		return flatten(c.MissRatioDiff(f.Core)), nil
	}

	run := c.Run(f.Run)
	if run == nil {
		return nil, fmt.Errorf("%w: %s has no run %q",
			ErrUnknownFeature, f.Kind, f.Run)
	}

	switch f.Kind {
	case CompletionTime:
		if err := coreMustExist(f); err != nil {
			return nil, err
		}

		return []float64{float64(run.TimeCore(f.Core))}, nil
	case MissRatio:
		table := run.DDR.MissRatioTable
		if f.Row >= uint64(len(table)) ||
			f.Bank < 0 || f.Bank >= len(table[f.Row]) {
			return nil, fmt.Errorf("%w: %s has no row %d bank %d",
				ErrUnknownFeature, f.Kind, f.Row, f.Bank)
		}

		return []float64{table[f.Row][f.Bank]}, nil
	case MissRatioTable:
		return flatten(run.DDR.MissRatioTable), nil
	case SharedCacheMissRatio:
		return []float64{run.L2MissRate}, nil
	case GlobalMissRatio:
		return []float64{run.DDR.GlobalMissRatio}, nil
	case BankMissRatios:
		return append([]float64(nil), run.DDR.BankMissRatios...), nil
	case ContentionEvents:
		return []float64{float64(len(run.Events))}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFeature, f.Kind)
	}
}

// ExtractAll measures the features in order and concatenates the results.
func (c *Comparison) ExtractAll(features ...Feature) ([]float64, error) {
	var out []float64

	for _, f := range features {
		v, err := c.Extract(f)
		if err != nil {
			return nil, err
		}

		out = append(out, v...)
	}

	return out, nil
}

func coreMustExist(f Feature) error {
	if f.Core < 0 || f.Core >= platform.NumCores {
		return fmt.Errorf("%w: %s has no core %d", ErrUnknownFeature, f.Kind, f.Core)
	}

	return nil
}

func flatten(table [][]float64) []float64 {
	var out []float64
	for _, row := range table {
		out = append(out, row...)
	}

	return out
}

// LoadFeatures reads a YAML list of features. A feature names its kind in
// the type field, and its target in the run, core, row and bank fields:
//
//	[{type: time_vector}, {type: miss_ratio, run: mutual, row: 1, bank: 2}]
func LoadFeatures(r io.Reader) ([]Feature, error) {
	var features []Feature

	err := yaml.NewDecoder(r).Decode(&features)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrUnknownFeature, err)
	}

	return features, nil
}
