package core

import (
	"io"
	"os"
	"sort"

	"github.com/sarchlab/memcontention/mem"
	"github.com/sarchlab/memcontention/sim"
	"gopkg.in/yaml.v3"
)

// An Instruction is a memory access scheduled at a cycle.
type Instruction struct {
	Cycle   uint64         `yaml:"cycle" json:"cycle"`
	Op      mem.AccessKind `yaml:"op" json:"op"`
	Address uint64         `yaml:"address" json:"address"`
}

// A Program maps cycles to the instruction that the core issues at that
// cycle. A cycle has at most one instruction.
type Program struct {
	byCycle map[uint64]Instruction
}

// NewProgram creates a program. It fails if two instructions share a cycle or
// if an operation is neither a read nor a write.
func NewProgram(instructions []Instruction) (*Program, error) {
	p := &Program{byCycle: make(map[uint64]Instruction, len(instructions))}

	for _, inst := range instructions {
		if inst.Op != mem.Read && inst.Op != mem.Write {
			return nil, sim.NewError(sim.ErrUnknownOperation, "program",
				"cycle %d: %s", inst.Cycle, inst.Op)
		}

		if _, found := p.byCycle[inst.Cycle]; found {
			return nil, sim.NewError(sim.ErrConfiguration, "program",
				"two instructions at cycle %d", inst.Cycle)
		}

		p.byCycle[inst.Cycle] = inst
	}

	return p, nil
}

// MustNewProgram is NewProgram that panics on error.
func MustNewProgram(instructions ...Instruction) *Program {
	p, err := NewProgram(instructions)
	if err != nil {
		panic(err)
	}

	return p
}

// At returns the instruction scheduled at the cycle.
func (p *Program) At(cycle uint64) (Instruction, bool) {
	if p == nil {
		return Instruction{}, false
	}

	inst, found := p.byCycle[cycle]

	return inst, found
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}

	return len(p.byCycle)
}

// Instructions returns the instructions ordered by cycle.
func (p *Program) Instructions() []Instruction {
	if p == nil {
		return nil
	}

	out := make([]Instruction, 0, len(p.byCycle))
	for _, inst := range p.byCycle {
		out = append(out, inst)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Cycle < out[j].Cycle })

	return out
}

// Validate checks that every address is at most maxAddress.
func (p *Program) Validate(maxAddress uint64) error {
	for _, inst := range p.Instructions() {
		if inst.Address > maxAddress {
			return sim.NewError(sim.ErrInvalidAddress, "program",
				"cycle %d: address %d is above the maximum address %d",
				inst.Cycle, inst.Address, maxAddress)
		}
	}

	return nil
}

type instructionEntry struct {
	Cycle   uint64 `yaml:"cycle"`
	Op      string `yaml:"op"`
	Address uint64 `yaml:"address"`
}

// LoadProgram decodes a YAML list of {cycle, op, address} entries.
func LoadProgram(r io.Reader) (*Program, error) {
	var entries []instructionEntry

	err := yaml.NewDecoder(r).Decode(&entries)
	if err != nil && err != io.EOF {
		return nil, sim.NewError(sim.ErrConfiguration, "program",
			"cannot decode: %s", err)
	}

	return fromEntries(entries)
}

// LoadProgramFile reads a program from a YAML file.
func LoadProgramFile(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadProgram(f)
}

func fromEntries(entries []instructionEntry) (*Program, error) {
	instructions := make([]Instruction, 0, len(entries))

	for _, e := range entries {
		op, err := mem.ParseAccessKind(e.Op)
		if err != nil {
			return nil, sim.NewError(sim.ErrUnknownOperation, "program",
				"cycle %d: %s", e.Cycle, err)
		}

		instructions = append(instructions, Instruction{
			Cycle:   e.Cycle,
			Op:      op,
			Address: e.Address,
		})
	}

	return NewProgram(instructions)
}

// UnmarshalYAML lets a program be embedded in a YAML document.
func (p *Program) UnmarshalYAML(value *yaml.Node) error {
	var entries []instructionEntry
	if err := value.Decode(&entries); err != nil {
		return err
	}

	decoded, err := fromEntries(entries)
	if err != nil {
		return err
	}

	*p = *decoded

	return nil
}

// MarshalYAML encodes the program as a list ordered by cycle.
func (p *Program) MarshalYAML() (any, error) {
	insts := p.Instructions()

	entries := make([]instructionEntry, 0, len(insts))
	for _, inst := range insts {
		entries = append(entries, instructionEntry{
			Cycle:   inst.Cycle,
			Op:      inst.Op.String(),
			Address: inst.Address,
		})
	}

	return entries, nil
}
