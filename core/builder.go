package core

import (
	"log"

	"github.com/sarchlab/memcontention/sim"
	"github.com/sarchlab/memcontention/sim/naming"
)

// Builder can build cores.
type Builder struct {
	ctx     *sim.Context
	id      int
	memory  Memory
	program *Program
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithContext sets the simulation context.
func (b Builder) WithContext(ctx *sim.Context) Builder {
	b.ctx = ctx
	return b
}

// WithID sets the core ID.
func (b Builder) WithID(id int) Builder {
	b.id = id
	return b
}

// WithMemory sets the cache hierarchy of the core.
func (b Builder) WithMemory(m Memory) Builder {
	b.memory = m
	return b
}

// WithProgram sets the program to replay. A core without a program stays
// idle.
func (b Builder) WithProgram(p *Program) Builder {
	b.program = p
	return b
}

// Build creates a core.
func (b Builder) Build(name string) *Core {
	if b.ctx == nil || b.memory == nil {
		log.Panic(sim.NewError(sim.ErrConfiguration, name,
			"context and memory must be set"))
	}

	return &Core{
		NamedBase: naming.MakeNamedBase(name),
		id:        b.id,
		ctx:       b.ctx,
		memory:    b.memory,
		program:   b.program,
		records:   make(map[string]*AccessRecord),
	}
}
