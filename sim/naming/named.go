// Package naming defines how simulation components are named.
package naming

import (
	"fmt"
	"regexp"
)

// Named describes an object that has a name.
type Named interface {
	// Name returns the name of the object.
	Name() string
}

// NamedBase is a base implementation of Named.
type NamedBase struct {
	name string
}

// Name returns the name of the object.
func (b *NamedBase) Name() string {
	return b.name
}

// MakeNamedBase creates a new NamedBase
func MakeNamedBase(name string) NamedBase {
	NameMustBeValid(name)

	return NamedBase{name: name}
}

var namePattern = regexp.MustCompile(
	`^[A-Za-z][A-Za-z0-9_]*(\[[0-9]+\])*(\.[A-Za-z][A-Za-z0-9_]*(\[[0-9]+\])*)*$`)

// NameMustBeValid panics if the name is not a dot-separated hierarchical name
// such as "Core[0].L1".
func NameMustBeValid(name string) {
	if !namePattern.MatchString(name) {
		panic(fmt.Sprintf("invalid name %q", name))
	}
}
