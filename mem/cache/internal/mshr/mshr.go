// Package mshr keeps track of the requests that a cache level has sent to the
// lower level and is waiting on.
package mshr

import (
	"fmt"

	"github.com/sarchlab/memcontention/mem"
)

// EntryKind tells what the cache level has to do when the request to the
// lower level completes.
type EntryKind int

// The kinds of MSHR entries.
const (
	// Fill is a read miss. The line is installed on completion.
	Fill EntryKind = iota

	// ForwardedWrite is a write that bypassed the level. The parent completes
	// when the lower level absorbs it.
	ForwardedWrite

	// WriteBack is an eviction or a write-through copy. Nobody waits on it.
	WriteBack
)

func (k EntryKind) String() string {
	switch k {
	case Fill:
		return "fill"
	case ForwardedWrite:
		return "forwarded_write"
	case WriteBack:
		return "write_back"
	default:
		return fmt.Sprintf("EntryKind(%d)", int(k))
	}
}

// An Entry is one request sent to the lower level.
type Entry struct {
	Kind EntryKind

	// ReqToBottom is the request the level sent down.
	ReqToBottom *mem.Request

	// Parent is the request that the level received and that waits on
	// ReqToBottom. It is nil for write-backs.
	Parent *mem.Request
}

// MSHR records cache's requests to bottom memory, keyed by the ID of the
// request sent down.
type MSHR struct {
	entries map[string]*Entry
	order   []string
}

// NewMSHR creates an empty MSHR.
func NewMSHR() *MSHR {
	return &MSHR{
		entries: make(map[string]*Entry),
	}
}

// Add registers a request sent to the lower level.
func (m *MSHR) Add(e *Entry) error {
	id := e.ReqToBottom.ID
	if _, found := m.entries[id]; found {
		return fmt.Errorf("request %s is already in the MSHR", id)
	}

	m.entries[id] = e
	m.order = append(m.order, id)

	return nil
}

// Lookup returns the entry of a request sent to the lower level.
func (m *MSHR) Lookup(reqID string) (*Entry, bool) {
	e, found := m.entries[reqID]
	return e, found
}

// Remove deletes and returns the entry of a request sent to the lower level.
func (m *MSHR) Remove(reqID string) (*Entry, error) {
	e, found := m.entries[reqID]
	if !found {
		return nil, fmt.Errorf("request %s not found", reqID)
	}

	delete(m.entries, reqID)

	for i, id := range m.order {
		if id == reqID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	return e, nil
}

// Entries returns the outstanding entries in the order they were added.
func (m *MSHR) Entries() []*Entry {
	entries := make([]*Entry, 0, len(m.order))
	for _, id := range m.order {
		entries = append(entries, m.entries[id])
	}

	return entries
}

// Len returns the number of outstanding entries.
func (m *MSHR) Len() int {
	return len(m.entries)
}

// Reset drops all the entries.
func (m *MSHR) Reset() {
	m.entries = make(map[string]*Entry)
	m.order = nil
}
