// Package mem defines the requests that travel through the memory hierarchy.
package mem

import (
	"fmt"
	"strings"
)

// AccessKind is the direction of a memory access.
type AccessKind int

// The two supported access directions.
const (
	Read AccessKind = iota
	Write
)

func (k AccessKind) String() string {
	switch k {
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return fmt.Sprintf("AccessKind(%d)", int(k))
	}
}

// ParseAccessKind converts "read" or "write" (case-insensitive) to an
// AccessKind.
func ParseAccessKind(s string) (AccessKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read":
		return Read, nil
	case "write":
		return Write, nil
	default:
		return 0, fmt.Errorf("operation %q is neither read nor write", s)
	}
}

// MarshalText encodes the kind as "read" or "write".
func (k AccessKind) MarshalText() ([]byte, error) {
	if k != Read && k != Write {
		return nil, fmt.Errorf("cannot marshal %s", k)
	}

	return []byte(k.String()), nil
}

// UnmarshalText decodes "read" or "write".
func (k *AccessKind) UnmarshalText(text []byte) error {
	kind, err := ParseAccessKind(string(text))
	if err != nil {
		return err
	}

	*k = kind

	return nil
}

// A Request is a memory access moving down the hierarchy. Ownership moves with
// the request: cache, interconnect, controller, device, until it completes.
type Request struct {
	ID       string
	ParentID string
	CoreID   int
	Kind     AccessKind
	Address  uint64

	// IssueTime is the cycle at which the request was created. The DDR
	// controller uses it as the arrival time for age-based priority.
	IssueTime uint64

	// CompletionTime is set by the DDR controller when the request is
	// scheduled.
	CompletionTime uint64
	Scheduled      bool
}

// IsRead returns true if the request reads memory.
func (r *Request) IsRead() bool {
	return r.Kind == Read
}

// IsWrite returns true if the request writes memory.
func (r *Request) IsWrite() bool {
	return r.Kind == Write
}

func (r *Request) String() string {
	return fmt.Sprintf("<req %s: %s@%d from core %d>",
		r.ID, strings.ToUpper(r.Kind.String()), r.Address, r.CoreID)
}

// RequestBuilder can build requests.
type RequestBuilder struct {
	id, parentID string
	coreID       int
	kind         AccessKind
	address      uint64
	issueTime    uint64
}

// WithID sets the ID of the request to build.
func (b RequestBuilder) WithID(id string) RequestBuilder {
	b.id = id
	return b
}

// WithParentID sets the ID of the upper-level request that waits on the
// request to build.
func (b RequestBuilder) WithParentID(parentID string) RequestBuilder {
	b.parentID = parentID
	return b
}

// WithCoreID sets the core that the request is issued on behalf of.
func (b RequestBuilder) WithCoreID(coreID int) RequestBuilder {
	b.coreID = coreID
	return b
}

// WithKind sets the direction of the request to build.
func (b RequestBuilder) WithKind(kind AccessKind) RequestBuilder {
	b.kind = kind
	return b
}

// WithAddress sets the address of the request to build.
func (b RequestBuilder) WithAddress(address uint64) RequestBuilder {
	b.address = address
	return b
}

// WithIssueTime sets the cycle at which the request is created.
func (b RequestBuilder) WithIssueTime(cycle uint64) RequestBuilder {
	b.issueTime = cycle
	return b
}

// Build creates a new Request.
func (b RequestBuilder) Build() *Request {
	if b.id == "" {
		panic("request ID must be set")
	}

	return &Request{
		ID:        b.id,
		ParentID:  b.parentID,
		CoreID:    b.coreID,
		Kind:      b.kind,
		Address:   b.address,
		IssueTime: b.issueTime,
	}
}

// A Completion tells an upper component that the request it is waiting on
// has been served.
type Completion struct {
	ReqID  string
	CoreID int
}

// A RequestSink accepts requests that leave a cache toward memory.
type RequestSink interface {
	Request(req *Request)
}
