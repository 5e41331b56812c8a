package dram

import "github.com/sarchlab/memcontention/mem"

// SequenceStage is a step in the life of a request at the controller.
type SequenceStage string

// The stages recorded in the sequence log.
const (
	StageQueued   SequenceStage = "queued"
	StageReady    SequenceStage = "ready"
	StageComplete SequenceStage = "complete"
)

// A SequenceEntry records that a request reached a stage.
type SequenceEntry struct {
	Stage   SequenceStage  `json:"stage"`
	Cycle   uint64         `json:"cycle"`
	Kind    mem.AccessKind `json:"type"`
	CoreID  int            `json:"core"`
	Address uint64         `json:"addr"`
}

// Sequence returns the stages that the requests went through, in order. A
// request is recorded as ready in every cycle in which it is a candidate.
func (c *Controller) Sequence() []SequenceEntry {
	return append([]SequenceEntry(nil), c.sequence...)
}

func (c *Controller) record(stage SequenceStage, req *mem.Request) {
	c.sequence = append(c.sequence, SequenceEntry{
		Stage:   stage,
		Cycle:   c.ctx.Now(),
		Kind:    req.Kind,
		CoreID:  req.CoreID,
		Address: req.Address,
	})
}
