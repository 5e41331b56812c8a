package platform

import (
	"strconv"
	"strings"

	"github.com/sarchlab/memcontention/datarecording"
)

// Tables written by Record.
const (
	RunTableName      = "run_summary"
	DecisionTableName = "ddr_decisions"
	EventTableName    = "contention_events"
	AccessTableName   = "core_accesses"
)

type runEntry struct {
	Run                 string
	Cycles              uint64
	TimeCore0           uint64
	TimeCore1           uint64
	L2MissRate          float64
	DDRMissRatio        float64
	L2ContentionCycles  int
	DDRContentionCycles int
	TotalEvents         int
}

type decisionEntry struct {
	Run            string
	Cycle          uint64
	Core           int
	Address        uint64
	Op             string
	Bank           int
	Row            uint64
	Status         string
	Delay          uint64
	CompletionTime uint64
	NumCandidates  int
}

type eventEntry struct {
	Run           string
	Cycle         uint64
	Kind          string
	Initiators    string
	NumAccesses   int
	BankConflicts bool
	RowConflicts  bool
}

type accessEntry struct {
	Run       string
	Core      int
	ReqID     string
	Op        string
	Address   uint64
	Scheduled uint64
	Issued    uint64
	Completed uint64
	Done      bool
}

// Record writes the statistics of a run into the recorder, tagged with the
// run name. Several runs can share one recorder.
func Record(rec datarecording.DataRecorder, run string, s *RunStatistics) {
	rec.CreateTable(RunTableName, runEntry{})
	rec.CreateTable(DecisionTableName, decisionEntry{})
	rec.CreateTable(EventTableName, eventEntry{})
	rec.CreateTable(AccessTableName, accessEntry{})

	rec.InsertData(RunTableName, runEntry{
		Run:                 run,
		Cycles:              s.Cycles,
		TimeCore0:           s.TimeCore(0),
		TimeCore1:           s.TimeCore(1),
		L2MissRate:          s.L2MissRate,
		DDRMissRatio:        s.DDR.GlobalMissRatio,
		L2ContentionCycles:  len(s.Contention.L2ContentionCycles),
		DDRContentionCycles: len(s.Contention.DDRContentionCycles),
		TotalEvents:         s.Contention.TotalEvents,
	})

	for _, d := range s.Decisions {
		rec.InsertData(DecisionTableName, decisionEntry{
			Run:            run,
			Cycle:          d.Cycle,
			Core:           d.CoreID,
			Address:        d.Address,
			Op:             d.Kind.String(),
			Bank:           d.Bank,
			Row:            d.Row,
			Status:         d.Status.String(),
			Delay:          d.Delay,
			CompletionTime: d.CompletionTime,
			NumCandidates:  d.NumCandidates,
		})
	}

	for _, e := range s.Events {
		entry := eventEntry{
			Run:        run,
			Cycle:      e.Cycle,
			Kind:       e.Kind.String(),
			Initiators: joinInts(e.Initiators),
		}

		switch {
		case e.L2 != nil:
			entry.NumAccesses = len(e.L2.Addresses)
		case e.DDR != nil:
			entry.NumAccesses = len(e.DDR.Banks)
			entry.BankConflicts = e.DDR.BankConflicts
			entry.RowConflicts = e.DDR.RowConflicts
		}

		rec.InsertData(EventTableName, entry)
	}

	for coreID, records := range s.Accesses {
		for _, a := range records {
			rec.InsertData(AccessTableName, accessEntry{
				Run:       run,
				Core:      coreID,
				ReqID:     a.ReqID,
				Op:        a.Op.String(),
				Address:   a.Address,
				Scheduled: a.Scheduled,
				Issued:    a.Issued,
				Completed: a.Completed,
				Done:      a.Done,
			})
		}
	}

	rec.Flush()
}

func joinInts(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}

	return strings.Join(parts, ",")
}
