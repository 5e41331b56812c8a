package tracing

import (
	"sync"

	"github.com/sarchlab/memcontention/datarecording"
	"github.com/tebeka/atexit"
)

type taskTableEntry struct {
	ID        string `json:"id"`
	ParentID  string `json:"parent_id"`
	Kind      string `json:"kind"`
	What      string `json:"what"`
	Location  string `json:"location"`
	StartTime uint64 `json:"start_time"`
	EndTime   uint64 `json:"end_time"`
	Completed bool   `json:"completed"`
}

// TraceTableName is the table that the DBTracer writes tasks to.
const TraceTableName = "trace"

// DBTracer is a tracer that can store tasks into a database. A task is written
// when it ends. Tasks still running when the tracer terminates are written
// with Completed set to false.
type DBTracer struct {
	mu         sync.Mutex
	timeTeller TimeTeller
	backend    datarecording.DataRecorder

	startTime, endTime uint64

	tracingTasks map[string]Task
	terminated   bool
}

// NewDBTracer creates a new DBTracer.
func NewDBTracer(
	timeTeller TimeTeller,
	dataRecorder datarecording.DataRecorder,
) *DBTracer {
	dataRecorder.CreateTable(TraceTableName, taskTableEntry{})

	t := &DBTracer{
		timeTeller:   timeTeller,
		backend:      dataRecorder,
		tracingTasks: make(map[string]Task),
	}

	atexit.Register(func() {
		t.Terminate()
	})

	return t
}

// SetTimeRange limits the tracer to the tasks that overlap the cycle range.
// An end time of 0 means no limit.
func (t *DBTracer) SetTimeRange(startTime, endTime uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startTime = startTime
	t.endTime = endTime
}

// StartTask marks the start of a task.
func (t *DBTracer) StartTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startingTaskMustBeValid(task)

	task.StartTime = t.timeTeller.Now()
	if t.endTime > 0 && task.StartTime > t.endTime {
		return
	}

	t.tracingTasks[task.ID] = task
}

func (t *DBTracer) startingTaskMustBeValid(task Task) {
	if task.ID == "" {
		panic("task ID must be set")
	}

	if task.Kind == "" {
		panic("task kind must be set")
	}

	if task.What == "" {
		panic("task what must be set")
	}

	if task.Location == "" {
		panic("task location must be set")
	}
}

// StepTask marks a step of a task.
func (t *DBTracer) StepTask(_ Task) {
	// Do nothing for now.
}

// EndTask marks the end of a task.
func (t *DBTracer) EndTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	originalTask, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	delete(t.tracingTasks, task.ID)

	originalTask.EndTime = t.timeTeller.Now()
	if originalTask.EndTime < t.startTime {
		return
	}

	t.writeTask(originalTask, true)
}

// Terminate writes the unfinished tasks and flushes the backend.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.terminated {
		return
	}

	t.terminated = true

	now := t.timeTeller.Now()
	for _, task := range t.tracingTasks {
		task.EndTime = now
		t.writeTask(task, false)
	}

	t.tracingTasks = make(map[string]Task)
	t.backend.Flush()
}

func (t *DBTracer) writeTask(task Task, completed bool) {
	t.backend.InsertData(TraceTableName, taskTableEntry{
		ID:        task.ID,
		ParentID:  task.ParentID,
		Kind:      task.Kind,
		What:      task.What,
		Location:  task.Location,
		StartTime: task.StartTime,
		EndTime:   task.EndTime,
		Completed: completed,
	})
}
