package tracing

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// LogTracer writes every task start and end as a structured log entry.
type LogTracer struct {
	timeTeller TimeTeller
	logger     logrus.FieldLogger
	filter     TaskFilter

	lock          sync.Mutex
	inflightTasks map[string]Task
}

// NewLogTracer creates a LogTracer that writes to the given logger at debug
// level.
func NewLogTracer(
	timeTeller TimeTeller,
	logger logrus.FieldLogger,
	filter TaskFilter,
) *LogTracer {
	return &LogTracer{
		timeTeller:    timeTeller,
		logger:        logger,
		filter:        filter,
		inflightTasks: make(map[string]Task),
	}
}

// StartTask logs the start of the task.
func (t *LogTracer) StartTask(task Task) {
	task.StartTime = t.timeTeller.Now()

	if !t.filter(task) {
		return
	}

	t.lock.Lock()
	t.inflightTasks[task.ID] = task
	t.lock.Unlock()

	t.logger.WithFields(logrus.Fields{
		"cycle":  task.StartTime,
		"id":     task.ID,
		"parent": task.ParentID,
		"kind":   task.Kind,
		"what":   task.What,
		"where":  task.Location,
	}).Debug("task start")
}

// StepTask logs the step of a task that is being traced.
func (t *LogTracer) StepTask(task Task) {
	t.lock.Lock()
	_, ok := t.inflightTasks[task.ID]
	t.lock.Unlock()

	if !ok || len(task.Steps) == 0 {
		return
	}

	t.logger.WithFields(logrus.Fields{
		"cycle": t.timeTeller.Now(),
		"id":    task.ID,
		"step":  task.Steps[0].What,
	}).Debug("task step")
}

// EndTask logs the end of the task together with its duration.
func (t *LogTracer) EndTask(task Task) {
	now := t.timeTeller.Now()

	t.lock.Lock()
	original, ok := t.inflightTasks[task.ID]
	delete(t.inflightTasks, task.ID)
	t.lock.Unlock()

	if !ok {
		return
	}

	t.logger.WithFields(logrus.Fields{
		"cycle":   now,
		"id":      original.ID,
		"kind":    original.Kind,
		"what":    original.What,
		"where":   original.Location,
		"latency": now - original.StartTime,
	}).Debug("task end")
}
