package tracing

import (
	"sort"
	"sync"
)

type latency struct {
	count uint64
	mean  float64
}

func (l *latency) add(cycles uint64) {
	l.count++
	l.mean += (float64(cycles) - l.mean) / float64(l.count)
}

// AverageTimeTracer measures the mean number of cycles that the tasks of
// interest take, over all the components and per component. Overlapping
// tasks are counted independently.
type AverageTimeTracer struct {
	timeTeller TimeTeller
	filter     TaskFilter

	lock       sync.Mutex
	inflight   map[string]Task
	overall    latency
	byLocation map[string]*latency
}

// NewAverageTimeTracer creates an AverageTimeTracer that measures the tasks
// that pass the filter.
func NewAverageTimeTracer(
	timeTeller TimeTeller,
	filter TaskFilter,
) *AverageTimeTracer {
	return &AverageTimeTracer{
		timeTeller: timeTeller,
		filter:     filter,
		inflight:   make(map[string]Task),
		byLocation: make(map[string]*latency),
	}
}

// AverageTime returns the mean duration of the tasks that ended.
func (t *AverageTimeTracer) AverageTime() float64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.overall.mean
}

// TotalCount returns the number of tasks that ended.
func (t *AverageTimeTracer) TotalCount() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.overall.count
}

// InflightCount returns the number of tasks that started but did not end.
func (t *AverageTimeTracer) InflightCount() int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return len(t.inflight)
}

// Locations returns the components that ended at least one task, sorted by
// name.
func (t *AverageTimeTracer) Locations() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	names := make([]string, 0, len(t.byLocation))
	for name := range t.byLocation {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// AverageTimeAt returns the mean duration of the tasks of a component, and
// the number of these tasks.
func (t *AverageTimeTracer) AverageTimeAt(location string) (float64, uint64) {
	t.lock.Lock()
	defer t.lock.Unlock()

	l, ok := t.byLocation[location]
	if !ok {
		return 0, 0
	}

	return l.mean, l.count
}

// StartTask remembers when a task of interest starts.
func (t *AverageTimeTracer) StartTask(task Task) {
	if !t.filter(task) {
		return
	}

	task.StartTime = t.timeTeller.Now()

	t.lock.Lock()
	t.inflight[task.ID] = task
	t.lock.Unlock()
}

// StepTask is a no-op.
func (t *AverageTimeTracer) StepTask(_ Task) {}

// EndTask adds the duration of a task of interest to the means.
func (t *AverageTimeTracer) EndTask(task Task) {
	now := t.timeTeller.Now()

	t.lock.Lock()
	defer t.lock.Unlock()

	started, ok := t.inflight[task.ID]
	if !ok {
		return
	}

	delete(t.inflight, task.ID)

	cycles := now - started.StartTime
	t.overall.add(cycles)

	l, ok := t.byLocation[started.Location]
	if !ok {
		l = &latency{}
		t.byLocation[started.Location] = l
	}

	l.add(cycles)
}
