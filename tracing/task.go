package tracing

// A TaskStep represents a milestone in the processing of task
type TaskStep struct {
	Time uint64 `json:"time"`
	What string `json:"what"`
}

// A Task is a piece of work done by a component, such as serving a request.
// Times are in cycles.
type Task struct {
	ID        string     `json:"id"`
	ParentID  string     `json:"parent_id"`
	Kind      string     `json:"kind"`
	What      string     `json:"what"`
	Location  string     `json:"location"`
	StartTime uint64     `json:"start_time"`
	EndTime   uint64     `json:"end_time"`
	Steps     []TaskStep `json:"steps"`
	Detail    any        `json:"-"`
}

// TaskFilter is a function that can filter interesting tasks. If this function
// returns true, the task is considered useful.
type TaskFilter func(t Task) bool

// KindFilter keeps the tasks of one kind.
func KindFilter(kind string) TaskFilter {
	return func(t Task) bool {
		return t.Kind == kind
	}
}

// AllTasks keeps every task.
func AllTasks(Task) bool {
	return true
}
