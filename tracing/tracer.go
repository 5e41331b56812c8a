package tracing

// A Tracer can collect task traces
type Tracer interface {
	StartTask(task Task)
	StepTask(task Task)
	EndTask(task Task)
}

// A TimeTeller can tell the current cycle.
type TimeTeller interface {
	Now() uint64
}
