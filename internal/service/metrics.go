package service

// Metrics receives workflow counters. *metrics.Recorder satisfies it.
type Metrics interface {
	AssignmentOutcome(outcome string)
	Notification(sent bool)
	StatusWrite(result string)
}

type noopMetrics struct{}

func (noopMetrics) AssignmentOutcome(string) {}
func (noopMetrics) Notification(bool)        {}
func (noopMetrics) StatusWrite(string)       {}
