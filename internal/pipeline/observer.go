package pipeline

// Observer receives job lifecycle callbacks. Callbacks run on the pipeline
// goroutine; implementations must not block for long and must not mutate
// the job. A nil Observer is valid and ignored.
type Observer interface {
	JobStateChanged(job *Job, state State)
	JobProgress(job *Job, progress float64)
}

// ObserverFuncs adapts plain functions to the Observer interface. Nil
// fields are skipped.
type ObserverFuncs struct {
	StateChanged func(job *Job, state State)
	Progress     func(job *Job, progress float64)
}

func (o ObserverFuncs) JobStateChanged(job *Job, state State) {
	if o.StateChanged != nil {
		o.StateChanged(job, state)
	}
}

func (o ObserverFuncs) JobProgress(job *Job, progress float64) {
	if o.Progress != nil {
		o.Progress(job, progress)
	}
}

var _ Observer = ObserverFuncs{}

func notifyState(obs Observer, job *Job, state State) {
	job.setState(state)
	if obs != nil {
		obs.JobStateChanged(job, state)
	}
}

func notifyProgress(obs Observer, job *Job, progress float64, frames, dropped int64) {
	job.setProgress(progress, frames, dropped)
	if obs != nil {
		obs.JobProgress(job, progress)
	}
}
