package metrics

// RunResult is the finalized outcome of one supervised workload execution.
// It is created empty at launch, populated incrementally, and finalized on
// termination or timeout.
type RunResult struct {
	RunID     string
	Command   string
	StartTime float64 // unix seconds
	EndTime   float64 // unix seconds
	Duration  float64 // seconds, 0 if fewer than 2 samples
	Series    Series
	ExitCode  int // workload exit status, or -1 on supervisor-driven timeout
	Stdout    string
	Stderr    string
}

// TimedOut reports whether the run ended with the supervisor's timeout
// sentinel rather than a real workload exit status.
func (r *RunResult) TimedOut() bool { return r.ExitCode == -1 }
