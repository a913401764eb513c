package metrics

// Summary holds per-field mean/max aggregates derived from a finished
// series. It has no lifecycle of its own.
type Summary struct {
	CPUAvg      float64
	CPUMax      float64
	MemoryAvgMB float64
	MemoryMaxMB float64
	ThreadsAvg  float64
	ThreadsMax  int
	CoresAvg    float64
	CoresMax    int
	Duration    float64
	Samples     int
}

// Reduce computes the summary of a series. An empty series yields the zero
// Summary. The input is never mutated.
func Reduce(s Series) Summary {
	if len(s) == 0 {
		return Summary{}
	}

	sum := Summary{
		Samples:  len(s),
		Duration: s.Duration(),
	}

	var cpu, mem, threads, cores float64
	for _, snap := range s {
		cpu += snap.ProcessCPU
		mem += snap.ProcessMemoryMB
		threads += float64(snap.ProcessThreads)
		cores += float64(snap.CoresActive)

		if snap.ProcessCPU > sum.CPUMax {
			sum.CPUMax = snap.ProcessCPU
		}
		if snap.ProcessMemoryMB > sum.MemoryMaxMB {
			sum.MemoryMaxMB = snap.ProcessMemoryMB
		}
		if snap.ProcessThreads > sum.ThreadsMax {
			sum.ThreadsMax = snap.ProcessThreads
		}
		if snap.CoresActive > sum.CoresMax {
			sum.CoresMax = snap.CoresActive
		}
	}

	n := float64(len(s))
	sum.CPUAvg = cpu / n
	sum.MemoryAvgMB = mem / n
	sum.ThreadsAvg = threads / n
	sum.CoresAvg = cores / n
	return sum
}
