package metrics

import (
	"math"
	"reflect"
	"testing"
)

func TestReduce(t *testing.T) {
	series := Series{
		{Timestamp: 100.0, ProcessCPU: 10, ProcessMemoryMB: 50, ProcessThreads: 2, CoresActive: 1},
		{Timestamp: 100.5, ProcessCPU: 30, ProcessMemoryMB: 70, ProcessThreads: 4, CoresActive: 3},
		{Timestamp: 101.0, ProcessCPU: 20, ProcessMemoryMB: 60, ProcessThreads: 3, CoresActive: 2},
	}

	sum := Reduce(series)

	if got, want := sum.CPUAvg, 20.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("CPUAvg = %v; want %v", got, want)
	}
	if sum.CPUMax != 30 {
		t.Errorf("CPUMax = %v; want 30", sum.CPUMax)
	}
	if got, want := sum.MemoryAvgMB, 60.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("MemoryAvgMB = %v; want %v", got, want)
	}
	if sum.MemoryMaxMB != 70 {
		t.Errorf("MemoryMaxMB = %v; want 70", sum.MemoryMaxMB)
	}
	if sum.ThreadsMax != 4 {
		t.Errorf("ThreadsMax = %v; want 4", sum.ThreadsMax)
	}
	if sum.CoresMax != 3 {
		t.Errorf("CoresMax = %v; want 3", sum.CoresMax)
	}
	if got, want := sum.Duration, 1.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("Duration = %v; want %v", got, want)
	}
	if sum.Samples != 3 {
		t.Errorf("Samples = %v; want 3", sum.Samples)
	}
}

func TestReduceEmptySeries(t *testing.T) {
	sum := Reduce(nil)
	if sum != (Summary{}) {
		t.Errorf("Reduce(nil) = %+v; want zero Summary", sum)
	}
}

func TestReduceDoesNotMutate(t *testing.T) {
	series := Series{
		{Timestamp: 1, ProcessCPU: 5},
		{Timestamp: 2, ProcessCPU: 15},
	}
	before := make(Series, len(series))
	copy(before, series)

	Reduce(series)

	for i := range series {
		if !reflect.DeepEqual(series[i], before[i]) {
			t.Fatalf("sample %d mutated: %+v != %+v", i, series[i], before[i])
		}
	}
}

func TestSeriesDuration(t *testing.T) {
	tests := []struct {
		name   string
		series Series
		want   float64
	}{
		{"empty", nil, 0},
		{"single sample", Series{{Timestamp: 42}}, 0},
		{"two samples", Series{{Timestamp: 10}, {Timestamp: 12.5}}, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.series.Duration(); got != tt.want {
				t.Errorf("Duration() = %v; want %v", got, tt.want)
			}
		})
	}
}

func BenchmarkReduce(b *testing.B) {
	series := make(Series, 10000)
	for i := range series {
		series[i] = Snapshot{
			Timestamp:       float64(i) / 2,
			ProcessCPU:      float64(i % 100),
			ProcessMemoryMB: float64(100 + i%50),
			ProcessThreads:  4 + i%4,
			CoresActive:     i % 8,
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Reduce(series)
	}
}

func TestSeriesAppendOrder(t *testing.T) {
	var series Series
	for i := 0; i < 5; i++ {
		series.Append(Snapshot{Timestamp: float64(i)})
	}

	if series.Len() != 5 {
		t.Fatalf("Len() = %d; want 5", series.Len())
	}
	for i := 1; i < series.Len(); i++ {
		if series[i].Timestamp < series[i-1].Timestamp {
			t.Errorf("timestamps out of order at %d: %v < %v",
				i, series[i].Timestamp, series[i-1].Timestamp)
		}
	}
}
