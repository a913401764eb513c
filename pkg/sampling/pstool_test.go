package sampling

import (
	"math"
	"testing"
)

const psFixture = `USER         PID %CPU %MEM    VSZ   RSS TTY      STAT START   TIME COMMAND
root           1  0.0  0.1 170000 12000 ?        Ss   Jan01   0:05 /sbin/init
user        2345 42.5  1.3 307200 204800 pts/0   R+   12:29   1:23 ./stress_timer2 100 10
user        3456  1.0  0.0  12000  4096 pts/1    Ss   12:00   0:00 -bash
`

func TestPSSourceSample(t *testing.T) {
	src := &PSSource{run: fakeRunner(psFixture, "9"), self: "perfmon"}

	snap, err := src.Sample(Target{PID: 2345, Name: "stress_timer2"})
	if err != nil {
		t.Fatal(err)
	}

	if snap.ProcessCPU != 42.5 {
		t.Errorf("ProcessCPU = %v; want 42.5", snap.ProcessCPU)
	}
	// VSZ 307200 KB -> 300 MB; RSS 204800 KB -> 200 MB.
	if got, want := snap.VirtualMB, 300.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("VirtualMB = %v; want %v", got, want)
	}
	if got, want := snap.ProcessMemoryMB, 200.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("ProcessMemoryMB = %v; want %v", got, want)
	}
	if snap.ProcessThreads != 9 {
		t.Errorf("ProcessThreads = %v; want 9", snap.ProcessThreads)
	}
}

func TestPSSourceTargetMissing(t *testing.T) {
	src := &PSSource{run: fakeRunner(psFixture, "1"), self: "perfmon"}

	snap, err := src.Sample(Target{Name: "absent_workload"})
	if err != nil {
		t.Fatalf("missing target must not fail the sample: %v", err)
	}
	if snap.ProcessCPU != 0 || snap.ProcessMemoryMB != 0 {
		t.Errorf("expected zero-filled snapshot, got %+v", snap)
	}
	if snap.Timestamp == 0 {
		t.Error("zero-filled snapshot must still carry a timestamp")
	}
}

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"auto", "native", "text", "top", "ps", ""} {
		if _, err := ParseKind(valid); err != nil {
			t.Errorf("ParseKind(%q) unexpected error: %v", valid, err)
		}
	}
	if _, err := ParseKind("vmstat"); err == nil {
		t.Error("ParseKind(\"vmstat\") expected error")
	}
}

func TestDefaultInterval(t *testing.T) {
	if got := DefaultInterval(KindNative); got != DefaultNativeInterval {
		t.Errorf("native interval = %v; want %v", got, DefaultNativeInterval)
	}
	for _, k := range []Kind{KindTop, KindPS, KindText} {
		if got := DefaultInterval(k); got != DefaultTextInterval {
			t.Errorf("%s interval = %v; want %v", k, got, DefaultTextInterval)
		}
	}
}
