package observ

import (
	"testing"
	"time"
)

func TestTimerBeginEndRecordsDuration(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("plan")
	time.Sleep(time.Millisecond)
	timer.End(idx, "ok")

	report := timer.Report()
	if len(report.Phases) != 1 {
		t.Fatalf("Report().Phases has %d entries, want 1", len(report.Phases))
	}
	if report.Phases[0].Name != "plan" || report.Phases[0].Note != "ok" {
		t.Fatalf("Report().Phases[0] = %+v", report.Phases[0])
	}
	if report.Phases[0].DurationMS <= 0 {
		t.Fatal("recorded phase duration should be positive")
	}
}

func TestTimerEndIgnoresOutOfRangeIndex(t *testing.T) {
	timer := NewTimer()
	timer.End(5, "ignored")
	if len(timer.Report().Phases) != 0 {
		t.Fatal("End() with an invalid index should not add a phase")
	}
}

func TestSlowReturnsOnlyPhasesOverBudget(t *testing.T) {
	timer := NewTimer()
	fast := timer.Begin("fast")
	timer.End(fast, "")
	timer.phases[0].Dur = time.Millisecond

	slow := timer.Begin("slow")
	timer.End(slow, "")
	timer.phases[1].Dur = time.Second

	names := timer.Slow(100 * time.Millisecond)
	if len(names) != 1 || names[0] != "slow" {
		t.Fatalf("Slow() = %v, want [slow]", names)
	}
}

func TestSlowWithNoPhasesOverBudget(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("quick")
	timer.End(idx, "")
	timer.phases[0].Dur = time.Microsecond

	if names := timer.Slow(time.Second); len(names) != 0 {
		t.Fatalf("Slow() = %v, want none", names)
	}
}
