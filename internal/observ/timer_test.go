package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	a := timer.Begin("parse")
	timer.End(a, "items=3")
	b := timer.Begin("sema")
	timer.End(b, "")
	timer.End(42, "ignored")

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases = %+v", report.Phases)
	}
	if report.Phases[0].Name != "parse" || report.Phases[0].Note != "items=3" || report.Phases[1].Name != "sema" {
		t.Errorf("unexpected phases %+v", report.Phases)
	}
	if report.TotalMS < report.Phases[0].DurationMS {
		t.Errorf("total %.3f below phase %.3f", report.TotalMS, report.Phases[0].DurationMS)
	}

	summary := timer.Summary()
	for _, want := range []string{"timings:\n", "parse", "// items=3", "total"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestEmptyTimer(t *testing.T) {
	var nilTimer *Timer
	if r := nilTimer.Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Errorf("nil timer report = %+v", r)
	}
	if r := NewTimer().Report(); len(r.Phases) != 0 {
		t.Errorf("empty timer report = %+v", r)
	}
}

func TestAggregate(t *testing.T) {
	r1 := Report{TotalMS: 3, Phases: []PhaseReport{{Name: "parse", DurationMS: 1, Note: "a"}, {Name: "sema", DurationMS: 2}}}
	r2 := Report{TotalMS: 5, Phases: []PhaseReport{{Name: "sema", DurationMS: 4}, {Name: "parse", DurationMS: 1}}}

	got := Aggregate(r1, r2)
	if got.TotalMS != 8 || len(got.Phases) != 2 {
		t.Fatalf("aggregate = %+v", got)
	}
	if got.Phases[0] != (PhaseReport{Name: "parse", DurationMS: 2}) || got.Phases[1] != (PhaseReport{Name: "sema", DurationMS: 6}) {
		t.Errorf("phases = %+v", got.Phases)
	}
}
