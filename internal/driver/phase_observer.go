package driver

import (
	"time"

	"bgql/internal/observ"
)

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events emitted during Run.
type PhaseObserver func(PhaseEvent)

// phases объединяет таймер и наблюдателя; оба необязательны
type phases struct {
	timer    *observ.Timer
	observer PhaseObserver
	started  map[int]time.Time
	next     int
}

func newPhases(timer *observ.Timer, observer PhaseObserver) *phases {
	return &phases{timer: timer, observer: observer, started: make(map[int]time.Time, 8)}
}

func (p *phases) begin(name string) int {
	idx := p.next
	if p.timer != nil {
		idx = p.timer.Begin(name)
	}
	p.next = idx + 1
	p.started[idx] = time.Now()
	if p.observer != nil {
		p.observer(PhaseEvent{Name: name, Status: PhaseStart})
	}
	return idx
}

func (p *phases) end(idx int, name, note string) {
	if p.timer != nil {
		p.timer.End(idx, note)
	}
	if p.observer != nil {
		p.observer(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: time.Since(p.started[idx])})
	}
	delete(p.started, idx)
}
