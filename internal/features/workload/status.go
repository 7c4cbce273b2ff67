package workload

import (
	"sync/atomic"
	"time"
)

// Status holds in-memory counters for the ops surface. The scheduler goroutine
// writes it; HTTP handlers and the summary job only read.
type Status struct {
	startedAt  time.Time
	ticks      atomic.Int64
	loopErrors atomic.Int64
	population atomic.Int64
	lastStats  atomic.Pointer[Stats]
	lastWait   atomic.Int64
	counts     map[Operation]map[Result]*atomic.Int64
}

type StatusSnapshot struct {
	StartedAt  time.Time                      `json:"started_at"`
	Ticks      int64                          `json:"ticks"`
	LoopErrors int64                          `json:"loop_errors"`
	Population int64                          `json:"population"`
	LastWaitMS int64                          `json:"last_wait_ms"`
	LastStats  *Stats                         `json:"last_stats,omitempty"`
	Operations map[Operation]map[Result]int64 `json:"operations"`
}

func NewStatus() *Status {
	counts := make(map[Operation]map[Result]*atomic.Int64)
	for _, op := range append([]Operation{OpSelect, OpStats}, Operations...) {
		counts[op] = make(map[Result]*atomic.Int64)
		for _, res := range Results {
			counts[op][res] = new(atomic.Int64)
		}
	}
	s := &Status{startedAt: time.Now().UTC(), counts: counts}
	s.population.Store(-1)
	return s
}

func (s *Status) record(o Outcome) {
	if byResult, ok := s.counts[o.Operation]; ok {
		byResult[o.Result].Add(1)
	}
}

// tick returns the tick number just completed, starting at 1.
func (s *Status) tick() int64 {
	return s.ticks.Add(1)
}

func (s *Status) Ticks() int64 {
	return s.ticks.Load()
}

func (s *Status) Count(op Operation, res Result) int64 {
	if byResult, ok := s.counts[op]; ok {
		return byResult[res].Load()
	}
	return 0
}

func (s *Status) Snapshot() StatusSnapshot {
	ops := make(map[Operation]map[Result]int64, len(s.counts))
	for op, byResult := range s.counts {
		ops[op] = make(map[Result]int64, len(byResult))
		for res, n := range byResult {
			ops[op][res] = n.Load()
		}
	}
	return StatusSnapshot{
		StartedAt:  s.startedAt,
		Ticks:      s.ticks.Load(),
		LoopErrors: s.loopErrors.Load(),
		Population: s.population.Load(),
		LastWaitMS: s.lastWait.Load(),
		LastStats:  s.lastStats.Load(),
		Operations: ops,
	}
}
