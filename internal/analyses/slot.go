package analyses

import "sync"

// ReportSlot holds the latest committed analysis, guarded by a request
// generation token. Each call captures a generation at start; a result is
// only committed if its generation is still current at completion, so a
// stale call finishing after a newer one cannot overwrite its result.
type ReportSlot struct {
	mu     sync.Mutex
	gen    uint64
	latest *Analysis
}

// NewReportSlot constructs an empty slot.
func NewReportSlot() *ReportSlot {
	return &ReportSlot{}
}

// Begin marks the start of a new analysis and returns its generation token.
// Any earlier in-flight analysis becomes stale.
func (s *ReportSlot) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// Commit stores analysis if gen is still the current generation. It reports
// whether the result was committed; stale results are discarded.
func (s *ReportSlot) Commit(gen uint64, analysis Analysis) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.latest = &analysis
	return true
}

// Latest returns the most recently committed analysis.
func (s *ReportSlot) Latest() (Analysis, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return Analysis{}, false
	}
	return *s.latest, true
}
