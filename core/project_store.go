package core

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/huangsam/covevo/schema"
)

// ErrUpdateAfterFinalize is returned when counters are added to a ProjectStore
// whose project coverage has already been computed.
var ErrUpdateAfterFinalize = errors.New("project coverage updated after the total has been calculated")

// StoreState is the lifecycle state of a ProjectStore.
type StoreState int

// ProjectStore states.
const (
	Accumulating StoreState = iota
	Finalized
)

func (s StoreState) String() string {
	switch s {
	case Accumulating:
		return "accumulating"
	case Finalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// ProjectStore accumulates line counters across all files of one run and
// yields the project-wide coverage once every file has been added.
type ProjectStore struct {
	mu         sync.Mutex
	totals     schema.CoverageCounters
	state      StoreState
	ratio      float64
	violations int
	logger     *slog.Logger
}

// NewProjectStore creates an empty store. A nil logger uses slog.Default().
func NewProjectStore(logger *slog.Logger) *ProjectStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectStore{logger: logger}
}

// Add sums the counters into the project totals.
// After Finalize the counters are still added to the raw totals, the cached
// ratio is left untouched, and ErrUpdateAfterFinalize is returned.
func (s *ProjectStore) Add(c schema.CoverageCounters) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totals.LinesToCover += c.LinesToCover
	s.totals.UncoveredLines += c.UncoveredLines

	if s.state == Finalized {
		s.violations++
		s.logger.Error("Tried to update project-wide coverage data after the total has been calculated",
			"lines_to_cover", c.LinesToCover,
			"uncovered_lines", c.UncoveredLines,
			"violations", s.violations)
		return ErrUpdateAfterFinalize
	}
	return nil
}

// Finalize computes the project coverage on first call and returns the cached value afterwards.
func (s *ProjectStore) Finalize() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Accumulating {
		s.ratio = CoverageRatio(s.totals.LinesToCover, s.totals.UncoveredLines)
		s.state = Finalized
	}
	return s.ratio
}

// State returns the current lifecycle state.
func (s *ProjectStore) State() StoreState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Totals returns the raw accumulated counters.
func (s *ProjectStore) Totals() schema.CoverageCounters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals
}

// Violations returns how many updates arrived after Finalize.
func (s *ProjectStore) Violations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.violations
}
