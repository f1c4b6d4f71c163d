package uptime

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// minBaseline is the observation history required before Uptime reports a
// fraction. A ratio computed moments after a line first appears is noise.
const minBaseline = time.Second

var (
	// ErrUnknownLine is returned for a line outside the tracked set.
	ErrUnknownLine = errors.New("unknown line")

	// ErrNoBaseline is returned when a line has been observed for less than
	// one second and no meaningful uptime fraction exists yet.
	ErrNoBaseline = errors.New("insufficient observation history")
)

// Store is the thread-safe owner of all LineRecords. Records are created for
// the configured enumeration at construction and are never removed. A line
// first seen in a snapshot is materialized lazily with a fresh baseline.
type Store struct {
	mu      sync.RWMutex
	records map[string]*LineRecord
	order   []string
	now     func() time.Time // injectable for deterministic tests
}

// NewStore creates a Store with one zeroed record per line, baselined at now.
func NewStore(lines []string) *Store {
	s := &Store{
		records: make(map[string]*LineRecord, len(lines)),
		now:     time.Now,
	}
	start := s.now()
	for _, line := range lines {
		if _, ok := s.records[line]; ok {
			continue
		}
		s.records[line] = &LineRecord{LastUpdated: start, Status: NotDelayed}
		s.order = append(s.order, line)
	}
	return s
}

// Apply folds one snapshot into every record. This is the only mutation
// entry point. Each record's delta is read from its current LastUpdated
// under the lock, so overlapping cycles still produce non-negative deltas.
// A failed fetch cycle must not call Apply at all.
func (s *Store) Apply(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for line := range snap.Judgments {
		if _, ok := s.records[line]; ok {
			continue
		}
		log.Printf("line %s not in configured set, tracking from now", line)
		s.records[line] = &LineRecord{LastUpdated: now, Status: NotDelayed}
		s.order = append(s.order, line)
	}

	for line, rec := range s.records {
		judgment := snap.Judgments[line]
		delta := now.Sub(rec.LastUpdated)
		if delta < 0 {
			delta = 0
		}
		rec.ActiveTime += delta

		switch snap.Policy {
		case PolicyAbsenceRecovers:
			if rec.Status == NotDelayed {
				rec.UndelayedTime += delta
			}
			next := NotDelayed
			if judgment == JudgmentDelayed {
				next = Delayed
			}
			s.setStatus(line, rec, next)
		case PolicyExplicitJudgment:
			if judgment == JudgmentUndelayed {
				rec.UndelayedTime += delta
			}
			switch judgment {
			case JudgmentDelayed:
				s.setStatus(line, rec, Delayed)
			case JudgmentUndelayed:
				s.setStatus(line, rec, NotDelayed)
			}
		}
		rec.LastUpdated = now
	}
}

func (s *Store) setStatus(line string, rec *LineRecord, next Status) {
	if rec.Status == next {
		return
	}
	log.Printf("line %s: %s -> %s", line, rec.Status, next)
	rec.Status = next
}

// Lines returns the tracked enumeration in configuration order, with any
// lazily materialized lines appended in order of first sighting.
func (s *Store) Lines() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Status returns the line's current delay status.
func (s *Store) Status(line string) (Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[line]
	if !ok {
		return NotDelayed, ErrUnknownLine
	}
	return rec.Status, nil
}

// Uptime returns the line's time-weighted uptime fraction, formatted to
// three decimals. The interval since the last update is counted as if the
// current status continued to now, so the figure is live between cycles.
func (s *Store) Uptime(line string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[line]
	if !ok {
		return "", ErrUnknownLine
	}
	live := s.now().Sub(rec.LastUpdated)
	if live < 0 {
		live = 0
	}
	active := rec.ActiveTime + live
	if active < minBaseline {
		return "", ErrNoBaseline
	}
	undelayed := rec.UndelayedTime
	if rec.Status == NotDelayed {
		undelayed += live
	}
	return fmt.Sprintf("%.3f", float64(undelayed)/float64(active)), nil
}

// Record returns a copy of the line's accounting record.
func (s *Store) Record(line string) (LineRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[line]
	if !ok {
		return LineRecord{}, ErrUnknownLine
	}
	return *rec, nil
}
