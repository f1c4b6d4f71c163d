package uptime

import "time"

// Status is the current delay judgment for a line.
type Status int

const (
	NotDelayed Status = iota
	Delayed
)

func (s Status) String() string {
	if s == Delayed {
		return "DELAYED"
	}
	return "NOT_DELAYED"
}

// Judgment is one cycle's observation for a single line. The zero value
// means the line was not mentioned this cycle.
type Judgment int

const (
	JudgmentNone Judgment = iota
	JudgmentDelayed
	JudgmentUndelayed
)

// Policy selects how elapsed time is attributed to UndelayedTime when a
// snapshot is applied. The two observation sources carry different signal
// vocabularies and each comes with its own policy; they are intentionally
// kept separate (see Snapshot).
type Policy int

const (
	// PolicyAbsenceRecovers treats absence from the snapshot as recovery.
	// Elapsed time is credited when the status held before the update was
	// NotDelayed. Used with the alert feed, which only ever reports delays.
	PolicyAbsenceRecovers Policy = iota

	// PolicyExplicitJudgment credits elapsed time when this cycle's judgment
	// is explicitly undelayed, and flips status only on an explicit contrary
	// judgment. Used with the status page scrape, which reports both states.
	PolicyExplicitJudgment
)

// Snapshot is one cycle's best-effort observation across lines. Lines absent
// from Judgments carry JudgmentNone. Policy is fixed by the source that
// produced the snapshot.
type Snapshot struct {
	Judgments map[string]Judgment
	Policy    Policy
}

// LineRecord is the cumulative time accounting for one line since monitoring
// began. UndelayedTime never exceeds ActiveTime and both only grow.
type LineRecord struct {
	ActiveTime    time.Duration
	UndelayedTime time.Duration
	LastUpdated   time.Time
	Status        Status
}
