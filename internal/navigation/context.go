// Package navigation infers which top-level section a detail view was
// opened from. It is a heuristic: a bounded recent history is consulted
// before falling back to the current section.
package navigation

import "time"

// Context is the top-level section a user is browsing
type Context string

const (
	Unset    Context = ""
	Crates   Context = "crates"
	Library  Context = "library"
	Activity Context = "activity"
	Discover Context = "discover"
	Profile  Context = "profile"
)

// Contexts lists the sections in tab order
var Contexts = []Context{Crates, Library, Activity, Discover, Profile}

// Title returns the tab label for the context
func (c Context) Title() string {
	switch c {
	case Crates:
		return "Crates"
	case Library:
		return "Library"
	case Activity:
		return "Activity"
	case Discover:
		return "Discover"
	case Profile:
		return "Profile"
	default:
		return ""
	}
}

// Valid reports whether c is one of the named sections
func (c Context) Valid() bool {
	for _, known := range Contexts {
		if c == known {
			return true
		}
	}
	return false
}

const (
	// HistorySize bounds the number of remembered detail visits
	HistorySize = 10

	// RecencyWindow is how long a remembered visit can override the
	// current context
	RecencyWindow = 5 * time.Minute
)

// SubjectKind distinguishes what a history entry points at
type SubjectKind int

const (
	SubjectUser SubjectKind = iota
	SubjectCrate
)

// Subject identifies a detail view target
type Subject struct {
	Kind SubjectKind
	ID   int64
}

// UserSubject returns the subject for a user profile
func UserSubject(id int64) Subject { return Subject{Kind: SubjectUser, ID: id} }

// CrateSubject returns the subject for a crate detail view
func CrateSubject(id int64) Subject { return Subject{Kind: SubjectCrate, ID: id} }

// Entry records one visit to a detail view
type Entry struct {
	Subject     Subject
	FromContext Context
	Timestamp   time.Time
}

// State is the navigation slice of application state. It is a value type:
// every operation returns a new State and never mutates the receiver.
type State struct {
	Current  Context
	Previous Context
	History  []Entry // oldest first, at most HistorySize entries
}

// SetContext enters a top-level section
func (s State) SetContext(c Context) State {
	if c == s.Current {
		return s
	}
	return State{
		Current:  c,
		Previous: s.Current,
		History:  s.History,
	}
}

// Track records that subject was opened from the current context
func (s State) Track(subject Subject, now time.Time) State {
	return s.TrackFrom(subject, s.Current, now)
}

// TrackFrom records that subject was opened from an explicit context
func (s State) TrackFrom(subject Subject, from Context, now time.Time) State {
	start := 0
	if len(s.History) >= HistorySize {
		start = len(s.History) - HistorySize + 1
	}
	history := make([]Entry, 0, HistorySize)
	history = append(history, s.History[start:]...)
	history = append(history, Entry{
		Subject:     subject,
		FromContext: from,
		Timestamp:   now,
	})
	return State{
		Current:  s.Current,
		Previous: s.Previous,
		History:  history,
	}
}

// Clear forgets the current context and all history
func (s State) Clear() State {
	return State{}
}

// Recent returns the newest entry for subject younger than the recency
// window, if any.
func (s State) Recent(subject Subject, now time.Time) (Entry, bool) {
	for i := len(s.History) - 1; i >= 0; i-- {
		e := s.History[i]
		if e.Subject != subject {
			continue
		}
		if now.Sub(e.Timestamp) < RecencyWindow {
			return e, true
		}
		// Older entries for the same subject are older still.
		return Entry{}, false
	}
	return Entry{}, false
}

// ContextFor returns the section a detail view for subject should report
// as its origin. own is true when the subject belongs to the signed-in user.
func (s State) ContextFor(subject Subject, own bool, now time.Time) Context {
	if own {
		if s.Current == Unset {
			return Crates
		}
		return s.Current
	}
	if e, ok := s.Recent(subject, now); ok && e.FromContext != Unset {
		return e.FromContext
	}
	if s.Current == Unset {
		return Discover
	}
	return s.Current
}
