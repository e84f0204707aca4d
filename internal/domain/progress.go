package domain

// PollFunc reports each status probe of a library sync.
// Called once per attempt: (1, UPDATING), (2, UPDATING), (3, UPDATED) ...
type PollFunc func(attempt int, lib Library)

// SyncResult summarizes a finished library sync.
type SyncResult struct {
	Library  Library // settled library
	Attempts int     // number of status probes issued
}
