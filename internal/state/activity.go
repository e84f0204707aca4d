package state

import (
	"time"

	"github.com/mmcdole/crates/internal/domain"
)

func reduceActivity(s State, a Action) State {
	switch a := a.(type) {
	case LoadFeed:
		// a reload drops any older page still on its way
		s.Activity.Feed = s.Activity.Feed.Start(a.Request)
		s.Activity.More = Flight{}

	case FeedLoaded:
		if !s.Activity.Feed.Accepts(a.Request) {
			break
		}
		if !a.Result.OK() {
			s.Activity.Feed = s.Activity.Feed.Fail(a.Request, a.Result.Err)
			break
		}
		page := a.Result.Value
		feed := EntityMap[int64, domain.CrateEvent]{}.SetAll(eventKey, page.Content)
		s.Activity.Feed = s.Activity.Feed.Succeed(a.Request, feed)
		s.Activity.HasNextPage = !page.Last
		s.Activity.LastRefresh = a.At
		s.Activity.HasNew = false

	case LoadMoreFeed:
		if s.Activity.Feed.IsLoading || !s.Activity.HasNextPage {
			break
		}
		if more, ok := s.Activity.More.TryStart(a.Request); ok {
			s.Activity.More = more
		}

	case MoreFeedLoaded:
		if !s.Activity.More.Accepts(a.Request) {
			break
		}
		s.Activity.More = s.Activity.More.Done(a.Request, a.Result.Err)
		if a.Result.OK() {
			events := a.Result.Value
			s.Activity.Feed = s.Activity.Feed.Update(func(m EntityMap[int64, domain.CrateEvent]) EntityMap[int64, domain.CrateEvent] {
				return m.UpsertMany(eventKey, events)
			})
			s.Activity.HasNextPage = len(events) > 0
		}

	case RefreshFeed:
		if refresh, ok := s.Activity.Refresh.TryStart(a.Request); ok {
			s.Activity.Refresh = refresh
		}

	case FeedRefreshed:
		if !s.Activity.Refresh.Accepts(a.Request) {
			break
		}
		s.Activity.Refresh = s.Activity.Refresh.Done(a.Request, a.Result.Err)
		if a.Result.OK() {
			events := a.Result.Value
			s.Activity.Feed = s.Activity.Feed.Update(func(m EntityMap[int64, domain.CrateEvent]) EntityMap[int64, domain.CrateEvent] {
				return m.Prepend(eventKey, events)
			})
			s.Activity.LastRefresh = a.At
			s.Activity.HasNew = false
		}

	case CheckNewActivity:
		s.Activity.Probe = s.Activity.Probe.Start(a.Request)

	case NewActivityChecked:
		if !s.Activity.Probe.Accepts(a.Request) {
			break
		}
		s.Activity.Probe = s.Activity.Probe.Done(a.Request, a.Result.Err)
		s.Activity.HasNew = a.Result.OK() && a.Result.Value

	case MarkActivityRead:
		s.Activity.LastRead = a.At

	case ClearActivity:
		s.Activity = ActivityState{}
	}
	return s
}

// OldestEventTime returns the creation time of the oldest loaded event,
// the cursor for loading older events
func OldestEventTime(s State) (time.Time, bool) {
	var oldest time.Time
	for _, e := range s.Activity.Feed.Value.Values() {
		if oldest.IsZero() || e.CreatedAt.Before(oldest) {
			oldest = e.CreatedAt.Time
		}
	}
	return oldest, !oldest.IsZero()
}

// UnreadCount returns the number of loaded events newer than the last read mark
func UnreadCount(s State) int {
	n := 0
	for _, e := range s.Activity.Feed.Value.Values() {
		if e.CreatedAt.After(s.Activity.LastRead) {
			n++
		}
	}
	return n
}
