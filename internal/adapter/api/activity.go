package api

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/mmcdole/crates/internal/domain"
)

// isoMillis matches the millisecond UTC form the feed endpoints expect
const isoMillis = "2006-01-02T15:04:05.000Z"

func formatInstant(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// GetFeed returns a page of the activity feed, newest first
func (c *Client) GetFeed(ctx context.Context, p domain.Pageable) (domain.Page[domain.CrateEvent], error) {
	var page domain.Page[domain.CrateEvent]
	err := c.getJSON(ctx, "/v1/feed", pageQuery(p, sortCreatedDesc, ""), &page)
	return page, err
}

// GetFeedSince returns events newer than since
func (c *Client) GetFeedSince(ctx context.Context, since time.Time) ([]domain.CrateEvent, error) {
	q := url.Values{}
	q.Set("since", formatInstant(since))

	var events []domain.CrateEvent
	err := c.getJSON(ctx, "/v1/feed/since", q, &events)
	return events, err
}

// GetFeedBefore returns up to size events older than before
func (c *Client) GetFeedBefore(ctx context.Context, before time.Time, size int) ([]domain.CrateEvent, error) {
	q := url.Values{}
	q.Set("before", formatInstant(before))
	q.Set("size", strconv.Itoa(size))

	var events []domain.CrateEvent
	err := c.getJSON(ctx, "/v1/feed/before", q, &events)
	return events, err
}

// HasNewActivity reports whether any event is newer than since
func (c *Client) HasNewActivity(ctx context.Context, since time.Time) (bool, error) {
	q := url.Values{}
	q.Set("since", formatInstant(since))

	var hasNew bool
	err := c.getJSON(ctx, "/v1/feed/has-new", q, &hasNew)
	return hasNew, err
}
