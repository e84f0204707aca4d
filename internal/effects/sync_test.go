package effects

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmcdole/crates/internal/adapter"
	"github.com/mmcdole/crates/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poller(api *fakeAPI, timeout time.Duration) *SyncPoller {
	return NewSyncPoller(api, 5*time.Millisecond, timeout, adapter.NullLogger())
}

func TestSyncStopsOnSettledState(t *testing.T) {
	for _, settled := range []domain.LibraryState{domain.LibraryUpdated, domain.LibraryImportingAfterFirstPage} {
		t.Run(string(settled), func(t *testing.T) {
			api := &fakeAPI{libraryStates: []domain.LibraryState{domain.LibraryUpdating, settled}}

			var attempts []int
			res, err := poller(api, time.Second).Sync(context.Background(), func(n int, _ domain.Library) {
				attempts = append(attempts, n)
			})
			require.NoError(t, err)
			assert.Equal(t, settled, res.Library.State)
			assert.Equal(t, 2, res.Attempts)
			assert.Equal(t, []int{1, 2}, attempts)
			assert.Equal(t, 1, api.count("StartSync"))
		})
	}
}

func TestSyncFailsOnUpdateFailed(t *testing.T) {
	api := &fakeAPI{libraryStates: []domain.LibraryState{domain.LibraryUpdateFailed}}
	res, err := poller(api, time.Second).Sync(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrLibraryUpdateFailed)
	assert.Equal(t, 1, res.Attempts)
}

func TestSyncTimesOut(t *testing.T) {
	api := &fakeAPI{libraryStates: []domain.LibraryState{domain.LibraryUpdating}}
	start := time.Now()
	res, err := poller(api, 40*time.Millisecond).Sync(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrSyncTimeout)
	assert.Greater(t, res.Attempts, 1)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSyncHonoursCallerCancellation(t *testing.T) {
	api := &fakeAPI{libraryStates: []domain.LibraryState{domain.LibraryUpdating}}
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := poller(api, time.Second).Sync(ctx, nil)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, domain.ErrSyncTimeout))
}
