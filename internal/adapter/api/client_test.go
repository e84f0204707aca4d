package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/mmcdole/crates/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL, Token: "secret"}), srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestGetCratesSendsPagingAndAuth(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/crate", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get(AuthHeader))
		assert.NotEmpty(t, r.Header.Get(CorrelationHeader))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "50", r.URL.Query().Get("size"))
		assert.Equal(t, "updatedAt,desc", r.URL.Query().Get("sort"))
		assert.Equal(t, "jazz", r.URL.Query().Get("search"))

		writeJSON(t, w, http.StatusOK, map[string]any{
			"content": []map[string]any{
				{"id": 1, "name": "Late Night", "handle": "late-night", "publicCrate": true,
					"createdAt": "2024-03-01T10:00:00", "user": map[string]any{"id": 7, "handle": "dj"}},
			},
			"last":   true,
			"number": 1,
			"size":   50,
		})
	})

	page, err := client.GetCrates(context.Background(), domain.ListQuery{
		Pageable: domain.Pageable{Page: 1, Size: 50},
		Search:   "jazz",
	})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.True(t, page.Last)
	assert.Equal(t, 1, page.Number)

	crate := page.Content[0]
	assert.Equal(t, "Late Night", crate.Name)
	assert.Equal(t, 2024, crate.CreatedAt.Year())
	require.NotNil(t, crate.User)
	assert.True(t, crate.OwnedBy(7))
}

func TestLibraryAlbumsUsesSearchEndpointAndFilter(t *testing.T) {
	var gotPath, gotFilter string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFilter = r.URL.Query().Get("filters")
		writeJSON(t, w, http.StatusOK, map[string]any{"content": []any{}, "last": true})
	})

	_, err := client.GetLibraryAlbums(context.Background(), domain.LibraryQuery{
		Pageable:   domain.FirstPage(50),
		Search:     "miles",
		HideCrated: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "/v1/library/albums/search", gotPath)
	assert.Equal(t, "EXCLUDE_CRATED", gotFilter)

	_, err = client.GetLibraryAlbums(context.Background(), domain.LibraryQuery{Pageable: domain.FirstPage(50)})
	require.NoError(t, err)
	assert.Equal(t, "/v1/library/albums", gotPath)
	assert.Empty(t, gotFilter)
}

func TestCrateAlbumsSortsImagesByWidth(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/crate/3/albums", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"content": []map[string]any{{
				"id": 11, "name": "Kind of Blue",
				"images": []map[string]any{
					{"url": "small", "width": 64},
					{"url": "large", "width": 640},
					{"url": "medium", "width": 300},
				},
			}},
			"last": true,
		})
	})

	page, err := client.GetCrateAlbums(context.Background(), 3, domain.FirstPage(50))
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "large", page.Content[0].Images[0].URL)
	assert.Equal(t, "medium", page.Content[0].Images.Best(domain.ImageMedium))
}

func TestMutationsSendBodies(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/crate":
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"name":"Sunday"}`, string(body))
			writeJSON(t, w, http.StatusOK, map[string]any{"id": 9, "name": "Sunday"})
		case r.Method == http.MethodPost && r.URL.Path == "/v1/crate/9/collection":
			writeJSON(t, w, http.StatusOK, map[string]any{"inCollection": true})
		case r.Method == http.MethodDelete && r.URL.Path == "/v1/social/follow/4":
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	crate, err := client.CreateCrate(ctx, "Sunday")
	require.NoError(t, err)
	assert.Equal(t, int64(9), crate.ID)

	status, err := client.AddToCollection(ctx, 9)
	require.NoError(t, err)
	assert.True(t, status.InCollection)

	follow, err := client.Unfollow(ctx, 4)
	require.NoError(t, err)
	assert.False(t, follow.IsFollowing)
}

func TestAPIErrorIsDecoded(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{
			"status": 400, "error": "Bad Request", "message": "Handle already taken",
		})
	})

	_, err := client.UpdateProfile(context.Background(), domain.ProfileUpdate{Handle: "taken"})
	require.Error(t, err)

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "Handle already taken", apiErr.Error())
}

func TestAPIErrorWithoutMessageUsesDefault(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, map[string]any{
			"status": 500, "error": "Internal Server Error", "message": "No message available",
		})
	})

	_, err := client.GetCurrentUser(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.DefaultErrorMessage, domain.ErrorMessage(err))
}

func TestUnauthorizedFiresHook(t *testing.T) {
	var fired atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Options{
		BaseURL:        srv.URL,
		Token:          "expired",
		OnUnauthorized: func() { fired.Add(1) },
	})

	_, err := client.GetMyStats(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, int32(1), fired.Load())
}

func TestTransportFailureIsServerOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(Options{BaseURL: url, Timeout: time.Second})
	_, err := client.GetLibrary(context.Background())
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestBreakerOpensAfterRepeatedTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(Options{BaseURL: url, Timeout: time.Second, BreakerFailures: 2})
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := client.GetLibrary(ctx)
		require.ErrorIs(t, err, domain.ErrServerOffline)
	}

	_, err := client.GetLibrary(ctx)
	assert.ErrorIs(t, err, domain.ErrServerOffline)
	assert.Contains(t, err.Error(), "circuit breaker is open")
}

func TestFeedSinceFormatsInstant(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/feed/since", r.URL.Path)
		assert.Equal(t, "2024-05-01T10:00:00.000Z", r.URL.Query().Get("since"))
		writeJSON(t, w, http.StatusOK, []map[string]any{
			{"id": 1, "eventType": "CRATE_RELEASED", "createdAt": "2024-05-01T11:00:00Z"},
		})
	})

	events, err := client.GetFeedSince(context.Background(), time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventCrateReleased, events[0].EventType)
}

func TestHasNewActivity(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, true)
	})

	hasNew, err := client.HasNewActivity(context.Background(), time.Now())
	require.NoError(t, err)
	assert.True(t, hasNew)
}

func TestUnifiedSearch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "bill", r.URL.Query().Get("q"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"users":  []map[string]any{{"id": 1, "handle": "bill"}},
			"crates": []map[string]any{},
		})
	})

	res, err := client.Search(context.Background(), "bill", domain.FirstPage(10))
	require.NoError(t, err)
	require.Len(t, res.Users, 1)
	assert.Equal(t, "bill", res.Users[0].Identifier())
}
