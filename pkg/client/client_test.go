package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimistic_Transitions(t *testing.T) {
	o := NewOptimistic(1)
	assert.Equal(t, Settled, o.State())

	require.NoError(t, o.Apply(2))
	assert.Equal(t, Pending, o.State())
	assert.Equal(t, 2, o.Value())
	assert.Equal(t, 1, o.Committed())
	assert.ErrorIs(t, o.Apply(3), ErrPending)

	o.Confirm(2)
	assert.Equal(t, Confirmed, o.State())
	assert.Equal(t, 2, o.Committed())

	require.NoError(t, o.Apply(5))
	boom := errors.New("boom")
	o.Revert(boom)
	assert.Equal(t, Reverted, o.State())
	assert.Equal(t, 2, o.Value())
	assert.Equal(t, boom, o.Err())

	o.Confirm(9)
	assert.Equal(t, 2, o.Value(), "confirm without a pending change is ignored")
}

func TestOptimistic_Run(t *testing.T) {
	o := NewOptimistic("a")
	got, err := o.Run(context.Background(), "b", func(context.Context) (string, error) {
		assert.Equal(t, "b", o.Value(), "value is echoed before the call returns")
		return "c", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "c", got)
	assert.Equal(t, Confirmed, o.State())

	got, err = o.Run(context.Background(), "d", func(context.Context) (string, error) {
		return "", errors.New("offline")
	})
	assert.EqualError(t, err, "offline")
	assert.Equal(t, "c", got)
	assert.Equal(t, Reverted, o.State())
}

// fakeAPI mimics the like and follow endpoints.
type fakeAPI struct {
	mu        sync.Mutex
	liked     bool
	following bool
	fail      bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	write := func(status int, body map[string]any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
	if r.Header.Get("Authorization") != "Bearer tok" {
		write(http.StatusUnauthorized, map[string]any{"success": false, "error": "not authenticated"})
		return
	}
	if f.fail {
		write(http.StatusInternalServerError, map[string]any{"success": false, "error": "connection reset by peer"})
		return
	}
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/likes/toggle":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["likeable_type"] != "post" {
			write(http.StatusBadRequest, map[string]any{"success": false, "error": "invalid likeable type"})
			return
		}
		f.liked = !f.liked
		write(http.StatusOK, map[string]any{"success": true, "data": map[string]bool{"liked": f.liked}})
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/users/bob/follow":
		if f.following {
			write(http.StatusConflict, map[string]any{"success": false, "error": "already following this user"})
			return
		}
		f.following = true
		write(http.StatusCreated, map[string]any{"success": true})
	case r.Method == http.MethodDelete && r.URL.Path == "/api/v1/users/bob/follow":
		f.following = false
		write(http.StatusOK, map[string]any{"success": true})
	default:
		write(http.StatusNotFound, map[string]any{"success": false, "error": "not found"})
	}
}

func newFake(t *testing.T) (*fakeAPI, *Client) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return api, New(srv.URL+"/api/v1/", "tok", WithHTTPClient(srv.Client()))
}

func TestLikeToggle(t *testing.T) {
	api, c := newFake(t)
	ctx := context.Background()
	like := c.NewLikeToggle("post", "p1", LikeState{Count: 4})

	st, err := like.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, LikeState{Liked: true, Count: 5}, st)
	assert.Equal(t, Confirmed, like.State.State())

	st, err = like.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, LikeState{Liked: false, Count: 4}, st)

	api.fail = true
	st, err = like.Toggle(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "connection reset by peer", apiErr.Message)
	assert.Equal(t, LikeState{Liked: false, Count: 4}, st)
	assert.Equal(t, Reverted, like.State.State())
}

func TestLikeToggle_ServerDisagrees(t *testing.T) {
	api, c := newFake(t)
	api.liked = true
	like := c.NewLikeToggle("post", "p1", LikeState{Count: 1})

	st, err := like.Toggle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LikeState{Liked: false, Count: 1}, st)
}

func TestFollowToggle(t *testing.T) {
	api, c := newFake(t)
	ctx := context.Background()
	follow := c.NewFollowToggle("bob", false)

	following, err := follow.Toggle(ctx)
	require.NoError(t, err)
	assert.True(t, following)

	following, err = follow.Toggle(ctx)
	require.NoError(t, err)
	assert.False(t, following)

	api.following = true
	following, err = follow.Toggle(ctx)
	require.NoError(t, err, "a conflict confirms the follow")
	assert.True(t, following)
}

func TestClient_Errors(t *testing.T) {
	_, c := newFake(t)
	anon := New(c.baseURL, "", WithHTTPClient(c.http))

	_, err := anon.ToggleLike(context.Background(), "post", "p1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	_, err = c.ToggleLike(context.Background(), "story", "p1")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.False(t, IsConflict(err))
}
