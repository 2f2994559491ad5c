package twitch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Guliveer/twitch-browser-go/internal/auth"
	"github.com/Guliveer/twitch-browser-go/internal/httpclient"
	"github.com/Guliveer/twitch-browser-go/internal/model"
)

const (
	testToken    = "t6v8z82dmym8zz69tej4atolibdcr7"
	testClientID = "qou2ulob7b2y1w6zc6qhahdj75653x"

	fakeUserJSON  = `{"id":"141981764","login":"twitchdev","display_name":"TwitchDev","type":"","broadcaster_type":"partner","view_count":5980557,"created_at":"2016-12-14T20:32:28Z"}`
	fakeErrorJSON = `{"error":"Unauthorized","status":401,"message":"OAuth token is missing"}`
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()

	var calls int32
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	creds, err := auth.NewCredentials(testToken, testClientID)
	if err != nil {
		t.Fatalf("NewCredentials: %v", err)
	}

	c := NewClient(creds,
		WithHost(srv.URL),
		WithHTTPOptions(httpclient.WithHTTPClient(srv.Client())),
	)
	return c, &calls
}

func TestGetAuthUserCachesIdentity(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/helix/users" || r.URL.RawQuery != "" {
			t.Errorf("Unexpected request %s", r.URL)
		}
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			t.Errorf("Unexpected Authorization header %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Client-Id") != testClientID {
			t.Errorf("Unexpected Client-Id header %q", r.Header.Get("Client-Id"))
		}
		w.Write([]byte(`{"data":[` + fakeUserJSON + `]}`))
	})

	for range 2 {
		user, err := c.GetAuthUser(context.Background())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if user.ID != "141981764" || user.Login != "twitchdev" {
			t.Errorf("Unexpected user %+v", user)
		}
	}

	if got := atomic.LoadInt32(calls); got != 1 {
		t.Errorf("Expected 1 request, got %d", got)
	}
}

func TestGetAuthUserConcurrentCallersShareRequest(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte(`{"data":[` + fakeUserJSON + `]}`))
	})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.GetAuthUser(context.Background()); err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(calls); got != 1 {
		t.Errorf("Expected 1 request, got %d", got)
	}
}

func TestGetAuthUserCancelledCallerDoesNotFailOthers(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"data":[` + fakeUserJSON + `]}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	var cancelledErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, cancelledErr = c.GetAuthUser(ctx)
	}()

	// Let the first caller start the shared lookup.
	time.Sleep(10 * time.Millisecond)
	user, err := c.GetAuthUser(context.Background())
	wg.Wait()

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if user.ID != "141981764" {
		t.Errorf("Unexpected user %+v", user)
	}
	if !errors.Is(cancelledErr, context.DeadlineExceeded) {
		t.Errorf("Expected the cancelled caller to see its own deadline, got %v", cancelledErr)
	}
	if got := atomic.LoadInt32(calls); got != 1 {
		t.Errorf("Expected 1 request, got %d", got)
	}
}

func TestGetAuthUserFailureIsNotCached(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)

	c, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(fakeErrorJSON))
			return
		}
		w.Write([]byte(`{"data":[` + fakeUserJSON + `]}`))
	})

	_, err := c.GetAuthUser(context.Background())
	twitchErr, ok := AsError(err)
	if !ok {
		t.Fatalf("Expected a Twitch error, got %T (%v)", err, err)
	}
	expected := Error{ErrorName: "Unauthorized", Status: 401, Message: "OAuth token is missing"}
	if *twitchErr != expected {
		t.Errorf("Expected %+v, got %+v", expected, *twitchErr)
	}

	fail.Store(false)
	if _, err := c.GetAuthUser(context.Background()); err != nil {
		t.Fatalf("Unexpected error on retry: %v", err)
	}
	if got := atomic.LoadInt32(calls); got != 2 {
		t.Errorf("Expected 2 requests, got %d", got)
	}
}

func TestGetAuthUserEmptyData(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	})

	if _, err := c.GetAuthUser(context.Background()); !errors.Is(err, ErrNoAuthUser) {
		t.Errorf("Expected ErrNoAuthUser, got %v", err)
	}
}

func TestGetLiveFollowedStreams(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/helix/streams/followed" || r.URL.RawQuery != "user_id=141981764" {
			t.Errorf("Unexpected request %s", r.URL)
		}
		w.Write([]byte(`{"data":[{"id":"40952121085","user_id":"459331509","user_login":"auronplay","type":"live","viewer_count":78365}]}`))
	})

	streams, err := c.GetLiveFollowedStreams(context.Background(), "141981764")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(streams) != 1 || streams[0].UserID != "459331509" || streams[0].Type != model.StreamLive {
		t.Errorf("Unexpected streams %+v", streams)
	}
}

func TestGetLiveFollowedStreamsEmptyBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {})

	_, err := c.GetLiveFollowedStreams(context.Background(), "141981764")
	if !errors.Is(err, httpclient.ErrParse) {
		t.Errorf("Expected ErrParse, got %v", err)
	}
}

func TestGetUserFollows(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/helix/users/follows" || r.URL.RawQuery != "from_id=141981764" {
			t.Errorf("Unexpected request %s", r.URL)
		}
		w.Write([]byte(`{"data":[{"from_id":"141981764","to_id":"23161357","to_name":"LIRIK"}]}`))
	})

	follows, err := c.GetUserFollows(context.Background(), "141981764")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(follows) != 1 || follows[0].ToID != "23161357" {
		t.Errorf("Unexpected follows %+v", follows)
	}
}

func TestGetUsersClassifiesTokens(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "id=141981764&login=twitchdev" {
			t.Errorf("Unexpected query %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"data":[` + fakeUserJSON + `]}`))
	})

	users, err := c.GetUsers(context.Background(), []string{"141981764", "twitchdev"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("Expected 1 user, got %d", len(users))
	}
}

func TestEmptyInputsShortCircuit(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	})
	ctx := context.Background()

	users, err := c.GetUsers(ctx, nil)
	if err != nil || users == nil || len(users) != 0 {
		t.Errorf("GetUsers(nil) = %v, %v", users, err)
	}
	channels, err := c.SearchChannels(ctx, "")
	if err != nil || channels == nil || len(channels) != 0 {
		t.Errorf("SearchChannels(\"\") = %v, %v", channels, err)
	}
	videos, err := c.GetUserVideos(ctx, "", nil)
	if err != nil || videos == nil || len(videos) != 0 {
		t.Errorf("GetUserVideos(\"\") = %v, %v", videos, err)
	}
	clips, err := c.GetClips(ctx, "", nil)
	if err != nil || clips == nil || len(clips) != 0 {
		t.Errorf("GetClips(\"\") = %v, %v", clips, err)
	}

	if got := atomic.LoadInt32(calls); got != 0 {
		t.Errorf("Expected no requests, got %d", got)
	}
}

func TestSearchChannelsEncodesQuery(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/helix/search/channels" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "lo ser&fruit" {
			t.Errorf("Unexpected query %q", got)
		}
		w.Write([]byte(`{"data":[{"id":"41245072","broadcaster_login":"loserfruit","is_live":true}]}`))
	})

	channels, err := c.SearchChannels(context.Background(), "lo ser&fruit")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(channels) != 1 || !channels[0].IsLive {
		t.Errorf("Unexpected channels %+v", channels)
	}
}

func TestGetUserVideosQuery(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/helix/videos" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		expected := "first=5&period=week&sort=views&type=archive&user_id=141981764"
		if r.URL.RawQuery != expected {
			t.Errorf("Expected query %q, got %q", expected, r.URL.RawQuery)
		}
		w.Write([]byte(`{"data":[{"id":"335921245","user_id":"141981764","type":"upload"}]}`))
	})

	videos, err := c.GetUserVideos(context.Background(), "141981764", &VideoQuery{
		Page:   Page{First: 5},
		Period: model.PeriodWeek,
		Sort:   model.SortViews,
		Type:   model.VideoArchive,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(videos) != 1 || videos[0].ID != "335921245" {
		t.Errorf("Unexpected videos %+v", videos)
	}
}

func TestGetClipsWithoutQuery(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/helix/clips" || r.URL.RawQuery != "broadcaster_id=141981764" {
			t.Errorf("Unexpected request %s", r.URL)
		}
		w.Write([]byte(`{"data":[{"id":"AwkwardHelplessSalamanderSwiftRage","broadcaster_id":"141981764","duration":12.9}]}`))
	})

	clips, err := c.GetClips(context.Background(), "141981764", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(clips) != 1 || clips[0].Duration != 12.9 {
		t.Errorf("Unexpected clips %+v", clips)
	}
}

func TestGetClipsTimeRange(t *testing.T) {
	started := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("started_at"); got != "2024-01-02T03:04:05Z" {
			t.Errorf("Unexpected started_at %q", got)
		}
		if r.URL.Query().Has("ended_at") {
			t.Error("ended_at must be omitted when unset")
		}
		w.Write([]byte(`{"data":[]}`))
	})

	if _, err := c.GetClips(context.Background(), "141981764", &ClipQuery{StartedAt: &started}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestErrorEnvelopePassthrough(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(fakeErrorJSON))
	})

	_, err := c.GetUserFollows(context.Background(), "141981764")

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected *StatusError, got %T", err)
	}
	if statusErr.StatusCode != http.StatusUnauthorized || statusErr.Body.Message != "OAuth token is missing" {
		t.Errorf("Unexpected error %+v", statusErr)
	}
}

func TestVideoQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       *VideoQuery
		wantErr bool
	}{
		{name: "nil", q: nil},
		{name: "empty", q: &VideoQuery{}},
		{name: "known values", q: &VideoQuery{Type: model.VideoArchive, Period: model.PeriodWeek, Sort: model.SortViews}},
		{name: "unknown type", q: &VideoQuery{Type: "livestream"}, wantErr: true},
		{name: "unknown period", q: &VideoQuery{Period: "year"}, wantErr: true},
		{name: "unknown sort", q: &VideoQuery{Sort: "oldest"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.q.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
