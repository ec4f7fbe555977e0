package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"userfeed/internal/client"
	clientMocks "userfeed/internal/client/mocks"
	"userfeed/internal/logging"
	"userfeed/internal/model"
	"userfeed/internal/model/modeltest"
	"userfeed/internal/service"
	serviceMocks "userfeed/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type response struct {
	res *client.Result
	err error
}

// gatedClient holds every request until the test resolves it.
type gatedClient struct {
	mu    sync.Mutex
	calls []chan response
}

func (g *gatedClient) FetchUsers(ctx context.Context) (*client.Result, error) {
	ch := make(chan response, 1)
	g.mu.Lock()
	g.calls = append(g.calls, ch)
	g.mu.Unlock()

	select {
	case r := <-ch:
		return r.res, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", client.ErrCanceled, ctx.Err())
	}
}

func (g *gatedClient) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *gatedClient) waitCalls(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return g.count() >= n }, 2*time.Second, 5*time.Millisecond)
}

func (g *gatedClient) resolve(i int, r response) {
	g.mu.Lock()
	ch := g.calls[i]
	g.mu.Unlock()
	ch <- r
}

type observerSpy struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *observerSpy) ObserveFetch(outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func result(users ...model.User) *client.Result {
	return &client.Result{Users: users, Body: []byte(`{"users":[]}`), StatusCode: http.StatusOK}
}

var (
	ann = modeltest.User(1, "Ann", "admin")
	bob = modeltest.User(2, "Bob", "user")
)

func TestUserFeed_InitialState(t *testing.T) {
	feed := service.NewUserFeed(new(clientMocks.MockUserClient), service.Options{})

	st := feed.State()
	assert.False(t, st.Loading)
	assert.NotNil(t, st.Users)
	assert.Empty(t, st.Users)
	assert.Empty(t, st.Failure)
}

func TestUserFeed_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(modeltest.EnvelopeJSON(modeltest.UserJSON(1, "Ann", "admin"))))
	}))
	defer srv.Close()

	feed := service.NewUserFeed(client.New(srv.URL+"/users", 0), service.Options{Coalesce: true})
	feed.FetchUsers(context.Background())

	st := feed.State()
	require.Len(t, st.Users, 1)
	assert.Equal(t, 1, st.Users[0].ID)
	assert.Equal(t, "admin", st.Users[0].Role)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Failure)
}

func TestUserFeed_StatusBoundary(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			_, _ = w.Write([]byte(modeltest.EnvelopeJSON(modeltest.UserJSON(1, "Ann", "admin"))))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	for _, sticky := range []bool{true, false} {
		t.Run(fmt.Sprintf("sticky=%v", sticky), func(t *testing.T) {
			hits.Store(0)
			feed := service.NewUserFeed(client.New(srv.URL, 0), service.Options{StickyLoading: sticky})

			feed.FetchUsers(context.Background())
			first := feed.State()
			assert.False(t, first.Loading)
			assert.Equal(t, []model.User{ann}, first.Users)

			feed.FetchUsers(context.Background())
			second := feed.State()
			assert.Equal(t, sticky, second.Loading)
			assert.Equal(t, first.Users, second.Users)
			assert.Equal(t, client.KindUnexpectedStatus, second.Failure)
		})
	}
}

func TestUserFeed_Failures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind string
	}{
		{"invalid endpoint", fmt.Errorf("%w: bad url", client.ErrInvalidEndpoint), client.KindInvalidEndpoint},
		{"transport", fmt.Errorf("%w: connection refused", client.ErrTransport), client.KindTransport},
		{"server error", &client.StatusError{Code: 503}, client.KindUnexpectedStatus},
		{"decode", fmt.Errorf("%w: missing age", client.ErrDecode), client.KindDecode},
	}

	for _, tt := range tests {
		for _, sticky := range []bool{true, false} {
			t.Run(fmt.Sprintf("%s/sticky=%v", tt.name, sticky), func(t *testing.T) {
				mClient := new(clientMocks.MockUserClient)
				mClient.On("FetchUsers", mock.Anything).Return(result(ann), nil).Once()
				mClient.On("FetchUsers", mock.Anything).Return(nil, tt.err).Once()

				var logs bytes.Buffer
				feed := service.NewUserFeed(mClient, service.Options{
					StickyLoading: sticky,
					Logger:        logging.New(&logs, time.UTC),
				})

				feed.FetchUsers(context.Background())
				feed.FetchUsers(context.Background())

				st := feed.State()
				assert.Equal(t, sticky, st.Loading)
				assert.Equal(t, []model.User{ann}, st.Users)
				assert.Equal(t, tt.wantKind, st.Failure)
				assert.Contains(t, logs.String(), "fetch_users_failed")
				assert.Contains(t, logs.String(), tt.wantKind)
				mClient.AssertExpectations(t)
			})
		}
	}
}

func TestUserFeed_SuccessClearsFailure(t *testing.T) {
	mClient := new(clientMocks.MockUserClient)
	mClient.On("FetchUsers", mock.Anything).Return(nil, &client.StatusError{Code: 500}).Once()
	mClient.On("FetchUsers", mock.Anything).Return(result(bob), nil).Once()

	feed := service.NewUserFeed(mClient, service.Options{StickyLoading: true})

	feed.FetchUsers(context.Background())
	assert.True(t, feed.State().Loading)

	feed.FetchUsers(context.Background())
	st := feed.State()
	assert.False(t, st.Loading)
	assert.Empty(t, st.Failure)
	assert.Equal(t, []model.User{bob}, st.Users)
}

func TestUserFeed_Idempotent(t *testing.T) {
	mClient := new(clientMocks.MockUserClient)
	mClient.On("FetchUsers", mock.Anything).Return(result(ann, bob), nil)

	feed := service.NewUserFeed(mClient, service.Options{Coalesce: true})

	for i := 0; i < 3; i++ {
		feed.FetchUsers(context.Background())
		assert.Equal(t, []model.User{ann, bob}, feed.State().Users)
	}
	mClient.AssertNumberOfCalls(t, "FetchUsers", 3)
}

func TestUserFeed_StateIsACopy(t *testing.T) {
	mClient := new(clientMocks.MockUserClient)
	mClient.On("FetchUsers", mock.Anything).Return(result(ann), nil)

	feed := service.NewUserFeed(mClient, service.Options{})
	feed.FetchUsers(context.Background())

	st := feed.State()
	st.Users[0].Role = "intruder"
	assert.Equal(t, "admin", feed.State().Users[0].Role)
}

func TestUserFeed_LastResolvedWins(t *testing.T) {
	gc := &gatedClient{}
	feed := service.NewUserFeed(gc, service.Options{Coalesce: false})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); feed.FetchUsers(context.Background()) }()
	gc.waitCalls(t, 1)
	go func() { defer wg.Done(); feed.FetchUsers(context.Background()) }()
	gc.waitCalls(t, 2)

	// The second request resolves first.
	gc.resolve(1, response{res: result(bob)})
	require.Eventually(t, func() bool {
		st := feed.State()
		return len(st.Users) == 1 && st.Users[0] == bob
	}, 2*time.Second, 5*time.Millisecond)

	// The earlier request resolves last and overwrites it.
	gc.resolve(0, response{res: result(ann)})
	wg.Wait()

	assert.Equal(t, []model.User{ann}, feed.State().Users)
	assert.Equal(t, 2, gc.count())
}

func TestUserFeed_CoalescesConcurrentTriggers(t *testing.T) {
	gc := &gatedClient{}
	spy := &observerSpy{}
	feed := service.NewUserFeed(gc, service.Options{Coalesce: true, Observer: spy})

	const callers = 5
	var wg sync.WaitGroup
	wg.Add(callers)
	go func() { defer wg.Done(); feed.FetchUsers(context.Background()) }()
	gc.waitCalls(t, 1)
	for i := 1; i < callers; i++ {
		go func() { defer wg.Done(); feed.FetchUsers(context.Background()) }()
	}
	// Give the late callers time to join the in-flight request.
	time.Sleep(50 * time.Millisecond)

	gc.resolve(0, response{res: result(ann)})
	wg.Wait()

	assert.Equal(t, 1, gc.count())
	assert.Equal(t, []model.User{ann}, feed.State().Users)
	assert.Equal(t, []string{model.OutcomeSuccess}, spy.outcomes)
}

func TestUserFeed_CoalescedCallerStopsWaitingOnCancel(t *testing.T) {
	gc := &gatedClient{}
	feed := service.NewUserFeed(gc, service.Options{Coalesce: true})
	defer feed.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { feed.FetchUsers(ctx); close(done) }()
	gc.waitCalls(t, 1)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("FetchUsers did not return after cancel")
	}

	// The shared request is still running and publishes when it resolves.
	assert.True(t, feed.State().Loading)
	gc.resolve(0, response{res: result(bob)})
	require.Eventually(t, func() bool { return !feed.State().Loading }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []model.User{bob}, feed.State().Users)
}

func TestUserFeed_CloseDropsLateResults(t *testing.T) {
	gc := &gatedClient{}
	feed := service.NewUserFeed(gc, service.Options{})

	var notified atomic.Int32
	feed.Subscribe(func(service.State) { notified.Add(1) })

	done := make(chan struct{})
	go func() { feed.FetchUsers(context.Background()); close(done) }()
	gc.waitCalls(t, 1)
	require.Equal(t, int32(1), notified.Load())

	feed.Close()
	<-done

	st := feed.State()
	assert.True(t, st.Loading)
	assert.Empty(t, st.Users)
	assert.Empty(t, st.Failure)
	assert.Equal(t, int32(1), notified.Load())

	feed.FetchUsers(context.Background())
	assert.Equal(t, 1, gc.count())
}

func TestUserFeed_Subscribe(t *testing.T) {
	mClient := new(clientMocks.MockUserClient)
	mClient.On("FetchUsers", mock.Anything).Return(result(ann), nil).Once()
	mClient.On("FetchUsers", mock.Anything).Return(nil, &client.StatusError{Code: 404}).Once()

	feed := service.NewUserFeed(mClient, service.Options{})

	var seen []service.State
	cancel := feed.Subscribe(func(s service.State) { seen = append(seen, s) })

	feed.FetchUsers(context.Background())
	require.Len(t, seen, 2)
	assert.True(t, seen[0].Loading)
	assert.Empty(t, seen[0].Users)
	assert.False(t, seen[1].Loading)
	assert.Equal(t, []model.User{ann}, seen[1].Users)

	cancel()
	feed.FetchUsers(context.Background())
	assert.Len(t, seen, 2)
	assert.Equal(t, client.KindUnexpectedStatus, feed.State().Failure)
}

func TestUserFeed_RecordsHistory(t *testing.T) {
	mClient := new(clientMocks.MockUserClient)
	ok := result(ann)
	mClient.On("FetchUsers", mock.Anything).Return(ok, nil).Once()
	mClient.On("FetchUsers", mock.Anything).Return(nil, &client.StatusError{Code: 404}).Once()

	mHistory := new(serviceMocks.MockFetchHistory)
	mHistory.On("Record", mock.Anything, mock.MatchedBy(func(run model.FetchRun) bool {
		return run.ID != "" && run.Outcome == model.OutcomeSuccess && run.StatusCode == 200 && run.UserCount == 1
	}), ok.Body).Return(&model.FetchRun{}, nil).Once()
	mHistory.On("Record", mock.Anything, mock.MatchedBy(func(run model.FetchRun) bool {
		return run.Outcome == client.KindUnexpectedStatus && run.StatusCode == 404 && run.UserCount == 0
	}), []byte(nil)).Return(nil, errors.New("db down")).Once()

	var logs bytes.Buffer
	spy := &observerSpy{}
	feed := service.NewUserFeed(mClient, service.Options{
		History:  mHistory,
		Observer: spy,
		Logger:   logging.New(&logs, time.UTC),
	})

	feed.FetchUsers(context.Background())
	feed.FetchUsers(context.Background())

	// A history failure is logged and leaves the published state alone.
	assert.Equal(t, []model.User{ann}, feed.State().Users)
	assert.Contains(t, logs.String(), "fetch_run_record_failed")
	assert.Equal(t, []string{model.OutcomeSuccess, client.KindUnexpectedStatus}, spy.outcomes)
	mHistory.AssertExpectations(t)
}

func TestUserFeed_PanicStillClearsLoading(t *testing.T) {
	mClient := new(clientMocks.MockUserClient)
	mClient.On("FetchUsers", mock.Anything).Run(func(mock.Arguments) { panic("boom") })

	feed := service.NewUserFeed(mClient, service.Options{})
	assert.Panics(t, func() { feed.FetchUsers(context.Background()) })
	assert.False(t, feed.State().Loading)
}
