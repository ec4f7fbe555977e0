package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"userfeed/internal/client"
	"userfeed/internal/logging"
	"userfeed/internal/model"
)

const (
	coalesceKey   = "users"
	recordTimeout = 10 * time.Second
)

// State is what the feed publishes. Users is replaced wholesale on each successful fetch.
// Failure holds the kind of the most recent failed fetch and is cleared by a success.
type State struct {
	Loading bool         `json:"is_loading"`
	Users   []model.User `json:"users"`
	Failure string       `json:"failure,omitempty"`
}

func (s State) clone() State {
	s.Users = slices.Clone(s.Users)
	if s.Users == nil {
		s.Users = []model.User{}
	}
	return s
}

// FetchObserver is notified once per completed fetch.
type FetchObserver interface {
	ObserveFetch(outcome string, d time.Duration)
}

// Options tune a UserFeed. The zero value fetches without coalescing and always clears loading.
type Options struct {
	// Coalesce merges triggers that arrive while a fetch is in flight into that fetch.
	// Without it overlapping fetches race and the last one to resolve wins.
	Coalesce bool
	// StickyLoading leaves Loading set after a failed fetch.
	StickyLoading bool
	Observer      FetchObserver
	History       FetchHistory
	Logger        *logging.Logger
}

// Feed is the surface the HTTP layer consumes.
type Feed interface {
	FetchUsers(ctx context.Context)
	State() State
}

// UserFeed owns the published users state. Only FetchUsers mutates it.
type UserFeed struct {
	client client.UserClient
	opts   Options
	log    *logging.Logger
	tracer trace.Tracer
	group  singleflight.Group

	base   context.Context
	cancel context.CancelFunc

	// publishMu orders mutations together with their notifications.
	publishMu sync.Mutex

	mu      sync.RWMutex
	state   State
	closed  bool
	subs    map[uint64]func(State)
	nextSub uint64
}

var _ Feed = (*UserFeed)(nil)

// NewUserFeed returns a feed that is not loading and has no users.
func NewUserFeed(c client.UserClient, opts Options) *UserFeed {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	base, cancel := context.WithCancel(context.Background())
	return &UserFeed{
		client: c,
		opts:   opts,
		log:    log.With("user_feed"),
		tracer: otel.Tracer("userfeed/internal/service"),
		base:   base,
		cancel: cancel,
		state:  State{Users: []model.User{}},
		subs:   make(map[uint64]func(State)),
	}
}

// State returns a copy of the current state.
func (f *UserFeed) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.clone()
}

// Subscribe registers fn for every subsequent state change, delivered in mutation order.
// fn runs on the fetching goroutine and must not call FetchUsers synchronously.
func (f *UserFeed) Subscribe(fn func(State)) (cancel func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return func() {}
	}
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

// Close cancels in-flight requests and detaches subscribers. Results that arrive
// afterwards are dropped.
func (f *UserFeed) Close() {
	f.mu.Lock()
	f.closed = true
	f.subs = map[uint64]func(State){}
	f.mu.Unlock()
	f.cancel()
}

// FetchUsers performs one fetch and publishes its outcome. Failures are logged and
// reflected in State, never returned. With Coalesce a caller arriving mid-flight waits
// for the running fetch instead of starting another; ctx then only bounds the wait.
func (f *UserFeed) FetchUsers(ctx context.Context) {
	if !f.opts.Coalesce {
		f.fetch(ctx)
		return
	}

	ch := f.group.DoChan(coalesceKey, func() (any, error) {
		f.fetch(context.WithoutCancel(ctx))
		return nil, nil
	})
	select {
	case <-ch:
	case <-ctx.Done():
	}
}

func (f *UserFeed) fetch(ctx context.Context) {
	ctx, stop := f.bind(ctx)
	defer stop()

	ctx, span := f.tracer.Start(ctx, "UserFeed.FetchUsers")
	defer span.End()

	started := time.Now()
	if !f.update(func(s *State) { s.Loading = true }) {
		return
	}

	settled := false
	defer func() {
		if !settled && !f.opts.StickyLoading {
			f.update(func(s *State) { s.Loading = false })
		}
	}()

	res, err := f.client.FetchUsers(ctx)
	elapsed := time.Since(started)

	run := model.FetchRun{
		ID:         uuid.NewString(),
		StartedAt:  started.UTC(),
		DurationMS: elapsed.Milliseconds(),
		Outcome:    model.OutcomeSuccess,
	}
	var payload []byte

	if err != nil {
		run.Outcome = client.FailureKind(err)
		fields := logging.Fields{"kind": run.Outcome, "error": err, "duration_ms": run.DurationMS}
		var se *client.StatusError
		if errors.As(err, &se) {
			run.StatusCode = se.Code
			fields["status"] = se.Code
			fields["status_class"] = se.Class()
		}

		settled = f.update(func(s *State) {
			s.Failure = run.Outcome
			if !f.opts.StickyLoading {
				s.Loading = false
			}
		})
		if !settled {
			f.log.Warn("fetch_result_discarded", logging.Fields{"kind": run.Outcome})
			return
		}
		f.log.Error("fetch_users_failed", fields)
		span.RecordError(err)
		span.SetStatus(codes.Error, run.Outcome)
	} else {
		users := slices.Clone(res.Users)
		settled = f.update(func(s *State) {
			s.Users = users
			s.Loading = false
			s.Failure = ""
		})
		if !settled {
			f.log.Warn("fetch_result_discarded", logging.Fields{"users": len(users)})
			return
		}
		run.StatusCode = res.StatusCode
		run.UserCount = len(users)
		payload = res.Body
		f.log.Info("fetch_users_succeeded", logging.Fields{
			"status":      res.StatusCode,
			"users":       len(users),
			"duration_ms": run.DurationMS,
		})
	}

	span.SetAttributes(
		attribute.String("userfeed.outcome", run.Outcome),
		attribute.Int("userfeed.users", run.UserCount),
		attribute.Int("http.response.status_code", run.StatusCode),
	)
	if f.opts.Observer != nil {
		f.opts.Observer.ObserveFetch(run.Outcome, elapsed)
	}
	f.record(ctx, run, payload)
}

// record saves the run to history. It outlives cancellation of the fetch.
func (f *UserFeed) record(ctx context.Context, run model.FetchRun, payload []byte) {
	if f.opts.History == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if _, err := f.opts.History.Record(ctx, run, payload); err != nil {
		f.log.Error("fetch_run_record_failed", logging.Fields{"run_id": run.ID, "error": err})
	}
}

// bind derives a context that is also canceled by Close.
func (f *UserFeed) bind(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(f.base, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// update applies mutate and notifies subscribers with the result. It reports false,
// leaving state untouched, once the feed is closed.
func (f *UserFeed) update(mutate func(*State)) bool {
	f.publishMu.Lock()
	defer f.publishMu.Unlock()

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return false
	}
	mutate(&f.state)
	snap := f.state
	subs := make([]func(State), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()

	for _, fn := range subs {
		fn(snap.clone())
	}
	return true
}
