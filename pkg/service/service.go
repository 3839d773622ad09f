// Package service exposes one operation per forum action. Reads go through
// the deduplicator and degrade to a snapshot or the sample data instead of
// failing; writes run once and return their error.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fastn-ai/fastn-community-sub000/pkg/api"
	"github.com/fastn-ai/fastn-community-sub000/pkg/cache"
	"github.com/fastn-ai/fastn-community-sub000/pkg/client"
	"github.com/fastn-ai/fastn-community-sub000/pkg/config"
	"github.com/fastn-ai/fastn-community-sub000/pkg/credentials"
	"github.com/fastn-ai/fastn-community-sub000/pkg/dedup"
	apperrors "github.com/fastn-ai/fastn-community-sub000/pkg/errors"
	"github.com/fastn-ai/fastn-community-sub000/pkg/fallback"
	"github.com/fastn-ai/fastn-community-sub000/pkg/logger"
	"github.com/fastn-ai/fastn-community-sub000/pkg/metrics"
	"github.com/fastn-ai/fastn-community-sub000/pkg/normalize"
)

// Invoker performs one backend call. *client.Transport implements it.
type Invoker interface {
	Invoke(ctx context.Context, req client.Request) ([]byte, error)
}

// Source says where the records of a read came from
type Source string

const (
	SourceNetwork  Source = "network"
	SourceSnapshot Source = "snapshot"
	SourceFallback Source = "fallback"
)

// Listing is the result of a list read. Items is never nil.
type Listing[T any] struct {
	Items  []T
	Source Source
}

// Degraded reports whether the items are not fresh from the backend
func (l Listing[T]) Degraded() bool {
	return l.Source != SourceNetwork
}

// Deps are the collaborators the services are built from. Snapshots,
// Cookies, Metrics and Now are optional.
type Deps struct {
	Transport  Invoker
	Dedup      *dedup.Deduplicator
	Normalizer *normalize.Normalizer
	Fallback   *fallback.Provider
	Snapshots  cache.SnapshotStore
	Session    credentials.SessionSource
	Cookies    credentials.CookieSource
	Settings   config.Settings
	Metrics    metrics.Recorder
	Now        func() time.Time
}

// Services groups the entity operations
type Services struct {
	Topics     *TopicService
	Replies    *ReplyService
	Categories *CategoryService
	Tags       *TagService
	Users      *UserService
	Analytics  *AnalyticsService

	core *core
}

// New wires the services. Missing optional deps get no-op defaults.
func New(d Deps) *Services {
	if d.Dedup == nil {
		d.Dedup = dedup.New()
	}
	if d.Fallback == nil {
		d.Fallback = fallback.NewProvider()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Normalizer == nil {
		d.Normalizer = normalize.New(d.Now)
	}
	if d.Metrics == nil {
		d.Metrics = metrics.Nop{}
	}
	if d.Session == nil {
		d.Session = credentials.Static{}
	}
	if d.Cookies == nil {
		d.Cookies = credentials.Static{}
	}

	c := &core{Deps: d, validate: newValidator()}
	s := &Services{core: c}
	s.Tags = &TagService{c: c}
	s.Categories = &CategoryService{c: c}
	s.Users = &UserService{c: c}
	s.Topics = &TopicService{c: c, tags: s.Tags}
	s.Replies = &ReplyService{c: c}
	s.Analytics = &AnalyticsService{c: c, topics: s.Topics, users: s.Users}
	return s
}

// Wait blocks until every detached task has finished
func (s *Services) Wait() {
	s.core.tasks.Wait()
}

// Reset clears the dedup cache and restores the sample data
func (s *Services) Reset() {
	s.core.Dedup.Reset()
	s.core.Fallback.Reset()
}

type core struct {
	Deps
	validate *validatorAdapter
	tasks    sync.WaitGroup
}

func (c *core) stamp() string {
	return c.Now().UTC().Format(time.RFC3339)
}

// auth collects the credentials for action. mode is part of the dedup key;
// ok is false when the call would go out with no credential at all.
func (c *core) auth(action string) (a client.Auth, mode string, ok bool) {
	if s := c.Session.Session(); s != nil {
		a.Token = s.AccessToken
	}
	a.Cookies = c.Cookies.Cookies()

	mode = dedup.ModeToken
	if api.UsesAPIKey(action) && c.Settings.APIKey != "" {
		a.APIKey = c.Settings.APIKey
		mode = dedup.ModeKey
	}

	custom := a.Cookies.CustomAuth && a.Cookies.CustomAuthToken != ""
	return a, mode, a.Token != "" || a.APIKey != "" || custom
}

func (c *core) invoke(ctx context.Context, action string, data interface{}, a client.Auth, force bool) ([]byte, error) {
	return c.Transport.Invoke(ctx, client.Request{
		URL:          c.Settings.EndpointFor(action),
		Payload:      api.Payload{Action: action, Data: data},
		Auth:         a,
		ForceRefresh: force,
	})
}

// write runs a mutating action once. The error is returned unchanged.
func (c *core) write(ctx context.Context, action string, data interface{}) ([]byte, error) {
	a, _, ok := c.auth(action)
	if !ok {
		return nil, &apperrors.NoCredentialError{Action: action}
	}
	logger.Debug("Write", "action", action)
	return c.invoke(ctx, action, data, a, false)
}

// detach runs fn in the background. Its error is logged and never returned.
func (c *core) detach(ctx context.Context, name string, fn func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	c.tasks.Add(1)
	go func() {
		defer c.tasks.Done()
		if err := fn(ctx); err != nil {
			logger.Warn("Background task failed", "task", name, "error", err)
		}
	}()
}

// readPlan describes one deduplicated read
type readPlan struct {
	kind   string
	action string
	scope  string
	data   interface{}
	ttl    time.Duration
	force  bool
}

// fetch runs the read through the deduplicator and hands the body to
// decode. On a transport or shape failure it tries the snapshot store. It
// returns SourceFallback when neither produced usable data, leaving the
// caller to serve sample records.
func (c *core) fetch(ctx context.Context, plan readPlan, decode func([]byte) error) Source {
	if c.Settings.Offline {
		return SourceFallback
	}

	a, mode, ok := c.auth(plan.action)
	if !ok {
		logger.Debug("No credential, serving sample data", "action", plan.action)
		c.Metrics.RecordFallback(plan.kind, string(SourceFallback))
		return SourceFallback
	}

	key := dedup.Key(plan.action, plan.scope, mode)
	raw, err := c.Dedup.Do(ctx, key, plan.ttl, plan.force, func(ctx context.Context) ([]byte, error) {
		body, err := c.invoke(ctx, plan.action, plan.data, a, plan.force)
		if err == nil && c.Snapshots != nil {
			if serr := c.Snapshots.Save(ctx, key, body); serr != nil {
				logger.Debug("Snapshot save failed", "key", key, "error", serr)
			}
		}
		return body, err
	})
	if err == nil {
		if err = decode(raw); err == nil {
			return SourceNetwork
		}
	}
	logger.Warn("Read failed, degrading", "action", plan.action, "error", err)

	if c.Snapshots != nil {
		snap, serr := c.Snapshots.Load(ctx, key)
		if serr == nil && decode(snap) == nil {
			c.Metrics.RecordFallback(plan.kind, string(SourceSnapshot))
			return SourceSnapshot
		}
		if serr != nil && !errors.Is(serr, cache.ErrMiss) {
			logger.Debug("Snapshot load failed", "key", key, "error", serr)
		}
	}

	c.Metrics.RecordFallback(plan.kind, string(SourceFallback))
	return SourceFallback
}

// readList is fetch for list reads
func readList[T any](ctx context.Context, c *core, plan readPlan, decode func([]byte) ([]T, error), sample func() []T) Listing[T] {
	var items []T
	src := c.fetch(ctx, plan, func(raw []byte) error {
		got, err := decode(raw)
		if err != nil {
			return err
		}
		items = got
		return nil
	})
	if src == SourceFallback {
		items = sample()
	}
	if items == nil {
		items = []T{}
	}
	return Listing[T]{Items: items, Source: src}
}

// readOne is fetch for single-record reads. A backend answer with no record
// is NotFound; a failed read looks the id up in the sample data.
func readOne[T any](ctx context.Context, c *core, plan readPlan, id string, decode func([]byte) (T, bool, error), sample func(string) (T, bool)) (T, Source, error) {
	var item T
	var found bool
	src := c.fetch(ctx, plan, func(raw []byte) error {
		got, ok, err := decode(raw)
		if err != nil {
			return err
		}
		item, found = got, ok
		return nil
	})
	if src == SourceFallback {
		item, found = sample(id)
	}
	if !found {
		return item, src, &apperrors.NotFoundErr{Resource: plan.kind, ID: id}
	}
	return item, src, nil
}
