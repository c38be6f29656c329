package collection

import (
	"context"
	"slices"
	"time"

	"github.com/serroba/shortlink-client/internal/activity"
	"github.com/serroba/shortlink-client/internal/linkservice"
	"github.com/serroba/shortlink-client/internal/links"
	"github.com/serroba/shortlink-client/internal/state"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultLoadFailureMessage   = "加载链接失败"
	DefaultDeleteFailureMessage = "删除失败"
)

// LoadState is the fetch status of the collection.
type LoadState string

const (
	LoadStateLoading LoadState = "loading"
	LoadStateReady   LoadState = "ready"
	LoadStateError   LoadState = "error"
)

// State is the collection as seen by the renderer. Links is replaced, never mutated.
type State struct {
	UserID       links.UserID
	Links        []links.ShortLink
	LoadState    LoadState
	ErrorMessage string
}

// RemoveError is returned when a deletion fails. Message is ready to show to the user.
type RemoveError struct {
	ID      links.ID
	Message string
	Err     error
}

func (e *RemoveError) Error() string {
	return "remove link: " + e.Message
}

func (e *RemoveError) Unwrap() error {
	return e.Err
}

// Manager owns the links of one user.
type Manager struct {
	store   *state.Store[State]
	service linkservice.Service
	loads   singleflight.Group
	publish activity.Publishers
	logger  *zap.Logger
	now     func() time.Time
}

// NewManager creates an empty manager. Nothing is fetched until Load or Sync.
func NewManager(service linkservice.Service, publish activity.Publishers, logger *zap.Logger) *Manager {
	return &Manager{
		store:   state.New(State{LoadState: LoadStateLoading, Links: []links.ShortLink{}}),
		service: service,
		publish: publish,
		logger:  logger,
		now:     time.Now,
	}
}

// State returns the current collection snapshot.
func (m *Manager) State() State {
	return m.store.Get()
}

// Subscribe registers l for every state change.
func (m *Manager) Subscribe(l state.Listener[State]) func() {
	return m.store.Subscribe(l)
}

// Sync loads the collection for userID unless it has already been loaded for that user.
func (m *Manager) Sync(ctx context.Context, userID links.UserID) State {
	current := m.store.Get()
	if current.UserID == userID && current.LoadState == LoadStateReady {
		return current
	}

	return m.Load(ctx, userID)
}

// Load fetches the user's links and replaces the collection wholesale. Concurrent loads for
// the same user share one backend call, which runs to completion even if its callers give up.
// A caller whose ctx ends returns early with the current snapshot and leaves the state to the
// shared call. A response for a user that is no longer current is discarded.
func (m *Manager) Load(ctx context.Context, userID links.UserID) State {
	m.store.Update(func(s *State) {
		if s.UserID != userID {
			s.Links = []links.ShortLink{}
		}

		s.UserID = userID
		s.LoadState = LoadStateLoading
		s.ErrorMessage = ""
	})

	detached := context.WithoutCancel(ctx)
	done := m.loads.DoChan(string(userID), func() (any, error) {
		return m.fetch(detached, userID), nil
	})

	select {
	case <-ctx.Done():
		return m.store.Get()
	case res := <-done:
		return res.Val.(State)
	}
}

func (m *Manager) fetch(ctx context.Context, userID links.UserID) State {
	result, err := m.service.ListUserURLs(ctx, userID)
	if err != nil {
		m.logger.Warn("load links failed", zap.String("user_id", string(userID)), zap.Error(err))

		return m.store.Update(func(s *State) {
			if s.UserID != userID {
				return
			}

			s.LoadState = LoadStateError
			s.ErrorMessage = links.MessageOf(err, DefaultLoadFailureMessage)
		})
	}

	fetched := m.dedupe(result)

	snapshot := m.store.Update(func(s *State) {
		if s.UserID != userID {
			return
		}

		s.Links = fetched
		s.LoadState = LoadStateReady
	})

	now := m.now()
	expired := 0

	for i := range fetched {
		if links.IsExpired(&fetched[i], now) {
			expired++
		}
	}

	event := &activity.LinksLoadedEvent{
		UserID:     string(userID),
		Count:      len(fetched),
		Expired:    expired,
		OccurredAt: now,
	}
	if err = m.publish.LinksLoaded(ctx, event); err != nil {
		m.logger.Error("failed to publish links loaded event", zap.Error(err))
	}

	return snapshot
}

// Remove deletes the link on the backend and, once the backend confirms, drops it from the
// collection. On failure the collection is left untouched and a *RemoveError is returned.
func (m *Manager) Remove(ctx context.Context, id links.ID, userID links.UserID) error {
	if err := m.service.DeleteShortURL(ctx, id, userID); err != nil {
		m.logger.Warn("delete link failed",
			zap.Int64("id", int64(id)),
			zap.String("user_id", string(userID)),
			zap.Error(err),
		)

		return &RemoveError{ID: id, Message: links.MessageOf(err, DefaultDeleteFailureMessage), Err: err}
	}

	m.store.Update(func(s *State) {
		if !slices.ContainsFunc(s.Links, byID(id)) {
			return
		}

		s.Links = slices.DeleteFunc(slices.Clone(s.Links), byID(id))
	})

	event := &activity.LinkDeletedEvent{
		ID:         int64(id),
		UserID:     string(userID),
		OccurredAt: m.now(),
	}
	if err := m.publish.LinkDeleted(ctx, event); err != nil {
		m.logger.Error("failed to publish link deleted event", zap.Int64("id", int64(id)), zap.Error(err))
	}

	return nil
}

// Find returns the loaded link with the given short code.
func (m *Manager) Find(code links.Code) (links.ShortLink, bool) {
	for _, link := range m.store.Get().Links {
		if link.ShortCode == code {
			return link, true
		}
	}

	return links.ShortLink{}, false
}

// dedupe keeps the first entry for each id, preserving backend order.
func (m *Manager) dedupe(in []links.ShortLink) []links.ShortLink {
	seen := make(map[links.ID]struct{}, len(in))
	out := make([]links.ShortLink, 0, len(in))

	for _, link := range in {
		if _, dup := seen[link.ID]; dup {
			m.logger.Warn("backend returned duplicate link id", zap.Int64("id", int64(link.ID)))

			continue
		}

		seen[link.ID] = struct{}{}
		out = append(out, link)
	}

	return out
}

func byID(id links.ID) func(links.ShortLink) bool {
	return func(link links.ShortLink) bool {
		return link.ID == id
	}
}
