// Package pageviews holds the state of each student dashboard page load.
//
// A page view is opened when the dashboard shell is rendered and lives until
// the browser closes it or it sits idle past the sweep threshold. It owns a
// cancellable context that bounds the dashboard fetch, the fetched bundle and
// the list of notifications the user has not dismissed yet. A reload opens a
// new page view, so dismissed notifications come back.
package pageviews

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dalemusser/studentdash/internal/domain/models"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned for an unknown or already swept page view.
	ErrNotFound = errors.New("pageviews: not found")
	// ErrClosed is returned when the page view was closed by the browser.
	ErrClosed = errors.New("pageviews: closed")
)

// Status is the load state of a page view.
type Status int

const (
	Loading Status = iota
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only copy of a page view.
type Snapshot struct {
	ID        string
	UserID    string
	StudentID string
	Status    Status
	// Data is nil unless Status is Loaded. It is never modified after Complete.
	Data *models.StudentDashboard
	// Notifications is the current dismissible list.
	Notifications []models.Notification
	OpenedAt      time.Time
}

type view struct {
	snap     Snapshot
	ctx      context.Context
	cancel   context.CancelFunc
	closed   bool
	lastSeen time.Time
}

// Store keeps page views in memory. It is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	views map[string]*view
	now   func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{views: make(map[string]*view), now: time.Now}
}

// SetClock replaces the time source. Tests use it to drive Sweep.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Open starts a new page view in the Loading state.
func (s *Store) Open(userID, studentID string) Snapshot {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	v := &view{
		snap: Snapshot{
			ID:        uuid.NewString(),
			UserID:    userID,
			StudentID: studentID,
			Status:    Loading,
			OpenedAt:  now,
		},
		ctx:      ctx,
		cancel:   cancel,
		lastSeen: now,
	}
	s.views[v.snap.ID] = v
	return v.snap.copy()
}

// Get returns the page view and marks it as recently used.
func (s *Store) Get(id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	v.lastSeen = s.now()
	return v.snap.copy(), nil
}

// Context returns the page view's lifetime context. It is cancelled by Close
// and by Sweep.
func (s *Store) Context(id string) (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return v.ctx, nil
}

// Complete stores the fetched bundle and seeds the notification list from it.
// Only a Loading page view changes; otherwise the current state is returned.
func (s *Store) Complete(id string, data models.StudentDashboard) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	if v.snap.Status == Loading {
		d := data
		v.snap.Data = &d
		v.snap.Notifications = append([]models.Notification(nil), data.Notifications...)
		v.snap.Status = Loaded
	}
	v.lastSeen = s.now()
	return v.snap.copy(), nil
}

// Fail marks a Loading page view as Failed. Data stays nil.
func (s *Store) Fail(id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	if v.snap.Status == Loading {
		v.snap.Status = Failed
	}
	v.lastSeen = s.now()
	return v.snap.copy(), nil
}

// Dismiss removes the notification with the given ID from the page view's
// list. Unknown IDs are a no-op. The stored bundle is not touched.
func (s *Store) Dismiss(id, notificationID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	kept := make([]models.Notification, 0, len(v.snap.Notifications))
	for _, n := range v.snap.Notifications {
		if n.ID != notificationID {
			kept = append(kept, n)
		}
	}
	v.snap.Notifications = kept
	v.lastSeen = s.now()
	return v.snap.copy(), nil
}

// Close cancels the page view's context. Later calls for this page view
// return ErrClosed until Sweep removes it.
func (s *Store) Close(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.views[id]
	if !ok {
		return ErrNotFound
	}
	if !v.closed {
		v.closed = true
		v.cancel()
	}
	return nil
}

// Sweep removes closed page views and those idle longer than idle, cancelling
// their contexts. It returns how many were removed.
func (s *Store) Sweep(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	n := 0
	for id, v := range s.views {
		if v.closed || v.lastSeen.Before(cutoff) {
			v.cancel()
			delete(s.views, id)
			n++
		}
	}
	return n
}

// Len reports how many page views are held, closed ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

func (s *Store) lookup(id string) (*view, error) {
	v, ok := s.views[id]
	if !ok {
		return nil, ErrNotFound
	}
	if v.closed {
		return nil, ErrClosed
	}
	return v, nil
}

func (snap Snapshot) copy() Snapshot {
	out := snap
	if snap.Notifications != nil {
		out.Notifications = append([]models.Notification(nil), snap.Notifications...)
	}
	return out
}
