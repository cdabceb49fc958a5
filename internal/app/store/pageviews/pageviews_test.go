package pageviews_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/studentdash/internal/app/store/pageviews"
	"github.com/dalemusser/studentdash/internal/domain/models"
)

func bundle(notificationIDs ...string) models.StudentDashboard {
	d := models.StudentDashboard{Student: models.StudentProfile{ID: "s1", Name: "Sam"}}
	for _, id := range notificationIDs {
		d.Notifications = append(d.Notifications, models.Notification{ID: id, Title: "T" + id, Message: "M" + id})
	}
	return d
}

func ids(ns []models.Notification) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestOpen_StartsLoading(t *testing.T) {
	s := pageviews.New()
	snap := s.Open("u1", "s1")

	if snap.ID == "" {
		t.Fatal("expected a page view ID")
	}
	if snap.Status != pageviews.Loading {
		t.Errorf("status: got %v, want loading", snap.Status)
	}
	if snap.Data != nil {
		t.Error("expected no data while loading")
	}
	if s.Len() != 1 {
		t.Errorf("Len: got %d, want 1", s.Len())
	}

	other := s.Open("u1", "s1")
	if other.ID == snap.ID {
		t.Error("two opens returned the same ID")
	}
}

func TestGet_Unknown(t *testing.T) {
	s := pageviews.New()
	if _, err := s.Get("nope"); !errors.Is(err, pageviews.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestComplete_SeedsNotifications(t *testing.T) {
	s := pageviews.New()
	id := s.Open("u1", "s1").ID

	snap, err := s.Complete(id, bundle("n1", "n2"))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if snap.Status != pageviews.Loaded {
		t.Errorf("status: got %v, want loaded", snap.Status)
	}
	if snap.Data == nil || snap.Data.Student.ID != "s1" {
		t.Fatalf("data not stored: %+v", snap.Data)
	}
	if got := ids(snap.Notifications); !equal(got, []string{"n1", "n2"}) {
		t.Errorf("notifications: got %v", got)
	}
}

func TestComplete_OneWay(t *testing.T) {
	s := pageviews.New()
	id := s.Open("u1", "s1").ID

	if _, err := s.Fail(id); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	snap, err := s.Complete(id, bundle("n1"))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if snap.Status != pageviews.Failed || snap.Data != nil {
		t.Errorf("failed page view changed after Complete: %+v", snap)
	}

	id2 := s.Open("u1", "s1").ID
	s.Complete(id2, bundle("n1"))
	snap, _ = s.Complete(id2, bundle("x", "y"))
	if got := ids(snap.Notifications); !equal(got, []string{"n1"}) {
		t.Errorf("second Complete replaced notifications: %v", got)
	}
}

func TestFail_LeavesDataUnset(t *testing.T) {
	s := pageviews.New()
	id := s.Open("u1", "s1").ID

	snap, err := s.Fail(id)
	if err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if snap.Status != pageviews.Failed {
		t.Errorf("status: got %v, want failed", snap.Status)
	}
	if snap.Data != nil {
		t.Error("expected nil data after failure")
	}
}

func TestDismiss(t *testing.T) {
	tests := []struct {
		name    string
		start   []string
		dismiss []string
		want    []string
	}{
		{"one of two", []string{"n1", "n2"}, []string{"n1"}, []string{"n2"}},
		{"middle keeps order", []string{"a", "b", "c"}, []string{"b"}, []string{"a", "c"}},
		{"unknown is no-op", []string{"a", "b"}, []string{"zzz"}, []string{"a", "b"}},
		{"twice", []string{"a", "b"}, []string{"a", "a"}, []string{"b"}},
		{"all", []string{"a", "b"}, []string{"a", "b"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := pageviews.New()
			id := s.Open("u1", "s1").ID
			s.Complete(id, bundle(tt.start...))

			var snap pageviews.Snapshot
			var err error
			for _, nid := range tt.dismiss {
				snap, err = s.Dismiss(id, nid)
				if err != nil {
					t.Fatalf("Dismiss(%q): %v", nid, err)
				}
			}
			if got := ids(snap.Notifications); !equal(got, tt.want) {
				t.Errorf("notifications: got %v, want %v", got, tt.want)
			}
			if len(snap.Data.Notifications) != len(tt.start) {
				t.Errorf("bundle modified: has %d notifications, want %d",
					len(snap.Data.Notifications), len(tt.start))
			}
		})
	}
}

func TestDismiss_PreservesContent(t *testing.T) {
	s := pageviews.New()
	id := s.Open("u1", "s1").ID
	s.Complete(id, bundle("n1", "n2", "n3"))

	snap, _ := s.Dismiss(id, "n2")
	for _, n := range snap.Notifications {
		if n.Title != "T"+n.ID || n.Message != "M"+n.ID {
			t.Errorf("notification %s changed: %+v", n.ID, n)
		}
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := pageviews.New()
	id := s.Open("u1", "s1").ID
	snap, _ := s.Complete(id, bundle("n1", "n2"))

	snap.Notifications[0].ID = "mutated"

	again, _ := s.Get(id)
	if again.Notifications[0].ID != "n1" {
		t.Error("mutating a snapshot changed the store")
	}
}

func TestClose_CancelsAndDiscardsCompletion(t *testing.T) {
	s := pageviews.New()
	id := s.Open("u1", "s1").ID
	ctx, err := s.Context(id)
	if err != nil {
		t.Fatalf("Context: %v", err)
	}

	if err := s.Close(id); err != nil {
		t.Fatalf("Close: %v", err)
	}

	select {
	case <-ctx.Done():
	default:
		t.Fatal("context not cancelled by Close")
	}

	if _, err := s.Complete(id, bundle("n1")); !errors.Is(err, pageviews.ErrClosed) {
		t.Errorf("Complete after close: got %v, want ErrClosed", err)
	}
	if _, err := s.Get(id); !errors.Is(err, pageviews.ErrClosed) {
		t.Errorf("Get after close: got %v, want ErrClosed", err)
	}
	if err := s.Close(id); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := s.Close("nope"); !errors.Is(err, pageviews.ErrNotFound) {
		t.Errorf("Close unknown: got %v, want ErrNotFound", err)
	}
}

func TestSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := pageviews.New()
	s.SetClock(func() time.Time { return now })

	idle := s.Open("u1", "s1").ID
	idleCtx, _ := s.Context(idle)
	closed := s.Open("u1", "s1").ID
	s.Close(closed)

	now = now.Add(20 * time.Minute)
	fresh := s.Open("u2", "s2").ID

	if n := s.Sweep(10 * time.Minute); n != 2 {
		t.Errorf("Sweep removed %d, want 2", n)
	}
	if s.Len() != 1 {
		t.Errorf("Len after sweep: got %d, want 1", s.Len())
	}
	if _, err := s.Get(fresh); err != nil {
		t.Errorf("fresh page view swept: %v", err)
	}
	if _, err := s.Get(idle); !errors.Is(err, pageviews.ErrNotFound) {
		t.Errorf("idle page view: got %v, want ErrNotFound", err)
	}
	if idleCtx.Err() == nil {
		t.Error("idle page view context not cancelled")
	}
}

func TestGet_KeepsPageViewAlive(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := pageviews.New()
	s.SetClock(func() time.Time { return now })

	id := s.Open("u1", "s1").ID
	now = now.Add(8 * time.Minute)
	s.Get(id)
	now = now.Add(8 * time.Minute)

	if n := s.Sweep(10 * time.Minute); n != 0 {
		t.Errorf("Sweep removed %d recently used page views", n)
	}
}

func TestConcurrentDismiss(t *testing.T) {
	s := pageviews.New()
	id := s.Open("u1", "s1").ID
	all := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	s.Complete(id, bundle(all...))

	var wg sync.WaitGroup
	for _, nid := range all[:4] {
		wg.Add(1)
		go func(nid string) {
			defer wg.Done()
			s.Dismiss(id, nid)
		}(nid)
	}
	wg.Wait()

	snap, _ := s.Get(id)
	if got := ids(snap.Notifications); !equal(got, all[4:]) {
		t.Errorf("notifications: got %v, want %v", got, all[4:])
	}
}

func TestStatusString(t *testing.T) {
	tests := map[pageviews.Status]string{
		pageviews.Loading:    "loading",
		pageviews.Loaded:     "loaded",
		pageviews.Failed:     "failed",
		pageviews.Status(42): "unknown",
	}
	for st, want := range tests {
		if got := st.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", int(st), got, want)
		}
	}
}
