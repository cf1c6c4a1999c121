package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func testStore(start time.Time) (*MemoryStore, *time.Time) {
	now := start
	s := NewMemoryStore()
	s.now = func() time.Time { return now }
	return s, &now
}

func TestCheck_FixedWindowBudget(t *testing.T) {
	s, _ := testStore(time.Now())
	l := New(s)
	rule := Rule{Name: "default", MaxRequests: 5, Window: time.Minute}

	for i := 1; i <= 5; i++ {
		res, err := l.Check(context.Background(), "user:1", rule)
		if err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
		if !res.Allowed {
			t.Fatalf("call %d should be allowed", i)
		}
		if res.Remaining != 5-i {
			t.Fatalf("call %d: remaining = %d, want %d", i, res.Remaining, 5-i)
		}
	}

	res, err := l.Check(context.Background(), "user:1", rule)
	if err != nil {
		t.Fatal(err)
	}
	if res.Allowed {
		t.Fatal("6th call should be rejected")
	}
	if res.Remaining != 0 {
		t.Fatalf("rejected call: remaining = %d, want 0", res.Remaining)
	}
}

func TestCheck_WindowReset(t *testing.T) {
	start := time.Now()
	s, now := testStore(start)
	l := New(s)
	rule := Rule{Name: "default", MaxRequests: 3, Window: time.Minute}

	for i := 0; i < 4; i++ {
		if _, err := l.Check(context.Background(), "user:42", rule); err != nil {
			t.Fatal(err)
		}
	}

	*now = start.Add(time.Minute + time.Second)

	res, err := l.Check(context.Background(), "user:42", rule)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Allowed {
		t.Fatal("call after window elapsed should open a fresh window")
	}
	if res.Remaining != 2 {
		t.Fatalf("fresh window remaining = %d, want 2", res.Remaining)
	}
	if got, want := res.ResetAt, now.Add(time.Minute); !got.Equal(want) {
		t.Fatalf("fresh window resetAt = %v, want %v", got, want)
	}
}

func TestCheck_DistinctRulesDoNotShareWindows(t *testing.T) {
	s, _ := testStore(time.Now())
	l := New(s)

	strict := Rule{Name: "generate", MaxRequests: 1, Window: time.Minute}
	loose := Rule{Name: "default", MaxRequests: 10, Window: time.Minute}

	if res, _ := l.Check(context.Background(), "user:1", strict); !res.Allowed {
		t.Fatal("first strict call should pass")
	}
	if res, _ := l.Check(context.Background(), "user:1", strict); res.Allowed {
		t.Fatal("second strict call should be rejected")
	}
	if res, _ := l.Check(context.Background(), "user:1", loose); !res.Allowed {
		t.Fatal("default budget must be unaffected by the generate budget")
	}
}

func TestIncr_ConcurrentCallsNeverOvershoot(t *testing.T) {
	s := NewMemoryStore()
	l := New(s)
	rule := Rule{Name: "default", MaxRequests: 5, Window: time.Minute}

	const callers = 50
	var wg sync.WaitGroup
	allowed := make(chan struct{}, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := l.Check(context.Background(), "user:1", rule)
			if err != nil {
				t.Error(err)
				return
			}
			if res.Allowed {
				allowed <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(allowed)

	n := 0
	for range allowed {
		n++
	}
	if n != rule.MaxRequests {
		t.Fatalf("admitted %d concurrent calls, want exactly %d", n, rule.MaxRequests)
	}
}

func TestStartSweeper_ReturnsImmediately(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.StartSweeper(ctx, 5*time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("StartSweeper blocked its caller instead of returning")
	}

	// The sweeping itself keeps running in the background.
	if _, _, err := s.Incr(context.Background(), "a", 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	deadline := time.After(time.Second)
	for s.Len() != 0 {
		select {
		case <-deadline:
			t.Fatalf("expired window never swept, live windows = %d", s.Len())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSweep_DropsExpiredWindowsOnly(t *testing.T) {
	start := time.Now()
	s, now := testStore(start)

	if _, _, err := s.Incr(context.Background(), "a", time.Second); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Incr(context.Background(), "b", time.Hour); err != nil {
		t.Fatal(err)
	}

	*now = start.Add(2 * time.Second)
	if err := s.Sweep(context.Background()); err != nil {
		t.Fatal(err)
	}

	if s.Len() != 1 {
		t.Fatalf("live windows = %d, want 1", s.Len())
	}

	// The surviving window keeps its count.
	count, _, err := s.Incr(context.Background(), "b", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("count after sweep = %d, want 2", count)
	}
}
