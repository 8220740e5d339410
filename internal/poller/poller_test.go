package poller

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRefreshNowRunsFetch(t *testing.T) {
	p := New()
	var calls atomic.Int32

	if err := p.Add("reports", time.Minute, func() error {
		calls.Add(1)
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	p.RefreshNow("reports")
	p.RefreshNow("reports")

	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 fetches, got %d", got)
	}
}

func TestRefreshSkipsWhileInFlight(t *testing.T) {
	p := New()

	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32

	if err := p.Add("resources", time.Minute, func() error {
		calls.Add(1)
		close(started)
		<-release
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.RefreshNow("resources")
	}()

	<-started
	// Second refresh overlaps the first and must be dropped, not queued.
	p.RefreshNow("resources")
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("overlapping refresh must be skipped, got %d fetches", got)
	}
}

func TestRefreshUnknownNameIsIgnored(t *testing.T) {
	p := New()
	p.Refresh("nope")
	p.RefreshNow("nope")
}

func TestRemoveStopsJob(t *testing.T) {
	p := New()
	var calls atomic.Int32

	if err := p.Add("reports", time.Minute, func() error {
		calls.Add(1)
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	p.Remove("reports")
	p.RefreshNow("reports")

	if got := calls.Load(); got != 0 {
		t.Errorf("removed job must not run, got %d fetches", got)
	}
}

func TestAddReplacesSchedule(t *testing.T) {
	p := New()
	var first, second atomic.Int32

	if err := p.Add("reports", time.Minute, func() error {
		first.Add(1)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if err := p.Add("reports", time.Minute, func() error {
		second.Add(1)
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	p.RefreshNow("reports")

	if first.Load() != 0 || second.Load() != 1 {
		t.Errorf("re-adding a name must replace the job: first=%d second=%d", first.Load(), second.Load())
	}
}

func TestScheduledTick(t *testing.T) {
	p := New()

	done := make(chan struct{})
	var once sync.Once

	if err := p.Add("fast", time.Second, func() error {
		once.Do(func() { close(done) })
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	p.Start()
	defer p.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled fetch never ran")
	}
}
