// Package poller runs the periodic full-refresh fallback that corrects for
// missed push events. Each resource gets its own job on a shared cron
// scheduler; a tick that finds the previous fetch still in flight skips
// rather than queuing.
package poller

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// FetchFunc performs one full refresh of a resource collection.
type FetchFunc func() error

type job struct {
	name    string
	fetch   FetchFunc
	running atomic.Bool
}

// Run executes one fetch unless the previous one is still pending. It is the
// single entry point for both scheduled ticks and activation refreshes, so
// the no-overlap rule holds across both.
func (j *job) Run() {
	if !j.running.CompareAndSwap(false, true) {
		log.Printf("Poll %s still in flight, skipping", j.name)
		return
	}
	defer j.running.Store(false)

	if err := j.fetch(); err != nil {
		log.Printf("Poll %s failed: %v", j.name, err)
	}
}

type Poller struct {
	c *cron.Cron

	mu      sync.Mutex
	jobs    map[string]*job
	entries map[string]cron.EntryID
	started bool
}

func New() *Poller {
	return &Poller{
		c:       cron.New(),
		jobs:    make(map[string]*job),
		entries: make(map[string]cron.EntryID),
	}
}

// Add registers a named refresh job at a fixed interval. Re-adding a name
// replaces its schedule.
func (p *Poller) Add(name string, interval time.Duration, fetch FetchFunc) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if id, ok := p.entries[name]; ok {
		p.c.Remove(id)
	}

	j := &job{name: name, fetch: fetch}
	id, err := p.c.AddJob(fmt.Sprintf("@every %s", interval), j)
	if err != nil {
		return err
	}

	p.jobs[name] = j
	p.entries[name] = id
	return nil
}

// Remove stops a job's schedule. An in-flight fetch finishes; its result is
// simply the last word for that collection.
func (p *Poller) Remove(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if id, ok := p.entries[name]; ok {
		p.c.Remove(id)
		delete(p.entries, name)
		delete(p.jobs, name)
	}
}

// Refresh runs a job immediately, off-schedule. Used when a view becomes
// active so it never shows a full interval of staleness. Unknown names are
// ignored.
func (p *Poller) Refresh(name string) {
	p.mu.Lock()
	j, ok := p.jobs[name]
	p.mu.Unlock()

	if ok {
		go j.Run()
	}
}

// RefreshNow is Refresh but synchronous, for callers that need the result
// merged before reading the store.
func (p *Poller) RefreshNow(name string) {
	p.mu.Lock()
	j, ok := p.jobs[name]
	p.mu.Unlock()

	if ok {
		j.Run()
	}
}

// Start begins ticking. Jobs may be added before or after.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		p.started = true
		p.c.Start()
	}
}

// Stop halts scheduling and waits for running jobs to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	started := p.started
	p.started = false
	p.mu.Unlock()

	if started {
		<-p.c.Stop().Done()
	}
}
