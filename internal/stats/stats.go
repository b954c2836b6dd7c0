// Package stats tracks process-wide request and sink counters exposed at
// /stats.
package stats

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// Counters holds monotonically increasing counts mutated by both the poller
// and the query handlers. Created once at startup and never reset.
type Counters struct {
	mu         sync.Mutex
	gets       int64
	errors     int64
	uri        map[string]int64
	sinkWrites int64
	sinkErrors int64
	start      int64
	clear      int64
}

func New() *Counters {
	now := time.Now().Unix()
	return &Counters{
		uri:   make(map[string]int64),
		start: now,
		clear: now,
	}
}

// RecordRequest counts one request against the total and against the exact
// request path. Every distinct path ever requested stays in the map,
// including invalid ones.
func (c *Counters) RecordRequest(path string) {
	c.mu.Lock()
	c.gets++
	c.uri[path]++
	c.mu.Unlock()
}

// RecordError counts one error response or failed poll stage.
func (c *Counters) RecordError() {
	c.mu.Lock()
	c.errors++
	c.mu.Unlock()
}

// RecordSinkWrite counts one sink write outcome.
func (c *Counters) RecordSinkWrite(ok bool) {
	c.mu.Lock()
	if ok {
		c.sinkWrites++
	} else {
		c.sinkErrors++
	}
	c.mu.Unlock()
}

// Gets returns the total request count.
func (c *Counters) Gets() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gets
}

// Errors returns the total error count.
func (c *Counters) Errors() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors
}

// SinkErrors returns the failed sink write count.
func (c *Counters) SinkErrors() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sinkErrors
}

// PathCount returns how often the exact path has been requested.
func (c *Counters) PathCount(path string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uri[path]
}

// Snapshot returns the /stats payload: all counters, the fixed timestamps,
// the current timestamp and the process resident memory in bytes.
func (c *Counters) Snapshot(build string) map[string]any {
	c.mu.Lock()
	uri := make(map[string]int64, len(c.uri))
	for p, n := range c.uri {
		uri[p] = n
	}
	snap := map[string]any{
		"localweather":   build,
		"gets":           c.gets,
		"errors":         c.errors,
		"uri":            uri,
		"influxdb":       c.sinkWrites,
		"influxdberrors": c.sinkErrors,
		"start":          c.start,
		"clear":          c.clear,
	}
	c.mu.Unlock()

	snap["ts"] = time.Now().Unix()
	snap["mem"] = residentMemory()
	return snap
}

func residentMemory() uint64 {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		slog.Debug("stats: process lookup failed", "error", err)
		return 0
	}
	info, err := proc.MemoryInfo()
	if err != nil {
		slog.Debug("stats: memory info failed", "error", err)
		return 0
	}
	return info.RSS
}
