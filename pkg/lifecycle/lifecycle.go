// Package lifecycle sequences startup and shutdown hooks and tracks whether
// the process is ready to take traffic.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

type namedCheck struct {
	name    string
	checker ReadinessChecker
}

// Coordinator runs lifecycle hooks and aggregates the readiness of
// registered subsystems.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup
	started    atomic.Bool

	checksMu sync.RWMutex
	checks   []namedCheck
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn concurrently; WaitForStartup blocks on it.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnShutdown runs fn concurrently. Hooks block on <-c.Context().Done()
// before cleaning up.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// Check registers a named subsystem whose readiness gates Ready.
func (c *Coordinator) Check(name string, rc ReadinessChecker) {
	c.checksMu.Lock()
	defer c.checksMu.Unlock()
	c.checks = append(c.checks, namedCheck{name: name, checker: rc})
}

// Pending returns the registered subsystems that are not ready, in
// registration order. "startup" leads the list until WaitForStartup returns.
func (c *Coordinator) Pending() []string {
	var pending []string
	if !c.started.Load() {
		pending = append(pending, "startup")
	}

	c.checksMu.RLock()
	defer c.checksMu.RUnlock()
	for _, nc := range c.checks {
		if !nc.checker.Ready() {
			pending = append(pending, nc.name)
		}
	}
	return pending
}

// Ready reports whether startup finished and every registered check passes.
func (c *Coordinator) Ready() bool {
	return len(c.Pending()) == 0
}

// WaitForStartup blocks until all startup hooks have returned.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.started.Store(true)
}

// Shutdown cancels the context and waits up to timeout for shutdown hooks.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
