// Package testkit holds helpers shared by tests across packages
package testkit

import (
	"sync"
	"testing"
	"time"
)

// Eventually polls cond until it holds or timeout passes
func Eventually(t testing.TB, timeout time.Duration, cond func() bool, what string) {
	t.Helper()
	tick := time.NewTicker(5 * time.Millisecond)
	defer tick.Stop()
	deadline := time.After(timeout)
	for !cond() {
		select {
		case <-tick.C:
		case <-deadline:
			t.Fatalf("timed out after %s waiting for %s", timeout, what)
		}
	}
}

// Swap replaces *target for the rest of the test. Pair it with Serial, since
// the target is usually a package var other tests read
func Swap[T any](t testing.TB, target *T, with T) {
	t.Helper()
	prev := *target
	*target = with
	t.Cleanup(func() { *target = prev })
}

var serial sync.Mutex

// Serial holds a process wide lock until the test ends
func Serial(t testing.TB) {
	t.Helper()
	serial.Lock()
	t.Cleanup(serial.Unlock)
}
