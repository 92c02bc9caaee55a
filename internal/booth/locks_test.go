package booth

import (
	"sync"
	"testing"
)

func TestSessionLocks(t *testing.T) {
	l := newSessionLocks()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		counter int
		held    int
		maxHeld int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.lock("s1")
			defer unlock()

			mu.Lock()
			held++
			if held > maxHeld {
				maxHeld = held
			}
			counter++
			mu.Unlock()

			mu.Lock()
			held--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxHeld != 1 {
		t.Errorf("lock held by %d goroutines at once", maxHeld)
	}
	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
	if len(l.locks) != 0 {
		t.Errorf("%d lock entries leaked", len(l.locks))
	}
}

func TestSessionLocks_IndependentIDs(t *testing.T) {
	l := newSessionLocks()

	unlockA := l.lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := l.lock("b")
		unlockB()
		close(done)
	}()
	<-done
	unlockA()
}
