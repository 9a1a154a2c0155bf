package filelock

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-quicktest/qt"
)

func TestWithLockSerializesConcurrentCallers(t *testing.T) {
	dir := t.TempDir()

	var active int32
	var sawOverlap bool
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := WithLock(dir, func() error {
				n := atomic.AddInt32(&active, 1)
				if n > 1 {
					mu.Lock()
					sawOverlap = true
					mu.Unlock()
				}
				atomic.AddInt32(&active, -1)
				return nil
			})
			qt.Assert(t, qt.IsNil(err))
		}()
	}
	wg.Wait()

	qt.Assert(t, qt.IsFalse(sawOverlap))
}

func TestReleaseIsSafeOnNilGuard(t *testing.T) {
	var g *Guard
	g.Release()
}
