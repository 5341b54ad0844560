package keylock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLockExcludesSameKey(t *testing.T) {
	l := New[int64]()
	var inside int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Lock(context.Background(), 7)
			if err != nil {
				t.Error(err)
				return
			}
			defer release()
			if n := atomic.AddInt32(&inside, 1); n != 1 {
				t.Errorf("inside=%d want 1", n)
			}
			time.Sleep(100 * time.Microsecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()
	if n := l.Len(); n != 0 {
		t.Fatalf("slots leaked: %d", n)
	}
}

func TestLockDoesNotBlockUnrelatedKeys(t *testing.T) {
	l := New[int64]()
	release, err := l.Lock(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	other, err := l.Lock(ctx, 2, 3)
	if err != nil {
		t.Fatalf("unrelated keys blocked: %v", err)
	}
	other()
}

func TestLockOppositeOrderNoDeadlock(t *testing.T) {
	l := New[int64]()
	var wg sync.WaitGroup
	done := make(chan struct{})
	for i := 0; i < 200; i++ {
		wg.Add(1)
		keys := []int64{1, 2}
		if i%2 == 1 {
			keys = []int64{2, 1}
		}
		go func() {
			defer wg.Done()
			release, err := l.Lock(context.Background(), keys...)
			if err != nil {
				t.Error(err)
				return
			}
			release()
		}()
	}
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("deadlock: lockers did not finish")
	}
}

func TestLockTimeoutReleasesPartialAcquisition(t *testing.T) {
	l := New[int64]()
	hold, err := l.Lock(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Lock(ctx, 1, 2); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err=%v want DeadlineExceeded", err)
	}

	// key 1 必須已被釋放
	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	release, err := l.Lock(ctx2, 1)
	if err != nil {
		t.Fatalf("key 1 still held after timeout: %v", err)
	}
	release()
	hold()
	if n := l.Len(); n != 0 {
		t.Fatalf("slots leaked: %d", n)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	l := New[string]()
	release, err := l.Lock(context.Background(), "a", "a", "b")
	if err != nil {
		t.Fatal(err)
	}
	release()
	release()
	if n := l.Len(); n != 0 {
		t.Fatalf("slots leaked: %d", n)
	}
}
