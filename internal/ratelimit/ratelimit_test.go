package ratelimit

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		every    time.Duration
		burst    int
		calls    int
		wantPass int
	}{
		{
			name:     "burst allows initial requests",
			every:    time.Second,
			burst:    3,
			calls:    3,
			wantPass: 3,
		},
		{
			name:     "exceeding burst blocks",
			every:    time.Second,
			burst:    2,
			calls:    5,
			wantPass: 2,
		},
		{
			name:     "login default",
			every:    6 * time.Second,
			burst:    10,
			calls:    11,
			wantPass: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.every, tt.burst)
			defer rl.Stop()

			passed := 0
			for range tt.calls {
				if rl.Allow("test") {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_CheckRetryAfter(t *testing.T) {
	rl := New(6*time.Second, 1)
	defer rl.Stop()

	if ok, wait := rl.Check("10.0.0.1"); !ok || wait != 0 {
		t.Fatalf("first Check() = %v, %v; want true, 0", ok, wait)
	}

	ok, wait := rl.Check("10.0.0.1")
	if ok {
		t.Fatal("second Check() should be refused")
	}
	if wait <= 5*time.Second || wait > 6*time.Second {
		t.Errorf("retry after %v, want ~6s", wait)
	}

	// A refused Check must not consume a token.
	ok, wait2 := rl.Check("10.0.0.1")
	if ok || wait2 > wait {
		t.Errorf("third Check() = %v, %v; want refused with wait <= %v", ok, wait2, wait)
	}
}

func TestKeyedRateLimiter_Wait(t *testing.T) {
	rl := New(100*time.Millisecond, 1)
	defer rl.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := rl.Wait(ctx, "test"); err != nil {
		t.Errorf("first Wait() failed: %v", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Error("first Wait() should be immediate")
	}

	start = time.Now()
	if err := rl.Wait(ctx, "test"); err != nil {
		t.Errorf("second Wait() failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond || elapsed > 250*time.Millisecond {
		t.Errorf("second Wait() took %v, want ~100ms", elapsed)
	}
}

func TestKeyedRateLimiter_WaitContextCancelled(t *testing.T) {
	rl := New(10*time.Second, 1)
	defer rl.Stop()

	rl.Allow("test")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx, "test"); err == nil {
		t.Error("Wait() should fail when context canceled")
	}
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	rl := New(time.Second, 1)
	defer rl.Stop()

	rl.Allow("key1")
	if rl.Allow("key1") {
		t.Error("key1 should be exhausted")
	}
	if !rl.Allow("key2") {
		t.Error("key2 should be independent and allowed")
	}
}

func TestKeyedRateLimiter_EvictsIdleKeys(t *testing.T) {
	rl := NewWithTTL(time.Second, 1, 40*time.Millisecond)
	defer rl.Stop()

	rl.Allow("a")
	rl.Allow("b")
	if rl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", rl.Len())
	}

	deadline := time.Now().Add(time.Second)
	for rl.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if rl.Len() != 0 {
		t.Errorf("idle keys not evicted, Len() = %d", rl.Len())
	}
}

func TestKeyedRateLimiter_StopTwice(t *testing.T) {
	rl := New(time.Second, 1)
	rl.Stop()
	rl.Stop()
}
