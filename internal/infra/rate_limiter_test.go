package infra

import (
	"testing"
	"time"
)

func TestRateLimiterBurst(t *testing.T) {
	rl := NewRateLimiter(3, 1)

	for i := 0; i < 3; i++ {
		if !rl.TryAcquire() {
			t.Fatalf("acquire %d within burst should succeed", i)
		}
	}
	if rl.TryAcquire() {
		t.Error("acquire past burst should fail")
	}
}

func TestRateLimiterRefills(t *testing.T) {
	rl := NewRateLimiter(1, 50) // 50 tokens/sec -> ~20ms per token

	if !rl.TryAcquire() {
		t.Fatal("first acquire should succeed")
	}
	if rl.TryAcquire() {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(50 * time.Millisecond)
	if !rl.TryAcquire() {
		t.Error("bucket should have refilled")
	}
}

func TestRateLimiterWaitBlocks(t *testing.T) {
	rl := NewRateLimiter(1, 20)
	rl.Wait() // consumes the burst token

	start := time.Now()
	rl.Wait()
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Wait returned after %v, expected to block for a token", elapsed)
	}
}
