package infra

import (
	"testing"
	"time"
)

func TestBreakerOpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker("test")

	for i := 0; i < 5; i++ {
		if !cb.Allow() {
			t.Fatalf("request %d should be allowed while closed", i)
		}
		cb.RecordFailure()
	}

	if cb.State() != BreakerOpen {
		t.Fatalf("state = %v, want OPEN", cb.State())
	}
	if cb.Allow() {
		t.Error("open breaker must reject requests")
	}
}

func TestBreakerRecovers(t *testing.T) {
	cb := NewCircuitBreaker("test")
	cb.cooldown = 10 * time.Millisecond

	for i := 0; i < 5; i++ {
		cb.RecordFailure()
	}
	if cb.State() != BreakerOpen {
		t.Fatal("breaker should be open")
	}

	time.Sleep(20 * time.Millisecond)
	if !cb.Allow() {
		t.Fatal("probe should be allowed after cooldown")
	}
	if cb.State() != BreakerHalfOpen {
		t.Fatalf("state = %v, want HALF_OPEN", cb.State())
	}

	cb.RecordSuccess()
	cb.RecordSuccess()
	if cb.State() != BreakerClosed {
		t.Errorf("state = %v, want CLOSED after success threshold", cb.State())
	}
}

func TestBreakerReopensOnProbeFailure(t *testing.T) {
	cb := NewCircuitBreaker("test")
	cb.cooldown = 10 * time.Millisecond

	for i := 0; i < 5; i++ {
		cb.RecordFailure()
	}
	time.Sleep(20 * time.Millisecond)
	cb.Allow() // transition to half-open
	cb.RecordFailure()

	if cb.State() != BreakerOpen {
		t.Errorf("state = %v, want OPEN after failed probe", cb.State())
	}
}
