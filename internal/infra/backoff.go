package infra

import (
	"time"
)

const (
	backoffBase = 1 * time.Second
	backoffMax  = 60 * time.Second
)

// CalculateBackoff returns the exponential backoff delay for a retry
// count: base * 2^retry, capped at backoffMax. Negative counts get the
// base delay.
func CalculateBackoff(retry int) time.Duration {
	if retry < 0 {
		return backoffBase
	}
	// 2^30 seconds is already far past the cap; avoid shift overflow.
	if retry > 30 {
		return backoffMax
	}

	d := backoffBase << uint(retry)
	if d > backoffMax {
		return backoffMax
	}
	return d
}
