package refresh

import (
	"math"
	"time"
)

const (
	MaxBackoff     = 10 * time.Minute
	QuotaBaseDelay = 5 * time.Minute
	jitterFraction = 0.25
)

// ComputeBackoff retorna min(base·2^(attempt−1), MaxBackoff), sem jitter
func ComputeBackoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if base <= 0 {
		return 0
	}

	backoff := float64(base) * math.Pow(2, float64(attempt-1))
	if backoff >= float64(MaxBackoff) {
		return MaxBackoff
	}
	return time.Duration(backoff)
}

// Jitter soma backoff·0.25·(2r−1) ao backoff, com r em [0, 1)
func Jitter(backoff time.Duration, r float64) time.Duration {
	return backoff + time.Duration(float64(backoff)*jitterFraction*(2*r-1))
}
