package refresh

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrorClass é a classificação fechada das falhas de um job
type ErrorClass string

const (
	ErrorClassRateLimited    ErrorClass = "rate_limited"
	ErrorClassQuotaExhausted ErrorClass = "quota_exhausted"
	ErrorClassOther          ErrorClass = "other"
)

var retryInPattern = regexp.MustCompile(`(?i)retry in (\d+) seconds?`)

// atraso usado quando o rate limit chega sem um valor positivo
const defaultRetryAfter = 30 * time.Second

// Classification é o resultado de Classify. RetryAfter só é preenchido para rate limit.
type Classification struct {
	Class      ErrorClass
	RetryAfter time.Duration
}

type retryAfterError interface {
	RetryAfter() time.Duration
}

type quotaExhaustedError interface {
	QuotaExhausted() bool
}

// Classify identifica os dois sinais transitórios conhecidos; qualquer outra
// falha é classificada como other
func Classify(err error) Classification {
	if err == nil {
		return Classification{Class: ErrorClassOther}
	}

	var quotaErr quotaExhaustedError
	if errors.As(err, &quotaErr) && quotaErr.QuotaExhausted() {
		return Classification{Class: ErrorClassQuotaExhausted}
	}

	var rateErr retryAfterError
	if errors.As(err, &rateErr) {
		return rateLimited(rateErr.RetryAfter())
	}

	text := err.Error()
	if match := retryInPattern.FindStringSubmatch(text); match != nil {
		seconds, convErr := strconv.Atoi(match[1])
		if convErr == nil {
			return rateLimited(time.Duration(seconds) * time.Second)
		}
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "quota exhausted") || strings.Contains(lower, "resource_exhausted") {
		return Classification{Class: ErrorClassQuotaExhausted}
	}

	return Classification{Class: ErrorClassOther}
}

func rateLimited(retryAfter time.Duration) Classification {
	if retryAfter <= 0 {
		retryAfter = defaultRetryAfter
	}
	return Classification{Class: ErrorClassRateLimited, RetryAfter: retryAfter}
}
