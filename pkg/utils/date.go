package utils

import (
	"fmt"
	"time"
)

// ParseDate valida uma data YYYY-MM-DD. Vazio retorna fallback.
func ParseDate(dateStr, fallback string) (string, error) {
	if dateStr == "" {
		return fallback, nil
	}

	if _, err := time.Parse(time.DateOnly, dateStr); err != nil {
		return "", fmt.Errorf("data inválida %q, formato esperado YYYY-MM-DD", dateStr)
	}

	return dateStr, nil
}

// DaysBack retorna a data n-1 dias antes de now, para janelas de n dias terminando em now
func DaysBack(now time.Time, n int) string {
	if n < 1 {
		n = 1
	}
	return now.AddDate(0, 0, -(n - 1)).Format(time.DateOnly)
}
