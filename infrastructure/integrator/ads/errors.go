package ads

import (
	"fmt"
	"time"
)

// DefaultRetryAfter é usado quando a API sinaliza limite sem informar o atraso
const DefaultRetryAfter = 30 * time.Second

// RateLimitError é retornado quando a API pede para aguardar antes de novas chamadas.
// O texto carrega "Retry in N seconds", que o classificador do worker interpreta.
type RateLimitError struct {
	Delay   time.Duration
	Message string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("limite de requisições da API de anúncios (%s): Retry in %d seconds",
		e.Message, int(e.Delay.Seconds()))
}

func (e *RateLimitError) RetryAfter() time.Duration {
	return e.Delay
}

type quotaError struct {
	msg string
}

func (e *quotaError) Error() string { return e.msg }

func (e *quotaError) QuotaExhausted() bool { return true }

// ErrQuotaExhausted indica que a cota diária da API foi consumida
var ErrQuotaExhausted error = &quotaError{msg: "cota da API de anúncios esgotada"}
