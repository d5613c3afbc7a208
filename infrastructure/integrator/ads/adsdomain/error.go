package adsdomain

import "strings"

// ErrorResponse representa a estrutura de erro da API de anúncios
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

type ErrorDetails struct {
	Code              int    `json:"code"`
	Status            string `json:"status"`
	Message           string `json:"message"`
	RetryDelaySeconds int    `json:"retry_delay_seconds,omitempty"`
}

// IsRateLimited indica limite de requisições por janela de tempo
func (e *ErrorResponse) IsRateLimited() bool {
	return e.Error.Status == "RATE_LIMITED" || e.Error.Code == 429
}

// IsQuotaExhausted indica cota diária de operações esgotada
func (e *ErrorResponse) IsQuotaExhausted() bool {
	return e.Error.Status == "RESOURCE_EXHAUSTED" ||
		strings.Contains(strings.ToLower(e.Error.Message), "quota")
}
