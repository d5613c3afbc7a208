package refresh

import (
	"fmt"
	"time"
)

// RetryError sinaliza ao consumidor que o job deve ser reentregue após Delay
type RetryError struct {
	JobID   string
	Class   ErrorClass
	Attempt int
	Delay   time.Duration
	Err     error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("job %s (%s, tentativa %d) será reenviado em %s: %v", e.JobID, e.Class, e.Attempt, e.Delay, e.Err)
}

func (e *RetryError) Unwrap() error {
	return e.Err
}
