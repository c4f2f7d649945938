// Package retry provides a simple retry mechanism
package retry

import (
	"time"
)

type attempt struct {
	attempts int
	period   time.Duration
}

// Attempts sets the number of retry attempts
func Attempts(attempts int) *attempt {
	return &attempt{
		attempts: attempts,
	}
}

// Period sets the period of each retry attempt
func (r *attempt) Period(period time.Duration) *attempt {
	r.period = period
	return r
}

// Do run the retry function
func (r *attempt) Do(do func() error) error {
	var err error
	for i := 0; i < r.attempts; i++ {
		if err = do(); err == nil {
			return nil
		}

		time.Sleep(r.period)
	}

	return err
}
