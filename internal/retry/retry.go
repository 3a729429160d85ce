// Package retry provides a bounded retry helper with a fixed backoff delay.
package retry

import (
	"errors"
	"fmt"
	"time"
)

// sleep is swapped out in tests to avoid real delays.
var sleep = time.Sleep

// Do invokes fn up to attempts times, sleeping delay between failures.
// It stops early when fn succeeds or when shouldRetry rejects the error.
// A nil shouldRetry retries every error.
func Do(attempts int, delay time.Duration, fn func() error, shouldRetry func(error) bool) error {
	if attempts < 1 {
		return fmt.Errorf("retry: attempts must be >= 1, got %d", attempts)
	}
	var last error
	for i := 0; i < attempts; i++ {
		last = fn()
		if last == nil {
			return nil
		}
		if shouldRetry != nil && !shouldRetry(last) {
			return last
		}
		if i < attempts-1 {
			sleep(delay)
		}
	}
	return errors.Join(errAttemptsExhausted, last)
}

var errAttemptsExhausted = errors.New("retry: attempts exhausted")

// Exhausted reports whether err was returned after all attempts failed.
func Exhausted(err error) bool {
	return errors.Is(err, errAttemptsExhausted)
}
