package etherman

import (
	"context"
	"time"

	"github.com/Peersyst/blockscout/log"
)

// Retry invokes fn until it succeeds, pausing interval between tries, for at
// most attempts tries. Every failure is logged with the what context; the
// last error is returned once the attempts are exhausted or ctx is cancelled
// mid pause.
func Retry(ctx context.Context, what string, attempts int, interval time.Duration, fn func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		log.Warnf("%s failed (attempt %d/%d): %v", what, attempt, attempts, err)
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return err
}

// RetryForever invokes fn until it succeeds, pausing interval between tries.
// It returns only on success or when ctx is cancelled, so the node is assumed
// to eventually recover.
func RetryForever(ctx context.Context, what string, interval time.Duration, fn func() error) error {
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		log.Warnf("%s failed (attempt %d): %v", what, attempt, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
