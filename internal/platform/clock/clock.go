package clock

import (
	"sync"
	"time"
)

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports local wall time; calendar days are taken in the local zone.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Scheduler runs fn every interval until the returned cancel func is called.
// Cancel must be safe to call more than once and from inside fn.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (cancel func())
}

type TickerScheduler struct{}

func (TickerScheduler) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}
