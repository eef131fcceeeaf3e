package retry

import (
	"context"
	"time"
)

// Poller repeats a probe with a fixed interval and no attempt limit.
//
// After a failed probe it sleeps Interval and tries again. After the first
// successful probe it sleeps Settle once and returns, giving a service that
// just became reachable a moment before it is used.
type Poller struct {
	Interval time.Duration
	Settle   time.Duration

	// Sleep defaults to the timer-based Sleep.
	Sleep Sleeper

	// OnFailure, if set, is called after every failed attempt.
	OnFailure func(attempt int, err error)
}

// Until runs probe until it returns nil. It returns the number of attempts
// made. The only error it returns is the context error when ctx is done.
func (p Poller) Until(ctx context.Context, probe func(ctx context.Context) error) (int, error) {
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		err := probe(ctx)
		if err == nil {
			return attempt, sleep(ctx, p.Settle)
		}

		if p.OnFailure != nil {
			p.OnFailure(attempt, err)
		}
		if err := sleep(ctx, p.Interval); err != nil {
			return attempt, err
		}
	}
}
