package client

import (
	"context"
	"errors"
	"time"
)

const (
	defaultTick   = time.Second
	defaultWarnAt = 10 * time.Second
)

// Submitter is satisfied by *Client
type Submitter interface {
	SubmitAnswer(ctx context.Context, sessionID string, sub AnswerSubmission) error
}

// Countdown drives the session timer on the candidate's side. When it reaches
// zero it submits whatever is in progress and forces the session to complete.
type Countdown struct {
	Submitter Submitter
	SessionID string
	Remaining time.Duration

	Tick   time.Duration
	WarnAt time.Duration

	OnTick    func(remaining time.Duration)
	OnWarning func(remaining time.Duration)

	// Current returns the question on screen and the unsent answer text
	Current func() (questionID, answerText string)
}

// Run blocks until the timer expires or ctx is cancelled. It returns nil after
// a successful forced submission and ctx.Err() on cancellation.
func (c *Countdown) Run(ctx context.Context) error {
	if c.Submitter == nil {
		return errors.New("countdown: submitter is required")
	}
	tick := c.Tick
	if tick <= 0 {
		tick = defaultTick
	}
	warnAt := c.WarnAt
	if warnAt <= 0 {
		warnAt = defaultWarnAt
	}

	remaining := c.Remaining
	warned := remaining <= warnAt
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for remaining > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		remaining -= tick
		if remaining < 0 {
			remaining = 0
		}
		if c.OnTick != nil {
			c.OnTick(remaining)
		}
		if !warned && remaining <= warnAt && remaining > 0 {
			warned = true
			if c.OnWarning != nil {
				c.OnWarning(remaining)
			}
		}
	}

	sub := AnswerSubmission{RemainingSeconds: 0, Completed: true}
	if c.Current != nil {
		sub.QuestionID, sub.AnswerText = c.Current()
	}
	return c.Submitter.SubmitAnswer(ctx, c.SessionID, sub)
}

// RemainingSeconds converts a countdown value to the whole seconds the API expects
func RemainingSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Second)
}
