package forms

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	// DefaultSubmitDelay mimics network latency.
	DefaultSubmitDelay = 2 * time.Second

	// DefaultFailureRate is the share of simulated submissions that fail.
	DefaultFailureRate = 0.1

	// StatusDisplay is how long success and error messages stay visible.
	StatusDisplay = 5 * time.Second
)

// ErrSubmissionFailed is returned by Simulated for the failing share of sends.
var ErrSubmissionFailed = errors.New("forms: simulated submission failure")

// Submission is a validated form ready to send.
type Submission struct {
	Form   string
	Values Values
}

// Submitter delivers submissions.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) error
}

// Simulated is a Submitter that waits and then fails at random. It stands
// in until a real transport exists.
type Simulated struct {
	Delay       time.Duration
	FailureRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulated returns a Simulated submitter. Negative values use the
// defaults; a nil rng uses a randomly seeded source.
func NewSimulated(delay time.Duration, failureRate float64, rng *rand.Rand) *Simulated {
	if delay < 0 {
		delay = DefaultSubmitDelay
	}
	if failureRate < 0 {
		failureRate = DefaultFailureRate
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Simulated{Delay: delay, FailureRate: failureRate, rng: rng}
}

// Submit waits Delay, then fails with probability FailureRate.
func (s *Simulated) Submit(ctx context.Context, _ Submission) error {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}

	if s.FailureRate <= 0 {
		return nil
	}
	s.mu.Lock()
	roll := s.rng.Float64()
	s.mu.Unlock()
	if roll < s.FailureRate {
		return ErrSubmissionFailed
	}
	return nil
}
