// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package longrunning

import (
	"context"
	"log/slog"
	"time"

	gax "github.com/googleapis/gax-go/v2"
	"github.com/googleapis/gax-go/v2/internallog"
)

// DefaultInterval is the time between status checks when no interval or
// backoff is configured.
const DefaultInterval = time.Second

// A PollOption configures how an Operation polls.
type PollOption interface {
	apply(*pollSettings)
}

type pollSettings struct {
	interval    time.Duration
	backoff     *gax.Backoff
	maxAttempts int
	timeout     time.Duration
	logger      *slog.Logger

	sleep func(context.Context, time.Duration) error
	now   func() time.Time
}

func newPollSettings(opts []PollOption) *pollSettings {
	s := &pollSettings{
		interval: DefaultInterval,
		sleep:    gax.Sleep,
		now:      time.Now,
	}
	for _, o := range opts {
		o.apply(s)
	}
	s.logger = internallog.New(s.logger)
	return s
}

// pauser returns the source of pauses for one polling loop.
func (s *pollSettings) pauser() func() time.Duration {
	if s.backoff != nil {
		bo := *s.backoff
		return bo.Pause
	}
	d := s.interval
	return func() time.Duration { return d }
}

// WithInterval polls at a fixed interval.
func WithInterval(d time.Duration) PollOption {
	return withInterval(d)
}

type withInterval time.Duration

func (w withInterval) apply(s *pollSettings) {
	s.interval = time.Duration(w)
	s.backoff = nil
}

// WithBackoff polls with exponentially growing pauses.
func WithBackoff(bo gax.Backoff) PollOption {
	return withBackoff{bo}
}

type withBackoff struct{ bo gax.Backoff }

func (w withBackoff) apply(s *pollSettings) {
	bo := w.bo
	s.backoff = &bo
}

// WithMaxAttempts fails the operation with a *PollTimeoutError after n
// status checks that did not report completion. Zero, the default, means
// no limit.
func WithMaxAttempts(n int) PollOption {
	return withMaxAttempts(n)
}

type withMaxAttempts int

func (w withMaxAttempts) apply(s *pollSettings) { s.maxAttempts = int(w) }

// WithTimeout fails the operation with a *PollTimeoutError if it is not
// done within d of polling starting. Zero, the default, means no limit.
func WithTimeout(d time.Duration) PollOption {
	return withTimeout(d)
}

type withTimeout time.Duration

func (w withTimeout) apply(s *pollSettings) { s.timeout = time.Duration(w) }

// WithLogger sets the logger for poll events. By default logging is
// controlled by the GOOGLE_SDK_GO_LOGGING_LEVEL environment variable.
func WithLogger(l *slog.Logger) PollOption {
	return withLogger{l}
}

type withLogger struct{ l *slog.Logger }

func (w withLogger) apply(s *pollSettings) { s.logger = w.l }

// withSleep replaces the pause between status checks. Tests only.
type withSleep func(context.Context, time.Duration) error

func (w withSleep) apply(s *pollSettings) { s.sleep = w }
