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

package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gax "github.com/googleapis/gax-go/v2"
)

// Retry calls the supplied function f repeatedly according to the provided
// backoff parameters. It returns when one of the following occurs:
// When f's first return value is true, Retry immediately returns with f's second
// return value.
// When the provided context is done, Retry returns with an error that
// includes both ctx.Error() and the last error returned by f.
func Retry(ctx context.Context, bo gax.Backoff, f func() (stop bool, err error)) error {
	return RetryN(ctx, bo, 0, f)
}

// RetryN is like Retry, but gives up once f has failed maxAttempts times in
// a row and returns a *RetryExhaustedError. A maxAttempts of zero or less
// means no limit.
func RetryN(ctx context.Context, bo gax.Backoff, maxAttempts int, f func() (stop bool, err error)) error {
	return retryN(ctx, bo, maxAttempts, f, gax.Sleep)
}

func retryN(ctx context.Context, bo gax.Backoff, maxAttempts int, f func() (stop bool, err error),
	sleep func(context.Context, time.Duration) error) error {
	var failures []error
	for {
		stop, err := f()
		if stop {
			return err
		}
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			failures = append(failures, err)
		}
		if maxAttempts > 0 && len(failures) >= maxAttempts {
			return &RetryExhaustedError{Attempts: maxAttempts, Errors: failures}
		}
		if ctxErr := sleep(ctx, bo.Pause()); ctxErr != nil {
			if len(failures) > 0 {
				return wrappedCallErr{ctxErr: ctxErr, wrappedErr: failures[len(failures)-1]}
			}
			return ctxErr
		}
	}
}

// RetryExhaustedError is returned by RetryN when every allowed attempt failed.
type RetryExhaustedError struct {
	// Attempts is the limit that was reached.
	Attempts int
	// Errors holds the failures in the order they happened.
	Errors []error
}

func (e *RetryExhaustedError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "retry exhausted after %d attempts", e.Attempts)
	if n := len(e.Errors); n > 0 {
		fmt.Fprintf(&sb, "; last error: %v", e.Errors[n-1])
	}
	return sb.String()
}

// Unwrap returns the most recent failure.
func (e *RetryExhaustedError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[len(e.Errors)-1]
}

// Use this error type to return an error which allows introspection of both
// the context error and the error from the service.
type wrappedCallErr struct {
	ctxErr     error
	wrappedErr error
}

func (e wrappedCallErr) Error() string {
	return fmt.Sprintf("retry failed with %v; last error: %v", e.ctxErr, e.wrappedErr)
}

func (e wrappedCallErr) Unwrap() error {
	return e.wrappedErr
}

// Is allows errors.Is to match the error from the call as well as context
// sentinel errors.
func (e wrappedCallErr) Is(err error) bool {
	return e.ctxErr == err || e.wrappedErr == err
}
