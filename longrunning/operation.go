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
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/googlecloudplatform/gcloud-golang/internal/trace"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
)

// State is the lifecycle state of an Operation.
type State int

const (
	// Pending operations have not been checked yet.
	Pending State = iota
	// Running operations have been checked at least once and are not done.
	Running
	// Done operations completed successfully.
	Done
	// Failed operations completed with an error, either reported by the
	// service or raised while checking their status.
	Failed
)

var stateName = map[State]string{
	Pending: "PENDING",
	Running: "RUNNING",
	Done:    "DONE",
	Failed:  "FAILED",
}

func (s State) String() string {
	if n, ok := stateName[s]; ok {
		return n
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) terminal() bool { return s == Done || s == Failed }

// Status is one observation of an operation, as returned by a StatusFunc.
type Status struct {
	// Name is the operation name the service reported, if any.
	Name string
	// Done reports whether the operation has finished.
	Done bool
	// Metadata is the progress information the service attached, in the
	// service's own representation (json.RawMessage or *anypb.Any for the
	// adapters in this package).
	Metadata any
	// Response is the result of a successful operation.
	Response any
	// Err is set when the operation finished with an error.
	Err *ProviderOperationError
	// Raw is the whole status payload.
	Raw any
}

// DecodeMetadata stores the metadata in v. JSON metadata is unmarshaled
// with encoding/json; *anypb.Any metadata requires v to be a proto.Message.
func (s *Status) DecodeMetadata(v any) error {
	if s == nil || s.Metadata == nil {
		return ErrNoMetadata
	}
	return decodeInto(s.Metadata, v)
}

// DecodeResponse stores the response in v, following the same rules as
// DecodeMetadata.
func (s *Status) DecodeResponse(v any) error {
	if s == nil || s.Response == nil {
		return ErrNoResponse
	}
	return decodeInto(s.Response, v)
}

func decodeInto(src, v any) error {
	switch src := src.(type) {
	case json.RawMessage:
		return json.Unmarshal(src, v)
	case *anypb.Any:
		m, ok := v.(proto.Message)
		if !ok {
			return fmt.Errorf("longrunning: %T is not a proto.Message", v)
		}
		return src.UnmarshalTo(m)
	}
	return fmt.Errorf("longrunning: cannot decode %T", src)
}

// A StatusFunc fetches the current status of op. It may read op's name and
// parent to build its request.
type StatusFunc func(ctx context.Context, op *Operation) (*Status, error)

// An Operation tracks a long-running operation. Its methods are safe for
// concurrent use.
type Operation struct {
	name   string
	parent string
	check  StatusFunc
	ctx    context.Context
	s      *pollSettings

	mu        sync.Mutex
	state     State
	metadata  any
	final     *Status
	err       error
	callbacks []func(*Status, error)
	polling   bool
	ready     chan struct{}
}

// NewOperation returns a pending Operation. ctx bounds the polling loop:
// if it ends before the operation does, the operation fails with a
// *TransportError wrapping the context's error. Polling does not start
// until OnComplete or Wait is called.
func NewOperation(ctx context.Context, name, parent string, check StatusFunc, opts ...PollOption) *Operation {
	return &Operation{
		name:   name,
		parent: parent,
		check:  check,
		ctx:    ctx,
		s:      newPollSettings(opts),
		state:  Pending,
		ready:  make(chan struct{}),
	}
}

// NewOperationFromStatus is like NewOperation, but seeds the operation
// with the status returned by the call that started it. If that status is
// already done the operation is terminal and will never be polled.
func NewOperationFromStatus(ctx context.Context, name, parent string, initial *Status, check StatusFunc, opts ...PollOption) *Operation {
	op := NewOperation(ctx, name, parent, check, opts...)
	if initial == nil {
		return op
	}
	op.mu.Lock()
	op.metadata = initial.Metadata
	op.mu.Unlock()
	if initial.Done {
		op.finish(initial, completionError(initial))
	}
	return op
}

// Name returns the name the service assigned to the operation.
func (op *Operation) Name() string { return op.name }

// Parent returns the resource that owns the operation, such as a zone or
// project path. It may be empty.
func (op *Operation) Parent() string { return op.parent }

// State returns the current state.
func (op *Operation) State() State {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.state
}

// Done reports whether the operation reached a terminal state.
func (op *Operation) Done() bool { return op.State().terminal() }

// Metadata returns the metadata of the most recent status, or nil.
func (op *Operation) Metadata() any {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.metadata
}

// OnComplete registers cb to be called once the operation is terminal. cb
// is always called on a goroutine of its own, never by OnComplete itself,
// and exactly once per registration. The first registration starts
// polling; later ones share the same loop.
//
// For a successful operation cb receives the final status and a nil
// error. A provider-reported failure passes the final status and its
// *ProviderOperationError; other failures pass a nil status.
func (op *Operation) OnComplete(cb func(*Status, error)) {
	op.mu.Lock()
	if op.state.terminal() {
		st, err := op.final, op.err
		op.mu.Unlock()
		go cb(st, err)
		return
	}
	op.callbacks = append(op.callbacks, cb)
	start := op.startLocked()
	op.mu.Unlock()
	if start {
		go op.poll()
	}
}

// Wait blocks until the operation is terminal and returns its result, as
// passed to OnComplete callbacks. If ctx ends first Wait returns ctx.Err();
// the operation keeps polling.
func (op *Operation) Wait(ctx context.Context) (*Status, error) {
	select {
	case <-op.Ready():
		return op.Result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Ready starts polling if needed and returns a channel that is closed
// when the operation is terminal.
func (op *Operation) Ready() <-chan struct{} {
	op.mu.Lock()
	start := op.startLocked()
	op.mu.Unlock()
	if start {
		go op.poll()
	}
	return op.ready
}

// Result returns the terminal result. Before the operation is terminal it
// returns a nil status and a nil error.
func (op *Operation) Result() (*Status, error) {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.final, op.err
}

// startLocked reports whether the caller must start the polling loop.
func (op *Operation) startLocked() bool {
	if op.polling || op.state.terminal() {
		return false
	}
	op.polling = true
	return true
}

func (op *Operation) poll() {
	ctx := op.ctx
	if op.s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, op.s.timeout)
		defer cancel()
	}
	start := op.s.now()
	pause := op.s.pauser()
	var last *Status
	for attempt := 1; ; attempt++ {
		st, err := op.checkOnce(ctx, attempt)
		if err != nil {
			if op.timedOut(ctx) {
				err = op.timeoutError(attempt-1, start, last)
			} else {
				err = &TransportError{Name: op.name, Err: err}
			}
			op.finish(nil, err)
			return
		}
		op.observe(st)
		if st.Done {
			op.finish(st, completionError(st))
			return
		}
		last = st
		if op.s.maxAttempts > 0 && attempt >= op.s.maxAttempts {
			op.finish(nil, op.timeoutError(attempt, start, last))
			return
		}
		if err := op.s.sleep(ctx, pause()); err != nil {
			if op.timedOut(ctx) {
				err = op.timeoutError(attempt, start, last)
			} else {
				err = &TransportError{Name: op.name, Err: err}
			}
			op.finish(nil, err)
			return
		}
	}
}

func (op *Operation) checkOnce(ctx context.Context, attempt int) (st *Status, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx = trace.StartSpan(ctx, "longrunning.Operation.check",
		attribute.String("gcloud.operation", op.name),
		attribute.Int("gcloud.attempt", attempt))
	defer func() { trace.EndSpan(ctx, err) }()

	st, err = op.check(ctx, op)
	if err != nil {
		op.s.logger.DebugContext(ctx, "operation status check failed", "name", op.name, "attempt", attempt, "error", err)
		return nil, err
	}
	if st == nil {
		return nil, errors.New("longrunning: status check returned no status")
	}
	op.s.logger.DebugContext(ctx, "operation status", "name", op.name, "attempt", attempt, "done", st.Done)
	return st, nil
}

// timedOut reports whether ctx ended because of WithTimeout rather than
// the caller's context.
func (op *Operation) timedOut(ctx context.Context) bool {
	return op.s.timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) && op.ctx.Err() == nil
}

func (op *Operation) timeoutError(attempts int, start time.Time, last *Status) error {
	return &PollTimeoutError{
		Name:     op.name,
		Attempts: attempts,
		Elapsed:  op.s.now().Sub(start),
		Last:     last,
	}
}

func (op *Operation) observe(st *Status) {
	op.mu.Lock()
	defer op.mu.Unlock()
	op.metadata = st.Metadata
	if op.state == Pending {
		op.state = Running
	}
}

// finish moves the operation to its terminal state and notifies every
// registered callback. Only the first call has any effect.
func (op *Operation) finish(st *Status, err error) {
	op.mu.Lock()
	if op.state.terminal() {
		op.mu.Unlock()
		return
	}
	if err != nil {
		op.state = Failed
	} else {
		op.state = Done
	}
	op.final, op.err = st, err
	cbs := op.callbacks
	op.callbacks = nil
	op.polling = false
	close(op.ready)
	op.mu.Unlock()

	op.s.logger.Debug("operation complete", "name", op.name, "state", op.State().String())
	for _, cb := range cbs {
		cb(st, err)
	}
}

// completionError returns the error a done status completes with.
func completionError(st *Status) error {
	if st.Err != nil {
		return st.Err
	}
	return nil
}
