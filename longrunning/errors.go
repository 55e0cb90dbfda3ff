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
	"errors"
	"fmt"
	"time"

	"github.com/googleapis/gax-go/v2/apierror"
	spb "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc/status"
)

// ErrNoMetadata is returned by Status.DecodeMetadata when the status does
// not carry metadata.
var ErrNoMetadata = errors.New("longrunning: operation has no metadata")

// ErrNoResponse is returned by Status.DecodeResponse when the status does
// not carry a response.
var ErrNoResponse = errors.New("longrunning: operation has no response")

// TransportError reports that checking the status of an operation failed.
// The operation itself may still be running.
type TransportError struct {
	// Name is the operation name.
	Name string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("longrunning: checking operation %q: %v", e.Name, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError returns the service error behind e, if there is one.
func (e *TransportError) APIError() (*apierror.APIError, bool) {
	return apierror.FromError(e.Err)
}

// ProviderOperationError reports that the service completed the operation
// with an error.
type ProviderOperationError struct {
	// Code is the service's error code: an HTTP status for JSON APIs, a
	// google.rpc.Code for gRPC and google.longrunning payloads.
	Code    int
	Message string
	// Details is the service's error payload, unmodified.
	Details any

	proto *spb.Status
}

func (e *ProviderOperationError) Error() string {
	return fmt.Sprintf("longrunning: operation failed: code = %d desc = %s", e.Code, e.Message)
}

// GRPCStatus returns the google.rpc.Status the service reported, or nil if
// the error did not come from one. It lets status.FromError inspect e.
func (e *ProviderOperationError) GRPCStatus() *status.Status {
	if e.proto == nil {
		return nil
	}
	return status.FromProto(e.proto)
}

// PollTimeoutError reports that the operation did not finish within the
// bounds set by WithMaxAttempts or WithTimeout.
type PollTimeoutError struct {
	Name     string
	Attempts int
	Elapsed  time.Duration
	// Last is the last status received, if any.
	Last *Status
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("longrunning: operation %q not done after %d status checks in %v", e.Name, e.Attempts, e.Elapsed.Round(time.Millisecond))
}
