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

// Package longrunning supports long-running operations: actions that a
// service finishes asynchronously after the call that started them has
// returned.
//
// An Operation is created from the name the service hands back and a
// StatusFunc that fetches the operation's current state. Callers either
// block in Wait or register one or more OnComplete callbacks; every
// registration shares a single polling loop, and each callback runs
// exactly once after the operation reaches its terminal state.
//
//	op := longrunning.NewOperation(ctx, name, parent, check,
//		longrunning.WithInterval(2*time.Second),
//		longrunning.WithTimeout(10*time.Minute))
//	st, err := op.Wait(ctx)
//
// Errors from the StatusFunc are reported as *TransportError, failures
// reported by the service as *ProviderOperationError, and exceeding a
// configured bound as *PollTimeoutError. Nothing is retried.
package longrunning // import "github.com/googlecloudplatform/gcloud-golang/longrunning"
