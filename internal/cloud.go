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

// Package internal provides support for the cloud packages.
//
// Users should not import this package directly.
package internal

import (
	"fmt"
	"runtime"
)

// Version is the current release of this module.
const Version = "0.1.0"

// UserAgent is sent with every request unless the caller overrides it.
var UserAgent = fmt.Sprintf("gcloud-golang/%s", Version)

// GoogleClientHeader returns the value of the x-goog-api-client header for
// one logical call. invocationID is shared by every attempt of that call so
// the service can recognize retries.
func GoogleClientHeader(invocationID string) string {
	h := fmt.Sprintf("gl-go/%s gccl/%s", goVersion(), Version)
	if invocationID != "" {
		h += " gccl-invocation-id/" + invocationID
	}
	return h
}

func goVersion() string {
	v := runtime.Version()
	if len(v) > 2 && v[:2] == "go" {
		return v[2:]
	}
	return v
}
