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

package transport

import (
	"errors"
	"io"
	"net/url"
	"strings"

	"google.golang.org/api/googleapi"
)

var retryCodes = []int{408, 429, 500, 502, 503, 504}

// ShouldRetry reports whether err is a transient failure worth another
// attempt: a 408, 429 or 5xx response, an unexpected EOF, a refused or
// reset connection, or an error that says it is temporary.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	// http2 refuses streams on a fresh connection before SETTINGS arrive.
	if strings.Contains(err.Error(), "http2: stream closed") {
		return true
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		for _, code := range retryCodes {
			if gerr.Code == code {
				return true
			}
		}
		return false
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		for _, s := range []string{"connection refused", "connection reset"} {
			if strings.Contains(uerr.Error(), s) {
				return true
			}
		}
	}
	var terr interface{ Temporary() bool }
	if errors.As(err, &terr) {
		return terr.Temporary()
	}
	return false
}
