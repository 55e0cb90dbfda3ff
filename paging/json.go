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

package paging

import (
	"context"
	"encoding/json"
	"fmt"
)

// A CallFunc issues one request and returns the raw JSON response body.
// On failure it may return the error body alongside the error.
type CallFunc func(ctx context.Context, req Request) (json.RawMessage, error)

// JSONFetch adapts a JSON list call to a FetchFunc. field names the member
// of the response object that holds the results ("items", "tables",
// "datasets", ...). A response without that member is an empty page. The
// page token is read from "nextPageToken"; Page.Raw is the undecoded body.
func JSONFetch[T any](call CallFunc, field string) FetchFunc[T] {
	return JSONFetchMap(call, field, func(v T) (T, error) { return v, nil })
}

// JSONFetchMap is like JSONFetch, but decodes each result as R and converts
// it with conv.
func JSONFetchMap[R, T any](call CallFunc, field string, conv func(R) (T, error)) FetchFunc[T] {
	return func(ctx context.Context, req Request) (*Page[T], error) {
		raw, err := call(ctx, req)
		if err != nil {
			if len(raw) == 0 {
				return nil, err
			}
			return &Page[T]{Raw: raw}, err
		}
		p := &Page[T]{Raw: raw}
		if len(raw) == 0 {
			return p, nil
		}
		var body map[string]json.RawMessage
		if err := json.Unmarshal(raw, &body); err != nil {
			return p, fmt.Errorf("paging: decoding list response: %w", err)
		}
		if tok, ok := body["nextPageToken"]; ok {
			if err := json.Unmarshal(tok, &p.NextPageToken); err != nil {
				return p, fmt.Errorf("paging: decoding nextPageToken: %w", err)
			}
		}
		var rs []R
		if items, ok := body[field]; ok {
			if err := json.Unmarshal(items, &rs); err != nil {
				return p, fmt.Errorf("paging: decoding %q: %w", field, err)
			}
		}
		p.Items = make([]T, 0, len(rs))
		for _, r := range rs {
			v, err := conv(r)
			if err != nil {
				return p, err
			}
			p.Items = append(p.Items, v)
		}
		return p, nil
	}
}
