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
)

// A Page is the result of one list call.
type Page[T any] struct {
	// Items are the results in the order the service returned them.
	Items []T
	// NextPageToken is empty on the last page.
	NextPageToken string
	// Raw is the undecoded service response, for callers that need fields
	// beyond the items.
	Raw any
}

// FetchFunc issues one list call. On failure it may still return a Page
// whose Raw field holds the service response.
type FetchFunc[T any] func(ctx context.Context, req Request) (*Page[T], error)

// ListResult is what List returns for a single page.
type ListResult[T any] struct {
	Items []T
	// Next is the request for the following page, or nil if this was the
	// last one. It is the original request with pageToken replaced.
	Next Request
	Raw  any
}

// A Stream exposes a list call as single pages (List) or as a drained
// sequence of items (Drain). A Stream holds no traversal state and may be
// shared.
type Stream[T any] struct {
	fetch FetchFunc[T]
}

// NewStream returns a Stream backed by fetch.
func NewStream[T any](fetch FetchFunc[T]) *Stream[T] {
	return &Stream[T]{fetch: fetch}
}

// List fetches exactly one page.
//
// If the fetch fails, List returns the error together with a ListResult
// carrying only the raw response, or a nil ListResult when the fetch
// returned no response at all.
func (s *Stream[T]) List(ctx context.Context, req Request) (*ListResult[T], error) {
	p, err := s.fetch(ctx, req)
	if err != nil {
		if p == nil || p.Raw == nil {
			return nil, err
		}
		return &ListResult[T]{Raw: p.Raw}, err
	}
	if p == nil {
		return &ListResult[T]{}, nil
	}
	res := &ListResult[T]{Items: p.Items, Raw: p.Raw}
	if p.NextPageToken != "" {
		res.Next = req.With(PageTokenKey, p.NextPageToken)
	}
	return res, nil
}

// Drain starts a new traversal that begins at req and follows page tokens
// until a page without one. Every call starts over; no state is shared
// with earlier traversals.
func (s *Stream[T]) Drain(ctx context.Context, req Request) *Iterator[T] {
	return newIterator(ctx, s.fetch, req)
}
